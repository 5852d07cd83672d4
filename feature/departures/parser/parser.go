package parser

import (
	"regexp"
	"strings"
	"time"

	"opsboard/core/timegap"
	"opsboard/feature/departures/models"
)

var (
	dateRe  = regexp.MustCompile(`\b(\d{2})/(\d{2})/(\d{4})\b|\b(\d{2})-(\d{2})-(\d{4})\b`)
	clockRe = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
)

// minTabCells is the cell count from which a row is read positionally.
const minTabCells = 3

// Parse extracts departures from text.
func Parse(text string) []models.Departure {
	var out []models.Departure
	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		loc := dateRe.FindStringSubmatchIndex(line)
		if loc == nil {
			if len(out) > 0 {
				appendNote(&out[len(out)-1], line)
			}
			continue
		}

		if cells := strings.Split(line, "\t"); len(cells) >= minTabCells {
			out = append(out, tabulated(cells))
			continue
		}
		out = append(out, heuristic(line, loc))
	}

	valid := make([]models.Departure, 0, len(out))
	for _, d := range out {
		if d.Rota != "" && d.Data != "" {
			valid = append(valid, d)
		}
	}
	return valid
}

// ParseBytes decodes raw pasted bytes and parses them.
func ParseBytes(b []byte) []models.Departure {
	return Parse(Decode(b))
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.ReplaceAll(text, "\r", "\n"), "\n")
}

func tabulated(cells []string) models.Departure {
	cell := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	return models.Departure{
		Rota:       cell(0),
		Data:       isoDate(cell(1)),
		Inicio:     clock(cell(2)),
		Motorista:  cell(3),
		Placa:      cell(4),
		Saida:      clock(cell(5)),
		Motivo:     cell(6),
		Observacao: cell(7),
		Operacao:   cell(8),
	}
}

func heuristic(line string, loc []int) models.Departure {
	d := models.Departure{
		Rota:   strings.TrimSpace(line[:loc[0]]),
		Data:   isoDate(line[loc[0]:loc[1]]),
		Inicio: timegap.ZeroTime,
		Saida:  timegap.ZeroTime,
	}

	var rest []string
	times := 0
	for _, tok := range strings.Fields(line[loc[1]:]) {
		if clockRe.MatchString(tok) {
			switch times {
			case 0:
				d.Inicio = timegap.Normalize(tok)
			case 1:
				d.Saida = timegap.Normalize(tok)
			}
			times++
			continue
		}
		rest = append(rest, tok)
	}

	if n := len(rest); n > 0 {
		d.Placa = rest[n-1]
		d.Motorista = strings.Join(rest[:n-1], " ")
	}
	return d
}

func appendNote(d *models.Departure, line string) {
	note := strings.Join(strings.Fields(line), " ")
	if d.Observacao == "" {
		d.Observacao = note
		return
	}
	d.Observacao += " " + note
}

// isoDate converts the first DD/MM/YYYY or DD-MM-YYYY token of s to
// YYYY-MM-DD, or returns "" when there is none or it is not a real day.
func isoDate(s string) string {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	// Slash and dash forms fill separate groups.
	if m[1] == "" {
		m = m[3:]
	}
	iso := m[3] + "-" + m[2] + "-" + m[1]
	if _, err := time.Parse("2006-01-02", iso); err != nil {
		return ""
	}
	return iso
}

func clock(s string) string {
	if !clockRe.MatchString(s) {
		return timegap.ZeroTime
	}
	return timegap.Normalize(s)
}
