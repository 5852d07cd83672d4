package parser_test

import (
	"strings"
	"testing"

	"opsboard/feature/departures/models"
	"opsboard/feature/departures/parser"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

func TestParse_Tabulated(t *testing.T) {
	got := parser.Parse("24133D\t15/03/2024\t08:00\tJOAO SILVA\tABC1234\t08:15\tManutenção\tTroca pneu\tLAT-UNA")

	require.Len(t, got, 1)
	assert.Equal(t, models.Departure{
		Rota:       "24133D",
		Data:       "2024-03-15",
		Inicio:     "08:00:00",
		Motorista:  "JOAO SILVA",
		Placa:      "ABC1234",
		Saida:      "08:15:00",
		Motivo:     "Manutenção",
		Observacao: "Troca pneu",
		Operacao:   "LAT-UNA",
	}, got[0])
}

func TestParse_TabulatedMissingTrailingCells(t *testing.T) {
	got := parser.Parse("9001\t16-03-2024\t7:05")

	require.Len(t, got, 1)
	assert.Equal(t, "2024-03-16", got[0].Data)
	assert.Equal(t, "07:05:00", got[0].Inicio)
	assert.Equal(t, "00:00:00", got[0].Saida)
	assert.Empty(t, got[0].Placa)
	assert.Empty(t, got[0].Operacao)
}

func TestParse_HeuristicWithContinuation(t *testing.T) {
	got := parser.Parse("24133D 15/03/2024 08:00 08:15 JOAO SILVA ABC1234\nobservação extra aqui")

	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, "24133D", d.Rota)
	assert.Equal(t, "2024-03-15", d.Data)
	assert.Equal(t, "08:00:00", d.Inicio)
	assert.Equal(t, "08:15:00", d.Saida)
	assert.Equal(t, "JOAO SILVA", d.Motorista)
	assert.Equal(t, "ABC1234", d.Placa)
	assert.True(t, strings.HasSuffix(d.Observacao, "observação extra aqui"))
}

func TestParse_HeuristicSegmentation(t *testing.T) {
	tests := []struct {
		name string
		line string
		want models.Departure
	}{
		{
			name: "ExtraTimesAreDropped",
			line: "ROTA 7 01-02-2024 6:00 6:30:15 7:00 MARIA ABC",
			want: models.Departure{Rota: "ROTA 7", Data: "2024-02-01", Inicio: "06:00:00", Saida: "06:30:15", Motorista: "MARIA", Placa: "ABC"},
		},
		{
			name: "NoTimes",
			line: "R1   01/02/2024   JOSE   DA SILVA   XYZ9A87",
			want: models.Departure{Rota: "R1", Data: "2024-02-01", Inicio: "00:00:00", Saida: "00:00:00", Motorista: "JOSE DA SILVA", Placa: "XYZ9A87"},
		},
		{
			name: "PlateOnly",
			line: "R2 01/02/2024 08:00 XYZ",
			want: models.Departure{Rota: "R2", Data: "2024-02-01", Inicio: "08:00:00", Saida: "00:00:00", Placa: "XYZ"},
		},
		{
			name: "TwoTabCells",
			line: "R3\t01/02/2024 09:10 ANA QWE",
			want: models.Departure{Rota: "R3", Data: "2024-02-01", Inicio: "09:10:00", Saida: "00:00:00", Motorista: "ANA", Placa: "QWE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.line)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestParse_DropsMalformedRecords(t *testing.T) {
	text := strings.Join([]string{
		"Rota\tData\tInício",      // header, no date
		"orphan note",             // nothing to attach to
		"R1 31/02/2024 08:00 ABC", // not a real day
		"continuation of a dropped row",
		"15/03/2024 08:00 ABC", // no route
		"",
		"R2 15/03/2024 08:00 ABC",
	}, "\r\n")

	got := parser.Parse(text)
	require.Len(t, got, 1)
	assert.Equal(t, "R2", got[0].Rota)
	assert.Empty(t, got[0].Observacao)
}

func TestParse_DateTokens(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"Slash", "R1 15/03/2024 08:00 ABC", "2024-03-15"},
		{"Dash", "R1 15-03-2024 08:00 ABC", "2024-03-15"},
		{"ExtraDigits", "R1 123/04/20245 08:00 ABC", ""},
		{"MixedSeparators", "R1 15/03-2024 08:00 ABC", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parser.Parse(tt.line)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Data)
		})
	}
}

func TestParse_MultipleContinuations(t *testing.T) {
	got := parser.Parse("R1 15/03/2024 ABC\n  primeira   linha \n\nsegunda\nR2 15/03/2024 DEF\nterceira")

	require.Len(t, got, 2)
	assert.Equal(t, "primeira linha segunda", got[0].Observacao)
	assert.Equal(t, "terceira", got[1].Observacao)
}

func TestParse_Deterministic(t *testing.T) {
	text := "24133D 15/03/2024 08:00 08:15 JOAO SILVA ABC1234\nextra\n9001\t16/03/2024\t07:00"
	first := parser.Parse(text)
	for i := 0; i < 10; i++ {
		if diff := cmp.Diff(first, parser.Parse(text)); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestParse_Empty(t *testing.T) {
	assert.Empty(t, parser.Parse(""))
	assert.Empty(t, parser.Parse("\n\n  \n"))
}

func TestDecode(t *testing.T) {
	const text = "R1 15/03/2024 JOÃO ABC\nObservação"

	latin, err := charmap.Windows1252.NewEncoder().String(text)
	require.NoError(t, err)
	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(text)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   []byte
	}{
		{"UTF8", []byte(text)},
		{"UTF8BOM", append([]byte{0xEF, 0xBB, 0xBF}, text...)},
		{"Windows1252", []byte(latin)},
		{"UTF16", []byte(utf16)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, text, parser.Decode(tt.in))

			got := parser.ParseBytes(tt.in)
			require.Len(t, got, 1)
			assert.Equal(t, "JOÃO", got[0].Motorista)
			assert.Equal(t, "Observação", got[0].Observacao)
		})
	}
}
