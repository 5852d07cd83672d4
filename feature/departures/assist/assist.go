package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"opsboard/core/timegap"
	"opsboard/core/utils"
	"opsboard/feature/departures/models"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ErrEmpty is returned when the model answers without any usable departure.
var ErrEmpty = errors.New("assist: no departures extracted")

const prompt = `Extract every route departure from the spreadsheet text below.
Answer with a JSON array only. Each element has the string keys
rota, data (YYYY-MM-DD), inicio (HH:MM:SS), motorista, placa, saida (HH:MM:SS),
motivo, observacao, operacao. Use "" for unknown values and "00:00:00" for unknown times.
Lines without a date continue the observacao of the previous departure.

TEXT:
`

// Generator produces a JSON answer for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("assist API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends prompt and returns the JSON text of the first candidate.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}

// Parser extracts departures through a Generator.
type Parser struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

// NewParser creates a Parser. A zero timeout means no deadline beyond ctx.
func NewParser(gen Generator, timeout time.Duration, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{gen: gen, timeout: timeout, logger: logger}
}

// Parse asks the model for departures and normalizes the answer. Records
// without a route or a valid date are dropped like the deterministic parser does.
func (p *Parser) Parse(ctx context.Context, text string) ([]models.Departure, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	answer, err := p.gen.Generate(ctx, prompt+text)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(stripFence(answer)), &raw); err != nil {
		return nil, fmt.Errorf("assist: malformed answer: %w", err)
	}

	out := make([]models.Departure, 0, len(raw))
	for _, r := range raw {
		d := models.Departure{
			Rota:       field(r, "rota"),
			Data:       isoDate(field(r, "data")),
			Inicio:     timegap.Normalize(field(r, "inicio")),
			Motorista:  field(r, "motorista"),
			Placa:      field(r, "placa"),
			Saida:      timegap.Normalize(field(r, "saida")),
			Motivo:     field(r, "motivo"),
			Observacao: field(r, "observacao"),
			Operacao:   field(r, "operacao"),
		}
		if d.Rota == "" || d.Data == "" {
			continue
		}
		out = append(out, d)
	}

	p.logger.Debug("Assist parse finished", zap.Int("answered", len(raw)), zap.Int("kept", len(out)))
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

func field(r map[string]any, key string) string {
	s, _ := utils.AsString(r[key])
	return strings.TrimSpace(s)
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func isoDate(s string) string {
	for _, layout := range []string{"2006-01-02", "02/01/2006", "02-01-2006"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return ""
}
