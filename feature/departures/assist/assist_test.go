package assist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"opsboard/feature/departures/assist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	answer string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func TestParser_NormalizesAnswer(t *testing.T) {
	gen := &fakeGenerator{answer: "```json\n" + `[
		{"rota": " 24133D ", "data": "15/03/2024", "inicio": "8:00", "saida": "08:15", "placa": "ABC1234", "motorista": "JOAO"},
		{"rota": "", "data": "2024-03-15"},
		{"rota": "9001", "data": "not a date"},
		{"rota": "9002", "data": "2024-03-16", "inicio": null}
	]` + "\n```"}
	p := assist.NewParser(gen, time.Second, nil)

	got, err := p.Parse(context.Background(), "raw text")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "24133D", got[0].Rota)
	assert.Equal(t, "2024-03-15", got[0].Data)
	assert.Equal(t, "08:00:00", got[0].Inicio)
	assert.Equal(t, "08:15:00", got[0].Saida)
	assert.Equal(t, "00:00:00", got[1].Inicio)
	assert.Contains(t, gen.prompt, "raw text")
}

func TestParser_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		want string
	}{
		{"GeneratorError", &fakeGenerator{err: errors.New("quota exceeded")}, "quota exceeded"},
		{"NotJSON", &fakeGenerator{answer: "sorry, I cannot help"}, "malformed answer"},
		{"NothingUsable", &fakeGenerator{answer: `[{"rota": "x"}]`}, assist.ErrEmpty.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := assist.NewParser(tt.gen, 0, nil).Parse(context.Background(), "text")
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := assist.NewGemini(context.Background(), assist.Config{})
	assert.Error(t, err)
}
