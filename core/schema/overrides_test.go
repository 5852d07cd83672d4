package schema_test

import (
	"testing"

	"opsboard/core/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrides(t *testing.T) {
	o, err := schema.ParseOverrides(" status.Operação = OperacaoSigla ; ;saidas.observacao=Observa_x00e7__x00e3_o")
	require.NoError(t, err)

	field, ok := o.Lookup("status", "operacao")
	assert.True(t, ok)
	assert.Equal(t, "OperacaoSigla", field)

	field, ok = o.Lookup("saidas", "Observação")
	assert.True(t, ok)
	assert.Equal(t, "Observa_x00e7__x00e3_o", field)

	_, ok = o.Lookup("tarefas", "operacao")
	assert.False(t, ok)
}

func TestParseOverrides_Invalid(t *testing.T) {
	for _, s := range []string{"status.operacao", "operacao=X", "status.=X", "status.operacao="} {
		_, err := schema.ParseOverrides(s)
		assert.Error(t, err, s)
	}
}
