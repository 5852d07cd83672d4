package lists_test

import (
	"testing"

	"opsboard/core/lists"

	"github.com/stretchr/testify/assert"
)

func TestConfig_ListID(t *testing.T) {
	cfg := lists.Config{Tasks: "Tarefas", Departures: "SaidasRotas"}

	id, err := cfg.ListID(lists.Tasks)
	assert.NoError(t, err)
	assert.Equal(t, "Tarefas", id)

	_, err = cfg.ListID(lists.Status)
	assert.ErrorContains(t, err, "no list configured")

	_, err = cfg.ListID(lists.Kind("other"))
	assert.ErrorContains(t, err, "unknown list kind")
}
