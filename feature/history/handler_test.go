package history_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opsboard/core/projection"
	checklist "opsboard/feature/checklist/models"
	"opsboard/feature/history"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, svc *history.Service) *fiber.App {
	t.Helper()
	app := fiber.New()
	require.NoError(t, history.NewFeature(svc).Load(app))
	return app
}

func TestHandler_SaveAndList(t *testing.T) {
	e := newEnv(t, allOps(), nil, true)
	app := newApp(t, e.service)

	body := `{"dataRef":"2024-03-15","tarefaId":"9","tarefa":"Limpeza","status":{"LAT":"OK"}}`
	req := httptest.NewRequest("POST", "/history", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/history?email=ana@example.com", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var got struct {
		Items []struct {
			TarefaID string            `json:"tarefaId"`
			Status   map[string]string `json:"status"`
		} `json:"items"`
		Degraded bool `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.False(t, got.Degraded)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "9", got.Items[0].TarefaID)
	assert.Equal(t, "OK", got.Items[0].Status["LAT"])
}

func TestHandler_Errors(t *testing.T) {
	e := newEnv(t, allOps(), nil, true)
	app := newApp(t, e.service)

	req := httptest.NewRequest("POST", "/history", strings.NewReader(`{"dataRef":"amanhã","tarefaId":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/history/exports", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_ArchiveDay(t *testing.T) {
	matrix := allOps()
	matrix.tasks = projection.OK([]checklist.Task{{ID: "1", Titulo: "Conferir", Ativa: true}})
	e := newEnv(t, matrix, nil, true)
	app := newApp(t, e.service)

	resp, err := app.Test(httptest.NewRequest("POST", "/history/archive?date=2024-03-15&user=ana", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report history.ArchiveReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, history.ArchiveReport{Date: "2024-03-15", Saved: 1}, report)
}

func TestHandler_DegradedReadIsOK(t *testing.T) {
	e := newEnv(t, allOps(), nil, false)
	app := newApp(t, e.service)

	resp, err := app.Test(httptest.NewRequest("GET", "/history", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `"degraded":true`)
	assert.Contains(t, string(raw), `"items":[]`)
}
