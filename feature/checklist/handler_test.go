package checklist_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opsboard/core/server"
	"opsboard/feature/checklist"
	"opsboard/feature/checklist/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, e *env) *fiber.App {
	t.Helper()
	app := fiber.New()
	require.NoError(t, checklist.NewFeature(e.service).Load(app))
	return app
}

func TestHandler_Reads(t *testing.T) {
	e := newEnv(t, true)
	e.seed(t)
	app := newApp(t, e)

	resp, err := app.Test(httptest.NewRequest("GET", "/checklist/tasks", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var tasks server.ReadResponse[models.Task]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	assert.Len(t, tasks.Items, 3)

	resp, err = app.Test(httptest.NewRequest("GET", "/checklist/operations?email=carl@example.com", nil))
	require.NoError(t, err)
	var ops server.ReadResponse[models.Operation]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ops))
	require.Len(t, ops.Items, 1)
	assert.Equal(t, "UNA", ops.Items[0].Sigla)
}

func TestHandler_MatrixAndStatus(t *testing.T) {
	e := newEnv(t, true)
	e.seed(t)
	app := newApp(t, e)

	resp, err := app.Test(httptest.NewRequest("POST", "/checklist/matrix?date="+day, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report checklist.MatrixReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 4, report.Created)

	body := `{"tarefaId":"2","operacao":"LAT","dataRef":"2024-03-15","status":"OK","usuario":"ana@example.com"}`
	req := httptest.NewRequest("PUT", "/checklist/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/checklist/status?date="+day, nil))
	require.NoError(t, err)
	var cells server.ReadResponse[models.StatusCell]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cells))
	require.Len(t, cells.Items, 4)

	statuses := map[string]string{}
	for _, c := range cells.Items {
		statuses[c.Key()] = c.Status
	}
	assert.Equal(t, "OK", statuses["2024-03-15_2_LAT"])
	assert.Equal(t, "PR", statuses["2024-03-15_1_LAT"])
}

func TestHandler_WriteErrors(t *testing.T) {
	e := newEnv(t, true)
	app := newApp(t, e)

	req := httptest.NewRequest("PUT", "/checklist/status", strings.NewReader(`{"tarefaId":"1","operacao":"LAT","dataRef":"2024-03-15","status":"??"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/checklist/matrix?date=ontem", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
