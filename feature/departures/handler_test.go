package departures_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"opsboard/core/server"
	"opsboard/feature/departures"
	"opsboard/feature/departures/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func newApp(t *testing.T, e *env) *fiber.App {
	t.Helper()
	app := fiber.New()
	require.NoError(t, departures.NewFeature(e.service).Load(app))
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHandler_Lifecycle(t *testing.T) {
	e := newEnv(t, envOptions{provision: true})
	app := newApp(t, e)

	resp, err := app.Test(jsonRequest("PUT", "/departures", `{"rota":"9001","data":"2024-03-15","inicio":"08:00"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var saved map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	id := saved["id"]
	require.NotEmpty(t, id)

	resp, err = app.Test(httptest.NewRequest("GET", "/departures/unlinked", nil))
	require.NoError(t, err)
	var unlinked server.ReadResponse[models.Departure]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&unlinked))
	require.Len(t, unlinked.Items, 1)

	resp, err = app.Test(jsonRequest("PATCH", "/departures/"+id, `{"field":"saida","value":"08:40"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var edited models.Departure
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&edited))
	assert.Equal(t, "00:40:00", edited.Tempo)
	assert.Equal(t, "Atrasado", edited.StatusOp)

	resp, err = app.Test(httptest.NewRequest("POST", "/departures/"+id+"/archive", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/departures?live=true", nil))
	require.NoError(t, err)
	var list server.ReadResponse[models.Departure]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Empty(t, list.Items)
	assert.False(t, list.Degraded)
}

func TestHandler_Errors(t *testing.T) {
	e := newEnv(t, envOptions{provision: true})
	app := newApp(t, e)
	id, err := e.service.UpdateDeparture(context.Background(), models.Departure{Rota: "9001", Data: day})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"InvalidBody", jsonRequest("PUT", "/departures", `{`), http.StatusBadRequest},
		{"MissingRoute", jsonRequest("PUT", "/departures", `{"data":"2024-03-15"}`), http.StatusBadRequest},
		{"NotEditable", jsonRequest("PATCH", "/departures/"+id, `{"field":"tempo","value":"x"}`), http.StatusBadRequest},
		{"EditUnknownItem", jsonRequest("PATCH", "/departures/77", `{"field":"saida","value":"09:00"}`), http.StatusNotFound},
		{"UnknownItem", httptest.NewRequest("DELETE", "/departures/77", nil), http.StatusNotFound},
		{"BadID", httptest.NewRequest("DELETE", "/departures/abc", nil), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHandler_ReadsDegrade(t *testing.T) {
	e := newEnv(t, envOptions{})
	app := newApp(t, e)

	resp, err := app.Test(httptest.NewRequest("GET", "/departures/routes", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var routes server.ReadResponse[models.RouteMapping]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&routes))
	assert.True(t, routes.Degraded)
	assert.NotEmpty(t, routes.Reason)
}

func TestHandler_ParseAndImport(t *testing.T) {
	e := newEnv(t, envOptions{provision: true})
	app := newApp(t, e)

	legacy, err := charmap.Windows1252.NewEncoder().String("24133D 15/03/2024 08:00 08:15 JOÃO SILVA ABC1234")
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("POST", "/departures/parse", strings.NewReader(legacy)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var parsed departures.ParseResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, departures.SourceParser, parsed.Source)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, "JOÃO SILVA", parsed.Items[0].Motorista)
	assert.Empty(t, e.items(t, testLists.Departures), "parse never saves")

	resp, err = app.Test(httptest.NewRequest("POST", "/departures/import?assist=true", strings.NewReader(legacy)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report departures.ImportReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Saved)
	assert.Len(t, e.items(t, testLists.Departures), 1)
}
