package server_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"opsboard/core/liststore"
	"opsboard/core/projection"
	"opsboard/core/server"
	"opsboard/core/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Invalid", utils.Invalidf("bad date %q", "x"), http.StatusBadRequest},
		{"Forbidden", fmt.Errorf("save: %w", &liststore.Error{StatusCode: 403}), http.StatusForbidden},
		{"NotFound", &liststore.Error{StatusCode: 404}, http.StatusNotFound},
		{"RemoteFailure", &liststore.Error{StatusCode: 503}, http.StatusBadGateway},
		{"Other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, server.StatusFor(tt.err))
		})
	}
}

func TestRead(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return server.Read(c, projection.OK([]string{"a"}))
	})
	app.Get("/degraded", func(c *fiber.Ctx) error {
		return server.Read(c, projection.Failed[string](errors.New("list not found")))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/degraded", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var got server.ReadResponse[string]
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.Degraded)
	assert.Equal(t, "list not found", got.Reason)
	assert.NotNil(t, got.Items)
	assert.JSONEq(t, `{"items":[],"degraded":true,"reason":"list not found"}`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"items":["a"],"degraded":false}`, string(body))
}
