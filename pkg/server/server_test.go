/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: server_test.go
Description: Tests for the HTTP API using httptest.
*/

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kleascm/jsonlens/pkg/history"
	"github.com/kleascm/jsonlens/pkg/inspect"
	"github.com/kleascm/jsonlens/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *history.Store) {
	t.Helper()
	insp, err := inspect.New(16, nil)
	require.NoError(t, err)
	store := history.NewStore(10)
	srv := httptest.NewServer(New(insp, store, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

func post(t *testing.T, srv *httptest.Server, path, body string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

// TestHealth tests the liveness endpoint
func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

// TestInfer tests schema inference over HTTP
func TestInfer(t *testing.T) {
	srv, _ := newTestServer(t)

	status, out := post(t, srv, "/infer", `{"value":{"a":1,"b":null}}`)
	require.Equal(t, http.StatusOK, status)

	root := out["schema"].(map[string]any)["type"].(map[string]any)
	assert.Equal(t, "object", root["kind"])
	field := root["fields"].(map[string]any)["a"].(map[string]any)
	assert.Equal(t, "number", field["type"].(map[string]any)["type"])
	assert.Equal(t, false, field["optional"])
	assert.Equal(t, []any{"a"}, out["numericFields"])
	assert.Len(t, out["fields"], 2)
	assert.NotEmpty(t, out["tree"])
}

// TestNullDocuments tests that null is accepted as a document and only absent keys are rejected
func TestNullDocuments(t *testing.T) {
	srv, _ := newTestServer(t)

	status, out := post(t, srv, "/infer", `{"value":null}`)
	require.Equal(t, http.StatusOK, status)
	root := out["schema"].(map[string]any)["type"].(map[string]any)
	assert.Equal(t, "primitive", root["kind"])
	assert.Equal(t, "null", root["type"])
	assert.Empty(t, out["fields"])

	status, out = post(t, srv, "/diff", `{"old":null,"new":{"a":1}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "changed", out["root"].(map[string]any)["status"])

	status, out = post(t, srv, "/diff", `{"old":null,"new":null}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "unchanged", out["root"].(map[string]any)["status"])

	status, out = post(t, srv, "/fields", `{"value":null}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, out["error"], "no record list")

	status, out = post(t, srv, "/infer", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing value", out["error"])

	status, out = post(t, srv, "/diff", `{"new":null}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing old", out["error"])
}

// TestFields tests record field collection
func TestFields(t *testing.T) {
	srv, _ := newTestServer(t)

	status, out := post(t, srv, "/fields", `{"value":{"items":[{"x":"a","y":1},{"x":"b"}]}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), out["records"])
	assert.Equal(t, []any{"y"}, out["numericFields"])

	status, out = post(t, srv, "/fields", `{"value":{"items":3},"path":"items"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, out["error"], "not an array")
}

// TestDiff tests the diff endpoint
func TestDiff(t *testing.T) {
	srv, _ := newTestServer(t)

	status, out := post(t, srv, "/diff", `{"old":{"a":1,"b":2},"new":{"a":1,"c":3}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "changed", out["root"].(map[string]any)["status"])
	assert.Equal(t, map[string]any{"added": float64(1), "removed": float64(1), "changed": float64(0), "unchanged": float64(1)}, out["stats"])
	assert.Len(t, out["changes"], 2)

	status, out = post(t, srv, "/diff", `{"old":{}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, out["error"])
}

// TestFilter tests the filter endpoint
func TestFilter(t *testing.T) {
	srv, _ := newTestServer(t)

	status, out := post(t, srv, "/filter", `{"records":[{"n":5},{"n":15}],"rules":[{"type":"number","path":"n","min":10}]}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{map[string]any{"n": float64(15)}}, out["records"])
	assert.Equal(t, float64(1), out["count"])

	status, out = post(t, srv, "/filter", `{"records":[],"rules":[{"type":"regex","path":"n"}]}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, out["error"], "invalid filter rule")
}

// TestChart tests the chart endpoint
func TestChart(t *testing.T) {
	srv, _ := newTestServer(t)

	status, out := post(t, srv, "/chart", `{"records":[{"day":"Mon","temp":10},{"day":"Tue","temp":null}],"config":{"xField":"day","yField":"temp","type":"bar"}}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{map[string]any{"x": "Mon", "y": float64(10)}}, out["points"])

	status, _ = post(t, srv, "/chart", `{"records":[],"config":{"type":"pie"}}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = post(t, srv, "/chart", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

// TestHistoryEndpoints tests history lookups
func TestHistoryEndpoints(t *testing.T) {
	srv, store := newTestServer(t)
	e := store.Add(history.Entry{ID: "entry-1", Request: transport.Request{Method: "GET", URL: "http://a"}, Status: 200})

	resp, err := http.Get(srv.URL + "/history")
	require.NoError(t, err)
	var list []history.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list, 1)
	assert.Equal(t, e.ID, list[0].ID)

	resp, err = http.Get(srv.URL + "/history/entry-1")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/history/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
