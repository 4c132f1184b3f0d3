package webapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"script-router/internal/common/errors"
	"script-router/internal/common/logging"
	"script-router/internal/metadata"
)

func testLogger() logging.Logger {
	logger, _ := logging.NewZapLogger(logging.LogConfig{Level: logging.ErrorLevel})
	return logger
}

func TestBuildRequest_PathAndQuery(t *testing.T) {
	event := map[string]any{
		"pathInfo": "api/items",
		"parameter": map[string]any{
			"limit":   "10",
			"sort":    "asc",
			"path":    "ignored-when-pathinfo-present",
			"headers": `{"Accept":"application/json"}`,
		},
	}

	req := BuildRequest(event, metadata.VerbGet)

	assert.Equal(t, "/api/items", req.Path)
	assert.Equal(t, metadata.VerbGet, req.Method)
	assert.Equal(t, map[string]string{"limit": "10", "sort": "asc"}, req.Query)
	assert.Equal(t, "application/json", req.Headers["Accept"])
	assert.NotEmpty(t, req.ID)
	assert.Empty(t, req.RawBody, "GET must not capture a body")
}

func TestBuildRequest_PathParameterFallback(t *testing.T) {
	event := map[string]any{
		"parameter": map[string]any{"path": "/api/items"},
	}

	req := BuildRequest(event, metadata.VerbGet)
	assert.Equal(t, "/api/items", req.Path)
	assert.NotContains(t, req.Query, "path")
}

func TestBuildRequest_MethodOverride(t *testing.T) {
	event := map[string]any{
		"pathInfo":  "/api/items",
		"parameter": map[string]any{"method": "delete"},
		"postData":  map[string]any{"contents": `{"id":1}`, "type": "application/json"},
	}

	req := BuildRequest(event, metadata.VerbPost)

	assert.Equal(t, metadata.VerbDelete, req.Method, "explicit override beats the entry verb")
	assert.Equal(t, `{"id":1}`, req.RawBody, "DELETE is a write-ish verb and captures the body")
}

func TestBuildRequest_PercentDecodesPath(t *testing.T) {
	event := map[string]any{
		"pathInfo": "/api/with%20space",
	}

	req := BuildRequest(event, metadata.VerbGet)
	assert.Equal(t, "/api/with space", req.Path, "request path decodes like route templates do")
}

func TestBuildRequest_UndecodablePathKeptEncoded(t *testing.T) {
	event := map[string]any{
		"pathInfo": "/api/bad%zzescape",
	}

	req := BuildRequest(event, metadata.VerbGet)
	assert.Equal(t, "/api/bad%zzescape", req.Path)
}

func TestBuildRequest_MalformedHeadersDefaultEmpty(t *testing.T) {
	event := map[string]any{
		"pathInfo":  "/x",
		"parameter": map[string]any{"headers": `{not json`},
	}

	req := BuildRequest(event, metadata.VerbGet)
	assert.Empty(t, req.Headers)
}

func TestBuildRequest_EmptyEvent(t *testing.T) {
	req := BuildRequest(map[string]any{}, metadata.VerbGet)
	assert.Equal(t, "/", req.Path)
	assert.Empty(t, req.Query)
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON object", func(t *testing.T) {
		req := &Request{RawBody: `{"x":1}`, ContentType: "application/json"}
		err := req.ParseJSONBody(testLogger())
		require.NoError(t, err)

		body, ok := req.Body.(map[string]any)
		require.True(t, ok, "body must be a parsed object, not a string")
		assert.Equal(t, float64(1), body["x"])
	})

	t.Run("malformed JSON degrades to raw text", func(t *testing.T) {
		req := &Request{RawBody: `{"x":`, ContentType: "application/json"}
		err := req.ParseJSONBody(testLogger())

		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeMalformedBody))
		assert.Equal(t, `{"x":`, req.Body, "raw text survives the failed parse")
	})

	t.Run("non-JSON content type keeps raw text", func(t *testing.T) {
		req := &Request{RawBody: "plain payload", ContentType: "text/plain"}
		require.NoError(t, req.ParseJSONBody(testLogger()))
		assert.Equal(t, "plain payload", req.Body)
	})

	t.Run("empty body is a no-op", func(t *testing.T) {
		req := &Request{}
		require.NoError(t, req.ParseJSONBody(testLogger()))
		assert.Nil(t, req.Body)
	})
}
