package webapp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiResponse() *Response {
	resp := NewResponse()
	resp.Body = map[string]any{"value": 42}
	resp.SetStatus(200)
	return resp
}

func TestNegotiate_EnvelopeForAPIPrefix(t *testing.T) {
	req := &Request{
		Path:    "/api/items",
		Headers: map[string]string{"Accept": "application/json"},
	}

	out := Negotiate(req, apiResponse(), "/api")
	assert.Equal(t, MimeJSON, out.MimeType)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal([]byte(out.Content), &envelope))
	assert.Equal(t, float64(200), envelope["status"])
	assert.Equal(t, "OK", envelope["statusText"])
	assert.Equal(t, true, envelope["ok"])
	assert.Equal(t, map[string]any{"value": float64(42)}, envelope["body"])
	assert.Contains(t, envelope, "headers")
}

func TestNegotiate_BodyOnlyOutsidePrefix(t *testing.T) {
	req := &Request{
		Path:    "/public/page",
		Headers: map[string]string{"accept": "application/json"},
	}

	out := Negotiate(req, apiResponse(), "/api")
	assert.Equal(t, MimeJSON, out.MimeType)
	assert.JSONEq(t, `{"value":42}`, out.Content)
}

func TestNegotiate_NativeKindsReturnJSONString(t *testing.T) {
	for _, accept := range []string{MimeNativeJSON, MimeNativeText} {
		req := &Request{Path: "/api/items", Headers: map[string]string{"Accept": accept}}
		out := Negotiate(req, apiResponse(), "/api")
		assert.Equal(t, accept, out.MimeType)

		var envelope map[string]any
		assert.NoError(t, json.Unmarshal([]byte(out.Content), &envelope))
	}
}

func TestNegotiate_TextKind(t *testing.T) {
	req := &Request{Path: "/public", Headers: map[string]string{"Accept": "text/plain"}}
	resp := NewResponse()
	resp.Body = "hello"
	resp.SetStatus(200)

	out := Negotiate(req, resp, "/api")
	assert.Equal(t, MimeText, out.MimeType)
	assert.Equal(t, "hello", out.Content, "plain string bodies pass through unquoted")
}

func TestNegotiate_DefaultWrapsMarkup(t *testing.T) {
	req := &Request{Path: "/public", Headers: map[string]string{}}
	resp := NewResponse()
	resp.Body = map[string]any{"a": "<b>"}
	resp.SetStatus(200)

	out := Negotiate(req, resp, "/api")
	assert.Equal(t, MimeHTML, out.MimeType)
	assert.Contains(t, out.Content, "<!DOCTYPE html>")
	assert.Contains(t, out.Content, "&lt;b&gt;", "payload must be escaped inside the markup wrap")
}

func TestNegotiate_JSONKeepsAngleBrackets(t *testing.T) {
	req := &Request{Path: "/public", Headers: map[string]string{"Accept": "application/json"}}
	resp := NewResponse()
	resp.Body = map[string]any{"a": "<b>"}
	resp.SetStatus(200)

	out := Negotiate(req, resp, "/api")
	assert.Equal(t, `{"a":"<b>"}`, out.Content, "serialized payloads are not HTML-escaped")
}

func TestResponse_Finalize(t *testing.T) {
	t.Run("infers status when unset", func(t *testing.T) {
		resp := NewResponse().Finalize("result", 201)
		assert.Equal(t, 201, resp.Status)
		assert.Equal(t, "Created", resp.StatusText)
		assert.True(t, resp.Ok)
		assert.Equal(t, "result", resp.Body)
	})

	t.Run("handler-set status wins", func(t *testing.T) {
		resp := NewResponse()
		resp.SetStatus(204)
		resp.Finalize(nil, 200)
		assert.Equal(t, 204, resp.Status)
		assert.Equal(t, "No Content", resp.StatusText)
	})
}
