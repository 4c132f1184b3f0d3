package webapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// MIME kinds the engine negotiates against the Accept request header.
// The two script-native kinds are what the platform's own client library
// sends; for both, the engine hands the JSON-encoded payload string back
// directly. Anything outside the enumerated set falls through to a markup
// document wrapping the serialized payload.
const (
	MimeNativeJSON = "application/vnd.script.content+json"
	MimeNativeText = "text/vnd.script.content"
	MimeJSON       = "application/json"
	MimeText       = "text/plain"
	MimeHTML       = "text/html"
)

// Output is the serialized, content-negotiated form of a response, ready
// for the platform's content-type wrapping.
type Output struct {
	MimeType string
	Content  string
}

// Negotiate serializes a response according to the request's Accept header.
//
// Paths under the reserved API prefix serialize the full response envelope
// ({headers, ok, status, statusText, body}); every other path serializes
// only the body.
func Negotiate(req *Request, resp *Response, apiPrefix string) Output {
	payload := serialize(req, resp, apiPrefix)

	accept := strings.ToLower(headerValue(req.Headers, "Accept"))
	switch {
	case strings.Contains(accept, MimeNativeJSON):
		return Output{MimeType: MimeNativeJSON, Content: payload}
	case strings.Contains(accept, MimeNativeText):
		return Output{MimeType: MimeNativeText, Content: payload}
	case strings.Contains(accept, MimeJSON):
		return Output{MimeType: MimeJSON, Content: payload}
	case strings.Contains(accept, MimeText):
		return Output{MimeType: MimeText, Content: payload}
	default:
		return Output{MimeType: MimeHTML, Content: wrapMarkup(payload)}
	}
}

// serialize renders either the whole envelope or only the body as JSON.
// A plain string body outside the envelope is passed through unquoted.
func serialize(req *Request, resp *Response, apiPrefix string) string {
	if apiPrefix != "" && strings.HasPrefix(req.Path, apiPrefix) {
		return encodeJSON(resp)
	}
	if s, ok := resp.Body.(string); ok {
		return s
	}
	return encodeJSON(resp.Body)
}

// encodeJSON serializes without HTML-escaping so payloads stay readable;
// the markup wrap escapes the whole document itself.
func encodeJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// Encoding only fails on unsupported values; degrade to a quoted
		// string form rather than failing the dispatch.
		quoted, _ := json.Marshal(fmt.Sprintf("%v", v))
		return string(quoted)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// wrapMarkup wraps the serialized payload in a minimal HTML document.
func wrapMarkup(payload string) string {
	return "<!DOCTYPE html><html><body><pre>" + html.EscapeString(payload) + "</pre></body></html>"
}

// headerValue performs a case-insensitive header lookup.
func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
