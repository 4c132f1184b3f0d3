// Package webapp turns the opaque web event delivered by the host platform
// into a structured request, and packages handler results into responses
// serialized according to content negotiation.
package webapp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/lucsky/cuid"
	"github.com/tidwall/gjson"
	"script-router/internal/common/errors"
	"script-router/internal/common/logging"
	"script-router/internal/metadata"
)

// Reserved parameter names carried in the event's parameter map. They are
// consumed by request construction and stripped from the query map.
const (
	paramMethod  = "method"
	paramHeaders = "headers"
	paramPath    = "path"
)

// ContentTypeJSON is the declared content type that makes the dispatcher
// attempt to parse the raw body as JSON.
const ContentTypeJSON = "application/json"

// Request is the structured form of one inbound web call. It is built once
// per invocation and owned exclusively by that dispatch.
type Request struct {
	ID          string
	Method      metadata.Verb
	Path        string
	Query       map[string]string
	Headers     map[string]string
	RawBody     string
	ContentType string
	// Body holds the parsed JSON body when parsing succeeded, otherwise
	// the raw text. Nil until ParseJSONBody runs (or for body-less verbs).
	Body any
	// Event is the original platform event, forwarded untouched to
	// handlers that declare an EVENT parameter.
	Event map[string]any
}

// BuildRequest derives a structured request from the platform's web event.
//
// The platform packs everything into one object: the path lives in a
// dedicated "pathInfo" field (with a "path" parameter as fallback), query
// parameters in the "parameter" map, the effective verb in an explicit
// "method" override parameter (taking precedence over the verb implied by
// the entry function), headers in a JSON-encoded "headers" parameter
// (defaulting to empty), and the raw body in "postData" — captured only
// for verbs that conventionally carry one.
func BuildRequest(event map[string]any, entryVerb metadata.Verb) *Request {
	req := &Request{
		ID:      cuid.New(),
		Method:  entryVerb,
		Query:   make(map[string]string),
		Headers: make(map[string]string),
		Event:   event,
	}

	params := parameterMap(event)

	if override, ok := params[paramMethod]; ok && override != "" {
		req.Method = metadata.Verb(strings.ToUpper(override))
	}

	req.Path = normalizePath(pathOf(event, params))
	req.Headers = parseHeaders(params[paramHeaders])

	for k, v := range params {
		if k == paramMethod || k == paramHeaders || k == paramPath {
			continue
		}
		req.Query[k] = v
	}

	if req.Method.HasBody() {
		if post, ok := event["postData"].(map[string]any); ok {
			req.RawBody, _ = post["contents"].(string)
			req.ContentType, _ = post["type"].(string)
		}
	}

	return req
}

// ParseJSONBody attempts to parse the raw body as JSON when its declared
// content type says so. A parse failure degrades gracefully: the body
// stays the raw text and a warning is logged. Returns the recoverable
// malformed-body error for the caller's bookkeeping, never a fatal one.
func (r *Request) ParseJSONBody(logger logging.Logger) error {
	if r.RawBody == "" {
		return nil
	}

	if !strings.HasPrefix(strings.ToLower(r.ContentType), ContentTypeJSON) {
		r.Body = r.RawBody
		return nil
	}

	if !gjson.Valid(r.RawBody) {
		appErr := errors.MalformedBodyError(fmt.Errorf("invalid JSON"))
		logger.Warn("body declared as JSON failed to parse, falling back to raw text",
			logging.Field{Key: "request_id", Value: r.ID},
			logging.Field{Key: "content_type", Value: r.ContentType},
		)
		r.Body = r.RawBody
		return appErr
	}

	var parsed any
	if err := json.Unmarshal([]byte(r.RawBody), &parsed); err != nil {
		appErr := errors.MalformedBodyError(err)
		logger.Warn("body declared as JSON failed to parse, falling back to raw text",
			logging.Field{Key: "request_id", Value: r.ID},
			logging.Err(err),
		)
		r.Body = r.RawBody
		return appErr
	}

	r.Body = parsed
	return nil
}

// parameterMap extracts the event's parameter map, coercing values to
// strings. The platform delivers single-valued parameters only.
func parameterMap(event map[string]any) map[string]string {
	out := make(map[string]string)
	raw, ok := event["parameter"].(map[string]any)
	if !ok {
		return out
	}
	for k, v := range raw {
		switch s := v.(type) {
		case string:
			out[k] = s
		default:
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

// pathOf reads the dedicated path field, falling back to the reserved
// "path" parameter.
func pathOf(event map[string]any, params map[string]string) string {
	if p, ok := event["pathInfo"].(string); ok && p != "" {
		return p
	}
	return params[paramPath]
}

// parseHeaders decodes the JSON-encoded headers side-channel parameter.
// Absent or malformed input yields an empty header map.
func parseHeaders(encoded string) map[string]string {
	headers := make(map[string]string)
	if encoded == "" || !gjson.Valid(encoded) {
		return headers
	}
	gjson.Parse(encoded).ForEach(func(key, value gjson.Result) bool {
		headers[key.String()] = value.String()
		return true
	})
	return headers
}

// normalizePath guarantees a leading slash, strips a trailing one, and
// percent-decodes the path so it matches route templates, which are
// decoded at build time. A decode failure keeps the encoded text and
// logs a warning.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	} else {
		logging.Warn("request path percent-decoding failed, keeping encoded form",
			logging.Field{Key: "path", Value: path},
			logging.Err(err),
		)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
