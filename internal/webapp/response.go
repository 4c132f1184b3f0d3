package webapp

import "net/http"

// Response is the mutable outcome of one web dispatch. A placeholder is
// created before the handler runs; handlers that declare a RESPONSE
// parameter receive it and may set status or headers. The dispatcher fills
// in whatever the handler left unset.
type Response struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body"`
	Ok         bool              `json:"ok"`
}

// NewResponse creates an empty response placeholder.
func NewResponse() *Response {
	return &Response{Headers: make(map[string]string)}
}

// SetStatus sets the status code and derives the standard status text.
func (r *Response) SetStatus(code int) *Response {
	r.Status = code
	r.StatusText = http.StatusText(code)
	r.Ok = code >= 200 && code < 300
	return r
}

// SetHeader sets one response header.
func (r *Response) SetHeader(key, value string) *Response {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

// Finalize fills the fields the handler left unset: the body (when the
// handler returned a value rather than mutating the placeholder) and the
// inferred status — 200 for read-style verbs, 201 otherwise — unless the
// handler already chose one.
func (r *Response) Finalize(result any, inferredStatus int) *Response {
	if result != nil {
		r.Body = result
	}
	if r.Status == 0 {
		r.SetStatus(inferredStatus)
	} else {
		r.StatusText = http.StatusText(r.Status)
		r.Ok = r.Status >= 200 && r.Status < 300
	}
	return r
}
