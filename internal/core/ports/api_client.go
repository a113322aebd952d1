package ports

import (
	"context"
	"encoding/json"
	"io"
)

// RequestOptions describes one call to the campus API.
//
// Body may be nil, a *FormData (sent as multipart), an io.Reader (sent
// verbatim) or any JSON-serialisable value.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Body    any
}

// FormFile is one file part of a multipart body.
type FormFile struct {
	Field    string
	Filename string
	Content  io.Reader
}

// FormData is a multipart form body. The transport sets its Content-Type,
// boundary included.
type FormData struct {
	Fields map[string][]string
	Files  []FormFile
}

// APIClient issues authenticated requests against the campus backend and
// returns the parsed JSON payload untouched.
type APIClient interface {
	Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error)
}
