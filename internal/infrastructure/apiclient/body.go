package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"sort"

	"github.com/smartcampus/campus-portal/internal/core/domain"
	"github.com/smartcampus/campus-portal/internal/core/ports"
)

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyJSON
	bodyMultipart
	bodyRaw
)

type encodedBody struct {
	kind        bodyKind
	reader      io.Reader
	contentType string
}

// encodeBody picks exactly one encoding path for the request body.
func encodeBody(body any) (encodedBody, error) {
	switch b := body.(type) {
	case nil:
		return encodedBody{kind: bodyNone}, nil
	case *ports.FormData:
		if b == nil {
			return encodedBody{kind: bodyNone}, nil
		}
		return encodeMultipart(b)
	case ports.FormData:
		return encodeMultipart(&b)
	case json.RawMessage:
		if !json.Valid(b) {
			return encodedBody{}, domain.NewValidationError("request body is not valid JSON")
		}
		return encodedBody{kind: bodyJSON, reader: bytes.NewReader(b)}, nil
	case io.Reader:
		return encodedBody{kind: bodyRaw, reader: b}, nil
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return encodedBody{}, domain.NewValidationError(fmt.Sprintf("encode request body: %v", err))
		}
		return encodedBody{kind: bodyJSON, reader: bytes.NewReader(payload)}, nil
	}
}

func encodeMultipart(form *ports.FormData) (encodedBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(form.Fields))
	for k := range form.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range form.Fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return encodedBody{}, domain.NewValidationError(fmt.Sprintf("encode form field %q: %v", k, err))
			}
		}
	}

	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return encodedBody{}, domain.NewValidationError(fmt.Sprintf("encode form file %q: %v", f.Field, err))
		}
		if f.Content != nil {
			if _, err := io.Copy(part, f.Content); err != nil {
				return encodedBody{}, domain.NewValidationError(fmt.Sprintf("read form file %q: %v", f.Filename, err))
			}
		}
	}

	if err := w.Close(); err != nil {
		return encodedBody{}, domain.NewValidationError(fmt.Sprintf("finish multipart body: %v", err))
	}
	return encodedBody{kind: bodyMultipart, reader: &buf, contentType: w.FormDataContentType()}, nil
}
