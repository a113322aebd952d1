package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartcampus/campus-portal/internal/core/ports"
)

// maxProxyMemory bounds the in-memory part of parsed multipart uploads.
const maxProxyMemory = 32 << 20

// ProxyHandler forwards /proxy/* to the campus API with the browser
// session's token attached by the API client.
type ProxyHandler struct {
	client ports.APIClient
}

func NewProxyHandler(client ports.APIClient) *ProxyHandler {
	return &ProxyHandler{client: client}
}

func (h *ProxyHandler) Forward(c echo.Context) error {
	req := c.Request()
	path := "/" + strings.TrimPrefix(c.Param("*"), "/")
	if q := c.QueryString(); q != "" {
		path += "?" + q
	}

	opts := ports.RequestOptions{Method: req.Method}
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		opts.Headers = map[string]string{echo.HeaderXRequestID: id}
	}

	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		form, closeFiles, err := readForm(req)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart body")
		}
		defer closeFiles()
		opts.Body = form
	} else if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
		}
		if len(bytes.TrimSpace(body)) > 0 {
			opts.Body = json.RawMessage(body)
		}
	}

	data, err := h.client.Request(req.Context(), path, opts)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, data)
}

// readForm turns a multipart request into FormData. The returned func closes
// the opened file parts.
func readForm(req *http.Request) (*ports.FormData, func(), error) {
	if err := req.ParseMultipartForm(maxProxyMemory); err != nil {
		return nil, func() {}, err
	}

	form := &ports.FormData{Fields: req.MultipartForm.Value}
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
		_ = req.MultipartForm.RemoveAll()
	}

	for field, headers := range req.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				closeAll()
				return nil, func() {}, fmt.Errorf("open %s: %w", fh.Filename, err)
			}
			opened = append(opened, f)
			form.Files = append(form.Files, ports.FormFile{Field: field, Filename: fh.Filename, Content: f})
		}
	}
	return form, closeAll, nil
}
