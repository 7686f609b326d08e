package delivery_http_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type multipartFile struct {
	field    string
	filename string
	mimeType string
	content  []byte
}

func multipartBody(t *testing.T, fields map[string]string, file *multipartFile) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+file.field+`"; filename="`+file.filename+`"`)
		h.Set("Content-Type", file.mimeType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func serve(t *testing.T, h http.Handler, method, target, token, contentType string, body io.Reader) (int, gjson.Result) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code, gjson.Parse(rec.Body.String())
}
