package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/bru2postman/internal/config"
	"github.com/GabrielNunesIT/bru2postman/internal/mapper"
	"github.com/GabrielNunesIT/bru2postman/internal/validate"
)

const collectionJSON = `{
  "name": "Pet Store",
  "root": {
    "request": {
      "auth": {"mode": "bearer", "bearer": {"token": "{{token}}"}},
      "vars": {"req": [{"name": "baseUrl", "value": "https://petstore.example.com"}]}
    }
  },
  "items": [
    {
      "type": "folder",
      "name": "Pets",
      "items": [
        {"type": "http-request", "name": "List pets", "request": {"method": "GET", "url": "{{baseUrl}}/pets"}}
      ]
    },
    {"type": "http-request", "name": "Health", "request": {"url": "{{baseUrl}}/health"}}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default().Server

	return New(logger.NewConsoleLogger(os.Stdout), cfg, mapper.New())
}

func uploadRequest(t *testing.T, path, field, fileName, contentType string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return resp
}

func TestConvert(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/api/convert", UploadField, "petstore.json", "application/json", []byte(collectionJSON)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="petstore.postman_collection.json"`, rec.Header().Get("Content-Disposition"))

	var stats ConversionStats
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get(StatsHeader)), &stats))
	assert.Equal(t, ConversionStats{Items: 2, Variables: 1, HasAuth: true}, stats)

	var collection struct {
		Info struct {
			Name   string `json:"name"`
			Schema string `json:"schema"`
		} `json:"info"`
		Item []json.RawMessage `json:"item"`
		Auth struct {
			Type string `json:"type"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &collection))

	assert.Equal(t, "Pet Store", collection.Info.Name)
	assert.Equal(t, "https://schema.getpostman.com/json/collection/v2.1.0/collection.json", collection.Info.Schema)
	assert.Len(t, collection.Item, 2)
	assert.Equal(t, "bearer", collection.Auth.Type)
}

func TestConvertAcceptsJSONContentType(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/api/convert", UploadField, "export", "application/json; charset=utf-8", []byte(collectionJSON)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="export.postman_collection.json"`, rec.Header().Get("Content-Disposition"))
}

func TestConvertBadRequests(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		fileName    string
		contentType string
		content     string
		wantError   string
	}{
		{
			name:        "missing file",
			field:       "other",
			fileName:    "petstore.json",
			contentType: "application/json",
			content:     collectionJSON,
			wantError:   "No file uploaded",
		},
		{
			name:        "not a json file",
			field:       UploadField,
			fileName:    "petstore.txt",
			contentType: "text/plain",
			content:     collectionJSON,
			wantError:   "Invalid upload",
		},
		{
			name:        "invalid json",
			field:       UploadField,
			fileName:    "petstore.json",
			contentType: "application/json",
			content:     `{"name":`,
			wantError:   "Invalid JSON file",
		},
		{
			name:        "not an object",
			field:       UploadField,
			fileName:    "petstore.json",
			contentType: "application/json",
			content:     `[1, 2]`,
			wantError:   "Invalid Bruno collection",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			rec := serve(s, uploadRequest(t, "/api/convert", tt.field, tt.fileName, tt.contentType, []byte(tt.content)))
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
		})
	}
}

func TestConvertWithoutMultipartBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/convert", bytes.NewBufferString(collectionJSON))
	req.Header.Set("Content-Type", "application/json")

	rec := serve(s, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decodeError(t, rec).Error)
}

func TestConvertUploadTooLarge(t *testing.T) {
	s := newTestServer(t)
	s.cfg.MaxUploadBytes = 64

	rec := serve(s, uploadRequest(t, "/api/convert", UploadField, "petstore.json", "application/json", []byte(collectionJSON)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertFailure(t *testing.T) {
	s := newTestServer(t)

	content := `{"name": "x", "items": [{"type": "folder", "name": "f", "items": [{"type": "websocket", "name": "ws"}]}]}`

	rec := serve(s, uploadRequest(t, "/api/convert", UploadField, "x.json", "application/json", []byte(content)))
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decodeError(t, rec)
	assert.Equal(t, "Conversion failed", resp.Error)
	assert.Contains(t, resp.Details, `"f / ws"`)
}

func TestValidate(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/api/validate", UploadField, "petstore.json", "application/json", []byte(collectionJSON)))
	require.Equal(t, http.StatusOK, rec.Code)

	var report validate.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.True(t, report.IsValid)
	assert.Equal(t, validate.Stats{Items: 2, Folders: 1, Requests: 2, Variables: 1, HasAuth: true}, report.Stats)
}

func TestValidateRejectsInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/api/validate", UploadField, "petstore.json", "application/json", []byte("not json")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", decodeError(t, rec).Error)
}

func TestValidateNonObject(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, uploadRequest(t, "/api/validate", UploadField, "petstore.json", "application/json", []byte("null")))
	require.Equal(t, http.StatusOK, rec.Code)

	var report validate.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	assert.False(t, report.IsValid)
	assert.Equal(t, []string{"Invalid collection structure"}, report.Errors)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "ok", body["status"])

	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/convert", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	req := uploadRequest(t, "/api/convert", UploadField, "petstore.json", "application/json", []byte(collectionJSON))
	req.Header.Set("Origin", "https://example.com")

	rec := serve(s, req)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), StatsHeader)

}
