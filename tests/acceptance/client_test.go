package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/controllers"
	"github.com/kendall-kelly/household-services-api/middleware"
)

// newServer starts the full API on a real HTTP listener
func newServer(cfg *config.Config) *httptest.Server {
	router := gin.New()
	router.Use(middleware.Recovery())

	v1 := router.Group("/api/v1")
	controllers.RegisterRoutes(v1, cfg)
	return httptest.NewServer(router)
}

// apiResponse is the decoded response envelope
type apiResponse struct {
	Status  int                    `json:"-"`
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Error   map[string]interface{} `json:"error"`
}

func (r *apiResponse) code() string {
	code, _ := r.Error["code"].(string)
	return code
}

func (r *apiResponse) decode(t *testing.T, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(r.Data, dest); err != nil {
		t.Fatalf("Failed to decode data %s: %v", r.Data, err)
	}
}

// makeRequest sends body as JSON with an optional bearer token
func makeRequest(t *testing.T, server *httptest.Server, method, path, token string, body interface{}) *apiResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, req, token)
}

// makeMultipartRequest sends fields and an optional file as multipart/form-data
func makeMultipartRequest(t *testing.T, server *httptest.Server, method, path, token string, fields map[string]string, filename string, content []byte) *apiResponse {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("Failed to write field %s: %v", key, err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return send(t, req, token)
}

func send(t *testing.T, req *http.Request, token string) *apiResponse {
	t.Helper()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	result := &apiResponse{Status: resp.StatusCode}
	if err := json.Unmarshal(raw, result); err != nil {
		t.Fatalf("Response is not JSON (%d): %s", resp.StatusCode, raw)
	}
	return result
}
