package httpadapter

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDocumentIDFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/v1/documents/doc-1", "doc-1"},
		{"/v1/documents/doc-1/chat", "doc-1"},
		{"/v1/documents/doc-1/", "doc-1"},
		{"/v1/documents", ""},
		{"/v1/documents/", ""},
		{"/healthz", ""},
	}
	for _, tc := range cases {
		if got := documentIDFromPath(tc.path); got != tc.want {
			t.Fatalf("documentIDFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestAccessLogCarriesRequestAndDocumentID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	handler := requestIDMiddleware(accessLogMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/doc-1/chat", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	line := buf.String()
	if !bytes.Contains(buf.Bytes(), []byte(`"document_id":"doc-1"`)) {
		t.Fatalf("access log missing document id: %s", line)
	}
	requestID := res.Header().Get(requestIDHeader)
	if requestID == "" {
		t.Fatalf("expected request id header to be set")
	}
	if !bytes.Contains(buf.Bytes(), []byte(requestID)) {
		t.Fatalf("access log missing request id %s: %s", requestID, line)
	}
}

func TestAccessLogOmitsDocumentIDOffDocumentRoutes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	handler := requestIDMiddleware(accessLogMiddleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if bytes.Contains(buf.Bytes(), []byte("document_id")) {
		t.Fatalf("unexpected document id in access log: %s", buf.String())
	}
}
