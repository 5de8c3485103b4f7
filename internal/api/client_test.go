package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func newTestClient(t *testing.T, token staticToken, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, token, zap.NewNop().Sugar())
}

func TestBearerHeaderAttached(t *testing.T) {
	r := chi.NewRouter()
	var got string
	r.Get("/api/ping", func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Get("Authorization")
		w.Write([]byte(`{"ok":true}`))
	})
	c := newTestClient(t, "tok-123", r)

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.Get(context.Background(), "/ping", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "Bearer tok-123" {
		t.Fatalf("Authorization = %q, want Bearer tok-123", got)
	}
	if !out.OK {
		t.Fatal("response not decoded")
	}
}

func TestNoTokenSendsUnauthenticated(t *testing.T) {
	r := chi.NewRouter()
	var got string
	var hasRequestID bool
	r.Get("/api/public/listings", func(w http.ResponseWriter, req *http.Request) {
		got = req.Header.Get("Authorization")
		hasRequestID = req.Header.Get("X-Request-ID") != ""
		w.Write([]byte(`[]`))
	})
	c := newTestClient(t, "", r)

	var out []struct{}
	if err := c.Get(context.Background(), "/public/listings", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Fatalf("Authorization = %q, want empty", got)
	}
	if !hasRequestID {
		t.Fatal("X-Request-ID missing")
	}
}

func TestErrorMessageDecoded(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/missing", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no such vessel"}`))
	})
	c := newTestClient(t, "tok", r)

	err := c.Get(context.Background(), "/missing", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "no such vessel" {
		t.Fatalf("got %+v", apiErr)
	}
}

func TestErrorFallsBackToBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/boom", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
	})
	c := newTestClient(t, "", r)

	err := c.Post(context.Background(), "/boom", nil, nil)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if apiErr.Message != "missing bearer token" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestMultipartRoundTrip(t *testing.T) {
	r := chi.NewRouter()
	var fields map[string][]string
	var fileNames []string
	var fileBody string
	r.Post("/api/broker/listings", func(w http.ResponseWriter, req *http.Request) {
		if err := req.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fields = req.MultipartForm.Value
		for name, fhs := range req.MultipartForm.File {
			fileNames = append(fileNames, name)
			f, _ := fhs[0].Open()
			var sb strings.Builder
			buf := make([]byte, 64)
			for {
				n, err := f.Read(buf)
				sb.Write(buf[:n])
				if err != nil {
					break
				}
			}
			fileBody = sb.String()
		}
		w.Write([]byte(`{}`))
	})
	c := newTestClient(t, "tok", r)

	p := NewMultipart()
	p.AddField("vessel_name", "Ocean Whisper")
	p.AddField("status", "pending")
	p.AddFile("featured_image", "bow.jpg", strings.NewReader("jpeg-bytes"))

	if err := c.PostMultipart(context.Background(), "/broker/listings", p, nil); err != nil {
		t.Fatalf("post multipart: %v", err)
	}
	if got := fields["vessel_name"]; len(got) != 1 || got[0] != "Ocean Whisper" {
		t.Fatalf("vessel_name = %v", got)
	}
	if len(fileNames) != 1 || fileNames[0] != "featured_image" {
		t.Fatalf("file parts = %v", fileNames)
	}
	if fileBody != "jpeg-bytes" {
		t.Fatalf("file body = %q", fileBody)
	}
}
