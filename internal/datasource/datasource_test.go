package datasource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoGetSetsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != DefaultUserAgent {
			t.Errorf("User-Agent = %q", got)
		}
		if got := r.Header.Get("X-Test"); got != "yes" {
			t.Errorf("X-Test = %q", got)
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	body, status, err := doGet(context.Background(), srv.Client(), srv.URL, map[string]string{"X-Test": "yes"})
	if err != nil {
		t.Fatalf("doGet() error = %v", err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if status != http.StatusOK || string(data) != "ok" {
		t.Errorf("doGet() = %d %q", status, data)
	}
}

func TestDoGetHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, status, err := doGet(context.Background(), srv.Client(), srv.URL, nil)
	var httpErr *ErrHTTP
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want *ErrHTTP", err)
	}
	if status != http.StatusTooManyRequests || httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d / %d", status, httpErr.StatusCode)
	}
	if httpErr.Body != "slow down\n" {
		t.Errorf("Body = %q", httpErr.Body)
	}
}
