package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"quilcirq/latex"
	"quilcirq/quil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(newRouter(latex.DefaultSettings(), newLogger(io.Discard, log.InfoLevel)))
	t.Cleanup(ts.Close)
	return ts
}

func postRender(t *testing.T, ts *httptest.Server, query, body string) (*http.Response, string) {
	t.Helper()
	url := ts.URL + "/render"
	if query != "" {
		url += "?" + query
	}
	resp, err := http.Post(url, "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(data)
}

func TestServeRender(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postRender(t, ts, "", "X 0")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != latexMediaType {
		t.Errorf("Content-Type = %q", ct)
	}
	want, _ := latex.Render(quil.MustParse("X 0"), latex.DefaultSettings())
	if body != want {
		t.Errorf("body:\n%s\nwant:\n%s", body, want)
	}
}

func TestServeRenderQuerySettings(t *testing.T) {
	ts := newTestServer(t)

	_, body := postRender(t, ts, "texify=false", "CPHASE(pi) 0 1")
	if !strings.Contains(body, `\phase{\text{pi}}`) {
		t.Errorf("texify=false not applied:\n%s", body)
	}

	_, body = postRender(t, ts, "labels=false&open_wire=0", "X 0")
	if !strings.Contains(body, `\qw & \gate{X}`+"\n") {
		t.Errorf("labels=false&open_wire=0 not applied:\n%s", body)
	}
}

func TestServeRenderErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
	}{
		{"bad boolean", "labels=maybe", "X 0", http.StatusBadRequest},
		{"open wire too long", "open_wire=100", "X 0", http.StatusBadRequest},
		{"open wire negative", "open_wire=-1", "X 0", http.StatusBadRequest},
		{"duplicate qubit", "", "CNOT 0 0", http.StatusUnprocessableEntity},
		{"impute span", "impute=true", "CNOT 0 5000", http.StatusUnprocessableEntity},
		{"body too large", "", strings.Repeat("I 0\n", maxRequestBytes/4+1), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postRender(t, ts, tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.status, body)
			}
			var e errorResponse
			if err := json.Unmarshal([]byte(body), &e); err != nil || e.Error == "" {
				t.Errorf("error body %q: %v", body, err)
			}
		})
	}
}

func TestServeParseErrorPosition(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postRender(t, ts, "", "H 0\nCNOT 0 )")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var e errorResponse
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		t.Fatal(err)
	}
	if e.Line != 2 || e.Column != 8 {
		t.Errorf("position = %d:%d, want 2:8", e.Line, e.Column)
	}
}

func TestServeHealthAndMethods(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/render")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /render status = %d, want 405", resp.StatusCode)
	}
}
