package classifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/SanchoLoco/NoPressure/pkg/common/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestClassifyMockMode(t *testing.T) {
	client := &Client{mockMode: true, httpClient: http.DefaultClient}

	result := client.Classify(context.Background(), []byte("img"), "w1")
	if result == nil {
		t.Fatal("mock mode must always return a result")
	}
	if result.Stage != "Stage 2" || result.ModelVersion != mockModelVersion {
		t.Fatalf("unexpected mock result: %+v", result)
	}
}

func TestClassifyParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart form: %v", err)
		}
		if got := r.FormValue("wound_id"); got != "w1" {
			t.Fatalf("expected wound_id w1, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"severity_score":3.1,"stage":"Stage 3","confidence":0.88,"model_version":"cls-2.4.0"}`))
	}))
	defer server.Close()

	client := &Client{baseURL: server.URL, httpClient: &http.Client{Timeout: 5 * time.Second}}

	result := client.Classify(context.Background(), []byte("img"), "w1")
	if result == nil {
		t.Fatal("expected classifier result")
	}
	if result.SeverityScore != 3.1 || result.Stage != "Stage 3" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ModelVersion != "cls-2.4.0" {
		t.Fatalf("unexpected model version: %s", result.ModelVersion)
	}
}

func TestClassifyUnavailableReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := &Client{baseURL: server.URL, httpClient: &http.Client{Timeout: 5 * time.Second}}
	if result := client.Classify(context.Background(), []byte("img"), "w1"); result != nil {
		t.Fatalf("expected nil result on server error, got %+v", result)
	}

	// Unreachable host degrades the same way.
	client = &Client{baseURL: "http://127.0.0.1:1", httpClient: &http.Client{Timeout: time.Second}}
	if result := client.Classify(context.Background(), []byte("img"), "w1"); result != nil {
		t.Fatalf("expected nil result on transport failure, got %+v", result)
	}
}

func TestVersionProbe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/version" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"version":"cls-2.4.0"}`))
	}))
	defer server.Close()

	client := &Client{baseURL: server.URL, httpClient: &http.Client{Timeout: 5 * time.Second}}
	if got := client.Version(context.Background()); got != "cls-2.4.0" {
		t.Fatalf("expected cls-2.4.0, got %q", got)
	}

	client = &Client{baseURL: "http://127.0.0.1:1", httpClient: &http.Client{Timeout: time.Second}}
	if got := client.Version(context.Background()); got != "unknown" {
		t.Fatalf("expected unknown on failure, got %q", got)
	}
}
