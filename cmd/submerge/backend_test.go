package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"submerge/internal/testsupport"
)

func newEmbeddingServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		data := make([]map[string]any, 0, len(req.Input))
		for i, text := range req.Input {
			data = append(data, map[string]any{
				"object":    "embedding",
				"index":     i,
				"embedding": []float64{float64(len(text)), 1},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   data,
			"usage":  map[string]any{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestConfigValidateCheckBackend(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"config", "validate", "--check-backend"}, env.configPath)
	if err != nil {
		t.Fatalf("validate local: %v", err)
	}
	requireContains(t, out, "runs locally")

	var requests atomic.Int32
	server := newEmbeddingServer(t, &requests)
	remote := setupCLITestEnv(t, testsupport.WithOpenAIBackend(server.URL, "test"))
	out, _, err = runCLI(t, []string{"config", "validate", "--check-backend"}, remote.configPath)
	if err != nil {
		t.Fatalf("validate openai: %v", err)
	}
	requireContains(t, out, "Semantic backend reachable: openai/text-embedding-3-small")
	if requests.Load() != 1 {
		t.Fatalf("expected 1 request, got %d", requests.Load())
	}
}

func TestAlignWithRemoteBackend(t *testing.T) {
	var requests atomic.Int32
	server := newEmbeddingServer(t, &requests)
	env := setupCLITestEnv(t, testsupport.WithOpenAIBackend(server.URL, "test"))
	original := env.writeFile(t, "original.srt", originalSRT)
	modified := env.writeFile(t, "modified.ass", modifiedASS)

	out, _, err := runCLI(t, []string{"align", "--json", "--no-store", original, modified}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	var result alignResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Backend != "openai" || result.Summary.ByAction["match"] != 2 {
		t.Fatalf("result = %+v", result)
	}
	if requests.Load() == 0 {
		t.Fatal("expected the embeddings endpoint to be called while priming")
	}
}
