// ABOUTME: Shared fixtures for command tests: a content directory and a fake completion service
// ABOUTME: runCLI executes the root command with captured output and input

package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/harper/scholarchat/internal/models"
)

const (
	testPersonal = "Ada Lovelace studied mathematics and worked on the Analytical Engine."
	testPaperP1  = "Deep Learning for X introduces a convolutional method evaluated on X-bench."
	testFeed     = `[
  {"id": "p1", "title": "Deep Learning for X", "aliases": ["DLX"]},
  {"id": "g1", "title": "Graph Neural Networks for Molecules"},
  {"id": "g2", "title": "Graph Neural Networks for Traffic"}
]`
)

// completionStub is an OpenAI-compatible chat endpoint that records requests
type completionStub struct {
	mu       sync.Mutex
	reply    string
	status   int
	requests []models.CompletionRequest
}

func (c *completionStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/v1/chat/completions" {
		http.NotFound(w, r)
		return
	}
	var req models.CompletionRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	c.mu.Lock()
	c.requests = append(c.requests, req)
	reply, status := c.reply, c.status
	c.mu.Unlock()

	if status != 0 {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-oss-20B",
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": reply},
		}},
	})
}

func (c *completionStub) calls() []models.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CompletionRequest(nil), c.requests...)
}

// setupEnv writes a content directory, starts a completion stub, and points
// the configuration at both.
func setupEnv(t *testing.T) *completionStub {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "context.txt"), testPersonal)
	writeFile(t, filepath.Join(root, "papersV2.json"), testFeed)
	writeFile(t, filepath.Join(root, "paper_text", "p1.txt"), testPaperP1)

	stub := &completionStub{reply: "Here is the answer."}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	for key, value := range map[string]string{
		"COMPLETION_BASE_URL":    srv.URL + "/v1",
		"COMPLETION_API_KEY":     "test-key",
		"COMPLETION_MODEL":       "gpt-oss-20B",
		"COMPLETION_TEMPERATURE": "0.7",
		"COMPLETION_MAX_TOKENS":  "512",
		"COMPLETION_MAX_RETRIES": "0",
		"CONTENT_ROOT":           root,
		"PERSONAL_CONTEXT":       "context.txt",
		"PAPERS_FEED":            "papersV2.json",
		"PAPER_TEXT_DIR":         "paper_text",
		"PAPER_TEXT_EXT":         ".txt",
		"ASSISTANT_OWNER":        "Ada Lovelace",
		"AUTO_ROUTE":             "true",
		"WATCH_FEED":             "false",
		"LOG_LEVEL":              "warn",
		"LOG_FILE":               "",
		"LOG_FORMAT":             "console",
	} {
		t.Setenv(key, value)
	}

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	return stub
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// runCLI executes the root command with args and returns stdout and stderr
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func systemPrompt(req models.CompletionRequest) string {
	for _, m := range req.Messages {
		if m.Role == models.ChatRoleSystem {
			return m.Content
		}
	}
	return ""
}
