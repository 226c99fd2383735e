package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockGitHub answers "METHOD path" routes with canned JSON and records every request
type mockGitHub struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]mockRoute
	requests []string
}

type mockRoute struct {
	status int
	body   interface{}
	header map[string]string
}

func newMockGitHub(t *testing.T) *mockGitHub {
	t.Helper()
	m := &mockGitHub{routes: map[string]mockRoute{}}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("%s %s", r.Method, r.URL.Path)

		m.mu.Lock()
		m.requests = append(m.requests, key)
		route, ok := m.routes[key]
		m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
			return
		}

		for k, v := range route.header {
			w.Header().Set(k, v)
		}
		status := route.status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(route.body)
	}))
	t.Cleanup(m.Close)

	return m
}

func (m *mockGitHub) handle(key string, status int, body interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[key] = mockRoute{status: status, body: body}
}

func (m *mockGitHub) handleWithHeader(key string, status int, body interface{}, header map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[key] = mockRoute{status: status, body: body, header: header}
}

func (m *mockGitHub) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}

func repoPayload(baseURL, owner, name string) map[string]interface{} {
	return map[string]interface{}{
		"name":         name,
		"owner":        map[string]interface{}{"login": owner},
		"url":          "https://api.github.com/repos/" + owner + "/" + name,
		"html_url":     "https://github.com/" + owner + "/" + name,
		"branches_url": baseURL + "/repos/" + owner + "/" + name + "/branches{/branch}",
	}
}

func branchPayload(name, sha string) map[string]interface{} {
	return map[string]interface{}{
		"name":   name,
		"commit": map[string]interface{}{"sha": sha},
	}
}

// setupWorkspace runs the test inside an empty directory wired to server
func setupWorkspace(t *testing.T, server *mockGitHub) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("BRANCHSYNC_LOG_LEVEL", "error")
	if server != nil {
		t.Setenv("BRANCHSYNC_GITHUB_API_URL", server.URL)
	}
	return dir
}

func writeSettings(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// chdir changes the working directory for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
