//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func oneShot(t *testing.T, apiURL string, args ...string) *exec.Cmd {
	t.Helper()
	dir := t.TempDir()
	base := []string{
		"--api-url", apiURL,
		"--token", "e2e-token",
		"--config", filepath.Join(dir, "config.toml"),
		"--log-file", filepath.Join(dir, "ghsearch.log"),
	}
	return exec.Command(binPath, append(base, args...)...)
}

func TestOneShotTable(t *testing.T) {
	t.Parallel()
	api, srv := newFakeGitHub(t)

	out, err := oneShot(t, srv.URL, "-q", "alpha beta").Output()
	require.NoError(t, err)

	output := string(out)
	require.Contains(t, output, "REPOSITORY")
	require.Contains(t, output, "e2e/alpha")
	require.Contains(t, output, "e2e/beta")
	require.Equal(t, "token e2e-token", api.lastAuth())
}

func TestOneShotJSON(t *testing.T) {
	t.Parallel()
	_, srv := newFakeGitHub(t)

	out, err := oneShot(t, srv.URL, "-q", "alpha", "--json").Output()
	require.NoError(t, err)

	var repos []map[string]any
	require.NoError(t, json.Unmarshal(out, &repos))
	require.Len(t, repos, 1)
	require.Equal(t, "e2e/alpha", repos[0]["full_name"])
}

func TestOneShotUnauthorized(t *testing.T) {
	t.Parallel()
	api, srv := newFakeGitHub(t)
	api.setStatus(http.StatusUnauthorized)

	out, err := oneShot(t, srv.URL, "-q", "alpha").CombinedOutput()
	require.Error(t, err, "a failed search exits non-zero")
	require.Contains(t, string(out), "HTTP 401: Bad credentials")
}
