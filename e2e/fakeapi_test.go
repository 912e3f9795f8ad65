//go:build e2e && unix

package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

// fakeGitHub answers /search/repositories with one repository per word of the query
type fakeGitHub struct {
	mu      sync.Mutex
	queries []string
	auth    []string
	status  int
}

func newFakeGitHub(t *testing.T) (*fakeGitHub, *httptest.Server) {
	t.Helper()
	f := &fakeGitHub{status: http.StatusOK}

	r := mux.NewRouter()
	r.HandleFunc("/search/repositories", f.search).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeGitHub) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	status := f.status
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != http.StatusOK {
		w.WriteHeader(status)
		fmt.Fprint(w, `{"message":"Bad credentials"}`)
		return
	}

	var items []string
	for i, word := range strings.Fields(q) {
		items = append(items, fmt.Sprintf(
			`{"id":%d,"name":%q,"full_name":"e2e/%s","owner":{"login":"e2e","avatar_url":""},"description":"fixture for %s","language":"Go","stargazers_count":%d,"watchers_count":1,"forks_count":2,"open_issues_count":3}`,
			i+1, word, word, word, 1000*(i+1)))
	}
	fmt.Fprintf(w, `{"total_count":%d,"incomplete_results":false,"items":[%s]}`, len(items), strings.Join(items, ","))
}

func (f *fakeGitHub) setStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeGitHub) lastAuth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.auth) == 0 {
		return ""
	}
	return f.auth[len(f.auth)-1]
}
