package testsupport

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// AssetServer is an httptest server that serves canned bodies by path and
// counts requests per path.
type AssetServer struct {
	*httptest.Server

	mu     sync.Mutex
	bodies map[string][]byte
	status map[string]int
	hits   map[string]int
}

// NewAssetServer starts a server that is closed when the test finishes.
func NewAssetServer(t testing.TB) *AssetServer {
	t.Helper()

	s := &AssetServer{
		bodies: make(map[string][]byte),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Set registers body for path and returns the absolute URL.
func (s *AssetServer) Set(path string, body []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[path] = body
	delete(s.status, path)
	return s.URL + path
}

// Fail makes path answer with status and returns the absolute URL.
func (s *AssetServer) Fail(path string, status int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[path] = status
	return s.URL + path
}

// Hits reports how many requests path received.
func (s *AssetServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits reports requests across all paths.
func (s *AssetServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func (s *AssetServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	status, failing := s.status[r.URL.Path]
	body, ok := s.bodies[r.URL.Path]
	s.mu.Unlock()

	switch {
	case failing:
		http.Error(w, http.StatusText(status), status)
	case !ok:
		http.NotFound(w, r)
	default:
		_, _ = w.Write(body)
	}
}
