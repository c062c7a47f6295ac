package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

func writeEnvelope(w http.ResponseWriter, httpStatus int, detail string, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"detail": detail,
		"status": status,
		"data":   data,
		"meta":   map[string]any{},
	})
}

func ok(w http.ResponseWriter, detail string, data any) {
	writeEnvelope(w, http.StatusOK, detail, http.StatusOK, data)
}

func fail(w http.ResponseWriter, status int, detail string) {
	writeEnvelope(w, status, detail, status, nil)
}

// newAPI mounts r under /api and returns the API root URL.
func newAPI(t *testing.T, r chi.Router) string {
	t.Helper()
	root := chi.NewRouter()
	root.Mount("/api", r)
	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)
	return srv.URL + "/api"
}

// memRepo is an in-memory metadata.Repository.
type memRepo struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemRepo() *memRepo {
	return &memRepo{data: map[string][]byte{}}
}

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memRepo) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
