package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sgavilan/leatherstore-backend/pkg/logger"
)

type fakeIdempotencyStore struct {
	data map[string]string
}

func newFakeStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{data: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	if val, ok := f.data[key]; ok {
		return val, nil
	}
	return "", redis.Nil
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "ls:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestRouteTTLMatching(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodPost, "/api/v1/orders", true},
		{http.MethodPost, "/api/v1/orders/", true},
		{http.MethodDelete, "/api/v1/orders/0b2a8f4e-0000-0000-0000-000000000000", true},
		{http.MethodGet, "/api/v1/orders", false},
		{http.MethodPost, "/api/v1/stock", false},
		{http.MethodDelete, "/api/v1/orders", false},
		{http.MethodDelete, "/api/v1/orders/abc/status", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		_, got := routeTTL(tc.method, requestPath(req))
		if got != tc.want {
			t.Errorf("routeTTL(%s %s) matched = %v, want %v", tc.method, tc.path, got, tc.want)
		}
	}
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"abc"}}`))
	}))

	body := `{"client_id":"x","items":[]}`

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(first, req)

	if first.Code != http.StatusCreated {
		t.Fatalf("first request status = %d", first.Code)
	}
	if calls != 1 {
		t.Fatalf("expected one handler call, got %d", calls)
	}

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(second, req)

	if calls != 1 {
		t.Fatalf("replay must not reach the handler, got %d calls", calls)
	}
	if second.Code != http.StatusCreated {
		t.Errorf("replay status = %d, want %d", second.Code, http.StatusCreated)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replay body = %q, want %q", second.Body.String(), first.Body.String())
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"a":1}`))
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"a":2}`))
	req.Header.Set("Idempotency-Key", "key-1")
	handler.ServeHTTP(second, req)

	if second.Code != http.StatusConflict {
		t.Errorf("reused key with new body status = %d, want %d", second.Code, http.StatusConflict)
	}
}

func TestIdempotencyRequiresHeaderOnCriticalRoutes(t *testing.T) {
	store := newFakeStore()
	handler := Idempotency(store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing key status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestIdempotencySkipsUnmatchedRoutes(t *testing.T) {
	store := newFakeStore()
	calls := 0
	handler := Idempotency(store, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	handler.ServeHTTP(rec, req)

	if calls != 1 || rec.Code != http.StatusOK {
		t.Errorf("unmatched route should pass through, calls=%d status=%d", calls, rec.Code)
	}
	if len(store.data) != 0 {
		t.Errorf("nothing should be stored for unmatched routes")
	}
}
