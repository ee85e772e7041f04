package redirect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sundayezeilo/qrdirect/internal/errx"
)

func newTestMux(t *testing.T, store Store, policy MissingPolicy) *http.ServeMux {
	t.Helper()

	resolver, err := NewResolver(ResolverConfig{
		Store:       store,
		Codes:       []string{"qr1", "qr2"},
		FallbackURL: "https://fallback.example/menu",
		Policy:      policy,
		Logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("NewResolver() failed: %v", err)
	}

	h := NewHandler(HandlerConfig{
		Resolver: resolver,
		Admin:    NewAdmin(store, []string{"qr1", "qr2"}),
		Logger:   testLogger(),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /redirect/{code}", h.Resolve)
	mux.HandleFunc("GET /config/redirects", h.GetMapping)
	mux.HandleFunc("POST /config/redirects", h.UpdateMapping)
	return mux
}

func TestHandlerResolve(t *testing.T) {
	store := NewMemStore()
	if err := store.Write(context.Background(), Mapping{"qr1": "https://a.example/menu"}); err != nil {
		t.Fatalf("seed write failed: %v", err)
	}
	mux := newTestMux(t, store, PolicyFallback)

	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "configured code redirects to destination",
			path:         "/redirect/qr1",
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "https://a.example/menu",
		},
		{
			name:         "known but unconfigured code serves fallback",
			path:         "/redirect/qr2",
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "https://fallback.example/menu",
		},
		{
			name:       "unknown code is 404",
			path:       "/redirect/qr9",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest("GET", tt.path, nil))

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if got := rr.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %s, want %s", got, tt.wantLocation)
				}
			}
		})
	}
}

func TestHandlerResolve_StoreOutage(t *testing.T) {
	downStore := &mockStore{
		readFunc: func(ctx context.Context) (Mapping, error) {
			return nil, errx.E("redirect.pgstore.Read", errx.Unavailable, errors.New("connection refused"))
		},
	}

	t.Run("fallback policy redirects to fallback", func(t *testing.T) {
		mux := newTestMux(t, downStore, PolicyFallback)

		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", "/redirect/qr1", nil))

		if rr.Code != http.StatusTemporaryRedirect {
			t.Fatalf("status = %d, want 307", rr.Code)
		}
		if got := rr.Header().Get("Location"); got != "https://fallback.example/menu" {
			t.Errorf("Location = %s, want fallback destination", got)
		}
	})

	t.Run("not_found policy surfaces 500", func(t *testing.T) {
		mux := newTestMux(t, downStore, PolicyNotFound)

		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", "/redirect/qr1", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rr.Code)
		}
	})
}

func TestHandlerGetMapping(t *testing.T) {
	t.Run("empty store returns explicit defaults", func(t *testing.T) {
		mux := newTestMux(t, NewMemStore(), PolicyFallback)

		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", "/config/redirects", nil))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}

		var got map[string]string
		if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		want := map[string]string{"qr1": "", "qr2": ""}
		if len(got) != len(want) {
			t.Fatalf("mapping = %v, want %v", got, want)
		}
		for k, v := range want {
			if got[k] != v {
				t.Errorf("%s = %q, want %q", k, got[k], v)
			}
		}
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		downStore := &mockStore{
			readFunc: func(ctx context.Context) (Mapping, error) {
				return nil, errx.E("redirect.pgstore.Read", errx.Unavailable, errors.New("connection refused"))
			},
		}
		mux := newTestMux(t, downStore, PolicyFallback)

		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", "/config/redirects", nil))

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rr.Code)
		}
	})
}

func TestHandlerUpdateMapping(t *testing.T) {
	t.Run("merge write is visible to the next resolution", func(t *testing.T) {
		store := NewMemStore()
		mux := newTestMux(t, store, PolicyFallback)

		body := `{"qr1": "https://a.example/menu"}`
		req := httptest.NewRequest("POST", "/config/redirects", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204; body: %s", rr.Code, rr.Body.String())
		}

		resolveRR := httptest.NewRecorder()
		mux.ServeHTTP(resolveRR, httptest.NewRequest("GET", "/redirect/qr1", nil))

		if resolveRR.Code != http.StatusTemporaryRedirect {
			t.Fatalf("resolve status = %d, want 307", resolveRR.Code)
		}
		if got := resolveRR.Header().Get("Location"); got != "https://a.example/menu" {
			t.Errorf("Location = %s, want newly written destination", got)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		mux := newTestMux(t, NewMemStore(), PolicyFallback)

		req := httptest.NewRequest("POST", "/config/redirects", strings.NewReader(`{"qr1":`))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("rejects empty object", func(t *testing.T) {
		mux := newTestMux(t, NewMemStore(), PolicyFallback)

		req := httptest.NewRequest("POST", "/config/redirects", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("store failure returns 500 so the operator retries", func(t *testing.T) {
		downStore := &mockStore{
			writeFunc: func(ctx context.Context, partial Mapping) error {
				return errx.E("redirect.pgstore.Write", errx.Unavailable, errors.New("connection refused"))
			},
		}
		mux := newTestMux(t, downStore, PolicyFallback)

		req := httptest.NewRequest("POST", "/config/redirects", strings.NewReader(`{"qr1": "https://a.example"}`))
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rr.Code)
		}

		var resp map[string]any
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if resp["error"] != "store_unavailable" {
			t.Errorf("error code = %v, want store_unavailable", resp["error"])
		}
	})
}
