package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := New("/api"); err == nil {
		t.Error("expected error for relative base url")
	}
	if _, err := New("localhost:7187"); err == nil {
		t.Error("expected error for base url without scheme")
	}
}

func TestPath_EscapesSegments(t *testing.T) {
	got := Path("api", "GetPatientByUsername", "a b/c")
	want := "/api/GetPatientByUsername/a%20b%2Fc"
	if got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestGet_DecodesAndSendsBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/items" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("unexpected Authorization %q", got)
		}
		if got := r.Header.Get("X-Request-ID"); got != "rid-1" {
			t.Errorf("unexpected X-Request-ID %q", got)
		}
		json.NewEncoder(w).Encode([]item{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	})

	ctx := WithRequestID(context.Background(), "rid-1")
	var out []item
	if err := c.Get(ctx, "tok-1", Path("api", "items"), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[1].Name != "b" {
		t.Errorf("unexpected items %+v", out)
	}
}

func TestGet_NoTokenProceedsUnauthenticated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no Authorization header, got %q", got)
		}
		w.Write([]byte(`[]`))
	})

	var out []item
	if err := c.Get(context.Background(), "", "/api/items", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected zero items, got %d", len(out))
	}
}

func TestGet_EmptyAndNullBodies(t *testing.T) {
	for _, body := range []string{"", "null", "  \n"} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		var out []item
		if err := c.Get(context.Background(), "t", "/x", &out); err != nil {
			t.Errorf("body %q: unexpected error: %v", body, err)
		}
		if out != nil {
			t.Errorf("body %q: expected nil list, got %+v", body, out)
		}
	}
}

func TestPost_SendsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		b, _ := io.ReadAll(r.Body)
		if string(b) != `{"id":3,"name":"c"}` {
			t.Errorf("unexpected body %s", b)
		}
		w.WriteHeader(http.StatusCreated)
	})

	if err := c.Post(context.Background(), "t", "/api/save", item{ID: 3, Name: "c"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDo_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(strings.Repeat("x", 4096)))
	})

	err := c.Get(context.Background(), "t", "/api/items", &[]item{})
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if se.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", se.StatusCode)
	}
	if se.Reason() != "Unauthorized" {
		t.Errorf("unexpected reason %q", se.Reason())
	}
	if len(se.Body) != maxErrorBody {
		t.Errorf("expected body truncated to %d bytes, got %d", maxErrorBody, len(se.Body))
	}
	if !IsStatus(err) || IsTransport(err) {
		t.Error("expected status error classification")
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	err = c.Get(context.Background(), "t", "/api/items", &[]item{})
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !IsTransport(err) || IsStatus(err) {
		t.Errorf("expected transport error, got %T: %v", err, err)
	}
}

func TestDo_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})
	err := c.Get(context.Background(), "t", "/x", &[]item{})
	if !IsTransport(err) {
		t.Errorf("expected transport error for invalid json, got %v", err)
	}
}

func TestDo_ConcurrentCallsKeepTheirOwnToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// echo the bearer back so each caller can check it got its own
		w.Write([]byte(`{"name":"` + strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ") + `"}`))
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok := "tok-" + string(rune('a'+i))
			var out item
			if err := c.Get(context.Background(), tok, "/me", &out); err != nil {
				t.Errorf("call %d: %v", i, err)
				return
			}
			if out.Name != tok {
				t.Errorf("call %d: sent %q, server saw %q", i, tok, out.Name)
			}
		}(i)
	}
	wg.Wait()
}
