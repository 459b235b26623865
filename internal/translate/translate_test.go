package translate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGoogle_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate_a/single" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("client") != "gtx" || q.Get("dt") != "t" {
			t.Errorf("unexpected query %v", q)
		}
		if q.Get("sl") != "ko" || q.Get("tl") != "en" {
			t.Errorf("languages = %s -> %s", q.Get("sl"), q.Get("tl"))
		}
		if q.Get("q") != "안녕하세요. 세계" {
			t.Errorf("q = %q", q.Get("q"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[["Hello. ","안녕하세요. ",null,null,10],["World","세계",null,null,3]],null,"ko",null,null,null,1]`))
	}))
	defer srv.Close()

	g := &Google{BaseURL: srv.URL, Client: srv.Client()}
	got, err := g.Translate(context.Background(), "안녕하세요. 세계", "ko", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Hello. World" {
		t.Errorf("got %q, want %q", got, "Hello. World")
	}
}

func TestGoogle_EmptyTextSkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	got, err := NewGoogle(srv.URL).Translate(context.Background(), "  ", "ko", "en")
	if err != nil || got != "" {
		t.Errorf("got (%q, %v), want empty result", got, err)
	}
	if called {
		t.Error("server should not be called for blank text")
	}
}

func TestGoogle_StatusError(t *testing.T) {
	tests := []struct {
		code      int
		temporary bool
	}{
		{http.StatusBadRequest, false},
		{http.StatusForbidden, false},
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.code)
			}))
			defer srv.Close()

			_, err := NewGoogle(srv.URL).Translate(context.Background(), "텍스트", "ko", "en")
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *StatusError", err)
			}
			if se.Code != tt.code || se.Temporary() != tt.temporary {
				t.Errorf("got code %d temporary %v", se.Code, se.Temporary())
			}
		})
	}
}

func TestParseGoogleResponse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>"},
		{"empty array", "[]"},
		{"wrong shape", `["x"]`},
		{"empty segment", `[[[]]]`},
		{"non-string", `[[[5,"x"]]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseGoogleResponse([]byte(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseGoogleResponse_NullSegment(t *testing.T) {
	got, err := parseGoogleResponse([]byte(`[[["Hi",null],[null,"x"]]]`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got != "Hi" {
		t.Errorf("got %q, want Hi", got)
	}
}

func TestRetrying_EventuallySucceeds(t *testing.T) {
	calls := 0
	next := Func(func(ctx context.Context, text, source, target string) (string, error) {
		calls++
		if calls < 3 {
			return "", &StatusError{Code: 503}
		}
		return "Hello", nil
	})

	r := &Retrying{Next: next, MaxRetries: 3, InitialInterval: time.Millisecond}
	got, err := r.Translate(context.Background(), "안녕", "ko", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Hello" || calls != 3 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestRetrying_GivesUp(t *testing.T) {
	calls := 0
	boom := errors.New("network down")
	next := Func(func(ctx context.Context, text, source, target string) (string, error) {
		calls++
		return "", boom
	})

	r := &Retrying{Next: next, MaxRetries: 2, InitialInterval: time.Millisecond}
	if _, err := r.Translate(context.Background(), "안녕", "ko", "en"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetrying_PermanentNotRetried(t *testing.T) {
	calls := 0
	next := Func(func(ctx context.Context, text, source, target string) (string, error) {
		calls++
		return "", &StatusError{Code: 400}
	})

	r := &Retrying{Next: next, MaxRetries: 5, InitialInterval: time.Millisecond}
	_, err := r.Translate(context.Background(), "안녕", "ko", "en")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetrying_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	next := Func(func(ctx context.Context, text, source, target string) (string, error) {
		calls++
		cancel()
		return "", errors.New("temporary")
	})

	r := &Retrying{Next: next, MaxRetries: 10, InitialInterval: 10 * time.Millisecond}
	if _, err := r.Translate(ctx, "안녕", "ko", "en"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestStatic(t *testing.T) {
	tr := Static(map[string]string{"안녕": "Hello"})

	got, err := tr.Translate(context.Background(), "안녕", "ko", "en")
	if err != nil || got != "Hello" {
		t.Errorf("got (%q, %v)", got, err)
	}
	if _, err := tr.Translate(context.Background(), "세계", "ko", "en"); err == nil {
		t.Error("expected error for missing entry")
	}
}
