package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestLogin_StoresTokens(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad body: %v", err)
		}
		if req["email"] != "a@b.c" || req["password"] != "pw" {
			t.Errorf("credentials not passed: %v", req)
		}
		json.NewEncoder(w).Encode(TokenPair{AccessToken: "acc", RefreshToken: "ref"})
	})

	if err := c.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	access, refresh := c.Tokens()
	if access != "acc" || refresh != "ref" {
		t.Fatalf("tokens not stored: %q %q", access, refresh)
	}
	if !c.Authorized() {
		t.Fatal("client must report authorized")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.Login(context.Background(), "a@b.c", "bad")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestListFiles_QueryAndAuthHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer acc" {
			t.Errorf("auth header not sent: %q", got)
		}
		q := r.URL.Query()
		if q.Get("types") != "image,video" || q.Get("search") != "cat" ||
			q.Get("sort") != "name-asc" || q.Get("limit") != "5" {
			t.Errorf("query not encoded: %v", q)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"files": []map[string]any{{"id": "f1", "name": "cat.png"}},
			"total": 1,
		})
	})
	c.SetTokens("acc", "ref")

	got, err := c.ListFiles(context.Background(), ListOptions{
		Types: []string{"image", "video"}, Search: "cat", Sort: "name-asc", Limit: 5,
	})
	if err != nil {
		t.Fatalf("ListFiles error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "f1" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDo_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"files": []any{}, "total": 0})
	})

	if _, err := c.ListFiles(context.Background(), ListOptions{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestDo_UnavailableAfterRetries(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second) // nothing listens there

	_, err := c.ListFiles(context.Background(), ListOptions{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}

func TestUploadFile_MultipartBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing file part: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "report.pdf" || string(data) != "content" {
			t.Errorf("unexpected part: %q %q", header.Filename, data)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "f1", "name": "report.pdf"})
	})

	got, err := c.UploadFile(context.Background(), "report.pdf", []byte("content"))
	if err != nil {
		t.Fatalf("UploadFile error: %v", err)
	}
	if got.ID != "f1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestRenameFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/files/f1/name" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		if req["name"] != "new" {
			t.Errorf("name not sent: %v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": "f1", "name": "new.pdf"})
	})

	got, err := c.RenameFile(context.Background(), "f1", "new")
	if err != nil {
		t.Fatalf("RenameFile error: %v", err)
	}
	if got.Name != "new.pdf" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestDeleteFile_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.DeleteFile(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUsageSummary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/usage" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"used": 42, "all": 2048})
	})

	got, err := c.UsageSummary(context.Background())
	if err != nil {
		t.Fatalf("UsageSummary error: %v", err)
	}
	if got.Used != 42 || got.All != 2048 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestServerErrorMessagePassedThrough(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid limit"})
	})

	_, err := c.ListFiles(context.Background(), ListOptions{})
	if err == nil || err.Error() != "server error (400): invalid limit" {
		t.Fatalf("unexpected error: %v", err)
	}
}
