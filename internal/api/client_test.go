package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBearerHeaderFollowsTokenSource(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	token := ""
	c := New(Options{BaseURL: srv.URL, Token: func() string { return token }})

	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("unauthenticated request carried %q", gotAuth)
	}

	token = "tok-123"
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestUnauthorizedClearsSessionViaHook(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	hooks := 0
	c := New(Options{BaseURL: srv.URL, OnUnauthorized: func() { hooks++ }})

	_, err := c.ListTasks(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if hooks != 1 {
		t.Fatalf("hook ran %d times", hooks)
	}
}

func TestServerErrorCarriesBackendMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"title is required"}`, "title is required"},
		{"error field", `{"error":"nope"}`, "nope"},
		{"unparseable", `<html>`, ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := New(Options{BaseURL: srv.URL})
			_, err := c.ListTasks(context.Background())

			var se *ServerError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want ServerError", err)
			}
			if se.Status != http.StatusBadRequest || se.Message != tc.want {
				t.Fatalf("ServerError = %+v", se)
			}
		})
	}
}

func TestSlowResponseMapsToTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.ListTasks(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
}

func TestUnreachableServerMapsToNetworkError(t *testing.T) {
	t.Parallel()

	c := New(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	_, err := c.ListTasks(context.Background())
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}

func TestDeriveOrigin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:5000/api", "http://localhost:5000"},
		{"https://tasks.example.com/api", "https://tasks.example.com"},
		{"https://example.com/v2/api", "https://example.com/v2"},
		{"http://localhost:5000", "http://localhost:5000"},
		{"not a url", "http://localhost:5000"},
	}

	for _, tc := range tests {
		tc := tc
		if got := deriveOrigin(tc.base); got != tc.want {
			t.Errorf("deriveOrigin(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestAssetURL(t *testing.T) {
	t.Parallel()

	c := New(Options{BaseURL: "http://localhost:5000/api"})

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/uploads/a.png", "http://localhost:5000/uploads/a.png"},
		{"uploads/a.png", "http://localhost:5000/uploads/a.png"},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"HTTP://cdn.example.com/a.png", "HTTP://cdn.example.com/a.png"},
	}
	for _, tc := range tests {
		tc := tc
		if got := c.AssetURL(tc.in); got != tc.want {
			t.Errorf("AssetURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", ErrUnauthorized, "Your session has expired. Please sign in again."},
		{"timeout", ErrTimeout, "The server did not respond in time. Please retry."},
		{"network", ErrNetwork, "Could not reach the server. Please retry."},
		{"server with message", &ServerError{Status: 400, Message: "bad input"}, "bad input"},
		{"server without message", &ServerError{Status: 500}, "Something went wrong. Please retry."},
	}

	for _, tc := range tests {
		tc := tc
		if got := UserMessage(tc.err); got != tc.want {
			t.Errorf("%s: UserMessage = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestUpdateProfileUnwrapsUser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me" || r.Method != http.MethodPut {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			AvatarURL string `json:"avatarUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		if body.FirstName != "Ada" || body.AvatarURL != "/uploads/ada.png" {
			t.Errorf("body = %+v", body)
		}
		w.Write([]byte(`{"user":{"_id":"u1","firstName":"Ada","lastName":"Lovelace","avatarUrl":"/uploads/ada.png"}}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	user, err := c.UpdateProfile(context.Background(), "Ada", "Lovelace", "/uploads/ada.png")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != "u1" || user.AvatarURL != "/uploads/ada.png" {
		t.Fatalf("user = %+v", user)
	}
}

func TestUploadAvatar(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/me/avatar" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		f, header, err := r.FormFile("avatar")
		if err != nil {
			t.Errorf("avatar field: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		if header.Filename != "ada.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Write([]byte(`{"url":"/uploads/ada.png"}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	url, err := c.UploadAvatar(context.Background(), Upload{Name: "ada.png", Data: []byte("png-bytes")})
	if err != nil {
		t.Fatal(err)
	}
	if url != "/uploads/ada.png" {
		t.Fatalf("url = %q", url)
	}
}

func TestUploadAvatarRejectsOversizedFile(t *testing.T) {
	t.Parallel()

	c := New(Options{BaseURL: "http://127.0.0.1:1"})
	_, err := c.UploadAvatar(context.Background(), Upload{
		Name: "huge.png",
		Data: make([]byte, MaxUploadFileSize+1),
	})
	if err == nil {
		t.Fatal("an oversized avatar must be rejected before any request")
	}
}

func TestLoginDecodesSession(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"token":"tok","user":{"_id":"u1","firstName":"Ada"}}`))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL})
	sess, err := c.Login(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if sess.Token != "tok" || sess.User.ID != "u1" {
		t.Fatalf("session = %+v", sess)
	}
}
