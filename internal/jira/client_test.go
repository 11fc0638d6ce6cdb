package jira

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientDoSetsAuthAndDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "dev@example.com" || pass != "secret" {
			t.Errorf("basic auth = %q/%q, want dev@example.com/secret", user, pass)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		w.Write([]byte(`{"id":"10000","key":"PROJ","name":"Project"}`))
	}))
	defer server.Close()

	client := NewClient(Config{Domain: server.URL, Email: "dev@example.com", APIKey: "secret"})

	var out ProjectDTO
	if err := client.Do(context.Background(), "GET", "/rest/api/3/project/PROJ", nil, nil, &out); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if out.Key != "PROJ" {
		t.Errorf("decoded key = %q, want PROJ", out.Key)
	}
}

func TestClientDoReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such project", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(Config{Domain: server.URL})
	err := client.Do(context.Background(), "GET", "/rest/api/3/project/NOPE", nil, nil, nil)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
}

func TestParseTime(t *testing.T) {
	at, err := ParseTime("2024-01-02T10:30:00.000+0100")
	if err != nil {
		t.Fatalf("ParseTime() error = %v", err)
	}
	if got := at.UTC().Hour(); got != 9 {
		t.Errorf("UTC hour = %d, want 9", got)
	}

	if _, err := ParseTime("not a time"); err == nil {
		t.Error("garbage input should fail")
	}
}
