package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendRecovery(t *testing.T) {
	var got message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "re_test", "ResiDate <onboarding@resend.dev>")
	resp, err := c.SendRecovery(context.Background(), "owner@spa.io", "secret-key-123")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if string(resp) != `{"id":"msg_1"}` {
		t.Fatalf("unexpected provider response %s", resp)
	}
	if auth != "Bearer re_test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if len(got.To) != 1 || got.To[0] != "owner@spa.io" || got.Subject != RecoverySubject {
		t.Fatalf("unexpected message %+v", got)
	}
	if !strings.Contains(got.HTML, "secret-key-123") {
		t.Fatal("recovery key missing from body")
	}
}

func TestSendProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid to"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", "a@b.co").Send(context.Background(), "x", "s", "h")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnprocessableEntity {
		t.Fatalf("expected APIError 422, got %v", err)
	}
}
