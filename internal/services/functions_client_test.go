package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFunctionsClientCall(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewFunctionsClient(srv.URL)
	err := c.Call(context.Background(), ProcUpdateCommitteeMembersCount, map[string]interface{}{
		"committee": "tech-affairs",
	})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if gotPath != "/functions/"+ProcUpdateCommitteeMembersCount {
		t.Fatalf("path = %q", gotPath)
	}
	if gotPayload["committee"] != "tech-affairs" {
		t.Fatalf("payload = %v", gotPayload)
	}
}

func TestFunctionsClientWorkerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewFunctionsClient(srv.URL)
	if err := c.Call(context.Background(), ProcSendNotificationResumeConfirm, nil); err == nil {
		t.Fatal("expected error on worker failure")
	}
}

func TestFunctionsClientDisabled(t *testing.T) {
	if c := NewFunctionsClient(""); c != nil {
		t.Fatal("empty base URL should disable the client")
	}
}
