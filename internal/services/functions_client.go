package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Remote procedure names understood by the functions worker.
const (
	ProcSendNotificationResumeConfirm    = "sendNotificationResumeConfirm"
	ProcSendNotificationCommitteeRequest = "sendNotificationCommitteeRequest"
	ProcUpdateCommitteeMembersCount      = "updateCommitteeMembersCount"
	ProcResetMonthlyPoints               = "resetMonthlyPoints"
)

// FunctionsClient invokes named procedures on the functions worker over HTTP.
// Callers treat failures as advisory; the worker owns retries and idempotency.
type FunctionsClient struct {
	baseURL string
	http    *http.Client
}

func NewFunctionsClient(baseURL string) *FunctionsClient {
	if baseURL == "" {
		return nil
	}
	return &FunctionsClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *FunctionsClient) Call(ctx context.Context, proc string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", proc, err)
	}

	url := fmt.Sprintf("%s/functions/%s", c.baseURL, proc)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", proc, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", proc, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("call %s: worker returned %s", proc, resp.Status)
	}
	return nil
}
