package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func isRateLimit(e error) bool {
	var x *ErrRateLimit
	return errors.As(e, &x)
}

func isUnavailable(e error) bool {
	var x *ErrProviderUnavailable
	return errors.As(e, &x)
}

func TestClassifyAPIError(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name   string
		err    error
		status int
		check  func(error) bool
	}{
		{"429", base, 429, isRateLimit},
		{"503", base, 503, isUnavailable},
		{"401", base, 401, func(e error) bool {
			var x *ErrRejected
			return errors.As(e, &x) && x.StatusCode == 401
		}},
		{"no status", base, 0, isUnavailable},
		{"canceled", fmt.Errorf("post: %w", context.Canceled), 0, func(e error) bool {
			return errors.Is(e, context.Canceled) && !isUnavailable(e)
		}},
		{"deadline", context.DeadlineExceeded, 0, func(e error) bool { return e == context.DeadlineExceeded }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAPIError(tt.err, tt.status)
			if !tt.check(got) {
				t.Errorf("classifyAPIError(%v, %d) = %T (%v)", tt.err, tt.status, got, got)
			}
		})
	}
}

func TestFinishResponse(t *testing.T) {
	content := json.RawMessage(`{"questions":[]}`)

	_, err := finishResponse(Request{}, content, stopMaxTokens, "m", Usage{})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %v", err)
	}

	resp, err := finishResponse(Request{}, content, stopEnd, "m", Usage{InputTokens: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Model != "m" || resp.StopReason != stopEnd || resp.Usage.InputTokens != 3 {
		t.Errorf("unexpected response %+v", resp)
	}

	_, err = finishResponse(Request{Schema: quizSchema()}, json.RawMessage(`{"nope":1}`), stopEnd, "m", Usage{})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}
