package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// Normalized Response.StopReason values.
const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
	stopError     = "error"
)

// finishResponse builds the Response shared by every SDK-backed provider.
// Truncated output is an error; otherwise content must satisfy req.Schema.
func finishResponse(req Request, content json.RawMessage, stop, model string, usage Usage) (*Response, error) {
	if stop == stopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{
		Content:    content,
		Usage:      usage,
		Model:      model,
		StopReason: stop,
	}, nil
}

// classifyAPIError sorts an SDK error by the HTTP status it carried, or 0
// when it carried none. Context errors pass through untouched.
func classifyAPIError(err error, status int) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status >= 500:
		return &ErrProviderUnavailable{Err: err}
	case status >= 400:
		return &ErrRejected{StatusCode: status, Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel expands a short alias from models; other names are used as
// model IDs verbatim.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
