package http

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/yourusername/telegram-triage-service/internal/domain"
	pkgerrors "github.com/yourusername/telegram-triage-service/pkg/errors"
)

type stubPollUseCase struct {
	result   *domain.PollResult
	err      error
	channels []string
}

func (s *stubPollUseCase) RunPoll(_ context.Context, channels []string) (*domain.PollResult, error) {
	s.channels = channels
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newRequestCtx(body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)
	return ctx
}

// TestGetMessages_Success tests the digest response shape
func TestGetMessages_Success(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	uc := &stubPollUseCase{
		result: &domain.PollResult{
			Messages: []domain.NormalizedMessage{
				{ID: 7, Text: "hello", Timestamp: now, ChannelTitle: "A", Media: []domain.MediaDescriptor{}},
			},
			ForwardedIDs: []int{7},
			CheckedSince: now.Add(-time.Minute),
			LastCheck:    now,
		},
	}

	handler := NewPollHandler(uc, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())
	ctx := newRequestCtx(`{"channels":["@a","@b"]}`)
	handler.GetMessages(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("Expected 200, got: %d", ctx.Response.StatusCode())
	}
	if len(uc.channels) != 2 {
		t.Errorf("Expected 2 channels passed through, got: %v", uc.channels)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp["status"] != "success" {
		t.Errorf("Expected status success, got: %v", resp["status"])
	}
	if resp["message_count"] != float64(1) {
		t.Errorf("Expected message_count 1, got: %v", resp["message_count"])
	}
	if resp["forwarded_count"] != float64(1) {
		t.Errorf("Expected forwarded_count 1, got: %v", resp["forwarded_count"])
	}
	if _, ok := resp["forwarding_errors"].([]interface{}); !ok {
		t.Errorf("Expected forwarding_errors array, got: %v", resp["forwarding_errors"])
	}
}

// TestGetMessages_EmptyResultArrays tests that nil slices serialize as arrays
func TestGetMessages_EmptyResultArrays(t *testing.T) {
	uc := &stubPollUseCase{result: &domain.PollResult{}}

	handler := NewPollHandler(uc, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())
	ctx := newRequestCtx(`{"channels":["@a"]}`)
	handler.GetMessages(ctx)

	body := string(ctx.Response.Body())
	var resp struct {
		Messages          []json.RawMessage `json:"messages"`
		ForwardedMessages []int             `json:"forwarded_messages"`
		ForwardingErrors  []string          `json:"forwarding_errors"`
	}
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Messages == nil || resp.ForwardedMessages == nil || resp.ForwardingErrors == nil {
		t.Errorf("Expected empty arrays instead of null, body: %s", body)
	}
}

// TestGetMessages_InvalidBody tests malformed JSON handling
func TestGetMessages_InvalidBody(t *testing.T) {
	handler := NewPollHandler(&stubPollUseCase{}, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())
	ctx := newRequestCtx(`{not json`)
	handler.GetMessages(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("Expected 400, got: %d", ctx.Response.StatusCode())
	}

	var resp map[string]string
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("Expected an error message field")
	}
}

// TestGetMessages_ErrorMapping tests use case errors mapped to HTTP statuses
func TestGetMessages_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        pkgerrors.NewValidationError("no channels specified"),
			wantStatus: fasthttp.StatusBadRequest,
		},
		{
			name:       "service unavailable",
			err:        pkgerrors.NewServiceUnavailableError("telegram client unavailable"),
			wantStatus: fasthttp.StatusServiceUnavailable,
		},
		{
			name:       "unknown error",
			err:        context.DeadlineExceeded,
			wantStatus: fasthttp.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPollHandler(&stubPollUseCase{err: tt.err}, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())
			ctx := newRequestCtx(`{"channels":[]}`)
			handler.GetMessages(ctx)

			if ctx.Response.StatusCode() != tt.wantStatus {
				t.Errorf("Expected %d, got: %d", tt.wantStatus, ctx.Response.StatusCode())
			}
		})
	}
}
