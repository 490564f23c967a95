package dto

import (
	"time"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// PollRequest is the body of POST /get-messages. MinutesAgo is accepted for
// compatibility with older clients; the lookback window is configured
// server-side and the field does not affect it.
type PollRequest struct {
	Channels   []string `json:"channels"`
	MinutesAgo int      `json:"minutes_ago,omitempty"`
}

// PollResponse is the aggregate digest returned by POST /get-messages.
type PollResponse struct {
	Status            string                     `json:"status"`
	MessageCount      int                        `json:"message_count"`
	Messages          []domain.NormalizedMessage `json:"messages"`
	LastCheck         time.Time                  `json:"last_check"`
	CheckedSince      time.Time                  `json:"checked_since"`
	ForwardedMessages []int                      `json:"forwarded_messages"`
	ForwardedCount    int                        `json:"forwarded_count"`
	ForwardingErrors  []string                   `json:"forwarding_errors"`
}

// NewPollResponse converts a poll result into the wire shape. Nil slices
// become empty ones so the JSON always carries arrays.
func NewPollResponse(result *domain.PollResult) PollResponse {
	messages := result.Messages
	if messages == nil {
		messages = []domain.NormalizedMessage{}
	}
	forwarded := result.ForwardedIDs
	if forwarded == nil {
		forwarded = []int{}
	}
	forwardingErrors := result.ForwardingErrors
	if forwardingErrors == nil {
		forwardingErrors = []string{}
	}

	return PollResponse{
		Status:            "success",
		MessageCount:      len(messages),
		Messages:          messages,
		LastCheck:         result.LastCheck,
		CheckedSince:      result.CheckedSince,
		ForwardedMessages: forwarded,
		ForwardedCount:    len(forwarded),
		ForwardingErrors:  forwardingErrors,
	}
}
