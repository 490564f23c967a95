package domain

import "time"

// CheckWindow is the time range used to decide which freshly fetched
// messages are new for a poll cycle. Since is always strictly before Until.
type CheckWindow struct {
	Since time.Time
	Until time.Time
}

// MediaKind classifies an attachment into the uniform descriptor taxonomy.
type MediaKind string

const (
	MediaKindPhoto    MediaKind = "photo"
	MediaKindDocument MediaKind = "document"
	MediaKindOther    MediaKind = "other"
)

// MediaDescriptor is the normalized metadata record produced for any
// attachment. When ExtractionError is set, every optional field is absent.
type MediaDescriptor struct {
	Kind            MediaKind `json:"type"`
	ExternalID      *int64    `json:"file_id"`
	MimeType        *string   `json:"mime_type"`
	FileSize        *int64    `json:"file_size"`
	Width           *int      `json:"width"`
	Height          *int      `json:"height"`
	Duration        *int      `json:"duration"`
	Title           *string   `json:"title"`
	Performer       *string   `json:"performer"`
	GroupedID       *int64    `json:"grouped_id"`
	ExtractionError *string   `json:"error,omitempty"`
}

// NormalizedMessage is the per-message digest entry. Timestamps are already
// shifted to the configured audience offset. Immutable once assembled.
type NormalizedMessage struct {
	ID            int               `json:"message_id"`
	Text          string            `json:"text"`
	Timestamp     time.Time         `json:"date"`
	ChannelTitle  string            `json:"channel_title"`
	ChannelHandle string            `json:"channel_username"`
	SenderID      *int64            `json:"sender_id"`
	HasMedia      bool              `json:"has_media"`
	Media         []MediaDescriptor `json:"media"`
	Views         int               `json:"views"`
	Forwards      int               `json:"forwards"`
}

// ForwardOutcome records the result of one forwarding attempt. Exactly one
// outcome exists per message that was evaluated for forwarding.
type ForwardOutcome struct {
	MessageID int
	Forwarded bool
	Err       string
}

// PollResult is the aggregate of one poll cycle across all requested channels.
type PollResult struct {
	Messages         []NormalizedMessage
	ForwardedIDs     []int
	ForwardingErrors []string
	CheckedSince     time.Time
	LastCheck        time.Time
}

// ConnectionStatus reports the state of the Telegram session.
type ConnectionStatus struct {
	Connected  bool
	Authorized bool
}

// ChannelPeer is the resolved, addressable representation of a channel or
// user within the Telegram client model.
type ChannelPeer struct {
	ID         int64
	AccessHash int64
	Title      string
	Username   string
	Kind       string // "channel", "chat" or "user"
}

// RawMessage is a fetched message before window filtering and normalization.
// Date is UTC as reported by Telegram; the poller applies the audience offset.
type RawMessage struct {
	ID         int
	Text       string
	Date       time.Time
	SenderID   *int64
	GroupedID  *int64
	Views      int
	Forwards   int
	Attachment *Attachment
}

// Attachment is a tagged variant over the attachment shapes the extractor
// understands. The tag is decided once at ingestion from the client response;
// exactly one of Photo/Document is set for the matching kind.
type Attachment struct {
	Kind     MediaKind
	TypeName string // outer Telegram constructor name, kept for degraded descriptors
	Photo    *PhotoAttachment
	Document *DocumentAttachment
}

// PhotoSize is one size variant of a photo. Progressive variants carry their
// byte sizes in ProgressiveSizes instead of Size.
type PhotoSize struct {
	Width            int
	Height           int
	Size             *int
	ProgressiveSizes []int
}

// PhotoAttachment is the photo-shaped attachment payload.
type PhotoAttachment struct {
	ID    int64
	Sizes []PhotoSize
}

// DocumentAttribute carries the optional fields one document attribute may
// contribute. An attribute may fill several fields at once.
type DocumentAttribute struct {
	Duration  *int
	Width     *int
	Height    *int
	Title     *string
	Performer *string
}

// DocumentAttachment is the document-shaped attachment payload.
type DocumentAttachment struct {
	ID         int64
	Size       int64
	MimeType   *string
	Attributes []DocumentAttribute
}

// ForwardAlert is the event published for every successfully forwarded message.
type ForwardAlert struct {
	MessageID    int       `json:"message_id"`
	ChannelTitle string    `json:"channel_title"`
	Text         string    `json:"text"`
	Destination  string    `json:"destination"`
	ForwardedAt  time.Time `json:"forwarded_at"`
}
