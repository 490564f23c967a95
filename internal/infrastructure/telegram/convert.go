package telegram

import (
	"math/rand"
	"time"

	"github.com/gotd/td/tg"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// randomID generates a random ID for forward requests
func randomID() int64 {
	return rand.Int63()
}

// convertMessages converts a history response to raw domain messages,
// keeping the newest-first order Telegram returns.
func convertMessages(list []tg.MessageClass) []domain.RawMessage {
	var raw []domain.RawMessage
	for _, m := range list {
		msg, ok := m.(*tg.Message)
		if !ok {
			continue
		}
		raw = append(raw, convertMessage(msg))
	}
	return raw
}

// convertMessage maps a Telegram message to the raw domain shape. The
// attachment variant is decided here, once, from the response constructor.
func convertMessage(msg *tg.Message) domain.RawMessage {
	raw := domain.RawMessage{
		ID:   msg.ID,
		Text: msg.Message,
		Date: time.Unix(int64(msg.Date), 0).UTC(),
	}

	if from := msg.FromID; from != nil {
		switch peer := from.(type) {
		case *tg.PeerUser:
			raw.SenderID = &peer.UserID
		case *tg.PeerChannel:
			raw.SenderID = &peer.ChannelID
		case *tg.PeerChat:
			raw.SenderID = &peer.ChatID
		}
	}

	if groupedID, ok := msg.GetGroupedID(); ok {
		raw.GroupedID = &groupedID
	}
	if views, ok := msg.GetViews(); ok {
		raw.Views = views
	}
	if forwards, ok := msg.GetForwards(); ok {
		raw.Forwards = forwards
	}

	if media, ok := msg.GetMedia(); ok {
		raw.Attachment = convertMedia(media)
	}

	return raw
}

// convertMedia converts a Telegram media object into the tagged attachment
// variant the extractor dispatches on.
func convertMedia(media tg.MessageMediaClass) *domain.Attachment {
	switch m := media.(type) {
	case *tg.MessageMediaPhoto:
		att := &domain.Attachment{
			Kind:     domain.MediaKindPhoto,
			TypeName: media.TypeName(),
		}
		photo, ok := m.Photo.(*tg.Photo)
		if !ok {
			// Deleted or empty photo; the extractor degrades it.
			return att
		}
		att.Photo = &domain.PhotoAttachment{
			ID:    photo.ID,
			Sizes: convertPhotoSizes(photo.Sizes),
		}
		return att

	case *tg.MessageMediaDocument:
		att := &domain.Attachment{
			Kind:     domain.MediaKindDocument,
			TypeName: media.TypeName(),
		}
		doc, ok := m.Document.(*tg.Document)
		if !ok {
			return att
		}
		converted := &domain.DocumentAttachment{
			ID:   doc.ID,
			Size: doc.Size,
		}
		if doc.MimeType != "" {
			mime := doc.MimeType
			converted.MimeType = &mime
		}
		for _, attr := range doc.Attributes {
			converted.Attributes = append(converted.Attributes, convertDocumentAttribute(attr))
		}
		att.Document = converted
		return att

	default:
		return &domain.Attachment{
			Kind:     domain.MediaKindOther,
			TypeName: media.TypeName(),
		}
	}
}

// convertPhotoSizes keeps the variants the extractor understands, in the
// order Telegram lists them (smallest to largest by convention).
func convertPhotoSizes(sizes []tg.PhotoSizeClass) []domain.PhotoSize {
	var converted []domain.PhotoSize
	for _, s := range sizes {
		switch size := s.(type) {
		case *tg.PhotoSize:
			byteSize := size.Size
			converted = append(converted, domain.PhotoSize{
				Width:  size.W,
				Height: size.H,
				Size:   &byteSize,
			})
		case *tg.PhotoSizeProgressive:
			converted = append(converted, domain.PhotoSize{
				Width:            size.W,
				Height:           size.H,
				ProgressiveSizes: size.Sizes,
			})
		case *tg.PhotoCachedSize:
			converted = append(converted, domain.PhotoSize{
				Width:  size.W,
				Height: size.H,
			})
		}
	}
	return converted
}

// convertDocumentAttribute maps one document attribute to the optional
// fields it contributes.
func convertDocumentAttribute(attr tg.DocumentAttributeClass) domain.DocumentAttribute {
	var converted domain.DocumentAttribute

	switch a := attr.(type) {
	case *tg.DocumentAttributeVideo:
		duration := int(a.Duration)
		width := a.W
		height := a.H
		converted.Duration = &duration
		converted.Width = &width
		converted.Height = &height
	case *tg.DocumentAttributeAudio:
		duration := a.Duration
		converted.Duration = &duration
		if title, ok := a.GetTitle(); ok {
			converted.Title = &title
		}
		if performer, ok := a.GetPerformer(); ok {
			converted.Performer = &performer
		}
	case *tg.DocumentAttributeImageSize:
		width := a.W
		height := a.H
		converted.Width = &width
		converted.Height = &height
	}

	return converted
}
