package business

import (
	"fmt"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// ExtractDescriptor converts one attachment into the uniform media
// descriptor. It never fails upward: malformed or partial shapes produce a
// degraded descriptor carrying only the kind and the extraction error, so
// that a garbled attachment cannot abort the whole poll.
func ExtractDescriptor(att *domain.Attachment, groupedID *int64) (desc domain.MediaDescriptor) {
	defer func() {
		if r := recover(); r != nil {
			desc = degradedDescriptor(att.Kind, fmt.Sprintf("media extraction panic: %v", r))
		}
	}()

	switch att.Kind {
	case domain.MediaKindPhoto:
		if att.Photo == nil {
			return degradedDescriptor(att.Kind, fmt.Sprintf("missing photo payload in %s", att.TypeName))
		}
		desc = extractPhoto(att.Photo)
	case domain.MediaKindDocument:
		if att.Document == nil {
			return degradedDescriptor(att.Kind, fmt.Sprintf("missing document payload in %s", att.TypeName))
		}
		desc = extractDocument(att.Document)
	default:
		desc = domain.MediaDescriptor{Kind: domain.MediaKindOther}
	}

	desc.GroupedID = groupedID
	return desc
}

// degradedDescriptor keeps the invariant that a descriptor with an
// extraction error carries no other optional fields.
func degradedDescriptor(kind domain.MediaKind, message string) domain.MediaDescriptor {
	return domain.MediaDescriptor{
		Kind:            kind,
		ExtractionError: &message,
	}
}

// extractPhoto fills the descriptor from the last size variant, which by
// convention is the largest one.
func extractPhoto(photo *domain.PhotoAttachment) domain.MediaDescriptor {
	desc := domain.MediaDescriptor{Kind: domain.MediaKindPhoto}

	id := photo.ID
	desc.ExternalID = &id

	if len(photo.Sizes) == 0 {
		return desc
	}

	largest := photo.Sizes[len(photo.Sizes)-1]
	width := largest.Width
	height := largest.Height
	desc.Width = &width
	desc.Height = &height

	if largest.Size != nil {
		size := int64(*largest.Size)
		desc.FileSize = &size
	} else if n := len(largest.ProgressiveSizes); n > 0 {
		// Progressive photos carry byte sizes per quality level; the last
		// one corresponds to the full image.
		size := int64(largest.ProgressiveSizes[n-1])
		desc.FileSize = &size
	}

	return desc
}

// extractDocument merges optional fields across the attribute list. An
// attribute may contribute several fields; later attributes overwrite
// earlier ones for the same field.
func extractDocument(doc *domain.DocumentAttachment) domain.MediaDescriptor {
	desc := domain.MediaDescriptor{Kind: domain.MediaKindDocument}

	id := doc.ID
	size := doc.Size
	desc.ExternalID = &id
	desc.FileSize = &size
	desc.MimeType = doc.MimeType

	for _, attr := range doc.Attributes {
		if attr.Duration != nil {
			desc.Duration = attr.Duration
		}
		if attr.Width != nil {
			desc.Width = attr.Width
		}
		if attr.Height != nil {
			desc.Height = attr.Height
		}
		if attr.Title != nil {
			desc.Title = attr.Title
		}
		if attr.Performer != nil {
			desc.Performer = attr.Performer
		}
	}

	return desc
}
