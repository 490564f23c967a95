package dto

import "github.com/yourusername/telegram-triage-service/internal/domain"

// ChannelInfoRequest is the body of POST /get-channel-info.
type ChannelInfoRequest struct {
	ChannelLink string `json:"channel_link"`
}

// ChannelInfoResponse describes one resolved channel.
type ChannelInfoResponse struct {
	Status     string  `json:"status"`
	ChannelID  int64   `json:"channel_id"`
	Title      *string `json:"channel_title,omitempty"`
	Username   *string `json:"channel_username,omitempty"`
	Type       string  `json:"channel_type"`
	AccessHash *int64  `json:"access_hash,omitempty"`
}

// NewChannelInfoResponse converts a resolved peer into the wire shape.
// Empty title and username are omitted; a zero access hash means the peer
// kind does not carry one.
func NewChannelInfoResponse(peer *domain.ChannelPeer) ChannelInfoResponse {
	resp := ChannelInfoResponse{
		Status:    "success",
		ChannelID: peer.ID,
		Type:      peer.Kind,
	}
	if peer.Title != "" {
		title := peer.Title
		resp.Title = &title
	}
	if peer.Username != "" {
		username := peer.Username
		resp.Username = &username
	}
	if peer.AccessHash != 0 {
		hash := peer.AccessHash
		resp.AccessHash = &hash
	}
	return resp
}
