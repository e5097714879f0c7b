package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/stacklok/rust-tracker/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_sender.go -package=mocks -source=sender.go Sender

// Sender delivers one message to one destination
type Sender interface {
	Send(ctx context.Context, channelID, text string) error
}

// channelMessenger is the subset of the discordgo session the sender uses
type channelMessenger interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSender posts messages through the Discord REST API
type DiscordSender struct {
	session channelMessenger
}

var _ Sender = (*DiscordSender)(nil)

// NewDiscordSender creates a sender authenticated with a bot token. No
// gateway connection is opened; only REST calls are made.
func NewDiscordSender(token string) (*DiscordSender, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordSender{session: session}, nil
}

// Send implements Sender
func (s *DiscordSender) Send(ctx context.Context, channelID, text string) error {
	if _, err := s.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send discord message to %s: %w", channelID, err)
	}
	return nil
}

// LogSender only logs messages. It is the dry-run driver.
type LogSender struct{}

var _ Sender = LogSender{}

// Send implements Sender
func (LogSender) Send(_ context.Context, channelID, text string) error {
	logger.Infow("Notification", "channel_id", channelID, "text", text)
	return nil
}
