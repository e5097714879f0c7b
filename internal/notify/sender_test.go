package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessenger struct {
	sent []string
	err  error
}

func (f *fakeMessenger) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, channelID+":"+content)
	return &discordgo.Message{ChannelID: channelID, Content: content}, nil
}

func TestDiscordSender(t *testing.T) {
	t.Parallel()

	m := &fakeMessenger{}
	s := &DiscordSender{session: m}
	require.NoError(t, s.Send(context.Background(), "123", "hi"))
	assert.Equal(t, []string{"123:hi"}, m.sent)

	m.err = errors.New("rate limited")
	err := s.Send(context.Background(), "123", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send discord message to 123")
}

func TestNewDiscordSenderRequiresToken(t *testing.T) {
	t.Parallel()

	_, err := NewDiscordSender("")
	require.Error(t, err)

	s, err := NewDiscordSender("abc")
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	assert.NoError(t, LogSender{}.Send(context.Background(), "1", "x"))
}
