package helpers

import (
	"context"
	"sync"
)

// SentMessage is one message captured by RecordingSender
type SentMessage struct {
	ChannelID string
	Text      string
}

// RecordingSender keeps every message instead of delivering it
type RecordingSender struct {
	mu       sync.Mutex
	messages []SentMessage
}

// Send implements notify.Sender
func (s *RecordingSender) Send(_ context.Context, channelID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, SentMessage{ChannelID: channelID, Text: text})
	return nil
}

// Messages returns a copy of the captured messages
func (s *RecordingSender) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.messages...)
}

// Texts returns the captured texts sent to channelID
func (s *RecordingSender) Texts(channelID string) []string {
	var texts []string
	for _, m := range s.Messages() {
		if m.ChannelID == channelID {
			texts = append(texts, m.Text)
		}
	}
	return texts
}
