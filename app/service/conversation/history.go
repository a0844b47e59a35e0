package conversation

import (
	"fmt"
	"strings"
	"time"
)

type chatMessage struct {
	Username  string
	Text      string
	Timestamp time.Time
}

// ChatHistory keeps the most recent lines of a conversation.
type ChatHistory struct {
	size     int
	messages []chatMessage
}

func newChatHistory(size int) *ChatHistory {
	return &ChatHistory{size: max(size, 1)}
}

func (h *ChatHistory) add(username, text string) {
	msg := chatMessage{
		Username:  username,
		Text:      text,
		Timestamp: time.Now(),
	}

	if len(h.messages) >= h.size {
		h.messages = append(h.messages[1:], msg)
	} else {
		h.messages = append(h.messages, msg)
	}
}

func (h *ChatHistory) format() string {
	if len(h.messages) == 0 {
		return "No recent messages\n"
	}

	var builder strings.Builder

	for _, msg := range h.messages {
		builder.WriteString(fmt.Sprintf("%s - %s: %s\n", formatTime(msg.Timestamp), msg.Username, msg.Text))
	}

	return builder.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return t.Format("15:04:05")
}
