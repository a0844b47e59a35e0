package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

type MessageHandler func(username, text string)

// Client reads chat lines from an input stream and writes replies to an
// output stream.
type Client struct {
	username string
	botName  string
	in       io.Reader
	out      io.Writer

	mutex          sync.RWMutex
	messageHandler MessageHandler
}

func New(in io.Reader, out io.Writer, username, botName string) *Client {
	return &Client{
		username: username,
		botName:  botName,
		in:       in,
		out:      out,
	}
}

func (c *Client) SetListener(listener MessageHandler) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.messageHandler = listener
}

// Run hands every non-empty input line to the listener until the input ends
// or ctx is done. Cancellation is noticed between lines.
func (c *Client) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(c.in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		c.mutex.RLock()
		handler := c.messageHandler
		c.mutex.RUnlock()

		if handler == nil {
			slog.Debug("No listener, dropping line", "text", text)
			continue
		}

		handler(c.username, text)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	return nil
}

// SendMessage writes a reply line.
func (c *Client) SendMessage(text string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, err := fmt.Fprintf(c.out, "%s: %s\n", c.botName, text); err != nil {
		return fmt.Errorf("write reply: %w", err)
	}

	return nil
}
