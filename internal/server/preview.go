package server

import (
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// PreviewClient wraps a live preview WebSocket. Requests arrive as text
// lines; icons go back as binary messages and problems as "error: ..." text.
type PreviewClient struct {
	conn    *websocket.Conn
	readBuf []string   // Buffer for lines when a message contains multiple lines
	mu      sync.Mutex // Protects readBuf
	writeMu sync.Mutex // Serializes writes, including Close from Shutdown
}

// NewPreviewClient creates a PreviewClient from a WebSocket connection.
func NewPreviewClient(conn *websocket.Conn) *PreviewClient {
	return &PreviewClient{
		conn:    conn,
		readBuf: make([]string, 0),
	}
}

// ReadRequest reads the next non-empty request line (blocking).
// If a message contains multiple lines, they are buffered and returned one at a time.
func (c *PreviewClient) ReadRequest() (string, error) {
	for {
		c.mu.Lock()
		if len(c.readBuf) > 0 {
			line := c.readBuf[0]
			c.readBuf = c.readBuf[1:]
			c.mu.Unlock()
			return line, nil
		}
		c.mu.Unlock()

		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}

		var lines []string
		for _, line := range strings.Split(string(message), "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				lines = append(lines, trimmed)
			}
		}
		if len(lines) == 0 {
			continue
		}

		c.mu.Lock()
		c.readBuf = append(c.readBuf, lines[1:]...)
		c.mu.Unlock()
		return lines[0], nil
	}
}

// WriteImage sends an encoded PNG as a binary message.
func (c *PreviewClient) WriteImage(png []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.BinaryMessage, png)
}

// WriteError sends a text message describing why a request failed.
func (c *PreviewClient) WriteError(msg string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, []byte("error: "+msg))
}

// Close sends a close frame and closes the connection.
func (c *PreviewClient) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
	return c.conn.Close()
}

// RemoteAddr returns the remote address as a string.
func (c *PreviewClient) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
