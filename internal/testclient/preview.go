package testclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// PreviewClient is a connection to the live preview endpoint
type PreviewClient struct {
	conn *websocket.Conn
}

// DialPreview opens /ws on the server. An empty origin sends no Origin header.
// On a refused upgrade the HTTP status is returned alongside the error.
func DialPreview(address, origin string) (*PreviewClient, int, error) {
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, resp, err := dialer.Dial("ws://"+address+"/ws", header)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return nil, status, fmt.Errorf("failed to connect: %w", err)
	}
	return &PreviewClient{conn: conn}, http.StatusSwitchingProtocols, nil
}

// Send writes one text message, which may hold several request lines.
func (c *PreviewClient) Send(lines string) error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte(lines))
}

// Receive waits up to timeout for the next message.
func (c *PreviewClient) Receive(timeout time.Duration) (binary bool, data []byte, err error) {
	c.conn.SetReadDeadline(time.Now().Add(timeout))
	kind, data, err := c.conn.ReadMessage()
	if err != nil {
		return false, nil, err
	}
	return kind == websocket.BinaryMessage, data, nil
}

// Close sends a close frame and drops the connection.
func (c *PreviewClient) Close() error {
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return c.conn.Close()
}
