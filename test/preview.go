package test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lawnchairsociety/spelunkicons/internal/testclient"
)

// =============================================================================
// Group 2: Live Preview
// =============================================================================

const previewTimeout = 5 * time.Second

// TestPreviewRoundTrip sends a request line and expects an icon back
func TestPreviewRoundTrip(serverAddr string) TestResult {
	const testName = "Preview Round Trip"

	logAction(testName, "Connecting to /ws")
	conn, _, err := testclient.DialPreview(serverAddr, "")
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer conn.Close()

	input := uniqueInput("live")
	if err := conn.Send(input + "?size=4&px=32"); err != nil {
		return fail(testName, "Send failed: %v", err)
	}
	binary, data, err := conn.Receive(previewTimeout)
	if err != nil {
		return fail(testName, "No reply: %v", err)
	}
	if !binary {
		return fail(testName, "Got text reply %q, want an icon", data)
	}
	img, err := testclient.DecodePNG(data)
	if err != nil {
		return fail(testName, "%v", err)
	}
	logResult(testName, img.Bounds().Dx() == 32, fmt.Sprintf("decoded %dpx", img.Bounds().Dx()))
	if img.Bounds().Dx() != 32 {
		return fail(testName, "Icon is %dpx wide, want 32", img.Bounds().Dx())
	}
	return pass(testName, "Received a 32px icon over the preview socket")
}

// TestPreviewErrors checks that bad lines get an error reply without closing the socket
func TestPreviewErrors(serverAddr string) TestResult {
	const testName = "Preview Errors"

	conn, _, err := testclient.DialPreview(serverAddr, "")
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer conn.Close()

	for _, line := range []string{"x?size=9", "?size=3", "x?px=nope"} {
		logAction(testName, fmt.Sprintf("Sending %q", line))
		if err := conn.Send(line); err != nil {
			return fail(testName, "Send failed: %v", err)
		}
		binary, data, err := conn.Receive(previewTimeout)
		if err != nil {
			return fail(testName, "No reply to %q: %v", line, err)
		}
		if binary || !strings.HasPrefix(string(data), "error: ") {
			return fail(testName, "Reply to %q was not an error message", line)
		}
		logResult(testName, true, string(data))
	}

	// The socket must still serve good requests
	if err := conn.Send("x?px=16"); err != nil {
		return fail(testName, "Send failed: %v", err)
	}
	if binary, _, err := conn.Receive(previewTimeout); err != nil || !binary {
		return fail(testName, "Socket stopped serving icons after errors")
	}
	return pass(testName, "Errors reported and the socket kept working")
}

// TestPreviewMatchesHTTP checks that both paths return the same bytes
func TestPreviewMatchesHTTP(serverAddr string) TestResult {
	const testName = "Preview Matches HTTP"

	input := uniqueInput("both")
	params := url.Values{"size": {"5"}, "misc": {"3"}, "px": {"64"}}

	resp, err := testclient.NewTestClient(testName, serverAddr).Icon(input, params, nil)
	if err != nil {
		return fail(testName, "HTTP request failed: %v", err)
	}
	if resp.Status != http.StatusOK {
		return fail(testName, "HTTP status %d, want 200", resp.Status)
	}

	conn, _, err := testclient.DialPreview(serverAddr, "")
	if err != nil {
		return fail(testName, "Connection failed: %v", err)
	}
	defer conn.Close()
	if err := conn.Send(input + "?" + params.Encode()); err != nil {
		return fail(testName, "Send failed: %v", err)
	}
	_, data, err := conn.Receive(previewTimeout)
	if err != nil {
		return fail(testName, "No reply: %v", err)
	}
	if !bytes.Equal(resp.Body, data) {
		return fail(testName, "Preview returned %d bytes, HTTP returned %d different bytes", len(data), len(resp.Body))
	}
	return pass(testName, "Both paths returned the same %d bytes", len(data))
}

// TestPreviewOrigin checks that a foreign Origin is refused under the default policy
func TestPreviewOrigin(serverAddr string) TestResult {
	const testName = "Preview Origin"

	logAction(testName, "Connecting with Origin http://evil.example")
	conn, status, err := testclient.DialPreview(serverAddr, "http://evil.example")
	if err == nil {
		conn.Close()
		return fail(testName, "Cross-origin upgrade was accepted (is websocket.allowed_origins set?)")
	}
	if status != http.StatusForbidden {
		return fail(testName, "Upgrade refused with status %d, want 403", status)
	}
	return pass(testName, "Cross-origin upgrade refused")
}
