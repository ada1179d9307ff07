// Package testclient drives a running spelunkicons server over HTTP and the
// live preview WebSocket.
package testclient

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"time"
)

// TestClient represents a test client of one spelunkicons server
type TestClient struct {
	Name string
	addr string
	http *http.Client
}

// Response is a fully read HTTP response
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewTestClient creates a client for the server at address (host:port).
func NewTestClient(name string, address string) *TestClient {
	return &TestClient{
		Name: name,
		addr: address,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Do sends a request and reads the whole body.
func (c *TestClient) Do(method, path string, header http.Header) (*Response, error) {
	req, err := http.NewRequest(method, "http://"+c.addr+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Get is Do with GET.
func (c *TestClient) Get(path string, header http.Header) (*Response, error) {
	return c.Do(http.MethodGet, path, header)
}

// Icon requests /{input}.png with the given query parameters.
func (c *TestClient) Icon(input string, params url.Values, header http.Header) (*Response, error) {
	return c.Get(IconPath(input, params), header)
}

// IconPath builds the request path for an icon.
func IconPath(input string, params url.Values) string {
	p := "/" + url.PathEscape(input) + ".png"
	if len(params) > 0 {
		p += "?" + params.Encode()
	}
	return p
}

// Image decodes the response body as a PNG.
func (r *Response) Image() (image.Image, error) {
	return DecodePNG(r.Body)
}

// DecodePNG decodes an encoded icon.
func DecodePNG(data []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("body is not a PNG: %w", err)
	}
	return img, nil
}
