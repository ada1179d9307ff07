package test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lawnchairsociety/spelunkicons/internal/testclient"
)

// =============================================================================
// Group 1: Icons
// =============================================================================

// TestHealth checks that the server answers its health probe
func TestHealth(serverAddr string) TestResult {
	const testName = "Health Check"

	client := testclient.NewTestClient(testName, serverAddr)
	logAction(testName, "GET /healthz")
	resp, err := client.Get("/healthz", nil)
	if err != nil {
		return fail(testName, "Request failed: %v", err)
	}
	logResult(testName, resp.Status == http.StatusOK, fmt.Sprintf("status %d", resp.Status))
	if resp.Status != http.StatusOK || string(resp.Body) != "ok" {
		return fail(testName, "Got %d %q, want 200 \"ok\"", resp.Status, resp.Body)
	}
	return pass(testName, "Server is up")
}

// TestDefaultIcon checks that a bare request returns a square PNG
func TestDefaultIcon(serverAddr string) TestResult {
	const testName = "Default Icon"

	client := testclient.NewTestClient(testName, serverAddr)
	input := uniqueInput("default")
	logAction(testName, fmt.Sprintf("Requesting %s", testclient.IconPath(input, nil)))
	resp, err := client.Icon(input, nil, nil)
	if err != nil {
		return fail(testName, "Request failed: %v", err)
	}
	if resp.Status != http.StatusOK {
		return fail(testName, "Status %d, want 200", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		return fail(testName, "Content-Type %q, want image/png", ct)
	}
	img, err := resp.Image()
	if err != nil {
		return fail(testName, "%v", err)
	}
	b := img.Bounds()
	logResult(testName, b.Dx() == b.Dy(), fmt.Sprintf("decoded %dx%d", b.Dx(), b.Dy()))
	if b.Dx() == 0 || b.Dx() != b.Dy() {
		return fail(testName, "Icon is %dx%d, want a non-empty square", b.Dx(), b.Dy())
	}
	return pass(testName, "Got a %dx%d PNG (%d bytes)", b.Dx(), b.Dy(), len(resp.Body))
}

// TestDeterministicIcon checks that the same request always yields the same bytes
func TestDeterministicIcon(serverAddr string) TestResult {
	const testName = "Deterministic Icon"

	client := testclient.NewTestClient(testName, serverAddr)
	input := uniqueInput("same")
	params := url.Values{"size": {"7"}, "misc": {"5"}}

	var bodies [][]byte
	for i := 0; i < 3; i++ {
		logAction(testName, fmt.Sprintf("Request %d for %q", i+1, input))
		resp, err := client.Icon(input, params, nil)
		if err != nil {
			return fail(testName, "Request failed: %v", err)
		}
		if resp.Status != http.StatusOK {
			return fail(testName, "Status %d, want 200", resp.Status)
		}
		bodies = append(bodies, resp.Body)
	}
	for i := 1; i < len(bodies); i++ {
		if !bytes.Equal(bodies[0], bodies[i]) {
			return fail(testName, "Response %d differs from the first", i+1)
		}
	}
	return pass(testName, "%d identical responses", len(bodies))
}

// TestGridSizes checks that the native icon width scales with the grid size
func TestGridSizes(serverAddr string) TestResult {
	const testName = "Grid Sizes"

	client := testclient.NewTestClient(testName, serverAddr)
	input := uniqueInput("sizes")
	widths := map[int]int{}
	for size := 3; size <= 8; size++ {
		resp, err := client.Icon(input, url.Values{"size": {strconv.Itoa(size)}}, nil)
		if err != nil {
			return fail(testName, "Request failed: %v", err)
		}
		if resp.Status != http.StatusOK {
			return fail(testName, "size=%d: status %d, want 200", size, resp.Status)
		}
		img, err := resp.Image()
		if err != nil {
			return fail(testName, "size=%d: %v", size, err)
		}
		widths[size] = img.Bounds().Dx()
		logResult(testName, true, fmt.Sprintf("size=%d is %dpx wide", size, widths[size]))
	}
	tile := widths[3] / 3
	for size, w := range widths {
		if w != size*tile {
			return fail(testName, "size=%d is %dpx wide, want %d", size, w, size*tile)
		}
	}
	return pass(testName, "Sizes 3 to 8 render at %dpx per tile", tile)
}

// TestPixelSizes checks that px resizes the output
func TestPixelSizes(serverAddr string) TestResult {
	const testName = "Pixel Sizes"

	client := testclient.NewTestClient(testName, serverAddr)
	input := uniqueInput("px")
	for _, px := range []int{16, 64, 100, 512} {
		resp, err := client.Icon(input, url.Values{"px": {strconv.Itoa(px)}}, nil)
		if err != nil {
			return fail(testName, "Request failed: %v", err)
		}
		if resp.Status != http.StatusOK {
			return fail(testName, "px=%d: status %d, want 200", px, resp.Status)
		}
		img, err := resp.Image()
		if err != nil {
			return fail(testName, "px=%d: %v", px, err)
		}
		b := img.Bounds()
		logResult(testName, b.Dx() == px, fmt.Sprintf("px=%d decoded %dx%d", px, b.Dx(), b.Dy()))
		if b.Dx() != px || b.Dy() != px {
			return fail(testName, "px=%d decoded %dx%d", px, b.Dx(), b.Dy())
		}
	}
	return pass(testName, "All requested pixel sizes honored")
}

// TestEasterEggs checks that both easter eggs render
func TestEasterEggs(serverAddr string) TestResult {
	const testName = "Easter Eggs"

	client := testclient.NewTestClient(testName, serverAddr)
	input := uniqueInput("egg")
	for _, egg := range []string{"pride", "classic", "unknown"} {
		logAction(testName, fmt.Sprintf("egg=%s", egg))
		resp, err := client.Icon(input, url.Values{"egg": {egg}}, nil)
		if err != nil {
			return fail(testName, "Request failed: %v", err)
		}
		if resp.Status != http.StatusOK {
			return fail(testName, "egg=%s: status %d, want 200", egg, resp.Status)
		}
		if _, err := resp.Image(); err != nil {
			return fail(testName, "egg=%s: %v", egg, err)
		}
	}
	return pass(testName, "Every egg value renders")
}

// TestRequestValidation checks the status codes for malformed requests
func TestRequestValidation(serverAddr string) TestResult {
	const testName = "Request Validation"

	client := testclient.NewTestClient(testName, serverAddr)
	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/spelunky", http.StatusNotFound},
		{http.MethodGet, "/spelunky.gif", http.StatusNotFound},
		{http.MethodGet, "/.png", http.StatusNotFound},
		{http.MethodGet, "/" + strings.Repeat("x", 63) + ".png", http.StatusOK},
		{http.MethodGet, "/" + strings.Repeat("x", 64) + ".png", http.StatusNotFound},
		{http.MethodGet, "/a.png?size=2", http.StatusBadRequest},
		{http.MethodGet, "/a.png?size=9", http.StatusBadRequest},
		{http.MethodGet, "/a.png?size=six", http.StatusBadRequest},
		{http.MethodGet, "/a.png?misc=-1", http.StatusBadRequest},
		{http.MethodGet, "/a.png?misc=lots", http.StatusBadRequest},
		{http.MethodGet, "/a.png?misc=99999", http.StatusOK},
		{http.MethodGet, "/a.png?px=1", http.StatusBadRequest},
		{http.MethodGet, "/a.png?px=big", http.StatusBadRequest},
		{http.MethodPost, "/a.png", http.StatusNotFound},
		{http.MethodPut, "/a.png", http.StatusNotFound},
	}
	for _, c := range cases {
		resp, err := client.Do(c.method, c.path, nil)
		if err != nil {
			return fail(testName, "%s %s failed: %v", c.method, c.path, err)
		}
		logResult(testName, resp.Status == c.want, fmt.Sprintf("%s %s -> %d", c.method, c.path, resp.Status))
		if resp.Status != c.want {
			return fail(testName, "%s %s: status %d, want %d", c.method, c.path, resp.Status, c.want)
		}
	}
	return pass(testName, "%d requests answered with the expected status", len(cases))
}

// TestCachingHeaders checks the HTTP caching contract
func TestCachingHeaders(serverAddr string) TestResult {
	const testName = "Caching Headers"

	client := testclient.NewTestClient(testName, serverAddr)
	input := uniqueInput("etag")
	resp, err := client.Icon(input, nil, nil)
	if err != nil {
		return fail(testName, "Request failed: %v", err)
	}
	if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "immutable") {
		return fail(testName, "Cache-Control %q is not immutable", cc)
	}
	etag := resp.Header.Get("ETag")
	if etag == "" {
		return fail(testName, "No ETag header")
	}

	logAction(testName, fmt.Sprintf("Revalidating with If-None-Match %s", etag))
	again, err := client.Icon(input, nil, http.Header{"If-None-Match": {etag}})
	if err != nil {
		return fail(testName, "Revalidation failed: %v", err)
	}
	if again.Status != http.StatusNotModified {
		return fail(testName, "Revalidation status %d, want 304", again.Status)
	}
	if len(again.Body) != 0 {
		return fail(testName, "304 carried %d body bytes", len(again.Body))
	}
	return pass(testName, "ETag %s revalidates to 304", etag)
}
