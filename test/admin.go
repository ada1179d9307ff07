package test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lawnchairsociety/spelunkicons/internal/testclient"
)

// =============================================================================
// Group 3: Admin
// =============================================================================

type stats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Bytes   int64 `json:"bytes"`
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func fetchStats(client *testclient.TestClient) (stats, error) {
	var s stats
	resp, err := client.Get("/admin/stats", bearer(AdminToken))
	if err != nil {
		return s, err
	}
	if resp.Status != http.StatusOK {
		return s, fmt.Errorf("status %d", resp.Status)
	}
	if err := json.Unmarshal(resp.Body, &s); err != nil {
		return s, fmt.Errorf("bad stats body: %w", err)
	}
	return s, nil
}

// TestAdminRequiresToken checks that admin endpoints refuse anonymous callers
func TestAdminRequiresToken(serverAddr string) TestResult {
	const testName = "Admin Requires Token"

	client := testclient.NewTestClient(testName, serverAddr)
	for _, h := range []http.Header{nil, bearer("wrong-token-for-testing")} {
		resp, err := client.Do(http.MethodDelete, "/admin/cache", h)
		if err != nil {
			return fail(testName, "Request failed: %v", err)
		}
		logResult(testName, resp.Status != http.StatusOK, fmt.Sprintf("status %d", resp.Status))
		// 404 means admin is disabled, which is also a refusal
		if resp.Status != http.StatusUnauthorized && resp.Status != http.StatusNotFound {
			return fail(testName, "Unauthenticated purge got status %d", resp.Status)
		}
	}
	return pass(testName, "Anonymous and wrong-token requests refused")
}

// TestAdminStats checks that a repeated render is counted as a cache hit
func TestAdminStats(serverAddr string) TestResult {
	const testName = "Admin Stats"
	if AdminToken == "" {
		return pass(testName, "Skipped (no admin token given)")
	}

	client := testclient.NewTestClient(testName, serverAddr)
	before, err := fetchStats(client)
	if err != nil {
		return fail(testName, "Stats failed: %v", err)
	}

	input := uniqueInput("stats")
	for i := 0; i < 2; i++ {
		if _, err := client.Icon(input, nil, nil); err != nil {
			return fail(testName, "Render failed: %v", err)
		}
	}

	after, err := fetchStats(client)
	if err != nil {
		return fail(testName, "Stats failed: %v", err)
	}
	logResult(testName, after.Hits > before.Hits, fmt.Sprintf("hits %d -> %d", before.Hits, after.Hits))
	if after.Hits <= before.Hits {
		return fail(testName, "Hits did not grow (%d -> %d)", before.Hits, after.Hits)
	}
	if after.Entries < 1 {
		return fail(testName, "Cache reports %d entries after a render", after.Entries)
	}
	return pass(testName, "%d entries, %d hits, %d bytes", after.Entries, after.Hits, after.Bytes)
}

// TestAdminPurge checks that purging empties the render cache
func TestAdminPurge(serverAddr string) TestResult {
	const testName = "Admin Purge"
	if AdminToken == "" {
		return pass(testName, "Skipped (no admin token given)")
	}

	client := testclient.NewTestClient(testName, serverAddr)
	if _, err := client.Icon(uniqueInput("purge"), nil, nil); err != nil {
		return fail(testName, "Render failed: %v", err)
	}

	logAction(testName, "DELETE /admin/cache")
	resp, err := client.Do(http.MethodDelete, "/admin/cache", bearer(AdminToken))
	if err != nil {
		return fail(testName, "Purge failed: %v", err)
	}
	if resp.Status != http.StatusOK {
		return fail(testName, "Purge status %d, want 200", resp.Status)
	}
	var body struct {
		Purged int64 `json:"purged"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return fail(testName, "Bad purge body: %v", err)
	}
	if body.Purged < 1 {
		return fail(testName, "Purged %d entries, want at least 1", body.Purged)
	}
	return pass(testName, "Purged %d cached renders", body.Purged)
}
