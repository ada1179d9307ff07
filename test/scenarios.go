package test

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// uniqueCounter provides unique inputs within a single run
var uniqueCounter uint64

// runID keeps inputs from one run apart from earlier runs against the same cache
var runID = strconv.FormatInt(time.Now().UnixNano()%(36*36*36*36), 36)

// uniqueInput generates an input that the server has not rendered before
func uniqueInput(base string) string {
	counter := atomic.AddUint64(&uniqueCounter, 1)
	return base + "-" + runID + counterToLetters(counter)
}

// counterToLetters converts a number to a letter sequence (1=a, 2=b, ..., 26=z, 27=aa, 28=ab, ...)
func counterToLetters(n uint64) string {
	if n == 0 {
		return "a"
	}
	result := ""
	for n > 0 {
		n-- // Make it 0-indexed
		result = string(rune('a'+(n%26))) + result
		n /= 26
	}
	return result
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// AdminToken is the plain admin token; admin scenarios are skipped without it
var AdminToken = ""

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

func pass(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

// testEntry holds a test function and its name
type testEntry struct {
	Name string
	Func func(string) TestResult
}

// getAllTests returns all test entries in order
func getAllTests() []testEntry {
	return []testEntry{
		// Group 1: Icons
		{"Health Check", TestHealth},
		{"Default Icon", TestDefaultIcon},
		{"Deterministic Icon", TestDeterministicIcon},
		{"Grid Sizes", TestGridSizes},
		{"Pixel Sizes", TestPixelSizes},
		{"Easter Eggs", TestEasterEggs},
		{"Request Validation", TestRequestValidation},
		{"Caching Headers", TestCachingHeaders},

		// Group 2: Live Preview
		{"Preview Round Trip", TestPreviewRoundTrip},
		{"Preview Errors", TestPreviewErrors},
		{"Preview Matches HTTP", TestPreviewMatchesHTTP},
		{"Preview Origin", TestPreviewOrigin},

		// Group 3: Admin
		{"Admin Requires Token", TestAdminRequiresToken},
		{"Admin Stats", TestAdminStats},
		{"Admin Purge", TestAdminPurge},
	}
}

// RunAllTests runs every scenario against the server in order
func RunAllTests(serverAddr string) []TestResult {
	results := make([]TestResult, 0)
	for _, t := range getAllTests() {
		results = append(results, t.Func(serverAddr))
	}
	return results
}

// GetTestNames returns the names of all available tests
func GetTestNames() []string {
	tests := getAllTests()
	names := make([]string, len(tests))
	for i, t := range tests {
		names[i] = t.Name
	}
	return names
}

// RunFilteredTests runs only tests whose names contain the filter string (case-insensitive)
func RunFilteredTests(serverAddr string, filter string) []TestResult {
	results := make([]TestResult, 0)
	filterLower := strings.ToLower(filter)

	for _, t := range getAllTests() {
		if strings.Contains(strings.ToLower(t.Name), filterLower) {
			results = append(results, t.Func(serverAddr))
		}
	}

	return results
}

// PrintResults prints all test results in a formatted way
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
