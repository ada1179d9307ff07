package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/spelunkicons/test"
)

func main() {
	serverAddr := flag.String("addr", "localhost:8080", "spelunkicons server address")
	verbose := flag.Bool("v", false, "Verbose output - show detailed actions for each test")
	filter := flag.String("run", "", "Only run tests whose name contains this string")
	list := flag.Bool("list", false, "List test names and exit")
	adminToken := flag.String("admin-token", os.Getenv("SPELUNKICONS_ADMIN_TOKEN"), "Plain admin token for the admin tests")
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(test.GetTestNames(), "\n"))
		return
	}

	// Set verbose mode
	test.Verbose = *verbose
	test.AdminToken = *adminToken

	fmt.Printf("Running integration tests against %s\n", *serverAddr)
	fmt.Println("Make sure the spelunkicons server is running with rate limiting relaxed!")
	if *verbose {
		fmt.Println("Verbose mode enabled - showing detailed test actions")
	}
	fmt.Println()

	var results []test.TestResult
	if *filter != "" {
		results = test.RunFilteredTests(*serverAddr, *filter)
	} else {
		results = test.RunAllTests(*serverAddr)
	}
	test.PrintResults(results)

	// Exit with error code if any tests failed
	for _, result := range results {
		if !result.Passed {
			os.Exit(1)
		}
	}
}
