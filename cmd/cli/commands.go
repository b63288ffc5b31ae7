package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	matchType int64
	fixtureID int64
)

func init() {
	for _, cmd := range []*cobra.Command{resultsCmd, remainingCmd, standingsCmd, announceCmd} {
		cmd.Flags().Int64Var(&matchType, "match-type", 0, "Match type id")
		cmd.MarkFlagRequired("match-type")
	}

	fixtureResultsCmd.Flags().Int64Var(&fixtureID, "fixture", 0, "Fixture id")
	fixtureResultsCmd.MarkFlagRequired("fixture")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(remainingCmd)
	rootCmd.AddCommand(fixtureResultsCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Poll the mailbox now and record any played matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/process", nil)
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List the recorded results of a match type",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/results", matchTypeQuery())
	},
}

var fixtureResultsCmd = &cobra.Command{
	Use:   "fixture-results",
	Short: "List the results recorded against one fixture",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/fixtures/"+strconv.FormatInt(fixtureID, 10)+"/results", nil)
	},
}

var remainingCmd = &cobra.Command{
	Use:   "remaining",
	Short: "List the fixtures of a match type still waiting for a result",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/fixtures/remaining", matchTypeQuery())
	},
}

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the league table of a match type",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/standings", matchTypeQuery())
	},
}

var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Post the league table of a match type to Slack",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/standings/announce", matchTypeQuery())
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the persistent tally of processing outcomes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/stats", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

func matchTypeQuery() url.Values {
	return url.Values{"match_type": {strconv.FormatInt(matchType, 10)}}
}

func performRequest(method, endpoint string, query url.Values) error {
	if query == nil {
		query = url.Values{}
	}
	if dryRun {
		query.Set("dry_run", "true")
	}
	target := host + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
