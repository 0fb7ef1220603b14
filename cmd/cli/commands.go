package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var tournamentID string

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(tournamentsCmd)
	resultsCmd.Flags().StringVar(&tournamentID, "tournament", "", "The tournament to fetch results for")
	resultsCmd.MarkFlagRequired("tournament")
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in the registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the courses in the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/courses")
	},
}

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "List the consolidated rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/rounds")
	},
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List the tournaments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/tournaments")
	},
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Get the standings for a tournament",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/tournaments/results?tournamentID=" + url.QueryEscape(tournamentID))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
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
