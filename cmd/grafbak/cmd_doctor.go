package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/grafbak/grafbak/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against config, Grafana reachability, and auth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd)
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(cmd *cobra.Command) error {
	fmt.Println("\ngrafbak Doctor")
	fmt.Println("==============")

	resolveConfig()

	var results []checkResult

	// 1. Grafana URL.
	if flagURL == "" {
		results = append(results, checkResult{
			Name: "Grafana URL", Passed: false,
			Hint: "Set --grafana_url, GRAFANA_URL, or ~/.grafbak/config.yaml",
		})
	} else {
		results = append(results, checkResult{
			Name: "Grafana URL", Passed: true, Detail: flagURL,
		})
	}

	// 2. API key.
	if flagKey == "" {
		results = append(results, checkResult{
			Name: "API key", Passed: false,
			Hint: "Set --api_key, GRAFANA_API_KEY, or ~/.grafbak/config.yaml",
		})
	} else {
		results = append(results, checkResult{
			Name: "API key", Passed: true, Detail: "configured",
		})
	}

	// 3. Grafana reachable.
	if flagURL != "" {
		api := client.New(flagURL, client.WithAPIKey(flagKey), client.WithTimeout(5*time.Second))
		health, err := api.Health(cmd.Context())
		if err != nil {
			results = append(results, checkResult{
				Name: "Grafana reachable", Passed: false,
				Detail: flagURL,
				Hint:   fmt.Sprintf("Is Grafana running at this URL? Error: %v", err),
			})
		} else {
			detail := flagURL
			if health.Version != "" {
				detail = fmt.Sprintf("v%s", health.Version)
			}
			results = append(results, checkResult{
				Name: "Grafana reachable", Passed: true, Detail: detail,
			})
		}

		// 4. Authentication: the folder list requires a valid key.
		if flagKey != "" {
			if _, err := api.Folders.List(cmd.Context()); err != nil {
				hint := fmt.Sprintf("Error: %v", err)
				if client.IsUnauthorized(err) {
					hint = "Check your API key or service account token"
				}
				results = append(results, checkResult{
					Name: "Authentication", Passed: false, Hint: hint,
				})
			} else {
				results = append(results, checkResult{
					Name: "Authentication", Passed: true, Detail: "valid",
				})
			}
		}
	}

	// Print results.
	fmt.Println()
	allPassed := true
	for _, r := range results {
		if r.Passed {
			if r.Detail != "" {
				fmt.Printf("✅ %s: %s\n", r.Name, r.Detail)
			} else {
				fmt.Printf("✅ %s\n", r.Name)
			}
		} else {
			allPassed = false
			if r.Detail != "" {
				fmt.Printf("❌ %s: %s\n", r.Name, r.Detail)
			} else {
				fmt.Printf("❌ %s\n", r.Name)
			}
			if r.Hint != "" {
				fmt.Printf("   Hint: %s\n", r.Hint)
			}
		}
	}

	fmt.Println()
	if allPassed {
		fmt.Println("✅ All checks passed!")
	} else {
		fmt.Println("❌ Some checks failed.")
		return fmt.Errorf("doctor found issues")
	}

	return nil
}
