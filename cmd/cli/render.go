// cmd/cli/render.go
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

func renderStrength(res strengthDTO) {
	fmt.Printf("score:    %d/4 (%s)\n", res.Score, res.Level)
	fmt.Printf("entropy:  %.1f bits\n", res.EntropyBits)
	bar := strings.Repeat("#", res.Percentage/10) + strings.Repeat("-", 10-res.Percentage/10)
	switch {
	case res.Score >= 3:
		color.Green("strength: [%s] %d%%", bar, res.Percentage)
	case res.Score == 2:
		color.Yellow("strength: [%s] %d%%", bar, res.Percentage)
	default:
		color.Red("strength: [%s] %d%%", bar, res.Percentage)
	}
	if res.Warning != "" {
		color.Yellow("warning:  %s", res.Warning)
	}
	for _, s := range res.Suggestions {
		fmt.Printf("  - %s\n", s)
	}
	if !res.MeetsMinimum {
		color.Red("does not meet minimum requirements")
	}
}

func renderBreach(res breachDTO) {
	if !res.IsBreached {
		color.Green("no known breaches")
		return
	}
	color.Red("BREACHED: seen %d time(s)", res.BreachCount)
	for _, b := range res.Breaches {
		fmt.Printf("  - %s (%s) on %s\n", b.Title, b.Domain, b.BreachDate)
	}
}

func renderDashboard(d dashboardDTO) {
	m := d.Metrics
	scoreLine := fmt.Sprintf("security score: %d/100 (risk: %s)", m.SecurityScore, d.RiskLevel)
	switch d.RiskLevel {
	case "low":
		color.Green(scoreLine)
	case "medium":
		color.Yellow(scoreLine)
	default:
		color.Red(scoreLine)
	}

	fmt.Printf("passwords: %d total, %d weak, %d reused, %d old, %d breached, %d expiring\n",
		m.TotalPasswords, m.WeakPasswords, m.ReusedPasswords, m.OldPasswords,
		m.BreachedPasswords, m.ExpiringPasswords)

	if len(d.Alerts) > 0 {
		fmt.Println("\nalerts:")
		for _, a := range d.Alerts {
			line := fmt.Sprintf("  [%-8s] %s: %s", a.Severity, a.ServiceName, a.Title)
			switch a.Severity {
			case "critical":
				color.Red(line)
			case "high":
				color.Red(line)
			case "medium":
				color.Yellow(line)
			default:
				fmt.Println(line)
			}
		}
	}

	if len(d.Recommendations) > 0 {
		fmt.Println("\nrecommendations:")
		for _, r := range d.Recommendations {
			fmt.Printf("  - %s\n", r)
		}
	}
}

func renderPasswords(list []passwordDTO, showSecrets bool) {
	if len(list) == 0 {
		fmt.Println("vault is empty")
		return
	}
	for _, p := range list {
		secret := "********"
		if showSecrets {
			secret = p.Secret
		}
		fmt.Printf("%s  %-20s %-24s %s\n", p.ID, p.Service, p.Account, secret)
	}
}
