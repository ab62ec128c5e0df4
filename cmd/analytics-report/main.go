/*
Package main
File: cmd/analytics-report/main.go
Description:
    Operator CLI: loads the live server's analytics snapshot and renders
    a windowed summary as a table, the out-of-process counterpart to
    get_analytics_summary. Never imported by the server itself.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/everforgeworks/sector-commander/internal/analytics"
	"github.com/everforgeworks/sector-commander/internal/config"
)

func main() {
	configPath := flag.String("config", "server/game_config.json", "path to game_config.json")
	windowHours := flag.Float64("window", 24, "summary window in hours")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	snapshotPath := filepath.Join(settings.SaveRoot, "analytics_metrics.json")
	store := analytics.New(snapshotPath, settings.AnalyticsMaxEvents, settings.AnalyticsRetentionDays, settings.AnalyticsFlushIntervalSeconds)
	if err := store.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load %s: %v\n", snapshotPath, err)
		os.Exit(1)
	}

	now := float64(time.Now().Unix())
	summary := store.Summary(now, *windowHours)

	fmt.Printf("Analytics summary — last %.0fh\n", summary.WindowHours)

	overview := tablewriter.NewWriter(os.Stdout)
	overview.SetHeader([]string{"Total Events", "Successes", "Failures", "Success Rate"})
	overview.Append([]string{
		strconv.Itoa(summary.TotalEvents),
		strconv.Itoa(summary.SuccessCount),
		strconv.Itoa(summary.FailureCount),
		fmt.Sprintf("%.1f%%", summary.SuccessRate*100),
	})
	overview.Render()

	fmt.Println()
	fmt.Println("Top actions:")
	topTable := tablewriter.NewWriter(os.Stdout)
	topTable.SetHeader([]string{"Action", "Count"})
	for _, nc := range summary.TopNames {
		topTable.Append([]string{nc.Name, strconv.Itoa(nc.Count)})
	}
	topTable.Render()

	for _, rec := range analytics.Recommendations(summary) {
		fmt.Println("- " + rec)
	}
}
