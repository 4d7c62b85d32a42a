// Command recruitment-agent runs the reporting pipeline once from the shell:
// fetch the workbook, extract the metrics, write the narrative and print the
// rendered report. With -send it also mails the report to the configured
// recipients.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"recruitcli/internal/app"
	"recruitcli/internal/config"
	"recruitcli/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "recruitment-agent: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	send := flag.Bool("send", false, "email the report to the configured recipients after generating it")
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Store.Close()

	ctx := context.Background()

	// A key exported in the environment seeds the store on first run so the
	// one-shot flow works without touching the admin surface.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		stored, err := a.Store.GetSetting(ctx, store.KeyAPIKey)
		if err != nil || stored == "" {
			if err := a.Store.UpdateSetting(ctx, store.KeyAPIKey, key); err != nil {
				return fmt.Errorf("failed to store API key: %w", err)
			}
		}
	}

	result := a.Reports.GenerateReport(ctx)
	if !result.Success {
		return fmt.Errorf("%s", result.Error)
	}

	fmt.Println(result.Report)

	if result.AnalysisSource == "fallback" {
		fmt.Fprintln(os.Stderr, "note: narrative produced by the rule-based fallback")
	}

	if *send {
		sent := a.Reports.SendEmails(ctx)
		if !sent.Success {
			return fmt.Errorf("%s", sent.Error)
		}
		fmt.Fprintf(os.Stderr, "sent %d of %d emails\n", sent.SentCount, sent.TotalClients)
	}

	return nil
}
