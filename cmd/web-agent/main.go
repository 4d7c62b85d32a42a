// Command web-agent is the admin-facing entry point. It serves the HTTP API
// or, given a subcommand, runs one pipeline action and prints a JSON envelope
// to stdout for the calling process to consume.
//
// Usage:
//
//	web-agent serve
//	web-agent generate_report
//	web-agent send_emails
//	web-agent get_setting <key>
//	web-agent update_setting <key> <value>
//	web-agent init_db
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"recruitcli/internal/analysis"
	"recruitcli/internal/app"
	"recruitcli/internal/config"
	"recruitcli/internal/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "web-agent: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch command {
	case "serve":
		return serve(cfg)
	case "generate_report":
		return withApp(cfg, func(ctx context.Context, a *app.Application) error {
			return printJSON(a.Reports.GenerateReport(ctx))
		})
	case "send_emails":
		return withApp(cfg, func(ctx context.Context, a *app.Application) error {
			return printJSON(a.Reports.SendEmails(ctx))
		})
	case "get_setting":
		if len(args) < 2 {
			return fmt.Errorf("usage: web-agent get_setting <key>")
		}
		return withApp(cfg, func(ctx context.Context, a *app.Application) error {
			value, err := a.Settings.Get(ctx, args[1])
			if errors.Is(err, store.ErrNotFound) {
				return printJSON(map[string]any{"success": false, "error": "setting not found"})
			}
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"success": true, "key": args[1], "value": value})
		})
	case "update_setting":
		if len(args) < 3 {
			return fmt.Errorf("usage: web-agent update_setting <key> <value>")
		}
		return withApp(cfg, func(ctx context.Context, a *app.Application) error {
			if err := a.Settings.Update(ctx, args[1], args[2]); err != nil {
				return printJSON(map[string]any{"success": false, "error": err.Error()})
			}
			return printJSON(map[string]any{"success": true})
		})
	case "init_db":
		// Store initialization runs inside app construction; reaching here
		// means the tables exist and the defaults are seeded.
		return withApp(cfg, func(ctx context.Context, a *app.Application) error {
			return printJSON(map[string]any{"success": true, "database": cfg.Database.Path})
		})
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// withApp builds the application, runs fn, and tears the store down again.
func withApp(cfg *config.Config, fn func(context.Context, *app.Application) error) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Store.Close()

	return fn(context.Background(), a)
}

func serve(cfg *config.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.Start(ctx, cancel)
	<-ctx.Done()

	return a.Stop(context.Background())
}

// printJSON writes the envelope as ASCII-safe JSON on stdout. Callers parse
// stdout, so nothing else may be printed there.
func printJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Println(analysis.ToASCII(string(data)))
	return nil
}
