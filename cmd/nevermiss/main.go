// Command nevermiss captures free-text reminders, parses them with a
// language model and tracks them in a CSV file.
//
// Usage:
//
//	nevermiss                 # interactive capture (REPL)
//	nevermiss list --status pending
//	nevermiss done 3
//	nevermiss parse "Doctor appointment next Thursday at 3pm"
//	nevermiss serve --addr :8080
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/notexe/nevermiss/internal/app"
	"github.com/notexe/nevermiss/internal/config"
	"github.com/notexe/nevermiss/internal/reminder"
	"github.com/notexe/nevermiss/internal/repl"
	"github.com/notexe/nevermiss/internal/ui"
)

func main() {
	cmd := &cli.Command{
		Name:   "nevermiss",
		Usage:  "Turn written commitments into follow-through",
		Action: runREPL,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.GetDefaultConfigPath(),
				Sources: cli.EnvVars("NEVERMISS_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Path to the reminders CSV file (overrides config)",
			},
			&cli.StringFlag{
				Name:  "provider",
				Usage: "Completion provider: deepseek or ollama (overrides config)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show reminders sorted by date",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "pending or completed"},
				},
				Action: runList,
			},
			{
				Name:   "summary",
				Usage:  "Count reminders by status",
				Action: runSummary,
			},
			{
				Name:      "done",
				Usage:     "Mark a reminder completed",
				ArgsUsage: "<id>",
				Action:    runSetStatus(reminder.StatusCompleted),
			},
			{
				Name:      "undo",
				Usage:     "Mark a reminder pending again",
				ArgsUsage: "<id>",
				Action:    runSetStatus(reminder.StatusPending),
			},
			{
				Name:      "parse",
				Usage:     "Parse text into a draft and print it (nothing is saved)",
				ArgsUsage: "<text>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "json or yaml", Value: "json"},
				},
				Action: runParse,
			},
			{
				Name:  "serve",
				Usage: "Serve the JSON API",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Listen address (overrides server.addr)",
						Sources: cli.EnvVars("NEVERMISS_ADDR"),
					},
				},
				Action: runServe,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if v := cmd.String("store"); v != "" {
		cfg.Store.Path = v
	}
	if v := cmd.String("provider"); v != "" {
		cfg.Provider = v
	}
	if v := cmd.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if cmd.Bool("no-color") {
		cfg.UI.ColoredOutput = false
	}
	return cfg, nil
}

// newApp builds the app with the log defaults of a one-shot command:
// warnings only, into the log file next to the store.
func newApp(cmd *cli.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, app.Options{LogLevel: "warn", LogFile: app.DefaultLogFile(cfg)})
}

func runREPL(ctx context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := repl.NewREPL(a.Session(), a.Config)
	if err != nil {
		return err
	}
	return r.Start(ctx)
}

func runList(_ context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	status := cmd.String("status")
	if status != "" && !reminder.ValidStatus(status) {
		return fmt.Errorf("--status must be one of: %s", strings.Join(reminder.Statuses, ", "))
	}

	rows, err := a.Store.LoadAll()
	if err != nil {
		return err
	}

	now := time.Now()
	listed := reminder.Annotate(reminder.Filter(rows, status), now)
	fmt.Println(ui.RenderDashboard(listed, reminder.Summarize(rows, now), a.Config.UI.ColoredOutput))
	return nil
}

func runSummary(_ context.Context, cmd *cli.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	rows, err := a.Store.LoadAll()
	if err != nil {
		return err
	}
	f := ui.NewFormatter(a.Config.UI.ColoredOutput, a.Config.Provider)
	fmt.Println(f.FormatSummary(reminder.Summarize(rows, time.Now())))
	return nil
}

func runSetStatus(status string) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		id, err := strconv.ParseInt(cmd.Args().First(), 10, 64)
		if err != nil {
			return fmt.Errorf("usage: nevermiss %s <id>", cmd.Name)
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Store.UpdateStatus(id, status); err != nil {
			return err
		}
		fmt.Printf("Reminder %d marked as %s.\n", id, status)
		return nil
	}
}

func runParse(ctx context.Context, cmd *cli.Command) error {
	input := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if input == "" {
		return fmt.Errorf("usage: nevermiss parse <text>")
	}
	output := cmd.String("output")
	if output != "json" && output != "yaml" {
		return fmt.Errorf("--output must be json or yaml")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Parser() == nil {
		return a.CredentialError()
	}

	draft, err := a.Parser().Parse(ctx, input, time.Now())
	if err != nil {
		return err
	}

	if err := printDraft(os.Stdout, output, draft); err != nil {
		return err
	}
	if draft.IsLowConfidence() {
		fmt.Fprintln(os.Stderr, "warning: low confidence parse, review before saving")
	}
	return nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v := cmd.String("addr"); v != "" {
		cfg.Server.Addr = v
	}

	a, err := app.New(cfg, app.Options{LogLevel: "info"})
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx, cfg.Server.Addr)
}

func printDraft(w io.Writer, output string, d *reminder.Draft) error {
	if output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(d)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
