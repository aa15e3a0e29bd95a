// Command mcp-reminder serves the reminder store over MCP (stdio).
//
// Usage:
//
//	./mcp-reminder          # Start MCP server (stdio)
//	./mcp-reminder --help   # Show help
//
// Configuration is read from ~/.nevermiss/config.yaml and NEVERMISS_*
// variables, the same as the nevermiss command. Logs go to stderr.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/nevermiss/internal/app"
	"github.com/notexe/nevermiss/internal/config"
	"github.com/notexe/nevermiss/internal/reminder"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--help", "-h":
			printHelp()
			return
		}
	}

	configPath := os.Getenv("NEVERMISS_CONFIG")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(cfg, app.Options{LogLevel: "info"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	s := reminder.NewServer(a.Store, a.Parser())

	if err := server.ServeStdio(s.MCPServer()); err != nil {
		a.Logger.Sugar().Errorf("server error: %v", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`MCP Reminder Server - NeverMiss reminders via MCP protocol

USAGE:
    mcp-reminder          Start MCP server (communicates via stdio)
    mcp-reminder --help   Show this help

ENVIRONMENT:
    NEVERMISS_CONFIG      Config file (default: ~/.nevermiss/config.yaml)
    NEVERMISS_STORE_PATH  Reminders CSV file (default: ~/.nevermiss/reminders.csv)
    DEEPSEEK_API_KEY      Enables parse_reminder with the deepseek provider

TOOLS:
    parse_reminder     Parse free text into a draft (nothing is saved)
    add_reminder       Save a reviewed reminder
    list_reminders     List reminders sorted by date (optional status filter)
    complete_reminder  Mark a reminder as completed
    reopen_reminder    Mark a reminder as pending again
    reminder_summary   Count total, pending, completed and overdue reminders`)
}
