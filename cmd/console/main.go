package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    2 * time.Minute,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API at %s. Please ensure the API is running.\n", cfg.APIBaseURL)
		os.Exit(1)
	}

	startResp, err := startSession(client, cfg.APIBaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start session: %v\n", err)
		os.Exit(1)
	}

	session := startResp.Session
	if startResp.Resumable != nil {
		if promptResume(startResp.Resumable) {
			session, err = postCommand(client, cfg.APIBaseURL, "resume", struct{}{})
		} else {
			session, err = postCommand(client, cfg.APIBaseURL, "discard", struct{}{})
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to handle saved encounter: %v\n", err)
			os.Exit(1)
		}
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, session),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func promptResume(saved *encounter.Session) bool {
	fmt.Printf("Found a saved encounter (turn %d, %d party members).\n", saved.Turn, len(saved.Party))
	fmt.Print("Resume it? [y/N]: ")

	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
