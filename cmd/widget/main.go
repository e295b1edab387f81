package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/ethanbaker/chatwidget/internal/frontend"
	"github.com/ethanbaker/chatwidget/pkg/utils"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultReplayDelay paces the replay of reply chunks when REPLAY_DELAY is unset
const DefaultReplayDelay = 40 * time.Millisecond

func main() {
	// Load global config
	cfg := utils.LoadServiceConfig("widget")

	// Keep log output off the terminal the widget draws on
	if path := cfg.Get("WIDGET_LOG_PATH"); path != "" {
		f, err := tea.LogToFile(path, "widget")
		if err != nil {
			log.Fatalf("[WIDGET]: Failed to open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	session, err := frontend.Open(context.Background(), cfg)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("[WIDGET]: Failed to initialize: %v", err)
	}
	defer session.Close()

	delay := cfg.GetDurationWithDefault("REPLAY_DELAY", DefaultReplayDelay)
	p := tea.NewProgram(newModel(session.Conversation, delay), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("[WIDGET]: %v", err)
	}
}
