package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ethanbaker/chatwidget/internal/frontend"
	"github.com/ethanbaker/chatwidget/pkg/utils"
	"github.com/ethanbaker/chatwidget/pkg/widget"
)

func main() {
	// Load global config
	cfg := utils.LoadServiceConfig("commandline")

	ctx := context.Background()
	session, err := frontend.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("[COMMANDLINE]: Failed to initialize: %v", err)
	}
	defer session.Close()

	if err := session.Client.Health(ctx); err != nil {
		log.Printf("[COMMANDLINE]: Warning, gateway is not reachable: %v", err)
	}

	// Start interactive session
	if err := startInteractiveSession(ctx, session); err != nil {
		log.Fatalf("[COMMANDLINE]: Failed to start interactive session: %v", err)
	}
}

// startInteractiveSession reads messages from stdin until EOF or 'exit'
func startInteractiveSession(ctx context.Context, session *frontend.Session) error {
	c := session.Conversation
	fmt.Printf("%s started. Type '/suggest' for ideas, '/clear' to start over or 'exit' to quit.\n", c.Persona().Name)

	for _, m := range c.Messages() {
		printMessage(m)
	}

	// Create scanner for reading user input
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n> ")

		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "exit":
			return nil
		case "":
			continue
		case "/suggest":
			suggestions, err := session.Suggest(ctx)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			for _, suggestion := range suggestions {
				fmt.Printf("  - %s\n", suggestion)
			}
			continue
		case "/clear":
			if err := c.Reset(ctx); err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			for _, m := range c.Messages() {
				printMessage(m)
			}
			continue
		}

		reply, err := c.Send(ctx, input)
		if err != nil {
			fmt.Printf("Assistant: %s\n", widget.Apology)
			continue
		}

		fmt.Printf("Assistant: %s\n", reply.Text)
	}

	return scanner.Err()
}

func printMessage(m widget.Message) {
	if m.FromUser() {
		fmt.Printf("\n> %s\n", m.Text)
		return
	}
	fmt.Printf("Assistant: %s\n", m.Text)
}
