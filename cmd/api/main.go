package main

import (
	"github.com/ethanbaker/chatwidget/internal/api"
	"github.com/ethanbaker/chatwidget/pkg/utils"
)

// Start the API server
func main() {
	// Load global config
	cfg := utils.LoadServiceConfig("api")

	// Start
	api.Start(cfg)
}
