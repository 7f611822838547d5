package main

import (
	"fmt"
	"os"

	"github.com/roitop/roitop/internal/config"
	"github.com/roitop/roitop/internal/settings"
)

// RunSetup performs a non-interactive settings merge and prints the
// result. It loads the roitop config to determine the gRPC port, then
// merges the required OTel environment variables into the editor plugin
// settings file.
//
// Exit codes:
//   - 0: success or already configured
//   - 1: error
func RunSetup() {
	loadResult, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	for _, w := range loadResult.Warnings {
		fmt.Fprintf(os.Stderr, "Config warning: %s\n", w)
	}

	grpcPort := loadResult.Config.Receiver.GRPCPort

	output := settings.Merge(settings.MergeOptions{
		Interactive: false,
		GRPCPort:    grpcPort,
	})

	for _, msg := range output.Messages {
		fmt.Println(msg)
	}

	for _, w := range output.Warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	switch output.Result {
	case settings.MergeSuccess:
		fmt.Println("Settings updated. Restart your editor sessions to apply.")
		os.Exit(0)
	case settings.MergeAlreadyConfigured:
		fmt.Println("Already configured. No changes needed.")
		os.Exit(0)
	case settings.MergeError:
		fmt.Fprintf(os.Stderr, "Error: %v\n", output.Err)
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "Unexpected result: %v\n", output.Result)
		os.Exit(1)
	}
}
