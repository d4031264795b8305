package matchsim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/volunteerhub/matchd/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string, verbose bool) error {
	// Initialize the logger first
	if err := logger.Init("text"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "sim_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Matchd Simulation Tool
======================

A concurrent tool for exercising the volunteer matching service end to
end: it resolves synthetic address pairs, ranks events per volunteer,
runs batch matching and verifies the results.

Usage:
  go run cmd/matchsim/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -pairs int
        Number of synthetic address pairs to resolve (default 500)
  -volunteers string
        Comma-separated volunteer IDs to match (default "volunteer-001,volunteer-002")
  -limit int
        Cap on candidates per match request, 0 returns all (default 0)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for resolved pairs (default: resolved_pairs_TIMESTAMP.json)
  -log string
        Log file for simulation output (default: sim_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/matchsim/main.go

  # Simulate with custom parameters
  go run cmd/matchsim/main.go -pairs 5000 -workers 16 -url http://localhost:8080

  # Simulate against specific volunteers with verbose output
  go run cmd/matchsim/main.go -verbose -volunteers volunteer-001,volunteer-007

  # Simulate with a custom log file
  go run cmd/matchsim/main.go -pairs 2000 -log my_sim.log
`)
}
