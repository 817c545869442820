package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tagfinder.klederson.com/internal/app"
	"tagfinder.klederson.com/internal/config"
	"tagfinder.klederson.com/internal/history"
	"tagfinder.klederson.com/internal/scan"
	"tagfinder.klederson.com/internal/tracker"
)

var (
	flagDemo        bool
	flagAdapter     string
	flagDuration    int
	flagAirTagsOnly bool
	flagDataDir     string
	flagLogFile     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tagfinder",
		Short: "TagFinder - Terminal BLE tracker and AirTag finder",
		Long: `TagFinder scans for BLE advertisers, classifies trackers (AirTags,
Tiles, Find My accessories and more), estimates distance from signal
strength and keeps a persistent sighting history across runs.

Requires sudo or CAP_NET_ADMIN capability for real Bluetooth scanning.
Use --demo flag for demonstration mode without Bluetooth hardware.`,
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run in demo mode with fake devices (no Bluetooth required)")
	rootCmd.Flags().StringVar(&flagAdapter, "adapter", "", "Bluetooth adapter to use (default: saved setting)")
	rootCmd.Flags().IntVar(&flagDuration, "duration", 0, "Single-scan duration in seconds (default: saved setting)")
	rootCmd.Flags().BoolVar(&flagAirTagsOnly, "airtags-only", false, "Track only devices carrying a Find My signature")
	rootCmd.Flags().StringVar(&flagDataDir, "data-dir", "", "Directory for settings and history (default: current directory)")
	rootCmd.Flags().StringVar(&flagLogFile, "log", config.DefaultLogFile, "Log file path")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}

	// The terminal owns stdout, so logs go to a file.
	logFile, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := zerolog.New(logFile).With().Timestamp().Logger()
	log.Info().Str("version", config.AppVersion).Msg("starting")

	settings := config.Load(filepath.Join(dataDir, config.SettingsFile), log)
	if flagAdapter != "" {
		settings.Adapter = flagAdapter
	}
	if flagDuration > 0 {
		settings.ScanDuration = flagDuration
	}
	if flagAirTagsOnly {
		settings.AirTagsOnly = true
	}

	hist := history.NewStore(dataDir, log)
	hist.Load()

	registry := tracker.NewRegistry(settings, hist, log)

	// The program handle is bound after construction; scans only start
	// from key handling, by which point it is set.
	var p *tea.Program
	factory := func(adapterID string, handler scan.Handler) scan.Scanner {
		if flagDemo {
			return scan.NewMockScanner(handler)
		}
		onError := func(err error) {
			if p != nil {
				p.Send(app.ScanErrorMsg{Err: err})
			}
		}
		return scan.NewBLEScanner(adapterID, handler, onError, log)
	}

	p = tea.NewProgram(
		app.New(settings, registry, hist, factory, log),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		if !flagDemo {
			fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
			fmt.Fprintln(os.Stderr, "Bluetooth scanning requires elevated permissions.")
			fmt.Fprintln(os.Stderr, "Try one of:")
			fmt.Fprintln(os.Stderr, "  sudo ./tagfinder")
			fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./tagfinder")
			fmt.Fprintln(os.Stderr, "  ./tagfinder --demo    (demo mode, no hardware needed)")
		}
		return err
	}
	return nil
}
