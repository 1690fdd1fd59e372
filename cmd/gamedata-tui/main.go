package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/gamedata/internal/config"
	"github.com/handiism/gamedata/internal/logging"
	"github.com/handiism/gamedata/internal/session"
	"github.com/handiism/gamedata/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", config.DefaultFileName, "Path to config file")
		rootFlag   = flag.String("root", "", "Content root (overrides config)")
		logFlag    = flag.String("log", "", "Write structured logs to this file")
	)
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *rootFlag != "" {
		settings.ContentRoot = *rootFlag
	}

	// The terminal belongs to the UI, so logs only go to a file.
	logger := logging.Discard()
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger, err = logging.NewWriter(f, settings.LogLevel, settings.LogFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := tui.Run(settings, session.WithLogger(logger)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
