package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/handiism/gamedata/internal/config"
	"github.com/handiism/gamedata/internal/logging"
	"github.com/handiism/gamedata/internal/model"
	"github.com/handiism/gamedata/internal/session"
)

func main() {
	// Command line flags
	var (
		configFlag    = flag.String("config", "", "Path to config file")
		rootFlag      = flag.String("root", "", "Content root (overrides config)")
		modeFlag      = flag.String("mode", "", "Directory mode: marker, suffix or auto (overrides config)")
		folderFlag    = flag.String("folder", "", "Folder below the type root, e.g. Enemies/Bosses")
		noPreloadFlag = flag.Bool("no-preload", false, "Read instances from disk instead of preloading")
		verboseFlag   = flag.Bool("verbose", false, "Show verbose output")
		logLevelFlag  = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, "GameData - manage game data instances\n\n")
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nOptions:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	// Load config
	path := *configFlag
	if path == "" {
		path = config.DefaultFileName
	}
	settings, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Apply flags
	if *rootFlag != "" {
		settings.ContentRoot = *rootFlag
	}
	if *modeFlag != "" {
		settings.DirectoryMode = *modeFlag
	}
	if *noPreloadFlag {
		settings.PreloadOnStart = false
	}
	if *logLevelFlag != "" {
		settings.LogLevel = *logLevelFlag
	}

	logger, err := logging.New(settings.LogLevel, settings.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sess, err := session.New(settings, func(event session.ProgressEvent) {
		if event.Level == session.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case session.LevelError:
			prefix = "✗ "
		case session.LevelWarning:
			prefix = "! "
		case session.LevelSuccess:
			prefix = "✓ "
		case session.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Fprintln(os.Stderr, prefix+event.Message)
	}, session.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := sess.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting session: %v\n", err)
		os.Exit(1)
	}
	defer sess.Stop()

	if err := command(sess, model.ParseFolderPath(*folderFlag), flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, "\n"+usage)
			os.Exit(2)
		}
		os.Exit(1)
	}
}
