package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"planviz/internal/config"
)

var (
	configPath string
	logLevel   string
)

func main() {
	root := &cobra.Command{
		Use:           "planviz",
		Short:         "Render planner action logs and rescue world snapshots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides log.level in the config")

	root.AddCommand(timelineCmd())
	root.AddCommand(sceneCmd())
	root.AddCommand(objectsCmd())
	root.AddCommand(fieldsCmd())
	root.AddCommand(editCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(modelCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// setup loads the config and installs the default logger on stderr.
func setup() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	levelName := cfg.Log.Level
	if logLevel != "" {
		levelName = logLevel
	}
	level, err := config.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}
