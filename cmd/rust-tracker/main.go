// Package main is the entry point for the rust-tracker server and operator CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/stacklok/rust-tracker/cmd/rust-tracker/app"
	"github.com/stacklok/rust-tracker/internal/config"
	"github.com/stacklok/rust-tracker/internal/logger"
)

// getLogLevel reads TRACKER_LOG_LEVEL, falling back to LOG_LEVEL
func getLogLevel() string {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	levelStr := v.GetString("LOG_LEVEL")
	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}
	return levelStr
}

func main() {
	level := getLogLevel()
	if _, err := logger.ParseLevel(level); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid LOG_LEVEL %q, using info\n", level)
		level = "info"
	}
	if err := logger.Initialize(logger.Options{Level: level}); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := app.NewRootCmd().Execute(); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}
