package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Environment variables that supply flag defaults. Explicit flags win.
const (
	envDB     = "FLAPPY_DB"
	envConfig = "FLAPPY_CONFIG"
	envNEAT   = "FLAPPY_NEAT"
	envOut    = "FLAPPY_OUT"
)

// loadEnv reads ./.env when present and fills unset flags from the
// environment.
func loadEnv(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	applyEnv(cmd, "db", envDB, &flagDBPath)
	applyEnv(cmd, "config", envConfig, &flagConfig)
	applyEnv(cmd, "neat", envNEAT, &flagNEAT)
	applyEnv(cmd, "out", envOut, &flagOut)
	return nil
}

func applyEnv(cmd *cobra.Command, flag, env string, dst *string) {
	f := cmd.Flags().Lookup(flag)
	if f == nil || f.Changed {
		return
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}
