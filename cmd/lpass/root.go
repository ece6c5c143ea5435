package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"

	"github.com/vaultkeep/lpass-go/internal/config"
)

var logLevel slog.LevelVar

var rootCmd = &cobra.Command{
	Use:   "lpass",
	Short: "command-line vault client",
	Long:  "lpass is a command-line client for a hosted password vault: login, sync, search, edit, and share accounts.",
}

// Execute runs the command tree and maps the result to spec §6's exit
// codes: 0 success, 1 operational failure, 130 interrupted.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stderr, &devlog.Options{Level: &logLevel})))
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("server", "", "vault server host (default lastpass.com)")
	rootCmd.PersistentFlags().String("username", "", "account username/email")
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("username", rootCmd.PersistentFlags().Lookup("username"))

	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd, syncCmd, lsCmd, showCmd,
		addCmd, editCmd, rmCmd, duplicateCmd, mvCmd, generateCmd,
		exportCmd, importCmd, passwdCmd, shareCmd)
}

// initConfig loads an optional .env file (handy for local testing,
// per SPEC_FULL.md §4.0) and wires viper to read LPASS_*-prefixed
// environment variables, matching spec §6's environment variable
// surface.
func initConfig() {
	_ = godotenv.Load()

	viper.SetEnvPrefix("lpass")
	viper.AutomaticEnv()

	switch viper.GetString("log_level") {
	case "DEBUG", "VERBOSE":
		logLevel.Set(slog.LevelDebug)
	case "WARNING":
		logLevel.Set(slog.LevelWarn)
	case "ERROR":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}
}

func configDir() (string, error) {
	return config.ConfigDir()
}

func fatalf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
