// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/moonlight/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// General flags
	configPath string
	logLevel   string

	// Loaded in PersistentPreRunE
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "moonlight",
	Short: "MoonBoard LED controller",
	Long: `Moonlight - Lights up MoonBoard problems on an addressable LED strip.

Problems are received as "l#S12,R5,E20#" messages from the MoonBoard app,
usually through a Bluetooth serial adapter, and every hold is shown in the
color of its role (start, right, left, match, foot, end).

Connection modes:
  Serial:    --port /dev/rfcomm0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the MOONLIGHT_PASSWORD
environment variable, or prompted interactively if not set.

Strip, hold map and auto-off settings are read from --config (YAML). Flags
override the transport settings of the file.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// General flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

// loadConfig reads the configuration file and applies flag overrides
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
	} else {
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("port") || cfg.Transport.Port == "" {
		cfg.Transport.Port = portName
	}
	if flags.Changed("baud") {
		cfg.Transport.Baud = baudRate
	}
	if flags.Changed("url") || cfg.Transport.URL == "" {
		cfg.Transport.URL = wsURL
	}
	if flags.Changed("username") {
		cfg.Transport.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		cfg.Transport.NoSSLVerify = wsNoSSLVerify
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	log.SetLevel(cfg.Level())
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
