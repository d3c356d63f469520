// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	sendAdditional bool
	sendDryRun     bool
)

var sendCmd = &cobra.Command{
	Use:   "send HOLD...",
	Short: "Send a problem to a board",
	Long: `Encode holds as a problem message and write it to the connection.

Holds are given as a kind letter followed by the hold index:
  S start, R right hand, L left hand, M match, F foot, P power, E end

Example:
  moonlight send --port /dev/ttyUSB0 S12 R40 L75 E197

With no holds an empty problem is sent, which turns every hold off.`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().BoolVarP(&sendAdditional, "additional", "a", false, "Request additional LEDs")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "Print the message without sending it")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	holds, err := moonboard.ParseHoldList(args)
	if err != nil {
		return err
	}

	msg, err := moonboard.EncodeProblem(holds, sendAdditional)
	if err != nil {
		return err
	}

	if sendDryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", msg)
		return nil
	}

	conn, connInfo, err := OpenConnection(cfg.Transport)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.Write(msg); err != nil {
		return fmt.Errorf("failed to send problem: %w", err)
	}

	log.WithFields(log.Fields{
		"connection": connInfo,
		"holds":      len(holds),
	}).Infof("Sent %s", msg)
	return nil
}
