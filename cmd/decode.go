// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Thermoquad/moonlight/pkg/moonboard"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [capture]",
	Short: "Display received problems in human-readable format",
	Long: `Continuously decode and display problems as they arrive.

Each problem is printed with its options and one line per hold, showing the
hold kind and its board position. Invalid hold tokens are reported.

With a capture argument the bytes are read from that file instead of the
connection ("-" reads standard input).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	var r io.Reader
	if len(args) == 1 {
		f, err := openCapture(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	} else {
		conn, connInfo, err := OpenConnection(cfg.Transport)
		if err != nil {
			return err
		}
		defer conn.Close()

		fmt.Printf("Moonlight - Problem Decoder\n")
		fmt.Printf("Connection: %s\n", connInfo)
		fmt.Printf("Press Ctrl+C to exit\n\n")
		r = conn
	}

	return decodeStream(r, cmd.OutOrStdout())
}

func openCapture(name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	return f, nil
}

// decodeStream prints every problem found in r until it ends
func decodeStream(r io.Reader, w io.Writer) error {
	parser := moonboard.NewParser()
	buf := make([]byte, 128)

	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			problem, parseErr := parser.ParseByte(buf[i])
			if parseErr != nil {
				fmt.Fprintf(w, "[ERROR] %v\n", parseErr)
				continue
			}
			if problem != nil {
				fmt.Fprint(w, moonboard.FormatHolds(problem))
				parser.Reset()
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, ErrConnectionClosed) {
				log.Debug("Stream ended")
				return nil
			}
			// Serial read errors are usually transient
			if _, ws := r.(*WebSocketConnection); ws {
				return err
			}
			log.WithError(err).Warn("Read error")
		}
	}
}
