package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bpm/internal/capture"
	"bpm/internal/config"
)

func newCaptureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Inspect captured payloads",
	}
	cmd.AddCommand(newCaptureListCommand())
	cmd.AddCommand(newCaptureShowCommand())
	return cmd
}

func newCaptureListCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List captured payloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := capture.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no captured payloads")
				return nil
			}

			headers := []string{"ID", "Run", "Track", "Rendition", "Bytes", "Captured"}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					strconv.FormatInt(record.ID, 10),
					shortRunID(record.RunID),
					strconv.Itoa(record.Track),
					displayName(record.Fingerprint),
					strconv.Itoa(len(record.Payload)),
					record.CreatedAt.UTC().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 0, 2, 4))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", config.Default().Capture.Path, "Capture database path")
	return cmd
}

func newCaptureShowCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Hex-dump one captured payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid payload id %q", args[0])
			}

			store, err := capture.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "payload %d: run=%s track=%d rendition=%s bytes=%d captured=%s\n",
				record.ID,
				shortRunID(record.RunID),
				record.Track,
				record.Fingerprint,
				len(record.Payload),
				record.CreatedAt.UTC().Format(time.RFC3339))
			fmt.Fprint(cmd.OutOrStdout(), hex.Dump(record.Payload))
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", config.Default().Capture.Path, "Capture database path")
	return cmd
}

func shortRunID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
