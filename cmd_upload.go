package main

import (
	"aviation-ops/sheets"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadInput string

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Save a work-log file to the remote work-log store",
	Args:  cobra.NoArgs,
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadInput, "input", "i", "", "Work-log file (required)")
	uploadCmd.MarkFlagRequired("input")
}

func runUpload(cmd *cobra.Command, args []string) error {
	logs, err := readWorkLogs(uploadInput)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	fileName := filepath.Base(uploadInput)
	status, err := storeClient().Save(ctx, logs, fileName)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", fileName, err)
	}

	switch status {
	case sheets.SaveSkipped:
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no records; nothing saved\n", fileName)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d records from %s\n", len(logs), fileName)
	}
	return nil
}
