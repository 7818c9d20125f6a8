package main

import (
	"context"
	"fmt"

	"github.com/cuemby/journalset/pkg/config"
	"github.com/cuemby/journalset/pkg/log"
	"github.com/cuemby/journalset/pkg/registry"
	"github.com/spf13/cobra"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Run a single segment lifecycle (start, write, flush, finalize) across the configured journals",
	RunE:  runSegment,
}

func init() {
	segmentCmd.Flags().Uint64("txid", 1, "Starting transaction id for the segment")
	segmentCmd.Flags().StringSlice("record", nil, "Record to write; repeat for multiple records")
	segmentCmd.Flags().String("data-dir", "./journalsetctl-data", "Directory for the storage registry database")
}

func runSegment(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	txid, _ := cmd.Flags().GetUint64("txid")
	records, _ := cmd.Flags().GetStringSlice("record")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg, err := registry.NewBoltRegistry(dataDir)
	if err != nil {
		return err
	}
	defer reg.Close()

	set, err := buildSet(cfg, reg, nil)
	if err != nil {
		return err
	}
	defer set.Close()

	ctx := context.Background()
	cmdLog := log.WithComponent("journalsetctl")

	stream, err := set.StartLogSegment(ctx, txid)
	if err != nil {
		return fmt.Errorf("start_log_segment: %w", err)
	}
	if err := stream.Create(); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	lastTxID := txid
	for i, r := range records {
		if err := stream.Write([]byte(r)); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
		lastTxID = txid + uint64(i)
	}

	if err := stream.SetReadyToFlush(); err != nil {
		return fmt.Errorf("set_ready_to_flush: %w", err)
	}
	if err := stream.FlushAndSync(); err != nil {
		return fmt.Errorf("flush_and_sync: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}

	if err := set.FinalizeLogSegment(ctx, txid, lastTxID); err != nil {
		return fmt.Errorf("finalize_log_segment: %w", err)
	}

	cmdLog.Info().Uint64("start_txid", txid).Uint64("end_txid", lastTxID).Msg("segment lifecycle complete")
	return nil
}
