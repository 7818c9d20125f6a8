package main

import (
	"context"
	"fmt"

	"github.com/cuemby/journalset/pkg/config"
	"github.com/cuemby/journalset/pkg/registry"
	"github.com/spf13/cobra"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Print the reconstructed edit-log manifest from a starting transaction id",
	RunE:  runManifest,
}

func init() {
	manifestCmd.Flags().Uint64("from", 0, "Starting transaction id")
	manifestCmd.Flags().String("data-dir", "./journalsetctl-data", "Directory for the storage registry database")
}

func runManifest(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	from, _ := cmd.Flags().GetUint64("from")
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

	manifest := set.GetEditLogManifest(context.Background(), from)
	if len(manifest) == 0 {
		fmt.Println("manifest: (empty)")
		return nil
	}

	fmt.Printf("manifest from txid %d:\n", from)
	for _, seg := range manifest {
		status := "finalized"
		if seg.InProgress {
			status = "in_progress"
		}
		fmt.Printf("  [%d-%d] %s\n", seg.StartTxID, seg.EndTxID, status)
	}
	return nil
}
