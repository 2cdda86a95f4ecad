package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kepler-fts/facetrackd/internal/discovery"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run a CameraDiscovery pass and print the candidate list",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cams, err := discovery.New(cfg).Run(cmd.Context())
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(cams, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
