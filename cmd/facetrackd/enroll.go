package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/identity"
	"github.com/kepler-fts/facetrackd/internal/inference"
)

var (
	enrollDisplayName string
	enrollImagePath   string
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <employee_id>",
	Short: "Enroll an employee's face into the IdentityIndex from a JPEG file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		employeeID := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		imageBytes, err := os.ReadFile(enrollImagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		index, err := identity.Load(cfg.IdentityIndexPath, 0)
		if err != nil {
			index = identity.New(0)
		}
		if _, ok := index.Get(employeeID); ok {
			return ftserrors.ErrDuplicate
		}

		registry := inference.NewRegistry(cfg)
		defer registry.Close()

		boxes, _, err := registry.Detect(cmd.Context(), "enroll-cli", imageBytes)
		if err != nil {
			return fmt.Errorf("detect: %w", err)
		}
		if len(boxes) == 0 {
			return ftserrors.ErrNoFace
		}
		if len(boxes) > 1 {
			return ftserrors.ErrMultipleFaces
		}

		embeddings, err := registry.Embed(cmd.Context(), imageBytes, boxes)
		if err != nil {
			return fmt.Errorf("embed: %w", err)
		}

		if err := index.Add(employeeID, enrollDisplayName, embeddings[0]); err != nil {
			return err
		}
		if err := index.Persist(cfg.IdentityIndexPath); err != nil {
			return fmt.Errorf("persist index: %w", err)
		}

		fmt.Printf("enrolled %s (%s)\n", employeeID, enrollDisplayName)
		return nil
	},
}

func init() {
	enrollCmd.Flags().StringVarP(&enrollDisplayName, "name", "n", "", "Display name")
	enrollCmd.Flags().StringVarP(&enrollImagePath, "image", "i", "", "Path to a JPEG image containing exactly one face")
	enrollCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(enrollCmd)
}
