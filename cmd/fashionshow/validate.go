package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the show file and that every asset exists",
	Long: `Validates the permutations, the overlap policy and the model entries,
then reports any texture, model or sound file missing under the asset root.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid show file: %w", err)
	}
	if missing := cfg.MissingAssets(); len(missing) > 0 {
		return fmt.Errorf("missing assets under %q:\n  %s", cfg.Assets.Root, strings.Join(missing, "\n  "))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "show is valid: %d models, %d keys\n", len(cfg.Models), len(cfg.Permutations))
	return nil
}
