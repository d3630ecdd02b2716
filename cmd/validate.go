package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run exactly one cycle and exit",
	Long: `validate loads the config, runs a single evaluation cycle over every
configured service, prints a summary, and exits non-zero if any rule
failed.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := setupLogging()
	ctx := context.Background()

	a, err := buildApp(ctx, log)
	if err != nil {
		return err
	}
	defer a.store.Close()

	failures := a.sched.Tick()
	fmt.Printf("validated %d service(s), %d failure(s)\n", len(a.services), failures)
	if failures > 0 {
		return fmt.Errorf("%d rule failure(s)", failures)
	}
	return nil
}
