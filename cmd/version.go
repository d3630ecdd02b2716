package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and exit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("validatord v%s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
