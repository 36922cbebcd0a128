package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the papermm CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("papermm version %s\n", version)
		fmt.Println("A paper market-making simulator with a durable execution tape")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
