package cmd

import (
	"github.com/spf13/cobra"
)

// RootCmd is a root of all commands.
var RootCmd = &cobra.Command{
	Use:   "fs-swim [command] [flags]",
	Short: "fs-swim command-line interface",
	Long:  `fs-swim command-line interface`,
	Run:   rootCmdRun,
}

func rootCmdRun(cmd *cobra.Command, args []string) {
	cmd.Help()
}

func init() {
	// Add commands.
	RootCmd.AddCommand(serverCmd)
	RootCmd.AddCommand(membersCmd)
}

// pick resolves one option: an explicit flag wins over the config
// file, which wins over the built-in default.
func pick(flag, fromFile, def string) string {
	if flag != "" {
		return flag
	}
	if fromFile != "" {
		return fromFile
	}
	return def
}
