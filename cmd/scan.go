package cmd

import (
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [subdir]",
	Short: "Eagerly load the repository and list its items",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openRepo()
		if err != nil {
			return err
		}

		subdir := "."
		if len(args) > 0 {
			subdir = args[0]
		}

		recursive, _ := cmd.Flags().GetBool("recursive")
		if err := db.ScanDir(subdir, recursive); err != nil {
			return err
		}

		printJSON(db.Keys())
		return nil
	},
}

func init() {
	scanCmd.Flags().Bool("recursive", true, "descend into subdirectories")
	rootCmd.AddCommand(scanCmd)
}
