package cmd

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print a repository item as JSON",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openRepo()
		if err != nil {
			return err
		}

		item := "."
		if len(args) > 0 {
			item = args[0]
		}

		value, err := db.Lookup(item)
		if err != nil {
			return err
		}

		printJSON(render(value))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
