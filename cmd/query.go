package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwantia/textdb/data"
)

var queryCmd = &cobra.Command{
	Use:   "query [path]",
	Short: "Resolve a directory's validity at a timestamp",
	Long: "query looks up the directory at path (the repository root by default), " +
		"resolves its validity specification at the given timestamp and prints the " +
		"merged document.",
	Args: cobra.MaximumNArgs(1),
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
		node, ok := value.Namespace()
		if !ok {
			return fmt.Errorf("%w: %s is not a directory", data.ErrInvalidPath, item)
		}

		timestamp, _ := cmd.Flags().GetString("timestamp")
		if timestamp == "" {
			timestamp = data.FormatTimestamp(time.Now().UTC())
		}
		pattern, _ := cmd.Flags().GetString("pattern")
		category, _ := cmd.Flags().GetString("category")

		doc, err := node.On(timestamp, pattern, category)
		if err != nil {
			return err
		}

		printJSON(doc.Unwrap())
		return nil
	},
}

func init() {
	queryCmd.Flags().StringP("timestamp", "t", "", "query timestamp (YYYYMMDDThhmmssZ, default now)")
	queryCmd.Flags().StringP("pattern", "p", "", "filter resolved file names by regular expression")
	queryCmd.Flags().StringP("category", "c", "", "validity category (default \"all\")")

	rootCmd.AddCommand(queryCmd)
}
