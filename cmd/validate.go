package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwantia/textdb/data"
	"github.com/mwantia/textdb/props"
	"github.com/mwantia/textdb/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Lint repository files",
}

var validateSchemaCmd = &cobra.Command{
	Use:   "schema <file>...",
	Short: "Check documents against a template set",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("templates")
		field, _ := cmd.Flags().GetString("field")
		greedy, _ := cmd.Flags().GetBool("greedy")

		templates, err := validate.LoadTemplates(dir)
		if err != nil {
			return err
		}

		store, err := props.NewStore()
		if err != nil {
			return err
		}

		opts := validate.Options{Greedy: greedy, TypeCheck: true}

		valid := true
		for _, file := range args {
			value, err := store.Load(file)
			if err != nil {
				return err
			}

			doc, ok := value.(*data.Document)
			if !ok {
				return fmt.Errorf("%w: %s is not an object", data.ErrFormat, file)
			}

			report, err := templates.Check(doc, field, opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "WARNING: %s: %v\n", file, err)
				continue
			}

			for _, problem := range report {
				fmt.Fprintf(os.Stderr, "ERROR: %s%s\n", file, problem)
				valid = false
			}
		}

		if !valid {
			os.Exit(1)
		}
		return nil
	},
}

var validateValidityCmd = &cobra.Command{
	Use:   "validity <file>...",
	Short: "Check validity files for consistency and dangling references",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		valid := true
		for _, file := range args {
			report, err := validate.Validity(file)
			if err != nil {
				return err
			}

			for _, problem := range report {
				fmt.Fprintf(os.Stderr, "ERROR: %s%s\n", file, problem)
				valid = false
			}
		}

		if !valid {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateSchemaCmd.Flags().String("templates", "", "directory holding the schema templates")
	validateSchemaCmd.Flags().String("field", "type", "document key selecting the template")
	validateSchemaCmd.Flags().Bool("greedy", false, "reject keys absent from the template")
	_ = validateSchemaCmd.MarkFlagRequired("templates")

	validateCmd.AddCommand(validateSchemaCmd)
	validateCmd.AddCommand(validateValidityCmd)
	rootCmd.AddCommand(validateCmd)
}
