package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacksmith/pm/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the products file for integrity issues",
	Long: `Check the products file for problems that updates or hand edits can
introduce:
  - Two products sharing an ID
  - Two products sharing a code
  - Products with an empty title, description, thumbnail or code,
    or a zero price or stock

The file is never modified.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	issues, err := sess.store.Validate(commandContext(cmd))
	if err != nil {
		return err
	}

	if len(issues) == 0 {
		fmt.Println(cli.Green("No issues found."))
		return nil
	}

	for _, issue := range issues {
		fmt.Println(issue.String())
	}
	return fmt.Errorf("found %d issue(s)", len(issues))
}
