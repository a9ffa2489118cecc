package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacksmith/pm/internal/model"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a product",
	Long: `Delete every product with the given ID.

Deleting an ID that does not exist is not an error; the file is
rewritten either way.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runDelete,
	ValidArgsFunction: completeProductIDs,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, err := model.ParseID(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}

	if _, err := sess.store.Delete(commandContext(cmd), id); err != nil {
		return err
	}

	fmt.Printf("Product %d deleted.\n", id)
	return nil
}
