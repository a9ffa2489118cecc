package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacksmith/pm/internal/cli"
	"github.com/jacksmith/pm/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show product details",
	Long: `Show every field of a product.

Fails if no product has the given ID.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runShow,
	ValidArgsFunction: completeProductIDs,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := model.ParseID(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}

	p, err := sess.store.GetByID(commandContext(cmd), id)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", model.FormatID(p.ID), p.Title)
	fmt.Printf("  Code:        %s\n", p.Code)
	fmt.Printf("  Description: %s\n", p.Description)
	fmt.Printf("  Price:       %s\n", cli.FormatPrice(p.Price))
	fmt.Printf("  Stock:       %s\n", cli.FormatStock(p.Stock, sess.cfg.LowStock))
	fmt.Printf("  Thumbnail:   %s\n", cli.Gray(p.Thumbnail))
	return nil
}
