package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacksmith/pm/internal/model"
	"github.com/jacksmith/pm/internal/ops"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new product",
	Long: `Add a new product to the catalogue.

All six fields are required and must be non-empty (numbers non-zero).
The code must not be used by any existing product.

Examples:
  pm add --title=Rayban --description="Gafas de sol" --price=150 \
         --thumbnail=rayban.jpg --code=RB001 --stock=50`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var (
	addTitle       string
	addDescription string
	addPrice       float64
	addThumbnail   string
	addCode        string
	addStock       float64
)

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "product title")
	addCmd.Flags().StringVar(&addDescription, "description", "", "product description")
	addCmd.Flags().Float64Var(&addPrice, "price", 0, "product price")
	addCmd.Flags().StringVar(&addThumbnail, "thumbnail", "", "thumbnail path or URL")
	addCmd.Flags().StringVar(&addCode, "code", "", "unique product code")
	addCmd.Flags().Float64Var(&addStock, "stock", 0, "units in stock")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	np := ops.NewProduct{
		Title:       addTitle,
		Description: addDescription,
		Price:       addPrice,
		Thumbnail:   addThumbnail,
		Code:        addCode,
		Stock:       addStock,
	}

	id, err := sess.store.Add(commandContext(cmd), np)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", model.FormatID(id), np.Title)
	return nil
}
