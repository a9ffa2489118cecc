package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jacksmith/pm/internal/cli"
	"github.com/jacksmith/pm/internal/model"
	"github.com/jacksmith/pm/internal/ops"
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Aliases: []string{"edit"},
	Short:   "Update product fields",
	Long: `Update one or more fields of a product.

Only the flags you pass are changed. Updates are not validated: a code
may collide with another product and fields may be emptied.

With -i the product is opened as YAML in $VISUAL or $EDITOR and every
field you change is applied.

Examples:
  pm update 1 --price=170
  pm update 3 --stock=0 --title="Bulgari Aurora"
  pm update 2 -i`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeProductIDs,
}

var (
	updateTitle       string
	updateDescription string
	updatePrice       float64
	updateThumbnail   string
	updateCode        string
	updateStock       float64
	updateInteractive bool
)

func init() {
	// Assigned here rather than in the literal to break the
	// updateCmd -> runUpdate -> flagChanges -> updateCmd initialization cycle.
	updateCmd.RunE = runUpdate
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description")
	updateCmd.Flags().Float64Var(&updatePrice, "price", 0, "new price")
	updateCmd.Flags().StringVar(&updateThumbnail, "thumbnail", "", "new thumbnail")
	updateCmd.Flags().StringVar(&updateCode, "code", "", "new code")
	updateCmd.Flags().Float64Var(&updateStock, "stock", 0, "new stock")
	updateCmd.Flags().BoolVarP(&updateInteractive, "interactive", "i", false, "edit the product in $EDITOR")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, err := model.ParseID(args[0])
	if err != nil {
		return err
	}

	sess, err := openSession()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	var changes ops.ProductChanges
	if updateInteractive {
		p, err := sess.store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		changes, err = editInteractively(p)
		if errors.Is(err, cli.ErrEditCancelled) {
			fmt.Println("Edit cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
		if changes.IsEmpty() {
			fmt.Println("No changes.")
			return nil
		}
	} else {
		changes = flagChanges()
		if changes.IsEmpty() {
			return fmt.Errorf("no changes specified")
		}
	}

	ok, err := sess.store.Update(ctx, id, changes)
	if err != nil {
		return err
	}
	if !ok {
		return &ops.NotFoundError{ID: id}
	}

	fmt.Printf("Product %d updated.\n", id)
	return nil
}

// flagChanges collects the fields whose flags were set explicitly.
func flagChanges() ops.ProductChanges {
	var changes ops.ProductChanges
	flags := updateCmd.Flags()

	if flags.Changed("title") {
		changes.Title = &updateTitle
	}
	if flags.Changed("description") {
		changes.Description = &updateDescription
	}
	if flags.Changed("price") {
		changes.Price = &updatePrice
	}
	if flags.Changed("thumbnail") {
		changes.Thumbnail = &updateThumbnail
	}
	if flags.Changed("code") {
		changes.Code = &updateCode
	}
	if flags.Changed("stock") {
		changes.Stock = &updateStock
	}
	return changes
}

// editableProduct is the YAML document shown in the editor.
type editableProduct struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Price       float64 `yaml:"price"`
	Thumbnail   string  `yaml:"thumbnail"`
	Code        string  `yaml:"code"`
	Stock       float64 `yaml:"stock"`
}

func editableFrom(p *model.Product) editableProduct {
	return editableProduct{
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Thumbnail:   p.Thumbnail,
		Code:        p.Code,
		Stock:       p.Stock,
	}
}

func editInteractively(p *model.Product) (ops.ProductChanges, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Editing %s. Save and close to apply.\n", model.FormatID(p.ID))
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(editableFrom(p)); err != nil {
		return ops.ProductChanges{}, fmt.Errorf("failed to encode product: %w", err)
	}
	enc.Close()

	edited, err := cli.EditProduct(p.ID, buf.Bytes())
	if err != nil {
		return ops.ProductChanges{}, err
	}

	var after editableProduct
	if err := yaml.Unmarshal(edited, &after); err != nil {
		return ops.ProductChanges{}, fmt.Errorf("failed to parse edited product: %w", err)
	}

	return diffEditable(editableFrom(p), after), nil
}

// diffEditable returns changes for every field that differs.
func diffEditable(before, after editableProduct) ops.ProductChanges {
	var changes ops.ProductChanges
	if after.Title != before.Title {
		changes.Title = &after.Title
	}
	if after.Description != before.Description {
		changes.Description = &after.Description
	}
	if after.Price != before.Price {
		changes.Price = &after.Price
	}
	if after.Thumbnail != before.Thumbnail {
		changes.Thumbnail = &after.Thumbnail
	}
	if after.Code != before.Code {
		changes.Code = &after.Code
	}
	if after.Stock != before.Stock {
		changes.Stock = &after.Stock
	}
	return changes
}
