package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacksmith/pm/internal/ops"
	"github.com/jacksmith/pm/internal/storage"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a short walkthrough against the products file",
	Long: `Run a scripted walkthrough of every operation:

  1. Add Rayban, Oakley and Bulgari
  2. List all products
  3. Get product 1
  4. Update the price of product 1 to 170
  5. Delete product 2

Each step prints its result. The first failing step is logged and
the walkthrough stops there, so running it against a file that
already holds these products changes nothing. Use --fresh to start
from an empty file.`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

var demoFresh bool

func init() {
	demoCmd.Flags().BoolVar(&demoFresh, "fresh", false, "remove the products file first")
	rootCmd.AddCommand(demoCmd)
}

func demoProducts() []ops.NewProduct {
	return []ops.NewProduct{
		{
			Title:       "Rayban",
			Description: "Gafas de sol de alta calidad",
			Price:       150,
			Thumbnail:   "rayban.jpg",
			Code:        "RB001",
			Stock:       50,
		},
		{
			Title:       "Oakley",
			Description: "Gafas deportivas resistentes",
			Price:       120,
			Thumbnail:   "oakley.jpg",
			Code:        "OK001",
			Stock:       30,
		},
		{
			Title:       "Bulgari",
			Description: "Gafas de diseño elegante",
			Price:       200,
			Thumbnail:   "bulgari.jpg",
			Code:        "BL001",
			Stock:       20,
		},
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	log := sess.log.Named("demo")

	if file := storage.New(sess.cfg.File); demoFresh && file.Exists() {
		if err := os.Remove(file.Path()); err != nil {
			return fmt.Errorf("failed to remove %s: %w", file.Path(), err)
		}
	}

	if err := walkthrough(ctx, sess.store); err != nil {
		log.Error("demo stopped", zap.Error(err))
	}
	return nil
}

// walkthrough runs the demo steps in order and returns the first failure.
func walkthrough(ctx context.Context, store *ops.ProductStore) error {
	for _, np := range demoProducts() {
		id, err := store.Add(ctx, np)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s with id %d\n", np.Title, id)
	}

	products, err := store.List(ctx)
	if err != nil {
		return err
	}
	printJSON("All products:", products)

	p, err := store.GetByID(ctx, 1)
	if err != nil {
		return err
	}
	printJSON("Product 1:", p)

	price := 170.0
	ok, err := store.Update(ctx, 1, ops.ProductChanges{Price: &price})
	if err != nil {
		return err
	}
	fmt.Printf("Updated product 1: %t\n", ok)

	ok, err = store.Delete(ctx, 2)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted product 2: %t\n", ok)
	return nil
}

func printJSON(label string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode %s %v\n", label, err)
		return
	}
	fmt.Println(label)
	fmt.Println(string(data))
}
