package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jacksmith/pm/internal/cli"
	"github.com/jacksmith/pm/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List products",
	Long: `List every product in storage order.

By default a table of ID, code, title, price and stock is printed.
Stock at or below low_stock (see .pmconfig.yaml) is highlighted.

Examples:
  pm list
  pm list --json
  pm list --yaml`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listJSON bool
	listYAML bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print the products as stored")
	listCmd.Flags().BoolVar(&listYAML, "yaml", false, "print the products as YAML")
	listCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}

	products, err := sess.store.List(commandContext(cmd))
	if err != nil {
		return err
	}

	switch {
	case listJSON:
		data, err := model.EncodeProducts(products)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	case listYAML:
		data, err := yaml.Marshal(products)
		if err != nil {
			return fmt.Errorf("failed to encode products: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	if len(products) == 0 {
		fmt.Println("No products.")
		return nil
	}

	table := cli.NewTable()
	table.SetMaxWidth(2, sess.cfg.MaxTitleWidth)
	for _, p := range products {
		table.AddRow(cli.ProductRow(p, sess.cfg.LowStock)...)
	}
	table.Render(os.Stdout)
	return nil
}
