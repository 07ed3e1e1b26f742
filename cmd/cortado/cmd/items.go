package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cafeops/cortado/internal/output"
	"github.com/cafeops/cortado/internal/store"
)

// newItemsCmd groups catalog administration subcommands. Catalog edits
// do not reach search results until the next reindex.
func newItemsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Manage catalog items (run 'reindex' after changes)",
	}

	cmd.AddCommand(newItemsAddCmd())
	cmd.AddCommand(newItemsListCmd())
	cmd.AddCommand(newItemsDeleteCmd())

	return cmd
}

func newItemsAddCmd() *cobra.Command {
	var (
		category string
		price    string
		address  string
		link     string
	)

	cmd := &cobra.Command{
		Use:   "add <type> <name>",
		Short: "Add a catalog item",
		Long: `Add an item of type product, outlet, food, or drink.

Examples:
  cortado items add product "Stainless Tumbler" --category Drinkware --price RM79.00
  cortado items add outlet "SS2 Outlet" --category "Petaling Jaya" --address "1 Jalan SS2"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemType := store.ItemType(args[0])
			if !itemType.Valid() {
				return fmt.Errorf("unknown item type %q (want product, outlet, food, or drink)", args[0])
			}

			ctx := cmd.Context()
			a, err := setupApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			item := &store.Item{
				Type:     itemType,
				Name:     args[1],
				Category: category,
				Price:    price,
				Address:  address,
				Link:     link,
			}
			if err := a.Catalog().AddItem(ctx, item); err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			out.Successf("added %s %d: %s", item.Type, item.ID, item.Name)
			out.Status("", "run 'cortado reindex' to make it searchable")
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Item category (region for outlets)")
	cmd.Flags().StringVar(&price, "price", "", "Display price, e.g. RM79.00")
	cmd.Flags().StringVar(&address, "address", "", "Street address (outlets only)")
	cmd.Flags().StringVar(&link, "link", "", "Product page or maps URL")

	return cmd
}

func newItemsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <type>",
		Short: "List catalog items of one type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemType := store.ItemType(args[0])
			if !itemType.Valid() {
				return fmt.Errorf("unknown item type %q (want product, outlet, food, or drink)", args[0])
			}

			ctx := cmd.Context()
			a, err := setupApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			items, err := a.Catalog().ListItems(ctx, itemType)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, item := range items {
				detail := item.Price
				if itemType == store.ItemTypeOutlet {
					detail = item.Address
				}
				fmt.Fprintf(w, "%4d  %-40s %s\n", item.ID, item.Name, detail)
			}
			fmt.Fprintf(w, "%d %s(s)\n", len(items), itemType)
			return nil
		},
	}
}

func newItemsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <type> <id>",
		Short: "Delete a catalog item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemType := store.ItemType(args[0])
			if !itemType.Valid() {
				return fmt.Errorf("unknown item type %q (want product, outlet, food, or drink)", args[0])
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[1])
			}

			ctx := cmd.Context()
			a, err := setupApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Catalog().DeleteItem(ctx, itemType, id); err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			out.Successf("deleted %s %d", itemType, id)
			out.Status("", "run 'cortado reindex' to update search results")
			return nil
		},
	}
}
