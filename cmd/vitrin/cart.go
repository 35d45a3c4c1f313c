package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HustleV0/VirtinSaz-sub001/internal/cart"
)

func newCartCommand() *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local ordering cart",
	}

	addCmd := &cobra.Command{
		Use:           "add",
		Short:         "Add a product to the cart (repeat to increase quantity)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCartAdd,
	}
	addCmd.Flags().Int("id", 0, "Product id")
	addCmd.Flags().String("title", "", "Product title")
	addCmd.Flags().Float64("price", 0, "Product price")
	addCmd.Flags().String("image", "", "Optional product image reference")

	removeCmd := &cobra.Command{
		Use:           "remove <id>",
		Short:         "Remove a product from the cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCartRemove,
	}

	quantityCmd := &cobra.Command{
		Use:           "quantity <id> <quantity>",
		Short:         "Set the quantity of a cart item (0 removes it)",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCartQuantity,
	}

	clearCmd := &cobra.Command{
		Use:           "clear",
		Short:         "Empty the cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCartClear,
	}

	showCmd := &cobra.Command{
		Use:           "show",
		Short:         "Show cart contents and totals",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runCartShow,
	}

	cartCmd.AddCommand(addCmd)
	cartCmd.AddCommand(removeCmd)
	cartCmd.AddCommand(quantityCmd)
	cartCmd.AddCommand(clearCmd)
	cartCmd.AddCommand(showCmd)
	return cartCmd
}

func openCart(cmd *cobra.Command, deps *clientDeps, out *OutputFormatter) (*cart.Store, error) {
	cartStore, err := cart.Open(cmd.Context(), deps.storage)
	if err != nil {
		return nil, out.Error("Failed to open cart", err)
	}
	return cartStore, nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	cartStore, err := openCart(cmd, deps, out)
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetInt("id")
	title, _ := cmd.Flags().GetString("title")
	price, _ := cmd.Flags().GetFloat64("price")
	image, _ := cmd.Flags().GetString("image")

	product := cart.Product{ID: id, Title: title, Price: price, Image: image}
	if err := cartStore.AddItem(cmd.Context(), product); err != nil {
		return out.Error("Failed to add item", err)
	}

	return out.Success(fmt.Sprintf("Added %q to cart", title), map[string]any{
		"item_count":  cartStore.ItemCount(),
		"total_price": cartStore.TotalPrice(),
	})
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return out.Error("Product id must be a number", err)
	}

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	cartStore, err := openCart(cmd, deps, out)
	if err != nil {
		return err
	}

	if err := cartStore.RemoveItem(cmd.Context(), id); err != nil {
		return out.Error("Failed to remove item", err)
	}

	return out.Success(fmt.Sprintf("Removed product %d", id), map[string]any{
		"item_count": cartStore.ItemCount(),
	})
}

func runCartQuantity(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return out.Error("Product id must be a number", err)
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return out.Error("Quantity must be a number", err)
	}

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	cartStore, err := openCart(cmd, deps, out)
	if err != nil {
		return err
	}

	if err := cartStore.UpdateQuantity(cmd.Context(), id, quantity); err != nil {
		return out.Error("Failed to update quantity", err)
	}

	return out.Success(fmt.Sprintf("Updated product %d", id), map[string]any{
		"item_count":  cartStore.ItemCount(),
		"total_price": cartStore.TotalPrice(),
	})
}

func runCartClear(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	cartStore, err := openCart(cmd, deps, out)
	if err != nil {
		return err
	}

	if err := cartStore.Clear(cmd.Context()); err != nil {
		return out.Error("Failed to clear cart", err)
	}
	return out.Success("Cart cleared", nil)
}

func runCartShow(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	cartStore, err := openCart(cmd, deps, out)
	if err != nil {
		return err
	}

	items := cartStore.Items()
	jsonMode, _ := cmd.Flags().GetBool("json")
	if jsonMode {
		return out.Print(map[string]any{
			"items":       items,
			"item_count":  cartStore.ItemCount(),
			"total_price": cartStore.TotalPrice(),
		})
	}

	if len(items) == 0 {
		fmt.Println("Cart is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tQTY\tSUBTOTAL")
	for _, item := range items {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\t%.2f\n",
			item.ID, item.Title, item.Price, item.Quantity,
			item.Price*float64(item.Quantity))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Total: %.2f (%d items)\n", cartStore.TotalPrice(), cartStore.ItemCount())
	return nil
}
