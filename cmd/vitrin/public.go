package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "menu <slug>",
		Short:         "Show the public menu of a site",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMenu,
	}
}

func newSitemapCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "sitemap",
		Short:         "Show the sitemap feed of published sites",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSitemap,
	}
}

func runMenu(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)
	slug := args[0]

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	menu, err := deps.api.PublicMenuData(cmd.Context(), slug)
	if err != nil {
		return out.Error(fmt.Sprintf("Failed to fetch menu for %q", slug), err)
	}

	jsonMode, _ := cmd.Flags().GetBool("json")
	if jsonMode {
		return out.Print(menu)
	}

	categories := make(map[int]string, len(menu.Categories))
	for _, category := range menu.Categories {
		categories[category.ID] = category.Name
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPRODUCT\tPRICE\tAVAILABLE")
	for _, product := range menu.Products {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%t\n",
			categories[product.CategoryID], product.Name, product.Price, product.IsAvailable)
	}
	return w.Flush()
}

func runSitemap(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	entries, err := deps.api.Sitemap(cmd.Context())
	if err != nil {
		return out.Error("Failed to fetch sitemap", err)
	}

	jsonMode, _ := cmd.Flags().GetBool("json")
	if jsonMode {
		return out.Print(entries)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tUPDATED")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\n", entry.Slug, entry.UpdatedAt)
	}
	return w.Flush()
}
