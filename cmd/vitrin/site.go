package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HustleV0/VirtinSaz-sub001/internal/site"
)

func newSiteCommand() *cobra.Command {
	siteCmd := &cobra.Command{
		Use:   "site",
		Short: "Inspect your site configuration",
	}

	showCmd := &cobra.Command{
		Use:           "show",
		Short:         "Show the current site record and enabled plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSiteShow,
	}
	showCmd.Flags().String("slug", "", "Fetch a specific site instead of your own")

	listCmd := &cobra.Command{
		Use:           "list",
		Short:         "List all sites owned by your account",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSiteList,
	}

	siteCmd.AddCommand(showCmd)
	siteCmd.AddCommand(listCmd)
	return siteCmd
}

func runSiteShow(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	if err := ensureLoggedIn(cmd, deps, out); err != nil {
		return err
	}

	slug, _ := cmd.Flags().GetString("slug")

	store := site.NewStore(deps.api)
	store.FetchSite(cmd.Context(), slug)

	if msg := store.Err(); msg != "" {
		return out.Error("Failed to fetch site", fmt.Errorf("%s", msg))
	}

	record := store.Site()
	if record == nil {
		return out.Error("No site found for this account", nil)
	}

	return out.Print(map[string]any{
		"id":             record.ID,
		"slug":           record.Slug,
		"settings":       record.Settings,
		"active_plugins": store.ActivePlugins(),
	})
}

func runSiteList(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	if err := ensureLoggedIn(cmd, deps, out); err != nil {
		return err
	}

	store := site.NewStore(deps.api)
	store.FetchAllSites(cmd.Context())

	if msg := store.Err(); msg != "" {
		return out.Error("Failed to fetch sites", fmt.Errorf("%s", msg))
	}

	sites := store.Sites()
	jsonMode, _ := cmd.Flags().GetBool("json")
	if jsonMode {
		return out.Print(sites)
	}

	if len(sites) == 0 {
		fmt.Println("No sites found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tPLUGINS")
	for _, s := range sites {
		fmt.Fprintf(w, "%d\t%s\t%d\n", s.ID, s.Slug, len(s.ActivePlugins))
	}
	return w.Flush()
}
