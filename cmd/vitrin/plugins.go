package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HustleV0/VirtinSaz-sub001/internal/eventbus"
	"github.com/HustleV0/VirtinSaz-sub001/internal/plugingate"
	"github.com/HustleV0/VirtinSaz-sub001/internal/site"
)

func newPluginsCommand() *cobra.Command {
	pluginsCmd := &cobra.Command{
		Use:   "plugins",
		Short: "Manage optional site features",
	}

	listCmd := &cobra.Command{
		Use:           "list",
		Short:         "List enabled plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPluginsList,
	}

	enableCmd := &cobra.Command{
		Use:           "enable <key>",
		Short:         "Enable a plugin",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsToggle(cmd, args[0], true)
		},
	}

	disableCmd := &cobra.Command{
		Use:           "disable <key>",
		Short:         "Disable a plugin",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPluginsToggle(cmd, args[0], false)
		},
	}

	checkCmd := &cobra.Command{
		Use:           "check <key>",
		Short:         "Check whether a plugin gate would admit you",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE:          runPluginsCheck,
	}

	pluginsCmd.AddCommand(listCmd)
	pluginsCmd.AddCommand(enableCmd)
	pluginsCmd.AddCommand(disableCmd)
	pluginsCmd.AddCommand(checkCmd)
	return pluginsCmd
}

func fetchSiteStore(cmd *cobra.Command, deps *clientDeps, out *OutputFormatter, opts ...site.Option) (*site.Store, error) {
	store := site.NewStore(deps.api, opts...)
	store.FetchSite(cmd.Context(), "")
	if msg := store.Err(); msg != "" {
		return nil, out.Error("Failed to fetch site", fmt.Errorf("%s", msg))
	}
	return store, nil
}

func runPluginsList(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	if err := ensureLoggedIn(cmd, deps, out); err != nil {
		return err
	}

	store, err := fetchSiteStore(cmd, deps, out)
	if err != nil {
		return err
	}

	return out.Print(map[string]any{
		"active_plugins": store.ActivePlugins(),
	})
}

func runPluginsToggle(cmd *cobra.Command, key string, active bool) error {
	out := newOutputFormatter(cmd)

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	if err := ensureLoggedIn(cmd, deps, out); err != nil {
		return err
	}

	store, err := fetchSiteStore(cmd, deps, out)
	if err != nil {
		return err
	}

	// Toggle failures come back to us, not to store error state: the caller
	// decides how to surface them.
	if err := store.TogglePlugin(cmd.Context(), key, active); err != nil {
		return out.Error(fmt.Sprintf("Failed to toggle plugin %q", key), err)
	}

	verb := "disabled"
	if active {
		verb = "enabled"
	}
	return out.Success(fmt.Sprintf("Plugin %q %s", key, verb), map[string]any{
		"active_plugins": store.ActivePlugins(),
	})
}

// cliNotifier prints gate notifications the way the dashboard shows toasts.
type cliNotifier struct{}

func (cliNotifier) Notify(title, message string) {
	fmt.Printf("%s: %s\n", title, message)
}

// cliNavigator reports where the dashboard would redirect to.
type cliNavigator struct{}

func (cliNavigator) NavigateTo(path string) {
	fmt.Printf("Redirecting to %s\n", path)
}

func runPluginsCheck(cmd *cobra.Command, args []string) error {
	out := newOutputFormatter(cmd)
	key := args[0]

	deps, err := openClientDeps()
	if err != nil {
		return out.Error("Failed to open client storage", err)
	}
	defer deps.Close()

	if err := ensureLoggedIn(cmd, deps, out); err != nil {
		return err
	}

	bus := eventbus.New()
	defer bus.Shutdown()

	store, err := fetchSiteStore(cmd, deps, out, site.WithBus(bus))
	if err != nil {
		return err
	}

	guard := plugingate.NewGuard(store, cliNotifier{}, cliNavigator{})
	guard.Start(bus)
	defer guard.Close()

	status := guard.Require(key)
	return out.Print(map[string]any{
		"plugin": key,
		"status": status.String(),
	})
}
