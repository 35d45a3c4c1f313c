package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/HustleV0/VirtinSaz-sub001/internal/api"
	"github.com/HustleV0/VirtinSaz-sub001/internal/config"
	configstore "github.com/HustleV0/VirtinSaz-sub001/internal/config/store"
	"github.com/HustleV0/VirtinSaz-sub001/internal/credentials"
)

const baseURLEnv = "VITRIN_API_BASE_URL"

// OutputFormatter handles output in JSON or human-readable format
type OutputFormatter struct {
	jsonMode bool
}

// newOutputFormatter creates a new formatter based on the command's --json flag
func newOutputFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &OutputFormatter{jsonMode: jsonMode}
}

func (f *OutputFormatter) Print(data interface{}) error {
	if f.jsonMode {
		jsonBytes, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}
	switch v := data.(type) {
	case string:
		fmt.Println(v)
	default:
		// Fallback to JSON for structured data in human mode
		jsonBytes, _ := json.MarshalIndent(data, "", "  ")
		fmt.Println(string(jsonBytes))
	}
	return nil
}

func (f *OutputFormatter) Success(message string, data map[string]interface{}) error {
	if f.jsonMode {
		output := map[string]interface{}{
			"success": true,
			"message": message,
		}
		for k, v := range data {
			output[k] = v
		}
		return f.Print(output)
	}
	fmt.Println(message)
	return nil
}

func (f *OutputFormatter) Error(message string, err error) error {
	if f.jsonMode {
		output := map[string]interface{}{
			"success": false,
			"error":   message,
		}
		if err != nil {
			output["details"] = err.Error()
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(os.Stderr, string(jsonBytes))
	} else {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", message, err)
		} else {
			fmt.Fprintln(os.Stderr, message)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", message, err)
	}
	return fmt.Errorf("%s", message)
}

// clientDeps bundles the storage, credential store and API client a command
// needs. Close releases the underlying database.
type clientDeps struct {
	storage *configstore.Store
	creds   *credentials.Store
	api     *api.Client
}

func (d *clientDeps) Close() {
	if d.storage != nil {
		d.storage.Close()
	}
}

func openClientDeps() (*clientDeps, error) {
	storage, err := configstore.Open(configstore.Options{})
	if err != nil {
		return nil, err
	}

	creds := credentials.New(storage)
	client := api.NewClient(creds,
		api.WithBaseURL(resolveBaseURL()),
		api.WithSessionExpiredHook(func(context.Context) {
			fmt.Fprintln(os.Stderr, "Session expired. Run `vitrin login` to sign in again.")
		}),
	)

	return &clientDeps{storage: storage, creds: creds, api: client}, nil
}

func resolveBaseURL() string {
	if value := strings.TrimSpace(os.Getenv(baseURLEnv)); value != "" {
		return value
	}
	return api.DefaultBaseURL
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vitrin",
		Short:         "VitrinSaz client — manage your restaurant website from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")

	rootCmd.AddCommand(newLoginCommand())
	rootCmd.AddCommand(newLogoutCommand())
	rootCmd.AddCommand(newSiteCommand())
	rootCmd.AddCommand(newPluginsCommand())
	rootCmd.AddCommand(newCartCommand())
	rootCmd.AddCommand(newMenuCommand())
	rootCmd.AddCommand(newSitemapCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func main() {
	// Best effort: a missing .env is the normal case.
	godotenv.Load(config.GetClientPaths().Env)
	godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
