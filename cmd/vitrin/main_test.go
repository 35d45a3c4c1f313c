package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/HustleV0/VirtinSaz-sub001/internal/api"
	vitrinversion "github.com/HustleV0/VirtinSaz-sub001/internal/version"
)

// captureStdout runs fn with stdout redirected to a pipe and returns the output.
// Reading happens in a goroutine to avoid deadlock if output exceeds the pipe buffer.
// WARNING: Modifies the global os.Stdout — incompatible with t.Parallel().
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	t.Cleanup(func() { os.Stdout = oldStdout })

	ch := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		ch <- buf.String()
	}()

	fn()
	w.Close()

	return <-ch
}

func TestResolveBaseURLDefault(t *testing.T) {
	t.Setenv(baseURLEnv, "")
	if got := resolveBaseURL(); got != api.DefaultBaseURL {
		t.Errorf("resolveBaseURL() = %q, want default %q", got, api.DefaultBaseURL)
	}
}

func TestResolveBaseURLFromEnv(t *testing.T) {
	t.Setenv(baseURLEnv, "  https://api.vitrinsaz.example/api  ")
	if got := resolveBaseURL(); got != "https://api.vitrinsaz.example/api" {
		t.Errorf("resolveBaseURL() = %q, want trimmed env value", got)
	}
}

func TestOutputFormatterPrintString(t *testing.T) {
	output := captureStdout(t, func() {
		f := &OutputFormatter{jsonMode: false}
		if err := f.Print("hello"); err != nil {
			t.Errorf("Print returned error: %v", err)
		}
	})
	if output != "hello\n" {
		t.Errorf("output = %q, want %q", output, "hello\n")
	}
}

func TestOutputFormatterPrintJSON(t *testing.T) {
	output := captureStdout(t, func() {
		f := &OutputFormatter{jsonMode: true}
		if err := f.Print(map[string]any{"slug": "demo-cafe"}); err != nil {
			t.Errorf("Print returned error: %v", err)
		}
	})

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output)
	}
	if result["slug"] != "demo-cafe" {
		t.Errorf("result[slug] = %v, want demo-cafe", result["slug"])
	}
}

func TestOutputFormatterSuccessJSON(t *testing.T) {
	output := captureStdout(t, func() {
		f := &OutputFormatter{jsonMode: true}
		if err := f.Success("plugin enabled", map[string]any{"plugin": "menu"}); err != nil {
			t.Errorf("Success returned error: %v", err)
		}
	})

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output)
	}
	if result["success"] != true {
		t.Errorf("success = %v, want true", result["success"])
	}
	if result["plugin"] != "menu" {
		t.Errorf("plugin = %v, want menu", result["plugin"])
	}
}

func TestOutputFormatterErrorReturnsWrappedError(t *testing.T) {
	cause := errors.New("connection refused")
	f := &OutputFormatter{jsonMode: false}

	err := f.Error("fetch failed", cause)
	if err == nil {
		t.Fatal("Error returned nil")
	}
	if !errors.Is(err, cause) {
		t.Errorf("returned error does not wrap the cause: %v", err)
	}
	if !strings.Contains(err.Error(), "fetch failed") {
		t.Errorf("returned error missing message: %v", err)
	}
}

func TestVersionCommandOutput(t *testing.T) {
	output := captureStdout(t, func() {
		root := &cobra.Command{Use: "test"}
		root.PersistentFlags().Bool("json", false, "Output in JSON format")
		root.AddCommand(newVersionCommand())
		root.SetArgs([]string{"version", "--json"})
		_ = root.Execute()
	})

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output)
	}
	want := vitrinversion.FormatVersion(vitrinversion.String())
	if result["version"] != want {
		t.Errorf("version = %v, want %v", result["version"], want)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	if root.PersistentFlags().Lookup("json") == nil {
		t.Error("root command missing persistent --json flag")
	}

	want := []string{"login", "logout", "site", "plugins", "cart", "menu", "sitemap", "version"}
	registered := make(map[string]bool)
	for _, cmd := range root.Commands() {
		registered[cmd.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("root command missing subcommand %q", name)
		}
	}
}
