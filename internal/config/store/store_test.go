package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "client.db")
	s, err := Open(Options{DBPath: dbPath})
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "direct NotFoundError",
			err:  NotFoundError{Entity: "storage key", Key: "k"},
			want: true,
		},
		{
			name: "wrapped NotFoundError",
			err:  fmt.Errorf("outer: %w", NotFoundError{Entity: "storage key"}),
			want: true,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "other error type",
			err:  errors.New("something"),
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestSaveAndLoadValue(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveValue(ctx, "greeting", "hello"); err != nil {
		t.Fatalf("save value: %v", err)
	}

	got, err := s.LoadValue(ctx, "greeting")
	if err != nil {
		t.Fatalf("load value: %v", err)
	}
	if got != "hello" {
		t.Errorf("LoadValue = %q, want %q", got, "hello")
	}
}

func TestSaveValueOverwrites(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	for _, value := range []string{"first", "second"} {
		if err := s.SaveValue(ctx, "key", value); err != nil {
			t.Fatalf("save %q: %v", value, err)
		}
	}

	got, err := s.LoadValue(ctx, "key")
	if err != nil {
		t.Fatalf("load value: %v", err)
	}
	if got != "second" {
		t.Errorf("LoadValue = %q, want %q", got, "second")
	}
}

func TestLoadValueMissing(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.LoadValue(context.Background(), "absent")
	if !IsNotFound(err) {
		t.Errorf("LoadValue on missing key = %v, want NotFoundError", err)
	}
}

func TestLoadValuesSubset(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	err := s.SaveValues(ctx, map[string]string{
		"a": "1",
		"b": "2",
		"c": "3",
	})
	if err != nil {
		t.Fatalf("save values: %v", err)
	}

	got, err := s.LoadValues(ctx, "a", "c", "absent")
	if err != nil {
		t.Fatalf("load values: %v", err)
	}
	if len(got) != 2 || got["a"] != "1" || got["c"] != "3" {
		t.Errorf("LoadValues = %v, want map[a:1 c:3]", got)
	}
}

func TestDeleteValues(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.SaveValue(ctx, "doomed", "x"); err != nil {
		t.Fatalf("save value: %v", err)
	}
	if err := s.DeleteValues(ctx, "doomed", "never-existed"); err != nil {
		t.Fatalf("delete values: %v", err)
	}

	if _, err := s.LoadValue(ctx, "doomed"); !IsNotFound(err) {
		t.Errorf("LoadValue after delete = %v, want NotFoundError", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "client.db")
	ctx := context.Background()

	first, err := Open(Options{DBPath: dbPath})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.SaveValue(ctx, "persisted", "yes"); err != nil {
		t.Fatalf("save value: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := Open(Options{DBPath: dbPath})
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	got, err := second.LoadValue(ctx, "persisted")
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if got != "yes" {
		t.Errorf("LoadValue after reopen = %q, want %q", got, "yes")
	}
}
