package credentials

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/HustleV0/VirtinSaz-sub001/internal/config/store"
)

func openTestCredentials(t *testing.T) (*Store, *store.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "client.db")
	storage, err := store.Open(store.Options{DBPath: dbPath})
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return New(storage), storage
}

func TestTokenAbsent(t *testing.T) {
	t.Parallel()
	creds, _ := openTestCredentials(t)

	token, err := creds.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "" {
		t.Errorf("Token on empty store = %q, want empty", token)
	}
}

func TestTokenSentinels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stored string
		want   string
	}{
		{name: "real token", stored: "abc123", want: "abc123"},
		{name: "whitespace trimmed", stored: "  abc123  ", want: "abc123"},
		{name: "literal null", stored: "null", want: ""},
		{name: "literal undefined", stored: "undefined", want: ""},
		{name: "blank", stored: "   ", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			creds, storage := openTestCredentials(t)
			ctx := context.Background()

			if err := storage.SaveValue(ctx, KeyAccessToken, tt.stored); err != nil {
				t.Fatalf("seed token: %v", err)
			}

			token, err := creds.Token(ctx)
			if err != nil {
				t.Fatalf("token: %v", err)
			}
			if token != tt.want {
				t.Errorf("Token = %q, want %q", token, tt.want)
			}
		})
	}
}

func TestSaveRequiresToken(t *testing.T) {
	t.Parallel()
	creds, _ := openTestCredentials(t)

	if err := creds.Save(context.Background(), "   ", "", ""); err == nil {
		t.Error("Save with blank token should fail")
	}
}

func TestSaveStoresAllThreeKeys(t *testing.T) {
	t.Parallel()
	creds, storage := openTestCredentials(t)
	ctx := context.Background()

	if err := creds.Save(ctx, "tok", "refresh", `{"name":"owner"}`); err != nil {
		t.Fatalf("save: %v", err)
	}

	values, err := storage.LoadValues(ctx, KeyAccessToken, KeyRefreshToken, KeyUser)
	if err != nil {
		t.Fatalf("load values: %v", err)
	}
	if values[KeyAccessToken] != "tok" {
		t.Errorf("access token = %q, want %q", values[KeyAccessToken], "tok")
	}
	if values[KeyRefreshToken] != "refresh" {
		t.Errorf("refresh token = %q, want %q", values[KeyRefreshToken], "refresh")
	}
	if values[KeyUser] != `{"name":"owner"}` {
		t.Errorf("user = %q, want profile JSON", values[KeyUser])
	}
}

func TestClearAllWipesEverything(t *testing.T) {
	t.Parallel()
	creds, storage := openTestCredentials(t)
	ctx := context.Background()

	if err := creds.Save(ctx, "tok", "refresh", `{}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := creds.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}

	values, err := storage.LoadValues(ctx, KeyAccessToken, KeyRefreshToken, KeyUser)
	if err != nil {
		t.Fatalf("load values: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("storage still holds %v after ClearAll", values)
	}
}

func TestClearAllOnEmptyStore(t *testing.T) {
	t.Parallel()
	creds, _ := openTestCredentials(t)

	if err := creds.ClearAll(context.Background()); err != nil {
		t.Errorf("ClearAll on empty store: %v", err)
	}
}
