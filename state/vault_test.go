package state_test

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"chatml/state"
)

func openTestVault(t *testing.T) *state.Vault {
	t.Helper()
	v, err := state.OpenVault(filepath.Join(t.TempDir(), "vault.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("OpenVault: %v", err)
	}
	t.Cleanup(func() {
		if err := v.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return v
}

func TestVault_PutGetDelete(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	if _, found, err := v.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("Get missing = found=%v err=%v", found, err)
	}

	if err := v.Put(ctx, "palette/iris", "fg=#fff"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	value, found, err := v.Get(ctx, "palette/iris")
	if err != nil || !found || value != "fg=#fff" {
		t.Fatalf("Get = %q found=%v err=%v", value, found, err)
	}

	// overwrite
	if err := v.Put(ctx, "palette/iris", "fg=#000"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	if value, _, _ := v.Get(ctx, "palette/iris"); value != "fg=#000" {
		t.Errorf("overwritten value = %q", value)
	}

	if err := v.Delete(ctx, "palette/iris"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := v.Get(ctx, "palette/iris"); found {
		t.Error("key survived Delete")
	}
	if err := v.Delete(ctx, "palette/iris"); err != nil {
		t.Errorf("Delete of absent key must not fail: %v", err)
	}
}

func TestVault_KeysNaturalOrder(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	for _, k := range []string{"slot/10", "slot/2", "slot/1", "other/x"} {
		if err := v.Put(ctx, k, "v"); err != nil {
			t.Fatalf("Put %q: %v", k, err)
		}
	}

	keys, err := v.Keys(ctx, "slot/")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"slot/1", "slot/2", "slot/10"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestVault_Language(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	lang, err := v.Language(ctx, "iris")
	if err != nil || lang != "" {
		t.Fatalf("Language before store = %q err=%v", lang, err)
	}

	if err := v.SetLanguage(ctx, "iris", "ru"); err != nil {
		t.Fatalf("SetLanguage: %v", err)
	}
	if lang, _ := v.Language(ctx, "iris"); lang != "ru" {
		t.Errorf("Language = %q, want %q", lang, "ru")
	}
}

func TestVault_Palette(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	if p, err := v.Palette(ctx, "winter"); err != nil || p != nil {
		t.Fatalf("Palette() for missing name = (%v, %v), want (nil, nil)", p, err)
	}

	want := map[string]string{"fg": "#e8e8f0", "accent": "#5ad0ff"}
	if err := v.SavePalette(ctx, "winter", want); err != nil {
		t.Fatalf("SavePalette: %v", err)
	}

	got, err := v.Palette(ctx, "winter")
	if err != nil {
		t.Fatalf("Palette: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Palette() returned %d entries, want %d", len(got), len(want))
	}
	for k, wv := range want {
		if got[k] != wv {
			t.Errorf("Palette()[%q] = %q, want %q", k, got[k], wv)
		}
	}

	// overwrite wins
	if err := v.SavePalette(ctx, "winter", map[string]string{"fg": "#000000"}); err != nil {
		t.Fatalf("SavePalette overwrite: %v", err)
	}
	got, err = v.Palette(ctx, "winter")
	if err != nil {
		t.Fatalf("Palette after overwrite: %v", err)
	}
	if len(got) != 1 || got["fg"] != "#000000" {
		t.Errorf("Palette() after overwrite = %v, want single fg entry", got)
	}
}
