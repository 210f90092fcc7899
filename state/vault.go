package state

import (
	"context"
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const vaultSchema = `
CREATE TABLE IF NOT EXISTS vault (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
) WITHOUT ROWID;`

// Vault is the persistent key/value store shared by the chat glue:
// player language preferences, saved palettes, anything the excluded
// collaborators need across runs. The rendering core itself never
// touches it.
type Vault struct {
	pool *sqlitex.Pool
	log  *zap.Logger
}

// OpenVault opens (creating if necessary) the vault database at path.
// Use ":memory:" for an ephemeral vault.
func OpenVault(path string, log *zap.Logger) (*Vault, error) {
	if log == nil {
		log = zap.NewNop()
	}
	uri := path
	if path == ":memory:" {
		uri = "file::memory:?mode=memory"
	}
	pool, err := sqlitex.NewPool(uri, sqlitex.PoolOptions{PoolSize: 4})
	if err != nil {
		return nil, fmt.Errorf("unable to open vault %q: %w", path, err)
	}

	v := &Vault{pool: pool, log: log.Named("vault")}
	if err := v.init(context.Background()); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return v, nil
}

func (v *Vault) init(ctx context.Context) error {
	conn, err := v.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("unable to initialize vault: %w", err)
	}
	defer v.pool.Put(conn)
	if err := sqlitex.ExecuteTransient(conn, vaultSchema, nil); err != nil {
		return fmt.Errorf("unable to create vault schema: %w", err)
	}
	return nil
}

// Close releases the underlying connections.
func (v *Vault) Close() error {
	if v == nil {
		return nil
	}
	return v.pool.Close()
}

// Get reads a value; the second result reports whether the key exists.
func (v *Vault) Get(ctx context.Context, key string) (string, bool, error) {
	conn, err := v.pool.Take(ctx)
	if err != nil {
		return "", false, err
	}
	defer v.pool.Put(conn)

	var value string
	found := false
	err = sqlitex.Execute(conn, `SELECT value FROM vault WHERE key = ?`, &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			found = true
			return nil
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("unable to read vault key %q: %w", key, err)
	}
	return value, found, nil
}

// Put stores a value, overwriting any existing one.
func (v *Vault) Put(ctx context.Context, key, value string) error {
	conn, err := v.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer v.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO vault (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{Args: []any{key, value}})
	if err != nil {
		return fmt.Errorf("unable to store vault key %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (v *Vault) Delete(ctx context.Context, key string) error {
	conn, err := v.pool.Take(ctx)
	if err != nil {
		return err
	}
	defer v.pool.Put(conn)

	err = sqlitex.Execute(conn, `DELETE FROM vault WHERE key = ?`, &sqlitex.ExecOptions{Args: []any{key}})
	if err != nil {
		return fmt.Errorf("unable to delete vault key %q: %w", key, err)
	}
	return nil
}

// Keys lists stored keys with the given prefix in natural order.
func (v *Vault) Keys(ctx context.Context, prefix string) ([]string, error) {
	conn, err := v.pool.Take(ctx)
	if err != nil {
		return nil, err
	}
	defer v.pool.Put(conn)

	var keys []string
	err = sqlitex.Execute(conn, `SELECT key FROM vault WHERE key GLOB ? || '*'`, &sqlitex.ExecOptions{
		Args: []any{prefix},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			keys = append(keys, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list vault keys: %w", err)
	}
	sort.Sort(natural.StringSlice(keys))
	return keys, nil
}

const languagePrefix = "lang/"

// Language returns the stored language preference for a player, empty
// when none is stored. Implements the chat glue's LanguageStore.
func (v *Vault) Language(ctx context.Context, player string) (string, error) {
	value, _, err := v.Get(ctx, languagePrefix+player)
	return value, err
}

// SetLanguage stores a player's language preference.
func (v *Vault) SetLanguage(ctx context.Context, player, lang string) error {
	return v.Put(ctx, languagePrefix+player, lang)
}

const palettePrefix = "palette/"

// Palette returns a saved palette, nil when none is stored under name.
func (v *Vault) Palette(ctx context.Context, name string) (map[string]string, error) {
	value, found, err := v.Get(ctx, palettePrefix+name)
	if err != nil || !found {
		return nil, err
	}
	var palette map[string]string
	if err := yaml.Unmarshal([]byte(value), &palette); err != nil {
		return nil, fmt.Errorf("stored palette %q is corrupt: %w", name, err)
	}
	return palette, nil
}

// SavePalette stores a palette under name, overwriting any previous one.
func (v *Vault) SavePalette(ctx context.Context, name string, palette map[string]string) error {
	data, err := yaml.Marshal(palette)
	if err != nil {
		return fmt.Errorf("unable to encode palette %q: %w", name, err)
	}
	return v.Put(ctx, palettePrefix+name, string(data))
}
