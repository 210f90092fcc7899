package registry

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
)

//go:embed defaults/templates/*.cml defaults/themes/*.css.tmpl
var defaultsFS embed.FS

// Builtin returns template and theme stores populated with the embedded
// defaults. The stores stay mutable - callers may overlay or remove
// entries at runtime.
func Builtin(log *zap.Logger) (*Templates, *Themes, error) {
	templates := NewTemplates(log)
	themes := NewThemes(log)

	entries, err := readDefaults("defaults/templates", ".cml")
	if err != nil {
		return nil, nil, err
	}
	templates.Add(entries)

	entries, err = readDefaults("defaults/themes", ".css.tmpl")
	if err != nil {
		return nil, nil, err
	}
	if err := themes.Add(entries); err != nil {
		return nil, nil, err
	}
	return templates, themes, nil
}

func readDefaults(dir, ext string) (map[string]string, error) {
	files, err := fs.ReadDir(defaultsFS, dir)
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string, len(files))
	for _, f := range files {
		data, err := defaultsFS.ReadFile(path.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(f.Name(), ext)
		entries[name] = strings.TrimRight(string(data), "\n")
	}
	return entries, nil
}
