package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/beevik/etree"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"chatml/common"
	"chatml/render"
	"chatml/state"
)

// splitPairs turns repeatable KEY=VALUE flags into a map. Malformed
// entries are reported, not silently dropped.
func splitPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	res := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || len(k) == 0 {
			return nil, fmt.Errorf("malformed KEY=VALUE pair '%s'", p)
		}
		res[k] = v
	}
	return res, nil
}

// contentFile is the YAML shape accepted by the render --content flag.
type contentFile struct {
	Tokens  map[string]any    `yaml:"tokens"`
	Palette map[string]string `yaml:"palette"`
}

func loadContentFile(path string) (*contentFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read content file: %w", err)
	}
	var cf contentFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("unable to parse content file '%s': %w", path, err)
	}
	return &cf, nil
}

// prettyMarkup reindents rendered markup for human inspection. Raw output
// is what the panel protocol expects, pretty is for eyeballs only.
func prettyMarkup(markup string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(markup); err != nil {
		return "", fmt.Errorf("unable to reparse rendered markup: %w", err)
	}
	doc.Indent(2)
	return doc.WriteToString()
}

func runRender(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	mode := env.Cfg.Render.Output
	if s := cmd.String("output"); len(s) > 0 {
		var err error
		if mode, err = common.ParseOutputMode(s); err != nil {
			return fmt.Errorf("unsupported output mode: %w", err)
		}
	}

	var content *contentFile
	if path := cmd.String("content"); len(path) > 0 {
		var err error
		if content, err = loadContentFile(path); err != nil {
			return err
		}
	}

	tokens, err := splitPairs(cmd.StringSlice("token"))
	if err != nil {
		return fmt.Errorf("bad token flag: %w", err)
	}
	flagPalette, err := splitPairs(cmd.StringSlice("palette"))
	if err != nil {
		return fmt.Errorf("bad palette flag: %w", err)
	}

	// palette layers, least specific first: configuration, vault saved
	// palette, content file, command line
	palette := make(map[string]string)
	maps.Copy(palette, env.Cfg.Render.Palette)
	if name := cmd.String("use-palette"); len(name) > 0 {
		vault, err := openVault(env)
		if err != nil {
			return err
		}
		saved, err := vault.Palette(ctx, name)
		if err != nil {
			return err
		}
		if saved == nil {
			return fmt.Errorf("no palette saved under '%s'", name)
		}
		maps.Copy(palette, saved)
	}
	if content != nil {
		maps.Copy(palette, content.Palette)
	}
	maps.Copy(palette, flagPalette)

	req := render.Request{
		Template: cmd.String("template"),
		Theme:    cmd.String("theme"),
		Palette:  palette,
	}
	if len(req.Template) == 0 {
		req.Template = env.Cfg.Render.Template
	}
	if len(req.Theme) == 0 {
		req.Theme = env.Cfg.Render.Theme
	}

	if content != nil && len(content.Tokens) > 0 {
		req.Content = maps.Clone(content.Tokens)
	}
	if len(tokens) > 0 {
		if req.Content == nil {
			req.Content = make(map[string]any, len(tokens))
		}
		for k, v := range tokens {
			req.Content[k] = v
		}
	}

	out, err := render.New(env.Log, env.Templates, env.Themes).WithArtifacts(env.Rpt).Render(ctx, req)
	if err != nil {
		return err
	}

	if name := cmd.String("save-palette"); len(name) > 0 {
		vault, err := openVault(env)
		if err != nil {
			return err
		}
		if err := vault.SavePalette(ctx, name, palette); err != nil {
			return err
		}
		env.Log.Info("Palette saved", zap.String("name", name))
	}

	if mode == common.OutputModePretty {
		if out, err = prettyMarkup(out); err != nil {
			return err
		}
	}

	dst := os.Stdout
	if fname := cmd.Args().Get(0); len(fname) > 0 {
		if dst, err = os.Create(fname); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer dst.Close()
	}

	_, err = fmt.Fprintln(dst, out)
	return err
}
