package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"chatml/state"
)

func runRegistryList(ctx context.Context, _ *cli.Command) error {
	env := state.EnvFromContext(ctx)

	fmt.Fprintln(os.Stdout, "templates:")
	for _, name := range env.Templates.Names() {
		fmt.Fprintf(os.Stdout, "    %s\n", name)
	}
	fmt.Fprintln(os.Stdout, "themes:")
	for _, name := range env.Themes.Names() {
		fmt.Fprintf(os.Stdout, "    %s\n", name)
	}
	return nil
}

func runRegistryShow(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	name := cmd.Args().Get(0)
	if len(name) == 0 {
		return fmt.Errorf("NAME is required")
	}

	if cmd.Bool("theme") {
		palette, err := splitPairs(cmd.StringSlice("palette"))
		if err != nil {
			return fmt.Errorf("bad palette flag: %w", err)
		}
		text, err := env.Themes.Generate(name, palette)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, text)
		return nil
	}

	text, err := env.Templates.Get(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, text)
	return nil
}
