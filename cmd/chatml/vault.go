package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"chatml/state"
)

// openVault opens the configured state vault once per process and parks it
// in the environment so teardown can close it.
func openVault(env *state.LocalEnv) (*state.Vault, error) {
	if env.Vault != nil {
		return env.Vault, nil
	}
	v, err := state.OpenVault(env.Cfg.Chat.VaultPath, env.Log)
	if err != nil {
		return nil, fmt.Errorf("unable to open state vault '%s': %w", env.Cfg.Chat.VaultPath, err)
	}
	env.Vault = v
	return v, nil
}

func runVaultGet(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	key := cmd.Args().Get(0)
	if len(key) == 0 {
		return fmt.Errorf("KEY is required")
	}

	vault, err := openVault(env)
	if err != nil {
		return err
	}
	value, found, err := vault.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("key '%s' is not in the vault", key)
	}
	fmt.Fprintln(os.Stdout, value)
	return nil
}

func runVaultPut(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	key, value := cmd.Args().Get(0), cmd.Args().Get(1)
	if len(key) == 0 || cmd.Args().Len() < 2 {
		return fmt.Errorf("both KEY and VALUE are required")
	}

	vault, err := openVault(env)
	if err != nil {
		return err
	}
	return vault.Put(ctx, key, value)
}

func runVaultDel(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	key := cmd.Args().Get(0)
	if len(key) == 0 {
		return fmt.Errorf("KEY is required")
	}

	vault, err := openVault(env)
	if err != nil {
		return err
	}
	return vault.Delete(ctx, key)
}

func runVaultList(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	vault, err := openVault(env)
	if err != nil {
		return err
	}
	keys, err := vault.Keys(ctx, cmd.String("prefix"))
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(os.Stdout, k)
	}
	return nil
}
