package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"chatml/chat"
	"chatml/common"
	"chatml/render"
	"chatml/state"
)

func runSay(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)

	if cmd.Args().Len() < 2 {
		return fmt.Errorf("both TITLE-CODE and BODY-CODE are required")
	}
	titleCode, bodyCode := cmd.Args().Get(0), cmd.Args().Get(1)
	var args []any
	for _, a := range cmd.Args().Slice()[2:] {
		args = append(args, a)
	}

	severity, err := common.ParseSeverity(cmd.String("severity"))
	if err != nil {
		return fmt.Errorf("unsupported severity: %w", err)
	}

	vault, err := openVault(env)
	if err != nil {
		return err
	}

	alerter := chat.NewAlerter(
		env.Log,
		render.New(env.Log, env.Templates, env.Themes),
		chat.NewWriterTransport(os.Stdout, env.Log),
		chat.NewPhrases(env.Log, chat.DefaultTables()),
		vault,
		env.Cfg.Render.Theme,
	)
	return alerter.Send(ctx, cmd.String("from"), cmd.String("to"), severity, titleCode, bodyCode, args...)
}
