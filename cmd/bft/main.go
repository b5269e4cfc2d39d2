// Package main is the entry point for the bft CLI application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	bftcli "github.com/NikitaCOEUR/bft/internal/cli"
	"github.com/NikitaCOEUR/bft/internal/derrors"
	"github.com/NikitaCOEUR/bft/internal/trace"
	"github.com/NikitaCOEUR/bft/pkg/version"
)

func main() {
	defer trace.Init()()

	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		if code := derrors.CodeOf(err); code != "" {
			fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", code, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func complete(ctx context.Context, cmd *cli.Command, dryRun bool) error {
	return bftcli.Complete(ctx, bftcli.CompleteParams{
		ConfigPath: cmd.String("config"),
		LogLevel:   cmd.String("log-level"),
		LogFile:    cmd.String("log-file"),
		Args:       cmd.Args().Slice(),
		DryRun:     dryRun,
		Version:    version.Version,
		Out:        cmd.Root().Writer,
	})
}

func initAction(_ context.Context, cmd *cli.Command) error {
	return bftcli.Init(bftcli.InitParams{
		Shell:     cmd.Args().First(),
		Version:   version.Version,
		Key:       cmd.String("key"),
		NativeKey: cmd.String("native-key"),
		Keymaps:   cmd.StringSlice("keymap"),
		ErrorLog:  cmd.String("error-log"),
		Out:       cmd.Root().Writer,
	})
}

//nolint:funlen // Command tree declaration
func newApp(w io.Writer) *cli.Command {
	initFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "key",
			Usage: "Readline key sequence bound to bft (default \\t)",
		},
		&cli.StringFlag{
			Name:  "native-key",
			Usage: "Key sequence that keeps bash's own completion",
		},
		&cli.StringSliceFlag{
			Name:  "keymap",
			Usage: "Readline keymap to bind (default emacs and vi-insert)",
		},
		&cli.StringFlag{
			Name:    "error-log",
			Usage:   "File receiving the stderr of the binding",
			Sources: cli.EnvVars("BFT_ERROR_LOG"),
		},
	}

	return &cli.Command{
		Name:                  "bft",
		Usage:                 "Fuzzy tab completion for bash",
		UsageText:             "bft [LINE [POINT]]\nbft command [options] [arguments...]",
		Version:               version.Version,
		EnableShellCompletion: true,
		Writer:                w,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file (default $XDG_CONFIG_HOME/bft/config.yml)",
				Sources: cli.EnvVars("BFT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("BFT_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "Write logs to this file instead of stderr",
				Sources: cli.EnvVars("BFT_LOG_FILE"),
			},
			&cli.BoolFlag{
				Name:  "init-script",
				Usage: "Print the bash init script and exit",
				Local: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Bool("init-script") {
				return bftcli.Init(bftcli.InitParams{Version: version.Version, Out: cmd.Root().Writer})
			}
			return complete(ctx, cmd, false)
		},
		Commands: []*cli.Command{
			{
				Name:      "complete",
				Usage:     "Complete the word under the cursor (used by the bash binding)",
				ArgsUsage: "[LINE [POINT]]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "dry-run",
						Aliases: []string{"n"},
						Usage:   "Print the candidates instead of the line edit",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return complete(ctx, cmd, cmd.Bool("dry-run"))
				},
			},
			{
				Name:      "init",
				Usage:     "Print the script that binds bft to the completion key",
				ArgsUsage: "[bash]",
				Flags:     initFlags,
				Action:    initAction,
			},
			{
				Name:  "setup",
				Usage: "Automatically install or uninstall the shell hook",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "uninstall",
						Aliases: []string{"u"},
						Usage:   "Uninstall the shell hook instead of installing it",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					return bftcli.Setup(bftcli.SetupParams{
						Uninstall: cmd.Bool("uninstall"),
						Out:       cmd.Root().Writer,
					})
				},
			},
			{
				Name:  "status",
				Usage: "Show installation, configuration and cache status",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return bftcli.Status(bftcli.StatusParams{
						ConfigPath: cmd.String("config"),
						Out:        cmd.Root().Writer,
					})
				},
			},
			{
				Name:      "validate",
				Usage:     "Validate a bft configuration file",
				ArgsUsage: "[config-file]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					configPath := cmd.String("config")
					if cmd.Args().Len() > 0 {
						configPath = cmd.Args().First()
					}
					return bftcli.Validate(configPath, cmd.Root().Writer)
				},
			},
			{
				Name:      "schema",
				Usage:     "Display or export the JSON Schema for bft configuration files",
				ArgsUsage: "[output-file]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (prints to stdout if not specified)",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					outputPath := cmd.String("output")
					if outputPath == "" && cmd.Args().Len() > 0 {
						outputPath = cmd.Args().First()
					}
					return bftcli.Schema(outputPath, cmd.Root().Writer)
				},
			},
			{
				Name:      "quote",
				Usage:     "Quote each argument as a single bash word",
				ArgsUsage: "WORD...",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return bftcli.Quote(cmd.Args().Slice(), cmd.Root().Writer)
				},
			},
			{
				Name:      "unquote",
				Usage:     "Remove bash quoting from each argument",
				ArgsUsage: "WORD...",
				Action: func(_ context.Context, cmd *cli.Command) error {
					return bftcli.Unquote(cmd.Args().Slice(), cmd.Root().Writer)
				},
			},
			{
				Name:  "cache",
				Usage: "Manage the compspec cache",
				Commands: []*cli.Command{
					{
						Name:      "clean",
						Usage:     "Remove cached compspecs, all of them or those of the given commands",
						ArgsUsage: "[command...]",
						Action: func(_ context.Context, cmd *cli.Command) error {
							return bftcli.Clean(bftcli.CleanParams{
								ConfigPath: cmd.String("config"),
								LogLevel:   cmd.String("log-level"),
								Commands:   cmd.Args().Slice(),
								Out:        cmd.Root().Writer,
							})
						},
					},
				},
			},
			{
				Name:  "config",
				Usage: "Create or edit the configuration file",
				Commands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write a starter config file",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:    "force",
								Aliases: []string{"f"},
								Usage:   "Overwrite an existing file",
							},
						},
						Action: func(_ context.Context, cmd *cli.Command) error {
							_, err := bftcli.ConfigInit(cmd.String("config"), cmd.Bool("force"), cmd.Root().Writer)
							return err
						},
					},
					{
						Name:  "edit",
						Usage: "Open the config file in $VISUAL or $EDITOR",
						Action: func(_ context.Context, cmd *cli.Command) error {
							return bftcli.ConfigEdit(cmd.String("config"), cmd.Root().Writer)
						},
					},
				},
			},
		},
	}
}
