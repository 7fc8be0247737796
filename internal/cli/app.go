// Package cli is the command tree of the gpa terminal client.
package cli

import (
	"io"

	"github.com/ghzx55/graderevive/internal/account"
	"github.com/ghzx55/graderevive/internal/config"
	"github.com/ghzx55/graderevive/internal/report"
	"github.com/ghzx55/graderevive/internal/transcript"

	"github.com/urfave/cli/v2"
)

type commands struct {
	cfg      *config.Config
	client   *account.Client
	strategy transcript.ParsingStrategy
	render   *report.Renderer
}

// NewApp builds the CLI. tokens holds the login between invocations.
func NewApp(cfg *config.Config, tokens account.TokenStore, out io.Writer) *cli.App {
	cmd := &commands{
		cfg:      cfg,
		client:   account.NewClient(cfg.AccountAPI, tokens),
		strategy: transcript.NewFileStrategy(),
		render:   report.NewRenderer(out),
	}

	credentialFlags := []cli.Flag{
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "account email", Required: true},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "account password", Required: true, EnvVars: []string{"GRADEREVIVE_PASSWORD"}},
	}

	return &cli.App{
		Name:      "gpa",
		Usage:     "compute and simulate GPA from a transcript export",
		Version:   cfg.App.Version,
		Writer:    out,
		ErrWriter: out,
		Commands: []*cli.Command{
			{
				Name:      "calc",
				Usage:     "parse a transcript and print GPA, optionally simulating retakes",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "premium", Usage: "allow 5 retake slots instead of 2"},
					&cli.StringSliceFlag{Name: "retake", Aliases: []string{"r"}, Usage: "retake simulation `COURSE=GRADE`, repeatable"},
					&cli.StringSliceFlag{Name: "major", Usage: "mark `COURSE` as major, repeatable"},
					&cli.StringSliceFlag{Name: "not-major", Usage: "mark `COURSE` as non-major, repeatable"},
				},
				Action: cmd.calc,
			},
			{
				Name:   "signup",
				Usage:  "create an account",
				Flags:  credentialFlags,
				Action: cmd.signup,
			},
			{
				Name:   "login",
				Usage:  "log in and remember the token",
				Flags:  credentialFlags,
				Action: cmd.login,
			},
			{
				Name:   "logout",
				Usage:  "forget the stored token",
				Action: cmd.logout,
			},
			{
				Name:   "profile",
				Usage:  "show the account profile",
				Action: cmd.profile,
			},
			{
				Name:  "gpa",
				Usage: "manage the GPA saved on the account",
				Subcommands: []*cli.Command{
					{
						Name:   "get",
						Usage:  "show the saved GPA",
						Action: cmd.gpaGet,
					},
					{
						Name:      "save",
						Usage:     "save the overall GPA of FILE, or --value",
						ArgsUsage: "[FILE]",
						Flags: []cli.Flag{
							&cli.Float64Flag{Name: "value", Usage: "GPA to save instead of computing one"},
						},
						Action: cmd.gpaSave,
					},
					{
						Name:   "delete",
						Usage:  "remove the saved GPA",
						Action: cmd.gpaDelete,
					},
				},
			},
		},
	}
}
