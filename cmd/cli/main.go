// Command passnext is the command-line client for the passnext server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/vrushal09/passnext/internal/strength"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "passnext",
		Usage:   "password vault and security analysis client",
		Version: fmt.Sprintf("%s (%s)", version, buildDate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "server base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"PASSNEXT_ADDR"},
			},
		},
		Commands: []*cli.Command{
			commandLogin(),
			commandAdd(),
			commandList(),
			commandRemove(),
			commandCheck(),
			commandGen(),
			commandDashboard(),
			commandBackup(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("error: %v", err)
		os.Exit(1)
	}
}

func client(c *cli.Context) (*apiClient, error) {
	token, err := loadToken()
	if err != nil {
		return nil, err
	}
	return newAPIClient(c.String("addr"), token), nil
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 15*time.Second)
}

func commandLogin() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "save an access token issued by the identity provider",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", Usage: "bearer access token", Required: true},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime", Value: 15 * time.Minute},
		},
		Action: func(c *cli.Context) error {
			if err := saveToken(c.String("token"), time.Now().Add(c.Duration("ttl"))); err != nil {
				return err
			}
			color.Green("token saved to %s", tokenPath())
			return nil
		},
	}
}

func commandAdd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "store a new password",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "service", Aliases: []string{"s"}, Required: true},
			&cli.StringFlag{Name: "account", Aliases: []string{"a"}},
			&cli.StringFlag{Name: "secret", Aliases: []string{"p"}, Usage: "password value; omit to generate"},
			&cli.StringFlag{Name: "notes"},
			&cli.TimestampFlag{Name: "expires", Layout: "2006-01-02", Usage: "expiry date (YYYY-MM-DD)"},
		},
		Action: func(c *cli.Context) error {
			api, err := client(c)
			if err != nil {
				return err
			}
			secret := c.String("secret")
			if secret == "" {
				secret, err = strength.Generate(strength.DefaultGenerateOptions())
				if err != nil {
					return err
				}
				color.Yellow("generated: %s", secret)
			}
			in := passwordDTO{
				Service: c.String("service"),
				Account: c.String("account"),
				Secret:  secret,
				Notes:   c.String("notes"),
			}
			if exp := c.Timestamp("expires"); exp != nil && !exp.IsZero() {
				in.ExpiryDate = exp
			}

			ctx, cancel := withTimeout()
			defer cancel()
			rec, err := api.addPassword(ctx, in)
			if err != nil {
				return err
			}
			color.Green("stored %s (%s)", rec.Service, rec.ID)
			return nil
		},
	}
}

func commandList() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list stored passwords",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "show-secrets", Usage: "print plaintext secrets"},
		},
		Action: func(c *cli.Context) error {
			api, err := client(c)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout()
			defer cancel()
			list, err := api.listPasswords(ctx)
			if err != nil {
				return err
			}
			renderPasswords(list, c.Bool("show-secrets"))
			return nil
		},
	}
}

func commandRemove() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "delete a stored password",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("usage: rm <id>")
			}
			api, err := client(c)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout()
			defer cancel()
			if err := api.deletePassword(ctx, c.Args().First()); err != nil {
				return err
			}
			color.Green("deleted")
			return nil
		},
	}
}

func commandCheck() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "analyze a password or email for strength and breaches",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}},
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}},
		},
		Action: func(c *cli.Context) error {
			api, err := client(c)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout()
			defer cancel()

			switch {
			case c.String("password") != "":
				res, err := api.analyzeStrength(ctx, c.String("password"))
				if err != nil {
					return err
				}
				renderStrength(res)

				br, err := api.checkPassword(ctx, c.String("password"))
				if err != nil {
					return err
				}
				renderBreach(br)
			case c.String("email") != "":
				br, err := api.checkEmail(ctx, c.String("email"))
				if err != nil {
					return err
				}
				renderBreach(br)
			default:
				return fmt.Errorf("pass --password or --email")
			}
			return nil
		},
	}
}

func commandGen() *cli.Command {
	return &cli.Command{
		Name:  "gen",
		Usage: "generate a random password locally",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "length", Aliases: []string{"n"}, Value: 16},
			&cli.BoolFlag{Name: "no-symbols", Usage: "letters and digits only"},
		},
		Action: func(c *cli.Context) error {
			opts := strength.DefaultGenerateOptions()
			opts.Length = c.Int("length")
			if c.Bool("no-symbols") {
				opts.Symbols = false
			}
			pw, err := strength.Generate(opts)
			if err != nil {
				return err
			}
			fmt.Println(pw)
			return nil
		},
	}
}

func commandBackup() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "export or restore a vault snapshot",
		Subcommands: []*cli.Command{
			{
				Name:  "export",
				Usage: "upload a snapshot to the configured object store",
				Action: func(c *cli.Context) error {
					api, err := client(c)
					if err != nil {
						return err
					}
					ctx, cancel := withTimeout()
					defer cancel()
					key, err := api.backupExport(ctx)
					if err != nil {
						return err
					}
					color.Green("exported: %s", key)
					return nil
				},
			},
			{
				Name:      "restore",
				Usage:     "restore records from a snapshot",
				ArgsUsage: "<key>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return fmt.Errorf("usage: backup restore <key>")
					}
					api, err := client(c)
					if err != nil {
						return err
					}
					ctx, cancel := withTimeout()
					defer cancel()
					n, err := api.backupRestore(ctx, c.Args().First())
					if err != nil {
						return err
					}
					color.Green("restored %d record(s)", n)
					return nil
				},
			},
		},
	}
}

func commandDashboard() *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "show the security dashboard",
		Action: func(c *cli.Context) error {
			api, err := client(c)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout()
			defer cancel()
			d, err := api.dashboard(ctx)
			if err != nil {
				return err
			}
			renderDashboard(d)
			return nil
		},
	}
}
