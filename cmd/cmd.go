// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "password",
		Aliases:  []string{"p"},
		Usage:    "Account password",
		Required: true,
	}
}

// setupCommand handles configuration and database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, then initialize the store and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "List applied database migrations",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// authCommand handles accounts and the active session.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage accounts and the active session",
		Commands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "Create an account and sign in",
				ArgsUsage: "<email>",
				Flags:     []cli.Flag{passwordFlag()},
				Action:    r.AuthRegister,
			},
			{
				Name:      "login",
				Usage:     "Sign in",
				ArgsUsage: "<email>",
				Flags:     []cli.Flag{passwordFlag()},
				Action:    r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the signed-in account",
				Action: r.AuthWhoami,
			},
		},
	}
}

// releaseCommand handles the signed-in user's releases.
func releaseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "release",
		Aliases: []string{"rel"},
		Usage:   "Author and track releases",
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Create a release from a TOML manifest and submit it for moderation",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "manifest",
						Aliases:  []string{"m"},
						Usage:    "Path to the release manifest",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "draft",
						Usage: "Save as a draft instead of submitting",
					},
					jsonFlag(),
				},
				Action: r.ReleaseNew,
			},
			{
				Name:      "submit",
				Usage:     "Submit a saved draft for moderation",
				ArgsUsage: "<id>",
				Action:    r.ReleaseSubmit,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your releases",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Only show releases in this status (draft, moderation, approved, rejected)",
					},
					jsonFlag(),
				},
				Action: r.ReleaseList,
			},
			{
				Name:      "show",
				Usage:     "Show a release and its tracks",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ReleaseShow,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a draft or rejected release",
				ArgsUsage: "<id>",
				Action:    r.ReleaseDelete,
			},
			{
				Name:      "export",
				Usage:     "Export a release as json, yaml, md or csv",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout; \"-\" picks release-<id>.<format>",
					},
				},
				Action: r.ReleaseExport,
			},
			{
				Name:  "export-all",
				Usage: "Export every one of your releases into a directory with a manifest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"d"},
						Usage:   "Output directory (default: kedoo_export_<epoch>)",
					},
					&cli.StringFlag{
						Name:    "status",
						Aliases: []string{"s"},
						Usage:   "Only export releases in this status",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent workers",
						Value: 5,
					},
				},
				Action: r.ReleaseExportAll,
			},
		},
	}
}

// ticketCommand handles the signed-in user's support tickets.
func ticketCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ticket",
		Usage: "Open and track support tickets",
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "Open a support ticket",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "subject",
						Usage:    "Ticket subject",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "message",
						Aliases:  []string{"m"},
						Usage:    "Ticket message",
						Required: true,
					},
					jsonFlag(),
				},
				Action: r.TicketNew,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your tickets",
				Flags:   []cli.Flag{jsonFlag()},
				Action:  r.TicketList,
			},
		},
	}
}

// moderateCommand handles the moderator's queues.
func moderateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "moderate",
		Aliases: []string{"mod"},
		Usage:   "Review releases and answer tickets (moderator only)",
		Commands: []*cli.Command{
			{
				Name:   "summary",
				Usage:  "Count pending releases and open tickets",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ModerateSummary,
			},
			{
				Name:   "releases",
				Usage:  "List releases waiting for moderation",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ModerateReleases,
			},
			{
				Name:   "tickets",
				Usage:  "List open tickets",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ModerateTickets,
			},
			{
				Name:      "approve",
				Usage:     "Approve a release",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "upc",
						Usage: "UPC to assign, replacing the one supplied by the owner",
					},
				},
				Action: r.ModerateApprove,
			},
			{
				Name:      "reject",
				Usage:     "Reject a release",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "reason",
						Usage:    "Reason shown to the owner",
						Required: true,
					},
				},
				Action: r.ModerateReject,
			},
			{
				Name:      "answer",
				Usage:     "Answer an open ticket",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "response",
						Usage:    "Response shown to the owner",
						Required: true,
					},
				},
				Action: r.ModerateAnswer,
			},
		},
	}
}

// dashboardCommand summarizes the signed-in user's releases.
func dashboardCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "dashboard",
		Usage:  "Summarize your releases",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Dashboard,
	}
}

// themeCommand handles the persisted UI theme.
func themeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "theme",
		Usage:  "Show or change the UI theme",
		Action: r.ThemeShow,
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the current theme",
				Action: r.ThemeShow,
			},
			{
				Name:   "toggle",
				Usage:  "Switch between light and dark",
				Action: r.ThemeToggle,
			},
			{
				Name:      "set",
				Usage:     "Set the theme",
				ArgsUsage: "<light|dark>",
				Action:    r.ThemeSet,
			},
		},
	}
}

// serveCommand runs the JSON API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on, overriding server.port",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the health endpoint in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}
