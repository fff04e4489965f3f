package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/prosecheck/prosecheck/internal/app"
	"github.com/prosecheck/prosecheck/internal/commands"
)

// Version information - populated at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cliApp := &cli.App{
		Name:  "prosecheck",
		Usage: "LLM-powered prose checker",
		Description: "Prosecheck runs named check profiles against text files and reports\n" +
			"findings as compiler-style diagnostics.\n\n" +
			"When run without a subcommand, prosecheck runs the check command:\n\n" +
			"    prosecheck PROFILE FILE",
		Version: Version,
		Compiled: func() time.Time {
			t, err := time.Parse(time.RFC3339, BuildTime)
			if err != nil {
				return time.Now()
			}
			return t
		}(),
		Flags: commands.CheckFlags(),
		Before: func(c *cli.Context) error {
			application, err := app.New()
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}

			c.App.Metadata = map[string]interface{}{
				"app": application,
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if application, ok := c.App.Metadata["app"].(*app.App); ok {
				return application.Shutdown()
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.CheckCommand(),
			commands.ProfilesCommand(),
		},
		Action: func(c *cli.Context) error {
			// Default action is to run the check command.
			return commands.CheckCommand().Action(c)
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
