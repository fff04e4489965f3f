package commands

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/prosecheck/prosecheck/internal/app"
	"github.com/prosecheck/prosecheck/internal/document"
	"github.com/prosecheck/prosecheck/internal/format"
	"github.com/prosecheck/prosecheck/internal/loggy"
	"github.com/prosecheck/prosecheck/internal/profile"
)

// CheckFlags returns the flags of the check command. They are also installed
// at the app level so the default (subcommand-less) invocation accepts them.
func CheckFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the profile file (skips discovery)",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Override the profile's model, e.g. ollama/gemma3 or claude/claude-3-7-sonnet-20250219",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Override the profile's output format: compiler, json, or streaming",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Mirror streaming output to a file",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Print the prompts that would be sent and exit without calling any model",
		},
		&cli.IntFlag{
			Name:  "char-limit",
			Usage: "Warn when the document exceeds this many characters (0 disables)",
			Value: 50000,
		},
	}
}

// CheckCommand returns the CLI command that runs a profile against a file
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Run a check profile against a text file",
		ArgsUsage: "PROFILE FILE",
		Description: "Runs every check in the named profile against the given file and\n" +
			"prints the findings. Profiles come from the nearest .prosecheck.yaml,\n" +
			"walking up from the current directory.",
		Flags:  CheckFlags(),
		Action: checkAction,
	}
}

func checkAction(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: %s check PROFILE FILE", c.App.Name)
	}
	profileName := c.Args().Get(0)
	filePath := c.Args().Get(1)

	application, err := app.FromContext(c)
	if err != nil {
		return err
	}

	prof, err := profile.Get(profileName, c.String("config"))
	if err != nil {
		return err
	}

	if model := c.String("model"); model != "" {
		prof.Model = model
	}
	if f := c.String("format"); f != "" {
		prof.OutputFormat = f
	}
	outputFormat, err := format.ParseFormat(prof.OutputFormat)
	if err != nil {
		return err
	}

	doc, err := document.Load(filePath)
	if err != nil {
		return err
	}

	if limit := c.Int("char-limit"); limit > 0 && len(doc.Text) > limit {
		fmt.Fprintf(os.Stderr, "warning: %s is %d characters, above the limit of %d; sending it to the model %d time(s) anyway\n",
			doc.Path, len(doc.Text), limit, len(prof.Checks))
	}

	loggy.Info("starting check run",
		"profile", prof.Name,
		"file", doc.Path,
		"checks", len(prof.Checks),
		"format", outputFormat,
	)

	if c.Bool("dry-run") {
		return dryRun(application, prof, doc)
	}

	if outputFormat == format.Streaming {
		return runStreaming(c, application, prof, doc)
	}

	report, err := application.Check.Run(c.Context, prof, doc)
	if err != nil {
		return err
	}

	return format.Write(os.Stdout, outputFormat, report)
}

// dryRun prints every prompt the run would send, without any model call.
func dryRun(application *app.App, prof *profile.Profile, doc *document.Document) error {
	prompts, err := application.Check.Prompts(prof, doc)
	if err != nil {
		return err
	}

	for i, p := range prompts {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("=== check: %s ===\n", p.Kind)
		fmt.Printf("--- system ---\n%s\n", p.System)
		fmt.Printf("--- user ---\n%s\n", truncate(p.User, 500))
	}

	return nil
}

// truncate shortens a prompt preview; the full text still goes to the model
// on a real run.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + fmt.Sprintf("... [%d more characters]", len(s)-n)
}

// runStreaming forwards raw model output as it arrives.
func runStreaming(c *cli.Context, application *app.App, prof *profile.Profile, doc *document.Document) error {
	chunks, err := application.Check.RunStream(c.Context, prof, doc)
	if err != nil {
		return err
	}

	stream, err := format.NewStream(os.Stdout, c.String("output"))
	if err != nil {
		return err
	}
	defer stream.Close()

	for chunk := range chunks {
		if chunk.Error != "" {
			return fmt.Errorf("model error: %s", chunk.Error)
		}
		if chunk.Done {
			break
		}
		if err := stream.Chunk(chunk.Content); err != nil {
			return err
		}
	}

	return nil
}
