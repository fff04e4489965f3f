package commands

import (
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"github.com/prosecheck/prosecheck/internal/profile"
)

// ProfilesCommand returns the CLI command that lists the available profiles
func ProfilesCommand() *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "List the available check profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the profile file (skips discovery)",
			},
		},
		Action: profilesAction,
	}
}

func profilesAction(c *cli.Context) error {
	profiles, err := profile.Load(c.String("config"))
	if err != nil {
		return err
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Profile", "Checks", "Model", "Output"})

	for _, name := range names {
		prof := profiles[name]
		model := prof.Model
		if model == "" {
			model = "(default)"
		}
		t.AppendRow(table.Row{
			name,
			strings.Join(prof.Checks, ", "),
			model,
			prof.OutputFormat,
		})
	}

	t.Render()
	return nil
}
