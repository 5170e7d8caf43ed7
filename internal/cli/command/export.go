package command

import (
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pagekeep/internal/core/domain"
)

// ExportCommand returns the export command.
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Render a page with the stored snapshot applied",
		ArgsUsage: "PAGE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "html",
				Usage:   "Export format (html, markdown)",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write to FILE instead of stdout",
			},
		},
		Action: exportAction,
	}
}

func exportAction(c *cli.Context) error {
	env, page, err := pageArg(c)
	if err != nil {
		return err
	}

	format := strings.ToLower(c.String("format"))
	switch format {
	case "html", "markdown", "md":
	default:
		return domain.ErrInvalidArgument.WithDetails("unknown export format " + c.String("format"))
	}

	doc, err := restorePage(c, env, page)
	if err != nil {
		return err
	}
	if format == "html" {
		return writePage(env, doc, c.String("out"))
	}

	// Markdown carries the gauge text, not the bar markup.
	env.Manager().ReleaseGauges(doc.Regions())
	md, err := doc.Markdown()
	if err != nil {
		return err
	}
	if out := c.String("out"); out != "" && out != "-" {
		return os.WriteFile(out, []byte(md), 0o644)
	}
	env.Printf("%s", md)
	return nil
}
