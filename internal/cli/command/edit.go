package command

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pagekeep/internal/cli/repl"
	"github.com/yndnr/pagekeep/internal/core/service"
	"github.com/yndnr/pagekeep/internal/htmldoc"
	"github.com/yndnr/pagekeep/internal/telemetry/logger"
)

// EditCommand returns the interactive edit command.
func EditCommand() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Edit the regions of a page interactively",
		ArgsUsage: "PAGE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not read or write ~/.pagekeep/history",
			},
		},
		Action: editAction,
	}
}

func editAction(c *cli.Context) error {
	env, page, err := pageArg(c)
	if err != nil {
		return err
	}
	ctx := logger.WithPage(env.Context(c.Context), page)
	log := logger.L(ctx)

	doc, err := htmldoc.ParseFile(page)
	if err != nil {
		return err
	}
	gw, err := env.Gateway()
	if err != nil {
		return err
	}

	editor := service.NewEditor(doc.Regions(), env.Manager(), gw, service.EditorConfig{
		SaveDelay: env.Config.AutosaveDelay(),
		Logger:    log.Slog(),
		OnSave: func(res service.SaveResult) {
			env.Metrics.ObserveAutosave(res.Flushed, res.Saved, res.Err)
			if res.Err != nil {
				log.Error("autosave failed", "error", res.Err)
			}
		},
	})
	if err := editor.Open(ctx); err != nil {
		log.Warn("stored snapshot not applied", "error", err)
	}

	historyFile := repl.DefaultHistoryFile()
	if c.Bool("no-history") {
		historyFile = ""
	}
	history := repl.NewHistory(historyFile)
	if err := history.Load(); err != nil {
		log.Warn("history not loaded", "error", err)
	}

	session := repl.New(doc, editor, page,
		repl.WithIO(c.App.Reader, c.App.Writer),
		repl.WithHistory(history),
	)
	runErr := session.Run(ctx)

	saved, closeErr := editor.Close(ctx)
	if closeErr == nil {
		log.Debug("edit session closed", "written", saved)
	}
	if err := history.Save(); err != nil {
		log.Warn("history not saved", "error", err)
	}
	return errors.Join(runErr, closeErr)
}
