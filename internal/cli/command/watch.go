package command

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pagekeep/internal/core/service"
	"github.com/yndnr/pagekeep/internal/htmldoc"
	"github.com/yndnr/pagekeep/internal/infra/confloader"
	"github.com/yndnr/pagekeep/internal/infra/shutdown"
	"github.com/yndnr/pagekeep/internal/storage"
	"github.com/yndnr/pagekeep/internal/telemetry/logger"
)

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Autosave a page every time it changes on disk",
		ArgsUsage: "PAGE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on ADDR (overrides metrics.addr)",
			},
		},
		Action: watchAction,
	}
}

func watchAction(c *cli.Context) error {
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
			switch {
			case res.Err != nil:
				log.Error("autosave failed", "error", res.Err)
			case res.Saved:
				log.Info("page saved", "flushed", res.Flushed)
			default:
				log.Debug("page unchanged", "flushed", res.Flushed)
			}
		},
	})
	if err := editor.Open(ctx); err != nil {
		log.Warn("stored snapshot not applied", "error", err)
	}

	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log.Slog()))
	if err != nil {
		return err
	}
	if err := watcher.Watch(page); err != nil {
		_ = watcher.Stop()
		return err
	}
	watcher.OnChange(func(path string) {
		next, err := htmldoc.ParseFile(path)
		if err != nil {
			log.Warn("page reload failed", "error", err)
			return
		}
		regions := next.Regions()
		observePage(env, regions, env.Manager().CollectSnapshot(regions))
		editor.Replace(regions)
		editor.ScheduleSave()
	})

	handler := shutdown.NewHandler(env.Config.ShutdownTimeout())

	// Registered first so it runs last: the final flush must not race
	// with a page reload.
	handler.OnShutdown(func(ctx context.Context) error {
		saved, err := editor.Close(ctx)
		if err == nil {
			log.Info("final save", "written", saved)
		}
		return err
	})
	handler.OnShutdown(func(context.Context) error {
		return watcher.Stop()
	})

	addr := env.Config.Metrics.Addr
	if c.IsSet("metrics-addr") {
		addr = c.String("metrics-addr")
	}
	if addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			_ = watcher.Stop()
			return err
		}
		srv := serveMetrics(env, ln)
		handler.OnShutdown(srv.Shutdown)
	}

	watcher.StartAsync()
	log.Info("watching page", "key", gw.Key(), "delay", env.Config.AutosaveDelay().String())
	return handler.Wait(c.Context)
}

// serveMetrics exposes the metric registry on ln at /metrics.
func serveMetrics(env *Env, ln net.Listener) *http.Server {
	if store, err := env.Store(); err == nil {
		if bs, ok := storage.Engine(store).(*storage.BadgerStore); ok {
			if err := bs.RegisterMetrics(env.Metrics.Registerer()); err != nil {
				env.Log.Warn("badger metrics not registered", "error", err)
			}
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", env.Metrics.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			env.Log.Error("metrics server stopped", "error", err)
		}
	}()
	env.Log.Info("serving metrics", "addr", ln.Addr().String())
	return srv
}
