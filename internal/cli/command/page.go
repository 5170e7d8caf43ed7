package command

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/pagekeep/internal/cli/output"
	"github.com/yndnr/pagekeep/internal/core/domain"
	"github.com/yndnr/pagekeep/internal/core/region"
	"github.com/yndnr/pagekeep/internal/core/service"
	"github.com/yndnr/pagekeep/internal/htmldoc"
	"github.com/yndnr/pagekeep/internal/storage"
	"github.com/yndnr/pagekeep/internal/telemetry/logger"
)

// CollectCommand returns the collect command.
func CollectCommand() *cli.Command {
	return &cli.Command{
		Name:      "collect",
		Aliases:   []string{"save"},
		Usage:     "Collect the editable regions of a page and store them",
		ArgsUsage: "PAGE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the snapshot without storing it",
			},
		},
		Action: collectAction,
	}
}

// collectResult is printed by collect.
type collectResult struct {
	Key         string `json:"key" yaml:"key"`
	Regions     int    `json:"regions" yaml:"regions"`
	Written     bool   `json:"written" yaml:"written"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

func collectAction(c *cli.Context) error {
	env, page, err := pageArg(c)
	if err != nil {
		return err
	}
	ctx := logger.WithPage(env.Context(c.Context), page)

	doc, err := htmldoc.ParseFile(page)
	if err != nil {
		return err
	}
	regions := doc.Regions()
	snap := env.Manager().CollectSnapshot(regions)
	observePage(env, regions, snap)

	if c.Bool("dry-run") {
		return printSnapshot(env, snap)
	}

	gw, err := env.Gateway()
	if err != nil {
		return err
	}
	// Prime the fingerprint cache so an unchanged page is not rewritten.
	if _, _, err := gw.Load(ctx); err != nil {
		if !errors.Is(err, domain.ErrDeserialization) {
			return err
		}
		logger.L(ctx).Warn("stored document is malformed, overwriting", "key", gw.Key())
		gw.ResetCache()
	}

	written, err := gw.Save(ctx, snap)
	if err != nil {
		return err
	}
	fp, _ := gw.Fingerprint()
	logger.L(ctx).Info("page collected", "regions", len(snap), "written", written)

	return env.Print(collectResult{
		Key:         gw.Key(),
		Regions:     len(snap),
		Written:     written,
		Fingerprint: fp,
	})
}

// RestoreCommand returns the restore command.
func RestoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Aliases:   []string{"load"},
		Usage:     "Apply the stored snapshot to a page",
		ArgsUsage: "PAGE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write the restored page to FILE (default: stdout; PAGE to overwrite)",
			},
			&cli.BoolFlag{
				Name:  "no-gauges",
				Usage: "Leave numeric regions as text instead of gauges",
			},
		},
		Action: restoreAction,
	}
}

func restoreAction(c *cli.Context) error {
	env, page, err := pageArg(c)
	if err != nil {
		return err
	}

	doc, err := restorePage(c, env, page)
	if err != nil {
		return err
	}
	if c.Bool("no-gauges") {
		env.Manager().ReleaseGauges(doc.Regions())
	}
	return writePage(env, doc, c.String("out"))
}

// restorePage parses page and applies the stored snapshot to it.
func restorePage(c *cli.Context, env *Env, page string) (*htmldoc.Document, error) {
	ctx := logger.WithPage(env.Context(c.Context), page)

	doc, err := htmldoc.ParseFile(page)
	if err != nil {
		return nil, err
	}
	gw, err := env.Gateway()
	if err != nil {
		return nil, err
	}

	editor := service.NewEditor(doc.Regions(), env.Manager(), gw, service.EditorConfig{Logger: env.Slog()})
	if err := editor.Open(ctx); err != nil {
		if !errors.Is(err, domain.ErrDeserialization) {
			return nil, err
		}
		logger.L(ctx).Warn("stored document is malformed, page left as authored", "key", gw.Key())
	}
	return doc, nil
}

func writePage(env *Env, doc *htmldoc.Document, out string) error {
	if out == "" || out == "-" {
		return doc.Render(env.out)
	}
	return doc.WriteFile(out)
}

// ShowCommand returns the show command.
func ShowCommand() *cli.Command {
	return &cli.Command{
		Name:   "show",
		Usage:  "Print the stored snapshot",
		Action: showAction,
	}
}

func showAction(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	gw, err := env.Gateway()
	if err != nil {
		return err
	}

	snap, ok, err := gw.Load(env.Context(c.Context))
	if err != nil {
		return err
	}
	if !ok {
		env.Printf("no snapshot stored under %q\n", gw.Key())
		return nil
	}
	return printSnapshot(env, snap)
}

// printSnapshot prints one row per record for tables, or the persisted
// document for JSON and YAML.
func printSnapshot(env *Env, snap domain.Snapshot) error {
	if env.Format() != output.FormatTable {
		return env.Print(snap)
	}

	table := &output.Table{}
	table.SetHeaders("KEY", "TYPE", "DATA")
	for _, key := range snap.Keys() {
		kind, data := describeRecord(snap[key], env.wide)
		table.AddRow(string(key), kind, data)
	}
	return env.Print(table)
}

const previewLen = 60

func describeRecord(rec domain.Record, wide bool) (string, string) {
	var kind, data string
	switch r := rec.(type) {
	case domain.PlainRecord:
		kind, data = string(domain.KindPlain), r.HTML
	case domain.ListRecord:
		kind, data = string(domain.KindList), strings.Join(r.Items, " | ")
	case domain.GaugeRecord:
		kind, data = string(domain.KindNumber), fmt.Sprintf("%s (%s%%)", r.DisplayText, domain.FormatPercentage(r.Percentage))
	case domain.RawRecord:
		kind, data = string(domain.KindUnknown), fmt.Sprintf("%v", r.Value)
	default:
		return "-", "-"
	}

	data = strings.Join(strings.Fields(data), " ")
	if !wide {
		if runes := []rune(data); len(runes) > previewLen {
			data = string(runes[:previewLen]) + "..."
		}
	}
	if data == "" {
		data = "-"
	}
	return kind, data
}

// ResetCommand returns the reset command.
func ResetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete the stored snapshot",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Confirm deletion",
			},
		},
		Action: resetAction,
	}
}

func resetAction(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	if !c.Bool("force") {
		return domain.ErrInvalidArgument.WithDetails("reset deletes the stored snapshot; pass --force to confirm")
	}

	gw, err := env.Gateway()
	if err != nil {
		return err
	}
	if err := gw.Delete(env.Context(c.Context)); err != nil {
		return err
	}
	env.Log.Info("snapshot deleted", "key", gw.Key())
	env.Printf("deleted %q\n", gw.Key())
	return nil
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Show storage and snapshot status",
		Action: statusAction,
	}
}

// statusResult is printed by status.
type statusResult struct {
	Engine      string    `json:"engine" yaml:"engine"`
	Dir         string    `json:"dir" yaml:"dir"`
	Key         string    `json:"key" yaml:"key"`
	Encrypted   bool      `json:"encrypted" yaml:"encrypted"`
	Stored      bool      `json:"stored" yaml:"stored"`
	Regions     int       `json:"regions" yaml:"regions"`
	Algorithm   string    `json:"algorithm" yaml:"algorithm"`
	Fingerprint string    `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	LSMBytes    int64     `json:"lsm_bytes,omitempty" yaml:"lsm_bytes,omitempty"`
	VLogBytes   int64     `json:"vlog_bytes,omitempty" yaml:"vlog_bytes,omitempty"`
}

func statusAction(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	ctx := env.Context(c.Context)

	gw, err := env.Gateway()
	if err != nil {
		return err
	}
	snap, ok, err := gw.Load(ctx)
	if err != nil {
		return err
	}

	st := statusResult{
		Engine:    env.Config.Storage.Engine,
		Dir:       env.Config.Storage.Dir,
		Key:       gw.Key(),
		Encrypted: env.Config.Storage.EncryptionKey != "",
		Stored:    ok,
		Regions:   len(snap),
		Algorithm: string(env.Hasher().Algorithm()),
	}
	st.Fingerprint, _ = gw.Fingerprint()

	store, _ := env.Store()
	switch engine := storage.Engine(store).(type) {
	case *storage.SQLiteStore:
		if ts, err := engine.UpdatedAt(ctx, gw.Key()); err == nil {
			st.UpdatedAt = ts
		}
	case *storage.BadgerStore:
		st.LSMBytes, st.VLogBytes = engine.Size()
	}

	return env.Print(st)
}

// CompactCommand returns the compact command.
func CompactCommand() *cli.Command {
	return &cli.Command{
		Name:   "compact",
		Usage:  "Reclaim space in the badger value log",
		Action: compactAction,
	}
}

func compactAction(c *cli.Context) error {
	env, err := getEnv(c)
	if err != nil {
		return err
	}
	store, err := env.Store()
	if err != nil {
		return err
	}

	bs, ok := storage.Engine(store).(*storage.BadgerStore)
	if !ok {
		env.Printf("engine %s needs no compaction\n", env.Config.Storage.Engine)
		return nil
	}
	cycles, err := bs.GC(env.Context(c.Context))
	if err != nil {
		return err
	}
	env.Printf("value log GC reclaimed %d file(s)\n", cycles)
	return nil
}

// observePage records region counts for the page just collected.
func observePage(env *Env, regions []region.Region, snap domain.Snapshot) {
	counts := make(map[string]int)
	for _, r := range regions {
		counts[string(r.Kind())]++
	}
	env.Metrics.SetRegions(counts)
	env.Metrics.SnapshotRecords.Set(float64(len(snap)))
}

// pageArg returns the Env and the single PAGE argument.
func pageArg(c *cli.Context) (*Env, string, error) {
	env, err := getEnv(c)
	if err != nil {
		return nil, "", err
	}
	if c.NArg() != 1 {
		return nil, "", domain.ErrInvalidArgument.WithDetails("expected exactly one PAGE argument")
	}
	return env, c.Args().First(), nil
}
