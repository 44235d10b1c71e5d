// Package build runs a full dictionary compilation: read the source tables,
// assemble and resolve codes, rank associations and write every output.
package build

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/japaniel/c42/pkg/config"
	"github.com/japaniel/c42/pkg/db"
	"github.com/japaniel/c42/pkg/dictionary"
	"github.com/japaniel/c42/pkg/export"
	"github.com/japaniel/c42/pkg/rime"
	"github.com/japaniel/c42/pkg/table"
)

// Summary holds the counters of a run.
type Summary struct {
	Readings       int
	Decompositions int
	Assemblies     int
	Bindings       int
	RejectedRoots  int
	Entries        int
	Phrases        int
	Hints          int
	Associations   int
	BuildID        string
	Duration       time.Duration
}

// Pipeline compiles the dictionary described by a Config.
type Pipeline struct {
	log *slog.Logger
	cfg config.Config
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, cfg config.Config) *Pipeline {
	return &Pipeline{log: log, cfg: cfg}
}

// inputs are the parsed source tables.
type inputs struct {
	readings  []dictionary.Reading
	decomps   *dictionary.Decompositions
	frequency *dictionary.Frequency
	keys      *dictionary.KeyMap
	brevity   *dictionary.Overrides
	specialty *dictionary.Overrides
}

// outputs are the compiled tables.
type outputs struct {
	entries      []dictionary.Entry
	phrases      int
	hints        []dictionary.Hint
	associations []dictionary.Association
}

// Run compiles and writes every output. A missing input file aborts the
// run before anything is written.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	p.log.Info("build started", slog.Bool("dry_run", p.cfg.DryRun))

	in, err := p.load()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := rime.LoadBase(p.cfg.Inputs.Base)
	if err != nil {
		return nil, err
	}
	if !base.Header.HasColumn("weight") {
		p.log.Warn("base dictionary declares no weight column",
			slog.String("path", p.cfg.Inputs.Base))
	}

	assemblies := dictionary.Assemble(in.readings, in.decomps)
	out := p.compile(in, assemblies)

	summary := &Summary{
		Readings:       len(in.readings),
		Decompositions: in.decomps.Len(),
		Assemblies:     len(assemblies),
		Bindings:       in.keys.Len(),
		RejectedRoots:  in.keys.Rejected(),
		Entries:        len(out.entries),
		Phrases:        out.phrases,
		Hints:          len(out.hints),
		Associations:   len(out.associations),
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.cfg.DryRun {
		p.log.Info("dry run: skipping writes")
	} else {
		if err := p.write(base, out); err != nil {
			return nil, err
		}
		if p.cfg.Store.Path != "" {
			id, err := p.snapshot(ctx, base.Header, out)
			if err != nil {
				return nil, err
			}
			summary.BuildID = id
		}
	}

	summary.Duration = time.Since(start)
	p.log.Info("build finished",
		slog.Int("assemblies", summary.Assemblies),
		slog.Int("entries", summary.Entries),
		slog.Int("hints", summary.Hints),
		slog.Int("associations", summary.Associations),
		slog.Int("rejected_roots", summary.RejectedRoots),
		slog.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (p *Pipeline) load() (*inputs, error) {
	paths := p.cfg.Inputs

	readingsTbl, err := readTable("readings", paths.Readings)
	if err != nil {
		return nil, err
	}
	analysisTbl, err := readTable("analysis", paths.Analysis)
	if err != nil {
		return nil, err
	}
	freqTbl, err := readTable("frequency", paths.Frequency)
	if err != nil {
		return nil, err
	}
	keyTbl, err := readTable("keymap", paths.KeyMap)
	if err != nil {
		return nil, err
	}
	brevity, err := readPairs("brevity", paths.Brevity)
	if err != nil {
		return nil, err
	}
	specialty, err := readPairs("specialty", paths.Specialty)
	if err != nil {
		return nil, err
	}

	in := &inputs{
		readings:  dictionary.ReadingsFromTable(readingsTbl, p.log),
		decomps:   dictionary.DecompositionsFromTable(analysisTbl),
		frequency: dictionary.NewFrequency(dictionary.FrequencyFromTable(freqTbl, p.log)),
		keys:      dictionary.NewKeyMap(dictionary.RootsFromTable(keyTbl), p.log),
		brevity:   dictionary.NewOverrides(brevity),
		specialty: dictionary.NewOverrides(specialty),
	}
	p.log.Debug("inputs loaded",
		slog.Int("readings", len(in.readings)),
		slog.Int("decompositions", in.decomps.Len()),
		slog.Int("words", in.frequency.Len()),
		slog.Int("bindings", in.keys.Len()),
		slog.Int("brevity", in.brevity.Len()),
		slog.Int("specialty", in.specialty.Len()),
	)
	return in, nil
}

func readTable(name, path string) (*table.Table, error) {
	t, err := table.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s table: %w", name, err)
	}
	return t, nil
}

func readPairs(name, path string) ([][2]string, error) {
	pairs, err := table.ReadPairsFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s table: %w", name, err)
	}
	return pairs, nil
}

func (p *Pipeline) compile(in *inputs, assemblies []dictionary.Assembly) outputs {
	resolver := dictionary.NewResolver(in.keys, in.frequency,
		dictionary.StandardRules(in.brevity, in.specialty)...)

	phrases := resolver.Phrases()
	entries := make([]dictionary.Entry, 0, len(phrases)+len(assemblies))
	entries = append(entries, phrases...)
	entries = append(entries, resolver.Resolve(assemblies)...)

	return outputs{
		entries: entries,
		phrases: len(phrases),
		hints:   dictionary.Hints(assemblies, in.keys),
		associations: dictionary.RankAssociations(in.frequency, dictionary.Characters(assemblies), dictionary.RankOptions{
			Limit:           p.cfg.Association.Limit,
			SortByFrequency: p.cfg.Association.SortByFrequency,
		}),
	}
}

// write renders the three output tables in order and stops at the first
// failure.
func (p *Pipeline) write(base *rime.Base, out outputs) error {
	tables := []struct {
		name  string
		path  string
		write func(path string) error
	}{
		{"dictionary", p.cfg.Outputs.Dictionary, func(path string) error {
			return rime.WriteDictionary(path, base, out.entries)
		}},
		{"hints", p.cfg.Outputs.Assembly, func(path string) error {
			return rime.WriteHints(path, out.hints)
		}},
		{"associations", p.cfg.Outputs.Association, func(path string) error {
			return rime.WriteAssociations(path, out.associations)
		}},
	}

	for _, t := range tables {
		if err := t.write(t.path); err != nil {
			return fmt.Errorf("write %s: %w", t.name, err)
		}
		p.log.Debug("table written", slog.String("table", t.name), slog.String("path", t.path))
	}
	return nil
}

func (p *Pipeline) snapshot(ctx context.Context, header rime.Header, out outputs) (string, error) {
	conn, err := db.Open(p.cfg.Store.Path)
	if err != nil {
		return "", fmt.Errorf("open store %s: %w", p.cfg.Store.Path, err)
	}
	defer conn.Close()

	ex := export.NewExporter(conn, p.cfg.Store.BatchSize)
	ex.OnProgress = func(n int) {
		p.log.Debug("snapshot rows submitted", slog.Int("rows", n))
	}
	id, err := ex.Export(ctx, export.Snapshot{
		Name:         header.Name,
		Version:      header.Version,
		Entries:      out.entries,
		Hints:        out.hints,
		Associations: out.associations,
	})
	if err != nil {
		return "", err
	}
	p.log.Info("snapshot stored", slog.String("path", p.cfg.Store.Path), slog.String("build_id", id))
	return id, nil
}
