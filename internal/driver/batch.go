package driver

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"codeabs/internal/dataset"
	"codeabs/internal/diag"
	"codeabs/internal/lang"
	"codeabs/internal/source"
	"codeabs/internal/syntax/tsparse"
	"codeabs/internal/trace"
	"codeabs/internal/ui"
)

// BatchStats counts unit outcomes. Cached and Partial units are also Succeeded.
type BatchStats struct {
	Total     int
	Succeeded int
	Failed    int
	Cached    int
	Partial   int
}

func (s *BatchStats) add(out *unitOutcome) {
	s.Total++
	if out.err != nil {
		s.Failed++
		return
	}
	s.Succeeded++
	if out.cached {
		s.Cached++
	}
	if out.partial {
		s.Partial++
	}
}

// Rate is the share of succeeded units in percent.
func (s BatchStats) Rate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) * 100 / float64(s.Total)
}

func (s BatchStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "abstracted %d/%d units [%.2f%%]", s.Succeeded, s.Total, s.Rate())
	var extra []string
	if s.Failed > 0 {
		extra = append(extra, fmt.Sprintf("%d failed", s.Failed))
	}
	if s.Partial > 0 {
		extra = append(extra, fmt.Sprintf("%d partial", s.Partial))
	}
	if s.Cached > 0 {
		extra = append(extra, fmt.Sprintf("%d cached", s.Cached))
	}
	if len(extra) > 0 {
		b.WriteString(" (" + strings.Join(extra, ", ") + ")")
	}
	return b.String()
}

// BatchResult summarises a batch run.
type BatchResult struct {
	Stats BatchStats
	Bag   *diag.Bag
}

// worker is one pool slot: a trace id plus the parser it owns.
type worker struct {
	id     int
	parser *tsparse.Parser
}

// runBatch abstracts jobs on a bounded worker pool. Each worker owns a parser.
// Outcomes are returned in job order; only cancellation of ctx is an error.
func runBatch(ctx context.Context, jobs []unitJob, opts Options) ([]unitOutcome, error) {
	outcomes := make([]unitOutcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes, nil
	}
	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(jobs))

	pool := make(chan worker, workers)
	for id := 1; id <= workers; id++ {
		pool <- worker{id: id, parser: tsparse.NewParser()}
	}
	defer func() {
		close(pool)
		for w := range pool {
			w.parser.Close()
		}
	}()

	var done, running atomic.Int64
	heartbeat := trace.StartHeartbeat(trace.FromContext(ctx), opts.Heartbeat, func() string {
		return fmt.Sprintf("%d/%d units, %d running", done.Load(), len(jobs), running.Load())
	})
	defer heartbeat.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			// Проверка отмены
			if err := gctx.Err(); err != nil {
				return err
			}
			w := <-pool
			defer func() { pool <- w }()
			running.Add(1)
			defer running.Add(-1)

			opts.progress(job.name, ui.StatusWorking, "")
			// индекс i уникален, мьютекс не нужен
			outcomes[i] = runUnit(trace.WithWorker(gctx, w.id), w.parser, job, opts)
			done.Add(1)
			note := ""
			if outcomes[i].err != nil {
				note = outcomes[i].err.Error()
			}
			opts.progress(job.name, outcomes[i].status(), note)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// collect merges per-unit bags in job order and counts outcomes.
func collect(outcomes []unitOutcome, bag *diag.Bag) BatchStats {
	var stats BatchStats
	for i := range outcomes {
		stats.add(&outcomes[i])
		bag.Merge(outcomes[i].bag)
	}
	bag.Dedup()
	return stats
}

// AbstractFiles abstracts many files concurrently. Files that fail to load are
// reported and counted as failed.
func AbstractFiles(ctx context.Context, paths []string, opts Options) ([]*FileResult, *BatchResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "files")
	defer span.End(fmt.Sprintf("%d files", len(paths)))

	bag := diag.NewBag(opts.maxDiagnostics())
	results := make([]*FileResult, len(paths))

	// FileSet не потокобезопасен: загружаем заранее
	_, loadSpan := trace.Start(ctx, trace.ScopePhase, "load")
	fs := source.NewFileSet()
	var (
		jobs  []unitJob
		index []int
		stats BatchStats
	)
	for i, path := range paths {
		id, err := fs.Load(path)
		if err != nil {
			d := diag.NewError(diag.IOLoadFile, path, err.Error())
			bag.Add(d)
			results[i] = &FileResult{Path: path, Bag: diag.NewBag(1)}
			results[i].Bag.Add(d)
			stats.Total++
			stats.Failed++
			continue
		}
		file := fs.Get(id)
		results[i] = &FileResult{Path: file.Path, File: file}
		jobs = append(jobs, unitJob{name: file.Path, path: file.Path, src: file.Content})
		index = append(index, i)
	}
	loadSpan.End("")

	_, absSpan := trace.Start(ctx, trace.ScopePhase, "abstract")
	outcomes, err := runBatch(ctx, jobs, opts)
	absSpan.End("")
	if err != nil {
		return results, nil, err
	}

	for j, out := range outcomes {
		res := results[index[j]]
		res.Lang, res.Unit, res.Text = out.lang, out.unit, out.text
		res.Partial, res.Cached = out.partial, out.cached
		res.Bag = out.bag
		if opts.Dump != nil && out.err == nil {
			if err := writeDump(opts.Dump, res.Path, res.File.Content, out.text); err != nil {
				return results, nil, err
			}
		}
	}
	batchStats := collect(outcomes, bag)
	batchStats.Total += stats.Total
	batchStats.Failed += stats.Failed
	return results, &BatchResult{Stats: batchStats, Bag: bag}, nil
}

// AbstractDataset abstracts every function body of ds in place. A body that
// fails gets null abstraction fields; the batch carries on.
func AbstractDataset(ctx context.Context, ds *dataset.Dataset, opts Options) (*BatchResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "dataset")
	defer span.End(fmt.Sprintf("%d records", len(ds.Records)))

	bag := diag.NewBag(opts.maxDiagnostics())
	type target struct {
		rec  *dataset.Record
		slot dataset.Slot
	}
	var (
		jobs    []unitJob
		targets []target
		stats   BatchStats
	)
	for _, rec := range ds.Records {
		for _, slot := range rec.Present() {
			src, _ := rec.Source(slot)
			name := rec.UnitName(slot)
			job := unitJob{name: name, src: []byte(src)}
			if opts.Lang == lang.Unknown {
				k, err := rec.Language(job.src)
				if err != nil {
					bag.Add(diag.NewError(diag.AbsUnknownLang, name, err.Error()))
					rec.ClearAbstraction(slot)
					stats.Total++
					stats.Failed++
					continue
				}
				job.lang = k
			}
			jobs = append(jobs, job)
			targets = append(targets, target{rec: rec, slot: slot})
		}
	}

	_, absSpan := trace.Start(ctx, trace.ScopePhase, "abstract")
	outcomes, err := runBatch(ctx, jobs, opts)
	absSpan.End("")
	if err != nil {
		return nil, err
	}

	_, applySpan := trace.Start(ctx, trace.ScopePhase, "apply")
	defer applySpan.End("")
	for i := range outcomes {
		out, tgt := &outcomes[i], targets[i]
		if out.err != nil {
			tgt.rec.ClearAbstraction(tgt.slot)
			continue
		}
		if err := tgt.rec.SetAbstraction(tgt.slot, out.text, out.unit); err != nil {
			out.err = err
			out.bag.Add(diag.NewError(diag.DatasetDecode, jobs[i].name, err.Error()))
			tgt.rec.ClearAbstraction(tgt.slot)
			continue
		}
		if opts.Dump != nil {
			if err := writeDump(opts.Dump, jobs[i].name, jobs[i].src, out.text); err != nil {
				return nil, err
			}
		}
	}
	batchStats := collect(outcomes, bag)
	batchStats.Total += stats.Total
	batchStats.Failed += stats.Failed
	return &BatchResult{Stats: batchStats, Bag: bag}, nil
}

// RerenderDataset re-renders every stored symbol table of ds under
// opts.Categories. Bodies without a stored table are skipped.
func RerenderDataset(ctx context.Context, ds *dataset.Dataset, opts Options) (*BatchResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "rerender")
	defer span.End(fmt.Sprintf("%d records", len(ds.Records)))

	bag := diag.NewBag(opts.maxDiagnostics())
	var stats BatchStats
	for _, rec := range ds.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, slot := range rec.Present() {
			name := rec.UnitName(slot)
			unit, ok, err := rec.Unit(slot)
			if !ok {
				continue
			}
			stats.Total++
			if err != nil {
				bag.Add(diag.NewError(diag.DatasetDecode, name, err.Error()))
				stats.Failed++
				continue
			}
			src, _ := rec.Source(slot)
			text, err := Rerender(ctx, name, []byte(src), unit, opts.Categories)
			if err != nil {
				bag.Add(diag.NewError(codeFor(err), name, err.Error()))
				stats.Failed++
				continue
			}
			if err := rec.SetAbstraction(slot, text, unit); err != nil {
				bag.Add(diag.NewError(diag.DatasetDecode, name, err.Error()))
				stats.Failed++
				continue
			}
			stats.Succeeded++
			if opts.Dump != nil {
				if err := writeDump(opts.Dump, name, []byte(src), text); err != nil {
					return nil, err
				}
			}
		}
	}
	return &BatchResult{Stats: stats, Bag: bag}, nil
}
