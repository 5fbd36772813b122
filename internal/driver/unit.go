package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeabs/internal/abstract"
	"codeabs/internal/category"
	"codeabs/internal/diag"
	"codeabs/internal/lang"
	"codeabs/internal/syntax/tsparse"
	"codeabs/internal/trace"
	"codeabs/internal/ui"
)

// unitJob is one function body or file to abstract.
type unitJob struct {
	name string
	path string // used for language detection, may be empty
	lang lang.Kind
	src  []byte
}

// unitOutcome is what one job produced. Unit is nil when it failed.
type unitOutcome struct {
	lang    lang.Kind
	unit    *abstract.Unit
	text    string
	partial bool
	cached  bool
	err     error
	bag     *diag.Bag
}

func (o *unitOutcome) status() ui.Status {
	switch {
	case o.err != nil:
		return ui.StatusError
	case o.cached:
		return ui.StatusCached
	case o.partial:
		return ui.StatusPartial
	default:
		return ui.StatusDone
	}
}

func (o *unitOutcome) fail(code diag.Code, unit string, err error) {
	o.err = err
	o.bag.Add(diag.NewError(code, unit, err.Error()))
}

// resolveLang: the job's own tag, then the forced one, then detection.
func resolveLang(ctx context.Context, job unitJob, forced lang.Kind) lang.Kind {
	if job.lang != lang.Unknown {
		return job.lang
	}
	if forced != lang.Unknown {
		return forced
	}
	k, ev := lang.DetectEvidence(job.path, job.src)
	if ev != nil {
		trace.Point(ctx, trace.ScopeNode, "detect", ev.Summary())
	}
	return k
}

// runUnit parses, classifies and renders one job. Failures are reported into
// the outcome's bag and never returned as a Go error; only cancellation of ctx
// itself is.
func runUnit(ctx context.Context, p *tsparse.Parser, job unitJob, opts Options) (out unitOutcome) {
	out.bag = diag.NewBag(16)
	ctx, span := trace.Start(ctx, trace.ScopeUnit, job.name)
	defer func() {
		span.WithExtra("lang", out.lang.String())
		span.End(out.status().String())
	}()

	out.lang = resolveLang(ctx, job, opts.Lang)
	if out.lang.Policy() == nil {
		out.fail(diag.AbsUnknownLang, job.name, fmt.Errorf("cannot determine language of %q", job.name))
		return out
	}

	key := KeyFor(out.lang, job.src)
	if opts.Cache != nil {
		cached, ok, err := opts.Cache.Get(key)
		switch {
		case err != nil:
			out.bag.Add(diag.NewWarning(diag.CacheIO, job.name, err.Error()))
		case ok:
			out.unit, out.partial, out.cached = cached.Unit, cached.Partial, true
		}
	}

	if out.unit == nil {
		unit, partial, err := classifyUnit(ctx, p, out.lang, job, opts)
		if err != nil {
			out.fail(codeFor(err), job.name, err)
			return out
		}
		out.unit, out.partial = unit, partial
		if partial {
			out.bag.Add(diag.NewWarning(diag.ParsePartial, job.name, "parser recovered from syntax errors; unresolved regions are kept verbatim"))
		}
		if err := opts.Cache.Put(key, unit, partial); err != nil {
			out.bag.Add(diag.NewWarning(diag.CacheIO, job.name, err.Error()))
		}
	}

	text, err := renderUnit(ctx, job.src, out.unit, opts)
	if err != nil {
		out.fail(codeFor(err), job.name, err)
		out.unit = nil
		return out
	}
	out.text = text
	return out
}

// classifyUnit runs parse and classification under the per-unit timeout.
func classifyUnit(ctx context.Context, p *tsparse.Parser, k lang.Kind, job unitJob, opts Options) (*abstract.Unit, bool, error) {
	unitCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		unitCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	_, parseSpan := trace.Start(unitCtx, trace.ScopeNode, "parse")
	tree, err := p.Parse(unitCtx, k, job.src)
	parseSpan.End("")
	opts.Timer.Add("parse", time.Since(start))
	if err != nil {
		return nil, false, deadline(unitCtx, err)
	}
	defer tree.Close()

	start = time.Now()
	_, classifySpan := trace.Start(unitCtx, trace.ScopeNode, "classify")
	unit, err := abstract.ClassifyContext(unitCtx, job.src, tree.Root, k.Policy())
	classifySpan.End("")
	opts.Timer.Add("classify", time.Since(start))
	if err != nil {
		return nil, false, deadline(unitCtx, err)
	}
	return unit, tree.HasError(), nil
}

func renderUnit(ctx context.Context, src []byte, unit *abstract.Unit, opts Options) (string, error) {
	start := time.Now()
	_, span := trace.Start(ctx, trace.ScopeNode, "render")
	text, err := unit.Render(src, opts.Categories)
	span.End("")
	opts.Timer.Add("render", time.Since(start))
	return text, err
}

// errTimeout marks a unit that exceeded Options.Timeout.
var errTimeout = errors.New("unit timed out")

// deadline rewrites errors caused by the unit's own deadline.
func deadline(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", errTimeout, err)
	}
	return err
}

func codeFor(err error) diag.Code {
	switch {
	case errors.Is(err, errTimeout), errors.Is(err, context.DeadlineExceeded):
		return diag.AbsTimeout
	case errors.Is(err, tsparse.ErrUnsupported):
		return diag.ParseNoGrammar
	case errors.Is(err, abstract.ErrOverlap):
		return diag.AbsOverlap
	case errors.Is(err, abstract.ErrInconsistent):
		return diag.AbsInconsistent
	case errors.Is(err, category.ErrUnknownCategory):
		return diag.ConfigUnknownCategory
	default:
		return diag.ParseFailed
	}
}
