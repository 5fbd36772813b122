package driver

import (
	"context"
	"fmt"

	"codeabs/internal/abstract"
	"codeabs/internal/category"
	"codeabs/internal/diag"
	"codeabs/internal/lang"
	"codeabs/internal/source"
	"codeabs/internal/syntax/tsparse"
	"codeabs/internal/trace"
	"codeabs/internal/ui"
)

// FileResult is the abstraction of one file or in-memory source.
type FileResult struct {
	Path    string
	Lang    lang.Kind
	File    *source.File
	Unit    *abstract.Unit
	Text    string
	Partial bool
	Cached  bool
	Bag     *diag.Bag
}

// Failed reports that no abstraction was produced.
func (r *FileResult) Failed() bool {
	return r == nil || r.Unit == nil
}

// AbstractFile loads path (stripping a byte order mark) and abstracts it.
// The returned error is non-nil when the file could not be abstracted; the
// result still carries its diagnostics.
func AbstractFile(ctx context.Context, path string, opts Options) (*FileResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "abstract")
	defer span.End(path)

	fs := source.NewFileSet()
	_, loadSpan := trace.Start(ctx, trace.ScopePhase, "load")
	id, err := fs.Load(path)
	loadSpan.End("")
	if err != nil {
		bag := diag.NewBag(opts.maxDiagnostics())
		bag.Add(diag.NewError(diag.IOLoadFile, path, err.Error()))
		return &FileResult{Path: path, Bag: bag}, err
	}
	return abstractLoaded(ctx, fs.Get(id), opts)
}

// AbstractSource abstracts in-memory content such as stdin. name is used for
// diagnostics and, when opts.Lang is Unknown, for language detection.
func AbstractSource(ctx context.Context, name string, src []byte, opts Options) (*FileResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "abstract")
	defer span.End(name)

	fs := source.NewFileSet()
	id := fs.AddVirtual(name, src)
	return abstractLoaded(ctx, fs.Get(id), opts)
}

func abstractLoaded(ctx context.Context, file *source.File, opts Options) (*FileResult, error) {
	p := tsparse.NewParser()
	defer p.Close()

	job := unitJob{name: file.Path, path: file.Path, src: file.Content}
	opts.progress(job.name, ui.StatusWorking, "")
	out := runUnit(ctx, p, job, opts)
	opts.progress(job.name, out.status(), "")

	res := &FileResult{
		Path:    file.Path,
		Lang:    out.lang,
		File:    file,
		Unit:    out.unit,
		Text:    out.text,
		Partial: out.partial,
		Cached:  out.cached,
		Bag:     diag.NewBag(opts.maxDiagnostics()),
	}
	res.Bag.Merge(out.bag)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if out.err != nil {
		return res, fmt.Errorf("%s: %w", file.Path, out.err)
	}
	if opts.Dump != nil {
		if err := writeDump(opts.Dump, file.Path, file.Content, out.text); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Rerender renders a stored unit under cfg without re-parsing src.
func Rerender(ctx context.Context, name string, src []byte, unit *abstract.Unit, cfg category.Config) (string, error) {
	_, span := trace.Start(ctx, trace.ScopeUnit, name)
	text, err := unit.Render(src, cfg)
	if err != nil {
		span.End("error")
		return "", fmt.Errorf("%s: %w", name, err)
	}
	span.End(cfg.String())
	return text, nil
}
