package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/fnolgest/internal/claim"
	"github.com/dgallion1/fnolgest/internal/parser"
)

// Source is one document awaiting processing.
type Source struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileSource returns a Source reading path from disk.
func FileSource(path string) Source {
	return Source{
		Name: path,
		Open: func() (io.ReadCloser, error) { return openFile(path) },
	}
}

// Outcome is the result of one Source in a batch. Exactly one of Result
// and Err is meaningful.
type Outcome struct {
	Source string
	Result claim.Result
	Err    error
}

// ProcessBatch processes sources with at most workers running at once.
// Outcomes are returned in input order. A failing source does not stop
// the others; cancelling ctx marks unstarted sources with ctx.Err().
func (p *Processor) ProcessBatch(ctx context.Context, sources []Source, workers int) []Outcome {
	out := make([]Outcome, len(sources))
	if workers <= 0 {
		workers = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			out[i] = p.processSource(gCtx, src)
			return nil
		})
	}
	_ = g.Wait() // errors captured per outcome

	return out
}

func (p *Processor) processSource(ctx context.Context, src Source) Outcome {
	o := Outcome{Source: src.Name}
	if err := ctx.Err(); err != nil {
		o.Err = err
		return o
	}

	rc, err := src.Open()
	if err != nil {
		if IsAcquisition(err) {
			o.Err = err
		} else {
			o.Err = acquisitionErr(src.Name, ErrUnreadable, err)
		}
		return o
	}
	defer rc.Close()

	text, err := p.Acquire(src.Name, rc)
	if err != nil {
		o.Err = err
		return o
	}
	o.Result, o.Err = p.Process(src.Name, text)
	return o
}

// FirstError returns the first failed outcome's error in input order.
func FirstError(outcomes []Outcome) error {
	for _, o := range outcomes {
		if o.Err != nil {
			return o.Err
		}
	}
	return nil
}

// GatherFiles expands path into the documents to process. A directory
// yields its supported files in lexical order, without recursing; any
// other path is returned as is.
func GatherFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, acquisitionErr(path, ErrNotFound, nil)
		}
		return nil, acquisitionErr(path, ErrUnreadable, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, acquisitionErr(path, ErrUnreadable, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no supported files found in %s", path)
	}
	return files, nil
}
