// Package pipeline sequences text acquisition, field extraction,
// completeness checking and routing into one result per document.
package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/fnolgest/internal/claim"
	"github.com/dgallion1/fnolgest/internal/extract"
	"github.com/dgallion1/fnolgest/internal/parser"
	"github.com/dgallion1/fnolgest/internal/route"
)

// Options configures a Processor.
type Options struct {
	// MaxDocumentBytes caps the raw size of a document. Zero means no limit.
	MaxDocumentBytes int64
	Parser           parser.Options
	// Cache, when set, memoizes results by source and text.
	Cache *Cache
	// Stats, when set, records latency and route counts.
	Stats *Stats
}

// FieldExtractor pulls claim fields out of plain text.
type FieldExtractor interface {
	Extract(text string) claim.Fields
}

// Processor runs the extraction-and-routing pipeline. It is safe for
// concurrent use.
type Processor struct {
	extractor FieldExtractor
	opts      Options
	log       *slog.Logger
}

// NewProcessor creates a Processor. A nil extractor selects the built-in
// rule table.
func NewProcessor(ex FieldExtractor, opts Options, log *slog.Logger) *Processor {
	if ex == nil {
		ex = extract.NewExtractor(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{extractor: ex, opts: opts, log: log}
}

// Stats returns the processor's stats recorder, if any.
func (p *Processor) Stats() *Stats {
	return p.opts.Stats
}

// Process runs the core pipeline over already-acquired text. Malformed
// text never fails; it yields absent fields and a manual review route.
// Only an internal fault returns an error, and that error is ErrProcessing.
// Cache hits are recorded in stats like any other processed document.
func (p *Processor) Process(source, text string) (res claim.Result, err error) {
	start := time.Now()
	if c := p.opts.Cache; c != nil {
		if cached, ok := c.Get(source, text); ok {
			if s := p.opts.Stats; s != nil {
				s.Record(time.Since(start), cached.Route)
			}
			return cached, nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("pipeline panic", "source", source, "panic", r)
			res, err = claim.Result{}, ErrProcessing
		}
	}()

	fields := p.extractor.Extract(text)
	missing := route.DetectMissing(fields)
	decision := route.Recommend(fields, missing)
	res = claim.NewResult(source, fields, missing, decision)

	elapsed := time.Since(start)
	if s := p.opts.Stats; s != nil {
		s.Record(elapsed, res.Route)
	}
	if c := p.opts.Cache; c != nil {
		c.Put(source, text, res)
	}
	p.log.Debug("processed document",
		"source", source,
		"route", res.Route,
		"missing", len(res.Missing),
		"inconsistencies", len(res.Fields.Inconsistencies),
		"duration", elapsed,
	)
	return res, nil
}

// ProcessDocument acquires text from r, using filename to pick a parser,
// and runs the core pipeline over it.
func (p *Processor) ProcessDocument(filename string, r io.Reader) (claim.Result, error) {
	text, err := p.Acquire(filename, r)
	if err != nil {
		return claim.Result{}, err
	}
	return p.Process(filename, text)
}

// Acquire reads and decodes a document into plain text. Every failure is
// an *AcquisitionError.
func (p *Processor) Acquire(filename string, r io.Reader) (string, error) {
	prs, err := parser.ForFile(filename, p.opts.Parser)
	if err != nil {
		return "", acquisitionErr(filename, ErrUnsupportedType, nil)
	}

	if limit := p.opts.MaxDocumentBytes; limit > 0 {
		data, err := io.ReadAll(io.LimitReader(r, limit+1))
		if err != nil {
			return "", acquisitionErr(filename, ErrUnreadable, err)
		}
		if int64(len(data)) > limit {
			return "", acquisitionErr(filename, ErrTooLarge, fmt.Errorf("exceeds %d bytes", limit))
		}
		r = bytes.NewReader(data)
	}

	doc, err := prs.Parse(r, filepath.Base(filename))
	if err != nil {
		return "", acquisitionErr(filename, ErrUnreadable, err)
	}
	return doc.Text(), nil
}

// ProcessFile processes a document on disk. The result's source is path.
func (p *Processor) ProcessFile(path string) (claim.Result, error) {
	f, err := openFile(path)
	if err != nil {
		return claim.Result{}, err
	}
	defer f.Close()

	text, err := p.Acquire(path, f)
	if err != nil {
		return claim.Result{}, err
	}
	return p.Process(path, text)
}

func openFile(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, acquisitionErr(path, ErrNotFound, nil)
	}
	if err != nil {
		return nil, acquisitionErr(path, ErrUnreadable, err)
	}
	if info.IsDir() {
		return nil, acquisitionErr(path, ErrUnsupportedType, errors.New("is a directory"))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, acquisitionErr(path, ErrUnreadable, err)
	}
	return f, nil
}
