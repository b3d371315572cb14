/*
Package pipeline converts all elements of a source into table rows.

Each element is shaped, optionally validated and then written to a Sink.
Elements that fail validation are logged and skipped. Errors of the source
and of the sink abort the run.
*/
package pipeline

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/omniscale/osmcsv/clean"
	"github.com/omniscale/osmcsv/element"
	"github.com/omniscale/osmcsv/log"
	"github.com/omniscale/osmcsv/reader"
	"github.com/omniscale/osmcsv/shape"
	"github.com/omniscale/osmcsv/stats"
	"github.com/omniscale/osmcsv/validate"
)

// Sink receives the records of all written elements in source order.
type Sink interface {
	WriteRecord(r *element.Record) error
}

type Options struct {
	Validate bool
	// Workers is the number of goroutines that shape and validate elements.
	// Output is the same for all values.
	Workers int
	// ProgressInterval is the interval of progress log lines. Zero disables
	// progress logging.
	ProgressInterval time.Duration
}

type Pipeline struct {
	opts     Options
	shaper   *shape.Shaper
	counters *stats.Counters
}

func New(c *clean.Cleaner, opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{
		opts:     opts,
		shaper:   shape.New(c),
		counters: stats.NewCounters(),
	}
}

// Run reads all elements from src and writes the records to sink.
func (p *Pipeline) Run(ctx context.Context, src reader.Source, sink Sink) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go p.counters.Report(ctx, p.opts.ProgressInterval)

	if p.opts.Workers > 1 {
		return p.runParallel(ctx, src, sink)
	}
	return p.runSequential(ctx, src, sink)
}

func (p *Pipeline) runSequential(ctx context.Context, src reader.Source, sink Sink) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading input")
		}
		p.counters.Add(stats.Read, 1)
		if r := p.process(e); r != nil {
			if err := sink.WriteRecord(r); err != nil {
				return errors.Wrapf(err, "writing %s %s", r.Kind(), r.ID())
			}
		}
	}
}

type job struct {
	seq int64
	e   *element.Element
}

type result struct {
	seq int64
	r   *element.Record
}

// runParallel shapes elements with multiple workers. Results are reordered
// by their sequence number before they are written.
func (p *Pipeline) runParallel(ctx context.Context, src reader.Source, sink Sink) error {
	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan job, p.opts.Workers*4)
	results := make(chan result, p.opts.Workers*4)

	g.Go(func() error {
		defer close(jobs)
		for seq := int64(0); ; seq++ {
			e, err := src.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return errors.Wrap(err, "reading input")
			}
			p.counters.Add(stats.Read, 1)
			select {
			case jobs <- job{seq, e}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < p.opts.Workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for j := range jobs {
				select {
				case results <- result{j.seq, p.process(j.e)}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	g.Go(func() error {
		pending := make(map[int64]*element.Record)
		var next int64
		for res := range results {
			pending[res.seq] = res.r
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++
				if r == nil {
					continue
				}
				if err := sink.WriteRecord(r); err != nil {
					return errors.Wrapf(err, "writing %s %s", r.Kind(), r.ID())
				}
			}
		}
		return nil
	})

	return g.Wait()
}

// process returns the record of e or nil if e is not written.
func (p *Pipeline) process(e *element.Element) *element.Record {
	r := p.shaper.Shape(e)
	if r == nil {
		p.counters.Add(stats.Ignored, 1)
		return nil
	}
	if p.opts.Validate {
		if err := validate.Record(r); err != nil {
			p.counters.Add(stats.Invalid, 1)
			log.Printf("[warn] skipping %s %s: %s", r.Kind(), r.ID(), err)
			return nil
		}
	}
	if r.Path != nil {
		p.counters.Add(stats.Paths, 1)
	} else {
		p.counters.Add(stats.Points, 1)
	}
	return r
}

// Summary returns the counts of the run so far.
func (p *Pipeline) Summary() stats.Summary {
	s := p.counters.Summary()
	s.NoRule = p.shaper.NoRule()
	s.Cleaned = p.shaper.Cleaned()
	return s
}
