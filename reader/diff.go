package reader

import (
	"context"
	"io"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/diff"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/omniscale/osmcsv/element"
)

// DiffReader reads created and modified nodes and ways from OSM change
// files (.osc). Deletes and relations are skipped.
type DiffReader struct {
	diffs   chan osm.Diff
	g       *errgroup.Group
	cancel  context.CancelFunc
	closer  io.Closer
	skipped int64
}

func NewDiff(r io.Reader) *DiffReader {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)
	d := &DiffReader{
		diffs:  make(chan osm.Diff, 64),
		g:      g,
		cancel: cancel,
	}
	parser := diff.New(r, diff.Config{
		IncludeMetadata: true,
		Diffs:           d.diffs,
	})
	g.Go(func() error {
		return parser.Parse(ctx)
	})
	return d
}

func (d *DiffReader) Next() (*element.Element, error) {
	for elem := range d.diffs {
		if elem.Delete {
			d.skipped++
			continue
		}
		switch {
		case elem.Node != nil:
			return nodeElement(elem.Node), nil
		case elem.Way != nil:
			return wayElement(elem.Way), nil
		}
		d.skipped++
	}
	if err := d.g.Wait(); err != nil {
		return nil, errors.Wrap(err, "parsing OSM change")
	}
	return nil, io.EOF
}

// Skipped returns the number of deletes and relations that were skipped.
func (d *DiffReader) Skipped() int64 {
	return d.skipped
}

func (d *DiffReader) Close() error {
	d.cancel()
	drain(d.diffs)
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}
