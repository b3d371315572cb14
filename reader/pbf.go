package reader

import (
	"context"
	"io"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/pbf"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/omniscale/osmcsv/element"
)

// PBFReader reads nodes and ways from OSM PBF files. Relations are skipped.
// Blocks are decoded by a single parser goroutine and all nodes are returned
// before the first way, so elements are returned in file order for files
// sorted by type.
type PBFReader struct {
	nodes   chan []osm.Node
	ways    chan []osm.Way
	done    chan struct{}
	g       *errgroup.Group
	cancel  context.CancelFunc
	pending []*element.Element
	// inWays is set once all nodes before the first way were returned
	inWays bool
	closer io.Closer
}

func NewPBF(r io.Reader) *PBFReader {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	p := &PBFReader{
		nodes:  make(chan []osm.Node, 4),
		ways:   make(chan []osm.Way, 4),
		done:   make(chan struct{}),
		g:      g,
		cancel: cancel,
	}
	nodes := p.nodes
	parser := pbf.New(r, pbf.Config{
		IncludeMetadata: true,
		Nodes:           nodes,
		Ways:            p.ways,
		Concurrency:     1,
		// nil marks the end of all nodes before the first way. Also called
		// at the end of files without ways.
		OnFirstWay: func() {
			select {
			case nodes <- nil:
			case <-ctx.Done():
			}
		},
	})
	done := p.done
	g.Go(func() error {
		defer close(done)
		return parser.Parse(ctx)
	})
	return p
}

func (p *PBFReader) Next() (*element.Element, error) {
	for len(p.pending) == 0 {
		if p.nodes == nil && p.ways == nil {
			if err := p.g.Wait(); err != nil {
				return nil, errors.Wrap(err, "parsing PBF")
			}
			return nil, io.EOF
		}
		// ways are only read after the end of the nodes
		var ways chan []osm.Way
		if p.inWays {
			ways = p.ways
		}
		select {
		case nodes, ok := <-p.nodes:
			if !ok {
				p.nodes = nil
				p.inWays = true
				continue
			}
			if nodes == nil {
				p.inWays = true
				continue
			}
			for i := range nodes {
				p.pending = append(p.pending, nodeElement(&nodes[i]))
			}
		case ways, ok := <-ways:
			if !ok {
				p.ways = nil
				continue
			}
			for i := range ways {
				p.pending = append(p.pending, wayElement(&ways[i]))
			}
		case <-p.done:
			// parser returned; channels are only closed on success
			p.done = nil
			if err := p.g.Wait(); err != nil {
				return nil, errors.Wrap(err, "parsing PBF")
			}
		}
	}
	e := p.pending[0]
	p.pending[0] = nil
	p.pending = p.pending[1:]
	return e, nil
}

// Close stops the parser.
func (p *PBFReader) Close() error {
	p.cancel()
	drain(p.nodes)
	drain(p.ways)
	if p.closer != nil {
		return p.closer.Close()
	}
	return nil
}

func drain[T any](c chan T) {
	if c == nil {
		return
	}
	go func() {
		for range c {
		}
	}()
}
