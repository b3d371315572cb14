/*
Package stats counts processed elements and reports the progress of a run.
*/
package stats

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/omniscale/osmcsv/log"
)

type Kind int

const (
	Read Kind = iota
	Points
	Paths
	Ignored
	Invalid
	numKinds
)

var kindNames = [numKinds]string{"read", "points", "paths", "ignored", "invalid"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Counters are safe for concurrent use.
type Counters struct {
	n     [numKinds]int64
	start time.Time
}

func NewCounters() *Counters {
	return &Counters{start: time.Now()}
}

func (c *Counters) Add(k Kind, n int) {
	atomic.AddInt64(&c.n[k], int64(n))
}

func (c *Counters) Value(k Kind) int64 {
	return atomic.LoadInt64(&c.n[k])
}

// Rps returns the average number of elements per second since the counters
// were created.
func (c *Counters) Rps(k Kind) float64 {
	secs := time.Since(c.start).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(c.Value(k)) / secs
}

func (c *Counters) String() string {
	return fmt.Sprintf("Elements: %7d/s (%10d) Points: %9d Paths: %8d Invalid: %6d",
		int64(c.Rps(Read)/100)*100,
		c.Value(Read),
		c.Value(Points),
		c.Value(Paths),
		c.Value(Invalid),
	)
}

// Report logs the counters every interval until ctx is done.
func (c *Counters) Report(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			log.Println("[progress]", c)
		}
	}
}

// Summary is the result of a complete run.
type Summary struct {
	Read    int64
	Points  int64
	Paths   int64
	Ignored int64
	Invalid int64
	// NoRule counts values kept as they were because no cleaning rule
	// matched.
	NoRule  int64
	Cleaned int64
	Rows    map[string]int64
}

func (c *Counters) Summary() Summary {
	return Summary{
		Read:    c.Value(Read),
		Points:  c.Value(Points),
		Paths:   c.Value(Paths),
		Ignored: c.Value(Ignored),
		Invalid: c.Value(Invalid),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf("read %d elements: %d points, %d paths, %d ignored, %d invalid; %d values cleaned, %d without rule",
		s.Read, s.Points, s.Paths, s.Ignored, s.Invalid, s.Cleaned, s.NoRule)
}
