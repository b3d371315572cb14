package stats

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/omniscale/osmcsv/log"
)

func TestCounters(t *testing.T) {
	c := NewCounters()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Add(Read, 1)
			}
			c.Add(Points, 10)
		}()
	}
	wg.Wait()
	c.Add(Invalid, 2)

	s := c.Summary()
	if s.Read != 800 || s.Points != 80 || s.Invalid != 2 || s.Paths != 0 {
		t.Errorf("unexpected summary %+v", s)
	}
	if !strings.Contains(s.String(), "read 800 elements") {
		t.Error(s.String())
	}
}

func TestKindString(t *testing.T) {
	if Paths.String() != "paths" {
		t.Error(Paths.String())
	}
	if Kind(42).String() != "Kind(42)" {
		t.Error(Kind(42).String())
	}
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestReport(t *testing.T) {
	buf := &syncBuffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	c := NewCounters()
	c.Add(Read, 5)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Report(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	if !strings.Contains(buf.String(), "[progress]") {
		t.Errorf("no progress logged: %q", buf.String())
	}
}

func TestReportDisabled(t *testing.T) {
	// returns immediately
	NewCounters().Report(context.Background(), 0)
}
