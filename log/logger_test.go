package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestFilterLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf)
	defer SetOutput(os.Stderr)
	SetMinLevel(LWarn)
	defer SetMinLevel(LProgress)

	Printf("[info] hidden")
	Printf("[debug] hidden")
	Printf("[warn] shown %d", 1)
	Printf("[error] shown %d", 2)
	Println("no level")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("filtered line in output: %q", out)
	}
	for _, want := range []string{"[warn] shown 1", "[error] shown 2", "no level"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q missing in output: %q", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if lvl, ok := ParseLevel("debug"); !ok || lvl != LDebug {
		t.Error(lvl, ok)
	}
	if _, ok := ParseLevel("verbose"); ok {
		t.Error("unknown level parsed")
	}
}
