/*
Package reader provides element sources for OSM files.

All readers return one top-level element at a time with Next and io.EOF
after the last element. Supported are OSM XML (.osm, optionally gzip
compressed), PBF (.osm.pbf) and OSM change files (.osc, .osc.gz).
*/
package reader

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/element"
)

// Source returns elements of an OSM file in file order.
type Source interface {
	Next() (*element.Element, error)
	Close() error
}

type Format string

const (
	FormatAuto Format = "auto"
	FormatXML  Format = "xml"
	FormatPBF  Format = "pbf"
	FormatOSC  Format = "osc"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatXML, FormatPBF, FormatOSC:
		return f, nil
	}
	return "", errors.Errorf("unknown input format %q", s)
}

// DetectFormat returns the format for a file name.
func DetectFormat(filename string) Format {
	name := strings.TrimSuffix(strings.ToLower(filename), ".gz")
	switch {
	case strings.HasSuffix(name, ".pbf"):
		return FormatPBF
	case strings.HasSuffix(name, ".osc"):
		return FormatOSC
	}
	return FormatXML
}

// Open returns a Source for filename. Use "-" to read from stdin.
// Files ending with .gz are decompressed.
func Open(filename string, format Format) (Source, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(filename)
	}

	var f io.ReadCloser
	if filename == "-" {
		f = io.NopCloser(os.Stdin)
	} else {
		var err error
		f, err = os.Open(filename)
		if err != nil {
			return nil, errors.Wrap(err, "opening input")
		}
	}

	var r io.Reader = bufio.NewReaderSize(f, 64*1024)
	if strings.HasSuffix(strings.ToLower(filename), ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "reading gzip input %s", filename)
		}
		r = gz
	}

	switch format {
	case FormatPBF:
		p := NewPBF(r)
		p.closer = f
		return p, nil
	case FormatOSC:
		d := NewDiff(r)
		d.closer = f
		return d, nil
	}
	x := NewXML(r)
	x.closer = f
	return x, nil
}
