/*
Package writer writes shaped records as rows of the five output tables.
*/
package writer

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/omniscale/osmcsv/element"
)

// RowWriter receives the rows of a single table.
type RowWriter interface {
	WriteRow(row []string) error
}

// CSVWriter writes rows as CSV. Values are written as they are, UTF-8
// encoded.
type CSVWriter struct {
	w    *csv.Writer
	rows int64
}

// NewCSV returns a CSVWriter and writes the header with columns.
func NewCSV(w io.Writer, columns []string) (*CSVWriter, error) {
	c := &CSVWriter{w: csv.NewWriter(w)}
	if err := c.w.Write(columns); err != nil {
		return nil, errors.Wrap(err, "writing CSV header")
	}
	return c, nil
}

func (c *CSVWriter) WriteRow(row []string) error {
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.rows++
	return nil
}

// Rows returns the number of rows written, without header.
func (c *CSVWriter) Rows() int64 {
	return c.rows
}

func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// Tables routes records to the writers of each table.
type Tables struct {
	Nodes    RowWriter
	NodeTags RowWriter
	Ways     RowWriter
	WayNodes RowWriter
	WayTags  RowWriter
}

// WriteRecord writes all rows of r. The row of the node or way is written
// first, then node references and then tags.
func (t *Tables) WriteRecord(r *element.Record) error {
	if r.Point != nil {
		if err := t.Nodes.WriteRow(element.Row(r.Point.Fields())); err != nil {
			return errors.Wrap(err, "writing node")
		}
		return writeTags(t.NodeTags, r.Tags)
	}
	if r.Path != nil {
		if err := t.Ways.WriteRow(element.Row(r.Path.Fields())); err != nil {
			return errors.Wrap(err, "writing way")
		}
		for i := range r.Members {
			if err := t.WayNodes.WriteRow(element.Row(r.Members[i].Fields())); err != nil {
				return errors.Wrap(err, "writing way node")
			}
		}
		return writeTags(t.WayTags, r.Tags)
	}
	return nil
}

func writeTags(w RowWriter, tags []element.Tag) error {
	for i := range tags {
		if err := w.WriteRow(element.Row(tags[i].Fields())); err != nil {
			return errors.Wrap(err, "writing tag")
		}
	}
	return nil
}

// File names of the output tables.
const (
	NodesFile    = "nodes.csv"
	NodeTagsFile = "nodes_tags.csv"
	WaysFile     = "ways.csv"
	WayNodesFile = "ways_nodes.csv"
	WayTagsFile  = "ways_tags.csv"
)

// Files writes all tables into CSV files of a directory.
type Files struct {
	Tables
	files   []*os.File
	writers []*CSVWriter
}

// Create creates dir and the CSV files of all tables. Existing files are
// overwritten.
func Create(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}
	f := &Files{}
	tables := []struct {
		name    string
		columns []string
		dst     *RowWriter
	}{
		{NodesFile, element.PointColumns, &f.Nodes},
		{NodeTagsFile, element.TagColumns, &f.NodeTags},
		{WaysFile, element.PathColumns, &f.Ways},
		{WayNodesFile, element.MemberColumns, &f.WayNodes},
		{WayTagsFile, element.TagColumns, &f.WayTags},
	}
	for _, tbl := range tables {
		fh, err := os.Create(filepath.Join(dir, tbl.name))
		if err != nil {
			f.closeFiles()
			return nil, errors.Wrapf(err, "creating %s", tbl.name)
		}
		f.files = append(f.files, fh)
		w, err := NewCSV(fh, tbl.columns)
		if err != nil {
			f.closeFiles()
			return nil, errors.Wrapf(err, "creating %s", tbl.name)
		}
		f.writers = append(f.writers, w)
		*tbl.dst = w
	}
	return f, nil
}

func (f *Files) closeFiles() {
	for _, fh := range f.files {
		fh.Close()
	}
}

// Close flushes and closes all files and returns the first error.
func (f *Files) Close() error {
	var first error
	for i, w := range f.writers {
		if err := w.Flush(); err != nil && first == nil {
			first = errors.Wrapf(err, "writing %s", f.files[i].Name())
		}
	}
	for _, fh := range f.files {
		if err := fh.Close(); err != nil && first == nil {
			first = errors.Wrapf(err, "closing %s", fh.Name())
		}
	}
	return first
}

// Rows returns the number of rows written to each file, by file name.
func (f *Files) Rows() map[string]int64 {
	rows := make(map[string]int64, len(f.writers))
	for i, w := range f.writers {
		rows[filepath.Base(f.files[i].Name())] = w.Rows()
	}
	return rows
}
