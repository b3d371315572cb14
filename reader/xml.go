package reader

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/omniscale/osmcsv/element"
)

// SyntaxError is returned for malformed XML. Offset is the position in the
// uncompressed input.
type SyntaxError struct {
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed OSM XML near offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// XMLReader reads OSM XML (.osm) files element by element. Only the current
// element is kept in memory.
type XMLReader struct {
	decoder *xml.Decoder
	depth   int
	closer  io.Closer
}

// NewXML returns a reader for OSM XML. Documents in other encodings than
// UTF-8 are converted if the declared charset is known.
func NewXML(r io.Reader) *XMLReader {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charsetReader
	return &XMLReader{decoder: decoder}
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(label))
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported charset %q", label)
	}
	if enc == nil {
		return nil, errors.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Next returns the next child of the document root with all its direct
// children. Next returns io.EOF after the last element.
func (r *XMLReader) Next() (*element.Element, error) {
	var elem *element.Element
	for {
		token, err := r.decoder.Token()
		if err == io.EOF {
			if r.depth > 0 || elem != nil {
				return nil, &SyntaxError{Offset: r.decoder.InputOffset(), Err: io.ErrUnexpectedEOF}
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, &SyntaxError{Offset: r.decoder.InputOffset(), Err: err}
		}

		switch tok := token.(type) {
		case xml.StartElement:
			r.depth++
			switch r.depth {
			case 2:
				elem = &element.Element{Name: tok.Name.Local, Attrs: attrs(tok.Attr)}
			case 3:
				elem.Children = append(elem.Children, element.Child{Name: tok.Name.Local, Attrs: attrs(tok.Attr)})
			}
		case xml.EndElement:
			r.depth--
			if r.depth == 1 && elem != nil {
				return elem, nil
			}
		}
	}
}

func (r *XMLReader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func attrs(xmlAttrs []xml.Attr) element.Attrs {
	if len(xmlAttrs) == 0 {
		return nil
	}
	a := make(element.Attrs, len(xmlAttrs))
	for i, attr := range xmlAttrs {
		a[i] = element.Attr{Name: attr.Name.Local, Value: attr.Value}
	}
	return a
}
