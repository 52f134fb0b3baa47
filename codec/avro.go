// Package codec connects converted records to Avro encoders: binary and
// textual Avro through goavro, object container files, and the reverse
// record to plain JSON direction.
package codec

import (
	"fmt"
	"io"

	"github.com/linkedin/goavro/v2"

	jsonavro "github.com/reoring/jsonavro"
	"github.com/reoring/jsonavro/avsc"
)

// Compression names accepted by WriteContainer.
const (
	CompressionNull    = goavro.CompressionNullLabel
	CompressionDeflate = goavro.CompressionDeflateLabel
	CompressionSnappy  = goavro.CompressionSnappyLabel
)

// Avro encodes and decodes Records of one record schema.
type Avro struct {
	schema *avsc.Schema
	codec  *goavro.Codec
}

// NewAvro parses an Avro schema document and prepares a codec for it.
func NewAvro(schemaJSON []byte) (*Avro, error) {
	s, err := avsc.Parse(schemaJSON)
	if err != nil {
		return nil, err
	}
	return ForSchema(s)
}

// ForSchema prepares a codec for an already parsed record schema.
func ForSchema(s *avsc.Schema) (*Avro, error) {
	if s.Type != avsc.Record {
		return nil, fmt.Errorf("codec: schema must be a record, got %s", s.Describe())
	}
	text, err := s.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("codec: render schema: %w", err)
	}
	c, err := goavro.NewCodec(string(text))
	if err != nil {
		return nil, fmt.Errorf("codec: %w", err)
	}
	return &Avro{schema: s, codec: c}, nil
}

// Schema returns the record schema.
func (a *Avro) Schema() *avsc.Schema { return a.schema }

// Native returns rec in goavro's native form.
func (a *Avro) Native(rec *jsonavro.Record) (map[string]any, error) {
	if rec.Schema().Name != a.schema.Name {
		return nil, fmt.Errorf("codec: record %s does not match schema %s", rec.Schema().Name, a.schema.Name)
	}
	return recordNative(rec, jsonavro.RootPath)
}

// Binary encodes rec in the Avro binary encoding.
func (a *Avro) Binary(rec *jsonavro.Record) ([]byte, error) {
	n, err := a.Native(rec)
	if err != nil {
		return nil, err
	}
	out, err := a.codec.BinaryFromNative(nil, n)
	if err != nil {
		return nil, fmt.Errorf("codec: binary: %w", err)
	}
	return out, nil
}

// Textual encodes rec in the Avro JSON encoding, with union values wrapped
// in a single-key object naming the branch.
func (a *Avro) Textual(rec *jsonavro.Record) ([]byte, error) {
	n, err := a.Native(rec)
	if err != nil {
		return nil, err
	}
	out, err := a.codec.TextualFromNative(nil, n)
	if err != nil {
		return nil, fmt.Errorf("codec: textual: %w", err)
	}
	return out, nil
}

// Decode reads one binary-encoded record. Trailing bytes are an error.
func (a *Avro) Decode(bin []byte) (*jsonavro.Record, error) {
	n, rest, err := a.codec.NativeFromBinary(bin)
	if err != nil {
		return nil, fmt.Errorf("codec: decode: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("codec: decode: %d trailing bytes", len(rest))
	}
	return a.fromNative(n)
}

// DecodeTextual reads one record in the Avro JSON encoding.
func (a *Avro) DecodeTextual(text []byte) (*jsonavro.Record, error) {
	n, _, err := a.codec.NativeFromTextual(text)
	if err != nil {
		return nil, fmt.Errorf("codec: decode textual: %w", err)
	}
	return a.fromNative(n)
}

func (a *Avro) fromNative(n any) (*jsonavro.Record, error) {
	v, err := fromNative(a.schema, n, jsonavro.RootPath)
	if err != nil {
		return nil, err
	}
	return v.(*jsonavro.Record), nil
}

// WriteContainer writes recs as an Avro object container file.
// compression is one of the Compression names; empty means none.
func (a *Avro) WriteContainer(w io.Writer, compression string, recs ...*jsonavro.Record) error {
	ow, err := goavro.NewOCFWriter(goavro.OCFConfig{W: w, Codec: a.codec, CompressionName: compression})
	if err != nil {
		return fmt.Errorf("codec: container: %w", err)
	}
	batch := make([]any, 0, len(recs))
	for _, rec := range recs {
		n, err := a.Native(rec)
		if err != nil {
			return err
		}
		batch = append(batch, n)
	}
	if err := ow.Append(batch); err != nil {
		return fmt.Errorf("codec: container: %w", err)
	}
	return nil
}

// ReadContainer reads an object container file written with this schema and
// calls fn for each record in order.
func (a *Avro) ReadContainer(r io.Reader, fn func(i int, rec *jsonavro.Record) error) error {
	or, err := goavro.NewOCFReader(r)
	if err != nil {
		return fmt.Errorf("codec: container: %w", err)
	}
	for i := 0; or.Scan(); i++ {
		n, err := or.Read()
		if err != nil {
			return fmt.Errorf("codec: container record %d: %w", i, err)
		}
		rec, err := a.fromNative(n)
		if err != nil {
			return fmt.Errorf("codec: container record %d: %w", i, err)
		}
		if err := fn(i, rec); err != nil {
			return err
		}
	}
	return or.Err()
}
