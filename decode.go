package jsonavro

import (
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/reoring/jsonavro/avsc"
	eng "github.com/reoring/jsonavro/internal/engine"
	"github.com/reoring/jsonavro/internal/stream"
)

// DecodeJSON decodes one JSON document into a value tree: objects become
// map[string]any, arrays []any and numbers json.Number.
func DecodeJSON(data []byte, opt DecodeOpt) (any, error) {
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, Issues{{Code: CodeParseError, Message: "max bytes exceeded", Offset: opt.MaxBytes}}
	}
	if opt.Select != "" {
		res := gjson.GetBytes(data, opt.Select)
		if !res.Exists() {
			return nil, Issues{{Code: CodeParseError, Message: fmt.Sprintf("selector %q matched nothing", opt.Select), Offset: -1}}
		}
		data = []byte(res.Raw)
	}
	src := enforced(eng.NewBytes(data), opt)
	v, err := eng.Decode(src)
	if err != nil {
		return nil, toIssues(err)
	}
	if _, err := src.NextToken(); !errors.Is(err, io.EOF) {
		return nil, Issues{{Code: CodeParseError, Message: "unexpected data after top-level value", Offset: src.Location()}}
	}
	return v, nil
}

// DecodeStream decodes every document in r and hands each to fn in order.
// A top-level array yields one document per element; otherwise each
// concatenated top-level value is a document. Select is ignored.
func DecodeStream(r io.Reader, opt DecodeOpt, fn func(i int, doc any) error) error {
	src := enforced(eng.NewReader(r), opt)
	var fnErr error
	err := stream.Each(src, func(i int, sub eng.TokenSource) error {
		v, err := eng.Decode(sub)
		if err != nil {
			return toIssues(err)
		}
		if err := fn(i, v); err != nil {
			fnErr = err
			return err
		}
		return nil
	})
	if err != nil && fnErr == nil {
		return toIssues(err)
	}
	return err
}

// ConvertBytes decodes data with Options.Decode and converts it.
func (c *Converter) ConvertBytes(data []byte, s *avsc.Schema) (*Record, error) {
	v, err := DecodeJSON(data, c.opts.Decode)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, issue(CodeTypeMismatch, "", v, map[string]string{"field": "<root>", "expected": "object", "actual": jsonKind(v)})
	}
	return c.Convert(obj, s)
}

// ConvertReader converts every document in r (see DecodeStream) and calls
// fn with each record.
func (c *Converter) ConvertReader(r io.Reader, s *avsc.Schema, fn func(i int, rec *Record) error) error {
	return DecodeStream(r, c.opts.Decode, func(i int, doc any) error {
		obj, ok := doc.(map[string]any)
		if !ok {
			return issue(CodeTypeMismatch, "", doc, map[string]string{"field": "<root>", "expected": "object", "actual": jsonKind(doc)})
		}
		rec, err := c.Convert(obj, s)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		return fn(i, rec)
	})
}

func enforced(src eng.TokenSource, opt DecodeOpt) eng.TokenSource {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
	if opt.OnWarning != nil {
		eo.IssueSink = func(si eng.SimpleIssue) { opt.OnWarning(fromEngineIssue(si)) }
	}
	return eng.WrapWithEnforcement(src, eo)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssue(si eng.SimpleIssue) Issue {
	return Issue{Code: si.Code, Path: si.Path, Message: si.Message, Offset: si.Offset}
}

// toIssues maps decoder errors into Issues.
func toIssues(err error) error {
	var iss Issues
	if errors.As(err, &iss) {
		return err
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		it := fromEngineIssue(ie.SimpleIssue)
		it.Cause = err
		return Issues{it}
	}
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return Issues{{Code: CodeParseError, Message: err.Error(), Cause: err, Offset: -1}}
}
