// Package stream splits a token stream into independent documents.
package stream

import (
	"errors"
	"io"

	eng "github.com/reoring/jsonavro/internal/engine"
)

// Subtree is a TokenSource limited to the single value that starts with the
// first token it was constructed with. It returns io.EOF once that value is
// complete.
type Subtree struct {
	inner eng.TokenSource
	first *eng.Token
	depth int
	done  bool
}

// NewSubtree returns a view over the value that begins with first.
func NewSubtree(inner eng.TokenSource, first eng.Token) *Subtree {
	return &Subtree{inner: inner, first: &first}
}

func (s *Subtree) NextToken() (eng.Token, error) {
	if s.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if s.first != nil {
		tok, s.first = *s.first, nil
	} else {
		var err error
		if tok, err = s.inner.NextToken(); err != nil {
			return eng.Token{}, err
		}
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		s.depth++
	case eng.KindEndObject, eng.KindEndArray:
		s.depth--
	}
	if s.depth <= 0 && tok.Kind != eng.KindKey {
		s.done = true
	}
	return tok, nil
}

// Drain consumes whatever remains of the subtree.
func (s *Subtree) Drain() error {
	for {
		if _, err := s.NextToken(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (s *Subtree) Location() int64 { return s.inner.Location() }

// Each calls fn for every document in src. A top-level array contributes
// one document per element; any other top-level value is one document.
// Concatenated top-level values are processed in order.
func Each(src eng.TokenSource, fn func(i int, doc eng.TokenSource) error) error {
	i := 0
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if tok.Kind != eng.KindBeginArray {
			if err := visit(src, tok, i, fn); err != nil {
				return err
			}
			i++
			continue
		}
		for {
			et, err := src.NextToken()
			if err != nil {
				return err
			}
			if et.Kind == eng.KindEndArray {
				break
			}
			if err := visit(src, et, i, fn); err != nil {
				return err
			}
			i++
		}
	}
}

func visit(src eng.TokenSource, first eng.Token, i int, fn func(int, eng.TokenSource) error) error {
	sub := NewSubtree(src, first)
	if err := fn(i, sub); err != nil {
		return err
	}
	return sub.Drain()
}
