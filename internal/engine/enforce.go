package engine

import (
	"strconv"
)

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota
	DupWarn
	DupError
)

// SimpleIssue is a lightweight issue produced while reading tokens.
type SimpleIssue struct {
	Code    string
	Path    string
	Message string
	Offset  int64
}

// IssueError is an error carrying a SimpleIssue.
type IssueError struct{ SimpleIssue }

func (e IssueError) Error() string { return e.SimpleIssue.Message }

// EnforceOptions controls runtime enforcement.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	MaxDepth    int
	MaxBytes    int64
	// IssueSink receives non-fatal issues (duplicate keys under DupWarn).
	IssueSink func(SimpleIssue)
}

type enforceFrame struct {
	kind       containerKind
	keys       map[string]struct{}
	path       string
	pendingKey string
	nextIndex  int
}

// WrapWithEnforcement returns a TokenSource that enforces the duplicate key
// policy, the maximum nesting depth and the maximum number of consumed bytes.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingSource{inner: inner, opt: opt}
}

type enforcingSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []enforceFrame
}

func (e *enforcingSource) fail(code, path, msg string, off int64) error {
	return IssueError{SimpleIssue{Code: code, Path: path, Message: msg, Offset: off}}
}

func (e *enforcingSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}
	if e.opt.MaxBytes > 0 && e.inner.Location() > e.opt.MaxBytes {
		return Token{}, e.fail("parse_error", e.valuePath(false), "max bytes exceeded", tok.Offset)
	}
	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath(true)
		f := enforceFrame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f.kind, f.keys = kindObject, map[string]struct{}{}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, e.fail("parse_error", path, "max depth exceeded", tok.Offset)
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			top.pendingKey = tok.String
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate != DupIgnore {
				si := SimpleIssue{Code: "duplicate_key", Path: joinPath(top.path, tok.String), Message: "key '" + tok.String + "' duplicated", Offset: tok.Offset}
				if e.opt.OnDuplicate == DupError {
					return Token{}, IssueError{si}
				}
				if e.opt.IssueSink != nil {
					e.opt.IssueSink(si)
				}
			}
			top.keys[tok.String] = struct{}{}
		}
	default:
		e.valuePath(true)
	}
	return tok, nil
}

// valuePath returns the path of the value about to be read; advance moves
// the array index forward.
func (e *enforcingSource) valuePath(advance bool) string {
	n := len(e.stack)
	if n == 0 {
		return ""
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		p := top.path + "[" + strconv.Itoa(top.nextIndex) + "]"
		if advance {
			top.nextIndex++
		}
		return p
	}
	return joinPath(top.path, top.pendingKey)
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func (e *enforcingSource) Location() int64 { return e.inner.Location() }
