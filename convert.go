package jsonavro

import (
	"github.com/reoring/jsonavro/avsc"
)

// Convert converts a JSON object into a record of schema s. Actions queued
// by the failure listener run on the built record before it is returned.
func (c *Converter) Convert(doc map[string]any, s *avsc.Schema) (*Record, error) {
	rec, actions, err := c.ConvertDeferred(doc, s)
	if err != nil {
		return nil, err
	}
	return RunActions(rec, actions)
}

// ConvertDeferred is like Convert but returns the queued actions instead of
// running them. The slice is owned by the caller.
func (c *Converter) ConvertDeferred(doc map[string]any, s *avsc.Schema) (*Record, []PostAction, error) {
	if s == nil || s.Type != avsc.Record {
		desc := "<nil>"
		if s != nil {
			desc = s.Describe()
		}
		return nil, nil, issue(CodeUnsupportedType, "", doc, map[string]string{"field": "<root>", "expected": desc})
	}
	cl := &call{}
	in := Input{Schema: s, Value: doc, conv: c, call: cl}
	rec, err := c.convertRecord(in, doc)
	if err != nil {
		return nil, nil, err
	}
	return rec, cl.actions, nil
}

// RunActions applies actions to rec in order.
func RunActions(rec *Record, actions []PostAction) (*Record, error) {
	for _, a := range actions {
		out, err := a(rec)
		if err != nil {
			return nil, err
		}
		if out != nil {
			rec = out
		}
	}
	return rec, nil
}

// ConvertValue converts a single JSON value against any schema node, e.g.
// an array or a union, reporting errors under the given field name.
func (c *Converter) ConvertValue(field string, s *avsc.Schema, v any) (any, error) {
	cl := &call{}
	r, err := c.dispatch(cl, Input{Field: field, Schema: s, Value: v})
	if err != nil {
		return nil, err
	}
	return r.Value, nil
}

func (c *Converter) convertRecordValue(in Input) (Result, error) {
	obj, ok := in.Value.(map[string]any)
	if !ok {
		return fail(in, in.Schema.Describe(), CodeTypeMismatch, nil, nil)
	}
	rec, err := c.convertRecord(in, obj)
	if err != nil {
		return Result{}, err
	}
	return Accept(rec), nil
}

// convertRecord walks the JSON object in key order. Each key either feeds
// the additional properties, is converted into its declared field, or is
// reported to the unknown-field listener. Null values are skipped so that
// the field keeps its default. Two keys naming the same field after the
// name transform are a duplicate_key issue.
func (c *Converter) convertRecord(in Input, obj map[string]any) (*Record, error) {
	s := in.Schema
	b := NewRecordBuilder(s)
	extras := extraProps{}
	catchAll, hasCatchAll := s.Field(c.opts.ExtraPropsField)

	for _, key := range sortedKeys(obj) {
		v := obj[key]
		if v == nil {
			continue
		}
		name := c.opts.NameTransform(key)
		if c.extraSources[name] {
			if m, ok := v.(map[string]any); ok {
				if err := extras.merge(m, in.Path); err != nil {
					return nil, err
				}
				continue
			}
		}
		if f, ok := s.Field(name); ok {
			if b.Has(f.Name) {
				return nil, issue(CodeDuplicateKey, in.Path.Enter(key).String(), v, map[string]string{"field": f.Name, "key": key})
			}
			val, err := c.convertField(in, f, key, v)
			if err != nil {
				return nil, err
			}
			b.Set(f.Name, val)
			continue
		}
		if hasCatchAll {
			if err := extras.put(name, v, in.Path); err != nil {
				return nil, err
			}
			continue
		}
		if err := c.opts.UnknownField.OnUnknownField(key, v, in.Path.Enter(key).String()); err != nil {
			return nil, err
		}
	}

	if len(extras) > 0 && hasCatchAll {
		r, err := c.dispatch(in.call, Input{Field: catchAll.Name, Schema: catchAll.Type, Value: map[string]any(extras), Path: in.Path})
		if err != nil {
			return nil, err
		}
		b.Set(catchAll.Name, r.Value)
	}
	return b.build(c, in.Path)
}

// convertField converts one declared field, handing failures to the
// failure listener when one is configured.
func (c *Converter) convertField(in Input, f *avsc.Field, key string, v any) (any, error) {
	r, err := c.dispatch(in.call, Input{Field: f.Name, Schema: f.Type, Value: v, Path: in.Path})
	if err == nil {
		return r.Value, nil
	}
	if c.opts.OnFieldFailure == nil || in.call.trials > 0 || HasCode(err, CodeUnsupportedType) {
		return nil, err
	}
	ff := &FieldFailure{
		Field:    f.Name,
		Original: key,
		Schema:   f.Type,
		Value:    v,
		Path:     in.Path.Enter(f.Name).String(),
		Err:      err,
		call:     in.call,
	}
	return c.opts.OnFieldFailure.OnFieldFailure(ff)
}
