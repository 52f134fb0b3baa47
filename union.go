package jsonavro

import (
	"strings"
)

// convertUnion tries the branches in declared order and keeps the first one
// that accepts the value. Every branch runs speculatively: leaf mismatches
// come back as rejections and composite errors (nested records and the like)
// count as rejections too, so the failure hook stays out of the trial. Actions
// queued by a rejected branch are dropped.
func (c *Converter) convertUnion(in Input) (Result, error) {
	expected := make([]string, 0, len(in.Schema.Branches))
	for _, b := range in.Schema.Branches {
		mark := in.call.mark()
		in.call.trials++
		r, err := c.dispatch(in.call, Input{Field: in.Field, Schema: b, Value: in.Value, Path: in.Path, Speculative: true})
		in.call.trials--
		if err != nil {
			if HasCode(err, CodeUnsupportedType) {
				return Result{}, err
			}
			in.call.rollback(mark)
			expected = append(expected, b.Describe())
			continue
		}
		if r.Rejected {
			in.call.rollback(mark)
			expected = append(expected, r.Expected)
			continue
		}
		return Accept(r.Value), nil
	}
	joined := strings.Join(expected, ", ")
	if in.Speculative {
		return Reject(in.Schema.Describe()), nil
	}
	return fail(in, joined, CodeUnionExhausted, map[string]string{"expected": joined}, nil)
}
