package jsonavro

func (c *Converter) convertArray(in Input) (Result, error) {
	items, ok := in.Value.([]any)
	if !ok {
		return fail(in, in.Schema.Describe(), CodeTypeMismatch, nil, nil)
	}
	out := make([]any, 0, len(items))
	for _, it := range items {
		r, err := c.dispatch(in.call, Input{Field: in.Field, Schema: in.Schema.Items, Value: it, Path: in.Path, Speculative: in.Speculative})
		if err != nil {
			return Result{}, err
		}
		if r.Rejected {
			return Reject(in.Schema.Describe()), nil
		}
		out = append(out, r.Value)
	}
	return Accept(out), nil
}

func (c *Converter) convertMap(in Input) (Result, error) {
	m, ok := in.Value.(map[string]any)
	if !ok {
		return fail(in, in.Schema.Describe(), CodeTypeMismatch, nil, nil)
	}
	out := make(map[string]any, len(m))
	for _, k := range sortedKeys(m) {
		r, err := c.dispatch(in.call, Input{Field: in.Field, Schema: in.Schema.Values, Value: m[k], Path: in.Path, Speculative: in.Speculative})
		if err != nil {
			return Result{}, err
		}
		if r.Rejected {
			return Reject(in.Schema.Describe()), nil
		}
		out[k] = r.Value
	}
	return Accept(out), nil
}
