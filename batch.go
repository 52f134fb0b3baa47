package jsonavro

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/reoring/jsonavro/avsc"
)

// ConvertAll converts docs concurrently with at most limit conversions in
// flight (limit <= 0 means no limit). The result keeps the order of docs.
// The first error cancels the remaining work and is returned.
func (c *Converter) ConvertAll(ctx context.Context, docs []map[string]any, s *avsc.Schema, limit int) ([]*Record, error) {
	out := make([]*Record, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := c.Convert(doc, s)
			if err != nil {
				return err
			}
			out[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
