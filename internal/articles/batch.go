// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package articles

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// batchChunkSize is how many articles are saved concurrently.
const batchChunkSize = 10

// BatchStatus is the outcome of saving one article in a batch.
type BatchStatus string

const (
	BatchSuccess BatchStatus = "success"
	BatchError   BatchStatus = "error"
)

// BatchResult reports the outcome for one article of a batch.
type BatchResult struct {
	Title  string      `json:"title"`
	Status BatchStatus `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// SaveBatch saves every selected article, ten at a time. A failure is
// recorded against its article and never stops the others. Results follow
// the order of the selected articles.
func (s *Service) SaveBatch(ctx context.Context, batch []GeneratedArticle, publish bool) []BatchResult {
	selected := make([]GeneratedArticle, 0, len(batch))
	for _, a := range batch {
		if a.Selected == nil || *a.Selected {
			selected = append(selected, a)
		}
	}

	results := make([]BatchResult, len(selected))
	for start := 0; start < len(selected); start += batchChunkSize {
		end := min(start+batchChunkSize, len(selected))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				a := selected[i]
				results[i] = BatchResult{Title: a.Title, Status: BatchSuccess}
				if _, err := s.SaveGenerated(ctx, a, publish); err != nil {
					results[i].Status = BatchError
					results[i].Error = err.Error()
				}
				return nil
			})
		}
		g.Wait()
	}
	return results
}
