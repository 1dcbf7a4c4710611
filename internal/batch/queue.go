package batch

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/agridocs/seed-intake/internal/entity"
)

// Acquirer extracts text content from one document.
type Acquirer interface {
	Acquire(ctx context.Context, doc entity.Document) (entity.Content, error)
}

// acquireResult pairs a document with its extraction outcome.
type acquireResult struct {
	doc     entity.Document
	content entity.Content
	err     error
}

// AcquireQueue fans document extraction out over a bounded worker
// pool. Extraction dominates batch wall time (OCR polling especially),
// while everything downstream is CPU-cheap regex work.
type AcquireQueue struct {
	acq     Acquirer
	logger  *slog.Logger
	workers int
	timeout time.Duration
}

type Option func(*AcquireQueue)

func WithWorkers(n int) Option {
	return func(q *AcquireQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithDocTimeout(d time.Duration) Option {
	return func(q *AcquireQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewAcquireQueue(acq Acquirer, logger *slog.Logger, opts ...Option) *AcquireQueue {
	q := &AcquireQueue{
		acq:     acq,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
	}
	if q.logger == nil {
		q.logger = slog.Default()
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

// AcquireAll extracts every document and returns contents keyed by
// filename alongside per-document errors. A failed document yields an
// error entry, never aborts the batch.
func (q *AcquireQueue) AcquireAll(ctx context.Context, docs []entity.Document) (map[string]entity.Content, map[string]error) {
	jobs := make(chan entity.Document)
	results := make(chan acquireResult, len(docs))

	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for doc := range jobs {
				dctx, cancel := context.WithTimeout(ctx, q.timeout)
				content, err := q.acq.Acquire(dctx, doc)
				cancel()

				if err != nil {
					q.logger.Error("batch.acquire.failed", "worker_id", workerID, "filename", doc.Name, "error", err)
				} else {
					q.logger.Info("batch.acquire.ok", "worker_id", workerID, "filename", doc.Name,
						"method", content.Method, "pages", content.Pages)
				}
				results <- acquireResult{doc: doc, content: content, err: err}
			}
		}(i + 1)
	}

	go func() {
		defer close(jobs)
		for _, doc := range docs {
			select {
			case jobs <- doc:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	contents := make(map[string]entity.Content, len(docs))
	errs := make(map[string]error)
	for r := range results {
		if r.err != nil {
			errs[r.doc.Name] = r.err
			continue
		}
		contents[r.doc.Name] = r.content
	}
	return contents, errs
}
