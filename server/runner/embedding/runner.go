// Package embedding keeps the FAQ corpus embedded for semantic search.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neurosphere-lab/lumi/plugin/ai"
	"github.com/neurosphere-lab/lumi/store"
)

type Runner struct {
	store            *store.Store
	embeddingService ai.EmbeddingService
	interval         time.Duration
	batchSize        int
	model            string
}

// NewRunner creates the FAQ embedding runner.
func NewRunner(store *store.Store, embeddingService ai.EmbeddingService, model string) *Runner {
	return &Runner{
		store:            store,
		embeddingService: embeddingService,
		interval:         2 * time.Minute,
		batchSize:        8,
		model:            model,
	}
}

// Run starts the background task.
func (r *Runner) Run(ctx context.Context) {
	// Process once on startup
	r.processPendingFAQs(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.processPendingFAQs(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce processes pending entries once (for manual trigger).
func (r *Runner) RunOnce(ctx context.Context) {
	r.processPendingFAQs(ctx)
}

func (r *Runner) processPendingFAQs(ctx context.Context) {
	faqs, err := r.store.FindFAQsWithoutEmbedding(ctx, r.batchSize*20)
	if err != nil {
		slog.Error("failed to find faqs without embedding", "error", err)
		return
	}
	if len(faqs) == 0 {
		return
	}

	slog.Info("processing faqs for embedding", "count", len(faqs))

	for i := 0; i < len(faqs); i += r.batchSize {
		select {
		case <-ctx.Done():
			slog.Info("embedding processing cancelled", "processed", i, "total", len(faqs))
			return
		default:
		}

		end := i + r.batchSize
		if end > len(faqs) {
			end = len(faqs)
		}
		batch := faqs[i:end]

		if err := r.processBatch(ctx, batch); err != nil {
			slog.Error("failed to process batch", "error", err)
			continue
		}
		slog.Info("batch processed", "count", len(batch), "progress", fmt.Sprintf("%d/%d", end, len(faqs)))
	}
}

func (r *Runner) processBatch(ctx context.Context, faqs []*store.FAQ) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	for _, faq := range faqs {
		// Question and answer embedded together so either side of the
		// pair can match a query.
		vector, err := r.embeddingService.Embedding(ctx, embeddingText(faq))
		if err != nil {
			return err
		}
		if err := r.store.UpsertFAQEmbedding(ctx, &store.FAQEmbedding{
			FAQID:     faq.ID,
			Embedding: vector,
			Model:     r.model,
			UpdatedTs: time.Now().Unix(),
		}); err != nil {
			slog.Error("failed to upsert embedding", "faqID", faq.ID, "error", err)
		}
	}
	return nil
}

func embeddingText(faq *store.FAQ) string {
	return faq.Question + "\n" + faq.Answer
}
