package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

func (d *DB) CreateFAQ(ctx context.Context, create *store.FAQ) (*store.FAQ, error) {
	stmt := `
		INSERT INTO faqs (question, answer)
		VALUES (` + placeholders(2) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, create.Question, create.Answer).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create faq")
	}
	return create, nil
}

// FindFAQsWithoutEmbedding returns FAQ rows that have no embedding yet.
func (d *DB) FindFAQsWithoutEmbedding(ctx context.Context, limit int) ([]*store.FAQ, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT f.id, f.question, f.answer
		FROM faqs f
		LEFT JOIN faq_embedding e ON f.id = e.faq_id
		WHERE e.id IS NULL
		ORDER BY f.id
		LIMIT ` + placeholder(1)
	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find faqs without embedding")
	}
	defer rows.Close()

	list := []*store.FAQ{}
	for rows.Next() {
		f := &store.FAQ{}
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer); err != nil {
			return nil, errors.Wrap(err, "failed to scan faq")
		}
		list = append(list, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate faqs")
	}
	return list, nil
}

// UpsertFAQEmbedding inserts or updates the embedding vector for a FAQ entry.
func (d *DB) UpsertFAQEmbedding(ctx context.Context, upsert *store.FAQEmbedding) error {
	stmt := `
		INSERT INTO faq_embedding (faq_id, embedding, model, updated_ts)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT (faq_id, model)
		DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_ts = EXCLUDED.updated_ts`
	vector := pgvector.NewVector(upsert.Embedding)
	if _, err := d.db.ExecContext(ctx, stmt, upsert.FAQID, vector, upsert.Model, upsert.UpdatedTs); err != nil {
		return errors.Wrap(err, "failed to upsert faq embedding")
	}
	return nil
}

// SearchFAQsByVector performs cosine-similarity search over the FAQ corpus.
// The <=> operator computes cosine distance (1 - cosine_similarity).
func (d *DB) SearchFAQsByVector(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.FAQWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 3
	}

	query := `
		SELECT f.id, f.question, f.answer, 1 - (e.embedding <=> $1) AS score
		FROM faq_embedding e
		JOIN faqs f ON f.id = e.faq_id
		ORDER BY e.embedding <=> $1
		LIMIT $2`
	vector := pgvector.NewVector(opts.Embedding)
	rows, err := d.db.QueryContext(ctx, query, vector, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search faqs by vector")
	}
	defer rows.Close()

	list := []*store.FAQWithScore{}
	for rows.Next() {
		f := &store.FAQ{}
		var score float32
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &score); err != nil {
			return nil, errors.Wrap(err, "failed to scan faq search result")
		}
		list = append(list, &store.FAQWithScore{FAQ: f, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate faq search results")
	}
	return list, nil
}
