package sqlite

import (
	"context"
	"encoding/json"
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/neurosphere-lab/lumi/store"
)

// SQLite has no vector extension; embeddings are stored as JSON text and
// cosine similarity is computed in-process. Fine for the small FAQ corpus,
// use PostgreSQL with pgvector for anything bigger.

func (d *DB) CreateFAQ(ctx context.Context, create *store.FAQ) (*store.FAQ, error) {
	res, err := d.db.ExecContext(ctx, `INSERT INTO faqs (question, answer) VALUES (`+placeholders(2)+`)`,
		create.Question, create.Answer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create faq")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read faq id")
	}
	create.ID = int32(id)
	return create, nil
}

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
		LIMIT ?`
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

func (d *DB) UpsertFAQEmbedding(ctx context.Context, upsert *store.FAQEmbedding) error {
	buf, err := json.Marshal(upsert.Embedding)
	if err != nil {
		return errors.Wrap(err, "failed to encode embedding")
	}

	stmt := `
		INSERT INTO faq_embedding (faq_id, embedding, model, updated_ts)
		VALUES (` + placeholders(4) + `)
		ON CONFLICT (faq_id, model)
		DO UPDATE SET
			embedding = excluded.embedding,
			updated_ts = excluded.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.FAQID, string(buf), upsert.Model, upsert.UpdatedTs); err != nil {
		return errors.Wrap(err, "failed to upsert faq embedding")
	}
	return nil
}

func (d *DB) SearchFAQsByVector(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.FAQWithScore, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 3
	}

	query := `
		SELECT f.id, f.question, f.answer, e.embedding
		FROM faq_embedding e
		JOIN faqs f ON f.id = e.faq_id`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load faq embeddings")
	}
	defer rows.Close()

	list := []*store.FAQWithScore{}
	for rows.Next() {
		f := &store.FAQ{}
		var raw string
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to scan faq embedding")
		}
		var embedding []float32
		if err := json.Unmarshal([]byte(raw), &embedding); err != nil {
			return nil, errors.Wrap(err, "failed to decode embedding")
		}
		list = append(list, &store.FAQWithScore{FAQ: f, Score: cosineSimilarity(opts.Embedding, embedding)})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate faq embeddings")
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Score > list[j].Score
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
