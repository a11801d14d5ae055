package store

// FAQ is one question/answer pair of the support corpus.
type FAQ struct {
	ID       int32
	Question string
	Answer   string
}

// FAQEmbedding stores the embedding vector for a FAQ entry.
type FAQEmbedding struct {
	FAQID     int32
	Embedding []float32
	Model     string
	UpdatedTs int64
}

// VectorSearchOptions configures semantic search over the FAQ corpus.
type VectorSearchOptions struct {
	Embedding []float32
	Limit     int
}

// FAQWithScore is a FAQ entry with its similarity score.
type FAQWithScore struct {
	FAQ   *FAQ
	Score float32
}
