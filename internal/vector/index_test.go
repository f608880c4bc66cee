package vector

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alfaia/alfaia/internal/domain"
	"github.com/alfaia/alfaia/internal/store"
)

// wordEmbedder embeds text as a bag-of-words vector over a fixed vocabulary,
// so similarity is deterministic in tests.
type wordEmbedder struct {
	vocab []string
}

func (e *wordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, len(e.vocab))
	words := strings.Fields(strings.ToLower(text))
	for i, v := range e.vocab {
		for _, w := range words {
			if w == v {
				vec[i]++
			}
		}
	}
	return vec, nil
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	embedder := &wordEmbedder{vocab: []string{
		"sol", "lua", "dia", "noite", "casa", "porta", "janela", "gato", "leite", "escola",
	}}
	ix, err := NewIndex(s.DB(), embedder)
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	return ix
}

func TestIndexTopOneRetrieval(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	snippets := []string{
		"O sol brilha de dia e a lua brilha de noite",
		"A casa tem porta e janela",
		"O gato bebe leite",
	}
	for _, content := range snippets {
		err := ix.Add(ctx, domain.VectorRecord{
			Source:    domain.VectorSourceCurriculum,
			Content:   content,
			CreatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	got, err := ix.Query(ctx, "any-learner", "onde fica a porta da casa", 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(got))
	}
	if got[0].Content != "A casa tem porta e janela" {
		t.Fatalf("unexpected top-1 snippet: %q", got[0].Content)
	}
}

func TestIndexScopesLearnerHistory(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	if err := ix.Add(ctx, domain.VectorRecord{
		LearnerKey: "maria",
		Source:     domain.VectorSourceTurn,
		Content:    "meu gato gosta de leite",
		CreatedAt:  time.Now(),
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := ix.Add(ctx, domain.VectorRecord{
		LearnerKey: "joao",
		Source:     domain.VectorSourceTurn,
		Content:    "o gato subiu na casa",
		CreatedAt:  time.Now(),
	}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, err := ix.Query(ctx, "maria", "gato leite", 5)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for _, s := range got {
		if s.Content == "o gato subiu na casa" {
			t.Fatalf("retrieved another learner's history: %q", s.Content)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(got))
	}
}

func TestIndexSkipsEmptyContent(t *testing.T) {
	ctx := context.Background()
	ix := newTestIndex(t)

	if err := ix.Add(ctx, domain.VectorRecord{Source: domain.VectorSourceTurn}); err != nil {
		t.Fatalf("Add of empty content should be a no-op, got %v", err)
	}
	got, err := ix.Query(ctx, "maria", "sol", 3)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty index, got %d snippets", len(got))
	}
}
