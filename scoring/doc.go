// Package scoring computes persona relevance scores for document sections.
//
// Each section gets a semantic sub-score, the cosine similarity between its
// embedding and the persona query embedding mapped onto [0,1], and a keyword
// sub-score, the weighted share of persona keywords found in its text. The
// final score blends the two, 0.7 and 0.3 by default.
//
// Section embeddings are computed in batches on an ants worker pool. Each
// batch writes into its own slots of a pre-sized slice, so results keep the
// input order without locking. An optional storage.EmbeddingCache skips the
// backend for text embedded before.
//
// Usage:
//
//	scorer, err := scoring.NewScorer(provider.Embedder(),
//	    scoring.WithCache(cache, provider.Model()),
//	    scoring.WithDegradedMode(true))
//	if err != nil {
//	    return err
//	}
//	defer scorer.Release()
//
//	scored, err := scorer.Score(ctx, pc, sections)
package scoring
