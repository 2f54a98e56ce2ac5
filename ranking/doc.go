// Package ranking turns scored sections into the final ordered list.
//
// Rank is a pure transform over cached scores: callers re-rank with a new
// Config (max count, min score, search text, sort key) without re-scoring.
package ranking
