package personarank

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/personarank/ai/mock"
	"github.com/poiesic/personarank/core"
	ocrmock "github.com/poiesic/personarank/ocr/mock"
	"github.com/poiesic/personarank/ranking"
	"github.com/poiesic/personarank/storage/memory"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\nimage-bytes")

const travelGuide = "Coastal Adventures\n" +
	"The south coast offers beach hopping, sailing and snorkelling for groups of friends.\n" +
	"\f" +
	"Nightlife and Entertainment\n" +
	"Bars and clubs in Nice stay open late and welcome large groups.\n" +
	"\f" +
	"History of the Region\n" +
	"Roman ruins and medieval towns line the old trade routes.\n"

func newTestEngine(t *testing.T, embedder *mock.MockEmbedder, opts ...Option) *Engine {
	t.Helper()
	engine, err := New(embedder, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func constantEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = []float32{1, 0, 0}
		}
		return out, nil
	}
	return embedder
}

func blockingEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, _ string) ([]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return embedder
}

func TestNew(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := New(nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("rejects negative timeout", func(t *testing.T) {
		_, err := New(mock.NewMockEmbedder(), WithTimeout(-time.Second))
		assert.ErrorIs(t, err, ErrInvalidTimeout)
	})

	t.Run("non-positive batch size keeps the default", func(t *testing.T) {
		engine, err := New(mock.NewMockEmbedder(), WithBatchSize(-1))
		require.NoError(t, err)
		engine.Close()
	})

	t.Run("default catalog", func(t *testing.T) {
		engine := newTestEngine(t, mock.NewMockEmbedder())
		assert.Contains(t, engine.Catalog().Roles(), "Data Analyst")
		assert.NotContains(t, engine.Catalog().Roles(), "Travel Planner")
	})
}

func TestEngine_Extract(t *testing.T) {
	engine := newTestEngine(t, mock.NewMockEmbedder())

	t.Run("text document", func(t *testing.T) {
		sections, err := engine.Extract(context.Background(), "guide.txt", []byte(travelGuide))
		require.NoError(t, err)
		require.Len(t, sections, 3)
		for i, s := range sections {
			assert.Equal(t, i+1, s.Page)
			assert.Equal(t, "guide.txt", s.DocumentID)
		}
		assert.Equal(t, "Coastal Adventures", sections[0].Title)
	})

	t.Run("unreadable document", func(t *testing.T) {
		_, err := engine.Extract(context.Background(), "broken.bin", []byte{0xff, 0xfe, 0x00, 0x81})
		assert.ErrorIs(t, err, core.ErrExtraction)

		_, err = engine.Extract(context.Background(), "empty.txt", nil)
		assert.ErrorIs(t, err, core.ErrExtraction)
	})

	t.Run("native text never calls ocr", func(t *testing.T) {
		recognizer := &ocrmock.Recognizer{Text: "unused"}
		engine := newTestEngine(t, mock.NewMockEmbedder(), WithRecognizer(recognizer))
		_, err := engine.Extract(context.Background(), "guide.txt", []byte(travelGuide))
		require.NoError(t, err)
		assert.Zero(t, recognizer.CallCount())
	})
}

func TestEngine_ScoreAndRank(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, mock.NewMockEmbedder())

	sections, err := engine.Extract(ctx, "guide.txt", []byte(travelGuide))
	require.NoError(t, err)
	pc := engine.BuildContext("Travel Planner", "Plan a trip of 4 days for a group of 10 college friends")

	first, err := engine.ScoreAndRank(ctx, pc, sections, ranking.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, first, 3)
	for i, ss := range first {
		assert.Equal(t, i+1, ss.Rank)
		assert.GreaterOrEqual(t, ss.Score, 0.0)
		assert.LessOrEqual(t, ss.Score, 1.0)
	}

	t.Run("idempotent", func(t *testing.T) {
		second, err := engine.ScoreAndRank(ctx, pc, sections, ranking.DefaultConfig())
		require.NoError(t, err)
		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].Section.ID, second[i].Section.ID)
			assert.Equal(t, first[i].Score, second[i].Score)
		}
	})

	t.Run("min score of one yields empty list", func(t *testing.T) {
		cfg := ranking.DefaultConfig()
		cfg.MinScore = 1.0
		ranked, err := engine.ScoreAndRank(ctx, pc, sections, cfg)
		require.NoError(t, err)
		assert.Empty(t, ranked)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := ranking.DefaultConfig()
		cfg.MaxCount = 0
		_, err := engine.ScoreAndRank(ctx, pc, sections, cfg)
		assert.ErrorIs(t, err, ranking.ErrInvalidConfig)
	})
}

func TestEngine_DataAnalystScenario(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t, constantEmbedder())

	text := "Revenue grew 20% in Q2. Risks include supply delays."
	sections, err := engine.Extract(ctx, "report.txt", []byte(text))
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, text, sections[0].Body)

	pc := engine.BuildContext("Data Analyst", "find growth trends")
	ranked, err := engine.ScoreAndRank(ctx, pc, sections, ranking.DefaultConfig())
	require.NoError(t, err)
	require.Len(t, ranked, 1)

	// Only "revenue" matches: 0.9 over revenue, trend, metric, the mentioned
	// "trends" pattern and the task terms find and growth.
	assert.InDelta(t, 0.9/4.3, ranked[0].Keyword, 1e-9)
	assert.InDelta(t, 1.0, ranked[0].Semantic, 1e-9)
	assert.GreaterOrEqual(t, ranked[0].Score, 0.75)
	assert.LessOrEqual(t, ranked[0].Score, 0.95)
}

func TestEngine_Failures(t *testing.T) {
	ctx := context.Background()
	sections := []*core.Section{{
		ID: core.SectionID("doc", 1, 0), DocumentID: "doc", Page: 1, Body: "Vegetarian buffet menu.",
	}}

	failing := func() *mock.MockEmbedder {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return nil, errors.New("backend down")
		}
		return embedder
	}

	t.Run("scoring failure", func(t *testing.T) {
		engine := newTestEngine(t, failing())
		pc := engine.BuildContext("Food Contractor", "Prepare a vegetarian buffet")
		ranked, err := engine.ScoreAndRank(ctx, pc, sections, ranking.DefaultConfig())
		assert.ErrorIs(t, err, core.ErrScoring)
		assert.Nil(t, ranked)
	})

	t.Run("degraded mode", func(t *testing.T) {
		engine := newTestEngine(t, failing(), WithDegradedMode(true))
		pc := engine.BuildContext("Food Contractor", "Prepare a vegetarian buffet")
		ranked, err := engine.ScoreAndRank(ctx, pc, sections, ranking.DefaultConfig())
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.True(t, ranked[0].Degraded)
		assert.Equal(t, ranked[0].Keyword, ranked[0].Score)
	})

	t.Run("engine timeout", func(t *testing.T) {
		engine := newTestEngine(t, blockingEmbedder(), WithTimeout(20*time.Millisecond))
		pc := engine.BuildContext("Food Contractor", "Prepare a vegetarian buffet")
		ranked, err := engine.ScoreAndRank(ctx, pc, sections, ranking.DefaultConfig())
		assert.ErrorIs(t, err, core.ErrTimeout)
		assert.Nil(t, ranked)
	})

	t.Run("caller cancellation is not a timeout", func(t *testing.T) {
		engine := newTestEngine(t, blockingEmbedder(), WithTimeout(time.Minute))
		pc := engine.BuildContext("Food Contractor", "Prepare a vegetarian buffet")
		cctx, cancel := context.WithCancel(ctx)
		time.AfterFunc(10*time.Millisecond, cancel)
		_, err := engine.ScoreAndRank(cctx, pc, sections, ranking.DefaultConfig())
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, core.ErrTimeout)
	})
}

func TestEngine_Analyze(t *testing.T) {
	ctx := context.Background()

	t.Run("scores once and ranks many times", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		recognizer := &ocrmock.Recognizer{
			RecognizeFunc: func(context.Context, []byte) (string, error) {
				return "", errors.New("tesseract crashed")
			},
		}
		engine := newTestEngine(t, embedder,
			WithRecognizer(recognizer),
			WithCache(memory.NewEmbeddingCache(64), "mock"))

		analysis, err := engine.Analyze(ctx, Request{
			Role: "Travel Planner",
			Task: "Plan a trip with nightlife for friends",
			Documents: []Document{
				{Name: "guide.txt", Data: []byte(travelGuide)},
				{Name: "scan.png", Data: pngHeader},
			},
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, analysis.ID)
		assert.Len(t, analysis.Sections, 3)
		require.Len(t, analysis.Skipped, 1)
		assert.Equal(t, "scan.png", analysis.Skipped[0].Document)
		assert.ErrorIs(t, analysis.Skipped[0].Err, core.ErrOcrUnavailable)
		assert.Len(t, analysis.Scored(), 3)
		assert.Equal(t, 1, recognizer.CallCount())

		calls := embedder.CallCount()
		all, err := analysis.Rank(ranking.DefaultConfig())
		require.NoError(t, err)
		assert.Len(t, all, 3)

		cfg := ranking.DefaultConfig()
		cfg.Search = "nice"
		cfg.SortBy = ranking.SortByPage
		filtered, err := analysis.Rank(cfg)
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.True(t, strings.HasPrefix(filtered[0].Section.Title, "Nightlife"))
		assert.Equal(t, 1, filtered[0].Rank)
		assert.Equal(t, calls, embedder.CallCount(), "ranking does not embed again")
	})

	t.Run("repeated document names keep ids unique", func(t *testing.T) {
		engine := newTestEngine(t, mock.NewMockEmbedder())
		body := []byte("Revenue grew 20% in Q2. Risks include supply delays.")
		analysis, err := engine.Analyze(ctx, Request{
			Role: "Data Analyst",
			Task: "find growth trends",
			Documents: []Document{
				{Name: "report.txt", Data: body},
				{Name: "report.txt", Data: body},
			},
		})
		require.NoError(t, err)
		require.Len(t, analysis.Sections, 2)

		first, second := analysis.Sections[0], analysis.Sections[1]
		assert.Equal(t, "report.txt", first.DocumentID)
		assert.Equal(t, "report.txt#2", second.DocumentID)
		assert.NotEqual(t, first.ID, second.ID)

		// Identical text in different documents is not deduplicated.
		ranked, err := analysis.Rank(ranking.DefaultConfig())
		require.NoError(t, err)
		assert.Len(t, ranked, 2)
	})

	t.Run("no documents", func(t *testing.T) {
		engine := newTestEngine(t, mock.NewMockEmbedder())
		_, err := engine.Analyze(ctx, Request{Role: "Travel Planner"})
		assert.ErrorIs(t, err, ErrNoDocuments)
	})

	t.Run("one unreadable document fails the request", func(t *testing.T) {
		engine := newTestEngine(t, mock.NewMockEmbedder())
		analysis, err := engine.Analyze(ctx, Request{
			Role: "Travel Planner",
			Documents: []Document{
				{Name: "guide.txt", Data: []byte(travelGuide)},
				{Name: "broken.bin", Data: []byte{0xff, 0xfe, 0x00, 0x81}},
			},
		})
		assert.ErrorIs(t, err, core.ErrExtraction)
		assert.Nil(t, analysis)
	})

	t.Run("timeout", func(t *testing.T) {
		engine := newTestEngine(t, blockingEmbedder(), WithTimeout(20*time.Millisecond))
		_, err := engine.Analyze(ctx, Request{
			Role:      "Travel Planner",
			Documents: []Document{{Name: "guide.txt", Data: []byte(travelGuide)}},
		})
		assert.ErrorIs(t, err, core.ErrTimeout)
	})
}

func TestDocumentNames(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"distinct", []string{"a.pdf", "b.pdf"}, []string{"a.pdf", "b.pdf"}},
		{"repeated", []string{"a.pdf", "a.pdf", "a.pdf"}, []string{"a.pdf", "a.pdf#2", "a.pdf#3"}},
		{"suffix already taken", []string{"a.pdf#2", "a.pdf", "a.pdf"}, []string{"a.pdf#2", "a.pdf", "a.pdf#3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := make([]Document, len(tt.in))
			for i, n := range tt.in {
				docs[i] = Document{Name: n, Data: []byte("x")}
			}
			assert.Equal(t, tt.want, documentNames(docs))
		})
	}

	t.Run("unnamed documents with equal content", func(t *testing.T) {
		names := documentNames([]Document{{Data: []byte("same")}, {Data: []byte("same")}})
		assert.NotEqual(t, names[0], names[1])
		assert.Equal(t, names[0]+"#2", names[1])
	})
}
