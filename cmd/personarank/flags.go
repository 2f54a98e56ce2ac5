package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// Flags without a Value leave the config file in charge unless set.

func concat(groups ...[]cli.Flag) []cli.Flag {
	var flags []cli.Flag
	for _, g := range groups {
		flags = append(flags, g...)
	}
	return flags
}

func formatFlag(def string, other string) []cli.Flag {
	return []cli.Flag{&cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   fmt.Sprintf("Output format (%s, %s)", def, other),
		Value:   def,
		Action: func(_ *cli.Context, v string) error {
			if v != def && v != other {
				return fmt.Errorf("invalid format %q: must be %s or %s", v, def, other)
			}
			return nil
		},
	}}
}

func outputFlag() []cli.Flag {
	return []cli.Flag{&cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Write results to this file instead of stdout",
	}}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "embedding-backend",
			Usage:       "Embedding backend (openai, hugot)",
			EnvVars:     []string{"PERSONARANK_EMBEDDING_BACKEND"},
			DefaultText: "openai",
		},
		&cli.StringFlag{
			Name:        "embedding-host",
			Usage:       "Embedding service host URL",
			EnvVars:     []string{"PERSONARANK_EMBEDDING_HOST"},
			DefaultText: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Embedding model name",
			EnvVars:     []string{"PERSONARANK_EMBEDDING_MODEL"},
			DefaultText: "nomic-embed-text",
		},
		&cli.StringFlag{
			Name:    "api-token",
			Usage:   "Bearer token for the embedding service",
			EnvVars: []string{"PERSONARANK_API_TOKEN", "OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:        "model-dir",
			Usage:       "Directory for locally downloaded models",
			EnvVars:     []string{"PERSONARANK_MODEL_DIR"},
			DefaultText: "./models",
		},
		&cli.StringFlag{
			Name:    "cache-dir",
			Usage:   "BadgerDB directory for the embedding cache",
			EnvVars: []string{"PERSONARANK_CACHE_DIR"},
		},
		&cli.IntFlag{
			Name:  "cache-memory",
			Usage: "Keep up to N embeddings in an in-memory cache when no cache-dir is set",
		},
	}
}

func ocrFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "no-ocr",
			Usage: "Skip optical recognition of scanned pages",
		},
		&cli.StringSliceFlag{
			Name:        "ocr-lang",
			Usage:       "Tesseract language packs",
			DefaultText: "eng",
		},
		&cli.IntFlag{
			Name:        "dpi",
			Usage:       "Resolution for rendering scanned PDF pages",
			DefaultText: "200",
		},
		&cli.IntFlag{
			Name:        "min-text-length",
			Usage:       "Pages with less native text than this are sent to OCR",
			DefaultText: "50",
		},
	}
}

func poolSizeFlag() cli.Flag {
	return &cli.IntFlag{
		Name:        "pool-size",
		Usage:       "Concurrent page and embedding workers",
		DefaultText: "NumCPU/2",
	}
}

func pipelineFlags() []cli.Flag {
	return concat(ocrFlags(), []cli.Flag{
		poolSizeFlag(),
		&cli.IntFlag{
			Name:        "batch-size",
			Usage:       "Sections per embedding call",
			DefaultText: "32",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Fail a request that runs longer than this",
		},
		&cli.BoolFlag{
			Name:  "degraded",
			Usage: "Fall back to keyword scores when the embedding service fails",
		},
	})
}

func rankingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "max-count",
			Aliases:     []string{"n"},
			Usage:       "Maximum sections returned",
			DefaultText: "15",
		},
		&cli.Float64Flag{
			Name:  "min-score",
			Usage: "Drop sections scoring below this",
		},
		&cli.StringFlag{
			Name:  "search",
			Usage: "Keep only sections containing this text",
		},
		&cli.StringFlag{
			Name:        "sort-by",
			Usage:       "Result order (score, page, document)",
			DefaultText: "score",
		},
		&cli.Float64Flag{
			Name:        "duplicate-threshold",
			Usage:       "Similarity at which sections of one document collapse, 0 disables",
			DefaultText: "0.95",
		},
		&cli.IntFlag{
			Name:  "max-per-document",
			Usage: "Cap on sections kept from any one document",
		},
	}
}
