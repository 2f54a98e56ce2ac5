// Package personarank ranks document sections by their relevance to a
// persona and the task it is trying to get done.
//
// An Engine extracts sections from PDF, DOCX, XLSX, plain text and image
// documents (running OCR on scanned pages), builds a keyword and query
// context for the persona, scores every section by blending embedding
// similarity with keyword overlap, and ranks the result.
//
//	engine, err := personarank.New(provider.Embedder(), personarank.WithTimeout(time.Minute))
//	if err != nil {
//		return err
//	}
//	defer engine.Close()
//
//	sections, err := engine.Extract(ctx, "guide.pdf", data)
//	pc := engine.BuildContext("Travel Planner", "Plan a 4-day trip for 10 friends")
//	ranked, err := engine.ScoreAndRank(ctx, pc, sections, ranking.DefaultConfig())
package personarank
