// Package lexical wraps the CJK tokenization and keyword ranking
// toolkit behind a small interface so the analysis layer never touches
// the segmenter directly.
//
// Two ranking algorithms are exposed: a statistical one (TF-IDF) and a
// graph-based one (TextRank), mirroring the two extraction modes the
// keyword extractor merges. A failing toolkit call degrades to an empty
// result for that text batch instead of failing the whole analysis.
package lexical

import (
	"fmt"

	"github.com/go-ego/gse"
	"github.com/go-ego/gse/hmm/extracker"
	"github.com/rs/zerolog"

	"github.com/hotboard-io/hotboard/internal/core/domain"
)

const logKeyTextLen = "text_len"

// Toolkit is the tokenization and keyword ranking capability consumed
// by the analysis layer. Implementations must be safe for concurrent
// use; calls are pure functions over the given text.
type Toolkit interface {
	Cut(text string) []string
	RankTFIDF(text string, topK int) []domain.Keyword
	RankTextRank(text string, topK int) []domain.Keyword
}

// GseToolkit implements Toolkit on top of the gse segmenter, the Go
// counterpart of the jieba dictionaries used upstream.
type GseToolkit struct {
	seg    gse.Segmenter
	tagger extracker.TagExtracter
	ranker extracker.TextRanker
	logger *zerolog.Logger
}

// NewGse loads the default dictionaries and builds both extractors.
func NewGse(logger *zerolog.Logger) (*GseToolkit, error) {
	t := &GseToolkit{logger: logger}

	if err := t.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("load segmenter dict: %w", err)
	}

	t.tagger.WithGse(t.seg)

	if err := t.tagger.LoadIdf(); err != nil {
		return nil, fmt.Errorf("load idf corpus: %w", err)
	}

	t.ranker.WithGse(t.seg)

	return t, nil
}

// Cut tokenizes text with HMM enabled for unknown words.
func (t *GseToolkit) Cut(text string) []string {
	defer t.recover("cut", text)

	if text == "" {
		return nil
	}

	return t.seg.Cut(text, true)
}

// RankTFIDF extracts the topK keywords by TF-IDF weight.
func (t *GseToolkit) RankTFIDF(text string, topK int) []domain.Keyword {
	defer t.recover("rank_tfidf", text)

	if text == "" || topK <= 0 {
		return nil
	}

	segs := t.tagger.ExtractTags(text, topK)

	keywords := make([]domain.Keyword, 0, len(segs))
	for _, s := range segs {
		keywords = append(keywords, domain.Keyword{Text: s.Text, Weight: s.Weight})
	}

	return keywords
}

// RankTextRank extracts the topK keywords by TextRank score.
func (t *GseToolkit) RankTextRank(text string, topK int) []domain.Keyword {
	defer t.recover("rank_textrank", text)

	if text == "" || topK <= 0 {
		return nil
	}

	segs := t.ranker.TextRank(text, topK)

	keywords := make([]domain.Keyword, 0, len(segs))
	for _, s := range segs {
		keywords = append(keywords, domain.Keyword{Text: s.Text, Weight: s.Weight})
	}

	return keywords
}

// recover turns a segmenter panic into an empty result for the batch.
func (t *GseToolkit) recover(op, text string) {
	if r := recover(); r != nil && t.logger != nil {
		t.logger.Warn().
			Str("op", op).
			Int(logKeyTextLen, len(text)).
			Interface("panic", r).
			Msg("toolkit call failed, returning empty result")
	}
}
