package analyzer

import (
	"log/slog"
	"regexp"

	"github.com/jonreiter/govader"
)

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks strips markdown links (keeping the anchor text) and bare URLs;
// link noise skews polarity scoring.
func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// lexiconModel wraps the pretrained VADER polarity scorer. It is a black box
// to the ensemble: any failure degrades to the neutral midpoint.
type lexiconModel struct {
	analyzer *govader.SentimentIntensityAnalyzer
	logger   *slog.Logger
}

func newLexiconModel(logger *slog.Logger) *lexiconModel {
	return &lexiconModel{
		analyzer: govader.NewSentimentIntensityAnalyzer(),
		logger:   logger,
	}
}

// score returns the normalized polarity of text in [0,1].
func (m *lexiconModel) score(text string) (result float64) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("[LexiconModel] scorer panicked, falling back to neutral",
				slog.Any("panic", r))
			result = 0.5
		}
	}()

	sentiment := m.analyzer.PolarityScores(RemoveLinks(text))

	// Compound is in [-1,1]; the ensemble works on [0,1].
	score := (sentiment.Compound + 1) / 2
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
