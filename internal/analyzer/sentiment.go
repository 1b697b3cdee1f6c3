package analyzer

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"unicode/utf8"

	"github.com/sentimap/sentimap/config"
	"github.com/sentimap/sentimap/internal/models"
)

// minAnalyzableRunes is the text length below which analysis short-circuits
// to neutral with zero confidence.
const minAnalyzableRunes = 5

// Analyzer scores text with a three-model ensemble: the pretrained lexicon
// scorer, the rule-based counter, and the weighted domain dictionary. Loaded
// dictionaries are immutable between domain switches, so one Analyzer is safe
// for concurrent use.
type Analyzer struct {
	weights    config.WeightsConfig
	thresholds config.ThresholdsConfig
	lexicon    *lexiconModel
	store      *DictStore
	logger     *slog.Logger

	mu     sync.RWMutex
	domain string
	dict   Dictionary
	tok    *tokenizer
}

// New builds an Analyzer for the configured domain. The domain dictionary is
// the default vocabulary overlaid with the persisted entries for that domain.
func New(cfg config.SentimentConfig, logger *slog.Logger) (*Analyzer, error) {
	a := &Analyzer{
		weights:    cfg.ModelWeights,
		thresholds: cfg.Thresholds,
		lexicon:    newLexiconModel(logger),
		store:      NewDictStore(cfg.DictDir),
		logger:     logger,
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "general"
	}
	if err := a.SetDomain(domain); err != nil {
		return nil, err
	}
	return a, nil
}

// SetDomain reloads the active dictionary for domain before further analysis.
func (a *Analyzer) SetDomain(domain string) error {
	persisted, err := a.store.Load(domain)
	if err != nil {
		return fmt.Errorf("switch domain: %w", err)
	}

	dict := defaultDictionary()
	dict.merge(persisted)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.domain = domain
	a.dict = dict
	a.tok = newTokenizer(positiveWords, negativeWords, negationWords, intensifiers, dict.terms())

	a.logger.Info("[Analyzer] Domain dictionary loaded",
		slog.String("domain", domain),
		slog.Int("terms", len(dict)))
	return nil
}

// Domain returns the active dictionary domain.
func (a *Analyzer) Domain() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.domain
}

// CreateDomainDict merges entries into the persisted dictionary for domain.
// When domain is the active one, the analyzer reloads before further calls.
func (a *Analyzer) CreateDomainDict(domain string, entries Dictionary) error {
	if err := a.store.Save(domain, entries); err != nil {
		return err
	}
	a.logger.Info("[Analyzer] Domain dictionary updated",
		slog.String("domain", domain),
		slog.Int("new_terms", len(entries)))

	if a.Domain() == domain {
		return a.SetDomain(domain)
	}
	return nil
}

// Analyze scores one text. Sub-scores live in [0,1]; the final score is their
// configured weighted sum, clamped. Confidence is one minus the population
// standard deviation of the sub-scores: agreement across models reads as
// certainty.
func (a *Analyzer) Analyze(text string) models.SentimentResult {
	if utf8.RuneCountInString(text) < minAnalyzableRunes {
		return models.SentimentResult{
			Score:      0.5,
			Category:   models.CategoryNeutral,
			Confidence: 0,
			ModelScores: models.ModelScores{
				Lexicon:    0.5,
				RuleBased:  0.5,
				DomainDict: 0.5,
			},
		}
	}

	a.mu.RLock()
	dict := a.dict
	tok := a.tok
	a.mu.RUnlock()

	lexiconScore := a.lexicon.score(text)
	tokens := tok.tokens(text)
	ruleScore := ruleBasedScore(tokens)
	dictScore := domainDictScore(dict, tokens)

	final := a.weights.Lexicon*lexiconScore +
		a.weights.RuleBased*ruleScore +
		a.weights.DomainDict*dictScore
	final = clamp01(final)

	confidence := clamp01(1 - popStdDev(lexiconScore, ruleScore, dictScore))

	return models.SentimentResult{
		Score:      final,
		Category:   a.categorize(final),
		Confidence: confidence,
		ModelScores: models.ModelScores{
			Lexicon:    lexiconScore,
			RuleBased:  ruleScore,
			DomainDict: dictScore,
		},
	}
}

// AnalyzeBatch scores texts in order.
func (a *Analyzer) AnalyzeBatch(texts []string) []models.SentimentResult {
	results := make([]models.SentimentResult, 0, len(texts))
	for _, text := range texts {
		results = append(results, a.Analyze(text))
	}
	return results
}

func (a *Analyzer) categorize(score float64) string {
	t := a.thresholds
	switch {
	case score < t.VeryNegative:
		return models.CategoryVeryNegative
	case score < t.Negative:
		return models.CategoryNegative
	case score < t.Neutral:
		return models.CategoryNeutral
	case score < t.Positive:
		return models.CategoryPositive
	default:
		return models.CategoryVeryPositive
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// popStdDev is the population standard deviation of exactly the three
// sub-scores. The sample (n−1) estimator would overstate disagreement here.
func popStdDev(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}
