package processor

import (
	"context"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/sentimap/sentimap/internal/analyzer"
	"github.com/sentimap/sentimap/internal/location"
	"github.com/sentimap/sentimap/internal/models"
)

// Processor turns raw platform items into scored, geolocated records.
type Processor struct {
	analyzer *analyzer.Analyzer
	resolver *location.Resolver
	clock    clockwork.Clock
	logger   *slog.Logger
}

// Batch is the output of a full processing pass.
type Batch struct {
	All        []models.ProcessedItem
	ByPlatform map[string][]models.ProcessedItem
}

func New(a *analyzer.Analyzer, r *location.Resolver, clock clockwork.Clock, logger *slog.Logger) *Processor {
	return &Processor{analyzer: a, resolver: r, clock: clock, logger: logger}
}

// Process scores and geolocates a single item. The second return value is
// false when the item carries no analyzable text and was skipped.
func (p *Processor) Process(item models.RawItem) (models.ProcessedItem, bool) {
	if item.Text == "" {
		return models.ProcessedItem{}, false
	}

	sentiment := p.analyzer.Analyze(item.Text)

	profile := p.resolver.ResolveProfile(item.RawLocation)
	text := p.resolver.ResolveText(item.Text)
	resolved := p.resolver.Merge(text, profile)

	out := models.ProcessedItem{
		Platform:          item.Platform,
		ContentID:         item.ContentID,
		Text:              item.Text,
		Author:            item.Author,
		RawLocation:       item.RawLocation,
		Province:          resolved.Province,
		Region:            resolved.Region,
		PublishTime:       item.PublishTime,
		ProcessedAt:       p.clock.Now(),
		SentimentScore:    sentiment.Score,
		SentimentCategory: sentiment.Category,
		Confidence:        sentiment.Confidence,
	}

	if len(item.Extra) > 0 {
		out.Extra = make(map[string]any, len(item.Extra))
		for k, v := range item.Extra {
			out.Extra["extra_"+k] = v
		}
	}

	return out, true
}

// ProcessAll runs every platform's items through Process, dropping empties.
// A non-empty domain switches the sentiment dictionary for the pass; empty
// keeps the current one. Cancellation stops the pass early and returns what
// was processed so far.
func (p *Processor) ProcessAll(ctx context.Context, raw map[string][]models.RawItem, domain string) (Batch, error) {
	if domain != "" && domain != p.analyzer.Domain() {
		if err := p.analyzer.SetDomain(domain); err != nil {
			return Batch{}, err
		}
	}

	batch := Batch{ByPlatform: make(map[string][]models.ProcessedItem, len(raw))}

	total, skipped := 0, 0
	for platform, items := range raw {
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				p.logger.Warn("[Processor] Processing cancelled",
					slog.Int("processed", total))
				return batch, err
			}

			processed, ok := p.Process(item)
			if !ok {
				skipped++
				continue
			}
			batch.All = append(batch.All, processed)
			batch.ByPlatform[platform] = append(batch.ByPlatform[platform], processed)
			total++
		}
	}

	p.logger.Info("[Processor] Processing pass finished",
		slog.Int("processed", total),
		slog.Int("skipped", skipped))
	return batch, nil
}
