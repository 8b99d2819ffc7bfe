// Package normalize turns raw assistant replies into renderable markdown and
// extracts the optional structured product block they carry.
package normalize

import (
	"strings"

	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"go.uber.org/zap"
)

// DefaultPlaceholderURL is the image URL template used for legacy portfolio
// markers. "{n}" is replaced by the image number.
const DefaultPlaceholderURL = "https://placehold.co/600x400?text=Portfolio+Image+{n}"

// Options configures normalization.
type Options struct {
	// PlaceholderURL is the template for legacy portfolio images.
	// An empty template disables the legacy pre-pass.
	PlaceholderURL string
}

// DefaultOptions returns default normalization options.
func DefaultOptions() Options {
	return Options{
		PlaceholderURL: DefaultPlaceholderURL,
	}
}

// Normalizer rewrites assistant replies. It is safe for concurrent use.
type Normalizer struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Normalizer. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{opts: opts, logger: logger}
}

// Normalize converts raw reply text into a NormalizedMessage.
// It never fails: a broken data block is logged and dropped.
func (n *Normalizer) Normalize(text string) models.NormalizedMessage {
	var msg models.NormalizedMessage

	// Data block first, independently of link handling
	content, block, found := cutDataBlock(text)
	if found {
		rec, err := ParseDataBlock(block)
		if err != nil {
			n.logger.Warn("failed to parse structured data block",
				zap.String("operation", "parse_data_block"),
				zap.String("block", block),
				zap.Error(err))
		} else {
			msg.ExcelData = &rec
			msg.Filename = SuggestFilename(rec)
		}
	}

	if n.opts.PlaceholderURL != "" {
		repaired, count := repairLegacyMarkers(content, n.opts.PlaceholderURL)
		if count > 0 {
			n.logger.Debug("rewrote legacy portfolio markers", zap.Int("count", count))
			content = repaired
		}
	}

	msg.Links = Classify(content)
	if msg.Links == models.LinksNeedRepair {
		content = repairPortfolioLinks(content)
	}

	msg.Content = strings.TrimSpace(content)
	return msg
}
