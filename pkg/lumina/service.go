package lumina

import (
	"context"
	"sync"

	"github.com/ukaji3/lumina-go/pkg/lumina/fetch"
	"github.com/ukaji3/lumina-go/pkg/lumina/models"
	"github.com/ukaji3/lumina-go/pkg/lumina/normalize"
	"github.com/ukaji3/lumina-go/pkg/lumina/sheet"
	"go.uber.org/zap"
)

// Spreadsheet is a generated download.
type Spreadsheet struct {
	Filename string
	Bytes    []byte
	// Fallback reports whether the flat document replaced the spec sheet.
	Fallback bool
	Images   map[fetch.Role]sheet.ImageStatus
}

// pipeline is the configured part of a Service, swapped whole on Reload.
type pipeline struct {
	opts       Options
	normalizer *normalize.Normalizer
	generator  *sheet.Generator
	fetcher    *fetch.Fetcher
}

// Service normalizes replies and generates their spreadsheets. It allows at
// most one generation per message at a time.
type Service struct {
	logger *zap.Logger

	mu       sync.RWMutex
	pipeline *pipeline

	inflightMu sync.Mutex
	inflight   map[string]struct{}
}

// NewService creates a Service. A nil logger disables logging.
func NewService(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
	s.pipeline = s.build(opts)
	return s
}

func (s *Service) build(opts Options) *pipeline {
	p := &pipeline{
		opts:       opts,
		normalizer: normalize.New(opts.normalizeOptions(), s.logger.Named("normalize")),
	}
	var fetcher sheet.ImageFetcher
	if opts.ShouldFetchImages() {
		p.fetcher = fetch.New(fetch.Options{
			Timeout:           opts.ImageTimeout,
			MaxBytes:          opts.MaxImageBytes,
			UserAgent:         "lumina",
			AllowPrivateHosts: opts.AllowPrivateHosts,
		}, s.logger.Named("fetch"))
		fetcher = p.fetcher
	}
	p.generator = sheet.New(fetcher, opts.sheetOptions(), s.logger.Named("sheet"))
	return p
}

func (s *Service) current() *pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pipeline
}

// Options returns the options in effect.
func (s *Service) Options() Options {
	return s.current().opts
}

// Reload replaces the service options. Generations already running finish
// with the previous options.
func (s *Service) Reload(opts Options) {
	next := s.build(opts)

	s.mu.Lock()
	prev := s.pipeline
	s.pipeline = next
	s.mu.Unlock()

	if prev.fetcher != nil {
		prev.fetcher.Close()
	}
	s.logger.Info("service options reloaded",
		zap.String("placeholder_url", opts.Placeholder()),
		zap.Bool("fetch_images", opts.ShouldFetchImages()))
}

// Close releases the service's idle connections.
func (s *Service) Close() {
	if p := s.current(); p.fetcher != nil {
		p.fetcher.Close()
	}
}

// Normalize turns raw assistant text into a display message.
func (s *Service) Normalize(text string) models.NormalizedMessage {
	return s.current().normalizer.Normalize(text)
}

// Download generates the spreadsheet of a normalized message. A second call
// for a messageID that is still generating returns ErrBusy immediately.
// Failures that leave no document wrap sheet.ErrTotalFailure.
func (s *Service) Download(ctx context.Context, messageID string, msg models.NormalizedMessage) (*Spreadsheet, error) {
	if !msg.HasData() {
		return nil, NewDownloadError(messageID, msg.Filename, ErrNoData)
	}
	if !s.acquire(messageID) {
		s.logger.Debug("download rejected, generation in progress", zap.String("message_id", messageID))
		return nil, ErrBusy
	}
	defer s.release(messageID)

	res, err := s.current().generator.Generate(ctx, *msg.ExcelData)
	if err != nil {
		s.logger.Error("spreadsheet download failed",
			zap.String("operation", "download"),
			zap.String("message_id", messageID),
			zap.String("filename", msg.Filename),
			zap.Error(err))
		return nil, NewDownloadError(messageID, msg.Filename, err)
	}

	s.logger.Info("spreadsheet generated",
		zap.String("message_id", messageID),
		zap.String("filename", msg.Filename),
		zap.Int("bytes", len(res.Bytes)),
		zap.Bool("fallback", res.Fallback))
	return &Spreadsheet{
		Filename: msg.Filename,
		Bytes:    res.Bytes,
		Fallback: res.Fallback,
		Images:   res.Images,
	}, nil
}

// Busy reports whether a generation for messageID is running.
func (s *Service) Busy(messageID string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	_, ok := s.inflight[messageID]
	return ok
}

func (s *Service) acquire(messageID string) bool {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	if _, ok := s.inflight[messageID]; ok {
		return false
	}
	s.inflight[messageID] = struct{}{}
	return true
}

func (s *Service) release(messageID string) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()
	delete(s.inflight, messageID)
}
