// Package lumina turns assistant replies into display text and downloadable
// spec sheets.
package lumina

import (
	"time"

	"github.com/ukaji3/lumina-go/pkg/lumina/fetch"
	"github.com/ukaji3/lumina-go/pkg/lumina/normalize"
	"github.com/ukaji3/lumina-go/pkg/lumina/sheet"
)

// Options configures a Service.
type Options struct {
	// PlaceholderURL is the image URL template for bare portfolio markers.
	// If nil, defaults to normalize.DefaultPlaceholderURL. An empty string
	// disables the legacy marker pass.
	PlaceholderURL *string
	// FetchImages specifies whether images are downloaded for spec sheets.
	// If nil, defaults to true. When false every image becomes a placeholder.
	FetchImages *bool
	// ImageTimeout bounds each image fetch. Zero means fetch.DefaultTimeout.
	ImageTimeout time.Duration
	// AllowPrivateHosts lets image fetches reach loopback, private and
	// link-local addresses.
	AllowPrivateHosts bool
	// MaxImageBytes caps each image payload. Zero means fetch.DefaultMaxBytes.
	MaxImageBytes int
	// SheetName names the spec sheet. Empty means sheet.DefaultSheetName.
	SheetName string
	// FallbackSheetName names the flat document sheet.
	FallbackSheetName string
	// Author is recorded on placeholder notes.
	Author string
}

// DefaultOptions returns default service options.
func DefaultOptions() Options {
	return Options{
		ImageTimeout: fetch.DefaultTimeout,
		SheetName:    sheet.DefaultSheetName,
	}
}

// Placeholder returns the effective placeholder URL template.
func (o Options) Placeholder() string {
	if o.PlaceholderURL != nil {
		return *o.PlaceholderURL
	}
	return normalize.DefaultPlaceholderURL
}

// ShouldFetchImages returns whether images are downloaded.
func (o Options) ShouldFetchImages() bool {
	if o.FetchImages != nil {
		return *o.FetchImages
	}
	return true
}

func (o Options) normalizeOptions() normalize.Options {
	return normalize.Options{PlaceholderURL: o.Placeholder()}
}

func (o Options) sheetOptions() sheet.Options {
	return sheet.Options{
		SheetName:         o.SheetName,
		FallbackSheetName: o.FallbackSheetName,
		Author:            o.Author,
	}
}
