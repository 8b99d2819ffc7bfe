// Package fetch downloads the images referenced by a product record.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Role tags a fetch with the slot its image fills in the spec sheet.
type Role string

const (
	RoleProduct    Role = "product"
	RolePhotometry Role = "photometry"
	RoleDimension  Role = "dimension"
)

// DefaultTimeout bounds a single image fetch.
const DefaultTimeout = 10 * time.Second

// DefaultMaxBytes caps the size of a single image payload.
const DefaultMaxBytes = 20 << 20

// ErrEmptyBody indicates the server answered without a payload.
var ErrEmptyBody = errors.New("empty response body")

// ErrTooLarge indicates the payload exceeded the configured limit.
var ErrTooLarge = errors.New("response body too large")

// ErrUnsupportedScheme indicates a URL that is not http or https.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// ErrForbiddenHost indicates a target address on a loopback, private,
// link-local or unspecified network.
var ErrForbiddenHost = errors.New("forbidden target address")

// StatusError reports a non-2xx answer.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Request is one image to download.
type Request struct {
	Role Role
	URL  string
}

// Result is the settled outcome of a Request.
type Result struct {
	Role Role
	URL  string
	Data []byte
	Err  error
}

// OK reports whether the fetch produced bytes.
func (r Result) OK() bool {
	return r.Err == nil && len(r.Data) > 0
}

// Options configures a Fetcher.
type Options struct {
	// Timeout bounds each fetch individually. Zero means DefaultTimeout.
	Timeout time.Duration
	// MaxBytes caps each payload. Zero means DefaultMaxBytes.
	MaxBytes int
	// UserAgent is sent with every request when set.
	UserAgent string
	// AllowPrivateHosts permits loopback, private and link-local targets.
	AllowPrivateHosts bool
}

// Fetcher issues image GETs.
type Fetcher struct {
	client   *resty.Client
	timeout  time.Duration
	maxBytes int
	logger   *zap.Logger
}

// New creates a Fetcher. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetResponseBodyLimit(opts.MaxBytes)
	if !opts.AllowPrivateHosts {
		client.SetTransport(publicTransport())
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	return &Fetcher{
		client:   client,
		timeout:  opts.Timeout,
		maxBytes: opts.MaxBytes,
		logger:   logger,
	}
}

// Close releases idle connections.
func (f *Fetcher) Close() {
	f.client.GetClient().CloseIdleConnections()
}

// Fetch downloads one URL under the per-fetch timeout.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if err := checkScheme(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, ErrTooLarge
	}
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{URL: rawURL, Code: resp.StatusCode()}
	}

	body := resp.Body()
	switch {
	case len(body) == 0:
		return nil, ErrEmptyBody
	case len(body) > f.maxBytes:
		return nil, ErrTooLarge
	}
	return body, nil
}

// FetchAll downloads every request concurrently and waits for all of them to
// settle. A failure never cancels the other fetches. Results are returned in
// request order and carry the request's Role.
func (f *Fetcher) FetchAll(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	// No shared context: a failed fetch never cancels the others.
	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			start := time.Now()
			data, err := f.Fetch(ctx, req.URL)
			results[i] = Result{Role: req.Role, URL: req.URL, Data: data, Err: err}

			if err != nil {
				f.logger.Warn("image fetch failed",
					zap.String("operation", "fetch_image"),
					zap.String("role", string(req.Role)),
					zap.String("url", req.URL),
					zap.Error(err))
				return fmt.Errorf("%s image: %w", req.Role, err)
			}
			f.logger.Debug("image fetched",
				zap.String("role", string(req.Role)),
				zap.Int("bytes", len(data)),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		f.logger.Debug("image fetches settled with failures",
			zap.Int("requests", len(reqs)),
			zap.NamedError("first", err))
	}

	return results
}

func checkScheme(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	switch u.Scheme {
	case "http", "https":
		return nil
	}
	return fmt.Errorf("GET %s: %w", rawURL, ErrUnsupportedScheme)
}

// publicTransport dials only public unicast addresses. The check runs on the
// resolved address of every connection, redirects included. No proxy is
// used so the check sees the real target.
func publicTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
		Control:   rejectPrivate,
	}
	return &http.Transport{
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

func rejectPrivate(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !PublicAddr(addr) {
		return fmt.Errorf("%s: %w", addr, ErrForbiddenHost)
	}
	return nil
}

// PublicAddr reports whether addr may be fetched from.
func PublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsValid() &&
		!addr.IsLoopback() &&
		!addr.IsPrivate() &&
		!addr.IsLinkLocalUnicast() &&
		!addr.IsLinkLocalMulticast() &&
		!addr.IsInterfaceLocalMulticast() &&
		!addr.IsUnspecified()
}

// ByRole indexes results by their Role.
func ByRole(results []Result) map[Role]Result {
	m := make(map[Role]Result, len(results))
	for _, r := range results {
		m[r.Role] = r
	}
	return m
}
