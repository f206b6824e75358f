package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/artboard/pkg/cache"
	apperr "github.com/matzehuels/artboard/pkg/errors"
	"github.com/matzehuels/artboard/pkg/httputil"
	"github.com/matzehuels/artboard/pkg/observability"
)

// Defaults for [Options].
const (
	DefaultAttempts = 3
	DefaultDelay    = time.Second
	DefaultCacheTTL = 24 * time.Hour

	// maxHeaderBytes bounds how much of the body is read to decode the
	// image header.
	maxHeaderBytes = 1 << 20
)

// Info is the resolved metadata of an image.
type Info struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Options configures a [Loader]. Zero values select the defaults.
type Options struct {
	Client   *http.Client
	Cache    cache.Cache
	Keyer    cache.Keyer
	CacheTTL time.Duration
	Attempts int
	Delay    time.Duration
	// Origin, when set, is sent with every request and the response must
	// allow it.
	Origin string
	Logger *log.Logger
}

// Loader fetches and decodes image headers.
type Loader struct {
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	delay    time.Duration
	origin   string
	logger   *log.Logger
}

// NewLoader returns a loader configured by opts.
func NewLoader(opts Options) *Loader {
	l := &Loader{
		client:   opts.Client,
		cache:    opts.Cache,
		keyer:    opts.Keyer,
		ttl:      opts.CacheTTL,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		origin:   opts.Origin,
		logger:   opts.Logger,
	}
	if l.client == nil {
		l.client = httputil.NewHTTPClient()
	}
	if l.cache == nil {
		l.cache = cache.NewNullCache()
	}
	if l.keyer == nil {
		l.keyer = cache.NewDefaultKeyer()
	}
	if l.ttl <= 0 {
		l.ttl = DefaultCacheTTL
	}
	if l.attempts <= 0 {
		l.attempts = DefaultAttempts
	}
	if l.delay <= 0 {
		l.delay = DefaultDelay
	}
	if l.logger == nil {
		l.logger = log.Default()
	}
	return l
}

// Load resolves url. Failures are RESOURCE_LOAD errors wrapping a
// [*LoadError].
func (l *Loader) Load(ctx context.Context, url string) (Info, error) {
	if err := apperr.ValidateURL(url); err != nil {
		return Info{}, apperr.Wrap(apperr.ErrCodeResourceLoad,
			&LoadError{URL: url, Class: ClassOther, Err: err}, "load image")
	}

	key := l.keyer.AssetKey(url)
	var info Info
	if err := cache.GetJSON(ctx, l.cache, key, &info); err == nil {
		return info, nil
	}

	start := time.Now()
	hooks := observability.Asset()
	err := httputil.RetryAttempts(ctx, l.attempts, l.delay, func(attempt int) error {
		hooks.OnLoadAttempt(ctx, url, attempt+1)
		got, err := l.fetch(ctx, url)
		if err != nil {
			l.logger.Debug("image load attempt failed", "url", url, "attempt", attempt+1, "of", l.attempts, "err", err)
			return &httputil.RetryableError{Err: err}
		}
		info = got
		return nil
	})
	if err != nil {
		le, ok := AsLoadError(err)
		if !ok {
			le = &LoadError{URL: url, Class: ClassNetwork, Err: err}
		}
		err = apperr.Wrap(apperr.ErrCodeResourceLoad, le, "load image")
		hooks.OnLoadComplete(ctx, url, time.Since(start), err)
		return Info{}, err
	}
	hooks.OnLoadComplete(ctx, url, time.Since(start), nil)

	if err := cache.SetJSON(ctx, l.cache, key, info, l.ttl); err != nil {
		l.logger.Debug("asset cache write failed", "url", url, "err", err)
	}
	return info, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Info{}, &LoadError{URL: url, Class: ClassOther, Err: err}
	}
	if l.origin != "" {
		req.Header.Set("Origin", l.origin)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return Info{}, &LoadError{URL: url, Class: ClassNetwork, Err: err}
	}
	defer resp.Body.Close()

	if le := classifyStatus(url, resp.StatusCode); le != nil {
		return Info{}, le
	}
	if l.origin != "" && !allowsOrigin(resp.Header.Get("Access-Control-Allow-Origin"), l.origin) {
		return Info{}, &LoadError{
			URL: url, Class: ClassCrossOrigin, Status: resp.StatusCode,
			Err: fmt.Errorf("origin %s not allowed", l.origin),
		}
	}

	cfg, format, err := image.DecodeConfig(io.LimitReader(resp.Body, maxHeaderBytes))
	if err != nil {
		class := ClassOther
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			class = ClassNetwork
		}
		return Info{}, &LoadError{URL: url, Class: class, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return Info{URL: url, Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

func classifyStatus(url string, code int) *LoadError {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return &LoadError{URL: url, Class: ClassNotFound, Status: code, Err: fmt.Errorf("status %d", code)}
	case code >= 500 || code == http.StatusTooManyRequests || code == http.StatusRequestTimeout:
		return &LoadError{URL: url, Class: ClassNetwork, Status: code, Err: fmt.Errorf("status %d", code)}
	default:
		return &LoadError{URL: url, Class: ClassOther, Status: code, Err: fmt.Errorf("status %d", code)}
	}
}

func allowsOrigin(header, origin string) bool {
	return header == "*" || header == origin
}
