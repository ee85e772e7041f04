package redirect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sundayezeilo/qrdirect/internal/errx"
)

const (
	// DefaultStoreTimeout bounds a single store read; a timeout is treated
	// the same as an unreachable store.
	DefaultStoreTimeout = 2 * time.Second
)

// Resolver translates one short code from an inbound request into a redirect
// decision. It is stateless: every resolution re-reads the store, trading
// latency for freshness, so operator changes take effect on the next scan.
type Resolver struct {
	store       Store
	codes       map[string]struct{}
	fallbackURL string
	policy      MissingPolicy
	timeout     time.Duration
	logger      *slog.Logger
}

// ResolverConfig holds configuration for the resolver.
type ResolverConfig struct {
	Store        Store
	Codes        []string // closed set of valid short codes
	FallbackURL  string   // static fallback destination, absolute URL
	Policy       MissingPolicy
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

// NewResolver creates a resolver. The code set, fallback destination and
// policy are fixed for the life of the instance; only the stored mapping is
// mutable at runtime.
func NewResolver(cfg ResolverConfig) (*Resolver, error) {
	if cfg.Store == nil {
		return nil, errors.New("resolver: store is required")
	}
	if len(cfg.Codes) == 0 {
		return nil, errors.New("resolver: at least one valid short code is required")
	}
	if !isAbsoluteHTTPURL(cfg.FallbackURL) {
		return nil, fmt.Errorf("resolver: fallback destination %q is not an absolute http(s) URL", cfg.FallbackURL)
	}

	policy := cfg.Policy
	if policy == "" {
		policy = PolicyFallback
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("resolver: unknown missing policy %q", policy)
	}

	timeout := cfg.StoreTimeout
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	codes := make(map[string]struct{}, len(cfg.Codes))
	for _, c := range cfg.Codes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		codes[c] = struct{}{}
	}
	if len(codes) == 0 {
		return nil, errors.New("resolver: code set contains only blank entries")
	}

	return &Resolver{
		store:       cfg.Store,
		codes:       codes,
		fallbackURL: cfg.FallbackURL,
		policy:      policy,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Policy returns the missing-mapping policy this resolver was built with.
func (r *Resolver) Policy() MissingPolicy {
	return r.policy
}

// Resolve decides where the given short code should send the visitor.
// Codes outside the known set are rejected before any store access. Store
// failures never escape as errors; they are folded into the decision
// according to the configured policy.
func (r *Resolver) Resolve(ctx context.Context, code string) Decision {
	if _, ok := r.codes[code]; !ok {
		return Decision{Kind: DecisionNotFound}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	mapping, err := r.store.Read(ctx)
	if err != nil {
		if errx.KindOf(err) == errx.NotFound {
			return r.missing()
		}
		r.logger.WarnContext(ctx, "redirect store read failed",
			"code", code,
			"error", err.Error(),
			"policy", string(r.policy),
		)
		return r.unavailable()
	}

	dest := strings.TrimSpace(mapping[code])
	if dest == "" {
		return r.missing()
	}
	if !isAbsoluteHTTPURL(dest) {
		// A broken stored value degrades to the missing-mapping path
		// rather than producing a broken redirect.
		r.logger.WarnContext(ctx, "stored destination is not an absolute http(s) URL",
			"code", code,
			"destination", dest,
		)
		return r.missing()
	}

	return Decision{Kind: DecisionRedirect, Location: dest}
}

func (r *Resolver) missing() Decision {
	if r.policy == PolicyNotFound {
		return Decision{Kind: DecisionNotFound}
	}
	return Decision{Kind: DecisionFallback, Location: r.fallbackURL}
}

func (r *Resolver) unavailable() Decision {
	if r.policy == PolicyNotFound {
		return Decision{Kind: DecisionUnavailable}
	}
	return Decision{Kind: DecisionFallback, Location: r.fallbackURL}
}

// isAbsoluteHTTPURL reports whether raw parses as an absolute http(s) URL
// with a host.
func isAbsoluteHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}
