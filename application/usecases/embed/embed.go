package embed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ryos-app/ryos-server/infrastructure/cache"
	"github.com/ryos-app/ryos-server/infrastructure/config"
	"github.com/ryos-app/ryos-server/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (compatible; ryOS-embed/1.0)"

// CheckResult is the verdict for mode=check.
type CheckResult struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Title   string `json:"title,omitempty"`
}

// ProxyOptions tune a mode=proxy fetch. Year selects a Wayback Machine
// snapshot; Font overrides the document font family.
type ProxyOptions struct {
	Year  string
	Month string
	Font  string
}

// ProxyResult is a fetched upstream document ready to be embedded.
type ProxyResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
	IsHTML      bool
}

// UpstreamError reports a failed upstream fetch. Type is "http_error" for
// non-2xx upstream responses and "connection_error" for network failures.
type UpstreamError struct {
	StatusCode int    `json:"status"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

type EmbedUseCase interface {
	Check(ctx context.Context, rawURL string) (*CheckResult, error)
	Proxy(ctx context.Context, rawURL string, opts ProxyOptions) (*ProxyResult, error)
}

type embedUseCase struct {
	client       *http.Client
	limiter      *rate.Limiter
	verdictCache *cache.Local
	cfg          *config.ProxyConfig
	logger       *logger.Logger
}

func NewEmbedUseCase(cfg *config.ProxyConfig, verdictCache *cache.Local, logger *logger.Logger) EmbedUseCase {
	return &embedUseCase{
		client: &http.Client{
			// No per-client timeout; every fetch is bounded by a context
			// deadline so slow bodies cannot outlive the request budget.
			Timeout: 0,
		},
		limiter:      rate.NewLimiter(rate.Limit(cfg.FetchesPerSecond), cfg.FetchBurst),
		verdictCache: verdictCache,
		cfg:          cfg,
		logger:       logger,
	}
}

func (uc *embedUseCase) Check(ctx context.Context, rawURL string) (*CheckResult, error) {
	target, err := NormalizeTargetURL(rawURL)
	if err != nil {
		return nil, err
	}

	if cached, found := uc.verdictCache.Get(target); found {
		if verdict, ok := cached.(*CheckResult); ok {
			return verdict, nil
		}
	}

	resp, body, err := uc.fetch(ctx, target)
	if err != nil {
		return nil, err
	}

	verdict := uc.inspect(resp, body)

	uc.verdictCache.Set(target, verdict, uc.cfg.VerdictCacheTTL)
	uc.logger.Debug("embed check completed",
		zap.String("url", target),
		zap.Bool("allowed", verdict.Allowed),
		zap.String("reason", verdict.Reason),
	)

	return verdict, nil
}

func (uc *embedUseCase) inspect(resp *http.Response, body []byte) *CheckResult {
	verdict := &CheckResult{Allowed: true}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		verdict.Allowed = false
		verdict.Reason = fmt.Sprintf("upstream responded with HTTP %d", resp.StatusCode)
		return verdict
	}

	if xfo := resp.Header.Get("X-Frame-Options"); xfo != "" && isFrameOptionsBlocked(xfo) {
		verdict.Allowed = false
		verdict.Reason = fmt.Sprintf("X-Frame-Options is set to %s", strings.ToUpper(strings.TrimSpace(xfo)))
	}

	if verdict.Allowed {
		if reason, blocked := checkFrameAncestors(resp.Header.Get("Content-Security-Policy")); blocked {
			verdict.Allowed = false
			verdict.Reason = reason
		}
	}

	if isHTMLContent(resp.Header.Get("Content-Type")) {
		document := string(body)
		verdict.Title = ExtractTitle(document)

		if verdict.Allowed {
			if reason, blocked := FindMetaBlocker(document); blocked {
				verdict.Allowed = false
				verdict.Reason = reason
			}
		}
	}

	return verdict
}

func (uc *embedUseCase) Proxy(ctx context.Context, rawURL string, opts ProxyOptions) (*ProxyResult, error) {
	target, err := NormalizeTargetURL(rawURL)
	if err != nil {
		return nil, err
	}

	fetchURL := target
	if opts.Year != "" {
		fetchURL = BuildWaybackURL(target, opts.Year, opts.Month)
	}

	resp, body, err := uc.fetch(ctx, fetchURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Type:       "http_error",
			Message:    fmt.Sprintf("upstream responded with HTTP %d", resp.StatusCode),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	result := &ProxyResult{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
		IsHTML:      isHTMLContent(contentType),
	}

	if result.IsHTML {
		result.Body = []byte(RewriteHTML(string(body), fetchURL, opts.Font))
	}

	return result, nil
}

// fetch performs the single bounded upstream attempt. There are no retries;
// callers surface the structured error as-is.
func (uc *embedUseCase) fetch(ctx context.Context, target string) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.FetchTimeout)
	defer cancel()

	if err := uc.limiter.Wait(ctx); err != nil {
		return nil, nil, &UpstreamError{
			StatusCode: http.StatusServiceUnavailable,
			Type:       "connection_error",
			Message:    "fetch budget exhausted before the upstream request could start",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid url: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*")

	resp, err := uc.client.Do(req)
	if err != nil {
		uc.logger.Warn("upstream fetch failed", zap.Error(err), zap.String("url", target))
		return nil, nil, &UpstreamError{
			StatusCode: http.StatusServiceUnavailable,
			Type:       "connection_error",
			Message:    fmt.Sprintf("failed to reach upstream: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, uc.cfg.MaxBodyBytes))
	if err != nil {
		uc.logger.Warn("upstream body read failed", zap.Error(err), zap.String("url", target))
		return nil, nil, &UpstreamError{
			StatusCode: http.StatusServiceUnavailable,
			Type:       "connection_error",
			Message:    fmt.Sprintf("failed to read upstream response: %v", err),
		}
	}

	return resp, body, nil
}

func isHTMLContent(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml")
}
