package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/metrics"
	"ipwatch/internal/platform/observability"
	"ipwatch/internal/platform/retry"
	"ipwatch/internal/ports"
)

var tracer = observability.Tracer("collector")

type Options struct {
	Attempts          int
	Backoff           time.Duration
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	// FieldTimeout bounds each extraction evaluate.
	FieldTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Attempts:          3,
		Backoff:           2 * time.Second,
		NavigationTimeout: 30 * time.Second,
		SettleDelay:       5 * time.Second,
		FieldTimeout:      10 * time.Second,
	}
}

// Collection is the raw output of one page visit.
type Collection struct {
	Snapshot   domain.Snapshot
	Screenshot []byte // PNG; empty when capture failed
	HTML       string // truncated to domain.MaxHTMLExcerpt
	RawHTML    string
}

type Collector struct {
	browser ports.Browser
	opts    Options
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(browser ports.Browser, opts Options, logger *slog.Logger, m *metrics.Metrics) *Collector {
	def := DefaultOptions()
	if opts.Attempts < 1 {
		opts.Attempts = def.Attempts
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = def.NavigationTimeout
	}
	if opts.FieldTimeout <= 0 {
		opts.FieldTimeout = def.FieldTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{browser: browser, opts: opts, logger: logger.With("component", "collector"), metrics: m}
}

// Collect visits targetURL in a fresh browser session and captures the page.
// Navigation failures are retried; after the last attempt a
// *domain.NavigationError is returned. Extraction failures only blank the
// affected field.
func (c *Collector) Collect(ctx context.Context, targetURL string) (Collection, error) {
	ctx, span := tracer.Start(ctx, "collector.collect")
	defer span.End()
	span.SetAttributes(attribute.String("url", targetURL))

	sess, err := c.browser.Open(ctx)
	if err != nil {
		return Collection{}, fmt.Errorf("open browser session: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			c.logger.Warn("close browser session", "err", err)
		}
	}()

	policy := retry.Constant(c.opts.Attempts, c.opts.Backoff)
	attempts, err := retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		c.metrics.NavigationAttempt()
		err := sess.Navigate(ctx, targetURL, c.opts.NavigationTimeout)
		if err != nil {
			c.logger.Warn("navigation failed", "url", targetURL, "attempt", attempt, "max_attempts", c.opts.Attempts, "err", err)
		}
		return err
	})
	if err != nil {
		span.RecordError(err)
		return Collection{}, &domain.NavigationError{URL: targetURL, Attempts: attempts, Err: err}
	}

	if err := sleep(ctx, c.opts.SettleDelay); err != nil {
		return Collection{}, err
	}

	shot, err := sess.Screenshot(ctx)
	if err != nil {
		c.logger.Warn("screenshot failed", "url", targetURL, "err", err)
		shot = nil
	}

	snap := c.extract(ctx, sess)
	html, err := sess.HTML(ctx)
	if err != nil {
		c.logger.Warn("html capture failed", "url", targetURL, "err", err)
		html = ""
	}
	snap.HTMLExcerpt = truncate(html, domain.MaxHTMLExcerpt)
	if snap.URL == "" {
		snap.URL = targetURL
	}

	return Collection{Snapshot: snap, Screenshot: shot, HTML: snap.HTMLExcerpt, RawHTML: html}, nil
}

func (c *Collector) extract(ctx context.Context, sess ports.Session) domain.Snapshot {
	var s domain.Snapshot
	c.field(ctx, sess, "title", exprTitle, &s.PageTitle)
	c.field(ctx, sess, "url", exprURL, &s.URL)
	c.field(ctx, sess, "metaDescription", exprMetaDescription, &s.MetaDescription)
	c.field(ctx, sess, "metaKeywords", exprMetaKeywords, &s.MetaKeywords)
	c.field(ctx, sess, "headings", exprHeadings, &s.Headings)
	c.field(ctx, sess, "images", exprImages, &s.Images)
	c.field(ctx, sess, "links", exprLinks, &s.Links)
	c.field(ctx, sess, "text", exprText, &s.VisibleText)
	c.field(ctx, sess, "pageStats", exprPageStats, &s.PageStats)

	var blocks []string
	c.field(ctx, sess, "structuredData", exprStructuredData, &blocks)
	s.StructuredData = parseJSONLD(blocks)

	s.Images = capImages(s.Images)
	s.Links = capLinks(s.Links)
	if s.Headings == nil {
		s.Headings = []domain.Heading{}
	}
	return s
}

// field evaluates one expression into out. On failure out is reset to its
// zero value.
func (c *Collector) field(ctx context.Context, sess ports.Session, name, expr string, out any) {
	fctx, cancel := context.WithTimeout(ctx, c.opts.FieldTimeout)
	defer cancel()
	if err := sess.Evaluate(fctx, expr, out); err != nil {
		c.logger.Warn("field extraction failed", "field", name, "err", err)
		resetZero(out)
	}
}

func resetZero(out any) {
	switch p := out.(type) {
	case *string:
		*p = ""
	case *[]domain.Heading:
		*p = nil
	case *[]domain.Image:
		*p = nil
	case *[]domain.Link:
		*p = nil
	case *[]string:
		*p = nil
	case *domain.PageStats:
		*p = domain.PageStats{}
	}
}

func parseJSONLD(blocks []string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(blocks))
	for _, b := range blocks {
		b = strings.TrimSpace(b)
		if b == "" || !json.Valid([]byte(b)) {
			continue
		}
		out = append(out, json.RawMessage(b))
	}
	return out
}

func capImages(in []domain.Image) []domain.Image {
	out := make([]domain.Image, 0, min(len(in), domain.MaxImages))
	for _, img := range in {
		if img.Src == "" || strings.Contains(img.Src, "data:") {
			continue
		}
		if len(out) == domain.MaxImages {
			break
		}
		out = append(out, img)
	}
	return out
}

func capLinks(in []domain.Link) []domain.Link {
	out := make([]domain.Link, 0, min(len(in), domain.MaxLinks))
	for _, l := range in {
		if strings.TrimSpace(l.Text) == "" {
			continue
		}
		if len(out) == domain.MaxLinks {
			break
		}
		out = append(out, l)
	}
	return out
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
