package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"ipwatch/internal/ports"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	ViewportWidth    = 1920
	ViewportHeight   = 1080

	actionTimeout = 30 * time.Second
)

// stealthScript runs before any page script and hides automation markers.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
for (const k of Object.keys(window)) { if (k.startsWith('cdc_')) { try { delete window[k]; } catch (e) {} } }`

type Options struct {
	ExecPath  string
	Headless  bool
	UserAgent string
}

// Chrome launches one headless Chrome process and hands out a new tab per session.
type Chrome struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	ua       string
}

func NewChrome(ctx context.Context, opts Options) *Chrome {
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(ua),
		chromedp.WindowSize(ViewportWidth, ViewportHeight),
		chromedp.NoSandbox,
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	return &Chrome{allocCtx: allocCtx, cancel: cancel, ua: ua}
}

// Close stops the browser process.
func (c *Chrome) Close() { c.cancel() }

func (c *Chrome) Open(ctx context.Context) (ports.Session, error) {
	tabCtx, cancel := chromedp.NewContext(c.allocCtx)
	// The first Run starts the target and must not carry a deadline.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start tab: %w", err)
	}
	s := &session{ctx: tabCtx, cancel: cancel}
	err := s.run(ctx, actionTimeout,
		chromedp.EmulateViewport(ViewportWidth, ViewportHeight),
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-US,en;q=0.9"}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("prepare tab: %w", err)
	}
	return s, nil
}

type session struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (s *session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	rctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(rctx, actions...)
}

func (s *session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return s.run(ctx, timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (s *session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	// quality 100 captures PNG
	if err := s.run(ctx, actionTimeout, chromedp.FullScreenshot(&buf, 100)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (s *session) Evaluate(ctx context.Context, expr string, out any) error {
	return s.run(ctx, actionTimeout, chromedp.Evaluate(expr, out))
}

func (s *session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, actionTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (s *session) Close() error {
	s.cancel()
	return nil
}
