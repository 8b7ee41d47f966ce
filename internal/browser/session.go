package browser

import (
	"fmt"
	"log"
	"os"

	"go-upwork-automation/internal/config"

	"github.com/playwright-community/playwright-go"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Session owns one browser connection and its single active page.
// Attach mode connects to an already-running Chrome over its remote-debugging
// endpoint and leaves the process alive on Close. Launch mode starts an
// isolated Chromium and tears it down completely.
type Session struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	context  playwright.BrowserContext
	Page     playwright.Page
	attached bool
}

// Acquire opens a browser session. With preferAttach it tries the configured
// CDP endpoint first and falls back to launching a standalone Chromium with
// persisted storage state and the stealth patch applied.
func Acquire(cfg *config.Config, preferAttach bool) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	if preferAttach {
		s, err := attach(pw, cfg.CDPEndpoint)
		if err == nil {
			return s, nil
		}
		log.Printf("⚠️ CDP attach failed (%v), launching standalone Chromium", err)
	}

	s, err := launch(pw, cfg)
	if err != nil {
		pw.Stop()
		return nil, err
	}
	return s, nil
}

func attach(pw *playwright.Playwright, endpoint string) (*Session, error) {
	b, err := pw.Chromium.ConnectOverCDP(endpoint)
	if err != nil {
		return nil, fmt.Errorf("cdp connect %s: %w", endpoint, err)
	}

	//reuse the running browser's context if it has one
	var ctx playwright.BrowserContext
	if contexts := b.Contexts(); len(contexts) > 0 {
		ctx = contexts[0]
	} else {
		ctx, err = b.NewContext()
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("new context over cdp: %w", err)
		}
	}

	page, err := ctx.NewPage()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("new page over cdp: %w", err)
	}

	log.Printf("🔌 Connected to Chrome via CDP at %s", endpoint)
	return &Session{pw: pw, browser: b, context: ctx, Page: page, attached: true}, nil
}

func launch(pw *playwright.Playwright, cfg *config.Config) (*Session, error) {
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled", "--no-sandbox"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	opts := playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(defaultUserAgent),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
	}
	if _, statErr := os.Stat(cfg.StorageStatePath); statErr == nil {
		log.Println("💾 Loading saved browser state")
		opts.StorageStatePath = playwright.String(cfg.StorageStatePath)
	}

	ctx, err := b.NewContext(opts)
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	//hide automation fingerprints from page scripts
	if err := ApplyStealth(ctx); err != nil {
		log.Printf("⚠️ Could not apply stealth patch: %v", err)
	}

	//cookie files are optional extras on top of storage state
	if cookies, err := LoadCookies(cfg.CookiesPath); err == nil && len(cookies) > 0 {
		if err := ctx.AddCookies(cookies); err != nil {
			log.Printf("⚠️ Could not add cookies: %v", err)
		} else {
			log.Printf("🍪 Loaded %d cookies", len(cookies))
		}
	}

	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		b.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	log.Println("🚀 Standalone Chromium started")
	return &Session{pw: pw, browser: b, context: ctx, Page: page, attached: false}, nil
}

// Navigate loads url on the active page with a bounded timeout, waiting only
// for DOM content so hydration waits stay the caller's responsibility.
func (s *Session) Navigate(url string, timeoutMs float64) error {
	_, err := s.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(timeoutMs),
	})
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Close releases everything this session acquired. The first error wins;
// secondary close errors are swallowed so teardown always runs to the end.
func (s *Session) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if s.Page != nil {
		keep(s.Page.Close())
	}
	if !s.attached {
		//launch mode owns the context and the browser process
		if s.context != nil {
			keep(s.context.Close())
		}
		if s.browser != nil {
			keep(s.browser.Close())
		}
	}
	if s.pw != nil {
		keep(s.pw.Stop())
	}

	log.Println("🧹 Browser session closed")
	return firstErr
}

// Attached reports whether this session reuses an operator-owned browser.
func (s *Session) Attached() bool {
	return s.attached
}
