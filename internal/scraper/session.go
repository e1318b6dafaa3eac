package scraper

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"mandibot/internal/logging"
)

// session owns one throwaway Chrome instance. Sessions are never reused
// across price acquisitions; a fresh browser per query avoids carrying
// poisoned WebForms viewstate from a failed run into the next one.
type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

// newSession launches Chrome, connects, and prepares a single page with the
// configured viewport and pinned user agent. On any failure everything
// already started is torn down before returning.
func newSession(ctx context.Context, cfg Config) (*session, error) {
	l := launcher.New().Headless(cfg.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	s := &session{launcher: l, browser: browser}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("create page: %w", err)
	}
	s.page = page

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.viewportWidth(),
		Height:            cfg.viewportHeight(),
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		s.close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}
	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent: userAgent,
	}).Call(page); err != nil {
		s.close()
		return nil, fmt.Errorf("set user agent: %w", err)
	}

	logging.ScraperDebug("browser session started (headless=%v)", cfg.Headless)
	return s, nil
}

// close tears the session down. Safe to call more than once and on partially
// constructed sessions.
func (s *session) close() {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
		s.launcher = nil
	}
}
