package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"mandibot/internal/logging"
)

// waitReady blocks until the document reports readyState "complete", then
// waits the settle delay so WebForms postback scripts finish rewriting the
// DOM. Polling beats rod's load event here: postbacks replace the document
// without a fresh navigation.
func (s *session) waitReady(ctx context.Context, cfg Config) error {
	deadline := time.Now().Add(cfg.navTimeout())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.page.Eval(`() => document.readyState`)
		if err == nil && res.Value.Str() == "complete" {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("page not ready after %s", cfg.navTimeout())
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(cfg.settleDelay()):
	}
	return nil
}

// interact performs one action against a selector: wait for presence, wait
// until interactable, then re-acquire a fresh handle and act on it. The
// re-acquire step is what survives WebForms postbacks; the handle that was
// waited on is frequently stale by the time the action runs.
func (s *session) interact(cfg Config, sel string, act func(el *rod.Element) error) error {
	el, err := s.page.Timeout(cfg.elementTimeout()).Element(sel)
	if err != nil {
		return fmt.Errorf("element %s: %w", sel, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("element %s not visible: %w", sel, err)
	}
	if _, err := el.WaitInteractable(); err != nil {
		return fmt.Errorf("element %s not interactable: %w", sel, err)
	}

	fresh, err := s.page.Element(sel)
	if err != nil {
		return fmt.Errorf("re-acquire %s: %w", sel, err)
	}
	if err := act(fresh); err != nil {
		return fmt.Errorf("interact %s: %w", sel, err)
	}
	return nil
}

// click clicks the first element matching sel.
func (s *session) click(cfg Config, sel string) error {
	return s.interact(cfg, sel, func(el *rod.Element) error {
		return el.Click(proto.InputMouseButtonLeft, 1)
	})
}

// selectByText picks the <option> whose visible text matches.
func (s *session) selectByText(cfg Config, sel, text string) error {
	return s.interact(cfg, sel, func(el *rod.Element) error {
		return el.Select([]string{text}, true, rod.SelectorTypeText)
	})
}

// selectByIndex picks the <option> at the given position and fires the
// change event the portal's postback machinery listens for.
func (s *session) selectByIndex(cfg Config, sel string, index int) error {
	return s.interact(cfg, sel, func(el *rod.Element) error {
		_, err := el.Eval(`(i) => {
			this.selectedIndex = i;
			this.dispatchEvent(new Event('change', { bubbles: true }));
		}`, index)
		return err
	})
}

// clearAndType empties a text input and types the value.
func (s *session) clearAndType(cfg Config, sel, value string) error {
	return s.interact(cfg, sel, func(el *rod.Element) error {
		if _, err := el.Eval(`() => { this.value = '' }`); err != nil {
			return err
		}
		return el.Input(value)
	})
}

// selectOptions returns the visible text of every <option> under sel.
func (s *session) selectOptions(cfg Config, sel string) ([]string, error) {
	el, err := s.page.Timeout(cfg.elementTimeout()).Element(sel)
	if err != nil {
		return nil, fmt.Errorf("element %s: %w", sel, err)
	}
	res, err := el.Eval(`() => Array.from(this.options).map(o => o.text)`)
	if err != nil {
		return nil, fmt.Errorf("read options of %s: %w", sel, err)
	}
	var options []string
	for _, v := range res.Value.Arr() {
		if text := strings.TrimSpace(v.Str()); text != "" {
			options = append(options, text)
		}
	}
	return options, nil
}

// dismissPopup closes the portal's on-load advisory dialog when present.
// Its absence is not an error.
func (s *session) dismissPopup() {
	popup, err := s.page.Timeout(3 * time.Second).Element(".popup-onload")
	if err != nil {
		return
	}
	closeBtn, err := popup.Element(".close")
	if err != nil {
		logging.ScraperDebug("popup present but close button missing: %v", err)
		return
	}
	if err := closeBtn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		logging.ScraperDebug("popup close click failed: %v", err)
		return
	}
	logging.ScraperDebug("dismissed on-load popup")
}

// refresh reloads the page and waits for it to settle again.
func (s *session) refresh(ctx context.Context, cfg Config) error {
	if err := s.page.Reload(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return s.waitReady(ctx, cfg)
}
