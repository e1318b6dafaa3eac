package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mandibot/internal/logging"
	"mandibot/internal/market"
	"mandibot/internal/temporal"
)

// Portal element ids.
const (
	selCommodity   = "#ddlCommodity"
	selState       = "#ddlState"
	selDate        = "#txtDate"
	selGo          = "#btnGo"
	selMarket      = "#ddlMarket"
	selResultsGrid = "#cphBody_GridPriceData, #DataGrid1, #gvPriceData"
)

// Query names a single price acquisition.
type Query struct {
	CommodityName string    // portal display name, e.g. "Wheat"
	City          string    // district city, lower case, e.g. "agra"
	Date          time.Time // requested price date
}

// Result is the outcome of an acquisition. Synthetic is set when no live row
// could be scraped and the deterministic stand-in dataset was used instead.
type Result struct {
	Rows      []market.PriceRow
	Synthetic bool
}

// Engine drives the portal end to end for one query at a time. It is
// stateless between queries; every AcquirePrices call gets a fresh browser.
type Engine struct {
	cfg   Config
	retry RetryConfig
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, retry: cfg.retry()}
}

// AcquirePrices scrapes the portal for every market of the query's city and
// returns the combined rows. Scraping failures degrade to the synthetic
// dataset rather than an error; only context cancellation aborts outright.
func (e *Engine) AcquirePrices(ctx context.Context, q Query) (Result, error) {
	timer := logging.StartTimer(logging.CategoryScraper, "acquire prices")
	defer timer.Stop()

	rows, err := e.scrape(ctx, q)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, err
		}
		logging.ScraperError("live scrape failed for %s/%s: %v", q.CommodityName, q.City, err)
	}
	if len(rows) == 0 {
		logging.ScraperWarn("no live rows for %s in %s, serving synthetic data", q.CommodityName, q.City)
		return Result{Rows: syntheticRows(q.CommodityName, q.City, q.Date), Synthetic: true}, nil
	}
	return Result{Rows: rows}, nil
}

func (e *Engine) scrape(ctx context.Context, q Query) ([]market.PriceRow, error) {
	s, err := newSession(ctx, e.cfg)
	if err != nil {
		return nil, err
	}
	defer s.close()

	if err := s.page.Timeout(e.cfg.navTimeout()).Navigate(e.cfg.endpoint()); err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if err := s.waitReady(ctx, e.cfg); err != nil {
		return nil, err
	}
	logging.Scraper("loaded %s", e.cfg.endpoint())
	s.dismissPopup()

	dateStr := q.Date.Format(temporal.ExternalLayout)
	steps := []struct {
		name string
		fn   func() error
	}{
		{"select commodity", func() error { return s.selectByText(e.cfg, selCommodity, q.CommodityName) }},
		{"select state", func() error { return s.selectByText(e.cfg, selState, stateName) }},
		{"set date", func() error { return s.clearAndType(e.cfg, selDate, dateStr) }},
		{"load markets", func() error { return s.click(e.cfg, selGo) }},
	}
	for _, step := range steps {
		err := withRetry(ctx, e.retry, step.name, func(int) error { return step.fn() })
		if err != nil {
			return nil, err
		}
	}
	if err := s.waitReady(ctx, e.cfg); err != nil {
		return nil, err
	}

	markets, err := e.cityMarkets(ctx, s, q.City)
	if err != nil {
		return nil, err
	}

	var rows []market.PriceRow
	succeeded := 0
	for _, m := range markets {
		marketRows, err := e.scrapeMarket(ctx, s, q, m)
		if err != nil {
			logging.ScraperWarn("skipping market %s: %v", m.Name, err)
			continue
		}
		if len(marketRows) == 0 {
			logging.ScraperDebug("no rows for market %s", m.Name)
			continue
		}
		rows = append(rows, marketRows...)
		succeeded++
		logging.Scraper("market %s yielded %d rows", m.Name, len(marketRows))
	}
	logging.Scraper("scraped %d/%d markets, %d rows total", succeeded, len(markets), len(rows))
	return rows, nil
}

// cityMarkets reads the market dropdown and narrows it to the query's city.
func (e *Engine) cityMarkets(ctx context.Context, s *session, city string) ([]marketOption, error) {
	var texts []string
	err := withRetry(ctx, e.retry, "read market options", func(int) error {
		var err error
		texts, err = s.selectOptions(e.cfg, selMarket)
		return err
	})
	if err != nil {
		return nil, err
	}

	options := dropdownOptions(texts)
	if len(options) == 0 {
		return nil, fmt.Errorf("market dropdown is empty")
	}
	markets := filterMarketsByCity(options, city, e.cfg.maxMarkets())
	names := make([]string, len(markets))
	for i, m := range markets {
		names[i] = m.Name
	}
	logging.Scraper("selected %d markets for %s: %v", len(markets), city, names)
	return markets, nil
}

// scrapeMarket selects one market, submits, waits for the results grid, and
// parses it. Between failed attempts the page is reloaded; a postback that
// died halfway leaves the form unusable for the next try otherwise.
func (e *Engine) scrapeMarket(ctx context.Context, s *session, q Query, m marketOption) ([]market.PriceRow, error) {
	var rows []market.PriceRow
	err := withRetry(ctx, e.retry, "scrape market "+m.Name, func(attempt int) error {
		if attempt > 0 {
			if err := s.refresh(ctx, e.cfg); err != nil {
				return err
			}
		}
		if err := s.waitReady(ctx, e.cfg); err != nil {
			return err
		}
		if err := s.selectByIndex(e.cfg, selMarket, m.Index); err != nil {
			return err
		}
		if err := s.click(e.cfg, selGo); err != nil {
			return err
		}
		if _, err := s.page.Timeout(e.cfg.elementTimeout()).Element(selResultsGrid); err != nil {
			return fmt.Errorf("results grid: %w", err)
		}
		if err := s.waitReady(ctx, e.cfg); err != nil {
			return err
		}

		pageHTML, err := s.page.HTML()
		if err != nil {
			return fmt.Errorf("read page: %w", err)
		}
		rows = parsePriceTable(pageHTML, m.Name, q.CommodityName, q.Date)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
