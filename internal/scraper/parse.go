package scraper

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"mandibot/internal/market"
)

// priceTableIDs are tried in order; the portal has shipped the results grid
// under each of these ids at different times.
var priceTableIDs = []string{"cphBody_GridPriceData", "DataGrid1", "gvPriceData"}

// Column offsets within a results row.
const (
	colMarketCheck = 1
	colMinPrice    = 6
	colMaxPrice    = 7
	colModalPrice  = 8
)

// parsePriceTable extracts price rows for one market from a results page.
// The header row is skipped; a data row must have at least 8 cells with a
// non-empty market column that is not the repeated "Market" header. Prices
// that do not parse as numbers are kept as nil so the aggregator can still
// count the market while excluding them from averages.
func parsePriceTable(pageHTML, marketName, commodityName string, date time.Time) []market.PriceRow {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return nil
	}
	table := findTableByID(doc, priceTableIDs)
	if table == nil {
		return nil
	}

	var rows []market.PriceRow
	trs := collectElements(table, "tr")
	for _, tr := range trs[min(1, len(trs)):] {
		cells := cellTexts(tr)
		if len(cells) <= colMaxPrice {
			continue
		}
		if cells[colMarketCheck] == "" || cells[colMarketCheck] == "Market" {
			continue
		}
		var modal *float64
		if len(cells) > colModalPrice {
			modal = parsePrice(cells[colModalPrice])
		}
		d := date
		rows = append(rows, market.PriceRow{
			Market:     marketName,
			Commodity:  commodityName,
			MinPrice:   parsePrice(cells[colMinPrice]),
			MaxPrice:   parsePrice(cells[colMaxPrice]),
			ModalPrice: modal,
			Date:       &d,
		})
	}
	return rows
}

// hasPriceTable reports whether the page contains any known results grid.
func hasPriceTable(pageHTML string) bool {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return false
	}
	return findTableByID(doc, priceTableIDs) != nil
}

func findTableByID(n *html.Node, ids []string) *html.Node {
	if n.Type == html.ElementNode && n.Data == "table" {
		for _, attr := range n.Attr {
			if attr.Key != "id" {
				continue
			}
			for _, id := range ids {
				if attr.Val == id {
					return n
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findTableByID(c, ids); found != nil {
			return found
		}
	}
	return nil
}

func collectElements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func cellTexts(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			cells = append(cells, strings.TrimSpace(nodeText(c)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func parsePrice(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
