package scrape

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Structural selectors for the search results page. This is the entire
// integration surface with the upstream source; expect these to need
// maintenance as the page's markup evolves.
const (
	titleSelector = "h3.LC20lb.MBeuO.DKV0Md"
	linkSelector  = ".MjjYud a"
	siteSelector  = "a span.VuuXrf"
)

// JobRecord is one posting pulled out of a rendered page.
type JobRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Site  string `json:"site"`
}

// Extract parses job records out of rendered HTML. Titles are the canonical
// element set: the output has exactly one record per title match. Link and
// site are companion fields taken by position when present and left empty
// when their selector set is shorter; the three sets are not guaranteed to
// have equal cardinality. Zero title matches is not an error, it yields an
// empty result.
func Extract(html string) ([]JobRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var titles []string
	doc.Find(titleSelector).Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(s.Text()))
	})
	if len(titles) == 0 {
		return nil, nil
	}

	var links []string
	doc.Find(linkSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links = append(links, href)
	})

	var sites []string
	doc.Find(siteSelector).Each(func(_ int, s *goquery.Selection) {
		sites = append(sites, strings.TrimSpace(s.Text()))
	})

	records := make([]JobRecord, len(titles))
	for i, title := range titles {
		records[i] = JobRecord{
			Title: title,
			URL:   at(links, i),
			Site:  at(sites, i),
		}
	}

	return records, nil
}

// at returns values[i] or "" when i is out of range.
func at(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}
