package scrape

import (
	"net/url"
	"strings"

	"github.com/scrapperhq/scrapper/internal/db"
)

// searchBaseURL is the fixed search endpoint every compiled query targets.
const searchBaseURL = "https://www.google.com/search"

// siteFilters is the allow-list of applicant-tracking-system domains. Results
// are restricted to these hosts via an ORed site: disjunction.
var siteFilters = []string{
	"lever.co",
	"greenhouse.io",
	"jobs.ashbyhq.com",
	"app.dover.io",
}

// Compile builds the search query and request URL for one alert within a
// window. Pure and deterministic: include terms come out quoted, omit terms
// negated, both in the alert's stored order, followed by the window's
// after/before date bounds.
func Compile(alert db.JobAlert, window Window) (query, requestURL string) {
	var b strings.Builder

	for i, site := range siteFilters {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("site:")
		b.WriteString(site)
	}

	if phrase := strings.TrimSpace(alert.Search); phrase != "" {
		b.WriteString(" ")
		b.WriteString(phrase)
	}

	for _, word := range alert.IncludeWords {
		b.WriteString(` "`)
		b.WriteString(word)
		b.WriteString(`"`)
	}

	for _, word := range alert.OmitWords {
		b.WriteString(" -")
		b.WriteString(word)
	}

	b.WriteString(" after:")
	b.WriteString(window.AfterDate())
	b.WriteString(" before:")
	b.WriteString(window.BeforeDate())

	query = b.String()

	params := url.Values{}
	params.Set("q", query)
	requestURL = searchBaseURL + "?" + params.Encode()

	return query, requestURL
}
