package scrape

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapperhq/scrapper/internal/db"
)

func testWindow(t *testing.T) Window {
	t.Helper()
	after, err := time.Parse("2006-01-02", "2024-03-01")
	require.NoError(t, err)
	return Window{After: after, Before: after.AddDate(0, 0, 1)}
}

func TestCompile_EndToEnd(t *testing.T) {
	alert := db.JobAlert{
		Search:       "backend engineer",
		IncludeWords: []string{"remote"},
		OmitWords:    []string{"intern"},
	}

	query, requestURL := Compile(alert, testWindow(t))

	assert.Contains(t, query, "site:lever.co | site:greenhouse.io | site:jobs.ashbyhq.com | site:app.dover.io")
	assert.Contains(t, query, "backend engineer")
	assert.Contains(t, query, `"remote"`)
	assert.Contains(t, query, "-intern")
	assert.Contains(t, query, "after:2024-03-01")
	assert.Contains(t, query, "before:2024-03-02")

	parsed, err := url.Parse(requestURL)
	require.NoError(t, err)
	assert.Equal(t, "www.google.com", parsed.Host)
	assert.Equal(t, "/search", parsed.Path)
	assert.Equal(t, query, parsed.Query().Get("q"))
}

func TestCompile_IncludeWordsQuotedInOrder(t *testing.T) {
	alert := db.JobAlert{
		Search:       "platform engineer",
		IncludeWords: []string{"golang", "kubernetes", "remote"},
	}

	query, _ := Compile(alert, testWindow(t))

	first := strings.Index(query, `"golang"`)
	second := strings.Index(query, `"kubernetes"`)
	third := strings.Index(query, `"remote"`)
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	require.NotEqual(t, -1, third)
	assert.Less(t, first, second)
	assert.Less(t, second, third)
}

func TestCompile_OmitWordsNegatedInOrder(t *testing.T) {
	alert := db.JobAlert{
		Search:    "data engineer",
		OmitWords: []string{"intern", "senior"},
	}

	query, _ := Compile(alert, testWindow(t))

	first := strings.Index(query, "-intern")
	second := strings.Index(query, "-senior")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestCompile_NoOmitWordsNoNegationMarker(t *testing.T) {
	alert := db.JobAlert{Search: "frontend developer"}

	query, _ := Compile(alert, testWindow(t))

	// The only dashes should come from the date clauses.
	stripped := strings.ReplaceAll(query, "2024-03-01", "")
	stripped = strings.ReplaceAll(stripped, "2024-03-02", "")
	assert.NotContains(t, stripped, "-")
}

func TestCompile_EmptySearchPhrase(t *testing.T) {
	query, _ := Compile(db.JobAlert{}, testWindow(t))

	assert.True(t, strings.HasPrefix(query, "site:lever.co"))
	assert.Contains(t, query, "after:2024-03-01")
	assert.Contains(t, query, "before:2024-03-02")
}

func TestCompile_URLEncodesQuery(t *testing.T) {
	alert := db.JobAlert{Search: "c++ developer"}

	_, requestURL := Compile(alert, testWindow(t))

	assert.NotContains(t, requestURL, " ")
	parsed, err := url.Parse(requestURL)
	require.NoError(t, err)
	assert.Contains(t, parsed.Query().Get("q"), "c++ developer")
}

func TestCompile_Deterministic(t *testing.T) {
	alert := db.JobAlert{
		Search:       "sre",
		IncludeWords: []string{"remote"},
		OmitWords:    []string{"contract"},
	}
	w := testWindow(t)

	q1, u1 := Compile(alert, w)
	q2, u2 := Compile(alert, w)
	assert.Equal(t, q1, q2)
	assert.Equal(t, u1, u2)
}
