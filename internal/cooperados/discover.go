// Package cooperados turns the BCB "cooperados por cooperativa" extracts
// into the consolidated membership dataset: the content API index is the
// preferred source of download URLs, raw extracts are cleaned per period
// and concatenated under a single header.
package cooperados

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bcbdata/pkg/contracts/domain"
)

// indexItem is one entry of the membership content index.
type indexItem struct {
	URL    string `json:"Url"`
	Titulo string `json:"Titulo"`
	Nome   string `json:"Nome"`
}

// indexPayload is the content API response envelope.
type indexPayload struct {
	Conteudo []indexItem `json:"conteudo"`
}

// Index maps compact period keys (YYYYMM) to absolute download URLs.
type Index map[string]string

// Lookup returns the published URL for a period, when the index has one.
func (idx Index) Lookup(p domain.Period) (string, bool) {
	url, ok := idx[p.Key()]
	return url, ok
}

var sixDigitRun = regexp.MustCompile(`\d{6}`)

// ParseIndex decodes a content API response and keys every entry by its
// reference period. Entries without a URL or without a recognizable period
// are dropped; periods the index does not know fall back to the pattern
// URL at download time.
func ParseIndex(data []byte, base string) (Index, error) {
	var payload indexPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode content index: %w", err)
	}

	idx := make(Index, len(payload.Conteudo))
	for _, item := range payload.Conteudo {
		if item.URL == "" {
			continue
		}
		period, ok := itemPeriod(item)
		if !ok {
			continue
		}
		idx[period.Key()] = absoluteURL(base, item.URL)
	}
	return idx, nil
}

// itemPeriod extracts the reference period of one index entry. Titulo
// usually carries "MM/YYYY", some vintages flip it to "YYYY/MM", and a few
// leave it blank; the first six-digit run of the file name decides then.
func itemPeriod(item indexItem) (domain.Period, bool) {
	if p, ok := parseTitle(item.Titulo); ok {
		return p, true
	}
	if run := sixDigitRun.FindString(item.Nome); run != "" {
		if p, err := domain.ParsePeriodKey(run); err == nil {
			return p, true
		}
	}
	return domain.Period{}, false
}

func parseTitle(title string) (domain.Period, bool) {
	parts := strings.Split(strings.TrimSpace(title), "/")
	if len(parts) != 2 {
		return domain.Period{}, false
	}
	first, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.Period{}, false
	}
	second, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.Period{}, false
	}

	switch {
	case len(parts[0]) == 2 && len(parts[1]) == 4 && first >= 1 && first <= 12:
		return domain.Period{Year: second, Month: first}, true
	case len(parts[0]) == 4 && len(parts[1]) == 2 && second >= 1 && second <= 12:
		return domain.Period{Year: first, Month: second}, true
	}
	return domain.Period{}, false
}

// absoluteURL resolves the index's relative URLs against the portal base.
func absoluteURL(base, url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return strings.TrimRight(base, "/") + url
}
