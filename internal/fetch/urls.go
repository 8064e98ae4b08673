package fetch

import (
	"fmt"
	"strings"

	"bcbdata/pkg/contracts/domain"
)

// EstbanURLs returns the candidate download URLs for one period under the
// configured publication root, in order of likelihood. The naming
// convention changed over time: January 2023 went out as a bare CSV,
// February 2023 onward as .csv.zip, and older months as .ZIP or .zip.
func EstbanURLs(base string, p domain.Period) []string {
	prefix := fmt.Sprintf("%s/%s_ESTBAN", strings.TrimRight(base, "/"), p.Key())
	if p.Year == 2023 && p.Month == 1 {
		return []string{
			prefix + ".csv",
			prefix + ".csv.zip",
			prefix + ".ZIP",
			prefix + ".zip",
		}
	}
	return []string{
		prefix + ".csv.zip",
		prefix + ".ZIP",
		prefix + ".zip",
	}
}

// MembershipPatternURL returns the direct download URL for one period,
// used when the listing API does not know the period. File names switched
// casing with the cutover publication (2019-04 in production).
func MembershipPatternURL(base string, p, cutover domain.Period) string {
	name := p.Key() + "CCOCooperativa.zip"
	if !p.Before(cutover) {
		name = p.Key() + "CCOCOOPERATIVA.zip"
	}
	return strings.TrimRight(base, "/") + "/" + name
}
