package follower

/*
Follower (C7) - pulls candidate outbound links from a downloaded HTML
body. Runs unconditionally once a download succeeds, regardless of
whether the page carried an extractable recipe: spec.md §4.8 step 4
treats follow as independent of parse outcome.
*/

import (
	"net/url"
	"regexp"
	"strings"
)

// anchorRegexp finds opening anchor tags; capped at 2000 characters
// per spec.md §4.7 step 1 to bound pathological input. Go's regexp
// rejects repeat counts above 1000, so the cap is written as two
// consecutive lazy runs of at most 1000 characters each.
var anchorRegexp = regexp.MustCompile(`(?is)<a.{0,1000}?.{0,1000}?>`)

// hrefRegexp extracts the quoted href value out of an anchor tag,
// capped at 500 characters per spec.md §4.7 step 1.
var hrefRegexp = regexp.MustCompile(`href\s?=\s?"([^"]{0,500})"`)

const wprmPrintSuffix = "/wprm_print"

// Follow extracts outbound link candidates from body. sourceURL is the
// absolute URL the body was downloaded from; "/"-prefixed hrefs are
// resolved as "https://" + sourceURL's host (not its registrable
// domain: the original page's actual host, subdomain included, is what
// a root-relative href like "/recipe/x" resolves against). Other
// relative hrefs are not resolved and are dropped as non-absolute.
func Follow(body []byte, sourceURL string) []string {
	parsed, err := url.Parse(sourceURL)
	if err != nil || parsed.Host == "" {
		return nil
	}
	// spec.md §4.7 step 2 and the original's follower.rs both prepend a
	// hardcoded "https://", never the source page's own scheme.
	sourcePrefix := "https://" + parsed.Host

	contents := string(body)
	seen := make(map[string]struct{})
	var out []string

	for _, element := range anchorRegexp.FindAllString(contents, -1) {
		m := hrefRegexp.FindStringSubmatch(element)
		if m == nil {
			continue
		}
		href := m[1]

		if strings.HasPrefix(href, "/") {
			href = sourcePrefix + href
		}

		if _, err := url.Parse(href); err != nil {
			continue
		}
		if !isAbsoluteURL(href) {
			continue
		}

		if strings.HasPrefix(href, sourceURL) {
			continue
		}

		href = strings.ReplaceAll(href, wprmPrintSuffix, "")

		if _, ok := seen[href]; ok {
			continue
		}
		seen[href] = struct{}{}
		out = append(out, href)
	}

	return out
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
