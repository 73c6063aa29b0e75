package embed

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	titlePattern    = regexp2.MustCompile(`<title[^>]*>([\s\S]*?)</title>`, regexp2.IgnoreCase)
	headPattern     = regexp2.MustCompile(`<head[^>]*>`, regexp2.IgnoreCase)
	htmlTagPattern  = regexp2.MustCompile(`<html[^>]*>`, regexp2.IgnoreCase)
	basePattern     = regexp2.MustCompile(`<base\b[^>]*>`, regexp2.IgnoreCase)
	metaHTTPPattern = regexp2.MustCompile(`<meta[^>]+http-equiv\s*=\s*["']?([^"'\s>]+)["']?[^>]*>`, regexp2.IgnoreCase)
	contentPattern  = regexp2.MustCompile(`content\s*=\s*["']([^"']*)["']`, regexp2.IgnoreCase)
)

// NormalizeTargetURL fills in a missing scheme and validates the result. Only
// http and https targets are accepted.
func NormalizeTargetURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("url cannot be empty")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("url has no host")
	}

	return parsed.String(), nil
}

// BuildWaybackURL rewrites the target to its Wayback Machine snapshot for the
// given year and month. The "if_" flag requests the raw archived document
// without the archive toolbar.
func BuildWaybackURL(target string, year string, month string) string {
	if month == "" {
		month = "01"
	}
	if len(month) == 1 {
		month = "0" + month
	}

	return fmt.Sprintf("https://web.archive.org/web/%s%s01000000if_/%s", year, month, target)
}

// ExtractTitle pulls the document title out of an HTML body.
func ExtractTitle(body string) string {
	match, err := titlePattern.FindStringMatch(body)
	if err != nil || match == nil || match.GroupCount() < 2 {
		return ""
	}

	title := strings.TrimSpace(match.GroupByNumber(1).String())
	return html.UnescapeString(title)
}

// FindMetaBlocker scans HTML meta tags for embedding restrictions declared in
// the markup rather than in response headers. It returns a human-readable
// reason when one is found.
func FindMetaBlocker(body string) (string, bool) {
	match, err := metaHTTPPattern.FindStringMatch(body)
	for err == nil && match != nil {
		directive := strings.ToLower(match.GroupByNumber(1).String())
		tag := match.String()

		switch directive {
		case "x-frame-options":
			if value, ok := metaContent(tag); ok && isFrameOptionsBlocked(value) {
				return fmt.Sprintf("X-Frame-Options meta tag is set to %s", strings.ToUpper(value)), true
			}
		case "content-security-policy":
			if value, ok := metaContent(tag); ok {
				if reason, blocked := checkFrameAncestors(value); blocked {
					return reason + " (meta tag)", true
				}
			}
		}

		match, err = metaHTTPPattern.FindNextMatch(match)
	}

	return "", false
}

func metaContent(tag string) (string, bool) {
	match, err := contentPattern.FindStringMatch(tag)
	if err != nil || match == nil || match.GroupCount() < 2 {
		return "", false
	}
	return strings.TrimSpace(match.GroupByNumber(1).String()), true
}

func isFrameOptionsBlocked(value string) bool {
	value = strings.ToUpper(strings.TrimSpace(value))
	return value == "DENY" || value == "SAMEORIGIN" || strings.HasPrefix(value, "ALLOW-FROM")
}

// checkFrameAncestors inspects a CSP value. The policy blocks embedding when a
// frame-ancestors directive is present and does not allow arbitrary origins.
func checkFrameAncestors(csp string) (string, bool) {
	for _, directive := range strings.Split(csp, ";") {
		directive = strings.TrimSpace(directive)
		lower := strings.ToLower(directive)
		if !strings.HasPrefix(lower, "frame-ancestors") {
			continue
		}

		sources := strings.Fields(directive)[1:]
		for _, source := range sources {
			if source == "*" {
				return "", false
			}
		}

		return fmt.Sprintf("Content-Security-Policy restricts embedding: %s", directive), true
	}

	return "", false
}

// navInterceptorScript forwards top-level link clicks to the parent frame so
// the host application can drive navigation instead of the iframe.
const navInterceptorScript = `<script>
(function () {
  document.addEventListener("click", function (event) {
    var anchor = event.target && event.target.closest ? event.target.closest("a[href]") : null;
    if (!anchor || anchor.target === "_blank" || !window.parent || window.parent === window) {
      return;
    }
    var href = anchor.href;
    if (!href || href.indexOf("javascript:") === 0 || href.indexOf("#") === 0) {
      return;
    }
    event.preventDefault();
    window.parent.postMessage({ type: "iframe-navigation", url: href }, "*");
  }, true);
})();
</script>`

func fontOverrideStyle(font string) string {
	return fmt.Sprintf(`<style>* { font-family: %q, sans-serif !important; }</style>`, font)
}

// RewriteHTML prepares an upstream HTML document for embedding: any existing
// base tags are dropped, a single base tag pointing at the fetched URL is
// placed right after the opening head tag, followed by the navigation
// interceptor and the optional font override.
func RewriteHTML(body string, baseURL string, font string) string {
	body, _ = basePattern.Replace(body, "", -1, -1)

	injected := fmt.Sprintf(`<base href=%q>`, baseURL) + navInterceptorScript
	if font != "" {
		injected += fontOverrideStyle(font)
	}

	if match, err := headPattern.FindStringMatch(body); err == nil && match != nil {
		insertAt := match.Index + len(match.String())
		return body[:insertAt] + injected + body[insertAt:]
	}

	// No head tag, fall back to injecting right after the html tag or at the
	// top of the document.
	if match, err := htmlTagPattern.FindStringMatch(body); err == nil && match != nil {
		insertAt := match.Index + len(match.String())
		return body[:insertAt] + "<head>" + injected + "</head>" + body[insertAt:]
	}

	return injected + body
}
