package utils

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sharad-mishra/bharat-lens/models"
)

// Maximum length of sanitized display text
const maxTextLength = 500

// Maximum number of source links kept after validation
const maxSourceLinks = 10

var (
	htmlTagPattern      = regexp.MustCompile(`<[^>]*>`)
	jsSchemePattern     = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerPattern = regexp.MustCompile(`(?i)on\w+\s*=`)
	privateIP172Pattern = regexp.MustCompile(`^172\.(1[6-9]|2[0-9]|3[0-1])\.`)
)

// Domains blocked because link shorteners hide their real destination
var suspiciousDomains = []string{
	"bit.ly",
	"tinyurl.com",
	"goo.gl",
	"t.co",
}

// Accepted layouts for source link published dates
var publishedDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	time.RFC1123,
}

// SanitizeText cleans untrusted text for display: strips HTML tags, script
// scheme references and inline event handlers, then caps the length.
// Always returns a string, never fails.
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.TrimSpace(text)

	// Re-apply until stable so stripped fragments cannot recombine into
	// a tag or scheme that a single pass would miss
	for {
		next := htmlTagPattern.ReplaceAllString(cleaned, "")
		next = jsSchemePattern.ReplaceAllString(next, "")
		next = eventHandlerPattern.ReplaceAllString(next, "")
		if next == cleaned {
			break
		}
		cleaned = next
	}

	// Limit length to prevent abuse
	runes := []rune(cleaned)
	if len(runes) > maxTextLength {
		cleaned = string(runes[:maxTextLength])
	}

	return strings.TrimSpace(cleaned)
}

// IsValidURL reports whether a URL is safe to display and link to
func IsValidURL(rawURL string) bool {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return false
	}

	// Only allow http and https
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}

	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		return false
	}

	// Block localhost variations
	if hostname == "localhost" || hostname == "127.0.0.1" || hostname == "::1" {
		return false
	}

	// Block private IP ranges
	if strings.HasPrefix(hostname, "192.168.") ||
		strings.HasPrefix(hostname, "10.") ||
		privateIP172Pattern.MatchString(hostname) {
		return false
	}

	for _, domain := range suspiciousDomains {
		if strings.Contains(hostname, domain) {
			return false
		}
	}

	return true
}

// SanitizeURL validates and canonicalizes a URL via a parse-and-reserialize
// round trip. Returns an empty string if the URL is invalid.
func SanitizeURL(rawURL string) string {
	if !IsValidURL(rawURL) {
		return ""
	}

	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}

	// HTTP is kept as-is rather than upgraded to HTTPS, forcing the
	// upgrade breaks some sites
	return parsed.String()
}

// ExtractDomain returns the hostname of a valid URL with any leading
// "www." stripped. Returns an empty string on any failure.
func ExtractDomain(rawURL string) string {
	sanitized := SanitizeURL(rawURL)
	if sanitized == "" {
		return ""
	}

	parsed, err := url.Parse(sanitized)
	if err != nil {
		return ""
	}

	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// ExternalLinkAttributes returns the anchor attributes the presentation
// layer applies to every external link
func ExternalLinkAttributes() map[string]string {
	return map[string]string{
		"target":         "_blank",
		"rel":            "noopener noreferrer nofollow",
		"referrerPolicy": "no-referrer",
	}
}

// ValidateSourceLink defensively parses one untrusted source object.
// Returns nil if the URL, domain or title do not survive sanitization.
func ValidateSourceLink(source models.Metadata) *models.SourceLink {
	if source == nil {
		return nil
	}

	rawURL, _ := source["url"].(string)
	sanitizedURL := SanitizeURL(rawURL)
	if sanitizedURL == "" {
		return nil
	}

	domain := ExtractDomain(sanitizedURL)
	if domain == "" {
		return nil
	}

	rawTitle, _ := source["title"].(string)
	title := SanitizeText(rawTitle)
	if title == "" {
		return nil
	}

	link := &models.SourceLink{
		Title:  title,
		URL:    sanitizedURL,
		Domain: domain,
	}

	// Keep the published date only if it parses as a real date
	if rawDate, ok := source["publishedDate"].(string); ok && rawDate != "" {
		for _, layout := range publishedDateLayouts {
			if _, err := time.Parse(layout, rawDate); err == nil {
				link.PublishedDate = rawDate
				break
			}
		}
	}

	return link
}

// ValidateSourceLinks validates a batch of untrusted source objects,
// dropping invalid entries and capping the result
func ValidateSourceLinks(sources []models.Metadata) []models.SourceLink {
	validated := make([]models.SourceLink, 0, len(sources))

	for _, source := range sources {
		if link := ValidateSourceLink(source); link != nil {
			validated = append(validated, *link)
			if len(validated) >= maxSourceLinks {
				break
			}
		}
	}

	return validated
}
