package testutil

import (
	"net/url"
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

// sensitiveKeys match form, query and JSON keys whose values must not be
// committed: shopper identity and address, payment and session data.
var sensitiveKeys = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password`),
	regexp.MustCompile(`(?i)token`),
	regexp.MustCompile(`(?i)csrf`),
	regexp.MustCompile(`(?i)session`),
	regexp.MustCompile(`(?i)dwsid`),
	regexp.MustCompile(`(?i)auth`),
	regexp.MustCompile(`(?i)api_?key`),
	regexp.MustCompile(`(?i)firstname`),
	regexp.MustCompile(`(?i)lastname`),
	regexp.MustCompile(`(?i)address[12]`),
	regexp.MustCompile(`(?i)phone`),
	regexp.MustCompile(`(?i)email`),
	regexp.MustCompile(`(?i)username`),
	regexp.MustCompile(`(?i)card(number|_number|holder)`),
	regexp.MustCompile(`(?i)cvv|cvn|securitycode`),
}

// sensitiveHeaders are always redacted.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-csrf-token":        true,
	"x-xsrf-token":        true,
	"proxy-authorization": true,
}

// jsonFieldRe matches "key": value pairs; the key is checked separately.
var jsonFieldRe = regexp.MustCompile(`"([^"]+)"(\s*:\s*)("[^"]*"|[^",}\]\s]+)`)

// IsSensitiveKey reports whether values under key must be redacted.
func IsSensitiveKey(key string) bool {
	for _, re := range sensitiveKeys {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// SanitizeHAR returns a copy of har with sensitive values replaced by
// [REDACTED].
func SanitizeHAR(har *HARLog) *HARLog {
	out := &HARLog{Entries: make([]HAREntry, len(har.Entries))}
	for i, e := range har.Entries {
		out.Entries[i] = HAREntry{
			Request: HARRequest{
				Method:  e.Request.Method,
				URL:     sanitizeURL(e.Request.URL),
				Headers: sanitizeHeaders(e.Request.Headers),
				Body:    sanitizeBody(e.Request.Body),
			},
			Response: HARResponse{
				Status:  e.Response.Status,
				Headers: sanitizeHeaders(e.Response.Headers),
				Content: HARContent{
					MimeType: e.Response.Content.MimeType,
					Text:     sanitizeBody(e.Response.Content.Text),
					Encoding: e.Response.Content.Encoding,
					Size:     e.Response.Content.Size,
				},
			},
		}
	}
	return out
}

// CountRedactions counts values that differ between a recording and its
// sanitized copy.
func CountRedactions(original, sanitized *HARLog) int {
	count := 0
	for i := range original.Entries {
		if i >= len(sanitized.Entries) {
			break
		}
		orig, san := original.Entries[i], sanitized.Entries[i]
		if orig.Request.URL != san.Request.URL {
			count++
		}
		if orig.Request.Body != san.Request.Body {
			count++
		}
		if orig.Response.Content.Text != san.Response.Content.Text {
			count++
		}
		count += changedHeaders(orig.Request.Headers, san.Request.Headers)
		count += changedHeaders(orig.Response.Headers, san.Response.Headers)
	}
	return count
}

func changedHeaders(orig, san []HARHeader) int {
	n := 0
	for j, h := range orig {
		if j < len(san) && h.Value != san[j].Value {
			n++
		}
	}
	return n
}

func sanitizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery == "" {
		return rawURL
	}

	query := parsed.Query()
	changed := false
	for key := range query {
		if IsSensitiveKey(key) {
			query.Set(key, redacted)
			changed = true
		}
	}
	if changed {
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func sanitizeHeaders(headers []HARHeader) []HARHeader {
	out := make([]HARHeader, len(headers))
	for i, h := range headers {
		if sensitiveHeaders[strings.ToLower(h.Name)] || IsSensitiveKey(h.Name) {
			out[i] = HARHeader{Name: h.Name, Value: redacted}
			continue
		}
		out[i] = h
	}
	return out
}

func sanitizeBody(body string) string {
	trimmed := strings.TrimSpace(body)
	switch {
	case trimmed == "":
		return body
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "["):
		return sanitizeJSONBody(body)
	case strings.Contains(body, "=") && !strings.Contains(trimmed, "<"):
		return sanitizeFormBody(body)
	default:
		return SanitizeHTML(body).HTML
	}
}

func sanitizeFormBody(body string) string {
	values, err := url.ParseQuery(body)
	if err != nil {
		return body
	}
	changed := false
	for key := range values {
		if IsSensitiveKey(key) {
			values.Set(key, redacted)
			changed = true
		}
	}
	if !changed {
		return body
	}
	return values.Encode()
}

func sanitizeJSONBody(body string) string {
	return jsonFieldRe.ReplaceAllStringFunc(body, func(m string) string {
		parts := jsonFieldRe.FindStringSubmatch(m)
		if !IsSensitiveKey(parts[1]) {
			return m
		}
		return `"` + parts[1] + `"` + parts[2] + `"` + redacted + `"`
	})
}

// htmlPattern is a value pattern scrubbed from captured pages.
type htmlPattern struct {
	re          *regexp.Regexp
	replacement string
	description string
}

var htmlPatterns = []htmlPattern{
	{
		regexp.MustCompile(`(?i)(name="[^"]*(?:firstName|lastName|address[12]|phone|email)[^"]*"[^>]*value=")[^"]+(")`),
		"${1}REDACTED${2}",
		"Prefilled shopper field",
	},
	{
		regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
		"shopper@example.com",
		"Email address",
	},
	{
		regexp.MustCompile(`\(?\b\d{3}\)?[-.\s]?\d{3}[-.\s]\d{4}\b`),
		"555-555-0100",
		"Phone number",
	},
	{
		regexp.MustCompile(`(?i)(dwsid|dwsecuretoken_[a-z0-9]+|csrf_token)(["\s:=]+["']?)[A-Za-z0-9_\-]{16,}`),
		"${1}${2}REDACTED",
		"Session token",
	},
	{
		regexp.MustCompile(`(?i)document\.cookie\s*=\s*["'][^"']+["']`),
		`document.cookie="REDACTED"`,
		"Cookie",
	},
}

// HTMLChange describes one pattern that matched during SanitizeHTML.
type HTMLChange struct {
	Description string
	Matches     int
}

// SanitizedHTML is a scrubbed page and what was changed in it.
type SanitizedHTML struct {
	HTML    string
	Changes []HTMLChange
}

// SanitizeHTML scrubs shopper data and session tokens from a captured page.
func SanitizeHTML(html string) SanitizedHTML {
	out := SanitizedHTML{HTML: html}
	for _, p := range htmlPatterns {
		matches := p.re.FindAllStringIndex(out.HTML, -1)
		if len(matches) == 0 {
			continue
		}
		out.HTML = p.re.ReplaceAllString(out.HTML, p.replacement)
		out.Changes = append(out.Changes, HTMLChange{Description: p.description, Matches: len(matches)})
	}
	return out
}
