package testutil

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"testing"
)

// HARLog is the trimmed HTTP Archive used to replay storefront sessions.
type HARLog struct {
	Entries []HAREntry `json:"entries"`
}

// HAREntry is one request and the response the shop gave to it.
type HAREntry struct {
	Request  HARRequest  `json:"request"`
	Response HARResponse `json:"response"`
}

type HARRequest struct {
	Method  string      `json:"method"`
	URL     string      `json:"url"`
	Headers []HARHeader `json:"headers,omitempty"`
	Body    string      `json:"body,omitempty"`
}

type HARResponse struct {
	Status  int         `json:"status"`
	Headers []HARHeader `json:"headers,omitempty"`
	Content HARContent  `json:"content"`
}

type HARHeader struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// HARContent is a response body. Text is base64 when Encoding says so.
type HARContent struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
	Encoding string `json:"encoding,omitempty"`
	Size     int    `json:"size,omitempty"`
}

// devtoolsHAR is the HAR 1.2 export of Chrome DevTools: entries sit under
// "log" and request bodies under postData.
type devtoolsHAR struct {
	Log struct {
		Entries []struct {
			Request struct {
				Method   string      `json:"method"`
				URL      string      `json:"url"`
				Headers  []HARHeader `json:"headers,omitempty"`
				PostData *struct {
					Text string `json:"text"`
				} `json:"postData,omitempty"`
			} `json:"request"`
			Response HARResponse `json:"response"`
		} `json:"entries"`
	} `json:"log"`
}

// LoadHAR reads a recording in either the trimmed format or a DevTools
// HAR 1.2 export.
func LoadHAR(path string) (*HARLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read HAR file: %w", err)
	}

	var devtools devtoolsHAR
	if err := json.Unmarshal(data, &devtools); err == nil && len(devtools.Log.Entries) > 0 {
		har := &HARLog{Entries: make([]HAREntry, len(devtools.Log.Entries))}
		for i, e := range devtools.Log.Entries {
			var body string
			if e.Request.PostData != nil {
				body = e.Request.PostData.Text
			}
			har.Entries[i] = HAREntry{
				Request: HARRequest{
					Method:  e.Request.Method,
					URL:     e.Request.URL,
					Headers: e.Request.Headers,
					Body:    body,
				},
				Response: e.Response,
			}
		}
		return har, nil
	}

	var har HARLog
	if err := json.Unmarshal(data, &har); err != nil {
		return nil, fmt.Errorf("parse HAR JSON: %w", err)
	}
	return &har, nil
}

// SaveHAR writes har as indented JSON.
func SaveHAR(path string, har *HARLog) error {
	data, err := json.MarshalIndent(har, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal HAR: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write HAR file: %w", err)
	}
	return nil
}

// MustLoadHAR loads a recording or fails the test.
func MustLoadHAR(t *testing.T, path string) *HARLog {
	t.Helper()

	har, err := LoadHAR(path)
	if err != nil {
		t.Fatalf("failed to load HAR file %s: %v", path, err)
	}
	return har
}

// SiteHAR synthesises a recording that serves each page of site (path to
// HTML) under baseURL's origin, so a real browser can walk the fixture
// checkout through the Replayer.
func SiteHAR(baseURL string, site map[string]string) (*HARLog, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	paths := make([]string, 0, len(site))
	for p := range site {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	har := &HARLog{Entries: make([]HAREntry, 0, len(paths))}
	for _, p := range paths {
		u := base.ResolveReference(&url.URL{Path: p})
		html := site[p]
		har.Entries = append(har.Entries, HAREntry{
			Request: HARRequest{Method: "GET", URL: u.String()},
			Response: HARResponse{
				Status: 200,
				Headers: []HARHeader{
					{Name: "Content-Type", Value: "text/html; charset=utf-8"},
				},
				Content: HARContent{
					MimeType: "text/html",
					Text:     html,
					Size:     len(html),
				},
			},
		})
	}
	return har, nil
}

// pathKey drops the query string, leaving scheme, host and path.
func pathKey(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	return parsed.Scheme + "://" + parsed.Host + parsed.Path, true
}

func headerValue(headers []HARHeader, name string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
