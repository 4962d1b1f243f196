package testutil

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// maxRedirects bounds how far a recorded redirect chain is followed.
const maxRedirects = 10

// Replayer answers browser requests from a recorded HARLog.
type Replayer struct {
	// exact maps full URLs to entries; byPath ignores the query string and
	// is the fallback for search and form submissions.
	exact  map[string]*HAREntry
	byPath map[string]*HAREntry

	passthrough bool
	log         *zap.Logger
}

// ReplayerOption configures a Replayer.
type ReplayerOption func(*Replayer)

// WithPassthrough sends unmatched requests to the real network instead of
// answering 404.
func WithPassthrough(enabled bool) ReplayerOption {
	return func(r *Replayer) {
		r.passthrough = enabled
	}
}

// WithReplayLogger logs every match and miss.
func WithReplayLogger(l *zap.Logger) ReplayerOption {
	return func(r *Replayer) {
		r.log = l
	}
}

// NewReplayer indexes har for lookup. When a path is recorded more than
// once, the first entry wins the path fallback.
func NewReplayer(har *HARLog, opts ...ReplayerOption) *Replayer {
	r := &Replayer{
		exact:  make(map[string]*HAREntry),
		byPath: make(map[string]*HAREntry),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("replayer")

	for i := range har.Entries {
		entry := &har.Entries[i]
		r.exact[entry.Request.URL] = entry
		if key, ok := pathKey(entry.Request.URL); ok {
			if _, seen := r.byPath[key]; !seen {
				r.byPath[key] = entry
			}
		}
	}
	return r
}

// ReplayStats counts the indexed entries.
type ReplayStats struct {
	Exact int
	Path  int
}

func (r *Replayer) Stats() ReplayStats {
	return ReplayStats{Exact: len(r.exact), Path: len(r.byPath)}
}

// Lookup finds the entry for rawURL, trying an exact match before the
// path-only fallback.
func (r *Replayer) Lookup(rawURL string) (*HAREntry, bool) {
	if entry, ok := r.exact[rawURL]; ok {
		return entry, true
	}
	if key, ok := pathKey(rawURL); ok {
		entry, found := r.byPath[key]
		return entry, found
	}
	return nil, false
}

// Middleware returns a Rod hijack handler serving recorded responses.
func (r *Replayer) Middleware() func(*rod.Hijack) {
	return func(ctx *rod.Hijack) {
		reqURL := ctx.Request.URL().String()

		entry, found := r.Lookup(reqURL)
		if !found {
			r.log.Debug("no match", zap.String("url", reqURL))
			if r.passthrough {
				_ = ctx.LoadResponse(http.DefaultClient, true)
				return
			}
			r.serveNotFound(ctx)
			return
		}

		entry = r.followRedirects(entry)
		r.log.Debug("matched", zap.String("url", reqURL), zap.Int("status", entry.Response.Status))

		body, headers := r.responseFor(entry)
		payload := ctx.Response.Payload()
		payload.ResponseCode = entry.Response.Status
		payload.ResponseHeaders = headers
		payload.Body = body
	}
}

// responseFor decodes the recorded body and drops headers that would
// contradict the replayed payload.
func (r *Replayer) responseFor(entry *HAREntry) ([]byte, []*proto.FetchHeaderEntry) {
	resp := entry.Response

	body := []byte(resp.Content.Text)
	if resp.Content.Encoding == "base64" {
		if decoded, err := base64.StdEncoding.DecodeString(resp.Content.Text); err == nil {
			body = decoded
		}
	}

	var headers []*proto.FetchHeaderEntry
	for _, h := range resp.Headers {
		switch strings.ToLower(h.Name) {
		case "content-encoding", "content-length", "location":
			continue
		}
		headers = append(headers, &proto.FetchHeaderEntry{Name: h.Name, Value: h.Value})
	}
	if headerValue(resp.Headers, "Content-Type") == "" && resp.Content.MimeType != "" {
		headers = append(headers, &proto.FetchHeaderEntry{Name: "Content-Type", Value: resp.Content.MimeType})
	}
	return body, headers
}

// followRedirects walks a recorded 3xx chain to its final response. A
// target missing from the recording ends the walk at the redirect itself.
func (r *Replayer) followRedirects(entry *HAREntry) *HAREntry {
	current := entry
	for i := 0; i < maxRedirects; i++ {
		if current.Response.Status < 300 || current.Response.Status >= 400 {
			return current
		}
		location := headerValue(current.Response.Headers, "Location")
		if location == "" {
			return current
		}
		target, found := r.Lookup(location)
		if !found {
			r.log.Debug("redirect target not recorded", zap.String("location", location))
			return current
		}
		current = target
	}
	return current
}

func (r *Replayer) serveNotFound(ctx *rod.Hijack) {
	payload := ctx.Response.Payload()
	payload.ResponseCode = http.StatusNotFound
	payload.ResponseHeaders = []*proto.FetchHeaderEntry{
		{Name: "Content-Type", Value: "application/json"},
	}
	payload.Body = []byte(`{"error": "no recording found for URL"}`)
}
