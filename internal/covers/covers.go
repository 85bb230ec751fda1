// Package covers fetches album cover art over HTTP, caches it under
// assets/covers/, and extracts the accent color used to tint record labels.
package covers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/time/rate"

	"vinyl-scene/internal/logger"
	"vinyl-scene/internal/records"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/115.0"

// CoverDir is where fetched covers are saved, relative to the working directory.
const CoverDir = "assets/covers"

// prefetchWorkers bounds concurrent cover downloads during catalog prefetch.
const prefetchWorkers = 4

// fetchRate is the polite request rate against cover hosts (2/s, burst 4).
var fetchRate = rate.Limit(2)

// coverExts are the extensions downloads get saved under.
var coverExts = []string{".png", ".jpg", ".jpeg", ".webp"}

// Fetcher downloads covers with a shared client and rate limiter. Safe for use
// from the selection pipeline's goroutines.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	destDir string
	baseURL string
	log     *logger.Logger
}

// NewFetcher returns a fetcher saving into CoverDir. COVER_BASE_URL, when set,
// resolves relative cover entries that have no local file against a CDN.
func NewFetcher(log *logger.Logger) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(fetchRate, 4),
		destDir: CoverDir,
		baseURL: os.Getenv("COVER_BASE_URL"),
		log:     log,
	}
}

// Fetch resolves a record's cover to a local path. Local paths are returned
// as-is when the file exists; URLs are downloaded into the cover directory
// (skipped when already cached). Filename comes from the URL path, extension
// from the Content-Type or URL.
func (f *Fetcher) Fetch(ctx context.Context, cover string) (string, error) {
	if cover == "" {
		return "", fmt.Errorf("covers: no cover source")
	}
	if !strings.HasPrefix(cover, "http://") && !strings.HasPrefix(cover, "https://") {
		if _, err := os.Stat(cover); err == nil {
			return cover, nil
		} else if f.baseURL == "" {
			return "", fmt.Errorf("covers: %w", err)
		}
		cover = strings.TrimRight(f.baseURL, "/") + "/" + strings.TrimLeft(cover, "/")
	}

	name := sanitizeFilename(filenameFromURL(cover))
	// The saved extension may come from the Content-Type rather than the URL,
	// so the cache check tries every extension a download can be saved under.
	for _, ext := range coverExts {
		cached := filepath.Join(f.destDir, name+ext)
		if _, err := os.Stat(cached); err == nil {
			return cached, nil
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("covers: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cover, nil)
	if err != nil {
		return "", fmt.Errorf("covers: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("covers: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("covers: HTTP %d", resp.StatusCode)
	}

	ext := extensionFromContentType(resp.Header.Get("Content-Type"))
	if ext == "" {
		ext = extensionFromURL(cover)
	}
	if ext == "" {
		ext = ".jpg"
	}
	savedPath := filepath.Join(f.destDir, name+ext)
	if err := os.MkdirAll(f.destDir, 0755); err != nil {
		return "", fmt.Errorf("covers: %w", err)
	}
	out, err := os.Create(savedPath)
	if err != nil {
		return "", fmt.Errorf("covers: %w", err)
	}
	defer out.Close()
	n, err := io.Copy(out, resp.Body)
	if err != nil {
		_ = os.Remove(savedPath)
		return "", fmt.Errorf("covers: %w", err)
	}
	if f.log != nil {
		f.log.Log(fmt.Sprintf("covers: fetched %s (%s)", filepath.Base(savedPath), humanize.Bytes(uint64(n))))
	}
	return savedPath, nil
}

// Prefetch warms the cover cache for the whole catalog with a bounded worker
// group. Failures are logged and skipped; prefetch never blocks the scene.
func (f *Fetcher) Prefetch(ctx context.Context, recs []records.Record) {
	swg := sizedwaitgroup.New(prefetchWorkers)
	for _, rec := range recs {
		if rec.Cover == "" {
			continue
		}
		swg.Add()
		go func(r records.Record) {
			defer swg.Done()
			if _, err := f.Fetch(ctx, r.Cover); err != nil && f.log != nil {
				f.log.Log(fmt.Sprintf("covers: prefetch %q: %v", r.Title, err))
			}
		}(rec)
	}
	swg.Wait()
}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "webp"):
		return ".webp"
	}
	return ""
}

func extensionFromURL(url string) string {
	path := url
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return ext
	}
	return ""
}

func filenameFromURL(url string) string {
	path := url
	if idx := strings.Index(path, "?"); idx >= 0 {
		path = path[:idx]
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == "/" {
		return "cover"
	}
	return name
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func sanitizeFilename(name string) string {
	if name == "" {
		return "cover"
	}
	name = safeNameRe.ReplaceAllString(name, "_")
	if len(name) > 96 {
		name = name[:96]
	}
	return name
}
