package marketplace

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"growth-hub/utils"
)

// Fetcher returns the HTML of a search results page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// HTTPFetcher fetches pages with a plain HTTP client, rotating user agents and
// pacing requests through a token bucket.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	next    atomic.Uint32
}

// NewHTTPFetcher creates an HTTPFetcher allowing one request per interval.
// A zero interval disables pacing.
func NewHTTPFetcher(interval time.Duration) *HTTPFetcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &HTTPFetcher{
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	ua := userAgents[int(f.next.Add(1)-1)%len(userAgents)]
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, br")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}

	reader, err := decodedBody(resp)
	if err != nil {
		return "", fmt.Errorf("decoding body: %w", err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}

// decodedBody wraps resp.Body in the decoder its Content-Encoding names.
// Closing the result releases the decoder, not resp.Body.
func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return io.NopCloser(brotli.NewReader(resp.Body)), nil
	}
	return io.NopCloser(resp.Body), nil
}

// BrowserFetcher renders pages in headless Chrome, for result pages that only
// fill in their product grid from JavaScript.
type BrowserFetcher struct {
	logger *utils.Logger

	mu          sync.Mutex
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	chromeBin   string
	settle      time.Duration
}

// NewBrowserFetcher creates a BrowserFetcher. The browser is started on the
// first Fetch; chromeBin may be empty to search the usual install locations.
func NewBrowserFetcher(chromeBin string, logger *utils.Logger) *BrowserFetcher {
	return &BrowserFetcher{logger: logger, chromeBin: chromeBin, settle: 4 * time.Second}
}

func (b *BrowserFetcher) allocator() context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.allocCtx != nil {
		return b.allocCtx
	}

	bin := b.chromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	b.logger.Info("[browser] Using browser binary: %s", bin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgents[len(userAgents)-1]),
	)
	if bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	b.allocCtx, b.cancelAlloc = chromedp.NewExecAllocator(context.Background(), opts...)
	return b.allocCtx
}

// Fetch implements Fetcher.
func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocator(), chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, 60*time.Second)
	defer cancelTimeout()

	// Abandon the tab if the caller gives up first.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(b.settle),
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp render %s: %w", url, err)
	}
	return html, nil
}

// Close shuts the browser down.
func (b *BrowserFetcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancelAlloc != nil {
		b.cancelAlloc()
		b.allocCtx, b.cancelAlloc = nil, nil
	}
	return nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, p := range []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
