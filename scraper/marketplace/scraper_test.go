package marketplace

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growth-hub/models"
	"growth-hub/utils"
)

const amazonFixture = `<html><body>
<div data-component-type="s-search-result">
  <h2><a href="/dp/B001"><span>Men's Cotton Kurta Pyjama Set for Festive and Wedding Wear, Navy Blue</span></a></h2>
  <span class="a-price"><span class="a-price-whole">2,499.</span></span>
  <span class="a-icon-alt">4.3 out of 5 stars</span>
  <a href="#reviews"><span class="a-size-base s-underline-text">(1,204)</span></a>
  <img src="https://m.media-amazon.com/1.jpg">
</div>
<div data-component-type="s-search-result">
  <h2><a href="/dp/B002"><span>Basic Tee</span></a></h2>
  <span class="a-price-whole">299</span>
  <span class="a-icon-alt">3.1 out of 5 stars</span>
</div>
<div data-component-type="s-search-result">
  <h2><a href="/dp/B001"><span>Duplicate of the first card</span></a></h2>
</div>
<div data-component-type="s-search-result">
  <div>sponsored slot without a heading</div>
</div>
</body></html>`

const flipkartFixture = `<html><body>
<div class="_1AtVbE"><a href="/kurta/p/itm1"><div class="_4rR01T">Printed Kurta</div></a>
  <div class="_30jeq3">₹899</div><div class="_3LWZlK">4.1</div><span class="_2_R_DZ">2,310 Ratings</span></div>
<div class="_1AtVbE"><div>banner</div></div>
<div class="_1AtVbE"><a class="IRpwTa" href="https://www.flipkart.com/kurta/p/itm2">Linen Kurta</a></div>
</body></html>`

type fakeFetcher struct {
	pages map[models.Platform]string
	err   error
	urls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return "", f.err
	}
	for p, html := range f.pages {
		if strings.HasPrefix(url, SearchURL(p, "")) {
			return html, nil
		}
	}
	return "", errors.New("unexpected url " + url)
}

func newTestScraper(f Fetcher) *Scraper {
	return New(f, 10, 1, utils.NewDiscardLogger())
}

func TestCollectAmazon(t *testing.T) {
	f := &fakeFetcher{pages: map[models.Platform]string{models.Amazon: amazonFixture}}
	listings, err := newTestScraper(f).Collect(context.Background(), models.Amazon, []string{"cotton kurta"})
	require.NoError(t, err)
	require.Len(t, listings, 2, "duplicate URL and heading-less card are dropped")

	first := listings[0]
	assert.Equal(t, "amazon", first[models.KeyPlatform])
	assert.Equal(t, "https://www.amazon.in/dp/B001", first[models.KeyURL])
	assert.Equal(t, "2,499.", first[models.KeyPrice])
	assert.Equal(t, "4.3 out of 5 stars", first[models.KeyRating])
	assert.Equal(t, "(1,204)", first[models.KeyReviewsCount])
	assert.Equal(t, "cotton kurta", first[models.KeyQuery])
	// price > 2000, rating >= 4 and a long title.
	assert.Equal(t, "High", first[models.KeyCompetitionLevel])

	// cheap and poorly rated.
	assert.Equal(t, "Low", listings[1][models.KeyCompetitionLevel])

	assert.Equal(t, []string{"https://www.amazon.in/s?k=cotton+kurta"}, f.urls)
}

func TestCollectFlipkart(t *testing.T) {
	f := &fakeFetcher{pages: map[models.Platform]string{models.Flipkart: flipkartFixture}}
	listings, err := newTestScraper(f).Collect(context.Background(), models.Flipkart, []string{"kurta"})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "Printed Kurta", listings[0][models.KeyTitle])
	assert.Equal(t, "₹899", listings[0][models.KeyPrice])
	assert.Equal(t, "https://www.flipkart.com/kurta/p/itm1", listings[0][models.KeyURL])
	assert.Equal(t, "Linen Kurta", listings[1][models.KeyTitle])
	assert.NotContains(t, listings[1], models.KeyPrice)
}

func TestCollectRespectsLimit(t *testing.T) {
	f := &fakeFetcher{pages: map[models.Platform]string{models.Amazon: amazonFixture}}
	s := New(f, 1, 1, utils.NewDiscardLogger())

	listings, err := s.Collect(context.Background(), models.Amazon, []string{"a"})
	require.NoError(t, err)
	assert.Len(t, listings, 1)
}

func TestCollectErrorsOnlyWhenNothingCollected(t *testing.T) {
	f := &fakeFetcher{err: errors.New("blocked")}
	_, err := newTestScraper(f).Collect(context.Background(), models.Amazon, []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")

	_, err = newTestScraper(f).Collect(context.Background(), models.Instagram, []string{"a"})
	assert.Error(t, err)
}

func TestAssessCompetition(t *testing.T) {
	tests := []struct {
		title, price, rating string
		want                 models.CompetitionLevel
	}{
		{"short", "2,500", "4.5 out of 5 stars", models.CompetitionHigh},
		{"short", "300", "3.0", models.CompetitionLow},
		{"short", "1000", "", models.CompetitionMedium},
		{"short", "N/A", "4.0", models.CompetitionMedium},
		{strings.Repeat("x", 51), "", "4.2", models.CompetitionHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, assessCompetition(tt.title, tt.price, tt.rating), "%+v", tt)
	}
}

func TestHTTPFetcherDecodesBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		var buf bytes.Buffer
		switch r.URL.Path {
		case "/br":
			bw := brotli.NewWriter(&buf)
			_, _ = bw.Write([]byte("brotli page"))
			_ = bw.Close()
			w.Header().Set("Content-Encoding", "br")
		case "/gzip":
			gw := gzip.NewWriter(&buf)
			_, _ = gw.Write([]byte("gzip page"))
			_ = gw.Close()
			w.Header().Set("Content-Encoding", "gzip")
		case "/plain":
			buf.WriteString("plain page")
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	f := NewHTTPFetcher(0)
	ctx := context.Background()

	for path, want := range map[string]string{"/br": "brotli page", "/gzip": "gzip page", "/plain": "plain page"} {
		got, err := f.Fetch(ctx, srv.URL+path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got)
	}

	_, err := f.Fetch(ctx, srv.URL+"/blocked")
	assert.ErrorContains(t, err, "status 503")
}

type trackedBody struct {
	io.Reader
	closed bool
}

func (b *trackedBody) Close() error {
	b.closed = true
	return nil
}

func TestDecodedBodyClosesDecoderOnly(t *testing.T) {
	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, _ = gw.Write([]byte("gzip page"))
	_ = gw.Close()

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	_, _ = bw.Write([]byte("brotli page"))
	_ = bw.Close()

	tests := []struct {
		encoding string
		payload  []byte
		want     string
	}{
		{"gzip", gz.Bytes(), "gzip page"},
		{"br", br.Bytes(), "brotli page"},
		{"", []byte("plain page"), "plain page"},
	}
	for _, tt := range tests {
		body := &trackedBody{Reader: bytes.NewReader(tt.payload)}
		resp := &http.Response{Header: http.Header{}, Body: body}
		resp.Header.Set("Content-Encoding", tt.encoding)

		rc, err := decodedBody(resp)
		require.NoError(t, err, tt.encoding)
		got, err := io.ReadAll(rc)
		require.NoError(t, err, tt.encoding)
		assert.Equal(t, tt.want, string(got))

		assert.NoError(t, rc.Close(), tt.encoding)
		assert.False(t, body.closed, "%q: response body is closed by Fetch, not the decoder", tt.encoding)
	}

	_, err := decodedBody(&http.Response{
		Header: http.Header{"Content-Encoding": []string{"gzip"}},
		Body:   io.NopCloser(strings.NewReader("not gzip")),
	})
	assert.Error(t, err)
}

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://www.amazon.in/s?k=wireless+headphones", SearchURL(models.Amazon, "wireless headphones"))
	assert.Equal(t, "https://www.flipkart.com/search?q=wireless%20headphones", SearchURL(models.Flipkart, "wireless headphones"))
	assert.Empty(t, SearchURL(models.YouTube, "x"))
}
