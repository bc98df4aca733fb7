package marketplace

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"growth-hub/models"
)

const (
	amazonBase   = "https://www.amazon.in"
	flipkartBase = "https://www.flipkart.com"
)

// SearchURL returns the search results URL for query on platform, or "" when
// the platform is not a marketplace.
func SearchURL(platform models.Platform, query string) string {
	switch platform {
	case models.Amazon:
		return amazonBase + "/s?k=" + url.QueryEscape(query)
	case models.Flipkart:
		return flipkartBase + "/search?q=" + url.PathEscape(query)
	}
	return ""
}

// product is one parsed search result before it becomes a RawListing.
type product struct {
	title   string
	price   string
	rating  string
	reviews string
	url     string
	image   string
}

// parser extracts at most limit products from a search results document.
type parser func(doc *goquery.Document, limit int) []product

var parsers = map[models.Platform]parser{
	models.Amazon:   parseAmazon,
	models.Flipkart: parseFlipkart,
}

func parseAmazon(doc *goquery.Document, limit int) []product {
	var out []product
	doc.Find(`div[data-component-type="s-search-result"]`).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}

		h2 := card.Find("h2").First()
		if h2.Length() == 0 {
			return true
		}
		title := text(h2.Find("a span").First())
		if title == "" {
			title = text(h2)
		}
		if title == "" {
			return true
		}

		p := product{title: title}
		if href, ok := card.Find("h2 a").First().Attr("href"); ok && href != "" {
			p.url = absolute(amazonBase, href)
		}
		p.price = firstText(card, "span.a-price-whole", "span.a-price-range")
		if p.price == "" {
			card.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if t := text(s); strings.Contains(t, "₹") {
					p.price = t
					return false
				}
				return true
			})
		}
		p.rating = firstText(card, "span.a-icon-alt")
		p.reviews = firstText(card, "span.a-size-base.s-underline-text", "a span.a-size-base")
		p.image, _ = card.Find("img").First().Attr("src")

		out = append(out, p)
		return true
	})
	return out
}

func parseFlipkart(doc *goquery.Document, limit int) []product {
	cards := doc.Find("div._1AtVbE")
	if cards.Length() == 0 {
		cards = doc.Find("div._2kHMtA")
	}

	var out []product
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(out) >= limit {
			return false
		}

		title := firstText(card, "div._4rR01T", "a.IRpwTa")
		if title == "" {
			return true
		}

		p := product{
			title:   title,
			price:   firstText(card, "div._30jeq3", "div._1_WHN1"),
			rating:  firstText(card, "div._3LWZlK"),
			reviews: firstText(card, "span._2_R_DZ"),
		}
		if href, ok := card.Find("a[href]").First().Attr("href"); ok && href != "" {
			p.url = absolute(flipkartBase, href)
		}
		p.image, _ = card.Find("img").First().Attr("src")

		out = append(out, p)
		return true
	})
	return out
}

func (p product) raw(platform models.Platform, query string) models.RawListing {
	r := models.RawListing{
		models.KeyPlatform:         string(platform),
		models.KeyTitle:            p.title,
		models.KeyQuery:            query,
		models.KeyCompetitionLevel: string(assessCompetition(p.title, p.price, p.rating)),
		"image_url":                p.image,
	}
	if p.url != "" {
		r[models.KeyURL] = p.url
	}
	if p.price != "" {
		r[models.KeyPrice] = p.price
	}
	if p.rating != "" {
		r[models.KeyRating] = p.rating
	}
	if p.reviews != "" {
		r[models.KeyReviewsCount] = p.reviews
	}
	return r
}

// assessCompetition tags a single product: expensive, well-rated products with
// long titles sit in crowded categories, cheap poorly-rated ones do not.
func assessCompetition(title, price, rating string) models.CompetitionLevel {
	score := 0

	if v, ok := digitsValue(price); ok {
		switch {
		case v > 2000:
			score++
		case v < 500:
			score--
		}
	}

	if r, ok := leadingFloat(rating); ok {
		switch {
		case r >= 4.0:
			score++
		case r > 0 && r < 3.5:
			score--
		}
	}

	if len([]rune(title)) > 50 {
		score++
	}

	switch {
	case score >= 2:
		return models.CompetitionHigh
	case score <= -1:
		return models.CompetitionLow
	default:
		return models.CompetitionMedium
	}
}

func digitsValue(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	return v, err == nil
}

// leadingFloat parses the first word of strings like "4.2 out of 5 stars".
func leadingFloat(s string) (float64, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	return v, err == nil
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func firstText(card *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := text(card.Find(sel).First()); t != "" {
			return t
		}
	}
	return ""
}

func absolute(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}
