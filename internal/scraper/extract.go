package scraper

import (
	"encoding/json"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Ad4rshS/am-zone/internal/models"
)

// Image URLs ending in this suffix are sprite placeholders, not product shots.
const placeholderImageSuffix = "_.jpg"

const maxColorVariants = 12

var (
	priceSelectors = []string{
		"#corePrice_feature_div .a-price-whole",
		"#priceblock_ourprice",
		"._30jeq3._16Jk6d",
		`[class*="price"], [id*="price"]`,
	}

	numberPattern   = regexp.MustCompile(`\d[\d,]*`)
	decimalPattern  = regexp.MustCompile(`\d+(?:\.\d+)?`)
	hiResPattern    = regexp.MustCompile(`"hiRes"\s*:\s*"(https:[^"]+)"`)
	largePattern    = regexp.MustCompile(`"large"\s*:\s*"(https:[^"]+)"`)
	ramUnitPattern  = regexp.MustCompile(`(?i)GB\s*RAM`)
	sizeUnitPattern = regexp.MustCompile(`(?i)(GB|TB)`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// ExtractFromHTML runs every field extractor against the page and assembles
// the result. Individual extractors never fail; a field no strategy matched
// is left empty (or at its documented default).
func ExtractFromHTML(html, pageURL string) (*models.ExtractedProduct, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	title := extractTitle(doc)
	description := CleanDescription(extractDescription(doc))
	price := extractPrice(doc)
	features := CleanCandidates(extractFeatureCandidates(doc), DefaultFilterConfig())
	images := extractImages(doc, pageURL)
	rating := extractRating(doc)
	reviews := extractReviews(doc)
	colors := CleanCandidates(extractColorCandidates(doc), VariantFilterConfig())
	sizes := extractSizeCandidates(doc)

	return assemble(title, description, price, features, images, rating, reviews, colors, sizes), nil
}

// assemble applies the cross-field fallback policies: primary image is the
// first gallery entry, parsed memory tokens win over selector-derived size
// candidates, colors are capped.
func assemble(title, description string, price int, features, images []string, rating float64, reviews int, colors, sizes []string) *models.ExtractedProduct {
	tokens := ParseMemoryTokens(title + " " + strings.Join(features, " "))

	ram := tokens.RAM
	if len(ram) == 0 {
		for _, s := range sizes {
			if ramUnitPattern.MatchString(s) {
				ram = append(ram, nonDigitPattern.ReplaceAllString(s, "")+"GB")
			}
		}
		ram = uniq(ram)
	}

	storage := tokens.Storage
	if len(storage) == 0 {
		for _, s := range sizes {
			if sizeUnitPattern.MatchString(s) {
				storage = append(storage, strings.ToUpper(s))
			}
		}
		storage = uniq(storage)
	}

	if len(colors) > maxColorVariants {
		colors = colors[:maxColorVariants]
	}

	primary := ""
	if len(images) > 0 {
		primary = images[0]
	}

	return &models.ExtractedProduct{
		Name:        title,
		Image:       primary,
		Images:      emptyIfNil(images),
		Price:       price,
		Description: description,
		Features:    emptyIfNil(features),
		Variants: models.Variants{
			Colors:  emptyIfNil(colors),
			RAM:     emptyIfNil(ram),
			Storage: emptyIfNil(storage),
		},
		Rating:  rating,
		Reviews: reviews,
	}
}

// extractTitle tries page metadata first, then the marketplace title
// elements, then generic headings. First non-empty trimmed result wins.
func extractTitle(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	for _, sel := range []string{"#productTitle", "span.B_NuCI", "title"} {
		if v := strings.TrimSpace(doc.Find(sel).First().Text()); v != "" {
			return v
		}
	}
	if v := strings.TrimSpace(doc.Find("h1").First().Text()); v != "" {
		return v
	}
	return strings.TrimSpace(doc.Find("h1, h2").First().Text())
}

func extractDescription(doc *goquery.Document) string {
	if v, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok && v != "" {
		return v
	}
	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && v != "" {
		return v
	}
	return ""
}

// extractPrice takes the first selector with non-empty text, pulls the first
// digit run (thousand separators allowed), and parses it as a whole amount in
// the local currency. Returns 0 when nothing parses.
func extractPrice(doc *goquery.Document) int {
	for _, sel := range priceSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if text == "" {
			continue
		}
		m := numberPattern.FindString(text)
		if m == "" {
			return 0
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// extractFeatureCandidates unions the bullet lists of the layouts we know,
// plus the first 20 generic list items as a catch-all. Cleanup happens later.
func extractFeatureCandidates(doc *goquery.Document) []string {
	var raw []string
	doc.Find("#feature-bullets li").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, strings.TrimSpace(s.Text()))
	})
	doc.Find("div._2418kt ul li").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, strings.TrimSpace(s.Text()))
	})
	generic := doc.Find("ul li")
	generic.Slice(0, min(generic.Length(), 20)).Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, strings.TrimSpace(s.Text()))
	})
	return uniq(raw)
}

// extractImages merges every known image source on the page, resolves each
// against the page URL, drops placeholders, and deduplicates in discovery
// order. Pages yielding fewer than 3 images get a last-resort scan of the
// first 12 generic <img> elements.
func extractImages(doc *goquery.Document, pageURL string) []string {
	var images []string

	images = append(images, dynamicImageURLs(doc)...)

	doc.Find("#altImages img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" {
			src, _ = s.Attr("data-src")
		}
		images = append(images, src)
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		for _, m := range hiResPattern.FindAllStringSubmatch(text, -1) {
			images = append(images, m[1])
		}
		for _, m := range largePattern.FindAllStringSubmatch(text, -1) {
			images = append(images, m[1])
		}
	})

	if v, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		images = append(images, v)
	}

	images = normalizeImageURLs(images, pageURL)

	if len(images) < 3 {
		var generic []string
		imgs := doc.Find("img")
		imgs.Slice(0, min(imgs.Length(), 12)).Each(func(_ int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok {
				generic = append(generic, src)
			}
		})
		images = uniq(append(images, normalizeImageURLs(generic, pageURL)...))
	}

	return images
}

// dynamicImageURLs parses the JSON size map embedded in the dynamic-image
// attribute; its keys are the gallery URLs. A malformed attribute is treated
// as no match.
func dynamicImageURLs(doc *goquery.Document) []string {
	attr, ok := doc.Find("#landingImage").Attr("data-a-dynamic-image")
	if !ok || attr == "" {
		attr, _ = doc.Find("img[data-a-dynamic-image]").Attr("data-a-dynamic-image")
	}
	if attr == "" {
		return nil
	}

	raw := strings.ReplaceAll(attr, "&quot;", `"`)
	var sizeMap map[string]any
	if err := json.Unmarshal([]byte(raw), &sizeMap); err != nil {
		return nil
	}

	urls := make([]string, 0, len(sizeMap))
	for u := range sizeMap {
		urls = append(urls, u)
	}
	// Keys come back in map order; restore their order in the attribute so
	// repeated extractions of the same page are identical.
	sort.Slice(urls, func(i, j int) bool {
		return strings.Index(raw, urls[i]) < strings.Index(raw, urls[j])
	})
	return urls
}

// normalizeImageURLs resolves candidates against the page URL, keeps only
// absolute HTTP(S) URLs, drops placeholder suffixes, and dedupes.
func normalizeImageURLs(candidates []string, pageURL string) []string {
	base, baseErr := url.Parse(pageURL)

	var out []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		ref, err := url.Parse(c)
		if err != nil {
			continue
		}
		if baseErr == nil {
			ref = base.ResolveReference(ref)
		}
		if ref.Scheme != "http" && ref.Scheme != "https" {
			continue
		}
		abs := ref.String()
		if strings.HasSuffix(abs, placeholderImageSuffix) {
			continue
		}
		out = append(out, abs)
	}
	return uniq(out)
}

// extractRating reads the star widget's alt text, popover title, or the
// alternate rating element, taking the first decimal found. An unparseable
// or out-of-range value falls back to 4.5 — the page layouts this targets
// rarely expose low-rated listings, so absence is assumed good.
func extractRating(doc *goquery.Document) float64 {
	text := strings.TrimSpace(doc.Find("span.a-icon-alt").First().Text())
	if text == "" {
		text, _ = doc.Find("#acrPopover").Attr("title")
	}
	if text == "" {
		text = strings.TrimSpace(doc.Find("div._3LWZlK").First().Text())
	}

	if text != "" {
		if m := decimalPattern.FindString(text); m != "" {
			if v, err := strconv.ParseFloat(m, 64); err == nil && v > 0 && v <= 5 {
				return v
			}
		}
	}
	return 4.5
}

// extractReviews reads the customer-review element's first number; failing
// that, the combined "N Ratings & M Reviews" text where the review count is
// the last number listed.
func extractReviews(doc *goquery.Document) int {
	text := strings.TrimSpace(doc.Find("#acrCustomerReviewText").First().Text())
	if text == "" {
		text = strings.TrimSpace(doc.Find("#acrCustomerReviewLink").First().Text())
	}
	if text != "" {
		if m := numberPattern.FindString(text); m != "" {
			if n, err := strconv.Atoi(strings.ReplaceAll(m, ",", "")); err == nil && n > 0 {
				return n
			}
		}
	}

	combined := strings.TrimSpace(doc.Find("span._2_R_DZ").First().Text())
	if combined != "" {
		nums := numberPattern.FindAllString(combined, -1)
		if len(nums) > 0 {
			last := nums[len(nums)-1]
			if n, err := strconv.Atoi(strings.ReplaceAll(last, ",", "")); err == nil {
				return n
			}
		}
	}
	return 0
}

func extractColorCandidates(doc *goquery.Document) []string {
	var raw []string
	doc.Find("#variation_color_name li img").Each(func(_ int, s *goquery.Selection) {
		v, ok := s.Attr("alt")
		if !ok || v == "" {
			v, _ = s.Attr("title")
		}
		raw = append(raw, v)
	})
	doc.Find("#variation_color_name li").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, attrOrText(s, "title"))
	})
	doc.Find(`div:contains('Colour'), div:contains('Color')`).Find("li, a, button").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, attrOrText(s, "title"))
	})
	return uniq(raw)
}

func extractSizeCandidates(doc *goquery.Document) []string {
	var raw []string
	doc.Find("#variation_size_name li").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, attrOrText(s, "title"))
	})
	doc.Find("#variation_memory_size_name li").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, attrOrText(s, "title"))
	})
	doc.Find(`div:contains('Size'), div:contains('Storage'), div:contains('Memory')`).Find("li, a, button").Each(func(_ int, s *goquery.Selection) {
		raw = append(raw, attrOrText(s, "title"))
	})
	return uniq(raw)
}

func attrOrText(s *goquery.Selection, attr string) string {
	if v, ok := s.Attr(attr); ok && v != "" {
		return v
	}
	return strings.TrimSpace(s.Text())
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
