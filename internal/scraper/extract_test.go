package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPageURL = "https://www.amazon.in/dp/B0TESTASIN"

const fullProductHTML = `<!DOCTYPE html>
<html>
<head>
<title>Fallback Page Title</title>
<meta property="og:title" content="Acme Phone 5G (Midnight Black, 8GB RAM, 128GB Storage)">
<meta name="description" content="Acme Phone 5G with triple camera. Add to cart today. 5000mAh battery">
<meta property="og:image" content="https://m.media-amazon.com/images/I/og-image.jpg">
</head>
<body>
<span id="productTitle">Acme Phone 5G element title</span>
<div id="corePrice_feature_div"><span class="a-price-whole">12,999</span></div>
<div id="feature-bullets">
<ul>
<li>6.5 inch FHD+ display with 120Hz refresh</li>
<li>Triple camera setup with night mode</li>
<li>Add to cart</li>
<li>6.5 inch FHD+ display with 120Hz refresh</li>
</ul>
</div>
<img id="landingImage" data-a-dynamic-image='{"https://m.media-amazon.com/images/I/main-hi.jpg":[1500,1500],"https://m.media-amazon.com/images/I/main-lo.jpg":[500,500]}' src="https://m.media-amazon.com/images/I/main-lo.jpg">
<div id="altImages"><ul>
<li><img src="https://m.media-amazon.com/images/I/thumb-1.jpg"></li>
<li><img data-src="https://m.media-amazon.com/images/I/thumb-2.jpg"></li>
<li><img src="https://m.media-amazon.com/images/I/sprite_.jpg"></li>
</ul></div>
<script>
var data = {"colorImages": [{"hiRes":"https://m.media-amazon.com/images/I/script-hi.jpg","large":"https://m.media-amazon.com/images/I/script-large.jpg"}]};
</script>
<span class="a-icon-alt">4.3 out of 5 stars</span>
<span id="acrCustomerReviewText">12,345 ratings</span>
<div id="variation_color_name"><ul>
<li><img alt="Midnight Black" src="/images/swatch-black.jpg"></li>
<li><img alt="Ocean Blue" src="/images/swatch-blue.jpg"></li>
</ul></div>
<div id="variation_memory_size_name"><ul>
<li title="8GB RAM, 128GB Storage"></li>
</ul></div>
</body>
</html>`

func TestExtractFromHTML_FullPage(t *testing.T) {
	product, err := ExtractFromHTML(fullProductHTML, productPageURL)
	require.NoError(t, err)

	t.Run("title prefers page metadata", func(t *testing.T) {
		assert.Equal(t, "Acme Phone 5G (Midnight Black, 8GB RAM, 128GB Storage)", product.Name)
	})

	t.Run("description cleaned of chrome", func(t *testing.T) {
		assert.Equal(t, "Acme Phone 5G with triple camera. 5000mAh battery", product.Description)
	})

	t.Run("price parsed as whole amount", func(t *testing.T) {
		assert.Equal(t, 12999, product.Price)
	})

	t.Run("features filtered and deduplicated", func(t *testing.T) {
		assert.Contains(t, product.Features, "6.5 inch FHD+ display with 120Hz refresh")
		assert.Contains(t, product.Features, "Triple camera setup with night mode")
		seen := make(map[string]bool)
		for _, f := range product.Features {
			assert.False(t, seen[f], "duplicate feature %q", f)
			seen[f] = true
			assert.GreaterOrEqual(t, len(f), 4)
			assert.LessOrEqual(t, len(f), 220)
			assert.NotContains(t, strings.ToLower(f), "add to cart")
		}
		assert.LessOrEqual(t, len(product.Features), 12)
	})

	t.Run("images merge every strategy in discovery order", func(t *testing.T) {
		assert.Equal(t, []string{
			"https://m.media-amazon.com/images/I/main-hi.jpg",
			"https://m.media-amazon.com/images/I/main-lo.jpg",
			"https://m.media-amazon.com/images/I/thumb-1.jpg",
			"https://m.media-amazon.com/images/I/thumb-2.jpg",
			"https://m.media-amazon.com/images/I/script-hi.jpg",
			"https://m.media-amazon.com/images/I/script-large.jpg",
			"https://m.media-amazon.com/images/I/og-image.jpg",
		}, product.Images)
		assert.Equal(t, product.Images[0], product.Image)
	})

	t.Run("placeholder suffix excluded", func(t *testing.T) {
		for _, img := range product.Images {
			assert.False(t, strings.HasSuffix(img, "_.jpg"), "placeholder leaked: %s", img)
		}
	})

	t.Run("rating and reviews", func(t *testing.T) {
		assert.Equal(t, 4.3, product.Rating)
		assert.Equal(t, 12345, product.Reviews)
	})

	t.Run("color variants from swatches", func(t *testing.T) {
		assert.Contains(t, product.Variants.Colors, "Midnight Black")
		assert.Contains(t, product.Variants.Colors, "Ocean Blue")
		assert.LessOrEqual(t, len(product.Variants.Colors), 12)
	})

	t.Run("memory tokens parsed from title", func(t *testing.T) {
		assert.Equal(t, []string{"8GB"}, product.Variants.RAM)
		assert.Equal(t, []string{"128GB"}, product.Variants.Storage)
	})

	t.Run("idempotent for fixed input", func(t *testing.T) {
		again, err := ExtractFromHTML(fullProductHTML, productPageURL)
		require.NoError(t, err)
		assert.Equal(t, product, again)
	})
}

func TestExtractFromHTML_EmptyPage(t *testing.T) {
	product, err := ExtractFromHTML("<html><body><p>nothing here</p></body></html>", productPageURL)
	require.NoError(t, err)

	assert.Equal(t, "", product.Name)
	assert.Equal(t, 0, product.Price)
	assert.Equal(t, "", product.Description)
	assert.Empty(t, product.Images)
	assert.Equal(t, "", product.Image)
	assert.Empty(t, product.Features)
	assert.Empty(t, product.Variants.Colors)
	assert.Empty(t, product.Variants.RAM)
	assert.Empty(t, product.Variants.Storage)
	assert.Equal(t, 4.5, product.Rating, "missing rating defaults to 4.5")
	assert.Equal(t, 0, product.Reviews)
}

func TestExtractFromHTML_OGImageOnly(t *testing.T) {
	html := `<html><head>
<meta property="og:image" content="/images/I/only.jpg">
</head><body><p>sparse page</p></body></html>`

	product, err := ExtractFromHTML(html, "https://www.example.in/dp/B0SPARSE01")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://www.example.in/images/I/only.jpg"}, product.Images)
	assert.Equal(t, "https://www.example.in/images/I/only.jpg", product.Image)
}

func TestExtractFromHTML_GenericImageSupplement(t *testing.T) {
	html := `<html><body>
<img src="/a.jpg"><img src="/b.jpg"><img src="/a.jpg"><img src="data:image/gif;base64,xyz">
</body></html>`

	product, err := ExtractFromHTML(html, "https://shop.example.com/item")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://shop.example.com/a.jpg",
		"https://shop.example.com/b.jpg",
	}, product.Images)
}

func TestExtractFromHTML_MalformedDynamicImageAttr(t *testing.T) {
	html := `<html><body>
<img id="landingImage" data-a-dynamic-image="{not valid json" src="https://img.example.com/main.jpg">
</body></html>`

	product, err := ExtractFromHTML(html, "https://shop.example.com/item")
	require.NoError(t, err)

	// The malformed attribute is a non-match; the generic scan still finds
	// the element's src.
	assert.Equal(t, []string{"https://img.example.com/main.jpg"}, product.Images)
}

func TestExtractPrice(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected int
	}{
		{
			name:     "primary price block",
			html:     `<div id="corePrice_feature_div"><span class="a-price-whole">1,29,999</span></div>`,
			expected: 129999,
		},
		{
			name:     "legacy price block",
			html:     `<span id="priceblock_ourprice">₹ 4,999.00</span>`,
			expected: 4999,
		},
		{
			name:     "alternate marketplace block",
			html:     `<div class="_30jeq3 _16Jk6d">₹74,999</div>`,
			expected: 74999,
		},
		{
			name:     "generic price class",
			html:     `<div class="product-price">999</div>`,
			expected: 999,
		},
		{
			name:     "no price markup",
			html:     `<div>no price here</div>`,
			expected: 0,
		},
		{
			name:     "non-numeric price text",
			html:     `<span id="priceblock_ourprice">Currently unavailable</span>`,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := ExtractFromHTML("<html><body>"+tt.html+"</body></html>", productPageURL)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, product.Price)
			assert.GreaterOrEqual(t, product.Price, 0)
		})
	}
}

func TestExtractReviews_CombinedRatingsText(t *testing.T) {
	html := `<html><body>
<span class="_2_R_DZ">12,345 Ratings &amp; 2,109 Reviews</span>
</body></html>`

	product, err := ExtractFromHTML(html, productPageURL)
	require.NoError(t, err)

	// Reviews are listed second; the last number wins.
	assert.Equal(t, 2109, product.Reviews)
}

func TestExtractRating_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected float64
	}{
		{
			name:     "popover title attribute",
			html:     `<span id="acrPopover" title="3.9 out of 5 stars"></span>`,
			expected: 3.9,
		},
		{
			name:     "alternate rating element",
			html:     `<div class="_3LWZlK">4.1</div>`,
			expected: 4.1,
		},
		{
			name:     "unparseable text defaults",
			html:     `<span class="a-icon-alt">no stars at all</span>`,
			expected: 4.5,
		},
		{
			name:     "out of range defaults",
			html:     `<span class="a-icon-alt">99 out of 5</span>`,
			expected: 4.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := ExtractFromHTML("<html><body>"+tt.html+"</body></html>", productPageURL)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, product.Rating)
		})
	}
}

func TestExtractFromHTML_ColorContainerFallback(t *testing.T) {
	html := `<html><body>
<div><span>Colour options</span>
<ul>
<li title="Forest Green"></li>
<li>Sunset Orange</li>
</ul>
</div>
</body></html>`

	product, err := ExtractFromHTML(html, productPageURL)
	require.NoError(t, err)

	assert.Contains(t, product.Variants.Colors, "Forest Green")
	assert.Contains(t, product.Variants.Colors, "Sunset Orange")
}

func TestExtractFromHTML_SizeCandidatesFallback(t *testing.T) {
	html := `<html><body>
<div id="variation_size_name"><ul>
<li title="6GB RAM"></li>
<li title="256gb"></li>
<li title="Large"></li>
</ul></div>
</body></html>`

	product, err := ExtractFromHTML(html, productPageURL)
	require.NoError(t, err)

	// No parseable tokens in title or features, so the selector-derived
	// candidates fill in, filtered by unit pattern.
	assert.Equal(t, []string{"6GB"}, product.Variants.RAM)
	assert.Equal(t, []string{"6GB RAM", "256GB"}, product.Variants.Storage)
}
