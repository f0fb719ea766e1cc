package scraper

import (
	"testing"

	"github.com/lucedivina/storefront/internal/types"
)

func TestAmazonImageSizeTokenStripped(t *testing.T) {
	rule := amazonRule()

	if !rule.Match("www.amazon.it") || !rule.Match("amazon.com") {
		t.Fatal("amazon hosts must match")
	}
	if rule.Match("example.com") {
		t.Fatal("non-amazon host matched")
	}

	tests := []struct {
		in, want string
	}{
		{
			"https://m.media-amazon.com/images/I/81abc._AC_SY300_SX300_.jpg",
			"https://m.media-amazon.com/images/I/81abc.jpg",
		},
		{
			"https://m.media-amazon.com/images/I/81abc._SL1500_.jpg",
			"https://m.media-amazon.com/images/I/81abc.jpg",
		},
		// No size token: untouched.
		{
			"https://m.media-amazon.com/images/I/81abc.jpg",
			"https://m.media-amazon.com/images/I/81abc.jpg",
		},
	}
	for _, tt := range tests {
		meta := rule.Apply(types.Metadata{Image: tt.in}, "https://www.amazon.it/dp/B00X", htmlDoc("u", 200, ""))
		if meta.Image != tt.want {
			t.Errorf("image %q -> %q, want %q", tt.in, meta.Image, tt.want)
		}
	}
}

func TestYouTubeThumbnailFromVideoID(t *testing.T) {
	rule := youtubeRule()
	doc := htmlDoc("u", 200, "<html></html>")

	tests := []struct {
		target string
		wantID string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/shorts/abc123XYZ", "abc123XYZ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
	}
	for _, tt := range tests {
		meta := rule.Apply(types.Metadata{}, tt.target, doc)
		want := "https://img.youtube.com/vi/" + tt.wantID + "/maxresdefault.jpg"
		if meta.Image != want {
			t.Errorf("%s: image = %q, want %q", tt.target, meta.Image, want)
		}
	}
}

func TestYouTubeThumbnailUpgrade(t *testing.T) {
	rule := youtubeRule()
	doc := htmlDoc("u", 200, "<html></html>")

	meta := rule.Apply(
		types.Metadata{Image: "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg"},
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ", doc)
	if meta.Image != "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Errorf("image = %q, want maxresdefault upgrade", meta.Image)
	}

	// Already high-res: untouched.
	meta = rule.Apply(
		types.Metadata{Image: "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"},
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ", doc)
	if meta.Image != "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Errorf("image = %q, want unchanged", meta.Image)
	}
}

func TestYouTubeChannelFallbacks(t *testing.T) {
	target := "https://www.youtube.com/watch?v=abc"
	rule := youtubeRule()

	t.Run("itemprop link", func(t *testing.T) {
		doc := htmlDoc("u", 200,
			`<html><head><link itemprop="name" content="Worship Italia"></head></html>`)
		meta := rule.Apply(types.Metadata{}, target, doc)
		if meta.Author != "Worship Italia" {
			t.Errorf("author = %q", meta.Author)
		}
	})

	t.Run("ownerChannelName script field", func(t *testing.T) {
		doc := htmlDoc("u", 200,
			`<html><body><script>var cfg = {"ownerChannelName": "Canale Musica"};</script></body></html>`)
		meta := rule.Apply(types.Metadata{}, target, doc)
		if meta.Author != "Canale Musica" {
			t.Errorf("author = %q", meta.Author)
		}
	})

	t.Run("author script field", func(t *testing.T) {
		doc := htmlDoc("u", 200,
			`<html><body><script>{"Author": "Fallback Channel"}</script></body></html>`)
		meta := rule.Apply(types.Metadata{}, target, doc)
		if meta.Author != "Fallback Channel" {
			t.Errorf("author = %q", meta.Author)
		}
	})

	t.Run("title suffix", func(t *testing.T) {
		doc := htmlDoc("u", 200, "<html></html>")
		meta := rule.Apply(
			types.Metadata{Title: "Amazing Grace - Coro Gospel - YouTube"}, target, doc)
		if meta.Author != "Coro Gospel" {
			t.Errorf("author = %q", meta.Author)
		}
	})

	t.Run("existing author preserved", func(t *testing.T) {
		doc := htmlDoc("u", 200,
			`<html><head><link itemprop="name" content="Other"></head></html>`)
		meta := rule.Apply(types.Metadata{Author: "Already Set"}, target, doc)
		if meta.Author != "Already Set" {
			t.Errorf("author = %q, want untouched", meta.Author)
		}
	})
}
