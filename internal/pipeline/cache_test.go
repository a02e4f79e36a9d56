package pipeline

import (
	"testing"
	"time"

	"github.com/dgallion1/fnolgest/internal/claim"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestCacheKey_SeparatesSourceAndText(t *testing.T) {
	if cacheKey("ab", "c") == cacheKey("a", "bc") {
		t.Error("expected distinct keys when the source/text boundary moves")
	}
}

func TestCache_GetPut(t *testing.T) {
	c := NewCache(time.Minute)
	if _, ok := c.Get("a.txt", "text"); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := claim.Result{Source: "a.txt", Route: claim.RouteFastTrack, Reason: "r"}
	c.Put("a.txt", "text", want)

	got, ok := c.Get("a.txt", "text")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got.Route != want.Route || got.Reason != want.Reason {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if _, ok := c.Get("a.txt", "other text"); ok {
		t.Error("expected miss for different text")
	}
}

func TestCache_Expires(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	c.Put("a.txt", "text", claim.Result{Source: "a.txt"})
	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("a.txt", "text"); ok {
		t.Error("expected entry to expire")
	}
}
