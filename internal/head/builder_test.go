package head

import (
	"strings"
	"testing"
)

func TestShare(t *testing.T) {
	got := string(New().Share("Q & A", `say "hi"`, "https://x.test/question/1", "https://x.test/question/1/card.jpg").HTML())

	for _, want := range []string{
		`<meta property="og:title" content="Q &amp; A">`,
		`<meta property="og:description" content="say &#34;hi&#34;">`,
		`<meta property="og:image" content="https://x.test/question/1/card.jpg">`,
		`<meta name="twitter:card" content="summary_large_image">`,
		`<link rel="canonical" href="https://x.test/question/1">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in\n%s", want, got)
		}
	}
}

func TestFirstValueWins(t *testing.T) {
	got := string(New().Meta("description", "one").Meta("description", "two").HTML())
	if strings.Count(got, "<meta") != 1 || !strings.Contains(got, "one") {
		t.Fatalf("dedupe failed: %s", got)
	}
}

func TestNilBuilder(t *testing.T) {
	var b *Builder
	if b.HTML() != "" {
		t.Fatal("nil builder should render nothing")
	}
}
