package ua

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		bot    bool
		device string
	}{
		{"chrome mac",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.6422.60 Safari/537.36",
			false, "Desktop"},
		{"iphone safari",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
			false, "Mobile"},
		{"googlebot",
			"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			true, "Bot"},
		{"empty", "", true, "Bot"},
	}
	for _, c := range cases {
		got := Parse(c.raw)
		if got.IsBot != c.bot || got.Device != c.device {
			t.Errorf("%s: got bot=%v device=%q, want bot=%v device=%q", c.name, got.IsBot, got.Device, c.bot, c.device)
		}
	}
}

func TestVersionTrim(t *testing.T) {
	if got := Parse("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36").Version; got != "125" {
		t.Fatalf("Version = %q, want 125", got)
	}
}
