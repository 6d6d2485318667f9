package vault

import "testing"

func TestParseRef(t *testing.T) {
	cases := []struct {
		in        string
		path, key string
		ok        bool
	}{
		{"vault:kv/reing#smtp_password", "kv/reing", "smtp_password", true},
		{"vault:kv/a/b#k", "kv/a/b", "k", true},
		{"vault:kv/reing", "", "", false},
		{"vault:#k", "", "", false},
		{"plain", "", "", false},
	}
	for _, c := range cases {
		p, k, err := ParseRef(c.in)
		if (err == nil) != c.ok {
			t.Fatalf("ParseRef(%q) err = %v, want ok=%v", c.in, err, c.ok)
		}
		if p != c.path || k != c.key {
			t.Errorf("ParseRef(%q) = (%q, %q)", c.in, p, k)
		}
	}
}

func TestSplitMount(t *testing.T) {
	m, r := splitMount("kv/reing/prod")
	if m != "kv" || r != "reing/prod" {
		t.Fatalf("splitMount = (%q, %q)", m, r)
	}
}
