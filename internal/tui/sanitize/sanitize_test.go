package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := map[string]string{
		"Release v2.5.0":                   "Release v2.5.0",
		"\x1b[31mRed\x1b[0m name":          "Red name",
		"title\x1b]0;pwned\x07 ok":         "title ok",
		"\x1b[2J\x1b[HClear":               "Clear",
		"multi\nline\r\n\tname":            "multi line name",
		"  lead and   inner  ":             "lead and inner",
		"zero\u200Bwidth\x00nul":           "zerowidthnul",
		"osc st \x1b]8;;http://x\x1b\\end": "osc st end",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Fatalf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Performance Testing", 8); got != "Perform…" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := Truncate("abc", 1); got != "…" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := Truncate("abc", 0); got != "" {
		t.Fatalf("unexpected: %q", got)
	}
}
