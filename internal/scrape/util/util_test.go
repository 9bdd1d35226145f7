package util_test

import (
	"testing"

	"jobfinder-engine/internal/scrape/util"
)

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"  Senior\n  Go Engineer ":  "Senior Go Engineer",
		"Acme\u00a0Corp":             "Acme Corp",
		"":                          "",
		"\t\n":                      "",
		"Ünïcödé  — Bucureşti":      "Ünïcödé — Bucureşti",
	}
	for in, want := range cases {
		if got := util.CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripQuery(t *testing.T) {
	cases := map[string]string{
		"https://x.test/jobs/view/1?refId=abc&trk=z": "https://x.test/jobs/view/1",
		"https://x.test/jobs/view/2":                 "https://x.test/jobs/view/2",
		" https://x.test/a?b?c ":                     "https://x.test/a",
		"?only":                                      "",
	}
	for in, want := range cases {
		if got := util.StripQuery(in); got != want {
			t.Errorf("StripQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	if !util.ContainsFold("https://x.test/xyz/easyApply?y=2", "easyapply") {
		t.Error("expected case-insensitive match")
	}
	if util.ContainsFold("https://x.test/abc?x=1", "easyapply") {
		t.Error("unexpected match")
	}
}

func TestQueryValue(t *testing.T) {
	cases := map[string]string{
		"United Kingdom":     "United%20Kingdom",
		"Go Developer":       "Go%20Developer",
		"C++ & Qt":           "C%2B%2B%20%26%20Qt",
		"a/b?c=d":            "a%2Fb%3Fc%3Dd",
		"  leading trailing": "%20%20leading%20trailing",
		"Bucureşti":          "Bucure%C5%9Fti",
	}
	for in, want := range cases {
		if got := util.QueryValue(in); got != want {
			t.Errorf("QueryValue(%q) = %q, want %q", in, got, want)
		}
	}
}
