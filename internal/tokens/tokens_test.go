package tokens

import (
	"reflect"
	"testing"
)

func TestExpandDeterministic(t *testing.T) {
	first := Expand("Laptops")
	second := Expand("Laptops")
	if !reflect.DeepEqual(first.Tokens(), second.Tokens()) {
		t.Fatalf("expansion not deterministic: %v vs %v", first.Tokens(), second.Tokens())
	}
}

func TestExpandIdempotentOnCanonical(t *testing.T) {
	base := Expand("laptop")
	again := Expand(base.Canonical())
	if !reflect.DeepEqual(base.Tokens(), again.Tokens()) {
		t.Fatalf("re-expanding the canonical term changed the set: %v vs %v", base.Tokens(), again.Tokens())
	}
}

func TestExpandLaptopFamily(t *testing.T) {
	set := Expand("Laptops")
	toks := set.Tokens()
	if len(toks) == 0 || toks[0] != "laptops" {
		t.Fatalf("canonical term must be first, got %v", toks)
	}
	for _, want := range []string{"laptop", "notebook", "chromebook", "macbook", "ultrabook"} {
		if !contains(toks, want) {
			t.Fatalf("expected %q in laptop expansion, got %v", want, toks)
		}
	}
}

func TestExpandUnknownIsSingleton(t *testing.T) {
	set := Expand("  Toaster ")
	if got := set.Tokens(); len(got) != 1 || got[0] != "toaster" {
		t.Fatalf("unknown category should degrade to singleton, got %v", got)
	}
}

func TestExpandEmpty(t *testing.T) {
	set := Expand("   ")
	if !set.Empty() {
		t.Fatalf("blank input should produce an empty set, got %v", set.Tokens())
	}
	if set.Matches("laptop") {
		t.Fatalf("empty set must not match anything")
	}
	if set.Matches("MacBook Pro") {
		t.Fatalf("empty set must not match family-suffix words either")
	}
}

func TestMatches(t *testing.T) {
	set := Expand("laptop")
	cases := []struct {
		text string
		want bool
	}{
		{"Latitude-7455-laptop-pcf.pdf", true},
		{"MacBook Pro 16", true},         // family suffix
		{"Zenbook 14 OLED", true},        // family suffix on unlisted brand
		{"notebook carbon report", true},
		{"phone-report.pdf", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := set.Matches(tc.text); got != tc.want {
			t.Fatalf("Matches(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
