package util

import (
	"reflect"
	"testing"
)

func TestFirstLine(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{in: "\n\n  Senior Go Engineer \nAcme", max: 80, want: "Senior Go Engineer"},
		{in: "   ", max: 80, want: ""},
		{in: "Platform Engineer", max: 8, want: "Platform"},
	}
	for _, tc := range cases {
		if got := FirstLine(tc.in, tc.max); got != tc.want {
			t.Fatalf("FirstLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("Go, Kubernetes\nPostgreSQL,, go ;Docker")
	want := []string{"Go", "Kubernetes", "PostgreSQL", "Docker"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitList = %v, want %v", got, want)
	}
}

func TestWordCountAndContainsFold(t *testing.T) {
	if WordCount("  built a   platform\nfor payments ") != 5 {
		t.Fatalf("unexpected word count")
	}
	if !ContainsFold("Software Engineering Intern", "SOFTWARE") {
		t.Fatalf("expected case-insensitive match")
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Go/Kubernetes, C++ & C#!")
	want := []string{"go", "kubernetes", "c++", "c#"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokens = %v, want %v", got, want)
	}
}
