package tfidf

import (
	"reflect"
	"testing"
)

func TestTokenize_LowercasesAndFiltersShortWords(t *testing.T) {
	got := Tokenize("Go BY Alpine Rail to ZERMATT")
	want := []string{"alpine", "rail", "zermatt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_StripsMarkup(t *testing.T) {
	got := Tokenize("<ul><li>Scenic glacier route</li></ul>")
	want := []string{"scenic", "glacier", "route"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_RemovesStopWords(t *testing.T) {
	got := Tokenize("the trip includes a luxury hotel and breakfast in Vienna")
	want := []string{"luxury", "vienna"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenize_EmptyInput(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Errorf("expected no tokens, got %v", got)
	}
	if got := Tokenize("12 34 !!"); len(got) != 0 {
		t.Errorf("expected no tokens for non-alphabetic input, got %v", got)
	}
}

func TestTokenize_Deterministic(t *testing.T) {
	text := "Alpine scenic TRAIN through Switzerland <b>and</b> Italy"
	first := Tokenize(text)
	second := Tokenize(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Tokenize not deterministic: %v vs %v", first, second)
	}
}
