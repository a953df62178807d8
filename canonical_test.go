package queryeval

import "testing"

func TestBuildKey_EscapesAndAssembles(t *testing.T) {
	got := buildKey("token", []string{intParam(5)}, []string{escapeLiteral("a(b)")})
	want := `#token[5](a\(b\))`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuildKey_OmitsEmptyParamsButKeepsParens(t *testing.T) {
	got := buildKey("and", nil, []string{"#a()", "#b()"})
	want := "#and(#a(),#b())"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeLiteral_EscapesAllSpecialCharacters(t *testing.T) {
	got := escapeLiteral(`#[a,b](c)\`)
	want := `\#\[a\,b\]\(c\)\\`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCanonicalKey_IdenticalTokensProduceIdenticalKeys(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "quick", map[DocumentID][]int{1: {0}, 2: {1}})

	ka := q.node(a).CanonicalKey(q)
	kb := q.node(b).CanonicalKey(q)
	if ka != kb {
		t.Fatalf("expected two SimpleTokenNodes over the same token/length to canonicalise identically, got %q and %q", ka, kb)
	}
}

func TestCanonicalKey_DifferentTokensProduceDifferentKeys(t *testing.T) {
	q := NewQuery(ModeBoolean, DefaultConfig(), nil)
	a := buildToken(q, "quick", map[DocumentID][]int{1: {0}})
	b := buildToken(q, "slow", map[DocumentID][]int{1: {0}})

	ka := q.node(a).CanonicalKey(q)
	kb := q.node(b).CanonicalKey(q)
	if ka == kb {
		t.Fatalf("expected distinct tokens to canonicalise differently, both got %q", ka)
	}
}
