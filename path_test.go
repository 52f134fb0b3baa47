package jsonavro_test

import (
	"testing"

	jsonavro "github.com/reoring/jsonavro"
)

func TestPath_EnterAndString(t *testing.T) {
	p := jsonavro.RootPath.Enter("order").Enter("items").Enter("price")
	if got := p.String(); got != "order.items.price" {
		t.Fatalf("got %q", got)
	}
	if p.Len() != 3 || p.Last() != "price" {
		t.Fatalf("unexpected shape: len=%d last=%q", p.Len(), p.Last())
	}
}

func TestPath_NoDuplicateOnReentry(t *testing.T) {
	p := jsonavro.RootPath.Enter("a").Enter("a").Enter("")
	if got := p.String(); got != "a" {
		t.Fatalf("segment repeated: %q", got)
	}
}

func TestPath_Immutable(t *testing.T) {
	base := jsonavro.RootPath.Enter("a")
	left := base.Enter("b")
	right := base.Enter("c")
	if left.String() != "a.b" || right.String() != "a.c" || base.String() != "a" {
		t.Fatalf("paths interfere: %q %q %q", left, right, base)
	}
	if jsonavro.RootPath.String() != "" {
		t.Fatalf("root must render empty")
	}
}
