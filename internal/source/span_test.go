package source

import (
	"testing"
)

func TestNewSpan(t *testing.T) {
	sp := NewSpan(3, 9)
	if sp.Start != 3 || sp.End != 9 {
		t.Fatalf("expected 3-9, got %s", sp)
	}
	if sp.Len() != 6 {
		t.Fatalf("expected len 6, got %d", sp.Len())
	}
	if !At(4).Empty() {
		t.Fatalf("expected At to produce an empty span")
	}
}

func TestNewSpanPanicsOnNegativeOffset(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for negative offset")
		}
	}()
	_ = NewSpan(-1, 2)
}
