package pgadapter

import "testing"

func TestDialectPlaceholder(t *testing.T) {
	for i, want := range map[int]string{1: "$1", 12: "$12"} {
		if got := Dialect.Placeholder(i); got != want {
			t.Errorf("Placeholder(%d) = %q, want %q", i, got, want)
		}
	}
}
