package preview

import (
	"strings"
	"testing"
)

func TestFromTextFirstLine(t *testing.T) {
	got := FromText("Buy milk\nand eggs")
	if got != "Buy milk" {
		t.Errorf("preview = %q", got)
	}
}

func TestFromTextSkipsBlankAndHeading(t *testing.T) {
	got := FromText("\n\n## Groceries \nmilk")
	if got != "Groceries" {
		t.Errorf("preview = %q", got)
	}
}

func TestFromTextTruncates(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := FromText(long)
	if len([]rune(got)) != 80 {
		t.Errorf("len = %d, want 80", len([]rune(got)))
	}
}

func TestFromTextEmpty(t *testing.T) {
	if got := FromText("  \n\t\n"); got != "" {
		t.Errorf("preview = %q, want empty", got)
	}
}
