package cli

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"Day", "Count"}, [][]string{{"rose", "3"}, {"kiss"}}, AlignLeft, AlignRight)

	for _, want := range []string{"Day", "Count", "rose", "kiss", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable() missing %q:\n%s", want, out)
		}
	}
	if got := RenderTable(nil, nil); got != "" {
		t.Errorf("RenderTable(nil) = %q, want empty", got)
	}
}
