package errors

import (
	"strings"
	"testing"

	"github.com/tluyben/phpfront/internal/token"
)

func TestLineMapPosition(t *testing.T) {
	src := "ab\ncde\n\nf"
	lm := NewLineMap(src)

	cases := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // 换行符本身属于行尾
		{3, 2, 1},
		{5, 2, 3},
		{7, 3, 1},
		{8, 4, 1},
	}
	for _, c := range cases {
		line, col := lm.Position(c.offset)
		if line != c.line || col != c.column {
			t.Errorf("Position(%d) = %d:%d, want %d:%d", c.offset, line, col, c.line, c.column)
		}
	}

	if lm.LineCount() != 4 {
		t.Errorf("LineCount = %d, want 4", lm.LineCount())
	}
	if lm.LineStart(2) != 3 {
		t.Errorf("LineStart(2) = %d, want 3", lm.LineStart(2))
	}
}

func TestCollectorOrderAndFilter(t *testing.T) {
	c := NewCollector()
	c.Warning(token.NewSpan(0, 1), TooBigIntegerConversion, "w1")
	c.Error(token.NewSpan(5, 1), SyntaxError, "e1")
	c.Warning(token.NewSpan(9, 1), InvalidCodePoint, "w2")

	if len(c.Diagnostics) != 3 {
		t.Fatalf("diagnostic count = %d", len(c.Diagnostics))
	}
	// 顺序与上报顺序一致
	if c.Diagnostics[0].Message != "w1" || c.Diagnostics[2].Message != "w2" {
		t.Error("diagnostics out of order")
	}
	if !c.HasErrors() {
		t.Error("HasErrors = false")
	}
	if len(c.Errors()) != 1 || len(c.Warnings()) != 2 {
		t.Errorf("filtering mismatch: %d errors, %d warnings", len(c.Errors()), len(c.Warnings()))
	}
}

func TestLookupCodes(t *testing.T) {
	info, ok := Lookup(SyntaxError)
	if !ok || info.Level != LevelError {
		t.Errorf("Lookup(SyntaxError) = %v, %v", info, ok)
	}
	info, ok = Lookup(TooBigIntegerConversion)
	if !ok || info.Level != LevelWarning {
		t.Errorf("Lookup(TooBigIntegerConversion) = %v, %v", info, ok)
	}
	if !IsWarning(TooBigIntegerConversion) || IsWarning(SyntaxError) {
		t.Error("IsWarning mismatch")
	}
}

func TestFormatterOutput(t *testing.T) {
	src := "<?php echo 1 + + ;\n"
	lm := NewLineMap(src)
	f := &Formatter{Colors: false, ShowSource: true, TabWidth: 4}

	d := Diagnostic{
		Span:    token.NewSpan(15, 1),
		Code:    SyntaxError,
		Level:   LevelError,
		Message: "syntax error near '+'",
	}
	out := f.Format(d, "demo.php", src, lm)

	for _, want := range []string{"error[E0001]", "demo.php:1:16", "echo 1 + + ;", "^"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatted output missing %q:\n%s", want, out)
		}
	}
}
