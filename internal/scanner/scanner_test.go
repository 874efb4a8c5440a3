package scanner

import (
	"strings"
	"testing"

	"github.com/tluyben/phpfront/internal/errors"
	"github.com/tluyben/phpfront/internal/token"
)

// scanAll 扫描全部 token（含空白和注释）
func scanAll(t *testing.T, src string, cfg Config) ([]token.Token, *errors.Collector) {
	t.Helper()
	collector := errors.NewCollector()
	if cfg.Reporter == nil {
		cfg.Reporter = collector
	}
	s := NewString(src, cfg)

	var tokens []token.Token
	for i := 0; ; i++ {
		if i > 100000 {
			t.Fatal("scanner did not terminate")
		}
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.END {
			break
		}
	}
	return tokens, collector
}

// significant 过滤掉空白和注释
func significant(tokens []token.Token) []token.Token {
	var out []token.Token
	for _, tok := range tokens {
		switch tok.Kind {
		case token.T_WHITESPACE, token.T_COMMENT, token.T_DOC_COMMENT:
			continue
		}
		out = append(out, tok)
	}
	return out
}

// expectKinds 比较 token 类型序列
func expectKinds(t *testing.T, tokens []token.Token, expected []token.Kind) {
	t.Helper()
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d\ntokens: %v", len(tokens), len(expected), tokens)
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token[%d] kind mismatch: got %s, want %s", i, tok.Kind, expected[i])
		}
	}
}

func TestScannerOperators(t *testing.T) {
	input := `<?php + - * / % ** = += -= *= /= .= %= &= |= ^= <<= >>= **= == === != !== <> <=> < <= > >= << >> ++ -- && || ?? :: \ ... ?:`

	expected := []token.Kind{
		token.T_OPEN_TAG,
		'+', '-', '*', '/', '%', token.T_POW,
		'=', token.T_PLUS_EQUAL, token.T_MINUS_EQUAL, token.T_MUL_EQUAL,
		token.T_DIV_EQUAL, token.T_CONCAT_EQUAL, token.T_MOD_EQUAL,
		token.T_AND_EQUAL, token.T_OR_EQUAL, token.T_XOR_EQUAL,
		token.T_SL_EQUAL, token.T_SR_EQUAL, token.T_POW_EQUAL,
		token.T_IS_EQUAL, token.T_IS_IDENTICAL, token.T_IS_NOT_EQUAL,
		token.T_IS_NOT_IDENTICAL, token.T_IS_NOT_EQUAL, token.T_SPACESHIP,
		'<', token.T_IS_SMALLER_OR_EQUAL, '>', token.T_IS_GREATER_OR_EQUAL,
		token.T_SL, token.T_SR,
		token.T_INC, token.T_DEC,
		token.T_BOOLEAN_AND, token.T_BOOLEAN_OR, token.T_COALESCE,
		token.T_DOUBLE_COLON, token.T_NS_SEPARATOR, token.T_ELLIPSIS,
		'?', ':',
		token.END,
	}

	tokens, _ := scanAll(t, input, Config{})
	expectKinds(t, significant(tokens), expected)
}

func TestScannerKeywordsCaseInsensitive(t *testing.T) {
	input := `<?php echo ECHO Echo If WHILE Function FOREACH elseIf`

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_ECHO, token.T_ECHO, token.T_ECHO,
		token.T_IF, token.T_WHILE, token.T_FUNCTION, token.T_FOREACH,
		token.T_ELSEIF,
		token.END,
	}

	tokens, _ := scanAll(t, input, Config{})
	expectKinds(t, significant(tokens), expected)
}

func TestScannerVariables(t *testing.T) {
	input := `<?php $name $this $_x $x1`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	names := []string{"name", "this", "_x", "x1"}
	if len(sig) != len(names)+2 {
		t.Fatalf("token count mismatch: got %d, want %d", len(sig), len(names)+2)
	}
	for i, want := range names {
		tok := sig[i+1]
		if tok.Kind != token.T_VARIABLE {
			t.Errorf("token[%d] kind mismatch: got %s, want T_VARIABLE", i+1, tok.Kind)
		}
		if tok.Value.Text() != want {
			t.Errorf("token[%d] name mismatch: got %q, want %q", i+1, tok.Value.Text(), want)
		}
	}
}

// 场景 1: 内联 HTML 与开标签
func TestScannerInlineHTML(t *testing.T) {
	input := `Hello <?php $x = 1; ?> World`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_INLINE_HTML, token.T_OPEN_TAG,
		token.T_VARIABLE, '=', token.T_LNUMBER, ';',
		token.T_CLOSE_TAG, token.T_INLINE_HTML,
		token.END,
	}
	expectKinds(t, sig, expected)

	if got := sig[0].Value.Text(); got != "Hello " {
		t.Errorf("inline html mismatch: got %q, want %q", got, "Hello ")
	}
	if got := sig[2].Value.Text(); got != "x" {
		t.Errorf("variable name mismatch: got %q, want %q", got, "x")
	}
	if got := sig[4].Value.Int(); got != 1 {
		t.Errorf("number value mismatch: got %d, want 1", got)
	}
	if got := sig[7].Value.Text(); got != " World" {
		t.Errorf("inline html mismatch: got %q, want %q", got, " World")
	}
}

func TestScannerShortOpenTags(t *testing.T) {
	input := `<a><? echo 1; ?>`

	// 关闭短标签：整个输入都是 HTML
	tokens, _ := scanAll(t, input, Config{ShortOpenTags: false})
	sig := significant(tokens)
	expectKinds(t, sig, []token.Kind{token.T_INLINE_HTML, token.END})

	// 打开短标签
	tokens, _ = scanAll(t, input, Config{ShortOpenTags: true})
	sig = significant(tokens)
	expected := []token.Kind{
		token.T_INLINE_HTML, token.T_OPEN_TAG,
		token.T_ECHO, token.T_LNUMBER, ';', token.T_CLOSE_TAG,
		token.END,
	}
	expectKinds(t, sig, expected)
}

func TestScannerOpenTagWithEcho(t *testing.T) {
	input := `<?= 42 ?>`

	tokens, _ := scanAll(t, input, Config{})
	expected := []token.Kind{
		token.T_OPEN_TAG_WITH_ECHO, token.T_LNUMBER, token.T_CLOSE_TAG, token.END,
	}
	expectKinds(t, significant(tokens), expected)
}

// 边界行为：结尾带不带换行，token 序列一致
func TestScannerCloseTagTrailingNewline(t *testing.T) {
	expected := []token.Kind{
		token.T_OPEN_TAG, token.T_ECHO, token.T_LNUMBER, ';',
		token.T_CLOSE_TAG, token.END,
	}

	for _, input := range []string{"<?php echo 1; ?>", "<?php echo 1; ?>\n"} {
		tokens, _ := scanAll(t, input, Config{})
		expectKinds(t, significant(tokens), expected)
	}
}

func TestScannerSimpleDoubleQuoted(t *testing.T) {
	input := `<?php "ab\tc\n\x41\u{42}\q";`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	if sig[1].Kind != token.T_CONSTANT_ENCAPSED_STRING {
		t.Fatalf("kind mismatch: got %s, want T_CONSTANT_ENCAPSED_STRING", sig[1].Kind)
	}
	want := "ab\tc\nAB\\q"
	if got := sig[1].Value.Text(); got != want {
		t.Errorf("decoded value mismatch: got %q, want %q", got, want)
	}
}

func TestScannerSingleQuoted(t *testing.T) {
	input := "<?php 'a\\\\b\\'c\\n';"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	if sig[1].Kind != token.T_CONSTANT_ENCAPSED_STRING {
		t.Fatalf("kind mismatch: got %s", sig[1].Kind)
	}
	// 只认 \\ 和 \'，\n 原样保留
	want := "a\\b'c\\n"
	if got := sig[1].Value.Text(); got != want {
		t.Errorf("decoded value mismatch: got %q, want %q", got, want)
	}
}

// 场景 2: 双引号变量插值
func TestScannerInterpolation(t *testing.T) {
	input := `<?php "a$x b";`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		'"', token.T_ENCAPSED_AND_WHITESPACE, token.T_VARIABLE,
		token.T_ENCAPSED_AND_WHITESPACE, '"', ';',
		token.END,
	}
	expectKinds(t, sig, expected)

	if got := sig[2].Value.Text(); got != "a" {
		t.Errorf("part mismatch: got %q, want %q", got, "a")
	}
	if got := sig[3].Value.Text(); got != "x" {
		t.Errorf("variable mismatch: got %q, want %q", got, "x")
	}
	if got := sig[4].Value.Text(); got != " b" {
		t.Errorf("part mismatch: got %q, want %q", got, " b")
	}
}

func TestScannerInterpolationForms(t *testing.T) {
	input := `<?php "{$a} ${b} $c[0] $d->e";`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG, '"',
		token.T_CURLY_OPEN, token.T_VARIABLE, '}',
		token.T_ENCAPSED_AND_WHITESPACE,
		token.T_DOLLAR_OPEN_CURLY_BRACES, token.T_STRING_VARNAME, '}',
		token.T_ENCAPSED_AND_WHITESPACE,
		token.T_VARIABLE, '[', token.T_NUM_STRING, ']',
		token.T_ENCAPSED_AND_WHITESPACE,
		token.T_VARIABLE, token.T_OBJECT_OPERATOR, token.T_STRING,
		'"', ';',
		token.END,
	}
	expectKinds(t, sig, expected)
}

// 场景 3: heredoc
func TestScannerHeredoc(t *testing.T) {
	input := "<?php $s = <<<EOT\nline1\nEOT;\n"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_VARIABLE, '=',
		token.T_START_HEREDOC, token.T_ENCAPSED_AND_WHITESPACE, token.T_END_HEREDOC,
		';',
		token.END,
	}
	expectKinds(t, sig, expected)

	if got := sig[4].Value.Text(); got != "line1\n" {
		t.Errorf("heredoc body mismatch: got %q, want %q", got, "line1\n")
	}
	if got := sig[5].Value.Text(); got != "EOT" {
		t.Errorf("heredoc label mismatch: got %q, want %q", got, "EOT")
	}
}

// 边界行为：标签只是行内子串时不终止
func TestScannerHeredocLabelSubstring(t *testing.T) {
	input := "<?php <<<EOT\nEOTx\nsome EOT\nEOT\n;"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_START_HEREDOC, token.T_ENCAPSED_AND_WHITESPACE, token.T_END_HEREDOC,
		';',
		token.END,
	}
	expectKinds(t, sig, expected)

	if got := sig[2].Value.Text(); got != "EOTx\nsome EOT\n" {
		t.Errorf("heredoc body mismatch: got %q", got)
	}
}

func TestScannerNowdoc(t *testing.T) {
	input := "<?php <<<'EOT'\nraw $x\\n\nEOT;\n"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_START_HEREDOC, token.T_ENCAPSED_AND_WHITESPACE, token.T_END_HEREDOC,
		';',
		token.END,
	}
	expectKinds(t, sig, expected)

	// nowdoc 无转义无插值
	if got := sig[2].Value.Text(); got != "raw $x\\n\n" {
		t.Errorf("nowdoc body mismatch: got %q", got)
	}
}

func TestScannerHeredocQuotedLabel(t *testing.T) {
	input := "<?php <<<\"EOT\"\na$x\nEOT;\n"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_START_HEREDOC,
		token.T_ENCAPSED_AND_WHITESPACE, token.T_VARIABLE, token.T_ENCAPSED_AND_WHITESPACE,
		token.T_END_HEREDOC,
		';',
		token.END,
	}
	expectKinds(t, sig, expected)
}

// 场景 4 + 边界行为：整数溢出降级
func TestScannerIntegerPromotion(t *testing.T) {
	t.Run("max int64 stays integer", func(t *testing.T) {
		tokens, collector := scanAll(t, "<?php 9223372036854775807;", Config{})
		sig := significant(tokens)
		if sig[1].Kind != token.T_LNUMBER {
			t.Fatalf("kind mismatch: got %s, want T_LNUMBER", sig[1].Kind)
		}
		if sig[1].Value.Int() != 9223372036854775807 {
			t.Errorf("value mismatch: got %d", sig[1].Value.Int())
		}
		if len(collector.Warnings()) != 0 {
			t.Errorf("unexpected warnings: %v", collector.Warnings())
		}
	})

	t.Run("one past max promotes to double", func(t *testing.T) {
		tokens, collector := scanAll(t, "<?php 9223372036854775808;", Config{})
		sig := significant(tokens)
		if sig[1].Kind != token.T_DNUMBER {
			t.Fatalf("kind mismatch: got %s, want T_DNUMBER", sig[1].Kind)
		}
		warns := collector.Warnings()
		if len(warns) != 1 || warns[0].Code != errors.TooBigIntegerConversion {
			t.Fatalf("expected TooBigIntegerConversion warning, got %v", warns)
		}
	})

	t.Run("twenty nines is about 1e20", func(t *testing.T) {
		tokens, collector := scanAll(t, "<?php 99999999999999999999;", Config{})
		sig := significant(tokens)
		if sig[1].Kind != token.T_DNUMBER {
			t.Fatalf("kind mismatch: got %s, want T_DNUMBER", sig[1].Kind)
		}
		v := sig[1].Value.Double()
		if v < 9.9e19 || v > 1.01e20 {
			t.Errorf("value out of range: got %g", v)
		}
		if len(collector.Warnings()) != 1 {
			t.Errorf("expected one warning, got %v", collector.Warnings())
		}
	})

	t.Run("hex sixteen digits uses leading digit", func(t *testing.T) {
		tokens, _ := scanAll(t, "<?php 0x7FFFFFFFFFFFFFFF;", Config{})
		sig := significant(tokens)
		if sig[1].Kind != token.T_LNUMBER || sig[1].Value.Int() != 9223372036854775807 {
			t.Fatalf("got %s %v", sig[1].Kind, sig[1].Value)
		}

		tokens, collector := scanAll(t, "<?php 0x8000000000000000;", Config{})
		sig = significant(tokens)
		if sig[1].Kind != token.T_DNUMBER {
			t.Fatalf("kind mismatch: got %s, want T_DNUMBER", sig[1].Kind)
		}
		if len(collector.Warnings()) != 1 {
			t.Errorf("expected one warning, got %v", collector.Warnings())
		}
	})

	t.Run("hex seventeen significant digits promotes", func(t *testing.T) {
		tokens, _ := scanAll(t, "<?php 0x00123456789ABCDEF01;", Config{})
		sig := significant(tokens)
		if sig[1].Kind != token.T_DNUMBER {
			t.Fatalf("kind mismatch: got %s, want T_DNUMBER", sig[1].Kind)
		}
	})
}

func TestScannerNumberFormats(t *testing.T) {
	input := `<?php 0x1A 0b101 0755 42 1.5 .5 1e3 1.5e2 2E-1`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []struct {
		kind token.Kind
		iv   int64
		fv   float64
	}{
		{token.T_LNUMBER, 26, 0},
		{token.T_LNUMBER, 5, 0},
		{token.T_LNUMBER, 493, 0},
		{token.T_LNUMBER, 42, 0},
		{token.T_DNUMBER, 0, 1.5},
		{token.T_DNUMBER, 0, 0.5},
		{token.T_DNUMBER, 0, 1000},
		{token.T_DNUMBER, 0, 150},
		{token.T_DNUMBER, 0, 0.2},
	}

	if len(sig) != len(expected)+2 {
		t.Fatalf("token count mismatch: got %d, want %d", len(sig), len(expected)+2)
	}
	for i, want := range expected {
		tok := sig[i+1]
		if tok.Kind != want.kind {
			t.Errorf("token[%d] kind mismatch: got %s, want %s", i, tok.Kind, want.kind)
			continue
		}
		if want.kind == token.T_LNUMBER && tok.Value.Int() != want.iv {
			t.Errorf("token[%d] int mismatch: got %d, want %d", i, tok.Value.Int(), want.iv)
		}
		if want.kind == token.T_DNUMBER && tok.Value.Double() != want.fv {
			t.Errorf("token[%d] double mismatch: got %g, want %g", i, tok.Value.Double(), want.fv)
		}
	}
}

func TestScannerCasts(t *testing.T) {
	input := `<?php (int) (integer) ( bool ) (string) (binary) (array) (object) (unset) (double)`

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_INT_CAST, token.T_INT_CAST, token.T_BOOL_CAST,
		token.T_STRING_CAST, token.T_STRING_CAST, token.T_ARRAY_CAST,
		token.T_OBJECT_CAST, token.T_UNSET_CAST, token.T_DOUBLE_CAST,
		token.END,
	}

	tokens, _ := scanAll(t, input, Config{})
	expectKinds(t, significant(tokens), expected)
}

// 场景 5: 属性访问后关键字是 T_STRING
func TestScannerPropertyKeyword(t *testing.T) {
	input := `<?php $o->list;`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_VARIABLE, token.T_OBJECT_OPERATOR, token.T_STRING, ';',
		token.END,
	}
	expectKinds(t, sig, expected)

	if got := sig[3].Value.Text(); got != "list" {
		t.Errorf("property name mismatch: got %q, want %q", got, "list")
	}
}

func TestScannerPropertyNonIdentifier(t *testing.T) {
	// -> 后不是标识符：状态静默弹出，继续正常扫描
	input := `<?php $o -> $p;`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_VARIABLE, token.T_OBJECT_OPERATOR, token.T_VARIABLE, ';',
		token.END,
	}
	expectKinds(t, sig, expected)
}

func TestScannerComments(t *testing.T) {
	input := "<?php // line\n# hash\n/* block */ /** doc */ 1;"

	tokens, _ := scanAll(t, input, Config{})

	var kinds []token.Kind
	for _, tok := range tokens {
		if tok.Kind == token.T_WHITESPACE {
			continue
		}
		kinds = append(kinds, tok.Kind)
	}

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_COMMENT, token.T_COMMENT, token.T_COMMENT, token.T_DOC_COMMENT,
		token.T_LNUMBER, ';',
		token.END,
	}
	if len(kinds) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d (%v)", len(kinds), len(expected), kinds)
	}
	for i := range kinds {
		if kinds[i] != expected[i] {
			t.Errorf("token[%d] kind mismatch: got %s, want %s", i, kinds[i], expected[i])
		}
	}
}

func TestScannerOneLineCommentStopsAtCloseTag(t *testing.T) {
	input := "<?php // note ?> html"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG, token.T_CLOSE_TAG, token.T_INLINE_HTML, token.END,
	}
	expectKinds(t, sig, expected)
}

func TestScannerUnbalancedRBrace(t *testing.T) {
	input := `<?php } `

	tokens, collector := scanAll(t, input, Config{})
	sig := significant(tokens)

	if sig[1].Kind != token.T_ERROR {
		t.Fatalf("kind mismatch: got %s, want T_ERROR", sig[1].Kind)
	}
	if !collector.HasErrors() {
		t.Error("expected a lexical error diagnostic")
	}
}

func TestScannerYieldFrom(t *testing.T) {
	input := "<?php yield from $g; yield $v; yielding;"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_YIELD_FROM, token.T_VARIABLE, ';',
		token.T_YIELD, token.T_VARIABLE, ';',
		token.T_STRING, ';',
		token.END,
	}
	expectKinds(t, sig, expected)
}

func TestScannerBackquote(t *testing.T) {
	input := "<?php `ls $dir`;"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		'`', token.T_ENCAPSED_AND_WHITESPACE, token.T_VARIABLE, '`', ';',
		token.END,
	}
	expectKinds(t, sig, expected)
}

func TestScannerBinaryStrings(t *testing.T) {
	input := `<?php b"ab"; b'cd';`

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	for _, idx := range []int{1, 3} {
		tok := sig[idx]
		if tok.Kind != token.T_CONSTANT_ENCAPSED_STRING {
			t.Fatalf("kind mismatch: got %s", tok.Kind)
		}
		if tok.Value.Kind() != token.ValueBytes {
			t.Errorf("value kind mismatch: got %s, want bytes", tok.Value.Kind())
		}
	}
	if string(sig[1].Value.Bytes()) != "ab" {
		t.Errorf("bytes mismatch: got %q", sig[1].Value.Bytes())
	}
	if string(sig[3].Value.Bytes()) != "cd" {
		t.Errorf("bytes mismatch: got %q", sig[3].Value.Bytes())
	}
}

func TestScannerInvalidCodePointName(t *testing.T) {
	input := `<?php "\u{ZZ}";`

	tokens, collector := scanAll(t, input, Config{})
	sig := significant(tokens)

	if got := sig[1].Value.Text(); got != `\u{ZZ}` {
		t.Errorf("invalid escape should stay verbatim: got %q", got)
	}
	warns := collector.Warnings()
	if len(warns) != 1 || warns[0].Code != errors.InvalidCodePointName {
		t.Fatalf("expected InvalidCodePointName warning, got %v", warns)
	}
}

func TestScannerHaltCompiler(t *testing.T) {
	input := "<?php __halt_compiler(); raw ?> data"

	tokens, _ := scanAll(t, input, Config{})
	sig := significant(tokens)

	expected := []token.Kind{
		token.T_OPEN_TAG,
		token.T_HALT_COMPILER, '(', ')', ';',
		token.END,
	}
	expectKinds(t, sig, expected)
}

func TestScannerStateBalance(t *testing.T) {
	input := "<?php function f() { if (true) { echo \"a$x b\"; } } ?>\n"

	collector := errors.NewCollector()
	s := NewString(input, Config{Reporter: collector})
	for {
		tok := s.Next()
		if tok.Kind == token.END {
			break
		}
	}

	if s.State() != INITIAL {
		t.Errorf("final state mismatch: got %s, want INITIAL", s.State())
	}
	if s.StackDepth() != 0 {
		t.Errorf("state stack not empty: depth %d", s.StackDepth())
	}
	if collector.HasErrors() {
		t.Errorf("unexpected errors: %v", collector.Errors())
	}
}

// chunkReader 每次只给少量字节，逼出压实路径
type chunkReader struct {
	data  string
	pos   int
	chunk int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, nil
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if r.pos+n > len(r.data) {
		n = len(r.data) - r.pos
	}
	copy(p, r.data[r.pos:r.pos+n])
	r.pos += n
	return n, nil
}

func TestScannerBufferInvariants(t *testing.T) {
	src := "<?php function f($a, $b) { return \"x$a y\" . <<<EOT\nbody line\nEOT; }\n?>\ntrailing html"

	s := New(&chunkReader{data: src, chunk: 3}, Config{Reporter: errors.NewCollector()})

	lastStart := -1
	for i := 0; ; i++ {
		if i > 10000 {
			t.Fatal("scanner did not terminate")
		}
		tok := s.Next()

		// 缓冲安全：tokenStart <= chunkStart <= tokenEnd <= lookahead <= charsRead
		ts, tcs, te, la, cr := s.Cursors()
		if !(ts <= tcs && tcs <= te && te <= la && la <= cr) {
			t.Fatalf("cursor invariant violated: %d %d %d %d %d", ts, tcs, te, la, cr)
		}

		// 偏移单调性
		if tok.Span.IsValid() && tok.Span.Start < lastStart {
			t.Fatalf("offset not monotonic: %d after %d", tok.Span.Start, lastStart)
		}
		if tok.Span.IsValid() {
			lastStart = tok.Span.Start
		}

		if tok.Kind == token.END {
			break
		}
	}
}

func TestScannerTokenHook(t *testing.T) {
	var seen []string
	cfg := Config{
		Reporter: errors.NewCollector(),
		Hook: func(kind token.Kind, text string) {
			seen = append(seen, text)
		},
	}
	s := NewString("<?php echo 1;", cfg)
	for {
		if s.Next().Kind == token.END {
			break
		}
	}

	joined := strings.Join(seen, "")
	if joined != "<?php echo 1;" {
		t.Errorf("hook text mismatch: got %q", joined)
	}
}

// 语义槽纪律：每种 token 的语义值标签固定
func TestScannerSemanticSlotDiscipline(t *testing.T) {
	input := `<?php $v = 1 + 2.5 . "s" . 'x'; foo();`

	tokens, _ := scanAll(t, input, Config{})
	for _, tok := range tokens {
		var want token.ValueKind
		switch tok.Kind {
		case token.T_LNUMBER:
			want = token.ValueInt
		case token.T_DNUMBER:
			want = token.ValueDouble
		case token.T_VARIABLE, token.T_STRING, token.T_CONSTANT_ENCAPSED_STRING,
			token.T_INLINE_HTML:
			want = token.ValueText
		default:
			continue
		}
		if tok.Value.Kind() != want {
			t.Errorf("%s semantic slot mismatch: got %s, want %s", tok.Kind, tok.Value.Kind(), want)
		}
	}
}

// 往返：不含 \ 和 ' 的单引号内容解码后与原文一致
func TestSingleQuotedRoundTrip(t *testing.T) {
	for _, body := range []string{"", "abc", "hello world", "tab\there", "$notavar"} {
		v := decodeSingleQuoted(body, false)
		if v.Text() != body {
			t.Errorf("round trip failed: %q -> %q", body, v.Text())
		}
	}
}
