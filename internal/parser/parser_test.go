package parser

import (
	"testing"

	"github.com/tluyben/phpfront/internal/ast"
	"github.com/tluyben/phpfront/internal/errors"
	"github.com/tluyben/phpfront/internal/token"
)

// parseSource 解析并返回根节点和诊断收集器
func parseSource(t *testing.T, src string) (*ast.GlobalCode, *errors.Collector) {
	t.Helper()
	collector := errors.NewCollector()
	p := New(src, "test.php", Features{}, collector)
	root := p.Parse()
	if root == nil {
		t.Fatal("Parse returned nil root")
	}
	return root, collector
}

// parseClean 解析且不允许任何错误
func parseClean(t *testing.T, src string) *ast.GlobalCode {
	t.Helper()
	root, collector := parseSource(t, src)
	if collector.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", collector.Errors())
	}
	return root
}

// 场景 1: 内联 HTML + 开标签的程序形状
func TestParseInlineHTMLProgram(t *testing.T) {
	root := parseClean(t, `Hello <?php $x = 1; ?> World`)

	if len(root.Stmts) != 3 {
		t.Fatalf("statement count mismatch: got %d, want 3", len(root.Stmts))
	}

	if h, ok := root.Stmts[0].(*ast.InlineHTML); !ok || h.Text != "Hello " {
		t.Errorf("stmt[0] mismatch: %v", root.Stmts[0])
	}

	es, ok := root.Stmts[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("stmt[1] is %T, want *ExprStmt", root.Stmts[1])
	}
	assign, ok := es.Expr.(*ast.Assign)
	if !ok {
		t.Fatalf("expr is %T, want *Assign", es.Expr)
	}
	if v, ok := assign.Target.(*ast.Variable); !ok || v.Name != "x" {
		t.Errorf("assign target mismatch: %v", assign.Target)
	}
	if lit, ok := assign.Value.(*ast.IntLit); !ok || lit.Value != 1 {
		t.Errorf("assign value mismatch: %v", assign.Value)
	}

	if h, ok := root.Stmts[2].(*ast.InlineHTML); !ok || h.Text != " World" {
		t.Errorf("stmt[2] mismatch: %v", root.Stmts[2])
	}
}

// 场景 2: 插值字符串的 AST 形状
func TestParseEncapsAST(t *testing.T) {
	root := parseClean(t, `<?php "a$x b";`)

	es := root.Stmts[0].(*ast.ExprStmt)
	enc, ok := es.Expr.(*ast.EncapsList)
	if !ok {
		t.Fatalf("expr is %T, want *EncapsList", es.Expr)
	}
	if len(enc.Parts) != 3 {
		t.Fatalf("part count mismatch: got %d, want 3", len(enc.Parts))
	}
	if lit, ok := enc.Parts[0].(*ast.StringLit); !ok || lit.Value != "a" {
		t.Errorf("part[0] mismatch: %v", enc.Parts[0])
	}
	if v, ok := enc.Parts[1].(*ast.Variable); !ok || v.Name != "x" {
		t.Errorf("part[1] mismatch: %v", enc.Parts[1])
	}
	if lit, ok := enc.Parts[2].(*ast.StringLit); !ok || lit.Value != " b" {
		t.Errorf("part[2] mismatch: %v", enc.Parts[2])
	}
}

// 场景 6: else 绑定到最内层 if
func TestParseDanglingElse(t *testing.T) {
	root := parseClean(t, `<?php if ($a) if ($b) c(); else d();`)

	outer, ok := root.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("stmt is %T, want *If", root.Stmts[0])
	}
	if outer.Else != nil {
		t.Error("outer if must not own the else")
	}

	inner, ok := outer.Then.(*ast.If)
	if !ok {
		t.Fatalf("then branch is %T, want *If", outer.Then)
	}
	if inner.Else == nil {
		t.Error("inner if must own the else")
	}
}

func TestParsePrecedence(t *testing.T) {
	root := parseClean(t, `<?php $a = 1 + 2 * 3;`)

	assign := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Assign)
	add, ok := assign.Value.(*ast.Binary)
	if !ok || add.Op != '+' {
		t.Fatalf("value is %v, want binary +", assign.Value)
	}
	mul, ok := add.Right.(*ast.Binary)
	if !ok || mul.Op != '*' {
		t.Fatalf("right is %v, want binary *", add.Right)
	}
}

func TestParseLogicalKeywordPrecedence(t *testing.T) {
	// 赋值优先级高于 and: ($r = $a) and $b
	root := parseClean(t, `<?php $r = $a and $b;`)

	b, ok := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Binary)
	if !ok || b.Op != token.T_LOGICAL_AND {
		t.Fatalf("top is %v, want binary and", root.Stmts[0].(*ast.ExprStmt).Expr)
	}
	if _, ok := b.Left.(*ast.Assign); !ok {
		t.Errorf("left is %T, want *Assign", b.Left)
	}
}

func TestParsePowRightAssoc(t *testing.T) {
	root := parseClean(t, `<?php 2 ** 3 ** 2;`)

	outer := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Binary)
	if outer.Op != token.T_POW {
		t.Fatalf("op mismatch: %s", outer.Op)
	}
	if inner, ok := outer.Right.(*ast.Binary); !ok || inner.Op != token.T_POW {
		t.Errorf("** must be right associative, right is %v", outer.Right)
	}
}

func TestParseCoalesceTernary(t *testing.T) {
	root := parseClean(t, `<?php $a ?? $b ?? $c; $x ? $y : $z; $x ?: $z;`)

	c1 := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Binary)
	if c1.Op != token.T_COALESCE {
		t.Fatalf("op mismatch: %s", c1.Op)
	}
	if inner, ok := c1.Right.(*ast.Binary); !ok || inner.Op != token.T_COALESCE {
		t.Errorf("?? must be right associative")
	}

	t1 := root.Stmts[1].(*ast.ExprStmt).Expr.(*ast.Ternary)
	if t1.Then == nil {
		t.Error("full ternary must have a then branch")
	}
	t2 := root.Stmts[2].(*ast.ExprStmt).Expr.(*ast.Ternary)
	if t2.Then != nil {
		t.Error("short ternary must have nil then branch")
	}
}

func TestParseCallsAndAccess(t *testing.T) {
	root := parseClean(t, `<?php foo(1, $a); $o->m($x); Foo\Bar::baz(); $o->p; Foo::$sp; Foo::BAR; Foo::class;`)

	if fc, ok := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.FunctionCall); !ok {
		t.Errorf("stmt[0] expr is %T", root.Stmts[0].(*ast.ExprStmt).Expr)
	} else if len(fc.Args) != 2 {
		t.Errorf("arg count mismatch: %d", len(fc.Args))
	}

	if _, ok := root.Stmts[1].(*ast.ExprStmt).Expr.(*ast.MethodCall); !ok {
		t.Errorf("stmt[1] expr is %T, want *MethodCall", root.Stmts[1].(*ast.ExprStmt).Expr)
	}

	sc, ok := root.Stmts[2].(*ast.ExprStmt).Expr.(*ast.StaticCall)
	if !ok {
		t.Fatalf("stmt[2] expr is %T, want *StaticCall", root.Stmts[2].(*ast.ExprStmt).Expr)
	}
	if name, ok := sc.Class.(*ast.Name); !ok || name.String() != `Foo\Bar` {
		t.Errorf("class name mismatch: %v", sc.Class)
	}

	if _, ok := root.Stmts[3].(*ast.ExprStmt).Expr.(*ast.PropertyFetch); !ok {
		t.Errorf("stmt[3] expr is %T, want *PropertyFetch", root.Stmts[3].(*ast.ExprStmt).Expr)
	}
	if _, ok := root.Stmts[4].(*ast.ExprStmt).Expr.(*ast.StaticPropertyFetch); !ok {
		t.Errorf("stmt[4] expr is %T, want *StaticPropertyFetch", root.Stmts[4].(*ast.ExprStmt).Expr)
	}
	if _, ok := root.Stmts[5].(*ast.ExprStmt).Expr.(*ast.ClassConstFetch); !ok {
		t.Errorf("stmt[5] expr is %T, want *ClassConstFetch", root.Stmts[5].(*ast.ExprStmt).Expr)
	}
	ccf, ok := root.Stmts[6].(*ast.ExprStmt).Expr.(*ast.ClassConstFetch)
	if !ok || ccf.Name.Name != "class" {
		t.Errorf("stmt[6] mismatch: %v", root.Stmts[6].(*ast.ExprStmt).Expr)
	}
}

func TestParseLiteralsFold(t *testing.T) {
	root := parseClean(t, `<?php TRUE; false; Null; MY_CONST;`)

	if b, ok := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.BoolLit); !ok || !b.Value {
		t.Errorf("TRUE must fold to BoolLit(true)")
	}
	if b, ok := root.Stmts[1].(*ast.ExprStmt).Expr.(*ast.BoolLit); !ok || b.Value {
		t.Errorf("false must fold to BoolLit(false)")
	}
	if _, ok := root.Stmts[2].(*ast.ExprStmt).Expr.(*ast.NullLit); !ok {
		t.Errorf("Null must fold to NullLit")
	}
	if _, ok := root.Stmts[3].(*ast.ExprStmt).Expr.(*ast.ConstFetch); !ok {
		t.Errorf("plain constant must stay ConstFetch")
	}
}

func TestParseClassDecl(t *testing.T) {
	src := `<?php
/** Demo class. */
abstract class Demo extends Base implements A, B {
	const VERSION = 1;
	public static $count = 0;
	private $items = [], $extra;
	use T1, T2 { T1::run insteadof T2; run as protected launch; }

	abstract protected function build(): Demo;

	public function run(int $n, ?string $label = null, callable ...$fns): array {
		return [];
	}
}`

	root := parseClean(t, src)

	decl, ok := root.Stmts[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("stmt is %T, want *ClassDecl", root.Stmts[0])
	}
	if !decl.Modifiers.Has(ast.ModAbstract) {
		t.Error("class must be abstract")
	}
	if decl.Name.Name != "Demo" || decl.Extends.String() != "Base" {
		t.Errorf("class header mismatch: %v extends %v", decl.Name, decl.Extends)
	}
	if len(decl.Implements) != 2 {
		t.Errorf("implements count mismatch: %d", len(decl.Implements))
	}

	if doc, ok := decl.Props().Get(DocCommentProperty); !ok {
		t.Error("doc comment not attached to declaration")
	} else if doc.(string) != "/** Demo class. */" {
		t.Errorf("doc comment mismatch: %q", doc)
	}

	if len(decl.Members) != 6 {
		t.Fatalf("member count mismatch: got %d, want 6", len(decl.Members))
	}

	if c, ok := decl.Members[0].(*ast.ClassConstDecl); !ok || c.Consts[0].Name.Name != "VERSION" {
		t.Errorf("member[0] mismatch: %v", decl.Members[0])
	}
	if pd, ok := decl.Members[1].(*ast.PropertyDecl); !ok || !pd.Modifiers.Has(ast.ModStatic) {
		t.Errorf("member[1] mismatch: %v", decl.Members[1])
	}
	if pd, ok := decl.Members[2].(*ast.PropertyDecl); !ok || len(pd.Elems) != 2 {
		t.Errorf("member[2] mismatch: %v", decl.Members[2])
	}

	tu, ok := decl.Members[3].(*ast.TraitUse)
	if !ok {
		t.Fatalf("member[3] is %T, want *TraitUse", decl.Members[3])
	}
	if len(tu.Traits) != 2 || len(tu.Adaptations) != 2 {
		t.Errorf("trait use mismatch: %d traits, %d adaptations", len(tu.Traits), len(tu.Adaptations))
	}
	if _, ok := tu.Adaptations[0].(*ast.TraitPrecedence); !ok {
		t.Errorf("adaptation[0] is %T, want *TraitPrecedence", tu.Adaptations[0])
	}
	if al, ok := tu.Adaptations[1].(*ast.TraitAlias); !ok {
		t.Errorf("adaptation[1] is %T, want *TraitAlias", tu.Adaptations[1])
	} else if al.Alias.Name != "launch" || !al.Modifier.Has(ast.ModProtected) {
		t.Errorf("alias mismatch: %v", al)
	}

	if m, ok := decl.Members[4].(*ast.MethodDecl); !ok || m.Body != nil {
		t.Errorf("abstract method must have no body")
	}

	m, ok := decl.Members[5].(*ast.MethodDecl)
	if !ok {
		t.Fatalf("member[5] is %T, want *MethodDecl", decl.Members[5])
	}
	if len(m.Params) != 3 {
		t.Fatalf("param count mismatch: %d", len(m.Params))
	}
	if _, ok := m.Params[0].Type.(*ast.NamedTypeRef); !ok {
		t.Errorf("param[0] type is %T", m.Params[0].Type)
	}
	nt, ok := m.Params[1].Type.(*ast.NullableTypeRef)
	if !ok {
		t.Fatalf("param[1] type is %T, want *NullableTypeRef", m.Params[1].Type)
	}
	if _, ok := nt.Inner.(*ast.NamedTypeRef); !ok {
		t.Errorf("nullable inner is %T", nt.Inner)
	}
	if !m.Params[2].Variadic {
		t.Error("param[2] must be variadic")
	}
	if _, ok := m.ReturnType.(*ast.ArrayTypeRef); !ok {
		t.Errorf("return type is %T, want *ArrayTypeRef", m.ReturnType)
	}
}

func TestParseInterfaceAndTrait(t *testing.T) {
	src := `<?php
interface Shape extends Printable, Sizable {
	const EDGE = 2;
	public function area(): float;
}
trait Counter {
	private $n = 0;
	public function bump() { $this->n++; }
}`

	root := parseClean(t, src)

	iface, ok := root.Stmts[0].(*ast.InterfaceDecl)
	if !ok {
		t.Fatalf("stmt[0] is %T, want *InterfaceDecl", root.Stmts[0])
	}
	if len(iface.Extends) != 2 || len(iface.Members) != 2 {
		t.Errorf("interface shape mismatch: %d extends, %d members", len(iface.Extends), len(iface.Members))
	}
	if m, ok := iface.Members[1].(*ast.MethodDecl); !ok || m.Body != nil {
		t.Error("interface method must have no body")
	}

	tr, ok := root.Stmts[1].(*ast.TraitDecl)
	if !ok {
		t.Fatalf("stmt[1] is %T, want *TraitDecl", root.Stmts[1])
	}
	if tr.Name.Name != "Counter" || len(tr.Members) != 2 {
		t.Errorf("trait shape mismatch: %v", tr)
	}
}

func TestParseControlFlow(t *testing.T) {
	src := `<?php
for ($i = 0; $i < 10; $i++) { work($i); }
foreach ($items as $k => &$v) $v = $k;
while ($x) { break 2; }
do { continue; } while ($y);
switch ($n) {
	case 1:
	case 2:
		one();
		break;
	default:
		rest();
}`

	root := parseClean(t, src)
	if len(root.Stmts) != 5 {
		t.Fatalf("statement count mismatch: %d", len(root.Stmts))
	}

	f := root.Stmts[0].(*ast.For)
	if len(f.Init) != 1 || len(f.Cond) != 1 || len(f.Step) != 1 {
		t.Errorf("for headers mismatch")
	}

	fe := root.Stmts[1].(*ast.Foreach)
	if fe.KeyVar == nil || !fe.ByRef {
		t.Errorf("foreach key/byref mismatch")
	}

	w := root.Stmts[2].(*ast.While)
	blk := w.Body.(*ast.Block)
	if br, ok := blk.Stmts[0].(*ast.Break); !ok || br.Level == nil {
		t.Errorf("break level mismatch")
	}

	sw := root.Stmts[4].(*ast.Switch)
	if len(sw.Cases) != 3 {
		t.Fatalf("case count mismatch: %d", len(sw.Cases))
	}
	if sw.Cases[0].Cond == nil || len(sw.Cases[0].Stmts) != 0 {
		t.Errorf("fallthrough case mismatch")
	}
	if sw.Cases[2].Cond != nil {
		t.Errorf("default case must have nil cond")
	}
}

func TestParseAlternativeSyntax(t *testing.T) {
	src := `<?php if ($a): ?>one<?php elseif ($b): ?>two<?php else: ?>three<?php endif; ?>`

	root := parseClean(t, src)

	ifStmt, ok := root.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("stmt is %T, want *If", root.Stmts[0])
	}
	if len(ifStmt.ElseIfs) != 1 || ifStmt.Else == nil {
		t.Errorf("alt-syntax branches mismatch: %d elseifs, else=%v", len(ifStmt.ElseIfs), ifStmt.Else)
	}
}

func TestParseTryCatch(t *testing.T) {
	src := `<?php
try { risky(); } catch (A | B $e) { log($e); } catch (C $e) {} finally { done(); }`

	root := parseClean(t, src)

	tr := root.Stmts[0].(*ast.Try)
	if len(tr.Catches) != 2 {
		t.Fatalf("catch count mismatch: %d", len(tr.Catches))
	}
	if len(tr.Catches[0].Types) != 2 {
		t.Errorf("multi-catch types mismatch: %d", len(tr.Catches[0].Types))
	}
	if tr.Catches[0].Var.Name != "e" {
		t.Errorf("catch variable mismatch: %s", tr.Catches[0].Var.Name)
	}
	if tr.Finally == nil {
		t.Error("finally block missing")
	}
}

func TestParseNamespaceAndUse(t *testing.T) {
	src := `<?php
namespace App\Core;
use Foo\Bar as Baz, Qux;
use function str\len;
use const Math\PI;
use Sym\{Component, function dump, const DEBUG as DBG};
$x = 1;`

	root := parseClean(t, src)

	ns, ok := root.Stmts[0].(*ast.NamespaceDecl)
	if !ok {
		t.Fatalf("stmt is %T, want *NamespaceDecl", root.Stmts[0])
	}
	if ns.Name.String() != `App\Core` || ns.Braced {
		t.Errorf("namespace header mismatch: %v", ns.Name)
	}
	if len(ns.Stmts) != 5 {
		t.Fatalf("namespace body mismatch: %d stmts", len(ns.Stmts))
	}

	u1 := ns.Stmts[0].(*ast.UseDecl)
	if u1.Kind != ast.UseNormal || len(u1.Uses) != 2 {
		t.Errorf("use decl mismatch: %v", u1)
	}
	if u1.Uses[0].Alias.Name != "Baz" {
		t.Errorf("alias mismatch: %v", u1.Uses[0].Alias)
	}

	if u2 := ns.Stmts[1].(*ast.UseDecl); u2.Kind != ast.UseFunction {
		t.Errorf("use function kind mismatch")
	}
	if u3 := ns.Stmts[2].(*ast.UseDecl); u3.Kind != ast.UseConst {
		t.Errorf("use const kind mismatch")
	}

	g := ns.Stmts[3].(*ast.UseDecl)
	if g.Prefix == nil || g.Prefix.String() != "Sym" {
		t.Fatalf("group prefix mismatch: %v", g.Prefix)
	}
	if len(g.Uses) != 3 {
		t.Fatalf("group clause count mismatch: %d", len(g.Uses))
	}
	if g.Uses[1].Kind != ast.UseFunction {
		t.Errorf("group clause kind mismatch")
	}
	if g.Uses[2].Kind != ast.UseConst || g.Uses[2].Alias.Name != "DBG" {
		t.Errorf("group clause alias mismatch: %v", g.Uses[2])
	}
}

func TestParseClosureAndNew(t *testing.T) {
	src := `<?php
$f = static function (&$a, $b = 1) use ($c, &$d): callable { return $a; };
$o = new Foo(1, ...$args);
$p = new $cls();
$q = new class(5) extends Base { public $v; };`

	root := parseClean(t, src)

	cl := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Assign).Value.(*ast.Closure)
	if !cl.Static || len(cl.Params) != 2 || len(cl.Uses) != 2 {
		t.Errorf("closure shape mismatch")
	}
	if !cl.Params[0].ByRef || cl.Params[1].Default == nil {
		t.Errorf("closure params mismatch")
	}
	if !cl.Uses[1].ByRef {
		t.Errorf("closure use byref mismatch")
	}
	if _, ok := cl.ReturnType.(*ast.CallableTypeRef); !ok {
		t.Errorf("closure return type is %T", cl.ReturnType)
	}

	n1 := root.Stmts[1].(*ast.ExprStmt).Expr.(*ast.Assign).Value.(*ast.New)
	if len(n1.Args) != 2 || !n1.Args[1].Unpack {
		t.Errorf("new args mismatch")
	}

	n2 := root.Stmts[2].(*ast.ExprStmt).Expr.(*ast.Assign).Value.(*ast.New)
	if _, ok := n2.Class.(*ast.Variable); !ok {
		t.Errorf("new class ref is %T, want *Variable", n2.Class)
	}
	if len(n2.Args) != 0 {
		t.Errorf("new $cls() args mismatch: %d", len(n2.Args))
	}

	n3 := root.Stmts[3].(*ast.ExprStmt).Expr.(*ast.Assign).Value.(*ast.New)
	anon, ok := n3.Class.(*ast.ClassDecl)
	if !ok {
		t.Fatalf("anon class is %T", n3.Class)
	}
	if !anon.Anonymous || anon.Name != nil || anon.Extends == nil {
		t.Errorf("anon class shape mismatch")
	}
	if len(n3.Args) != 1 {
		t.Errorf("anon class args mismatch: %d", len(n3.Args))
	}
}

func TestParseArraysAndList(t *testing.T) {
	src := `<?php
$a = [1, 'k' => 2, &$v];
$b = array(3);
list($x, , $y) = $a;
[$m, $n] = $b;`

	root := parseClean(t, src)

	arr := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Assign).Value.(*ast.ArrayExpr)
	if !arr.Short || len(arr.Items) != 3 {
		t.Fatalf("array shape mismatch")
	}
	if arr.Items[1].Key == nil {
		t.Errorf("keyed item mismatch")
	}
	if !arr.Items[2].ByRef {
		t.Errorf("byref item mismatch")
	}

	arr2 := root.Stmts[1].(*ast.ExprStmt).Expr.(*ast.Assign).Value.(*ast.ArrayExpr)
	if arr2.Short {
		t.Errorf("array() must not be short form")
	}

	lst := root.Stmts[2].(*ast.ExprStmt).Expr.(*ast.Assign).Target.(*ast.ListExpr)
	if len(lst.Items) != 3 || lst.Items[1] != nil {
		t.Errorf("list holes mismatch: %v", lst.Items)
	}

	if _, ok := root.Stmts[3].(*ast.ExprStmt).Expr.(*ast.Assign).Target.(*ast.ArrayExpr); !ok {
		t.Errorf("short list destructuring target mismatch")
	}
}

func TestParseHeredocFolding(t *testing.T) {
	root := parseClean(t, "<?php $a = <<<EOT\njust text\nEOT;\n$b = <<<EOT\na$x\nEOT;\n")

	if lit, ok := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Assign).Value.(*ast.StringLit); !ok {
		t.Errorf("plain heredoc must fold to StringLit")
	} else if lit.Value != "just text\n" {
		t.Errorf("heredoc value mismatch: %q", lit.Value)
	}

	if _, ok := root.Stmts[1].(*ast.ExprStmt).Expr.(*ast.Assign).Value.(*ast.EncapsList); !ok {
		t.Errorf("interpolated heredoc must stay EncapsList")
	}
}

func TestParseMiscStatements(t *testing.T) {
	src := `<?php
global $g1, $g2;
static $s = 1;
unset($a, $b[0]);
goto end;
end:
echo 1, 2;
print "x";
@f();
isset($a, $b);
empty($c);
declare(strict_types=1);
const A = 1, B = 2;
throw new E("m");
include 'x.php';
require_once $f;
clone $o;
exit(1);`

	root := parseClean(t, src)

	if g := root.Stmts[0].(*ast.Global); len(g.Vars) != 2 {
		t.Errorf("global vars mismatch")
	}
	if sv := root.Stmts[1].(*ast.StaticVars); len(sv.Vars) != 1 || sv.Vars[0].Default == nil {
		t.Errorf("static vars mismatch")
	}
	if u := root.Stmts[2].(*ast.Unset); len(u.Vars) != 2 {
		t.Errorf("unset vars mismatch")
	}
	if g, ok := root.Stmts[3].(*ast.Goto); !ok || g.Label.Name != "end" {
		t.Errorf("goto mismatch")
	}
	if l, ok := root.Stmts[4].(*ast.LabelStmt); !ok || l.Name.Name != "end" {
		t.Errorf("label mismatch")
	}
	if e := root.Stmts[5].(*ast.Echo); len(e.Exprs) != 2 {
		t.Errorf("echo exprs mismatch")
	}
	if _, ok := root.Stmts[6].(*ast.ExprStmt).Expr.(*ast.Print); !ok {
		t.Errorf("print mismatch")
	}
	if _, ok := root.Stmts[7].(*ast.ExprStmt).Expr.(*ast.ErrorSuppress); !ok {
		t.Errorf("error suppress mismatch")
	}
	if is, ok := root.Stmts[8].(*ast.ExprStmt).Expr.(*ast.Isset); !ok || len(is.Vars) != 2 {
		t.Errorf("isset mismatch")
	}
	if _, ok := root.Stmts[9].(*ast.ExprStmt).Expr.(*ast.Empty); !ok {
		t.Errorf("empty mismatch")
	}
	if d := root.Stmts[10].(*ast.Declare); len(d.Directives) != 1 {
		t.Errorf("declare mismatch")
	}
	if c := root.Stmts[11].(*ast.ConstDecl); len(c.Consts) != 2 {
		t.Errorf("const decl mismatch")
	}
	if _, ok := root.Stmts[12].(*ast.Throw); !ok {
		t.Errorf("throw mismatch")
	}
	if inc, ok := root.Stmts[13].(*ast.ExprStmt).Expr.(*ast.Include); !ok || inc.Kind != token.T_INCLUDE {
		t.Errorf("include mismatch")
	}
	if inc, ok := root.Stmts[14].(*ast.ExprStmt).Expr.(*ast.Include); !ok || inc.Kind != token.T_REQUIRE_ONCE {
		t.Errorf("require_once mismatch")
	}
	if _, ok := root.Stmts[15].(*ast.ExprStmt).Expr.(*ast.Clone); !ok {
		t.Errorf("clone mismatch")
	}
	if ex, ok := root.Stmts[16].(*ast.ExprStmt).Expr.(*ast.Exit); !ok || ex.Expr == nil {
		t.Errorf("exit mismatch")
	}
}

func TestParseHaltCompiler(t *testing.T) {
	src := "<?php $x = 1; __halt_compiler(); raw payload"

	root := parseClean(t, src)
	if len(root.Stmts) != 2 {
		t.Fatalf("statement count mismatch: %d", len(root.Stmts))
	}

	h, ok := root.Stmts[1].(*ast.HaltCompiler)
	if !ok {
		t.Fatalf("stmt is %T, want *HaltCompiler", root.Stmts[1])
	}
	wantOffset := len("<?php $x = 1; __halt_compiler();")
	if h.DataOffset != wantOffset {
		t.Errorf("data offset mismatch: got %d, want %d", h.DataOffset, wantOffset)
	}
}

// 通用属性：父节点的范围覆盖所有子节点
func TestParseSpanCoverage(t *testing.T) {
	src := `<?php
function f(int $n): array {
	$out = [];
	for ($i = 0; $i < $n; $i++) {
		$out[] = $i * 2 + 1;
	}
	return $out;
}
echo f(3)[0], "done $n!";`

	root := parseClean(t, src)

	ast.Inspect(root, func(n ast.Node) bool {
		for _, c := range ast.Children(n) {
			if !c.Span().IsValid() {
				continue
			}
			if !n.Span().Contains(c.Span()) {
				t.Errorf("span of %T %s does not contain child %T %s",
					n, n.Span(), c, c.Span())
			}
		}
		return true
	})
}

// 父指针：每个子节点都回指其包含节点
func TestParseParentBackPointers(t *testing.T) {
	root := parseClean(t, `<?php if ($a) { echo $a + 1; }`)

	ast.Inspect(root, func(n ast.Node) bool {
		for _, c := range ast.Children(n) {
			if c.Parent() != n {
				t.Errorf("parent of %T is %T, want %T", c, c.Parent(), n)
			}
		}
		return true
	})
}

// §7 不变量：总是返回（部分）AST 并至少上报一条错误
func TestParseErrorRecovery(t *testing.T) {
	src := `<?php if ; echo 2; $ok = 1;`

	root, collector := parseSource(t, src)
	if !collector.HasErrors() {
		t.Fatal("expected at least one syntax error")
	}
	if root == nil {
		t.Fatal("partial AST missing")
	}
}

func TestParseErrorRecoveryResync(t *testing.T) {
	src := `<?php $a = ) ; echo 1; function ok() { return 2; }`

	root, collector := parseSource(t, src)
	if !collector.HasErrors() {
		t.Fatal("expected syntax errors")
	}

	// 同步之后的函数声明应当保留下来
	found := false
	for _, s := range root.Stmts {
		if fd, ok := s.(*ast.FunctionDecl); ok && fd.Name.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Error("declaration after recovery point was lost")
	}
}

func TestParseHaltCompilerNested(t *testing.T) {
	src := `<?php namespace N { __halt_compiler(); }`

	_, collector := parseSource(t, src)
	if !collector.HasErrors() {
		t.Fatal("__halt_compiler outside the outermost scope must be an error")
	}
}

func TestParseMagicConsts(t *testing.T) {
	root := parseClean(t, `<?php __LINE__; __FILE__; __DIR__; __FUNCTION__;`)

	kinds := []token.Kind{token.T_LINE, token.T_FILE, token.T_DIR, token.T_FUNC_C}
	for i, want := range kinds {
		mc, ok := root.Stmts[i].(*ast.ExprStmt).Expr.(*ast.MagicConst)
		if !ok || mc.Kind != want {
			t.Errorf("stmt[%d] mismatch: %v", i, root.Stmts[i])
		}
	}
}

func TestParseIndirectVariables(t *testing.T) {
	root := parseClean(t, `<?php $$x = 1; ${'a' . 'b'} = 2;`)

	iv, ok := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Assign).Target.(*ast.IndirectVariable)
	if !ok {
		t.Fatalf("target is %T, want *IndirectVariable", root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Assign).Target)
	}
	if _, ok := iv.Expr.(*ast.Variable); !ok {
		t.Errorf("inner is %T, want *Variable", iv.Expr)
	}

	iv2 := root.Stmts[1].(*ast.ExprStmt).Expr.(*ast.Assign).Target.(*ast.IndirectVariable)
	if _, ok := iv2.Expr.(*ast.Binary); !ok {
		t.Errorf("inner is %T, want *Binary", iv2.Expr)
	}
}

func TestParseInstanceOfAndCasts(t *testing.T) {
	root := parseClean(t, `<?php $a instanceof Foo; (int)$b; (array)$c;`)

	if _, ok := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.InstanceOf); !ok {
		t.Errorf("instanceof mismatch")
	}
	if c, ok := root.Stmts[1].(*ast.ExprStmt).Expr.(*ast.Cast); !ok || c.Kind != token.T_INT_CAST {
		t.Errorf("int cast mismatch")
	}
	if c, ok := root.Stmts[2].(*ast.ExprStmt).Expr.(*ast.Cast); !ok || c.Kind != token.T_ARRAY_CAST {
		t.Errorf("array cast mismatch")
	}
}

func TestParseYieldForms(t *testing.T) {
	src := `<?php function g() { yield; yield 1; yield $k => $v; yield from inner(); }`

	root := parseClean(t, src)
	body := root.Stmts[0].(*ast.FunctionDecl).Body

	y0 := body.Stmts[0].(*ast.ExprStmt).Expr.(*ast.Yield)
	if y0.Key != nil || y0.Value != nil {
		t.Errorf("bare yield mismatch")
	}
	y1 := body.Stmts[1].(*ast.ExprStmt).Expr.(*ast.Yield)
	if y1.Key != nil || y1.Value == nil {
		t.Errorf("yield value mismatch")
	}
	y2 := body.Stmts[2].(*ast.ExprStmt).Expr.(*ast.Yield)
	if y2.Key == nil || y2.Value == nil {
		t.Errorf("yield key => value mismatch")
	}
	if _, ok := body.Stmts[3].(*ast.ExprStmt).Expr.(*ast.YieldFrom); !ok {
		t.Errorf("yield from mismatch")
	}
}

func TestParseShellExec(t *testing.T) {
	root := parseClean(t, "<?php `ls $dir`;")

	sh, ok := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.ShellExec)
	if !ok {
		t.Fatalf("expr is %T, want *ShellExec", root.Stmts[0].(*ast.ExprStmt).Expr)
	}
	if len(sh.Parts) != 2 {
		t.Errorf("shell parts mismatch: %d", len(sh.Parts))
	}
}

// 往返：十进制 int64 字面量按原格式重打印一致
func TestIntLitDecimalRoundTrip(t *testing.T) {
	for _, src := range []string{"0", "7", "42", "9223372036854775807"} {
		root := parseClean(t, "<?php "+src+";")
		lit := root.Stmts[0].(*ast.ExprStmt).Expr.(*ast.IntLit)
		if lit.Format != ast.IntDecimal {
			t.Errorf("%s format mismatch: %v", src, lit.Format)
			continue
		}
		if lit.String() != src {
			t.Errorf("reprint mismatch: %q -> %q", src, lit.String())
		}
	}
}
