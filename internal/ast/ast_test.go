package ast

import (
	"reflect"
	"testing"

	"github.com/tluyben/phpfront/internal/token"
)

func sp(start, length int) token.Span {
	return token.NewSpan(start, length)
}

func TestPropertiesInlineAndUpgrade(t *testing.T) {
	var p Properties

	if p.Len() != 0 {
		t.Fatalf("empty bag length = %d", p.Len())
	}

	// 单属性内联
	p.Set("a", 1)
	if v, ok := p.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %v, %v", v, ok)
	}
	if p.Len() != 1 {
		t.Errorf("length = %d, want 1", p.Len())
	}

	// 覆盖同一键
	p.Set("a", 2)
	if v, _ := p.Get("a"); v != 2 {
		t.Errorf("overwrite failed: %v", v)
	}
	if p.Len() != 1 {
		t.Errorf("length after overwrite = %d", p.Len())
	}

	// 第二个键升级为 map
	p.Set("b", 3)
	if p.Len() != 2 {
		t.Errorf("length = %d, want 2", p.Len())
	}
	if v, _ := p.Get("a"); v != 2 {
		t.Errorf("value lost on upgrade: %v", v)
	}

	// 删除
	if !p.Remove("a") {
		t.Error("Remove(a) = false")
	}
	if p.Remove("a") {
		t.Error("double Remove(a) = true")
	}
	if _, ok := p.Get("a"); ok {
		t.Error("removed key still present")
	}
}

func TestPropertiesTypedSlot(t *testing.T) {
	type marker struct{ N int }

	var p Properties
	p.SetTyped(marker{N: 7})

	v, ok := p.GetTyped(reflect.TypeOf((*marker)(nil)).Elem())
	if !ok || v.(marker).N != 7 {
		t.Errorf("typed slot mismatch: %v, %v", v, ok)
	}
}

func TestFactoryParentWiring(t *testing.T) {
	a := NewArena(0)

	left := a.NewIntLit(sp(0, 1), 1, IntDecimal)
	right := a.NewIntLit(sp(4, 1), 2, IntDecimal)
	bin := a.NewBinary(sp(0, 5), '+', left, right)

	if left.Parent() != Node(bin) || right.Parent() != Node(bin) {
		t.Error("children must point back to the binary node")
	}
	if bin.Parent() != nil {
		t.Error("root node must have nil parent")
	}

	stmt := a.NewExprStmt(sp(0, 6), bin)
	if bin.Parent() != Node(stmt) {
		t.Error("reattachment must update the parent pointer")
	}
}

func TestFactorySpanNormalization(t *testing.T) {
	a := NewArena(0)
	n := a.NewNullLit(token.Span{Start: 3, Length: -2})
	if n.Span().Length != 0 {
		t.Errorf("negative length must be clamped, got %d", n.Span().Length)
	}
}

func TestArenaAllocation(t *testing.T) {
	a := NewArena(4) // 小 slab，逼出换块路径

	var lits []*IntLit
	for i := 0; i < 100; i++ {
		lits = append(lits, a.NewIntLit(sp(i, 1), int64(i), IntDecimal))
	}

	// 换块不能让已有节点失效
	for i, lit := range lits {
		if lit.Value != int64(i) {
			t.Fatalf("node %d corrupted: %d", i, lit.Value)
		}
	}

	stats := a.Stats()
	if stats.Allocated != 100 {
		t.Errorf("allocated = %d, want 100", stats.Allocated)
	}
	if stats.SlabTypes != 1 {
		t.Errorf("slab types = %d, want 1", stats.SlabTypes)
	}
}

func TestVisitorDispatch(t *testing.T) {
	a := NewArena(0)
	lit := a.NewIntLit(sp(0, 2), 42, IntDecimal)
	v := a.NewVariable(sp(3, 2), "x")

	counter := &countingVisitor{}
	Visit(lit, counter)
	Visit(v, counter)

	if counter.ints != 1 || counter.vars != 1 {
		t.Errorf("dispatch counts: ints=%d vars=%d", counter.ints, counter.vars)
	}
}

type countingVisitor struct {
	NopVisitor
	ints int
	vars int
}

func (c *countingVisitor) VisitIntLit(*IntLit)     { c.ints++ }
func (c *countingVisitor) VisitVariable(*Variable) { c.vars++ }

func TestInspectOrder(t *testing.T) {
	a := NewArena(0)
	left := a.NewVariable(sp(0, 2), "a")
	right := a.NewIntLit(sp(5, 1), 1, IntDecimal)
	bin := a.NewBinary(sp(0, 6), '+', left, right)
	stmt := a.NewExprStmt(sp(0, 7), bin)

	var order []string
	Inspect(stmt, func(n Node) bool {
		order = append(order, reflect.TypeOf(n).Elem().Name())
		return true
	})

	want := []string{"ExprStmt", "Binary", "Variable", "IntLit"}
	if len(order) != len(want) {
		t.Fatalf("visit order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestNullableInvariant(t *testing.T) {
	a := NewArena(0)
	name := a.NewName(sp(1, 3), NameUnqualified, []string{"Foo"})
	inner := a.NewNamedTypeRef(sp(1, 3), name)
	nt := a.NewNullableTypeRef(sp(0, 4), inner)

	if nt.Inner != TypeRef(inner) {
		t.Error("nullable wrapper must hold exactly the inner type")
	}
	if inner.Parent() != Node(nt) {
		t.Error("inner type parent mismatch")
	}
}

func TestModifierString(t *testing.T) {
	m := ModAbstract | ModPublic | ModStatic
	if got := m.String(); got != "abstract public static" {
		t.Errorf("Modifier.String() = %q", got)
	}
	if !m.Has(ModStatic) || m.Has(ModFinal) {
		t.Error("Has mismatch")
	}
}

func TestNameString(t *testing.T) {
	a := NewArena(0)

	cases := []struct {
		kind NameKind
		want string
	}{
		{NameUnqualified, `Foo\Bar`},
		{NameFullyQualified, `\Foo\Bar`},
		{NameRelative, `namespace\Foo\Bar`},
	}
	for _, c := range cases {
		n := a.NewName(sp(0, 1), c.kind, []string{"Foo", "Bar"})
		if got := n.String(); got != c.want {
			t.Errorf("Name(%v) = %q, want %q", c.kind, got, c.want)
		}
	}

	n := a.NewName(sp(0, 1), NameQualified, []string{"A", "B", "C"})
	if n.Last() != "C" {
		t.Errorf("Last() = %q", n.Last())
	}
}
