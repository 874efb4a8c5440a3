// Package ast 定义 PHP 前端的抽象语法树
package ast

import (
	"fmt"
	"strings"

	"github.com/tluyben/phpfront/internal/token"
)

// ============================================================================
// 节点接口
// ============================================================================
//
// 节点不走继承层次，压平为带标记方法的封闭变体集合：
//   - 每个节点嵌入 base，统一携带 Span、父指针和属性包
//   - 父指针只表达从属关系，由工厂在构造时回填，从不拥有子节点
//   - setParent 是非导出方法，包外无法自造节点，构造只能走工厂
//
// ============================================================================

// Node 是所有 AST 节点的基接口
type Node interface {
	Span() token.Span  // 节点在源代码中的范围
	Parent() Node      // 包含该节点的父节点（弱引用）
	Props() *Properties // 节点的属性包
	String() string    // 节点的字符串表示（用于调试）
	setParent(Node)
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// Declaration 表示一个声明节点
//
// PHP 里声明可以出现在任何语句位置，所以声明同时也是语句。
type Declaration interface {
	Statement
	declNode()
}

// Member 表示一个类体成员（方法、属性、类常量、trait 使用）
type Member interface {
	Node
	memberNode()
}

// TypeRef 表示一个类型引用
type TypeRef interface {
	Node
	typeNode()
}

// ============================================================================
// base - 节点公共载体
// ============================================================================

// base 所有节点嵌入的公共部分
type base struct {
	span   token.Span
	parent Node
	props  Properties
}

func (b *base) Span() token.Span   { return b.span }
func (b *base) Parent() Node       { return b.parent }
func (b *base) Props() *Properties { return &b.props }
func (b *base) setParent(p Node)   { b.parent = p }

// ============================================================================
// 字面量格式
// ============================================================================
//
// 为了格式保真重打印，整数、浮点数和字符串字面量都带一个
// 格式标记。
//
// ============================================================================

// IntFormat 整数字面量的书写格式
type IntFormat int

const (
	IntDecimal IntFormat = iota // 123
	IntBinary                   // 0b1010
	IntOctal                    // 0755
	IntHex                      // 0x1f
)

// FloatFormat 浮点字面量的书写格式
type FloatFormat int

const (
	FloatingPoint FloatFormat = iota // 1.5
	ExpSmall                         // 1e10
	ExpBig                           // 1E10
)

// StringFormat 字符串字面量的书写格式
type StringFormat int

const (
	SingleQuoted StringFormat = iota // 'abc'
	DoubleQuoted                     // "abc"
)

// ============================================================================
// 修饰符
// ============================================================================

// Modifier 成员修饰符位集
type Modifier int

const (
	ModPublic Modifier = 1 << iota
	ModProtected
	ModPrivate
	ModStatic
	ModAbstract
	ModFinal
)

// Has 检查是否包含某个修饰符
func (m Modifier) Has(f Modifier) bool { return m&f != 0 }

// String 返回修饰符的源码形式
func (m Modifier) String() string {
	var parts []string
	if m.Has(ModAbstract) {
		parts = append(parts, "abstract")
	}
	if m.Has(ModFinal) {
		parts = append(parts, "final")
	}
	if m.Has(ModPublic) {
		parts = append(parts, "public")
	}
	if m.Has(ModProtected) {
		parts = append(parts, "protected")
	}
	if m.Has(ModPrivate) {
		parts = append(parts, "private")
	}
	if m.Has(ModStatic) {
		parts = append(parts, "static")
	}
	return strings.Join(parts, " ")
}

// ============================================================================
// 名字
// ============================================================================

// NameKind 名字的限定形式
type NameKind int

const (
	NameUnqualified    NameKind = iota // Foo
	NameQualified                      // Foo\Bar
	NameFullyQualified                 // \Foo\Bar
	NameRelative                       // namespace\Foo
)

// Name 可能带命名空间限定的名字
type Name struct {
	base
	Kind  NameKind
	Parts []string
}

func (n *Name) String() string {
	s := strings.Join(n.Parts, "\\")
	switch n.Kind {
	case NameFullyQualified:
		return "\\" + s
	case NameRelative:
		return "namespace\\" + s
	default:
		return s
	}
}

// Last 返回最后一段（不带限定的短名）
func (n *Name) Last() string {
	if len(n.Parts) == 0 {
		return ""
	}
	return n.Parts[len(n.Parts)-1]
}

// Identifier 成员名、标签名等裸标识符
type Identifier struct {
	base
	Name string
}

func (n *Identifier) String() string { return n.Name }

// ============================================================================
// 类型引用
// ============================================================================

// NamedTypeRef 命名类型 (int, Foo\Bar)
type NamedTypeRef struct {
	base
	Name *Name
}

func (t *NamedTypeRef) String() string { return t.Name.String() }
func (t *NamedTypeRef) typeNode()      {}

// ArrayTypeRef array 类型
type ArrayTypeRef struct {
	base
}

func (t *ArrayTypeRef) String() string { return "array" }
func (t *ArrayTypeRef) typeNode()      {}

// CallableTypeRef callable 类型
type CallableTypeRef struct {
	base
}

func (t *CallableTypeRef) String() string { return "callable" }
func (t *CallableTypeRef) typeNode()      {}

// NullableTypeRef 可空类型 (?Type)
//
// 不变量: Inner 恰好是一个非可空类型。
type NullableTypeRef struct {
	base
	Inner TypeRef
}

func (t *NullableTypeRef) String() string { return "?" + t.Inner.String() }
func (t *NullableTypeRef) typeNode()      {}

// ============================================================================
// 表达式 - 字面量
// ============================================================================

// IntLit 整数字面量
type IntLit struct {
	base
	Value  int64
	Format IntFormat
}

func (e *IntLit) String() string { return fmt.Sprintf("%d", e.Value) }
func (e *IntLit) exprNode()      {}

// DoubleLit 浮点字面量
type DoubleLit struct {
	base
	Value  float64
	Format FloatFormat
}

func (e *DoubleLit) String() string { return fmt.Sprintf("%g", e.Value) }
func (e *DoubleLit) exprNode()      {}

// StringLit 字符串字面量
type StringLit struct {
	base
	Value  string
	Format StringFormat
}

func (e *StringLit) String() string { return fmt.Sprintf("%q", e.Value) }
func (e *StringLit) exprNode()      {}

// BinaryStringLit 二进制字符串字面量 (b"...")
type BinaryStringLit struct {
	base
	Value  []byte
	Format StringFormat
}

func (e *BinaryStringLit) String() string { return fmt.Sprintf("b%q", e.Value) }
func (e *BinaryStringLit) exprNode()      {}

// BoolLit 布尔字面量 (true/false)
type BoolLit struct {
	base
	Value bool
}

func (e *BoolLit) String() string {
	if e.Value {
		return "true"
	}
	return "false"
}
func (e *BoolLit) exprNode() {}

// NullLit null 字面量
type NullLit struct {
	base
}

func (e *NullLit) String() string { return "null" }
func (e *NullLit) exprNode()      {}

// MagicConst 魔术常量 (__LINE__, __FILE__, ...)
type MagicConst struct {
	base
	Kind token.Kind
}

func (e *MagicConst) String() string { return e.Kind.String() }
func (e *MagicConst) exprNode()      {}

// ============================================================================
// 表达式 - 变量与访问
// ============================================================================

// Variable 变量 ($name)
type Variable struct {
	base
	Name string // 不含 $ 前缀
}

func (e *Variable) String() string { return "$" + e.Name }
func (e *Variable) exprNode()      {}

// IndirectVariable 间接变量 ($$x, ${expr})
type IndirectVariable struct {
	base
	Expr Expression
}

func (e *IndirectVariable) String() string { return "${" + e.Expr.String() + "}" }
func (e *IndirectVariable) exprNode()      {}

// ArrayAccess 下标访问 ($a[0], $a{} 不支持)
type ArrayAccess struct {
	base
	Target Expression
	Index  Expression // 可为 nil ($a[] = ...)
}

func (e *ArrayAccess) String() string {
	if e.Index == nil {
		return e.Target.String() + "[]"
	}
	return e.Target.String() + "[" + e.Index.String() + "]"
}
func (e *ArrayAccess) exprNode() {}

// PropertyFetch 属性访问 ($o->p, $o->{expr})
type PropertyFetch struct {
	base
	Target Expression
	Name   Node // *Identifier、*Variable 或任意表达式
}

func (e *PropertyFetch) String() string {
	return e.Target.String() + "->" + e.Name.String()
}
func (e *PropertyFetch) exprNode() {}

// StaticPropertyFetch 静态属性访问 (Foo::$p)
type StaticPropertyFetch struct {
	base
	Class Node // *Name 或表达式
	Name  Node // *Variable 或表达式
}

func (e *StaticPropertyFetch) String() string {
	return e.Class.String() + "::" + e.Name.String()
}
func (e *StaticPropertyFetch) exprNode() {}

// ClassConstFetch 类常量访问 (Foo::BAR, Foo::class)
type ClassConstFetch struct {
	base
	Class Node // *Name 或表达式
	Name  *Identifier
}

func (e *ClassConstFetch) String() string {
	return e.Class.String() + "::" + e.Name.String()
}
func (e *ClassConstFetch) exprNode() {}

// ConstFetch 全局常量访问 (FOO, Foo\BAR)
type ConstFetch struct {
	base
	Name *Name
}

func (e *ConstFetch) String() string { return e.Name.String() }
func (e *ConstFetch) exprNode()      {}

// ============================================================================
// 表达式 - 调用
// ============================================================================

// Arg 调用实参
type Arg struct {
	base
	Value  Expression
	ByRef  bool // &$x
	Unpack bool // ...$xs
}

func (e *Arg) String() string {
	prefix := ""
	if e.ByRef {
		prefix = "&"
	}
	if e.Unpack {
		prefix = "..."
	}
	return prefix + e.Value.String()
}

// FunctionCall 函数调用 (foo(), $f(), (expr)())
type FunctionCall struct {
	base
	Callee Node // *Name 或表达式
	Args   []*Arg
}

func (e *FunctionCall) String() string { return e.Callee.String() + argsString(e.Args) }
func (e *FunctionCall) exprNode()      {}

// MethodCall 方法调用 ($o->m())
type MethodCall struct {
	base
	Target Expression
	Name   Node // *Identifier 或表达式
	Args   []*Arg
}

func (e *MethodCall) String() string {
	return e.Target.String() + "->" + e.Name.String() + argsString(e.Args)
}
func (e *MethodCall) exprNode() {}

// StaticCall 静态调用 (Foo::m())
type StaticCall struct {
	base
	Class Node // *Name 或表达式
	Name  Node // *Identifier 或表达式
	Args  []*Arg
}

func (e *StaticCall) String() string {
	return e.Class.String() + "::" + e.Name.String() + argsString(e.Args)
}
func (e *StaticCall) exprNode() {}

// New 对象创建 (new Foo(...), new class {...})
type New struct {
	base
	Class Node // *Name、表达式或匿名 *ClassDecl
	Args  []*Arg
}

func (e *New) String() string { return "new " + e.Class.String() + argsString(e.Args) }
func (e *New) exprNode()      {}

func argsString(args []*Arg) string {
	var parts []string
	for _, a := range args {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ============================================================================
// 表达式 - 运算
// ============================================================================

// Binary 二元运算 (含 ??、.、instanceof 之外的全部二元形式)
type Binary struct {
	base
	Op    token.Kind
	Left  Expression
	Right Expression
}

func (e *Binary) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}
func (e *Binary) exprNode() {}

// Unary 一元前缀运算 (!, -, +, ~)
type Unary struct {
	base
	Op      token.Kind
	Operand Expression
}

func (e *Unary) String() string { return e.Op.String() + e.Operand.String() }
func (e *Unary) exprNode()      {}

// Assign 赋值 ($a = v, $a =& v)
type Assign struct {
	base
	Target Expression
	Value  Expression
	ByRef  bool
}

func (e *Assign) String() string {
	op := " = "
	if e.ByRef {
		op = " =& "
	}
	return e.Target.String() + op + e.Value.String()
}
func (e *Assign) exprNode() {}

// AssignOp 复合赋值 ($a += v 等)
type AssignOp struct {
	base
	Op     token.Kind
	Target Expression
	Value  Expression
}

func (e *AssignOp) String() string {
	return e.Target.String() + " " + e.Op.String() + " " + e.Value.String()
}
func (e *AssignOp) exprNode() {}

// IncDec 自增自减 (++$a, $a--)
type IncDec struct {
	base
	Op      token.Kind // T_INC 或 T_DEC
	Prefix  bool
	Operand Expression
}

func (e *IncDec) String() string {
	if e.Prefix {
		return e.Op.String() + e.Operand.String()
	}
	return e.Operand.String() + e.Op.String()
}
func (e *IncDec) exprNode() {}

// Cast 类型转换 ((int)$x 等)
type Cast struct {
	base
	Kind    token.Kind
	Operand Expression
}

func (e *Cast) String() string { return e.Kind.String() + e.Operand.String() }
func (e *Cast) exprNode()      {}

// Ternary 条件表达式 (a ? b : c, a ?: c)
type Ternary struct {
	base
	Cond Expression
	Then Expression // ?: 时为 nil
	Else Expression
}

func (e *Ternary) String() string {
	if e.Then == nil {
		return e.Cond.String() + " ?: " + e.Else.String()
	}
	return e.Cond.String() + " ? " + e.Then.String() + " : " + e.Else.String()
}
func (e *Ternary) exprNode() {}

// InstanceOf instanceof 运算
type InstanceOf struct {
	base
	Expr  Expression
	Class Node // *Name 或表达式
}

func (e *InstanceOf) String() string {
	return e.Expr.String() + " instanceof " + e.Class.String()
}
func (e *InstanceOf) exprNode() {}

// ErrorSuppress 错误抑制 (@expr)
type ErrorSuppress struct {
	base
	Expr Expression
}

func (e *ErrorSuppress) String() string { return "@" + e.Expr.String() }
func (e *ErrorSuppress) exprNode()      {}

// ============================================================================
// 表达式 - 语言构造
// ============================================================================

// Isset isset(...)
type Isset struct {
	base
	Vars []Expression
}

func (e *Isset) String() string { return "isset" + exprListString(e.Vars) }
func (e *Isset) exprNode()      {}

// Empty empty(expr)
type Empty struct {
	base
	Expr Expression
}

func (e *Empty) String() string { return "empty(" + e.Expr.String() + ")" }
func (e *Empty) exprNode()      {}

// Exit exit/die
type Exit struct {
	base
	Expr Expression // 可为 nil
}

func (e *Exit) String() string {
	if e.Expr == nil {
		return "exit"
	}
	return "exit(" + e.Expr.String() + ")"
}
func (e *Exit) exprNode() {}

// Include include/require 族
type Include struct {
	base
	Kind token.Kind // T_INCLUDE, T_INCLUDE_ONCE, T_REQUIRE, T_REQUIRE_ONCE
	Expr Expression
}

func (e *Include) String() string { return e.Kind.String() + " " + e.Expr.String() }
func (e *Include) exprNode()      {}

// Eval eval(expr)
type Eval struct {
	base
	Expr Expression
}

func (e *Eval) String() string { return "eval(" + e.Expr.String() + ")" }
func (e *Eval) exprNode()      {}

// Print print expr
type Print struct {
	base
	Expr Expression
}

func (e *Print) String() string { return "print " + e.Expr.String() }
func (e *Print) exprNode()      {}

// Clone clone expr
type Clone struct {
	base
	Expr Expression
}

func (e *Clone) String() string { return "clone " + e.Expr.String() }
func (e *Clone) exprNode()      {}

// Yield yield / yield k => v
type Yield struct {
	base
	Key   Expression // 可为 nil
	Value Expression // 可为 nil (裸 yield)
}

func (e *Yield) String() string {
	switch {
	case e.Value == nil:
		return "yield"
	case e.Key == nil:
		return "yield " + e.Value.String()
	default:
		return "yield " + e.Key.String() + " => " + e.Value.String()
	}
}
func (e *Yield) exprNode() {}

// YieldFrom yield from expr
type YieldFrom struct {
	base
	Expr Expression
}

func (e *YieldFrom) String() string { return "yield from " + e.Expr.String() }
func (e *YieldFrom) exprNode()      {}

// ============================================================================
// 表达式 - 数组与列表
// ============================================================================

// ArrayItem 数组元素
type ArrayItem struct {
	base
	Key   Expression // 可为 nil
	Value Expression
	ByRef bool
}

func (e *ArrayItem) String() string {
	s := ""
	if e.Key != nil {
		s = e.Key.String() + " => "
	}
	if e.ByRef {
		s += "&"
	}
	return s + e.Value.String()
}

// ArrayExpr 数组构造 (array(...) 或 [...])
type ArrayExpr struct {
	base
	Items []*ArrayItem
	Short bool // [] 语法
}

func (e *ArrayExpr) String() string {
	var parts []string
	for _, it := range e.Items {
		parts = append(parts, it.String())
	}
	if e.Short {
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return "array(" + strings.Join(parts, ", ") + ")"
}
func (e *ArrayExpr) exprNode() {}

// ListExpr list(...) 解构
type ListExpr struct {
	base
	Items []*ArrayItem // 空洞位置为 nil
}

func (e *ListExpr) String() string {
	var parts []string
	for _, it := range e.Items {
		if it == nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, it.String())
	}
	return "list(" + strings.Join(parts, ", ") + ")"
}
func (e *ListExpr) exprNode() {}

// ============================================================================
// 表达式 - 字符串插值与 shell
// ============================================================================

// EncapsList 插值字符串 ("a$x b")
//
// 部件是字面文本（StringLit）和插值点（变量或表达式）的交替。
type EncapsList struct {
	base
	Parts []Expression
}

func (e *EncapsList) String() string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, p := range e.Parts {
		sb.WriteString(p.String())
	}
	sb.WriteByte('"')
	return sb.String()
}
func (e *EncapsList) exprNode() {}

// ShellExec 反引号执行 (`cmd $arg`)
type ShellExec struct {
	base
	Parts []Expression
}

func (e *ShellExec) String() string {
	var sb strings.Builder
	sb.WriteByte('`')
	for _, p := range e.Parts {
		sb.WriteString(p.String())
	}
	sb.WriteByte('`')
	return sb.String()
}
func (e *ShellExec) exprNode() {}

// ============================================================================
// 表达式 - 闭包
// ============================================================================

// ClosureUse 闭包捕获 (use ($a, &$b))
type ClosureUse struct {
	base
	Var   *Variable
	ByRef bool
}

func (e *ClosureUse) String() string {
	if e.ByRef {
		return "&" + e.Var.String()
	}
	return e.Var.String()
}

// Closure 闭包 (function (...) use (...) {...})
type Closure struct {
	base
	Static     bool
	ByRef      bool // 按引用返回
	Params     []*Param
	Uses       []*ClosureUse
	ReturnType TypeRef // 可为 nil
	Body       *Block
}

func (e *Closure) String() string { return "function (...) {...}" }
func (e *Closure) exprNode()      {}

func exprListString(exprs []Expression) string {
	var parts []string
	for _, x := range exprs {
		parts = append(parts, x.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ============================================================================
// 语句
// ============================================================================

// GlobalCode 整个源文件的根节点
type GlobalCode struct {
	base
	Stmts []Statement
}

func (s *GlobalCode) String() string { return fmt.Sprintf("GlobalCode(%d stmts)", len(s.Stmts)) }
func (s *GlobalCode) stmtNode()      {}

// Block 语句块 ({ ... })
type Block struct {
	base
	Stmts []Statement
}

func (s *Block) String() string { return fmt.Sprintf("{%d stmts}", len(s.Stmts)) }
func (s *Block) stmtNode()      {}

// Nop 空语句 (;)
type Nop struct {
	base
}

func (s *Nop) String() string { return ";" }
func (s *Nop) stmtNode()      {}

// ExprStmt 表达式语句
type ExprStmt struct {
	base
	Expr Expression
}

func (s *ExprStmt) String() string { return s.Expr.String() + ";" }
func (s *ExprStmt) stmtNode()      {}

// Echo echo 语句
type Echo struct {
	base
	Exprs []Expression
}

func (s *Echo) String() string {
	var parts []string
	for _, x := range s.Exprs {
		parts = append(parts, x.String())
	}
	return "echo " + strings.Join(parts, ", ") + ";"
}
func (s *Echo) stmtNode() {}

// InlineHTML 脚本之外的原始 HTML
type InlineHTML struct {
	base
	Text string
}

func (s *InlineHTML) String() string { return fmt.Sprintf("InlineHTML(%q)", s.Text) }
func (s *InlineHTML) stmtNode()      {}

// ============================================================================
// 语句 - 控制流
// ============================================================================

// ElseIf elseif 分支
type ElseIf struct {
	base
	Cond Expression
	Body Statement
}

func (s *ElseIf) String() string { return "elseif (" + s.Cond.String() + ") ..." }

// If if 语句
//
// else 悬挂问题在解析时就绑定到最内层 if。
type If struct {
	base
	Cond    Expression
	Then    Statement
	ElseIfs []*ElseIf
	Else    Statement // 可为 nil
}

func (s *If) String() string { return "if (" + s.Cond.String() + ") ..." }
func (s *If) stmtNode()      {}

// While while 循环
type While struct {
	base
	Cond Expression
	Body Statement
}

func (s *While) String() string { return "while (" + s.Cond.String() + ") ..." }
func (s *While) stmtNode()      {}

// DoWhile do-while 循环
type DoWhile struct {
	base
	Body Statement
	Cond Expression
}

func (s *DoWhile) String() string { return "do ... while (" + s.Cond.String() + ");" }
func (s *DoWhile) stmtNode()      {}

// For for 循环
type For struct {
	base
	Init []Expression
	Cond []Expression
	Step []Expression
	Body Statement
}

func (s *For) String() string { return "for (...) ..." }
func (s *For) stmtNode()      {}

// Foreach foreach 循环
type Foreach struct {
	base
	Expr     Expression
	KeyVar   Expression // 可为 nil
	ValueVar Expression
	ByRef    bool
	Body     Statement
}

func (s *Foreach) String() string { return "foreach (" + s.Expr.String() + " as ...) ..." }
func (s *Foreach) stmtNode()      {}

// CaseStmt switch 的一个分支
type CaseStmt struct {
	base
	Cond  Expression // nil 表示 default
	Stmts []Statement
}

func (s *CaseStmt) String() string {
	if s.Cond == nil {
		return "default:"
	}
	return "case " + s.Cond.String() + ":"
}

// Switch switch 语句
type Switch struct {
	base
	Cond  Expression
	Cases []*CaseStmt
}

func (s *Switch) String() string { return "switch (" + s.Cond.String() + ") ..." }
func (s *Switch) stmtNode()      {}

// Break break 语句
type Break struct {
	base
	Level Expression // 可为 nil
}

func (s *Break) String() string { return "break;" }
func (s *Break) stmtNode()      {}

// Continue continue 语句
type Continue struct {
	base
	Level Expression // 可为 nil
}

func (s *Continue) String() string { return "continue;" }
func (s *Continue) stmtNode()      {}

// Return return 语句
type Return struct {
	base
	Expr Expression // 可为 nil
}

func (s *Return) String() string {
	if s.Expr == nil {
		return "return;"
	}
	return "return " + s.Expr.String() + ";"
}
func (s *Return) stmtNode() {}

// Goto goto 语句
type Goto struct {
	base
	Label *Identifier
}

func (s *Goto) String() string { return "goto " + s.Label.String() + ";" }
func (s *Goto) stmtNode()      {}

// LabelStmt 标签 (label:)
type LabelStmt struct {
	base
	Name *Identifier
}

func (s *LabelStmt) String() string { return s.Name.String() + ":" }
func (s *LabelStmt) stmtNode()      {}

// Throw throw 语句
type Throw struct {
	base
	Expr Expression
}

func (s *Throw) String() string { return "throw " + s.Expr.String() + ";" }
func (s *Throw) stmtNode()      {}

// Catch catch 子句
type Catch struct {
	base
	Types []*Name
	Var   *Variable
	Body  *Block
}

func (s *Catch) String() string { return "catch (...) ..." }

// Try try/catch/finally 语句
type Try struct {
	base
	Body    *Block
	Catches []*Catch
	Finally *Block // 可为 nil
}

func (s *Try) String() string { return "try ..." }
func (s *Try) stmtNode()      {}

// ============================================================================
// 语句 - 其余形式
// ============================================================================

// Global global 声明
type Global struct {
	base
	Vars []Expression
}

func (s *Global) String() string { return "global ...;" }
func (s *Global) stmtNode()      {}

// StaticVar 函数内 static 变量的一项
type StaticVar struct {
	base
	Var     *Variable
	Default Expression // 可为 nil
}

func (s *StaticVar) String() string {
	if s.Default == nil {
		return s.Var.String()
	}
	return s.Var.String() + " = " + s.Default.String()
}

// StaticVars 函数内 static 声明
type StaticVars struct {
	base
	Vars []*StaticVar
}

func (s *StaticVars) String() string { return "static ...;" }
func (s *StaticVars) stmtNode()      {}

// Unset unset 语句
type Unset struct {
	base
	Vars []Expression
}

func (s *Unset) String() string { return "unset" + exprListString(s.Vars) + ";" }
func (s *Unset) stmtNode()      {}

// DeclareDirective declare 的一个指令
type DeclareDirective struct {
	base
	Name  *Identifier
	Value Expression
}

func (s *DeclareDirective) String() string { return s.Name.String() + "=" + s.Value.String() }

// Declare declare 语句
type Declare struct {
	base
	Directives []*DeclareDirective
	Body       Statement // 可为 nil
}

func (s *Declare) String() string { return "declare (...)" }
func (s *Declare) stmtNode()      {}

// HaltCompiler __halt_compiler();
//
// DataOffset 是 ';' 之后第一个字符的偏移，其后的输入全部是
// 原始数据。只允许出现在最外层。
type HaltCompiler struct {
	base
	DataOffset int
}

func (s *HaltCompiler) String() string { return "__halt_compiler();" }
func (s *HaltCompiler) stmtNode()      {}

// ============================================================================
// 语句 - 命名空间与导入
// ============================================================================

// NamespaceDecl 命名空间声明
//
// 不变量: Stmts 里只出现顶层语句。
// 带块体时 Stmts 是块内语句；不带块体时是到下一个
// namespace 为止的语句。
type NamespaceDecl struct {
	base
	Name    *Name // 可为 nil (namespace { ... })
	Braced  bool
	Stmts   []Statement
}

func (s *NamespaceDecl) String() string {
	if s.Name == nil {
		return "namespace { ... }"
	}
	return "namespace " + s.Name.String() + ";"
}
func (s *NamespaceDecl) stmtNode() {}

// UseKind use 声明的种类
type UseKind int

const (
	UseNormal   UseKind = iota // use Foo\Bar
	UseFunction                // use function foo
	UseConst                   // use const FOO
)

func (k UseKind) String() string {
	switch k {
	case UseFunction:
		return "function"
	case UseConst:
		return "const"
	default:
		return ""
	}
}

// UseClause use 声明的一项
type UseClause struct {
	base
	Kind  UseKind // 混合组导入里每项可以有自己的种类
	Name  *Name
	Alias *Identifier // 可为 nil
}

func (s *UseClause) String() string {
	if s.Alias == nil {
		return s.Name.String()
	}
	return s.Name.String() + " as " + s.Alias.String()
}

// UseDecl use 声明（四种形态：普通、function、const、组导入）
type UseDecl struct {
	base
	Kind   UseKind
	Prefix *Name // 组导入的公共前缀，可为 nil
	Uses   []*UseClause
}

func (s *UseDecl) String() string { return "use ...;" }
func (s *UseDecl) stmtNode()      {}

// ============================================================================
// 声明
// ============================================================================

// Param 形参
type Param struct {
	base
	Type     TypeRef // 可为 nil
	ByRef    bool
	Variadic bool
	Var      *Variable
	Default  Expression // 可为 nil
}

func (d *Param) String() string {
	s := ""
	if d.Type != nil {
		s = d.Type.String() + " "
	}
	if d.ByRef {
		s += "&"
	}
	if d.Variadic {
		s += "..."
	}
	s += d.Var.String()
	if d.Default != nil {
		s += " = " + d.Default.String()
	}
	return s
}

// FunctionDecl 函数声明
type FunctionDecl struct {
	base
	ByRef      bool // 按引用返回 (function &f)
	Name       *Identifier
	Params     []*Param
	ReturnType TypeRef // 可为 nil；存在时必是 TypeRef
	Body       *Block
}

func (d *FunctionDecl) String() string { return "function " + d.Name.String() + "(...)" }
func (d *FunctionDecl) stmtNode()      {}
func (d *FunctionDecl) declNode()      {}

// ClassDecl 类声明（含匿名类）
type ClassDecl struct {
	base
	Modifiers  Modifier // abstract/final
	Anonymous  bool
	Name       *Identifier // 匿名类为 nil
	Extends    *Name       // 可为 nil
	Implements []*Name
	Members    []Member
}

func (d *ClassDecl) String() string {
	if d.Anonymous {
		return "class {...}"
	}
	return "class " + d.Name.String()
}
func (d *ClassDecl) stmtNode() {}
func (d *ClassDecl) declNode() {}

// InterfaceDecl 接口声明
type InterfaceDecl struct {
	base
	Name    *Identifier
	Extends []*Name
	Members []Member
}

func (d *InterfaceDecl) String() string { return "interface " + d.Name.String() }
func (d *InterfaceDecl) stmtNode()      {}
func (d *InterfaceDecl) declNode()      {}

// TraitDecl trait 声明
type TraitDecl struct {
	base
	Name    *Identifier
	Members []Member
}

func (d *TraitDecl) String() string { return "trait " + d.Name.String() }
func (d *TraitDecl) stmtNode()      {}
func (d *TraitDecl) declNode()      {}

// MethodDecl 方法声明
type MethodDecl struct {
	base
	Modifiers  Modifier
	ByRef      bool
	Name       *Identifier
	Params     []*Param
	ReturnType TypeRef // 可为 nil
	Body       *Block  // 抽象方法和接口方法为 nil
}

func (d *MethodDecl) String() string { return "function " + d.Name.String() + "(...)" }
func (d *MethodDecl) memberNode()    {}

// PropertyElem 属性声明的一项
type PropertyElem struct {
	base
	Name    *Identifier
	Default Expression // 可为 nil
}

func (d *PropertyElem) String() string {
	if d.Default == nil {
		return "$" + d.Name.String()
	}
	return "$" + d.Name.String() + " = " + d.Default.String()
}

// PropertyDecl 属性声明
type PropertyDecl struct {
	base
	Modifiers Modifier
	Elems     []*PropertyElem
}

func (d *PropertyDecl) String() string { return d.Modifiers.String() + " $...;" }
func (d *PropertyDecl) memberNode()    {}

// ConstElem 常量声明的一项
type ConstElem struct {
	base
	Name  *Identifier
	Value Expression
}

func (d *ConstElem) String() string { return d.Name.String() + " = " + d.Value.String() }

// ClassConstDecl 类常量声明
type ClassConstDecl struct {
	base
	Modifiers Modifier
	Consts    []*ConstElem
}

func (d *ClassConstDecl) String() string { return "const ...;" }
func (d *ClassConstDecl) memberNode()    {}

// ConstDecl 全局常量声明
type ConstDecl struct {
	base
	Consts []*ConstElem
}

func (d *ConstDecl) String() string { return "const ...;" }
func (d *ConstDecl) stmtNode()      {}
func (d *ConstDecl) declNode()      {}

// ============================================================================
// 声明 - trait 使用
// ============================================================================

// TraitAdaptation trait 适配（别名或优先级）
type TraitAdaptation interface {
	Node
	adaptationNode()
}

// TraitAlias use T { m as n; m as protected; }
type TraitAlias struct {
	base
	Trait    *Name // 可为 nil
	Method   *Identifier
	Alias    *Identifier // 可为 nil（只改可见性）
	Modifier Modifier
}

func (d *TraitAlias) String() string  { return d.Method.String() + " as ..." }
func (d *TraitAlias) adaptationNode() {}

// TraitPrecedence use A, B { A::m insteadof B; }
type TraitPrecedence struct {
	base
	Trait     *Name
	Method    *Identifier
	InsteadOf []*Name
}

func (d *TraitPrecedence) String() string  { return d.Method.String() + " insteadof ..." }
func (d *TraitPrecedence) adaptationNode() {}

// TraitUse 类体内的 use T1, T2 {...}
type TraitUse struct {
	base
	Traits      []*Name
	Adaptations []TraitAdaptation
}

func (d *TraitUse) String() string { return "use ...;" }
func (d *TraitUse) memberNode()    {}
