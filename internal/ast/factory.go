package ast

import (
	"reflect"

	"github.com/tluyben/phpfront/internal/token"
)

// ============================================================================
// AST 节点工厂
// ============================================================================
//
// 节点只能通过工厂构造。工厂做三件事：
// 1. 校验并规范 Span（长度不为负）
// 2. 把每个子节点的父指针回指到新节点
// 3. 属性包零值初始化（嵌入 base 自带）
//
// 所有工厂函数从 Arena 分配，保持内联友好。
//
// ============================================================================

// normSpan 规范 Span：负长度收敛为 0
func normSpan(sp token.Span) token.Span {
	if sp.Length < 0 {
		sp.Length = 0
	}
	return sp
}

// isNilNode 判断接口值是否为 nil（含有类型的 nil 指针）
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// adopt 把子节点的父指针回指到 parent
func adopt(parent Node, children ...Node) {
	for _, c := range children {
		if !isNilNode(c) {
			c.setParent(parent)
		}
	}
}

// adoptExprs 批量回指表达式子节点
func adoptExprs(parent Node, children []Expression) {
	for _, c := range children {
		if !isNilNode(c) {
			c.setParent(parent)
		}
	}
}

// adoptStmts 批量回指语句子节点
func adoptStmts(parent Node, children []Statement) {
	for _, c := range children {
		if !isNilNode(c) {
			c.setParent(parent)
		}
	}
}

// adoptArgs 批量回指实参
func adoptArgs(parent Node, args []*Arg) {
	for _, a := range args {
		if a != nil {
			a.setParent(parent)
		}
	}
}

// adoptItems 批量回指数组元素
func adoptItems(parent Node, items []*ArrayItem) {
	for _, it := range items {
		if it != nil {
			it.setParent(parent)
		}
	}
}

// adoptParams 批量回指形参
func adoptParams(parent Node, params []*Param) {
	for _, p := range params {
		if p != nil {
			p.setParent(parent)
		}
	}
}

// adoptNames 批量回指名字
func adoptNames(parent Node, names []*Name) {
	for _, n := range names {
		if n != nil {
			n.setParent(parent)
		}
	}
}

// adoptMembers 批量回指类成员
func adoptMembers(parent Node, members []Member) {
	for _, m := range members {
		if !isNilNode(m) {
			m.setParent(parent)
		}
	}
}

// ============================================================================
// 名字与类型
// ============================================================================

// NewName 创建名字节点
func (a *Arena) NewName(span token.Span, kind NameKind, parts []string) *Name {
	n := AllocType[Name](a)
	n.span = normSpan(span)
	n.Kind = kind
	n.Parts = parts
	return n
}

// NewIdentifier 创建标识符节点
func (a *Arena) NewIdentifier(span token.Span, name string) *Identifier {
	n := AllocType[Identifier](a)
	n.span = normSpan(span)
	n.Name = name
	return n
}

// NewNamedTypeRef 创建命名类型引用
func (a *Arena) NewNamedTypeRef(span token.Span, name *Name) *NamedTypeRef {
	n := AllocType[NamedTypeRef](a)
	n.span = normSpan(span)
	n.Name = name
	adopt(n, name)
	return n
}

// NewArrayTypeRef 创建 array 类型引用
func (a *Arena) NewArrayTypeRef(span token.Span) *ArrayTypeRef {
	n := AllocType[ArrayTypeRef](a)
	n.span = normSpan(span)
	return n
}

// NewCallableTypeRef 创建 callable 类型引用
func (a *Arena) NewCallableTypeRef(span token.Span) *CallableTypeRef {
	n := AllocType[CallableTypeRef](a)
	n.span = normSpan(span)
	return n
}

// NewNullableTypeRef 创建可空类型引用 (?Type)
func (a *Arena) NewNullableTypeRef(span token.Span, inner TypeRef) *NullableTypeRef {
	n := AllocType[NullableTypeRef](a)
	n.span = normSpan(span)
	n.Inner = inner
	adopt(n, inner)
	return n
}

// ============================================================================
// 表达式 - 字面量
// ============================================================================

// NewIntLit 创建整数字面量
func (a *Arena) NewIntLit(span token.Span, value int64, format IntFormat) *IntLit {
	n := AllocType[IntLit](a)
	n.span = normSpan(span)
	n.Value = value
	n.Format = format
	return n
}

// NewDoubleLit 创建浮点字面量
func (a *Arena) NewDoubleLit(span token.Span, value float64, format FloatFormat) *DoubleLit {
	n := AllocType[DoubleLit](a)
	n.span = normSpan(span)
	n.Value = value
	n.Format = format
	return n
}

// NewStringLit 创建字符串字面量
func (a *Arena) NewStringLit(span token.Span, value string, format StringFormat) *StringLit {
	n := AllocType[StringLit](a)
	n.span = normSpan(span)
	n.Value = value
	n.Format = format
	return n
}

// NewBinaryStringLit 创建二进制字符串字面量
func (a *Arena) NewBinaryStringLit(span token.Span, value []byte, format StringFormat) *BinaryStringLit {
	n := AllocType[BinaryStringLit](a)
	n.span = normSpan(span)
	n.Value = value
	n.Format = format
	return n
}

// NewBoolLit 创建布尔字面量
func (a *Arena) NewBoolLit(span token.Span, value bool) *BoolLit {
	n := AllocType[BoolLit](a)
	n.span = normSpan(span)
	n.Value = value
	return n
}

// NewNullLit 创建 null 字面量
func (a *Arena) NewNullLit(span token.Span) *NullLit {
	n := AllocType[NullLit](a)
	n.span = normSpan(span)
	return n
}

// NewMagicConst 创建魔术常量
func (a *Arena) NewMagicConst(span token.Span, kind token.Kind) *MagicConst {
	n := AllocType[MagicConst](a)
	n.span = normSpan(span)
	n.Kind = kind
	return n
}

// ============================================================================
// 表达式 - 变量与访问
// ============================================================================

// NewVariable 创建变量节点（名字不含 $）
func (a *Arena) NewVariable(span token.Span, name string) *Variable {
	n := AllocType[Variable](a)
	n.span = normSpan(span)
	n.Name = name
	return n
}

// NewIndirectVariable 创建间接变量 ($$x, ${expr})
func (a *Arena) NewIndirectVariable(span token.Span, expr Expression) *IndirectVariable {
	n := AllocType[IndirectVariable](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewArrayAccess 创建下标访问
func (a *Arena) NewArrayAccess(span token.Span, target, index Expression) *ArrayAccess {
	n := AllocType[ArrayAccess](a)
	n.span = normSpan(span)
	n.Target = target
	n.Index = index
	adopt(n, target, index)
	return n
}

// NewPropertyFetch 创建属性访问
func (a *Arena) NewPropertyFetch(span token.Span, target Expression, name Node) *PropertyFetch {
	n := AllocType[PropertyFetch](a)
	n.span = normSpan(span)
	n.Target = target
	n.Name = name
	adopt(n, target, name)
	return n
}

// NewStaticPropertyFetch 创建静态属性访问
func (a *Arena) NewStaticPropertyFetch(span token.Span, class, name Node) *StaticPropertyFetch {
	n := AllocType[StaticPropertyFetch](a)
	n.span = normSpan(span)
	n.Class = class
	n.Name = name
	adopt(n, class, name)
	return n
}

// NewClassConstFetch 创建类常量访问
func (a *Arena) NewClassConstFetch(span token.Span, class Node, name *Identifier) *ClassConstFetch {
	n := AllocType[ClassConstFetch](a)
	n.span = normSpan(span)
	n.Class = class
	n.Name = name
	adopt(n, class, name)
	return n
}

// NewConstFetch 创建全局常量访问
func (a *Arena) NewConstFetch(span token.Span, name *Name) *ConstFetch {
	n := AllocType[ConstFetch](a)
	n.span = normSpan(span)
	n.Name = name
	adopt(n, name)
	return n
}

// ============================================================================
// 表达式 - 调用
// ============================================================================

// NewArg 创建调用实参
func (a *Arena) NewArg(span token.Span, value Expression, byRef, unpack bool) *Arg {
	n := AllocType[Arg](a)
	n.span = normSpan(span)
	n.Value = value
	n.ByRef = byRef
	n.Unpack = unpack
	adopt(n, value)
	return n
}

// NewFunctionCall 创建函数调用
func (a *Arena) NewFunctionCall(span token.Span, callee Node, args []*Arg) *FunctionCall {
	n := AllocType[FunctionCall](a)
	n.span = normSpan(span)
	n.Callee = callee
	n.Args = args
	adopt(n, callee)
	adoptArgs(n, args)
	return n
}

// NewMethodCall 创建方法调用
func (a *Arena) NewMethodCall(span token.Span, target Expression, name Node, args []*Arg) *MethodCall {
	n := AllocType[MethodCall](a)
	n.span = normSpan(span)
	n.Target = target
	n.Name = name
	n.Args = args
	adopt(n, target, name)
	adoptArgs(n, args)
	return n
}

// NewStaticCall 创建静态调用
func (a *Arena) NewStaticCall(span token.Span, class, name Node, args []*Arg) *StaticCall {
	n := AllocType[StaticCall](a)
	n.span = normSpan(span)
	n.Class = class
	n.Name = name
	n.Args = args
	adopt(n, class, name)
	adoptArgs(n, args)
	return n
}

// NewNew 创建对象创建表达式
func (a *Arena) NewNew(span token.Span, class Node, args []*Arg) *New {
	n := AllocType[New](a)
	n.span = normSpan(span)
	n.Class = class
	n.Args = args
	adopt(n, class)
	adoptArgs(n, args)
	return n
}

// ============================================================================
// 表达式 - 运算
// ============================================================================

// NewBinary 创建二元运算
func (a *Arena) NewBinary(span token.Span, op token.Kind, left, right Expression) *Binary {
	n := AllocType[Binary](a)
	n.span = normSpan(span)
	n.Op = op
	n.Left = left
	n.Right = right
	adopt(n, left, right)
	return n
}

// NewUnary 创建一元运算
func (a *Arena) NewUnary(span token.Span, op token.Kind, operand Expression) *Unary {
	n := AllocType[Unary](a)
	n.span = normSpan(span)
	n.Op = op
	n.Operand = operand
	adopt(n, operand)
	return n
}

// NewAssign 创建赋值
func (a *Arena) NewAssign(span token.Span, target, value Expression, byRef bool) *Assign {
	n := AllocType[Assign](a)
	n.span = normSpan(span)
	n.Target = target
	n.Value = value
	n.ByRef = byRef
	adopt(n, target, value)
	return n
}

// NewAssignOp 创建复合赋值
func (a *Arena) NewAssignOp(span token.Span, op token.Kind, target, value Expression) *AssignOp {
	n := AllocType[AssignOp](a)
	n.span = normSpan(span)
	n.Op = op
	n.Target = target
	n.Value = value
	adopt(n, target, value)
	return n
}

// NewIncDec 创建自增自减
func (a *Arena) NewIncDec(span token.Span, op token.Kind, prefix bool, operand Expression) *IncDec {
	n := AllocType[IncDec](a)
	n.span = normSpan(span)
	n.Op = op
	n.Prefix = prefix
	n.Operand = operand
	adopt(n, operand)
	return n
}

// NewCast 创建类型转换
func (a *Arena) NewCast(span token.Span, kind token.Kind, operand Expression) *Cast {
	n := AllocType[Cast](a)
	n.span = normSpan(span)
	n.Kind = kind
	n.Operand = operand
	adopt(n, operand)
	return n
}

// NewTernary 创建条件表达式
func (a *Arena) NewTernary(span token.Span, cond, then, els Expression) *Ternary {
	n := AllocType[Ternary](a)
	n.span = normSpan(span)
	n.Cond = cond
	n.Then = then
	n.Else = els
	adopt(n, cond, then, els)
	return n
}

// NewInstanceOf 创建 instanceof 运算
func (a *Arena) NewInstanceOf(span token.Span, expr Expression, class Node) *InstanceOf {
	n := AllocType[InstanceOf](a)
	n.span = normSpan(span)
	n.Expr = expr
	n.Class = class
	adopt(n, expr, class)
	return n
}

// NewErrorSuppress 创建错误抑制 (@expr)
func (a *Arena) NewErrorSuppress(span token.Span, expr Expression) *ErrorSuppress {
	n := AllocType[ErrorSuppress](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// ============================================================================
// 表达式 - 语言构造
// ============================================================================

// NewIsset 创建 isset(...)
func (a *Arena) NewIsset(span token.Span, vars []Expression) *Isset {
	n := AllocType[Isset](a)
	n.span = normSpan(span)
	n.Vars = vars
	adoptExprs(n, vars)
	return n
}

// NewEmpty 创建 empty(expr)
func (a *Arena) NewEmpty(span token.Span, expr Expression) *Empty {
	n := AllocType[Empty](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewExit 创建 exit/die
func (a *Arena) NewExit(span token.Span, expr Expression) *Exit {
	n := AllocType[Exit](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewInclude 创建 include/require 族
func (a *Arena) NewInclude(span token.Span, kind token.Kind, expr Expression) *Include {
	n := AllocType[Include](a)
	n.span = normSpan(span)
	n.Kind = kind
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewEval 创建 eval(expr)
func (a *Arena) NewEval(span token.Span, expr Expression) *Eval {
	n := AllocType[Eval](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewPrint 创建 print expr
func (a *Arena) NewPrint(span token.Span, expr Expression) *Print {
	n := AllocType[Print](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewClone 创建 clone expr
func (a *Arena) NewClone(span token.Span, expr Expression) *Clone {
	n := AllocType[Clone](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewYield 创建 yield
func (a *Arena) NewYield(span token.Span, key, value Expression) *Yield {
	n := AllocType[Yield](a)
	n.span = normSpan(span)
	n.Key = key
	n.Value = value
	adopt(n, key, value)
	return n
}

// NewYieldFrom 创建 yield from
func (a *Arena) NewYieldFrom(span token.Span, expr Expression) *YieldFrom {
	n := AllocType[YieldFrom](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// ============================================================================
// 表达式 - 数组、插值、闭包
// ============================================================================

// NewArrayItem 创建数组元素
func (a *Arena) NewArrayItem(span token.Span, key, value Expression, byRef bool) *ArrayItem {
	n := AllocType[ArrayItem](a)
	n.span = normSpan(span)
	n.Key = key
	n.Value = value
	n.ByRef = byRef
	adopt(n, key, value)
	return n
}

// NewArrayExpr 创建数组构造
func (a *Arena) NewArrayExpr(span token.Span, items []*ArrayItem, short bool) *ArrayExpr {
	n := AllocType[ArrayExpr](a)
	n.span = normSpan(span)
	n.Items = items
	n.Short = short
	adoptItems(n, items)
	return n
}

// NewListExpr 创建 list(...) 解构
func (a *Arena) NewListExpr(span token.Span, items []*ArrayItem) *ListExpr {
	n := AllocType[ListExpr](a)
	n.span = normSpan(span)
	n.Items = items
	adoptItems(n, items)
	return n
}

// NewEncapsList 创建插值字符串
func (a *Arena) NewEncapsList(span token.Span, parts []Expression) *EncapsList {
	n := AllocType[EncapsList](a)
	n.span = normSpan(span)
	n.Parts = parts
	adoptExprs(n, parts)
	return n
}

// NewShellExec 创建反引号执行
func (a *Arena) NewShellExec(span token.Span, parts []Expression) *ShellExec {
	n := AllocType[ShellExec](a)
	n.span = normSpan(span)
	n.Parts = parts
	adoptExprs(n, parts)
	return n
}

// NewClosureUse 创建闭包捕获项
func (a *Arena) NewClosureUse(span token.Span, v *Variable, byRef bool) *ClosureUse {
	n := AllocType[ClosureUse](a)
	n.span = normSpan(span)
	n.Var = v
	n.ByRef = byRef
	adopt(n, v)
	return n
}

// NewClosure 创建闭包
func (a *Arena) NewClosure(span token.Span, static, byRef bool, params []*Param, uses []*ClosureUse, ret TypeRef, body *Block) *Closure {
	n := AllocType[Closure](a)
	n.span = normSpan(span)
	n.Static = static
	n.ByRef = byRef
	n.Params = params
	n.Uses = uses
	n.ReturnType = ret
	n.Body = body
	adoptParams(n, params)
	for _, u := range uses {
		if u != nil {
			u.setParent(n)
		}
	}
	adopt(n, ret, body)
	return n
}

// ============================================================================
// 语句
// ============================================================================

// NewGlobalCode 创建源文件根节点
func (a *Arena) NewGlobalCode(span token.Span, stmts []Statement) *GlobalCode {
	n := AllocType[GlobalCode](a)
	n.span = normSpan(span)
	n.Stmts = stmts
	adoptStmts(n, stmts)
	return n
}

// NewBlock 创建语句块
func (a *Arena) NewBlock(span token.Span, stmts []Statement) *Block {
	n := AllocType[Block](a)
	n.span = normSpan(span)
	n.Stmts = stmts
	adoptStmts(n, stmts)
	return n
}

// NewNop 创建空语句
func (a *Arena) NewNop(span token.Span) *Nop {
	n := AllocType[Nop](a)
	n.span = normSpan(span)
	return n
}

// NewExprStmt 创建表达式语句
func (a *Arena) NewExprStmt(span token.Span, expr Expression) *ExprStmt {
	n := AllocType[ExprStmt](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewEcho 创建 echo 语句
func (a *Arena) NewEcho(span token.Span, exprs []Expression) *Echo {
	n := AllocType[Echo](a)
	n.span = normSpan(span)
	n.Exprs = exprs
	adoptExprs(n, exprs)
	return n
}

// NewInlineHTML 创建内联 HTML 语句
func (a *Arena) NewInlineHTML(span token.Span, text string) *InlineHTML {
	n := AllocType[InlineHTML](a)
	n.span = normSpan(span)
	n.Text = text
	return n
}

// NewElseIf 创建 elseif 分支
func (a *Arena) NewElseIf(span token.Span, cond Expression, body Statement) *ElseIf {
	n := AllocType[ElseIf](a)
	n.span = normSpan(span)
	n.Cond = cond
	n.Body = body
	adopt(n, cond, body)
	return n
}

// NewIf 创建 if 语句
func (a *Arena) NewIf(span token.Span, cond Expression, then Statement, elseIfs []*ElseIf, els Statement) *If {
	n := AllocType[If](a)
	n.span = normSpan(span)
	n.Cond = cond
	n.Then = then
	n.ElseIfs = elseIfs
	n.Else = els
	adopt(n, cond, then, els)
	for _, ei := range elseIfs {
		if ei != nil {
			ei.setParent(n)
		}
	}
	return n
}

// NewWhile 创建 while 循环
func (a *Arena) NewWhile(span token.Span, cond Expression, body Statement) *While {
	n := AllocType[While](a)
	n.span = normSpan(span)
	n.Cond = cond
	n.Body = body
	adopt(n, cond, body)
	return n
}

// NewDoWhile 创建 do-while 循环
func (a *Arena) NewDoWhile(span token.Span, body Statement, cond Expression) *DoWhile {
	n := AllocType[DoWhile](a)
	n.span = normSpan(span)
	n.Body = body
	n.Cond = cond
	adopt(n, body, cond)
	return n
}

// NewFor 创建 for 循环
func (a *Arena) NewFor(span token.Span, init, cond, step []Expression, body Statement) *For {
	n := AllocType[For](a)
	n.span = normSpan(span)
	n.Init = init
	n.Cond = cond
	n.Step = step
	n.Body = body
	adoptExprs(n, init)
	adoptExprs(n, cond)
	adoptExprs(n, step)
	adopt(n, body)
	return n
}

// NewForeach 创建 foreach 循环
func (a *Arena) NewForeach(span token.Span, expr, keyVar, valueVar Expression, byRef bool, body Statement) *Foreach {
	n := AllocType[Foreach](a)
	n.span = normSpan(span)
	n.Expr = expr
	n.KeyVar = keyVar
	n.ValueVar = valueVar
	n.ByRef = byRef
	n.Body = body
	adopt(n, expr, keyVar, valueVar, body)
	return n
}

// NewCaseStmt 创建 switch 分支
func (a *Arena) NewCaseStmt(span token.Span, cond Expression, stmts []Statement) *CaseStmt {
	n := AllocType[CaseStmt](a)
	n.span = normSpan(span)
	n.Cond = cond
	n.Stmts = stmts
	adopt(n, cond)
	adoptStmts(n, stmts)
	return n
}

// NewSwitch 创建 switch 语句
func (a *Arena) NewSwitch(span token.Span, cond Expression, cases []*CaseStmt) *Switch {
	n := AllocType[Switch](a)
	n.span = normSpan(span)
	n.Cond = cond
	n.Cases = cases
	adopt(n, cond)
	for _, c := range cases {
		if c != nil {
			c.setParent(n)
		}
	}
	return n
}

// NewBreak 创建 break 语句
func (a *Arena) NewBreak(span token.Span, level Expression) *Break {
	n := AllocType[Break](a)
	n.span = normSpan(span)
	n.Level = level
	adopt(n, level)
	return n
}

// NewContinue 创建 continue 语句
func (a *Arena) NewContinue(span token.Span, level Expression) *Continue {
	n := AllocType[Continue](a)
	n.span = normSpan(span)
	n.Level = level
	adopt(n, level)
	return n
}

// NewReturn 创建 return 语句
func (a *Arena) NewReturn(span token.Span, expr Expression) *Return {
	n := AllocType[Return](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewGoto 创建 goto 语句
func (a *Arena) NewGoto(span token.Span, label *Identifier) *Goto {
	n := AllocType[Goto](a)
	n.span = normSpan(span)
	n.Label = label
	adopt(n, label)
	return n
}

// NewLabelStmt 创建标签语句
func (a *Arena) NewLabelStmt(span token.Span, name *Identifier) *LabelStmt {
	n := AllocType[LabelStmt](a)
	n.span = normSpan(span)
	n.Name = name
	adopt(n, name)
	return n
}

// NewThrow 创建 throw 语句
func (a *Arena) NewThrow(span token.Span, expr Expression) *Throw {
	n := AllocType[Throw](a)
	n.span = normSpan(span)
	n.Expr = expr
	adopt(n, expr)
	return n
}

// NewCatch 创建 catch 子句
func (a *Arena) NewCatch(span token.Span, types []*Name, v *Variable, body *Block) *Catch {
	n := AllocType[Catch](a)
	n.span = normSpan(span)
	n.Types = types
	n.Var = v
	n.Body = body
	adoptNames(n, types)
	adopt(n, v, body)
	return n
}

// NewTry 创建 try 语句
func (a *Arena) NewTry(span token.Span, body *Block, catches []*Catch, finally *Block) *Try {
	n := AllocType[Try](a)
	n.span = normSpan(span)
	n.Body = body
	n.Catches = catches
	n.Finally = finally
	adopt(n, body, finally)
	for _, c := range catches {
		if c != nil {
			c.setParent(n)
		}
	}
	return n
}

// NewGlobal 创建 global 声明
func (a *Arena) NewGlobal(span token.Span, vars []Expression) *Global {
	n := AllocType[Global](a)
	n.span = normSpan(span)
	n.Vars = vars
	adoptExprs(n, vars)
	return n
}

// NewStaticVar 创建 static 变量项
func (a *Arena) NewStaticVar(span token.Span, v *Variable, def Expression) *StaticVar {
	n := AllocType[StaticVar](a)
	n.span = normSpan(span)
	n.Var = v
	n.Default = def
	adopt(n, v, def)
	return n
}

// NewStaticVars 创建 static 声明
func (a *Arena) NewStaticVars(span token.Span, vars []*StaticVar) *StaticVars {
	n := AllocType[StaticVars](a)
	n.span = normSpan(span)
	n.Vars = vars
	for _, v := range vars {
		if v != nil {
			v.setParent(n)
		}
	}
	return n
}

// NewUnset 创建 unset 语句
func (a *Arena) NewUnset(span token.Span, vars []Expression) *Unset {
	n := AllocType[Unset](a)
	n.span = normSpan(span)
	n.Vars = vars
	adoptExprs(n, vars)
	return n
}

// NewDeclareDirective 创建 declare 指令
func (a *Arena) NewDeclareDirective(span token.Span, name *Identifier, value Expression) *DeclareDirective {
	n := AllocType[DeclareDirective](a)
	n.span = normSpan(span)
	n.Name = name
	n.Value = value
	adopt(n, name, value)
	return n
}

// NewDeclare 创建 declare 语句
func (a *Arena) NewDeclare(span token.Span, directives []*DeclareDirective, body Statement) *Declare {
	n := AllocType[Declare](a)
	n.span = normSpan(span)
	n.Directives = directives
	n.Body = body
	for _, d := range directives {
		if d != nil {
			d.setParent(n)
		}
	}
	adopt(n, body)
	return n
}

// NewHaltCompiler 创建 __halt_compiler 语句
func (a *Arena) NewHaltCompiler(span token.Span, dataOffset int) *HaltCompiler {
	n := AllocType[HaltCompiler](a)
	n.span = normSpan(span)
	n.DataOffset = dataOffset
	return n
}

// NewNamespaceDecl 创建命名空间声明
func (a *Arena) NewNamespaceDecl(span token.Span, name *Name, braced bool, stmts []Statement) *NamespaceDecl {
	n := AllocType[NamespaceDecl](a)
	n.span = normSpan(span)
	n.Name = name
	n.Braced = braced
	n.Stmts = stmts
	adopt(n, name)
	adoptStmts(n, stmts)
	return n
}

// NewUseClause 创建 use 项
func (a *Arena) NewUseClause(span token.Span, kind UseKind, name *Name, alias *Identifier) *UseClause {
	n := AllocType[UseClause](a)
	n.span = normSpan(span)
	n.Kind = kind
	n.Name = name
	n.Alias = alias
	adopt(n, name, alias)
	return n
}

// NewUseDecl 创建 use 声明
func (a *Arena) NewUseDecl(span token.Span, kind UseKind, prefix *Name, uses []*UseClause) *UseDecl {
	n := AllocType[UseDecl](a)
	n.span = normSpan(span)
	n.Kind = kind
	n.Prefix = prefix
	n.Uses = uses
	adopt(n, prefix)
	for _, u := range uses {
		if u != nil {
			u.setParent(n)
		}
	}
	return n
}

// ============================================================================
// 声明
// ============================================================================

// NewParam 创建形参
func (a *Arena) NewParam(span token.Span, typ TypeRef, byRef, variadic bool, v *Variable, def Expression) *Param {
	n := AllocType[Param](a)
	n.span = normSpan(span)
	n.Type = typ
	n.ByRef = byRef
	n.Variadic = variadic
	n.Var = v
	n.Default = def
	adopt(n, typ, v, def)
	return n
}

// NewFunctionDecl 创建函数声明
func (a *Arena) NewFunctionDecl(span token.Span, byRef bool, name *Identifier, params []*Param, ret TypeRef, body *Block) *FunctionDecl {
	n := AllocType[FunctionDecl](a)
	n.span = normSpan(span)
	n.ByRef = byRef
	n.Name = name
	n.Params = params
	n.ReturnType = ret
	n.Body = body
	adopt(n, name, ret, body)
	adoptParams(n, params)
	return n
}

// NewClassDecl 创建类声明
func (a *Arena) NewClassDecl(span token.Span, mods Modifier, anonymous bool, name *Identifier, extends *Name, implements []*Name, members []Member) *ClassDecl {
	n := AllocType[ClassDecl](a)
	n.span = normSpan(span)
	n.Modifiers = mods
	n.Anonymous = anonymous
	n.Name = name
	n.Extends = extends
	n.Implements = implements
	n.Members = members
	adopt(n, name, extends)
	adoptNames(n, implements)
	adoptMembers(n, members)
	return n
}

// NewInterfaceDecl 创建接口声明
func (a *Arena) NewInterfaceDecl(span token.Span, name *Identifier, extends []*Name, members []Member) *InterfaceDecl {
	n := AllocType[InterfaceDecl](a)
	n.span = normSpan(span)
	n.Name = name
	n.Extends = extends
	n.Members = members
	adopt(n, name)
	adoptNames(n, extends)
	adoptMembers(n, members)
	return n
}

// NewTraitDecl 创建 trait 声明
func (a *Arena) NewTraitDecl(span token.Span, name *Identifier, members []Member) *TraitDecl {
	n := AllocType[TraitDecl](a)
	n.span = normSpan(span)
	n.Name = name
	n.Members = members
	adopt(n, name)
	adoptMembers(n, members)
	return n
}

// NewMethodDecl 创建方法声明
func (a *Arena) NewMethodDecl(span token.Span, mods Modifier, byRef bool, name *Identifier, params []*Param, ret TypeRef, body *Block) *MethodDecl {
	n := AllocType[MethodDecl](a)
	n.span = normSpan(span)
	n.Modifiers = mods
	n.ByRef = byRef
	n.Name = name
	n.Params = params
	n.ReturnType = ret
	n.Body = body
	adopt(n, name, ret, body)
	adoptParams(n, params)
	return n
}

// NewPropertyElem 创建属性项
func (a *Arena) NewPropertyElem(span token.Span, name *Identifier, def Expression) *PropertyElem {
	n := AllocType[PropertyElem](a)
	n.span = normSpan(span)
	n.Name = name
	n.Default = def
	adopt(n, name, def)
	return n
}

// NewPropertyDecl 创建属性声明
func (a *Arena) NewPropertyDecl(span token.Span, mods Modifier, props []*PropertyElem) *PropertyDecl {
	n := AllocType[PropertyDecl](a)
	n.span = normSpan(span)
	n.Modifiers = mods
	n.Elems = props
	for _, p := range props {
		if p != nil {
			p.setParent(n)
		}
	}
	return n
}

// NewConstElem 创建常量项
func (a *Arena) NewConstElem(span token.Span, name *Identifier, value Expression) *ConstElem {
	n := AllocType[ConstElem](a)
	n.span = normSpan(span)
	n.Name = name
	n.Value = value
	adopt(n, name, value)
	return n
}

// NewClassConstDecl 创建类常量声明
func (a *Arena) NewClassConstDecl(span token.Span, mods Modifier, consts []*ConstElem) *ClassConstDecl {
	n := AllocType[ClassConstDecl](a)
	n.span = normSpan(span)
	n.Modifiers = mods
	n.Consts = consts
	for _, c := range consts {
		if c != nil {
			c.setParent(n)
		}
	}
	return n
}

// NewConstDecl 创建全局常量声明
func (a *Arena) NewConstDecl(span token.Span, consts []*ConstElem) *ConstDecl {
	n := AllocType[ConstDecl](a)
	n.span = normSpan(span)
	n.Consts = consts
	for _, c := range consts {
		if c != nil {
			c.setParent(n)
		}
	}
	return n
}

// NewTraitAlias 创建 trait 别名适配
func (a *Arena) NewTraitAlias(span token.Span, trait *Name, method, alias *Identifier, mod Modifier) *TraitAlias {
	n := AllocType[TraitAlias](a)
	n.span = normSpan(span)
	n.Trait = trait
	n.Method = method
	n.Alias = alias
	n.Modifier = mod
	adopt(n, trait, method, alias)
	return n
}

// NewTraitPrecedence 创建 trait 优先级适配
func (a *Arena) NewTraitPrecedence(span token.Span, trait *Name, method *Identifier, insteadOf []*Name) *TraitPrecedence {
	n := AllocType[TraitPrecedence](a)
	n.span = normSpan(span)
	n.Trait = trait
	n.Method = method
	n.InsteadOf = insteadOf
	adopt(n, trait, method)
	adoptNames(n, insteadOf)
	return n
}

// NewTraitUse 创建 trait 使用
func (a *Arena) NewTraitUse(span token.Span, traits []*Name, adaptations []TraitAdaptation) *TraitUse {
	n := AllocType[TraitUse](a)
	n.span = normSpan(span)
	n.Traits = traits
	n.Adaptations = adaptations
	adoptNames(n, traits)
	for _, ad := range adaptations {
		if !isNilNode(ad) {
			ad.setParent(n)
		}
	}
	return n
}
