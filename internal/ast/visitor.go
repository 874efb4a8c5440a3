package ast

// ============================================================================
// Visitor - 按变体分发的访问器
// ============================================================================
//
// 节点集合是封闭的，访问器接口也是封闭的：每个具体变体一个
// Visit 方法。Visit(node, visitor) 按变体选择处理器，不递归；
// 递归由处理器自己决定（可借助 Children/Inspect）。
//
// ============================================================================

// Visitor 封闭的访问器接口
type Visitor interface {
	VisitName(*Name)
	VisitIdentifier(*Identifier)

	VisitNamedTypeRef(*NamedTypeRef)
	VisitArrayTypeRef(*ArrayTypeRef)
	VisitCallableTypeRef(*CallableTypeRef)
	VisitNullableTypeRef(*NullableTypeRef)

	VisitIntLit(*IntLit)
	VisitDoubleLit(*DoubleLit)
	VisitStringLit(*StringLit)
	VisitBinaryStringLit(*BinaryStringLit)
	VisitBoolLit(*BoolLit)
	VisitNullLit(*NullLit)
	VisitMagicConst(*MagicConst)

	VisitVariable(*Variable)
	VisitIndirectVariable(*IndirectVariable)
	VisitArrayAccess(*ArrayAccess)
	VisitPropertyFetch(*PropertyFetch)
	VisitStaticPropertyFetch(*StaticPropertyFetch)
	VisitClassConstFetch(*ClassConstFetch)
	VisitConstFetch(*ConstFetch)

	VisitArg(*Arg)
	VisitFunctionCall(*FunctionCall)
	VisitMethodCall(*MethodCall)
	VisitStaticCall(*StaticCall)
	VisitNew(*New)

	VisitBinary(*Binary)
	VisitUnary(*Unary)
	VisitAssign(*Assign)
	VisitAssignOp(*AssignOp)
	VisitIncDec(*IncDec)
	VisitCast(*Cast)
	VisitTernary(*Ternary)
	VisitInstanceOf(*InstanceOf)
	VisitErrorSuppress(*ErrorSuppress)

	VisitIsset(*Isset)
	VisitEmpty(*Empty)
	VisitExit(*Exit)
	VisitInclude(*Include)
	VisitEval(*Eval)
	VisitPrint(*Print)
	VisitClone(*Clone)
	VisitYield(*Yield)
	VisitYieldFrom(*YieldFrom)

	VisitArrayItem(*ArrayItem)
	VisitArrayExpr(*ArrayExpr)
	VisitListExpr(*ListExpr)
	VisitEncapsList(*EncapsList)
	VisitShellExec(*ShellExec)
	VisitClosureUse(*ClosureUse)
	VisitClosure(*Closure)

	VisitGlobalCode(*GlobalCode)
	VisitBlock(*Block)
	VisitNop(*Nop)
	VisitExprStmt(*ExprStmt)
	VisitEcho(*Echo)
	VisitInlineHTML(*InlineHTML)
	VisitElseIf(*ElseIf)
	VisitIf(*If)
	VisitWhile(*While)
	VisitDoWhile(*DoWhile)
	VisitFor(*For)
	VisitForeach(*Foreach)
	VisitCaseStmt(*CaseStmt)
	VisitSwitch(*Switch)
	VisitBreak(*Break)
	VisitContinue(*Continue)
	VisitReturn(*Return)
	VisitGoto(*Goto)
	VisitLabelStmt(*LabelStmt)
	VisitThrow(*Throw)
	VisitCatch(*Catch)
	VisitTry(*Try)
	VisitGlobal(*Global)
	VisitStaticVar(*StaticVar)
	VisitStaticVars(*StaticVars)
	VisitUnset(*Unset)
	VisitDeclareDirective(*DeclareDirective)
	VisitDeclare(*Declare)
	VisitHaltCompiler(*HaltCompiler)
	VisitNamespaceDecl(*NamespaceDecl)
	VisitUseClause(*UseClause)
	VisitUseDecl(*UseDecl)

	VisitParam(*Param)
	VisitFunctionDecl(*FunctionDecl)
	VisitClassDecl(*ClassDecl)
	VisitInterfaceDecl(*InterfaceDecl)
	VisitTraitDecl(*TraitDecl)
	VisitMethodDecl(*MethodDecl)
	VisitPropertyElem(*PropertyElem)
	VisitPropertyDecl(*PropertyDecl)
	VisitConstElem(*ConstElem)
	VisitClassConstDecl(*ClassConstDecl)
	VisitConstDecl(*ConstDecl)
	VisitTraitAlias(*TraitAlias)
	VisitTraitPrecedence(*TraitPrecedence)
	VisitTraitUse(*TraitUse)
}

// Visit 按变体把节点分发给访问器
func Visit(n Node, v Visitor) {
	switch x := n.(type) {
	case *Name:
		v.VisitName(x)
	case *Identifier:
		v.VisitIdentifier(x)
	case *NamedTypeRef:
		v.VisitNamedTypeRef(x)
	case *ArrayTypeRef:
		v.VisitArrayTypeRef(x)
	case *CallableTypeRef:
		v.VisitCallableTypeRef(x)
	case *NullableTypeRef:
		v.VisitNullableTypeRef(x)
	case *IntLit:
		v.VisitIntLit(x)
	case *DoubleLit:
		v.VisitDoubleLit(x)
	case *StringLit:
		v.VisitStringLit(x)
	case *BinaryStringLit:
		v.VisitBinaryStringLit(x)
	case *BoolLit:
		v.VisitBoolLit(x)
	case *NullLit:
		v.VisitNullLit(x)
	case *MagicConst:
		v.VisitMagicConst(x)
	case *Variable:
		v.VisitVariable(x)
	case *IndirectVariable:
		v.VisitIndirectVariable(x)
	case *ArrayAccess:
		v.VisitArrayAccess(x)
	case *PropertyFetch:
		v.VisitPropertyFetch(x)
	case *StaticPropertyFetch:
		v.VisitStaticPropertyFetch(x)
	case *ClassConstFetch:
		v.VisitClassConstFetch(x)
	case *ConstFetch:
		v.VisitConstFetch(x)
	case *Arg:
		v.VisitArg(x)
	case *FunctionCall:
		v.VisitFunctionCall(x)
	case *MethodCall:
		v.VisitMethodCall(x)
	case *StaticCall:
		v.VisitStaticCall(x)
	case *New:
		v.VisitNew(x)
	case *Binary:
		v.VisitBinary(x)
	case *Unary:
		v.VisitUnary(x)
	case *Assign:
		v.VisitAssign(x)
	case *AssignOp:
		v.VisitAssignOp(x)
	case *IncDec:
		v.VisitIncDec(x)
	case *Cast:
		v.VisitCast(x)
	case *Ternary:
		v.VisitTernary(x)
	case *InstanceOf:
		v.VisitInstanceOf(x)
	case *ErrorSuppress:
		v.VisitErrorSuppress(x)
	case *Isset:
		v.VisitIsset(x)
	case *Empty:
		v.VisitEmpty(x)
	case *Exit:
		v.VisitExit(x)
	case *Include:
		v.VisitInclude(x)
	case *Eval:
		v.VisitEval(x)
	case *Print:
		v.VisitPrint(x)
	case *Clone:
		v.VisitClone(x)
	case *Yield:
		v.VisitYield(x)
	case *YieldFrom:
		v.VisitYieldFrom(x)
	case *ArrayItem:
		v.VisitArrayItem(x)
	case *ArrayExpr:
		v.VisitArrayExpr(x)
	case *ListExpr:
		v.VisitListExpr(x)
	case *EncapsList:
		v.VisitEncapsList(x)
	case *ShellExec:
		v.VisitShellExec(x)
	case *ClosureUse:
		v.VisitClosureUse(x)
	case *Closure:
		v.VisitClosure(x)
	case *GlobalCode:
		v.VisitGlobalCode(x)
	case *Block:
		v.VisitBlock(x)
	case *Nop:
		v.VisitNop(x)
	case *ExprStmt:
		v.VisitExprStmt(x)
	case *Echo:
		v.VisitEcho(x)
	case *InlineHTML:
		v.VisitInlineHTML(x)
	case *ElseIf:
		v.VisitElseIf(x)
	case *If:
		v.VisitIf(x)
	case *While:
		v.VisitWhile(x)
	case *DoWhile:
		v.VisitDoWhile(x)
	case *For:
		v.VisitFor(x)
	case *Foreach:
		v.VisitForeach(x)
	case *CaseStmt:
		v.VisitCaseStmt(x)
	case *Switch:
		v.VisitSwitch(x)
	case *Break:
		v.VisitBreak(x)
	case *Continue:
		v.VisitContinue(x)
	case *Return:
		v.VisitReturn(x)
	case *Goto:
		v.VisitGoto(x)
	case *LabelStmt:
		v.VisitLabelStmt(x)
	case *Throw:
		v.VisitThrow(x)
	case *Catch:
		v.VisitCatch(x)
	case *Try:
		v.VisitTry(x)
	case *Global:
		v.VisitGlobal(x)
	case *StaticVar:
		v.VisitStaticVar(x)
	case *StaticVars:
		v.VisitStaticVars(x)
	case *Unset:
		v.VisitUnset(x)
	case *DeclareDirective:
		v.VisitDeclareDirective(x)
	case *Declare:
		v.VisitDeclare(x)
	case *HaltCompiler:
		v.VisitHaltCompiler(x)
	case *NamespaceDecl:
		v.VisitNamespaceDecl(x)
	case *UseClause:
		v.VisitUseClause(x)
	case *UseDecl:
		v.VisitUseDecl(x)
	case *Param:
		v.VisitParam(x)
	case *FunctionDecl:
		v.VisitFunctionDecl(x)
	case *ClassDecl:
		v.VisitClassDecl(x)
	case *InterfaceDecl:
		v.VisitInterfaceDecl(x)
	case *TraitDecl:
		v.VisitTraitDecl(x)
	case *MethodDecl:
		v.VisitMethodDecl(x)
	case *PropertyElem:
		v.VisitPropertyElem(x)
	case *PropertyDecl:
		v.VisitPropertyDecl(x)
	case *ConstElem:
		v.VisitConstElem(x)
	case *ClassConstDecl:
		v.VisitClassConstDecl(x)
	case *ConstDecl:
		v.VisitConstDecl(x)
	case *TraitAlias:
		v.VisitTraitAlias(x)
	case *TraitPrecedence:
		v.VisitTraitPrecedence(x)
	case *TraitUse:
		v.VisitTraitUse(x)
	}
}

// ============================================================================
// 结构遍历辅助
// ============================================================================

// Children 返回节点的直接子节点（源码顺序）
//
// 供访问器处理器和通用遍历（Inspect）复用。
func Children(n Node) []Node {
	var out []Node
	add := func(kids ...Node) {
		for _, k := range kids {
			if !isNilNode(k) {
				out = append(out, k)
			}
		}
	}

	switch x := n.(type) {
	case *NamedTypeRef:
		add(x.Name)
	case *NullableTypeRef:
		add(x.Inner)
	case *IndirectVariable:
		add(x.Expr)
	case *ArrayAccess:
		add(x.Target, x.Index)
	case *PropertyFetch:
		add(x.Target, x.Name)
	case *StaticPropertyFetch:
		add(x.Class, x.Name)
	case *ClassConstFetch:
		add(x.Class, x.Name)
	case *ConstFetch:
		add(x.Name)
	case *Arg:
		add(x.Value)
	case *FunctionCall:
		add(x.Callee)
		for _, a := range x.Args {
			add(a)
		}
	case *MethodCall:
		add(x.Target, x.Name)
		for _, a := range x.Args {
			add(a)
		}
	case *StaticCall:
		add(x.Class, x.Name)
		for _, a := range x.Args {
			add(a)
		}
	case *New:
		add(x.Class)
		for _, a := range x.Args {
			add(a)
		}
	case *Binary:
		add(x.Left, x.Right)
	case *Unary:
		add(x.Operand)
	case *Assign:
		add(x.Target, x.Value)
	case *AssignOp:
		add(x.Target, x.Value)
	case *IncDec:
		add(x.Operand)
	case *Cast:
		add(x.Operand)
	case *Ternary:
		add(x.Cond, x.Then, x.Else)
	case *InstanceOf:
		add(x.Expr, x.Class)
	case *ErrorSuppress:
		add(x.Expr)
	case *Isset:
		for _, e := range x.Vars {
			add(e)
		}
	case *Empty:
		add(x.Expr)
	case *Exit:
		add(x.Expr)
	case *Include:
		add(x.Expr)
	case *Eval:
		add(x.Expr)
	case *Print:
		add(x.Expr)
	case *Clone:
		add(x.Expr)
	case *Yield:
		add(x.Key, x.Value)
	case *YieldFrom:
		add(x.Expr)
	case *ArrayItem:
		add(x.Key, x.Value)
	case *ArrayExpr:
		for _, it := range x.Items {
			add(it)
		}
	case *ListExpr:
		for _, it := range x.Items {
			if it != nil {
				add(it)
			}
		}
	case *EncapsList:
		for _, p := range x.Parts {
			add(p)
		}
	case *ShellExec:
		for _, p := range x.Parts {
			add(p)
		}
	case *ClosureUse:
		add(x.Var)
	case *Closure:
		for _, p := range x.Params {
			add(p)
		}
		for _, u := range x.Uses {
			add(u)
		}
		add(x.ReturnType, x.Body)
	case *GlobalCode:
		for _, s := range x.Stmts {
			add(s)
		}
	case *Block:
		for _, s := range x.Stmts {
			add(s)
		}
	case *ExprStmt:
		add(x.Expr)
	case *Echo:
		for _, e := range x.Exprs {
			add(e)
		}
	case *ElseIf:
		add(x.Cond, x.Body)
	case *If:
		add(x.Cond, x.Then)
		for _, ei := range x.ElseIfs {
			add(ei)
		}
		add(x.Else)
	case *While:
		add(x.Cond, x.Body)
	case *DoWhile:
		add(x.Body, x.Cond)
	case *For:
		for _, e := range x.Init {
			add(e)
		}
		for _, e := range x.Cond {
			add(e)
		}
		for _, e := range x.Step {
			add(e)
		}
		add(x.Body)
	case *Foreach:
		add(x.Expr, x.KeyVar, x.ValueVar, x.Body)
	case *CaseStmt:
		add(x.Cond)
		for _, s := range x.Stmts {
			add(s)
		}
	case *Switch:
		add(x.Cond)
		for _, c := range x.Cases {
			add(c)
		}
	case *Break:
		add(x.Level)
	case *Continue:
		add(x.Level)
	case *Return:
		add(x.Expr)
	case *Goto:
		add(x.Label)
	case *LabelStmt:
		add(x.Name)
	case *Throw:
		add(x.Expr)
	case *Catch:
		for _, t := range x.Types {
			add(t)
		}
		add(x.Var, x.Body)
	case *Try:
		add(x.Body)
		for _, c := range x.Catches {
			add(c)
		}
		add(x.Finally)
	case *Global:
		for _, e := range x.Vars {
			add(e)
		}
	case *StaticVar:
		add(x.Var, x.Default)
	case *StaticVars:
		for _, v := range x.Vars {
			add(v)
		}
	case *Unset:
		for _, e := range x.Vars {
			add(e)
		}
	case *DeclareDirective:
		add(x.Name, x.Value)
	case *Declare:
		for _, d := range x.Directives {
			add(d)
		}
		add(x.Body)
	case *NamespaceDecl:
		add(x.Name)
		for _, s := range x.Stmts {
			add(s)
		}
	case *UseClause:
		add(x.Name, x.Alias)
	case *UseDecl:
		add(x.Prefix)
		for _, u := range x.Uses {
			add(u)
		}
	case *Param:
		add(x.Type, x.Var, x.Default)
	case *FunctionDecl:
		add(x.Name)
		for _, p := range x.Params {
			add(p)
		}
		add(x.ReturnType, x.Body)
	case *ClassDecl:
		add(x.Name, x.Extends)
		for _, i := range x.Implements {
			add(i)
		}
		for _, m := range x.Members {
			add(m)
		}
	case *InterfaceDecl:
		add(x.Name)
		for _, i := range x.Extends {
			add(i)
		}
		for _, m := range x.Members {
			add(m)
		}
	case *TraitDecl:
		add(x.Name)
		for _, m := range x.Members {
			add(m)
		}
	case *MethodDecl:
		add(x.Name)
		for _, p := range x.Params {
			add(p)
		}
		add(x.ReturnType, x.Body)
	case *PropertyElem:
		add(x.Name, x.Default)
	case *PropertyDecl:
		for _, p := range x.Elems {
			add(p)
		}
	case *ConstElem:
		add(x.Name, x.Value)
	case *ClassConstDecl:
		for _, c := range x.Consts {
			add(c)
		}
	case *ConstDecl:
		for _, c := range x.Consts {
			add(c)
		}
	case *TraitAlias:
		add(x.Trait, x.Method, x.Alias)
	case *TraitPrecedence:
		add(x.Trait, x.Method)
		for _, i := range x.InsteadOf {
			add(i)
		}
	case *TraitUse:
		for _, t := range x.Traits {
			add(t)
		}
		for _, ad := range x.Adaptations {
			add(ad)
		}
	}
	return out
}

// Inspect 先序遍历节点树
//
// f 返回 false 时不再深入该子树。
func Inspect(n Node, f func(Node) bool) {
	if isNilNode(n) {
		return
	}
	if !f(n) {
		return
	}
	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// ============================================================================
// NopVisitor - 空实现
// ============================================================================
//
// 宿主嵌入 NopVisitor 后只需覆写关心的变体。
type NopVisitor struct{}

func (NopVisitor) VisitName(*Name)                               {}
func (NopVisitor) VisitIdentifier(*Identifier)                   {}
func (NopVisitor) VisitNamedTypeRef(*NamedTypeRef)               {}
func (NopVisitor) VisitArrayTypeRef(*ArrayTypeRef)               {}
func (NopVisitor) VisitCallableTypeRef(*CallableTypeRef)         {}
func (NopVisitor) VisitNullableTypeRef(*NullableTypeRef)         {}
func (NopVisitor) VisitIntLit(*IntLit)                           {}
func (NopVisitor) VisitDoubleLit(*DoubleLit)                     {}
func (NopVisitor) VisitStringLit(*StringLit)                     {}
func (NopVisitor) VisitBinaryStringLit(*BinaryStringLit)         {}
func (NopVisitor) VisitBoolLit(*BoolLit)                         {}
func (NopVisitor) VisitNullLit(*NullLit)                         {}
func (NopVisitor) VisitMagicConst(*MagicConst)                   {}
func (NopVisitor) VisitVariable(*Variable)                       {}
func (NopVisitor) VisitIndirectVariable(*IndirectVariable)       {}
func (NopVisitor) VisitArrayAccess(*ArrayAccess)                 {}
func (NopVisitor) VisitPropertyFetch(*PropertyFetch)             {}
func (NopVisitor) VisitStaticPropertyFetch(*StaticPropertyFetch) {}
func (NopVisitor) VisitClassConstFetch(*ClassConstFetch)         {}
func (NopVisitor) VisitConstFetch(*ConstFetch)                   {}
func (NopVisitor) VisitArg(*Arg)                                 {}
func (NopVisitor) VisitFunctionCall(*FunctionCall)               {}
func (NopVisitor) VisitMethodCall(*MethodCall)                   {}
func (NopVisitor) VisitStaticCall(*StaticCall)                   {}
func (NopVisitor) VisitNew(*New)                                 {}
func (NopVisitor) VisitBinary(*Binary)                           {}
func (NopVisitor) VisitUnary(*Unary)                             {}
func (NopVisitor) VisitAssign(*Assign)                           {}
func (NopVisitor) VisitAssignOp(*AssignOp)                       {}
func (NopVisitor) VisitIncDec(*IncDec)                           {}
func (NopVisitor) VisitCast(*Cast)                               {}
func (NopVisitor) VisitTernary(*Ternary)                         {}
func (NopVisitor) VisitInstanceOf(*InstanceOf)                   {}
func (NopVisitor) VisitErrorSuppress(*ErrorSuppress)             {}
func (NopVisitor) VisitIsset(*Isset)                             {}
func (NopVisitor) VisitEmpty(*Empty)                             {}
func (NopVisitor) VisitExit(*Exit)                               {}
func (NopVisitor) VisitInclude(*Include)                         {}
func (NopVisitor) VisitEval(*Eval)                               {}
func (NopVisitor) VisitPrint(*Print)                             {}
func (NopVisitor) VisitClone(*Clone)                             {}
func (NopVisitor) VisitYield(*Yield)                             {}
func (NopVisitor) VisitYieldFrom(*YieldFrom)                     {}
func (NopVisitor) VisitArrayItem(*ArrayItem)                     {}
func (NopVisitor) VisitArrayExpr(*ArrayExpr)                     {}
func (NopVisitor) VisitListExpr(*ListExpr)                       {}
func (NopVisitor) VisitEncapsList(*EncapsList)                   {}
func (NopVisitor) VisitShellExec(*ShellExec)                     {}
func (NopVisitor) VisitClosureUse(*ClosureUse)                   {}
func (NopVisitor) VisitClosure(*Closure)                         {}
func (NopVisitor) VisitGlobalCode(*GlobalCode)                   {}
func (NopVisitor) VisitBlock(*Block)                             {}
func (NopVisitor) VisitNop(*Nop)                                 {}
func (NopVisitor) VisitExprStmt(*ExprStmt)                       {}
func (NopVisitor) VisitEcho(*Echo)                               {}
func (NopVisitor) VisitInlineHTML(*InlineHTML)                   {}
func (NopVisitor) VisitElseIf(*ElseIf)                           {}
func (NopVisitor) VisitIf(*If)                                   {}
func (NopVisitor) VisitWhile(*While)                             {}
func (NopVisitor) VisitDoWhile(*DoWhile)                         {}
func (NopVisitor) VisitFor(*For)                                 {}
func (NopVisitor) VisitForeach(*Foreach)                         {}
func (NopVisitor) VisitCaseStmt(*CaseStmt)                       {}
func (NopVisitor) VisitSwitch(*Switch)                           {}
func (NopVisitor) VisitBreak(*Break)                             {}
func (NopVisitor) VisitContinue(*Continue)                       {}
func (NopVisitor) VisitReturn(*Return)                           {}
func (NopVisitor) VisitGoto(*Goto)                               {}
func (NopVisitor) VisitLabelStmt(*LabelStmt)                     {}
func (NopVisitor) VisitThrow(*Throw)                             {}
func (NopVisitor) VisitCatch(*Catch)                             {}
func (NopVisitor) VisitTry(*Try)                                 {}
func (NopVisitor) VisitGlobal(*Global)                           {}
func (NopVisitor) VisitStaticVar(*StaticVar)                     {}
func (NopVisitor) VisitStaticVars(*StaticVars)                   {}
func (NopVisitor) VisitUnset(*Unset)                             {}
func (NopVisitor) VisitDeclareDirective(*DeclareDirective)       {}
func (NopVisitor) VisitDeclare(*Declare)                         {}
func (NopVisitor) VisitHaltCompiler(*HaltCompiler)               {}
func (NopVisitor) VisitNamespaceDecl(*NamespaceDecl)             {}
func (NopVisitor) VisitUseClause(*UseClause)                     {}
func (NopVisitor) VisitUseDecl(*UseDecl)                         {}
func (NopVisitor) VisitParam(*Param)                             {}
func (NopVisitor) VisitFunctionDecl(*FunctionDecl)               {}
func (NopVisitor) VisitClassDecl(*ClassDecl)                     {}
func (NopVisitor) VisitInterfaceDecl(*InterfaceDecl)             {}
func (NopVisitor) VisitTraitDecl(*TraitDecl)                     {}
func (NopVisitor) VisitMethodDecl(*MethodDecl)                   {}
func (NopVisitor) VisitPropertyElem(*PropertyElem)               {}
func (NopVisitor) VisitPropertyDecl(*PropertyDecl)               {}
func (NopVisitor) VisitConstElem(*ConstElem)                     {}
func (NopVisitor) VisitClassConstDecl(*ClassConstDecl)           {}
func (NopVisitor) VisitConstDecl(*ConstDecl)                     {}
func (NopVisitor) VisitTraitAlias(*TraitAlias)                   {}
func (NopVisitor) VisitTraitPrecedence(*TraitPrecedence)         {}
func (NopVisitor) VisitTraitUse(*TraitUse)                       {}
