// Package parser 实现 PHP 7 的语法分析器
package parser

import (
	"fmt"

	"github.com/tluyben/phpfront/internal/ast"
	"github.com/tluyben/phpfront/internal/errors"
	"github.com/tluyben/phpfront/internal/i18n"
	"github.com/tluyben/phpfront/internal/scanner"
	"github.com/tluyben/phpfront/internal/token"
)

// ============================================================================
// Parser - 语法分析器
// ============================================================================
//
// 手写的递归下降 + 运算符优先级爬升，不依赖生成的分析表：
//   - 运算符优先级阶梯逐级对应 prec* 常量
//   - 悬挂 else 在递归下降里天然绑定到最内层 if
//   - ?> 充当隐式分号
//   - 出错进入 panic 模式，丢弃 token 直到同步点（';'、'}'、
//     语句起始关键字），总是返回（完整或部分的）AST
//
// 文档注释在声明归约时从 token 流移到声明节点的属性包上。
//
// ============================================================================

// DocCommentProperty 声明节点属性包里文档注释的键
const DocCommentProperty = "doc_comment"

// maxExprDepth 最大表达式嵌套深度，防止栈溢出
const maxExprDepth = 200

// maxParseErrors 最大错误数量限制，防止错误爆炸
const maxParseErrors = 50

// Features 语法器特性配置
type Features struct {
	ShortOpenTags bool                 // 识别 <? 短标签
	InitialState  scanner.LexicalState // 起始词法状态（默认 INITIAL）
	OffsetBias    int                  // 片段重解析时的偏移修正
}

// Parser 语法分析器结构体
type Parser struct {
	src      string
	filename string
	arena    *ast.Arena
	reporter errors.Reporter

	tokens  []token.Token
	docs    map[int]string     // token 下标 → 前置文档注释文本
	docSpan map[int]token.Span // token 下标 → 文档注释范围
	current int

	panicMode bool // 错误恢复模式标志，避免级联报错
	exprDepth int  // 表达式解析深度
	errCount  int
	lastErrAt int // 上一次报错的偏移，避免同一位置重复报错

	topLevel bool // __halt_compiler 只允许出现在最外层
}

// ============================================================================
// 构造与入口
// ============================================================================

// New 创建一个新的语法分析器
//
// 扫描在构造时一次完成：空白和普通注释被过滤掉，
// 文档注释记到紧随 token 的位置上等待声明取用。
func New(source, filename string, features Features, rep errors.Reporter) *Parser {
	p := &Parser{
		src:      source,
		filename: filename,
		arena:    ast.NewArena(0),
		reporter: rep,
		docs:     make(map[int]string),
		docSpan:  make(map[int]token.Span),
		topLevel: true,
	}

	scn := scanner.NewString(source, scanner.Config{
		ShortOpenTags: features.ShortOpenTags,
		InitialState:  features.InitialState,
		OffsetBias:    features.OffsetBias,
		Reporter:      rep,
	})

	for {
		t := scn.Next()
		switch t.Kind {
		case token.T_WHITESPACE, token.T_COMMENT, token.T_OPEN_TAG:
			continue
		case token.T_DOC_COMMENT:
			p.docs[len(p.tokens)] = p.text(t)
			p.docSpan[len(p.tokens)] = t.Span
			continue
		}
		p.tokens = append(p.tokens, t)
		if t.Kind == token.END {
			break
		}
	}

	return p
}

// Parse 解析整个源文件
//
// 总是返回一棵树：出错时是部分的 AST，并且至少上报了一条
// 诊断。
func (p *Parser) Parse() *ast.GlobalCode {
	var stmts []ast.Statement

	for !p.isAtEnd() {
		p.panicMode = false
		stmt := p.parseTopStatement()
		if p.panicMode {
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	span := token.NewSpan(0, len(p.src))
	return p.arena.NewGlobalCode(span, stmts)
}

// Parse 一步完成的入口
//
// 总是返回 AST；出错时 AST 仍然是（可能部分的）树。
// rep 为 nil 时诊断收集在内部，有错误则返回第一条错误；
// 传入 rep 时诊断全部交给 rep，返回的 error 恒为 nil。
func Parse(source, filename string, features Features, rep errors.Reporter) (*ast.GlobalCode, error) {
	var collector *errors.Collector
	if rep == nil {
		collector = errors.NewCollector()
		rep = collector
	}
	p := New(source, filename, features, rep)
	root := p.Parse()
	if collector != nil && collector.HasErrors() {
		return root, collector.Errors()[0]
	}
	return root, nil
}

// Arena 暴露节点分配器（宿主可在多次解析间复用）
func (p *Parser) Arena() *ast.Arena {
	return p.arena
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.END
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) lookAhead(n int) token.Token {
	if p.current+n >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // END
	}
	return p.tokens[p.current+n]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) checkAny(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			return true
		}
	}
	return false
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(k token.Kind, what string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorExpected(what)
	return token.Token{Kind: token.T_ERROR, Span: p.peek().Span}
}

// text 返回 token 的原始文本
func (p *Parser) text(t token.Token) string {
	sp := t.Span
	if !sp.IsValid() || sp.End() > len(p.src) {
		return ""
	}
	return p.src[sp.Start:sp.End()]
}

// spanFrom 组合从 start 下标到上一个已消费 token 的范围
func (p *Parser) spanFrom(start int) token.Span {
	if start >= len(p.tokens) {
		start = len(p.tokens) - 1
	}
	first := p.tokens[start].Span
	if p.current == start {
		return first
	}
	return token.Combine(first, p.previous().Span)
}

// takeDoc 取走当前位置的前置文档注释并挂到节点属性包
func (p *Parser) takeDoc(tokIdx int, n ast.Node) {
	if doc, ok := p.docs[tokIdx]; ok {
		n.Props().Set(DocCommentProperty, doc)
		delete(p.docs, tokIdx)
		delete(p.docSpan, tokIdx)
	}
}

// ============================================================================
// 错误处理
// ============================================================================

func (p *Parser) errorAt(span token.Span, code, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true

	// 避免在同一位置重复报错
	if p.errCount > 0 && span.Start == p.lastErrAt {
		return
	}
	p.lastErrAt = span.Start

	if p.errCount >= maxParseErrors {
		if p.errCount == maxParseErrors {
			p.errCount++
			if p.reporter != nil {
				p.reporter.Error(span, errors.SyntaxError, i18n.T(i18n.ErrTooManyErrors))
			}
		}
		return
	}
	p.errCount++

	if p.reporter != nil {
		p.reporter.Error(span, code, message)
	}
}

// errorUnexpected 对当前 token 上报语法错误（带原文）
func (p *Parser) errorUnexpected() {
	t := p.peek()
	text := p.text(t)
	if t.Kind == token.END {
		text = "end of file"
	}
	p.errorAt(t.Span, errors.SyntaxError, i18n.T(i18n.ErrSyntaxError, text))
}

// errorExpected 期望某个语法成分
func (p *Parser) errorExpected(what string) {
	p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedToken, what))
}

// synchronize panic 模式恢复：丢弃 token 直到同步点
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		// 分号和右大括号之后是安全点
		switch p.previous().Kind {
		case ';', '}', token.T_CLOSE_TAG:
			return
		}

		// 新语句/声明的开始是安全的同步点
		switch p.peek().Kind {
		case token.T_IF, token.T_WHILE, token.T_DO, token.T_FOR, token.T_FOREACH,
			token.T_SWITCH, token.T_RETURN, token.T_BREAK, token.T_CONTINUE,
			token.T_TRY, token.T_THROW, token.T_ECHO, token.T_GOTO,
			token.T_FUNCTION, token.T_ABSTRACT, token.T_FINAL, token.T_CLASS,
			token.T_INTERFACE, token.T_TRAIT, token.T_CONST,
			token.T_NAMESPACE, token.T_USE, token.T_GLOBAL, token.T_UNSET,
			token.T_DECLARE:
			return
		}

		p.advance()
	}
}

// consumeSemicolon 消费语句终结符：';' 或关标签（隐式分号）
func (p *Parser) consumeSemicolon() {
	if p.match(';') {
		return
	}
	if p.check(token.T_CLOSE_TAG) {
		p.advance()
		return
	}
	p.errorExpected("';'")
}

// ============================================================================
// 顶层与语句
// ============================================================================

// parseTopStatement 顶层语句（含命名空间聚合）
func (p *Parser) parseTopStatement() ast.Statement {
	switch p.peek().Kind {
	case token.T_NAMESPACE:
		// namespace\Foo 相对名字也以 T_NAMESPACE 开头
		if p.lookAhead(1).Kind != token.T_NS_SEPARATOR {
			return p.parseNamespace()
		}
	case token.T_HALT_COMPILER:
		return p.parseHaltCompiler()
	}
	return p.parseStatement()
}

// parseStatement 解析一条语句
func (p *Parser) parseStatement() ast.Statement {
	switch p.peek().Kind {
	case token.T_IF:
		return p.parseIf()
	case token.T_WHILE:
		return p.parseWhile()
	case token.T_DO:
		return p.parseDoWhile()
	case token.T_FOR:
		return p.parseFor()
	case token.T_FOREACH:
		return p.parseForeach()
	case token.T_SWITCH:
		return p.parseSwitch()
	case token.T_BREAK:
		return p.parseBreakContinue(true)
	case token.T_CONTINUE:
		return p.parseBreakContinue(false)
	case token.T_RETURN:
		return p.parseReturn()
	case token.T_TRY:
		return p.parseTry()
	case token.T_THROW:
		return p.parseThrow()
	case token.T_GOTO:
		return p.parseGoto()
	case token.T_ECHO, token.T_OPEN_TAG_WITH_ECHO:
		return p.parseEcho()
	case token.T_INLINE_HTML:
		t := p.advance()
		return p.arena.NewInlineHTML(t.Span, t.Value.Text())
	case token.T_GLOBAL:
		return p.parseGlobal()
	case token.T_UNSET:
		return p.parseUnset()
	case token.T_DECLARE:
		return p.parseDeclare()
	case token.T_USE:
		return p.parseUse()
	case token.T_CONST:
		return p.parseConstDecl()
	case token.T_HALT_COMPILER:
		// 最外层以外出现：编译错误
		p.errorAt(p.peek().Span, errors.SyntaxError, i18n.T(i18n.ErrHaltCompilerTopLevel))
		return nil
	case token.T_NAMESPACE:
		if p.lookAhead(1).Kind != token.T_NS_SEPARATOR {
			p.errorUnexpected()
			return nil
		}
	case token.T_STATIC:
		// static $x 是静态变量声明；其余按表达式处理
		if p.lookAhead(1).Kind == token.T_VARIABLE {
			return p.parseStaticVars()
		}
	case token.T_FUNCTION:
		// 带名字是函数声明，否则是闭包表达式语句
		nk := p.lookAhead(1).Kind
		if nk == token.T_STRING || (nk == '&' && p.lookAhead(2).Kind == token.T_STRING) {
			return p.parseFunctionDecl()
		}
	case token.T_ABSTRACT, token.T_FINAL:
		start := p.current
		return p.parseClassDecl(start, p.parseClassModifiers())
	case token.T_CLASS:
		return p.parseClassDecl(p.current, 0)
	case token.T_INTERFACE:
		return p.parseInterfaceDecl()
	case token.T_TRAIT:
		return p.parseTraitDecl()
	case '{':
		return p.parseBlock()
	case ';':
		t := p.advance()
		return p.arena.NewNop(t.Span)
	case token.T_CLOSE_TAG:
		// 关标签只是语句终结符，自身不产生语句
		p.advance()
		return nil
	case token.T_STRING:
		// 标签: foo:
		if p.lookAhead(1).Kind == ':' {
			return p.parseLabel()
		}
	case token.END:
		return nil
	}

	return p.parseExprStatement()
}

// parseExprStatement 表达式语句
func (p *Parser) parseExprStatement() ast.Statement {
	start := p.current
	expr := p.parseExpression()
	if expr == nil {
		if !p.panicMode {
			p.errorUnexpected()
		}
		return nil
	}
	p.consumeSemicolon()
	return p.arena.NewExprStmt(p.spanFrom(start), expr)
}

// parseBlock 解析 { ... } 语句块
func (p *Parser) parseBlock() *ast.Block {
	start := p.current
	p.consume('{', "'{'")

	var stmts []ast.Statement
	for !p.check('}') && !p.isAtEnd() {
		p.panicMode = false
		stmt := p.parseStatement()
		if p.panicMode {
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume('}', "'}'")

	return p.arena.NewBlock(p.spanFrom(start), stmts)
}

// ============================================================================
// 控制流语句
// ============================================================================

// parseIf if 语句（普通和替代语法两种形式）
//
// else 总是绑定到最近的未配对 if。
func (p *Parser) parseIf() ast.Statement {
	start := p.current
	p.advance() // if
	p.consume('(', "'('")
	cond := p.parseExpression()
	p.consume(')', "')'")

	// 替代语法: if (c): ... endif;
	if p.match(':') {
		then := p.parseAltBody(token.T_ELSEIF, token.T_ELSE, token.T_ENDIF)

		var elseIfs []*ast.ElseIf
		for p.check(token.T_ELSEIF) {
			eiStart := p.current
			p.advance()
			p.consume('(', "'('")
			eiCond := p.parseExpression()
			p.consume(')', "')'")
			p.consume(':', "':'")
			eiBody := p.parseAltBody(token.T_ELSEIF, token.T_ELSE, token.T_ENDIF)
			elseIfs = append(elseIfs, p.arena.NewElseIf(p.spanFrom(eiStart), eiCond, eiBody))
		}

		var els ast.Statement
		if p.match(token.T_ELSE) {
			p.consume(':', "':'")
			els = p.parseAltBody(token.T_ENDIF)
		}

		if !p.match(token.T_ENDIF) {
			p.errorAt(p.peek().Span, errors.UnexpectedToken,
				i18n.T(i18n.ErrExpectedAltSyntaxEnd, "endif"))
		} else {
			p.consumeSemicolon()
		}
		return p.arena.NewIf(p.spanFrom(start), cond, then, elseIfs, els)
	}

	then := p.parseStatement()

	var elseIfs []*ast.ElseIf
	var els ast.Statement
	for {
		if p.check(token.T_ELSEIF) {
			eiStart := p.current
			p.advance()
			p.consume('(', "'('")
			eiCond := p.parseExpression()
			p.consume(')', "')'")
			eiBody := p.parseStatement()
			elseIfs = append(elseIfs, p.arena.NewElseIf(p.spanFrom(eiStart), eiCond, eiBody))
			continue
		}
		if p.check(token.T_ELSE) {
			p.advance()
			els = p.parseStatement()
		}
		break
	}

	return p.arena.NewIf(p.spanFrom(start), cond, then, elseIfs, els)
}

// parseAltBody 替代语法的语句序列，直到给定的结束关键字
func (p *Parser) parseAltBody(ends ...token.Kind) ast.Statement {
	start := p.current
	var stmts []ast.Statement
	for !p.checkAny(ends...) && !p.isAtEnd() {
		p.panicMode = false
		stmt := p.parseStatement()
		if p.panicMode {
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return p.arena.NewBlock(p.spanFrom(start), stmts)
}

// parseWhile while 循环
func (p *Parser) parseWhile() ast.Statement {
	start := p.current
	p.advance()
	p.consume('(', "'('")
	cond := p.parseExpression()
	p.consume(')', "')'")

	var body ast.Statement
	if p.match(':') {
		body = p.parseAltBody(token.T_ENDWHILE)
		if !p.match(token.T_ENDWHILE) {
			p.errorAt(p.peek().Span, errors.UnexpectedToken,
				i18n.T(i18n.ErrExpectedAltSyntaxEnd, "endwhile"))
		} else {
			p.consumeSemicolon()
		}
	} else {
		body = p.parseStatement()
	}

	return p.arena.NewWhile(p.spanFrom(start), cond, body)
}

// parseDoWhile do-while 循环
func (p *Parser) parseDoWhile() ast.Statement {
	start := p.current
	p.advance()
	body := p.parseStatement()
	p.consume(token.T_WHILE, "'while'")
	p.consume('(', "'('")
	cond := p.parseExpression()
	p.consume(')', "')'")
	p.consumeSemicolon()
	return p.arena.NewDoWhile(p.spanFrom(start), body, cond)
}

// parseFor for 循环
func (p *Parser) parseFor() ast.Statement {
	start := p.current
	p.advance()
	p.consume('(', "'('")

	parseList := func(end token.Kind) []ast.Expression {
		var exprs []ast.Expression
		if p.check(end) {
			return nil
		}
		exprs = append(exprs, p.parseExpression())
		for p.match(',') {
			exprs = append(exprs, p.parseExpression())
		}
		return exprs
	}

	init := parseList(';')
	p.consume(';', "';'")
	cond := parseList(';')
	p.consume(';', "';'")
	step := parseList(')')
	p.consume(')', "')'")

	var body ast.Statement
	if p.match(':') {
		body = p.parseAltBody(token.T_ENDFOR)
		if !p.match(token.T_ENDFOR) {
			p.errorAt(p.peek().Span, errors.UnexpectedToken,
				i18n.T(i18n.ErrExpectedAltSyntaxEnd, "endfor"))
		} else {
			p.consumeSemicolon()
		}
	} else {
		body = p.parseStatement()
	}

	return p.arena.NewFor(p.spanFrom(start), init, cond, step, body)
}

// parseForeach foreach 循环
func (p *Parser) parseForeach() ast.Statement {
	start := p.current
	p.advance()
	p.consume('(', "'('")
	expr := p.parseExpression()
	p.consume(token.T_AS, "'as'")

	byRef := false
	var keyVar, valueVar ast.Expression
	valueVar = p.parseForeachTarget(&byRef)

	if p.match(token.T_DOUBLE_ARROW) {
		keyVar = valueVar
		valueVar = p.parseForeachTarget(&byRef)
	}
	p.consume(')', "')'")

	var body ast.Statement
	if p.match(':') {
		body = p.parseAltBody(token.T_ENDFOREACH)
		if !p.match(token.T_ENDFOREACH) {
			p.errorAt(p.peek().Span, errors.UnexpectedToken,
				i18n.T(i18n.ErrExpectedAltSyntaxEnd, "endforeach"))
		} else {
			p.consumeSemicolon()
		}
	} else {
		body = p.parseStatement()
	}

	return p.arena.NewForeach(p.spanFrom(start), expr, keyVar, valueVar, byRef, body)
}

// parseForeachTarget foreach 的 key/value 目标（可带 & 或 list）
func (p *Parser) parseForeachTarget(byRef *bool) ast.Expression {
	if p.match('&') {
		*byRef = true
	}
	return p.parsePrecedence(precTernary)
}

// parseSwitch switch 语句
func (p *Parser) parseSwitch() ast.Statement {
	start := p.current
	p.advance()
	p.consume('(', "'('")
	cond := p.parseExpression()
	p.consume(')', "')'")

	alt := false
	if p.match(':') {
		alt = true
	} else {
		p.consume('{', "'{'")
	}

	var cases []*ast.CaseStmt
	sawDefault := false
	for !p.isAtEnd() {
		if alt && p.check(token.T_ENDSWITCH) {
			break
		}
		if !alt && p.check('}') {
			break
		}

		cStart := p.current
		var cCond ast.Expression
		switch {
		case p.match(token.T_CASE):
			cCond = p.parseExpression()
		case p.match(token.T_DEFAULT):
			if sawDefault {
				p.errorAt(p.previous().Span, errors.SyntaxError, i18n.T(i18n.ErrDuplicateDefaultCase))
				p.panicMode = false
			}
			sawDefault = true
		default:
			p.errorExpected("'case' or 'default'")
			p.synchronize()
			continue
		}
		// case 标签允许用 ';' 代替 ':'
		if !p.match(':') && !p.match(';') {
			p.errorExpected("':'")
		}

		var stmts []ast.Statement
		for !p.checkAny(token.T_CASE, token.T_DEFAULT, '}', token.T_ENDSWITCH) && !p.isAtEnd() {
			p.panicMode = false
			stmt := p.parseStatement()
			if p.panicMode {
				p.synchronize()
				continue
			}
			if stmt != nil {
				stmts = append(stmts, stmt)
			}
		}
		cases = append(cases, p.arena.NewCaseStmt(p.spanFrom(cStart), cCond, stmts))
	}

	if alt {
		if !p.match(token.T_ENDSWITCH) {
			p.errorAt(p.peek().Span, errors.UnexpectedToken,
				i18n.T(i18n.ErrExpectedAltSyntaxEnd, "endswitch"))
		} else {
			p.consumeSemicolon()
		}
	} else {
		p.consume('}', "'}'")
	}

	return p.arena.NewSwitch(p.spanFrom(start), cond, cases)
}

// parseBreakContinue break/continue 语句
func (p *Parser) parseBreakContinue(isBreak bool) ast.Statement {
	start := p.current
	p.advance()

	var level ast.Expression
	if !p.check(';') && !p.check(token.T_CLOSE_TAG) && !p.isAtEnd() {
		level = p.parseExpression()
	}
	p.consumeSemicolon()

	if isBreak {
		return p.arena.NewBreak(p.spanFrom(start), level)
	}
	return p.arena.NewContinue(p.spanFrom(start), level)
}

// parseReturn return 语句
func (p *Parser) parseReturn() ast.Statement {
	start := p.current
	p.advance()

	var expr ast.Expression
	if !p.check(';') && !p.check(token.T_CLOSE_TAG) && !p.isAtEnd() {
		expr = p.parseExpression()
	}
	p.consumeSemicolon()
	return p.arena.NewReturn(p.spanFrom(start), expr)
}

// parseTry try/catch/finally 语句
func (p *Parser) parseTry() ast.Statement {
	start := p.current
	p.advance()
	body := p.parseBlock()

	var catches []*ast.Catch
	for p.check(token.T_CATCH) {
		cStart := p.current
		p.advance()
		p.consume('(', "'('")

		types := []*ast.Name{p.parseName()}
		for p.match('|') {
			types = append(types, p.parseName())
		}

		varTok := p.consume(token.T_VARIABLE, "variable")
		v := p.arena.NewVariable(varTok.Span, varTok.Value.Text())
		p.consume(')', "')'")
		cBody := p.parseBlock()
		catches = append(catches, p.arena.NewCatch(p.spanFrom(cStart), types, v, cBody))
	}

	var finally *ast.Block
	if p.match(token.T_FINALLY) {
		finally = p.parseBlock()
	}

	if len(catches) == 0 && finally == nil {
		p.errorExpected("'catch' or 'finally'")
	}

	return p.arena.NewTry(p.spanFrom(start), body, catches, finally)
}

// parseThrow throw 语句
func (p *Parser) parseThrow() ast.Statement {
	start := p.current
	p.advance()
	expr := p.parseExpression()
	p.consumeSemicolon()
	return p.arena.NewThrow(p.spanFrom(start), expr)
}

// parseGoto goto 语句
func (p *Parser) parseGoto() ast.Statement {
	start := p.current
	p.advance()
	nameTok := p.consume(token.T_STRING, "label")
	label := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())
	p.consumeSemicolon()
	return p.arena.NewGoto(p.spanFrom(start), label)
}

// parseLabel 标签语句 (foo:)
func (p *Parser) parseLabel() ast.Statement {
	start := p.current
	nameTok := p.advance()
	name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())
	p.consume(':', "':'")
	return p.arena.NewLabelStmt(p.spanFrom(start), name)
}

// parseEcho echo 语句（也处理 <?= 形式）
func (p *Parser) parseEcho() ast.Statement {
	start := p.current
	p.advance() // echo 或 <?=

	exprs := []ast.Expression{p.parseExpression()}
	for p.match(',') {
		exprs = append(exprs, p.parseExpression())
	}
	p.consumeSemicolon()
	return p.arena.NewEcho(p.spanFrom(start), exprs)
}

// parseGlobal global 声明
func (p *Parser) parseGlobal() ast.Statement {
	start := p.current
	p.advance()

	var vars []ast.Expression
	vars = append(vars, p.parseSimpleVariable())
	for p.match(',') {
		vars = append(vars, p.parseSimpleVariable())
	}
	p.consumeSemicolon()
	return p.arena.NewGlobal(p.spanFrom(start), vars)
}

// parseStaticVars 函数内 static 变量声明
func (p *Parser) parseStaticVars() ast.Statement {
	start := p.current
	p.advance() // static

	var vars []*ast.StaticVar
	for {
		vStart := p.current
		varTok := p.consume(token.T_VARIABLE, "variable")
		v := p.arena.NewVariable(varTok.Span, varTok.Value.Text())
		var def ast.Expression
		if p.match('=') {
			def = p.parseExpression()
		}
		vars = append(vars, p.arena.NewStaticVar(p.spanFrom(vStart), v, def))
		if !p.match(',') {
			break
		}
	}
	p.consumeSemicolon()
	return p.arena.NewStaticVars(p.spanFrom(start), vars)
}

// parseUnset unset 语句
func (p *Parser) parseUnset() ast.Statement {
	start := p.current
	p.advance()
	p.consume('(', "'('")

	var vars []ast.Expression
	if !p.check(')') {
		vars = append(vars, p.parseExpression())
		for p.match(',') {
			vars = append(vars, p.parseExpression())
		}
	}
	p.consume(')', "')'")
	p.consumeSemicolon()
	return p.arena.NewUnset(p.spanFrom(start), vars)
}

// parseDeclare declare 语句
func (p *Parser) parseDeclare() ast.Statement {
	start := p.current
	p.advance()
	p.consume('(', "'('")

	var directives []*ast.DeclareDirective
	for {
		dStart := p.current
		nameTok := p.consume(token.T_STRING, "directive name")
		name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())
		p.consume('=', "'='")
		value := p.parseExpression()
		directives = append(directives, p.arena.NewDeclareDirective(p.spanFrom(dStart), name, value))
		if !p.match(',') {
			break
		}
	}
	p.consume(')', "')'")

	var body ast.Statement
	if p.check('{') {
		body = p.parseBlock()
	} else {
		p.consumeSemicolon()
	}
	return p.arena.NewDeclare(p.spanFrom(start), directives, body)
}

// parseHaltCompiler __halt_compiler();
func (p *Parser) parseHaltCompiler() ast.Statement {
	start := p.current
	if !p.topLevel {
		p.errorAt(p.peek().Span, errors.SyntaxError, i18n.T(i18n.ErrHaltCompilerTopLevel))
	}
	p.advance() // __halt_compiler
	p.consume('(', "'('")
	p.consume(')', "')'")
	semi := p.consume(';', "';'")
	dataOffset := semi.Span.End()
	return p.arena.NewHaltCompiler(p.spanFrom(start), dataOffset)
}

// ============================================================================
// 命名空间与导入
// ============================================================================

// parseNamespace namespace 声明（带块体或到下一个 namespace）
//
// 不变量：命名空间体里只有顶层语句。
func (p *Parser) parseNamespace() ast.Statement {
	start := p.current
	p.advance() // namespace

	var name *ast.Name
	if p.check(token.T_STRING) {
		name = p.parseName()
	}

	if p.check('{') {
		p.advance()
		wasTop := p.topLevel
		p.topLevel = false
		var stmts []ast.Statement
		for !p.check('}') && !p.isAtEnd() {
			p.panicMode = false
			stmt := p.parseTopStatement()
			if p.panicMode {
				p.synchronize()
				continue
			}
			if stmt != nil {
				stmts = append(stmts, stmt)
			}
		}
		p.consume('}', "'}'")
		p.topLevel = wasTop
		return p.arena.NewNamespaceDecl(p.spanFrom(start), name, true, stmts)
	}

	p.consumeSemicolon()

	// 非块体形式：收集到下一个 namespace 或文件结束
	var stmts []ast.Statement
	for !p.isAtEnd() {
		if p.check(token.T_NAMESPACE) && p.lookAhead(1).Kind != token.T_NS_SEPARATOR {
			break
		}
		p.panicMode = false
		stmt := p.parseTopStatement()
		if p.panicMode {
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return p.arena.NewNamespaceDecl(p.spanFrom(start), name, false, stmts)
}

// parseUse use 声明（普通、function、const、组导入）
func (p *Parser) parseUse() ast.Statement {
	start := p.current
	p.advance() // use

	kind := ast.UseNormal
	if p.match(token.T_FUNCTION) {
		kind = ast.UseFunction
	} else if p.match(token.T_CONST) {
		kind = ast.UseConst
	}

	// 先读第一个名字，判断是否组导入
	first := p.parseName()
	if p.check(token.T_NS_SEPARATOR) && p.lookAhead(1).Kind == '{' {
		p.advance() // \
		p.advance() // {
		var uses []*ast.UseClause
		for {
			uses = append(uses, p.parseUseClause(true))
			if !p.match(',') {
				break
			}
			if p.check('}') {
				break // 允许尾随逗号
			}
		}
		p.consume('}', "'}'")
		p.consumeSemicolon()
		return p.arena.NewUseDecl(p.spanFrom(start), kind, first, uses)
	}

	var uses []*ast.UseClause
	uses = append(uses, p.finishUseClause(first))
	for p.match(',') {
		uses = append(uses, p.parseUseClause(false))
	}
	p.consumeSemicolon()
	return p.arena.NewUseDecl(p.spanFrom(start), kind, nil, uses)
}

// parseUseClause use 声明的一项
func (p *Parser) parseUseClause(inGroup bool) *ast.UseClause {
	kind := ast.UseNormal
	if inGroup {
		// 混合组导入里每项可以带自己的种类
		if p.match(token.T_FUNCTION) {
			kind = ast.UseFunction
		} else if p.match(token.T_CONST) {
			kind = ast.UseConst
		}
	}
	name := p.parseName()
	c := p.finishUseClause(name)
	c.Kind = kind
	return c
}

// finishUseClause 解析可选的 as 别名
func (p *Parser) finishUseClause(name *ast.Name) *ast.UseClause {
	start := name.Span()
	var alias *ast.Identifier
	if p.match(token.T_AS) {
		aTok := p.consume(token.T_STRING, "alias")
		alias = p.arena.NewIdentifier(aTok.Span, aTok.Value.Text())
	}
	span := start
	if alias != nil {
		span = token.Combine(start, alias.Span())
	}
	return p.arena.NewUseClause(span, ast.UseNormal, name, alias)
}

// parseName 可能带限定的名字
func (p *Parser) parseName() *ast.Name {
	start := p.current
	kind := ast.NameUnqualified
	var parts []string

	if p.match(token.T_NS_SEPARATOR) {
		kind = ast.NameFullyQualified
	} else if p.check(token.T_NAMESPACE) && p.lookAhead(1).Kind == token.T_NS_SEPARATOR {
		p.advance()
		p.advance()
		kind = ast.NameRelative
	}

	tok := p.consume(token.T_STRING, "identifier")
	parts = append(parts, tok.Value.Text())

	for p.check(token.T_NS_SEPARATOR) && p.lookAhead(1).Kind == token.T_STRING {
		p.advance()
		tok = p.advance()
		parts = append(parts, tok.Value.Text())
	}

	if kind == ast.NameUnqualified && len(parts) > 1 {
		kind = ast.NameQualified
	}
	return p.arena.NewName(p.spanFrom(start), kind, parts)
}

// ============================================================================
// 声明
// ============================================================================

// parseClassModifiers abstract/final 前缀
func (p *Parser) parseClassModifiers() ast.Modifier {
	var mods ast.Modifier
	for {
		switch {
		case p.match(token.T_ABSTRACT):
			mods |= ast.ModAbstract
		case p.match(token.T_FINAL):
			mods |= ast.ModFinal
		default:
			return mods
		}
	}
}

// parseFunctionDecl 函数声明
func (p *Parser) parseFunctionDecl() ast.Statement {
	start := p.current
	p.advance() // function
	byRef := p.match('&')

	nameTok := p.consume(token.T_STRING, "function name")
	name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())

	params := p.parseParams()
	ret := p.parseReturnType()
	body := p.parseBlock()

	fn := p.arena.NewFunctionDecl(p.spanFrom(start), byRef, name, params, ret, body)
	p.takeDoc(start, fn)
	return fn
}

// parseClassDecl 类声明
//
// start 指向修饰符之前，文档注释也记在那里。
func (p *Parser) parseClassDecl(start int, mods ast.Modifier) ast.Statement {
	p.consume(token.T_CLASS, "'class'")

	nameTok := p.consume(token.T_STRING, "class name")
	name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())

	var extends *ast.Name
	if p.match(token.T_EXTENDS) {
		extends = p.parseName()
	}
	var implements []*ast.Name
	if p.match(token.T_IMPLEMENTS) {
		implements = append(implements, p.parseName())
		for p.match(',') {
			implements = append(implements, p.parseName())
		}
	}

	members := p.parseClassBody()
	decl := p.arena.NewClassDecl(p.spanFrom(start), mods, false, name, extends, implements, members)
	p.takeDoc(start, decl)
	return decl
}

// parseInterfaceDecl 接口声明
func (p *Parser) parseInterfaceDecl() ast.Statement {
	start := p.current
	p.advance() // interface

	nameTok := p.consume(token.T_STRING, "interface name")
	name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())

	var extends []*ast.Name
	if p.match(token.T_EXTENDS) {
		extends = append(extends, p.parseName())
		for p.match(',') {
			extends = append(extends, p.parseName())
		}
	}

	members := p.parseClassBody()
	decl := p.arena.NewInterfaceDecl(p.spanFrom(start), name, extends, members)
	p.takeDoc(start, decl)
	return decl
}

// parseTraitDecl trait 声明
func (p *Parser) parseTraitDecl() ast.Statement {
	start := p.current
	p.advance() // trait

	nameTok := p.consume(token.T_STRING, "trait name")
	name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())

	members := p.parseClassBody()
	decl := p.arena.NewTraitDecl(p.spanFrom(start), name, members)
	p.takeDoc(start, decl)
	return decl
}

// parseClassBody 类体 { members }
func (p *Parser) parseClassBody() []ast.Member {
	p.consume('{', "'{'")

	var members []ast.Member
	for !p.check('}') && !p.isAtEnd() {
		p.panicMode = false
		m := p.parseClassMember()
		if p.panicMode {
			p.synchronize()
			continue
		}
		if m != nil {
			members = append(members, m)
		}
	}
	p.consume('}', "'}'")
	return members
}

// parseClassMember 类体成员
func (p *Parser) parseClassMember() ast.Member {
	start := p.current

	// trait 使用
	if p.check(token.T_USE) {
		return p.parseTraitUse()
	}

	// 成员修饰符
	var mods ast.Modifier
	for {
		switch p.peek().Kind {
		case token.T_PUBLIC:
			mods |= ast.ModPublic
		case token.T_PROTECTED:
			mods |= ast.ModProtected
		case token.T_PRIVATE:
			mods |= ast.ModPrivate
		case token.T_STATIC:
			mods |= ast.ModStatic
		case token.T_ABSTRACT:
			mods |= ast.ModAbstract
		case token.T_FINAL:
			mods |= ast.ModFinal
		case token.T_VAR:
			// var 等价于 public
			mods |= ast.ModPublic
		default:
			goto done
		}
		p.advance()
	}
done:

	switch p.peek().Kind {
	case token.T_FUNCTION:
		return p.parseMethod(start, mods)
	case token.T_CONST:
		return p.parseClassConst(start, mods)
	case token.T_VARIABLE:
		return p.parseProperty(start, mods)
	default:
		p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedClassMember))
		return nil
	}
}

// parseMethod 方法声明
func (p *Parser) parseMethod(start int, mods ast.Modifier) ast.Member {
	p.advance() // function
	byRef := p.match('&')

	// 方法名允许任何标识符（包括半保留字不在此处理）
	nameTok := p.consume(token.T_STRING, "method name")
	name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())

	params := p.parseParams()
	ret := p.parseReturnType()

	var body *ast.Block
	if p.check('{') {
		body = p.parseBlock()
		if mods.Has(ast.ModAbstract) {
			p.errorAt(body.Span(), errors.SyntaxError, i18n.T(i18n.ErrAbstractMethodBody))
			p.panicMode = false
		}
	} else {
		p.consumeSemicolon()
	}

	m := p.arena.NewMethodDecl(p.spanFrom(start), mods, byRef, name, params, ret, body)
	p.takeDoc(start, m)
	return m
}

// parseClassConst 类常量声明
func (p *Parser) parseClassConst(start int, mods ast.Modifier) ast.Member {
	p.advance() // const

	var consts []*ast.ConstElem
	for {
		cStart := p.current
		nameTok := p.consume(token.T_STRING, "constant name")
		name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())
		p.consume('=', "'='")
		value := p.parseExpression()
		consts = append(consts, p.arena.NewConstElem(p.spanFrom(cStart), name, value))
		if !p.match(',') {
			break
		}
	}
	p.consumeSemicolon()

	m := p.arena.NewClassConstDecl(p.spanFrom(start), mods, consts)
	p.takeDoc(start, m)
	return m
}

// parseProperty 属性声明
func (p *Parser) parseProperty(start int, mods ast.Modifier) ast.Member {
	if mods == 0 {
		p.errorAt(p.peek().Span, errors.SyntaxError, i18n.T(i18n.ErrPropertyWithoutName))
	}

	var props []*ast.PropertyElem
	for {
		eStart := p.current
		varTok := p.consume(token.T_VARIABLE, "property name")
		name := p.arena.NewIdentifier(varTok.Span, varTok.Value.Text())
		var def ast.Expression
		if p.match('=') {
			def = p.parseExpression()
		}
		props = append(props, p.arena.NewPropertyElem(p.spanFrom(eStart), name, def))
		if !p.match(',') {
			break
		}
	}
	p.consumeSemicolon()

	m := p.arena.NewPropertyDecl(p.spanFrom(start), mods, props)
	p.takeDoc(start, m)
	return m
}

// parseConstDecl 全局常量声明
func (p *Parser) parseConstDecl() ast.Statement {
	start := p.current
	p.advance() // const

	var consts []*ast.ConstElem
	for {
		cStart := p.current
		nameTok := p.consume(token.T_STRING, "constant name")
		name := p.arena.NewIdentifier(nameTok.Span, nameTok.Value.Text())
		p.consume('=', "'='")
		value := p.parseExpression()
		consts = append(consts, p.arena.NewConstElem(p.spanFrom(cStart), name, value))
		if !p.match(',') {
			break
		}
	}
	p.consumeSemicolon()

	d := p.arena.NewConstDecl(p.spanFrom(start), consts)
	p.takeDoc(start, d)
	return d
}

// parseTraitUse 类体内的 use T1, T2 { 适配 }
func (p *Parser) parseTraitUse() ast.Member {
	start := p.current
	p.advance() // use

	traits := []*ast.Name{p.parseName()}
	for p.match(',') {
		traits = append(traits, p.parseName())
	}

	var adaptations []ast.TraitAdaptation
	if p.match('{') {
		for !p.check('}') && !p.isAtEnd() {
			ad := p.parseTraitAdaptation()
			if ad != nil {
				adaptations = append(adaptations, ad)
			}
			if p.panicMode {
				p.synchronize()
				p.panicMode = false
			}
		}
		p.consume('}', "'}'")
	} else {
		p.consumeSemicolon()
	}

	return p.arena.NewTraitUse(p.spanFrom(start), traits, adaptations)
}

// parseTraitAdaptation 单条 trait 适配（别名或 insteadof）
func (p *Parser) parseTraitAdaptation() ast.TraitAdaptation {
	start := p.current

	var trait *ast.Name
	var method *ast.Identifier

	name := p.parseName()
	if p.match(token.T_DOUBLE_COLON) {
		trait = name
		mTok := p.consume(token.T_STRING, "method name")
		method = p.arena.NewIdentifier(mTok.Span, mTok.Value.Text())
	} else {
		// 裸方法名
		method = p.arena.NewIdentifier(name.Span(), name.Last())
	}

	if p.match(token.T_INSTEADOF) {
		insteadOf := []*ast.Name{p.parseName()}
		for p.match(',') {
			insteadOf = append(insteadOf, p.parseName())
		}
		p.consumeSemicolon()
		return p.arena.NewTraitPrecedence(p.spanFrom(start), trait, method, insteadOf)
	}

	p.consume(token.T_AS, "'as' or 'insteadof'")
	var mod ast.Modifier
	switch p.peek().Kind {
	case token.T_PUBLIC:
		mod = ast.ModPublic
		p.advance()
	case token.T_PROTECTED:
		mod = ast.ModProtected
		p.advance()
	case token.T_PRIVATE:
		mod = ast.ModPrivate
		p.advance()
	}
	var alias *ast.Identifier
	if p.check(token.T_STRING) {
		aTok := p.advance()
		alias = p.arena.NewIdentifier(aTok.Span, aTok.Value.Text())
	}
	p.consumeSemicolon()
	return p.arena.NewTraitAlias(p.spanFrom(start), trait, method, alias, mod)
}

// ============================================================================
// 形参与类型
// ============================================================================

// parseParams (param, ...) 形参表
func (p *Parser) parseParams() []*ast.Param {
	p.consume('(', "'('")

	var params []*ast.Param
	sawVariadic := false
	if !p.check(')') {
		for {
			param := p.parseParam()
			if param != nil {
				if sawVariadic {
					p.errorAt(param.Span(), errors.SyntaxError, i18n.T(i18n.ErrParamAfterVariadic))
					p.panicMode = false
				}
				if param.Variadic {
					sawVariadic = true
				}
				params = append(params, param)
			}
			if !p.match(',') {
				break
			}
		}
	}
	p.consume(')', "')'")
	return params
}

// parseParam 单个形参: [type] [&] [...] $var [= default]
func (p *Parser) parseParam() *ast.Param {
	start := p.current

	var typ ast.TypeRef
	if !p.checkAny(token.T_VARIABLE, '&', token.T_ELLIPSIS) {
		typ = p.parseTypeRef()
	}

	byRef := p.match('&')
	variadic := p.match(token.T_ELLIPSIS)

	varTok := p.consume(token.T_VARIABLE, "parameter name")
	v := p.arena.NewVariable(varTok.Span, varTok.Value.Text())

	var def ast.Expression
	if p.match('=') {
		def = p.parseExpression()
	}

	return p.arena.NewParam(p.spanFrom(start), typ, byRef, variadic, v, def)
}

// parseReturnType 可选的返回类型 (: type)
func (p *Parser) parseReturnType() ast.TypeRef {
	if !p.match(':') {
		return nil
	}
	return p.parseTypeRef()
}

// parseTypeRef 类型引用: [?] (array | callable | Name)
//
// 不变量: 可空包装恰好包住一个非可空内层。
func (p *Parser) parseTypeRef() ast.TypeRef {
	start := p.current
	if p.match('?') {
		inner := p.parseBaseTypeRef()
		return p.arena.NewNullableTypeRef(p.spanFrom(start), inner)
	}
	return p.parseBaseTypeRef()
}

func (p *Parser) parseBaseTypeRef() ast.TypeRef {
	start := p.current
	switch p.peek().Kind {
	case token.T_ARRAY:
		p.advance()
		return p.arena.NewArrayTypeRef(p.spanFrom(start))
	case token.T_CALLABLE:
		p.advance()
		return p.arena.NewCallableTypeRef(p.spanFrom(start))
	case token.T_STRING, token.T_NS_SEPARATOR, token.T_NAMESPACE, token.T_STATIC:
		if p.check(token.T_STATIC) {
			t := p.advance()
			name := p.arena.NewName(t.Span, ast.NameUnqualified, []string{"static"})
			return p.arena.NewNamedTypeRef(p.spanFrom(start), name)
		}
		name := p.parseName()
		return p.arena.NewNamedTypeRef(p.spanFrom(start), name)
	default:
		p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedTypeName))
		t := p.peek()
		name := p.arena.NewName(t.Span, ast.NameUnqualified, []string{""})
		return p.arena.NewNamedTypeRef(t.Span, name)
	}
}

// ============================================================================
// 表达式 - 优先级
// ============================================================================
//
// 自低向高，对应语法的优先级阶梯：
// include/require → or → xor → and → 赋值族 → ?: → ?? → || →
// && → | → ^ → & → 相等族 → 关系/<=> → 移位 → 加减/拼接 →
// 乘除 → ! → instanceof → 一元前缀/转换 → ** → 后缀 → new/clone
//
// ============================================================================

const (
	precNone = iota
	precInclude    // include, require, eval
	precLogicalOr  // or
	precLogicalXor // xor
	precLogicalAnd // and
	precAssignment // = += -= ...（右结合）
	precTernary    // ? :
	precCoalesce   // ??（右结合）
	precBoolOr     // ||
	precBoolAnd    // &&
	precBitOr      // |
	precBitXor     // ^
	precBitAnd     // &
	precEquality   // == != === !== <>
	precComparison // < <= > >= <=>
	precShift      // << >>
	precAdditive   // + - .
	precMultiplicative // * / %
	precNot        // !
	precInstanceOf // instanceof
	precUnary      // 前缀 ++/--、一元 +-~、转换、@
	precPow        // **（右结合）
	precPostfix    // [] -> :: () ++ --
	precNew        // new clone
)

// getPrecedence 中缀/后缀 token 的优先级
func (p *Parser) getPrecedence(k token.Kind) int {
	switch k {
	case token.T_LOGICAL_OR:
		return precLogicalOr
	case token.T_LOGICAL_XOR:
		return precLogicalXor
	case token.T_LOGICAL_AND:
		return precLogicalAnd
	case '=', token.T_PLUS_EQUAL, token.T_MINUS_EQUAL, token.T_MUL_EQUAL,
		token.T_DIV_EQUAL, token.T_CONCAT_EQUAL, token.T_MOD_EQUAL,
		token.T_AND_EQUAL, token.T_OR_EQUAL, token.T_XOR_EQUAL,
		token.T_SL_EQUAL, token.T_SR_EQUAL, token.T_POW_EQUAL:
		return precAssignment
	case '?':
		return precTernary
	case token.T_COALESCE:
		return precCoalesce
	case token.T_BOOLEAN_OR:
		return precBoolOr
	case token.T_BOOLEAN_AND:
		return precBoolAnd
	case '|':
		return precBitOr
	case '^':
		return precBitXor
	case '&':
		return precBitAnd
	case token.T_IS_EQUAL, token.T_IS_NOT_EQUAL, token.T_IS_IDENTICAL,
		token.T_IS_NOT_IDENTICAL:
		return precEquality
	case '<', '>', token.T_IS_SMALLER_OR_EQUAL, token.T_IS_GREATER_OR_EQUAL,
		token.T_SPACESHIP:
		return precComparison
	case token.T_SL, token.T_SR:
		return precShift
	case '+', '-', '.':
		return precAdditive
	case '*', '/', '%':
		return precMultiplicative
	case token.T_INSTANCEOF:
		return precInstanceOf
	case token.T_POW:
		return precPow
	case '[', '(', token.T_OBJECT_OPERATOR, token.T_DOUBLE_COLON,
		token.T_INC, token.T_DEC:
		return precPostfix
	default:
		return precNone
	}
}

// parseExpression 解析一个完整表达式
func (p *Parser) parseExpression() ast.Expression {
	// 检查递归深度，防止栈溢出
	p.exprDepth++
	if p.exprDepth > maxExprDepth {
		p.errorAt(p.peek().Span, errors.SyntaxError, i18n.T(i18n.ErrExprTooDeep))
		p.exprDepth--
		return nil
	}
	defer func() { p.exprDepth-- }()

	return p.parsePrecedence(precInclude)
}

// parsePrecedence 优先级爬升
func (p *Parser) parsePrecedence(precedence int) ast.Expression {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for !p.panicMode && precedence <= p.getPrecedence(p.peek().Kind) {
		left = p.parseInfixExpr(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// ============================================================================
// 表达式 - 前缀
// ============================================================================

func (p *Parser) parsePrefixExpr() ast.Expression {
	start := p.current
	t := p.peek()

	switch t.Kind {
	case token.T_LNUMBER:
		p.advance()
		return p.arena.NewIntLit(t.Span, t.Value.Int(), p.intFormat(t))

	case token.T_DNUMBER:
		p.advance()
		return p.arena.NewDoubleLit(t.Span, t.Value.Double(), p.floatFormat(t))

	case token.T_CONSTANT_ENCAPSED_STRING:
		p.advance()
		format := ast.SingleQuoted
		if txt := p.text(t); len(txt) > 0 && (txt[0] == '"' || (len(txt) > 1 && txt[1] == '"')) {
			format = ast.DoubleQuoted
		}
		if t.Value.Kind() == token.ValueBytes {
			return p.arena.NewBinaryStringLit(t.Span, t.Value.Bytes(), format)
		}
		return p.arena.NewStringLit(t.Span, t.Value.Text(), format)

	case token.T_VARIABLE:
		p.advance()
		return p.arena.NewVariable(t.Span, t.Value.Text())

	case '$':
		return p.parseSimpleVariable()

	case token.T_STRING, token.T_NS_SEPARATOR:
		return p.parseNameExpr()

	case token.T_NAMESPACE:
		if p.lookAhead(1).Kind == token.T_NS_SEPARATOR {
			return p.parseNameExpr()
		}
		p.errorUnexpected()
		p.advance()
		return nil

	case token.T_LINE, token.T_FILE, token.T_DIR, token.T_CLASS_C,
		token.T_TRAIT_C, token.T_METHOD_C, token.T_FUNC_C, token.T_NS_C:
		p.advance()
		return p.arena.NewMagicConst(t.Span, t.Kind)

	case '(':
		p.advance()
		expr := p.parseExpression()
		p.consume(')', "')'")
		return expr

	case '!':
		p.advance()
		operand := p.parsePrecedence(precNot)
		return p.arena.NewUnary(p.spanFrom(start), '!', operand)

	case '-', '+', '~':
		p.advance()
		operand := p.parsePrecedence(precUnary)
		return p.arena.NewUnary(p.spanFrom(start), t.Kind, operand)

	case '@':
		p.advance()
		operand := p.parsePrecedence(precUnary)
		return p.arena.NewErrorSuppress(p.spanFrom(start), operand)

	case token.T_INT_CAST, token.T_DOUBLE_CAST, token.T_STRING_CAST,
		token.T_ARRAY_CAST, token.T_OBJECT_CAST, token.T_BOOL_CAST,
		token.T_UNSET_CAST:
		p.advance()
		operand := p.parsePrecedence(precUnary)
		return p.arena.NewCast(p.spanFrom(start), t.Kind, operand)

	case token.T_INC, token.T_DEC:
		p.advance()
		operand := p.parsePrecedence(precUnary)
		return p.arena.NewIncDec(p.spanFrom(start), t.Kind, true, operand)

	case token.T_NEW:
		return p.parseNew()

	case token.T_CLONE:
		p.advance()
		operand := p.parsePrecedence(precPostfix)
		return p.arena.NewClone(p.spanFrom(start), operand)

	case token.T_PRINT:
		p.advance()
		operand := p.parsePrecedence(precAssignment)
		return p.arena.NewPrint(p.spanFrom(start), operand)

	case token.T_YIELD:
		p.advance()
		var key, value ast.Expression
		if !p.checkAny(';', ')', ',', ']', token.T_CLOSE_TAG) && !p.isAtEnd() {
			value = p.parsePrecedence(precAssignment)
			if p.match(token.T_DOUBLE_ARROW) {
				key = value
				value = p.parsePrecedence(precAssignment)
			}
		}
		return p.arena.NewYield(p.spanFrom(start), key, value)

	case token.T_YIELD_FROM:
		p.advance()
		operand := p.parsePrecedence(precAssignment)
		return p.arena.NewYieldFrom(p.spanFrom(start), operand)

	case token.T_INCLUDE, token.T_INCLUDE_ONCE, token.T_REQUIRE, token.T_REQUIRE_ONCE:
		p.advance()
		operand := p.parsePrecedence(precInclude)
		return p.arena.NewInclude(p.spanFrom(start), t.Kind, operand)

	case token.T_EVAL:
		p.advance()
		p.consume('(', "'('")
		expr := p.parseExpression()
		p.consume(')', "')'")
		return p.arena.NewEval(p.spanFrom(start), expr)

	case token.T_ISSET:
		p.advance()
		p.consume('(', "'('")
		vars := []ast.Expression{p.parseExpression()}
		for p.match(',') {
			vars = append(vars, p.parseExpression())
		}
		p.consume(')', "')'")
		return p.arena.NewIsset(p.spanFrom(start), vars)

	case token.T_EMPTY:
		p.advance()
		p.consume('(', "'('")
		expr := p.parseExpression()
		p.consume(')', "')'")
		return p.arena.NewEmpty(p.spanFrom(start), expr)

	case token.T_EXIT:
		p.advance()
		var expr ast.Expression
		if p.match('(') {
			if !p.check(')') {
				expr = p.parseExpression()
			}
			p.consume(')', "')'")
		}
		return p.arena.NewExit(p.spanFrom(start), expr)

	case token.T_LIST:
		return p.parseList()

	case token.T_ARRAY:
		p.advance()
		p.consume('(', "'('")
		items := p.parseArrayItems(')')
		p.consume(')', "')'")
		return p.arena.NewArrayExpr(p.spanFrom(start), items, false)

	case '[':
		p.advance()
		items := p.parseArrayItems(']')
		p.consume(']', "']'")
		return p.arena.NewArrayExpr(p.spanFrom(start), items, true)

	case token.T_FUNCTION:
		return p.parseClosure(false)

	case token.T_STATIC:
		switch p.lookAhead(1).Kind {
		case token.T_FUNCTION:
			p.advance()
			return p.parseClosure(true)
		case token.T_DOUBLE_COLON:
			p.advance()
			name := p.arena.NewName(t.Span, ast.NameUnqualified, []string{"static"})
			return p.arena.NewConstFetch(t.Span, name)
		}
		p.errorUnexpected()
		p.advance()
		return nil

	case '"':
		return p.parseEncaps('"')

	case '`':
		return p.parseEncaps('`')

	case token.T_START_HEREDOC:
		return p.parseHeredoc()

	case token.T_ENCAPSED_AND_WHITESPACE:
		// 只会紧跟在 heredoc/引号上下文里出现；容错直通
		p.advance()
		return p.arena.NewStringLit(t.Span, t.Value.Text(), ast.DoubleQuoted)

	case '&':
		// 仅在 foreach/数组元素等上下文有意义，此处按错误处理
		p.errorUnexpected()
		p.advance()
		return nil

	default:
		p.errorUnexpected()
		p.advance() // 跳过无效 token，防止死循环
		return nil
	}
}

// intFormat 根据原文推断整数书写格式
func (p *Parser) intFormat(t token.Token) ast.IntFormat {
	txt := p.text(t)
	if len(txt) > 1 && txt[0] == '0' {
		switch txt[1] {
		case 'x', 'X':
			return ast.IntHex
		case 'b', 'B':
			return ast.IntBinary
		default:
			return ast.IntOctal
		}
	}
	return ast.IntDecimal
}

// floatFormat 根据原文推断浮点书写格式
func (p *Parser) floatFormat(t token.Token) ast.FloatFormat {
	txt := p.text(t)
	for i := 0; i < len(txt); i++ {
		if txt[i] == 'e' {
			return ast.ExpSmall
		}
		if txt[i] == 'E' {
			return ast.ExpBig
		}
	}
	return ast.FloatingPoint
}

// parseSimpleVariable $var、$$var、${expr}
func (p *Parser) parseSimpleVariable() ast.Expression {
	start := p.current

	if p.check(token.T_VARIABLE) {
		t := p.advance()
		return p.arena.NewVariable(t.Span, t.Value.Text())
	}

	if !p.check('$') {
		p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedVariable))
		return nil
	}
	p.advance() // $

	switch p.peek().Kind {
	case token.T_VARIABLE, '$':
		inner := p.parseSimpleVariable()
		return p.arena.NewIndirectVariable(p.spanFrom(start), inner)
	case '{':
		p.advance()
		expr := p.parseExpression()
		p.consume('}', "'}'")
		return p.arena.NewIndirectVariable(p.spanFrom(start), expr)
	default:
		p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedVariable))
		return nil
	}
}

// parseNameExpr 以名字开头的表达式（常量访问，后缀可升级为调用）
//
// true/false/null 在这里折叠成字面量。
func (p *Parser) parseNameExpr() ast.Expression {
	start := p.current
	name := p.parseName()
	span := p.spanFrom(start)

	// 后面是 ( 或 :: 时保持名字形态，由后缀处理
	if p.check('(') || p.check(token.T_DOUBLE_COLON) {
		return p.arena.NewConstFetch(span, name)
	}

	if name.Kind == ast.NameUnqualified && len(name.Parts) == 1 {
		switch lowerASCII(name.Parts[0]) {
		case "true":
			return p.arena.NewBoolLit(span, true)
		case "false":
			return p.arena.NewBoolLit(span, false)
		case "null":
			return p.arena.NewNullLit(span)
		}
	}
	return p.arena.NewConstFetch(span, name)
}

func lowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		buf[i] = c
	}
	return string(buf)
}

// ============================================================================
// 表达式 - 中缀与后缀
// ============================================================================

func (p *Parser) parseInfixExpr(left ast.Expression) ast.Expression {
	start := p.current
	t := p.peek()

	switch t.Kind {
	case token.T_LOGICAL_OR, token.T_LOGICAL_XOR, token.T_LOGICAL_AND,
		token.T_BOOLEAN_OR, token.T_BOOLEAN_AND,
		'|', '^', '&',
		token.T_IS_EQUAL, token.T_IS_NOT_EQUAL, token.T_IS_IDENTICAL,
		token.T_IS_NOT_IDENTICAL,
		'<', '>', token.T_IS_SMALLER_OR_EQUAL, token.T_IS_GREATER_OR_EQUAL,
		token.T_SPACESHIP,
		token.T_SL, token.T_SR,
		'+', '-', '.',
		'*', '/', '%':
		p.advance()
		prec := p.getPrecedence(t.Kind)
		right := p.parsePrecedence(prec + 1)
		return p.arena.NewBinary(p.combineWith(left, start), t.Kind, left, right)

	case token.T_POW:
		// 右结合
		p.advance()
		right := p.parsePrecedence(precPow)
		return p.arena.NewBinary(p.combineWith(left, start), token.T_POW, left, right)

	case token.T_COALESCE:
		// 右结合
		p.advance()
		right := p.parsePrecedence(precCoalesce)
		return p.arena.NewBinary(p.combineWith(left, start), token.T_COALESCE, left, right)

	case '=':
		p.advance()
		byRef := p.match('&')
		p.checkAssignTarget(left)
		right := p.parsePrecedence(precAssignment)
		return p.arena.NewAssign(p.combineWith(left, start), left, right, byRef)

	case token.T_PLUS_EQUAL, token.T_MINUS_EQUAL, token.T_MUL_EQUAL,
		token.T_DIV_EQUAL, token.T_CONCAT_EQUAL, token.T_MOD_EQUAL,
		token.T_AND_EQUAL, token.T_OR_EQUAL, token.T_XOR_EQUAL,
		token.T_SL_EQUAL, token.T_SR_EQUAL, token.T_POW_EQUAL:
		p.advance()
		p.checkAssignTarget(left)
		right := p.parsePrecedence(precAssignment)
		return p.arena.NewAssignOp(p.combineWith(left, start), t.Kind, left, right)

	case '?':
		p.advance()
		var then ast.Expression
		if !p.check(':') {
			then = p.parseExpression()
		}
		p.consume(':', "':'")
		els := p.parsePrecedence(precTernary + 1)
		return p.arena.NewTernary(p.combineWith(left, start), left, then, els)

	case token.T_INSTANCEOF:
		p.advance()
		class := p.parseClassRef()
		return p.arena.NewInstanceOf(p.combineWith(left, start), left, class)

	case '[':
		p.advance()
		var index ast.Expression
		if !p.check(']') {
			index = p.parseExpression()
		}
		p.consume(']', "']'")
		return p.arena.NewArrayAccess(p.combineWith(left, start), left, index)

	case token.T_OBJECT_OPERATOR:
		p.advance()
		name := p.parseMemberName()
		return p.arena.NewPropertyFetch(p.combineWith(left, start), left, name)

	case token.T_DOUBLE_COLON:
		return p.parseStaticMember(left, start)

	case '(':
		return p.parseCallPostfix(left, start)

	case token.T_INC, token.T_DEC:
		p.advance()
		return p.arena.NewIncDec(p.combineWith(left, start), t.Kind, false, left)

	default:
		return left
	}
}

// combineWith 把左操作数的范围和当前消费进度合并
func (p *Parser) combineWith(left ast.Expression, start int) token.Span {
	return token.Combine(left.Span(), p.spanFrom(start))
}

// checkAssignTarget 轻量校验赋值目标
func (p *Parser) checkAssignTarget(target ast.Expression) {
	switch target.(type) {
	case *ast.Variable, *ast.IndirectVariable, *ast.ArrayAccess,
		*ast.PropertyFetch, *ast.StaticPropertyFetch, *ast.ListExpr,
		*ast.ArrayExpr:
		return
	default:
		p.errorAt(target.Span(), errors.SyntaxError, i18n.T(i18n.ErrInvalidAssignTarget))
		p.panicMode = false
	}
}

// parseMemberName -> 之后的成员名
func (p *Parser) parseMemberName() ast.Node {
	switch p.peek().Kind {
	case token.T_STRING:
		t := p.advance()
		return p.arena.NewIdentifier(t.Span, t.Value.Text())
	case token.T_VARIABLE:
		t := p.advance()
		return p.arena.NewVariable(t.Span, t.Value.Text())
	case '$':
		return p.parseSimpleVariable()
	case '{':
		p.advance()
		expr := p.parseExpression()
		p.consume('}', "'}'")
		return expr
	default:
		p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedIdentifier))
		t := p.peek()
		return p.arena.NewIdentifier(t.Span, "")
	}
}

// parseStaticMember :: 之后的成员
func (p *Parser) parseStaticMember(left ast.Expression, start int) ast.Expression {
	p.advance() // ::

	// 类侧：常量访问形态退回名字
	var class ast.Node = left
	if cf, ok := left.(*ast.ConstFetch); ok {
		class = cf.Name
	}

	switch p.peek().Kind {
	case token.T_VARIABLE:
		t := p.advance()
		v := p.arena.NewVariable(t.Span, t.Value.Text())
		return p.arena.NewStaticPropertyFetch(p.combineWith(left, start), class, v)
	case '$':
		v := p.parseSimpleVariable()
		return p.arena.NewStaticPropertyFetch(p.combineWith(left, start), class, v)
	case token.T_CLASS:
		t := p.advance()
		name := p.arena.NewIdentifier(t.Span, "class")
		return p.arena.NewClassConstFetch(p.combineWith(left, start), class, name)
	case token.T_STRING:
		t := p.advance()
		name := p.arena.NewIdentifier(t.Span, t.Value.Text())
		return p.arena.NewClassConstFetch(p.combineWith(left, start), class, name)
	case '{':
		p.advance()
		expr := p.parseExpression()
		p.consume('}', "'}'")
		// 只能是方法调用形态 Foo::{expr}()
		span := p.combineWith(left, start)
		args := p.parseArgs()
		return p.arena.NewStaticCall(token.Combine(span, p.previous().Span), class, expr, args)
	default:
		p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedIdentifier))
		return left
	}
}

// parseCallPostfix '(' 后缀：把访问形态升级为对应的调用
func (p *Parser) parseCallPostfix(left ast.Expression, start int) ast.Expression {
	args := p.parseArgs()
	span := p.combineWith(left, start)

	switch x := left.(type) {
	case *ast.PropertyFetch:
		return p.arena.NewMethodCall(span, x.Target, x.Name, args)
	case *ast.ClassConstFetch:
		name := p.arena.NewIdentifier(x.Name.Span(), x.Name.Name)
		return p.arena.NewStaticCall(span, x.Class, name, args)
	case *ast.StaticPropertyFetch:
		return p.arena.NewStaticCall(span, x.Class, x.Name, args)
	case *ast.ConstFetch:
		return p.arena.NewFunctionCall(span, x.Name, args)
	default:
		return p.arena.NewFunctionCall(span, left, args)
	}
}

// parseArgs 实参表
func (p *Parser) parseArgs() []*ast.Arg {
	p.consume('(', "'('")

	var args []*ast.Arg
	if !p.check(')') {
		for {
			aStart := p.current
			byRef := p.match('&')
			unpack := false
			if !byRef {
				unpack = p.match(token.T_ELLIPSIS)
			}
			value := p.parseExpression()
			if value != nil {
				args = append(args, p.arena.NewArg(p.spanFrom(aStart), value, byRef, unpack))
			}
			if !p.match(',') {
				break
			}
		}
	}
	p.consume(')', "')'")
	return args
}

// ============================================================================
// 表达式 - new、数组、list、闭包
// ============================================================================

// parseNew new 表达式（含匿名类）
func (p *Parser) parseNew() ast.Expression {
	start := p.current
	p.advance() // new

	// 匿名类: new class [(args)] [extends ...] [implements ...] { ... }
	if p.check(token.T_CLASS) {
		p.advance()

		var args []*ast.Arg
		if p.check('(') {
			args = p.parseArgs()
		}

		var extends *ast.Name
		if p.match(token.T_EXTENDS) {
			extends = p.parseName()
		}
		var implements []*ast.Name
		if p.match(token.T_IMPLEMENTS) {
			implements = append(implements, p.parseName())
			for p.match(',') {
				implements = append(implements, p.parseName())
			}
		}

		members := p.parseClassBody()
		decl := p.arena.NewClassDecl(p.spanFrom(start), 0, true, nil, extends, implements, members)
		return p.arena.NewNew(p.spanFrom(start), decl, args)
	}

	class := p.parseClassRef()

	var args []*ast.Arg
	if p.check('(') {
		args = p.parseArgs()
	}
	return p.arena.NewNew(p.spanFrom(start), class, args)
}

// parseClassRef new/instanceof 的类引用：名字、static 或变量表达式
func (p *Parser) parseClassRef() ast.Node {
	switch p.peek().Kind {
	case token.T_STRING, token.T_NS_SEPARATOR:
		return p.parseName()
	case token.T_NAMESPACE:
		if p.lookAhead(1).Kind == token.T_NS_SEPARATOR {
			return p.parseName()
		}
	case token.T_STATIC:
		t := p.advance()
		return p.arena.NewName(t.Span, ast.NameUnqualified, []string{"static"})
	}
	// 变量形态（含 $obj->cls、$a['k'] 等）
	return p.parseNewVariable()
}

// parseNewVariable new/instanceof 类引用的变量形态
//
// 允许下标、属性和静态成员后缀，但 '(' 不在其中：
// new $cls() 的实参表属于 new 自己。
func (p *Parser) parseNewVariable() ast.Expression {
	start := p.current
	v := p.parseSimpleVariable()
	if v == nil {
		return nil
	}

	for {
		switch p.peek().Kind {
		case '[':
			p.advance()
			var index ast.Expression
			if !p.check(']') {
				index = p.parseExpression()
			}
			p.consume(']', "']'")
			v = p.arena.NewArrayAccess(p.spanFrom(start), v, index)
		case token.T_OBJECT_OPERATOR:
			p.advance()
			name := p.parseMemberName()
			v = p.arena.NewPropertyFetch(p.spanFrom(start), v, name)
		case token.T_DOUBLE_COLON:
			p.advance()
			if p.check(token.T_VARIABLE) {
				t := p.advance()
				sp := p.arena.NewVariable(t.Span, t.Value.Text())
				v = p.arena.NewStaticPropertyFetch(p.spanFrom(start), v, sp)
				continue
			}
			p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedVariable))
			return v
		default:
			return v
		}
	}
}

// parseList list(...) 解构
func (p *Parser) parseList() ast.Expression {
	start := p.current
	p.advance() // list
	p.consume('(', "'('")

	var items []*ast.ArrayItem
	for {
		if p.check(',') || p.check(')') {
			items = append(items, nil) // 空洞
		} else {
			items = append(items, p.parseArrayItem())
		}
		if !p.match(',') {
			break
		}
	}
	p.consume(')', "')'")
	return p.arena.NewListExpr(p.spanFrom(start), items)
}

// parseArrayItems 数组元素表，直到 end（不消费 end）
func (p *Parser) parseArrayItems(end token.Kind) []*ast.ArrayItem {
	var items []*ast.ArrayItem
	for !p.check(end) && !p.isAtEnd() {
		items = append(items, p.parseArrayItem())
		if !p.match(',') {
			break
		}
	}
	return items
}

// parseArrayItem 单个数组元素: [key =>] [&] value
func (p *Parser) parseArrayItem() *ast.ArrayItem {
	start := p.current

	if p.match('&') {
		value := p.parsePrecedence(precTernary)
		return p.arena.NewArrayItem(p.spanFrom(start), nil, value, true)
	}

	first := p.parseExpression()
	if p.match(token.T_DOUBLE_ARROW) {
		byRef := p.match('&')
		value := p.parseExpression()
		return p.arena.NewArrayItem(p.spanFrom(start), first, value, byRef)
	}
	return p.arena.NewArrayItem(p.spanFrom(start), nil, first, false)
}

// parseClosure 闭包（static 前缀已由调用方消费）
func (p *Parser) parseClosure(static bool) ast.Expression {
	start := p.current
	p.advance() // function
	byRef := p.match('&')

	params := p.parseParams()

	var uses []*ast.ClosureUse
	if p.match(token.T_USE) {
		p.consume('(', "'('")
		for {
			uStart := p.current
			uByRef := p.match('&')
			varTok := p.consume(token.T_VARIABLE, "variable")
			v := p.arena.NewVariable(varTok.Span, varTok.Value.Text())
			uses = append(uses, p.arena.NewClosureUse(p.spanFrom(uStart), v, uByRef))
			if !p.match(',') {
				break
			}
		}
		p.consume(')', "')'")
	}

	ret := p.parseReturnType()
	body := p.parseBlock()

	return p.arena.NewClosure(p.spanFrom(start), static, byRef, params, uses, ret, body)
}

// ============================================================================
// 表达式 - 插值字符串与 heredoc
// ============================================================================

// parseEncaps 插值字符串（" 或 ` 包围）
func (p *Parser) parseEncaps(quote token.Kind) ast.Expression {
	start := p.current
	p.consume(quote, fmt.Sprintf("'%c'", rune(quote)))

	var parts []ast.Expression
	for !p.check(quote) && !p.isAtEnd() {
		part := p.parseEncapsPart()
		if part == nil {
			break
		}
		parts = append(parts, part)
	}
	p.consume(quote, fmt.Sprintf("'%c'", rune(quote)))

	span := p.spanFrom(start)
	if quote == '`' {
		return p.arena.NewShellExec(span, parts)
	}
	return p.arena.NewEncapsList(span, parts)
}

// parseHeredoc heredoc/nowdoc 表达式
//
// 无插值时折叠为单个字符串字面量。
func (p *Parser) parseHeredoc() ast.Expression {
	start := p.current
	p.advance() // T_START_HEREDOC

	var parts []ast.Expression
	for !p.check(token.T_END_HEREDOC) && !p.isAtEnd() {
		part := p.parseEncapsPart()
		if part == nil {
			break
		}
		parts = append(parts, part)
	}
	if !p.match(token.T_END_HEREDOC) {
		p.errorAt(p.peek().Span, errors.UnexpectedToken, i18n.T(i18n.ErrExpectedHeredocEnd))
	}

	span := p.spanFrom(start)
	switch len(parts) {
	case 0:
		return p.arena.NewStringLit(span, "", ast.DoubleQuoted)
	case 1:
		if lit, ok := parts[0].(*ast.StringLit); ok {
			return lit
		}
	}
	return p.arena.NewEncapsList(span, parts)
}

// parseEncapsPart 插值体的一个部件
func (p *Parser) parseEncapsPart() ast.Expression {
	t := p.peek()
	switch t.Kind {
	case token.T_ENCAPSED_AND_WHITESPACE:
		p.advance()
		if t.Value.Kind() == token.ValueBytes {
			return p.arena.NewBinaryStringLit(t.Span, t.Value.Bytes(), ast.DoubleQuoted)
		}
		return p.arena.NewStringLit(t.Span, t.Value.Text(), ast.DoubleQuoted)

	case token.T_VARIABLE:
		start := p.current
		p.advance()
		v := p.arena.NewVariable(t.Span, t.Value.Text())

		// "$a[expr]" 下标
		if p.match('[') {
			index := p.parseEncapsOffset()
			p.consume(']', "']'")
			return p.arena.NewArrayAccess(p.spanFrom(start), v, index)
		}
		// "$a->prop" 属性
		if p.match(token.T_OBJECT_OPERATOR) {
			nTok := p.consume(token.T_STRING, "property name")
			name := p.arena.NewIdentifier(nTok.Span, nTok.Value.Text())
			return p.arena.NewPropertyFetch(p.spanFrom(start), v, name)
		}
		return v

	case token.T_CURLY_OPEN:
		p.advance()
		expr := p.parseExpression()
		p.consume('}', "'}'")
		return expr

	case token.T_DOLLAR_OPEN_CURLY_BRACES:
		start := p.current
		p.advance()
		if p.check(token.T_STRING_VARNAME) {
			nTok := p.advance()
			v := p.arena.NewVariable(nTok.Span, nTok.Value.Text())
			var out ast.Expression = v
			if p.match('[') {
				index := p.parseExpression()
				p.consume(']', "']'")
				out = p.arena.NewArrayAccess(p.spanFrom(start), v, index)
			}
			p.consume('}', "'}'")
			return out
		}
		expr := p.parseExpression()
		p.consume('}', "'}'")
		return p.arena.NewIndirectVariable(p.spanFrom(start), expr)

	default:
		p.errorUnexpected()
		return nil
	}
}

// parseEncapsOffset 字符串内 $a[...] 的下标
//
// 裸词当字符串键，数字键溢出时保留原文。
func (p *Parser) parseEncapsOffset() ast.Expression {
	t := p.peek()
	switch t.Kind {
	case token.T_NUM_STRING:
		p.advance()
		if t.Value.Kind() == token.ValueInt {
			return p.arena.NewIntLit(t.Span, t.Value.Int(), ast.IntDecimal)
		}
		return p.arena.NewStringLit(t.Span, t.Value.Text(), ast.SingleQuoted)
	case token.T_STRING:
		p.advance()
		return p.arena.NewStringLit(t.Span, t.Value.Text(), ast.SingleQuoted)
	case token.T_VARIABLE:
		p.advance()
		return p.arena.NewVariable(t.Span, t.Value.Text())
	case '-':
		start := p.current
		p.advance()
		nTok := p.consume(token.T_NUM_STRING, "number")
		return p.arena.NewIntLit(p.spanFrom(start), -nTok.Value.Int(), ast.IntDecimal)
	default:
		p.errorUnexpected()
		return nil
	}
}
