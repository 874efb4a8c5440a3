// Package scanner 实现 PHP 7 的多状态词法分析器
package scanner

import (
	"io"

	"github.com/tluyben/phpfront/internal/errors"
	"github.com/tluyben/phpfront/internal/i18n"
	"github.com/tluyben/phpfront/internal/source"
	"github.com/tluyben/phpfront/internal/token"
)

// ============================================================================
// Scanner - 词法分析器
// ============================================================================
//
// PHP 的词法是一个多状态机：当前状态取决于语法上下文
// （HTML 还是脚本、双引号插值内部、heredoc 内部、属性访问
// 之后、变量下标内部……）。
//
// 状态机用稠密分发实现：每个词法状态一个扫描例程，
// 通过 stateHandlers 按起始状态分发，接受动作就是例程本身，
// 不依赖生成的转移表。状态机的契约：
//   - push/pop 状态栈，'}' 下溢是词法错误
//   - heredoc 结束标签锚定在行首
//   - 属性访问后的标识符永远是 T_STRING，即使拼写是关键字
//   - 扫描器只产出 T_ERROR，从不 panic
//
// 性能优化说明：
// 1. ASCII 快速路径：按字节扫描，非 ASCII 字节只在标识符和
//    字符串体中原样通过
// 2. 双引号快速路径：无插值的字符串一次成 token，不进入
//    ST_DOUBLE_QUOTES 状态
// 3. 关键字查找先试原串，避免小写化分配
//
// ============================================================================

// LexicalState 词法状态
type LexicalState int

const (
	INITIAL LexicalState = iota // HTML 模式
	ST_IN_SCRIPTING
	ST_DOUBLE_QUOTES
	ST_SINGLE_QUOTES
	ST_BACKQUOTE
	ST_HEREDOC
	ST_NOWDOC
	ST_END_HEREDOC
	ST_LOOKING_FOR_PROPERTY
	ST_LOOKING_FOR_VARNAME
	ST_VAR_OFFSET
	ST_COMMENT
	ST_DOC_COMMENT
	ST_ONE_LINE_COMMENT
	ST_HALT_COMPILER1
	ST_HALT_COMPILER2
	ST_HALT_COMPILER3
)

var stateNames = map[LexicalState]string{
	INITIAL:                 "INITIAL",
	ST_IN_SCRIPTING:         "ST_IN_SCRIPTING",
	ST_DOUBLE_QUOTES:        "ST_DOUBLE_QUOTES",
	ST_SINGLE_QUOTES:        "ST_SINGLE_QUOTES",
	ST_BACKQUOTE:            "ST_BACKQUOTE",
	ST_HEREDOC:              "ST_HEREDOC",
	ST_NOWDOC:               "ST_NOWDOC",
	ST_END_HEREDOC:          "ST_END_HEREDOC",
	ST_LOOKING_FOR_PROPERTY: "ST_LOOKING_FOR_PROPERTY",
	ST_LOOKING_FOR_VARNAME:  "ST_LOOKING_FOR_VARNAME",
	ST_VAR_OFFSET:           "ST_VAR_OFFSET",
	ST_COMMENT:              "ST_COMMENT",
	ST_DOC_COMMENT:          "ST_DOC_COMMENT",
	ST_ONE_LINE_COMMENT:     "ST_ONE_LINE_COMMENT",
	ST_HALT_COMPILER1:       "ST_HALT_COMPILER1",
	ST_HALT_COMPILER2:       "ST_HALT_COMPILER2",
	ST_HALT_COMPILER3:       "ST_HALT_COMPILER3",
}

func (s LexicalState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "LexicalState(?)"
}

// ============================================================================
// 配置
// ============================================================================

// Config 扫描器配置
type Config struct {
	ShortOpenTags bool           // 是否识别 <? 短标签
	InitialState  LexicalState   // 起始词法状态（默认 INITIAL）
	OffsetBias    int            // 片段重解析时的偏移修正
	Reporter      errors.Reporter // 诊断接收器（可为 nil）

	// Hook 在每个 token 产出后触发，参数是 token 类型和
	// 缓冲区里的原始文本。语法着色宿主用它观察原文。
	Hook func(kind token.Kind, text string)
}

// ============================================================================
// Scanner 结构体
// ============================================================================

// Scanner 词法分析器
//
// 单个实例持有可变状态（缓冲、游标、状态栈、语义槽），
// 不能跨 goroutine 共享；并行解析时各自实例化。
type Scanner struct {
	buf *source.Buffer
	cfg Config

	state LexicalState   // 当前词法状态
	stack []LexicalState // 状态栈

	atBOL        bool   // 下一个字符是否在物理行首
	heredocLabel string // 当前 heredoc/nowdoc 标签
	docBlock     string // 最近一个 /** ... */ 的文本
	docBlockSpan token.Span
	hasDocBlock  bool

	binaryNext bool // b 前缀：下一个字符串字面量是二进制
	halted     bool // __halt_compiler(); 之后不再产出 token
}

// stateHandlers 起始状态分发表
//
// 每个词法状态对应一个扫描例程；例程返回 (token, true) 表示
// 产出一个 token，返回 false 表示只做了状态迁移，主循环继续。
var stateHandlers [ST_HALT_COMPILER3 + 1]func(*Scanner) (token.Token, bool)

func init() {
	stateHandlers[INITIAL] = (*Scanner).scanInitial
	stateHandlers[ST_IN_SCRIPTING] = (*Scanner).scanScripting
	stateHandlers[ST_DOUBLE_QUOTES] = (*Scanner).scanDoubleQuotes
	stateHandlers[ST_SINGLE_QUOTES] = (*Scanner).scanSingleQuotes
	stateHandlers[ST_BACKQUOTE] = (*Scanner).scanBackquote
	stateHandlers[ST_HEREDOC] = (*Scanner).scanHeredoc
	stateHandlers[ST_NOWDOC] = (*Scanner).scanNowdoc
	stateHandlers[ST_END_HEREDOC] = (*Scanner).scanEndHeredoc
	stateHandlers[ST_LOOKING_FOR_PROPERTY] = (*Scanner).scanLookingForProperty
	stateHandlers[ST_LOOKING_FOR_VARNAME] = (*Scanner).scanLookingForVarname
	stateHandlers[ST_VAR_OFFSET] = (*Scanner).scanVarOffset
	stateHandlers[ST_COMMENT] = (*Scanner).scanBlockComment
	stateHandlers[ST_DOC_COMMENT] = (*Scanner).scanBlockComment
	stateHandlers[ST_ONE_LINE_COMMENT] = (*Scanner).scanOneLineComment
	stateHandlers[ST_HALT_COMPILER1] = (*Scanner).scanHaltCompiler
	stateHandlers[ST_HALT_COMPILER2] = (*Scanner).scanHaltCompiler
	stateHandlers[ST_HALT_COMPILER3] = (*Scanner).scanHaltCompiler
}

// ============================================================================
// 构造函数
// ============================================================================

// New 从字符源创建扫描器
func New(r io.Reader, cfg Config) *Scanner {
	s := &Scanner{
		buf:   source.New(r, cfg.OffsetBias),
		cfg:   cfg,
		state: cfg.InitialState,
		atBOL: true,
	}
	return s
}

// NewString 从字符串创建扫描器（测试和宿主常用）
func NewString(src string, cfg Config) *Scanner {
	s := New(nil, cfg)
	s.buf = source.NewString(src)
	return s
}

// ============================================================================
// 公共方法
// ============================================================================

// Next 产出下一个 token
//
// 这是 token 协议的拉取接口：每次调用返回一个完整的 token
// 记录（类型、范围、语义值）。空白和注释也作为 token 产出，
// 由上层决定是否过滤。输入结束后恒定返回 END。
func (s *Scanner) Next() token.Token {
	for {
		s.buf.StartChunk()
		h := stateHandlers[s.state]
		t, ok := h(s)
		if !ok {
			continue
		}
		if s.cfg.Hook != nil {
			s.cfg.Hook(t.Kind, s.buf.Text())
		}
		return t
	}
}

// State 返回当前词法状态
func (s *Scanner) State() LexicalState {
	return s.state
}

// StackDepth 返回状态栈深度
func (s *Scanner) StackDepth() int {
	return len(s.stack)
}

// HeredocLabel 返回当前 heredoc/nowdoc 标签
func (s *Scanner) HeredocLabel() string {
	return s.heredocLabel
}

// DocBlock 返回最近完成的文档注释
//
// 由语法器在声明归约时取走并附加到声明节点上。
func (s *Scanner) DocBlock() (string, token.Span, bool) {
	return s.docBlock, s.docBlockSpan, s.hasDocBlock
}

// ClearDocBlock 清除文档注释（语句边界或取走之后）
func (s *Scanner) ClearDocBlock() {
	s.docBlock = ""
	s.hasDocBlock = false
}

// Cursors 暴露缓冲游标（用于不变量测试）
func (s *Scanner) Cursors() (tokenStart, tokenChunkStart, tokenEnd, lookahead, charsRead int) {
	return s.buf.Cursors()
}

// ============================================================================
// 状态栈
// ============================================================================

// pushState 压入当前状态并切换
func (s *Scanner) pushState(st LexicalState) {
	s.stack = append(s.stack, s.state)
	s.state = st
}

// popState 弹出状态栈
//
// 返回 false 表示栈下溢（致命的扫描器条件，调用方上报）。
func (s *Scanner) popState() bool {
	if len(s.stack) == 0 {
		return false
	}
	s.state = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return true
}

// begin 切换状态，不动栈
func (s *Scanner) begin(st LexicalState) {
	s.state = st
}

// ============================================================================
// 字符操作
// ============================================================================

// adv 前进一个字符并维护行首标记
func (s *Scanner) adv() int {
	ch := s.buf.Advance()
	if ch != source.EOF {
		s.atBOL = ch == '\n'
	}
	return ch
}

// advN 前进 n 个字符
func (s *Scanner) advN(n int) {
	for i := 0; i < n; i++ {
		s.adv()
	}
}

// peek / peekAt 预读
func (s *Scanner) peek() int        { return s.buf.Peek() }
func (s *Scanner) peekAt(n int) int { return s.buf.PeekAt(n) }

// ============================================================================
// Token 产出
// ============================================================================

// accept 以当前片段接受一个无值 token
func (s *Scanner) accept(kind token.Kind) (token.Token, bool) {
	s.buf.MarkTokenEnd()
	return token.New(kind, s.buf.Span()), true
}

// acceptValue 以当前片段接受一个带语义值的 token
func (s *Scanner) acceptValue(kind token.Kind, v token.Value) (token.Token, bool) {
	s.buf.MarkTokenEnd()
	return token.NewWithValue(kind, s.buf.Span(), v), true
}

// acceptError 上报词法错误并产出 T_ERROR
func (s *Scanner) acceptError(msgID string, args ...interface{}) (token.Token, bool) {
	s.buf.MarkTokenEnd()
	sp := s.buf.Span()
	if s.cfg.Reporter != nil {
		s.cfg.Reporter.Error(sp, errors.LexicalError, i18n.T(msgID, args...))
	}
	return token.New(token.T_ERROR, sp), true
}

// warn 在当前 token 范围上报一个警告
func (s *Scanner) warn(code, msgID string, args ...interface{}) {
	if s.cfg.Reporter != nil {
		s.buf.MarkTokenEnd()
		s.cfg.Reporter.Warning(s.buf.Span(), code, i18n.T(msgID, args...))
	}
}

// ============================================================================
// INITIAL - HTML 模式
// ============================================================================

// scanInitial 在 HTML 模式下扫描
//
// 一直累积 T_INLINE_HTML，直到遇到 PHP 开标签或 EOF。
// 开标签在 HTML 之后单独成 token。
func (s *Scanner) scanInitial() (token.Token, bool) {
	if s.halted || s.peek() == source.EOF {
		return s.accept(token.END)
	}

	consumed := false
	for {
		ch := s.peek()
		if ch == source.EOF {
			break
		}
		if ch == '<' && s.peekAt(1) == '?' {
			kind, n := s.openTagAhead()
			if n > 0 {
				if consumed {
					// 先把累积的 HTML 产出，标签留给下一次调用
					break
				}
				s.advN(n)
				s.begin(ST_IN_SCRIPTING)
				return s.accept(kind)
			}
		}
		s.adv()
		consumed = true
	}

	s.buf.MarkTokenEnd()
	return s.acceptValue(token.T_INLINE_HTML, token.TextValue(s.buf.Text()))
}

// openTagAhead 判断预读处是否是 PHP 开标签
//
// 返回标签的 token 类型和长度；长度 0 表示不是开标签。
// `<?php` 吃掉一个紧随的空白字符（\r\n 算一个）。
func (s *Scanner) openTagAhead() (token.Kind, int) {
	// 调用方已确认 <? 开头
	if s.peekAt(2) == '=' {
		return token.T_OPEN_TAG_WITH_ECHO, 3
	}

	// <?php 后面必须是空白或 EOF
	if lowerByte(s.peekAt(2)) == 'p' && lowerByte(s.peekAt(3)) == 'h' && lowerByte(s.peekAt(4)) == 'p' {
		switch s.peekAt(5) {
		case ' ', '\t', '\n':
			return token.T_OPEN_TAG, 6
		case '\r':
			if s.peekAt(6) == '\n' {
				return token.T_OPEN_TAG, 7
			}
			return token.T_OPEN_TAG, 6
		case source.EOF:
			return token.T_OPEN_TAG, 5
		}
		return 0, 0
	}

	if s.cfg.ShortOpenTags {
		return token.T_OPEN_TAG, 2
	}
	return 0, 0
}

func lowerByte(c int) int {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// ============================================================================
// ST_IN_SCRIPTING - 脚本模式
// ============================================================================

// scanScripting 在脚本模式下扫描一个 token
func (s *Scanner) scanScripting() (token.Token, bool) {
	ch := s.adv()

	switch {
	case ch == source.EOF:
		return s.accept(token.END)

	// ----------------------------------------------------------
	// 高频：空白
	// ----------------------------------------------------------
	case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
		for {
			c := s.peek()
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				break
			}
			s.adv()
		}
		return s.accept(token.T_WHITESPACE)

	// ----------------------------------------------------------
	// 标识符与关键字
	// ----------------------------------------------------------
	case ch == 'b' || ch == 'B':
		// b 前缀的二进制字符串: b"..." b'...' b<<<
		switch s.peek() {
		case '"':
			s.binaryNext = true
			s.adv()
			return s.scanDoubleQuoteOpen()
		case '\'':
			s.binaryNext = true
			s.adv()
			return s.startSingleQuotes()
		case '<':
			if s.peekAt(1) == '<' && s.peekAt(2) == '<' {
				s.adv() // 消费第一个 <
				if t, ok, matched := s.tryHeredocOpen(true); matched {
					return t, ok
				}
				s.buf.Back(1)
			}
		}
		return s.scanIdentifier(ch)

	case isLabelStart(ch):
		return s.scanIdentifier(ch)

	// ----------------------------------------------------------
	// 变量
	// ----------------------------------------------------------
	case ch == '$':
		if isLabelStart(s.peek()) {
			name := s.readLabel()
			return s.acceptValue(token.T_VARIABLE, token.TextValue(name))
		}
		return s.accept('$')

	// ----------------------------------------------------------
	// 数字
	// ----------------------------------------------------------
	case isDigit(ch):
		return s.scanNumber(ch)

	case ch == '.':
		if isDigit(s.peek()) {
			return s.scanFloatFraction()
		}
		if s.peek() == '=' {
			s.adv()
			return s.accept(token.T_CONCAT_EQUAL)
		}
		if s.peek() == '.' && s.peekAt(1) == '.' {
			s.advN(2)
			return s.accept(token.T_ELLIPSIS)
		}
		return s.accept('.')

	// ----------------------------------------------------------
	// 字符串
	// ----------------------------------------------------------
	case ch == '"':
		return s.scanDoubleQuoteOpen()

	case ch == '\'':
		return s.startSingleQuotes()

	case ch == '`':
		s.begin(ST_BACKQUOTE)
		return s.accept('`')

	// ----------------------------------------------------------
	// 注释
	// ----------------------------------------------------------
	case ch == '#':
		s.buf.More()
		s.begin(ST_ONE_LINE_COMMENT)
		return (token.Token{}), false

	case ch == '/':
		switch s.peek() {
		case '/':
			s.adv()
			s.buf.More()
			s.begin(ST_ONE_LINE_COMMENT)
			return (token.Token{}), false
		case '*':
			s.adv()
			if s.peek() == '*' && isCommentWS(s.peekAt(1)) {
				s.begin(ST_DOC_COMMENT)
			} else {
				s.begin(ST_COMMENT)
			}
			s.buf.More()
			return (token.Token{}), false
		case '=':
			s.adv()
			return s.accept(token.T_DIV_EQUAL)
		}
		return s.accept('/')

	// ----------------------------------------------------------
	// 大括号：状态栈
	// ----------------------------------------------------------
	case ch == '{':
		s.pushState(ST_IN_SCRIPTING)
		return s.accept('{')

	case ch == '}':
		if !s.popState() {
			// 没有匹配的 '{'：致命的扫描器条件
			return s.acceptError(i18n.ErrUnbalancedRBrace)
		}
		s.ClearDocBlock()
		return s.accept('}')

	// ----------------------------------------------------------
	// 运算符
	// ----------------------------------------------------------
	case ch == '-':
		switch s.peek() {
		case '>':
			s.adv()
			s.pushState(ST_LOOKING_FOR_PROPERTY)
			return s.accept(token.T_OBJECT_OPERATOR)
		case '-':
			s.adv()
			return s.accept(token.T_DEC)
		case '=':
			s.adv()
			return s.accept(token.T_MINUS_EQUAL)
		}
		return s.accept('-')

	case ch == '+':
		switch s.peek() {
		case '+':
			s.adv()
			return s.accept(token.T_INC)
		case '=':
			s.adv()
			return s.accept(token.T_PLUS_EQUAL)
		}
		return s.accept('+')

	case ch == '*':
		switch s.peek() {
		case '*':
			s.adv()
			if s.peek() == '=' {
				s.adv()
				return s.accept(token.T_POW_EQUAL)
			}
			return s.accept(token.T_POW)
		case '=':
			s.adv()
			return s.accept(token.T_MUL_EQUAL)
		}
		return s.accept('*')

	case ch == '%':
		if s.peek() == '=' {
			s.adv()
			return s.accept(token.T_MOD_EQUAL)
		}
		return s.accept('%')

	case ch == '=':
		switch s.peek() {
		case '=':
			s.adv()
			if s.peek() == '=' {
				s.adv()
				return s.accept(token.T_IS_IDENTICAL)
			}
			return s.accept(token.T_IS_EQUAL)
		case '>':
			s.adv()
			return s.accept(token.T_DOUBLE_ARROW)
		}
		return s.accept('=')

	case ch == '!':
		if s.peek() == '=' {
			s.adv()
			if s.peek() == '=' {
				s.adv()
				return s.accept(token.T_IS_NOT_IDENTICAL)
			}
			return s.accept(token.T_IS_NOT_EQUAL)
		}
		return s.accept('!')

	case ch == '<':
		switch s.peek() {
		case '<':
			if s.peekAt(1) == '<' {
				if t, ok, matched := s.tryHeredocOpen(false); matched {
					return t, ok
				}
			}
			s.adv()
			if s.peek() == '=' {
				s.adv()
				return s.accept(token.T_SL_EQUAL)
			}
			return s.accept(token.T_SL)
		case '=':
			s.adv()
			if s.peek() == '>' {
				s.adv()
				return s.accept(token.T_SPACESHIP)
			}
			return s.accept(token.T_IS_SMALLER_OR_EQUAL)
		case '>':
			s.adv()
			return s.accept(token.T_IS_NOT_EQUAL)
		}
		return s.accept('<')

	case ch == '>':
		switch s.peek() {
		case '>':
			s.adv()
			if s.peek() == '=' {
				s.adv()
				return s.accept(token.T_SR_EQUAL)
			}
			return s.accept(token.T_SR)
		case '=':
			s.adv()
			return s.accept(token.T_IS_GREATER_OR_EQUAL)
		}
		return s.accept('>')

	case ch == '&':
		switch s.peek() {
		case '&':
			s.adv()
			return s.accept(token.T_BOOLEAN_AND)
		case '=':
			s.adv()
			return s.accept(token.T_AND_EQUAL)
		}
		return s.accept('&')

	case ch == '|':
		switch s.peek() {
		case '|':
			s.adv()
			return s.accept(token.T_BOOLEAN_OR)
		case '=':
			s.adv()
			return s.accept(token.T_OR_EQUAL)
		}
		return s.accept('|')

	case ch == '^':
		if s.peek() == '=' {
			s.adv()
			return s.accept(token.T_XOR_EQUAL)
		}
		return s.accept('^')

	case ch == '?':
		switch s.peek() {
		case '>':
			// 关标签：充当隐式分号，吃掉一个紧随的换行
			s.adv()
			if s.peek() == '\r' && s.peekAt(1) == '\n' {
				s.advN(2)
			} else if s.peek() == '\n' {
				s.adv()
			}
			s.begin(INITIAL)
			return s.accept(token.T_CLOSE_TAG)
		case '?':
			s.adv()
			return s.accept(token.T_COALESCE)
		}
		return s.accept('?')

	case ch == ':':
		if s.peek() == ':' {
			s.adv()
			return s.accept(token.T_DOUBLE_COLON)
		}
		return s.accept(':')

	case ch == '(':
		if kind, n := s.castAhead(); n > 0 {
			s.advN(n)
			return s.accept(kind)
		}
		return s.accept('(')

	case ch == '\\':
		return s.accept(token.T_NS_SEPARATOR)

	case ch == ')' || ch == '[' || ch == ']' || ch == ';' || ch == ',' ||
		ch == '@' || ch == '~':
		return s.accept(token.Kind(ch))

	default:
		return s.acceptError(i18n.ErrUnexpectedChar, rune(ch))
	}
}

// isCommentWS 文档注释要求 /** 后跟空白
func isCommentWS(c int) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// ============================================================================
// 标识符
// ============================================================================

// scanIdentifier 扫描标识符或关键字（首字符已消费）
func (s *Scanner) scanIdentifier(first int) (token.Token, bool) {
	for isLabelChar(s.peek()) {
		s.adv()
	}
	s.buf.MarkTokenEnd()
	text := s.buf.Text()

	kind := token.LookupIdent(text)
	switch kind {
	case token.T_STRING:
		return s.acceptValue(token.T_STRING, token.TextValue(text))
	case token.T_YIELD:
		// yield 后隔着空白跟 from 时合并为 T_YIELD_FROM
		if n := s.yieldFromAhead(); n > 0 {
			s.advN(n)
			return s.accept(token.T_YIELD_FROM)
		}
		return s.accept(token.T_YIELD)
	case token.T_HALT_COMPILER:
		s.begin(ST_HALT_COMPILER1)
		return s.accept(token.T_HALT_COMPILER)
	default:
		return s.accept(kind)
	}
}

// yieldFromAhead 检查 yield 后面是否隔空白跟着 from
//
// 返回需要消费的字符数（空白 + "from"），不匹配返回 0。
func (s *Scanner) yieldFromAhead() int {
	j := 0
	for {
		c := s.peekAt(j)
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			j++
			continue
		}
		break
	}
	if j == 0 {
		return 0
	}
	if lowerByte(s.peekAt(j)) != 'f' || lowerByte(s.peekAt(j+1)) != 'r' ||
		lowerByte(s.peekAt(j+2)) != 'o' || lowerByte(s.peekAt(j+3)) != 'm' {
		return 0
	}
	if isLabelChar(s.peekAt(j + 4)) {
		return 0
	}
	return j + 4
}

// readLabel 读取一个标识符并返回文本
func (s *Scanner) readLabel() string {
	var name []byte
	for isLabelChar(s.peek()) {
		name = append(name, byte(s.adv()))
	}
	return string(name)
}

// ============================================================================
// 类型转换
// ============================================================================

// castKinds 转换关键字表
var castKinds = map[string]token.Kind{
	"int":     token.T_INT_CAST,
	"integer": token.T_INT_CAST,
	"bool":    token.T_BOOL_CAST,
	"boolean": token.T_BOOL_CAST,
	"float":   token.T_DOUBLE_CAST,
	"double":  token.T_DOUBLE_CAST,
	"real":    token.T_DOUBLE_CAST,
	"string":  token.T_STRING_CAST,
	"binary":  token.T_STRING_CAST,
	"array":   token.T_ARRAY_CAST,
	"object":  token.T_OBJECT_CAST,
	"unset":   token.T_UNSET_CAST,
}

// castAhead 判断 '(' 之后是否是类型转换
//
// 形如 ( [ \t]* word [ \t]* )，word 不区分大小写。
// 返回转换 token 类型和 '(' 之后需要消费的字符数。
func (s *Scanner) castAhead() (token.Kind, int) {
	j := 0
	for s.peekAt(j) == ' ' || s.peekAt(j) == '\t' {
		j++
	}
	var word []byte
	for {
		c := lowerByte(s.peekAt(j))
		if c < 'a' || c > 'z' {
			break
		}
		word = append(word, byte(c))
		j++
	}
	if len(word) == 0 {
		return 0, 0
	}
	for s.peekAt(j) == ' ' || s.peekAt(j) == '\t' {
		j++
	}
	if s.peekAt(j) != ')' {
		return 0, 0
	}
	kind, ok := castKinds[string(word)]
	if !ok {
		return 0, 0
	}
	return kind, j + 1
}

// ============================================================================
// 数字
// ============================================================================

// scanNumber 扫描数字字面量（首个数字已消费）
//
// 四种进制；int64 溢出降级为 float64 并发 TooBigIntegerConversion
// 警告，token 仍然产出。
func (s *Scanner) scanNumber(first int) (token.Token, bool) {
	// 十六进制 0x...
	if first == '0' && (s.peek() == 'x' || s.peek() == 'X') && isHexDigit(s.peekAt(1)) {
		s.adv()
		var digits []byte
		for isHexDigit(s.peek()) {
			digits = append(digits, byte(s.adv()))
		}
		res, iv, fv := decodeHex(string(digits))
		if res == numberDouble {
			s.warn(errors.TooBigIntegerConversion, i18n.ErrIntOverflow)
			return s.acceptValue(token.T_DNUMBER, token.DoubleValue(fv))
		}
		return s.acceptValue(token.T_LNUMBER, token.IntValue(iv))
	}

	// 二进制 0b...
	if first == '0' && (s.peek() == 'b' || s.peek() == 'B') &&
		(s.peekAt(1) == '0' || s.peekAt(1) == '1') {
		s.adv()
		var digits []byte
		for s.peek() == '0' || s.peek() == '1' {
			digits = append(digits, byte(s.adv()))
		}
		res, iv, fv := decodeBinary(string(digits))
		if res == numberDouble {
			s.warn(errors.TooBigIntegerConversion, i18n.ErrIntOverflow)
			return s.acceptValue(token.T_DNUMBER, token.DoubleValue(fv))
		}
		return s.acceptValue(token.T_LNUMBER, token.IntValue(iv))
	}

	// 整数部分
	for isDigit(s.peek()) {
		s.adv()
	}

	// 小数部分
	if s.peek() == '.' && s.peekAt(1) != '.' {
		s.adv()
		for isDigit(s.peek()) {
			s.adv()
		}
		s.exponentAhead()
		return s.finishFloat()
	}

	// 指数部分
	if s.exponentAhead() {
		return s.finishFloat()
	}

	// 整数：以 0 开头按八进制
	s.buf.MarkTokenEnd()
	text := s.buf.Text()
	res, iv, fv := decodeDecimal(text)
	if res == numberDouble {
		s.warn(errors.TooBigIntegerConversion, i18n.ErrIntOverflow)
		return s.acceptValue(token.T_DNUMBER, token.DoubleValue(fv))
	}
	return s.acceptValue(token.T_LNUMBER, token.IntValue(iv))
}

// scanFloatFraction 扫描以 '.' 开头的浮点数（'.' 已消费）
func (s *Scanner) scanFloatFraction() (token.Token, bool) {
	for isDigit(s.peek()) {
		s.adv()
	}
	s.exponentAhead()
	return s.finishFloat()
}

// exponentAhead 若预读处是合法指数则消费之
func (s *Scanner) exponentAhead() bool {
	c := s.peek()
	if c != 'e' && c != 'E' {
		return false
	}
	j := 1
	if s.peekAt(j) == '+' || s.peekAt(j) == '-' {
		j++
	}
	if !isDigit(s.peekAt(j)) {
		return false
	}
	s.advN(j)
	for isDigit(s.peek()) {
		s.adv()
	}
	return true
}

// finishFloat 以当前片段产出 T_DNUMBER
func (s *Scanner) finishFloat() (token.Token, bool) {
	s.buf.MarkTokenEnd()
	return s.acceptValue(token.T_DNUMBER, token.DoubleValue(decodeDouble(s.buf.Text())))
}

// ============================================================================
// 单引号字符串
// ============================================================================

// startSingleQuotes 进入单引号状态（开引号已消费）
func (s *Scanner) startSingleQuotes() (token.Token, bool) {
	s.buf.More()
	s.begin(ST_SINGLE_QUOTES)
	return (token.Token{}), false
}

// scanSingleQuotes 扫描单引号字符串体并产出完整字面量
//
// 只认 \\ 和 \' 转义。结束后回到脚本模式。
func (s *Scanner) scanSingleQuotes() (token.Token, bool) {
	contentStart := len("'")
	if s.binaryNext {
		contentStart++ // b 前缀
	}
	for {
		c := s.peek()
		switch c {
		case source.EOF:
			s.begin(ST_IN_SCRIPTING)
			s.binaryNext = false
			return s.acceptError(i18n.ErrUnterminatedString)
		case '\\':
			s.adv()
			if s.peek() != source.EOF {
				s.adv()
			}
		case '\'':
			s.adv()
			s.begin(ST_IN_SCRIPTING)
			s.buf.MarkTokenEnd()
			text := s.buf.Text()
			raw := text[contentStart : len(text)-1]
			v := decodeSingleQuoted(raw, s.binaryNext)
			s.binaryNext = false
			return s.acceptValue(token.T_CONSTANT_ENCAPSED_STRING, v)
		default:
			s.adv()
		}
	}
}

// ============================================================================
// 双引号字符串
// ============================================================================

// scanDoubleQuoteOpen 处理脚本模式里的开双引号（引号已消费）
//
// 快速路径：整个字符串没有插值点时一次产出
// T_CONSTANT_ENCAPSED_STRING，不进入 ST_DOUBLE_QUOTES。
// 否则产出 '"' 哨兵 token 并切换状态。
func (s *Scanner) scanDoubleQuoteOpen() (token.Token, bool) {
	j := 0
	simple := true
scan:
	for {
		c := s.peekAt(j)
		switch {
		case c == source.EOF:
			break scan
		case c == '"':
			break scan
		case c == '\\':
			j += 2
		case c == '$' && (isLabelStart(s.peekAt(j+1)) || s.peekAt(j+1) == '{'):
			simple = false
			break scan
		case c == '{' && s.peekAt(j+1) == '$':
			simple = false
			break scan
		default:
			j++
		}
	}

	if !simple {
		s.begin(ST_DOUBLE_QUOTES)
		return s.accept('"')
	}

	if s.peekAt(j) == source.EOF {
		s.advN(j)
		s.binaryNext = false
		return s.acceptError(i18n.ErrUnterminatedString)
	}

	// 快速路径：无插值，整体消费
	contentAt := s.buf.LookaheadOffset()
	s.advN(j + 1)
	s.buf.MarkTokenEnd()
	text := s.buf.Text()
	prefix := 1
	if s.binaryNext {
		prefix++
	}
	raw := text[prefix : len(text)-1]
	v := decodeDoubleQuoted(raw, '"', s.binaryNext, contentAt, s.cfg.Reporter)
	s.binaryNext = false
	return s.acceptValue(token.T_CONSTANT_ENCAPSED_STRING, v)
}

// scanDoubleQuotes ST_DOUBLE_QUOTES 状态
func (s *Scanner) scanDoubleQuotes() (token.Token, bool) {
	return s.scanInterpolated('"')
}

// scanBackquote ST_BACKQUOTE 状态（shell 执行）
func (s *Scanner) scanBackquote() (token.Token, bool) {
	return s.scanInterpolated('`')
}

// scanInterpolated 扫描插值体（双引号、反引号或 heredoc）
//
// quote 为 0 表示 heredoc（没有结束引号，结束标签锚定行首）。
// 每次调用产出一个插值部件：文本片段、变量、或插值哨兵。
func (s *Scanner) scanInterpolated(quote int) (token.Token, bool) {
	heredoc := quote == 0

	ch := s.peek()
	if ch == source.EOF {
		s.begin(ST_IN_SCRIPTING)
		if heredoc {
			label := s.heredocLabel
			s.heredocLabel = ""
			return s.acceptError(i18n.ErrUnterminatedHeredoc, label)
		}
		return s.acceptError(i18n.ErrUnterminatedString)
	}

	// 结束引号
	if !heredoc && ch == quote {
		s.adv()
		s.begin(ST_IN_SCRIPTING)
		s.binaryNext = false
		return s.accept(token.Kind(quote))
	}

	// 行首的 heredoc 结束标签
	if heredoc && s.atBOL && s.heredocEndAhead() {
		s.begin(ST_END_HEREDOC)
		return (token.Token{}), false
	}

	// $name 变量插值
	if ch == '$' && isLabelStart(s.peekAt(1)) {
		s.adv()
		name := s.readLabel()

		// $name[...]：进入变量下标状态
		if s.peek() == '[' {
			s.pushState(ST_VAR_OFFSET)
		} else if s.peek() == '-' && s.peekAt(1) == '>' && isLabelStart(s.peekAt(2)) {
			// $name->prop：属性访问接力
			s.pushState(ST_LOOKING_FOR_PROPERTY)
		}
		return s.acceptValue(token.T_VARIABLE, token.TextValue(name))
	}

	// ${name} 插值
	if ch == '$' && s.peekAt(1) == '{' {
		s.advN(2)
		s.pushState(ST_LOOKING_FOR_VARNAME)
		return s.accept(token.T_DOLLAR_OPEN_CURLY_BRACES)
	}

	// {$expr} 插值
	if ch == '{' && s.peekAt(1) == '$' {
		s.adv()
		s.pushState(ST_IN_SCRIPTING)
		return s.accept(token.T_CURLY_OPEN)
	}

	// 文本片段：累积到下一个插值点、结束引号或结束标签
	contentAt := s.buf.LookaheadOffset()
	for {
		c := s.peek()
		if c == source.EOF {
			break
		}
		if !heredoc && c == quote {
			break
		}
		if c == '$' && (isLabelStart(s.peekAt(1)) || s.peekAt(1) == '{') {
			break
		}
		if c == '{' && s.peekAt(1) == '$' {
			break
		}
		if c == '\\' && s.peekAt(1) != source.EOF {
			s.advN(2)
			continue
		}
		s.adv()
		if c == '\n' && heredoc && s.heredocEndAhead() {
			break
		}
	}

	s.buf.MarkTokenEnd()
	raw := s.buf.Text()
	q := byte(0)
	if !heredoc {
		q = byte(quote)
	}
	v := decodeDoubleQuoted(raw, q, s.binaryNext, contentAt, s.cfg.Reporter)
	return s.acceptValue(token.T_ENCAPSED_AND_WHITESPACE, v)
}

// ============================================================================
// Heredoc / Nowdoc
// ============================================================================

// tryHeredocOpen 尝试识别 <<< 开头的 heredoc/nowdoc
//
// 已消费第一个 '<'，预读处是 "<<"。形式：
//
//	<<<[ \t]*LABEL\n    heredoc
//	<<<[ \t]*"LABEL"\n  heredoc
//	<<<[ \t]*'LABEL'\n  nowdoc
//
// 成功时消费全部并产出 T_START_HEREDOC；matched 为 false 表示
// 不是 heredoc，调用方按运算符处理。
func (s *Scanner) tryHeredocOpen(binary bool) (token.Token, bool, bool) {
	j := 2
	for s.peekAt(j) == ' ' || s.peekAt(j) == '\t' {
		j++
	}
	q := 0
	if s.peekAt(j) == '\'' || s.peekAt(j) == '"' {
		q = s.peekAt(j)
		j++
	}
	if !isLabelStart(s.peekAt(j)) {
		return token.Token{}, false, false
	}
	labelStart := j
	for isLabelChar(s.peekAt(j)) {
		j++
	}
	labelEnd := j
	if q != 0 {
		if s.peekAt(j) != q {
			return token.Token{}, false, false
		}
		j++
	}
	switch s.peekAt(j) {
	case '\n':
		j++
	case '\r':
		j++
		if s.peekAt(j) == '\n' {
			j++
		}
	default:
		return token.Token{}, false, false
	}

	// 捕获标签文本
	var label []byte
	for k := labelStart; k < labelEnd; k++ {
		label = append(label, byte(s.peekAt(k)))
	}

	s.advN(j)
	s.heredocLabel = string(label)
	s.binaryNext = binary
	if q == '\'' {
		s.begin(ST_NOWDOC)
	} else {
		s.begin(ST_HEREDOC)
	}
	t, ok := s.accept(token.T_START_HEREDOC)
	return t, ok, true
}

// heredocEndAhead 判断预读处（行首）是否是结束标签
//
// 标签后允许一个可选的 ';'，随后必须是换行或 EOF。
// 标签只是某行内容的子串时不会终止。
func (s *Scanner) heredocEndAhead() bool {
	label := s.heredocLabel
	for k := 0; k < len(label); k++ {
		if s.peekAt(k) != int(label[k]) {
			return false
		}
	}
	j := len(label)
	if isLabelChar(s.peekAt(j)) {
		return false
	}
	if s.peekAt(j) == ';' {
		j++
	}
	switch s.peekAt(j) {
	case '\n', source.EOF:
		return true
	case '\r':
		return true
	}
	return false
}

// scanHeredoc ST_HEREDOC 状态：带插值的 heredoc 体
func (s *Scanner) scanHeredoc() (token.Token, bool) {
	return s.scanInterpolated(0)
}

// scanNowdoc ST_NOWDOC 状态：无插值的 nowdoc 体
//
// nowdoc 没有任何转义，字节原样进入语义值。
func (s *Scanner) scanNowdoc() (token.Token, bool) {
	if s.atBOL && s.heredocEndAhead() {
		s.begin(ST_END_HEREDOC)
		return (token.Token{}), false
	}

	for {
		c := s.peek()
		if c == source.EOF {
			s.begin(ST_IN_SCRIPTING)
			label := s.heredocLabel
			s.heredocLabel = ""
			return s.acceptError(i18n.ErrUnterminatedHeredoc, label)
		}
		s.adv()
		if c == '\n' && s.heredocEndAhead() {
			break
		}
	}

	s.buf.MarkTokenEnd()
	raw := s.buf.Text()
	var v token.Value
	if s.binaryNext {
		v = token.BytesValue([]byte(raw))
	} else {
		v = token.TextValue(raw)
	}
	return s.acceptValue(token.T_ENCAPSED_AND_WHITESPACE, v)
}

// scanEndHeredoc ST_END_HEREDOC 状态：消费结束标签
//
// 标签后的 ';' 和换行不属于 T_END_HEREDOC，正常成 token。
func (s *Scanner) scanEndHeredoc() (token.Token, bool) {
	label := s.heredocLabel
	s.advN(len(label))
	s.heredocLabel = ""
	s.binaryNext = false
	s.begin(ST_IN_SCRIPTING)
	return s.acceptValue(token.T_END_HEREDOC, token.TextValue(label))
}

// ============================================================================
// ST_LOOKING_FOR_PROPERTY - 属性访问
// ============================================================================

// scanLookingForProperty -> 之后的状态
//
// 紧随的标识符无条件是 T_STRING，即使它拼写成关键字
// （$o->list 里的 list）。中间允许空白。不是标识符时静默
// 弹出状态，重新按原状态扫描。
func (s *Scanner) scanLookingForProperty() (token.Token, bool) {
	ch := s.peek()
	switch {
	case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
		for {
			c := s.peek()
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				break
			}
			s.adv()
		}
		return s.accept(token.T_WHITESPACE)

	case ch == '-' && s.peekAt(1) == '>':
		s.advN(2)
		return s.accept(token.T_OBJECT_OPERATOR)

	case isLabelStart(ch):
		name := s.readLabel()
		s.popState()
		return s.acceptValue(token.T_STRING, token.TextValue(name))

	default:
		// 回绕：什么都没消费，弹出后按原状态继续
		s.popState()
		return (token.Token{}), false
	}
}

// ============================================================================
// ST_LOOKING_FOR_VARNAME - ${name} 插值
// ============================================================================

// scanLookingForVarname ${ 之后的状态
//
// 紧随的标识符且后面是 '}' 或 '[' 时产出 T_STRING_VARNAME；
// 否则切回脚本状态按表达式解析（${expr} 形式）。
// 两种情况状态都替换为 ST_IN_SCRIPTING，之后的 '}' 弹回
// 引号状态。
func (s *Scanner) scanLookingForVarname() (token.Token, bool) {
	if isLabelStart(s.peek()) {
		j := 1
		for isLabelChar(s.peekAt(j)) {
			j++
		}
		if s.peekAt(j) == '}' || s.peekAt(j) == '[' {
			name := s.readLabel()
			s.begin(ST_IN_SCRIPTING)
			return s.acceptValue(token.T_STRING_VARNAME, token.TextValue(name))
		}
	}
	s.begin(ST_IN_SCRIPTING)
	return (token.Token{}), false
}

// ============================================================================
// ST_VAR_OFFSET - 变量下标
// ============================================================================

// scanVarOffset 插值中 $a[...] 的下标状态
//
// 数字下标先按 int64 解析，放不下时保留原文产出 T_NUM_STRING。
func (s *Scanner) scanVarOffset() (token.Token, bool) {
	ch := s.peek()
	switch {
	case ch == source.EOF:
		s.popState()
		return s.accept(token.END)

	case ch == ']':
		s.adv()
		s.popState()
		return s.accept(']')

	case ch == '[':
		s.adv()
		return s.accept('[')

	case isDigit(ch):
		s.adv()
		for isDigit(s.peek()) {
			s.adv()
		}
		s.buf.MarkTokenEnd()
		text := s.buf.Text()
		// 前导零按字符串下标处理，溢出时保留原文
		if text[0] == '0' && len(text) > 1 {
			return s.acceptValue(token.T_NUM_STRING, token.TextValue(text))
		}
		res, iv, _ := decodeDecimal(text)
		if res == numberDouble {
			return s.acceptValue(token.T_NUM_STRING, token.TextValue(text))
		}
		return s.acceptValue(token.T_NUM_STRING, token.IntValue(iv))

	case ch == '$' && isLabelStart(s.peekAt(1)):
		s.adv()
		name := s.readLabel()
		return s.acceptValue(token.T_VARIABLE, token.TextValue(name))

	case isLabelStart(ch):
		name := s.readLabel()
		return s.acceptValue(token.T_STRING, token.TextValue(name))

	case ch == '-':
		s.adv()
		return s.accept('-')

	default:
		s.adv()
		s.popState()
		return s.acceptError(i18n.ErrUnexpectedChar, rune(ch))
	}
}

// ============================================================================
// 注释
// ============================================================================

// scanOneLineComment // 或 # 注释（起始标记已消费）
//
// 到行尾或 ?> 之前结束；换行不属于注释文本。
func (s *Scanner) scanOneLineComment() (token.Token, bool) {
	for {
		c := s.peek()
		if c == source.EOF || c == '\n' {
			break
		}
		if c == '\r' && s.peekAt(1) == '\n' {
			break
		}
		if c == '?' && s.peekAt(1) == '>' {
			break
		}
		s.adv()
	}
	s.begin(ST_IN_SCRIPTING)
	return s.accept(token.T_COMMENT)
}

// scanBlockComment /* 或 /** 注释（起始标记已消费）
//
// 文档注释整体存入 docBlock，等待附加到下一个声明。
func (s *Scanner) scanBlockComment() (token.Token, bool) {
	doc := s.state == ST_DOC_COMMENT
	closed := false
	for {
		c := s.peek()
		if c == source.EOF {
			break
		}
		if c == '*' && s.peekAt(1) == '/' {
			s.advN(2)
			closed = true
			break
		}
		s.adv()
	}
	s.begin(ST_IN_SCRIPTING)

	if !closed {
		return s.acceptError(i18n.ErrUnterminatedComment)
	}

	if doc {
		s.buf.MarkTokenEnd()
		s.docBlock = s.buf.Text()
		s.docBlockSpan = s.buf.Span()
		s.hasDocBlock = true
		return s.accept(token.T_DOC_COMMENT)
	}
	return s.accept(token.T_COMMENT)
}

// ============================================================================
// __halt_compiler
// ============================================================================

// scanHaltCompiler __halt_compiler 之后的三个子状态
//
// 依次走过 '(' ')' ';'，随后剩余输入全部是数据，扫描器
// 回到 INITIAL 并恒定产出 END。子状态里遇到意外字符时
// 回到脚本模式，让语法器报错。
func (s *Scanner) scanHaltCompiler() (token.Token, bool) {
	// 子状态之间允许空白
	ch := s.peek()
	if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
		for {
			c := s.peek()
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				break
			}
			s.adv()
		}
		return s.accept(token.T_WHITESPACE)
	}

	var want int
	var next LexicalState
	switch s.state {
	case ST_HALT_COMPILER1:
		want, next = '(', ST_HALT_COMPILER2
	case ST_HALT_COMPILER2:
		want, next = ')', ST_HALT_COMPILER3
	default:
		want, next = ';', INITIAL
	}

	if ch != want {
		s.begin(ST_IN_SCRIPTING)
		return (token.Token{}), false
	}

	s.adv()
	s.begin(next)
	if next == INITIAL {
		s.halted = true
	}
	return s.accept(token.Kind(want))
}
