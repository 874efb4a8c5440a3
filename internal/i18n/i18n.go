// Package i18n 提供诊断消息的多语言支持
package i18n

import (
	"fmt"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// SetLanguageFromString 从字符串设置语言
func SetLanguageFromString(lang string) {
	switch lang {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		SetLanguage(LangChinese)
	default:
		SetLanguage(LangEnglish)
	}
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// ============================================================================
// 消息 ID
// ============================================================================
//
// 扫描器和语法器只引用这些 ID，文案在 en.go / zh.go 中维护。
//
// ============================================================================

const (
	// ========== 扫描器 ==========
	ErrUnexpectedChar       = "lexer.unexpected_char"
	ErrUnterminatedComment  = "lexer.unterminated_comment"
	ErrUnterminatedString   = "lexer.unterminated_string"
	ErrUnterminatedHeredoc  = "lexer.unterminated_heredoc"
	ErrUnbalancedRBrace     = "lexer.unbalanced_rbrace"
	ErrStateStackUnderflow  = "lexer.state_stack_underflow"
	ErrIntOverflow          = "lexer.int_overflow"
	ErrInvalidCodePoint     = "lexer.invalid_codepoint"
	ErrInvalidCodePointName = "lexer.invalid_codepoint_name"
	ErrLexicalError         = "lexer.lexical_error"

	// ========== 语法器 ==========
	ErrSyntaxError           = "parser.syntax_error"
	ErrUnexpectedToken       = "parser.unexpected_token"
	ErrExpectedToken         = "parser.expected_token"
	ErrExpectedExpression    = "parser.expected_expression"
	ErrExpectedIdentifier    = "parser.expected_identifier"
	ErrExpectedVariable      = "parser.expected_variable"
	ErrExpectedTypeName      = "parser.expected_type_name"
	ErrExpectedClassMember   = "parser.expected_class_member"
	ErrHaltCompilerTopLevel  = "parser.halt_compiler_top_level"
	ErrTooManyErrors         = "parser.too_many_errors"
	ErrExprTooDeep           = "parser.expr_too_deep"
	ErrInvalidAssignTarget   = "parser.invalid_assign_target"
	ErrAbstractMethodBody    = "parser.abstract_method_body"
	ErrInterfaceMethodBody   = "parser.interface_method_body"
	ErrExpectedHeredocEnd    = "parser.expected_heredoc_end"
	ErrExpectedAltSyntaxEnd  = "parser.expected_alt_syntax_end"
	ErrUseInsideNamespace    = "parser.use_inside_braced_block"
	ErrDuplicateDefaultCase  = "parser.duplicate_default_case"
	ErrPropertyWithoutName   = "parser.property_without_name"
	ErrParamAfterVariadic    = "parser.param_after_variadic"
)

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	var messages map[string]string
	switch lang {
	case LangChinese:
		messages = messagesZH
	default:
		messages = messagesEN
	}

	if msg, ok := messages[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 回退到英文
	if msg, ok := messagesEN[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 找不到翻译则返回原始 ID
	return msgID
}
