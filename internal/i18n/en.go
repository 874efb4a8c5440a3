package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:       "unexpected character '%c'",
	ErrUnterminatedComment:  "unterminated block comment",
	ErrUnterminatedString:   "unterminated string literal",
	ErrUnterminatedHeredoc:  "unterminated heredoc, expected label '%s'",
	ErrUnbalancedRBrace:     "unexpected '}', no matching '{'",
	ErrStateStackUnderflow:  "scanner state stack underflow",
	ErrIntOverflow:          "integer literal too large, converted to float",
	ErrInvalidCodePoint:     "invalid UTF-8 codepoint escape sequence: codepoint out of range",
	ErrInvalidCodePointName: "invalid UTF-8 codepoint escape sequence: '%s' is not a valid codepoint",
	ErrLexicalError:         "lexical error at '%s'",

	// ========== Parser ==========
	ErrSyntaxError:          "syntax error near '%s'",
	ErrUnexpectedToken:      "unexpected token %s",
	ErrExpectedToken:        "expected %s",
	ErrExpectedExpression:   "expected expression",
	ErrExpectedIdentifier:   "expected identifier",
	ErrExpectedVariable:     "expected variable",
	ErrExpectedTypeName:     "expected type name",
	ErrExpectedClassMember:  "expected class member declaration",
	ErrHaltCompilerTopLevel: "__halt_compiler() can only be used from the outermost scope",
	ErrTooManyErrors:        "too many errors, aborting",
	ErrExprTooDeep:          "expression too deeply nested",
	ErrInvalidAssignTarget:  "invalid assignment target",
	ErrAbstractMethodBody:   "abstract method cannot have a body",
	ErrInterfaceMethodBody:  "interface method cannot have a body",
	ErrExpectedHeredocEnd:   "expected heredoc end label",
	ErrExpectedAltSyntaxEnd: "expected '%s' to close alternative syntax block",
	ErrUseInsideNamespace:   "use declarations must precede the block body",
	ErrDuplicateDefaultCase: "switch statement already has a default case",
	ErrPropertyWithoutName:  "property declaration requires a modifier (public, protected, private, static or var)",
	ErrParamAfterVariadic:   "no parameters allowed after variadic parameter",
}
