package i18n

var messagesZH = map[string]string{
	// ========== 扫描器 ==========
	ErrUnexpectedChar:       "意外字符 '%c'",
	ErrUnterminatedComment:  "未闭合的块注释",
	ErrUnterminatedString:   "未闭合的字符串字面量",
	ErrUnterminatedHeredoc:  "未闭合的 heredoc，期望结束标签 '%s'",
	ErrUnbalancedRBrace:     "意外的 '}'，没有匹配的 '{'",
	ErrStateStackUnderflow:  "扫描器状态栈下溢",
	ErrIntOverflow:          "整数字面量过大，已转为浮点数",
	ErrInvalidCodePoint:     "无效的 UTF-8 码点转义：码点超出范围",
	ErrInvalidCodePointName: "无效的 UTF-8 码点转义：'%s' 不是合法码点",
	ErrLexicalError:         "词法错误：'%s'",

	// ========== 语法器 ==========
	ErrSyntaxError:          "语法错误，位于 '%s' 附近",
	ErrUnexpectedToken:      "意外的 token %s",
	ErrExpectedToken:        "期望 %s",
	ErrExpectedExpression:   "期望表达式",
	ErrExpectedIdentifier:   "期望标识符",
	ErrExpectedVariable:     "期望变量",
	ErrExpectedTypeName:     "期望类型名",
	ErrExpectedClassMember:  "期望类成员声明",
	ErrHaltCompilerTopLevel: "__halt_compiler() 只能在最外层作用域使用",
	ErrTooManyErrors:        "错误过多，停止解析",
	ErrExprTooDeep:          "表达式嵌套过深",
	ErrInvalidAssignTarget:  "无效的赋值目标",
	ErrAbstractMethodBody:   "抽象方法不能有方法体",
	ErrInterfaceMethodBody:  "接口方法不能有方法体",
	ErrExpectedHeredocEnd:   "期望 heredoc 结束标签",
	ErrExpectedAltSyntaxEnd: "期望 '%s' 来闭合替代语法块",
	ErrUseInsideNamespace:   "use 声明必须位于块体之前",
	ErrDuplicateDefaultCase: "switch 语句已经有 default 分支",
	ErrPropertyWithoutName:  "属性声明缺少修饰符（public、protected、private、static 或 var）",
	ErrParamAfterVariadic:   "可变参数之后不允许再有参数",
}
