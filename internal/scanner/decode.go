package scanner

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tluyben/phpfront/internal/errors"
	"github.com/tluyben/phpfront/internal/i18n"
	"github.com/tluyben/phpfront/internal/token"
)

// ============================================================================
// 字面量解码 - Token 后处理
// ============================================================================
//
// 扫描器接受一段原始文本后，由这里的解码器产出语义值：
// 1. 数字：四种进制，int64 溢出时降级为 float64 并发出警告
// 2. 单引号字符串：只认 \\ 和 \' 两个转义
// 3. 双引号/heredoc：完整转义集，含八进制、\x、\u{...}
// 4. 二进制字符串：b 前缀，字节原样累积
//
// 数字溢出走显式的溢出检查，由解码器返回结果种类，
// 不用异常式的控制流。
//
// ============================================================================

// numberResult 数字解码结果的种类
type numberResult int

const (
	numberInt    numberResult = iota // int64 放得下
	numberDouble                     // 溢出，降级为 float64
)

// ============================================================================
// 整数解码
// ============================================================================

// decodeDecimal 解码十进制或八进制整数
//
// 以 0 开头按八进制处理，否则十进制。
// 溢出时重新按浮点累积，返回 numberDouble。
func decodeDecimal(text string) (numberResult, int64, float64) {
	base := int64(10)
	digits := text
	if len(text) > 1 && text[0] == '0' {
		base = 8
		digits = text[1:]
	}

	var iv int64
	for i := 0; i < len(digits); i++ {
		d := int64(digits[i] - '0')
		// 溢出检查：iv*base + d > MaxInt64
		if iv > (math.MaxInt64-d)/base {
			return numberDouble, 0, accumulateFloat(digits, float64(base))
		}
		iv = iv*base + d
	}
	return numberInt, iv, 0
}

// decodeHex 解码十六进制整数（不含 0x 前缀）
//
// 前导零剥掉之后：
//   - 有效位 > 16 必然溢出，降级为 float64
//   - 有效位 = 16 时看首位：< '8' 仍是 int64，否则降级
//   - 其余情况 int64 放得下
func decodeHex(digits string) (numberResult, int64, float64) {
	sig := strings.TrimLeft(digits, "0")
	if len(sig) == 0 {
		return numberInt, 0, 0
	}

	overflow := len(sig) > 16 || (len(sig) == 16 && sig[0] >= '8')
	if overflow {
		return numberDouble, 0, accumulateHexFloat(sig)
	}

	var iv int64
	for i := 0; i < len(sig); i++ {
		iv = iv<<4 | int64(hexVal(sig[i]))
	}
	return numberInt, iv, 0
}

// decodeBinary 解码二进制整数（不含 0b 前缀）
//
// 有效位 > 63 时溢出，降级为 float64。
func decodeBinary(digits string) (numberResult, int64, float64) {
	sig := strings.TrimLeft(digits, "0")
	if len(sig) == 0 {
		return numberInt, 0, 0
	}
	if len(sig) > 63 {
		var fv float64
		for i := 0; i < len(sig); i++ {
			fv = fv*2 + float64(sig[i]-'0')
		}
		return numberDouble, 0, fv
	}

	var iv int64
	for i := 0; i < len(sig); i++ {
		iv = iv<<1 | int64(sig[i]-'0')
	}
	return numberInt, iv, 0
}

// decodeDouble 解码浮点字面量
//
// 标准 float64 解析，溢出按 ±Inf 处理（ParseFloat 的 ErrRange
// 语义正好如此，结果值直接可用）。
func decodeDouble(text string) float64 {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return v // ±Inf
		}
		return 0
	}
	return v
}

// accumulateFloat 按给定基数把数字串累积为 float64
func accumulateFloat(digits string, base float64) float64 {
	var fv float64
	for i := 0; i < len(digits); i++ {
		fv = fv*base + float64(digits[i]-'0')
	}
	return fv
}

// accumulateHexFloat 把十六进制数字串累积为 float64
func accumulateHexFloat(digits string) float64 {
	var fv float64
	for i := 0; i < len(digits); i++ {
		fv = fv*16 + float64(hexVal(digits[i]))
	}
	return fv
}

// hexVal 单个十六进制数字的值
func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 0
	}
}

// isHexDigit 判断是否为十六进制数字
func isHexDigit(c int) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isDigit 判断是否为数字 0-9
func isDigit(c int) bool {
	return c >= '0' && c <= '9'
}

// isOctalDigit 判断是否为八进制数字
func isOctalDigit(c int) bool {
	return c >= '0' && c <= '7'
}

// isLabelStart 判断是否为标识符起始字符
//
// PHP 的标识符允许 0x80 以上的任意字节。
func isLabelStart(c int) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80
}

// isLabelChar 判断是否为标识符后续字符
func isLabelChar(c int) bool {
	return isLabelStart(c) || isDigit(c)
}

// ============================================================================
// 字符串构建器
// ============================================================================

// literalBuilder 字面量文本累积器
//
// 文本模式下累积 UTF-8 文本；二进制字面量（b 前缀）下
// 字节原样累积，产出 Bytes 语义值。
type literalBuilder struct {
	binary bool
	sb     strings.Builder
}

func (b *literalBuilder) writeByte(c byte) {
	b.sb.WriteByte(c)
}

func (b *literalBuilder) writeRune(r rune) {
	b.sb.WriteRune(r)
}

func (b *literalBuilder) writeString(s string) {
	b.sb.WriteString(s)
}

// value 产出语义值，按模式选择 Text 或 Bytes 标签
func (b *literalBuilder) value() token.Value {
	if b.binary {
		return token.BytesValue([]byte(b.sb.String()))
	}
	return token.TextValue(b.sb.String())
}

// ============================================================================
// 单引号字符串解码
// ============================================================================

// decodeSingleQuoted 解码单引号字符串内容（不含引号）
//
// 只认两个转义：\\ 和 \'。其余反斜杠原样保留。
func decodeSingleQuoted(raw string, binary bool) token.Value {
	b := literalBuilder{binary: binary}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\\' && i+1 < len(raw) && (raw[i+1] == '\\' || raw[i+1] == '\'') {
			i++
			c = raw[i]
		}
		b.writeByte(c)
	}
	return b.value()
}

// ============================================================================
// 双引号 / heredoc 解码
// ============================================================================

// decodeDoubleQuoted 解码双引号、heredoc 或反引号体中的文本片段
//
// 转义集: \n \r \t \v \f \e \\ \$ 以及结束引号自身；
// 八进制 \NNN 最多三位；十六进制 \xHH 最多两位；
// Unicode \u{...}（\U{...} 同义）。
// 无法识别的转义序列原样保留（反斜杠 + 字符）。
//
// 参数:
//   - raw: 原始片段（不含定界符）
//   - quote: 结束定界符（'"'、'`'，heredoc 传 0）
//   - binary: 是否为二进制字面量
//   - at: 片段在源中的起始偏移（用于诊断定位）
//   - rep: 诊断接收器（可为 nil）
func decodeDoubleQuoted(raw string, quote byte, binary bool, at int, rep errors.Reporter) token.Value {
	b := literalBuilder{binary: binary}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.writeByte(c)
			continue
		}

		i++
		e := raw[i]
		switch {
		case e == 'n':
			b.writeByte('\n')
		case e == 'r':
			b.writeByte('\r')
		case e == 't':
			b.writeByte('\t')
		case e == 'v':
			b.writeByte('\v')
		case e == 'f':
			b.writeByte('\f')
		case e == 'e':
			b.writeByte(0x1b)
		case e == '\\':
			b.writeByte('\\')
		case e == '$':
			b.writeByte('$')
		case quote != 0 && e == quote:
			b.writeByte(quote)
		case e >= '0' && e <= '7':
			// 八进制 \NNN，最多三位
			v := int(e - '0')
			for n := 1; n < 3 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
				i++
				v = v*8 + int(raw[i]-'0')
			}
			b.writeByte(byte(v))
		case e == 'x' || e == 'X':
			// 十六进制 \xHH，最多两位；没有数字时原样保留
			if i+1 < len(raw) && isHexDigit(int(raw[i+1])) {
				i++
				v := hexVal(raw[i])
				if i+1 < len(raw) && isHexDigit(int(raw[i+1])) {
					i++
					v = v*16 + hexVal(raw[i])
				}
				b.writeByte(byte(v))
			} else {
				b.writeByte('\\')
				b.writeByte(e)
			}
		case (e == 'u' || e == 'U') && i+1 < len(raw) && raw[i+1] == '{':
			// Unicode \u{...}
			end := strings.IndexByte(raw[i+2:], '}')
			if end < 0 {
				b.writeByte('\\')
				b.writeByte(e)
				break
			}
			name := raw[i+2 : i+2+end]
			i += 2 + end
			cp, ok := parseCodePoint(name)
			switch {
			case !ok:
				if rep != nil {
					rep.Warning(token.NewSpan(at, len(raw)), errors.InvalidCodePointName,
						i18n.T(i18n.ErrInvalidCodePointName, name))
				}
				b.writeString("\\" + string(e) + "{" + name + "}")
			case cp > utf8.MaxRune:
				if rep != nil {
					rep.Warning(token.NewSpan(at, len(raw)), errors.InvalidCodePoint,
						i18n.T(i18n.ErrInvalidCodePoint))
				}
				b.writeString("\\" + string(e) + "{" + name + "}")
			default:
				b.writeRune(rune(cp))
			}
		default:
			// 无法识别的转义，原样保留
			b.writeByte('\\')
			b.writeByte(e)
		}
	}

	return b.value()
}

// parseCodePoint 解析 \u{...} 里的十六进制码点
func parseCodePoint(name string) (int64, bool) {
	if len(name) == 0 {
		return 0, false
	}
	var v int64
	for i := 0; i < len(name); i++ {
		if !isHexDigit(int(name[i])) {
			return 0, false
		}
		v = v<<4 | int64(hexVal(name[i]))
		if v > 0x7fffffff {
			// 够判断超界了，避免继续移位溢出
			return v, true
		}
	}
	return v, true
}
