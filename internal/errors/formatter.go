package errors

import (
	"fmt"
	"os"
	"strings"
)

// ============================================================================
// 终端颜色
// ============================================================================

// Color 终端颜色
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorYellow
	ColorCyan
	ColorBoldRed
	ColorBoldYellow
)

// ANSI 颜色代码
var ansiCodes = map[Color]string{
	ColorReset:      "\033[0m",
	ColorRed:        "\033[31m",
	ColorYellow:     "\033[33m",
	ColorCyan:       "\033[36m",
	ColorBoldRed:    "\033[1;31m",
	ColorBoldYellow: "\033[1;33m",
}

// colorsEnabled 是否启用颜色
var colorsEnabled = detectColorSupport()

// detectColorSupport 检测终端是否支持颜色
func detectColorSupport() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}

// ============================================================================
// 格式化器
// ============================================================================

// Formatter 诊断格式化器
//
// 把 Diagnostic 渲染为带源码上下文的多行文本：
//
//	error[E0001]: unexpected token ';'
//	 --> demo.php:3:12
//	  |
//	3 | echo 1 + + ;
//	  |            ^
type Formatter struct {
	Colors     bool // 是否使用颜色
	ShowSource bool // 是否显示源代码行
	TabWidth   int  // Tab 宽度
}

// NewFormatter 创建默认格式化器
func NewFormatter() *Formatter {
	return &Formatter{
		Colors:     colorsEnabled,
		ShowSource: true,
		TabWidth:   4,
	}
}

// Format 格式化一条诊断
//
// 参数:
//   - d: 诊断记录
//   - filename: 文件名（用于位置行）
//   - src: 源文本（可为空，只影响源码上下文显示）
//   - lm: 行映射（可为 nil，此时只显示偏移）
func (f *Formatter) Format(d Diagnostic, filename, src string, lm *LineMap) string {
	var sb strings.Builder

	// 诊断头: error[E0001]: 消息
	levelColor := ColorBoldRed
	if d.Level == LevelWarning {
		levelColor = ColorBoldYellow
	}
	sb.WriteString(f.colorize(d.Level.String(), levelColor))
	sb.WriteString(f.colorize(fmt.Sprintf("[%s]", d.Code), levelColor))
	sb.WriteString(": ")
	sb.WriteString(d.Message)
	sb.WriteByte('\n')

	if lm == nil || !d.Span.IsValid() {
		sb.WriteString(fmt.Sprintf(" %s %s:%s\n", f.colorize("-->", ColorCyan), filename, d.Span))
		return sb.String()
	}

	line, column := lm.Position(d.Span.Start)

	// 位置行: --> file.php:5:12
	sb.WriteString(fmt.Sprintf(" %s %s\n",
		f.colorize("-->", ColorCyan),
		f.colorize(fmt.Sprintf("%s:%d:%d", filename, line, column), ColorCyan)))

	// 源码上下文
	if f.ShowSource && src != "" {
		start := lm.LineStart(line)
		end := start
		for end < len(src) && src[end] != '\n' {
			end++
		}
		srcLine := strings.ReplaceAll(src[start:end], "\t", strings.Repeat(" ", f.TabWidth))

		gutter := fmt.Sprintf("%d", line)
		pad := strings.Repeat(" ", len(gutter))

		sb.WriteString(fmt.Sprintf("%s |\n", pad))
		sb.WriteString(fmt.Sprintf("%s | %s\n", gutter, srcLine))

		// 下划线标注
		markLen := d.Span.Length
		if markLen < 1 {
			markLen = 1
		}
		if column-1+markLen > len(srcLine)+1 {
			markLen = len(srcLine) - column + 2
			if markLen < 1 {
				markLen = 1
			}
		}
		marker := strings.Repeat("^", markLen)
		sb.WriteString(fmt.Sprintf("%s | %s%s\n", pad,
			strings.Repeat(" ", column-1), f.colorize(marker, levelColor)))
	}

	return sb.String()
}

// colorize 为文本着色
func (f *Formatter) colorize(text string, color Color) string {
	if !f.Colors {
		return text
	}
	return ansiCodes[color] + text + ansiCodes[ColorReset]
}
