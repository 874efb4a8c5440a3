package errors

import (
	"fmt"

	"github.com/tluyben/phpfront/internal/token"
)

// ============================================================================
// Reporter - 诊断接收器
// ============================================================================
//
// 扫描器和语法器通过 Reporter 上报诊断，自己从不 panic、
// 也从不直接打印。宿主决定诊断的去向（收集、渲染、LSP 发布）。
//
// 并发模型：Reporter 要么被单个解析实例独占，要么由宿主
// 自行同步。解析实例内部是单线程的。
//
// ============================================================================

// Reporter 诊断接收器接口
type Reporter interface {
	// Error 上报一个错误
	Error(span token.Span, code string, message string)
	// Warning 上报一个警告
	Warning(span token.Span, code string, message string)
}

// ============================================================================
// Diagnostic - 单条诊断
// ============================================================================

// Diagnostic 一条诊断记录
type Diagnostic struct {
	Span    token.Span // 位置范围
	Code    string     // 诊断码
	Level   Level      // 级别
	Message string     // 消息文本
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s %s[%s]: %s", d.Span, d.Level, d.Code, d.Message)
}

// ============================================================================
// Collector - 收集型接收器
// ============================================================================

// Collector 把诊断按产生顺序收集到切片里
//
// 这是解析入口默认使用的接收器。诊断顺序与其触发 token
// 的顺序一致。
type Collector struct {
	Diagnostics []Diagnostic
}

// NewCollector 创建一个收集型接收器
func NewCollector() *Collector {
	return &Collector{}
}

// Error 实现 Reporter
func (c *Collector) Error(span token.Span, code string, message string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{
		Span:    span,
		Code:    code,
		Level:   LevelError,
		Message: message,
	})
}

// Warning 实现 Reporter
func (c *Collector) Warning(span token.Span, code string, message string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{
		Span:    span,
		Code:    code,
		Level:   LevelWarning,
		Message: message,
	})
}

// HasErrors 检查是否收集到错误级别的诊断
func (c *Collector) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Level == LevelError {
			return true
		}
	}
	return false
}

// Errors 返回错误级别的诊断
func (c *Collector) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Level == LevelError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings 返回警告级别的诊断
func (c *Collector) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.Diagnostics {
		if d.Level == LevelWarning {
			out = append(out, d)
		}
	}
	return out
}
