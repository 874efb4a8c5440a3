package errors

import "sort"

// ============================================================================
// LineMap - 偏移到行列的映射
// ============================================================================
//
// 核心数据模型只用字符偏移（Span）。人类可读的渲染和 LSP
// 协议需要行列号，LineMap 按需把偏移换算成 1 起始的行列。
//
// ============================================================================

// LineMap 记录每一行的起始偏移
type LineMap struct {
	starts []int // 每行起始偏移，starts[0] == 0
	size   int   // 源文本长度
}

// NewLineMap 从源文本构建行映射
func NewLineMap(src string) *LineMap {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineMap{starts: starts, size: len(src)}
}

// Position 把偏移换算为 (行, 列)，都从 1 开始
//
// 越界偏移会被收敛到文本范围内。
func (m *LineMap) Position(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > m.size {
		offset = m.size
	}
	// 二分查找所在行
	i := sort.Search(len(m.starts), func(i int) bool {
		return m.starts[i] > offset
	}) - 1
	return i + 1, offset - m.starts[i] + 1
}

// LineStart 返回第 line 行（1 起始）的起始偏移
func (m *LineMap) LineStart(line int) int {
	if line < 1 {
		line = 1
	}
	if line > len(m.starts) {
		line = len(m.starts)
	}
	return m.starts[line-1]
}

// LineCount 返回总行数
func (m *LineMap) LineCount() int {
	return len(m.starts)
}
