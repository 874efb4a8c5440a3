// Package source 实现词法分析器的字符缓冲管理
package source

import (
	"io"
	"strings"

	"github.com/tluyben/phpfront/internal/token"
)

// ============================================================================
// Buffer - 字符缓冲管理器
// ============================================================================
//
// Buffer 在字符源（io.Reader）之上维护一个可增长的滑动窗口，
// 并跟踪四个游标：
//
//   tokenStart      当前 token 的起始
//   tokenChunkStart 当前片段的起始（yymore 继续累积时与 tokenStart 不同）
//   tokenEnd        最近一次接受时的结束
//   lookahead       预读位置
//
// 不变量（在任何观察点都成立）:
//   tokenStart <= tokenChunkStart <= tokenEnd <= lookahead <= charsRead
//
// 窗口填充策略：预读越过已读内容时，先把 [tokenStart..charsRead)
// 左移压实到 0 并调整所有游标；仍然不够时容量翻倍；
// 然后从字符源继续拉取。
//
// ============================================================================

// EOF 输入结束哨兵
//
// Advance/Peek 返回 int 而不是 byte，EOF 取负值，
// 与任何合法输入字节（0..255）都不会混淆。
const EOF = -1

// defaultBufferSize 初始窗口大小
const defaultBufferSize = 4096

// Buffer 字符缓冲管理器
type Buffer struct {
	reader io.Reader // 字符源，Read 返回 0 表示输入结束

	buf       []byte // 字符窗口
	charsRead int    // 窗口内有效字符数

	tokenStart      int // 当前 token 起始
	tokenChunkStart int // 当前片段起始
	tokenEnd        int // 最近接受的结束
	lookahead       int // 预读位置

	base int // 压实时移出窗口的字符总数
	bias int // 片段重解析时的偏移修正

	expanding bool // yymore 语义：当前 token 跨多个片段
	eof       bool // 字符源已耗尽
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个新的缓冲管理器
//
// 参数:
//   - r: 字符源
//   - bias: 偏移修正，重解析片段时加到所有 Span 上（默认 0）
func New(r io.Reader, bias int) *Buffer {
	return &Buffer{
		reader: r,
		buf:    make([]byte, defaultBufferSize),
		bias:   bias,
	}
}

// NewString 从字符串创建缓冲管理器（测试和宿主常用）
func NewString(s string) *Buffer {
	return New(strings.NewReader(s), 0)
}

// ============================================================================
// 预读与前进
// ============================================================================

// Advance 前进一个字符并返回它
//
// 返回下一个字符（0..255）或 EOF 哨兵。
func (b *Buffer) Advance() int {
	if b.lookahead >= b.charsRead {
		if !b.fill() {
			return EOF
		}
	}
	ch := int(b.buf[b.lookahead])
	b.lookahead++
	return ch
}

// Peek 查看下一个字符但不前进
func (b *Buffer) Peek() int {
	return b.PeekAt(0)
}

// PeekAt 查看 lookahead+n 处的字符但不前进
func (b *Buffer) PeekAt(n int) int {
	for b.lookahead+n >= b.charsRead {
		if !b.fill() {
			return EOF
		}
	}
	return int(b.buf[b.lookahead+n])
}

// Back 回退 n 个预读字符
//
// 只用于小步回退（比如多看了一个运算符字符），
// 不会回退到当前片段起始之前。
func (b *Buffer) Back(n int) {
	b.lookahead -= n
	if b.lookahead < b.tokenChunkStart {
		b.lookahead = b.tokenChunkStart
	}
}

// ============================================================================
// yymore / yyless 语义
// ============================================================================

// StartChunk 开始一个新片段
//
// 扫描每个 token 前调用。若上一个动作调用过 More()，
// 则保留 tokenStart 使新片段并入当前 token；
// 否则 token 从这里重新开始。
func (b *Buffer) StartChunk() {
	b.tokenChunkStart = b.lookahead
	if !b.expanding {
		b.tokenStart = b.tokenChunkStart
	}
	b.expanding = false
	b.tokenEnd = b.lookahead
}

// More 标记当前片段为继续累积（yymore 语义）
//
// 下一次接受的 token 文本会包含本片段。
func (b *Buffer) More() {
	b.expanding = true
}

// Expanding 当前 token 是否跨多个片段
func (b *Buffer) Expanding() bool {
	return b.expanding
}

// Less 回绕到片段起始后第 n 个字符（yyless 语义）
//
// lookahead 和 tokenEnd 同时回绕。
func (b *Buffer) Less(n int) {
	b.lookahead = b.tokenChunkStart + n
	b.tokenEnd = b.lookahead
}

// MarkTokenEnd 在接受点快照 tokenEnd
func (b *Buffer) MarkTokenEnd() {
	b.tokenEnd = b.lookahead
}

// ============================================================================
// 文本与位置
// ============================================================================

// Text 返回当前 token 的文本 [tokenStart..tokenEnd)
func (b *Buffer) Text() string {
	return string(b.buf[b.tokenStart:b.tokenEnd])
}

// ChunkText 返回当前片段的文本 [tokenChunkStart..tokenEnd)
func (b *Buffer) ChunkText() string {
	return string(b.buf[b.tokenChunkStart:b.tokenEnd])
}

// Span 返回当前 token 的范围（含偏移修正）
func (b *Buffer) Span() token.Span {
	return token.NewSpan(b.bias+b.base+b.tokenStart, b.tokenEnd-b.tokenStart)
}

// TokenStartOffset 返回当前 token 起始的绝对偏移
func (b *Buffer) TokenStartOffset() int {
	return b.bias + b.base + b.tokenStart
}

// LookaheadOffset 返回预读位置的绝对偏移
func (b *Buffer) LookaheadOffset() int {
	return b.bias + b.base + b.lookahead
}

// ============================================================================
// 游标观察（用于不变量测试）
// ============================================================================

// Cursors 返回四个游标和已读字符数（相对窗口）
func (b *Buffer) Cursors() (tokenStart, tokenChunkStart, tokenEnd, lookahead, charsRead int) {
	return b.tokenStart, b.tokenChunkStart, b.tokenEnd, b.lookahead, b.charsRead
}

// ============================================================================
// 窗口填充
// ============================================================================

// fill 向窗口补充字符
//
// 先压实，必要时扩容，然后从字符源拉取。
// 返回 false 表示输入已结束且没有新字符。
func (b *Buffer) fill() bool {
	if b.eof {
		return false
	}

	// 压实：把 [tokenStart..charsRead) 左移到 0，调整所有游标
	if b.tokenStart > 0 {
		n := copy(b.buf, b.buf[b.tokenStart:b.charsRead])
		shift := b.tokenStart
		b.base += shift
		b.charsRead = n
		b.tokenStart = 0
		b.tokenChunkStart -= shift
		b.tokenEnd -= shift
		b.lookahead -= shift
	}

	// 仍然没有空间则翻倍扩容
	if b.charsRead >= len(b.buf) {
		bigger := make([]byte, len(b.buf)*2)
		copy(bigger, b.buf[:b.charsRead])
		b.buf = bigger
	}

	// 从字符源拉取
	for b.charsRead < len(b.buf) {
		n, err := b.reader.Read(b.buf[b.charsRead:])
		b.charsRead += n
		if err != nil || n == 0 {
			b.eof = true
			break
		}
		if b.charsRead > b.lookahead {
			break
		}
	}

	return b.charsRead > b.lookahead
}
