package source

import (
	"testing"
)

// slowReader 每次只返回一个字节，逼出每次填充时的压实
type slowReader struct {
	data string
	pos  int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, nil
	}
	p[0] = r.data[r.pos]
	r.pos++
	return 1, nil
}

func TestBufferAdvance(t *testing.T) {
	b := NewString("abc")

	for i, want := range []int{'a', 'b', 'c', EOF, EOF} {
		if got := b.Advance(); got != want {
			t.Errorf("Advance[%d] = %d, want %d", i, got, want)
		}
	}
}

func TestBufferPeek(t *testing.T) {
	b := NewString("xy")

	if b.Peek() != 'x' || b.PeekAt(1) != 'y' || b.PeekAt(2) != EOF {
		t.Error("peek mismatch")
	}
	// peek 不前进
	if b.Advance() != 'x' {
		t.Error("peek must not consume")
	}
}

func TestBufferTokenText(t *testing.T) {
	b := NewString("hello world")

	b.StartChunk()
	for i := 0; i < 5; i++ {
		b.Advance()
	}
	b.MarkTokenEnd()

	if got := b.Text(); got != "hello" {
		t.Errorf("Text = %q, want %q", got, "hello")
	}
	sp := b.Span()
	if sp.Start != 0 || sp.Length != 5 {
		t.Errorf("Span = %s, want [0..5)", sp)
	}
}

func TestBufferMoreAccumulates(t *testing.T) {
	b := NewString("aabb")

	b.StartChunk()
	b.Advance()
	b.Advance()
	b.MarkTokenEnd()
	b.More()

	// 下一个片段并入当前 token
	b.StartChunk()
	b.Advance()
	b.Advance()
	b.MarkTokenEnd()

	if got := b.Text(); got != "aabb" {
		t.Errorf("Text after More = %q, want %q", got, "aabb")
	}
	if got := b.ChunkText(); got != "bb" {
		t.Errorf("ChunkText = %q, want %q", got, "bb")
	}
}

func TestBufferLess(t *testing.T) {
	b := NewString("abcdef")

	b.StartChunk()
	for i := 0; i < 5; i++ {
		b.Advance()
	}
	b.Less(2) // 回绕到片段起始后 2 个字符

	if got := b.Advance(); got != 'c' {
		t.Errorf("Advance after Less = %c, want c", rune(got))
	}
}

func TestBufferCursorInvariant(t *testing.T) {
	src := "the quick brown fox jumps over the lazy dog, repeated enough to force growth. " +
		"the quick brown fox jumps over the lazy dog."

	b := New(&slowReader{data: src}, 0)

	var out []byte
	for {
		b.StartChunk()
		ch := b.Advance()
		if ch == EOF {
			break
		}
		b.MarkTokenEnd()
		out = append(out, byte(ch))

		ts, tcs, te, la, cr := b.Cursors()
		if !(ts <= tcs && tcs <= te && te <= la && la <= cr) {
			t.Fatalf("cursor invariant violated: %d %d %d %d %d", ts, tcs, te, la, cr)
		}
	}

	if string(out) != src {
		t.Errorf("reassembled text mismatch")
	}
}

func TestBufferOffsetBias(t *testing.T) {
	b := New(&slowReader{data: "xy"}, 100)

	b.StartChunk()
	b.Advance()
	b.MarkTokenEnd()

	if sp := b.Span(); sp.Start != 100 {
		t.Errorf("biased span start = %d, want 100", sp.Start)
	}
}

func TestBufferCompactionKeepsOffsets(t *testing.T) {
	// 读入总量超过初始窗口 4KB；每次填充都先压实，绝对偏移不受影响
	var data []byte
	for i := 0; i < 3; i++ {
		for c := 'a'; c <= 'z'; c++ {
			for j := 0; j < 100; j++ {
				data = append(data, byte(c))
			}
		}
	}
	src := string(data)

	b := New(&slowReader{data: src}, 0)
	count := 0
	for {
		b.StartChunk()
		if b.Advance() == EOF {
			break
		}
		b.MarkTokenEnd()
		if got := b.Span().Start; got != count {
			t.Fatalf("absolute offset mismatch at %d: got %d", count, got)
		}
		count++
	}
	if count != len(src) {
		t.Errorf("consumed %d chars, want %d", count, len(src))
	}
}
