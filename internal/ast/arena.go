package ast

import (
	"reflect"
)

// ============================================================================
// Arena 节点分配器
// ============================================================================
//
// Arena 按类型成批分配 AST 节点，专为解析场景设计。
//
// 设计目标：
// - 减少 GC 压力：同类型节点从同一块 slab 分配，GC 只需追踪少量大对象
// - 提高分配速度：slab 内是简单的 append，摊销后远快于逐个 new
// - 缓存局部性：同类型节点在内存里连续，后续遍历更友好
//
// 和字节级内存池不同，slab 是有类型的 []T，节点里的指针
// 字段对 GC 完全可见，不需要 unsafe。
//
// 使用方式：
//   arena := NewArena(0)
//   node := AllocType[IntLit](arena)
//
// 无锁设计（解析器是单线程的）。
//
// ============================================================================

// defaultSlabElems 每块 slab 的默认节点数
const defaultSlabElems = 256

// Arena 按类型分 slab 的节点分配器
type Arena struct {
	slabs     map[reflect.Type]interface{} // *[]T，按类型分桶
	slabElems int                          // 每块 slab 的节点数
	allocated int                          // 已分配节点总数
}

// NewArena 创建一个新的 Arena 分配器
//
// 参数:
//   - slabElems: 每块 slab 的节点数，<= 0 时取默认值
func NewArena(slabElems int) *Arena {
	if slabElems <= 0 {
		slabElems = defaultSlabElems
	}
	return &Arena{
		slabs:     make(map[reflect.Type]interface{}, 32),
		slabElems: slabElems,
	}
}

// AllocType 从 Arena 分配一个指定类型的零值节点
//
// PERF: 这是热路径；slab 未满时只有一次 map 查找加一次 append。
func AllocType[T any](a *Arena) *T {
	key := reflect.TypeOf((*T)(nil)).Elem()

	slab, _ := a.slabs[key].(*[]T)
	if slab == nil || len(*slab) == cap(*slab) {
		// slab 满了（或首次分配）：开新块
		// 满块里的节点仍被外部指针引用，这里只是不再从中分配
		fresh := make([]T, 0, a.slabElems)
		slab = &fresh
		a.slabs[key] = slab
	}

	var zero T
	*slab = append(*slab, zero)
	a.allocated++
	return &(*slab)[len(*slab)-1]
}

// Reset 重置 Arena
//
// 之前分配的节点不受影响（它们由持有者引用），
// Arena 只是丢弃所有未满的 slab，从头开始分配。
func (a *Arena) Reset() {
	a.slabs = make(map[reflect.Type]interface{}, 32)
	a.allocated = 0
}

// Stats 返回 Arena 的统计信息（用于调试和性能分析）
type ArenaStats struct {
	SlabTypes int // 出现过的节点类型数
	Allocated int // 已分配节点总数
}

// Stats 获取 Arena 的统计信息
func (a *Arena) Stats() ArenaStats {
	return ArenaStats{
		SlabTypes: len(a.slabs),
		Allocated: a.allocated,
	}
}
