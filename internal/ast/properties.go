package ast

import "reflect"

// ============================================================================
// Properties - 节点属性包
// ============================================================================
//
// 每个 AST 节点带一个开放式的 key→value 存储，供后续遍历
// （名字解析、类型分析、文档注释附着）挂装饰性信息。
//
// 键唯一。键要么是调用方自选的标识，要么是值自身的类型
// （类型键槽位，见 SetTyped/GetTyped）。
//
// 绝大多数节点一个属性都没有，少数有一个，所以把 0/1 个
// 属性的情况内联在节点里，两个以上才升级成 map。
//
// ============================================================================

// Properties 节点属性包
//
// 零值即空包，可直接使用。
type Properties struct {
	key  interface{}
	val  interface{}
	rest map[interface{}]interface{}
}

// Set 存入一个属性，键已存在时覆盖
func (p *Properties) Set(key, value interface{}) {
	if p.rest != nil {
		p.rest[key] = value
		return
	}
	if p.key == nil || p.key == key {
		p.key = key
		p.val = value
		return
	}
	// 第二个不同的键：升级为 map
	p.rest = map[interface{}]interface{}{
		p.key: p.val,
		key:   value,
	}
	p.key = nil
	p.val = nil
}

// Get 取出一个属性
func (p *Properties) Get(key interface{}) (interface{}, bool) {
	if p.rest != nil {
		v, ok := p.rest[key]
		return v, ok
	}
	if p.key == key && p.key != nil {
		return p.val, true
	}
	return nil, false
}

// Remove 删除一个属性，返回是否存在
func (p *Properties) Remove(key interface{}) bool {
	if p.rest != nil {
		if _, ok := p.rest[key]; ok {
			delete(p.rest, key)
			return true
		}
		return false
	}
	if p.key == key && p.key != nil {
		p.key = nil
		p.val = nil
		return true
	}
	return false
}

// Len 返回属性个数
func (p *Properties) Len() int {
	if p.rest != nil {
		return len(p.rest)
	}
	if p.key != nil {
		return 1
	}
	return 0
}

// ============================================================================
// 类型键槽位
// ============================================================================

// SetTyped 以值自身的类型为键存入
func (p *Properties) SetTyped(value interface{}) {
	p.Set(reflect.TypeOf(value), value)
}

// GetTyped 按类型键取出
//
// 用法:
//
//	v, ok := props.GetTyped(reflect.TypeOf((*MyInfo)(nil)).Elem())
func (p *Properties) GetTyped(t reflect.Type) (interface{}, bool) {
	return p.Get(t)
}
