// Package lsp 实现发布解析诊断的语言服务器
package lsp

import (
	"sync"

	"go.lsp.dev/uri"

	"github.com/tluyben/phpfront/internal/ast"
	"github.com/tluyben/phpfront/internal/errors"
	"github.com/tluyben/phpfront/internal/parser"
)

// ============================================================================
// 文档管理
// ============================================================================

// Document 一个打开的文档
type Document struct {
	URI     uri.URI
	Text    string
	Version int32

	root    *ast.GlobalCode
	diags   *errors.Collector
	lineMap *errors.LineMap
	parsed  bool

	features parser.Features
}

// Reparse 重新解析文档
func (d *Document) Reparse() {
	d.diags = errors.NewCollector()
	d.lineMap = errors.NewLineMap(d.Text)
	p := parser.New(d.Text, d.URI.Filename(), d.features, d.diags)
	d.root = p.Parse()
	d.parsed = true
}

// AST 返回文档的语法树（必要时解析）
func (d *Document) AST() *ast.GlobalCode {
	if !d.parsed {
		d.Reparse()
	}
	return d.root
}

// Diagnostics 返回最近一次解析的诊断
func (d *Document) Diagnostics() []errors.Diagnostic {
	if !d.parsed {
		d.Reparse()
	}
	return d.diags.Diagnostics
}

// LineMap 返回文档的行映射
func (d *Document) LineMap() *errors.LineMap {
	if !d.parsed {
		d.Reparse()
	}
	return d.lineMap
}

// DocumentManager 打开文档的集合
type DocumentManager struct {
	mu   sync.RWMutex
	docs map[uri.URI]*Document

	features parser.Features
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(features parser.Features) *DocumentManager {
	return &DocumentManager{
		docs:     make(map[uri.URI]*Document),
		features: features,
	}
}

// Open 打开或替换一个文档
func (m *DocumentManager) Open(u uri.URI, text string, version int32) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc := &Document{URI: u, Text: text, Version: version, features: m.features}
	m.docs[u] = doc
	return doc
}

// Update 更新文档内容（全量同步）
func (m *DocumentManager) Update(u uri.URI, text string, version int32) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[u]
	if !ok {
		doc = &Document{URI: u, features: m.features}
		m.docs[u] = doc
	}
	doc.Text = text
	doc.Version = version
	doc.parsed = false
	return doc
}

// Close 关闭文档
func (m *DocumentManager) Close(u uri.URI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, u)
}

// Get 取出文档
func (m *DocumentManager) Get(u uri.URI) (*Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[u]
	return doc, ok
}
