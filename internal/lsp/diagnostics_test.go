package lsp

import (
	"testing"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/tluyben/phpfront/internal/parser"
)

func TestDocumentDiagnostics(t *testing.T) {
	doc := &Document{
		URI:  uri.File("/tmp/broken.php"),
		Text: "<?php\n$x = ;\n",
	}

	diags := getDiagnostics(doc)
	if len(diags) == 0 {
		t.Fatal("expected diagnostics for a syntax error")
	}

	d := diags[0]
	if d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v, want error", d.Severity)
	}
	if d.Source != "phpfront" {
		t.Errorf("source = %q", d.Source)
	}
	// 错误在第二行（0 起始）
	if d.Range.Start.Line != 1 {
		t.Errorf("range line = %d, want 1", d.Range.Start.Line)
	}
}

func TestDocumentManagerLifecycle(t *testing.T) {
	m := NewDocumentManager(parser.Features{})

	u := uri.File("/tmp/a.php")
	m.Open(u, "<?php echo 1;", 1)

	doc, ok := m.Get(u)
	if !ok {
		t.Fatal("document not tracked after Open")
	}
	if len(doc.Diagnostics()) != 0 {
		t.Errorf("clean file must have no diagnostics: %v", doc.Diagnostics())
	}

	m.Update(u, "<?php echo ;", 2)
	doc, _ = m.Get(u)
	if len(doc.Diagnostics()) == 0 {
		t.Error("updated broken file must have diagnostics")
	}

	m.Close(u)
	if _, ok := m.Get(u); ok {
		t.Error("document still tracked after Close")
	}
}
