package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/tluyben/phpfront/internal/errors"
)

// ============================================================================
// 诊断转换
// ============================================================================

// getDiagnostics 把一次解析的诊断转换为 LSP 诊断
//
// 核心数据模型只有字符偏移，这里借行映射换算为 LSP 的
// 0 起始行列。
func getDiagnostics(doc *Document) []protocol.Diagnostic {
	diags := doc.Diagnostics()
	lm := doc.LineMap()

	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, toProtocolDiagnostic(d, lm))
	}
	return out
}

// toProtocolDiagnostic 单条诊断的转换
func toProtocolDiagnostic(d errors.Diagnostic, lm *errors.LineMap) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Level == errors.LevelWarning {
		severity = protocol.DiagnosticSeverityWarning
	}

	start := d.Span.Start
	end := d.Span.End()
	if start < 0 {
		start, end = 0, 0
	}
	sl, sc := lm.Position(start)
	el, ec := lm.Position(end)

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(sl - 1), Character: uint32(sc - 1)},
			End:   protocol.Position{Line: uint32(el - 1), Character: uint32(ec - 1)},
		},
		Severity: severity,
		Code:     d.Code,
		Source:   "phpfront",
		Message:  d.Message,
	}
}
