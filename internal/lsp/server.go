package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/tluyben/phpfront/internal/parser"
)

// ============================================================================
// Server - 语言服务器
// ============================================================================
//
// 通过标准输入输出说 LSP。职责只有一件事：每次 didOpen /
// didChange 重新解析文档并发布词法/语法诊断。语义遍历不在
// 这一层。
//
// ============================================================================

// Server LSP 服务器
type Server struct {
	documents *DocumentManager
	logger    *zap.Logger

	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex

	initialized bool
	shutdown    bool
	exited      bool
}

// NewServer 创建 LSP 服务器
//
// logPath 非空时日志写入该文件，否则日志丢弃。
func NewServer(features parser.Features, logPath string) *Server {
	logger := zap.NewNop()
	if logPath != "" {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{logPath}
		cfg.ErrorOutputPaths = []string{logPath}
		if built, err := cfg.Build(); err == nil {
			logger = built
		}
	}

	return &Server{
		documents: NewDocumentManager(features),
		logger:    logger,
		reader:    bufio.NewReader(os.Stdin),
		writer:    os.Stdout,
	}
}

// Run 启动 LSP 服务器主循环
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("phpfront language server started")
	defer s.logger.Sync()

	for !s.exited {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("client disconnected")
				return nil
			}
			s.logger.Warn("read message", zap.Error(err))
			continue
		}

		s.handleMessage(msg)
	}

	s.logger.Info("server exited")
	return nil
}

// ============================================================================
// 传输层
// ============================================================================

// readMessage 读取一条 LSP 消息（Content-Length 分帧）
func (s *Server) readMessage() ([]byte, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break // 头部结束
		}
		if strings.HasPrefix(line, "Content-Length:") {
			lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %s", lengthStr)
			}
		}
	}

	if contentLength <= 0 {
		return nil, fmt.Errorf("missing Content-Length")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, err
	}
	return body, nil
}

// writeMessage 发送一条 LSP 消息
func (s *Server) writeMessage(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("marshal message", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data))
	s.writer.Write(data)
}

// rpcRequest JSON-RPC 请求/通知信封
type rpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

// rpcResponse JSON-RPC 响应信封
type rpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Result  interface{}      `json:"result,omitempty"`
	Error   *rpcError        `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcNotification 服务器发出的通知
type rpcNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// respond 回复一个请求
func (s *Server) respond(id *json.RawMessage, result interface{}) {
	s.writeMessage(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

// notify 发送一个通知
func (s *Server) notify(method string, params interface{}) {
	s.writeMessage(rpcNotification{JSONRPC: "2.0", Method: method, Params: params})
}

// ============================================================================
// 消息分发
// ============================================================================

// handleMessage 处理一条请求或通知
func (s *Server) handleMessage(msg []byte) {
	var req rpcRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		s.logger.Warn("bad message", zap.Error(err))
		return
	}

	s.logger.Debug("recv", zap.String("method", req.Method))

	switch req.Method {
	case protocol.MethodInitialize:
		s.handleInitialize(req.ID)
	case protocol.MethodInitialized:
		// 客户端确认，无需处理
	case protocol.MethodTextDocumentDidOpen:
		s.handleDidOpen(req.Params)
	case protocol.MethodTextDocumentDidChange:
		s.handleDidChange(req.Params)
	case protocol.MethodTextDocumentDidClose:
		s.handleDidClose(req.Params)
	case protocol.MethodShutdown:
		s.shutdown = true
		s.respond(req.ID, nil)
	case protocol.MethodExit:
		s.exited = true
	default:
		// 不支持的请求统一回空，通知直接忽略
		if req.ID != nil {
			s.respond(req.ID, nil)
		}
	}
}

// handleInitialize initialize 请求
func (s *Server) handleInitialize(id *json.RawMessage) {
	s.initialized = true

	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    "phpfront",
			Version: "0.1.0",
		},
	}
	s.respond(id, result)
}

// handleDidOpen textDocument/didOpen
func (s *Server) handleDidOpen(raw json.RawMessage) {
	var params protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		s.logger.Warn("didOpen params", zap.Error(err))
		return
	}

	doc := s.documents.Open(params.TextDocument.URI, params.TextDocument.Text,
		params.TextDocument.Version)
	s.publishDiagnostics(doc)
}

// handleDidChange textDocument/didChange（全量同步）
func (s *Server) handleDidChange(raw json.RawMessage) {
	var params protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		s.logger.Warn("didChange params", zap.Error(err))
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}

	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	doc := s.documents.Update(params.TextDocument.URI, text,
		params.TextDocument.Version)
	s.publishDiagnostics(doc)
}

// handleDidClose textDocument/didClose
func (s *Server) handleDidClose(raw json.RawMessage) {
	var params protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(raw, &params); err != nil {
		s.logger.Warn("didClose params", zap.Error(err))
		return
	}

	s.documents.Close(params.TextDocument.URI)
	// 清空该文档的诊断
	s.notify(protocol.MethodTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

// publishDiagnostics 发布一个文档的诊断
func (s *Server) publishDiagnostics(doc *Document) {
	diags := getDiagnostics(doc)
	s.logger.Debug("publish diagnostics",
		zap.String("uri", string(doc.URI)),
		zap.Int("count", len(diags)))

	s.notify(protocol.MethodTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: diags,
	})
}
