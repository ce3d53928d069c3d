// Package mcp provides the JSON-RPC server that exposes the bridge tools.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dkooll/mcpbridge/internal/bridge"
	"github.com/dkooll/mcpbridge/internal/database"
	"github.com/dkooll/mcpbridge/internal/formatter"
	"github.com/dkooll/mcpbridge/internal/schema"
	"github.com/dkooll/mcpbridge/internal/version"
	"github.com/dkooll/mcpbridge/pkg/form"
	"go.uber.org/zap"
)

const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "mcpbridge"
)

type Message struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method,omitempty"`
	Params  any       `json:"params,omitempty"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ToolCallParams struct {
	Name      string `json:"name"`
	Arguments any    `json:"arguments"`
}

type Server struct {
	settings    bridge.Settings
	registry    *schema.Registry
	logger      *zap.Logger
	writer      io.Writer
	bridge      *bridge.Bridge
	bridgeMutex sync.Mutex
}

func NewServer(settings bridge.Settings, registry *schema.Registry, logger *zap.Logger) *Server {
	if registry == nil {
		registry = schema.NewDefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		settings: settings,
		registry: registry,
		logger:   logger,
	}
}

// ensureBridge opens the session on first use so tool calls work even when a
// client skips initialize.
func (s *Server) ensureBridge(ctx context.Context) (*bridge.Bridge, error) {
	s.bridgeMutex.Lock()
	defer s.bridgeMutex.Unlock()

	if s.bridge != nil {
		return s.bridge, nil
	}

	s.logger.Info("initializing bridge", zap.String("db", s.settings.DatabasePath))
	b := bridge.New(s.settings, s.registry, s.logger.Named("bridge"))
	if err := b.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bridge: %w", err)
	}

	s.bridge = b
	return b, nil
}

func (s *Server) closeBridge(ctx context.Context) {
	s.bridgeMutex.Lock()
	defer s.bridgeMutex.Unlock()

	if s.bridge == nil {
		return
	}
	if err := s.bridge.Close(ctx); err != nil {
		s.logger.Warn("failed to close bridge", zap.Error(err))
	}
	s.bridge = nil
}

func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	s.writer = w
	defer s.closeBridge(ctx)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		s.logger.Debug("received", zap.String("message", line))

		var msg Message
		if err := json.Unmarshal([]byte(line), &msg); err != nil {
			s.logger.Warn("failed to parse message", zap.Error(err))
			s.sendError(-32700, "Parse error", nil)
			continue
		}

		s.handleMessage(ctx, msg)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

func (s *Server) handleMessage(ctx context.Context, msg Message) {
	s.logger.Debug("handling method", zap.String("method", msg.Method))

	switch msg.Method {
	case "initialize":
		s.handleInitialize(ctx, msg)
	case "initialized", "notifications/initialized":
		s.logger.Info("client initialized")
	case "tools/list":
		s.handleToolsList(msg)
	case "tools/call":
		s.handleToolsCall(ctx, msg)
	case "notifications/cancelled":
		s.logger.Info("request cancelled")
	default:
		s.sendError(-32601, "Method not found", msg.ID)
	}
}

func (s *Server) handleInitialize(ctx context.Context, msg Message) {
	if _, err := s.ensureBridge(ctx); err != nil {
		s.logger.Error("initialize failed", zap.Error(err))
		s.sendError(-32603, err.Error(), msg.ID)
		return
	}

	response := Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result: map[string]any{
			"protocolVersion": ProtocolVersion,
			"serverInfo": map[string]any{
				"name":    ServerName,
				"version": version.Version,
			},
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
		},
	}
	s.sendResponse(response)
}

func (s *Server) tools() []map[string]any {
	return []map[string]any{
		database.NewToolSpec(s.registry).ToMap(),
		{
			"name":        "process_message",
			"description": "Route a free-form message: messages mentioning pdf with 坐标(x,y)处填入\"text\" directives fill the PDF template, everything else runs as SQL",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"message": map[string]any{
						"type":        "string",
						"description": "Message to route",
					},
				},
				"required": []string{"message"},
			},
		},
		{
			"name":        "fill_pdf",
			"description": "Draw text fields onto the first page of the PDF template and save the result",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"fields": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"x":    map[string]any{"type": "integer", "description": "Points from the left edge"},
								"y":    map[string]any{"type": "integer", "description": "Points from the bottom edge"},
								"text": map[string]any{"type": "string"},
							},
							"required": []string{"x", "y", "text"},
						},
					},
					"template_path": map[string]any{
						"type":        "string",
						"description": "Optional template override",
					},
					"output_path": map[string]any{
						"type":        "string",
						"description": "Optional output override",
					},
				},
				"required": []string{"fields"},
			},
		},
		{
			"name":        "describe_schema",
			"description": "Describe the registered table schemas, or the tables actually present in the database when live is true",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"live": map[string]any{
						"type":        "boolean",
						"description": "Introspect the database instead of the registry (default: false)",
					},
				},
			},
		},
	}
}

func (s *Server) handleToolsList(msg Message) {
	response := Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result: map[string]any{
			"tools": s.tools(),
		},
	}
	s.sendResponse(response)
}

func (s *Server) handleToolsCall(ctx context.Context, msg Message) {
	params, err := UnmarshalArgs[ToolCallParams](msg.Params)
	if err != nil {
		s.sendError(-32602, "Invalid params", msg.ID)
		return
	}

	s.logger.Info("tool call", zap.String("tool", params.Name))

	var result any
	switch params.Name {
	case "query_database":
		result = s.handleQueryDatabase(ctx, params.Arguments)
	case "process_message":
		result = s.handleProcessMessage(ctx, params.Arguments)
	case "fill_pdf":
		result = s.handleFillPDF(ctx, params.Arguments)
	case "describe_schema":
		result = s.handleDescribeSchema(ctx, params.Arguments)
	default:
		s.sendError(-32601, "Tool not found", msg.ID)
		return
	}

	response := Message{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result:  result,
	}
	s.sendResponse(response)
}

func (s *Server) handleQueryDatabase(ctx context.Context, args any) map[string]any {
	b, err := s.ensureBridge(ctx)
	if err != nil {
		return ErrorResponse(err.Error())
	}

	queryArgs, err := UnmarshalArgs[struct {
		Query string `json:"query"`
	}](args)
	if err != nil {
		return ErrorResponse("Error: Invalid query parameters")
	}

	tool, err := b.Tool()
	if err != nil {
		return ErrorResponse(err.Error())
	}

	rows, err := tool.ExecuteQuery(ctx, queryArgs.Query)
	if err != nil {
		return ResultResponse(bridge.Err(bridge.Classify(err), bridge.QueryFailurePrefix, err))
	}
	return SuccessResponse(rows.String())
}

func (s *Server) handleProcessMessage(ctx context.Context, args any) map[string]any {
	b, err := s.ensureBridge(ctx)
	if err != nil {
		return ErrorResponse(err.Error())
	}

	msgArgs, err := UnmarshalArgs[struct {
		Message string `json:"message"`
	}](args)
	if err != nil {
		return ErrorResponse("Error: Invalid message parameters")
	}

	return ResultResponse(b.ProcessMessage(ctx, msgArgs.Message))
}

func (s *Server) handleFillPDF(ctx context.Context, args any) map[string]any {
	b, err := s.ensureBridge(ctx)
	if err != nil {
		return ErrorResponse(err.Error())
	}

	fillArgs, err := UnmarshalArgs[struct {
		Fields       []form.Field `json:"fields"`
		TemplatePath string       `json:"template_path"`
		OutputPath   string       `json:"output_path"`
	}](args)
	if err != nil {
		return ErrorResponse("Error: Invalid fill parameters")
	}
	if len(fillArgs.Fields) == 0 {
		return ErrorResponse(bridge.PDFFailurePrefix + "at least one field is required")
	}

	settings := b.Settings()
	templatePath, outputPath := settings.TemplatePath, settings.OutputPath
	if fillArgs.TemplatePath != "" {
		if templatePath, err = settings.ResolvePath(fillArgs.TemplatePath); err != nil {
			return ErrorResponse(err.Error())
		}
	}
	if fillArgs.OutputPath != "" {
		if outputPath, err = settings.ResolvePath(fillArgs.OutputPath); err != nil {
			return ErrorResponse(err.Error())
		}
	}

	tool, err := b.Tool()
	if err != nil {
		return ErrorResponse(err.Error())
	}

	path, err := tool.FillPDF(templatePath, outputPath, fillArgs.Fields)
	if err != nil {
		return ResultResponse(bridge.Err(bridge.Classify(err), bridge.PDFFailurePrefix, err))
	}
	return SuccessResponse(formatter.FillSummary(path, fillArgs.Fields))
}

func (s *Server) handleDescribeSchema(ctx context.Context, args any) map[string]any {
	b, err := s.ensureBridge(ctx)
	if err != nil {
		return ErrorResponse(err.Error())
	}

	schemaArgs, err := UnmarshalArgs[struct {
		Live bool `json:"live"`
	}](args)
	if err != nil {
		return ErrorResponse("Error: Invalid schema parameters")
	}

	tool, err := b.Tool()
	if err != nil {
		return ErrorResponse(err.Error())
	}

	if !schemaArgs.Live {
		return SuccessResponse(tool.DescribeSchema())
	}

	text, err := tool.DescribeLiveSchema(ctx)
	if err != nil {
		return ErrorResponse(fmt.Sprintf("Failed to read database schema: %v", err))
	}
	if text == "" {
		return SuccessResponse("No tables found. Run init-db to create the products table.")
	}
	return SuccessResponse(text)
}

func (s *Server) sendResponse(response Message) {
	data, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}

	if s.writer == nil {
		s.logger.Warn("no writer configured, dropping response", zap.ByteString("response", data))
		return
	}

	if _, err := fmt.Fprintln(s.writer, string(data)); err != nil {
		s.logger.Error("failed to write response", zap.Error(err))
		return
	}
	s.logger.Debug("sent", zap.ByteString("response", data))
}

func (s *Server) sendError(code int, message string, id any) {
	response := Message{
		JSONRPC: "2.0",
		ID:      id,
		Error: &RPCError{
			Code:    code,
			Message: message,
		},
	}
	s.sendResponse(response)
}
