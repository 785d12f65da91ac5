package mcpserver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/coolbeans/fedlex/pkg/citation"
	"github.com/coolbeans/fedlex/pkg/fedlex"
)

// maxLineBytes bounds one JSON-RPC message on stdin.
const maxLineBytes = 1 << 20

var searchLawSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "query": {
      "type": "string",
      "description": "Free-form citation to Swiss federal legislation, e.g. 'OR 41, Abs. 2', 'Art. 52 Abs. 1 lit. c' with a law abbreviation, 'ZGB 1', or an SR number like '210'."
    }
  },
  "required": ["query"]
}`)

var fetchLegislationSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "sr_number": {
      "type": "string",
      "description": "Systematic Law (SR) number, e.g. '210' for the Civil Code or '101' for the Federal Constitution."
    }
  },
  "required": ["sr_number"]
}`)

// Server serves MCP over a reader/writer pair, one JSON-RPC message per
// line. Requests are handled sequentially in arrival order.
type Server struct {
	searcher   *fedlex.Searcher
	srResolver fedlex.SRResolver
	logger     *zap.Logger
	version    string
}

// New creates a server over the given searcher and SR resolver. A nil
// logger disables logging.
func New(searcher *fedlex.Searcher, srResolver fedlex.SRResolver, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		searcher:   searcher,
		srResolver: srResolver,
		logger:     logger,
		version:    version,
	}
}

// Run reads requests from in until EOF or context cancellation, writing one
// response line per non-notification request to out.
func (server *Server) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	writer := bufio.NewWriter(out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response := server.handle(ctx, line)
		if response == nil {
			continue
		}
		encoded, err := json.Marshal(response)
		if err != nil {
			server.logger.Error("failed to encode response", zap.Error(err))
			continue
		}
		if _, err := writer.Write(append(encoded, '\n')); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to flush response: %w", err)
		}
	}
	return scanner.Err()
}

// handle processes one message and returns the response, or nil for
// notifications.
func (server *Server) handle(ctx context.Context, line []byte) *jsonrpcResponse {
	var request jsonrpcRequest
	if err := json.Unmarshal(line, &request); err != nil {
		return errorResponse(nil, codeParseError, "invalid JSON")
	}

	// Notifications (no ID) expect no response.
	if len(request.ID) == 0 || string(request.ID) == "null" {
		server.logger.Debug("notification received", zap.String("method", request.Method))
		return nil
	}

	server.logger.Debug("request received", zap.String("method", request.Method))

	switch request.Method {
	case "initialize":
		return resultResponse(request.ID, initializeResult{
			ProtocolVersion: ProtocolVersion,
			ServerInfo:      serverInfo{Name: ServerName, Version: server.version},
		})
	case "ping":
		return resultResponse(request.ID, struct{}{})
	case "tools/list":
		return resultResponse(request.ID, toolsListResult{Tools: []toolDescriptor{
			{
				Name:        "search_law",
				Description: "Resolve a free-form citation to Swiss federal legislation to its canonical law, a deep link into the consolidated text, and the article wording.",
				InputSchema: searchLawSchema,
			},
			{
				Name:        "fetch_legislation",
				Description: "Fetch Swiss legislation details (title and URL) by its Systematic Law (SR) number.",
				InputSchema: fetchLegislationSchema,
			},
		}})
	case "tools/call":
		return server.handleToolCall(ctx, request)
	default:
		return errorResponse(request.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", request.Method))
	}
}

func (server *Server) handleToolCall(ctx context.Context, request jsonrpcRequest) *jsonrpcResponse {
	var params toolCallParams
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return errorResponse(request.ID, codeInvalidParams, "invalid tools/call parameters")
	}

	switch params.Name {
	case "search_law":
		var arguments struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(params.Arguments, &arguments); err != nil || strings.TrimSpace(arguments.Query) == "" {
			return errorResponse(request.ID, codeInvalidParams, "search_law requires a non-empty query argument")
		}
		return resultResponse(request.ID, server.searchLaw(ctx, arguments.Query))

	case "fetch_legislation":
		var arguments struct {
			SRNumber string `json:"sr_number"`
		}
		if err := json.Unmarshal(params.Arguments, &arguments); err != nil || strings.TrimSpace(arguments.SRNumber) == "" {
			return errorResponse(request.ID, codeInvalidParams, "fetch_legislation requires a non-empty sr_number argument")
		}
		return resultResponse(request.ID, server.fetchLegislation(ctx, arguments.SRNumber))

	default:
		return errorResponse(request.ID, codeInvalidParams, fmt.Sprintf("unknown tool %q", params.Name))
	}
}

// searchLaw runs the orchestrator and renders the result as tool content.
func (server *Server) searchLaw(ctx context.Context, query string) *toolCallResult {
	result, err := server.searcher.SearchLaw(ctx, query)
	if err != nil {
		server.logger.Warn("search_law failed", zap.String("query", query), zap.Error(err))
		return textResult(fmt.Sprintf("%s: %v", errorKind(err), err), true)
	}

	var text strings.Builder
	if result.Law.Title != "" {
		fmt.Fprintf(&text, "**Title:** %s\n", result.Law.Title)
	}
	fmt.Fprintf(&text, "**SR Number:** %s\n", result.Law.SRNumber)
	if result.DeepLink != "" {
		fmt.Fprintf(&text, "**URL:** %s\n", result.DeepLink)
	}
	if result.Fragment != "" {
		fmt.Fprintf(&text, "**Fragment:** %s\n", result.Fragment)
	}
	if result.FullText != "" {
		fmt.Fprintf(&text, "\n%s\n", result.FullText)
	}
	if result.Note != "" {
		fmt.Fprintf(&text, "\n_%s_\n", result.Note)
	}
	return textResult(text.String(), false)
}

// fetchLegislation resolves one SR number and renders title and URL.
func (server *Server) fetchLegislation(ctx context.Context, srNumber string) *toolCallResult {
	if !citation.IsSRNumber(srNumber) {
		return textResult(fmt.Sprintf("not_found: %q is not a valid SR number", srNumber), true)
	}

	law, err := server.srResolver.ResolveSRNumber(ctx, srNumber)
	if err != nil {
		server.logger.Warn("fetch_legislation failed", zap.String("sr_number", srNumber), zap.Error(err))
		return textResult(fmt.Sprintf("%s: %v", errorKind(err), err), true)
	}
	if law == nil {
		return textResult(fmt.Sprintf("No legislation found for SR number: %s", srNumber), false)
	}

	title := law.Title
	if title == "" {
		title = "Unknown Title"
	}
	url := law.URL
	if url == "" {
		url = "No URL available"
	}
	return textResult(fmt.Sprintf("**Title:** %s\n**URL:** %s\n**SR Number:** %s", title, url, law.SRNumber), false)
}

// errorKind maps the resolver error taxonomy to stable tool-error labels.
func errorKind(err error) string {
	var parseError *citation.ParseError
	var grammarError *citation.GrammarError
	var notFoundError *fedlex.NotFoundError
	var ambiguousError *fedlex.AmbiguousError
	var lookupFailure *fedlex.LookupFailure

	switch {
	case errors.As(err, &parseError):
		return "parse_error"
	case errors.As(err, &grammarError):
		return "grammar_error"
	case errors.As(err, &notFoundError):
		return "not_found"
	case errors.As(err, &ambiguousError):
		return "ambiguous"
	case errors.As(err, &lookupFailure):
		return "lookup_failure"
	default:
		return "error"
	}
}

func resultResponse(id json.RawMessage, result any) *jsonrpcResponse {
	return &jsonrpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *jsonrpcResponse {
	if id == nil {
		id = json.RawMessage("null")
	}
	return &jsonrpcResponse{JSONRPC: "2.0", ID: id, Error: &jsonrpcError{Code: code, Message: message}}
}
