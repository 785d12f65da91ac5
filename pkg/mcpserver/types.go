// Package mcpserver exposes the citation resolver as an MCP (Model Context
// Protocol) server over stdio: newline-delimited JSON-RPC 2.0 requests on
// stdin, responses on stdout. The server offers two tools, search_law and
// fetch_legislation, for an external agent to call.
package mcpserver

import (
	"encoding/json"
)

// ProtocolVersion is the MCP protocol revision this server speaks.
const ProtocolVersion = "2024-11-05"

// ServerName identifies this server in the initialize handshake.
const ServerName = "fedlex"

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// jsonrpcRequest is one incoming JSON-RPC message. The ID is kept raw so
// numeric and string IDs are echoed back untouched; a missing ID marks a
// notification.
type jsonrpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// jsonrpcResponse is one outgoing JSON-RPC message.
type jsonrpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

// jsonrpcError is the error member of a failed response.
type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// serverInfo identifies the server in the initialize result.
type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// initializeResult is the MCP initialize handshake payload.
type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      serverInfo   `json:"serverInfo"`
}

// capabilities advertises what this server supports: tools only.
type capabilities struct {
	Tools struct{} `json:"tools"`
}

// toolDescriptor describes one callable tool for tools/list.
type toolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// toolsListResult is the tools/list payload.
type toolsListResult struct {
	Tools []toolDescriptor `json:"tools"`
}

// toolCallParams are the tools/call parameters.
type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// contentBlock is one piece of tool output.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// toolCallResult is the tools/call payload. Domain failures are reported as
// tool errors (IsError true), never as raw transport errors.
type toolCallResult struct {
	Content []contentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

func textResult(text string, isError bool) *toolCallResult {
	return &toolCallResult{
		Content: []contentBlock{{Type: "text", Text: text}},
		IsError: isError,
	}
}
