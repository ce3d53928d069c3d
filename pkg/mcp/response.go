package mcp

import (
	"encoding/json"

	"github.com/dkooll/mcpbridge/internal/bridge"
)

// MCPResponse is a tools/call result. ErrorKind mirrors bridge.ErrorKind so
// clients can branch on the failure without matching message prefixes.
type MCPResponse struct {
	Content   []ContentBlock `json:"content"`
	IsError   bool           `json:"isError,omitempty"`
	ErrorKind string         `json:"errorKind,omitempty"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (r *MCPResponse) ToMap() map[string]any {
	m := map[string]any{
		"content": r.Content,
	}
	if r.IsError {
		m["isError"] = true
	}
	if r.ErrorKind != "" {
		m["errorKind"] = r.ErrorKind
	}
	return m
}

func textResponse(text string) *MCPResponse {
	return &MCPResponse{
		Content: []ContentBlock{
			{Type: "text", Text: text},
		},
	}
}

func SuccessResponse(text string) map[string]any {
	return textResponse(text).ToMap()
}

// ErrorResponse reports a tool level failure; the JSON-RPC call itself
// still succeeds.
func ErrorResponse(message string) map[string]any {
	r := textResponse(message)
	r.IsError = true
	return r.ToMap()
}

// ResultResponse turns a routed bridge outcome into tool content.
func ResultResponse(res bridge.Result) map[string]any {
	r := textResponse(res.String())
	if !res.OK() {
		r.IsError = true
		r.ErrorKind = res.Kind.String()
	}
	return r.ToMap()
}

func UnmarshalArgs[T any](args any) (T, error) {
	var result T
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(argsBytes, &result)
	return result, err
}
