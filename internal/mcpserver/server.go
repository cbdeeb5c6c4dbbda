package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates a configured MCP server with all Trapline tools registered.
func NewMCPServer(cfg Config) *server.MCPServer {
	s := server.NewMCPServer("trapline", "1.0.0")
	client := NewTraplineClient(cfg)
	h := NewHandlers(client)

	s.AddTool(ToolSendMessage, h.HandleSendMessage)
	s.AddTool(ToolGetSession, h.HandleGetSession)
	s.AddTool(ToolGetReport, h.HandleGetReport)
	s.AddTool(ToolReplayTranscript, h.HandleReplayTranscript)
	s.AddTool(ToolServerStatus, h.HandleServerStatus)
	s.AddTool(ToolWhoami, h.HandleWhoami)

	return s
}
