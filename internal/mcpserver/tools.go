package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the Trapline MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolSendMessage = mcp.NewTool("send_message",
	mcp.WithDescription(
		"Feed one scammer message into a Trapline honeypot session and get the "+
			"decoy agent's reply. Creates the session on first use. "+
			"Use this to engage a live scammer or to replay a captured line."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Conversation identifier (e.g. 'conv-2031'). Reuse the same id for every turn of one conversation.")),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("The scammer's message text")),
	mcp.WithString("sender",
		mcp.Description("Who sent the message: 'scammer' (default) or 'user'"),
		mcp.Enum("scammer", "user")),
)

var ToolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription(
		"Inspect the live state of a honeypot session: cumulative risk score, "+
			"engagement stage, scam classification, extracted intel counts, and "+
			"engagement quality metrics."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("The session id from a previous send_message call")),
)

var ToolGetReport = mcp.NewTool("get_report",
	mcp.WithDescription(
		"Get the current intelligence report for a honeypot session: scam type, "+
			"confidence, extracted phone numbers, UPI ids, bank accounts, links, "+
			"and engagement metrics. Works before finalization; shows what the "+
			"final callback report would contain right now."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("The session id from a previous send_message call")),
)

var ToolReplayTranscript = mcp.NewTool("replay_transcript",
	mcp.WithDescription(
		"Replay a captured scam transcript through a fresh honeypot session, one "+
			"line per turn, and return the decoy agent's reply to each line plus "+
			"the final session state. Useful for testing detection against known "+
			"scam scripts."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Session id to replay into. Use a fresh id for a clean run.")),
	mcp.WithArray("lines",
		mcp.Required(),
		mcp.Description("Scammer messages in conversation order, oldest first")),
)

var ToolServerStatus = mcp.NewTool("server_status",
	mcp.WithDescription(
		"Check the Trapline server's health and component status."),
)

var ToolWhoami = mcp.NewTool("whoami",
	mcp.WithDescription(
		"Show which API key identity this MCP server is authenticated as."),
)
