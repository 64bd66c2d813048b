// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Dagaz note tools for LLM integration via stdio
// transport. Tool semantics mirror the REST surface: writing to an
// archived note reactivates it, pinning suspends expiration.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/dagaz/internal/archive"
	"github.com/starford/dagaz/internal/models"
	"github.com/starford/dagaz/internal/noteservice"
)

// Server wraps the MCP server with Dagaz tools.
type Server struct {
	mcp     *server.MCPServer
	svc     *noteservice.Service
	adapter *archive.Adapter
}

// New creates a new MCP server with all Dagaz tools registered.
func New(svc *noteservice.Service, adapter *archive.Adapter) *Server {
	s := &Server{svc: svc, adapter: adapter}

	s.mcp = server.NewMCPServer(
		"Dagaz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all active (non-archived) sticky notes with their lifecycle state."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the content body of a note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Opaque note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new sticky note and return its id."),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("write_note",
		mcp.WithDescription("Save content to a note. A substantive change counts as activity "+
			"and brings an archived note back to the active set."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Opaque note id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full note body")),
	), s.writeNote)

	s.mcp.AddTool(mcp.NewTool("set_pinned",
		mcp.WithDescription("Pin or unpin a note. Pinned notes never fade to the archive."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Opaque note id")),
		mcp.WithBoolean("pinned", mcp.Required(), mcp.Description("Desired pin state")),
	), s.setPinned)

	s.mcp.AddTool(mcp.NewTool("list_archive",
		mcp.WithDescription("List archived notes, most recently active first."),
	), s.listArchive)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes := s.svc.ListActiveNotes(ctx)
	out, _ := json.MarshalIndent(notes, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.svc.LoadNoteContent(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note, err := s.svc.CreateNote(ctx, models.WindowGeometry{X: 120, Y: 120, Width: 340, Height: 300})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", note.ID)), nil
}

func (s *Server) writeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.SaveNoteContent(ctx, id, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s (archived=%t)", note.ID, note.Archived)), nil
}

func (s *Server) setPinned(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pinned, err := req.RequireBool("pinned")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.SetPinned(ctx, id, pinned)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("pinned=%t: %s", note.Pinned, note.ID)), nil
}

func (s *Server) listArchive(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.adapter.ListArchived()
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
