// Package mcp provides a Model Context Protocol server for cardnote.
//
// It exposes schedule extraction and the contact/schedule store as MCP
// tools over stdio, so an agent (or the mini-app backend) can turn a
// free-text note into a structured schedule record and persist it.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/cardnote-app/cardnote/internal/schedule"
	"github.com/cardnote-app/cardnote/internal/store"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store   store.Store
	Version string

	// Location anchors "today" for relative dates; nil means UTC.
	Location *time.Location
	// Now is an overridable clock for tests; nil means time.Now.
	Now func() time.Time
}

// dbMu serializes all MCP tool calls that touch the database.
// The mcp-go library dispatches handlers concurrently via goroutines,
// and SQLite supports only one writer at a time. A global mutex keeps
// adds ordered before the lists that should see them.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all cardnote tools.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	clock := func() time.Time { return now().In(loc) }

	s := server.NewMCPServer(
		"cardnote",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	engine := schedule.NewEngine()

	registerParseTool(s, engine, clock)
	registerAddTool(s, engine, cfg.Store, clock)
	registerListTool(s, cfg.Store)
	registerContactListTool(s, cfg.Store)

	registerStatsResource(s, cfg.Store)

	return s
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// --- Tools ---

func registerParseTool(s *server.MCPServer, engine *schedule.Engine, clock func() time.Time) {
	tool := mcp.NewTool("schedule_parse",
		mcp.WithDescription("Parse a free-text Chinese note into a structured schedule record (date, time, title, type, location) without saving it. Deterministic rule-based extraction."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The free-text note, e.g. '明天下午2點在台北辦公室跟王經理討論新產品方案'"),
		),
		mcp.WithString("contact_name",
			mcp.Description("Name of the contact the note is about. Used in the generated title and participant annotation."),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil || strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("text is required"), nil
		}

		contactName := ""
		if v, err := req.RequireString("contact_name"); err == nil {
			contactName = v
		}

		rec := engine.Extract(text, contactName, "", clock())

		data, _ := json.MarshalIndent(rec, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerAddTool(s *server.MCPServer, engine *schedule.Engine, st store.Store, clock func() time.Time) {
	tool := mcp.NewTool("schedule_add",
		mcp.WithDescription("Parse a free-text note and save the resulting schedule record. The contact is looked up by name and created if missing."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The free-text note to extract a schedule from"),
		),
		mcp.WithString("contact_name",
			mcp.Required(),
			mcp.Description("Name of the contact this schedule belongs to"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		text, err := req.RequireString("text")
		if err != nil || strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("text is required"), nil
		}
		contactName, err := req.RequireString("contact_name")
		if err != nil || strings.TrimSpace(contactName) == "" {
			return mcp.NewToolResultError("contact_name is required"), nil
		}

		contact, err := st.FindContactByName(ctx, contactName)
		if err == store.ErrNotFound {
			contact, err = st.AddContact(ctx, contactName)
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("resolving contact: %v", err)), nil
		}

		rec := engine.Extract(text, contact.Name, contact.ID, clock())

		id, err := st.AddSchedule(ctx, &rec)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("saving schedule: %v", err)), nil
		}
		rec.ID = id

		data, _ := json.MarshalIndent(rec, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerListTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("schedule_list",
		mcp.WithDescription("List saved schedule records ordered by date, optionally filtered to one contact by name."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("contact_name",
			mcp.Description("Only return schedules for this contact. Empty = all contacts."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records (default: 20, max: 100)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		opts := store.ListOpts{Limit: 20}

		if name, err := req.RequireString("contact_name"); err == nil && name != "" {
			contact, err := st.FindContactByName(ctx, name)
			if err == store.ErrNotFound {
				return mcp.NewToolResultText("[]"), nil
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("resolving contact: %v", err)), nil
			}
			opts.ContactID = contact.ID
		}

		if limitVal, err := req.RequireFloat("limit"); err == nil {
			limit := int(limitVal)
			if limit > 100 {
				limit = 100
			}
			if limit > 0 {
				opts.Limit = limit
			}
		}

		records, err := st.ListSchedules(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing schedules: %v", err)), nil
		}
		if records == nil {
			records = []*schedule.Record{}
		}

		data, _ := json.MarshalIndent(records, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerContactListTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("contact_list",
		mcp.WithDescription("List all known contacts."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		contacts, err := st.ListContacts(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing contacts: %v", err)), nil
		}
		if contacts == nil {
			contacts = []*store.Contact{}
		}

		data, _ := json.MarshalIndent(contacts, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

// --- Resources ---

func registerStatsResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"cardnote://stats",
		"Store statistics",
		mcp.WithResourceDescription("Contact and schedule counts plus database size"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		stats, err := st.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading stats: %w", err)
		}

		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "cardnote://stats",
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
