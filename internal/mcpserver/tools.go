package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/search"
	"github.com/nikbrunner/vault/internal/validation"
)

// DefaultListLimit is the list_bookmarks limit when none is given.
const DefaultListLimit = 50

// BookmarkHandler exposes the collection as MCP tools.
type BookmarkHandler struct {
	repo   Repository
	ids    model.IDGenerator
	stamps *model.Timestamper
	log    logger.Logger
}

// HandlerOption configures a BookmarkHandler.
type HandlerOption func(*BookmarkHandler)

// WithClock sets the clock used for createdAt.
func WithClock(c model.Clock) HandlerOption {
	return func(h *BookmarkHandler) { h.stamps = model.NewTimestamper(c) }
}

// WithIDs sets the id generator for added bookmarks.
func WithIDs(g model.IDGenerator) HandlerOption {
	return func(h *BookmarkHandler) { h.ids = g }
}

// WithLogger sets the handler's logger.
func WithLogger(l logger.Logger) HandlerOption {
	return func(h *BookmarkHandler) { h.log = l }
}

func NewBookmarkHandler(repo Repository, opts ...HandlerOption) *BookmarkHandler {
	h := &BookmarkHandler{
		repo:   repo,
		ids:    model.UUIDGenerator{},
		stamps: model.NewTimestamper(nil),
		log:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *BookmarkHandler) RegisterTools(s *server.MCPServer) error {
	count := mcp.NewTool("count_bookmarks",
		mcp.WithDescription("Count total bookmarks"),
	)
	searchTool := mcp.NewTool("search_bookmarks",
		mcp.WithDescription("Search bookmarks by title, URL, description, or tags"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
	)
	list := mcp.NewTool("list_bookmarks",
		mcp.WithDescription("List all bookmarks with optional limit"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of bookmarks to return (default 50)")),
	)
	get := mcp.NewTool("get_bookmark",
		mcp.WithDescription("Get a specific bookmark by ID"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Bookmark ID")),
	)
	add := mcp.NewTool("add_bookmark",
		mcp.WithDescription("Add a new bookmark"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Bookmark title")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Bookmark URL")),
		mcp.WithString("description", mcp.Description("Optional description")),
		mcp.WithArray("tags", mcp.Description("Optional tags"), mcp.Items(map[string]any{"type": "string"})),
	)
	del := mcp.NewTool("delete_bookmark",
		mcp.WithDescription("Delete a bookmark by ID"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Bookmark ID to delete")),
	)

	s.AddTool(count, h.handleCount)
	s.AddTool(searchTool, h.handleSearch)
	s.AddTool(list, h.handleList)
	s.AddTool(get, h.handleGet)
	s.AddTool(add, h.handleAdd)
	s.AddTool(del, h.handleDelete)
	return nil
}

func (h *BookmarkHandler) handleCount(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bookmarks, err := h.repo.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load bookmarks: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Total bookmarks: %d", len(bookmarks))), nil
}

func (h *BookmarkHandler) handleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.log.Debug("search_bookmarks invoked", logger.String("query", query))

	bookmarks, err := h.repo.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load bookmarks: %v", err)), nil
	}

	// the query is used verbatim; an empty one matches everything
	term := strings.ToLower(query)
	out := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if search.Matches(b, term) {
			out = append(out, b)
		}
	}
	return jsonResult(out)
}

func (h *BookmarkHandler) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := DefaultListLimit
	if l, ok := req.GetArguments()["limit"].(float64); ok { // JSON numbers decoded as float64
		limit = int(l)
	}
	if limit < 0 {
		limit = 0
	}

	bookmarks, err := h.repo.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load bookmarks: %v", err)), nil
	}
	if len(bookmarks) > limit {
		bookmarks = bookmarks[:limit]
	}
	return jsonResult(bookmarks)
}

func (h *BookmarkHandler) handleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bookmarks, err := h.repo.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load bookmarks: %v", err)), nil
	}
	b := model.FindByID(bookmarks, id)
	if b == nil {
		return mcp.NewToolResultText(notFound(id)), nil
	}
	return jsonResult(b)
}

func (h *BookmarkHandler) handleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, _ := req.RequireString("title")
	url, _ := req.RequireString("url")

	in := model.CreateInput{Title: title, URL: url, Tags: []string{}}
	args := req.GetArguments()
	if v, ok := args["description"].(string); ok {
		in.Description = v
	}
	if raw, ok := args["tags"].([]any); ok {
		for _, t := range raw {
			s, ok := t.(string)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("tags: expected string, got %T", t)), nil
			}
			in.Tags = append(in.Tags, s)
		}
	}

	if issues := validation.ValidateCreateInput(in); !issues.OK() {
		return mcp.NewToolResultError(issues.Error()), nil
	}

	bookmarks, err := h.repo.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load bookmarks: %v", err)), nil
	}

	b := model.NewBookmark(in, h.ids.New(), h.stamps.Stamp())
	if err := h.repo.Save(ctx, model.Prepend(bookmarks, b)); err != nil {
		h.log.Error("add_bookmark failed", logger.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.log.Info("bookmark added", logger.String("id", b.ID))
	return mcp.NewToolResultText(fmt.Sprintf("Added bookmark: %s (%s)", b.Title, b.URL)), nil
}

func (h *BookmarkHandler) handleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	bookmarks, err := h.repo.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load bookmarks: %v", err)), nil
	}
	b := model.FindByID(bookmarks, id)
	if b == nil {
		return mcp.NewToolResultText(notFound(id)), nil
	}
	deleted := *b

	if err := h.repo.Save(ctx, model.Without(bookmarks, id)); err != nil {
		h.log.Error("delete_bookmark failed", logger.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}

	h.log.Info("bookmark deleted", logger.String("id", id))
	return mcp.NewToolResultText("Deleted bookmark: " + deleted.Title), nil
}

func notFound(id string) string {
	return "Bookmark with ID \"" + id + "\" not found"
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
