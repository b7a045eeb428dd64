package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/markmenu"
	"github.com/aretw0/markmenu/internal/presentation/graph"
	"github.com/aretw0/markmenu/pkg/config"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/aretw0/markmenu/pkg/trace"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

const (
	menuURI  = "markmenu://menu"
	graphURI = "markmenu://menu/graph"
)

// MenuResponse describes the menu served by the MCP server.
type MenuResponse struct {
	Menu    menu.View      `json:"menu" jsonschema_description:"The menu tree with item directions in degrees"`
	Options map[string]any `json:"options" jsonschema_description:"The navigation options"`
}

// ReplayResponse aligns with the HTTP adapter and provides a unified structure across adapters.
type ReplayResponse struct {
	Notifications []domain.NotificationView `json:"notifications" jsonschema_description:"Notifications emitted while replaying"`
	Selection     []string                  `json:"selection,omitempty" jsonschema_description:"Path of the selected item, empty when the gesture was cancelled"`
	Trace         *domain.Trace             `json:"trace,omitempty" jsonschema_description:"The pointer trace that was replayed, when synthesized"`
}

// Server wraps a Menu and exposes it as an MCP Server.
type Server struct {
	menu      *markmenu.Menu
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(m *markmenu.Menu, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		menu:   m,
		logger: logger,
		mcpServer: server.NewMCPServer("markmenu-mcp", strings.TrimSpace(markmenu.Version),
			server.WithResourceCapabilities(false, false),
			server.WithToolCapabilities(false),
			server.WithInstructions("Inspect a marking menu and replay pointer gestures through its navigation engine."),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type replayArgs struct {
	Trace  string `json:"trace"`
	Format string `json:"format"`
}

type selectArgs struct {
	Path  string `json:"path"`
	Style string `json:"style"`
}

func (s *Server) registerTools() {
	// TOOL: get_menu
	s.mcpServer.AddTool(mcp.NewTool("get_menu",
		mcp.WithDescription("Get the menu tree and navigation options."),
		mcp.WithOutputSchema[MenuResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetMenu))

	// TOOL: replay_gesture
	s.mcpServer.AddTool(mcp.NewTool("replay_gesture",
		mcp.WithDescription("Replay a recorded pointer trace and return the notifications it produces."),
		mcp.WithString("trace", mcp.Required(), mcp.Description("The trace document: samples with kind (down, move, up), x, y and t in milliseconds")),
		mcp.WithString("format", mcp.Description("Encoding of the trace"), mcp.Enum("json", "yaml")),
		mcp.WithOutputSchema[ReplayResponse](),
	), mcp.NewStructuredToolHandler(s.handleReplay))

	// TOOL: select_path
	s.mcpServer.AddTool(mcp.NewTool("select_path",
		mcp.WithDescription("Synthesize the gesture that selects an item and replay it."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Item labels separated by '/', e.g. Edit/Undo")),
		mcp.WithString("style", mcp.Description("Draw the mark directly or wait for the menu first"), mcp.Enum("expert", "novice")),
		mcp.WithOutputSchema[ReplayResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelectPath))
}

func (s *Server) handleGetMenu(ctx context.Context, request mcp.CallToolRequest, _ map[string]any) (MenuResponse, error) {
	return MenuResponse{
		Menu:    menu.ViewOf(s.menu.Root()),
		Options: config.Encode(s.menu.Config()),
	}, nil
}

func (s *Server) handleReplay(ctx context.Context, request mcp.CallToolRequest, args replayArgs) (ReplayResponse, error) {
	format := args.Format
	if format == "" {
		format = "json"
		if !strings.HasPrefix(strings.TrimSpace(args.Trace), "{") {
			format = "yaml"
		}
	}
	t, err := trace.Parse([]byte(args.Trace), format)
	if err != nil {
		s.logger.Warn("MCP Replay: Trace rejected", "err", err, "size", len(args.Trace))
		return ReplayResponse{}, fmt.Errorf("trace rejected: %w", err)
	}
	return s.replay(ctx, t, false)
}

func (s *Server) handleSelectPath(ctx context.Context, request mcp.CallToolRequest, args selectArgs) (ReplayResponse, error) {
	style := trace.StyleExpert
	if args.Style != "" {
		parsed, err := trace.ParseStyle(args.Style)
		if err != nil {
			return ReplayResponse{}, err
		}
		style = parsed
	}
	labels := strings.Split(strings.Trim(args.Path, "/"), "/")
	t, err := trace.Synthesize(s.menu.Root(), s.menu.Config(), style, labels...)
	if err != nil {
		return ReplayResponse{}, fmt.Errorf("cannot draw %q: %w", args.Path, err)
	}
	return s.replay(ctx, t, true)
}

func (s *Server) replay(ctx context.Context, t *domain.Trace, withTrace bool) (ReplayResponse, error) {
	ns, err := s.menu.ReplayTrace(ctx, t)
	if err != nil {
		return ReplayResponse{}, fmt.Errorf("replay failed: %w", err)
	}
	resp := ReplayResponse{Notifications: domain.Views(ns)}
	if sel := domain.Selected(ns); sel != nil {
		resp.Selection = sel.Path()
	}
	if withTrace {
		resp.Trace = t
	}
	return resp, nil
}

func (s *Server) registerResources() {
	// EXPOSE: markmenu://menu
	s.mcpServer.AddResource(mcp.NewResource(menuURI, "Menu Definition",
		mcp.WithResourceDescription("The menu tree with item directions and navigation options."),
		mcp.WithMIMEType("application/json"),
	), s.readMenu)

	// EXPOSE: markmenu://menu/graph
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Menu Graph",
		mcp.WithResourceDescription("The menu tree as a Mermaid flowchart."),
		mcp.WithMIMEType("text/plain"),
	), s.readGraph)
}

func (s *Server) readMenu(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	resp, _ := s.handleGetMenu(ctx, mcp.CallToolRequest{}, nil)
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode menu: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      menuURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      graphURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.menu.Root(), nil),
		},
	}, nil
}
