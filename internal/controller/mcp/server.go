// Package mcp exposes the operator catalog, the site scanner and the
// mutation applier as Model Context Protocol tools over stdio. The tools
// work on text passed in the request and never touch the filesystem.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"gooze.dev/pkg/clooze/internal/domain"
	"gooze.dev/pkg/clooze/internal/domain/mutagens"
	m "gooze.dev/pkg/clooze/internal/model"
)

// ServerName identifies the server to MCP clients.
const ServerName = "clooze"

const scratchName = "input.clj"

// NewServer builds an MCP server with every clooze tool registered.
func NewServer(version string, registry *mutagens.Registry) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)

	RegisterTools(s, registry)

	return s
}

// RegisterTools adds the clooze tools to s.
func RegisterTools(s *server.MCPServer, registry *mutagens.Registry) {
	s.AddTool(listOperatorsTool(), listOperatorsHandler(registry))
	s.AddTool(scanSourceTool(), scanSourceHandler(registry))
	s.AddTool(applyMutationTool(), applyMutationHandler(registry))
}

// ServeStdio serves s on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// --- list_operators ---

func listOperatorsTool() mcp.Tool {
	return mcp.NewTool("list_operators",
		mcp.WithDescription("List the mutation operators clooze knows, optionally restricted to a preset."),
		mcp.WithString("preset",
			mcp.Description("Preset name (minimal, fast, standard, comprehensive). Omit to list the whole catalog."),
		),
	)
}

func listOperatorsHandler(registry *mutagens.Registry) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ops := registry.All()

		if preset := req.GetString("preset", ""); preset != "" {
			selected, err := registry.Resolve(preset, nil)
			if err != nil {
				return toolError(err)
			}

			ops = selected
		}

		var sb strings.Builder
		for _, op := range ops {
			fmt.Fprintf(&sb, "%s\t%s\t%s\n", op.ID, op.Category, op.Description)
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- scan_source ---

func scanSourceTool() mcp.Tool {
	return mcp.NewTool("scan_source",
		mcp.WithDescription("Scan Clojure source text and list every mutation instance as row:col operator original-form."),
		mcp.WithString("source",
			mcp.Description("Clojure source text"),
			mcp.Required(),
		),
		mcp.WithString("preset",
			mcp.Description("Preset selecting the operators (default standard)"),
		),
		mcp.WithString("operators",
			mcp.Description("Comma-separated operator ids; overrides the preset"),
		),
	)
}

func scanSourceHandler(registry *mutagens.Registry) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := req.GetString("source", "")
		if source == "" {
			return toolError(errors.New("source is required"))
		}

		ops, err := registry.Resolve(req.GetString("preset", ""), splitIDs(req.GetString("operators", "")))
		if err != nil {
			return toolError(err)
		}

		sites, err := domain.NewScanner(ops, domain.DefaultSkipForms).Scan(scratchName, []byte(source))
		if err != nil {
			return toolError(err)
		}

		instances := domain.Expand(sites, "", 0)
		if len(instances) == 0 {
			return mcp.NewToolResultText("No mutation sites found."), nil
		}

		var sb strings.Builder

		fmt.Fprintf(&sb, "%d sites, %d mutations\n", len(sites), len(instances))

		for _, instance := range instances {
			fmt.Fprintf(&sb, "%s %s %s\n", instance.Position, instance.Operator, oneLine(instance.Original))
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- apply_mutation ---

func applyMutationTool() mcp.Tool {
	return mcp.NewTool("apply_mutation",
		mcp.WithDescription("Apply one operator at a 1-based row and column. Returns the mutated text followed by a unified diff."),
		mcp.WithString("source",
			mcp.Description("Clojure source text"),
			mcp.Required(),
		),
		mcp.WithNumber("row",
			mcp.Description("1-based row of the form"),
			mcp.Required(),
		),
		mcp.WithNumber("col",
			mcp.Description("1-based column of the form"),
			mcp.Required(),
		),
		mcp.WithString("operator",
			mcp.Description("Operator id, e.g. arith-add-sub"),
			mcp.Required(),
		),
	)
}

func applyMutationHandler(registry *mutagens.Registry) server.ToolHandlerFunc {
	mutator := domain.NewMutator(registry)

	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		source := req.GetString("source", "")
		operator := req.GetString("operator", "")
		pos := m.Position{Row: req.GetInt("row", 0), Col: req.GetInt("col", 0)}

		if source == "" || operator == "" || pos.Row < 1 || pos.Col < 1 {
			return toolError(errors.New("source, operator and a positive row and col are required"))
		}

		mutated, err := mutator.Apply([]byte(source), pos, m.OperatorID(operator))
		if err != nil {
			return toolError(err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(string(mutated)),
				mcp.NewTextContent(domain.Diff(scratchName, []byte(source), mutated)),
			},
		}, nil
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func splitIDs(list string) []m.OperatorID {
	var ids []m.OperatorID

	for _, part := range strings.Split(list, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, m.OperatorID(id))
		}
	}

	return ids
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
