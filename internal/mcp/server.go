package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openvisura/visura-extract/internal/config"
	"github.com/openvisura/visura-extract/internal/pdf"
	"github.com/openvisura/visura-extract/internal/pdf/security"
	"github.com/openvisura/visura-extract/internal/visura"
)

// Server represents the MCP server instance
type Server struct {
	config        *config.Config
	extractor     *visura.Extractor
	validator     *pdf.Validator
	search        *pdf.Search
	pathValidator *security.PathValidator
	mcpServer     *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, extractor *visura.Extractor) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}

	pathValidator, err := security.NewPathValidator(cfg.VisuraDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:        cfg,
		extractor:     extractor,
		validator:     pdf.NewValidator(cfg.MaxFileSize),
		search:        pdf.NewSearch(cfg.MaxFileSize),
		pathValidator: pathValidator,
		mcpServer:     mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"visura_extract_file",
		mcp.WithDescription("Extract the property records from a visura catastale PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the visura PDF file"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractFile)

	validateTool := mcp.NewTool(
		"visura_validate_file",
		mcp.WithDescription("Validate if a file is a readable PDF document"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateFile)

	searchTool := mcp.NewTool(
		"visura_search_directory",
		mcp.WithDescription("Search for visura PDF files in a directory"),
		mcp.WithString("directory",
			mcp.Description("Directory path to search (uses default if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional substring filter on file names"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchDirectory)
}

// Handler functions

func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	normalized, err := s.pathValidator.SanitizePath(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("security validation failed: %v", err)), nil
	}

	result, err := s.extractor.ParseFile(normalized)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatExtractResult(result)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	normalized, err := s.pathValidator.SanitizePath(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("security validation failed: %v", err)), nil
	}

	result, err := s.validator.ValidateFile(pdf.ValidateFileRequest{Path: normalized})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable (%d pages)", result.Path, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.VisuraDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	if err := s.pathValidator.ValidatePath(directory); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("security validation failed: %v", err)), nil
	}

	result, err := s.search.SearchDirectory(pdf.SearchDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
	} else {
		responseText = s.formatSearchDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

// Formatting methods

func (s *Server) formatExtractResult(result *visura.ExtractResult) string {
	text := fmt.Sprintf("Extracted %d property record(s) from %s (%d pages)\n",
		len(result.Records), result.Path, result.Pages)

	for _, diag := range result.Diagnostics {
		text += fmt.Sprintf("Warning: %s\n", diag)
	}

	fields := make([]map[string]any, len(result.Records))
	for i := range result.Records {
		fields[i] = result.Records[i].Fields()
	}

	payload, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return text + fmt.Sprintf("Failed to encode records: %v\n", err)
	}

	text += "\nRecords:\n"
	text += string(payload)
	return text
}

func (s *Server) formatSearchDirectoryResult(result *pdf.SearchDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		text += fmt.Sprintf("Search query: %s\n", result.SearchQuery)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting visura extraction MCP server in stdio mode")
		log.Printf("Visura directory: %s", s.config.VisuraDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs library handles the transport differently; stdio is the
	// supported transport for now.
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
