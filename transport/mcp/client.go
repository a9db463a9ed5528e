package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"github.com/wricardo/mcp-training/anchor/game/puzzle"
	"github.com/wricardo/mcp-training/anchor/game/service"
)

// maxAttempts bounds retries of idempotent API calls
const maxAttempts = 3

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
	backoff    backoff.Backoff
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		backoff: backoff.Backoff{
			Min:    100 * time.Millisecond,
			Max:    2 * time.Second,
			Factor: 2,
			Jitter: true,
		},
	}

	c.initMCPServer()
	return c
}

var directionNames = []string{"north", "east", "south", "west"}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Anchor Puzzle",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Anchor Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Slide the anchor (A) around a 7x7 board to collect every token (T).
The anchor keeps sliding until a block (B) or the edge stops it.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage sessions
- get_board: current board with possible moves
- move / bulk_move: slide the anchor (north/east/south/west) - explain your intent
- neighbors: preview the four boards one slide away
- get_cell / toggle_cell / commit_board: edit the puzzle
- reset_game: restore the committed board
- move_history: past slides
- list_configs: available puzzles
- game_instructions: full rules`),
	)

	c.registerTools()
}

func sessionProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func coordProps() (map[string]interface{}, map[string]interface{}) {
	row := map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     puzzle.Rows - 1,
		"description": "Row of the cell (0 is the top row)",
	}
	col := map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     puzzle.Cols - 1,
		"description": "Column of the cell (0 is the left column)",
	}
	return row, col
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	row, col := coordProps()

	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional puzzle selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Puzzle to load (see list_configs). Defaults to the server default.",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Board
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Get the current board, remaining tokens and possible moves",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_cell",
		Description: "Describe one cell of the current board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"row":        row,
				"col":        col,
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleGetCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_cell",
		Description: "Cycle a cell through empty, block and token. The anchor cell cannot be toggled.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"row":        row,
				"col":        col,
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleToggleCell)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "commit_board",
		Description: "Make the current board the one reset_game restores",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleCommitBoard)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide the anchor until something stops it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionNames,
					"description": "Direction to slide",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d slides in sequence. Stops once every token is collected.", service.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": directionNames,
					},
					"description": "Directions to slide, in order",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the board to its committed state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProp()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "neighbors",
		Description: "Preview the board after one slide in each direction, without moving",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"distinct": map[string]interface{}{
					"type":        "boolean",
					"description": "Drop duplicate boards",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNeighbors)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the slide history of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProp(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Entries per page (default 20, max 100)",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Chronological order (default desc)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available puzzles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the Anchor puzzle",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiError is a non-2xx answer of the REST API
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("API error: %d", e.Status)
}

func (e *apiError) retryable() bool {
	return e.Status == http.StatusBadGateway ||
		e.Status == http.StatusServiceUnavailable ||
		e.Status == http.StatusGatewayTimeout
}

// apiCall performs one REST request. GET requests are retried with
// backoff on transport errors and gateway failures.
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = data
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = maxAttempts
	}

	b := c.backoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.do(ctx, method, path, payload, result)
		if err == nil || attempt == attempts || !retryable(err) {
			return err
		}

		wait := b.Duration()
		log.Debug().Err(err).Str("path", path).Int("attempt", attempt).Dur("wait", wait).Msg("retrying API call")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}

func retryable(err error) bool {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.retryable()
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, result interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		return &apiError{Status: resp.StatusCode, Message: errResp["error"]}
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// arguments returns the tool call arguments, tolerating a missing object
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func sessionPath(args map[string]interface{}, suffix string) (string, error) {
	id := strings.TrimSpace(cast.ToString(args["session_id"]))
	if id == "" {
		return "", errors.New("session_id is required")
	}
	return "/api/sessions/" + url.PathEscape(id) + suffix, nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID := cast.ToString(args["config_id"])
	if configID == "" {
		configID = cast.ToString(args["config_name"])
	}

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		tokens := 0
		if s.Board != nil {
			tokens = s.Board.Tokens
		}
		fmt.Fprintf(&b, "- %s (Puzzle: %s, Tokens left: %d, Created: %s)\n",
			s.ID, s.ConfigName, tokens, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/board")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var board service.BoardView
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&board)), nil
}

func cellPath(args map[string]interface{}, suffix string) (string, error) {
	row, err := cast.ToIntE(args["row"])
	if err != nil {
		return "", fmt.Errorf("row must be an integer: %w", err)
	}
	col, err := cast.ToIntE(args["col"])
	if err != nil {
		return "", fmt.Errorf("col must be an integer: %w", err)
	}
	return sessionPath(args, fmt.Sprintf("/cells/%d/%d%s", row, col, suffix))
}

func (c *Client) handleGetCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := cellPath(arguments(request), "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var cell service.CellInfo
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &cell); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

func (c *Client) handleToggleCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := cellPath(arguments(request), "/toggle")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var board service.BoardView
	if err := c.apiCall(ctx, http.MethodPost, path, nil, &board); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Cell toggled\n\n" + formatBoard(&board)), nil
}

func (c *Client) handleCommitBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/commit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string             `json:"message"`
		Board   *service.BoardView `json:"board"`
	}
	if err := c.apiCall(ctx, http.MethodPost, path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatBoard(response.Board)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// intent is only there to make the caller explain itself
	body := map[string]interface{}{
		"direction": cast.ToString(args["direction"]),
		"reset":     cast.ToBool(args["reset"]),
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, http.MethodPost, path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	path, err := sessionPath(args, "/bulk-move")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	moves, err := cast.ToStringSliceE(args["moves"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("moves must be a list of directions: %v", err)), nil
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": cast.ToBool(args["reset"]),
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, http.MethodPost, path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := sessionPath(arguments(request), "/reset")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string             `json:"message"`
		Board   *service.BoardView `json:"board"`
	}
	if err := c.apiCall(ctx, http.MethodPost, path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatBoard(response.Board))), nil
}

func (c *Client) handleNeighbors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	suffix := "/neighbors"
	if cast.ToBool(args["distinct"]) {
		suffix += "?distinct=true"
	}
	path, err := sessionPath(args, suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.NeighborsResult
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatNeighbors(&result)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	params := url.Values{}
	if page := cast.ToInt(args["page"]); page > 0 {
		params.Set("page", cast.ToString(page))
	}
	if limit := cast.ToInt(args["limit"]); limit > 0 {
		params.Set("limit", cast.ToString(limit))
	}
	if order := cast.ToString(args["order"]); order != "" {
		params.Set("order", order)
	}

	suffix := "/history"
	if len(params) > 0 {
		suffix += "?" + params.Encode()
	}
	path, err := sessionPath(args, suffix)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Puzzles:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Tokens: %d, Blocks: %d\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.Tokens, cfg.Blocks)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}

const instructions = `Anchor Puzzle - Complete Instructions

OBJECTIVE:
Collect every token on a 7x7 board by sliding the anchor.

BOARD LEGEND:
• A - the anchor (starts in the top-left corner)
• T - token, collected when the anchor passes over it
• B - block, stops the anchor
• . - empty cell

SLIDING RULES:
• A move picks one of north, east, south or west
• The anchor keeps moving until the next cell is a block or off the board
• Every token it crosses or lands on is collected
• A slide that cannot move at all leaves the board unchanged and still counts in the history

COORDINATES:
• (row, col) with (0,0) in the top-left corner
• north decreases the row, east increases the column

EDITING:
• toggle_cell cycles a cell: empty -> block -> token -> empty
• The anchor cell cannot be toggled
• reset_game restores the committed board; commit_board makes the current board the new reset target

STRATEGY:
• Use neighbors to preview all four slides before committing to one
• Blocks are the only places the anchor can stop mid-board: plan routes between them
• A token surrounded by empty cells in its row and column can only be collected by passing over it

VICTORY:
The puzzle is solved when no tokens are left.`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nPuzzle: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatBoard(session.Board))
}

func formatBoard(board *service.BoardView) string {
	if board == nil {
		return "No board available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Anchor: (%d,%d) | Tokens left: %d | Moves: %d\n\n",
		board.Anchor.Row, board.Anchor.Col, board.Tokens, board.CurrentMoves)

	b.WriteString("   ")
	for col := 0; col < puzzle.Cols; col++ {
		fmt.Fprintf(&b, "%d", col)
	}
	b.WriteString("\n")
	for i, row := range board.Rows {
		fmt.Fprintf(&b, "%d  %s\n", i, row)
	}

	if len(board.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", strings.Join(board.PossibleMoves, ", "))
	} else {
		b.WriteString("\nPossible moves: none\n")
	}

	if board.Solved {
		b.WriteString("\n🎉 SOLVED!")
	}
	if board.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", board.Message)
	}

	return b.String()
}

func formatCell(cell *service.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d,%d): %s '%s'\n", cell.Row, cell.Col, cell.Cell, cell.Char)
	if cell.Toggles {
		fmt.Fprintf(&b, "Toggles to: %s\n", cell.NextCell)
	} else {
		b.WriteString("Cannot be toggled\n")
	}
	if !cell.Passable {
		b.WriteString("Stops the anchor\n")
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	if result.Success {
		b.WriteString("✓ Anchor moved\n")
	} else {
		b.WriteString("✗ Anchor blocked\n")
	}

	if s := result.Step; s != nil {
		fmt.Fprintf(&b, "Step: %s (%d,%d)→(%d,%d) collected=%d left=%d\n",
			s.Direction, s.FromPosition.Row, s.FromPosition.Col,
			s.ToPosition.Row, s.ToPosition.Col, s.TokensCollected, s.TokensLeft)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n" + formatBoard(result.Board))
	return b.String()
}

func formatBulkMoveResult(result *service.BulkMoveResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Slides: %d moved, %d blocked (%d requested)\n",
		result.MovesExecuted, result.BlockedMoves, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	if result.StopReasonCode != "" {
		fmt.Fprintf(&b, "Stop reason: %s\n", result.StopReasonCode)
	}
	fmt.Fprintf(&b, "Anchor: (%d,%d) → (%d,%d) | Tokens: %d → %d\n",
		result.StartPos.Row, result.StartPos.Col, result.EndPos.Row, result.EndPos.Col,
		result.StartTokens, result.EndTokens)

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			mark := "✓"
			if !s.Moved {
				mark = "✗"
			}
			fmt.Fprintf(&b, "%2d. %s %-5s (%d,%d)→(%d,%d) left=%d\n",
				s.MoveNumber, mark, s.Direction,
				s.FromPosition.Row, s.FromPosition.Col, s.ToPosition.Row, s.ToPosition.Col, s.TokensLeft)
		}
	}

	b.WriteString("\n" + formatBoard(result.Board))
	return b.String()
}

func formatNeighbors(result *service.NeighborsResult) string {
	var b strings.Builder
	for _, n := range result.Neighbors {
		status := "moves"
		if n.Unchanged {
			status = "blocked"
		}
		fmt.Fprintf(&b, "== %s (%s) ==\n", n.Direction, status)
		if n.Board != nil {
			fmt.Fprintf(&b, "Anchor: (%d,%d) | Tokens left: %d\n", n.Board.Anchor.Row, n.Board.Anchor.Col, n.Board.Tokens)
			for _, row := range n.Board.Rows {
				b.WriteString(row + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d moves):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, move := range history.Moves {
		mark := "✓"
		if !move.Moved {
			mark = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s: (%d,%d) → (%d,%d) collected=%d left=%d\n",
			move.MoveNumber, mark, move.Direction,
			move.FromPosition.Row, move.FromPosition.Col,
			move.ToPosition.Row, move.ToPosition.Col,
			move.TokensCollected, move.TokensLeft)
	}

	if history.HasNext {
		fmt.Fprintf(&b, "\n(More moves available - use page=%d)", history.Page+1)
	}

	return b.String()
}
