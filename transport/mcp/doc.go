// Package mcp exposes the Anchor puzzle to AI agents over the Model
// Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request to the REST
// API and the JSON answer is rendered as text. Tools:
//
//   - create_session, get_session, list_sessions
//   - get_board, get_cell, toggle_cell, commit_board
//   - move, bulk_move, reset_game, neighbors, move_history
//   - list_configs, game_instructions
//
// Arguments are coerced with spf13/cast, so agents may send numbers as
// strings and booleans as "true". GET requests are retried with backoff on
// transport errors and 502/503/504 answers; mutating calls are sent once.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
