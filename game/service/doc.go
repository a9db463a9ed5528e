// Package service provides the business logic layer for the Anchor puzzle game.
//
// The service package implements:
//   - Multi-session game management
//   - Puzzle configuration lookup
//   - Move, bulk move and cell toggle processing
//   - Neighbor expansion with optional de-duplication
//   - Move history pagination
//   - Change notification to presentation layers
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages puzzle configuration loading.
// Notifier receives a rendered board after every board mutation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine; the service subscribes to
// that engine and forwards every change to the configured Notifier, so the
// engine and the puzzle model never reference a transport.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithNotifier(hub))
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, sessionInfo.ID, "east", false)
package service
