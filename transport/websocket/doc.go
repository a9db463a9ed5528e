// Package websocket pushes live board updates to browser clients.
//
// A central Hub owns every connection. Clients subscribe to one session
// through ServeWS and receive a JSON message each time that session's
// board changes:
//
//	{"session_id": "ab12", "event": "board_update", "board": {...}}
//
// Hub implements service.Notifier, so the game service feeds it directly.
// Incoming client messages are ignored; the connection is only kept alive
// with ping/pong.
package websocket
