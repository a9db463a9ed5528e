// Package api serves the Anchor puzzle over HTTP.
//
// Routes are registered on a gorilla/mux router:
//
//	GET    /api/health
//	POST   /api/sessions                          {"config_id": "classic"}
//	GET    /api/sessions?sort=created|accessed&order=asc|desc&limit=N
//	GET    /api/sessions/{id}
//	DELETE /api/sessions/{id}
//	GET    /api/sessions/{id}/board
//	GET    /api/sessions/{id}/cells/{row}/{col}
//	POST   /api/sessions/{id}/cells/{row}/{col}/toggle
//	POST   /api/sessions/{id}/commit
//	POST   /api/sessions/{id}/move                {"direction": "east", "reset": false}
//	POST   /api/sessions/{id}/bulk-move           {"moves": ["east", "south"]}
//	POST   /api/sessions/{id}/reset
//	GET    /api/sessions/{id}/neighbors?distinct=true
//	GET    /api/sessions/{id}/history?page=1&limit=20&order=desc
//	GET    /api/configs
//	GET    /api/configs/{name}
//	GET    /ws?session={id}
//
// Errors are JSON objects of the form {"error": "..."}. Unknown sessions and
// puzzles map to 404, bad coordinates and directions to 400, toggling the
// anchor to 409, anything else to 500.
//
// Every response carries an X-Request-ID header; a caller-supplied value is
// echoed back and attached to the request's log lines.
package api
