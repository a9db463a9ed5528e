// Package session keeps the in-memory set of Anchor puzzle sessions.
//
// Each session owns its own engine built from a puzzle configuration, so
// moves and edits in one session never affect another. Sessions are held
// in memory only and disappear when the process exits.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters from crypto/rand. Callers may pick
// their own ID made of letters, digits, '_' and '-'. Lookups ignore case.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// CleanupExpiredSessions drops sessions not accessed within a given age.
// The server runs it periodically.
package session
