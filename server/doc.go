// Package server exposes sessions over HTTP.
//
// Routes live under /api/v1:
//
//	POST   /sessions                 create a session, optionally loading {"url"}
//	GET    /sessions/:id             session info
//	POST   /sessions/:id/video       load or replace the video {"url"}
//	POST   /sessions/:id/questions   ask {"question"}
//	GET    /sessions/:id/messages    conversation history
//	DELETE /sessions/:id             end the session
//	GET    /healthz                  liveness
//
// Errors are returned as {"error": "..."}.
package server
