// Package http serves conversations, projects and search results over a
// JSON API and pushes change notifications to browsers over a websocket.
//
// Routes:
//
//	GET /api/health
//	GET /api/projects
//	GET /api/conversations
//	GET /api/conversations/:projectPath
//	GET /api/conversations/:projectPath/:id
//	GET /api/search?query=&projectPath=&limit=
//	GET /ws
//
// Every request rescans the transcripts tree, so API routes sit behind a
// token bucket limiter.
package http
