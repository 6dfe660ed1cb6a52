// Package tracker provides a typed HTTP client for the Yandex Tracker API.
//
// # Overview
//
// This package wraps the Tracker REST API with typed request and response
// helpers, a closed error taxonomy, and a shared rate limiter so a desktop
// companion never hammers the service. It also carries the duration grammar
// Tracker uses for tracked time and the OAuth authorization-code exchange.
//
// # Architecture
//
// The package is split by concern:
//
//   - config.go: immutable client configuration with chained builders
//   - client.go: HTTP transport, header handling, request primitives
//   - ratelimit.go: minimum-spacing rate limiter shared across clients
//   - errors.go: the Error taxonomy and transport classification
//   - models.go: wire types with tolerant decoding of dynamic fields
//   - issues.go: search (paged and scroll), issue detail operations
//   - worklogs.go: worklog creation, cursor listing, cross-issue search
//   - checklist.go: checklist item CRUD
//   - directory.go: paged queue/project/user listings
//   - duration.go: ISO 8601 duration parsing and formatting
//   - auth.go: OAuth code exchange against oauth.yandex.ru
//
// # Client Usage
//
// Build a configuration, then a client:
//
//	cfg := tracker.NewConfig(token, tracker.OrgYandex360).WithOrgID(orgID)
//	client, err := tracker.New(cfg)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	me, err := client.Myself(ctx)
//	if err != nil {
//		log.Printf("credential check failed: %v", err)
//	}
//
// Several clients can share one request budget by passing the same limiter
// to NewWithLimiter.
//
// # Rate Limiting
//
// Every request waits on the client's RateLimiter before dispatch. With the
// default 500ms cooldown consecutive requests are spaced at least half a
// second apart regardless of which goroutine issues them. The wait honors
// context cancellation.
//
// # Pagination
//
// Three pagination styles appear in the API and each gets its own helper:
//
//   - Page-numbered search: SearchIssues with page/perPage
//   - Scroll search: SearchIssuesScroll driving X-Scroll-Id/X-Scroll-Token
//     response headers through ScrollPage until HasMore is false
//   - Cursor worklogs: IssueWorklogs follows the last entry id, capped at
//     WorklogMaxEntries
//
// Directory listings (queues, projects, users) walk numbered pages of 200
// with a ten page ceiling.
//
// # Error Handling
//
// All failures surface as *Error with a Kind:
//
//   - KindHTTP: non-2xx status, with the decoded error code when present
//   - KindAuthentication: 401 and 403 responses
//   - KindTimeout: deadline exceeded or transport timeout
//   - KindNetwork: connection, DNS, and route failures
//   - KindSerialization: request encoding or response decoding failures
//   - KindIO: body read failures
//   - KindOther: invalid input and everything unclassified
//
// Use ErrKind or IsKind to branch on the taxonomy without string matching.
package tracker
