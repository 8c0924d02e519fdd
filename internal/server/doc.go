// Package server exposes the intake pipeline over HTTP.
//
// Routes:
//
//	POST /api/orchestrate  {"inputText": "..."} -> {"outputText": "...", "assumptions": [...]}
//	GET  /healthz          {"status": "ok"}
//	GET  /metrics          Prometheus exposition format
//
// The server validates the request at the boundary: a body that is not a
// JSON object, or an inputText that is missing, not a string or empty after
// trimming, is rejected with 400 before the pipeline runs. Every request gets
// its own IntakeReport; the only state shared between requests is the
// optional journal.
package server
