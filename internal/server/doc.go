// Package server exposes the allocviz pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                               liveness probe
//	POST /v1/render?kind=<kind>&format=<fmt>    snapshot JSON in, diagram out
//	POST /v1/graph?format=<fmt>&colored=<bool>  linked-list JSON in, adjacency diagram out
//
// kind is auto (default), bitmap, buddy or linkedlist. Render formats are
// svg (default), png, pdf and json; graph formats are svg (default), dot,
// png and pdf. Both routes accept scale for png output; /v1/render also
// takes title and transparent. Every successful render carries an X-Render-ID header and an
// X-Cache header of "hit" or "miss".
//
// Failures are JSON objects of the form {"code": "...", "message": "..."}
// with the status chosen from the error code: malformed snapshots and bad
// parameters are 400, oversized bodies 413, non-JSON bodies 415 and
// everything else 500.
package server
