// Package api exposes the HTTP interface for the jaundice analyzer service.
//
// The main endpoint is /api/analyze, which accepts a list of article URLs and
// returns one result per URL in request order. Health, readiness, and
// Prometheus metrics endpoints are served alongside it.
package api
