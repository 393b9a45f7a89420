// Package jaundice defines the core types and interfaces for the article
// analysis pipeline: the per-URL Result record, the status taxonomy, and the
// capabilities (fetching, sanitizing, analyzing) consumed by the orchestrator.
package jaundice
