// Package build runs a complete site build: reference lists first (their
// citations page is itself an article), then every configured page, then
// link verification of what was written.
//
// A build is recorded in the ledger, counted by the metrics recorder and
// announced by the notifier. Each of those is optional; the zero Builder
// options fall back to no-op implementations.
package build
