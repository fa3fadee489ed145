// Package ledger keeps a SQLite history of builds: one row per build, the
// outputs it wrote with their content fingerprints, and an append-only event
// log. The "history" command reads it back, and fingerprints tell a build
// which outputs actually changed since the previous one.
package ledger
