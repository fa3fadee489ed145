// Package fragment implements the token mechanism shared by every page and
// bibliography output: HTML fragments carry placeholders of the form $$$NAME$$$,
// which are replaced literally until none remain.
//
// A Document remembers the set of tokens it declared when it was loaded. Replace
// checks against that set, never against the live buffer, so a token may be
// replaced after unrelated edits, and tokens introduced by replacement text are
// not replaceable. Finalize strips HTML comments and blank edge lines and then
// requires the buffer to be free of tokens.
package fragment
