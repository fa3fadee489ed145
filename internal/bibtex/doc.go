// Package bibtex reads a BibTeX database into read-only entries.
//
// Parsing is done with a participle grammar over a stateful lexer, so nested
// braces in values are handled by the lexer states rather than by regular
// expressions. After parsing, values are post-processed the way citation
// output needs them:
//
//   - @string macros and month abbreviations are resolved; months become integers
//   - "#" concatenations are joined
//   - LaTeX accents and symbols are decoded to composed Unicode
//   - author and editor fields are split into persons with first/von/last/jr parts
//
// Each entry keeps the exact source text of its block for raw-reference output.
package bibtex
