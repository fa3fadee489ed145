// Package site builds the documents that make up one page: a header with
// navigation, a body accumulating article fragments, a dated footer, and the
// base page shell they are assembled into.
//
// Header, footer and body are all fragment.Document values of different
// variants; the constructors here apply the construction rules of each variant.
package site
