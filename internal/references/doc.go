// Package references renders bibliography entries into the citation list and
// raw BibTeX fragments of the publications pages.
//
// A List collects citations for one Classification. Each Cite checks that the
// entry exists and has the entry type the classification requires, then
// appends a formatted <li> item and a <pre> block with the entry's source.
// A Publisher substitutes every list into the two reference templates and
// saves them.
package references
