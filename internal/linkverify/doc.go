// Package linkverify checks the local links of generated pages: every
// relative href or src must point at an existing file, and every "#anchor"
// must name an element id (or <a name>) in the target page.
//
// External links are not fetched. Pages are parsed with golang.org/x/net/html
// and cached, so checking a site parses each page once.
package linkverify
