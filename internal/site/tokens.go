package site

// Token names the fragments are expected to declare.
const (
	TokenTitle       = "TITLE"
	TokenDescription = "DESCRIPTION"
	TokenHeader      = "HEADER"
	TokenBody        = "BODY"
	TokenFooter      = "FOOTER"
	TokenItems       = "ITEMS"
	TokenDate        = "DATETIME"
	TokenArticles    = "ARTICLES"
)

// Style values written into the header's STYLE tokens.
const (
	StyleEmphasized = "bold"
	StyleNormal     = "normal"
)

// styleCategory marks header tokens that take a style value.
const styleCategory = "STYLE"

// styleRule emphasizes token when the page title contains marker.
type styleRule struct {
	section string
	marker  string
	token   string
}

// styleRules are evaluated in order; the first match wins.
var styleRules = []styleRule{
	{section: "home", marker: "ome", token: "STYLE1"},
	{section: "research", marker: "search", token: "STYLE2"},
	{section: "personal", marker: "sonal", token: "STYLE3"},
}
