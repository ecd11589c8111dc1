// Package markup provides the rich-text value type shared by the pagination
// and history engines.
//
// A Markup is an HTML fragment as produced by an editable region. The package
// never rewrites markup it is handed; splitting is done on token boundaries so
// that concatenating the pieces always yields the original bytes.
//
// # Units
//
// Tokenize breaks a fragment into split units: a single tag, a comment, a run
// of whitespace, or a run of non-whitespace text. The pagination engine grows
// a prefix one unit at a time and never splits inside a tag.
//
// # Trees
//
// Parse builds an html.Node tree rooted at a synthetic container element.
// The selection codec and search use trees; pagination works on raw bytes.
package markup
