// Package page holds the page records of a paginated document and the
// geometry that decides how much content a page can carry.
//
// Pages are addressed by Order, which is 1-based, unique and dense. Pages are
// only appended at the tail or removed when merged into their predecessor;
// removal renumbers the pages after the removed one so orders stay dense.
// Each page also has a stable ID that survives renumbering, which is what
// deferred work uses to check that its target still exists.
package page
