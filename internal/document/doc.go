// Package document is the single entry point UI glue talks to.
//
// A Document owns the page store, the pagination engine, the history log
// and the region surface, and exposes the inbound edit operations (content,
// backspace merge, header and footer, history, zoom and margins) together
// with the outbound state (the page list and undo/redo availability).
// Change events are published on a notify.Hub after each operation returns
// its lock, so observers may call back into the document.
//
// Every mutating operation that should be undoable must be followed by a
// SaveHistory call; the document never records history implicitly, except
// for search replacements, which record their own TEXT entry.
package document
