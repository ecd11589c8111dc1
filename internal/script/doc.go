// Package script replays editing sessions written in Lua against a
// document.
//
// A script sees one global table, doc, whose functions stand in for the
// UI glue: typing into a page, backspacing at a page start, saving history,
// pressing undo and redo, changing zoom or margins. Scripts run in a
// restricted state with only the base, table, string and math libraries.
//
//	doc.edit(1, "<p>Hello</p>")
//	doc.save("TEXT")
//	assert(doc.undo())
//	print(doc.content(1))
//
// With a manual Clock, doc.advance(ms) moves time forward so batching
// can be replayed deterministically.
package script
