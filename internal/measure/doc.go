// Package measure defines the measurement oracle used by pagination.
//
// An Oracle reports the rendered height of a markup fragment laid out at a
// given width. Real glyph metrics need a rendering surface, so the engine
// treats the oracle as an injected, deterministic function. FaceOracle is a
// self-contained approximation built on font faces, suitable for headless
// use and the command line tools; UI glue normally supplies its own.
//
// An oracle that cannot measure (detached surface, zero width) returns
// ErrUnavailable. Callers treat that as recoverable.
package measure
