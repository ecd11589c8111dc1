// Package paginate reflows a document's content across fixed-size pages.
//
// The Engine keeps every page's measured content height at or below the
// usable page height. When an edit overflows a page, a split search grows a
// prefix of the new markup one unit at a time (a tag, a whitespace run or a
// word) and keeps the longest prefix that still fits. The remainder is
// prepended to the next page, creating it at the tail if needed, and a
// continuation is queued to reflow that page in turn.
//
// # Two-phase commit
//
// Applying an edit commits the fitting prefix and the carried overflow to the
// page store immediately, so no content ever lives only inside queued work.
// Continuations just ask for a page to be measured again. They address pages
// by ID, so a continuation whose page was merged away is discarded, and they
// carry a sequence number so that newer work for the same page supersedes
// older work.
//
// By default continuations run before the edit call returns. With
// WithDeferredContinuations the host drains them with Step or Flush, for
// example after re-rendering.
//
// # Failure semantics
//
// If the oracle is unavailable the edited markup is committed as-is and the
// page is remembered; the next edit event retries it. Nothing here is fatal.
package paginate
