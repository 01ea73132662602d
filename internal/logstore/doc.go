// Package logstore implements the append-only, full-text-searchable log
// entry collection.
//
// # Overview
//
// Rows are persisted in Pebble under lexicographically ordered keys:
//   - logs/m                        (store metadata: lastSeq)
//   - logs/e/{seq_be8}              (canonical rows)
//   - logs/o/{datetime}/{~seq_be8}  (datetime-descending ordering index)
//
// A bleve index over the same rows provides relevance-ranked full-text
// matching. Context/extra values are normalized on write: every scalar leaf
// (number, boolean, null) is stored as its textual representation, so the
// index matches them as text, and object member order is preserved.
//
// API surface (internal)
//
//	s, _ := logstore.Open(logstore.Options{DB: db, IndexPath: dir})
//	e, _ := logstore.ParseEntry(body)
//	_ = s.Add(e)
//
//	// Unfiltered: most recent entries, datetime descending
//	views := s.Search("")
//	// Filtered: relevance-ranked, matched substrings wrapped in ⟦ ⟧
//	views = s.Search("connection refused")
//
//	_ = s.Clear()
//
// Search failures degrade to an empty result (logged at warn level); a live
// view must not hard-fail on a transient index error.
package logstore
