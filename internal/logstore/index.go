package logstore

import (
	"errors"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Highlight markers wrapped around matched substrings in search results.
const (
	HighlightBegin = "⟦"
	HighlightEnd   = "⟧"
)

const (
	fieldDatetime = "datetime"
	fieldChannel  = "channel"
	fieldLevel    = "level"
	fieldMessage  = "message"
	fieldContext  = "context"
	fieldExtra    = "extra"

	// fieldDatetimeSort carries the raw datetime as a single keyword term for
	// the tie-break sort; it is never matched or highlighted.
	fieldDatetimeSort = "datetime_sort"
)

var searchFields = []string{fieldDatetime, fieldChannel, fieldLevel, fieldMessage, fieldContext, fieldExtra}

// openIndex opens or creates the full-text index. An empty path yields an
// in-memory index.
func openIndex(path string) (bleve.Index, error) {
	if path == "" {
		return bleve.NewMemOnly(buildIndexMapping())
	}
	idx, err := bleve.Open(path)
	if err == nil {
		return idx, nil
	}
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		return bleve.New(path, buildIndexMapping())
	}
	return nil, err
}

func buildIndexMapping() mapping.IndexMapping {
	// Term vectors stay enabled: highlight offsets come from term locations.
	text := bleve.NewTextFieldMapping()
	text.Store = false
	text.IncludeInAll = false

	datetimeSort := bleve.NewKeywordFieldMapping()
	datetimeSort.Store = false
	datetimeSort.IncludeInAll = false
	datetimeSort.IncludeTermVectors = false

	doc := bleve.NewDocumentStaticMapping()
	for _, f := range searchFields {
		doc.AddFieldMappingsAt(f, text)
	}
	doc.AddFieldMappingsAt(fieldDatetimeSort, datetimeSort)

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	return im
}

func indexDoc(r row) map[string]interface{} {
	return map[string]interface{}{
		fieldDatetime:     r.Datetime,
		fieldDatetimeSort: r.Datetime,
		fieldChannel:      r.Channel,
		fieldLevel:        r.Level,
		fieldMessage:      r.Message,
		fieldContext:      string(r.Context),
		fieldExtra:        string(r.Extra),
	}
}

// buildQuery translates a free-text filter into exact-term matching: every
// whitespace-separated term must match, each in any of the indexed fields.
// Returns nil when the filter holds no terms.
func buildQuery(filter string) query.Query {
	terms := strings.Fields(filter)
	if len(terms) == 0 {
		return nil
	}
	conjuncts := make([]query.Query, 0, len(terms))
	for _, term := range terms {
		perField := make([]query.Query, 0, len(searchFields))
		for _, f := range searchFields {
			mq := bleve.NewMatchQuery(term)
			mq.SetField(f)
			mq.SetOperator(query.MatchQueryOperatorAnd)
			perField = append(perField, mq)
		}
		conjuncts = append(conjuncts, bleve.NewDisjunctionQuery(perField...))
	}
	if len(conjuncts) == 1 {
		return conjuncts[0]
	}
	return bleve.NewConjunctionQuery(conjuncts...)
}

type span struct{ start, end int }

// highlightSpans flattens term locations into merged, ordered byte ranges.
func highlightSpans(locs search.TermLocationMap, limit int) []span {
	var spans []span
	for _, termLocs := range locs {
		for _, loc := range termLocs {
			start, end := int(loc.Start), int(loc.End)
			if start < 0 || end > limit || start >= end {
				continue
			}
			spans = append(spans, span{start: start, end: end})
		}
	}
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})
	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.start <= last.end {
			if sp.end > last.end {
				last.end = sp.end
			}
			continue
		}
		merged = append(merged, sp)
	}
	return merged
}

// applyHighlight wraps every matched byte range of text in the marker pair.
func applyHighlight(text string, locs search.TermLocationMap) string {
	spans := highlightSpans(locs, len(text))
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(HighlightBegin)+len(HighlightEnd)))
	prev := 0
	for _, sp := range spans {
		b.WriteString(text[prev:sp.start])
		b.WriteString(HighlightBegin)
		b.WriteString(text[sp.start:sp.end])
		b.WriteString(HighlightEnd)
		prev = sp.end
	}
	b.WriteString(text[prev:])
	return b.String()
}
