package logstore

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/cockroachdb/pebble"

	pebblestore "github.com/silvanei/simple-log-viewer/internal/storage/pebble"
	logpkg "github.com/silvanei/simple-log-viewer/pkg/log"
)

// DefaultSearchLimit caps the number of entries a search returns.
const DefaultSearchLimit = 100

const clearBatchSize = 1024

// row is the persisted form of an entry. Context and Extra hold the exact
// serialized bytes the full-text index was fed, so highlight offsets reported
// by the index line up with the stored text.
type row struct {
	Datetime string          `json:"datetime"`
	Channel  string          `json:"channel"`
	Level    string          `json:"level"`
	Message  string          `json:"message"`
	Context  json.RawMessage `json:"context"`
	Extra    json.RawMessage `json:"extra"`
}

// Options configures a Store.
type Options struct {
	DB *pebblestore.DB
	// IndexPath is the full-text index directory; empty means in-memory.
	IndexPath string
	// Limit overrides DefaultSearchLimit when > 0.
	Limit  int
	Logger logpkg.Logger
}

// Store is the append-only, full-text-searchable log entry collection.
// Rows live in Pebble under insertion-order and datetime-order keys; the
// bleve index provides relevance-ranked matching and highlight locations.
type Store struct {
	db     *pebblestore.DB
	idx    bleve.Index
	logger logpkg.Logger
	limit  int

	mu      sync.Mutex
	lastSeq uint64
}

// Open initializes a Store over the given database and loads the last
// sequence from metadata (if any).
func Open(opts Options) (*Store, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("logstore: Options.DB is required")
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultSearchLimit
	}
	if opts.Logger == nil {
		opts.Logger = logpkg.NewLogger(logpkg.WithLevel(logpkg.ErrorLevel))
	}
	idx, err := openIndex(opts.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("logstore: open index: %w", err)
	}
	s := &Store{db: opts.DB, idx: idx, logger: opts.Logger, limit: opts.Limit}
	meta, err := opts.DB.Get(keyMeta)
	if err == nil && len(meta) >= 8 {
		s.lastSeq = binary.BigEndian.Uint64(meta[:8])
	} else if err != nil && !pebblestore.IsNotFound(err) {
		_ = idx.Close()
		return nil, fmt.Errorf("logstore: read meta: %w", err)
	}
	return s, nil
}

// Close releases the full-text index. The database is owned by the caller.
func (s *Store) Close() error {
	return s.idx.Close()
}

// Add serializes the entry's context/extra to their canonical text form and
// appends one row: the full-text document is indexed first, then the row,
// ordering key, and metadata commit in a single batch. A failure on either
// side leaves both stores unchanged, so a stored entry is always findable
// by filtered and unfiltered search alike.
func (s *Store) Add(e Entry) error {
	if e.Extra.Kind == KindInvalid {
		e.Extra = EmptyArray()
	}
	ctxJSON, err := json.Marshal(e.Context)
	if err != nil {
		return fmt.Errorf("logstore: encode context: %w", err)
	}
	extraJSON, err := json.Marshal(e.Extra)
	if err != nil {
		return fmt.Errorf("logstore: encode extra: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seq := s.lastSeq + 1
	r := row{
		Datetime: e.Datetime,
		Channel:  e.Channel,
		Level:    e.Level,
		Message:  e.Message,
		Context:  ctxJSON,
		Extra:    extraJSON,
	}
	rowJSON, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("logstore: encode row: %w", err)
	}

	b := s.db.NewBatch()
	defer b.Close()
	if err := b.Set(keyEntry(seq), rowJSON, nil); err != nil {
		return fmt.Errorf("logstore: append row: %w", err)
	}
	var seqVal [8]byte
	binary.BigEndian.PutUint64(seqVal[:], seq)
	if err := b.Set(keyOrder(e.Datetime, seq), seqVal[:], nil); err != nil {
		return fmt.Errorf("logstore: append order key: %w", err)
	}
	if err := b.Set(keyMeta, seqVal[:], nil); err != nil {
		return fmt.Errorf("logstore: update meta: %w", err)
	}
	if err := s.idx.Index(docID(seq), indexDoc(r)); err != nil {
		return fmt.Errorf("logstore: index entry: %w", err)
	}
	if err := s.db.CommitBatch(context.Background(), b); err != nil {
		_ = s.idx.Delete(docID(seq))
		return fmt.Errorf("logstore: append row: %w", err)
	}
	s.lastSeq = seq
	return nil
}

// Search returns up to the configured limit of entry views. An empty filter
// yields the most recent entries by datetime descending (insertion order
// inside equal datetimes); a non-empty filter yields relevance-ranked matches
// with matched substrings wrapped in highlight markers. Index failures
// degrade to an empty result.
func (s *Store) Search(filter string) []EntryView {
	if filter == "" {
		return s.searchRecent()
	}
	return s.searchFiltered(filter)
}

func (s *Store) searchRecent() []EntryView {
	views := []EntryView{}
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: orderPrefix,
		UpperBound: prefixUpperBound(orderPrefix),
	})
	if err != nil {
		s.logger.Warn("search degraded to empty result", logpkg.Err(err))
		return views
	}
	defer iter.Close()

	for ok := iter.Last(); ok && len(views) < s.limit; ok = iter.Prev() {
		if len(iter.Value()) < 8 {
			continue
		}
		seq := binary.BigEndian.Uint64(iter.Value())
		r, err := s.loadRow(seq)
		if err != nil {
			s.logger.Warn("skipping unreadable row", logpkg.Uint64("seq", seq), logpkg.Err(err))
			continue
		}
		view, err := viewFromRow(r, nil)
		if err != nil {
			s.logger.Warn("skipping undecodable row", logpkg.Uint64("seq", seq), logpkg.Err(err))
			continue
		}
		views = append(views, view)
	}
	return views
}

func (s *Store) searchFiltered(filter string) []EntryView {
	views := []EntryView{}
	q := buildQuery(filter)
	if q == nil {
		return views
	}
	req := bleve.NewSearchRequestOptions(q, s.limit, 0, false)
	req.SortBy([]string{"-_score", "-" + fieldDatetimeSort})
	req.IncludeLocations = true
	res, err := s.idx.Search(req)
	if err != nil {
		s.logger.Warn("search degraded to empty result", logpkg.Err(err))
		return views
	}
	for _, hit := range res.Hits {
		seq, ok := seqFromDocID(hit.ID)
		if !ok {
			continue
		}
		r, err := s.loadRow(seq)
		if err != nil {
			s.logger.Warn("skipping unreadable row", logpkg.Uint64("seq", seq), logpkg.Err(err))
			continue
		}
		view, err := viewFromRow(r, hit.Locations)
		if err != nil {
			s.logger.Warn("skipping undecodable row", logpkg.Uint64("seq", seq), logpkg.Err(err))
			continue
		}
		views = append(views, view)
	}
	return views
}

// Clear removes all rows and index documents. Idempotent; the sequence
// counter is preserved so document ids are never reused.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: entryPrefix,
		UpperBound: prefixUpperBound(entryPrefix),
	})
	if err != nil {
		return fmt.Errorf("logstore: clear: %w", err)
	}
	var ids []string
	for ok := iter.First(); ok; ok = iter.Next() {
		ids = append(ids, docID(seqFromEntryKey(iter.Key())))
	}
	iter.Close()

	if err := s.db.DeleteRange(entryPrefix, prefixUpperBound(entryPrefix)); err != nil {
		return fmt.Errorf("logstore: clear rows: %w", err)
	}
	if err := s.db.DeleteRange(orderPrefix, prefixUpperBound(orderPrefix)); err != nil {
		return fmt.Errorf("logstore: clear order keys: %w", err)
	}

	for start := 0; start < len(ids); start += clearBatchSize {
		end := min(start+clearBatchSize, len(ids))
		batch := s.idx.NewBatch()
		for _, id := range ids[start:end] {
			batch.Delete(id)
		}
		if err := s.idx.Batch(batch); err != nil {
			return fmt.Errorf("logstore: clear index: %w", err)
		}
	}
	return nil
}

func (s *Store) loadRow(seq uint64) (row, error) {
	b, err := s.db.Get(keyEntry(seq))
	if err != nil {
		return row{}, err
	}
	var r row
	if err := json.Unmarshal(b, &r); err != nil {
		return row{}, err
	}
	return r, nil
}

// viewFromRow applies highlight locations (may be nil) and decodes the
// context/extra text back into ordered values. Markers always land inside
// JSON string literals because every leaf is stored as text.
func viewFromRow(r row, locs search.FieldTermLocationMap) (EntryView, error) {
	ctxVal, err := ParseValue([]byte(applyHighlight(string(r.Context), locs[fieldContext])))
	if err != nil {
		return EntryView{}, err
	}
	extraVal, err := ParseValue([]byte(applyHighlight(string(r.Extra), locs[fieldExtra])))
	if err != nil {
		return EntryView{}, err
	}
	return EntryView{
		Datetime: applyHighlight(r.Datetime, locs[fieldDatetime]),
		Channel:  applyHighlight(r.Channel, locs[fieldChannel]),
		Level:    applyHighlight(r.Level, locs[fieldLevel]),
		Message:  applyHighlight(r.Message, locs[fieldMessage]),
		Context:  ctxVal,
		Extra:    extraVal,
	}, nil
}
