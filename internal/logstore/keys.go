package logstore

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - logs/m                        (store metadata: lastSeq)
// - logs/e/{seq_be8}              (canonical rows, insertion order)
// - logs/o/{datetime}/{~seq_be8}  (ordering index; value is seq_be8)
//
// Datetimes order byte-wise, exactly as the store compares them. The ordering
// key appends the bitwise-complemented sequence so a reverse scan yields
// datetime descending with insertion order ascending inside equal datetimes.

var (
	keyMeta     = []byte("logs/m")
	entryPrefix = []byte("logs/e/")
	orderPrefix = []byte("logs/o/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// keyEntry builds the row key with a big-endian sequence for proper ordering.
func keyEntry(seq uint64) []byte {
	k := make([]byte, 0, len(entryPrefix)+8)
	k = append(k, entryPrefix...)
	k = appendBE8(k, seq)
	return k
}

// keyOrder builds the ordering-index key for a row.
func keyOrder(datetime string, seq uint64) []byte {
	k := make([]byte, 0, len(orderPrefix)+len(datetime)+9)
	k = append(k, orderPrefix...)
	k = append(k, datetime...)
	k = append(k, '/')
	k = appendBE8(k, ^seq)
	return k
}

func seqFromEntryKey(k []byte) uint64 {
	return binary.BigEndian.Uint64(k[len(k)-8:])
}

// prefixUpperBound returns the exclusive upper bound for scanning all keys
// with the given prefix. Both prefixes here end in '/', which never overflows.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	end[len(end)-1]++
	return end
}

// docID is the full-text index document id for a row.
func docID(seq uint64) string {
	return fmt.Sprintf("%016x", seq)
}

func seqFromDocID(id string) (uint64, bool) {
	seq, err := strconv.ParseUint(id, 16, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}
