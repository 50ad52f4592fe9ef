// Package preflop implements the read-only heads-up preflop equity cache:
// a content-addressed table of win/lose/tie counts over all board
// completions for every unordered heads-up matchup, with a versioned
// little-endian binary dump format.
package preflop

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/McDic/pokercraft-local/internal/deck"
)

// ErrCacheFormat is returned by Load for malformed cache bytes: bad magic,
// unsupported version, truncated records or non-ascending keys.
var ErrCacheFormat = errors.New("invalid preflop cache format")

const (
	cacheMagic   = "PKCT"
	cacheVersion = 1
	headerSize   = 10
	recordSize   = 20

	// BoardsPerMatchup is C(48,5), the number of board completions behind
	// every cache entry.
	BoardsPerMatchup = 1_712_304

	// FullRecordCount is the number of canonical unordered heads-up
	// matchups, C(52,2) * C(50,2) / 2.
	FullRecordCount = 812_175
)

// WinLose holds the counts of one matchup from the first (hero) pair's
// perspective. Win + Lose + Tie is BoardsPerMatchup for a full build.
type WinLose struct {
	Win  uint32
	Lose uint32
	Tie  uint32
}

type entry struct {
	key    uint64
	counts WinLose
}

// Cache is the loaded table. It is read-only after Load or Build;
// concurrent readers need no coordination.
type Cache struct {
	entries []entry
}

// canonicalKey derives the 64-bit matchup key: cards sorted high-first
// within each pair, the two pairs sorted descending as tuples, the four
// 6-bit card indexes packed hero-high to villain-low. swapped reports that
// the caller's hero ended up as the second pair. ok is false when the four
// cards are not distinct.
func canonicalKey(hero, villain [2]deck.Card) (key uint64, swapped bool, ok bool) {
	h1, h2 := hero[0].Index(), hero[1].Index()
	if h1 < h2 {
		h1, h2 = h2, h1
	}
	v1, v2 := villain[0].Index(), villain[1].Index()
	if v1 < v2 {
		v1, v2 = v2, v1
	}
	if h1 == h2 || v1 == v2 || h1 == v1 || h1 == v2 || h2 == v1 || h2 == v2 {
		return 0, false, false
	}
	if v1 > h1 || (v1 == h1 && v2 > h2) {
		h1, h2, v1, v2 = v1, v2, h1, h2
		swapped = true
	}
	key = uint64(h1)<<18 | uint64(h2)<<12 | uint64(v1)<<6 | uint64(v2)
	return key, swapped, true
}

// Load parses a cache dump. The bytes must be the raw format: gzip-wrapped
// blobs are the caller's concern and are rejected here via the magic check.
func Load(data []byte) (*Cache, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCacheFormat, len(data))
	}
	if string(data[:4]) != cacheMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCacheFormat, data[:4])
	}
	if v := binary.LittleEndian.Uint16(data[4:6]); v != cacheVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCacheFormat, v)
	}
	count := binary.LittleEndian.Uint32(data[6:10])
	if want := headerSize + int(count)*recordSize; len(data) != want {
		return nil, fmt.Errorf("%w: %d records need %d bytes, got %d", ErrCacheFormat, count, want, len(data))
	}

	entries := make([]entry, count)
	prev := uint64(0)
	for i := range entries {
		rec := data[headerSize+i*recordSize:]
		key := binary.LittleEndian.Uint64(rec[0:8])
		if i > 0 && key <= prev {
			return nil, fmt.Errorf("%w: record %d key %#x not ascending", ErrCacheFormat, i, key)
		}
		prev = key
		entries[i] = entry{
			key: key,
			counts: WinLose{
				Win:  binary.LittleEndian.Uint32(rec[8:12]),
				Lose: binary.LittleEndian.Uint32(rec[12:16]),
				Tie:  binary.LittleEndian.Uint32(rec[16:20]),
			},
		}
	}
	return &Cache{entries: entries}, nil
}

// Dump serializes the cache back to the binary format. Load(Dump()) and
// Dump(Load()) are both identities.
func (c *Cache) Dump() []byte {
	out := make([]byte, headerSize+len(c.entries)*recordSize)
	copy(out[:4], cacheMagic)
	binary.LittleEndian.PutUint16(out[4:6], cacheVersion)
	binary.LittleEndian.PutUint32(out[6:10], uint32(len(c.entries)))
	for i, e := range c.entries {
		rec := out[headerSize+i*recordSize:]
		binary.LittleEndian.PutUint64(rec[0:8], e.key)
		binary.LittleEndian.PutUint32(rec[8:12], e.counts.Win)
		binary.LittleEndian.PutUint32(rec[12:16], e.counts.Lose)
		binary.LittleEndian.PutUint32(rec[16:20], e.counts.Tie)
	}
	return out
}

// Len returns the number of cached matchups.
func (c *Cache) Len() int {
	return len(c.entries)
}

// GetWinLose looks up the counts for hero versus villain, reoriented to the
// caller's hero. ok is false on overlapping cards or a key not present;
// the cache never falls back to live evaluation.
func (c *Cache) GetWinLose(hero, villain [2]deck.Card) (WinLose, bool) {
	key, swapped, valid := canonicalKey(hero, villain)
	if !valid {
		return WinLose{}, false
	}
	i := sort.Search(len(c.entries), func(i int) bool {
		return c.entries[i].key >= key
	})
	if i == len(c.entries) || c.entries[i].key != key {
		return WinLose{}, false
	}
	counts := c.entries[i].counts
	if swapped {
		counts.Win, counts.Lose = counts.Lose, counts.Win
	}
	return counts, true
}
