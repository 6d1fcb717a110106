// Package highscore implements the persisted top-N ranking of finished runs.
//
// The ledger is stored as a JSON array of {"score":number,"name":string}
// records under a single key of a key-value store. An older layout kept a
// bare integer under a separate key; it is migrated once when the new key is
// absent. Storage faults never reach the caller: reads fall back to an empty
// ledger and failed writes leave the in-memory ledger authoritative.
package highscore

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-runner/internal/config"
)

// NotRanked is returned by Record when the run did not make the ledger.
const NotRanked = -1

// Storage is the key-value backend a ledger persists into.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Entry is one ranked run.
type Entry struct {
	Score int    `json:"score"`
	Name  string `json:"name"`
}

// Options configures a ledger.
type Options struct {
	Key           string // primary key holding the JSON array
	LegacyKey     string // bare-integer key from older versions; empty disables migration
	Capacity      int
	DefaultName   string
	MaxNameLength int
	Logger        *log.Logger
}

// OptionsFrom builds ledger options from the loaded config.
func OptionsFrom(cfg config.LedgerConfig) Options {
	return Options{
		Key:           cfg.Key,
		LegacyKey:     cfg.LegacyKey,
		Capacity:      cfg.Capacity,
		DefaultName:   cfg.DefaultName,
		MaxNameLength: cfg.MaxNameLength,
	}
}

// ForPlayer namespaces the keys for a remote player.
// Remote players never had the legacy layout, so migration is disabled.
func (o Options) ForPlayer(player string) Options {
	if player == "" {
		return o
	}
	o.Key = player + "/" + o.Key
	o.LegacyKey = ""
	return o
}

// Ledger is a capped, descending, stable ranking of scores.
// It is not safe for concurrent use; each session owns its ledger.
type Ledger struct {
	store   Storage
	opts    Options
	logger  *log.Logger
	entries []Entry
}

// New creates an empty ledger. Call Load to read persisted entries.
// A nil store keeps the ledger in memory only.
func New(store Storage, opts Options) *Ledger {
	if opts.Capacity <= 0 {
		opts.Capacity = 5
	}
	if opts.DefaultName == "" {
		opts.DefaultName = "Player"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Ledger{
		store:  store,
		opts:   opts,
		logger: logger.WithPrefix("highscore"),
	}
}

// Open creates a ledger and loads it from the store.
func Open(store Storage, opts Options) *Ledger {
	l := New(store, opts)
	l.Load()
	return l
}

// Load replaces the in-memory ledger with the persisted one.
// It never fails: unreadable or malformed data yields an empty ledger.
func (l *Ledger) Load() {
	l.entries = nil
	if l.store == nil {
		return
	}

	raw, ok, err := l.store.Get(l.opts.Key)
	if err != nil {
		l.logger.Warn("cannot read ledger", "key", l.opts.Key, "error", err)
		return
	}
	if ok {
		entries, err := decode(raw)
		if err != nil {
			l.logger.Warn("discarding malformed ledger", "key", l.opts.Key, "error", err)
			return
		}
		l.entries = l.normalize(entries)
		return
	}

	l.migrateLegacy()
}

// migrateLegacy wraps a bare legacy score as a one-entry ledger and persists
// it under the primary key so the migration happens once.
func (l *Ledger) migrateLegacy() {
	if l.opts.LegacyKey == "" {
		return
	}
	raw, ok, err := l.store.Get(l.opts.LegacyKey)
	if err != nil {
		l.logger.Warn("cannot read legacy high score", "key", l.opts.LegacyKey, "error", err)
		return
	}
	if !ok {
		return
	}
	score, ok := parseScore(strings.TrimSpace(raw))
	if !ok || score <= 0 {
		return
	}
	l.entries = []Entry{{Score: score, Name: ""}}
	l.logger.Info("migrated legacy high score", "score", score)
	l.persist()
}

// Record inserts an anonymous entry for score and persists the ledger.
// It returns the entry's index and true when the run ranks, or NotRanked
// and false when it fell off the end.
func (l *Ledger) Record(score int) (int, bool) {
	if score < 0 {
		score = 0
	}

	// Equal scores keep insertion order, so the new entry goes after every
	// existing entry that is at least as high.
	idx := 0
	for idx < len(l.entries) && l.entries[idx].Score >= score {
		idx++
	}
	l.entries = slices.Insert(l.entries, idx, Entry{Score: score})
	if len(l.entries) > l.opts.Capacity {
		l.entries = l.entries[:l.opts.Capacity]
	}
	l.persist()

	if idx >= len(l.entries) {
		return NotRanked, false
	}
	return idx, true
}

// SetName assigns a sanitized display name to the entry at index and persists.
// It reports false when index is out of range.
func (l *Ledger) SetName(index int, name string) bool {
	if index < 0 || index >= len(l.entries) {
		return false
	}
	l.entries[index].Name = l.SanitizeName(name)
	l.persist()
	return true
}

// SanitizeName trims name, drops non-printable runes, caps the length and
// substitutes the default name when nothing is left.
func (l *Ledger) SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if l.opts.MaxNameLength > 0 {
		if runes := []rune(name); len(runes) > l.opts.MaxNameLength {
			name = strings.TrimSpace(string(runes[:l.opts.MaxNameLength]))
		}
	}
	if name == "" {
		return l.opts.DefaultName
	}
	return name
}

// Entries returns a copy of the ranking, highest first.
func (l *Ledger) Entries() []Entry {
	return slices.Clone(l.entries)
}

// Len returns the number of ranked entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Best returns the top score, or 0 for an empty ledger.
func (l *Ledger) Best() int {
	if len(l.entries) == 0 {
		return 0
	}
	return l.entries[0].Score
}

// persist writes the ledger; failures are logged and swallowed.
func (l *Ledger) persist() {
	if l.store == nil {
		return
	}
	data, err := json.Marshal(l.entriesOrEmpty())
	if err != nil {
		l.logger.Warn("cannot encode ledger", "error", err)
		return
	}
	if err := l.store.Set(l.opts.Key, string(data)); err != nil {
		l.logger.Warn("cannot persist ledger", "key", l.opts.Key, "error", err)
	}
}

func (l *Ledger) entriesOrEmpty() []Entry {
	if l.entries == nil {
		return []Entry{}
	}
	return l.entries
}

// normalize sorts descending (stable) and caps the ledger.
func (l *Ledger) normalize(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > l.opts.Capacity {
		entries = entries[:l.opts.Capacity]
	}
	return entries
}

// rawEntry accepts loosely typed records written by older or foreign clients.
type rawEntry struct {
	Score any `json:"score"`
	Name  any `json:"name"`
}

// decode parses the stored JSON array, coercing each record to an Entry.
// Records that are not objects are skipped.
func decode(raw string) ([]Entry, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		var r rawEntry
		if err := json.Unmarshal(item, &r); err != nil {
			continue
		}
		entries = append(entries, Entry{
			Score: coerceScore(r.Score),
			Name:  coerceName(r.Name),
		})
	}
	return entries, nil
}

func coerceScore(v any) int {
	switch s := v.(type) {
	case float64:
		if n, ok := floorScore(s); ok {
			return n
		}
	case string:
		if n, ok := parseScore(strings.TrimSpace(s)); ok && n > 0 {
			return n
		}
	}
	return 0
}

func coerceName(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprint(n)
	}
}

// parseScore accepts integer or decimal text and floors it.
func parseScore(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return floorScore(f)
}

// floorScore floors f into [0, math.MaxInt]. NaN and infinities are rejected.
func floorScore(f float64) (int, bool) {
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, false
	case f <= 0:
		return 0, true
	case f >= math.MaxInt:
		return math.MaxInt, true
	}
	return int(math.Floor(f)), true
}
