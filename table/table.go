// Package table implements C3: a generic, schema-validated table with a
// primary key, content hashing, and deep-copy semantics. Roadway (C4)
// and transit (C5) networks each compose several Table[Row] instances
// plus a cross-table foreign-key graph (DB) rather than sharing one
// dynamic row type, matching the teacher's typed-map-per-entity layout
// in storage/memory.go while generalizing the validate/coerce/hash
// pipeline the teacher duplicates per file.
package table

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/wsp-sag/network-wrangler-sub001/errs"
)

// Schema describes how to validate, default, and key rows of type Row.
type Schema[Row any] struct {
	// Validate checks a single row against column types/nullability/
	// allowed-value constraints. It does not check foreign keys (those
	// are table-DB-wide, see CheckForeignKey below).
	Validate func(Row) error

	// Coerce is the rescue path run when Validate fails once; if it
	// returns a row that then validates, the table accepts it. A nil
	// Coerce means no rescue path is registered for this table.
	Coerce func(Row) (Row, error)

	// ApplyDefaults fills missing nullable columns in place and
	// returns the row (mirrors add_missing_columns policy).
	ApplyDefaults func(Row) Row

	// Key returns the row's primary key, used for uniqueness and
	// lookup.
	Key func(Row) string

	// HashBytes returns a deterministic byte encoding of the row's
	// column values, used to build the table's content hash. Column
	// order must be stable.
	HashBytes func(Row) []byte
}

// Table is a schema-validated, primary-keyed collection of rows of type
// Row, stored in row order (order matters for the content hash and for
// deterministic iteration, per spec §4.3).
type Table[Row any] struct {
	name   string
	schema Schema[Row]
	rows   []Row
	index  map[string]int
	hash   uint64
}

// New creates an empty table. Assign or Insert to populate it.
func New[Row any](name string, schema Schema[Row]) *Table[Row] {
	return &Table[Row]{
		name:   name,
		schema: schema,
		index:  map[string]int{},
	}
}

// Name returns the table's name, as used in error messages and the FK
// graph.
func (t *Table[Row]) Name() string { return t.name }

// Len returns the row count.
func (t *Table[Row]) Len() int { return len(t.rows) }

// All returns the rows in table order. The returned slice must not be
// mutated by the caller; use DeepCopy to get an independent table.
func (t *Table[Row]) All() []Row { return t.rows }

// Get looks up a row by primary key.
func (t *Table[Row]) Get(key string) (Row, bool) {
	i, ok := t.index[key]
	if !ok {
		var zero Row
		return zero, false
	}
	return t.rows[i], true
}

// Has reports whether key exists in the table.
func (t *Table[Row]) Has(key string) bool {
	_, ok := t.index[key]
	return ok
}

// Keys returns all primary keys, in row order.
func (t *Table[Row]) Keys() []string {
	keys := make([]string, len(t.rows))
	for i, r := range t.rows {
		keys[i] = t.schema.Key(r)
	}
	return keys
}

// Assign replaces the table's contents wholesale, running the full
// schema-validation contract of spec §3.4 step 1-2 (FK checks and
// hashing are steps 3-5, driven by the owning roadway.Network or
// transit.Feed since they span tables): validate each row; on failure,
// try Coerce and revalidate; apply defaults; enforce primary-key
// uniqueness; recompute the table-local hash.
func (t *Table[Row]) Assign(rows []Row) error {
	validated := make([]Row, len(rows))
	for i, r := range rows {
		if err := t.schema.Validate(r); err != nil {
			if t.schema.Coerce == nil {
				return fmt.Errorf("%w: table %s row %d: %v", errs.ErrTableValidation, t.name, i, err)
			}
			coerced, cerr := t.schema.Coerce(r)
			if cerr != nil {
				return fmt.Errorf("%w: table %s row %d: coercion failed: %v (original: %v)", errs.ErrTableValidation, t.name, i, cerr, err)
			}
			if verr := t.schema.Validate(coerced); verr != nil {
				return fmt.Errorf("%w: table %s row %d: still invalid after coercion: %v", errs.ErrTableValidation, t.name, i, verr)
			}
			r = coerced
		}
		if t.schema.ApplyDefaults != nil {
			r = t.schema.ApplyDefaults(r)
		}
		validated[i] = r
	}

	index := make(map[string]int, len(validated))
	for i, r := range validated {
		k := t.schema.Key(r)
		if _, dup := index[k]; dup {
			return fmt.Errorf("%w: table %s duplicate primary key %q", errs.ErrTableValidation, t.name, k)
		}
		index[k] = i
	}

	t.rows = validated
	t.index = index
	t.recomputeHash()
	return nil
}

// Insert appends a single already-valid row (callers use this from
// editors once validation/coercion has already happened, to avoid
// revalidating the whole table on every single-row mutation). It still
// enforces primary-key uniqueness.
func (t *Table[Row]) Insert(r Row) error {
	k := t.schema.Key(r)
	if _, dup := t.index[k]; dup {
		return fmt.Errorf("%w: table %s duplicate primary key %q", errs.ErrTableValidation, t.name, k)
	}
	t.index[k] = len(t.rows)
	t.rows = append(t.rows, r)
	t.recomputeHash()
	return nil
}

// Replace overwrites the row at key in place, preserving row order.
func (t *Table[Row]) Replace(key string, r Row) error {
	i, ok := t.index[key]
	if !ok {
		return fmt.Errorf("%w: table %s key %q not found", errs.ErrTableValidation, t.name, key)
	}
	newKey := t.schema.Key(r)
	if newKey != key {
		if _, dup := t.index[newKey]; dup {
			return fmt.Errorf("%w: table %s duplicate primary key %q", errs.ErrTableValidation, t.name, newKey)
		}
		delete(t.index, key)
		t.index[newKey] = i
	}
	t.rows[i] = r
	t.recomputeHash()
	return nil
}

// Delete removes the row with the given key, if present, shifting
// later rows to keep row order stable.
func (t *Table[Row]) Delete(key string) bool {
	i, ok := t.index[key]
	if !ok {
		return false
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	delete(t.index, key)
	for k, idx := range t.index {
		if idx > i {
			t.index[k] = idx - 1
		}
	}
	t.recomputeHash()
	return true
}

// Filter returns the subset of rows for which pred is true, in row
// order.
func (t *Table[Row]) Filter(pred func(Row) bool) []Row {
	var out []Row
	for _, r := range t.rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// Hash returns the table's content hash: FNV-1a over each row's
// HashBytes, row order significant (per spec §4.3/§8: round-trips must
// produce equal hashes; row order is part of content identity).
func (t *Table[Row]) Hash() uint64 { return t.hash }

func (t *Table[Row]) recomputeHash() {
	h := fnv.New64a()
	for _, r := range t.rows {
		_, _ = h.Write(t.schema.HashBytes(r))
		_, _ = h.Write([]byte{0})
	}
	t.hash = h.Sum64()
}

// DeepCopy returns an independent table with the same rows (Row must be
// a value type, or the caller's CloneRow should be used via
// DeepCopyWith for reference-typed rows).
func (t *Table[Row]) DeepCopy() *Table[Row] {
	cp := &Table[Row]{
		name:   t.name,
		schema: t.schema,
		rows:   append([]Row(nil), t.rows...),
		index:  make(map[string]int, len(t.index)),
		hash:   t.hash,
	}
	for k, v := range t.index {
		cp.index[k] = v
	}
	return cp
}

// DeepCopyWith returns an independent table cloning each row with
// cloneRow, for Row types holding pointers/slices that must not alias
// the original.
func (t *Table[Row]) DeepCopyWith(cloneRow func(Row) Row) *Table[Row] {
	cp := &Table[Row]{
		name:   t.name,
		schema: t.schema,
		rows:   make([]Row, len(t.rows)),
		index:  make(map[string]int, len(t.index)),
		hash:   t.hash,
	}
	for i, r := range t.rows {
		cp.rows[i] = cloneRow(r)
	}
	for k, v := range t.index {
		cp.index[k] = v
	}
	return cp
}

// CheckForeignKey validates, for every row key in keys, that it is
// present in targetKeys (the primary-key set of the referenced table).
// If the target table is absent (nil targetKeys with targetPresent
// false), the check is skipped with a warning returned as the warning
// string rather than an error, matching spec §4.3 step 3 ("missing FK target
// tables emit a warning and skip").
func CheckForeignKey(tableName, column string, keys []string, targetKeys map[string]bool, targetPresent bool) (warning string, err error) {
	if !targetPresent {
		return fmt.Sprintf("table %s: FK target for column %s not present; skipping check", tableName, column), nil
	}
	missing := map[string]bool{}
	for _, k := range keys {
		if k == "" {
			continue
		}
		if !targetKeys[k] {
			missing[k] = true
		}
	}
	if len(missing) > 0 {
		keysList := make([]string, 0, len(missing))
		for k := range missing {
			keysList = append(keysList, k)
		}
		sort.Strings(keysList)
		return "", fmt.Errorf("%w: table %s column %s references missing values %v", errs.ErrForeignKeyValue, tableName, column, keysList)
	}
	return "", nil
}

// CheckReverseForeignKey validates that every value in referencedKeys
// (primary keys of this table that are still referenced by some other
// table's rows) is present in currentKeys (this table's current primary
// keys), per spec §4.3 step 4.
func CheckReverseForeignKey(tableName string, referencedKeys []string, currentKeys map[string]bool) error {
	var missing []string
	for _, k := range referencedKeys {
		if !currentKeys[k] {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: table %s is missing values %v still referenced by a dependent table", errs.ErrForeignKeyValue, tableName, missing)
	}
	return nil
}

// KeySet builds a set from a table's Keys(), for use as a
// CheckForeignKey target.
func KeySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// CombineHashes produces a deterministic database-level hash from an
// ordered list of per-table hashes (order = table declaration order, per
// spec §4.3 step 5).
func CombineHashes(tableHashes []uint64) uint64 {
	h := fnv.New64a()
	for _, th := range tableHashes {
		b := make([]byte, 8)
		for i := 0; i < 8; i++ {
			b[i] = byte(th >> (8 * i))
		}
		_, _ = h.Write(b)
	}
	return h.Sum64()
}
