package table

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// Fingerprint returns a 64-bit hash of the table's full content, column names
// included. Identical tables always hash identically.
func (t *Table) Fingerprint() (uint64, error) {
	return Fingerprint(t)
}

// Fingerprint hashes any msgpack-encodable value the same way tables are
// hashed. Map keys are sorted so the result does not depend on iteration order.
func Fingerprint(v any) (uint64, error) {
	d := xxhash.New()
	enc := msgpack.GetEncoder()
	enc.Reset(d)
	enc.SetSortMapKeys(true)
	err := enc.Encode(v)
	msgpack.PutEncoder(enc)
	if err != nil {
		return 0, fmt.Errorf("fingerprint %T: %w", v, err)
	}
	return d.Sum64(), nil
}
