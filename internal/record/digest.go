package record

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"
)

// Digest returns a deterministic 64-bit fingerprint of the record.
func (r *Record) Digest() uint64 {
	var b strings.Builder
	writeField(&b, r.product)
	writeField(&b, r.chassis)

	parts := make([]string, 0, len(r.colors))
	for p := range r.colors {
		parts = append(parts, p)
	}
	sort.Strings(parts)

	for _, p := range parts {
		writeField(&b, r.groups[p])
		writeField(&b, p)
		writeField(&b, r.colors[p])
	}

	return xxhash.Sum64String(b.String())
}

// writeField writes a length-prefixed string so field boundaries stay unambiguous.
func writeField(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}
