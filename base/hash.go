package base

import (
	"encoding/binary"

	farm "github.com/dgryski/go-farm"
	"github.com/meos-project/meos/mtype"
	"github.com/minio/highwayhash"
)

// Element hashes.  Equal datums under Cmp hash equal: by-value types
// hash a canonical fixed-width encoding of the word, by-reference types
// hash their packed payload (which is exactly what Cmp orders on).

func canonicalBytes(d Datum, typ mtype.Type, buf []byte) []byte {
	if d.IsRef() {
		return d.ref
	}
	switch typ {
	case mtype.Bool:
		if d.Bool() {
			buf[0] = 1
		} else {
			buf[0] = 0
		}
		return buf[:1]
	case mtype.Int, mtype.Date:
		binary.LittleEndian.PutUint32(buf, uint32(d.Int32()))
		return buf[:4]
	default:
		word := d.word
		if typ == mtype.Float && d.Float8() == 0 {
			word = 0 // collapse -0.0 onto +0.0
		}
		binary.LittleEndian.PutUint64(buf, word)
		return buf[:8]
	}
}

// Hash32 returns the 32-bit hash of one datum.
func Hash32(d Datum, typ mtype.Type) uint32 {
	var buf [8]byte
	return farm.Fingerprint32(canonicalBytes(d, typ, buf[:]))
}

// Hash64 returns the seeded 64-bit hash of one datum.  The seed keys the
// hash function, so distinct seeds give independent hash families.
func Hash64(d Datum, typ mtype.Type, seed uint64) uint64 {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[0:], seed)
	binary.LittleEndian.PutUint64(key[8:], seed)
	binary.LittleEndian.PutUint64(key[16:], seed)
	binary.LittleEndian.PutUint64(key[24:], seed)
	var buf [8]byte
	return highwayhash.Sum64(canonicalBytes(d, typ, buf[:]), key[:])
}

// Combine32 folds one element hash into a running container hash with
// the Pearson-style combiner shared by every container kind.
func Combine32(h, elem uint32) uint32 {
	return (h << 5) - h + elem
}

// Combine64 folds one element hash into a running 64-bit container
// hash, rotating the accumulator between merges.
func Combine64(h, elem uint64) uint64 {
	rot := (h << 32) | (h >> 32)
	return (rot << 5) - rot + elem
}
