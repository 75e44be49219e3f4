// Package trainfile implements erecon's training-file codec: JSON
// `{"0": [[recA,recB], ...], "1": [...]}`, each record a field->string
// map with no record_id. Unlike the settings codec this format is a
// plain, caller-facing interchange format, so JSON via encoding/json is
// the natural fit.
package trainfile

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"sort"
	"strconv"

	"github.com/cognicore/erecon/pkg/erecon/erecerr"
	"github.com/cognicore/erecon/pkg/erecon/model"
)

// rawPair mirrors the JSON shape of one training-file entry: a
// two-element array of field->string records.
type rawPair [2]map[string]string

// Load decodes a training file into labeled pairs. Record IDs are not
// part of the wire format; Load synthesizes a stable ID per record by
// content-hashing its attributes, so two records with
// identical fields collapse to the same Record and a write-then-read
// round trip yields identical labeled pairs up to field-dict key order.
func Load(r io.Reader) ([]model.LabeledPair, error) {
	var raw map[string][]rawPair
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("trainfile: decode: %w: %v", erecerr.ErrIO, err)
	}

	var out []model.LabeledPair
	for key, pairs := range raw {
		label, err := strconv.Atoi(key)
		if err != nil || (label != 0 && label != 1) {
			return nil, fmt.Errorf("trainfile: label key %q must be \"0\" or \"1\": %w", key, erecerr.ErrIO)
		}
		for i, rp := range pairs {
			if rp[0] == nil || rp[1] == nil {
				return nil, fmt.Errorf("trainfile: label %q entry %d is not a two-record pair: %w", key, i, erecerr.ErrIO)
			}
			a := model.Record{ID: recordID(rp[0]), Attributes: rp[0]}
			b := model.Record{ID: recordID(rp[1]), Attributes: rp[1]}
			out = append(out, model.LabeledPair{Pair: model.NewPair(a, b), Label: label})
		}
	}
	return out, nil
}

// Save encodes labeled pairs back to the training-file JSON shape.
// Record IDs are dropped (they never round-trip through the wire
// format); only attribute maps are written.
func Save(w io.Writer, labeled []model.LabeledPair) error {
	raw := map[string][]rawPair{"0": {}, "1": {}}
	for _, lp := range labeled {
		key := strconv.Itoa(lp.Label)
		if key != "0" && key != "1" {
			return fmt.Errorf("trainfile: label must be 0 or 1, got %d: %w", lp.Label, erecerr.ErrInvalidConfig)
		}
		raw[key] = append(raw[key], rawPair{lp.Pair.A.Attributes, lp.Pair.B.Attributes})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("trainfile: encode: %w: %v", erecerr.ErrIO, err)
	}
	return nil
}

// recordID derives a stable, deterministic identifier from a record's
// attributes: sort the keys, hash the canonical "key=value\x00..."
// join. Identical attribute maps always produce identical IDs.
func recordID(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(attrs[k]))
		h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
