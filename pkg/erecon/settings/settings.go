// Package settings implements erecon's persisted-state codec: a framed,
// versioned binary encoding for a trained DataModel plus its learned
// predicate disjunction. It writes a self-describing, endian-independent
// frame (magic bytes, version, length-prefixed sections) with
// encoding/binary — explicit, versioned, forward-compatible framing
// rather than an opaque blob.
package settings

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cognicore/erecon/pkg/erecon/erecerr"
	"github.com/cognicore/erecon/pkg/erecon/model"
	"github.com/cognicore/erecon/pkg/erecon/predicates"
)

// magic identifies an erecon settings frame.
var magic = [4]byte{'E', 'R', 'E', 'C'}

// formatVersion is bumped whenever the frame layout changes
// incompatibly. Load rejects any other version.
const formatVersion uint16 = 1

// Save writes dm and the learned predicate disjunction to w in the
// framed binary format. Custom comparators are never serialized — only
// a field's name, kind, has-missing flag, and weight are written; Load's
// caller must re-supply Custom comparators by field name.
func Save(w io.Writer, dm *model.DataModel, disjunction []predicates.Clause) error {
	buf := &bytes.Buffer{}
	buf.Write(magic[:])
	writeUint16(buf, formatVersion)

	fields := dm.Fields()
	writeUint32(buf, uint32(len(fields)))
	for _, f := range fields {
		writeString(buf, f.Name)
		buf.WriteByte(byte(f.Kind))
		writeBool(buf, f.HasMissing)
		writeFloat64(buf, f.Weight)
	}
	writeFloat64(buf, dm.Bias())

	writeUint32(buf, uint32(len(disjunction)))
	for _, clause := range disjunction {
		buf.WriteByte(byte(len(clause)))
		for _, p := range clause {
			buf.WriteByte(byte(p.Kind))
			writeString(buf, p.Field)
			buf.WriteByte(byte(p.PrefixLen))
			writeFloat64(buf, p.Threshold)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// FieldSkeleton describes one decoded field before its comparator is
// reattached: everything Save wrote except the function value Go cannot
// serialize.
type FieldSkeleton struct {
	Name       string
	Kind       model.FieldKind
	HasMissing bool
	Weight     float64
}

// Loaded holds everything Load decodes: the field skeletons plus bias
// (both needed to reconstruct a DataModel once the caller supplies
// Custom comparators) and the learned predicate disjunction.
type Loaded struct {
	Fields      []FieldSkeleton
	Bias        float64
	Disjunction []predicates.Clause
}

// Load decodes a settings frame previously written by Save. It returns
// erecerr.ErrIO (wrapping the underlying cause) for a short read, a bad
// magic, or an unsupported version — settings corruption is always
// surfaced, never silently patched over.
func Load(r io.Reader) (*Loaded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("settings: read: %w: %v", erecerr.ErrIO, err)
	}
	br := bytes.NewReader(data)

	var gotMagic [4]byte
	if _, err := io.ReadFull(br, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("settings: reading magic: %w: %v", erecerr.ErrIO, err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("settings: bad magic %q: %w", gotMagic, erecerr.ErrIO)
	}

	version, err := readUint16(br)
	if err != nil {
		return nil, fmt.Errorf("settings: reading version: %w: %v", erecerr.ErrIO, err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("settings: unsupported version %d: %w", version, erecerr.ErrIO)
	}

	fieldCount, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("settings: reading field count: %w: %v", erecerr.ErrIO, err)
	}
	fields := make([]FieldSkeleton, fieldCount)
	for i := range fields {
		name, err := readString(br)
		if err != nil {
			return nil, fmt.Errorf("settings: reading field %d name: %w: %v", i, erecerr.ErrIO, err)
		}
		kindByte, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("settings: reading field %d kind: %w: %v", i, erecerr.ErrIO, err)
		}
		hasMissing, err := readBool(br)
		if err != nil {
			return nil, fmt.Errorf("settings: reading field %d missing flag: %w: %v", i, erecerr.ErrIO, err)
		}
		weight, err := readFloat64(br)
		if err != nil {
			return nil, fmt.Errorf("settings: reading field %d weight: %w: %v", i, erecerr.ErrIO, err)
		}
		fields[i] = FieldSkeleton{Name: name, Kind: model.FieldKind(kindByte), HasMissing: hasMissing, Weight: weight}
	}

	bias, err := readFloat64(br)
	if err != nil {
		return nil, fmt.Errorf("settings: reading bias: %w: %v", erecerr.ErrIO, err)
	}

	clauseCount, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("settings: reading clause count: %w: %v", erecerr.ErrIO, err)
	}
	disjunction := make([]predicates.Clause, clauseCount)
	for i := range disjunction {
		memberCount, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("settings: reading clause %d member count: %w: %v", i, erecerr.ErrIO, err)
		}
		clause := make(predicates.Clause, memberCount)
		for j := range clause {
			kindByte, err := br.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("settings: reading clause %d predicate %d kind: %w: %v", i, j, erecerr.ErrIO, err)
			}
			field, err := readString(br)
			if err != nil {
				return nil, fmt.Errorf("settings: reading clause %d predicate %d field: %w: %v", i, j, erecerr.ErrIO, err)
			}
			prefixLenByte, err := br.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("settings: reading clause %d predicate %d prefix len: %w: %v", i, j, erecerr.ErrIO, err)
			}
			threshold, err := readFloat64(br)
			if err != nil {
				return nil, fmt.Errorf("settings: reading clause %d predicate %d threshold: %w: %v", i, j, erecerr.ErrIO, err)
			}
			clause[j] = predicates.Predicate{
				Kind:      predicates.Kind(kindByte),
				Field:     field,
				PrefixLen: int(prefixLenByte),
				Threshold: threshold,
			}
		}
		disjunction[i] = clause
	}

	if br.Len() != 0 {
		return nil, fmt.Errorf("settings: %d trailing bytes after last section: %w", br.Len(), erecerr.ErrIO)
	}

	return &Loaded{Fields: fields, Bias: bias, Disjunction: disjunction}, nil
}

// Rebuild reconstructs a *model.DataModel from decoded field skeletons,
// re-attaching Custom comparators by field name. customComparators may
// be nil if the model has no Custom fields. Fields default to the
// affine-gap kernel for FieldString and are comparator-less for
// FieldMissingIndicator, matching model.New's construction rules.
func (l *Loaded) Rebuild(customComparators map[string]model.Comparator) (*model.DataModel, error) {
	order := make([]string, 0, len(l.Fields))
	defs := make(map[string]model.FieldDef, len(l.Fields))

	for _, f := range l.Fields {
		if f.Kind == model.FieldMissingIndicator {
			// Synthetic companions are regenerated by model.New from
			// their owning field's HasMissing flag; they are not
			// redeclared as standalone defs.
			continue
		}
		def := model.FieldDef{Missing: f.HasMissing}
		switch f.Kind {
		case model.FieldString:
			def.Type = "String"
		case model.FieldCustom:
			def.Type = "Custom"
			cmp, ok := customComparators[f.Name]
			if !ok {
				return nil, fmt.Errorf("settings: field %q is Custom but no comparator was supplied: %w", f.Name, erecerr.ErrInvalidConfig)
			}
			def.Comparator = cmp
		default:
			return nil, fmt.Errorf("settings: field %q has unknown kind %v: %w", f.Name, f.Kind, erecerr.ErrIO)
		}
		order = append(order, f.Name)
		defs[f.Name] = def
	}

	dm, err := model.New(order, defs)
	if err != nil {
		return nil, err
	}

	weights := make([]float64, dm.Len())
	bySkeleton := make(map[string]float64, len(l.Fields))
	for _, f := range l.Fields {
		bySkeleton[f.Name] = f.Weight
	}
	for i, f := range dm.Fields() {
		weights[i] = bySkeleton[f.Name]
	}
	if err := dm.SetWeights(weights, l.Bias); err != nil {
		return nil, err
	}
	return dm, nil
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	buf.Write(b[:])
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeUint16(buf, uint16(len(s)))
	buf.WriteString(s)
}

func readUint16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func readFloat64(r *bytes.Reader) (float64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b[:])), nil
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func readString(r *bytes.Reader) (string, error) {
	n, err := readUint16(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}
