// Package processor flattens nested statistics export records into CSV rows.
package processor

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"github.com/woozymasta/rewrite-export/internal/config"
	"github.com/woozymasta/rewrite-export/internal/geo"

	"github.com/rs/zerolog/log"
)

// Row maps output column names to cell values.
type Row map[string]Scalar

var (
	ErrGroupNotArray  = errors.New("group value is not an array")
	ErrSliceNotObject = errors.New("time slice is not an object")
)

// FlattenError reports a field that could not be turned into columns.
type FlattenError struct {
	Err   error
	Field string
	Line  int
}

func (e *FlattenError) Error() string {
	return fmt.Sprintf("line %d: field %q: %v", e.Line, e.Field, e.Err)
}

func (e *FlattenError) Unwrap() error { return e.Err }

// Flattener turns records into rows using a fixed configuration.
type Flattener struct {
	groups map[string]bool
	cfg    config.Config
}

// NewFlattener builds a flattener for cfg.
func NewFlattener(cfg config.Config) *Flattener {
	groups := make(map[string]bool, len(cfg.Groups))
	for _, g := range cfg.Groups {
		groups[g] = true
	}

	return &Flattener{cfg: cfg, groups: groups}
}

// Flatten converts one record into a row.
//
// Plain fields are renamed through the rename table. Group fields hold
// time slices; each value in a slice becomes the column
// {prefix}_{rename(group_key)}_{time_period}. Slices without a time
// period are dropped. When two fields produce the same column the one
// that comes later in the record wins.
func (f *Flattener) Flatten(rec Record) (Row, error) {
	row := make(Row, len(rec.Fields))

	for _, field := range rec.Fields {
		if f.groups[field.Key] {
			if err := f.flattenGroup(row, rec.Line, field.Key, field.Value); err != nil {
				return nil, &FlattenError{Line: rec.Line, Field: field.Key, Err: err}
			}
			continue
		}

		name := f.cfg.Rename.Lookup(field.Key)
		value, err := f.plainValue(name, field.Value)
		if err != nil {
			return nil, &FlattenError{Line: rec.Line, Field: field.Key, Err: err}
		}

		set(row, rec.Line, name, value)
	}

	return row, nil
}

// Rows flattens records one at a time as the sequence is consumed.
func (f *Flattener) Rows(records []Record) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for _, rec := range records {
			row, err := f.Flatten(rec)
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

func (f *Flattener) flattenGroup(row Row, line int, group string, value any) error {
	var slices []any
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		slices = v
	default:
		return ErrGroupNotArray
	}

	for i, elem := range slices {
		slice, ok := elem.(Object)
		if !ok {
			return fmt.Errorf("%w: index %d", ErrSliceNotObject, i)
		}

		raw, _ := slice.Get(f.cfg.TimePeriodKey)
		period, err := scalarOf(raw)
		if err != nil {
			return err
		}
		if !period.Truthy() {
			log.Trace().
				Int("line", line).
				Str("group", group).
				Int("index", i).
				Msg("Time slice without time period skipped")
			continue
		}

		for _, field := range slice {
			if field.Key == f.cfg.TimePeriodKey {
				continue
			}

			value, err := scalarOf(field.Value)
			if err != nil {
				return err
			}

			name := f.cfg.Rename.Lookup(group + "_" + field.Key)
			set(row, line, f.cfg.Prefix+"_"+name+"_"+period.String(), value)
		}
	}

	return nil
}

// plainValue converts a top level value; the geometry column accepts
// GeoJSON objects and stores them as WKT.
func (f *Flattener) plainValue(name string, v any) (Scalar, error) {
	obj, ok := v.(Object)
	if !ok || name != f.cfg.GeometryColumn {
		return scalarOf(v)
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return Scalar{}, err
	}

	g, err := geo.ParseGeometry(data)
	if err != nil {
		return Scalar{}, err
	}

	return String(g.WKT()), nil
}

// set stores value under name, overwriting any earlier value.
func set(row Row, line int, name string, value Scalar) {
	if _, exists := row[name]; exists {
		log.Trace().
			Int("line", line).
			Str("column", name).
			Msg("Column overwritten by later field")
	}

	row[name] = value
}

// scalarOf converts a decoded JSON value. Nested arrays and objects
// become their compact JSON text.
func scalarOf(v any) (Scalar, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return String(val), nil
	case json.Number:
		return Number(val), nil
	case bool:
		return Bool(val), nil
	case Object, []any:
		data, err := json.Marshal(val)
		if err != nil {
			return Scalar{}, err
		}
		return String(string(data)), nil
	default:
		return Scalar{}, fmt.Errorf("unsupported value type %T", v)
	}
}
