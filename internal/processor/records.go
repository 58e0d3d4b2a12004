package processor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// Field is one key/value pair of a decoded JSON object.
// Values are string, json.Number, bool, nil, []any or Object.
type Field struct {
	Value any
	Key   string
}

// Object is a JSON object that keeps the key order of the source text.
type Object []Field

// Get returns the last value stored under key.
func (o Object) Get(key string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}

	return nil, false
}

// MarshalJSON encodes the object with its fields in order.
func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Record is one input line.
type Record struct {
	Fields Object
	Line   int
}

var (
	ErrNotObject   = errors.New("record is not a JSON object")
	ErrInvalidUTF8 = errors.New("line is not valid UTF-8")
)

// ParseError reports a line that could not be decoded.
type ParseError struct {
	Err  error
	Line int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadRecords reads newline delimited JSON objects from r.
// Lines may end in LF, CRLF or CR. Blank lines are skipped; any malformed
// line aborts the read.
func ReadRecords(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))

	var records []Record
	for i, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if !utf8.Valid(line) {
			return nil, &ParseError{Line: i + 1, Err: ErrInvalidUTF8}
		}

		obj, err := decodeLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Err: err}
		}

		records = append(records, Record{Line: i + 1, Fields: obj})
	}

	return records, nil
}

func decodeLine(line []byte) (Object, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(Object)
	if !ok {
		return nil, ErrNotObject
	}

	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, errors.New("unexpected data after record")
	}

	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		// a repeated key keeps its first position and takes the last value
		obj := Object{}
		index := make(map[string]int)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			if i, ok := index[key]; ok {
				obj[i].Value = val
				continue
			}
			index[key] = len(obj)
			obj = append(obj, Field{Key: key, Value: val})
		}
		return obj, closeDelim(dec)

	case '[':
		arr := []any{}
		for dec.More() {
			val, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, closeDelim(dec)
	}

	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

func closeDelim(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	return nil
}
