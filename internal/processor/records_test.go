package processor

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRecords(t *testing.T) {
	in := "{\"b\":1,\"a\":\"x\"}\n\n   \r\n{\"c\":[true,null,2.50]}\r\n"

	records, err := ReadRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, Object{
		{Key: "b", Value: json.Number("1")},
		{Key: "a", Value: "x"},
	}, records[0].Fields)

	assert.Equal(t, 4, records[1].Line)
	assert.Equal(t, Object{
		{Key: "c", Value: []any{true, nil, json.Number("2.50")}},
	}, records[1].Fields)
}

func TestReadRecords_NestedObjectKeepsOrder(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(`{"dl":[{"time_period":"2020","z":1,"a":2}]}`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	slices, ok := records[0].Fields[0].Value.([]any)
	require.True(t, ok)
	assert.Equal(t, Object{
		{Key: "time_period", Value: "2020"},
		{Key: "z", Value: json.Number("1")},
		{Key: "a", Value: json.Number("2")},
	}, slices[0])
}

func TestReadRecords_CarriageReturnLines(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("{\"a\":1}\r{\"a\":2}\r"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, 2, records[1].Line)
	assert.Equal(t, Object{{Key: "a", Value: json.Number("2")}}, records[1].Fields)
}

func TestReadRecords_DuplicateKeysKeepFirstPosition(t *testing.T) {
	records, err := ReadRecords(strings.NewReader(`{"geo_id":"A","GEOID":"B","geo_id":"C"}`))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, Object{
		{Key: "geo_id", Value: "C"},
		{Key: "GEOID", Value: "B"},
	}, records[0].Fields)
}

func TestReadRecords_Empty(t *testing.T) {
	records, err := ReadRecords(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecords_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
		want error
	}{
		{"malformed", "{\"a\":1}\nnot json\n", 2, nil},
		{"array line", "[1,2]", 1, ErrNotObject},
		{"scalar line", "{}\n\n42", 3, ErrNotObject},
		{"truncated", `{"a":1`, 1, io.ErrUnexpectedEOF},
		{"truncated array", `{"a":[1,2`, 1, io.ErrUnexpectedEOF},
		{"trailing object", `{"a":1} {"b":2}`, 1, nil},
		{"trailing garbage", `{"a":1} x`, 1, nil},
		{"invalid utf-8", "{\"a\":1}\n{\"name\":\"a\xffb\"}\n", 2, ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(tt.in))
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.line, perr.Line)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestObject_Get(t *testing.T) {
	obj := Object{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}, {Key: "a", Value: "3"}}

	v, ok := obj.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	_, ok = obj.Get("missing")
	assert.False(t, ok)
}

func TestObject_MarshalJSON(t *testing.T) {
	obj := Object{
		{Key: "z", Value: json.Number("1.50")},
		{Key: "a", Value: []any{Object{{Key: "q", Value: nil}}, "s"}},
	}

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1.50,"a":[{"q":null},"s"]}`, string(data))
}
