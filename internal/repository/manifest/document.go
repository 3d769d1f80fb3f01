package manifest

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	errInvalidJSON = errors.New("invalid JSON")
	errNotAnObject = errors.New("top-level value is not an object")
)

// layout matches the four-space indentation extension manifests are usually written in.
// A zero width keeps every array on multiple lines.
var layout = &pretty.Options{
	Indent: "    ",
}

// Document is a JSON object that remembers the order of its keys.
// Values are kept as raw JSON, so fields nobody reads are written back as they were.
type Document struct {
	data []byte
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		data: []byte("{}"),
	}
}

// ParseDocument validates that data holds exactly one JSON object.
// A repeated key keeps its first position and its first value.
func ParseDocument(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidJSON
	}

	if !gjson.ParseBytes(data).IsObject() {
		return nil, errNotAnObject
	}

	return &Document{
		data: bytes.Clone(data),
	}, nil
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	return &Document{
		data: bytes.Clone(d.data),
	}
}

// Keys returns the keys in document order.
func (d *Document) Keys() []string {
	var (
		keys []string
		seen = make(map[string]struct{})
	)

	gjson.ParseBytes(d.data).ForEach(func(key, _ gjson.Result) bool {
		if _, ok := seen[key.Str]; !ok {
			seen[key.Str] = struct{}{}
			keys = append(keys, key.Str)
		}

		return true
	})

	return keys
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	return len(d.Keys())
}

// Has reports whether key is present, whatever its type.
func (d *Document) Has(key string) bool {
	return d.get(key).Exists()
}

// Raw returns the undecoded value stored under key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	result := d.get(key)
	if !result.Exists() {
		return nil, false
	}

	return json.RawMessage(result.Raw), true
}

// Value returns the decoded value under key: numbers become float64,
// arrays []any and objects map[string]any.
func (d *Document) Value(key string) (any, bool) {
	result := d.get(key)
	if !result.Exists() {
		return nil, false
	}

	return result.Value(), true
}

// String returns the value under key when it is a JSON string.
func (d *Document) String(key string) (string, bool) {
	result := d.get(key)
	if result.Type != gjson.String {
		return "", false
	}

	return result.Str, true
}

// Set stores value under key. New keys go to the end; existing keys keep their place.
func (d *Document) Set(key string, value any) error {
	encoded, err := encodeValue(value)
	if err != nil {
		return errors.Wrapf(err, "encode %q", key)
	}

	updated, err := sjson.SetRawBytes(d.data, gjson.Escape(key), encoded)
	if err != nil {
		return errors.Wrapf(err, "set %q", key)
	}

	d.data = updated

	return nil
}

// Encode renders the document as indented JSON with a trailing newline.
func (d *Document) Encode() ([]byte, error) {
	if !gjson.ValidBytes(d.data) {
		return nil, errInvalidJSON
	}

	out := pretty.PrettyOptions(d.data, layout)

	return append(bytes.TrimRight(out, "\n"), '\n'), nil
}

func (d *Document) get(key string) gjson.Result {
	return gjson.GetBytes(d.data, gjson.Escape(key))
}

// encodeValue marshals v without HTML escaping, so "<all_urls>" stays readable.
func encodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
