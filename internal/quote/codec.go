package quote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotRecord is returned when decoded bytes are not a JSON object.
var ErrNotRecord = errors.New("quote: payload is not a record")

// Codec converts records to and from the bytes kept in the shared cache.
type Codec interface {
	Encode(Record) ([]byte, error)
	Decode([]byte) (Record, error)
}

// JSONCodec stores records as JSON objects. Numbers decode as json.Number
// so values read back from the cache match values read from the provider.
type JSONCodec struct{}

func (JSONCodec) Encode(r Record) ([]byte, error) {
	if r == nil {
		return nil, ErrNotRecord
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return b, nil
}

func (JSONCodec) Decode(b []byte) (Record, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrNotRecord
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	if r == nil {
		return nil, ErrNotRecord
	}
	return r, nil
}

// DecodeList accepts either a single record object or an array of records,
// the two shapes a batch quote response can take. null yields no records.
// Array elements that are not objects are skipped.
func DecodeList(raw json.RawMessage) ([]Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '{':
		r, err := JSONCodec{}.Decode(trimmed)
		if err != nil {
			return nil, err
		}
		return []Record{r}, nil
	case '[':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var items []json.RawMessage
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("decoding record list: %w", err)
		}
		out := make([]Record, 0, len(items))
		for _, it := range items {
			r, err := JSONCodec{}.Decode(it)
			if err != nil {
				continue
			}
			out = append(out, r)
		}
		return out, nil
	default:
		return nil, ErrNotRecord
	}
}
