package logstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Kind enumerates the shapes a Value can take after normalization.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindArray
	KindObject
)

// Member is a single object member. Order is significant.
type Member struct {
	Key   string
	Value Value
}

// Value is a JSON document whose object member order survives round-trips and
// whose leaves are uniformly strings: numbers, booleans and null are rendered
// as their textual representation when parsed, because the full-text index
// matches text, not typed values.
type Value struct {
	Kind    Kind
	Str     string
	Items   []Value
	Members []Member
}

// EmptyArray returns the default value for an absent context/extra field.
func EmptyArray() Value { return Value{Kind: KindArray} }

// String creates a string leaf.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Object creates an object value with the given members, in order.
func Object(members ...Member) Value { return Value{Kind: KindObject, Members: members} }

// Array creates an array value with the given items, in order.
func Array(items ...Value) Value { return Value{Kind: KindArray, Items: items} }

func (v Value) isContainer() bool { return v.Kind == KindArray || v.Kind == KindObject }

// ParseValue decodes a JSON document into a Value, stringifying every
// scalar leaf.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, errors.New("logstore: trailing data after JSON value")
	}
	return v, nil
}

func readValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := Value{Kind: KindObject, Members: []Member{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("logstore: unexpected object key token %v", keyTok)
				}
				member, err := readValue(dec)
				if err != nil {
					return Value{}, err
				}
				v.Members = append(v.Members, Member{Key: key, Value: member})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return v, nil
		case '[':
			v := Value{Kind: KindArray, Items: []Value{}}
			for dec.More() {
				item, err := readValue(dec)
				if err != nil {
					return Value{}, err
				}
				v.Items = append(v.Items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return v, nil
		}
		return Value{}, fmt.Errorf("logstore: unexpected delimiter %v", t)
	case string:
		return String(t), nil
	case json.Number:
		return String(t.String()), nil
	case bool:
		if t {
			return String("true"), nil
		}
		return String("false"), nil
	case nil:
		return String("null"), nil
	}
	return Value{}, fmt.Errorf("logstore: unexpected token %v", tok)
}

// MarshalJSON renders the value with object member order preserved.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.Kind {
	case KindString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.Value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return errors.New("logstore: cannot encode invalid value")
	}
	return nil
}

// UnmarshalJSON parses the document via ParseValue, so decoding a previously
// encoded Value is the identity.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
