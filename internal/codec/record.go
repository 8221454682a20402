package codec

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/kairosolo/kprefs/internal/crypto"
	"github.com/kairosolo/kprefs/internal/domain"
)

// Document is the plaintext form of a record: three parallel arrays.
type Document struct {
	Keys   []string `json:"keys" yaml:"keys"`
	Values []string `json:"values" yaml:"values"`
	Types  []string `json:"types" yaml:"types"`
}

// ToDocument flattens rec into a Document with keys in sorted order.
func ToDocument(rec domain.Record) (Document, error) {
	doc := Document{
		Keys:   make([]string, 0, len(rec)),
		Values: make([]string, 0, len(rec)),
		Types:  make([]string, 0, len(rec)),
	}
	for _, k := range rec.Keys() {
		tag, text, err := EncodeValue(rec[k])
		if err != nil {
			return Document{}, fmt.Errorf("encode %q: %w", k, err)
		}
		doc.Keys = append(doc.Keys, k)
		doc.Values = append(doc.Values, text)
		doc.Types = append(doc.Types, tag)
	}
	return doc, nil
}

// Record rebuilds a record from d. Entries that do not decode cleanly are
// still present (see DecodeValue) and are reported in warnings.
func (d Document) Record(now time.Time) (domain.Record, []error) {
	n := min(len(d.Keys), len(d.Values), len(d.Types))

	var warnings []error
	if len(d.Keys) != n || len(d.Values) != n || len(d.Types) != n {
		warnings = append(warnings, fmt.Errorf(
			"%w: array lengths differ (keys=%d values=%d types=%d); trailing entries dropped",
			domain.ErrParse, len(d.Keys), len(d.Values), len(d.Types)))
	}

	rec := make(domain.Record, n)
	for i := 0; i < n; i++ {
		key, tag := d.Keys[i], d.Types[i]
		if _, dup := rec[key]; dup {
			warnings = append(warnings, &EntryError{Key: key, Tag: tag, Err: fmt.Errorf("duplicate key; later entry wins")})
		}
		v, err := DecodeValue(tag, d.Values[i], now)
		if err != nil {
			warnings = append(warnings, &EntryError{Key: key, Tag: tag, Err: err})
		}
		rec[key] = v
	}
	return rec, warnings
}

// MarshalRecord renders rec as a compact JSON document.
func MarshalRecord(rec domain.Record) ([]byte, error) {
	doc, err := ToDocument(rec)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// UnmarshalRecord parses a JSON document produced by MarshalRecord.
func UnmarshalRecord(data []byte, now time.Time) (domain.Record, []error, error) {
	if !utf8.Valid(data) {
		return nil, nil, fmt.Errorf("%w: document is not valid UTF-8", domain.ErrParse)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}
	rec, warnings := doc.Record(now)
	return rec, warnings, nil
}

// Codec encrypts documents for storage on disk.
type Codec struct {
	key []byte
	now func() time.Time
}

// New returns a Codec sealing with a copy of key. now supplies the default for
// timestamp entries that fail to decode; nil means time.Now.
func New(key []byte, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{key: append([]byte(nil), key...), now: now}
}

// Encode serializes, UTF-8 encodes and encrypts rec.
func (c *Codec) Encode(rec domain.Record) ([]byte, error) {
	plain, err := MarshalRecord(rec)
	if err != nil {
		return nil, err
	}
	return c.Seal(plain)
}

// Decode reverses Encode. Empty input is an empty record, not an error.
// Crypto failures are returned unchanged so callers can choose a fallback.
func (c *Codec) Decode(data []byte) (domain.Record, []error, error) {
	if len(data) == 0 {
		return domain.Record{}, nil, nil
	}
	plain, err := c.Open(data)
	if err != nil {
		return nil, nil, err
	}
	return UnmarshalRecord(plain, c.now())
}

// Seal encrypts an arbitrary plaintext document.
func (c *Codec) Seal(plain []byte) ([]byte, error) {
	return crypto.Encrypt(c.key, plain)
}

// Open decrypts a sealed document.
func (c *Codec) Open(data []byte) ([]byte, error) {
	return crypto.Decrypt(c.key, data)
}
