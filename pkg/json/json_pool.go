// Package json provides JSON serialization backed by goccy/go-json, with
// encoders and their output buffers recycled through a shared reclaim pool.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/reclaim/pkg/containers"
	"github.com/ajitpratap0/reclaim/pkg/pool"
)

// PoolName is the name of the shared encoder pool.
const PoolName = "json_encoders"

// encoder is a go-json encoder permanently bound to its own buffer.
type encoder struct {
	buf containers.Buffer
	enc *gojson.Encoder
}

func newEncoder() *encoder {
	e := &encoder{}
	e.buf.B = make([]byte, 0, 4096)
	e.enc = gojson.NewEncoder(&e.buf)
	e.enc.SetEscapeHTML(false)
	return e
}

// Clear empties the buffer and drops any indentation setting.
func (e *encoder) Clear() {
	e.buf.Clear()
	e.enc.SetIndent("", "")
}

// encode writes v without the trailing newline added by Encode.
func (e *encoder) encode(v interface{}) error {
	if err := e.enc.Encode(v); err != nil {
		return err
	}
	e.buf.B = bytes.TrimSuffix(e.buf.B, []byte{'\n'})
	return nil
}

var encoders = pool.NewShared(newEncoder, pool.WithName(PoolName))

// Encoders exposes the shared encoder pool for statistics and registries.
func Encoders() pool.Reporter {
	return encoders
}

// Marshal encodes v through a pooled encoder and returns a copy of the
// output. Unlike json.Marshal it does not escape HTML characters.
func Marshal(v interface{}) ([]byte, error) {
	return AppendMarshal(nil, v)
}

// Unmarshal is a high-performance drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalIndent is the indented form of Marshal.
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	var out []byte
	err := encoders.With(func(e *encoder) error {
		e.enc.SetIndent(prefix, indent)
		if err := e.encode(v); err != nil {
			return err
		}
		out = append([]byte(nil), e.buf.B...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AppendMarshal appends the encoding of v to dst using a pooled encoder.
func AppendMarshal(dst []byte, v interface{}) ([]byte, error) {
	err := encoders.With(func(e *encoder) error {
		if err := e.encode(v); err != nil {
			return err
		}
		dst = append(dst, e.buf.B...)
		return nil
	})
	return dst, err
}

// MarshalToWriter encodes v into a pooled buffer and writes it to w
// followed by a newline.
func MarshalToWriter(w io.Writer, v interface{}) error {
	return encoders.With(func(e *encoder) error {
		if err := e.enc.Encode(v); err != nil {
			return err
		}
		_, err := e.buf.WriteTo(w)
		return err
	})
}

// WriteIndent writes the indented encoding of v to w followed by a newline.
func WriteIndent(w io.Writer, v interface{}, indent string) error {
	return encoders.With(func(e *encoder) error {
		e.enc.SetIndent("", indent)
		if err := e.enc.Encode(v); err != nil {
			return err
		}
		_, err := e.buf.WriteTo(w)
		return err
	})
}

// MarshalArray marshals values as a single JSON array.
func MarshalArray(values []interface{}) ([]byte, error) {
	if len(values) == 0 {
		return []byte("[]"), nil
	}

	var out []byte
	err := encoders.With(func(e *encoder) error {
		_ = e.buf.WriteByte('[')
		for i, v := range values {
			if i > 0 {
				_ = e.buf.WriteByte(',')
			}
			if err := e.encode(v); err != nil {
				return err
			}
		}
		_ = e.buf.WriteByte(']')

		// copy out: the buffer goes back to the pool
		out = append([]byte(nil), e.buf.B...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarshalLines marshals values as newline-delimited JSON.
func MarshalLines(values []interface{}) ([]byte, error) {
	var out []byte
	err := encoders.With(func(e *encoder) error {
		for _, v := range values {
			if err := e.enc.Encode(v); err != nil {
				return err
			}
		}
		out = append([]byte(nil), e.buf.B...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
