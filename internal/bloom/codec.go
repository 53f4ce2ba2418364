package bloom

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Serialized layout, little endian:
//
//	magic   [4]byte "KSBF"
//	version uint8
//	k       uint8
//	count   uint32  number of buckets
//	buckets [count]uint32
const (
	magic      = "KSBF"
	version    = 1
	headerSize = len(magic) + 1 + 1 + 4
)

var ErrMalformed = errors.New("bloom: malformed serialized filter")

// MarshalBinary implements encoding.BinaryMarshaler.
func (f *Filter) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(headerSize + 4*len(f.buckets))
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. It replaces the
// receiver's contents.
func (f *Filter) UnmarshalBinary(data []byte) error {
	_, err := f.ReadFrom(bytes.NewReader(data))
	return err
}

// WriteTo writes the serialized filter to w.
func (f *Filter) WriteTo(w io.Writer) (int64, error) {
	header := make([]byte, headerSize)
	copy(header, magic)
	header[4] = version
	header[5] = byte(f.k)
	binary.LittleEndian.PutUint32(header[6:], uint32(len(f.buckets)))

	n, err := w.Write(header)
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("writing bloom header: %w", err)
	}

	body := make([]byte, 4*len(f.buckets))
	for i, b := range f.buckets {
		binary.LittleEndian.PutUint32(body[4*i:], b)
	}
	n, err = w.Write(body)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("writing bloom buckets: %w", err)
	}
	return total, nil
}

// ReadFrom reads a serialized filter from r, replacing the receiver's
// contents. The receiver is left untouched on error.
func (f *Filter) ReadFrom(r io.Reader) (int64, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r, header)
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("%w: short header: %v", ErrMalformed, err)
	}
	if string(header[:4]) != magic {
		return total, fmt.Errorf("%w: bad magic %q", ErrMalformed, header[:4])
	}
	if header[4] != version {
		return total, fmt.Errorf("%w: unsupported version %d", ErrMalformed, header[4])
	}

	k := int(header[5])
	count := binary.LittleEndian.Uint32(header[6:])
	if count == 0 || count&(count-1) != 0 || uint64(count)*bucketBits > 1<<32 {
		return total, fmt.Errorf("%w: bucket count %d", ErrMalformed, count)
	}

	body := make([]byte, 4*int(count))
	n, err = io.ReadFull(r, body)
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("%w: short bucket data: %v", ErrMalformed, err)
	}

	buckets := make([]uint32, count)
	for i := range buckets {
		buckets[i] = binary.LittleEndian.Uint32(body[4*i:])
	}

	loaded, err := FromBuckets(buckets, k)
	if err != nil {
		return total, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	*f = *loaded
	return total, nil
}
