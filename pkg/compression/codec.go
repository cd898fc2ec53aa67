package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/reclaim/pkg/containers"
	"github.com/ajitpratap0/reclaim/pkg/poolerrors"
)

// codec is the pooled per-algorithm state. Clear drops references to the
// last caller's readers, writers and data while keeping allocations.
type codec interface {
	Clear()
	compress(dst, src []byte) ([]byte, error)
	decompress(dst, src []byte) ([]byte, error)
	compressStream(dst io.Writer, src io.Reader) error
	decompressStream(dst io.Writer, src io.Reader) error
}

func codecFactory(cfg Config) (func() codec, error) {
	size := cfg.BufferSize
	switch cfg.Algorithm {
	case None:
		return func() codec { return &noneCodec{} }, nil
	case Gzip:
		level := mapGzipLevel(cfg.Level)
		return func() codec { return newGzipCodec(level, size) }, nil
	case Deflate:
		level := mapDeflateLevel(cfg.Level)
		return func() codec { return newDeflateCodec(level, size) }, nil
	case LZ4:
		level := mapLZ4Level(cfg.Level)
		return func() codec { return newLZ4Codec(level, size) }, nil
	case Zstd:
		level := mapZstdLevel(cfg.Level)
		return func() codec { return newZstdCodec(level) }, nil
	case Snappy:
		return func() codec { return newBlockCodec(snappy.Encode, snappy.Decode, snappyStream{}, size) }, nil
	case S2:
		return func() codec { return newBlockCodec(s2.Encode, s2.Decode, s2Stream{}, size) }, nil
	default:
		return nil, poolerrors.New(poolerrors.ErrorTypeValidation,
			fmt.Sprintf("unsupported compression algorithm: %s", cfg.Algorithm))
	}
}

// None

type noneCodec struct{}

func (noneCodec) Clear() {}

func (noneCodec) compress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (noneCodec) decompress(dst, src []byte) ([]byte, error) {
	return append(dst, src...), nil
}

func (noneCodec) compressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, src)
	return err
}

func (noneCodec) decompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, src)
	return err
}

// Gzip

type gzipCodec struct {
	buf containers.Buffer
	w   *gzip.Writer
	r   gzip.Reader
}

func newGzipCodec(level, size int) *gzipCodec {
	c := &gzipCodec{}
	c.buf.B = make([]byte, 0, size)
	c.w, _ = gzip.NewWriterLevel(io.Discard, level)
	return c
}

func (c *gzipCodec) Clear() {
	c.buf.Clear()
	c.w.Reset(io.Discard)
}

func (c *gzipCodec) compress(dst, src []byte) ([]byte, error) {
	c.buf.Clear()
	c.w.Reset(&c.buf)
	if _, err := c.w.Write(src); err != nil {
		return nil, err
	}
	if err := c.w.Close(); err != nil {
		return nil, err
	}
	return append(dst, c.buf.B...), nil
}

func (c *gzipCodec) decompress(dst, src []byte) ([]byte, error) {
	c.buf.Clear()
	if err := c.r.Reset(bytes.NewReader(src)); err != nil {
		return nil, err
	}
	if _, err := c.buf.ReadFrom(&c.r); err != nil { //nolint:gosec // G110: input is produced by this package
		return nil, err
	}
	return append(dst, c.buf.B...), nil
}

func (c *gzipCodec) compressStream(dst io.Writer, src io.Reader) error {
	c.w.Reset(dst)
	if _, err := io.Copy(c.w, src); err != nil {
		return err
	}
	return c.w.Close()
}

func (c *gzipCodec) decompressStream(dst io.Writer, src io.Reader) error {
	if err := c.r.Reset(src); err != nil {
		return err
	}
	_, err := io.Copy(dst, &c.r) //nolint:gosec // G110: caller owns the stream
	return err
}

// Deflate

type deflateCodec struct {
	buf containers.Buffer
	w   *flate.Writer
	r   io.ReadCloser
}

func newDeflateCodec(level, size int) *deflateCodec {
	c := &deflateCodec{}
	c.buf.B = make([]byte, 0, size)
	c.w, _ = flate.NewWriter(io.Discard, level)
	c.r = flate.NewReader(bytes.NewReader(nil))
	return c
}

func (c *deflateCodec) Clear() {
	c.buf.Clear()
	c.w.Reset(io.Discard)
	_ = c.r.(flate.Resetter).Reset(bytes.NewReader(nil), nil)
}

func (c *deflateCodec) compress(dst, src []byte) ([]byte, error) {
	c.buf.Clear()
	c.w.Reset(&c.buf)
	if _, err := c.w.Write(src); err != nil {
		return nil, err
	}
	if err := c.w.Close(); err != nil {
		return nil, err
	}
	return append(dst, c.buf.B...), nil
}

func (c *deflateCodec) decompress(dst, src []byte) ([]byte, error) {
	c.buf.Clear()
	if err := c.r.(flate.Resetter).Reset(bytes.NewReader(src), nil); err != nil {
		return nil, err
	}
	if _, err := c.buf.ReadFrom(c.r); err != nil { //nolint:gosec // G110: input is produced by this package
		return nil, err
	}
	return append(dst, c.buf.B...), nil
}

func (c *deflateCodec) compressStream(dst io.Writer, src io.Reader) error {
	c.w.Reset(dst)
	if _, err := io.Copy(c.w, src); err != nil {
		return err
	}
	return c.w.Close()
}

func (c *deflateCodec) decompressStream(dst io.Writer, src io.Reader) error {
	if err := c.r.(flate.Resetter).Reset(src, nil); err != nil {
		return err
	}
	_, err := io.Copy(dst, c.r) //nolint:gosec // G110: caller owns the stream
	return err
}

// LZ4

type lz4Codec struct {
	buf containers.Buffer
	w   *lz4.Writer
	r   *lz4.Reader
}

func newLZ4Codec(level lz4.CompressionLevel, size int) *lz4Codec {
	c := &lz4Codec{}
	c.buf.B = make([]byte, 0, size)
	c.w = lz4.NewWriter(io.Discard)
	// Options survive Reset.
	_ = c.w.Apply(lz4.CompressionLevelOption(level))
	c.r = lz4.NewReader(bytes.NewReader(nil))
	return c
}

func (c *lz4Codec) Clear() {
	c.buf.Clear()
	c.w.Reset(io.Discard)
	c.r.Reset(bytes.NewReader(nil))
}

func (c *lz4Codec) compress(dst, src []byte) ([]byte, error) {
	c.buf.Clear()
	c.w.Reset(&c.buf)
	if _, err := c.w.Write(src); err != nil {
		return nil, err
	}
	if err := c.w.Close(); err != nil {
		return nil, err
	}
	return append(dst, c.buf.B...), nil
}

func (c *lz4Codec) decompress(dst, src []byte) ([]byte, error) {
	c.buf.Clear()
	c.r.Reset(bytes.NewReader(src))
	if _, err := c.buf.ReadFrom(c.r); err != nil { //nolint:gosec // G110: input is produced by this package
		return nil, err
	}
	return append(dst, c.buf.B...), nil
}

func (c *lz4Codec) compressStream(dst io.Writer, src io.Reader) error {
	c.w.Reset(dst)
	if _, err := io.Copy(c.w, src); err != nil {
		return err
	}
	return c.w.Close()
}

func (c *lz4Codec) decompressStream(dst io.Writer, src io.Reader) error {
	c.r.Reset(src)
	_, err := io.Copy(dst, c.r) //nolint:gosec // G110: caller owns the stream
	return err
}

// Zstd

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec(level zstd.EncoderLevel) *zstdCodec {
	// Single-threaded codecs: concurrency comes from the pool.
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return &zstdCodec{enc: enc, dec: dec}
}

// Clear is a no-op: EncodeAll and DecodeAll keep no per-call state, and
// the streaming paths reset before use.
func (c *zstdCodec) Clear() {}

func (c *zstdCodec) compress(dst, src []byte) ([]byte, error) {
	return c.enc.EncodeAll(src, dst), nil
}

func (c *zstdCodec) decompress(dst, src []byte) ([]byte, error) {
	return c.dec.DecodeAll(src, dst)
}

func (c *zstdCodec) compressStream(dst io.Writer, src io.Reader) error {
	c.enc.Reset(dst)
	if _, err := io.Copy(c.enc, src); err != nil {
		return err
	}
	return c.enc.Close()
}

func (c *zstdCodec) decompressStream(dst io.Writer, src io.Reader) error {
	if err := c.dec.Reset(src); err != nil {
		return err
	}
	_, err := io.Copy(dst, c.dec)
	return err
}

// Snappy and S2 share the block API: Encode and Decode write into dst when
// it is large enough.

type blockStream interface {
	writer(w io.Writer) io.WriteCloser
	reader(r io.Reader) io.Reader
}

type blockCodec struct {
	buf    containers.Buffer
	encode func(dst, src []byte) []byte
	decode func(dst, src []byte) ([]byte, error)
	stream blockStream
}

func newBlockCodec(
	encode func(dst, src []byte) []byte,
	decode func(dst, src []byte) ([]byte, error),
	stream blockStream,
	size int,
) *blockCodec {
	c := &blockCodec{encode: encode, decode: decode, stream: stream}
	c.buf.B = make([]byte, 0, size)
	return c
}

func (c *blockCodec) Clear() {
	c.buf.Clear()
}

func (c *blockCodec) compress(dst, src []byte) ([]byte, error) {
	// Keep the larger slice so the scratch buffer grows once.
	out := c.encode(c.buf.B[:cap(c.buf.B)], src)
	if cap(out) > cap(c.buf.B) {
		c.buf.B = out[:0]
	}
	return append(dst, out...), nil
}

func (c *blockCodec) decompress(dst, src []byte) ([]byte, error) {
	out, err := c.decode(c.buf.B[:cap(c.buf.B)], src)
	if err != nil {
		return nil, err
	}
	if cap(out) > cap(c.buf.B) {
		c.buf.B = out[:0]
	}
	return append(dst, out...), nil
}

func (c *blockCodec) compressStream(dst io.Writer, src io.Reader) error {
	w := c.stream.writer(dst)
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return w.Close()
}

func (c *blockCodec) decompressStream(dst io.Writer, src io.Reader) error {
	_, err := io.Copy(dst, c.stream.reader(src))
	return err
}

type snappyStream struct{}

func (snappyStream) writer(w io.Writer) io.WriteCloser { return snappy.NewBufferedWriter(w) }
func (snappyStream) reader(r io.Reader) io.Reader      { return snappy.NewReader(r) }

type s2Stream struct{}

func (s2Stream) writer(w io.Writer) io.WriteCloser { return s2.NewWriter(w) }
func (s2Stream) reader(r io.Reader) io.Reader      { return s2.NewReader(r) }

// Helper functions to map compression levels

func mapGzipLevel(level Level) int {
	switch level {
	case Fastest:
		return gzip.BestSpeed
	case Best:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

func mapDeflateLevel(level Level) int {
	switch level {
	case Fastest:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}
