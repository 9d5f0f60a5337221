package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gitlite/pkg/types"

	"github.com/klauspost/compress/zlib"
)

var ErrMalformedObject = errors.New("malformed object")

// Codec converts between payloads and the on-disk object representation:
// zlib("<kind> <size>\x00<payload>").
type Codec struct {
	level      int
	strictSize bool
}

type CodecOption func(*Codec) error

// WithLevel sets the zlib compression level.
func WithLevel(level int) CodecOption {
	return func(c *Codec) error {
		if level < zlib.HuffmanOnly || level > zlib.BestCompression {
			return fmt.Errorf("invalid compression level %d", level)
		}
		c.level = level
		return nil
	}
}

// WithStrictSize makes Open reject objects whose header size differs from the payload length.
func WithStrictSize(strict bool) CodecOption {
	return func(c *Codec) error {
		c.strictSize = strict
		return nil
	}
}

func NewCodec(opts ...CodecOption) (*Codec, error) {
	c := &Codec{level: zlib.DefaultCompression}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// DefaultCodec 使用默认压缩级别，不校验 size
var DefaultCodec = &Codec{level: zlib.DefaultCompression}

// Canonical 构造规范序列化形式 "<kind> <size>\x00<payload>"
func Canonical(kind ObjectType, payload []byte) []byte {
	header := kind.String() + " " + strconv.Itoa(len(payload))
	buf := make([]byte, 0, len(header)+1+len(payload))
	buf = append(buf, header...)
	buf = append(buf, 0)
	return append(buf, payload...)
}

// Sealed 是 Seal 的结果，实现了 Object 接口
type Sealed struct {
	typ  ObjectType
	hash types.Hash
	data []byte
	size int64
}

func (s *Sealed) Type() ObjectType { return s.typ }
func (s *Sealed) ID() types.Hash   { return s.hash }
func (s *Sealed) Bytes() []byte    { return s.data }
func (s *Sealed) Size() int64      { return s.size }

// NewBlob seals payload as a blob with DefaultCodec.
func NewBlob(payload []byte) (*Sealed, error) {
	return DefaultCodec.Seal(TypeBlob, payload)
}

// Seal 编码: canonical form -> hash -> zlib
func (c *Codec) Seal(kind ObjectType, payload []byte) (*Sealed, error) {
	if !kind.IsKnown() {
		return nil, fmt.Errorf("seal: unknown object type %q", kind)
	}

	canonical := Canonical(kind, payload)
	id := CalculateHash(canonical)

	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("zlib writer: %w", err)
	}
	if _, err := w.Write(canonical); err != nil {
		return nil, fmt.Errorf("zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib close: %w", err)
	}

	return &Sealed{
		typ:  kind,
		hash: id,
		data: buf.Bytes(),
		size: int64(len(payload)),
	}, nil
}

// Open decodes the stored bytes of one object.
func (c *Codec) Open(compressed []byte) (*Content, error) {
	return c.Decode(bytes.NewReader(compressed))
}

// Decode 解压并解析对象。所有解析失败都包装 ErrMalformedObject。
func (c *Codec) Decode(r io.Reader) (*Content, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib header: %w", ErrMalformedObject, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: zlib stream: %w", ErrMalformedObject, err)
	}
	return c.parse(raw)
}

func (c *Codec) parse(raw []byte) (*Content, error) {
	// header 本身不含 NUL，所以第一个 NUL 一定是 header 结束符
	nul := bytes.IndexByte(raw, 0)
	if nul == -1 {
		return nil, fmt.Errorf("%w: no NUL after header", ErrMalformedObject)
	}
	header, payload := raw[:nul], raw[nul+1:]

	sp := bytes.IndexByte(header, ' ')
	if sp <= 0 {
		return nil, fmt.Errorf("%w: invalid header %q", ErrMalformedObject, header)
	}

	typ, err := ParseObjectType(string(header[:sp]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedObject, err)
	}

	size, err := parseSize(header[sp+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid size in header %q", ErrMalformedObject, header)
	}
	if c.strictSize && size != int64(len(payload)) {
		return nil, fmt.Errorf("%w: header size %d, payload is %d bytes", ErrMalformedObject, size, len(payload))
	}

	return &Content{
		Type:    typ,
		Size:    size,
		Payload: payload,
	}, nil
}

// parseSize accepts plain ASCII decimal only (no sign, no spaces).
func parseSize(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errors.New("empty size")
	}
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("non-digit %q", ch)
		}
	}
	return strconv.ParseInt(string(b), 10, 64)
}
