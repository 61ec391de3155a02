package memo

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// CompressionCodec represents a value compression algorithm.
type CompressionCodec string

const (
	CompressionNone CompressionCodec = ""
	CompressionGzip CompressionCodec = "gzip"
)

var (
	ErrValueTooLarge      = errors.New("memo: value exceeds max size")
	ErrUnsupportedCodec   = errors.New("memo: unsupported compression codec")
	ErrCorruptCompression = errors.New("memo: corrupt compressed payload")
	ErrCorruptCiphertext  = errors.New("memo: corrupt encrypted payload")
)

var (
	compressMagic = []byte("CMP1")
	encryptMagic  = []byte("ENC1")
)

// shapingStore enforces data shaping concerns (compression, size limits)
// transparently on top of any concrete Store implementation.
type shapingStore struct {
	inner Store
	codec CompressionCodec
	max   int
}

func newShapingStore(inner Store, codec CompressionCodec, max int) Store {
	if codec == CompressionNone && max <= 0 {
		return inner
	}
	return &shapingStore{inner: inner, codec: codec, max: max}
}

func (s *shapingStore) Driver() Driver { return s.inner.Driver() }

func (s *shapingStore) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	body, ok, err := s.inner.Get(ctx, scope, key)
	if err != nil || !ok {
		return body, ok, err
	}
	decoded, err := decodeShaped(body)
	if err != nil {
		return nil, false, err
	}
	return decoded, true, nil
}

func (s *shapingStore) Set(ctx context.Context, scope, key string, value []byte) error {
	encoded, err := encodeShaped(s.codec, s.max, value)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, scope, key, encoded)
}

func (s *shapingStore) Delete(ctx context.Context, scope, key string) error {
	return s.inner.Delete(ctx, scope, key)
}

func (s *shapingStore) Purge(ctx context.Context, scope string) error {
	return s.inner.Purge(ctx, scope)
}

func (s *shapingStore) Flush(ctx context.Context) error {
	return s.inner.Flush(ctx)
}

func encodeShaped(codec CompressionCodec, max int, value []byte) ([]byte, error) {
	if max > 0 && len(value) > max {
		return nil, ErrValueTooLarge
	}
	switch codec {
	case CompressionNone:
		return value, nil
	case CompressionGzip:
		var buf bytes.Buffer
		buf.Write(compressMagic)
		buf.WriteByte('g')
		zw, _ := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
		if _, err := zw.Write(value); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		out := buf.Bytes()
		if max > 0 && len(out) > max {
			return nil, ErrValueTooLarge
		}
		return out, nil
	default:
		return nil, ErrUnsupportedCodec
	}
}

func decodeShaped(body []byte) ([]byte, error) {
	if len(body) < len(compressMagic)+1 || !bytes.HasPrefix(body, compressMagic) {
		return body, nil
	}
	switch body[len(compressMagic)] {
	case 'g':
		zr, err := gzip.NewReader(bytes.NewReader(body[len(compressMagic)+1:]))
		if err != nil {
			return nil, ErrCorruptCompression
		}
		defer func() { _ = zr.Close() }()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, ErrCorruptCompression
		}
		return out, nil
	default:
		return nil, ErrUnsupportedCodec
	}
}

// encryptingStore seals values with AES-GCM before they reach the
// backend. The nonce rides in front of the ciphertext.
type encryptingStore struct {
	inner Store
	aead  cipher.AEAD
}

func newEncryptingStore(inner Store, key []byte) (Store, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &encryptingStore{inner: inner, aead: aead}, nil
}

func (s *encryptingStore) Driver() Driver { return s.inner.Driver() }

func (s *encryptingStore) Get(ctx context.Context, scope, key string) ([]byte, bool, error) {
	body, ok, err := s.inner.Get(ctx, scope, key)
	if err != nil || !ok {
		return body, ok, err
	}
	opened, err := s.open(body)
	if err != nil {
		return nil, false, err
	}
	return opened, true, nil
}

func (s *encryptingStore) Set(ctx context.Context, scope, key string, value []byte) error {
	return s.inner.Set(ctx, scope, key, s.seal(value))
}

func (s *encryptingStore) Delete(ctx context.Context, scope, key string) error {
	return s.inner.Delete(ctx, scope, key)
}

func (s *encryptingStore) Purge(ctx context.Context, scope string) error {
	return s.inner.Purge(ctx, scope)
}

func (s *encryptingStore) Flush(ctx context.Context) error {
	return s.inner.Flush(ctx)
}

func (s *encryptingStore) seal(value []byte) []byte {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		panic("memo: crypto/rand unavailable: " + err.Error())
	}
	out := make([]byte, 0, len(encryptMagic)+len(nonce)+len(value)+s.aead.Overhead())
	out = append(out, encryptMagic...)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, value, nil)
}

func (s *encryptingStore) open(body []byte) ([]byte, error) {
	if !bytes.HasPrefix(body, encryptMagic) {
		return nil, ErrCorruptCiphertext
	}
	body = body[len(encryptMagic):]
	if len(body) < s.aead.NonceSize() {
		return nil, ErrCorruptCiphertext
	}
	nonce, ciphertext := body[:s.aead.NonceSize()], body[s.aead.NonceSize():]
	opened, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrCorruptCiphertext
	}
	return opened, nil
}
