package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/jaevor/go-nanoid"
)

// StoredObject identifies a persisted receipt. Key is backend specific and is
// what Delete expects; URL is publicly fetchable.
type StoredObject struct {
	Key string
	URL string
}

// ReceiptStore persists uploaded payment receipts. size is the body length
// when known and 0 otherwise.
type ReceiptStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

// KeyGenerator builds collision-resistant object keys for receipts.
type KeyGenerator struct {
	next func() string
}

func NewKeyGenerator() (*KeyGenerator, error) {
	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("init nanoid: %w", err)
	}
	return &KeyGenerator{next: gen}, nil
}

// Key returns "<orderID>/<nanoid><ext>" where ext is taken from filename
// (lower-cased) when it has one.
func (g *KeyGenerator) Key(orderID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 8 || strings.ContainsAny(ext, `/\ `) {
		ext = ""
	}
	return orderID + "/" + g.next() + ext
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
