package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gitlite/pkg/core"
	"gitlite/pkg/storage"
	"gitlite/pkg/types"

	"github.com/dgraph-io/badger/v4"
)

// Adapter stores objects in an embedded badger database.
// Keys follow storage.Key, values are the compressed object bytes.
type Adapter struct {
	db *badger.DB
}

// NewAdapter opens (or creates) the database at path.
// An empty path opens an in-memory database.
func NewAdapter(path string) (*Adapter, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: open badger: %w", storage.ErrIO, err)
	}
	return &Adapter{db: db}, nil
}

func (s *Adapter) Close() error {
	return s.db.Close()
}

func (s *Adapter) Put(ctx context.Context, obj core.Object) error {
	key := []byte(storage.Key(obj.ID()))
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil // 已经存在
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, obj.Bytes())
	})
	if err != nil {
		return fmt.Errorf("%w: badger put %s: %w", storage.ErrIO, obj.ID(), err)
	}
	return nil
}

func (s *Adapter) Get(ctx context.Context, hash types.Hash) (io.ReadCloser, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(storage.Key(hash)))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: badger get %s: %w", storage.ErrIO, hash, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *Adapter) Has(ctx context.Context, hash types.Hash) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(storage.Key(hash)))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: badger has %s: %w", storage.ErrIO, hash, err)
	}
	return true, nil
}

// ExpandHash scans keys under the prefix without fetching values.
func (s *Adapter) ExpandHash(ctx context.Context, prefix types.HashPrefix) (types.Hash, error) {
	if !prefix.IsValid() {
		return "", fmt.Errorf("%w: hash prefix too short or not hex: %q", types.ErrInvalidHash, prefix)
	}
	p := []byte(storage.PrefixKey(prefix))

	var matches []types.Hash
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = p
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p) && len(matches) < 2; it.Next() {
			if h, ok := storage.HashFromKey(string(it.Item().Key())); ok {
				matches = append(matches, h)
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: badger scan: %w", storage.ErrIO, err)
	}

	switch len(matches) {
	case 0:
		return "", storage.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s", storage.ErrAmbiguousHash, prefix)
	}
}
