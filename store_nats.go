package memo

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
)

// NATSKeyValue captures the subset of nats.KeyValue used by the store.
type NATSKeyValue interface {
	Get(key string) (nats.KeyValueEntry, error)
	Put(key string, value []byte) (uint64, error)
	Delete(key string, opts ...nats.DeleteOpt) error
	Purge(key string, opts ...nats.DeleteOpt) error
	ListKeys(opts ...nats.WatchOpt) (nats.KeyLister, error)
}

// natsStore persists entries in a JetStream key-value bucket. Prefix,
// scope and key segments are base64-encoded individually so arbitrary
// strings survive NATS subject rules and scope boundaries stay exact.
type natsStore struct {
	kv     NATSKeyValue
	prefix string
}

func newNATSStore(kv NATSKeyValue, prefix string) Store {
	if prefix == "" {
		prefix = defaultStorePrefix
	}
	return &natsStore{
		kv:     kv,
		prefix: prefix,
	}
}

func (s *natsStore) Driver() Driver { return DriverNATS }

func (s *natsStore) Get(_ context.Context, scope, key string) ([]byte, bool, error) {
	if s.kv == nil {
		return nil, false, errors.New("nats key-value unavailable")
	}
	entry, err := s.kv.Get(s.storeKey(scope, key))
	if isNATSMiss(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if entry.Operation() == nats.KeyValueDelete || entry.Operation() == nats.KeyValuePurge {
		return nil, false, nil
	}
	return cloneBytes(entry.Value()), true, nil
}

func (s *natsStore) Set(_ context.Context, scope, key string, value []byte) error {
	if s.kv == nil {
		return errors.New("nats key-value unavailable")
	}
	_, err := s.kv.Put(s.storeKey(scope, key), cloneBytes(value))
	return err
}

func (s *natsStore) Delete(_ context.Context, scope, key string) error {
	if s.kv == nil {
		return errors.New("nats key-value unavailable")
	}
	err := s.kv.Delete(s.storeKey(scope, key))
	if isNATSMiss(err) {
		return nil
	}
	return err
}

func (s *natsStore) Purge(ctx context.Context, scope string) error {
	return s.purgePrefix(ctx, s.scopePrefix(scope))
}

func (s *natsStore) Flush(ctx context.Context) error {
	return s.purgePrefix(ctx, s.rootPrefix())
}

func (s *natsStore) purgePrefix(_ context.Context, prefix string) error {
	if s.kv == nil {
		return errors.New("nats key-value unavailable")
	}
	lister, err := s.kv.ListKeys(nats.IgnoreDeletes())
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil
		}
		return err
	}
	defer func() { _ = lister.Stop() }()

	for key := range lister.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := s.kv.Purge(key); err != nil && !isNATSMiss(err) {
			return err
		}
	}
	return nil
}

func (s *natsStore) storeKey(scope, key string) string {
	return s.scopePrefix(scope) + encodeNATSKeyPart(key)
}

func (s *natsStore) scopePrefix(scope string) string {
	return s.rootPrefix() + encodeNATSKeyPart(scope) + ".k."
}

func (s *natsStore) rootPrefix() string {
	return "p." + encodeNATSKeyPart(s.prefix) + ".s."
}

func isNATSMiss(err error) bool {
	return errors.Is(err, nats.ErrKeyNotFound) || errors.Is(err, nats.ErrKeyDeleted)
}

func encodeNATSKeyPart(part string) string {
	if part == "" {
		return "_"
	}
	return base64.RawURLEncoding.EncodeToString([]byte(part))
}
