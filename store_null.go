package memo

import "context"

type nullStore struct{}

func newNullStore() Store { return &nullStore{} }

func (s *nullStore) Driver() Driver { return DriverNull }

func (s *nullStore) Get(context.Context, string, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (s *nullStore) Set(context.Context, string, string, []byte) error { return nil }

func (s *nullStore) Delete(context.Context, string, string) error { return nil }

func (s *nullStore) Purge(context.Context, string) error { return nil }

func (s *nullStore) Flush(context.Context) error { return nil }
