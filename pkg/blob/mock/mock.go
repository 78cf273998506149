package mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/opst/orcaobra/pkg/blob"
)

type object struct {
	Body        []byte
	ContentType string
}

// Store is an in-memory blob.Store.
type Store struct {
	mu      sync.Mutex
	Objects map[string]object

	// Err, when set, is returned from every method.
	Err error
}

func New() *Store {
	return &Store{Objects: map[string]object{}}
}

var _ blob.Store = &Store{}

func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.Err != nil {
		return s.Err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Objects[key] = object{Body: b, ContentType: contentType}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.Objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", blob.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(o.Body)), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Objects, key)
	return nil
}

func (s *Store) URL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return fmt.Sprintf("https://storage.example.com/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

// Has tells whether an object is at the key.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Objects[key]
	return ok
}
