package settings

import "context"

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	Values map[string]string
}

func NewStubRepository() *StubRepository {
	return &StubRepository{Values: map[string]string{}}
}

func (s *StubRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, found := s.Values[key]
	return value, found, nil
}

func (s *StubRepository) Set(ctx context.Context, key string, value string) error {
	s.Values[key] = value
	return nil
}
