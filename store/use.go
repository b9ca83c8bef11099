package store

import "context"

// Use runs fn with the store open. A store that was closed is opened for the call and
// closed again on every exit path; a store the caller already opened is left open.
func Use(ctx context.Context, s *Store, fn func(s *Store) error) (err error) {
	if s.Opened() {
		return fn(s)
	}
	if err := s.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); err == nil {
			err = closeErr
		}
	}()
	return fn(s)
}
