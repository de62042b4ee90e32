package settings

import "sync"

// Store is the settings mapping shared by the console: the last known
// configuration of every service as read from or written to the backend.
type Store struct {
	mu       sync.Mutex
	services Group
	loaded   bool
	err      error
}

// NewStore returns an empty, not yet loaded store
func NewStore() *Store {
	return &Store{}
}

// Load replaces the whole mapping with a fresh read.
func (s *Store) Load(all Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = all
	s.loaded = true
	s.err = nil
}

// Fail records a read failure. The store keeps reporting not loaded.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Err returns the last read failure, if any.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Loaded reports whether a read completed.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Service returns the configuration of one service.
func (s *Store) Service(name string) (Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.services.Get(name)
	if !ok {
		return Group{}, false
	}
	g, ok := v.(Group)
	return g, ok
}

// Merge stores the server's normalized configuration of one service.
func (s *Store) Merge(service string, tree Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services = s.services.With(service, tree)
}

// Services returns the service names in backend order.
func (s *Store) Services() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.services.Keys()
}
