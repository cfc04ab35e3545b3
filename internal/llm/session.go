package llm

import (
	"context"
	"sync"

	"github.com/sellerscout/seller-scout/internal/catalog"
	"github.com/sellerscout/seller-scout/internal/model"
)

// Session tracks the filter selection across a conversation, so follow-up
// requests refine the previous selection instead of starting over.
type Session struct {
	mu        sync.Mutex
	client    Client
	catalog   *catalog.Catalog
	selection *model.FilterSelection
}

// NewSession creates a session backed by the given client and catalog.
func NewSession(client Client, cat *catalog.Catalog) *Session {
	return &Session{client: client, catalog: cat}
}

// Active reports whether the session holds a selection from a prior request.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection != nil
}

// Start maps a fresh shopping request to a selection, replacing any prior
// session state.
func (s *Session) Start(ctx context.Context, prompt string) (model.FilterSelection, error) {
	sel, err := s.client.SelectFilters(ctx, SelectionPrompt(prompt, s.catalog))
	if err != nil {
		return model.FilterSelection{}, err
	}

	s.mu.Lock()
	s.selection = &sel
	s.mu.Unlock()
	return sel, nil
}

// Refine adjusts the current selection according to a follow-up instruction.
// Without prior state it behaves like Start.
func (s *Session) Refine(ctx context.Context, instruction string) (model.FilterSelection, error) {
	s.mu.Lock()
	current := s.selection
	s.mu.Unlock()

	if current == nil {
		return s.Start(ctx, instruction)
	}

	sel, err := s.client.SelectFilters(ctx, RefinePrompt(*current, instruction, s.catalog))
	if err != nil {
		return model.FilterSelection{}, err
	}

	s.mu.Lock()
	s.selection = &sel
	s.mu.Unlock()
	return sel, nil
}

// Reset discards the session's selection state.
func (s *Session) Reset() {
	s.mu.Lock()
	s.selection = nil
	s.mu.Unlock()
}

// Selection returns a copy of the current selection, if any.
func (s *Session) Selection() (model.FilterSelection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return model.FilterSelection{}, false
	}
	return *s.selection, true
}
