package types

import (
	"fmt"

	"github.com/google/uuid"
)

// Session carries the per-run choices that the parsing components share.
// It is created once by a command and handed to constructors explicitly.
type Session struct {
	ID     string
	System string
	Labels []DepRel
}

func NewSession(system string, labels []string) *Session {
	rels := make([]DepRel, len(labels))
	for i, label := range labels {
		rels[i] = DepRel(label)
	}
	return &Session{
		ID:     uuid.New().String(),
		System: system,
		Labels: rels,
	}
}

func (s *Session) String() string {
	return fmt.Sprintf("session %s (%s, %d labels)", s.ID, s.System, len(s.Labels))
}
