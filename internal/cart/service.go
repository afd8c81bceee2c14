package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/pmdelacruz/artifact-market/internal/registry"
)

// ErrRevoked rejects adds of revoked artifacts; they are never purchasable.
var ErrRevoked = errors.New("artifact is revoked")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add appends a fresh line with quantity 1 and returns it.
func (s *Service) Add(ctx context.Context, sessionID string, artifact registry.Artifact) (Line, error) {
	if artifact.Revoked {
		return Line{}, ErrRevoked
	}
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return Line{}, err
	}
	line := Line{
		Artifact: artifact,
		CartID:   NewLineID(artifact.ID),
		Quantity: 1,
	}
	lines = append(lines, line)
	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return Line{}, fmt.Errorf("save cart: %w", err)
	}
	return line, nil
}

// Remove deletes the matching line. An absent cart id is a no-op.
func (s *Service) Remove(ctx context.Context, sessionID, cartID string) error {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l.CartID != cartID {
			kept = append(kept, l)
		}
	}
	return s.repo.Save(ctx, sessionID, kept)
}

// SetQuantity replaces a line's quantity in place. A quantity of zero or
// less removes the line; a line with non-positive quantity must not exist.
func (s *Service) SetQuantity(ctx context.Context, sessionID, cartID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, sessionID, cartID)
	}
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].CartID == cartID {
			lines[i].Quantity = quantity
			break
		}
	}
	return s.repo.Save(ctx, sessionID, lines)
}

func (s *Service) Lines(ctx context.Context, sessionID string) ([]Line, error) {
	return s.repo.Load(ctx, sessionID)
}

// Clear empties the session's cart, e.g. after an order commits.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.repo.Clear(ctx, sessionID)
}

func (s *Service) Total(ctx context.Context, sessionID string) (int64, error) {
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return Total(lines), nil
}
