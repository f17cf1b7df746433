package service

import (
	"context"
	"fmt"

	"hospital-records/internal/audit/domain"
)

// List returns one page of audit entries matching f, newest first, each
// enriched with its actor's display fields. Out-of-range pages return an
// empty page with accurate totals, not an error.
func (s *QueryService) List(ctx context.Context, f domain.Filter, page, perPage int) (*LogPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPage, page)
	}
	if perPage < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPerPage, perPage)
	}
	if perPage > s.maxPerPage {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrPerPageTooLarge, perPage, s.maxPerPage)
	}
	if err := validateFilter(f); err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.List(ctx, f, perPage, (page-1)*perPage)
	if err != nil {
		return nil, err
	}
	enriched, err := s.enrich(ctx, entries)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveList()
	return &LogPage{
		Entries: enriched,
		Pagination: Pagination{
			CurrentPage: page,
			LastPage:    lastPage(total, perPage),
			Total:       total,
			PerPage:     perPage,
		},
	}, nil
}

func validateFilter(f domain.Filter) error {
	if f.Action != "" && !f.Action.Valid() {
		return fmt.Errorf("%w: action %q", ErrInvalidFilter, f.Action)
	}
	if f.EntityType != "" && !f.EntityType.Valid() {
		return fmt.Errorf("%w: entity type %q", ErrInvalidFilter, f.EntityType)
	}
	return nil
}

// lastPage is 1-based; an empty result set still has one (empty) page.
func lastPage(total, perPage int) int {
	if total == 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}

// enrich attaches actor display fields to each entry. A missing actor yields
// a nil Actor; only storage failures propagate. Lookups are deduplicated per
// call, since pages tend to repeat the same handful of actors.
func (s *QueryService) enrich(ctx context.Context, entries []*domain.AuditEntry) ([]*Entry, error) {
	seen := make(map[string]*domain.Actor)
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		actor, ok := seen[e.ActorID]
		if !ok {
			u, err := s.users.GetByID(ctx, e.ActorID)
			if err != nil {
				return nil, err
			}
			if u != nil {
				actor = &domain.Actor{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
			}
			seen[e.ActorID] = actor
		}
		out = append(out, &Entry{AuditEntry: e, Actor: actor})
	}
	return out, nil
}
