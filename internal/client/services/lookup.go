package services

import (
	"context"
	"sort"
	"strings"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// LookupService fetches reference lists and narrows them with a fuzzy,
// case-insensitive match. An empty query returns the full list.
type LookupService struct {
	client client.Client
}

func NewLookupService(c client.Client) *LookupService {
	return &LookupService{client: c}
}

func (s *LookupService) Departments(ctx context.Context, query string) ([]models.Department, error) {
	list, err := s.client.Departments(ctx)
	if err != nil {
		return nil, err
	}
	return rank(query, list, func(d models.Department) string { return d.Name }), nil
}

func (s *LookupService) Students(ctx context.Context, query string) ([]models.User, error) {
	list, err := s.client.Students(ctx)
	if err != nil {
		return nil, err
	}
	return rank(query, list, userKey), nil
}

func (s *LookupService) Supervisors(ctx context.Context, query string) ([]models.User, error) {
	list, err := s.client.Supervisors(ctx)
	if err != nil {
		return nil, err
	}
	return rank(query, list, userKey), nil
}

// StorageLocations lists the known shelves, fuzzy-filtered.
func (s *LookupService) StorageLocations(ctx context.Context, query string) ([]string, error) {
	list, err := s.client.StorageLocations(ctx)
	if err != nil {
		return nil, err
	}
	return rank(query, list, func(l string) string { return l }), nil
}

func userKey(u models.User) string {
	return strings.Join([]string{u.Username, u.FullName, u.Email}, " ")
}

func rank[T any](query string, items []T, key func(T) string) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	words := make([]string, len(items))
	for i, it := range items {
		words[i] = key(it)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, words)
	sort.Stable(ranks)

	out := make([]T, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, items[r.OriginalIndex])
	}
	return out
}
