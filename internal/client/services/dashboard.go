package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/protodesk/internal/client/client"
	"github.com/dmitrijs2005/protodesk/internal/client/models"
	"github.com/dmitrijs2005/protodesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

type DashboardService struct {
	client client.Client
	logger logging.Logger
}

func NewDashboardService(c client.Client, logger logging.Logger) *DashboardService {
	return &DashboardService{client: c, logger: logger}
}

// Stats loads the counters, the monthly series for year and the storage
// locations concurrently. On failure the returned Stats still carries a
// zero-filled monthly series so it can be rendered.
func (s *DashboardService) Stats(ctx context.Context, year int) (models.Stats, error) {
	st := models.Stats{Year: year, Monthly: models.MonthlySubmissions{}.Series()}

	var (
		counts    models.Counts
		monthly   models.MonthlySubmissions
		locations []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.client.Counts(gctx)
		if err != nil {
			return fmt.Errorf("counts: %w", err)
		}
		counts = c
		return nil
	})
	g.Go(func() error {
		m, err := s.client.MonthlySubmissions(gctx, year)
		if err != nil {
			return fmt.Errorf("monthly submissions: %w", err)
		}
		monthly = m
		return nil
	})
	g.Go(func() error {
		l, err := s.client.StorageLocations(gctx)
		if err != nil {
			return fmt.Errorf("storage locations: %w", err)
		}
		locations = l
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn(ctx, "failed to load dashboard", "year", year, "error", err.Error())
		return st, err
	}

	sort.Strings(locations)
	st.Counts = counts
	st.Monthly = monthly.Series()
	st.StorageLocations = locations
	return st, nil
}
