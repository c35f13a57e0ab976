package services

import (
	"context"

	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/repositories"
	"github.com/openseries/roster-system/storage"
)

type SeriesService struct {
	seriesRepo     repositories.SeriesRepository
	tournamentRepo repositories.TournamentRepository
	uploader       storage.FileUploader
}

func NewSeriesService(
	seriesRepo repositories.SeriesRepository,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
) *SeriesService {
	return &SeriesService{
		seriesRepo:     seriesRepo,
		tournamentRepo: tournamentRepo,
		uploader:       uploader,
	}
}

// GetBySlug returns a series with its public logo URL populated.
func (s *SeriesService) GetBySlug(ctx context.Context, slug string) (*models.Series, error) {
	series, err := s.seriesRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	populateSeriesLogoURL(series, s.uploader)
	return series, nil
}

// ListTournaments returns the events scheduled under a series.
func (s *SeriesService) ListTournaments(ctx context.Context, slug string) ([]*models.Tournament, error) {
	series, err := s.seriesRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return s.tournamentRepo.ListBySeriesID(ctx, series.ID)
}

func populateSeriesLogoURL(series *models.Series, uploader storage.FileUploader) {
	if series != nil && series.LogoKey != nil && *series.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*series.LogoKey)
		if url != "" {
			series.LogoURL = &url
		}
	}
}
