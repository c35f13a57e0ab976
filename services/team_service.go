package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/openseries/roster-system/eligibility"
	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/repositories"
	"github.com/openseries/roster-system/storage"
)

type TeamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader) *TeamService {
	return &TeamService{teamRepo: teamRepo, uploader: uploader}
}

// GetBySlug returns a team with its public logo URL populated.
func (s *TeamService) GetBySlug(ctx context.Context, slug string) (*models.Team, error) {
	team, err := s.teamRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, mapRepoError(err)
	}
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

// UploadLogo stores a new team logo and records its object key. Admin only.
func (s *TeamService) UploadLogo(ctx context.Context, teamID, currentUserID int, contentType string, file io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !eligibility.IsTeamAdmin(currentUserID, team) {
		return nil, ErrNotTeamAdmin
	}

	key := fmt.Sprintf("teams/%d/logo-%d", team.ID, time.Now().Unix())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	oldKey := team.LogoKey
	if err := s.teamRepo.UpdateLogoKey(ctx, team.ID, &result.Key); err != nil {
		return nil, mapRepoError(err)
	}
	if oldKey != nil && *oldKey != "" {
		// Old object is unreferenced now; removal failure only leaks storage.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &result.Key
	populateTeamLogoURL(team, s.uploader)
	return team, nil
}

func populateTeamLogoURL(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}
