package services

import (
	"context"
	"strings"

	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/repositories"
)

const playerSearchLimit = 20

type PlayerService struct {
	playerRepo repositories.PlayerRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

func (s *PlayerService) GetByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return player, nil
}

// Search finds players by name for the invite picker. Blank queries return
// nothing rather than the whole table.
func (s *PlayerService) Search(ctx context.Context, query string) ([]*models.Player, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*models.Player{}, nil
	}
	players, err := s.playerRepo.SearchByName(ctx, query, playerSearchLimit)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return players, nil
}
