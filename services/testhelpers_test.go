package services

import (
	"context"
	"time"

	"github.com/openseries/roster-system/models"
	"github.com/openseries/roster-system/repositories"
)

// In-memory fakes for the repository interfaces. They mirror the unique
// constraints the real schema enforces so conflict paths can be exercised
// without a database.

type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	f.calls++
	return fn(nil)
}

type fakeSeriesRepo struct {
	series []*models.Series
}

func (f *fakeSeriesRepo) GetByID(_ context.Context, id int) (*models.Series, error) {
	for _, s := range f.series {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repositories.ErrSeriesNotFound
}

func (f *fakeSeriesRepo) GetBySlug(_ context.Context, slug string) (*models.Series, error) {
	for _, s := range f.series {
		if s.Slug == slug {
			return s, nil
		}
	}
	return nil, repositories.ErrSeriesNotFound
}

type fakeTeamRepo struct {
	teams []*models.Team
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) GetBySlug(_ context.Context, slug string) (*models.Team, error) {
	for _, t := range f.teams {
		if t.Slug == slug {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	t, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	t.LogoKey = logoKey
	return nil
}

type fakeTournamentRepo struct {
	tournaments []*models.Tournament
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	for _, t := range f.tournaments {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (f *fakeTournamentRepo) ListBySeriesID(_ context.Context, seriesID int) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for _, t := range f.tournaments {
		if t.SeriesID == seriesID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePlayerRepo struct {
	players []*models.Player
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) SearchByName(_ context.Context, _ string, _ int) ([]*models.Player, error) {
	return f.players, nil
}

type fakeRosterRepo struct {
	regs    []*models.RosterRegistration
	nextID  int
	updates int
}

func (f *fakeRosterRepo) Create(_ context.Context, _ repositories.SQLExecutor, reg *models.RosterRegistration) error {
	for _, existing := range f.regs {
		if existing.TeamID == reg.TeamID && existing.PlayerID == reg.PlayerID &&
			existing.ScopeKind == reg.ScopeKind && existing.ScopeID == reg.ScopeID {
			return repositories.ErrRegistrationConflict
		}
	}
	f.nextID++
	reg.ID = f.nextID
	reg.CreatedAt = time.Now()
	f.regs = append(f.regs, reg)
	return nil
}

func (f *fakeRosterRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, regs []*models.RosterRegistration) error {
	for _, reg := range regs {
		if err := f.Create(ctx, exec, reg); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRosterRepo) GetByID(_ context.Context, id int) (*models.RosterRegistration, error) {
	for _, reg := range f.regs {
		if reg.ID == id {
			return reg, nil
		}
	}
	return nil, repositories.ErrRegistrationNotFound
}

func (f *fakeRosterRepo) ListByTeamScope(_ context.Context, teamID int, kind models.ScopeKind, scopeID int) ([]*models.RosterRegistration, error) {
	var out []*models.RosterRegistration
	for _, reg := range f.regs {
		if reg.TeamID == teamID && reg.ScopeKind == kind && reg.ScopeID == scopeID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (f *fakeRosterRepo) ListPlayerIDsByTeamScope(ctx context.Context, _ repositories.SQLExecutor, teamID int, kind models.ScopeKind, scopeID int) ([]int, error) {
	regs, _ := f.ListByTeamScope(ctx, teamID, kind, scopeID)
	ids := make([]int, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.PlayerID)
	}
	return ids, nil
}

func (f *fakeRosterRepo) CountByTeamScope(ctx context.Context, _ repositories.SQLExecutor, teamID int, kind models.ScopeKind, scopeID int) (int, error) {
	regs, _ := f.ListByTeamScope(ctx, teamID, kind, scopeID)
	return len(regs), nil
}

func (f *fakeRosterRepo) Update(_ context.Context, reg *models.RosterRegistration) error {
	f.updates++
	for i, existing := range f.regs {
		if existing.ID == reg.ID {
			f.regs[i] = reg
			return nil
		}
	}
	return repositories.ErrRegistrationNotFound
}

func (f *fakeRosterRepo) Delete(_ context.Context, id int) error {
	for i, reg := range f.regs {
		if reg.ID == id {
			f.regs = append(f.regs[:i], f.regs[i+1:]...)
			return nil
		}
	}
	return repositories.ErrRegistrationNotFound
}

type fakeInvitationRepo struct {
	invitations []*models.Invitation
	nextID      int
}

func (f *fakeInvitationRepo) Create(_ context.Context, invitation *models.Invitation) error {
	f.nextID++
	invitation.ID = f.nextID
	invitation.CreatedAt = time.Now()
	f.invitations = append(f.invitations, invitation)
	return nil
}

func (f *fakeInvitationRepo) GetByID(_ context.Context, id int) (*models.Invitation, error) {
	for _, inv := range f.invitations {
		if inv.ID == id {
			return inv, nil
		}
	}
	return nil, repositories.ErrInvitationNotFound
}

func (f *fakeInvitationRepo) ListByTeamSeries(_ context.Context, teamID, seriesID int) ([]*models.Invitation, error) {
	var out []*models.Invitation
	for i := len(f.invitations) - 1; i >= 0; i-- {
		inv := f.invitations[i]
		if inv.TeamID == teamID && inv.SeriesID == seriesID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.InvitationStatus) error {
	for _, inv := range f.invitations {
		if inv.ID == id {
			inv.Status = status
			return nil
		}
	}
	return repositories.ErrInvitationNotFound
}

func (f *fakeInvitationRepo) ExpirePendingBefore(_ context.Context, _ time.Time) (int64, error) {
	var expired int64
	for _, inv := range f.invitations {
		if inv.Status == models.InvitationPending {
			inv.Status = models.InvitationExpired
			expired++
		}
	}
	return expired, nil
}

type fakePaymentBatchRepo struct {
	batches map[string]*models.PaymentBatch
}

func newFakePaymentBatchRepo() *fakePaymentBatchRepo {
	return &fakePaymentBatchRepo{batches: make(map[string]*models.PaymentBatch)}
}

func (f *fakePaymentBatchRepo) Create(_ context.Context, batch *models.PaymentBatch) error {
	if _, exists := f.batches[batch.ID]; exists {
		return repositories.ErrPaymentBatchConflict
	}
	stored := *batch
	stored.CreatedAt = time.Now()
	f.batches[batch.ID] = &stored
	return nil
}

func (f *fakePaymentBatchRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id string) (*models.PaymentBatch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return nil, repositories.ErrPaymentBatchNotFound
	}
	copied := *batch
	return &copied, nil
}

func (f *fakePaymentBatchRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id string, status models.PaymentBatchStatus, confirmedAt *time.Time) error {
	batch, ok := f.batches[id]
	if !ok {
		return repositories.ErrPaymentBatchNotFound
	}
	batch.Status = status
	batch.ConfirmedAt = confirmedAt
	return nil
}

// Fixtures shared by the service tests. The window around time.Now is wide
// open so only tests that care about closed windows move the dates.

const (
	adminID  = 1
	playerID = 2
)

func openSeries() *models.Series {
	return &models.Series{
		ID:               10,
		Slug:             "summer-open",
		Name:             "Summer Open",
		Type:             models.SeriesMixed,
		StartDate:        time.Now().Add(-24 * time.Hour),
		EndDate:          time.Now().Add(24 * time.Hour),
		RosterMaxPlayers: 4,
	}
}

func closedSeries() *models.Series {
	s := openSeries()
	s.StartDate = time.Now().Add(-48 * time.Hour)
	s.EndDate = time.Now().Add(-24 * time.Hour)
	return s
}

func openTournament(fee int64) *models.Tournament {
	return &models.Tournament{
		ID:                          20,
		SeriesID:                    10,
		Slug:                        "summer-open-r1",
		Name:                        "Summer Open Round 1",
		Type:                        models.SeriesMixed,
		PlayerRegistrationStartDate: time.Now().Add(-24 * time.Hour),
		PlayerRegistrationEndDate:   time.Now().Add(24 * time.Hour),
		PlayerFee:                   fee,
		RosterMaxPlayers:            4,
	}
}

func testTeam() *models.Team {
	return &models.Team{
		ID:       30,
		Slug:     "harbor-hawks",
		Name:     "Harbor Hawks",
		AdminIDs: []int{adminID},
	}
}

func testPlayer(id int, matchUp models.MatchUp) *models.Player {
	return &models.Player{ID: id, FullName: "Test Player", MatchUp: matchUp}
}
