package clubservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Black-And-White-Club/league-bot/app/events"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/observability"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const testGuild = sharedtypes.GuildID("guild-1")

func newTestService(repo *FakeClubRepo, roster *FakeRoster, pub *FakePublisher) *ClubService {
	return NewClubService(
		repo,
		roster,
		events.NewEmitter(pub, slog.Default()),
		slog.Default(),
		observability.NewNoop(),
		nil,
		nil,
	)
}

func TestCreateClub(t *testing.T) {
	tests := []struct {
		name       string
		clubName   string
		budget     decimal.Decimal
		setupRepo  func(*FakeClubRepo)
		wantErr    error
		wantTrace  []string
		wantEvents []string
	}{
		{
			name:     "creates club and emits event",
			clubName: "  Red Lions ",
			budget:   decimal.NewFromInt(1000),
			setupRepo: func(f *FakeClubRepo) {
				f.CreateFunc = func(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
					club.ID = 7
					return nil
				}
			},
			wantTrace:  []string{"GetByName", "Create"},
			wantEvents: []string{events.ClubCreatedV1},
		},
		{
			name:     "duplicate name",
			clubName: "Red Lions",
			budget:   decimal.NewFromInt(10),
			setupRepo: func(f *FakeClubRepo) {
				f.GetByNameFunc = func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*clubdb.Club, error) {
					return &clubdb.Club{ID: 1, Name: name}, nil
				}
			},
			wantErr:   domainerr.ErrConflict,
			wantTrace: []string{"GetByName"},
		},
		{
			name:     "duplicate detected by constraint",
			clubName: "Red Lions",
			budget:   decimal.Zero,
			setupRepo: func(f *FakeClubRepo) {
				f.CreateFunc = func(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
					return clubdb.ErrDuplicateName
				}
			},
			wantErr:   domainerr.ErrConflict,
			wantTrace: []string{"GetByName", "Create"},
		},
		{
			name:      "blank name",
			clubName:  "   ",
			budget:    decimal.Zero,
			setupRepo: func(*FakeClubRepo) {},
			wantErr:   domainerr.ErrInvalid,
			wantTrace: []string{},
		},
		{
			name:      "negative budget",
			clubName:  "Red Lions",
			budget:    decimal.NewFromInt(-1),
			setupRepo: func(*FakeClubRepo) {},
			wantErr:   domainerr.ErrInvalid,
			wantTrace: []string{},
		},
		{
			name:     "storage failure",
			clubName: "Red Lions",
			budget:   decimal.Zero,
			setupRepo: func(f *FakeClubRepo) {
				f.CreateFunc = func(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
					return errors.New("disk full")
				}
			},
			wantErr:   domainerr.ErrStorage,
			wantTrace: []string{"GetByName", "Create"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeClubRepo()
			tt.setupRepo(repo)
			pub := &FakePublisher{}
			svc := newTestService(repo, &FakeRoster{}, pub)

			club, err := svc.CreateClub(context.Background(), testGuild, tt.clubName, tt.budget)

			assert.Equal(t, tt.wantTrace, repo.Trace())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, club)
				assert.Empty(t, pub.Topics)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Red Lions", club.Name)
			assert.Equal(t, int64(7), club.ID)
			assert.True(t, tt.budget.Equal(club.Budget))
			assert.Equal(t, tt.wantEvents, pub.Topics)
		})
	}
}

func TestRenameClub(t *testing.T) {
	existing := func() *clubdb.Club { return &clubdb.Club{ID: 3, GuildID: testGuild, Name: "Old"} }

	tests := []struct {
		name       string
		newName    string
		setupRepo  func(*FakeClubRepo)
		wantErr    error
		wantName   string
		wantEvents int
	}{
		{
			name:    "renames and emits",
			newName: "New",
			setupRepo: func(f *FakeClubRepo) {
				f.GetByIDFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, int64) (*clubdb.Club, error) { return existing(), nil }
			},
			wantName:   "New",
			wantEvents: 1,
		},
		{
			name:    "same name is a no-op",
			newName: "Old",
			setupRepo: func(f *FakeClubRepo) {
				f.GetByIDFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, int64) (*clubdb.Club, error) { return existing(), nil }
				f.RenameFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, int64, string) error {
					return errors.New("should not be called")
				}
			},
			wantName: "Old",
		},
		{
			name:    "name taken",
			newName: "Taken",
			setupRepo: func(f *FakeClubRepo) {
				f.GetByIDFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, int64) (*clubdb.Club, error) { return existing(), nil }
				f.RenameFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, int64, string) error { return clubdb.ErrDuplicateName }
			},
			wantErr: domainerr.ErrConflict,
		},
		{
			name:      "missing club",
			newName:   "New",
			setupRepo: func(*FakeClubRepo) {},
			wantErr:   domainerr.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeClubRepo()
			tt.setupRepo(repo)
			pub := &FakePublisher{}
			svc := newTestService(repo, &FakeRoster{}, pub)

			club, err := svc.RenameClub(context.Background(), testGuild, 3, tt.newName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, pub.Topics)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, club.Name)
			assert.Len(t, pub.Topics, tt.wantEvents)
		})
	}
}

func TestDeleteClubReleasesRoster(t *testing.T) {
	repo := NewFakeClubRepo()
	repo.GetByIDFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, int64) (*clubdb.Club, error) {
		return &clubdb.Club{ID: 5, Name: "Blues"}, nil
	}
	roster := &FakeRoster{
		ReleaseClubFunc: func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]sharedtypes.DiscordID, error) {
			assert.Equal(t, int64(5), clubID)
			return []sharedtypes.DiscordID{"u1", "u2"}, nil
		},
	}
	pub := &FakePublisher{}
	svc := newTestService(repo, roster, pub)

	deleted, err := svc.DeleteClub(context.Background(), testGuild, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted.PlayersReleased)
	assert.Equal(t, "Blues", deleted.Club.Name)
	assert.Equal(t, []string{"GetByID", "Delete"}, repo.Trace())
	assert.Equal(t, []string{events.ClubDeletedV1}, pub.Topics)
}

func TestDeleteClubRosterFailureAborts(t *testing.T) {
	repo := NewFakeClubRepo()
	repo.GetByIDFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, int64) (*clubdb.Club, error) {
		return &clubdb.Club{ID: 5}, nil
	}
	roster := &FakeRoster{
		ReleaseClubFunc: func(context.Context, bun.IDB, sharedtypes.GuildID, int64) ([]sharedtypes.DiscordID, error) {
			return nil, errors.New("locked")
		},
	}
	pub := &FakePublisher{}
	svc := newTestService(repo, roster, pub)

	_, err := svc.DeleteClub(context.Background(), testGuild, 5)
	assert.ErrorIs(t, err, domainerr.ErrStorage)
	assert.Equal(t, []string{"GetByID"}, repo.Trace())
	assert.Empty(t, pub.Topics)
}

func TestSetBudgetsBulk(t *testing.T) {
	repo := NewFakeClubRepo()
	repo.ListFunc = func(context.Context, bun.IDB, sharedtypes.GuildID) ([]clubdb.Club, error) {
		return []clubdb.Club{{ID: 1}, {ID: 2}, {ID: 3}}, nil
	}
	var updated []int64
	repo.UpdateBudgetFunc = func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, budget decimal.Decimal) error {
		assert.True(t, budget.Equal(decimal.NewFromInt(500)))
		updated = append(updated, id)
		return nil
	}
	svc := newTestService(repo, &FakeRoster{}, &FakePublisher{})

	n, err := svc.SetBudgetsBulk(context.Background(), testGuild, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int64{1, 2, 3}, updated)

	_, err = svc.SetBudgetsBulk(context.Background(), testGuild, decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, ErrNegativeBudget)
}

func TestBudgetsFinerThanCentsAreRejected(t *testing.T) {
	repo := NewFakeClubRepo()
	svc := newTestService(repo, &FakeRoster{}, &FakePublisher{})
	ctx := context.Background()
	tooFine := decimal.RequireFromString("10.005")

	_, err := svc.CreateClub(ctx, testGuild, "Rovers", tooFine)
	assert.ErrorIs(t, err, ErrBudgetPrecision)
	assert.ErrorIs(t, err, domainerr.ErrInvalid)

	_, err = svc.UpdateBudget(ctx, testGuild, 1, tooFine)
	assert.ErrorIs(t, err, ErrBudgetPrecision)

	_, err = svc.SetBudgetsBulk(ctx, testGuild, tooFine)
	assert.ErrorIs(t, err, ErrBudgetPrecision)

	assert.NotContains(t, repo.Trace(), "Create")
	assert.NotContains(t, repo.Trace(), "UpdateBudget")
}

func TestUpdateBudgetMissingClub(t *testing.T) {
	repo := NewFakeClubRepo()
	repo.UpdateBudgetFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, int64, decimal.Decimal) error {
		return clubdb.ErrNotFound
	}
	svc := newTestService(repo, &FakeRoster{}, &FakePublisher{})

	_, err := svc.UpdateBudget(context.Background(), testGuild, 99, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, clubdb.ErrNotFound)
}
