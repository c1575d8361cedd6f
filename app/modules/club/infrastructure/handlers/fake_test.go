package clubhandlers

import (
	"context"

	clubservice "github.com/Black-And-White-Club/league-bot/app/modules/club/application"
	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/shopspring/decimal"
)

type roleCall struct {
	guildID sharedtypes.GuildID
	clubID  int64
	roleID  *sharedtypes.RoleID
}

// FakeClubService records SetRoleID calls; other methods are unused here.
type FakeClubService struct {
	roleCalls  []roleCall
	setRoleErr error
}

func (f *FakeClubService) CreateClub(context.Context, sharedtypes.GuildID, string, decimal.Decimal) (*clubdb.Club, error) {
	return nil, nil
}

func (f *FakeClubService) GetClub(context.Context, sharedtypes.GuildID, int64) (*clubdb.Club, error) {
	return nil, nil
}

func (f *FakeClubService) GetClubByName(context.Context, sharedtypes.GuildID, string) (*clubdb.Club, error) {
	return nil, nil
}

func (f *FakeClubService) ListClubs(context.Context, sharedtypes.GuildID) ([]clubdb.Club, error) {
	return nil, nil
}

func (f *FakeClubService) UpdateBudget(context.Context, sharedtypes.GuildID, int64, decimal.Decimal) (*clubdb.Club, error) {
	return nil, nil
}

func (f *FakeClubService) SetBudgetsBulk(context.Context, sharedtypes.GuildID, decimal.Decimal) (int, error) {
	return 0, nil
}

func (f *FakeClubService) RenameClub(context.Context, sharedtypes.GuildID, int64, string) (*clubdb.Club, error) {
	return nil, nil
}

func (f *FakeClubService) DeleteClub(context.Context, sharedtypes.GuildID, int64) (*clubservice.DeletedClub, error) {
	return nil, nil
}

func (f *FakeClubService) SetRoleID(_ context.Context, guildID sharedtypes.GuildID, clubID int64, roleID *sharedtypes.RoleID) error {
	f.roleCalls = append(f.roleCalls, roleCall{guildID: guildID, clubID: clubID, roleID: roleID})
	return f.setRoleErr
}

var _ clubservice.Service = (*FakeClubService)(nil)
