package clubservice

import (
	"context"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Club Repo
// ------------------------

type FakeClubRepo struct {
	trace []string

	GetByIDFunc       func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*clubdb.Club, error)
	GetByNameFunc     func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*clubdb.Club, error)
	GetByIDsFunc      func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*clubdb.Club, error)
	GetByIDsLockFunc  func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*clubdb.Club, error)
	ListFunc          func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]clubdb.Club, error)
	CreateFunc        func(ctx context.Context, db bun.IDB, club *clubdb.Club) error
	UpdateBudgetFunc  func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, budget decimal.Decimal) error
	RenameFunc        func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, name string) error
	SetRoleIDFunc     func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, roleID *sharedtypes.RoleID) error
	DebitFunc         func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, amount decimal.Decimal) error
	CreditFunc        func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, amount decimal.Decimal) error
	DeleteFunc        func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error
	DeleteByGuildFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error)
}

func NewFakeClubRepo() *FakeClubRepo {
	return &FakeClubRepo{trace: []string{}}
}

func (f *FakeClubRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeClubRepo) GetByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*clubdb.Club, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, guildID, id)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) GetByName(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*clubdb.Club, error) {
	f.record("GetByName")
	if f.GetByNameFunc != nil {
		return f.GetByNameFunc(ctx, db, guildID, name)
	}
	return nil, clubdb.ErrNotFound
}

func (f *FakeClubRepo) GetByIDs(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*clubdb.Club, error) {
	f.record("GetByIDs")
	if f.GetByIDsFunc != nil {
		return f.GetByIDsFunc(ctx, db, guildID, ids)
	}
	return map[int64]*clubdb.Club{}, nil
}

func (f *FakeClubRepo) GetByIDsForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*clubdb.Club, error) {
	f.record("GetByIDsForUpdate")
	if f.GetByIDsLockFunc != nil {
		return f.GetByIDsLockFunc(ctx, db, guildID, ids)
	}
	return map[int64]*clubdb.Club{}, nil
}

func (f *FakeClubRepo) List(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]clubdb.Club, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, guildID)
	}
	return nil, nil
}

func (f *FakeClubRepo) Create(ctx context.Context, db bun.IDB, club *clubdb.Club) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, club)
	}
	return nil
}

func (f *FakeClubRepo) UpdateBudget(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, budget decimal.Decimal) error {
	f.record("UpdateBudget")
	if f.UpdateBudgetFunc != nil {
		return f.UpdateBudgetFunc(ctx, db, guildID, id, budget)
	}
	return nil
}

func (f *FakeClubRepo) Rename(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, name string) error {
	f.record("Rename")
	if f.RenameFunc != nil {
		return f.RenameFunc(ctx, db, guildID, id, name)
	}
	return nil
}

func (f *FakeClubRepo) SetRoleID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, roleID *sharedtypes.RoleID) error {
	f.record("SetRoleID")
	if f.SetRoleIDFunc != nil {
		return f.SetRoleIDFunc(ctx, db, guildID, id, roleID)
	}
	return nil
}

func (f *FakeClubRepo) Debit(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, amount decimal.Decimal) error {
	f.record("Debit")
	if f.DebitFunc != nil {
		return f.DebitFunc(ctx, db, guildID, id, amount)
	}
	return nil
}

func (f *FakeClubRepo) Credit(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, amount decimal.Decimal) error {
	f.record("Credit")
	if f.CreditFunc != nil {
		return f.CreditFunc(ctx, db, guildID, id, amount)
	}
	return nil
}

func (f *FakeClubRepo) Delete(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, guildID, id)
	}
	return nil
}

func (f *FakeClubRepo) DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	f.record("DeleteByGuild")
	if f.DeleteByGuildFunc != nil {
		return f.DeleteByGuildFunc(ctx, db, guildID)
	}
	return 0, nil
}

// --- Accessors for assertions ---

func (f *FakeClubRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ clubdb.Repository = (*FakeClubRepo)(nil)

// ------------------------
// Fake Roster
// ------------------------

type FakeRoster struct {
	ReleaseClubFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]sharedtypes.DiscordID, error)
}

func (f *FakeRoster) ReleaseClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]sharedtypes.DiscordID, error) {
	if f.ReleaseClubFunc != nil {
		return f.ReleaseClubFunc(ctx, db, guildID, clubID)
	}
	return nil, nil
}

var _ RosterReleaser = (*FakeRoster)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	Topics []string
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	for range msgs {
		p.Topics = append(p.Topics, topic)
	}
	return nil
}

func (p *FakePublisher) Close() error { return nil }
