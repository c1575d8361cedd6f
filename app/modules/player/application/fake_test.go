package playerservice

import (
	"context"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Player Repo
// ------------------------

type FakePlayerRepo struct {
	trace []string

	GetByIDFunc     func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*playerdb.Player, error)
	GetByNameFunc   func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*playerdb.Player, error)
	ListFunc        func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]playerdb.Player, error)
	ListByClubFunc  func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]playerdb.Player, error)
	CreateFunc      func(ctx context.Context, db bun.IDB, player *playerdb.Player) error
	UpdateValueFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, value decimal.Decimal) error
	LinkUserFunc    func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, userID *sharedtypes.DiscordID) error
	DeleteFunc      func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{trace: []string{}}
}

func (f *FakePlayerRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakePlayerRepo) GetByID(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*playerdb.Player, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, guildID, id)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) GetByIDForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*playerdb.Player, error) {
	f.record("GetByIDForUpdate")
	return f.GetByID(ctx, db, guildID, id)
}

func (f *FakePlayerRepo) GetByName(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, name string) (*playerdb.Player, error) {
	f.record("GetByName")
	if f.GetByNameFunc != nil {
		return f.GetByNameFunc(ctx, db, guildID, name)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) List(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]playerdb.Player, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, guildID)
	}
	return nil, nil
}

func (f *FakePlayerRepo) ListByClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]playerdb.Player, error) {
	f.record("ListByClub")
	if f.ListByClubFunc != nil {
		return f.ListByClubFunc(ctx, db, guildID, clubID)
	}
	return nil, nil
}

func (f *FakePlayerRepo) ListFreeAgents(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]playerdb.Player, error) {
	f.record("ListFreeAgents")
	return nil, nil
}

func (f *FakePlayerRepo) Create(ctx context.Context, db bun.IDB, player *playerdb.Player) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, player)
	}
	return nil
}

func (f *FakePlayerRepo) UpdateValue(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, value decimal.Decimal) error {
	f.record("UpdateValue")
	if f.UpdateValueFunc != nil {
		return f.UpdateValueFunc(ctx, db, guildID, id, value)
	}
	return nil
}

func (f *FakePlayerRepo) LinkUser(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, userID *sharedtypes.DiscordID) error {
	f.record("LinkUser")
	if f.LinkUserFunc != nil {
		return f.LinkUserFunc(ctx, db, guildID, id, userID)
	}
	return nil
}

func (f *FakePlayerRepo) MoveToClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64, from, to *int64) error {
	f.record("MoveToClub")
	return nil
}

func (f *FakePlayerRepo) ReleaseClub(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, clubID int64) ([]sharedtypes.DiscordID, error) {
	f.record("ReleaseClub")
	return nil, nil
}

func (f *FakePlayerRepo) Delete(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, guildID, id)
	}
	return nil
}

func (f *FakePlayerRepo) DeleteByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	f.record("DeleteByGuild")
	return 0, nil
}

func (f *FakePlayerRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ playerdb.Repository = (*FakePlayerRepo)(nil)

// ------------------------
// Fake Club Lookup
// ------------------------

// FakeClubRepo serves GetByID from a map. Other methods are not used by the
// player service and panic through the nil embedded interface.
type FakeClubRepo struct {
	clubdb.Repository
	Clubs map[int64]*clubdb.Club
}

func (f *FakeClubRepo) GetByID(_ context.Context, _ bun.IDB, _ sharedtypes.GuildID, id int64) (*clubdb.Club, error) {
	if c, ok := f.Clubs[id]; ok {
		return c, nil
	}
	return nil, clubdb.ErrNotFound
}

type FakePublisher struct {
	Topics   []string
	Messages []*message.Message
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, m := range msgs {
		p.Topics = append(p.Topics, topic)
		p.Messages = append(p.Messages, m)
	}
	return nil
}

func (p *FakePublisher) Close() error { return nil }
