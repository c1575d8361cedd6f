package transferservice

import (
	"context"
	"errors"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	playerdb "github.com/Black-And-White-Club/league-bot/app/modules/player/infrastructure/repositories"
	transferdb "github.com/Black-And-White-Club/league-bot/app/modules/transfer/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake League State
// ------------------------

// FakeLeague holds clubs and players in memory and implements the parts of
// the club and player repositories the transfer service uses. With no
// database the runner cannot roll back, so tests only assert state on
// paths that fail before any write.
type FakeLeague struct {
	clubdb.Repository
	Clubs   map[int64]*clubdb.Club
	Players map[int64]*playerdb.Player

	trace []string

	CreditErr error
	MoveErr   error
}

func NewFakeLeague() *FakeLeague {
	return &FakeLeague{
		Clubs:   map[int64]*clubdb.Club{},
		Players: map[int64]*playerdb.Player{},
	}
}

func (f *FakeLeague) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeLeague) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeague) GetByIDs(_ context.Context, _ bun.IDB, _ sharedtypes.GuildID, ids []int64) (map[int64]*clubdb.Club, error) {
	f.record("GetClubs")
	out := make(map[int64]*clubdb.Club, len(ids))
	for _, id := range ids {
		if c, ok := f.Clubs[id]; ok {
			cp := *c
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *FakeLeague) GetByIDsForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*clubdb.Club, error) {
	f.record("LockClubs")
	out := make(map[int64]*clubdb.Club, len(ids))
	for _, id := range ids {
		if c, ok := f.Clubs[id]; ok {
			cp := *c
			out[id] = &cp
		}
	}
	return out, nil
}

func (f *FakeLeague) Debit(_ context.Context, _ bun.IDB, _ sharedtypes.GuildID, id int64, amount decimal.Decimal) error {
	f.record("Debit")
	c, ok := f.Clubs[id]
	if !ok {
		return clubdb.ErrNotFound
	}
	if c.Budget.LessThan(amount) {
		return clubdb.ErrInsufficientBudget
	}
	c.Budget = c.Budget.Sub(amount)
	return nil
}

func (f *FakeLeague) Credit(_ context.Context, _ bun.IDB, _ sharedtypes.GuildID, id int64, amount decimal.Decimal) error {
	f.record("Credit")
	if f.CreditErr != nil {
		return f.CreditErr
	}
	c, ok := f.Clubs[id]
	if !ok {
		return clubdb.ErrNotFound
	}
	c.Budget = c.Budget.Add(amount)
	return nil
}

// PlayerRepo returns the player half of the fake.
func (f *FakeLeague) PlayerRepo() *FakePlayers { return &FakePlayers{league: f} }

// FakePlayers adapts FakeLeague to playerdb.Repository.
type FakePlayers struct {
	playerdb.Repository
	league *FakeLeague
}

func (p *FakePlayers) GetByID(_ context.Context, _ bun.IDB, _ sharedtypes.GuildID, id int64) (*playerdb.Player, error) {
	p.league.record("GetPlayer")
	pl, ok := p.league.Players[id]
	if !ok {
		return nil, playerdb.ErrNotFound
	}
	cp := *pl
	return &cp, nil
}

func (p *FakePlayers) GetByIDForUpdate(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, id int64) (*playerdb.Player, error) {
	return p.GetByID(ctx, db, guildID, id)
}

func (p *FakePlayers) MoveToClub(_ context.Context, _ bun.IDB, _ sharedtypes.GuildID, id int64, from, to *int64) error {
	p.league.record("MoveToClub")
	if p.league.MoveErr != nil {
		return p.league.MoveErr
	}
	pl := p.league.Players[id]
	if !sameClub(pl.ClubID, from) {
		return playerdb.ErrClubChanged
	}
	pl.ClubID = to
	return nil
}

// ------------------------
// Fake Transfer Repo
// ------------------------

type FakeTransferRepo struct {
	Created []transferdb.Transfer
	Views   []transferdb.TransferView

	CreateErr    error
	LastLimit    int
	ListedPlayer int64
}

func (f *FakeTransferRepo) Create(_ context.Context, _ bun.IDB, t *transferdb.Transfer) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	t.ID = int64(len(f.Created) + 1)
	f.Created = append(f.Created, *t)
	return nil
}

func (f *FakeTransferRepo) ListRecent(_ context.Context, _ bun.IDB, _ sharedtypes.GuildID, limit int) ([]transferdb.TransferView, error) {
	f.LastLimit = limit
	return f.Views, nil
}

func (f *FakeTransferRepo) ListByPlayer(_ context.Context, _ bun.IDB, _ sharedtypes.GuildID, playerID int64) ([]transferdb.TransferView, error) {
	f.ListedPlayer = playerID
	return f.Views, nil
}

func (f *FakeTransferRepo) ListByGuild(context.Context, bun.IDB, sharedtypes.GuildID) ([]transferdb.Transfer, error) {
	return f.Created, nil
}

func (f *FakeTransferRepo) DeleteByGuild(context.Context, bun.IDB, sharedtypes.GuildID) (int64, error) {
	return 0, errors.New("not implemented")
}

var _ transferdb.Repository = (*FakeTransferRepo)(nil)

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
