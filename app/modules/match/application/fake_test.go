package matchservice

import (
	"context"
	"sort"
	"time"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	matchdb "github.com/Black-And-White-Club/league-bot/app/modules/match/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Match Repo
// ------------------------

// FakeMatchRepo keeps matches in memory and applies the same window rules as
// the SQL repository.
type FakeMatchRepo struct {
	Matches map[int64]*matchdb.Match
	nextID  int64

	CreateErr error
	ClaimErr  error
}

func NewFakeMatchRepo() *FakeMatchRepo {
	return &FakeMatchRepo{Matches: map[int64]*matchdb.Match{}}
}

func (f *FakeMatchRepo) sorted(keep func(*matchdb.Match) bool) []matchdb.Match {
	var out []matchdb.Match
	for _, m := range f.Matches {
		if keep(m) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledAt.Equal(out[j].ScheduledAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out
}

func (f *FakeMatchRepo) Create(_ context.Context, _ bun.IDB, m *matchdb.Match) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.nextID++
	m.ID = f.nextID
	m.ScheduledAt = m.ScheduledAt.UTC().Truncate(time.Second)
	cp := *m
	f.Matches[m.ID] = &cp
	return nil
}

func (f *FakeMatchRepo) GetByID(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, id int64) (*matchdb.Match, error) {
	m, ok := f.Matches[id]
	if !ok || m.GuildID != guildID {
		return nil, matchdb.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *FakeMatchRepo) Delete(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, id int64) error {
	m, ok := f.Matches[id]
	if !ok || m.GuildID != guildID {
		return matchdb.ErrNotFound
	}
	delete(f.Matches, id)
	return nil
}

func (f *FakeMatchRepo) List(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, after *time.Time) ([]matchdb.Match, error) {
	return f.sorted(func(m *matchdb.Match) bool {
		return m.GuildID == guildID && (after == nil || m.ScheduledAt.After(*after))
	}), nil
}

func (f *FakeMatchRepo) FindNextBetween(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, a, b int64, after time.Time) (*matchdb.Match, error) {
	found := f.sorted(func(m *matchdb.Match) bool {
		return m.GuildID == guildID && m.Involves(a) && m.Involves(b) && m.ScheduledAt.After(after)
	})
	if len(found) == 0 {
		return nil, matchdb.ErrNotFound
	}
	return &found[0], nil
}

func (f *FakeMatchRepo) ListBetweenTimes(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, from, to time.Time) ([]matchdb.Match, error) {
	return f.sorted(func(m *matchdb.Match) bool {
		return m.GuildID == guildID && m.ScheduledAt.After(from) && !m.ScheduledAt.After(to)
	}), nil
}

func (f *FakeMatchRepo) ClaimDue(_ context.Context, _ bun.IDB, from, to time.Time) ([]matchdb.Match, error) {
	if f.ClaimErr != nil {
		return nil, f.ClaimErr
	}
	due := f.sorted(func(m *matchdb.Match) bool {
		return !m.Reminded && m.ScheduledAt.After(from) && !m.ScheduledAt.After(to)
	})
	for i := range due {
		f.Matches[due[i].ID].Reminded = true
		due[i].Reminded = true
	}
	return due, nil
}

func (f *FakeMatchRepo) ListByGuild(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) ([]matchdb.Match, error) {
	return f.List(ctx, db, guildID, nil)
}

func (f *FakeMatchRepo) DeleteByGuild(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) (int64, error) {
	var n int64
	for id, m := range f.Matches {
		if m.GuildID == guildID {
			delete(f.Matches, id)
			n++
		}
	}
	return n, nil
}

var _ matchdb.Repository = (*FakeMatchRepo)(nil)

// ------------------------
// Fake Club Lookup
// ------------------------

type FakeClubRepo struct {
	clubdb.Repository
	Clubs map[int64]*clubdb.Club
}

func (f *FakeClubRepo) GetByIDs(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, ids []int64) (map[int64]*clubdb.Club, error) {
	out := map[int64]*clubdb.Club{}
	for _, id := range ids {
		if c, ok := f.Clubs[id]; ok && c.GuildID == guildID {
			out[id] = c
		}
	}
	return out, nil
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
