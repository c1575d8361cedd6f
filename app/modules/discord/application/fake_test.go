package discordservice

import (
	"context"
	"fmt"

	guilddb "github.com/Black-And-White-Club/league-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/bwmarrin/discordgo"
)

// FakePlatform records every role and channel call as a trace line.
type FakePlatform struct {
	Trace    []string
	Embeds   []*discordgo.MessageEmbed
	EnsureFn func(name string) (sharedtypes.RoleID, error)
	AddErr   error
	SendErr  error
}

func (f *FakePlatform) EnsureRole(_ context.Context, _ sharedtypes.GuildID, name string) (sharedtypes.RoleID, error) {
	f.Trace = append(f.Trace, "ensure "+name)
	if f.EnsureFn != nil {
		return f.EnsureFn(name)
	}
	return sharedtypes.RoleID("role-" + name), nil
}

func (f *FakePlatform) RenameRole(_ context.Context, _ sharedtypes.GuildID, roleID sharedtypes.RoleID, name string) error {
	f.Trace = append(f.Trace, fmt.Sprintf("rename %s %s", roleID, name))
	return nil
}

func (f *FakePlatform) DeleteRole(_ context.Context, _ sharedtypes.GuildID, roleID sharedtypes.RoleID) error {
	f.Trace = append(f.Trace, fmt.Sprintf("delete %s", roleID))
	return nil
}

func (f *FakePlatform) AddMemberRole(_ context.Context, _ sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	f.Trace = append(f.Trace, fmt.Sprintf("add %s %s", userID, roleID))
	return f.AddErr
}

func (f *FakePlatform) RemoveMemberRole(_ context.Context, _ sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	f.Trace = append(f.Trace, fmt.Sprintf("remove %s %s", userID, roleID))
	return nil
}

func (f *FakePlatform) SendEmbed(_ context.Context, channelID sharedtypes.ChannelID, embed *discordgo.MessageEmbed) error {
	f.Trace = append(f.Trace, fmt.Sprintf("send %s %s", channelID, embed.Title))
	f.Embeds = append(f.Embeds, embed)
	return f.SendErr
}

// FakeSettings returns a fixed settings row.
type FakeSettings struct {
	Settings *guilddb.Settings
	Err      error
}

func (f *FakeSettings) GetSettings(_ context.Context, guildID sharedtypes.GuildID) (*guilddb.Settings, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	if f.Settings == nil {
		return &guilddb.Settings{GuildID: guildID, Timezone: "UTC"}, nil
	}
	return f.Settings, nil
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
