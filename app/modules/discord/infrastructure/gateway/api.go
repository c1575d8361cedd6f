// Package discordgateway talks to the Discord REST API and owns the gateway session.
package discordgateway

import (
	"context"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/bwmarrin/discordgo"
)

// API is the subset of *discordgo.Session the gateway calls.
type API interface {
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildRoleCreate(guildID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildRoleEdit(guildID, roleID string, data *discordgo.RoleParams, options ...discordgo.RequestOption) (*discordgo.Role, error)
	GuildRoleDelete(guildID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// RoleClient manages the roles mirroring clubs.
type RoleClient interface {
	// EnsureRole returns the role named name, creating it when missing.
	EnsureRole(ctx context.Context, guildID sharedtypes.GuildID, name string) (sharedtypes.RoleID, error)
	RenameRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID, name string) error
	DeleteRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error
	AddMemberRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error
	RemoveMemberRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error
}

// ChannelClient posts to guild channels.
type ChannelClient interface {
	SendEmbed(ctx context.Context, channelID sharedtypes.ChannelID, embed *discordgo.MessageEmbed) error
}

// PlatformClient is everything the league needs from Discord.
type PlatformClient interface {
	RoleClient
	ChannelClient
}
