package discordgateway

import (
	"context"
	"fmt"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/bwmarrin/discordgo"
)

// ClubRoleColor is the color given to newly created club roles.
const ClubRoleColor = 0x3498db

// Client implements PlatformClient on top of a discordgo session.
type Client struct {
	api API
}

// NewClient wraps api. Pass the *discordgo.Session owned by the Supervisor.
func NewClient(api API) *Client {
	return &Client{api: api}
}

func (c *Client) EnsureRole(ctx context.Context, guildID sharedtypes.GuildID, name string) (sharedtypes.RoleID, error) {
	roles, err := c.api.GuildRoles(string(guildID), discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to list roles: %w", err)
	}
	for _, r := range roles {
		if r.Name == name {
			return sharedtypes.RoleID(r.ID), nil
		}
	}

	color := ClubRoleColor
	mentionable := true
	role, err := c.api.GuildRoleCreate(string(guildID), &discordgo.RoleParams{
		Name:        name,
		Color:       &color,
		Mentionable: &mentionable,
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason("club role for "+name))
	if err != nil {
		return "", fmt.Errorf("failed to create role %q: %w", name, err)
	}
	return sharedtypes.RoleID(role.ID), nil
}

func (c *Client) RenameRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID, name string) error {
	_, err := c.api.GuildRoleEdit(string(guildID), string(roleID), &discordgo.RoleParams{Name: name}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to rename role %s: %w", roleID, err)
	}
	return nil
}

func (c *Client) DeleteRole(ctx context.Context, guildID sharedtypes.GuildID, roleID sharedtypes.RoleID) error {
	if err := c.api.GuildRoleDelete(string(guildID), string(roleID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete role %s: %w", roleID, err)
	}
	return nil
}

func (c *Client) AddMemberRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	if err := c.api.GuildMemberRoleAdd(string(guildID), string(userID), string(roleID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to add role %s to %s: %w", roleID, userID, err)
	}
	return nil
}

func (c *Client) RemoveMemberRole(ctx context.Context, guildID sharedtypes.GuildID, userID sharedtypes.DiscordID, roleID sharedtypes.RoleID) error {
	if err := c.api.GuildMemberRoleRemove(string(guildID), string(userID), string(roleID), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to remove role %s from %s: %w", roleID, userID, err)
	}
	return nil
}

func (c *Client) SendEmbed(ctx context.Context, channelID sharedtypes.ChannelID, embed *discordgo.MessageEmbed) error {
	if _, err := c.api.ChannelMessageSendEmbed(string(channelID), embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send to channel %s: %w", channelID, err)
	}
	return nil
}

var _ PlatformClient = (*Client)(nil)
