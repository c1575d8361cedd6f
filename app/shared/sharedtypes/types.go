// Package sharedtypes holds identifiers shared between modules.
package sharedtypes

// GuildID identifies a Discord guild (server). Every league entity is scoped to one.
type GuildID string

// DiscordID identifies a Discord user.
type DiscordID string

// RoleID identifies a Discord role.
type RoleID string

// ChannelID identifies a Discord channel.
type ChannelID string

func (g GuildID) String() string   { return string(g) }
func (d DiscordID) String() string { return string(d) }
func (r RoleID) String() string    { return string(r) }
func (c ChannelID) String() string { return string(c) }
