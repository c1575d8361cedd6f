package discordgateway

import (
	"context"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/bwmarrin/discordgo"
)

func restError(status int) error {
	return &discordgo.RESTError{Response: &http.Response{StatusCode: status, Status: http.StatusText(status)}}
}

// FakeAPI records calls and replays queued errors per method.
type FakeAPI struct {
	mu     sync.Mutex
	Roles  []*discordgo.Role
	Calls  []string
	Errors map[string][]error
	Sent   []*discordgo.MessageEmbed
	nextID int
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{Errors: map[string][]error{}}
}

func (f *FakeAPI) call(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, name)
	if q := f.Errors[name]; len(q) > 0 {
		f.Errors[name] = q[1:]
		return q[0]
	}
	return nil
}

func (f *FakeAPI) GuildRoles(string, ...discordgo.RequestOption) ([]*discordgo.Role, error) {
	if err := f.call("GuildRoles"); err != nil {
		return nil, err
	}
	return f.Roles, nil
}

func (f *FakeAPI) GuildRoleCreate(_ string, data *discordgo.RoleParams, _ ...discordgo.RequestOption) (*discordgo.Role, error) {
	if err := f.call("GuildRoleCreate"); err != nil {
		return nil, err
	}
	f.nextID++
	role := &discordgo.Role{ID: "new-" + string(rune('0'+f.nextID)), Name: data.Name}
	if data.Color != nil {
		role.Color = *data.Color
	}
	f.Roles = append(f.Roles, role)
	return role, nil
}

func (f *FakeAPI) GuildRoleEdit(_, roleID string, data *discordgo.RoleParams, _ ...discordgo.RequestOption) (*discordgo.Role, error) {
	if err := f.call("GuildRoleEdit"); err != nil {
		return nil, err
	}
	return &discordgo.Role{ID: roleID, Name: data.Name}, nil
}

func (f *FakeAPI) GuildRoleDelete(string, string, ...discordgo.RequestOption) error {
	return f.call("GuildRoleDelete")
}

func (f *FakeAPI) GuildMemberRoleAdd(string, string, string, ...discordgo.RequestOption) error {
	return f.call("GuildMemberRoleAdd")
}

func (f *FakeAPI) GuildMemberRoleRemove(string, string, string, ...discordgo.RequestOption) error {
	return f.call("GuildMemberRoleRemove")
}

func (f *FakeAPI) ChannelMessageSendEmbed(_ string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if err := f.call("ChannelMessageSendEmbed"); err != nil {
		return nil, err
	}
	f.Sent = append(f.Sent, embed)
	return &discordgo.Message{}, nil
}

// FakeConnection fails Open with the queued errors, then succeeds.
type FakeConnection struct {
	OpenErrs []error
	Opens    int
	Closes   int
}

func (c *FakeConnection) Open() error {
	c.Opens++
	if len(c.OpenErrs) > 0 {
		err := c.OpenErrs[0]
		c.OpenErrs = c.OpenErrs[1:]
		return err
	}
	return nil
}

func (c *FakeConnection) Close() error {
	c.Closes++
	return nil
}

var _ API = (*FakeAPI)(nil)

func guild() sharedtypes.GuildID { return "100000000000000001" }

var bg = context.Background()
