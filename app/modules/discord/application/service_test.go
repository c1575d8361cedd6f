package discordservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/events"
	guilddb "github.com/Black-And-White-Club/league-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/league-bot/app/shared/domainerr"
	"github.com/Black-And-White-Club/league-bot/app/shared/sharedtypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuild = sharedtypes.GuildID("100000000000000001")

func ptr[T any](v T) *T { return &v }

var discardLogger = slog.New(slog.DiscardHandler)

func TestRoleSync(t *testing.T) {
	tests := []struct {
		name      string
		run       func(s *RoleSyncService) error
		wantTrace []string
		wantTopic []string
	}{
		{
			name: "club created ensures role and reports it",
			run: func(s *RoleSyncService) error {
				return s.SyncClubCreated(context.Background(), &events.ClubCreatedPayloadV1{GuildID: testGuild, ClubID: 1, Name: "Rovers"})
			},
			wantTrace: []string{"ensure Rovers"},
			wantTopic: []string{events.ClubRoleSyncedV1},
		},
		{
			name: "rename with a role renames it",
			run: func(s *RoleSyncService) error {
				return s.SyncClubRenamed(context.Background(), &events.ClubRenamedPayloadV1{GuildID: testGuild, ClubID: 1, OldName: "A", NewName: "B", RoleID: ptr(sharedtypes.RoleID("r-1"))})
			},
			wantTrace: []string{"rename r-1 B"},
		},
		{
			name: "rename without a role creates one",
			run: func(s *RoleSyncService) error {
				return s.SyncClubRenamed(context.Background(), &events.ClubRenamedPayloadV1{GuildID: testGuild, ClubID: 1, OldName: "A", NewName: "B"})
			},
			wantTrace: []string{"ensure B"},
			wantTopic: []string{events.ClubRoleSyncedV1},
		},
		{
			name: "deleted club drops its role",
			run: func(s *RoleSyncService) error {
				return s.SyncClubDeleted(context.Background(), &events.ClubDeletedPayloadV1{GuildID: testGuild, ClubID: 1, RoleID: ptr(sharedtypes.RoleID("r-1"))})
			},
			wantTrace: []string{"delete r-1"},
		},
		{
			name: "deleted club without role is a no-op",
			run: func(s *RoleSyncService) error {
				return s.SyncClubDeleted(context.Background(), &events.ClubDeletedPayloadV1{GuildID: testGuild, ClubID: 1})
			},
		},
		{
			name: "linked player joins club role",
			run: func(s *RoleSyncService) error {
				return s.SyncPlayerCreated(context.Background(), &events.PlayerCreatedPayloadV1{GuildID: testGuild, PlayerID: 5, UserID: ptr(sharedtypes.DiscordID("u-1")), ClubRoleID: ptr(sharedtypes.RoleID("r-1"))})
			},
			wantTrace: []string{"add u-1 r-1"},
		},
		{
			name: "unlinked player is skipped",
			run: func(s *RoleSyncService) error {
				return s.SyncPlayerCreated(context.Background(), &events.PlayerCreatedPayloadV1{GuildID: testGuild, PlayerID: 5, ClubRoleID: ptr(sharedtypes.RoleID("r-1"))})
			},
		},
		{
			name: "transfer swaps roles",
			run: func(s *RoleSyncService) error {
				return s.SyncPlayerTransferred(context.Background(), &events.PlayerTransferredPayloadV1{
					GuildID: testGuild, PlayerID: 5, UserID: ptr(sharedtypes.DiscordID("u-1")),
					FromRoleID: ptr(sharedtypes.RoleID("r-1")), ToRoleID: ptr(sharedtypes.RoleID("r-2")),
				})
			},
			wantTrace: []string{"remove u-1 r-1", "add u-1 r-2"},
		},
		{
			name: "release only removes",
			run: func(s *RoleSyncService) error {
				return s.SyncPlayerTransferred(context.Background(), &events.PlayerTransferredPayloadV1{
					GuildID: testGuild, PlayerID: 5, UserID: ptr(sharedtypes.DiscordID("u-1")), FromRoleID: ptr(sharedtypes.RoleID("r-1")),
				})
			},
			wantTrace: []string{"remove u-1 r-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := &FakePlatform{}
			pub := &FakePublisher{}
			s := NewRoleSyncService(platform, events.NewEmitter(pub, discardLogger), discardLogger)

			require.NoError(t, tt.run(s))
			assert.Equal(t, tt.wantTrace, platform.Trace)
			assert.Equal(t, tt.wantTopic, pub.Topics)
		})
	}
}

func TestRoleSyncReportsRole(t *testing.T) {
	pub := &FakePublisher{}
	s := NewRoleSyncService(&FakePlatform{}, events.NewEmitter(pub, discardLogger), discardLogger)

	require.NoError(t, s.SyncClubCreated(context.Background(), &events.ClubCreatedPayloadV1{GuildID: testGuild, ClubID: 7, Name: "Rovers"}))
	require.Len(t, pub.Messages, 1)
	got, err := events.Decode[events.ClubRoleSyncedPayloadV1](pub.Messages[0])
	require.NoError(t, err)
	assert.Equal(t, events.ClubRoleSyncedPayloadV1{GuildID: testGuild, ClubID: 7, RoleID: "role-Rovers"}, *got)
}

func TestRoleSyncFailures(t *testing.T) {
	syncErr := errors.Join(domainerr.ErrExternalSync, errors.New("403"))

	platform := &FakePlatform{EnsureFn: func(string) (sharedtypes.RoleID, error) { return "", syncErr }}
	pub := &FakePublisher{}
	s := NewRoleSyncService(platform, events.NewEmitter(pub, discardLogger), discardLogger)
	err := s.SyncClubCreated(context.Background(), &events.ClubCreatedPayloadV1{GuildID: testGuild, ClubID: 1, Name: "Rovers"})
	require.ErrorIs(t, err, domainerr.ErrExternalSync)
	assert.Empty(t, pub.Topics)

	// A failed add still attempts the removal first.
	platform = &FakePlatform{AddErr: syncErr}
	s = NewRoleSyncService(platform, nil, discardLogger)
	err = s.SyncPlayerTransferred(context.Background(), &events.PlayerTransferredPayloadV1{
		GuildID: testGuild, UserID: ptr(sharedtypes.DiscordID("u-1")),
		FromRoleID: ptr(sharedtypes.RoleID("r-1")), ToRoleID: ptr(sharedtypes.RoleID("r-2")),
	})
	require.ErrorIs(t, err, domainerr.ErrExternalSync)
	assert.Equal(t, []string{"remove u-1 r-1", "add u-1 r-2"}, platform.Trace)
}

func TestNotifier(t *testing.T) {
	kickoffAt := time.Date(2026, 10, 20, 18, 0, 0, 0, time.UTC)
	match := &events.MatchPayloadV1{
		GuildID:     testGuild,
		MatchID:     42,
		Team1ID:     1,
		Team1Name:   "Rovers",
		Team1RoleID: ptr(sharedtypes.RoleID("r-1")),
		Team2ID:     2,
		Team2Name:   "Athletic",
		ScheduledAt: kickoffAt,
	}
	channel := &guilddb.Settings{GuildID: testGuild, NotificationChannelID: ptr(sharedtypes.ChannelID("c-1"))}

	tests := []struct {
		name      string
		settings  *FakeSettings
		notify    func(n *NotifierService) error
		wantTrace []string
		wantText  string
		wantErr   error
	}{
		{
			name:      "reminder mentions both clubs",
			settings:  &FakeSettings{Settings: channel},
			notify:    func(n *NotifierService) error { return n.NotifyMatchReminder(context.Background(), match) },
			wantTrace: []string{"send c-1 Match reminder"},
			wantText:  "<@&r-1> vs **Athletic**",
		},
		{
			name:      "scheduled",
			settings:  &FakeSettings{Settings: channel},
			notify:    func(n *NotifierService) error { return n.NotifyMatchScheduled(context.Background(), match) },
			wantTrace: []string{"send c-1 Match scheduled"},
			wantText:  "<t:1792519200:F>",
		},
		{
			name:      "cancelled",
			settings:  &FakeSettings{Settings: channel},
			notify:    func(n *NotifierService) error { return n.NotifyMatchCancelled(context.Background(), match) },
			wantTrace: []string{"send c-1 Match cancelled"},
			wantText:  "will not be played",
		},
		{
			name:     "no channel configured",
			settings: &FakeSettings{},
			notify:   func(n *NotifierService) error { return n.NotifyMatchReminder(context.Background(), match) },
		},
		{
			name:     "settings unavailable",
			settings: &FakeSettings{Err: errors.New("db down")},
			notify:   func(n *NotifierService) error { return n.NotifyMatchReminder(context.Background(), match) },
			wantErr:  domainerr.ErrExternalSync,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform := &FakePlatform{}
			n := NewNotifierService(platform, tt.settings, discardLogger)

			err := tt.notify(n)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrace, platform.Trace)
			if tt.wantText != "" {
				require.Len(t, platform.Embeds, 1)
				assert.Contains(t, platform.Embeds[0].Description, tt.wantText)
				assert.Equal(t, "Match #42", platform.Embeds[0].Footer.Text)
			}
		})
	}
}
