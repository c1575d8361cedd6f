// Package events defines the domain events the ledger and scheduler emit.
// Payloads are JSON; topics carry a version suffix.
package events

const (
	ClubCreatedV1       = "league.club.created.v1"
	ClubRenamedV1       = "league.club.renamed.v1"
	ClubDeletedV1       = "league.club.deleted.v1"
	ClubRoleSyncedV1    = "league.club.role_synced.v1"
	PlayerCreatedV1     = "league.player.created.v1"
	PlayerTransferredV1 = "league.player.transferred.v1"
	MatchScheduledV1    = "league.match.scheduled.v1"
	MatchCancelledV1    = "league.match.cancelled.v1"
	MatchReminderDueV1  = "league.match.reminder_due.v1"
)
