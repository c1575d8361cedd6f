package guildservice

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Black-And-White-Club/league-bot/app/shared/operation"
	"github.com/Black-And-White-Club/league-bot/app/shared/results"
	"github.com/xuri/excelize/v2"
)

// Sheet names of an exported backup workbook.
const (
	SheetSummary   = "Summary"
	SheetClubs     = "Clubs"
	SheetPlayers   = "Players"
	SheetTransfers = "Transfers"
	SheetMatches   = "Matches"
)

// ExportBackupXLSX writes backup as a workbook with one sheet per table.
func (s *GuildService) ExportBackupXLSX(ctx context.Context, backup *Backup, w io.Writer) error {
	if backup == nil {
		return ErrNilBackup
	}
	_, err := operation.WithTelemetry(s.runner, ctx, "ExportBackupXLSX", backup.ID, func(ctx context.Context) (results.OperationResult[struct{}, error], error) {
		if err := writeBackupXLSX(backup, w); err != nil {
			return results.OperationResult[struct{}, error]{}, err
		}
		return results.SuccessResult[struct{}, error](struct{}{}), nil
	})
	return err
}

func writeBackupXLSX(backup *Backup, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	sheets := map[string][][]any{
		SheetSummary: {
			{"Backup ID", backup.ID},
			{"Guild ID", string(backup.GuildID)},
			{"Created At", backup.CreatedAt.Format(time.RFC3339)},
			{"Clubs", len(backup.Clubs)},
			{"Players", len(backup.Players)},
			{"Transfers", len(backup.Transfers)},
			{"Matches", len(backup.Matches)},
		},
		SheetClubs:     {{"ID", "Name", "Budget", "Role ID", "Created At"}},
		SheetPlayers:   {{"ID", "Name", "Value", "Club ID", "Position", "Age", "User ID"}},
		SheetTransfers: {{"ID", "Player ID", "From Club ID", "To Club ID", "Fee", "Transferred At"}},
		SheetMatches:   {{"ID", "Team 1 ID", "Team 2 ID", "Scheduled At", "Created By", "Reminded"}},
	}
	for _, c := range backup.Clubs {
		sheets[SheetClubs] = append(sheets[SheetClubs], []any{c.ID, c.Name, c.Budget.InexactFloat64(), deref(c.RoleID), c.CreatedAt.Format(time.RFC3339)})
	}
	for _, p := range backup.Players {
		sheets[SheetPlayers] = append(sheets[SheetPlayers], []any{p.ID, p.Name, p.Value.InexactFloat64(), deref(p.ClubID), p.Position, p.Age, deref(p.UserID)})
	}
	for _, t := range backup.Transfers {
		sheets[SheetTransfers] = append(sheets[SheetTransfers], []any{t.ID, t.PlayerID, deref(t.FromClubID), deref(t.ToClubID), t.Fee.InexactFloat64(), t.TransferredAt.Format(time.RFC3339)})
	}
	for _, m := range backup.Matches {
		sheets[SheetMatches] = append(sheets[SheetMatches], []any{m.ID, m.Team1ID, m.Team2ID, m.ScheduledAt.Format(time.RFC3339), string(m.CreatedBy), m.Reminded})
	}

	for _, name := range []string{SheetSummary, SheetClubs, SheetPlayers, SheetTransfers, SheetMatches} {
		if name != SheetSummary {
			if _, err := f.NewSheet(name); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", name, err)
			}
		}
		for idx, row := range sheets[name] {
			axis, err := excelize.CoordinatesToCellName(1, idx+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, axis, &row); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", name, idx+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// deref renders optional columns as an empty cell.
func deref[T any](p *T) any {
	if p == nil {
		return ""
	}
	return *p
}
