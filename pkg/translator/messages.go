package translator

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/acronis/go-ftl/pkg/bundle"
)

// PathAction tells whether a backup merges into an existing folder.
type PathAction string

const (
	PathActionCreate PathAction = "create"
	PathActionMerge  PathAction = "merge"
)

// PrefixError prefixes message with the localized "Error:" label.
func (t *Translator) PrefixError(message string) string {
	return t.Text("prefix-error", bundle.Args{"message": message})
}

// PrefixWarning prefixes message with the localized "Warning:" label.
func (t *Translator) PrefixWarning(message string) string {
	return t.Text("prefix-warning", bundle.Args{"message": message})
}

// CloudSynchronizeConflict warns that local and cloud backups diverged.
func (t *Translator) CloudSynchronizeConflict() string {
	return t.Text("cloud-synchronize-conflict", nil)
}

// UnableToSynchronizeWithCloud reports a failed cloud synchronization.
func (t *Translator) UnableToSynchronizeWithCloud() string {
	return t.Text("unable-to-synchronize-with-cloud", nil)
}

// NoCloudChanges is shown when there is nothing to synchronize.
func (t *Translator) NoCloudChanges() string {
	return t.Text("no-cloud-changes", nil)
}

// CloudChanges renders the number of pending cloud changes.
func (t *Translator) CloudChanges(count int) string {
	return t.Text("cloud-changes", bundle.Args{"count": count})
}

// BadgeFailed marks an entry that could not be processed.
func (t *Translator) BadgeFailed() string {
	return t.Text("badge-failed", nil)
}

// BadgeDuplicates marks a game that shares files with other games.
func (t *Translator) BadgeDuplicates() string {
	return t.Text("badge-duplicates", nil)
}

// BadgeDuplicated marks an entry claimed by more than one game.
func (t *Translator) BadgeDuplicated() string {
	return t.Text("badge-duplicated", nil)
}

// BadgeIgnored marks an entry excluded by the user.
func (t *Translator) BadgeIgnored() string {
	return t.Text("badge-ignored", nil)
}

// BadgeRedirectedFrom names the original location of a redirected file.
func (t *Translator) BadgeRedirectedFrom(path string) string {
	return t.Text("badge-redirected-from", bundle.Args{"path": path})
}

// BadgeRedirectingTo names the target of a redirected file.
func (t *Translator) BadgeRedirectingTo(path string) string {
	return t.Text("badge-redirecting-to", bundle.Args{"path": path})
}

// CliGameLineItemRedirected is the nested line under a file restored from path.
func (t *Translator) CliGameLineItemRedirected(path string) string {
	return t.Text("cli-game-line-item-redirected", bundle.Args{"path": path})
}

// CliGameLineItemRedirecting is the nested line under a file backed up to path.
func (t *Translator) CliGameLineItemRedirecting(path string) string {
	return t.Text("cli-game-line-item-redirecting", bundle.Args{"path": path})
}

// Overall is the heading of the report summary.
func (t *Translator) Overall() string {
	return t.Text("overall", nil)
}

// TotalGames labels the game count in the summary.
func (t *Translator) TotalGames() string {
	return t.Text("total-games", nil)
}

// FileSize labels the size in the summary.
func (t *Translator) FileSize() string {
	return t.Text("file-size", nil)
}

// FileLocation labels the backup location in the summary.
func (t *Translator) FileLocation() string {
	return t.Text("file-location", nil)
}

// AdjustedSize renders a byte count with binary units and two decimals, such as
// "100.00 KiB". Counts below one KiB stay whole: "4 B".
func (t *Translator) AdjustedSize(bytes uint64) string {
	short := humanize.IBytes(bytes)
	if bytes < 1024 {
		return short
	}
	unit := short[strings.LastIndexByte(short, ' ')+1:]
	base, err := humanize.ParseBytes("1 " + unit)
	if err != nil || base == 0 {
		return short
	}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(base), unit)
}

// ProcessedGames renders "N games", or "P of N games" when only some were processed.
func (t *Translator) ProcessedGames(processed, total int) string {
	if processed == total {
		return t.Text("processed-games", bundle.Args{"total-games": total})
	}
	return t.Text("processed-games-subset", bundle.Args{
		"processed-games": processed,
		"total-games":     total,
	})
}

// ProcessedSize renders the total size, or "P of N" when only some bytes were
// processed.
func (t *Translator) ProcessedSize(processed, total uint64) string {
	if processed == total {
		return t.AdjustedSize(total)
	}
	return t.Text("processed-size-subset", bundle.Args{
		"processed-size": t.AdjustedSize(processed),
		"total-size":     t.AdjustedSize(total),
	})
}

// ConfirmBackup asks before backing up into target.
func (t *Translator) ConfirmBackup(target string, action PathAction) string {
	return t.Text("confirm-backup", bundle.Args{"path": target, "path-action": string(action)})
}

// ConfirmRestore asks before restoring from source.
func (t *Translator) ConfirmRestore(source string) string {
	return t.Text("confirm-restore", bundle.Args{"path": source})
}

// SomeEntriesFailed explains how to find failed entries in the output.
func (t *Translator) SomeEntriesFailed() string {
	return t.Text("some-entries-failed", nil)
}

// UnrecognizedGames renders the header followed by one line per game.
func (t *Translator) UnrecognizedGames(games []string) string {
	var sb strings.Builder
	sb.WriteString(t.Text("cli-unrecognized-games", nil))
	for _, g := range games {
		sb.WriteString("\n  - ")
		sb.WriteString(g)
	}
	return sb.String()
}
