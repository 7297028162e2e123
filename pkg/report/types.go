package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Change describes how an entry differs from the previous backup.
type Change int

const (
	ChangeUnknown Change = iota
	ChangeNew
	ChangeDifferent
	ChangeRemoved
	ChangeSame
)

func (c Change) String() string {
	switch c {
	case ChangeNew:
		return "New"
	case ChangeDifferent:
		return "Different"
	case ChangeRemoved:
		return "Removed"
	case ChangeSame:
		return "Same"
	default:
		return "Unknown"
	}
}

// UnmarshalText accepts the names returned by String in any case, and the symbols.
func (c *Change) UnmarshalText(text []byte) error {
	for v := ChangeUnknown; v <= ChangeSame; v++ {
		if strings.EqualFold(string(text), v.String()) || string(text) == v.Symbol() {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown change %q", text)
}

// Symbol returns the one-character marker used in text output.
func (c Change) Symbol() string {
	switch c {
	case ChangeNew:
		return "+"
	case ChangeDifferent:
		return "Δ"
	case ChangeRemoved:
		return "x"
	case ChangeSame:
		return "="
	default:
		return "?"
	}
}

// badge returns the marker shown next to an entry, or an empty string.
func (c Change) badge() string {
	if c == ChangeNew || c == ChangeDifferent {
		return "[" + c.Symbol() + "]"
	}
	return ""
}

// Decision is what the operation did with a game.
type Decision int

const (
	DecisionProcessed Decision = iota
	DecisionIgnored
	DecisionCancelled
)

func (d Decision) String() string {
	switch d {
	case DecisionIgnored:
		return "Ignored"
	case DecisionCancelled:
		return "Cancelled"
	default:
		return "Processed"
	}
}

// UnmarshalText accepts the names returned by String in any case.
func (d *Decision) UnmarshalText(text []byte) error {
	for v := DecisionProcessed; v <= DecisionCancelled; v++ {
		if strings.EqualFold(string(text), v.String()) {
			*d = v
			return nil
		}
	}
	return fmt.Errorf("unknown decision %q", text)
}

// File is a save file of a game. Path is the location shown to the user: the
// original location when restoring. Redirect is the other side of a redirect, if
// any.
type File struct {
	Path         string
	Size         uint64
	Ignored      bool
	Failed       bool
	Change       Change
	Redirect     string
	DuplicatedBy []string
}

// RegistryValue is a value under a registry key.
type RegistryValue struct {
	Name         string
	Ignored      bool
	Change       Change
	DuplicatedBy []string
}

// RegistryKey is a registry key of a game.
type RegistryKey struct {
	Path         string
	Ignored      bool
	Failed       bool
	Change       Change
	DuplicatedBy []string
	Values       []RegistryValue
}

// Game is the outcome of a backup or restore for one game.
type Game struct {
	Name      string
	Restoring bool
	Decision  Decision
	Files     []File
	Registry  []RegistryKey
}

func (g *Game) reportable() bool {
	return len(g.Files) > 0 || len(g.Registry) > 0
}

func (g *Game) totalBytes() uint64 {
	var total uint64
	for _, f := range g.Files {
		if !f.Ignored {
			total += f.Size
		}
	}
	return total
}

func (g *Game) processedBytes() uint64 {
	var total uint64
	for _, f := range g.Files {
		if !f.Ignored && !f.Failed {
			total += f.Size
		}
	}
	return total
}

func (g *Game) duplicated() bool {
	for _, f := range g.Files {
		if len(f.DuplicatedBy) > 0 {
			return true
		}
	}
	for _, r := range g.Registry {
		if len(r.DuplicatedBy) > 0 {
			return true
		}
		for _, v := range r.Values {
			if len(v.DuplicatedBy) > 0 {
				return true
			}
		}
	}
	return false
}

// overallChange is New when every known change is new, Different when anything
// changed and Same otherwise. Ignored entries do not count.
func (g *Game) overallChange() Change {
	var counts [ChangeSame + 1]int
	for _, f := range g.Files {
		if !f.Ignored {
			counts[f.Change]++
		}
	}
	for _, r := range g.Registry {
		if r.Ignored {
			continue
		}
		counts[r.Change]++
		for _, v := range r.Values {
			if !v.Ignored {
				counts[v.Change]++
			}
		}
	}

	switch {
	case counts[ChangeNew] > 0 && counts[ChangeDifferent] == 0 && counts[ChangeSame] == 0 && counts[ChangeRemoved] == 0:
		return ChangeNew
	case counts[ChangeNew] > 0 || counts[ChangeDifferent] > 0 || counts[ChangeRemoved] > 0:
		return ChangeDifferent
	default:
		return ChangeSame
	}
}

func (g *Game) sortedFiles() []File {
	files := append([]File(nil), g.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func (g *Game) sortedRegistry() []RegistryKey {
	keys := append([]RegistryKey(nil), g.Registry...)
	sort.Slice(keys, func(i, j int) bool { return keys[i].Path < keys[j].Path })
	for i := range keys {
		values := append([]RegistryValue(nil), keys[i].Values...)
		sort.Slice(values, func(a, b int) bool { return values[a].Name < values[b].Name })
		keys[i].Values = values
	}
	return keys
}

// Backup is a stored backup of a game. When is rendered as given; convert it to
// the wanted time zone first.
type Backup struct {
	Name    string
	When    time.Time
	OS      string
	Comment string
	Locked  bool
}

// CloudChange is a file that differs between the local and the cloud backups.
type CloudChange struct {
	Path   string
	Change Change
}

// ChangeCount counts games by overall change.
type ChangeCount struct {
	New       int
	Different int
	Same      int
}

// Status accumulates totals over all reported games.
type Status struct {
	TotalGames     int
	TotalBytes     uint64
	ProcessedGames int
	ProcessedBytes uint64
	ChangedGames   ChangeCount
}

func (s *Status) addGame(g *Game) {
	s.TotalGames++
	s.TotalBytes += g.totalBytes()
	if g.Decision == DecisionProcessed {
		s.ProcessedGames++
		s.ProcessedBytes += g.processedBytes()
	}
	switch g.overallChange() {
	case ChangeNew:
		s.ChangedGames.New++
	case ChangeDifferent:
		s.ChangedGames.Different++
	case ChangeSame:
		s.ChangedGames.Same++
	}
}
