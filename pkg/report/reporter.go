// Package report renders the outcome of backup and restore operations for the
// command line, either as translated text or as JSON for other programs.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/acronis/go-ftl/pkg/translator"
)

// Mode selects the output format of a Reporter.
type Mode int

const (
	ModeStandard Mode = iota
	ModeJSON
)

type object = *orderedmap.OrderedMap[string, any]

func newObject() object {
	return orderedmap.New[string, any]()
}

type apiErrors struct {
	someGamesFailed bool
	unknownGames    []string
	cloudConflict   bool
	cloudSyncFailed bool
}

func (e *apiErrors) tripped() bool {
	return e.someGamesFailed || e.unknownGames != nil || e.cloudConflict || e.cloudSyncFailed
}

func (e *apiErrors) object() object {
	out := newObject()
	if e.someGamesFailed {
		out.Set("someGamesFailed", true)
	}
	if e.unknownGames != nil {
		out.Set("unknownGames", e.unknownGames)
	}
	if e.cloudConflict {
		out.Set("cloudConflict", newObject())
	}
	if e.cloudSyncFailed {
		out.Set("cloudSyncFailed", newObject())
	}
	return out
}

// Reporter collects games and renders them at the end of an operation. It is not
// safe for concurrent use.
type Reporter struct {
	mode   Mode
	tr     *translator.Translator
	parts  []string
	status *Status
	errs   apiErrors
	games  map[string]object
}

// New creates a reporter. The translator is used by the standard mode only.
func New(mode Mode, tr *translator.Translator) *Reporter {
	return &Reporter{
		mode:   mode,
		tr:     tr,
		status: &Status{},
		games:  map[string]object{},
	}
}

// Status returns the accumulated totals, or nil when the summary is suppressed.
func (r *Reporter) Status() *Status {
	return r.status
}

func (r *Reporter) TripUnknownGames(games []string) {
	r.errs.unknownGames = append([]string{}, games...)
}

func (r *Reporter) TripCloudConflict() {
	r.errs.cloudConflict = true
}

func (r *Reporter) TripCloudSyncFailed() {
	r.errs.cloudSyncFailed = true
}

// SuppressOverall drops the summary from the output.
func (r *Reporter) SuppressOverall() {
	r.status = nil
}

// AddGame reports a game and returns false when any of its entries failed. Games
// without any entries are skipped.
func (r *Reporter) AddGame(g Game) bool {
	if !g.reportable() {
		return true
	}

	var successful bool
	switch r.mode {
	case ModeJSON:
		successful = r.addGameJSON(&g)
	default:
		successful = r.addGameStandard(&g)
	}

	if r.status != nil {
		r.status.addGame(&g)
	}
	if !successful {
		r.errs.someGamesFailed = true
	}
	return successful
}

func (r *Reporter) addGameStandard(g *Game) bool {
	successful := true

	r.parts = append(r.parts, r.gameHeader(g))
	for _, f := range g.sortedFiles() {
		if f.Failed {
			successful = false
		}
		r.parts = append(r.parts, r.lineItem(f.Path, f.Failed, f.Ignored, len(f.DuplicatedBy) > 0, f.Change, false))
		if f.Redirect != "" {
			if g.Restoring {
				r.parts = append(r.parts, "    - "+r.tr.CliGameLineItemRedirected(f.Redirect))
			} else {
				r.parts = append(r.parts, "    - "+r.tr.CliGameLineItemRedirecting(f.Redirect))
			}
		}
	}
	for _, k := range g.sortedRegistry() {
		if k.Failed {
			successful = false
		}
		r.parts = append(r.parts, r.lineItem(k.Path, k.Failed, k.Ignored, len(k.DuplicatedBy) > 0, k.Change, false))
		for _, v := range k.Values {
			r.parts = append(r.parts, r.lineItem(v.Name, false, v.Ignored, len(v.DuplicatedBy) > 0, v.Change, true))
		}
	}

	// Blank line between games.
	r.parts = append(r.parts, "")
	return successful
}

func (r *Reporter) gameHeader(g *Game) string {
	var labels []string
	if g.Decision == DecisionIgnored {
		labels = append(labels, "["+r.tr.BadgeIgnored()+"]")
	}
	if g.duplicated() {
		labels = append(labels, "["+r.tr.BadgeDuplicates()+"]")
	}
	if b := g.overallChange().badge(); b != "" {
		labels = append(labels, b)
	}

	header := fmt.Sprintf("%s [%s]", g.Name, r.tr.AdjustedSize(g.processedBytes()))
	if len(labels) > 0 {
		header += " " + strings.Join(labels, " ")
	}
	return header + ":"
}

func (r *Reporter) lineItem(item string, failed, ignored, duplicated bool, change Change, nested bool) string {
	var parts []string
	if failed {
		parts = append(parts, "["+r.tr.BadgeFailed()+"]")
	}
	if ignored {
		parts = append(parts, "["+r.tr.BadgeIgnored()+"]")
	}
	if duplicated {
		parts = append(parts, "["+r.tr.BadgeDuplicated()+"]")
	}
	if b := change.badge(); b != "" && !ignored {
		parts = append(parts, b)
	}
	parts = append(parts, item)

	prefix := "  - "
	if nested {
		prefix = "    - "
	}
	return prefix + strings.Join(parts, " ")
}

func (r *Reporter) addGameJSON(g *Game) bool {
	successful := true

	files := newObject()
	for _, f := range g.sortedFiles() {
		entry := newObject()
		if f.Failed {
			entry.Set("failed", true)
			successful = false
		}
		if f.Ignored {
			entry.Set("ignored", true)
		}
		entry.Set("change", f.Change.String())
		entry.Set("bytes", f.Size)
		if f.Redirect != "" {
			if g.Restoring {
				entry.Set("originalPath", f.Redirect)
			} else {
				entry.Set("redirectedPath", f.Redirect)
			}
		}
		setDuplicatedBy(entry, g.Name, f.DuplicatedBy)
		files.Set(f.Path, entry)
	}

	registry := newObject()
	for _, k := range g.sortedRegistry() {
		entry := newObject()
		if k.Failed {
			entry.Set("failed", true)
			successful = false
		}
		if k.Ignored {
			entry.Set("ignored", true)
		}
		entry.Set("change", k.Change.String())
		setDuplicatedBy(entry, g.Name, k.DuplicatedBy)
		if len(k.Values) > 0 {
			values := newObject()
			for _, v := range k.Values {
				value := newObject()
				if v.Ignored {
					value.Set("ignored", true)
				}
				value.Set("change", v.Change.String())
				setDuplicatedBy(value, g.Name, v.DuplicatedBy)
				values.Set(v.Name, value)
			}
			entry.Set("values", values)
		}
		registry.Set(k.Path, entry)
	}

	game := newObject()
	game.Set("decision", g.Decision.String())
	game.Set("change", g.overallChange().String())
	game.Set("files", files)
	game.Set("registry", registry)
	r.games[g.Name] = game
	return successful
}

// setDuplicatedBy lists the other games sharing the entry, sorted.
func setDuplicatedBy(entry object, self string, games []string) {
	var others []string
	for _, g := range games {
		if g != self {
			others = append(others, g)
		}
	}
	if len(others) == 0 {
		return
	}
	sort.Strings(others)
	entry.Set("duplicatedBy", others)
}

// AddBackups reports the backups available for a game.
func (r *Reporter) AddBackups(name string, backups []Backup) {
	if len(backups) == 0 {
		return
	}

	if r.mode == ModeJSON {
		list := make([]object, 0, len(backups))
		for _, b := range backups {
			entry := newObject()
			entry.Set("name", b.Name)
			entry.Set("when", b.When.UTC().Format(time.RFC3339))
			if b.OS != "" {
				entry.Set("os", b.OS)
			}
			if b.Comment != "" {
				entry.Set("comment", b.Comment)
			}
			entry.Set("locked", b.Locked)
			list = append(list, entry)
		}
		game := newObject()
		game.Set("backups", list)
		r.games[name] = game
		return
	}

	r.parts = append(r.parts, name+":")
	for _, b := range backups {
		line := fmt.Sprintf("  - %q (%s)", b.Name, b.When.Format("2006-01-02T15:04:05"))
		if b.OS != "" {
			line += " [" + b.OS + "]"
		}
		if b.Locked {
			line += " [🔒]"
		}
		if b.Comment != "" {
			line += " - " + b.Comment
		}
		r.parts = append(r.parts, line)
	}
	r.parts = append(r.parts, "")
}

// AddFoundTitles reports game titles found by a search.
func (r *Reporter) AddFoundTitles(names []string) {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for _, name := range sorted {
		if r.mode == ModeJSON {
			r.games[name] = newObject()
			continue
		}
		r.parts = append(r.parts, name)
	}
}

// Render returns the report. location is the backup target or restore source shown
// in the summary.
func (r *Reporter) Render(location string) (string, error) {
	if r.mode == ModeJSON {
		return r.renderJSON()
	}

	out := strings.Join(r.parts, "\n")
	if r.status == nil {
		return out, nil
	}
	out += "\n" + r.summary(location)
	for _, msg := range r.warnings() {
		out += "\n\n" + msg
	}
	return out, nil
}

func (r *Reporter) summary(location string) string {
	s := r.status

	games := fmt.Sprint(s.TotalGames)
	if s.ProcessedGames != s.TotalGames {
		games = fmt.Sprintf("%d / %d", s.ProcessedGames, s.TotalGames)
	}
	if s.ChangedGames.New > 0 {
		games += fmt.Sprintf(" [+%d]", s.ChangedGames.New)
	}
	if s.ChangedGames.Different > 0 {
		games += fmt.Sprintf(" [Δ%d]", s.ChangedGames.Different)
	}

	size := r.tr.AdjustedSize(s.TotalBytes)
	if s.ProcessedBytes != s.TotalBytes {
		size = r.tr.AdjustedSize(s.ProcessedBytes) + " / " + size
	}

	return fmt.Sprintf("%s:\n  %s: %s\n  %s: %s\n  %s: %s",
		r.tr.Overall(),
		r.tr.TotalGames(), games,
		r.tr.FileSize(), size,
		r.tr.FileLocation(), location)
}

func (r *Reporter) warnings() []string {
	var out []string
	if r.errs.cloudConflict {
		out = append(out, r.tr.PrefixWarning(r.tr.CloudSynchronizeConflict()))
	}
	if r.errs.cloudSyncFailed {
		out = append(out, r.tr.PrefixWarning(r.tr.UnableToSynchronizeWithCloud()))
	}
	return out
}

func (r *Reporter) renderJSON() (string, error) {
	root := newObject()
	if r.errs.tripped() {
		root.Set("errors", r.errs.object())
	}
	if s := r.status; s != nil {
		changed := newObject()
		changed.Set("new", s.ChangedGames.New)
		changed.Set("different", s.ChangedGames.Different)
		changed.Set("same", s.ChangedGames.Same)

		overall := newObject()
		overall.Set("totalGames", s.TotalGames)
		overall.Set("totalBytes", s.TotalBytes)
		overall.Set("processedGames", s.ProcessedGames)
		overall.Set("processedBytes", s.ProcessedBytes)
		overall.Set("changedGames", changed)
		root.Set("overall", overall)
	}

	names := make([]string, 0, len(r.games))
	for name := range r.games {
		names = append(names, name)
	}
	sort.Strings(names)
	games := newObject()
	for _, name := range names {
		games.Set(name, r.games[name])
	}
	root.Set("games", games)

	return marshalIndent(root)
}

func marshalIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

// CloudChanges renders the files to synchronize with the cloud, sorted by path.
func CloudChanges(tr *translator.Translator, changes []CloudChange, api bool) (string, error) {
	sorted := append([]CloudChange(nil), changes...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Path != sorted[j].Path {
			return sorted[i].Path < sorted[j].Path
		}
		return sorted[i].Change < sorted[j].Change
	})

	if api {
		cloud := newObject()
		for _, c := range sorted {
			entry := newObject()
			entry.Set("change", c.Change.String())
			cloud.Set(c.Path, entry)
		}
		root := newObject()
		root.Set("cloud", cloud)
		return marshalIndent(root)
	}

	if len(sorted) == 0 {
		return tr.NoCloudChanges(), nil
	}
	lines := make([]string, 0, len(sorted))
	for _, c := range sorted {
		lines = append(lines, fmt.Sprintf("[%s] %s", c.Change.Symbol(), c.Path))
	}
	return strings.Join(lines, "\n"), nil
}
