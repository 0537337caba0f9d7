package sections

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"printcalc/internal/events"
	"printcalc/internal/notify"
)

// ProschetRow is one entry of the proschet list.
type ProschetRow struct {
	ID          int64
	Number      int
	Date        string
	ClientName  string
	Title       string
	Circulation int
	Total       float64
	Status      string
}

// Allowed status moves. Anything else is rejected locally.
var statusTransitions = map[string][]string{
	"draft":  {"active", "cancelled"},
	"active": {"saved", "cancelled"},
	"saved":  {"active"},
}

// ProschetList owns the "Просчёты" section: the searchable, paginated list of
// proschets. Selecting a row is what activates the rest of the calculator.
type ProschetList struct {
	mu       sync.Mutex
	bus      *events.Bus
	notifier *notify.Notifier
	logger   *zap.Logger

	rows       []ProschetRow
	filter     string
	page       int
	pageSize   int
	selectedID int64
}

func NewProschetList(bus *events.Bus, notifier *notify.Notifier, logger *zap.Logger, pageSize int) *ProschetList {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ProschetList{
		bus:      bus,
		notifier: notifier,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Load replaces the list contents and resets filter, page and selection.
func (l *ProschetList) Load(ctx context.Context, rows []ProschetRow) {
	l.mu.Lock()
	l.rows = make([]ProschetRow, len(rows))
	copy(l.rows, rows)
	l.filter = ""
	l.page = 0
	hadSelection := l.selectedID != 0
	l.selectedID = 0
	l.mu.Unlock()

	if hadSelection {
		l.bus.Publish(ctx, events.ProschetDeselected{})
	}
}

// SetFilter applies a case-insensitive substring filter over number, client
// name and title, and jumps back to the first page.
func (l *ProschetList) SetFilter(filter string) {
	l.mu.Lock()
	l.filter = strings.ToLower(strings.TrimSpace(filter))
	l.page = 0
	l.mu.Unlock()
}

func (l *ProschetList) matchesLocked(row ProschetRow) bool {
	if l.filter == "" {
		return true
	}
	haystack := strings.ToLower(strings.Join([]string{
		strconv.Itoa(row.Number),
		row.Title,
		row.ClientName,
		row.Date,
		row.Status,
	}, " "))
	return strings.Contains(haystack, l.filter)
}

func (l *ProschetList) filteredLocked() []ProschetRow {
	out := make([]ProschetRow, 0, len(l.rows))
	for _, row := range l.rows {
		if l.matchesLocked(row) {
			out = append(out, row)
		}
	}
	return out
}

// Page returns the rows of the current page and the total page count.
func (l *ProschetList) Page() ([]ProschetRow, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	filtered := l.filteredLocked()
	pages := (len(filtered) + l.pageSize - 1) / l.pageSize
	if pages == 0 {
		return nil, 0
	}
	if l.page >= pages {
		l.page = pages - 1
	}
	start := l.page * l.pageSize
	end := start + l.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], pages
}

// NextPage advances to the next page if there is one.
func (l *ProschetList) NextPage() {
	l.mu.Lock()
	defer l.mu.Unlock()
	pages := (len(l.filteredLocked()) + l.pageSize - 1) / l.pageSize
	if l.page+1 < pages {
		l.page++
	}
}

// PrevPage steps back one page if possible.
func (l *ProschetList) PrevPage() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.page > 0 {
		l.page--
	}
}

// Select activates a proschet. Selecting the already selected row deselects
// it, like a second click on a highlighted row.
func (l *ProschetList) Select(ctx context.Context, proschetID int64) {
	l.mu.Lock()
	if l.selectedID == proschetID {
		l.selectedID = 0
		l.mu.Unlock()
		l.bus.Publish(ctx, events.ProschetDeselected{})
		return
	}

	var row *ProschetRow
	for i := range l.rows {
		if l.rows[i].ID == proschetID {
			row = &l.rows[i]
			break
		}
	}
	if row == nil {
		l.mu.Unlock()
		l.logger.Warn("Select of unknown proschet", zap.Int64("proschet_id", proschetID))
		return
	}
	l.selectedID = proschetID
	selected := *row
	l.mu.Unlock()

	l.logger.Info("Proschet selected",
		zap.Int64("proschet_id", selected.ID),
		zap.String("title", selected.Title))

	l.bus.Publish(ctx, events.ProschetSelected{
		ProschetID:  selected.ID,
		Title:       selected.Title,
		Circulation: selected.Circulation,
	})
}

// Deselect clears the selection.
func (l *ProschetList) Deselect(ctx context.Context) {
	l.mu.Lock()
	if l.selectedID == 0 {
		l.mu.Unlock()
		return
	}
	l.selectedID = 0
	l.mu.Unlock()
	l.bus.Publish(ctx, events.ProschetDeselected{})
}

// SelectedID returns the id of the selected proschet, 0 when none.
func (l *ProschetList) SelectedID() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selectedID
}

// SetStatus moves a proschet to a new status if the transition is allowed.
func (l *ProschetList) SetStatus(proschetID int64, status string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.rows {
		if l.rows[i].ID != proschetID {
			continue
		}
		for _, next := range statusTransitions[l.rows[i].Status] {
			if next == status {
				l.rows[i].Status = status
				return true
			}
		}
		l.notifier.Warning("Недопустимый переход статуса")
		return false
	}
	return false
}
