package viewer

import (
	"fmt"
	"sync"
	"time"

	"github.com/rpggio/ionview/internal/domain/variant"
)

// State is one viewer session: the active sort and search text applied to
// the registry's current dataset.
type State struct {
	id       string
	registry *Registry
	lastUsed time.Time // guarded by registry.mu

	mu    sync.Mutex
	sort  variant.SortSpec
	query string
}

// ID returns the session identifier.
func (s *State) ID() string {
	return s.id
}

// Sort returns the active sort.
func (s *State) Sort() variant.SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

// Query returns the current search text.
func (s *State) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Handle applies ev and returns the recomputed view. A sort request for a
// column the dataset lacks leaves the state unchanged and returns
// variant.ErrUnknownColumn alongside the current view.
func (s *State) Handle(ev Event) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	switch e := ev.(type) {
	case SortRequested:
		err = s.requestSort(e)
	case QueryChanged:
		s.mu.Lock()
		s.query = e.Text
		s.mu.Unlock()
	case DownloadRequested:
		var t DownloadTicket
		t, err = s.registry.Ticket(e)
		if err == nil {
			out.Download = &t
		}
	default:
		return Outcome{View: s.View()}, fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
	}

	if obs := s.registry.opts.Observer; obs != nil && err == nil {
		obs.EventHandled(ev.Kind())
	}
	out.View = s.View()
	return out, err
}

func (s *State) requestSort(e SortRequested) error {
	if !s.registry.Snapshot().Dataset.HasColumn(e.Column) {
		return fmt.Errorf("%w: %q", variant.ErrUnknownColumn, e.Column)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e.Direction {
	case "":
		s.sort = s.sort.Toggle(e.Column)
	case variant.Ascending, variant.Descending:
		s.sort = variant.SortSpec{Column: e.Column, Direction: e.Direction}
	default:
		return fmt.Errorf("%w: %q", variant.ErrInvalidDirection, e.Direction)
	}
	return nil
}

// Reset clears the sort and search text.
func (s *State) Reset() {
	s.mu.Lock()
	s.sort = variant.SortSpec{}
	s.query = ""
	s.mu.Unlock()
}

// View filters then sorts the current dataset and classifies each row.
func (s *State) View() View {
	s.mu.Lock()
	spec, query := s.sort, s.query
	s.mu.Unlock()

	snap := s.registry.Snapshot()
	res := variant.Filter(snap.Dataset.Records, query)
	ordered := spec.Apply(res.Matched)

	rows := make([]Row, 0, len(ordered))
	for _, rec := range ordered {
		rows = append(rows, s.registry.row(rec))
	}

	cols := make([]Column, 0, len(displayColumns))
	for _, dc := range displayColumns {
		c := Column{Name: dc.name, Title: dc.title}
		if spec.Active() && spec.Column == dc.name {
			c.Active = true
			c.Indicator = spec.Indicator()
		}
		cols = append(cols, c)
	}

	v := View{
		Columns:      cols,
		Rows:         rows,
		Sort:         spec,
		Query:        query,
		MatchedCount: res.MatchedCount,
		TotalCount:   res.TotalCount,
		Origin:       snap.Origin,
		Notice:       snap.Notice,
	}
	if res.Narrowed() {
		v.ResultCount = res.CountText()
	}
	return v
}
