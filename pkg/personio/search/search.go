// Package search provides a local employee search on top of the Personio
// API, which has no search endpoint of its own.
//
// All employees are loaded once and kept in memory; the index is rebuilt
// when it is invalidated or older than its timeout.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"personio-go/pkg/personio"
)

const DefaultTimeout = 6 * time.Hour

// Lister loads all employees. *personio.Client implements it.
type Lister interface {
	GetEmployees(ctx context.Context) ([]*personio.Employee, error)
}

type entry struct {
	employee *personio.Employee
	keywords string
}

type Index struct {
	lister  Lister
	timeout time.Duration
	log     hclog.Logger
	now     func() time.Time

	mu         sync.Mutex
	entries    []entry
	lastUpdate time.Time
	valid      bool
}

type Option func(*Index)

func WithTimeout(d time.Duration) Option {
	return func(ix *Index) { ix.timeout = d }
}

func WithLogger(log hclog.Logger) Option {
	return func(ix *Index) { ix.log = log }
}

func New(l Lister, opts ...Option) *Index {
	ix := &Index{
		lister:  l,
		timeout: DefaultTimeout,
		log:     hclog.NewNullLogger(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Search matches query case-insensitively against the indexed keywords.
// Employees containing the whole query come first, followed by employees
// matching at least one whitespace separated token. Each employee appears
// at most once. Inactive employees are skipped when activeOnly is set.
func (ix *Index) Search(ctx context.Context, query string, activeOnly bool) ([]*personio.Employee, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if err := ix.updateOnDemand(ctx); err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	tokens := strings.Fields(q)
	var full, partial []*personio.Employee
	for _, en := range ix.entries {
		if activeOnly && !en.employee.Active() {
			continue
		}
		if strings.Contains(en.keywords, q) {
			full = append(full, en.employee)
			continue
		}
		for _, tok := range tokens {
			if strings.Contains(en.keywords, tok) {
				partial = append(partial, en.employee)
				break
			}
		}
	}
	return append(full, partial...), nil
}

// SearchFirst returns the best match, or nil when nothing matches.
func (ix *Index) SearchFirst(ctx context.Context, query string, activeOnly bool) (*personio.Employee, error) {
	res, err := ix.Search(ctx, query, activeOnly)
	if err != nil || len(res) == 0 {
		return nil, err
	}
	return res[0], nil
}

// Invalidate forces a reload on the next search.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	ix.valid = false
	ix.mu.Unlock()
}

func (ix *Index) LastUpdate() time.Time {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.lastUpdate
}

func (ix *Index) updateOnDemand(ctx context.Context) error {
	switch {
	case len(ix.entries) == 0:
		ix.log.Debug("creating search index for the first time")
	case !ix.valid:
		ix.log.Debug("updating search index because it was invalidated")
	case ix.now().After(ix.lastUpdate.Add(ix.timeout)):
		ix.log.Debug("updating expired search index", "timeout", ix.timeout)
	default:
		return nil
	}
	employees, err := ix.lister.GetEmployees(ctx)
	if err != nil {
		return err
	}
	entries := make([]entry, 0, len(employees))
	for _, e := range employees {
		entries = append(entries, entry{employee: e, keywords: Keywords(e)})
	}
	ix.entries = entries
	ix.lastUpdate = ix.now()
	ix.valid = true
	return nil
}

// Keywords returns the lowercase, space separated search terms of e.
// References to other people, like the supervisor, are left out.
func Keywords(e *personio.Employee) string {
	words := []string{e.FirstName, e.LastName, e.Position, e.Email, e.Status, e.Subcompany}
	if e.Office != nil {
		words = append(words, e.Office.Name)
	}
	if e.Department != nil {
		words = append(words, e.Department.Name)
	}
	if e.Team != nil {
		words = append(words, e.Team.Name)
	}
	kept := words[:0]
	for _, w := range words {
		if w != "" {
			kept = append(kept, w)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}
