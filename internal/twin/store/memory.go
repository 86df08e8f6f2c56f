package store

import (
	"slices"
	"sort"
	"sync"
	"time"
)

// collection is an id keyed table with auto increment.
type collection[T any] struct {
	items map[int]T
	next  int
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: map[int]T{}, next: 1}
}

func (c *collection[T]) put(id int, v T) {
	c.items[id] = v
	if id >= c.next {
		c.next = id + 1
	}
}

func (c *collection[T]) nextID() int {
	id := c.next
	c.next++
	return id
}

func (c *collection[T]) list() []T {
	ids := make([]int, 0, len(c.items))
	for id := range c.items {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.items[id])
	}
	return out
}

// MemoryStore holds the twin state. It is safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	credentials  []Credential
	employees    *collection[Employee]
	attributes   []CustomAttribute
	absenceTypes *collection[AbsenceType]
	absences     *collection[Absence]
	attendances  *collection[Attendance]
	projects     *collection[Project]
	now          func() time.Time
}

func New(seed Seed) *MemoryStore {
	s := &MemoryStore{now: time.Now}
	s.load(seed)
	return s
}

func (s *MemoryStore) load(seed Seed) {
	s.credentials = append([]Credential(nil), seed.Credentials...)
	s.attributes = append([]CustomAttribute(nil), seed.CustomAttributes...)
	s.employees = newCollection[Employee]()
	for _, e := range seed.Employees {
		if e.ID == 0 {
			e.ID = s.employees.nextID()
		}
		s.employees.put(e.ID, e)
	}
	s.absenceTypes = newCollection[AbsenceType]()
	for _, t := range seed.AbsenceTypes {
		s.absenceTypes.put(t.ID, t)
	}
	s.absences = newCollection[Absence]()
	for _, a := range seed.Absences {
		if a.ID == 0 {
			a.ID = s.absences.nextID()
		}
		s.absences.put(a.ID, a)
	}
	s.attendances = newCollection[Attendance]()
	for _, a := range seed.Attendances {
		if a.ID == 0 {
			a.ID = s.attendances.nextID()
		}
		s.attendances.put(a.ID, a)
	}
	s.projects = newCollection[Project]()
	for _, p := range seed.Projects {
		if p.ID == 0 {
			p.ID = s.projects.nextID()
		}
		s.projects.put(p.ID, p)
	}
}

// Reset replaces the whole state with seed.
func (s *MemoryStore) Reset(seed Seed) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(seed)
}

func (s *MemoryStore) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s *MemoryStore) Authenticate(clientID, clientSecret string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.credentials {
		if c.ClientID == clientID && c.ClientSecret == clientSecret {
			return true
		}
	}
	return false
}

func (s *MemoryStore) Employees() []Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.employees.list()
}

func (s *MemoryStore) Employee(id int) (Employee, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees.items[id]
	return e, ok
}

func (s *MemoryStore) CreateEmployee(e Employee) Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.employees.nextID()
	if e.Status == "" {
		e.Status = "active"
	}
	e.CreatedAt = s.timestamp()
	s.employees.put(e.ID, e)
	return e
}

// UpdateEmployee applies fn to the employee with id.
func (s *MemoryStore) UpdateEmployee(id int, fn func(*Employee)) (Employee, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees.items[id]
	if !ok {
		return Employee{}, false
	}
	fn(&e)
	e.ID = id
	s.employees.put(id, e)
	return e, true
}

func (s *MemoryStore) CustomAttributes() []CustomAttribute {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CustomAttribute(nil), s.attributes...)
}

func (s *MemoryStore) AbsenceTypes() []AbsenceType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.absenceTypes.list()
}

func (s *MemoryStore) AbsenceType(id int) (AbsenceType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.absenceTypes.items[id]
	return t, ok
}

func (f Filter) matchesEmployee(id int) bool {
	return len(f.EmployeeIDs) == 0 || slices.Contains(f.EmployeeIDs, id)
}

// overlaps reports whether [start, end] intersects the filter range.
func (f Filter) overlaps(start, end string) bool {
	if f.Start != "" && end < f.Start {
		return false
	}
	if f.End != "" && start > f.End {
		return false
	}
	return true
}

func (s *MemoryStore) Absences(f Filter) []Absence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Absence
	for _, a := range s.absences.list() {
		if f.matchesEmployee(a.EmployeeID) && f.overlaps(a.StartDate, a.EndDate) {
			out = append(out, a)
		}
	}
	return out
}

func (s *MemoryStore) Absence(id int) (Absence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.absences.items[id]
	return a, ok
}

func (s *MemoryStore) CreateAbsence(a Absence) Absence {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.absences.nextID()
	if a.Status == "" {
		a.Status = "approved"
	}
	a.CreatedAt = s.timestamp()
	s.absences.put(a.ID, a)
	return a
}

func (s *MemoryStore) DeleteAbsence(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.absences.items[id]; !ok {
		return false
	}
	delete(s.absences.items, id)
	return true
}

func (s *MemoryStore) Attendances(f Filter) []Attendance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Attendance
	for _, a := range s.attendances.list() {
		if f.matchesEmployee(a.EmployeeID) && f.overlaps(a.Date, a.Date) {
			out = append(out, a)
		}
	}
	return out
}

func (s *MemoryStore) Attendance(id int) (Attendance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attendances.items[id]
	return a, ok
}

// CreateAttendances stores all records and returns their new ids in order.
func (s *MemoryStore) CreateAttendances(in []Attendance) []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(in))
	for _, a := range in {
		a.ID = s.attendances.nextID()
		s.attendances.put(a.ID, a)
		ids = append(ids, a.ID)
	}
	return ids
}

func (s *MemoryStore) UpdateAttendance(id int, fn func(*Attendance)) (Attendance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attendances.items[id]
	if !ok {
		return Attendance{}, false
	}
	fn(&a)
	a.ID = id
	s.attendances.put(id, a)
	return a, true
}

func (s *MemoryStore) DeleteAttendance(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attendances.items[id]; !ok {
		return false
	}
	delete(s.attendances.items, id)
	return true
}

func (s *MemoryStore) Projects() []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projects.list()
}

func (s *MemoryStore) Project(id int) (Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects.items[id]
	return p, ok
}

func (s *MemoryStore) CreateProject(p Project) Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.projects.nextID()
	p.CreatedAt = s.timestamp()
	p.UpdatedAt = p.CreatedAt
	s.projects.put(p.ID, p)
	return p
}

func (s *MemoryStore) UpdateProject(id int, fn func(*Project)) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects.items[id]
	if !ok {
		return Project{}, false
	}
	fn(&p)
	p.ID = id
	p.UpdatedAt = s.timestamp()
	s.projects.put(id, p)
	return p, true
}

func (s *MemoryStore) DeleteProject(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects.items[id]; !ok {
		return false
	}
	delete(s.projects.items, id)
	return true
}
