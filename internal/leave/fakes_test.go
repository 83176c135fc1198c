package leave_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"hris-leave/internal/balance"
	"hris-leave/internal/employee"
	"hris-leave/internal/leave"
	"hris-leave/internal/leavepolicy"
	"hris-leave/internal/schedule"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryLeaveRepo stores requests by id. departments maps employee to
// department for the department conflict query.
type memoryLeaveRepo struct {
	mu          sync.Mutex
	items       map[uuid.UUID]leave.LeaveRequest
	departments map[uuid.UUID]uuid.UUID
	approvedErr error
	listCalls   int

	// afterApprovedRead runs once the approved rows have been read and the
	// lock released, before they are returned.
	afterApprovedRead func()
}

func newMemoryLeaveRepo() *memoryLeaveRepo {
	return &memoryLeaveRepo{
		items:       map[uuid.UUID]leave.LeaveRequest{},
		departments: map[uuid.UUID]uuid.UUID{},
	}
}

func (r *memoryLeaveRepo) WithTx(tx *sql.Tx) leave.Repository { return r }

func (r *memoryLeaveRepo) put(l leave.LeaveRequest) leave.LeaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.items[l.ID] = l
	return l
}

func (r *memoryLeaveRepo) get(id uuid.UUID) (leave.LeaveRequest, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.items[id]
	return l, ok
}

func (r *memoryLeaveRepo) Create(ctx context.Context, l *leave.LeaveRequest) error {
	l.CreatedAt = time.Now()
	r.put(*l)
	return nil
}

func (r *memoryLeaveRepo) FindByID(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	l, ok := r.get(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (r *memoryLeaveRepo) LockByID(ctx context.Context, id uuid.UUID) (*leave.LeaveRequest, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryLeaveRepo) Update(ctx context.Context, l *leave.LeaveRequest) error {
	r.put(*l)
	return nil
}

func (r *memoryLeaveRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memoryLeaveRepo) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, l := range r.items {
		if filter.EmployeeID != nil && l.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func active(l leave.LeaveRequest) bool {
	return l.Status == leave.StatusPending || l.Status == leave.StatusApproved
}

func intersects(l leave.LeaveRequest, start, end time.Time) bool {
	return !l.StartDate.After(end) && !l.EndDate.Before(start)
}

func (r *memoryLeaveRepo) FindOwnConflict(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (*leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.items {
		if l.EmployeeID == employeeID && active(l) && intersects(l, start, end) {
			return &l, nil
		}
	}
	return nil, nil
}

func (r *memoryLeaveRepo) FindDepartmentConflicts(ctx context.Context, departmentID, excludeID uuid.UUID, start, end time.Time) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []leave.LeaveRequest{}
	for _, l := range r.items {
		if l.ID == excludeID || r.departments[l.EmployeeID] != departmentID {
			continue
		}
		if active(l) && intersects(l, start, end) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memoryLeaveRepo) ListApprovedInRange(ctx context.Context, from, to time.Time) ([]leave.LeaveRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := r.readApproved(from, to)
	if err == nil && r.afterApprovedRead != nil {
		r.afterApprovedRead()
	}
	return out, err
}

func (r *memoryLeaveRepo) readApproved(from, to time.Time) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	if r.approvedErr != nil {
		return nil, r.approvedErr
	}
	var out []leave.LeaveRequest
	for _, l := range r.items {
		if l.Status == leave.StatusApproved && intersects(l, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *memoryLeaveRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := maps.Clone(r.items)
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.items = saved
	}
}

type balanceKey struct {
	employeeID uuid.UUID
	leaveType  leavepolicy.Type
	year       int
}

// memoryBalanceRepo backs the real ledger in engine tests.
type memoryBalanceRepo struct {
	mu   sync.Mutex
	rows map[balanceKey]*balance.LeaveBalance
}

func newMemoryBalanceRepo() *memoryBalanceRepo {
	return &memoryBalanceRepo{rows: map[balanceKey]*balance.LeaveBalance{}}
}

func (r *memoryBalanceRepo) WithTx(tx *sql.Tx) balance.Repository { return r }

func (r *memoryBalanceRepo) EnsureExists(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, totalDays int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := balanceKey{employeeID, leaveType, year}
	if _, ok := r.rows[k]; !ok {
		r.rows[k] = &balance.LeaveBalance{ID: uuid.New(), EmployeeID: employeeID, LeaveType: leaveType, Year: year, TotalDays: totalDays}
	}
	return nil
}

func (r *memoryBalanceRepo) FindByKey(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year int) (*balance.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[balanceKey{employeeID, leaveType, year}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *row
	return &cp, nil
}

func (r *memoryBalanceRepo) Increment(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, days int, capped bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[balanceKey{employeeID, leaveType, year}]
	if !ok || (capped && row.Remaining() < days) {
		return false, nil
	}
	row.UsedDays += days
	return true, nil
}

func (r *memoryBalanceRepo) Override(ctx context.Context, employeeID uuid.UUID, leaveType leavepolicy.Type, year, totalDays int, usedDays *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := balanceKey{employeeID, leaveType, year}
	row, ok := r.rows[k]
	if !ok {
		row = &balance.LeaveBalance{ID: uuid.New(), EmployeeID: employeeID, LeaveType: leaveType, Year: year}
		r.rows[k] = row
	}
	row.TotalDays = totalDays
	if usedDays != nil {
		row.UsedDays = *usedDays
	}
	return nil
}

func (r *memoryBalanceRepo) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	return true, nil
}

func (r *memoryBalanceRepo) snapshot() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make(map[balanceKey]balance.LeaveBalance, len(r.rows))
	for k, row := range r.rows {
		saved[k] = *row
	}
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.rows = make(map[balanceKey]*balance.LeaveBalance, len(saved))
		for k, row := range saved {
			r.rows[k] = &row
		}
	}
}

func (r *memoryBalanceRepo) used(employeeID uuid.UUID, leaveType leavepolicy.Type, year int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.rows[balanceKey{employeeID, leaveType, year}]; ok {
		return row.UsedDays
	}
	return 0
}

type fakeDirectory struct {
	employees map[uuid.UUID]*employee.Employee
	managers  map[uuid.UUID]uuid.UUID
	admins    []uuid.UUID
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		employees: map[uuid.UUID]*employee.Employee{},
		managers:  map[uuid.UUID]uuid.UUID{},
	}
}

func (d *fakeDirectory) add(e *employee.Employee) *employee.Employee {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	d.employees[e.ID] = e
	return e
}

func (d *fakeDirectory) WithTx(tx *sql.Tx) employee.Directory { return d }

func (d *fakeDirectory) Employee(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	e, ok := d.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (d *fakeDirectory) LockEmployee(ctx context.Context, id uuid.UUID) (*employee.Employee, error) {
	return d.Employee(ctx, id)
}

func (d *fakeDirectory) DepartmentManagerID(ctx context.Context, departmentID uuid.UUID) (*uuid.UUID, error) {
	m, ok := d.managers[departmentID]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (d *fakeDirectory) ActiveAdminIDs(ctx context.Context) ([]uuid.UUID, error) {
	return d.admins, nil
}

func (d *fakeDirectory) Names(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	for _, id := range ids {
		if e, ok := d.employees[id]; ok {
			out[id] = e.FullName
		}
	}
	return out, nil
}

type recordingSynchronizer struct {
	applied []schedule.Leave
	err     error
}

func (s *recordingSynchronizer) WithTx(tx *sql.Tx) schedule.Synchronizer { return s }

func (s *recordingSynchronizer) ApplyLeave(ctx context.Context, l schedule.Leave) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.applied = append(s.applied, l)
	return 0, nil
}

func (s *recordingSynchronizer) snapshot() func() {
	n := len(s.applied)
	return func() { s.applied = s.applied[:n] }
}

// txParticipant is an in-memory repository that can be restored when a
// transaction rolls back.
type txParticipant interface {
	snapshot() func()
}

// txJournal is a database/sql connector whose transactions run no SQL. Begin
// snapshots every participant; Rollback restores them and Commit keeps the
// writes.
type txJournal struct {
	participants []txParticipant
	commits      int
	rollbacks    int
}

func (j *txJournal) Connect(context.Context) (driver.Conn, error) { return journalConn{j}, nil }

func (j *txJournal) Driver() driver.Driver { return journalDriver{j} }

type journalDriver struct{ j *txJournal }

func (d journalDriver) Open(string) (driver.Conn, error) { return journalConn{d.j}, nil }

type journalConn struct{ j *txJournal }

func (c journalConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("journal driver runs no statements")
}

func (c journalConn) Close() error { return nil }

func (c journalConn) Begin() (driver.Tx, error) {
	tx := &journalTx{j: c.j}
	for _, p := range c.j.participants {
		tx.restores = append(tx.restores, p.snapshot())
	}
	return tx, nil
}

type journalTx struct {
	j        *txJournal
	restores []func()
}

func (tx *journalTx) Commit() error {
	tx.j.commits++
	return nil
}

func (tx *journalTx) Rollback() error {
	for i := len(tx.restores) - 1; i >= 0; i-- {
		tx.restores[i]()
	}
	tx.j.rollbacks++
	return nil
}

// fakeMonthCache follows the generation rule of the Redis cache: a fill is
// dropped when the month was invalidated after the filler read its
// generation.
type fakeMonthCache struct {
	entries     map[string][]leave.CalendarEntry
	generations map[string]int64
	invalidated []string
	staleFills  int
}

func newFakeMonthCache() *fakeMonthCache {
	return &fakeMonthCache{
		entries:     map[string][]leave.CalendarEntry{},
		generations: map[string]int64{},
	}
}

func (c *fakeMonthCache) Get(ctx context.Context, month string) ([]leave.CalendarEntry, bool, error) {
	e, ok := c.entries[month]
	return e, ok, nil
}

func (c *fakeMonthCache) Generation(ctx context.Context, month string) (int64, error) {
	return c.generations[month], nil
}

func (c *fakeMonthCache) Set(ctx context.Context, month string, generation int64, entries []leave.CalendarEntry) (bool, error) {
	if c.generations[month] != generation {
		c.staleFills++
		return false, nil
	}
	c.entries[month] = entries
	return true, nil
}

func (c *fakeMonthCache) Invalidate(ctx context.Context, months ...string) error {
	for _, m := range months {
		c.generations[m]++
		delete(c.entries, m)
	}
	c.invalidated = append(c.invalidated, months...)
	slices.Sort(c.invalidated)
	return nil
}
