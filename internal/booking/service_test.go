package booking

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"

    "github.com/wheelshare/vehicle-rental/internal/model"
    "github.com/wheelshare/vehicle-rental/internal/repository"
)

var (
    bookStart = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
    bookEnd   = bookStart.Add(3 * time.Hour)
)

func newServiceWithMock(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    svc := NewService(repository.NewVehicleRepo(db), repository.NewRentalRepo(db))
    return svc, mock, func() { db.Close() }
}

func vehicleRows() *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "id", "type", "brand", "model", "year", "price_per_hour", "price_per_day",
        "available", "image_url", "description", "features",
    }).AddRow(7, "bike", "Trek", "FX 2", 2023, 5.00, 35.00, true, nil, nil, nil)
}

func TestCreateRentalBooksAndPricesOneDay(t *testing.T) {
    svc, mock, done := newServiceWithMock(t)
    defer done()

    mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").
        WithArgs(7).WillReturnRows(vehicleRows())
    mock.ExpectExec("UPDATE vehicles SET available = 0 WHERE id = \\? AND available = 1").
        WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO rentals").
        WithArgs(3, 7, bookStart, bookEnd, 35.0, "pending").
        WillReturnResult(sqlmock.NewResult(42, 1))
    mock.ExpectQuery("SELECT created_at FROM rentals WHERE id").
        WithArgs(int64(42)).
        WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(bookStart))

    rental, err := svc.CreateRental(context.Background(), 3, 7, bookStart, bookEnd)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if rental.ID != 42 || rental.Status != model.RentalStatusPending {
        t.Fatalf("unexpected rental: %+v", rental)
    }
    if rental.TotalCost != 35 {
        t.Fatalf("3h booking at 5/35 must cost one day (35), got %v", rental.TotalCost)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestCreateRentalVehicleNotFound(t *testing.T) {
    svc, mock, done := newServiceWithMock(t)
    defer done()

    mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").
        WithArgs(99).WillReturnRows(sqlmock.NewRows([]string{"id"}))

    _, err := svc.CreateRental(context.Background(), 3, 99, bookStart, bookEnd)
    if !errors.Is(err, ErrVehicleNotFound) {
        t.Fatalf("expected ErrVehicleNotFound, got %v", err)
    }
}

func TestCreateRentalInvalidRangeWritesNothing(t *testing.T) {
    svc, mock, done := newServiceWithMock(t)
    defer done()

    mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").
        WithArgs(7).WillReturnRows(vehicleRows())

    _, err := svc.CreateRental(context.Background(), 3, 7, bookEnd, bookStart)
    if !errors.Is(err, ErrValidation) {
        t.Fatalf("expected ErrValidation, got %v", err)
    }
    // No reservation and no insert may follow a rejected range.
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unexpected writes after validation failure: %v", err)
    }
}

func TestCreateRentalMissingFields(t *testing.T) {
    svc, _, done := newServiceWithMock(t)
    defer done()

    if _, err := svc.CreateRental(context.Background(), 3, 0, bookStart, bookEnd); !errors.Is(err, ErrValidation) {
        t.Fatalf("zero vehicle id: expected ErrValidation, got %v", err)
    }
    if _, err := svc.CreateRental(context.Background(), 3, 7, time.Time{}, bookEnd); !errors.Is(err, ErrValidation) {
        t.Fatalf("zero start: expected ErrValidation, got %v", err)
    }
}

func TestCreateRentalConflictWhenAlreadyReserved(t *testing.T) {
    svc, mock, done := newServiceWithMock(t)
    defer done()

    mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").
        WithArgs(7).WillReturnRows(vehicleRows())
    // The conditional write finds available = 0 and touches no row.
    mock.ExpectExec("UPDATE vehicles SET available = 0 WHERE id = \\? AND available = 1").
        WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 0))

    _, err := svc.CreateRental(context.Background(), 3, 7, bookStart, bookEnd)
    if !errors.Is(err, ErrVehicleUnavailable) {
        t.Fatalf("expected ErrVehicleUnavailable, got %v", err)
    }
    // Crucially, no rental row is created for the losing request.
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unexpected statements after failed reservation: %v", err)
    }
}

func TestCreateRentalCompensatesWhenLedgerFails(t *testing.T) {
    svc, mock, done := newServiceWithMock(t)
    defer done()

    mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id").
        WithArgs(7).WillReturnRows(vehicleRows())
    mock.ExpectExec("UPDATE vehicles SET available = 0 WHERE id = \\? AND available = 1").
        WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO rentals").
        WillReturnError(errors.New("disk full"))
    // The reservation must be rolled back, not just logged.
    mock.ExpectExec("UPDATE vehicles SET available = 1 WHERE id = \\?").
        WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))

    _, err := svc.CreateRental(context.Background(), 3, 7, bookStart, bookEnd)
    if err == nil {
        t.Fatal("expected error when ledger insert fails")
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("compensating release not executed: %v", err)
    }
}

func rentalRow(id, userID, vehicleID uint64, status model.RentalStatus) *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "id", "user_id", "vehicle_id", "start_date", "end_date", "total_cost", "status", "created_at",
    }).AddRow(id, userID, vehicleID, bookStart, bookEnd, 35.0, string(status), bookStart)
}

func TestCancelRentalReleasesWhenNoOtherActive(t *testing.T) {
    svc, mock, done := newServiceWithMock(t)
    defer done()

    mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\? AND user_id = \\?").
        WithArgs(42, 3).WillReturnRows(rentalRow(42, 3, 7, model.RentalStatusPending))
    mock.ExpectExec("UPDATE rentals SET status = \\? WHERE id = \\?").
        WithArgs("cancelled", 42).WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rentals").
        WithArgs(7, "pending", "confirmed").
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
    mock.ExpectExec("UPDATE vehicles SET available = 1 WHERE id = \\?").
        WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))

    rental, err := svc.CancelRental(context.Background(), 3, 42)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if rental.Status != model.RentalStatusCancelled {
        t.Fatalf("expected cancelled status, got %s", rental.Status)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestCancelRentalKeepsVehicleWhenAnotherActive(t *testing.T) {
    svc, mock, done := newServiceWithMock(t)
    defer done()

    mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\? AND user_id = \\?").
        WithArgs(42, 3).WillReturnRows(rentalRow(42, 3, 7, model.RentalStatusPending))
    mock.ExpectExec("UPDATE rentals SET status = \\? WHERE id = \\?").
        WithArgs("cancelled", 42).WillReturnResult(sqlmock.NewResult(0, 1))
    // A different rental still claims the vehicle at restore time.
    mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM rentals").
        WithArgs(7, "pending", "confirmed").
        WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

    if _, err := svc.CancelRental(context.Background(), 3, 42); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    // No "available = 1" exec was expected: the vehicle must stay claimed.
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("vehicle released while still claimed: %v", err)
    }
}

func TestCancelRentalNotOwnedLooksAbsent(t *testing.T) {
    svc, mock, done := newServiceWithMock(t)
    defer done()

    // Scoping the lookup by user makes someone else's rental indistinguishable
    // from a missing one.
    mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\? AND user_id = \\?").
        WithArgs(42, 8).WillReturnRows(sqlmock.NewRows([]string{"id"}))

    _, err := svc.CancelRental(context.Background(), 8, 42)
    if !errors.Is(err, ErrRentalNotFound) {
        t.Fatalf("expected ErrRentalNotFound, got %v", err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("status or availability touched for foreign rental: %v", err)
    }
}

func TestCancelRentalAlreadyTerminal(t *testing.T) {
    for _, status := range []model.RentalStatus{model.RentalStatusCancelled, model.RentalStatusCompleted} {
        svc, mock, done := newServiceWithMock(t)
        mock.ExpectQuery("SELECT (.+) FROM rentals WHERE id = \\? AND user_id = \\?").
            WithArgs(42, 3).WillReturnRows(rentalRow(42, 3, 7, status))

        _, err := svc.CancelRental(context.Background(), 3, 42)
        if !errors.Is(err, ErrRentalFinished) {
            t.Fatalf("status %s: expected ErrRentalFinished, got %v", status, err)
        }
        if err := mock.ExpectationsWereMet(); err != nil {
            t.Fatalf("status %s: writes happened for terminal rental: %v", status, err)
        }
        done()
    }
}

// casStore is an in-memory VehicleStore whose TryReserve has the same
// compare-and-swap semantics as the SQL conditional write.  It lets
// the exclusivity property run under real goroutine interleaving.
type casStore struct {
    mu        sync.Mutex
    available bool
}

func (s *casStore) GetByID(context.Context, uint64) (model.Vehicle, error) {
    return model.Vehicle{ID: 7, PricePerHour: 5, PricePerDay: 35}, nil
}

func (s *casStore) TryReserve(context.Context, uint64) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if !s.available {
        return false, nil
    }
    s.available = false
    return true, nil
}

func (s *casStore) Release(context.Context, uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.available = true
    return nil
}

type memLedger struct {
    mu      sync.Mutex
    nextID  uint64
    created int
}

func (l *memLedger) Create(_ context.Context, userID, vehicleID uint64, start, end time.Time, cost float64) (model.Rental, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    l.nextID++
    l.created++
    return model.Rental{ID: l.nextID, UserID: userID, VehicleID: vehicleID,
        StartDate: start, EndDate: end, TotalCost: cost, Status: model.RentalStatusPending}, nil
}

func (l *memLedger) GetByIDForUser(context.Context, uint64, uint64) (model.Rental, error) {
    return model.Rental{}, errors.New("not implemented")
}

func (l *memLedger) ListByUser(context.Context, uint64) ([]repository.RentalDetail, error) {
    return nil, nil
}

func (l *memLedger) UpdateStatus(context.Context, uint64, model.RentalStatus) error { return nil }

func (l *memLedger) CountActiveForVehicle(context.Context, uint64) (int, error) { return 0, nil }

func TestConcurrentCreateRentalExactlyOneWins(t *testing.T) {
    for round := 0; round < 50; round++ {
        store := &casStore{available: true}
        ledger := &memLedger{}
        svc := NewService(store, ledger)

        const callers = 8
        var wg sync.WaitGroup
        errs := make([]error, callers)
        for i := 0; i < callers; i++ {
            wg.Add(1)
            go func(i int) {
                defer wg.Done()
                _, errs[i] = svc.CreateRental(context.Background(), uint64(i+1), 7, bookStart, bookEnd)
            }(i)
        }
        wg.Wait()

        wins := 0
        for _, err := range errs {
            switch {
            case err == nil:
                wins++
            case errors.Is(err, ErrVehicleUnavailable):
            default:
                t.Fatalf("round %d: unexpected error %v", round, err)
            }
        }
        if wins != 1 {
            t.Fatalf("round %d: %d bookings succeeded, want exactly 1", round, wins)
        }
        if ledger.created != 1 {
            t.Fatalf("round %d: %d ledger rows created, want exactly 1", round, ledger.created)
        }
    }
}
