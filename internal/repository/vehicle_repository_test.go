package repository

import (
    "context"
    "database/sql"
    "errors"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
)

func vehicleRows(available bool) *sqlmock.Rows {
    return sqlmock.NewRows([]string{
        "id", "type", "brand", "model", "year", "price_per_hour", "price_per_day",
        "available", "image_url", "description", "features",
    }).AddRow(7, "bike", "Trek", "FX 2", 2023, 5.00, 35.00, available,
        "https://example.com/fx2.jpg", "Hybrid bike", nil)
}

func TestVehicleGetByID(t *testing.T) {
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    defer db.Close()
    repo := NewVehicleRepo(db)

    mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = \\?").
        WithArgs(7).WillReturnRows(vehicleRows(true))

    v, err := repo.GetByID(context.Background(), 7)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if v.ID != 7 || v.Brand != "Trek" || !v.Available {
        t.Fatalf("unexpected vehicle: %+v", v)
    }
    if v.ImageURL == nil || *v.ImageURL != "https://example.com/fx2.jpg" {
        t.Fatalf("image url not scanned: %+v", v.ImageURL)
    }
    if v.Features != nil {
        t.Fatalf("NULL features should scan to nil, got %q", *v.Features)
    }
}

func TestVehicleGetByIDAbsent(t *testing.T) {
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    defer db.Close()
    repo := NewVehicleRepo(db)

    mock.ExpectQuery("SELECT (.+) FROM vehicles WHERE id = \\?").
        WithArgs(99).WillReturnRows(sqlmock.NewRows([]string{"id"}))

    if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, sql.ErrNoRows) {
        t.Fatalf("expected sql.ErrNoRows, got %v", err)
    }
}

func TestIsAvailable(t *testing.T) {
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    defer db.Close()
    repo := NewVehicleRepo(db)

    mock.ExpectQuery("SELECT available FROM vehicles WHERE id = \\?").
        WithArgs(7).
        WillReturnRows(sqlmock.NewRows([]string{"available"}).AddRow(false))

    got, err := repo.IsAvailable(context.Background(), 7)
    if err != nil || got {
        t.Fatalf("got (%v, %v), want (false, nil)", got, err)
    }

    mock.ExpectQuery("SELECT available FROM vehicles WHERE id = \\?").
        WithArgs(99).
        WillReturnRows(sqlmock.NewRows([]string{"available"}))

    if _, err := repo.IsAvailable(context.Background(), 99); !errors.Is(err, sql.ErrNoRows) {
        t.Fatalf("absent vehicle should be sql.ErrNoRows, got %v", err)
    }
}

func TestTryReserveReportsRowsAffected(t *testing.T) {
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    defer db.Close()
    repo := NewVehicleRepo(db)

    mock.ExpectExec("UPDATE vehicles SET available = 0 WHERE id = \\? AND available = 1").
        WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE vehicles SET available = 0 WHERE id = \\? AND available = 1").
        WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 0))

    got, err := repo.TryReserve(context.Background(), 7)
    if err != nil || !got {
        t.Fatalf("first reserve: got (%v, %v), want (true, nil)", got, err)
    }
    got, err = repo.TryReserve(context.Background(), 7)
    if err != nil || got {
        t.Fatalf("second reserve: got (%v, %v), want (false, nil)", got, err)
    }
    if err := mock.ExpectationsWereMet(); err != nil {
        t.Fatalf("unmet expectations: %v", err)
    }
}

func TestListBuildsFilterClauses(t *testing.T) {
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    defer db.Close()
    repo := NewVehicleRepo(db)

    available := true
    mock.ExpectQuery(`SELECT (.+) FROM vehicles WHERE 1=1 AND type = \? AND brand LIKE \? AND price_per_day >= \? AND price_per_day <= \? AND available = \? ORDER BY id`).
        WithArgs("bike", "%Trek%", 10.0, 50.0, true).
        WillReturnRows(vehicleRows(true))

    vehicles, err := repo.List(context.Background(), VehicleFilter{
        Type: "bike", Brand: "Trek", MinPrice: 10, MaxPrice: 50, Available: &available,
    })
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(vehicles) != 1 || vehicles[0].Model != "FX 2" {
        t.Fatalf("unexpected result: %+v", vehicles)
    }
}

func TestListEmptyFilterReturnsAll(t *testing.T) {
    db, mock, err := sqlmock.New()
    if err != nil {
        t.Fatalf("sqlmock init error: %v", err)
    }
    defer db.Close()
    repo := NewVehicleRepo(db)

    mock.ExpectQuery(`SELECT (.+) FROM vehicles WHERE 1=1 ORDER BY id`).
        WillReturnRows(vehicleRows(false))

    vehicles, err := repo.List(context.Background(), VehicleFilter{})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(vehicles) != 1 || vehicles[0].Available {
        t.Fatalf("unexpected result: %+v", vehicles)
    }
}
