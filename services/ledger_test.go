package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/JoelSantos-JS/Alidash-sub006/models"
)

func validEntry() EntryInput {
	return EntryInput{
		UserID:      "u1",
		Description: "Market",
		Amount:      150.75,
		Date:        time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEntryInputValidate(t *testing.T) {
	valid := validEntry()
	if err := valid.validate(); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*EntryInput)
	}{
		{"missing user", func(in *EntryInput) { in.UserID = "" }},
		{"missing description", func(in *EntryInput) { in.Description = "" }},
		{"zero amount", func(in *EntryInput) { in.Amount = 0 }},
		{"negative amount", func(in *EntryInput) { in.Amount = -10 }},
		{"zero date", func(in *EntryInput) { in.Date = time.Time{} }},
		{"installment without info", func(in *EntryInput) { in.IsInstallment = true }},
	}
	for _, tc := range cases {
		in := validEntry()
		tc.mutate(&in)
		err := in.validate()
		if err == nil {
			t.Errorf("%s: error = nil, want validation error", tc.name)
			continue
		}
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%s: error = %v, want ErrValidation", tc.name, err)
		}
	}
}

func TestEntryInputValidate_InstallmentInfo(t *testing.T) {
	in := validEntry()
	in.IsInstallment = true
	in.Installment = &models.InstallmentInfo{
		TotalAmount:        600,
		TotalInstallments:  12,
		CurrentInstallment: 3,
	}
	if err := in.validate(); err != nil {
		t.Errorf("valid installment input rejected: %v", err)
	}

	in.Installment.CurrentInstallment = 13
	if err := in.validate(); !errors.Is(err, ErrValidation) {
		t.Errorf("currentInstallment > totalInstallments: error = %v, want ErrValidation", err)
	}
}

func TestCreateEntry_CompensatesFailedProjection(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec("INSERT INTO expenses").
		WillReturnError(errors.New("connection reset by peer"))
	// The transaction row created in step one must be rolled back.
	mock.ExpectExec("DELETE FROM transactions").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, _, err = CreateEntry(db, models.TypeExpense, validEntry())
	if err == nil {
		t.Fatal("CreateEntry error = nil, want storage error")
	}
	if !errors.Is(err, ErrStorage) {
		t.Errorf("error = %v, want ErrStorage", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("compensating delete did not run: %v", err)
	}
}

func TestCreateEntry_InsertsProjectionAfterTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("INSERT INTO transactions").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec("INSERT INTO expenses").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, projectionID, err := CreateEntry(db, models.TypeExpense, validEntry())
	if err != nil {
		t.Fatalf("CreateEntry error = %v", err)
	}
	if tx.Type != models.TypeExpense {
		t.Errorf("transaction type = %q, want expense", tx.Type)
	}
	if tx.Amount != 150.75 {
		t.Errorf("transaction amount = %v, want 150.75", tx.Amount)
	}
	if projectionID == "" || projectionID == tx.ID {
		t.Errorf("projection id %q must be set and distinct from transaction id %q", projectionID, tx.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected store activity: %v", err)
	}
}

func TestProjectionTable(t *testing.T) {
	cases := []struct {
		kind         string
		table        string
		counterparty string
		wantErr      bool
	}{
		{models.TypeRevenue, "revenues", "source", false},
		{models.TypeExpense, "expenses", "supplier", false},
		{"debt", "", "", true},
		{"", "", "", true},
	}
	for _, tc := range cases {
		table, col, err := projectionTable(tc.kind)
		if tc.wantErr {
			if err == nil {
				t.Errorf("projectionTable(%q): error = nil, want error", tc.kind)
			}
			continue
		}
		if err != nil {
			t.Errorf("projectionTable(%q): error = %v", tc.kind, err)
			continue
		}
		if table != tc.table || col != tc.counterparty {
			t.Errorf("projectionTable(%q) = (%q, %q), want (%q, %q)",
				tc.kind, table, col, tc.table, tc.counterparty)
		}
	}
}
