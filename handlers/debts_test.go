package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/JoelSantos-JS/Alidash-sub006/db"
)

func paymentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/debts/payments/create", CreateDebtPayment)
	r.PUT("/debts/balance", UpdateDebtBalance)
	return r
}

func postJSON(r *gin.Engine, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateDebtPayment_InvalidDate(t *testing.T) {
	r := paymentRouter()

	w := postJSON(r, http.MethodPost, "/debts/payments/create?user_id=u1",
		`{"debt_id":"d1","date":"30-08-2026","amount":100}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid date") {
		t.Errorf("body = %s, want Invalid date", w.Body.String())
	}
}

// expectUserLoad stubs the user lookup the entitlement gate performs.
func expectUserLoad(mock sqlmock.Sqlmock, accountType string, createdAt time.Time) {
	mock.ExpectQuery("SELECT id, email").WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "name", "account_type", "plan_status", "plan_price",
			"plan_started_at", "plan_next_renewal_at", "created_at",
		}).AddRow("u1", "u1@example.com", "", accountType, nil, nil, nil, nil, createdAt))
}

func TestCreateDebtPayment_TrialExpiredDenied(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer mockDB.Close()
	db.DB = mockDB

	// Personal account created 10 days ago, well past the 5-day debt trial.
	expectUserLoad(mock, "personal", time.Now().Add(-10*24*time.Hour))

	r := paymentRouter()
	w := postJSON(r, http.MethodPost, "/debts/payments/create?user_id=u1",
		`{"debt_id":"d1","date":"2026-08-20","amount":100}`)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "trial_expired") {
		t.Errorf("body = %s, want trial_expired", w.Body.String())
	}
	// The denial must short-circuit before any payment insert.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected store activity: %v", err)
	}
}

func TestUpdateDebtBalance_TrialExpiredDenied(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer mockDB.Close()
	db.DB = mockDB

	expectUserLoad(mock, "personal", time.Now().Add(-10*24*time.Hour))

	r := paymentRouter()
	w := postJSON(r, http.MethodPut, "/debts/balance?user_id=u1",
		`{"debt_id":"d1","current_amount":700}`)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if !strings.Contains(w.Body.String(), "trial_expired") {
		t.Errorf("body = %s, want trial_expired", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected store activity: %v", err)
	}
}
