package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s, err := NewPostgresWithPool(mock)
	require.NoError(t, err)
	return s, mock
}

func TestSaveWebsiteContentInsertsRow(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	now := time.Unix(1700000000, 0).UTC()

	rec := WebsiteContentRecord{
		WebsiteURL:  "https://example.com",
		WebsiteName: "Example",
		UserID:      "user-1",
		Content:     []byte(`{"title":"Example"}`),
		Analysis:    []byte(`{"description":"d"}`),
		CreatedAt:   now,
	}

	mock.ExpectQuery("INSERT INTO website_content").
		WithArgs(
			rec.WebsiteURL,
			rec.WebsiteName,
			"user-1",
			rec.Content,
			rec.Analysis,
			nil,
			now,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("wc-1"))

	id, err := s.SaveWebsiteContent(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, "wc-1", id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSubmissionNotFound(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM product_submissions").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetSubmission(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSubmissionStatusReturnsRow(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectQuery("UPDATE product_submissions").
		WithArgs("sub-1", "completed", now).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "user_id", "website_url", "website_name", "email", "status", "updated_at"},
		).AddRow("sub-1", "user-1", "https://example.com", "Example", "owner@example.com", "completed", now))

	sub, err := s.UpdateSubmissionStatus(context.Background(), "sub-1", "completed", now)
	require.NoError(t, err)
	require.Equal(t, "completed", sub.Status)
	require.Equal(t, "owner@example.com", sub.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, email, name FROM users").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name"}).
			AddRow("user-1", "owner@example.com", "Sam"))

	u, err := s.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "owner@example.com", u.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchRowsUpdatedSinceRejectsBadIdentifiers(t *testing.T) {
	t.Parallel()

	s, _ := newMockStore(t)

	_, err := s.FetchRowsUpdatedSince(context.Background(), "payments; DROP TABLE users", []string{"id"}, time.Time{})
	require.Error(t, err)

	_, err = s.FetchRowsUpdatedSince(context.Background(), "payments", []string{"id", "1=1"}, time.Time{})
	require.Error(t, err)

	_, err = s.FetchRowsUpdatedSince(context.Background(), "payments", nil, time.Time{})
	require.Error(t, err)
}

func TestFetchRowsUpdatedSinceFullTableOnZeroCursor(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT id, status FROM payments ORDER BY updated_at").
		WillReturnRows(pgxmock.NewRows([]string{"id", "status"}).
			AddRow("pay-1", "confirmed").
			AddRow("pay-2", "pending"))

	rows, err := s.FetchRowsUpdatedSince(context.Background(), "payments", []string{"id", "status"}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "pay-1", rows[0]["id"])
	require.Equal(t, "confirmed", rows[0]["status"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchRowsUpdatedSinceAppliesCursor(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	since := time.Unix(1700000000, 0).UTC()
	mock.ExpectQuery("SELECT id FROM payments WHERE updated_at >= ").
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("pay-9"))

	rows, err := s.FetchRowsUpdatedSince(context.Background(), "payments", []string{"id"}, since)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPaymentPropagatesErrors(t *testing.T) {
	t.Parallel()

	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT (.+) FROM payments").
		WithArgs("pay-1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.GetPayment(context.Background(), "pay-1")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
