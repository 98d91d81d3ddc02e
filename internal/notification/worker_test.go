package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"campus-space-backend/internal/model"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestWorkerPool_Dispatch(t *testing.T) {
	db, _ := newTestDB(t)
	wp := NewWorkerPool(1, db, &webpush.Options{})

	// Dispatch a job
	wp.Dispatch("outlet-lib-2f-01")

	// Check if the job is in the channel
	select {
	case job := <-wp.jobs:
		assert.Equal(t, "outlet-lib-2f-01", job)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	gormDB, mock := newTestDB(t)
	wp := NewWorkerPool(1, gormDB, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	// --- Test Case: One subscription found, notification sent ---
	t.Run("sends notification for one subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		outletID := "outlet-kupf-1f-03"
		subscription := model.PushSubscription{
			Endpoint: "https://example.com/push",
			P256DH:   "test_p256dh",
			Auth:     "test_auth",
		}

		// Set up the mock sender
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				assert.Equal(t, "Outlet Kupfrian Hall 106 (outlet-kupf-1f-03) is now available!", string(payload))
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		// Mock database query
		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_outlet_mapping.*WHERE .*som\.outlet_id = \$1`).
			WithArgs(outletID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow(subscription.Endpoint, subscription.P256DH, subscription.Auth, time.Now()))

		mock.ExpectQuery(`SELECT "building","room" FROM "outlets" WHERE outlet_id = \$1.*LIMIT \$[0-9]+`).
			WithArgs(outletID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"building", "room"}).AddRow("Kupfrian Hall", "106"))

		wp.Dispatch(outletID)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// --- Test Case: Subscription expired, should be deleted ---
	t.Run("deletes expired subscription", func(t *testing.T) {
		outletID := "outlet-fmh-3f-12"
		subscription := model.PushSubscription{
			Endpoint: "https://example.com/expired",
			P256DH:   "test_p256dh_expired",
			Auth:     "test_auth_expired",
		}

		// Set up the mock sender to return a 410 Gone status
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				// This will be called, but we wait on the DB operation
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_outlet_mapping.*WHERE .*som\.outlet_id = \$1`).
			WithArgs(outletID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow(subscription.Endpoint, subscription.P256DH, subscription.Auth, time.Now()))

		mock.ExpectQuery(`SELECT "building","room" FROM "outlets" WHERE outlet_id = \$1.*LIMIT \$[0-9]+`).
			WithArgs(outletID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"building", "room"}).AddRow("Fenster Hall", "310"))

		// Expect the delete operation
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs(subscription.Endpoint).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(outletID)

		// A short sleep to allow the worker to process the job
		time.Sleep(100 * time.Millisecond)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	// --- Test Case: Outlet lookup fails, fallback to ID ---
	t.Run("falls back to outlet ID when lookup fails", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		outletID := "outlet-gitc-4f-07"
		subscription := model.PushSubscription{
			Endpoint: "https://example.com/fallback",
			P256DH:   "test_p256dh_fallback",
			Auth:     "test_auth_fallback",
		}

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				assert.Equal(t, "https://example.com/fallback", sub.Endpoint)
				assert.Equal(t, "Outlet outlet-gitc-4f-07 is now available!", string(payload))
				wg.Done()
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN .*subscription_outlet_mapping.*WHERE .*som\.outlet_id = \$1`).
			WithArgs(outletID).
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow(subscription.Endpoint, subscription.P256DH, subscription.Auth, time.Now()))

		mock.ExpectQuery(`SELECT "building","room" FROM "outlets" WHERE outlet_id = \$1.*LIMIT \$[0-9]+`).
			WithArgs(outletID, 1).
			WillReturnError(fmt.Errorf("outlet not found"))

		wp.Dispatch(outletID)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
