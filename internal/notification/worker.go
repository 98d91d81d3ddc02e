package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"campus-space-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans outlet-available events out to push subscribers.
type WorkerPool struct {
	size    int
	jobs    chan string
	db      *gorm.DB
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan string, size), // Buffered channel
		db:      db,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Notification worker %d started", id)
	for {
		select {
		case outletID := <-wp.jobs:
			log.Printf("Worker %d processing outlet %s", id, outletID)
			wp.sendNotificationsForOutlet(ctx, outletID)
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch sends a job to the worker pool.
func (wp *WorkerPool) Dispatch(outletID string) {
	wp.jobs <- outletID
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

// sendNotificationsForOutlet fetches subscriptions and notifies everyone
// watching the given outlet.
func (wp *WorkerPool) sendNotificationsForOutlet(ctx context.Context, outletID string) {
	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_outlet_mapping som ON som.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("som.outlet_id = ?", outletID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("Error fetching subscriptions for outlet %s: %v", outletID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for outlet %s", len(subscriptions), outletID)

	label := outletID
	var o model.Outlet
	if err := wp.db.WithContext(ctx).
		Select("building", "room").
		First(&o, "outlet_id = ?", outletID).Error; err != nil {
		log.Printf("Error fetching outlet %s: %v", outletID, err)
	} else if o.Building != "" {
		label = fmt.Sprintf("%s %s (%s)", o.Building, o.Room, outletID)
	}

	message := fmt.Sprintf("Outlet %s is now available!", label)
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, []byte(message))
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
