package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-space-backend/internal/model"
)

type putSubscriptionRequest struct {
	Endpoint          string   `json:"endpoint" binding:"required"`
	P256DH            string   `json:"p256dh" binding:"required"`
	Auth              string   `json:"auth" binding:"required"`
	SubscribedOutlets []string `json:"subscribed_outlets"`
}

// PutSubscription handles the creation or replacement of a subscription.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subscription := model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}

	err := h.store.DB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
		}).Create(&subscription).Error; err != nil {
			return err
		}

		var outlets []*model.Outlet
		if len(req.SubscribedOutlets) > 0 {
			if err := tx.Find(&outlets, "outlet_id IN ?", req.SubscribedOutlets).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&subscription).Association("Outlets").Replace(outlets); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.DB().Delete(&model.PushSubscription{Endpoint: req.Endpoint}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// rawQueryParam looks a key up in the raw query string without URL
// decoding; push endpoints routinely contain characters that a decode
// pass would mangle.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription handles the retrieval of a subscription.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	var subscription model.PushSubscription
	if err := h.store.DB().Preload("Outlets").First(&subscription, "endpoint = ?", raw).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	outletIDs := make([]string, len(subscription.Outlets))
	for i, o := range subscription.Outlets {
		outletIDs[i] = o.OutletID
	}

	c.JSON(http.StatusOK, gin.H{"subscribed_outlets": outletIDs})
}
