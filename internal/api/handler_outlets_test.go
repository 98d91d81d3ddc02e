package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"campus-space-backend/internal/model"
	"campus-space-backend/internal/outlet"
	"campus-space-backend/internal/store"
)

func setupOutletRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Outlet{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	s := store.NewGormStore(db)
	h := NewHandler(s, nil, nil, outlet.NewService(s, nil), nil)

	r := gin.New()
	outlets := r.Group("/api/outlets")
	outlets.GET("", h.ListOutlets)
	outlets.GET("/available", h.GetAvailableOutlets)
	outlets.GET("/location/:building/:floor", h.GetOutletsByLocation)
	outlets.GET("/stats/summary", h.GetOutletStats)
	outlets.GET("/:id", h.GetOutlet)
	outlets.POST("", h.CreateOutlet)
	outlets.PUT("/:id", h.UpdateOutlet)
	outlets.DELETE("/:id", h.DeleteOutlet)
	outlets.POST("/:id/hardware-update", h.PostHardwareUpdate)
	outlets.POST("/:id/report", h.PostReport)
	return r
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

type outletEnvelope struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Data    outletRespJSON `json:"data"`
	Error   string         `json:"error"`
}

type outletRespJSON struct {
	OutletID               string             `json:"outletId"`
	Building               string             `json:"building"`
	Floor                  int                `json:"floor"`
	Room                   string             `json:"room"`
	TotalPorts             int                `json:"totalPorts"`
	AvailablePorts         int                `json:"availablePorts"`
	Status                 model.OutletStatus `json:"status"`
	Notes                  string             `json:"notes"`
	Reports                []model.Report     `json:"reports"`
	AvailabilityPercentage int                `json:"availabilityPercentage"`
}

func createTestOutlet(t *testing.T, router *gin.Engine, id string) {
	t.Helper()
	w := doJSON(router, "POST", "/api/outlets", gin.H{
		"outletId":   id,
		"building":   "KUPF",
		"floor":      2,
		"room":       "207",
		"totalPorts": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestOutletCRUD(t *testing.T) {
	router := setupOutletRouter(t)

	createTestOutlet(t, router, "outlet-kupf-2f-01")

	t.Run("create rejects missing fields", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/outlets", gin.H{"outletId": "x"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get returns the outlet with percentage", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/outlets/outlet-kupf-2f-01", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp outletEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "KUPF", resp.Data.Building)
		assert.Equal(t, model.OutletUnknown, resp.Data.Status)
		assert.Equal(t, 100, resp.Data.AvailabilityPercentage)
	})

	t.Run("get unknown outlet is 404", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/outlets/no-such-outlet", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update changes administrative fields only", func(t *testing.T) {
		w := doJSON(router, "PUT", "/api/outlets/outlet-kupf-2f-01", gin.H{
			"notes":      "behind the last row of desks",
			"isVerified": true,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp outletEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "behind the last row of desks", resp.Data.Notes)
		assert.Equal(t, model.OutletUnknown, resp.Data.Status)
	})

	t.Run("delete then 404", func(t *testing.T) {
		w := doJSON(router, "DELETE", "/api/outlets/outlet-kupf-2f-01", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(router, "DELETE", "/api/outlets/outlet-kupf-2f-01", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOutletHardwareUpdateAndReports(t *testing.T) {
	router := setupOutletRouter(t)
	createTestOutlet(t, router, "outlet-gitc-3f-02")

	t.Run("hardware update sets status and ports", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/outlets/outlet-gitc-3f-02/hardware-update", gin.H{
			"availablePorts": 0,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp outletEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.OutletOccupied, resp.Data.Status)
		assert.Equal(t, 0, resp.Data.AvailabilityPercentage)
	})

	t.Run("three matching reports flip the consensus", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			w := doJSON(router, "POST", "/api/outlets/outlet-gitc-3f-02/report", gin.H{
				"userId": fmt.Sprintf("user-%d", i),
				"status": "broken",
			})
			require.Equal(t, http.StatusOK, w.Code)
		}

		w := doJSON(router, "GET", "/api/outlets/outlet-gitc-3f-02", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp outletEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.OutletOutOfService, resp.Data.Status)
		assert.Len(t, resp.Data.Reports, 3)
	})

	t.Run("report with bad status is rejected", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/outlets/outlet-gitc-3f-02/report", gin.H{
			"userId": "user-x",
			"status": "on-fire",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("hardware update overrides report consensus", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/outlets/outlet-gitc-3f-02/hardware-update", gin.H{
			"availablePorts": 3,
		})
		require.Equal(t, http.StatusOK, w.Code)

		var resp outletEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, model.OutletAvailable, resp.Data.Status)
		assert.Equal(t, 75, resp.Data.AvailabilityPercentage)
	})
}

func TestOutletListingAndStats(t *testing.T) {
	router := setupOutletRouter(t)
	createTestOutlet(t, router, "outlet-kupf-2f-01")
	createTestOutlet(t, router, "outlet-kupf-2f-02")

	w := doJSON(router, "POST", "/api/outlets", gin.H{
		"outletId":   "outlet-fmh-1f-01",
		"building":   "FMH",
		"floor":      1,
		"room":       "101",
		"totalPorts": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Bring one KUPF outlet online.
	w = doJSON(router, "POST", "/api/outlets/outlet-kupf-2f-01/hardware-update", gin.H{"availablePorts": 4})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("filter by building", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/outlets?building=KUPF", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Count)
	})

	t.Run("available listing", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/outlets/available", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count int `json:"count"`
			Data  []outletRespJSON
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, 1, resp.Count)
		assert.Equal(t, "outlet-kupf-2f-01", resp.Data[0].OutletID)
	})

	t.Run("location listing", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/outlets/location/FMH/1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("stats summary", func(t *testing.T) {
		w := doJSON(router, "GET", "/api/outlets/stats/summary", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data store.OutletStats `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.Data.Total)
		assert.Equal(t, int64(1), resp.Data.Available)
		require.Len(t, resp.Data.ByBuilding, 2)
		assert.Equal(t, "FMH", resp.Data.ByBuilding[0].Building)
	})
}
