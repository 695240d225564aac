// Package stats provides the HTTP handler for upload statistics.
package stats

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	statscore "TalentScope-backend/internal/stats"
	"TalentScope-backend/internal/utilities"
)

// StatsController handles statistics endpoints
type StatsController struct {
	DB *database.DBinstanceStruct
}

// NewStatsController creates a new instance of StatsController
func NewStatsController(db *database.DBinstanceStruct) *StatsController {
	return &StatsController{DB: db}
}

// Overview aggregates every upload row into global counters, a ranked
// per-uploader table, and a recent-uploads list in one pass. It exposes every
// uploader's identity, so the route is admin only.
// @Summary Upload statistics overview
// @Description Only admin can access this endpoint
// @Tags Stats
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} stats.Result "Aggregated statistics"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not logged in as admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /stats [get]
func (sc *StatsController) Overview(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var rows []model.ResumeUpload
	if err := sc.DB.Order("created_at DESC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var profiles []model.User
	if err := sc.DB.Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, statscore.Aggregate(rows, profiles, time.Now()))
}

// Mine returns the caller's own counters only.
// @Summary Upload statistics for the calling account
// @Tags Stats
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} stats.UserRow "Caller's counters"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /stats/me [get]
func (sc *StatsController) Mine(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var rows []model.ResumeUpload
	if err := sc.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	result := statscore.Aggregate(rows, []model.User{user}, time.Now())
	c.JSON(http.StatusOK, result.Users[0])
}
