// Package viewstate provides HTTP handlers for saving and restoring screen
// snapshots. Snapshots are scoped to the calling session, so a new login
// always starts from a clean screen.
package viewstate

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"TalentScope-backend/internal/utilities"
	"TalentScope-backend/internal/viewstate"
)

// ViewStateController handles view-state endpoints
type ViewStateController struct {
	Store viewstate.Store
}

// NewViewStateController creates a new instance of ViewStateController
func NewViewStateController(store viewstate.Store) *ViewStateController {
	return &ViewStateController{Store: store}
}

// Save stores the snapshot for one screen under the calling session.
// @Summary Save a screen snapshot
// @Tags ViewState
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param screen path string true "Screen name"
// @Param snapshot body viewstate.Snapshot true "Snapshot"
// @Success 200 {object} utilities.MessageResponse "Saved"
// @Failure 400 {object} utilities.ErrorResponse "Malformed body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Store error"
// @Router /viewstate/{screen} [put]
func (vc *ViewStateController) Save(c *gin.Context) {
	userID, sessionID, ok := vc.sessionKey(c)
	if !ok {
		return
	}

	var snap viewstate.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if err := vc.Store.Save(c.Request.Context(), userID, sessionID, c.Param("screen"), snap); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Snapshot saved"})
}

// Load returns the snapshot for one screen, or 204 when none exists.
// @Summary Load a screen snapshot
// @Tags ViewState
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param screen path string true "Screen name"
// @Success 200 {object} viewstate.Snapshot "Snapshot"
// @Success 204 {string} string "No snapshot for this session"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Store error"
// @Router /viewstate/{screen} [get]
func (vc *ViewStateController) Load(c *gin.Context) {
	userID, sessionID, ok := vc.sessionKey(c)
	if !ok {
		return
	}

	snap, err := vc.Store.Load(c.Request.Context(), userID, sessionID, c.Param("screen"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	if snap == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Clear removes the snapshot for one screen.
// @Summary Clear a screen snapshot
// @Tags ViewState
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param screen path string true "Screen name"
// @Success 200 {object} utilities.MessageResponse "Cleared"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Store error"
// @Router /viewstate/{screen} [delete]
func (vc *ViewStateController) Clear(c *gin.Context) {
	userID, sessionID, ok := vc.sessionKey(c)
	if !ok {
		return
	}

	if err := vc.Store.Clear(c.Request.Context(), userID, sessionID, c.Param("screen")); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Snapshot cleared"})
}

// sessionKey resolves the user and session-token id set by the auth
// middleware. The jti keeps snapshots from leaking across logins.
func (vc *ViewStateController) sessionKey(c *gin.Context) (string, string, bool) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return "", "", false
	}

	sessionID, _ := c.Get("token_id")
	jti, ok := sessionID.(string)
	if !ok || jti == "" {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: "Session id not provided"})
		return "", "", false
	}
	return user.ID.String(), jti, true
}
