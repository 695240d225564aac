// Package position provides HTTP handlers for job openings and on-demand
// candidate matching. Scoring lives in the match_candidates_for_position
// database routine; this package only calls it and joins the projections.
package position

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/search"
	"TalentScope-backend/internal/utilities"
)

const (
	defaultMatchLimit = 20
	maxMatchLimit     = 100
)

// PositionController handles position endpoints
type PositionController struct {
	DB *database.DBinstanceStruct
}

// NewPositionController creates a new instance of PositionController
func NewPositionController(db *database.DBinstanceStruct) *PositionController {
	return &PositionController{DB: db}
}

// keywordSeparators splits on ASCII comma, fullwidth comma, and newline.
var keywordSeparators = regexp.MustCompile(`[,，\n]`)

// ParseKeywords turns free-form keyword input into a clean list: split on
// commas (either width) and newlines, trim, drop empties, and dedupe while
// keeping first-seen order.
func ParseKeywords(raw string) []string {
	parts := keywordSeparators.Split(raw, -1)
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		kw := strings.TrimSpace(part)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

// CreateRequest is the body for creating or updating a position. Keywords
// arrive as raw text the way the form collects them.
type CreateRequest struct {
	Title       string `json:"title"`
	Department  string `json:"department"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	MatchMode   string `json:"match_mode"`
	Keywords    string `json:"keywords"`
	Description string `json:"description"`
}

func (r *CreateRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if r.MatchMode != "" && r.MatchMode != model.MatchModeAny && r.MatchMode != model.MatchModeAll {
		return fmt.Errorf("match_mode must be %q or %q", model.MatchModeAny, model.MatchModeAll)
	}
	if r.Status != "" && r.Status != model.PositionOpen && r.Status != model.PositionClosed {
		return fmt.Errorf("status must be %q or %q", model.PositionOpen, model.PositionClosed)
	}
	return nil
}

func (r *CreateRequest) toInfo() model.EditablePositionInfo {
	info := model.EditablePositionInfo{
		Title:            strings.TrimSpace(r.Title),
		Department:       strings.TrimSpace(r.Department),
		Category:         strings.TrimSpace(r.Category),
		Status:           r.Status,
		MatchMode:        r.MatchMode,
		RequiredKeywords: pq.StringArray(ParseKeywords(r.Keywords)),
		Description:      strings.TrimSpace(r.Description),
	}
	if info.Status == "" {
		info.Status = model.PositionOpen
	}
	if info.MatchMode == "" {
		info.MatchMode = model.MatchModeAny
	}
	return info
}

// Create adds a new position.
// @Summary Create a position
// @Tags Position
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param position body position.CreateRequest true "Position fields"
// @Success 200 {object} model.Position "Created position"
// @Failure 400 {object} utilities.ErrorResponse "Validation failure"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /positions [post]
func (pc *PositionController) Create(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	position := model.Position{EditablePositionInfo: req.toInfo()}
	if err := pc.DB.Create(&position).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, position)
}

// Update replaces the editable fields of a position.
// @Summary Update a position
// @Tags Position
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Position ID"
// @Param position body position.CreateRequest true "Position fields"
// @Success 200 {object} model.Position "Updated position"
// @Failure 400 {object} utilities.ErrorResponse "Validation failure"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given position id not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /positions/{id} [put]
func (pc *PositionController) Update(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	position, ok := pc.lookup(c)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	position.EditablePositionInfo = req.toInfo()
	if err := pc.DB.Save(position).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, position)
}

// List returns every position newest first.
// @Summary List positions
// @Tags Position
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Position "Positions"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /positions [get]
func (pc *PositionController) List(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var positions []model.Position
	if err := pc.DB.Order("created_at DESC").Find(&positions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, positions)
}

// Delete removes a position.
// @Summary Delete a position
// @Tags Position
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Position ID"
// @Success 200 {object} utilities.MessageResponse "Deleted"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given position id not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /positions/{id} [delete]
func (pc *PositionController) Delete(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	position, ok := pc.lookup(c)
	if !ok {
		return
	}

	if err := pc.DB.Delete(position).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Position deleted"})
}

// matchRow is the raw shape returned by the database routine.
type matchRow struct {
	CandidateID     uuid.UUID      `gorm:"column:candidate_id"`
	MatchScore      float64        `gorm:"column:match_score"`
	MatchedKeywords pq.StringArray `gorm:"column:matched_keywords;type:text[]"`
	TotalKeywords   int            `gorm:"column:total_keywords"`
}

// MatchResult joins one scored row with its candidate projection.
type MatchResult struct {
	Candidate       search.CandidateView `json:"candidate"`
	MatchScore      float64              `json:"match_score"`
	MatchedKeywords []string             `json:"matched_keywords"`
	TotalKeywords   int                  `json:"total_keywords"`
}

// Match runs the database matching routine for one position and joins the
// scored rows with candidate projections in a single batched lookup.
// @Summary Match candidates against a position
// @Tags Position
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path int true "Position ID"
// @Param limit query int false "Max rows, default 20"
// @Param offset query int false "Rows to skip"
// @Success 200 {array} position.MatchResult "Scored candidates, best first"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given position id not found"
// @Failure 500 {object} utilities.ErrorResponse "Matching routine failure"
// @Router /positions/{id}/match [get]
func (pc *PositionController) Match(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	position, ok := pc.lookup(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultMatchLimit)))
	if err != nil || limit < 1 {
		limit = defaultMatchLimit
	}
	if limit > maxMatchLimit {
		limit = maxMatchLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	var rows []matchRow
	if err := pc.DB.DB.Raw(
		"SELECT candidate_id, match_score, matched_keywords, total_keywords FROM match_candidates_for_position(?, ?, ?)",
		position.ID, limit, offset,
	).Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Matching routine failed: %s", err.Error()),
		})
		return
	}

	results, err := pc.joinCandidates(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// joinCandidates resolves the scored ids to projections with one query,
// dropping rows whose candidate no longer exists.
func (pc *PositionController) joinCandidates(rows []matchRow) ([]MatchResult, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CandidateID)
	}

	views := make(map[uuid.UUID]search.CandidateView, len(ids))
	if len(ids) > 0 {
		var candidates []model.Candidate
		err := pc.DB.
			Preload("WorkExperiences", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC NULLS LAST") }).
			Preload("Educations", func(db *gorm.DB) *gorm.DB { return db.Order("start_date DESC NULLS LAST") }).
			Preload("Projects").
			Preload("Tags").
			Where("id IN ?", ids).
			Find(&candidates).Error
		if err != nil {
			return nil, err
		}
		for i := range candidates {
			views[candidates[i].ID] = search.FromCandidate(&candidates[i])
		}
	}

	results := make([]MatchResult, 0, len(rows))
	for _, r := range rows {
		view, ok := views[r.CandidateID]
		if !ok {
			continue
		}
		results = append(results, MatchResult{
			Candidate:       view,
			MatchScore:      r.MatchScore,
			MatchedKeywords: r.MatchedKeywords,
			TotalKeywords:   r.TotalKeywords,
		})
	}
	return results, nil
}

func (pc *PositionController) lookup(c *gin.Context) (*model.Position, bool) {
	var position model.Position
	if err := pc.DB.First(&position, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Position not found"})
		return nil, false
	}
	return &position, true
}
