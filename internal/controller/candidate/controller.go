// Package candidate provides HTTP handlers for browsing and editing parsed
// candidate profiles. Filtering runs in memory over flat projections so the
// result is stable regardless of how the rows were synced.
package candidate

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	"TalentScope-backend/internal/search"
	"TalentScope-backend/internal/utilities"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CandidateController handles candidate endpoints
type CandidateController struct {
	DB *database.DBinstanceStruct
}

// NewCandidateController creates a new instance of CandidateController
func NewCandidateController(db *database.DBinstanceStruct) *CandidateController {
	return &CandidateController{DB: db}
}

// ListResponse is one page of filtered candidate projections.
type ListResponse struct {
	Candidates []search.CandidateView `json:"candidates"`
	Total      int                    `json:"total"`
	Page       int                    `json:"page"`
	TotalPages int                    `json:"total_pages"`
}

// List returns a filtered, paginated page of candidate projections.
// Facet parameters repeat or separate values with commas; all facets
// combine conjunctively while values within one facet alternate.
// @Summary List candidates with filters
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Space separated keywords, all must hit"
// @Param degrees query string false "Degree levels"
// @Param schoolTags query string false "School tags such as 985 or 211"
// @Param minYears query string false "Minimum work years, ignored when not a number"
// @Param companyTypes query string false "Company type tags"
// @Param tags query string false "Skill tags"
// @Param special query string false "Special flags: outsourcing, noPhone"
// @Param page query int false "1-indexed page"
// @Param pageSize query int false "rows per page"
// @Success 200 {object} candidate.ListResponse "Page of candidates"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidates [get]
func (cc *CandidateController) List(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	views, err := cc.loadViews()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	spec := parseFilterSpec(c)
	filtered := search.Filter(views, spec)

	page, pageSize := pageParams(c)
	c.JSON(http.StatusOK, ListResponse{
		Candidates: search.Paginate(filtered, page, pageSize),
		Total:      len(filtered),
		Page:       page,
		TotalPages: search.TotalPages(len(filtered), pageSize),
	})
}

// Get returns one candidate with every child record.
// @Summary Get candidate detail
// @Tags Candidate
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Candidate ID"
// @Success 200 {object} model.Candidate "Candidate with child records"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given candidate id not found"
// @Router /candidates/{id} [get]
func (cc *CandidateController) Get(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	candidate, ok := cc.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// Edit updates scalar profile fields of a candidate. Zero-valued fields in
// the request body leave the stored value untouched.
// @Summary Edit candidate profile fields
// @Tags Candidate
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "Candidate ID"
// @Param candidate body model.Candidate true "Fields to update"
// @Success 200 {object} model.Candidate "Updated candidate"
// @Failure 400 {object} utilities.ErrorResponse "Malformed body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given candidate id not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidates/{id} [patch]
func (cc *CandidateController) Edit(c *gin.Context) {
	if _, err := utilities.ExtractUser(c); err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	candidate, ok := cc.lookup(c)
	if !ok {
		return
	}

	var patch model.Candidate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	// Children and identifiers are managed by the pipeline, not this endpoint.
	patch.ID = candidate.ID
	patch.WorkExperiences = nil
	patch.Educations = nil
	patch.Projects = nil
	patch.Tags = nil

	utilities.MergeNonEmpty(candidate, &patch)

	if err := cc.DB.Save(candidate).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, candidate)
}

func (cc *CandidateController) lookup(c *gin.Context) (*model.Candidate, bool) {
	var candidate model.Candidate
	err := cc.DB.
		Preload("WorkExperiences", orderByStartDate).
		Preload("Educations", orderByStartDate).
		Preload("Projects").
		Preload("Tags").
		First(&candidate, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Candidate not found"})
		return nil, false
	}
	return &candidate, true
}

// fetchBatchSize bounds one joined candidate query; the full set is walked
// batch by batch so a large corpus never builds a single huge IN clause.
const fetchBatchSize = 1000

// loadViews fetches every candidate with children in latest-first order and
// flattens them into searchable projections.
func (cc *CandidateController) loadViews() ([]search.CandidateView, error) {
	var views []search.CandidateView
	for offset := 0; ; offset += fetchBatchSize {
		var batch []model.Candidate
		err := cc.DB.
			Preload("WorkExperiences", orderByStartDate).
			Preload("Educations", orderByStartDate).
			Preload("Projects").
			Preload("Tags").
			Order("updated_at DESC").
			Limit(fetchBatchSize).
			Offset(offset).
			Find(&batch).Error
		if err != nil {
			return nil, err
		}

		for i := range batch {
			views = append(views, search.FromCandidate(&batch[i]))
		}
		if len(batch) < fetchBatchSize {
			return views, nil
		}
	}
}

func orderByStartDate(db *gorm.DB) *gorm.DB {
	return db.Order("start_date DESC NULLS LAST")
}

func parseFilterSpec(c *gin.Context) search.FilterSpec {
	return search.FilterSpec{
		Search:       c.Query("search"),
		Degrees:      multiValue(c, "degrees"),
		SchoolTags:   multiValue(c, "schoolTags"),
		MinYears:     c.Query("minYears"),
		CompanyTypes: multiValue(c, "companyTypes"),
		Tags:         multiValue(c, "tags"),
		Special:      multiValue(c, "special"),
	}
}

// multiValue accepts both repeated query params and comma separated lists.
func multiValue(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
