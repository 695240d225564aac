// Package search implement the pure candidate filtering, keyword search,
// and pagination logic used by the candidate list endpoints. It performs
// no I/O: the controller feeds it flat views built from database rows.
package search

import (
	"strings"

	"TalentScope-backend/internal/model"
)

// PlaceholderName is what the adapter assigns when a parsed resume has no
// usable name. Such candidates never appear in search results.
const PlaceholderName = "Unknown"

// WorkItem is the searchable slice of one work experience
type WorkItem struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	Description string `json:"description"`
}

// EduItem is the searchable slice of one education record
type EduItem struct {
	School string   `json:"school"`
	Degree string   `json:"degree"`
	Major  string   `json:"major"`
	Tags   []string `json:"school_tags"`
}

// ProjItem is the searchable slice of one project record
type ProjItem struct {
	Name        string `json:"project_name"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

// CandidateView is the flat, search-friendly reshaping of a candidate row
// with its children. Headline title/company come from the latest work
// experience, school fields from the first education record.
type CandidateView struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Degree         string     `json:"degree"`
	Phone          *string    `json:"phone"`
	Email          string     `json:"email"`
	Location       string     `json:"location"`
	WorkYears      float64    `json:"work_years"`
	IsOutsourcing  bool       `json:"is_outsourcing"`
	SchoolName     string     `json:"school_name"`
	SchoolTags     []string   `json:"school_tags"`
	CompanyTags    []string   `json:"company_tags"`
	Skills         []string   `json:"skills"`
	SelfEvaluation string     `json:"self_evaluation"`
	LastActive     string     `json:"last_active"`
	Works          []WorkItem `json:"work_experiences"`
	Edus           []EduItem  `json:"educations"`
	Projects       []ProjItem `json:"projects"`
}

// FromCandidate flattens a model.Candidate (children preloaded in
// start-date descending order) into a CandidateView.
func FromCandidate(c *model.Candidate) CandidateView {
	v := CandidateView{
		ID:             c.ID.String(),
		Name:           strings.TrimSpace(c.Name),
		Degree:         c.DegreeLevel,
		Phone:          c.Phone,
		Location:       c.Location,
		WorkYears:      c.WorkYears,
		IsOutsourcing:  c.IsOutsourcing,
		SelfEvaluation: c.SelfEvaluation,
		LastActive:     c.UpdatedAt.Format("2006-01-02"),
	}
	if v.Name == "" {
		v.Name = PlaceholderName
	}
	if c.Email != nil {
		v.Email = *c.Email
	}

	if latest := c.LatestWork(); latest != nil {
		v.Title = latest.Role
		v.Company = latest.Company
	}
	if edu := c.MainEducation(); edu != nil {
		v.SchoolName = edu.School
		v.SchoolTags = edu.SchoolTags
		if v.Degree == "" {
			v.Degree = edu.Degree
		}
	}

	for _, w := range c.WorkExperiences {
		v.Works = append(v.Works, WorkItem{
			Company:     w.Company,
			Role:        w.Role,
			Department:  w.Department,
			Description: w.Description,
		})
	}
	for _, e := range c.Educations {
		v.Edus = append(v.Edus, EduItem{
			School: e.School,
			Degree: e.Degree,
			Major:  e.Major,
			Tags:   e.SchoolTags,
		})
	}
	for _, p := range c.Projects {
		v.Projects = append(v.Projects, ProjItem{
			Name:        p.ProjectName,
			Role:        p.Role,
			Description: p.Description,
		})
	}
	for _, t := range c.Tags {
		v.Skills = append(v.Skills, t.TagName)
	}

	return v
}

// Corpus concatenates every searchable field of the view into one string.
func (v *CandidateView) Corpus() string {
	fields := []string{
		v.Name,
		v.Email,
		v.Location,
		v.Title,
		v.Company,
		v.Degree,
		v.SelfEvaluation,
		v.SchoolName,
	}
	if v.Phone != nil {
		fields = append(fields, *v.Phone)
	}
	fields = append(fields, v.SchoolTags...)
	fields = append(fields, v.Skills...)
	for _, w := range v.Works {
		fields = append(fields, w.Company, w.Role, w.Department, w.Description)
	}
	for _, e := range v.Edus {
		fields = append(fields, e.School, e.Degree, e.Major)
		fields = append(fields, e.Tags...)
	}
	for _, p := range v.Projects {
		fields = append(fields, p.Name, p.Role, p.Description)
	}
	return strings.Join(fields, " ")
}

// valid reports whether the view may appear in any search result.
func (v *CandidateView) valid() bool {
	return v.ID != "" && v.Name != "" && v.Name != PlaceholderName
}
