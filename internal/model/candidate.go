package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Candidate is gorm model for a parsed resume profile. Rows are created by
// the external OCR/parse pipeline and only edited by admin screens here.
type Candidate struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string    `gorm:"type:text;index" json:"name"`
	Phone          *string   `gorm:"type:text" json:"phone"`
	Email          *string   `gorm:"type:text" json:"email"`
	Location       string    `gorm:"type:text" json:"location"`
	DegreeLevel    string    `gorm:"type:text" json:"degree_level"`
	WorkYears      float64   `gorm:"type:numeric;default:0" json:"work_years"`
	IsOutsourcing  bool      `gorm:"type:boolean;default:false" json:"is_outsourcing"`
	SelfEvaluation string    `gorm:"type:text" json:"self_evaluation"`
	CreatedAt      time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
	UpdatedAt      time.Time `gorm:"type:timestamp;index" json:"updated_at"`

	WorkExperiences []WorkExperience `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"work_experiences"`
	Educations      []Education      `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"educations"`
	Projects        []Project        `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"projects"`
	Tags            []Tag            `gorm:"many2many:candidate_tags" json:"tags"`
}

// WorkExperience is a child record of Candidate. The adapter orders rows by
// start date descending, so the first element is the latest position.
type WorkExperience struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID uuid.UUID  `gorm:"type:uuid;not null;index" json:"candidate_id"`
	Company     string     `gorm:"type:text" json:"company"`
	Role        string     `gorm:"type:text" json:"role"`
	Department  string     `gorm:"type:text" json:"department"`
	StartDate   *time.Time `gorm:"type:date" json:"start_date"`
	EndDate     *time.Time `gorm:"type:date" json:"end_date"`
	Description string     `gorm:"type:text" json:"description"`
}

// Education is a child record of Candidate
type Education struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID uuid.UUID      `gorm:"type:uuid;not null;index" json:"candidate_id"`
	School      string         `gorm:"type:text" json:"school"`
	Degree      string         `gorm:"type:text" json:"degree"`
	Major       string         `gorm:"type:text" json:"major"`
	SchoolTags  pq.StringArray `gorm:"type:text[]" json:"school_tags"`
	StartDate   *time.Time     `gorm:"type:date" json:"start_date"`
}

// Project is a child record of Candidate
type Project struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CandidateID uuid.UUID `gorm:"type:uuid;not null;index" json:"candidate_id"`
	ProjectName string    `gorm:"type:text" json:"project_name"`
	Role        string    `gorm:"type:text" json:"role"`
	Description string    `gorm:"type:text" json:"description"`
}

// LatestWork returns the most recent work experience, relying on the
// adapter's start-date-descending ordering.
func (c *Candidate) LatestWork() *WorkExperience {
	if len(c.WorkExperiences) == 0 {
		return nil
	}
	return &c.WorkExperiences[0]
}

// MainEducation returns the first education record under the same ordering.
func (c *Candidate) MainEducation() *Education {
	if len(c.Educations) == 0 {
		return nil
	}
	return &c.Educations[0]
}
