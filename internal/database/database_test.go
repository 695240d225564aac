package database

import (
	"context"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"TalentScope-backend/internal/model"
)

var db *DBinstanceStruct

func TestMain(m *testing.M) {
	teardownFn, instance, err := GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	db = instance

	m.Run()

	if teardownFn != nil && teardownFn(context.Background()) != nil {
		log.Fatal("could not teardown postgres container")
	}
}

func TestHealth(t *testing.T) {
	stats := db.Health()

	assert.Equal(t, "up", stats["status"])
	assert.NotContains(t, stats, "error")
	assert.Equal(t, "It's healthy", stats["message"])
}

func TestSeededAccounts(t *testing.T) {
	require.NotEqual(t, "", TestAdminUser.ID.String())
	assert.True(t, TestAdminUser.IsAdmin())
	assert.False(t, TestPendingUser.IsAdmin())
	assert.Equal(t, model.ApprovalRejected, TestRejectedUser.ApprovalStatus)
}

func TestSeededCandidatesHaveChildren(t *testing.T) {
	var candidate model.Candidate
	err := db.Preload("WorkExperiences").Preload("Educations").Preload("Tags").
		First(&candidate, "id = ?", TestCandidate1.ID).Error
	require.NoError(t, err)

	assert.Len(t, candidate.WorkExperiences, 2)
	assert.Len(t, candidate.Educations, 1)
	assert.NotEmpty(t, candidate.Tags)
}

func TestUploadHashUniqueness(t *testing.T) {
	dup := model.ResumeUpload{
		UserID:   TestUpload1.UserID,
		Filename: "duplicate.pdf",
		FileHash: TestUpload1.FileHash,
	}
	err := db.Create(&dup).Error
	assert.Error(t, err)
}

func TestMatchFunctionInstalled(t *testing.T) {
	type matchRow struct {
		CandidateID   string  `gorm:"column:candidate_id"`
		MatchScore    float64 `gorm:"column:match_score"`
		TotalKeywords int     `gorm:"column:total_keywords"`
	}

	var rows []matchRow
	err := db.DB.Raw("SELECT candidate_id, match_score, total_keywords FROM match_candidates_for_position(?, ?, ?)",
		TestPosition1.ID, 10, 0).Scan(&rows).Error
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	for _, r := range rows {
		assert.Greater(t, r.MatchScore, 0.0)
		assert.LessOrEqual(t, r.MatchScore, 1.0)
		assert.Equal(t, 2, r.TotalKeywords)
	}
}
