package stats

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TalentScope-backend/internal/database"
	"TalentScope-backend/internal/model"
	statscore "TalentScope-backend/internal/stats"
)

var (
	db   *database.DBinstanceStruct
	ctrl *StatsController
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	teardown, instance, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}
	db = instance
	ctrl = NewStatsController(db)

	m.Run()

	if teardown != nil && teardown(context.Background()) != nil {
		log.Fatal("could not teardown postgres container")
	}
}

func statsContext(t *testing.T, user model.User, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	c.Request = req
	c.Set("user", user)
	return c, rec
}

func TestOverviewCountsSeededRows(t *testing.T) {
	c, rec := statsContext(t, database.TestAdminUser, "/stats")

	ctrl.Overview(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var result statscore.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.Equal(t, 3, result.Summary.TotalUploads)
	assert.Equal(t, 1, result.Summary.SuccessUploads)
	assert.Equal(t, 1, result.Summary.FailedUploads)
	assert.Equal(t, 1, result.Summary.ProcessingUploads)
	assert.Equal(t, 2, result.Summary.ActiveUsers)

	sum := 0
	for _, u := range result.Users {
		sum += u.Total
	}
	assert.Equal(t, result.Summary.TotalUploads, sum)

	// Idle profiles still show as zero rows.
	require.GreaterOrEqual(t, len(result.Users), 5)
	assert.Equal(t, 0, result.Users[len(result.Users)-1].Total)
}

func TestOverviewRanksByTotal(t *testing.T) {
	c, rec := statsContext(t, database.TestAdminUser, "/stats")

	ctrl.Overview(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var result statscore.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	// Recruiter one seeded two uploads, recruiter two seeded one.
	assert.Equal(t, database.TestRecruiter1.ID.String(), result.Users[0].UserID)
	assert.Equal(t, 2, result.Users[0].Total)
}

func TestMineScopesToCaller(t *testing.T) {
	c, rec := statsContext(t, database.TestRecruiter2, "/stats/me")

	ctrl.Mine(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var row statscore.UserRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
	assert.Equal(t, database.TestRecruiter2.ID.String(), row.UserID)
	assert.Equal(t, 1, row.Total)
	assert.Equal(t, 1, row.Failed)
}
