package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "TalentScope-backend/internal/model"
	"TalentScope-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context) error

// Exported seeded accounts and records for package tests
var (
	TestAdminUser     m.User
	TestRecruiter1    m.User
	TestRecruiter2    m.User
	TestPendingUser   m.User
	TestRejectedUser  m.User

	// Exported plain password shared by all seeded accounts
	TestSeedPassword = "SeedPass123!"

	TestCandidate1 m.Candidate
	TestCandidate2 m.Candidate
	TestCandidate3 m.Candidate

	TestUpload1 m.ResumeUpload
	TestUpload2 m.ResumeUpload
	TestUpload3 m.ResumeUpload

	TestPosition1 m.Position
	TestPosition2 m.Position
)

// matchFunctionSQL is a reference implementation of the matching routine the
// service calls by name. Production databases ship their own; this one keeps
// the contract testable: hits against name and self evaluation, score as
// matched over total keywords, "all" mode requires a full hit.
const matchFunctionSQL = `
CREATE OR REPLACE FUNCTION match_candidates_for_position(p_position_id bigint, p_limit int, p_offset int)
RETURNS TABLE (candidate_id uuid, match_score double precision, matched_keywords text[], total_keywords int)
LANGUAGE plpgsql AS $fn$
DECLARE
	kws text[];
	mode text;
BEGIN
	SELECT required_keywords, match_mode INTO kws, mode
	FROM positions WHERE id = p_position_id;
	IF kws IS NULL OR cardinality(kws) = 0 THEN
		RETURN;
	END IF;
	RETURN QUERY
	SELECT c.id,
		(cardinality(hits.matched)::double precision / cardinality(kws)),
		hits.matched,
		cardinality(kws)
	FROM candidates c
	CROSS JOIN LATERAL (
		SELECT COALESCE(array_agg(kw), '{}'::text[]) AS matched
		FROM unnest(kws) AS kw
		WHERE c.self_evaluation ILIKE '%' || kw || '%'
		   OR c.name ILIKE '%' || kw || '%'
	) hits
	WHERE cardinality(hits.matched) > 0
	  AND (mode <> 'all' OR cardinality(hits.matched) = cardinality(kws))
	ORDER BY 2 DESC, c.id
	LIMIT p_limit OFFSET p_offset;
END;
$fn$;
`

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := db.Exec(matchFunctionSQL).Error; err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample accounts, candidates, uploads and positions if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	userSpecs := []struct {
		name     string
		email    string
		role     string
		approval string
	}{
		{"Seed Admin", "admin@example.com", m.RoleAdmin, m.ApprovalApproved},
		{"Recruiter One", "recruiter1@example.com", m.RoleUser, m.ApprovalApproved},
		{"Recruiter Two", "recruiter2@example.com", m.RoleUser, m.ApprovalApproved},
		{"Waiting Account", "pending@example.com", m.RoleUser, m.ApprovalPending},
		{"Refused Account", "rejected@example.com", m.RoleUser, m.ApprovalRejected},
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:             uuid.New(),
			Email:          ptr(s.email),
			DisplayName:    s.name,
			Password:       hashedPwd,
			Role:           s.role,
			ApprovalStatus: s.approval,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	assignUsers(users)

	goTag := m.Tag{TagName: "golang", Category: m.TagCategoryTech}
	reactTag := m.Tag{TagName: "react", Category: m.TagCategoryTech}
	quantTag := m.Tag{TagName: "backtesting", Category: m.TagCategoryQuant}
	if err := db.Create(&[]*m.Tag{&goTag, &reactTag, &quantTag}).Error; err != nil {
		return err
	}

	start1 := time.Date(2022, 4, 1, 0, 0, 0, 0, time.UTC)
	start2 := time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)
	eduStart := time.Date(2015, 9, 1, 0, 0, 0, 0, time.UTC)

	candidates := []m.Candidate{
		{
			ID:             uuid.New(),
			Name:           "Alice Zhang",
			Phone:          ptr("13800000001"),
			Email:          ptr("alice@candidates.example.com"),
			Location:       "Shanghai",
			DegreeLevel:    "Master",
			WorkYears:      5,
			SelfEvaluation: "Seasoned golang backend engineer, postgres and redis.",
			WorkExperiences: []m.WorkExperience{
				{Company: "CloudWorks", Role: "Backend Engineer", StartDate: &start2},
				{Company: "DataForge", Role: "Junior Engineer", StartDate: &start1},
			},
			Educations: []m.Education{
				{School: "Fudan University", Degree: "Master", Major: "CS", SchoolTags: pq.StringArray{"985", "211"}, StartDate: &eduStart},
			},
			Tags: []m.Tag{goTag},
		},
		{
			ID:             uuid.New(),
			Name:           "王小明",
			Location:       "北京市",
			DegreeLevel:    "Bachelor",
			WorkYears:      2,
			IsOutsourcing:  true,
			SelfEvaluation: "react 前端开发, familiar with typescript.",
			WorkExperiences: []m.WorkExperience{
				{Company: "外包科技", Role: "前端工程师", StartDate: &start2},
			},
			Educations: []m.Education{
				{School: "北京理工大学", Degree: "Bachelor", Major: "Software", SchoolTags: pq.StringArray{"211"}, StartDate: &eduStart},
			},
			Tags: []m.Tag{reactTag},
		},
		{
			ID:             uuid.New(),
			Name:           "Carol Lee",
			Phone:          ptr("13800000003"),
			Location:       "Shenzhen",
			DegreeLevel:    "PhD",
			WorkYears:      8,
			SelfEvaluation: "Quant researcher, python backtesting and golang tooling.",
			Projects: []m.Project{
				{ProjectName: "Signal Library", Role: "Owner", Description: "Factor research toolkit"},
			},
			Tags: []m.Tag{quantTag, goTag},
		},
	}
	if err := db.Create(&candidates).Error; err != nil {
		return err
	}
	TestCandidate1 = candidates[0]
	TestCandidate2 = candidates[1]
	TestCandidate3 = candidates[2]

	uploads := []m.ResumeUpload{
		{
			ID:            uuid.New(),
			UserID:        &TestRecruiter1.ID,
			UploaderName:  ptr(TestRecruiter1.DisplayName),
			UploaderEmail: TestRecruiter1.Email,
			Filename:      "alice_zhang.pdf",
			FileHash:      "a1b2c3d4e5f60718a1b2c3d4e5f60718a1b2c3d4e5f60718a1b2c3d4e5f60718",
			FileSize:      120_000,
			StoragePath:   fmt.Sprintf("%s/1700000000000_a1b2c3d4e5f60718.pdf", TestRecruiter1.ID),
			Status:        m.UploadStatusSuccess,
			CandidateID:   &TestCandidate1.ID,
		},
		{
			ID:            uuid.New(),
			UserID:        &TestRecruiter1.ID,
			UploaderName:  ptr(TestRecruiter1.DisplayName),
			UploaderEmail: TestRecruiter1.Email,
			Filename:      "wang_xiaoming.pdf",
			FileHash:      "b2c3d4e5f60718a9b2c3d4e5f60718a9b2c3d4e5f60718a9b2c3d4e5f60718a9",
			FileSize:      98_000,
			StoragePath:   fmt.Sprintf("%s/1700000001000_b2c3d4e5f60718a9.pdf", TestRecruiter1.ID),
			Status:        m.UploadStatusPending,
		},
		{
			ID:            uuid.New(),
			UserID:        &TestRecruiter2.ID,
			UploaderName:  ptr(TestRecruiter2.DisplayName),
			UploaderEmail: TestRecruiter2.Email,
			Filename:      "broken_scan.pdf",
			FileHash:      "c3d4e5f60718a9b0c3d4e5f60718a9b0c3d4e5f60718a9b0c3d4e5f60718a9b0",
			FileSize:      45_000,
			StoragePath:   fmt.Sprintf("%s/1700000002000_c3d4e5f60718a9b0.pdf", TestRecruiter2.ID),
			Status:        m.UploadStatusFailed,
			ErrorReason:   ptr("ocr produced no text"),
		},
	}
	if err := db.Create(&uploads).Error; err != nil {
		return err
	}
	TestUpload1 = uploads[0]
	TestUpload2 = uploads[1]
	TestUpload3 = uploads[2]

	positions := []m.Position{
		{
			EditablePositionInfo: m.EditablePositionInfo{
				Title:            "Senior Go Engineer",
				Department:       "Platform",
				Category:         "tech",
				Status:           m.PositionOpen,
				MatchMode:        m.MatchModeAny,
				RequiredKeywords: pq.StringArray{"golang", "postgres"},
				Description:      "Own the ingestion services.",
			},
		},
		{
			EditablePositionInfo: m.EditablePositionInfo{
				Title:            "Quant Researcher",
				Department:       "Research",
				Category:         "quant",
				Status:           m.PositionOpen,
				MatchMode:        m.MatchModeAll,
				RequiredKeywords: pq.StringArray{"python", "backtesting"},
				Description:      "Factor research and signal evaluation.",
			},
		},
	}
	if err := db.Create(&positions).Error; err != nil {
		return err
	}
	TestPosition1 = positions[0]
	TestPosition2 = positions[1]

	return nil
}

func assignUsers(users []m.User) {
	for _, u := range users {
		if u.Email == nil {
			continue
		}
		switch *u.Email {
		case "admin@example.com":
			TestAdminUser = u
		case "recruiter1@example.com":
			TestRecruiter1 = u
		case "recruiter2@example.com":
			TestRecruiter2 = u
		case "pending@example.com":
			TestPendingUser = u
		case "rejected@example.com":
			TestRejectedUser = u
		}
	}
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("email IN ?", []string{
		"admin@example.com", "recruiter1@example.com", "recruiter2@example.com",
		"pending@example.com", "rejected@example.com",
	}).Find(&users).Error; err != nil {
		return err
	}
	assignUsers(users)

	var candidates []m.Candidate
	if err := db.Order("created_at ASC").Limit(3).Find(&candidates).Error; err != nil {
		return err
	}
	if len(candidates) > 0 {
		TestCandidate1 = candidates[0]
	}
	if len(candidates) > 1 {
		TestCandidate2 = candidates[1]
	}
	if len(candidates) > 2 {
		TestCandidate3 = candidates[2]
	}

	var uploads []m.ResumeUpload
	if err := db.Order("created_at ASC").Limit(3).Find(&uploads).Error; err != nil {
		return err
	}
	if len(uploads) > 0 {
		TestUpload1 = uploads[0]
	}
	if len(uploads) > 1 {
		TestUpload2 = uploads[1]
	}
	if len(uploads) > 2 {
		TestUpload3 = uploads[2]
	}

	var positions []m.Position
	if err := db.Order("id ASC").Limit(2).Find(&positions).Error; err != nil {
		return err
	}
	if len(positions) > 0 {
		TestPosition1 = positions[0]
	}
	if len(positions) > 1 {
		TestPosition2 = positions[1]
	}

	return nil
}

// ptr helper
func ptr[T any](v T) *T { return &v }
