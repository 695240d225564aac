// Package stats reduces resume upload rows into the counters shown on the
// admin and per-user statistics screens. Everything here is a single pure
// pass over in-memory rows; callers refetch and re-run on change events.
package stats

import (
	"sort"
	"time"

	"TalentScope-backend/internal/model"
)

// RecentLimit caps the recent-uploads list in aggregate results.
const RecentLimit = 20

// Summary holds the global counters over the aggregated window.
type Summary struct {
	TotalUploads      int `json:"totalUploads"`
	TodayUploads      int `json:"todayUploads"`
	WeekUploads       int `json:"weekUploads"`
	PendingQueue      int `json:"pendingQueue"`
	ProcessingUploads int `json:"processingUploads"`
	SuccessUploads    int `json:"successUploads"`
	FailedUploads     int `json:"failedUploads"`
	ActiveUsers       int `json:"activeUsers"`
}

// UserRow is one uploader's counters. Key is the attribution key: user id
// when present, else uploader email, else the record id, so every upload
// lands in exactly one row.
type UserRow struct {
	Key        string `json:"key"`
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Total      int    `json:"total"`
	Today      int    `json:"today"`
	Pending    int    `json:"pending"`
	Processing int    `json:"processing"`
	Success    int    `json:"success"`
	Failed     int    `json:"failed"`
}

// RecentUpload is one row of the recency-sorted display list.
type RecentUpload struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	UserName  string    `json:"userName"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Result bundles one aggregation pass.
type Result struct {
	Summary Summary        `json:"summary"`
	Users   []UserRow      `json:"users"`
	Recent  []RecentUpload `json:"recent"`
}

// DayStart returns local midnight for now.
func DayStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// WeekStart returns local midnight seven days before now.
func WeekStart(now time.Time) time.Time {
	return DayStart(now).AddDate(0, 0, -7)
}

// Aggregate reduces rows into global and per-uploader counters. rows are
// expected in recency order (newest first); the recent list reuses that
// order. profiles supplies known accounts so that uploaders with zero
// activity still appear in the per-user table.
func Aggregate(rows []model.ResumeUpload, profiles []model.User, now time.Time) Result {
	todayStart := DayStart(now)
	weekStart := WeekStart(now)

	var summary Summary
	userMap := make(map[string]*UserRow)
	order := make([]string, 0, len(profiles)+8)

	// Seed zero rows for every known profile up front so they keep a
	// stable position even with no uploads.
	for _, p := range profiles {
		email := ""
		if p.Email != nil {
			email = *p.Email
		}
		key := p.ID.String()
		if _, ok := userMap[key]; ok {
			continue
		}
		userMap[key] = &UserRow{
			Key:    key,
			UserID: p.ID.String(),
			Name:   displayOrEmail(p.DisplayName, email),
			Email:  emailOrDash(email),
		}
		order = append(order, key)
	}

	for i := range rows {
		row := &rows[i]
		bucket := row.Bucket()
		isToday := !row.CreatedAt.Before(todayStart)
		isWeek := !row.CreatedAt.Before(weekStart)

		summary.TotalUploads++
		if isToday {
			summary.TodayUploads++
		}
		if isWeek {
			summary.WeekUploads++
		}
		if row.InQueue() {
			summary.PendingQueue++
		}
		switch bucket {
		case "success":
			summary.SuccessUploads++
		case "failed":
			summary.FailedUploads++
		default:
			summary.ProcessingUploads++
		}

		key := attributionKey(row)
		current, ok := userMap[key]
		if !ok {
			current = &UserRow{
				Key:    key,
				UserID: uploadUserID(row),
				Name:   uploaderName(row),
				Email:  uploaderEmail(row),
			}
			userMap[key] = current
			order = append(order, key)
		}

		current.Total++
		if isToday {
			current.Today++
		}
		if row.InQueue() {
			current.Pending++
		}
		switch bucket {
		case "success":
			current.Success++
		case "failed":
			current.Failed++
		default:
			current.Processing++
		}
	}

	users := make([]UserRow, 0, len(order))
	for _, key := range order {
		row := userMap[key]
		if row.Total > 0 {
			summary.ActiveUsers++
		}
		users = append(users, *row)
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].Total != users[j].Total {
			return users[i].Total > users[j].Total
		}
		return users[i].Today > users[j].Today
	})

	recent := make([]RecentUpload, 0, RecentLimit)
	for i := range rows {
		if len(recent) == RecentLimit {
			break
		}
		row := &rows[i]
		recent = append(recent, RecentUpload{
			ID:        row.ID.String(),
			Filename:  filenameOrPlaceholder(row.Filename),
			UserName:  uploaderName(row),
			Status:    row.Bucket(),
			CreatedAt: row.CreatedAt,
		})
	}

	return Result{Summary: summary, Users: users, Recent: recent}
}

func attributionKey(row *model.ResumeUpload) string {
	if row.UserID != nil {
		return row.UserID.String()
	}
	if row.UploaderEmail != nil && *row.UploaderEmail != "" {
		return *row.UploaderEmail
	}
	return row.ID.String()
}

func uploadUserID(row *model.ResumeUpload) string {
	if row.UserID != nil {
		return row.UserID.String()
	}
	return ""
}

func uploaderName(row *model.ResumeUpload) string {
	if row.UploaderName != nil && *row.UploaderName != "" {
		return *row.UploaderName
	}
	if row.UploaderEmail != nil && *row.UploaderEmail != "" {
		return *row.UploaderEmail
	}
	return "unknown"
}

func uploaderEmail(row *model.ResumeUpload) string {
	if row.UploaderEmail != nil && *row.UploaderEmail != "" {
		return *row.UploaderEmail
	}
	return "-"
}

func displayOrEmail(name, email string) string {
	if name != "" {
		return name
	}
	if email != "" {
		return email
	}
	return "unknown"
}

func emailOrDash(email string) string {
	if email == "" {
		return "-"
	}
	return email
}

func filenameOrPlaceholder(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}
