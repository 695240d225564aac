package utilities

import (
	"os"
	"strings"

	"TalentScope-backend/internal/model"
)

// BootstrapAdminEmails returns the allow-list from BOOTSTRAP_ADMIN_EMAILS,
// comma separated. Accounts on the list get admin capability regardless of
// their stored role, so an operator can never lock themselves out.
func BootstrapAdminEmails() []string {
	raw := os.Getenv("BOOTSTRAP_ADMIN_EMAILS")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	emails := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.ToLower(strings.TrimSpace(p)); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}

// HasAdminAccess reports whether the account may use admin surfaces: an
// approved admin role, or membership in the bootstrap email allow-list.
func HasAdminAccess(user model.User) bool {
	if user.IsAdmin() {
		return true
	}
	return user.Email != nil &&
		Contains(BootstrapAdminEmails(), strings.ToLower(*user.Email))
}
