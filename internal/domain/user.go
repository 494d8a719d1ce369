package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a ledger participant keyed by the opaque sender identity the
// transport reports. Balance is whole currency units.
type User struct {
	ID             string              `json:"-"`
	Balance        decimal.Decimal     `json:"balance"`
	CompletedTasks []string            `json:"completedTasks"`
	Account        string              `json:"account"`
	TaskHistory    map[string][]string `json:"taskHistory"`
}

// NewUser returns a zeroed user record for id.
func NewUser(id string) *User {
	return &User{
		ID:             id,
		Balance:        decimal.Zero,
		CompletedTasks: []string{},
		Account:        "",
		TaskHistory:    map[string][]string{},
	}
}

// CreditedOn reports whether taskID was already credited to the user on date.
func (u *User) CreditedOn(taskID, date string) bool {
	for _, d := range u.TaskHistory[taskID] {
		if d == date {
			return true
		}
	}
	return false
}

// CreditDays returns the number of days taskID has been credited so far.
func (u *User) CreditDays(taskID string) int {
	return len(u.TaskHistory[taskID])
}

// DateOf formats t as the calendar-date key used in task histories.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
