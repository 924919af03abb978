package store

import "time"

// Meeting is a row of the meetings table. The coordinator reads only
// HostToken by MeetingCode; the other columns belong to whoever creates
// meetings.
type Meeting struct {
	MeetingCode string    `gorm:"column:meeting_code;primaryKey;size:64"`
	HostToken   string    `gorm:"column:host_token;not null"`
	Title       string    `gorm:"column:title"`
	Status      string    `gorm:"column:status;default:active"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Meeting) TableName() string { return "meetings" }
