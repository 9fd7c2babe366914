package models

// BackupVersion is the version written into every exported document.
const BackupVersion = 1

// BackupData is the full portable snapshot of the store. The same document
// is used for backup files and for the remote sync row.
type BackupData struct {
	Version     int               `json:"version"`
	ExportedAt  string            `json:"exportedAt"`
	Persons     []Person          `json:"persons"`
	Dates       []DateRecord      `json:"dates"`
	Milestones  []Milestone       `json:"milestones"`
	Impressions []Impression      `json:"impressions"`
	Questions   []PendingQuestion `json:"questions"`
	Plans       []NextPlan        `json:"plans"`
	Decisions   []Decision        `json:"decisions"`
	Reminders   []Reminder        `json:"reminders"`
}
