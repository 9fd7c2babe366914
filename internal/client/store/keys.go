package store

// Storage keys. Each data key holds one JSON array.
const (
	KeyPersons     = "love-ops-persons"
	KeyDates       = "love-ops-dates"
	KeyMilestones  = "love-ops-milestones"
	KeyImpressions = "love-ops-impressions"
	KeyQuestions   = "love-ops-questions"
	KeyPlans       = "love-ops-plans"
	KeyDecisions   = "love-ops-decisions"
	KeyReminders   = "love-ops-reminders"

	KeyTheme      = "love-ops-theme"
	KeyLastSynced = "love-ops-last-synced"
	KeySession    = "love-ops-session"
)

// DataKeys lists the keys covered by backups and sync.
var DataKeys = []string{
	KeyPersons, KeyDates, KeyMilestones, KeyImpressions,
	KeyQuestions, KeyPlans, KeyDecisions, KeyReminders,
}

// corruptSuffix marks the copy of a blob that failed to decode.
const corruptSuffix = ".corrupt"
