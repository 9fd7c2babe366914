package models

type Milestone struct {
	ID        string `json:"id"`
	PersonID  string `json:"personId"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func (m Milestone) GetID() string       { return m.ID }
func (m Milestone) GetPersonID() string { return m.PersonID }

// Impression is the single current assessment of a person.
type Impression struct {
	ID          string   `json:"id"`
	PersonID    string   `json:"personId"`
	Pros        []string `json:"pros"`
	Cons        []string `json:"cons"`
	ToObserve   []string `json:"toObserve"`
	Tags        []string `json:"tags"`
	Personality string   `json:"personality,omitempty"`
	Values      string   `json:"values,omitempty"`
	Habits      string   `json:"habits,omitempty"`
	UpdatedAt   string   `json:"updatedAt"`
}

func (i Impression) GetID() string       { return i.ID }
func (i Impression) GetPersonID() string { return i.PersonID }

type PendingQuestion struct {
	ID           string `json:"id"`
	PersonID     string `json:"personId"`
	Question     string `json:"question"`
	Resolved     bool   `json:"resolved"`
	ResolvedNote string `json:"resolvedNote,omitempty"`
	CreatedAt    string `json:"createdAt"`
	ResolvedAt   string `json:"resolvedAt,omitempty"`
}

func (q PendingQuestion) GetID() string       { return q.ID }
func (q PendingQuestion) GetPersonID() string { return q.PersonID }

// NextPlan is the next planned meeting; a person has at most one.
type NextPlan struct {
	ID              string `json:"id"`
	PersonID        string `json:"personId"`
	PlannedDate     string `json:"plannedDate,omitempty"`
	PlannedLocation string `json:"plannedLocation,omitempty"`
	PlannedActivity string `json:"plannedActivity,omitempty"`
	Notes           string `json:"notes,omitempty"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func (p NextPlan) GetID() string       { return p.ID }
func (p NextPlan) GetPersonID() string { return p.PersonID }

// Decision records whether to keep seeing someone. Decisions form a history;
// the one with the greatest DecidedAt is current.
type Decision struct {
	ID        string           `json:"id"`
	PersonID  string           `json:"personId"`
	Decision  ContinueDecision `json:"decision"`
	Reason    string           `json:"reason,omitempty"`
	DecidedAt string           `json:"decidedAt"`
}

func (d Decision) GetID() string       { return d.ID }
func (d Decision) GetPersonID() string { return d.PersonID }

// Reminder fires on Date. Triggered is set once the user dismisses it and is
// never cleared.
type Reminder struct {
	ID        string `json:"id"`
	PersonID  string `json:"personId"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Time      string `json:"time,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Triggered bool   `json:"triggered"`
	CreatedAt string `json:"createdAt"`
}

func (r Reminder) GetID() string       { return r.ID }
func (r Reminder) GetPersonID() string { return r.PersonID }

// IsDue reports whether the reminder should be shown on day today (YYYY-MM-DD).
func (r Reminder) IsDue(today string) bool {
	return !r.Triggered && r.Date <= today
}
