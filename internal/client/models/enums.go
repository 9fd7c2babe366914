package models

// Stage is the relationship stage of a person.
type Stage string

const (
	StageInitial       Stage = "initial"
	StageGettingToKnow Stage = "getting_to_know"
	StageDating        Stage = "dating"
	StageConsidering   Stage = "considering"
	StageEnded         Stage = "ended"
)

// Stages lists stages in display order.
var Stages = []Stage{StageInitial, StageGettingToKnow, StageDating, StageConsidering, StageEnded}

var stageLabels = map[Stage]string{
	StageInitial:       "Just met",
	StageGettingToKnow: "Getting to know",
	StageDating:        "Dating",
	StageConsidering:   "Considering",
	StageEnded:         "Ended",
}

func (s Stage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label returns the display name; an empty stage reads as StageInitial.
func (s Stage) Label() string {
	if s == "" {
		s = StageInitial
	}
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// MeetChannel is how the user met a person.
type MeetChannel string

const (
	MeetFriend     MeetChannel = "friend"
	MeetBlindDate  MeetChannel = "blind_date"
	MeetDatingApp  MeetChannel = "dating_app"
	MeetMatchmaker MeetChannel = "matchmaker"
	MeetFamily     MeetChannel = "family"
	MeetOther      MeetChannel = "other"
)

var meetChannelLabels = map[MeetChannel]string{
	MeetFriend:     "Through friends",
	MeetBlindDate:  "Blind date",
	MeetDatingApp:  "Dating app",
	MeetMatchmaker: "Matchmaker",
	MeetFamily:     "Family introduction",
	MeetOther:      "Other",
}

func (m MeetChannel) Valid() bool {
	_, ok := meetChannelLabels[m]
	return ok
}

func (m MeetChannel) Label() string {
	if l, ok := meetChannelLabels[m]; ok {
		return l
	}
	return string(m)
}

// ContinueDecision is the outcome of a decision record.
type ContinueDecision string

const (
	DecisionContinue  ContinueDecision = "continue"
	DecisionPause     ContinueDecision = "pause"
	DecisionEnd       ContinueDecision = "end"
	DecisionUndecided ContinueDecision = "undecided"
)

var decisionLabels = map[ContinueDecision]string{
	DecisionContinue:  "Continue",
	DecisionPause:     "Pause",
	DecisionEnd:       "End",
	DecisionUndecided: "Undecided",
}

func (d ContinueDecision) Valid() bool {
	_, ok := decisionLabels[d]
	return ok
}

func (d ContinueDecision) Label() string {
	if l, ok := decisionLabels[d]; ok {
		return l
	}
	return string(d)
}

// Party identifies who paid for something or who initiated a date.
type Party string

const (
	PartyMe   Party = "me"
	PartyThem Party = "them"
)

func (p Party) Valid() bool {
	return p == PartyMe || p == PartyThem
}

func (p Party) Label() string {
	switch p {
	case PartyMe:
		return "Me"
	case PartyThem:
		return "Them"
	default:
		return string(p)
	}
}
