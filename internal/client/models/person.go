package models

import "strings"

// Person is a dating candidate. Photos hold URLs or inline data URIs.
type Person struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Stage             Stage       `json:"stage,omitempty"`
	Age               *int        `json:"age,omitempty"`
	Job               string      `json:"job,omitempty"`
	Education         string      `json:"education,omitempty"`
	Photos            []string    `json:"photos"`
	Hobbies           string      `json:"hobbies,omitempty"`
	FamilyBg          string      `json:"familyBg,omitempty"`
	Contact           string      `json:"contact,omitempty"`
	Matchmaker        string      `json:"matchmaker,omitempty"`
	MatchmakerContact string      `json:"matchmakerContact,omitempty"`
	MeetChannel       MeetChannel `json:"meetChannel,omitempty"`
	MeetChannelNote   string      `json:"meetChannelNote,omitempty"`
	CreatedAt         string      `json:"createdAt"`
	UpdatedAt         string      `json:"updatedAt"`
}

func (p Person) GetID() string { return p.ID }

// EffectiveStage treats a missing stage as StageInitial.
func (p Person) EffectiveStage() Stage {
	if p.Stage == "" {
		return StageInitial
	}
	return p.Stage
}

// Validate checks the fields a person cannot be saved without.
func (p *Person) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Stage != "" && !p.Stage.Valid() {
		return ErrUnknownValue
	}
	if p.MeetChannel != "" && !p.MeetChannel.Valid() {
		return ErrUnknownValue
	}
	if p.Age != nil && *p.Age < 0 {
		return ErrNegativeAge
	}
	if p.Photos == nil {
		p.Photos = []string{}
	}
	return nil
}
