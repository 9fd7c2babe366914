package models

import "strings"

// DateRecordItem is one stop within a date.
type DateRecordItem struct {
	ID       string   `json:"id"`
	Time     string   `json:"time,omitempty"`
	Location string   `json:"location,omitempty"`
	Activity string   `json:"activity"`
	Cost     *float64 `json:"cost,omitempty"`
	PaidBy   Party    `json:"paidBy,omitempty"`
}

// CostValue returns the item cost, 0 when unset.
func (i DateRecordItem) CostValue() float64 {
	if i.Cost == nil {
		return 0
	}
	return *i.Cost
}

// DateMiscExpense is a small purchase not tied to any stop.
type DateMiscExpense struct {
	ID       string  `json:"id"`
	Activity string  `json:"activity"`
	Cost     float64 `json:"cost"`
	PaidBy   Party   `json:"paidBy"`
}

// DateRecord is one day spent together.
type DateRecord struct {
	ID           string            `json:"id"`
	PersonID     string            `json:"personId"`
	Date         string            `json:"date"`
	Items        []DateRecordItem  `json:"items"`
	MiscExpenses []DateMiscExpense `json:"miscExpenses"`
	Notes        string            `json:"notes"`
	Photos       []string          `json:"photos"`
	Tags         []string          `json:"tags"`
	InitiatedBy  Party             `json:"initiatedBy,omitempty"`
	CreatedAt    string            `json:"createdAt"`
	UpdatedAt    string            `json:"updatedAt"`
}

func (d DateRecord) GetID() string       { return d.ID }
func (d DateRecord) GetPersonID() string { return d.PersonID }

// TotalCost is the sum of every item and misc expense cost.
func (d DateRecord) TotalCost() float64 {
	return d.costBy("")
}

// CostBy sums the costs paid by p.
func (d DateRecord) CostBy(p Party) float64 {
	return d.costBy(p)
}

func (d DateRecord) costBy(p Party) float64 {
	var sum float64
	for _, it := range d.Items {
		if p == "" || it.PaidBy == p {
			sum += it.CostValue()
		}
	}
	for _, m := range d.MiscExpenses {
		if p == "" || m.PaidBy == p {
			sum += m.Cost
		}
	}
	return sum
}

// Summary describes the itinerary in one line: "location · activity" for a
// single stop, otherwise the activities joined with arrows.
func (d DateRecord) Summary() string {
	switch len(d.Items) {
	case 0:
		return "no itinerary"
	case 1:
		it := d.Items[0]
		parts := make([]string, 0, 2)
		for _, s := range []string{it.Location, it.Activity} {
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " · ")
	}
	parts := make([]string, len(d.Items))
	for i, it := range d.Items {
		parts[i] = it.Activity
	}
	return strings.Join(parts, " → ")
}

// Normalize drops blank items and misc expenses that have no activity or no
// positive cost, then validates what is left. It mutates d.
func (d *DateRecord) Normalize() error {
	if strings.TrimSpace(d.Date) == "" {
		return ErrDateRequired
	}

	items := make([]DateRecordItem, 0, len(d.Items))
	for _, it := range d.Items {
		it.Activity = strings.TrimSpace(it.Activity)
		if it.Activity == "" {
			continue
		}
		if it.Cost != nil && *it.Cost < 0 {
			return ErrNegativeCost
		}
		if it.PaidBy != "" && !it.PaidBy.Valid() {
			return ErrUnknownValue
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return ErrNoItems
	}

	misc := make([]DateMiscExpense, 0, len(d.MiscExpenses))
	for _, m := range d.MiscExpenses {
		m.Activity = strings.TrimSpace(m.Activity)
		if m.Cost < 0 {
			return ErrNegativeCost
		}
		if m.Activity == "" || m.Cost <= 0 {
			continue
		}
		if m.PaidBy == "" {
			m.PaidBy = PartyMe
		}
		misc = append(misc, m)
	}

	if d.InitiatedBy != "" && !d.InitiatedBy.Valid() {
		return ErrUnknownValue
	}

	d.Items = items
	d.MiscExpenses = misc
	if d.Photos == nil {
		d.Photos = []string{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return nil
}
