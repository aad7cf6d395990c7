package internal

import "time"

// LabeledValue is one "label / value" pair read off a unit card.
type LabeledValue struct {
	Label string
	Value string
}

// UnitCard is a raw card as scraped from the status page.
type UnitCard struct {
	RawName    string
	Section    string
	InProgress bool
	Values     []LabeledValue
}

type RowClass string

const (
	RowClosed      RowClass = "closed"
	RowNearClosing RowClass = "nearClosing"
	RowNormal      RowClass = "normal"
)

type UnitRecord struct {
	SerialNumber     int      `json:"serialNumber"`
	Commission       string   `json:"commission"`
	UnitName         string   `json:"unitName"`
	RawName          string   `json:"rawName"`
	TurnoutRate      *float64 `json:"turnoutRate"`
	VotedCount       *int     `json:"votedCount"`
	TotalEligible    *int     `json:"totalEligible"`
	RemainingToClose *int     `json:"remainingToClose"`
	Growth           int      `json:"growth"`
	Target           bool     `json:"target"`
}

// Complete reports whether the record carries both an eligible-voter total
// and a remaining-to-close count.
func (r UnitRecord) Complete() bool {
	return r.TotalEligible != nil && *r.TotalEligible > 0 && r.RemainingToClose != nil
}

type Snapshot struct {
	Records   []UnitRecord `json:"records"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

func (s Snapshot) Empty() bool {
	return len(s.Records) == 0
}

type Summary struct {
	TotalGrowth        int `json:"totalGrowth"`
	CollegeGrowth      int `json:"collegeGrowth"`
	DepartmentGrowth   int `json:"departmentGrowth"`
	RemainingTotal     int `json:"remainingTotal"`
	RemainingTargetSum int `json:"remainingTargetSum"`
	Value              int `json:"value"`
}

type RunRow struct {
	ID         int
	TraceID    string
	Status     string
	Units      int
	DurationMs int64
	Error      string
	CreatedAt  string
}
