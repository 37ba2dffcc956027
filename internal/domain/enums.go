package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RolePartner Role = "partner"
)

// Roles lists every role in the order the admin form offers them.
func Roles() []Role {
	return []Role{RoleAdmin, RoleAnalyst, RolePartner}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RolePartner:
		return true
	}
	return false
}

// CanEditPipeline reports whether the role may create, edit or move deals
// and write memos.
func (r Role) CanEditPipeline() bool {
	return r == RoleAdmin || r == RoleAnalyst
}

// CanAdminister reports whether the role may manage user accounts.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// IsPartner reports whether the role gets the partner action set
// (comment, vote, approve, decline).
func (r Role) IsPartner() bool {
	return r == RolePartner
}

// Stage is a pipeline phase. The set is fixed and ordered.
type Stage string

const (
	StageSourced   Stage = "sourced"
	StageScreen    Stage = "screen"
	StageDiligence Stage = "diligence"
	StageIC        Stage = "ic"
	StageInvested  Stage = "invested"
	StagePassed    Stage = "passed"
)

var stageLabels = map[Stage]string{
	StageSourced:   "Sourced",
	StageScreen:    "Screen",
	StageDiligence: "Diligence",
	StageIC:        "IC Review",
	StageInvested:  "Invested",
	StagePassed:    "Passed",
}

// Stages returns the board columns in pipeline order.
func Stages() []Stage {
	return []Stage{StageSourced, StageScreen, StageDiligence, StageIC, StageInvested, StagePassed}
}

func (s Stage) Valid() bool {
	_, ok := stageLabels[s]
	return ok
}

// Label returns the column heading for the stage.
func (s Stage) Label() string {
	if l, ok := stageLabels[s]; ok {
		return l
	}
	return string(s)
}

// Index returns the column position of s, or -1 for unknown stages.
func (s Stage) Index() int {
	for i, st := range Stages() {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStage accepts either the wire value ("ic") or the label ("IC Review"),
// case-insensitively.
func ParseStage(input string) (Stage, error) {
	in := strings.TrimSpace(strings.ToLower(input))
	for _, s := range Stages() {
		if in == string(s) || in == strings.ToLower(s.Label()) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (want one of sourced, screen, diligence, ic, invested, passed)", input)
}

type DealStatus string

const (
	DealActive   DealStatus = "active"
	DealArchived DealStatus = "archived"
	DealApproved DealStatus = "approved"
	DealDeclined DealStatus = "declined"
)

func (s DealStatus) Valid() bool {
	switch s {
	case DealActive, DealArchived, DealApproved, DealDeclined:
		return true
	}
	return false
}

// IsTerminal reports whether a partner decision has closed the deal.
func (s DealStatus) IsTerminal() bool {
	return s == DealApproved || s == DealDeclined
}

type ActivityType string

const (
	ActivityStageChange ActivityType = "stage_change"
	ActivityComment     ActivityType = "comment"
	ActivityVote        ActivityType = "vote"
	ActivityApproval    ActivityType = "approval"
	ActivityDecline     ActivityType = "decline"
	ActivityMemoUpdated ActivityType = "memo_updated"
)
