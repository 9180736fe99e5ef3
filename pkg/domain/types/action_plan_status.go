package types

import "github.com/m-mizutani/goerr/v2"

// ActionPlanStatus represents the progress of an action plan
type ActionPlanStatus string

const (
	ActionPlanStatusTodo       ActionPlanStatus = "todo"
	ActionPlanStatusInProgress ActionPlanStatus = "in_progress"
	ActionPlanStatusDone       ActionPlanStatus = "done"
)

// AllActionPlanStatuses returns all valid action plan statuses
func AllActionPlanStatuses() []ActionPlanStatus {
	return []ActionPlanStatus{
		ActionPlanStatusTodo,
		ActionPlanStatusInProgress,
		ActionPlanStatusDone,
	}
}

// IsValid checks if the action plan status is valid
func (s ActionPlanStatus) IsValid() bool {
	switch s {
	case ActionPlanStatusTodo,
		ActionPlanStatusInProgress,
		ActionPlanStatusDone:
		return true
	default:
		return false
	}
}

// IsOpen is true until the plan is done
func (s ActionPlanStatus) IsOpen() bool {
	return s != ActionPlanStatusDone
}

func (s ActionPlanStatus) String() string {
	return string(s)
}

// ParseActionPlanStatus parses a string into an ActionPlanStatus
func ParseActionPlanStatus(s string) (ActionPlanStatus, error) {
	status := ActionPlanStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid action plan status", goerr.V("status", s))
	}
	return status, nil
}
