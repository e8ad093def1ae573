package model

import (
	"fmt"
	"slices"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// allowedTransitions lists the statuses each status may move to. Completed and
// cancelled bookings are final.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

// ActiveStatuses hold a room. At most one booking per room may be in one of
// these at a time.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if _, ok := allowedTransitions[status]; !ok {
		return "", fmt.Errorf("unknown booking status %q", raw)
	}

	return status, nil
}

func (s Status) CanTransition(to Status) bool {
	return slices.Contains(allowedTransitions[s], to)
}

func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}
