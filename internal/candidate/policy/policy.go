// Package policy is the single authority on candidate status transitions.
// The edge table is data, not code: every layer that needs a transition
// decision (service validation, handler pre-checks, the transitions
// endpoint) derives it from here instead of keeping its own copy.
package policy

import (
	"github.com/vgurov/talentflow/internal/candidate/models"
)

// transitions is the directed edge table of the pipeline state machine.
// INTERVIEW_SCHEDULED -> COMPLETED is a direct edge: operators often record
// completion right after conducting an interview without an IN_PROGRESS
// checkpoint. COMPLETED, REJECTED and WITHDRAWN are terminal.
var transitions = map[models.CandidateStatus][]models.CandidateStatus{
	models.Pending: {
		models.InterviewScheduled, models.Rejected, models.Withdrawn, models.OnHold,
	},
	models.InterviewScheduled: {
		models.InProgress, models.Completed, models.Rejected, models.OnHold, models.Withdrawn,
	},
	models.InProgress: {
		models.Completed, models.Rejected, models.OnHold,
	},
	models.OnHold: {
		models.InterviewScheduled, models.InProgress, models.Rejected, models.Withdrawn,
	},
	models.Completed: {},
	models.Rejected:  {},
	models.Withdrawn: {},
}

// IsValidStatus reports whether s is a known pipeline status.
func IsValidStatus(s models.CandidateStatus) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether s has no outbound transitions.
func IsTerminal(s models.CandidateStatus) bool {
	return len(transitions[s]) == 0
}

// IsTransitionAllowed reports whether a candidate may move from current to
// requested. A self-transition is always allowed so that merge-based
// updates restating the current status stay idempotent no-ops.
func IsTransitionAllowed(current, requested models.CandidateStatus) bool {
	if !IsValidStatus(current) || !IsValidStatus(requested) {
		return false
	}
	if current == requested {
		return true
	}
	for _, next := range transitions[current] {
		if next == requested {
			return true
		}
	}
	return false
}

// NextStatuses returns the full out-edge set for current, in enum
// declaration order so presentation layers get a deterministic list.
// Terminal statuses yield an empty set.
func NextStatuses(current models.CandidateStatus) []models.CandidateStatus {
	out := make([]models.CandidateStatus, 0, len(transitions[current]))
	for _, s := range models.AllStatuses {
		if s == current {
			continue
		}
		if IsTransitionAllowed(current, s) {
			out = append(out, s)
		}
	}
	return out
}
