package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vgurov/talentflow/internal/candidate/models"
)

// allowedEdges is an independent statement of the transition table, used to
// exhaustively cross-check the engine over every status pair.
var allowedEdges = map[models.CandidateStatus][]models.CandidateStatus{
	models.Pending:            {models.InterviewScheduled, models.Rejected, models.Withdrawn, models.OnHold},
	models.InterviewScheduled: {models.InProgress, models.Completed, models.Rejected, models.OnHold, models.Withdrawn},
	models.InProgress:         {models.Completed, models.Rejected, models.OnHold},
	models.OnHold:             {models.InterviewScheduled, models.InProgress, models.Rejected, models.Withdrawn},
	models.Completed:          {},
	models.Rejected:           {},
	models.Withdrawn:          {},
}

func edgeAllowed(from, to models.CandidateStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TestIsTransitionAllowed_ExhaustiveGrid checks every (current, requested)
// pair against the reference table.
func TestIsTransitionAllowed_ExhaustiveGrid(t *testing.T) {
	for _, from := range models.AllStatuses {
		for _, to := range models.AllStatuses {
			got := IsTransitionAllowed(from, to)
			want := edgeAllowed(from, to)
			assert.Equal(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

// TestIsTransitionAllowed_SelfTransition verifies the idempotent no-op
// update path for every status, including terminal ones.
func TestIsTransitionAllowed_SelfTransition(t *testing.T) {
	for _, s := range models.AllStatuses {
		assert.True(t, IsTransitionAllowed(s, s), "self-transition for %s", s)
	}
}

// TestIsTransitionAllowed_DirectCompletionEdge pins the edge that skips the
// IN_PROGRESS checkpoint.
func TestIsTransitionAllowed_DirectCompletionEdge(t *testing.T) {
	assert.True(t, IsTransitionAllowed(models.InterviewScheduled, models.Completed))
}

func TestIsTransitionAllowed_UnknownStatus(t *testing.T) {
	assert.False(t, IsTransitionAllowed("BOGUS", models.Pending))
	assert.False(t, IsTransitionAllowed(models.Pending, "BOGUS"))
	assert.False(t, IsTransitionAllowed("BOGUS", "BOGUS"))
}

// TestNextStatuses_MatchesEngine verifies the "next possible statuses"
// query is derived from the same table as the allow/deny decision.
func TestNextStatuses_MatchesEngine(t *testing.T) {
	for _, from := range models.AllStatuses {
		next := NextStatuses(from)

		inNext := make(map[models.CandidateStatus]bool, len(next))
		for _, s := range next {
			inNext[s] = true
		}
		for _, to := range models.AllStatuses {
			if to == from {
				continue
			}
			assert.Equal(t, IsTransitionAllowed(from, to), inNext[to],
				"NextStatuses(%s) disagrees with IsTransitionAllowed for %s", from, to)
		}
	}
}

func TestNextStatuses_TerminalStatusesAreEmpty(t *testing.T) {
	for _, s := range []models.CandidateStatus{models.Completed, models.Rejected, models.Withdrawn} {
		assert.True(t, IsTerminal(s), "%s should be terminal", s)
		assert.Empty(t, NextStatuses(s), "terminal status %s should have no out-edges", s)
	}
}

func TestNextStatuses_DeterministicOrder(t *testing.T) {
	assert.Equal(t, NextStatuses(models.Pending), NextStatuses(models.Pending))
	assert.Equal(t,
		[]models.CandidateStatus{models.InterviewScheduled, models.Rejected, models.OnHold, models.Withdrawn},
		NextStatuses(models.Pending))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range models.AllStatuses {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("HIRED"))
	assert.False(t, IsValidStatus(""))
}
