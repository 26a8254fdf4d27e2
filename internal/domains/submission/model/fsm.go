package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// LIFECYCLE TRANSITIONS
// =====================================================

// TransitionName identifies one edge of the lifecycle graph.
type TransitionName string

const (
	TransitionSubmit          TransitionName = "submit"
	TransitionStartReview     TransitionName = "start_review"
	TransitionRequestRevision TransitionName = "request_revision"
	TransitionSubmitRevision  TransitionName = "submit_revision"
	TransitionAccept          TransitionName = "accept"
	TransitionReject          TransitionName = "reject"
	TransitionWithdraw        TransitionName = "withdraw"
	TransitionPublish         TransitionName = "publish"
)

// AllTransitions lists every transition name. Used by tests.
var AllTransitions = []TransitionName{
	TransitionSubmit,
	TransitionStartReview,
	TransitionRequestRevision,
	TransitionSubmitRevision,
	TransitionAccept,
	TransitionReject,
	TransitionWithdraw,
	TransitionPublish,
}

// TransitionSpec declares the allowed source states and the single
// target state of a transition.
type TransitionSpec struct {
	Sources []string
	Target  string
}

// Transitions is the complete lifecycle graph. Any (status, transition)
// pair absent from this table is rejected before any state is touched.
var Transitions = map[TransitionName]TransitionSpec{
	TransitionSubmit: {
		Sources: []string{StatusDraft},
		Target:  StatusSubmitted,
	},
	TransitionStartReview: {
		Sources: []string{StatusSubmitted},
		Target:  StatusUnderReview,
	},
	TransitionRequestRevision: {
		Sources: []string{StatusUnderReview, StatusRevisionSubmitted},
		Target:  StatusRevisionRequired,
	},
	TransitionSubmitRevision: {
		Sources: []string{StatusRevisionRequired},
		Target:  StatusRevisionSubmitted,
	},
	TransitionAccept: {
		Sources: []string{StatusUnderReview, StatusRevisionSubmitted},
		Target:  StatusAccepted,
	},
	// Reject is also allowed straight from submitted: a desk reject
	// before any review starts.
	TransitionReject: {
		Sources: []string{StatusSubmitted, StatusUnderReview, StatusRevisionSubmitted},
		Target:  StatusRejected,
	},
	TransitionWithdraw: {
		Sources: []string{StatusDraft, StatusSubmitted, StatusRevisionRequired},
		Target:  StatusWithdrawn,
	},
	TransitionPublish: {
		Sources: []string{StatusAccepted},
		Target:  StatusPublished,
	},
}

// TransitionParams carries the per-transition inputs. Fields not used
// by a given transition are ignored.
type TransitionParams struct {
	ActorID      uuid.UUID
	EditorID     *uuid.UUID // start_review: editor taking the manuscript
	Notes        string     // request_revision (required), accept/reject/withdraw (optional)
	DeadlineDays *int       // request_revision: override for the revision deadline
}

// CanTransition reports whether the named transition is allowed from
// the submission's current status.
func (s *Submission) CanTransition(name TransitionName) bool {
	spec, ok := Transitions[name]
	if !ok {
		return false
	}
	for _, src := range spec.Sources {
		if s.Status == src {
			return true
		}
	}
	return false
}

// ApplyTransition moves the submission to the transition's target
// status and applies its side effects on the entity fields. The caller
// must hold the row lock and have verified CanTransition plus any
// completeness guards; this method does not re-check them.
//
// Persistence is the caller's job. Nothing here touches the database.
func (s *Submission) ApplyTransition(name TransitionName, params TransitionParams, now time.Time) {
	spec := Transitions[name]
	s.Status = spec.Target
	s.UpdatedAt = now

	switch name {
	case TransitionSubmit:
		t := now
		s.SubmittedAt = &t

	case TransitionStartReview:
		if params.EditorID != nil {
			s.AssignedEditorID = params.EditorID
		} else {
			actor := params.ActorID
			s.AssignedEditorID = &actor
		}

	case TransitionRequestRevision:
		days := 0
		if params.DeadlineDays != nil {
			days = *params.DeadlineDays
		}
		deadline := now.AddDate(0, 0, days)
		notes := params.Notes
		s.RevisionNotes = &notes
		s.RevisionDeadline = &deadline
		// The round being asked for. Files uploaded while revising carry
		// this number.
		s.RevisionNumber++

	case TransitionSubmitRevision:
		// The counter already moved when the revision was requested.

	case TransitionAccept:
		decision := EditorDecisionAccept
		t := now
		s.EditorDecision = &decision
		s.EditorDecisionDate = &t
		s.AcceptedAt = &t
		s.setEditorNotes(params.Notes)

	case TransitionReject:
		decision := EditorDecisionReject
		t := now
		s.EditorDecision = &decision
		s.EditorDecisionDate = &t
		s.setEditorNotes(params.Notes)

	case TransitionWithdraw:
		// No extra fields. The history row records who withdrew and why.

	case TransitionPublish:
		t := now
		s.PublishedAt = &t
	}
}

func (s *Submission) setEditorNotes(notes string) {
	if notes != "" {
		s.EditorNotes = &notes
	}
}
