package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allowedPairs is the full lifecycle graph, written out flat so the
// test fails loudly if the table in fsm.go drifts.
var allowedPairs = map[string][]TransitionName{
	StatusDraft:             {TransitionSubmit, TransitionWithdraw},
	StatusSubmitted:         {TransitionStartReview, TransitionReject, TransitionWithdraw},
	StatusUnderReview:       {TransitionRequestRevision, TransitionAccept, TransitionReject},
	StatusRevisionRequired:  {TransitionSubmitRevision, TransitionWithdraw},
	StatusRevisionSubmitted: {TransitionRequestRevision, TransitionAccept, TransitionReject},
	StatusAccepted:          {TransitionPublish},
	StatusRejected:          {},
	StatusWithdrawn:         {},
	StatusPublished:         {},
}

func TestCanTransition_FullMatrix(t *testing.T) {
	for _, status := range AllStatuses {
		allowed := allowedPairs[status]
		for _, name := range AllTransitions {
			s := &Submission{Status: status}

			want := false
			for _, a := range allowed {
				if a == name {
					want = true
				}
			}

			assert.Equalf(t, want, s.CanTransition(name),
				"status=%s transition=%s", status, name)
		}
	}
}

func TestCanTransition_UnknownName(t *testing.T) {
	s := &Submission{Status: StatusDraft}
	assert.False(t, s.CanTransition(TransitionName("archive")))
}

func TestApplyTransition_Submit(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := &Submission{Status: StatusDraft}

	s.ApplyTransition(TransitionSubmit, TransitionParams{ActorID: uuid.New()}, now)

	assert.Equal(t, StatusSubmitted, s.Status)
	require.NotNil(t, s.SubmittedAt)
	assert.Equal(t, now, *s.SubmittedAt)
	assert.Equal(t, now, s.UpdatedAt)
	assert.Nil(t, s.AcceptedAt)
	assert.Nil(t, s.PublishedAt)
}

func TestApplyTransition_StartReviewAssignsEditor(t *testing.T) {
	now := time.Now()
	editorID := uuid.New()
	actorID := uuid.New()

	t.Run("explicit editor", func(t *testing.T) {
		s := &Submission{Status: StatusSubmitted}
		s.ApplyTransition(TransitionStartReview, TransitionParams{ActorID: actorID, EditorID: &editorID}, now)

		assert.Equal(t, StatusUnderReview, s.Status)
		require.NotNil(t, s.AssignedEditorID)
		assert.Equal(t, editorID, *s.AssignedEditorID)
	})

	t.Run("actor takes the assignment", func(t *testing.T) {
		s := &Submission{Status: StatusSubmitted}
		s.ApplyTransition(TransitionStartReview, TransitionParams{ActorID: actorID}, now)

		require.NotNil(t, s.AssignedEditorID)
		assert.Equal(t, actorID, *s.AssignedEditorID)
	})
}

func TestApplyTransition_RequestRevision(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	days := 30
	s := &Submission{Status: StatusUnderReview}

	s.ApplyTransition(TransitionRequestRevision, TransitionParams{
		ActorID:      uuid.New(),
		Notes:        "Please shorten the discussion section.",
		DeadlineDays: &days,
	}, now)

	assert.Equal(t, StatusRevisionRequired, s.Status)
	require.NotNil(t, s.RevisionNotes)
	assert.Equal(t, "Please shorten the discussion section.", *s.RevisionNotes)
	require.NotNil(t, s.RevisionDeadline)
	assert.Equal(t, now.AddDate(0, 0, 30), *s.RevisionDeadline)
	assert.Equal(t, 1, s.RevisionNumber)
}

func TestApplyTransition_RevisionCounter(t *testing.T) {
	// Asking for a revision opens round N+1; handing the revision back
	// in does not move the counter again.
	days := 14
	s := &Submission{Status: StatusUnderReview, RevisionNumber: 1}

	s.ApplyTransition(TransitionRequestRevision, TransitionParams{
		ActorID:      uuid.New(),
		Notes:        "Please add the control group data.",
		DeadlineDays: &days,
	}, time.Now())
	assert.Equal(t, 2, s.RevisionNumber)

	s.ApplyTransition(TransitionSubmitRevision, TransitionParams{ActorID: uuid.New()}, time.Now())
	assert.Equal(t, StatusRevisionSubmitted, s.Status)
	assert.Equal(t, 2, s.RevisionNumber)
}

func TestApplyTransition_DeskReject(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := &Submission{Status: StatusSubmitted}

	require.True(t, s.CanTransition(TransitionReject))
	s.ApplyTransition(TransitionReject, TransitionParams{ActorID: uuid.New(), Notes: "Out of scope for this journal."}, now)

	assert.Equal(t, StatusRejected, s.Status)
	require.NotNil(t, s.EditorDecision)
	assert.Equal(t, EditorDecisionReject, *s.EditorDecision)
}

func TestApplyTransition_Decisions(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("accept", func(t *testing.T) {
		s := &Submission{Status: StatusUnderReview}
		s.ApplyTransition(TransitionAccept, TransitionParams{ActorID: uuid.New(), Notes: "Strong results."}, now)

		assert.Equal(t, StatusAccepted, s.Status)
		require.NotNil(t, s.EditorDecision)
		assert.Equal(t, EditorDecisionAccept, *s.EditorDecision)
		require.NotNil(t, s.AcceptedAt)
		assert.Equal(t, now, *s.AcceptedAt)
		require.NotNil(t, s.EditorNotes)
		assert.Equal(t, "Strong results.", *s.EditorNotes)
	})

	t.Run("reject without notes leaves editor notes empty", func(t *testing.T) {
		s := &Submission{Status: StatusRevisionSubmitted}
		s.ApplyTransition(TransitionReject, TransitionParams{ActorID: uuid.New()}, now)

		assert.Equal(t, StatusRejected, s.Status)
		require.NotNil(t, s.EditorDecision)
		assert.Equal(t, EditorDecisionReject, *s.EditorDecision)
		assert.Nil(t, s.EditorNotes)
		assert.Nil(t, s.AcceptedAt)
	})
}

func TestApplyTransition_Publish(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	s := &Submission{Status: StatusAccepted}

	s.ApplyTransition(TransitionPublish, TransitionParams{ActorID: uuid.New()}, now)

	assert.Equal(t, StatusPublished, s.Status)
	require.NotNil(t, s.PublishedAt)
	assert.Equal(t, now, *s.PublishedAt)
}

func TestIsEditable(t *testing.T) {
	editable := map[string]bool{
		StatusDraft:            true,
		StatusRevisionRequired: true,
	}
	for _, status := range AllStatuses {
		s := &Submission{Status: status}
		assert.Equalf(t, editable[status], s.IsEditable(), "status=%s", status)
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[string]bool{
		StatusRejected:  true,
		StatusWithdrawn: true,
		StatusPublished: true,
	}
	for _, status := range AllStatuses {
		s := &Submission{Status: status}
		assert.Equalf(t, terminal[status], s.IsTerminal(), "status=%s", status)

		// A terminal state must not allow any transition at all.
		if terminal[status] {
			for _, name := range AllTransitions {
				assert.Falsef(t, s.CanTransition(name), "terminal status=%s transition=%s", status, name)
			}
		}
	}
}
