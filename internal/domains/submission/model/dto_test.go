package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSubmissionRequest_Validate(t *testing.T) {
	valid := CreateSubmissionRequest{
		Title:       "On the stability of tidal bores",
		ArticleType: ArticleTypeResearch,
	}
	require.NoError(t, valid.Validate())

	t.Run("title required", func(t *testing.T) {
		r := valid
		r.Title = ""
		assert.Error(t, r.Validate())
	})

	t.Run("title too long", func(t *testing.T) {
		r := valid
		r.Title = strings.Repeat("a", maxTitleLength+1)
		assert.Error(t, r.Validate())
	})

	t.Run("unknown article type", func(t *testing.T) {
		r := valid
		r.ArticleType = "thesis"
		assert.Error(t, r.Validate())
	})

	t.Run("too many keywords", func(t *testing.T) {
		r := valid
		r.Keywords = make([]string, maxKeywords+1)
		assert.Error(t, r.Validate())
	})

	t.Run("language length", func(t *testing.T) {
		r := valid
		r.Language = "x"
		assert.Error(t, r.Validate())
	})
}

func TestSubmitRequest_Validate(t *testing.T) {
	r := SubmitRequest{}
	assert.Error(t, r.Validate())

	r.Confirm = true
	assert.NoError(t, r.Validate())
}

func TestStartReviewRequest_Validate(t *testing.T) {
	assert.NoError(t, (&StartReviewRequest{}).Validate())
	assert.NoError(t, (&StartReviewRequest{EditorID: "7a9f4a67-7a4e-4f3e-9a51-93d9d6d7c10f"}).Validate())
	assert.Error(t, (&StartReviewRequest{EditorID: "not-a-uuid"}).Validate())
}

func TestRequestRevisionRequest_Validate(t *testing.T) {
	assert.Error(t, (&RequestRevisionRequest{}).Validate())
	assert.NoError(t, (&RequestRevisionRequest{Notes: "Please add error bars."}).Validate())
}

func TestAddAuthorRequest_Validate(t *testing.T) {
	valid := AddAuthorRequest{
		GivenName:   "Ada",
		FamilyName:  "Nguyen",
		Email:       "ada.nguyen@example.edu",
		Institution: "Coastal Research Institute",
	}
	require.NoError(t, valid.Validate())

	t.Run("email format", func(t *testing.T) {
		r := valid
		r.Email = "not-an-email"
		assert.Error(t, r.Validate())
	})

	t.Run("orcid format", func(t *testing.T) {
		good := []string{"0000-0002-1825-0097", "0000-0001-5109-370X"}
		for _, id := range good {
			r := valid
			orcid := id
			r.OrcidID = &orcid
			assert.NoErrorf(t, r.Validate(), "orcid=%s", id)
		}

		bad := []string{"0000-0002-1825-009", "0000.0002.1825.0097", "0000-0002-1825-00972"}
		for _, id := range bad {
			r := valid
			orcid := id
			r.OrcidID = &orcid
			assert.Errorf(t, r.Validate(), "orcid=%s", id)
		}
	})

	t.Run("position must be positive", func(t *testing.T) {
		r := valid
		pos := 0
		r.Position = &pos
		assert.Error(t, r.Validate())
	})
}

func TestListSubmissionsRequest(t *testing.T) {
	t.Run("status filter must be a known status", func(t *testing.T) {
		r := ListSubmissionsRequest{Status: "archived"}
		assert.Error(t, r.Validate())

		r.Status = StatusUnderReview
		assert.NoError(t, r.Validate())
	})

	t.Run("limit cap", func(t *testing.T) {
		r := ListSubmissionsRequest{Limit: 101}
		assert.Error(t, r.Validate())
	})

	t.Run("defaults", func(t *testing.T) {
		r := ListSubmissionsRequest{}
		r.Normalize()
		assert.Equal(t, 1, r.Page)
		assert.Equal(t, 20, r.Limit)
	})
}
