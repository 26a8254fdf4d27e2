package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"journal-backend/internal/domains/user/model"
	"journal-backend/internal/shared"
	"journal-backend/pkg/jwt"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return model.ErrEmailTaken
		}
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return model.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func newTestUserService(repo *fakeUserRepo) UserService {
	return NewUserService(repo, jwt.NewManager("test-secret", 15, 24))
}

func asUserError(t *testing.T, err error) *model.UserError {
	t.Helper()
	var ue *model.UserError
	require.ErrorAs(t, err, &ue)
	return ue
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         shared.RoleAuthor,
		GivenName:    "Ada",
		FamilyName:   "Nguyen",
		IsActive:     true,
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func TestRegister(t *testing.T) {
	t.Run("creates an author account and issues tokens", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := newTestUserService(repo)

		resp, err := svc.Register(context.Background(), model.RegisterRequest{
			Email:      "ada@example.edu",
			Password:   "correct horse battery",
			GivenName:  "Ada",
			FamilyName: "Nguyen",
		})
		require.NoError(t, err)

		assert.Equal(t, shared.RoleAuthor, resp.User.Role)
		assert.True(t, resp.User.IsActive)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)

		// The stored hash must verify against the original password.
		stored := repo.users[resp.User.ID]
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse battery")))
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedUser(t, repo, "ada@example.edu", "password-one")
		svc := newTestUserService(repo)

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			Email:      "ada@example.edu",
			Password:   "password-two",
			GivenName:  "Ada",
			FamilyName: "Nguyen",
		})
		ue := asUserError(t, err)
		assert.Equal(t, model.ErrCodeEmailTaken, ue.Code)
	})

	t.Run("short password", func(t *testing.T) {
		svc := newTestUserService(newFakeUserRepo())

		_, err := svc.Register(context.Background(), model.RegisterRequest{
			Email:      "ada@example.edu",
			Password:   "short",
			GivenName:  "Ada",
			FamilyName: "Nguyen",
		})
		ue := asUserError(t, err)
		assert.Equal(t, model.ErrCodeValidation, ue.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedUser(t, repo, "ada@example.edu", "correct horse battery")
		svc := newTestUserService(repo)

		resp, err := svc.Login(context.Background(), model.LoginRequest{
			Email:    "ada@example.edu",
			Password: "correct horse battery",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		repo := newFakeUserRepo()
		seedUser(t, repo, "ada@example.edu", "correct horse battery")
		svc := newTestUserService(repo)

		_, errWrongPassword := svc.Login(context.Background(), model.LoginRequest{
			Email:    "ada@example.edu",
			Password: "wrong",
		})
		_, errUnknownEmail := svc.Login(context.Background(), model.LoginRequest{
			Email:    "nobody@example.edu",
			Password: "wrong",
		})

		assert.Equal(t, model.ErrCodeInvalidCredentials, asUserError(t, errWrongPassword).Code)
		assert.Equal(t, model.ErrCodeInvalidCredentials, asUserError(t, errUnknownEmail).Code)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})

	t.Run("disabled account", func(t *testing.T) {
		repo := newFakeUserRepo()
		user := seedUser(t, repo, "ada@example.edu", "correct horse battery")
		repo.users[user.ID].IsActive = false
		svc := newTestUserService(repo)

		_, err := svc.Login(context.Background(), model.LoginRequest{
			Email:    "ada@example.edu",
			Password: "correct horse battery",
		})
		ue := asUserError(t, err)
		assert.Equal(t, model.ErrCodeAccountDisabled, ue.Code)
	})
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "ada@example.edu", "correct horse battery")
	svc := newTestUserService(repo)

	login, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ada@example.edu",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		resp, err := svc.Refresh(context.Background(), model.RefreshRequest{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(context.Background(), model.RefreshRequest{RefreshToken: login.AccessToken})
		ue := asUserError(t, err)
		assert.Equal(t, model.ErrCodeInvalidCredentials, ue.Code)
	})
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	user := seedUser(t, repo, "ada@example.edu", "correct horse battery")
	svc := newTestUserService(repo)

	orcid := "0000-0002-1825-0097"
	institution := "Coastal Research Institute"
	updated, err := svc.UpdateProfile(context.Background(), user.ID, model.UpdateProfileRequest{
		OrcidID:     &orcid,
		Institution: &institution,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.OrcidID)
	assert.Equal(t, orcid, *updated.OrcidID)

	t.Run("disconnect orcid", func(t *testing.T) {
		after, err := svc.DisconnectOrcid(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Nil(t, after.OrcidID)
	})

	t.Run("bad orcid rejected", func(t *testing.T) {
		bad := "1234"
		_, err := svc.UpdateProfile(context.Background(), user.ID, model.UpdateProfileRequest{OrcidID: &bad})
		ue := asUserError(t, err)
		assert.Equal(t, model.ErrCodeValidation, ue.Code)
	})
}
