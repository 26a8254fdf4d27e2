package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"journal-backend/internal/domains/user/model"
	"journal-backend/internal/domains/user/repository"
	"journal-backend/internal/shared"
	"journal-backend/pkg/jwt"
	"journal-backend/pkg/logger"
)

// =====================================================
// USER SERVICE INTERFACE
// =====================================================
type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Refresh(ctx context.Context, req model.RefreshRequest) (*model.AuthResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.User, error)
	DisconnectOrcid(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// =====================================================
// USER SERVICE IMPLEMENTATION
// =====================================================
type userService struct {
	userRepo   repository.UserRepository
	jwtManager *jwt.Manager
}

func NewUserService(userRepo repository.UserRepository, jwtManager *jwt.Manager) UserService {
	return &userService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
	}
}

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeValidation, "invalid registration data", err)
	}

	// 2. Hash the password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. Create the account. New accounts always start as authors;
	// editorial roles are granted out of band.
	user := &model.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         shared.RoleAuthor,
		GivenName:    req.GivenName,
		FamilyName:   req.FamilyName,
		IsActive:     true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return nil, model.NewUserError(model.ErrCodeEmailTaken, "email is already registered", err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info("User registered", map[string]interface{}{
		"user_id": user.ID.String(),
	})

	// 4. Issue tokens
	return s.issueTokens(user)
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeValidation, "invalid login data", err)
	}

	// 2. Look up credentials. Lookup and password failures return the
	// same error so the endpoint does not leak which emails exist.
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid email or password", model.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid email or password", model.ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, model.NewUserError(model.ErrCodeAccountDisabled, "account is disabled", model.ErrAccountDisabled)
	}

	// 3. Issue tokens
	return s.issueTokens(user)
}

func (s *userService) Refresh(ctx context.Context, req model.RefreshRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeValidation, "invalid refresh data", err)
	}

	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid refresh token", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.NewUserError(model.ErrCodeInvalidCredentials, "invalid refresh token", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserError(model.ErrCodeUserNotFound, "user not found", err)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, model.NewUserError(model.ErrCodeAccountDisabled, "account is disabled", model.ErrAccountDisabled)
	}

	return s.issueTokens(user)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.NewUserError(model.ErrCodeUserNotFound, "user not found", err)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.User, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, model.NewUserError(model.ErrCodeValidation, "invalid profile data", err)
	}

	// 2. Load and patch
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.GivenName != nil {
		user.GivenName = *req.GivenName
	}
	if req.FamilyName != nil {
		user.FamilyName = *req.FamilyName
	}
	if req.OrcidID != nil {
		user.OrcidID = req.OrcidID
	}
	if req.Institution != nil {
		user.Institution = req.Institution
	}
	if req.Department != nil {
		user.Department = req.Department
	}
	if req.Country != nil {
		user.Country = req.Country
	}

	// 3. Persist
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

func (s *userService) DisconnectOrcid(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.OrcidID = nil
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

func (s *userService) issueTokens(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &model.AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
