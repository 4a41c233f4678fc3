package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"talenthub-backend/internal/domains/user/model"
	"talenthub-backend/internal/domains/user/repository"
	"talenthub-backend/pkg/cache"
	"talenthub-backend/pkg/jwt"
	"talenthub-backend/pkg/logger"
)

const (
	bcryptCost = 12

	// Failed login lockout
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// ImageStorage is the slice of object storage the profile flow needs.
type ImageStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// UserService covers signup, login and profile management
type UserService interface {
	Signup(ctx context.Context, req model.SignupRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error)
	UploadProfileImage(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (*model.UserDTO, error)
}

type userService struct {
	repo       repository.UserRepository
	jwtManager *jwt.Manager
	cache      cache.Cache
	storage    ImageStorage
}

func NewUserService(
	repo repository.UserRepository,
	jwtManager *jwt.Manager,
	c cache.Cache,
	storage ImageStorage,
) UserService {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		cache:      c,
		storage:    storage,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Signup(ctx context.Context, req model.SignupRequest) (*model.UserDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. CHECK EMAIL ALREADY EXISTS
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, model.ErrEmailAlreadyExists
	}

	// 3. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. CREATE USER ENTITY
	now := time.Now()
	newUser := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 5. PERSIST
	// The unique index on email closes the race between the check
	// above and this insert.
	if err := s.repo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	dto := newUser.ToDTO()
	return &dto, nil
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. CHECK LOCKOUT
	locked, err := s.isLockedOut(ctx, req.Email)
	if err != nil {
		logger.Warn("lockout check failed, allowing login attempt", map[string]interface{}{"error": err.Error()})
	}
	if locked {
		return nil, model.ErrAccountLocked
	}

	// 3. FIND USER BY EMAIL
	// Do not distinguish "email not found" from "wrong password".
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	// 4. VERIFY PASSWORD
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedLogin(ctx, req.Email)
		return nil, model.ErrInvalidCredentials
	}

	// 5. RESET FAILED ATTEMPTS
	if err := s.cache.Delete(ctx, failedLoginKey(req.Email)); err != nil {
		logger.Warn("failed to reset login attempt counter", map[string]interface{}{"error": err.Error()})
	}

	// 6. ISSUE TOKENS
	return s.issueTokens(u)
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*model.LoginResponse, error) {
	// 1. VALIDATE REFRESH TOKEN
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrUnauthorized
	}

	// 2. CHECK REVOCATION
	// A token surrendered via Logout stays dead until its natural expiry.
	var revoked bool
	found, err := s.cache.Get(ctx, revokedTokenKey(refreshToken), &revoked)
	if err != nil {
		logger.Warn("revocation check failed, allowing refresh", map[string]interface{}{"error": err.Error()})
	}
	if found {
		return nil, model.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrUnauthorized
	}

	// 3. RELOAD USER
	// A token for a deleted account must not mint a new pair.
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, model.ErrUnauthorized
	}

	// 4. ISSUE NEW PAIR
	return s.issueTokens(u)
}

// Logout revokes a refresh token. The revocation marker lives in Redis
// until the token would have expired on its own. Tokens that no longer
// validate need no marker.
func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, revokedTokenKey(refreshToken), true, ttl); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

func revokedTokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked_refresh:" + hex.EncodeToString(sum[:])
}

func (s *userService) issueTokens(u *model.User) (*model.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	expiresAt := time.Now().Add(s.jwtManager.AccessExpiry())

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		User:         u.ToDTO(),
	}, nil
}

// ========================================
// FAILED LOGIN LOCKOUT
// ========================================

func failedLoginKey(email string) string {
	return "auth:failed_logins:" + email
}

func (s *userService) isLockedOut(ctx context.Context, email string) (bool, error) {
	var attempts int
	found, err := s.cache.Get(ctx, failedLoginKey(email), &attempts)
	if err != nil {
		return false, err
	}
	return found && attempts >= maxFailedLogins, nil
}

func (s *userService) recordFailedLogin(ctx context.Context, email string) {
	key := failedLoginKey(email)

	attempts, err := s.cache.Increment(ctx, key)
	if err != nil {
		logger.Warn("failed to record login attempt", map[string]interface{}{"error": err.Error()})
		return
	}

	// First failure starts the lockout window.
	if attempts == 1 {
		if err := s.cache.Expire(ctx, key, lockoutDuration); err != nil {
			logger.Warn("failed to set lockout TTL", map[string]interface{}{"error": err.Error()})
		}
	}
}

// ========================================
// PROFILE
// ========================================

func (s *userService) Me(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req model.ChangePasswordRequest) error {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return err
	}

	// 2. LOAD USER
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	// 3. VERIFY CURRENT PASSWORD
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return model.ErrPasswordMismatch
	}

	// 4. REJECT SAME PASSWORD
	if req.CurrentPassword == req.NewPassword {
		return model.ErrSamePassword
	}

	// 5. HASH AND PERSIST
	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, userID, string(newHash))
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.UserDTO, error) {
	// 1. VALIDATE INPUT
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. LOAD USER
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3. APPLY PARTIAL UPDATE
	if req.Name != nil {
		u.Name = *req.Name
	}

	// 4. PERSIST
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UploadProfileImage(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (*model.UserDTO, error) {
	// 1. LOAD USER
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 2. REPLACE ANY PREVIOUS IMAGE
	prefix := fmt.Sprintf("profiles/%s/", userID)
	if err := s.storage.DeleteByPrefix(ctx, prefix); err != nil {
		logger.Warn("failed to clean old profile images", map[string]interface{}{"user_id": userID.String(), "error": err.Error()})
	}

	// 3. UPLOAD NEW IMAGE
	key := fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
	url, err := s.storage.Upload(ctx, key, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload profile image: %w", err)
	}

	// 4. PERSIST URL
	u.ProfileImage = &url
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}
