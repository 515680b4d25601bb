package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/vendora/backend/internal/domain/identity"
	"github.com/vendora/backend/internal/domain/shared"
	"github.com/vendora/backend/internal/infrastructure/auth"
)

// AuthService handles registration, login, and logout
type AuthService struct {
	userRepo  identity.UserRepository
	hasher    auth.PasswordHasher
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	hasher auth.PasswordHasher,
	jwt *auth.JWTService,
	blacklist auth.TokenBlacklist,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		hasher:    hasher,
		jwt:       jwt,
		blacklist: blacklist,
	}
}

// Register creates a customer account and issues a token
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := identity.NewUser(req.Name, email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
		}
		return nil, err
	}

	return s.issueToken(user)
}

// Login verifies credentials and issues a token
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
		}
		return nil, err
	}

	if !s.hasher.Verify(user.PasswordHash, req.Password) {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid email or password")
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("FORBIDDEN", "Account is disabled")
	}

	return s.issueToken(user)
}

// Logout revokes the presented token by blacklisting its JTI for the
// remainder of its validity
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	return s.blacklist.AddToBlacklist(ctx, claims.ID, claims.RemainingValidity())
}

// Profile returns the authenticated user's account
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

func (s *AuthService) issueToken(user *identity.User) (*AuthResponse, error) {
	token, err := s.jwt.GenerateToken(auth.GenerateTokenInput{
		UserID: user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:        ToUserResponse(user),
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
	}, nil
}
