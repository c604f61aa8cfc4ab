// file: internals/features/users/auth/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pdpi_backend/internals/constants"
	authModel "pdpi_backend/internals/features/users/auth/model"
	authRepo "pdpi_backend/internals/features/users/auth/repository"
	helper "pdpi_backend/internals/helpers"
)

var (
	ErrInvalidCredentials = errors.New("email atau password salah")
	ErrUserInactive       = errors.New("akun dinonaktifkan")
	ErrTokenRevoked       = errors.New("token sudah logout")
	ErrEmailExists        = errors.New("email sudah terdaftar")
	ErrInvalidRole        = errors.New("role tidak valid")
	ErrBranchRequired     = errors.New("admin_pd wajib punya cabang")
	ErrMemberRequired     = errors.New("akun member wajib tertaut ke data anggota")
)

type AuthService struct {
	DB     *gorm.DB
	Tokens *TokenService
	Log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(db *gorm.DB, tokens *TokenService, log *zap.Logger) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Log: log, now: time.Now}
}

type LoginResult struct {
	AccessToken string               `json:"access_token"`
	ExpiresAt   time.Time            `json:"expires_at"`
	User        *authModel.UserModel `json:"user"`
}

// Login: cek password bcrypt lalu terbitkan access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, authRepo.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := CheckPasswordHash(user.UserPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.UserIsActive {
		return nil, ErrUserInactive
	}
	token, exp, err := s.Tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := authRepo.TouchLastLogin(ctx, s.DB, user.UserID, s.now()); err != nil {
		s.Log.Warn("update last login gagal", zap.String("user_id", user.UserID.String()), zap.Error(err))
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

// Authenticate: verifikasi JWT + cek blacklist.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	revoked, err := authRepo.IsTokenBlacklisted(ctx, s.DB, HashToken(token))
	if err != nil {
		return nil, fmt.Errorf("cek blacklist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Logout memasukkan token ke blacklist sampai exp-nya lewat.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return err
	}
	return authRepo.BlacklistToken(ctx, s.DB, HashToken(token), claims.ExpiresAt.Time)
}

type CreateUserInput struct {
	Email    string     `json:"email" validate:"required,email"`
	Name     string     `json:"name" validate:"required,min=2,max=100"`
	Password string     `json:"password" validate:"required,min=8,max=72"`
	Role     string     `json:"role" validate:"required,oneof=super_admin admin_pd member"`
	BranchID *uuid.UUID `json:"branch_id"`
	MemberID *uuid.UUID `json:"member_id"`
}

func (s *AuthService) CreateUser(ctx context.Context, in CreateUserInput) (*authModel.UserModel, error) {
	if !constants.IsValidRole(in.Role) {
		return nil, ErrInvalidRole
	}
	if in.Role == constants.RoleAdminPD && in.BranchID == nil {
		return nil, ErrBranchRequired
	}
	if in.Role == constants.RoleMember && in.MemberID == nil {
		return nil, ErrMemberRequired
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &authModel.UserModel{
		UserEmail:    in.Email,
		UserName:     strings.TrimSpace(in.Name),
		UserPassword: hash,
		UserRole:     in.Role,
		UserBranchID: in.BranchID,
		UserMemberID: in.MemberID,
		UserIsActive: true,
	}
	if err := authRepo.CreateUser(ctx, s.DB, u); err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return err
	}
	if err := CheckPasswordHash(user.UserPassword, current); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return authRepo.UpdateUserPassword(ctx, s.DB, userID, hash)
}

// EnsureSuperAdmin membuat super admin pertama kalau email belum ada.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, email, password string) (bool, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return false, nil
	}
	_, err := authRepo.FindUserByEmail(ctx, s.DB, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, authRepo.ErrUserNotFound) {
		return false, err
	}
	_, err = s.CreateUser(ctx, CreateUserInput{
		Email: email, Name: "Super Admin", Password: password, Role: constants.RoleSuperAdmin,
	})
	return err == nil, err
}
