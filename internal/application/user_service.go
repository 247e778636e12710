package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-dashboard-api/internal/domain/entity"
	repo "github.com/oksasatya/go-dashboard-api/internal/domain/repository"
	"github.com/oksasatya/go-dashboard-api/pkg/apperror"
	"github.com/oksasatya/go-dashboard-api/pkg/helpers"
)

const ResetPINTTL = 15 * time.Minute

type CreateUserInput struct {
	Email     string      `json:"email" binding:"required,email,max=100"`
	Username  string      `json:"username" binding:"required,min=3,max=50,alphanum"`
	Password  string      `json:"password" binding:"required,pwd"`
	FirstName string      `json:"first_name" binding:"required,max=100"`
	LastName  string      `json:"last_name" binding:"max=100"`
	Phone     string      `json:"phone" binding:"max=30"`
	Language  string      `json:"language" binding:"omitempty,max=10"`
	Timezone  string      `json:"timezone" binding:"omitempty,max=50"`
	Role      entity.Role `json:"role" binding:"omitempty,role"`
}

// UpdateUserInput is a patch: nil fields are left unchanged.
type UpdateUserInput struct {
	Email       *string    `json:"email" binding:"omitempty,email,max=100"`
	Username    *string    `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
	FirstName   *string    `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string    `json:"last_name" binding:"omitempty,max=100"`
	BirthDate   *time.Time `json:"birth_date"`
	AddressLine *string    `json:"address_line" binding:"omitempty,max=255"`
	City        *string    `json:"city" binding:"omitempty,max=100"`
	PostalCode  *string    `json:"postal_code" binding:"omitempty,max=20"`
	Country     *string    `json:"country" binding:"omitempty,max=100"`
	Phone       *string    `json:"phone" binding:"omitempty,max=30"`
	AvatarURL   *string    `json:"avatar_url" binding:"omitempty,max=500"`
	Language    *string    `json:"language" binding:"omitempty,max=10"`
	Timezone    *string    `json:"timezone" binding:"omitempty,max=50"`
}

type UserStatsDTO struct {
	TotalActive       int `json:"total_active"`
	ActiveLastMonth   int `json:"active_last_month"`
	ActiveLastWeek    int `json:"active_last_week"`
	InactiveLastMonth int `json:"inactive_last_month"`
}

type UserService struct {
	Repo     repo.UserRepository
	Notifier Notifier
	Avatars  AvatarStore
	Index    UserIndexer
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewUserService(users repo.UserRepository, notifier Notifier, avatars AvatarStore, index UserIndexer, logger *logrus.Logger) *UserService {
	return &UserService{
		Repo:     users,
		Notifier: notifier,
		Avatars:  avatars,
		Index:    index,
		Logger:   helpers.OrNop(logger),
		Now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// create persists a new user with a hashed password.
func (s *UserService) create(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	email := normalizeEmail(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return nil, apperror.Validation("email and username are required")
	}
	if taken, err := s.Repo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperror.AlreadyExists("email %s is already registered", email)
	}
	if taken, err := s.Repo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperror.AlreadyExists("username %s is already taken", username)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		return nil, apperror.Validation("unknown role %q", role)
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err, "hash password")
	}
	u := &entity.User{
		Email:     email,
		Username:  username,
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     in.Phone,
		Language:  orDefault(in.Language, entity.DefaultLanguage),
		Timezone:  orDefault(in.Timezone, entity.DefaultTimezone),
		Role:      role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user created")
	s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*UserDTO, error) {
	u, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*UserDTO, error) {
	return s.one(s.Repo.GetByID(ctx, id))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*UserDTO, error) {
	return s.one(s.Repo.GetByEmail(ctx, normalizeEmail(email)))
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*UserDTO, error) {
	return s.one(s.Repo.GetByUsername(ctx, strings.TrimSpace(username)))
}

func (s *UserService) one(u *entity.User, err error) (*UserDTO, error) {
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, id string, in UpdateUserInput) (*UserDTO, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email != u.Email {
			if taken, err := s.Repo.ExistsByEmail(ctx, email); err != nil {
				return nil, err
			} else if taken {
				return nil, apperror.AlreadyExists("email %s is already registered", email)
			}
			u.Email = email
		}
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if !strings.EqualFold(username, u.Username) {
			if taken, err := s.Repo.ExistsByUsername(ctx, username); err != nil {
				return nil, err
			} else if taken {
				return nil, apperror.AlreadyExists("username %s is already taken", username)
			}
		}
		u.Username = username
	}
	setString(&u.FirstName, in.FirstName)
	setString(&u.LastName, in.LastName)
	if in.BirthDate != nil {
		bd := *in.BirthDate
		u.BirthDate = &bd
	}
	setString(&u.AddressLine, in.AddressLine)
	setString(&u.City, in.City)
	setString(&u.PostalCode, in.PostalCode)
	setString(&u.Country, in.Country)
	setString(&u.Phone, in.Phone)
	setString(&u.AvatarURL, in.AvatarURL)
	setString(&u.Language, in.Language)
	setString(&u.Timezone, in.Timezone)
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	dto := toUserDTO(u)
	return &dto, nil
}

// UpdatePassword requires the current password.
func (s *UserService) UpdatePassword(ctx context.Context, id, current, next string) error {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !helpers.CheckPassword(u.Password, current) {
		return apperror.Unauthorized("current password is incorrect")
	}
	hash, err := helpers.HashPassword(next)
	if err != nil {
		return apperror.Internal(err, "hash password")
	}
	u.Password = hash
	return s.Repo.Update(ctx, u)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func (s *UserService) List(ctx context.Context, page entity.PageRequest) (entity.Page[UserDTO], error) {
	page = page.Normalize()
	items, total, err := s.Repo.List(ctx, page)
	if err != nil {
		return entity.Page[UserDTO]{}, err
	}
	return mapPage(items, total, page, toUserDTOs), nil
}

func (s *UserService) Search(ctx context.Context, term string, page entity.PageRequest) (entity.Page[UserDTO], error) {
	page = page.Normalize()
	items, total, err := s.Repo.Search(ctx, strings.TrimSpace(term), page)
	if err != nil {
		return entity.Page[UserDTO]{}, err
	}
	return mapPage(items, total, page, toUserDTOs), nil
}

func (s *UserService) ListByRole(ctx context.Context, role entity.Role, page entity.PageRequest) (entity.Page[UserDTO], error) {
	if !role.Valid() {
		return entity.Page[UserDTO]{}, apperror.Validation("unknown role %q", role)
	}
	page = page.Normalize()
	items, total, err := s.Repo.ListByRole(ctx, role, page)
	if err != nil {
		return entity.Page[UserDTO]{}, err
	}
	return mapPage(items, total, page, toUserDTOs), nil
}

func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.Repo.ExistsByEmail(ctx, normalizeEmail(email))
}

func (s *UserService) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.Repo.ExistsByUsername(ctx, strings.TrimSpace(username))
}

// SetGoogleDriveLink flips the link flag. Unlinking drops the stored refresh token.
func (s *UserService) SetGoogleDriveLink(ctx context.Context, id string, linked bool, refreshToken string) (*UserDTO, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.GoogleDriveLinked = linked
	if linked {
		if refreshToken != "" {
			u.GoogleDriveRefreshToken = refreshToken
		}
	} else {
		u.GoogleDriveRefreshToken = ""
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	dto := toUserDTO(u)
	return &dto, nil
}

func (s *UserService) ListGoogleDriveLinked(ctx context.Context) ([]UserDTO, error) {
	users, err := s.Repo.ListGoogleDriveLinked(ctx)
	if err != nil {
		return nil, err
	}
	return toUserDTOs(users), nil
}

func (s *UserService) TouchLastLogin(ctx context.Context, id string) error {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	now := s.Now()
	u.LastLoginAt = &now
	return s.Repo.Update(ctx, u)
}

func (s *UserService) Stats(ctx context.Context) (*UserStatsDTO, error) {
	total, err := s.Repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	month, err := s.Repo.CountLoggedInSince(ctx, now.AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}
	week, err := s.Repo.CountLoggedInSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	return &UserStatsDTO{
		TotalActive:       total,
		ActiveLastMonth:   month,
		ActiveLastWeek:    week,
		InactiveLastMonth: total - month,
	}, nil
}

// GenerateResetPIN stores a fresh 6-digit PIN on the user and hands it to the notifier.
// Delivery failures are logged, never returned.
func (s *UserService) GenerateResetPIN(ctx context.Context, email string) (string, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", err
	}
	pin, err := helpers.GenResetPIN()
	if err != nil {
		return "", apperror.Internal(err, "generate pin")
	}
	exp := s.Now().Add(ResetPINTTL)
	u.ResetPIN = pin
	u.ResetPINExpiresAt = &exp
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	if s.Notifier != nil {
		if nErr := s.Notifier.SendResetPIN(ctx, u.Email, u.FullName(), pin, exp); nErr != nil {
			s.Logger.WithError(nErr).WithField("user_id", u.ID).Warn("reset pin delivery failed")
		}
	}
	s.Logger.WithField("user_id", u.ID).Info("reset pin generated")
	return pin, nil
}

// ResetPassword consumes a valid PIN. Wrong or expired PINs are Unauthorized.
func (s *UserService) ResetPassword(ctx context.Context, email, pin, newPassword string) error {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if !u.ResetPINValid(pin, s.Now()) {
		return apperror.Unauthorized("invalid or expired pin")
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal(err, "hash password")
	}
	u.Password = hash
	u.ClearResetPIN()
	if err := s.Repo.Update(ctx, u); err != nil {
		return err
	}
	s.Logger.WithField("user_id", u.ID).Info("password reset")
	return nil
}

func (s *UserService) UploadAvatar(ctx context.Context, id string, r io.Reader, filename, contentType string) (string, error) {
	if s.Avatars == nil {
		return "", apperror.Internal(errors.New("avatar storage not configured"), "upload avatar")
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", id, uuid.NewString()+ext))
	url, err := s.Avatars.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return "", apperror.Internal(err, "upload avatar")
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		return "", err
	}
	s.indexUser(ctx, u)
	return url, nil
}

// Suggest queries the search index. Without an index it returns an empty list.
func (s *UserService) Suggest(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Index.Suggest(ctx, q, size)
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("user index failed")
	}
}
