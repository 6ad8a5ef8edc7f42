package service

import (
	"errors"
	"strings"

	"bdsev/config"
	"bdsev/internal/auth"
	"bdsev/internal/domain"
	"bdsev/internal/models"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailExists  = errors.New("email already registered")
	ErrInvalidCreds = errors.New("invalid email or password")
)

// AuthUserStore is the user surface the auth flows need.
type AuthUserStore interface {
	Create(u *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}

type AuthService struct {
	cfg   *config.Config
	users AuthUserStore
}

func NewAuthService(cfg *config.Config, users AuthUserStore) *AuthService {
	return &AuthService{cfg: cfg, users: users}
}

// RegisterInput carries the signup fields. The profile fields feed the
// event pricing classifier and are optional at signup.
type RegisterInput struct {
	FullName  string
	Email     string
	Password  string
	Phone     string
	Mobile    string
	Category  string
	Position  string
	Specialty string
}

func (s *AuthService) Register(in RegisterInput) (*models.User, string, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, "", "", err
	}
	if existing != nil {
		return nil, "", "", ErrEmailExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		Mobile:       strings.TrimSpace(in.Mobile),
	}
	if in.Category != "" || in.Position != "" || in.Specialty != "" {
		u.MemberProfile = &models.MemberProfile{
			Category:  strings.TrimSpace(in.Category),
			Position:  strings.TrimSpace(in.Position),
			Specialty: strings.TrimSpace(in.Specialty),
		}
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", "", err
	}
	if u.Role == "" {
		u.Role = domain.RoleMember
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", "", err
	}
	if u == nil {
		return nil, "", "", ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, nil
}

func (s *AuthService) RefreshToken(refreshToken string) (access, refresh string, err error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	u, err := s.users.GetByID(userID)
	if err != nil {
		return "", "", err
	}
	if u == nil {
		return "", "", auth.ErrInvalidToken
	}
	access, _ = auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role)
	refresh, _ = auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return access, refresh, nil
}
