package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/config"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
	"github.com/tadreeshq/tadrees-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// Register creates a teacher or student account. New teacher accounts
// start with zero limits until a subscription is activated.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, apperr.Validation("email required and password must be at least 8 characters")
	}
	if req.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if req.Role != RoleTeacher && req.Role != RoleStudent {
		return nil, apperr.Validation("role must be teacher or student")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	switch req.Role {
	case RoleTeacher:
		var existing models.Teacher
		if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			return nil, apperr.Conflict("email already registered")
		}
		teacher := models.Teacher{
			ID:       uuid.New(),
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hash),
		}
		if req.Phone != "" {
			teacher.Phone = &req.Phone
		}
		if req.Subjects != "" {
			teacher.Subjects = &req.Subjects
		}
		if err := s.db.Create(&teacher).Error; err != nil {
			return nil, fmt.Errorf("failed to create teacher: %w", err)
		}
		return s.issueToken(teacher.ID, teacher.Email, RoleTeacher)

	default:
		var existing models.Student
		if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			return nil, apperr.Conflict("email already registered")
		}
		student := models.Student{
			ID:       uuid.New(),
			Name:     req.Name,
			Email:    req.Email,
			Password: string(hash),
			Grade:    req.Grade,
		}
		if req.Phone != "" {
			student.Phone = &req.Phone
		}
		if err := s.db.Create(&student).Error; err != nil {
			return nil, fmt.Errorf("failed to create student: %w", err)
		}
		return s.issueToken(student.ID, student.Email, RoleStudent)
	}
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	var (
		id       uuid.UUID
		email    string
		password string
	)

	switch req.Role {
	case RoleTeacher, "":
		var teacher models.Teacher
		err := s.db.Where("email = ?", req.Email).First(&teacher).Error
		if err == nil {
			id, email, password = teacher.ID, teacher.Email, teacher.Password
			req.Role = RoleTeacher
			break
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load account: %w", err)
		}
		if req.Role == RoleTeacher {
			return nil, apperr.Authorization("invalid email or password")
		}
		fallthrough
	case RoleStudent:
		var student models.Student
		if err := s.db.Where("email = ?", req.Email).First(&student).Error; err != nil {
			return nil, apperr.Authorization("invalid email or password")
		}
		id, email, password = student.ID, student.Email, student.Password
		req.Role = RoleStudent
	default:
		return nil, apperr.Validation("role must be teacher or student")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		return nil, apperr.Authorization("invalid email or password")
	}

	return s.issueToken(id, email, req.Role)
}

func (s *AuthService) issueToken(id uuid.UUID, email, role string) (*dto.AuthResponse, error) {
	claims := jwt.MapClaims{
		"sub":   id.String(),
		"email": email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	return &dto.AuthResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.cfg.JWTAccessExpiry.Seconds()),
		UserID:      id.String(),
		Role:        role,
	}, nil
}
