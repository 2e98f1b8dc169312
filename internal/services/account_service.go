package services

import (
	"context"
	"errors"
	"log"
	"time"

	"pedalgo/internal/caching"
	"pedalgo/internal/models"
	"pedalgo/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const profileCacheTTL = 5 * time.Minute

type AccountService interface {
	Register(ctx context.Context, name, email, password string, phone, cpf *string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdatePhone(ctx context.Context, userID uuid.UUID, phone *string) (*models.User, error)
}

type accountService struct {
	userRepo repositories.UserRepository
	cacheSvc caching.CacheService
}

func NewAccountService(userRepo repositories.UserRepository, cacheSvc caching.CacheService) AccountService {
	return &accountService{
		userRepo: userRepo,
		cacheSvc: cacheSvc,
	}
}

func (s *accountService) Register(ctx context.Context, name, email, password string, phone, cpf *string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        phone,
		CPF:          cpf,
		Points:       models.DefaultUserPoints,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *accountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *accountService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if cached, err := s.cacheSvc.GetUser(ctx, userID); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: profile cache read failed for %s: %v", userID, err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.cacheSvc.SetUser(ctx, user, profileCacheTTL); err != nil {
		log.Printf("WARN: profile cache write failed for %s: %v", userID, err)
	}
	return user, nil
}

func (s *accountService) UpdatePhone(ctx context.Context, userID uuid.UUID, phone *string) (*models.User, error) {
	// Only the phone field is mutable through the profile endpoint.
	if phone != nil {
		if err := s.userRepo.UpdatePhone(ctx, userID, phone); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if err := s.cacheSvc.DeleteUser(ctx, userID); err != nil {
			log.Printf("WARN: profile cache invalidation failed for %s: %v", userID, err)
		}
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
