package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutoria-api/internal/models"
)

type seedUserRepository interface {
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
}

// SeedAccount is a baseline account ensured at startup.
type SeedAccount struct {
	Username string
	Password string
	Role     models.UserRole
}

// SeedService makes sure the baseline accounts exist.
type SeedService struct {
	repo   seedUserRepository
	logger *zap.Logger
	cost   int
}

// NewSeedService constructs the service.
func NewSeedService(repo seedUserRepository, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{repo: repo, logger: logger, cost: bcrypt.DefaultCost}
}

// Ensure inserts each account whose username is not taken yet. Existing
// accounts keep their password and role.
func (s *SeedService) Ensure(ctx context.Context, accounts ...SeedAccount) error {
	for _, acc := range accounts {
		if acc.Username == "" {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), s.cost)
		if err != nil {
			return fmt.Errorf("hash seed password for %s: %w", acc.Username, err)
		}
		created, err := s.repo.CreateIfAbsent(ctx, &models.User{
			Username:     acc.Username,
			PasswordHash: string(hash),
			Role:         acc.Role,
		})
		if err != nil {
			return fmt.Errorf("seed %s: %w", acc.Username, err)
		}
		if created {
			s.logger.Info("seed account created", zap.String("username", acc.Username), zap.String("role", string(acc.Role)))
		}
	}
	return nil
}
