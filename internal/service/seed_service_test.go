package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutoria-api/internal/models"
)

type memorySeedRepo struct {
	users map[string]models.User
	err   error
}

func (m *memorySeedRepo) CreateIfAbsent(ctx context.Context, user *models.User) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.users[user.Username]; ok {
		return false, nil
	}
	m.users[user.Username] = *user
	return true, nil
}

func TestSeedEnsureIsIdempotent(t *testing.T) {
	repo := &memorySeedRepo{users: map[string]models.User{}}
	svc := NewSeedService(repo, zap.NewNop())
	svc.cost = bcrypt.MinCost

	accounts := []SeedAccount{
		{Username: "gestao", Password: "adm", Role: models.RoleGestao},
		{Username: "renato", Password: "1234", Role: models.RoleProfessor},
	}
	require.NoError(t, svc.Ensure(context.Background(), accounts...))
	first := repo.users["gestao"].PasswordHash

	accounts[0].Password = "changed"
	require.NoError(t, svc.Ensure(context.Background(), accounts...))

	assert.Len(t, repo.users, 2)
	assert.Equal(t, first, repo.users["gestao"].PasswordHash)
	assert.Equal(t, models.RoleGestao, repo.users["gestao"].Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["renato"].PasswordHash), []byte("1234")))
}

func TestSeedEnsurePropagatesErrors(t *testing.T) {
	repo := &memorySeedRepo{users: map[string]models.User{}, err: errors.New("db down")}
	svc := NewSeedService(repo, nil)
	svc.cost = bcrypt.MinCost

	err := svc.Ensure(context.Background(), SeedAccount{Username: "gestao", Password: "x", Role: models.RoleGestao})
	assert.ErrorContains(t, err, "db down")
}
