package repositories

import (
	"context"

	"github.com/cbodonnell/monstermaker/pkg/repositories/models"
)

// Repository provides owner-scoped access to the monster collection.
// Every per-record operation filters by both the monster ID and the
// owner ID in a single query so the store itself enforces ownership.
type Repository interface {
	Close(ctx context.Context) error
	ListMonsters(ctx context.Context, ownerID string) ([]models.Monster, error)
	GetMonster(ctx context.Context, ownerID string, monsterID string) (*models.Monster, error)
	CreateMonster(ctx context.Context, ownerID string, monster *models.Monster) (*models.Monster, error)
	UpdateMonster(ctx context.Context, ownerID string, monsterID string, patch *models.MonsterPatch) (*models.Monster, error)
	DeleteMonster(ctx context.Context, ownerID string, monsterID string) error
}
