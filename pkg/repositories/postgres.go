package repositories

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cbodonnell/monstermaker/pkg/repositories/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (Repository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	dir, err := os.ReadDir(migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if _, err := pool.Exec(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) ListMonsters(ctx context.Context, ownerID string) ([]models.Monster, error) {
	q := `
	SELECT id, name, type, hp, exp, ac, dpr, atk, sdc, cr, owner_id
	FROM monsters WHERE owner_id = $1;
	`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monsters: %v", err)
	}
	defer rows.Close()

	monsters := []models.Monster{}
	for rows.Next() {
		var m models.Monster
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.HP, &m.Exp, &m.AC, &m.DPR, &m.Atk, &m.SDC, &m.CR, &m.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan monster: %v", err)
		}
		monsters = append(monsters, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monsters: %v", err)
	}

	return monsters, nil
}

func (r *PostgresRepository) GetMonster(ctx context.Context, ownerID string, monsterID string) (*models.Monster, error) {
	q := `
	SELECT id, name, type, hp, exp, ac, dpr, atk, sdc, cr, owner_id
	FROM monsters WHERE id = $1 AND owner_id = $2;
	`
	var m models.Monster
	if err := r.pool.QueryRow(ctx, q, monsterID, ownerID).Scan(&m.ID, &m.Name, &m.Type, &m.HP, &m.Exp, &m.AC, &m.DPR, &m.Atk, &m.SDC, &m.CR, &m.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan monster: %v", err)
	}

	return &m, nil
}

func (r *PostgresRepository) CreateMonster(ctx context.Context, ownerID string, monster *models.Monster) (*models.Monster, error) {
	monster.ID = uuid.NewString()
	monster.OwnerID = ownerID

	q := `
	INSERT INTO monsters (id, name, type, hp, exp, ac, dpr, atk, sdc, cr, owner_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, q, monster.ID, monster.Name, monster.Type, monster.HP, monster.Exp, monster.AC, monster.DPR, monster.Atk, monster.SDC, monster.CR, monster.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert monster: %v", err)
	}

	return monster, nil
}

func (r *PostgresRepository) UpdateMonster(ctx context.Context, ownerID string, monsterID string, patch *models.MonsterPatch) (*models.Monster, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	q := `
	SELECT id, name, type, hp, exp, ac, dpr, atk, sdc, cr, owner_id
	FROM monsters WHERE id = $1 AND owner_id = $2 FOR UPDATE;
	`
	var m models.Monster
	if err := tx.QueryRow(ctx, q, monsterID, ownerID).Scan(&m.ID, &m.Name, &m.Type, &m.HP, &m.Exp, &m.AC, &m.DPR, &m.Atk, &m.SDC, &m.CR, &m.OwnerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan monster: %v", err)
	}

	patch.Apply(&m)

	q = `
	UPDATE monsters SET name = $1, type = $2, hp = $3, exp = $4, ac = $5, dpr = $6, atk = $7, sdc = $8, cr = $9
	WHERE id = $10 AND owner_id = $11;
	`
	if _, err := tx.Exec(ctx, q, m.Name, m.Type, m.HP, m.Exp, m.AC, m.DPR, m.Atk, m.SDC, m.CR, m.ID, m.OwnerID); err != nil {
		return nil, fmt.Errorf("failed to update monster: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return &m, nil
}

func (r *PostgresRepository) DeleteMonster(ctx context.Context, ownerID string, monsterID string) error {
	q := `
	DELETE FROM monsters WHERE id = $1 AND owner_id = $2;
	`
	if _, err := r.pool.Exec(ctx, q, monsterID, ownerID); err != nil {
		return fmt.Errorf("failed to delete monster: %v", err)
	}

	return nil
}
