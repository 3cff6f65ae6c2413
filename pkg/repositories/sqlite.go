package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cbodonnell/monstermaker/pkg/repositories/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
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

		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) ListMonsters(ctx context.Context, ownerID string) ([]models.Monster, error) {
	q := `
	SELECT id, name, type, hp, exp, ac, dpr, atk, sdc, cr, owner_id
	FROM monsters WHERE owner_id = ?;
	`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
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

func (r *SQLiteRepository) GetMonster(ctx context.Context, ownerID string, monsterID string) (*models.Monster, error) {
	q := `
	SELECT id, name, type, hp, exp, ac, dpr, atk, sdc, cr, owner_id
	FROM monsters WHERE id = ? AND owner_id = ?;
	`
	var m models.Monster
	if err := r.db.QueryRowContext(ctx, q, monsterID, ownerID).Scan(&m.ID, &m.Name, &m.Type, &m.HP, &m.Exp, &m.AC, &m.DPR, &m.Atk, &m.SDC, &m.CR, &m.OwnerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan monster: %v", err)
	}

	return &m, nil
}

func (r *SQLiteRepository) CreateMonster(ctx context.Context, ownerID string, monster *models.Monster) (*models.Monster, error) {
	monster.ID = uuid.NewString()
	monster.OwnerID = ownerID

	q := `
	INSERT INTO monsters (id, name, type, hp, exp, ac, dpr, atk, sdc, cr, owner_id)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, monster.ID, monster.Name, monster.Type, monster.HP, monster.Exp, monster.AC, monster.DPR, monster.Atk, monster.SDC, monster.CR, monster.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert monster: %v", err)
	}

	return monster, nil
}

func (r *SQLiteRepository) UpdateMonster(ctx context.Context, ownerID string, monsterID string, patch *models.MonsterPatch) (*models.Monster, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	q := `
	SELECT id, name, type, hp, exp, ac, dpr, atk, sdc, cr, owner_id
	FROM monsters WHERE id = ? AND owner_id = ?;
	`
	var m models.Monster
	if err := tx.QueryRowContext(ctx, q, monsterID, ownerID).Scan(&m.ID, &m.Name, &m.Type, &m.HP, &m.Exp, &m.AC, &m.DPR, &m.Atk, &m.SDC, &m.CR, &m.OwnerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan monster: %v", err)
	}

	patch.Apply(&m)

	q = `
	UPDATE monsters SET name = ?, type = ?, hp = ?, exp = ?, ac = ?, dpr = ?, atk = ?, sdc = ?, cr = ?
	WHERE id = ? AND owner_id = ?;
	`
	if _, err := tx.ExecContext(ctx, q, m.Name, m.Type, m.HP, m.Exp, m.AC, m.DPR, m.Atk, m.SDC, m.CR, m.ID, m.OwnerID); err != nil {
		return nil, fmt.Errorf("failed to update monster: %v", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %v", err)
	}

	return &m, nil
}

func (r *SQLiteRepository) DeleteMonster(ctx context.Context, ownerID string, monsterID string) error {
	q := `
	DELETE FROM monsters WHERE id = ? AND owner_id = ?;
	`
	if _, err := r.db.ExecContext(ctx, q, monsterID, ownerID); err != nil {
		return fmt.Errorf("failed to delete monster: %v", err)
	}

	return nil
}
