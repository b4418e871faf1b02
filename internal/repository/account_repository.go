package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/uniadmin/ums-api/internal/models"
)

const accountColumns = "id, username, email, password_hash, full_name, role, department, phone, is_active, created_at, updated_at"

// AccountRepository handles persistence for operator accounts.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new repository instance.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByID returns an account by id.
func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE id = $1", accountColumns)
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByUsernameOrEmail resolves an account by either natural identifier.
func (r *AccountRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.Account, error) {
	query := fmt.Sprintf("SELECT %s FROM accounts WHERE username = $1 OR email = $1 LIMIT 1", accountColumns)
	var account models.Account
	if err := r.db.GetContext(ctx, &account, query, identifier); err != nil {
		return nil, err
	}
	return &account, nil
}

// ExistsByUsernameOrEmail reports whether either identifier is taken.
func (r *AccountRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const query = "SELECT 1 FROM accounts WHERE username = $1 OR email = $2 LIMIT 1"
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, username, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check account identity: %w", err)
	}
	return true, nil
}

// Create persists a new account and fills the generated id.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	const query = `INSERT INTO accounts (username, email, password_hash, full_name, role, department, phone, is_active, created_at, updated_at)
		VALUES (:username, :email, :password_hash, :full_name, :role, :department, :phone, :is_active, :created_at, :updated_at)
		RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, account)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&account.ID); err != nil {
			return fmt.Errorf("scan account id: %w", err)
		}
	}
	return rows.Err()
}
