package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	interfaces "github.com/sheikh-saqib/balance-alerts/internal/interfaces"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// PostgresSettingsStore reads the account to customer mapping and the
// per-customer alert settings. Settings are stored as one jsonb document
// per customer.
type PostgresSettingsStore struct {
	db *sql.DB
}

func NewPostgresSettingsStore(db *sql.DB) *PostgresSettingsStore {
	return &PostgresSettingsStore{
		db: db,
	}
}

func (p *PostgresSettingsStore) CustomerIDs(ctx context.Context, accountID string) ([]string, error) {
	const query = `SELECT customer_ids FROM account_customers WHERE account_id = $1`

	var ids []string
	err := p.db.QueryRowContext(ctx, query, accountID).Scan(pq.Array(&ids))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query customers for account %s: %w", accountID, err)
	}
	return ids, nil
}

func (p *PostgresSettingsStore) SetCustomers(ctx context.Context, accountID string, customerIDs []string) error {
	const query = `INSERT INTO account_customers (account_id, customer_ids)
	VALUES ($1, $2)
	ON CONFLICT (account_id) DO UPDATE SET customer_ids = EXCLUDED.customer_ids`

	_, err := p.db.ExecContext(ctx, query, accountID, pq.Array(customerIDs))
	return err
}

func (p *PostgresSettingsStore) AlertSettings(ctx context.Context, customerID string) (*models.CustomerAlertProfile, error) {
	const query = `SELECT settings FROM customer_alert_settings WHERE customer_id = $1`

	var raw []byte
	err := p.db.QueryRowContext(ctx, query, customerID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query alert settings for customer %s: %w", customerID, err)
	}

	var profile models.CustomerAlertProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("decode alert settings for customer %s: %w", customerID, err)
	}
	if profile.CustomerID == "" {
		profile.CustomerID = customerID
	}
	return &profile, nil
}

func (p *PostgresSettingsStore) SaveAlertSettings(ctx context.Context, profile models.CustomerAlertProfile) error {
	const query = `INSERT INTO customer_alert_settings (customer_id, settings, updated_at)
	VALUES ($1, $2, now())
	ON CONFLICT (customer_id) DO UPDATE SET settings = EXCLUDED.settings, updated_at = now()`

	if profile.CustomerID == "" {
		return errors.New("customer id is required")
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, query, profile.CustomerID, data)
	return err
}

var (
	_ interfaces.CustomerLookup = (*PostgresSettingsStore)(nil)
	_ interfaces.SettingsStore  = (*PostgresSettingsStore)(nil)
	_ interfaces.SettingsWriter = (*PostgresSettingsStore)(nil)
)
