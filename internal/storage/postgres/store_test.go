package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresSettingsStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSettingsStore(db), mock
}

func TestCustomerIDs(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT customer_ids FROM account_customers WHERE account_id = $1`)

	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(query).
			WithArgs("acc-1").
			WillReturnRows(sqlmock.NewRows([]string{"customer_ids"}).AddRow("{cust-1,cust-2}"))

		ids, err := store.CustomerIDs(context.Background(), "acc-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"cust-1", "cust-2"}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no row", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(query).WithArgs("acc-2").WillReturnError(sql.ErrNoRows)

		ids, err := store.CustomerIDs(context.Background(), "acc-2")
		require.NoError(t, err)
		assert.Nil(t, ids)
	})

	t.Run("db error", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(query).WithArgs("acc-3").WillReturnError(errors.New("connection reset"))

		_, err := store.CustomerIDs(context.Background(), "acc-3")
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestAlertSettings(t *testing.T) {
	query := regexp.QuoteMeta(`SELECT settings FROM customer_alert_settings WHERE customer_id = $1`)

	t.Run("decodes profile", func(t *testing.T) {
		store, mock := newMockStore(t)
		doc := `{
			"account_alert_settings": [{
				"account_id": "acc-1",
				"currency": "EUR",
				"settings": [{"alert_type": "ALERT_BALANCE_BELOW_THRESHOLD", "amount": "0", "channels": ["SMS", "FAX"]}]
			}],
			"addresses": [{"channel": "sms", "value": "+31600000000"}]
		}`
		mock.ExpectQuery(query).
			WithArgs("cust-1").
			WillReturnRows(sqlmock.NewRows([]string{"settings"}).AddRow([]byte(doc)))

		profile, err := store.AlertSettings(context.Background(), "cust-1")
		require.NoError(t, err)
		require.NotNil(t, profile)

		assert.Equal(t, "cust-1", profile.CustomerID)
		require.Len(t, profile.AccountAlertSettings, 1)
		rule := profile.AccountAlertSettings[0].Settings[0]
		assert.Equal(t, models.AlertBalanceBelowThreshold, rule.Kind)
		assert.Equal(t, []models.ChannelKind{models.ChannelSMS, models.ChannelUnknown}, rule.Channels)
		assert.Equal(t, []models.Address{models.PhoneNumber("+31600000000")}, profile.Addresses)
	})

	t.Run("no settings", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(query).WithArgs("cust-2").WillReturnError(sql.ErrNoRows)

		profile, err := store.AlertSettings(context.Background(), "cust-2")
		require.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("corrupt document", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(query).
			WithArgs("cust-3").
			WillReturnRows(sqlmock.NewRows([]string{"settings"}).AddRow([]byte(`{"addresses": 5}`)))

		_, err := store.AlertSettings(context.Background(), "cust-3")
		assert.ErrorContains(t, err, "decode alert settings")
	})
}

func TestSaveAlertSettings(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO customer_alert_settings`)).
		WithArgs("cust-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.SaveAlertSettings(context.Background(), models.CustomerAlertProfile{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Error(t, store.SaveAlertSettings(context.Background(), models.CustomerAlertProfile{}))
}

func TestSetCustomers(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO account_customers`)).
		WithArgs("acc-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SetCustomers(context.Background(), "acc-1", []string{"cust-1"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS account_customers`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}
