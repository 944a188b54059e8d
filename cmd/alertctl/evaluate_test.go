package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

const entryJSON = `{
  "entry_id": "e-1",
  "account_id": "acc-1",
  "account_currency": "EUR",
  "booking_amount": "5000",
  "booking_credit_debit_indicator": "CRDT",
  "balance_after_booking": "15000",
  "balance_after_booking_credit_debit_indicator": "CRDT"
}`

const profileJSON = `{
  "customer_id": "cust-1",
  "account_alert_settings": [{
    "account_id": "acc-1",
    "currency": "EUR",
    "settings": [{"alert_type": "ALERT_BALANCE_ABOVE_THRESHOLD", "amount": "10000", "channels": ["EMAIL", "SMS"]}]
  }],
  "addresses": [
    {"channel": "EMAIL", "value": "jane@example.com"},
    {"channel": "SMS", "value": "+4915112345678"}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runEvaluate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"evaluate"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestEvaluateCmd(t *testing.T) {
	cmd := evaluateCmd()
	require.NotNil(t, cmd)

	assert.Equal(t, "evaluate", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	entryFlag := cmd.Flags().Lookup("entry")
	require.NotNil(t, entryFlag)
	assert.Equal(t, "e", entryFlag.Shorthand)

	profileFlag := cmd.Flags().Lookup("profile")
	require.NotNil(t, profileFlag)
	assert.Equal(t, "p", profileFlag.Shorthand)
}

func TestEvaluate_WithProfile(t *testing.T) {
	entry := writeFile(t, "entry.json", entryJSON)
	profile := writeFile(t, "profile.json", profileJSON)

	out, err := runEvaluate(t, "--entry", entry, "--profile", profile)
	require.NoError(t, err)

	var messages []models.AddressedMessage
	require.NoError(t, json.Unmarshal([]byte(out), &messages))
	require.Len(t, messages, 2)

	assert.Equal(t, models.EmailAddress("jane@example.com"), messages[0].Address)
	assert.Equal(t, models.PhoneNumber("+4915112345678"), messages[1].Address)
	for _, m := range messages {
		assert.Equal(t, models.AlertBalanceAboveThreshold, m.Message.MessageType)
		assert.Equal(t, "100.00", m.Message.Params["alert_settings_amount"])
		assert.Equal(t, "150.00", m.Message.Params["balance_amount"])
	}
}

func TestEvaluate_WithoutProfile(t *testing.T) {
	entry := writeFile(t, "entry.json", entryJSON)

	out, err := runEvaluate(t, "--entry", entry)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestEvaluate_Errors(t *testing.T) {
	entry := writeFile(t, "entry.json", entryJSON)
	badEntry := writeFile(t, "bad.json", `{"booking_amount": `)
	badAmount := writeFile(t, "profile.json",
		`{"customer_id":"c","account_alert_settings":[{"account_id":"acc-1","currency":"EUR","settings":[{"alert_type":"ALERT_BALANCE_ABOVE_THRESHOLD","amount":"lots","channels":["EMAIL"]}]}]}`)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing entry flag", nil, "required flag"},
		{"entry file not found", []string{"--entry", filepath.Join(t.TempDir(), "nope.json")}, "read entry"},
		{"entry not json", []string{"--entry", badEntry}, "read entry"},
		{"malformed threshold", []string{"--entry", entry, "--profile", badAmount}, "malformed amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runEvaluate(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
