package alerts

import (
	"time"

	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

// BuildMessage stamps the message with the generation time, not the booking time.
func BuildMessage(kind models.AlertKind, params []Param, now time.Time) models.OutboundMessage {
	values := make(map[string]string, len(params))
	for _, p := range params {
		values[p.Key] = p.Value
	}
	return models.OutboundMessage{
		MessageType: kind,
		Timestamp:   now.UnixMilli(),
		Params:      values,
	}
}
