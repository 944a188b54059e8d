package kafka

import (
	"strings"
	"time"
)

const (
	// readTimeout is the maximum time to wait for a batch of entries.
	readTimeout = 10 * time.Second
	// commitInterval is how often consumed offsets are committed.
	commitInterval = 1 * time.Second
	// writeTimeout is the maximum time to wait for a Kafka write.
	writeTimeout = 10 * time.Second
)

// ParseBrokers splits a comma-separated broker list and trims whitespace.
func ParseBrokers(brokers string) []string {
	if brokers == "" {
		return nil
	}
	list := strings.Split(brokers, ",")
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}
	return list
}
