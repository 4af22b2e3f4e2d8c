package config

import (
	"fmt"
	"os"
)

type DynamoConfig struct {
	TableName  string
	TtlMinutes int
}

// LedgerEnabled reports whether a processing ledger table is configured.
func LedgerEnabled() bool {
	return os.Getenv("DYNAMO_TABLE_NAME") != ""
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("DYNAMO_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("DYNAMO_TABLE_NAME must be set")
	}
	ttlMinutes, err := getIntEnvOrDefault("DYNAMO_LOCK_TTL_MINUTES", 15)
	if err != nil {
		return nil, err
	}

	return &DynamoConfig{
		TableName:  tableName,
		TtlMinutes: ttlMinutes,
	}, nil
}
