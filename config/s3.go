package config

import (
	"fmt"
	"os"
)

const (
	StoreBackendS3     = "s3"
	StoreBackendNats   = "nats"
	StoreBackendMemory = "memory"
)

type StoreConfig struct {
	Backend       string
	Region        string
	Endpoint      string
	PublicBaseUrl string
	NatsUrl       string
}

func GetStoreConfig() (*StoreConfig, error) {
	backend := getEnvOrDefault("STORE_BACKEND", StoreBackendS3)

	cfg := &StoreConfig{
		Backend:       backend,
		Region:        os.Getenv("REGION"),
		Endpoint:      os.Getenv("S3_ENDPOINT"),
		PublicBaseUrl: os.Getenv("PUBLIC_BASE_URL"),
		NatsUrl:       getEnvOrDefault("NATS_URL", "nats://127.0.0.1:4222"),
	}

	switch backend {
	case StoreBackendS3:
		if cfg.Region == "" {
			return nil, fmt.Errorf("REGION must be set")
		}
	case StoreBackendNats, StoreBackendMemory:
	default:
		return nil, fmt.Errorf("STORE_BACKEND must be one of %s, %s, %s", StoreBackendS3, StoreBackendNats, StoreBackendMemory)
	}

	return cfg, nil
}
