package config

import (
	"fmt"
	"os"
	"strings"
)

type FilterConfig struct {
	AllowList     []string
	InboundBucket string
}

func GetFilterConfig() (*FilterConfig, error) {
	whitelist := os.Getenv("WHITELIST")
	if strings.TrimSpace(whitelist) == "" {
		return nil, fmt.Errorf("WHITELIST must be set")
	}
	inboundBucket := os.Getenv("S3_BUCKET")
	if inboundBucket == "" {
		return nil, fmt.Errorf("S3_BUCKET must be set")
	}

	allowList := make([]string, 0)
	for _, sender := range strings.Split(whitelist, ",") {
		if sender = strings.TrimSpace(sender); sender != "" {
			allowList = append(allowList, sender)
		}
	}

	return &FilterConfig{
		AllowList:     allowList,
		InboundBucket: inboundBucket,
	}, nil
}
