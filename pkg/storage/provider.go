package storage

import (
	"fmt"
	"strings"
)

type Config struct {
	Provider string

	LocalPath string
	LocalURL  string

	AWSRegion          string
	AWSBucket          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSCDNDomain       string

	GCPBucket          string
	GCPCredentialsFile string
	GCPCDNDomain       string
}

func NewProvider(cfg Config) (StorageProvider, error) {
	switch cfg.Provider {
	case "", "local":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "aws":
		return NewAWSS3Storage(cfg.AWSRegion, cfg.AWSBucket, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSCDNDomain)
	case "gcp":
		return NewGCPStorage(cfg.GCPBucket, cfg.GCPCredentialsFile, cfg.GCPCDNDomain)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return false
		}
	}
	return true
}

func trimBase(url, base string) (string, bool) {
	base = strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	return key, validKey(key)
}
