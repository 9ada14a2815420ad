package storage

import (
	"errors"
	"strings"
)

// MinIOConfig describes the bucket and object the minio store backend uses.
// internal/config fills it from MINIO_* variables.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// ObjectKey is the object holding the serialized todo set.
	ObjectKey string
}

// Validate reports the first missing setting.
func (c *MinIOConfig) Validate() error {
	switch {
	case c == nil || strings.TrimSpace(c.Endpoint) == "":
		return errors.New("MINIO_ENDPOINT is required for the minio backend")
	case c.Bucket == "":
		return errors.New("MINIO_BUCKET must not be empty")
	case c.ObjectKey == "":
		return errors.New("MINIO_OBJECT_KEY must not be empty")
	}
	return nil
}
