package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/teamawesome/wikistore/internal/flagx"
	"github.com/teamawesome/wikistore/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// Duration fields accept both strings like "30s" and integer nanoseconds;
// after unmarshalling the values are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	ContentBucket           string         `json:"content_bucket"`
	CredentialsBucket       string         `json:"credentials_bucket"`
	SiteSecret              string         `json:"site_secret"`
	SessionSecret           string         `json:"session_secret"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	S3AccessKey             string         `json:"s3_access_key"`
	S3SecretKey             string         `json:"s3_secret_key"`
	S3Region                string         `json:"s3_region"`
	S3BaseEndpoint          string         `json:"s3_base_endpoint"`
	StorageOpTimeout        timex.Duration `json:"storage_op_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c
// or -config flags into the provided Config. If neither flag is set, no
// file is loaded. An unreadable or invalid file panics: a half-applied
// config is worse than a refusal to start.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.ContentBucket = c.ContentBucket
	config.CredentialsBucket = c.CredentialsBucket
	config.SiteSecret = c.SiteSecret
	config.SessionSecret = c.SessionSecret
	config.SessionValidityDuration = time.Duration(c.SessionValidityDuration.Duration)
	config.S3AccessKey = c.S3AccessKey
	config.S3SecretKey = c.S3SecretKey
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.StorageOpTimeout = time.Duration(c.StorageOpTimeout.Duration)
}
