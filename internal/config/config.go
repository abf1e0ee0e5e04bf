// Package config handles configuration for the wiki server, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the wiki server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP endpoint.
//   - ContentBucket: bucket holding wiki pages, uploads, profile pictures
//     and the two JSON table documents.
//   - CredentialsBucket: bucket holding one blob per username.
//   - SiteSecret: salt mixed into password hashes. Do not use the test
//     default in prod.
//   - SessionSecret: HMAC secret for signing session tokens (HS256).
//   - SessionValidityDuration: session token lifetime.
//   - S3AccessKey / S3SecretKey: credentials for the S3-compatible backend.
//   - S3Region / S3BaseEndpoint: object storage settings.
//   - StorageOpTimeout: per-call deadline for object store round-trips.
type Config struct {
	EndpointAddrHTTP        string
	ContentBucket           string
	CredentialsBucket       string
	SiteSecret              string
	SessionSecret           string
	SessionValidityDuration time.Duration
	S3AccessKey             string
	S3SecretKey             string
	S3Region                string
	S3BaseEndpoint          string
	StorageOpTimeout        time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.ContentBucket = "awesomewikicontent"
	c.CredentialsBucket = "usersandpasswords"
	c.SiteSecret = "superduperteamawesome"
	c.SessionSecret = "secretKey"
	c.SessionValidityDuration = 24 * time.Hour
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.StorageOpTimeout = 10 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
