package config

import (
	"flag"
	"os"
	"time"

	"github.com/teamawesome/wikistore/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-w string   content bucket name
//	-u string   credentials bucket name
//	-x string   site secret (password hash salt)
//	-s string   session secret key
//	-v int      session validity, minutes
//	-k string   S3 access key
//	-p string   S3 secret key
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-t int      per-call storage timeout, seconds
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-u", "-x", "-s", "-v", "-k", "-p", "-g", "-e", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.ContentBucket, "w", config.ContentBucket, "content bucket name")
	fs.StringVar(&config.CredentialsBucket, "u", config.CredentialsBucket, "credentials bucket name")
	fs.StringVar(&config.SiteSecret, "x", config.SiteSecret, "site secret (hash salt)")
	fs.StringVar(&config.SessionSecret, "s", config.SessionSecret, "session secret key")

	sessionValidity := fs.Int("v", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")

	fs.StringVar(&config.S3AccessKey, "k", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	storageTimeout := fs.Int("t", int(config.StorageOpTimeout.Seconds()), "storage_op_timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.StorageOpTimeout = time.Duration(*storageTimeout) * time.Second
}
