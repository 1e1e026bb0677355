package main

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Storage struct {
		Backend  string `yaml:"backend"`
		Path     string `yaml:"path"`
		Database string `yaml:"database"`
		S3       struct {
			Bucket    string `yaml:"bucket"`
			Region    string `yaml:"region"`
			Endpoint  string `yaml:"endpoint"`
			AccessKey string `yaml:"access_key"`
			SecretKey string `yaml:"secret_key"`
		} `yaml:"s3"`
	} `yaml:"storage"`
	API struct {
		Port string `yaml:"port"`
	} `yaml:"api"`
	Auth struct {
		// SessionSecret signs session tokens; CapabilityKey (hex, 32
		// bytes once decoded) encrypts capability tokens. Both are
		// required: the process refuses to start without them.
		SessionSecret      string `yaml:"session_secret"`
		CapabilityKey      string `yaml:"capability_key"`
		SessionTTLMinutes  int    `yaml:"session_ttl_minutes"`
		DownloadTTLMinutes int    `yaml:"download_ttl_minutes"`
		VerifyTTLHours     int    `yaml:"verify_ttl_hours"`
	} `yaml:"auth"`
}

func LoadConfig() *Config {
	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}

	config := defaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("Failed to read config file, using defaults: %v", err)
	} else if err := yaml.Unmarshal(data, config); err != nil {
		log.Printf("Failed to parse config file, using defaults: %v", err)
	}

	// Secrets from the environment win over the config file
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		config.Auth.SessionSecret = secret
	}
	if key := os.Getenv("CAPABILITY_KEY"); key != "" {
		config.Auth.CapabilityKey = key
	}

	if config.Auth.SessionSecret == "" {
		log.Fatal("Session secret must be set via SESSION_SECRET environment variable or config file")
	}
	if config.Auth.CapabilityKey == "" {
		log.Fatal("Capability key must be set via CAPABILITY_KEY environment variable or config file")
	}

	// Log a hash prefix only, to avoid exposing the secret
	hasher := sha256.New()
	hasher.Write([]byte(config.Auth.SessionSecret))
	hashBytes := hasher.Sum(nil)[:8]
	log.Printf("Session secret configured (hash prefix: %s...)", hex.EncodeToString(hashBytes))

	return config
}

func defaultConfig() *Config {
	config := &Config{}
	config.Storage.Backend = "local"
	config.Storage.Path = "./uploaded_files"
	config.Storage.Database = "./fileexchange.db"
	config.API.Port = "8080"
	config.Auth.SessionTTLMinutes = 60
	config.Auth.DownloadTTLMinutes = 15
	config.Auth.VerifyTTLHours = 24
	return config
}
