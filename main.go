package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlasops/fileexchange/pkg/token"
)

func main() {
	seed := flag.Bool("seed", false, "seed demo users plus one test file and exit")
	flag.Parse()

	config := LoadConfig()

	if err := InitDB(config.Storage.Database); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer CloseDB()

	storage, err := newBlobStore(config)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	if *seed {
		if err := runSeed(storage); err != nil {
			log.Fatal("Failed to seed:", err)
		}
		log.Println("Seeded demo users and one test file")
		return
	}

	capabilityKey, err := hex.DecodeString(config.Auth.CapabilityKey)
	if err != nil || len(capabilityKey) != 32 {
		log.Fatal("Capability key must be 32 bytes, hex encoded")
	}

	capabilities, err := token.NewCapabilityCodec(capabilityKey)
	if err != nil {
		log.Fatal("Failed to initialize capability codec:", err)
	}

	sessions := token.NewSessionCodec(
		[]byte(config.Auth.SessionSecret),
		time.Duration(config.Auth.SessionTTLMinutes)*time.Minute,
	)

	api := NewAPI(
		storage,
		sessions,
		capabilities,
		time.Duration(config.Auth.DownloadTTLMinutes)*time.Minute,
		time.Duration(config.Auth.VerifyTTLHours)*time.Hour,
	)

	router := gin.Default()
	api.RegisterRoutes(router)

	log.Printf("Starting server on port %s", config.API.Port)
	if err := router.Run(":" + config.API.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func newBlobStore(config *Config) (BlobStore, error) {
	switch config.Storage.Backend {
	case "", "local":
		if err := os.MkdirAll(config.Storage.Path, 0755); err != nil {
			return nil, err
		}
		return NewLocalStorage(config.Storage.Path), nil
	case "s3":
		return NewS3Storage(config)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}
