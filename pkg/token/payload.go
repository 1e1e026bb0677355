package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Capability payloads are tagged with an explicit kind before sealing so a
// token minted for one purpose cannot be partially parsed by a redemption
// path meant for another. Each payload also embeds its own expiry, checked
// at parse time.
const (
	kindVerifyEmail = "verify"
	kindDownload    = "download"
)

// VerifyEmailPayload proves control of an account: redeeming it flips the
// user's verified flag.
type VerifyEmailPayload struct {
	UserID    int64
	ExpiresAt time.Time
}

func (p VerifyEmailPayload) Encode() string {
	return fmt.Sprintf("%s:%d:%d", kindVerifyEmail, p.UserID, p.ExpiresAt.Unix())
}

func ParseVerifyEmail(plaintext string) (VerifyEmailPayload, error) {
	parts := strings.Split(plaintext, ":")
	if len(parts) != 3 || parts[0] != kindVerifyEmail {
		return VerifyEmailPayload{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return VerifyEmailPayload{}, ErrInvalidToken
	}

	expiresAt, err := parseExpiry(parts[2])
	if err != nil {
		return VerifyEmailPayload{}, err
	}

	return VerifyEmailPayload{UserID: userID, ExpiresAt: expiresAt}, nil
}

// DownloadPayload authorizes one principal to fetch one file.
type DownloadPayload struct {
	FileID    int64
	UserID    int64
	ExpiresAt time.Time
}

func (p DownloadPayload) Encode() string {
	return fmt.Sprintf("%s:%d:%d:%d", kindDownload, p.FileID, p.UserID, p.ExpiresAt.Unix())
}

func ParseDownload(plaintext string) (DownloadPayload, error) {
	parts := strings.Split(plaintext, ":")
	if len(parts) != 4 || parts[0] != kindDownload {
		return DownloadPayload{}, ErrInvalidToken
	}

	fileID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return DownloadPayload{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return DownloadPayload{}, ErrInvalidToken
	}

	expiresAt, err := parseExpiry(parts[3])
	if err != nil {
		return DownloadPayload{}, err
	}

	return DownloadPayload{FileID: fileID, UserID: userID, ExpiresAt: expiresAt}, nil
}

func parseExpiry(field string) (time.Time, error) {
	unix, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}

	expiresAt := time.Unix(unix, 0)
	if time.Now().After(expiresAt) {
		return time.Time{}, ErrTokenExpired
	}

	return expiresAt, nil
}
