package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlasops/fileexchange/pkg/token"
)

var allowedExtensions = map[string]bool{
	"pptx": true,
	"docx": true,
	"xlsx": true,
}

// allowedFile checks the literal last dot-segment of the filename,
// case-sensitive. A name with no dot yields the whole name as its
// "extension" and is rejected unless it happens to match the allow-list.
func allowedFile(filename string) bool {
	parts := strings.Split(filename, ".")
	return allowedExtensions[parts[len(parts)-1]]
}

type API struct {
	storage      BlobStore
	sessions     *token.SessionCodec
	capabilities *token.CapabilityCodec
	downloadTTL  time.Duration
	verifyTTL    time.Duration
}

func NewAPI(storage BlobStore, sessions *token.SessionCodec, capabilities *token.CapabilityCodec, downloadTTL, verifyTTL time.Duration) *API {
	return &API{
		storage:      storage,
		sessions:     sessions,
		capabilities: capabilities,
		downloadTTL:  downloadTTL,
		verifyTTL:    verifyTTL,
	}
}

func (a *API) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.POST("/signup", a.signup)
	router.GET("/verify-email/:token", a.verifyEmail)
	router.POST("/login", a.login)

	authed := router.Group("/")
	authed.Use(a.requireAuth())

	authed.POST("/upload", a.requireRole(RoleOps), a.upload)
	authed.GET("/files", a.requireRole(RoleClient), a.listFiles)
	authed.GET("/download-url/:file_id", a.requireRole(RoleClient), a.downloadURL)
	authed.GET("/download/:token", a.requireRole(RoleClient), a.download)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// signup creates an unverified client user and hands back a verification
// link whose path segment is a sealed capability token. The public path
// never creates ops users; those are provisioned by the seeder.
func (a *API) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	userID, err := CreateUser(req.Email, passwordHash, RoleClient)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	payload := token.VerifyEmailPayload{
		UserID:    userID,
		ExpiresAt: time.Now().Add(a.verifyTTL),
	}
	verifyToken, err := a.capabilities.Seal(payload.Encode())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":             req.Email,
		"verification_link": "/verify-email/" + verifyToken,
	})
}

// verifyEmail redeems a verification capability. Every decode or lookup
// failure collapses into one generic 400 so the response never reveals
// which step broke.
func (a *API) verifyEmail(c *gin.Context) {
	plaintext, err := a.capabilities.Open(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	payload, err := token.ParseVerifyEmail(plaintext)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
		return
	}

	if err := MarkUserVerified(payload.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

// login exchanges form credentials for a session token. Verification is
// not required to log in.
func (a *API) login(c *gin.Context) {
	email := c.PostForm("username")
	password := c.PostForm("password")

	user, err := GetUserByEmail(email)
	if err != nil || !CheckPassword(user.PasswordHash, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	sessionToken, err := a.sessions.Mint(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": sessionToken,
		"token_type":   "bearer",
	})
}

func (a *API) upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if !allowedFile(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		return
	}

	// Blob first, record second: a crash in between leaves an orphaned
	// blob but never a record without bytes.
	storedName := NewStoredName(header.Filename)
	if err := a.storage.Save(file, storedName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	if _, err := CreateFile(storedName, header.Filename, currentUser(c).ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File uploaded"})
}

func (a *API) listFiles(c *gin.Context) {
	records, err := ListFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}

	files := make([]gin.H, 0, len(records))
	for _, record := range records {
		files = append(files, gin.H{"id": record.ID, "filename": record.StoredName})
	}

	c.JSON(http.StatusOK, files)
}

// downloadURL mints a capability scoped to one file and the calling user.
// The link grants nothing on its own: redemption re-checks the caller's
// session identity against the embedded principal.
func (a *API) downloadURL(c *gin.Context) {
	fileID, err := strconv.ParseInt(c.Param("file_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return
	}

	if _, err := GetFileByID(fileID); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create download link"})
		return
	}

	payload := token.DownloadPayload{
		FileID:    fileID,
		UserID:    currentUser(c).ID,
		ExpiresAt: time.Now().Add(a.downloadTTL),
	}
	downloadToken, err := a.capabilities.Seal(payload.Encode())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create download link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"download_link": "/download/" + downloadToken})
}

// download redeems a download capability and streams the blob. Decode and
// lookup failures map to one generic 400; a principal mismatch on an
// otherwise valid token is the only distinguished case, a 403.
func (a *API) download(c *gin.Context) {
	plaintext, err := a.capabilities.Open(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid download token"})
		return
	}

	payload, err := token.ParseDownload(plaintext)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid download token"})
		return
	}

	if payload.UserID != currentUser(c).ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	record, err := GetFileByID(payload.FileID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid download token"})
		return
	}

	blob, err := a.storage.Open(record.StoredName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid download token"})
		return
	}
	defer blob.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.OriginalName))
	c.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(c.Writer, blob); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send file"})
		return
	}
}
