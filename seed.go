package main

import (
	"strings"
)

const (
	seedOpsEmail       = "ops@example.com"
	seedOpsPassword    = "adminpass"
	seedClientEmail    = "client@example.com"
	seedClientPassword = "clientpass"
)

// runSeed wipes the tables and provisions one verified ops user, one
// verified client user and a single demo document. This is the
// out-of-band path that creates ops users; signup never does.
func runSeed(storage BlobStore) error {
	if _, err := db.Exec("DELETE FROM files"); err != nil {
		return err
	}
	if _, err := db.Exec("DELETE FROM users"); err != nil {
		return err
	}

	opsID, err := seedUser(seedOpsEmail, seedOpsPassword, RoleOps)
	if err != nil {
		return err
	}
	if _, err := seedUser(seedClientEmail, seedClientPassword, RoleClient); err != nil {
		return err
	}

	storedName := NewStoredName("test_doc.docx")
	if err := storage.Save(strings.NewReader("Test content"), storedName); err != nil {
		return err
	}
	_, err = CreateFile(storedName, "test_doc.docx", opsID)
	return err
}

func seedUser(email, password, role string) (int64, error) {
	passwordHash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}

	userID, err := CreateUser(email, passwordHash, role)
	if err != nil {
		return 0, err
	}

	return userID, MarkUserVerified(userID)
}
