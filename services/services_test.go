package services

import (
	"testing"
	"time"

	dbpkg "accesscontrol/db"
	"accesscontrol/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/require"
)

const validJustification = "Necessito acompanhar o fechamento contabil mensal"

// setupTestDB abre um sqlite em memória com o schema completo. Uma conexão
// só, para o banco em memória não se multiplicar por conexão do pool.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	database.DB().SetMaxOpenConns(1)
	database.LogMode(false)

	require.NoError(t, dbpkg.AutoMigrate(database).Error)

	t.Cleanup(func() { database.Close() })
	return database
}

func createUser(t *testing.T, db *gorm.DB, name, email, department string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "hash", Department: department}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createModule(t *testing.T, db *gorm.DB, name string, active bool, departments ...string) models.Module {
	t.Helper()
	module := models.Module{Name: name, Active: active}
	require.NoError(t, db.Create(&module).Error)
	for _, department := range departments {
		md := models.ModuleDepartment{ModuleID: module.ID, Department: department}
		require.NoError(t, db.Create(&md).Error)
	}
	return module
}

func grantAccess(t *testing.T, db *gorm.DB, userID, moduleID int64, expiresInDays int) models.Access {
	t.Helper()
	now := time.Now()
	access := models.Access{
		UserID:    userID,
		ModuleID:  moduleID,
		GrantedAt: now,
		ExpiresAt: now.AddDate(0, 0, expiresInDays),
	}
	require.NoError(t, db.Create(&access).Error)
	return access
}

func setRequestExpiry(t *testing.T, db *gorm.DB, requestID int64, expiresAt time.Time) {
	t.Helper()
	err := db.Model(&models.AccessRequest{}).
		Where("id = ?", requestID).
		Update("expires_at", expiresAt).Error
	require.NoError(t, err)
}

func countAccesses(t *testing.T, db *gorm.DB, userID int64) int {
	t.Helper()
	var count int
	require.NoError(t, db.Model(&models.Access{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}
