package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/internal/repository"
)

// newTestDB opens a private in-memory database for one test. The shared
// cache keeps every pooled connection on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	return db
}

func seedGroup(t *testing.T, db *gorm.DB, name string, guiAccess, usersStatus, debugMode int) *models.UserGroup {
	t.Helper()

	group := models.UserGroup{
		Name:        name,
		GuiAccess:   guiAccess,
		UsersStatus: usersStatus,
		DebugMode:   debugMode,
	}
	require.NoError(t, db.Create(&group).Error)
	return &group
}

func seedUser(t *testing.T, db *gorm.DB, alias, password string, userType int, groupIDs ...uint64) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Alias:       alias,
		Passwd:      string(hashed),
		Lang:        "en_GB",
		Theme:       "default",
		Refresh:     30,
		RowsPerPage: 50,
		Type:        userType,
	}
	require.NoError(t, db.Create(&user).Error)

	for _, groupID := range groupIDs {
		member := models.UserGroupMember{UsrGrpID: groupID, UserID: user.UserID}
		require.NoError(t, db.Create(&member).Error)
	}
	return &user
}

func identityFor(user *models.User) *models.Identity {
	return &models.Identity{
		UserID: user.UserID,
		Alias:  user.Alias,
		Type:   user.Type,
	}
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
