package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ampweb/userdirapi/internal/apperrors"
	"github.com/ampweb/userdirapi/internal/models"
)

func TestCreateRequiresSuperAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	admin := seedUser(t, db, "admin", "secret", models.UserTypeAdmin, group.UsrGrpID)

	_, err := svc.Create(context.Background(), identityFor(admin), []*models.UserRequest{{
		Alias:    strPtr("jdoe"),
		Passwd:   strPtr("pass"),
		GroupIDs: []uint64{group.UsrGrpID},
	}})
	assert.True(t, errors.Is(err, apperrors.ErrPermission))
}

func TestCreateAppliesDefaultsAndWritesRelations(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)

	userIDs, err := svc.Create(context.Background(), identityFor(super), []*models.UserRequest{{
		Alias:    strPtr("jdoe"),
		Passwd:   strPtr("pass"),
		Name:     strPtr("John"),
		GroupIDs: []uint64{group.UsrGrpID},
		Medias: []models.MediaRequest{
			{MediaTypeID: 1, SendTo: "jdoe@example.org", Period: "1-7,00:00-24:00"},
		},
	}})
	require.NoError(t, err)
	require.Len(t, userIDs, 1)

	var created models.User
	require.NoError(t, db.Where("userid = ?", userIDs[0]).First(&created).Error)
	assert.Equal(t, "en_GB", created.Lang)
	assert.Equal(t, "default", created.Theme)
	assert.Equal(t, 30, created.Refresh)
	assert.Equal(t, 50, created.RowsPerPage)
	assert.Equal(t, models.UserTypeUser, created.Type)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Passwd), []byte("pass")))

	var memberships int64
	db.Model(&models.UserGroupMember{}).Where("userid = ?", created.UserID).Count(&memberships)
	assert.Equal(t, int64(1), memberships)

	var medias int64
	db.Model(&models.Media{}).Where("userid = ?", created.UserID).Count(&medias)
	assert.Equal(t, int64(1), medias)
}

func TestCreateRejectsDuplicateAliasWithinBatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)

	_, err := svc.Create(context.Background(), identityFor(super), []*models.UserRequest{
		{Alias: strPtr("jdoe"), Passwd: strPtr("p1"), GroupIDs: []uint64{group.UsrGrpID}},
		{Alias: strPtr("jdoe"), Passwd: strPtr("p2"), GroupIDs: []uint64{group.UsrGrpID}},
	})
	assert.True(t, errors.Is(err, apperrors.ErrParameter))

	// the batch is all or nothing
	var count int64
	db.Model(&models.User{}).Where("alias = ?", "jdoe").Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateRejectsExistingAlias(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)
	seedUser(t, db, "jdoe", "old", models.UserTypeUser, group.UsrGrpID)

	_, err := svc.Create(context.Background(), identityFor(super), []*models.UserRequest{{
		Alias:    strPtr("jdoe"),
		Passwd:   strPtr("pass"),
		GroupIDs: []uint64{group.UsrGrpID},
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrParameter))
	assert.Contains(t, apperrors.Message(err), "already exists")
}

func TestCreateRejectsUnknownGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)

	_, err := svc.Create(context.Background(), identityFor(super), []*models.UserRequest{{
		Alias:    strPtr("jdoe"),
		Passwd:   strPtr("pass"),
		GroupIDs: []uint64{9999},
	}})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "user group does not exist")
}

func TestCreateRequiresGroupMembership(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)

	_, err := svc.Create(context.Background(), identityFor(super), []*models.UserRequest{{
		Alias:  strPtr("jdoe"),
		Passwd: strPtr("pass"),
	}})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "cannot be without user group")
}

func TestUpdatePreventsSelfLockout(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	enabled := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	noGui := seedGroup(t, db, "No GUI", models.GroupGuiAccessDisabled, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	disabled := seedGroup(t, db, "Disabled accounts", models.GroupGuiAccessSystem, models.GroupStatusDisabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, enabled.UsrGrpID)

	_, err := svc.Update(context.Background(), identityFor(super), []*models.UserRequest{{
		UserID:   super.UserID,
		GroupIDs: []uint64{noGui.UsrGrpID},
	}})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "GUI access")
	assert.Contains(t, apperrors.Message(err), "No GUI")

	_, err = svc.Update(context.Background(), identityFor(super), []*models.UserRequest{{
		UserID:   super.UserID,
		GroupIDs: []uint64{disabled.UsrGrpID},
	}})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "system status")
	assert.Contains(t, apperrors.Message(err), "Disabled accounts")

	// moving somebody else into those groups is allowed
	other := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, enabled.UsrGrpID)
	_, err = svc.Update(context.Background(), identityFor(super), []*models.UserRequest{{
		UserID:   other.UserID,
		GroupIDs: []uint64{disabled.UsrGrpID},
	}})
	assert.NoError(t, err)
}

func TestUpdateGuestRestrictions(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Guests", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)
	guest := seedUser(t, db, models.GuestAlias, "", models.UserTypeUser, group.UsrGrpID)

	_, err := svc.Update(context.Background(), identityFor(super), []*models.UserRequest{{
		UserID: guest.UserID,
		Alias:  strPtr("visitor"),
	}})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "cannot rename guest user")

	_, err = svc.Update(context.Background(), identityFor(super), []*models.UserRequest{{
		UserID: guest.UserID,
		Passwd: strPtr("sneaky"),
	}})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "not allowed to set password")
}

func TestUpdateTypeChangeRequiresSuperAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	user := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, group.UsrGrpID)

	_, err := svc.Update(context.Background(), identityFor(user), []*models.UserRequest{{
		UserID: user.UserID,
		Type:   intPtr(models.UserTypeSuperAdmin),
	}})
	assert.True(t, errors.Is(err, apperrors.ErrPermission))
}

func TestUpdateOtherUserRequiresSuperAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	user := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, group.UsrGrpID)
	mate := seedUser(t, db, "asmith", "pass", models.UserTypeUser, group.UsrGrpID)

	_, err := svc.Update(context.Background(), identityFor(user), []*models.UserRequest{{
		UserID: mate.UserID,
		Name:   strPtr("Anne"),
	}})
	assert.True(t, errors.Is(err, apperrors.ErrPermission))
}

func TestUpdateAutoLoginAndAutoLogoutAreExclusive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	user := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, group.UsrGrpID)
	require.NoError(t, db.Model(&models.User{}).Where("userid = ?", user.UserID).
		Update("autologout", 90).Error)

	_, err := svc.Update(context.Background(), identityFor(user), []*models.UserRequest{{
		UserID:    user.UserID,
		AutoLogin: intPtr(1),
	}})
	require.NoError(t, err)

	var updated models.User
	require.NoError(t, db.Where("userid = ?", user.UserID).First(&updated).Error)
	assert.Equal(t, 1, updated.AutoLogin)
	assert.Equal(t, 0, updated.AutoLogout)
}

func TestUpdateSyncsMemberships(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	groupA := seedGroup(t, db, "A", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	groupB := seedGroup(t, db, "B", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	groupC := seedGroup(t, db, "C", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, groupA.UsrGrpID)
	user := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, groupA.UsrGrpID, groupB.UsrGrpID)

	_, err := svc.Update(context.Background(), identityFor(super), []*models.UserRequest{{
		UserID:   user.UserID,
		GroupIDs: []uint64{groupB.UsrGrpID, groupC.UsrGrpID},
	}})
	require.NoError(t, err)

	var members []models.UserGroupMember
	require.NoError(t, db.Where("userid = ?", user.UserID).Order("usrgrpid").Find(&members).Error)
	require.Len(t, members, 2)
	assert.Equal(t, groupB.UsrGrpID, members[0].UsrGrpID)
	assert.Equal(t, groupC.UsrGrpID, members[1].UsrGrpID)
}

func TestUpdateProfileTargetsTheCaller(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	user := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, group.UsrGrpID)
	other := seedUser(t, db, "asmith", "pass", models.UserTypeUser, group.UsrGrpID)

	// a foreign id in the payload is ignored
	userIDs, err := svc.UpdateProfile(context.Background(), identityFor(user), &models.UserRequest{
		UserID: other.UserID,
		Name:   strPtr("John"),
	})
	require.NoError(t, err)
	require.Equal(t, []uint64{user.UserID}, userIDs)

	var updated, untouched models.User
	require.NoError(t, db.Where("userid = ?", user.UserID).First(&updated).Error)
	require.NoError(t, db.Where("userid = ?", other.UserID).First(&untouched).Error)
	assert.Equal(t, "John", updated.Name)
	assert.Empty(t, untouched.Name)
}

func TestGetNarrowsVisibilityToGroupMates(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	groupA := seedGroup(t, db, "A", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	groupB := seedGroup(t, db, "B", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	admin := seedUser(t, db, "admin", "pass", models.UserTypeAdmin, groupA.UsrGrpID)
	seedUser(t, db, "mate", "pass", models.UserTypeUser, groupA.UsrGrpID)
	seedUser(t, db, "stranger", "pass", models.UserTypeUser, groupB.UsrGrpID)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, groupB.UsrGrpID)

	users, _, err := svc.Get(context.Background(), identityFor(admin), &models.UserGetOptions{})
	require.NoError(t, err)
	aliases := make([]string, 0, len(users))
	for _, u := range users {
		aliases = append(aliases, u.Alias)
	}
	assert.ElementsMatch(t, []string{"admin", "mate"}, aliases)

	// a super admin sees the whole directory
	users, _, err = svc.Get(context.Background(), identityFor(super), &models.UserGetOptions{})
	require.NoError(t, err)
	assert.Len(t, users, 4)

	// editable narrows a non super admin to their own record
	users, _, err = svc.Get(context.Background(), identityFor(admin), &models.UserGetOptions{Editable: true})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Alias)
}

func TestGetNeverReturnsPasswordDigests(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)

	users, _, err := svc.Get(context.Background(), identityFor(super), &models.UserGetOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, users)
	for _, u := range users {
		assert.Empty(t, u.Passwd)
	}
}

func TestGetRejectsPasswordFilter(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)

	_, _, err := svc.Get(context.Background(), identityFor(super), &models.UserGetOptions{
		Filter: map[string]interface{}{"passwd": "x"},
	})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "not possible to filter by user password")
}

func TestGetCountOutput(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)
	seedUser(t, db, "jdoe", "pass", models.UserTypeUser, group.UsrGrpID)

	users, count, err := svc.Get(context.Background(), identityFor(super), &models.UserGetOptions{CountOutput: true})
	require.NoError(t, err)
	assert.Nil(t, users)
	assert.Equal(t, int64(2), count)
}

func TestGetExpandsGroupsAndAccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	groupA := seedGroup(t, db, "A", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	groupB := seedGroup(t, db, "B", models.GroupGuiAccessDisabled, models.GroupStatusEnabled, models.GroupDebugModeEnabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, groupA.UsrGrpID)
	user := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, groupA.UsrGrpID, groupB.UsrGrpID)

	users, _, err := svc.Get(context.Background(), identityFor(super), &models.UserGetOptions{
		UserIDs:      []uint64{user.UserID},
		SelectGroups: true,
		GetAccess:    true,
	})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Len(t, users[0].Groups, 2)

	// access is the most restrictive aggregate across the groups
	require.NotNil(t, users[0].GuiAccess)
	assert.Equal(t, models.GroupGuiAccessDisabled, *users[0].GuiAccess)
	require.NotNil(t, users[0].DebugMode)
	assert.Equal(t, models.GroupDebugModeEnabled, *users[0].DebugMode)
}

func TestDeleteRefusesSelfGuestAndEmptyBatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)
	guest := seedUser(t, db, models.GuestAlias, "", models.UserTypeUser, group.UsrGrpID)

	_, err := svc.Delete(context.Background(), identityFor(super), nil)
	assert.True(t, errors.Is(err, apperrors.ErrParameter))

	_, err = svc.Delete(context.Background(), identityFor(super), []uint64{super.UserID})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "not allowed to delete himself")

	_, err = svc.Delete(context.Background(), identityFor(super), []uint64{guest.UserID})
	require.Error(t, err)
	assert.Contains(t, apperrors.Message(err), "cannot delete internal user")
}

func TestDeleteBlockedByOwnedObjects(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)
	owner := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, group.UsrGrpID)

	require.NoError(t, db.Create(&models.SysMap{Name: "Datacenter", UserID: owner.UserID}).Error)

	_, err := svc.Delete(context.Background(), identityFor(super), []uint64{owner.UserID})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrIntegrity))
	assert.Equal(t, "user \"jdoe\" is map \"Datacenter\" owner", apperrors.Message(err))

	// the user row is untouched
	var count int64
	db.Model(&models.User{}).Where("userid = ?", owner.UserID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteCascadesAndDisablesEmptyActions(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	super := seedUser(t, db, "root", "secret", models.UserTypeSuperAdmin, group.UsrGrpID)
	victim := seedUser(t, db, "jdoe", "pass", models.UserTypeUser, group.UsrGrpID)

	require.NoError(t, db.Create(&models.Media{UserID: victim.UserID, MediaTypeID: 1, SendTo: "jdoe@example.org", Period: "1-7,00:00-24:00"}).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: victim.UserID, Idx: "web.theme"}).Error)
	require.NoError(t, db.Create(&models.Session{SessionID: "tok", UserID: victim.UserID, Status: models.SessionActive}).Error)

	// an action whose only operation messages the victim loses the
	// operation and gets disabled
	soleAction := models.Action{Name: "Notify jdoe", Status: models.ActionStatusEnabled}
	require.NoError(t, db.Create(&soleAction).Error)
	soleOp := models.Operation{ActionID: soleAction.ActionID}
	require.NoError(t, db.Create(&soleOp).Error)
	require.NoError(t, db.Create(&models.OpMessageUser{OperationID: soleOp.OperationID, UserID: victim.UserID}).Error)

	// an action with a group target keeps its operation and stays enabled
	sharedAction := models.Action{Name: "Notify operators", Status: models.ActionStatusEnabled}
	require.NoError(t, db.Create(&sharedAction).Error)
	sharedOp := models.Operation{ActionID: sharedAction.ActionID}
	require.NoError(t, db.Create(&sharedOp).Error)
	require.NoError(t, db.Create(&models.OpMessageUser{OperationID: sharedOp.OperationID, UserID: victim.UserID}).Error)
	require.NoError(t, db.Create(&models.OpMessageGroup{OperationID: sharedOp.OperationID, UsrGrpID: group.UsrGrpID}).Error)

	userIDs, err := svc.Delete(context.Background(), identityFor(super), []uint64{victim.UserID})
	require.NoError(t, err)
	assert.Equal(t, []uint64{victim.UserID}, userIDs)

	for _, model := range []interface{}{
		&models.User{}, &models.Media{}, &models.Profile{},
		&models.UserGroupMember{}, &models.Session{}, &models.OpMessageUser{},
	} {
		var count int64
		db.Model(model).Where("userid = ?", victim.UserID).Count(&count)
		assert.Equal(t, int64(0), count)
	}

	var soleOps, sharedOps int64
	db.Model(&models.Operation{}).Where("operationid = ?", soleOp.OperationID).Count(&soleOps)
	db.Model(&models.Operation{}).Where("operationid = ?", sharedOp.OperationID).Count(&sharedOps)
	assert.Equal(t, int64(0), soleOps)
	assert.Equal(t, int64(1), sharedOps)

	var reloadedSole, reloadedShared models.Action
	require.NoError(t, db.Where("actionid = ?", soleAction.ActionID).First(&reloadedSole).Error)
	require.NoError(t, db.Where("actionid = ?", sharedAction.ActionID).First(&reloadedShared).Error)
	assert.Equal(t, models.ActionStatusDisabled, reloadedSole.Status)
	assert.Equal(t, models.ActionStatusEnabled, reloadedShared.Status)

	var auditCount int64
	db.Model(&models.AuditLog{}).Count(&auditCount)
	assert.Equal(t, int64(2), auditCount)
}

func TestDeleteRequiresWritableTargets(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, nil)
	group := seedGroup(t, db, "Operators", models.GroupGuiAccessSystem, models.GroupStatusEnabled, models.GroupDebugModeDisabled)
	admin := seedUser(t, db, "admin", "pass", models.UserTypeAdmin, group.UsrGrpID)
	mate := seedUser(t, db, "mate", "pass", models.UserTypeUser, group.UsrGrpID)

	_, err := svc.Delete(context.Background(), identityFor(admin), []uint64{mate.UserID})
	assert.True(t, errors.Is(err, apperrors.ErrPermission))
}
