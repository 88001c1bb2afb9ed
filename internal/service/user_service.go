// Package service contains the service layer for the User Directory API
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ampweb/userdirapi/internal/apperrors"
	"github.com/ampweb/userdirapi/internal/models"
	"github.com/ampweb/userdirapi/internal/repository"
	"github.com/ampweb/userdirapi/internal/timeperiod"
)

// validThemes is the theme allow-list, "default" defers to the
// system-wide setting.
var validThemes = map[string]bool{
	"default":    true,
	"blue-theme": true,
	"dark-theme": true,
}

// UserService owns user records, group memberships and the delete
// integrity gate
type UserService struct {
	db        *gorm.DB
	users     *repository.UserRepository
	groups    *repository.GroupRepository
	medias    *repository.MediaRepository
	ownership *repository.OwnershipRepository
	audit     *repository.AuditRepository
}

// NewUserService creates a new service for the user directory
func NewUserService(db *gorm.DB, redisClient *redis.Client) *UserService {
	return &UserService{
		db:        db,
		users:     repository.NewUserRepository(db),
		groups:    repository.NewGroupRepository(db),
		medias:    repository.NewMediaRepository(db),
		ownership: repository.NewOwnershipRepository(db),
		audit:     repository.NewAuditRepository(db, redisClient),
	}
}

// Get returns the users visible to the caller, optionally expanded with
// groups, medias, media types and access data. The password digest never
// leaves the service.
func (s *UserService) Get(ctx context.Context, caller *models.Identity, opts *models.UserGetOptions) ([]models.User, int64, error) {
	if opts == nil {
		opts = &models.UserGetOptions{}
	}

	if opts.CountOutput {
		count, err := s.users.Count(ctx, caller, opts)
		if err != nil {
			return nil, 0, err
		}
		return nil, count, nil
	}

	users, err := s.users.Find(ctx, caller, opts)
	if err != nil {
		return nil, 0, err
	}

	userIDs := make([]uint64, 0, len(users))
	for i := range users {
		users[i].Passwd = ""
		userIDs = append(userIDs, users[i].UserID)
	}

	if len(users) == 0 {
		return users, 0, nil
	}

	if opts.GetAccess {
		access, err := s.users.AccessByUserIDs(ctx, userIDs)
		if err != nil {
			return nil, 0, err
		}
		for i := range users {
			a := access[users[i].UserID]
			guiAccess, debugMode, usersStatus := a.GuiAccess, a.DebugMode, a.UsersStatus
			users[i].GuiAccess = &guiAccess
			users[i].DebugMode = &debugMode
			users[i].UsersStatus = &usersStatus
		}
	}

	if opts.SelectGroups {
		groups, err := s.groups.GroupsByUserIDs(ctx, userIDs)
		if err != nil {
			return nil, 0, apperrors.Backend(err)
		}
		for i := range users {
			users[i].Groups = groups[users[i].UserID]
		}
	}

	if opts.SelectMedias {
		medias, err := s.medias.FindByUserIDs(ctx, userIDs)
		if err != nil {
			return nil, 0, apperrors.Backend(err)
		}
		byUser := make(map[uint64][]models.Media)
		for _, m := range medias {
			byUser[m.UserID] = append(byUser[m.UserID], m)
		}
		for i := range users {
			users[i].Medias = byUser[users[i].UserID]
		}
	}

	if opts.SelectMediaTypes {
		mediaTypes, err := s.medias.MediaTypesByUserIDs(ctx, userIDs)
		if err != nil {
			return nil, 0, apperrors.Backend(err)
		}
		for i := range users {
			users[i].MediaTypes = mediaTypes[users[i].UserID]
		}
	}

	return users, int64(len(users)), nil
}

// checkInput validates a create or update batch in a single pass. Any
// violation aborts the whole batch before a row is written.
func (s *UserService) checkInput(ctx context.Context, caller *models.Identity, users []*models.UserRequest, create bool) (map[uint64]*models.User, error) {
	dbUsers := make(map[uint64]*models.User)

	if !create {
		userIDs := make([]uint64, 0, len(users))
		for _, u := range users {
			if u.UserID == 0 {
				return nil, apperrors.Parameter("missing user id")
			}
			userIDs = append(userIDs, u.UserID)
		}

		editable, err := s.users.Find(ctx, caller, &models.UserGetOptions{
			UserIDs:  userIDs,
			Editable: true,
		})
		if err != nil {
			return nil, err
		}
		for i := range editable {
			dbUsers[editable[i].UserID] = &editable[i]
		}
	}

	seenAliases := make(map[string]uint64)

	for _, user := range users {
		if create {
			if !caller.IsSuperAdmin() {
				return nil, apperrors.Permission("you do not have permissions to create users")
			}
			if user.Alias == nil || *user.Alias == "" {
				return nil, apperrors.Parameter("missing alias for new user")
			}
			if user.Passwd == nil {
				return nil, apperrors.Parameter("missing password for user \"%s\"", *user.Alias)
			}
			if len(user.GroupIDs) == 0 {
				return nil, apperrors.Parameter("user \"%s\" cannot be without user group", *user.Alias)
			}
		}

		var dbUser *models.User
		if !create {
			var ok bool
			dbUser, ok = dbUsers[user.UserID]
			if !ok {
				return nil, apperrors.Permission("you do not have permissions to update user or user does not exist")
			}
			if caller.UserID != user.UserID && !caller.IsSuperAdmin() {
				return nil, apperrors.Permission("you do not have permissions to update other users")
			}
		}

		displayAlias := s.requestAlias(user, dbUser)

		if user.Alias != nil {
			if !create && dbUser.Alias == models.GuestAlias && *user.Alias != models.GuestAlias {
				return nil, apperrors.Parameter("cannot rename guest user")
			}

			if ownerID, seen := seenAliases[*user.Alias]; seen {
				if create || ownerID != user.UserID {
					return nil, apperrors.Parameter("duplicate user alias \"%s\"", *user.Alias)
				}
			} else {
				seenAliases[*user.Alias] = user.UserID
			}
		}

		if user.GroupIDs != nil {
			if len(user.GroupIDs) == 0 {
				return nil, apperrors.Parameter("user \"%s\" cannot be without user group", displayAlias)
			}

			groups, err := s.groups.GetByIDs(ctx, user.GroupIDs)
			if err != nil {
				return nil, apperrors.Backend(err)
			}
			if len(groups) != len(dedupe(user.GroupIDs)) {
				return nil, apperrors.Parameter("user group does not exist")
			}

			// self-lockout prevention: no need to check on create
			if !create && caller.UserID == user.UserID {
				for _, group := range groups {
					if group.GuiAccess == models.GroupGuiAccessDisabled {
						return nil, apperrors.Parameter("user may not modify GUI access for himself by becoming a member of user group \"%s\"", group.Name)
					}
					if group.UsersStatus == models.GroupStatusDisabled {
						return nil, apperrors.Parameter("user may not modify system status for himself by becoming a member of user group \"%s\"", group.Name)
					}
				}
			}
		}

		if user.Theme != nil && !validThemes[*user.Theme] {
			return nil, apperrors.Parameter("incorrect theme for user \"%s\"", displayAlias)
		}

		if user.Type != nil && !caller.IsSuperAdmin() {
			return nil, apperrors.Permission("you are not allowed to alter privileges for user \"%s\"", displayAlias)
		}

		// autologin and autologout are mutually exclusive
		prevAutoLogin, prevAutoLogout := 0, 0
		if dbUser != nil {
			prevAutoLogin, prevAutoLogout = dbUser.AutoLogin, dbUser.AutoLogout
		}
		if user.AutoLogin != nil {
			prevAutoLogin = *user.AutoLogin
		}
		if user.AutoLogout != nil {
			prevAutoLogout = *user.AutoLogout
		}
		if user.AutoLogin != nil && *user.AutoLogin == 1 && prevAutoLogout != 0 {
			zero := 0
			user.AutoLogout = &zero
		} else if user.AutoLogout != nil && *user.AutoLogout > 0 && prevAutoLogin != 0 {
			zero := 0
			user.AutoLogin = &zero
		}

		if user.Passwd != nil {
			if displayAlias == models.GuestAlias && *user.Passwd != "" {
				return nil, apperrors.Parameter("not allowed to set password for user \"guest\"")
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(*user.Passwd), bcrypt.DefaultCost)
			if err != nil {
				return nil, apperrors.Backend(err)
			}
			digest := string(hashed)
			user.Passwd = &digest
		}

		if user.Alias != nil {
			existing, err := s.users.GetByAlias(ctx, *user.Alias)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.Backend(err)
			}
			if existing != nil {
				if create || existing.UserID != user.UserID {
					return nil, apperrors.Parameter("user with alias \"%s\" already exists", *user.Alias)
				}
			}
		}

		for _, media := range user.Medias {
			if err := timeperiod.Validate(media.Period); err != nil {
				return nil, apperrors.Parameter("%v", err)
			}
		}
	}

	return dbUsers, nil
}

// requestAlias picks the alias used in validation error messages
func (s *UserService) requestAlias(user *models.UserRequest, dbUser *models.User) string {
	if dbUser != nil {
		return dbUser.Alias
	}
	if user.Alias != nil {
		return *user.Alias
	}
	return ""
}

// Create validates the batch and inserts the user rows together with
// their memberships and medias, all inside one transaction
func (s *UserService) Create(ctx context.Context, caller *models.Identity, users []*models.UserRequest) ([]uint64, error) {
	if len(users) == 0 {
		return nil, apperrors.Parameter("empty input parameter")
	}

	if _, err := s.checkInput(ctx, caller, users, true); err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(users))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)
		groupRepo := repository.NewGroupRepository(tx)
		mediaRepo := repository.NewMediaRepository(tx)

		for _, user := range users {
			row := s.buildUserRow(user)
			if err := userRepo.Create(ctx, row); err != nil {
				return err
			}
			userIDs = append(userIDs, row.UserID)

			if err := groupRepo.AddMemberships(ctx, row.UserID, dedupe(user.GroupIDs)); err != nil {
				return err
			}

			for _, media := range user.Medias {
				mediaRow := models.Media{
					UserID:      row.UserID,
					MediaTypeID: media.MediaTypeID,
					SendTo:      media.SendTo,
					Active:      media.Active,
					Severity:    media.Severity,
					Period:      media.Period,
				}
				if err := mediaRepo.Create(ctx, &mediaRow); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	return userIDs, nil
}

// buildUserRow fills a user row from a create request, applying defaults
// for unset preference fields
func (s *UserService) buildUserRow(user *models.UserRequest) *models.User {
	row := &models.User{
		Alias:       *user.Alias,
		Passwd:      *user.Passwd,
		Lang:        "en_GB",
		Theme:       "default",
		Refresh:     30,
		RowsPerPage: 50,
		Type:        models.UserTypeUser,
	}
	if user.Name != nil {
		row.Name = *user.Name
	}
	if user.Surname != nil {
		row.Surname = *user.Surname
	}
	if user.URL != nil {
		row.URL = *user.URL
	}
	if user.AutoLogin != nil {
		row.AutoLogin = *user.AutoLogin
	}
	if user.AutoLogout != nil {
		row.AutoLogout = *user.AutoLogout
	}
	if user.Lang != nil {
		row.Lang = *user.Lang
	}
	if user.Refresh != nil {
		row.Refresh = *user.Refresh
	}
	if user.Type != nil {
		row.Type = *user.Type
	}
	if user.Theme != nil {
		row.Theme = *user.Theme
	}
	if user.RowsPerPage != nil {
		row.RowsPerPage = *user.RowsPerPage
	}
	return row
}

// Update validates the batch, updates the user rows and performs the
// differential membership sync where a group set was supplied
func (s *UserService) Update(ctx context.Context, caller *models.Identity, users []*models.UserRequest) ([]uint64, error) {
	if len(users) == 0 {
		return nil, apperrors.Parameter("empty input parameter")
	}

	if _, err := s.checkInput(ctx, caller, users, false); err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(users))
	for _, user := range users {
		userIDs = append(userIDs, user.UserID)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userRepo := repository.NewUserRepository(tx)
		groupRepo := repository.NewGroupRepository(tx)

		for _, user := range users {
			values := updateValues(user)
			if len(values) > 0 {
				if err := userRepo.Update(ctx, user.UserID, values); err != nil {
					return err
				}
			}

			if user.GroupIDs != nil {
				if err := groupRepo.SyncMemberships(ctx, user.UserID, dedupe(user.GroupIDs)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	return userIDs, nil
}

// UpdateProfile updates the caller's own record; the target id is forced
// so the usual update rules apply to the caller
func (s *UserService) UpdateProfile(ctx context.Context, caller *models.Identity, user *models.UserRequest) ([]uint64, error) {
	user.UserID = caller.UserID
	return s.Update(ctx, caller, []*models.UserRequest{user})
}

// updateValues builds the column map from the set fields of an update
// request
func updateValues(user *models.UserRequest) map[string]interface{} {
	values := map[string]interface{}{}
	if user.Alias != nil {
		values["alias"] = *user.Alias
	}
	if user.Passwd != nil {
		values["passwd"] = *user.Passwd
	}
	if user.Name != nil {
		values["name"] = *user.Name
	}
	if user.Surname != nil {
		values["surname"] = *user.Surname
	}
	if user.URL != nil {
		values["url"] = *user.URL
	}
	if user.AutoLogin != nil {
		values["autologin"] = *user.AutoLogin
	}
	if user.AutoLogout != nil {
		values["autologout"] = *user.AutoLogout
	}
	if user.Lang != nil {
		values["lang"] = *user.Lang
	}
	if user.Refresh != nil {
		values["refresh"] = *user.Refresh
	}
	if user.Type != nil {
		values["type"] = *user.Type
	}
	if user.Theme != nil {
		values["theme"] = *user.Theme
	}
	if user.RowsPerPage != nil {
		values["rows_per_page"] = *user.RowsPerPage
	}
	return values
}

// Delete removes users after the integrity gate passes. Guards run in
// order and the first violation aborts before any row is removed; the
// cascade itself runs in one transaction.
func (s *UserService) Delete(ctx context.Context, caller *models.Identity, userIDs []uint64) ([]uint64, error) {
	if len(userIDs) == 0 {
		return nil, apperrors.Parameter("empty input parameter")
	}
	userIDs = dedupe(userIDs)

	writable, err := s.IsWritable(ctx, caller, userIDs)
	if err != nil {
		return nil, err
	}
	if !writable {
		return nil, apperrors.Permission("no permissions to referred object or it does not exist")
	}

	for _, id := range userIDs {
		if id == caller.UserID {
			return nil, apperrors.Parameter("user is not allowed to delete himself")
		}
	}

	guest, err := s.users.GetByAlias(ctx, models.GuestAlias)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Backend(err)
	}
	if guest != nil {
		for _, id := range userIDs {
			if id == guest.UserID {
				return nil, apperrors.Parameter("cannot delete internal user \"%s\", try disabling that user", models.GuestAlias)
			}
		}
	}

	owned, err := s.ownership.FirstOwnedObject(ctx, userIDs)
	if err != nil {
		return nil, apperrors.Backend(err)
	}
	if owned != nil {
		owner, err := s.users.GetByID(ctx, owned.UserID)
		if err != nil {
			return nil, apperrors.Backend(err)
		}
		return nil, apperrors.Integrity("user \"%s\" is %s \"%s\" owner", owner.Alias, owned.Kind, owned.Name)
	}

	// users for the audit trail, fetched before the rows disappear
	deleted, err := s.users.Find(ctx, caller, &models.UserGetOptions{UserIDs: userIDs})
	if err != nil {
		return nil, err
	}

	var disabledActionIDs []uint64

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// operations whose message rows reference the deleted users
		var operationIDs []uint64
		err := tx.Model(&models.OpMessageUser{}).
			Distinct("operationid").
			Where("userid IN ?", userIDs).
			Pluck("operationid", &operationIDs).Error
		if err != nil {
			return err
		}

		if err := tx.Where("userid IN ?", userIDs).Delete(&models.OpMessageUser{}).Error; err != nil {
			return err
		}

		// operations left with no message targets at all are removed
		var emptyOperations []models.Operation
		if len(operationIDs) > 0 {
			err = tx.Model(&models.Operation{}).
				Where("operationid IN ?", operationIDs).
				Where("NOT EXISTS (SELECT 1 FROM "+models.OpMessageGroupsTableName+" omg WHERE omg.operationid = "+models.OperationsTableName+".operationid)").
				Where("NOT EXISTS (SELECT 1 FROM "+models.OpMessageUsersTableName+" omu WHERE omu.operationid = "+models.OperationsTableName+".operationid)").
				Find(&emptyOperations).Error
			if err != nil {
				return err
			}
		}

		if len(emptyOperations) > 0 {
			emptyIDs := make([]uint64, 0, len(emptyOperations))
			for _, op := range emptyOperations {
				emptyIDs = append(emptyIDs, op.OperationID)
			}
			if err := tx.Where("operationid IN ?", emptyIDs).Delete(&models.Operation{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("userid IN ?", userIDs).Delete(&models.Media{}).Error; err != nil {
			return err
		}
		if err := tx.Where("userid IN ?", userIDs).Delete(&models.Profile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("userid IN ?", userIDs).Delete(&models.UserGroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("userid IN ?", userIDs).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		if err := tx.Where("userid IN ?", userIDs).Delete(&models.User{}).Error; err != nil {
			return err
		}

		// actions whose last operation went away are disabled, not deleted
		if len(emptyOperations) > 0 {
			actionIDs := make([]uint64, 0, len(emptyOperations))
			for _, op := range emptyOperations {
				actionIDs = append(actionIDs, op.ActionID)
			}

			var withoutOperations []uint64
			err = tx.Model(&models.Action{}).
				Distinct("actionid").
				Where("actionid IN ?", actionIDs).
				Where("NOT EXISTS (SELECT 1 FROM "+models.OperationsTableName+" o WHERE o.actionid = "+models.ActionsTableName+".actionid)").
				Pluck("actionid", &withoutOperations).Error
			if err != nil {
				return err
			}

			if len(withoutOperations) > 0 {
				err = tx.Model(&models.Action{}).
					Where("actionid IN ?", withoutOperations).
					Update("status", models.ActionStatusDisabled).Error
				if err != nil {
					return err
				}
				disabledActionIDs = withoutOperations
			}
		}

		return nil
	})
	if err != nil {
		return nil, apperrors.Backend(err)
	}

	for _, user := range deleted {
		details := fmt.Sprintf("User alias [%s] name [%s] surname [%s]", user.Alias, user.Name, user.Surname)
		if err := s.audit.Add(ctx, caller.UserID, models.AuditActionDelete, models.AuditResourceUser, details); err != nil {
			return nil, apperrors.Backend(err)
		}
	}
	for _, actionID := range disabledActionIDs {
		details := fmt.Sprintf("Action [%d] disabled due to deletion of user.", actionID)
		if err := s.audit.Add(ctx, caller.UserID, models.AuditActionDisable, models.AuditResourceAction, details); err != nil {
			return nil, apperrors.Backend(err)
		}
	}

	return userIDs, nil
}

// IsReadable reports whether every given user is visible to the caller
func (s *UserService) IsReadable(ctx context.Context, caller *models.Identity, userIDs []uint64) (bool, error) {
	if len(userIDs) == 0 {
		return true, nil
	}
	userIDs = dedupe(userIDs)

	count, err := s.users.Count(ctx, caller, &models.UserGetOptions{UserIDs: userIDs})
	if err != nil {
		return false, err
	}
	return count == int64(len(userIDs)), nil
}

// IsWritable reports whether every given user is editable by the caller
func (s *UserService) IsWritable(ctx context.Context, caller *models.Identity, userIDs []uint64) (bool, error) {
	if len(userIDs) == 0 {
		return true, nil
	}
	userIDs = dedupe(userIDs)

	count, err := s.users.Count(ctx, caller, &models.UserGetOptions{UserIDs: userIDs, Editable: true})
	if err != nil {
		return false, err
	}
	return count == int64(len(userIDs)), nil
}

// dedupe returns the ids without duplicates, preserving order
func dedupe(ids []uint64) []uint64 {
	seen := make(map[uint64]bool, len(ids))
	result := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			result = append(result, id)
		}
	}
	return result
}
