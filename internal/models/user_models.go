// Package models contains the GORM models for the User Directory API
package models

const UsersTableName = "users"
const UserGroupsTableName = "usrgrp"
const UserGroupMembersTableName = "users_groups"

// User privilege levels
const (
	UserTypeUser       = 1
	UserTypeAdmin      = 2
	UserTypeSuperAdmin = 3
)

// Group GUI access policies
const (
	GroupGuiAccessSystem   = 0
	GroupGuiAccessInternal = 1
	GroupGuiAccessDisabled = 2
)

// Group account status policies
const (
	GroupStatusEnabled  = 0
	GroupStatusDisabled = 1
)

// Group debug mode
const (
	GroupDebugModeDisabled = 0
	GroupDebugModeEnabled  = 1
)

// GuestAlias is the built-in account that may only be disabled, never
// renamed or deleted.
const GuestAlias = "guest"

// User represents a row of the users table
type User struct {
	UserID        uint64 `gorm:"column:userid;primaryKey;autoIncrement" json:"userid"`
	Alias         string `gorm:"column:alias;uniqueIndex;size:100" json:"alias"`
	Passwd        string `gorm:"column:passwd;size:255" json:"-"`
	Name          string `gorm:"column:name;size:100" json:"name"`
	Surname       string `gorm:"column:surname;size:100" json:"surname"`
	URL           string `gorm:"column:url;size:255" json:"url"`
	AutoLogin     int    `gorm:"column:autologin" json:"autologin"`
	AutoLogout    int    `gorm:"column:autologout" json:"autologout"`
	Lang          string `gorm:"column:lang;size:5" json:"lang"`
	Refresh       int    `gorm:"column:refresh" json:"refresh"`
	Type          int    `gorm:"column:type" json:"type"`
	Theme         string `gorm:"column:theme;size:128" json:"theme"`
	AttemptFailed int    `gorm:"column:attempt_failed" json:"attempt_failed"`
	AttemptIP     string `gorm:"column:attempt_ip;size:39" json:"attempt_ip"`
	AttemptClock  int64  `gorm:"column:attempt_clock" json:"attempt_clock"`
	RowsPerPage   int    `gorm:"column:rows_per_page" json:"rows_per_page"`

	// expansions, populated on request, never persisted
	Groups     []UserGroup `gorm:"-" json:"usrgrps,omitempty"`
	Medias     []Media     `gorm:"-" json:"medias,omitempty"`
	MediaTypes []MediaType `gorm:"-" json:"mediatypes,omitempty"`

	// getAccess expansion: most permissive value across the user's groups
	GuiAccess   *int `gorm:"-" json:"gui_access,omitempty"`
	DebugMode   *int `gorm:"-" json:"debug_mode,omitempty"`
	UsersStatus *int `gorm:"-" json:"users_status,omitempty"`
}

func (User) TableName() string {
	return UsersTableName
}

// UserGroup represents a row of the usrgrp table
type UserGroup struct {
	UsrGrpID    uint64 `gorm:"column:usrgrpid;primaryKey;autoIncrement" json:"usrgrpid"`
	Name        string `gorm:"column:name;size:64" json:"name"`
	GuiAccess   int    `gorm:"column:gui_access" json:"gui_access"`
	UsersStatus int    `gorm:"column:users_status" json:"users_status"`
	DebugMode   int    `gorm:"column:debug_mode" json:"debug_mode"`
}

func (UserGroup) TableName() string {
	return UserGroupsTableName
}

// UserGroupMember represents a row of the users_groups membership table
type UserGroupMember struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UsrGrpID uint64 `gorm:"column:usrgrpid;uniqueIndex:idx_grp_user,priority:1" json:"usrgrpid"`
	UserID   uint64 `gorm:"column:userid;uniqueIndex:idx_grp_user,priority:2;index" json:"userid"`
}

func (UserGroupMember) TableName() string {
	return UserGroupMembersTableName
}
