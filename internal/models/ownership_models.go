package models

import "gorm.io/datatypes"

const ProfilesTableName = "profiles"
const SysMapsTableName = "sysmaps"
const ScreensTableName = "screens"
const SlideshowsTableName = "slideshows"
const ActionsTableName = "actions"
const OperationsTableName = "operations"
const OpMessageUsersTableName = "opmessage_usr"
const OpMessageGroupsTableName = "opmessage_grp"

// Action status
const (
	ActionStatusEnabled  = 0
	ActionStatusDisabled = 1
)

// Profile represents a row of the profiles table, a per-user UI
// preference keyed by idx.
type Profile struct {
	ProfileID uint64         `gorm:"column:profileid;primaryKey;autoIncrement" json:"profileid"`
	UserID    uint64         `gorm:"column:userid;index" json:"userid"`
	Idx       string         `gorm:"column:idx;size:96" json:"idx"`
	Value     datatypes.JSON `gorm:"column:value" json:"value"`
}

func (Profile) TableName() string {
	return ProfilesTableName
}

// SysMap, Screen and Slideshow are visualizations owned by a user.
// Ownership of any of them blocks user deletion.

type SysMap struct {
	SysMapID uint64 `gorm:"column:sysmapid;primaryKey;autoIncrement" json:"sysmapid"`
	Name     string `gorm:"column:name;size:128" json:"name"`
	UserID   uint64 `gorm:"column:userid;index" json:"userid"`
}

func (SysMap) TableName() string {
	return SysMapsTableName
}

type Screen struct {
	ScreenID uint64 `gorm:"column:screenid;primaryKey;autoIncrement" json:"screenid"`
	Name     string `gorm:"column:name;size:255" json:"name"`
	UserID   uint64 `gorm:"column:userid;index" json:"userid"`
}

func (Screen) TableName() string {
	return ScreensTableName
}

type Slideshow struct {
	SlideshowID uint64 `gorm:"column:slideshowid;primaryKey;autoIncrement" json:"slideshowid"`
	Name        string `gorm:"column:name;size:255" json:"name"`
	UserID      uint64 `gorm:"column:userid;index" json:"userid"`
}

func (Slideshow) TableName() string {
	return SlideshowsTableName
}

// Action is an automation rule; it is disabled when user deletion leaves
// it without operations.
type Action struct {
	ActionID uint64 `gorm:"column:actionid;primaryKey;autoIncrement" json:"actionid"`
	Name     string `gorm:"column:name;size:255" json:"name"`
	Status   int    `gorm:"column:status" json:"status"`
}

func (Action) TableName() string {
	return ActionsTableName
}

// Operation belongs to an action and targets users or groups through
// opmessage_usr / opmessage_grp rows.
type Operation struct {
	OperationID uint64 `gorm:"column:operationid;primaryKey;autoIncrement" json:"operationid"`
	ActionID    uint64 `gorm:"column:actionid;index" json:"actionid"`
}

func (Operation) TableName() string {
	return OperationsTableName
}

type OpMessageUser struct {
	OpMessageUsrID uint64 `gorm:"column:opmessage_usrid;primaryKey;autoIncrement" json:"opmessage_usrid"`
	OperationID    uint64 `gorm:"column:operationid;index" json:"operationid"`
	UserID         uint64 `gorm:"column:userid;index" json:"userid"`
}

func (OpMessageUser) TableName() string {
	return OpMessageUsersTableName
}

type OpMessageGroup struct {
	OpMessageGrpID uint64 `gorm:"column:opmessage_grpid;primaryKey;autoIncrement" json:"opmessage_grpid"`
	OperationID    uint64 `gorm:"column:operationid;index" json:"operationid"`
	UsrGrpID       uint64 `gorm:"column:usrgrpid;index" json:"usrgrpid"`
}

func (OpMessageGroup) TableName() string {
	return OpMessageGroupsTableName
}
