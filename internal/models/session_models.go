package models

const SessionsTableName = "sessions"

// Session status
const (
	SessionActive  = 0
	SessionPassive = 1
)

// Session represents a row of the sessions table. Passive rows are kept
// after logout for audit, they no longer authenticate.
type Session struct {
	SessionID  string `gorm:"column:sessionid;primaryKey;size:64" json:"sessionid"`
	UserID     uint64 `gorm:"column:userid;index" json:"userid"`
	LastAccess int64  `gorm:"column:lastaccess" json:"lastaccess"`
	Status     int    `gorm:"column:status" json:"status"`
}

func (Session) TableName() string {
	return SessionsTableName
}

// Identity is the authenticated caller resolved from a session token.
// It is request-scoped: the auth middleware stores one per request on the
// echo context, it is never shared across requests.
type Identity struct {
	UserID      uint64 `json:"userid"`
	Alias       string `json:"alias"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	URL         string `json:"url"`
	AutoLogin   int    `json:"autologin"`
	AutoLogout  int    `json:"autologout"`
	Lang        string `json:"lang"`
	Refresh     int    `json:"refresh"`
	Type        int    `json:"type"`
	Theme       string `json:"theme"`
	RowsPerPage int    `json:"rows_per_page"`
	DebugMode   bool   `json:"debug_mode"`
	GuiAccess   int    `json:"gui_access"`
	SessionID   string `json:"sessionid"`
	UserIP      string `json:"userip"`
}

// IsSuperAdmin reports whether the caller holds the super-admin privilege level.
func (i *Identity) IsSuperAdmin() bool {
	return i.Type == UserTypeSuperAdmin
}
