package models

// UserGetOptions is the filter/options structure accepted by the
// directory query.
type UserGetOptions struct {
	UserIDs      []uint64               `json:"userids,omitempty"`
	GroupIDs     []uint64               `json:"usrgrpids,omitempty"`
	MediaIDs     []uint64               `json:"mediaids,omitempty"`
	MediaTypeIDs []uint64               `json:"mediatypeids,omitempty"`
	Filter       map[string]interface{} `json:"filter,omitempty"`
	Search       map[string]string      `json:"search,omitempty"`

	// Editable narrows a non-super-admin caller to their own record
	Editable bool `json:"editable,omitempty"`

	// NoPermissions skips the caller-based narrowing, service-internal use only
	NoPermissions bool `json:"-"`

	CountOutput bool   `json:"countOutput,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	SortField   string `json:"sortfield,omitempty"`
	SortOrder   string `json:"sortorder,omitempty"`

	SelectGroups     bool `json:"selectUsrgrps,omitempty"`
	SelectMedias     bool `json:"selectMedias,omitempty"`
	SelectMediaTypes bool `json:"selectMediatypes,omitempty"`
	GetAccess        bool `json:"getAccess,omitempty"`
}

// UserAccess is the per-user result of the getAccess expansion, the MAX
// of each policy column across the user's groups.
type UserAccess struct {
	UserID      uint64 `gorm:"column:userid"`
	GuiAccess   int    `gorm:"column:gui_access"`
	DebugMode   int    `gorm:"column:debug_mode"`
	UsersStatus int    `gorm:"column:users_status"`
}
