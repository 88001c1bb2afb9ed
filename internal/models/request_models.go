package models

// UserRequest is one user object in a create or update batch. Pointer
// fields distinguish "not supplied" from a zero value on update.
type UserRequest struct {
	UserID      uint64  `json:"userid,omitempty"`
	Alias       *string `json:"alias,omitempty"`
	Passwd      *string `json:"passwd,omitempty"`
	Name        *string `json:"name,omitempty"`
	Surname     *string `json:"surname,omitempty"`
	URL         *string `json:"url,omitempty"`
	AutoLogin   *int    `json:"autologin,omitempty"`
	AutoLogout  *int    `json:"autologout,omitempty"`
	Lang        *string `json:"lang,omitempty"`
	Refresh     *int    `json:"refresh,omitempty"`
	Type        *int    `json:"type,omitempty"`
	Theme       *string `json:"theme,omitempty"`
	RowsPerPage *int    `json:"rows_per_page,omitempty"`

	// GroupIDs is the full desired membership set; nil on update leaves
	// membership untouched
	GroupIDs []uint64 `json:"usrgrpids,omitempty"`

	// Medias are the notification channels created with the user
	Medias []MediaRequest `json:"user_medias,omitempty"`
}

// MediaRequest is one media object in a media batch. A zero MediaID
// means create, a set one means update.
type MediaRequest struct {
	MediaID     uint64 `json:"mediaid,omitempty"`
	MediaTypeID uint64 `json:"mediatypeid"`
	SendTo      string `json:"sendto"`
	Active      int    `json:"active"`
	Severity    int    `json:"severity"`
	Period      string `json:"period"`
}

// LoginRequest carries the login credentials
type LoginRequest struct {
	Alias    string `json:"user"`
	Password string `json:"password"`

	// HTTPAuthIdentity is the externally asserted identity header value,
	// filled by the handler in HTTP-trust mode
	HTTPAuthIdentity string `json:"-"`

	// UserIP is the caller's source address, filled by the handler
	UserIP string `json:"-"`
}
