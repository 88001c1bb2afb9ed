package models

const MediasTableName = "media"
const MediaTypesTableName = "media_type"

// Media active flag
const (
	MediaActive   = 0
	MediaDisabled = 1
)

// Media represents a row of the media table, a notification channel
// owned by a user.
type Media struct {
	MediaID     uint64 `gorm:"column:mediaid;primaryKey;autoIncrement" json:"mediaid"`
	UserID      uint64 `gorm:"column:userid;index" json:"userid"`
	MediaTypeID uint64 `gorm:"column:mediatypeid;index" json:"mediatypeid"`
	SendTo      string `gorm:"column:sendto;size:100" json:"sendto"`
	Active      int    `gorm:"column:active" json:"active"`
	Severity    int    `gorm:"column:severity" json:"severity"`
	Period      string `gorm:"column:period;size:100" json:"period"`
}

func (Media) TableName() string {
	return MediasTableName
}

// MediaType represents a row of the media_type table
type MediaType struct {
	MediaTypeID uint64 `gorm:"column:mediatypeid;primaryKey;autoIncrement" json:"mediatypeid"`
	Type        int    `gorm:"column:type" json:"type"`
	Description string `gorm:"column:description;size:100" json:"description"`
}

func (MediaType) TableName() string {
	return MediaTypesTableName
}
