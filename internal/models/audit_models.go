package models

const AuditLogTableName = "audit_log"

// Audit actions
const (
	AuditActionLogin   = "login"
	AuditActionDelete  = "delete"
	AuditActionDisable = "disable"
)

// Audit resource types
const (
	AuditResourceUser   = "user"
	AuditResourceAction = "action"
)

// AuditLog represents a row of the audit_log table
type AuditLog struct {
	AuditID      string `gorm:"column:auditid;primaryKey;size:36" json:"auditid"`
	UserID       uint64 `gorm:"column:userid;index" json:"userid"`
	Action       string `gorm:"column:action;size:32" json:"action"`
	ResourceType string `gorm:"column:resourcetype;size:32" json:"resourcetype"`
	Details      string `gorm:"column:details;size:255" json:"details"`
	Clock        int64  `gorm:"column:clock" json:"clock"`
}

func (AuditLog) TableName() string {
	return AuditLogTableName
}
