package entity

import (
	"time"
)

// StatusMessage сообщение в ленте статусов проекта
type StatusMessage struct {
	ID          string     `json:"id" gorm:"primaryKey;size:32"`
	ProjectID   string     `json:"project_id" gorm:"size:32;not null;index"`
	UserID      string     `json:"user_id" gorm:"size:32;not null"`
	Message     string     `json:"message" gorm:"type:text;not null"`
	Attachments JSONBArray `json:"attachments" gorm:"type:jsonb;default:'[]'"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (StatusMessage) TableName() string {
	return "status_messages"
}

// Attachment описание загруженного файла внутри attachments
type Attachment struct {
	ID           string `json:"id"`
	FileName     string `json:"file_name"`
	OriginalName string `json:"original_name"`
	ObjectName   string `json:"object_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}
