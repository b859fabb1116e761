package models

import "time"

// Identity 代表一个通过邮箱注册的身份，验证状态随登录流程变化。
// PendingCode 仅在有未完成的验证请求时非空，验证成功后置空。
type Identity struct {
	ID          uint    `gorm:"primaryKey"`
	Email       string  `gorm:"uniqueIndex;size:120;not null"`
	IsVerified  bool    `gorm:"not null;default:false"`
	PendingCode *string `gorm:"size:6"`
	CreatedAt   time.Time
}

// Message 是一条不可变的聊天记录：纯文本，或单个附件，二者取其一。
// 附件消息的 Body 保存原始文件名，AttachmentRef 指向 blob 存储。
type Message struct {
	ID            uint    `gorm:"primaryKey"`
	OwnerID       uint    `gorm:"index;not null"`
	Kind          string  `gorm:"size:20;not null;default:text"`
	Body          string  `gorm:"type:text"`
	AttachmentRef *string `gorm:"size:500"`
	CreatedAt     time.Time
}

// Session 是服务端持有的会话记录，撤销即登出。
type Session struct {
	ID         uint   `gorm:"primaryKey"`
	Token      string `gorm:"uniqueIndex;size:128;not null"`
	IdentityID uint   `gorm:"index;not null"`
	RevokedAt  *time.Time
	CreatedAt  time.Time
}

// 消息类型枚举。
const (
	KindText  = "text"
	KindImage = "image"
	KindAudio = "audio"
	KindFile  = "file"
)
