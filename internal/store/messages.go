package store

import (
	"mailchat/internal/models"

	"gorm.io/gorm"
)

// MessageStore 是追加式的有序消息日志，ID 与顺序由存储层唯一裁定。
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Append 追加一条消息，由数据库分配自增 ID 与时间戳。
// 并发 Append 各自成功并拿到不同 ID，已有条目永不改写。
func (s *MessageStore) Append(ownerID uint, kind, body string, attachmentRef *string) (*models.Message, error) {
	msg := models.Message{OwnerID: ownerID, Kind: kind, Body: body, AttachmentRef: attachmentRef}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListAll 按 (created_at, id) 升序返回全部消息；时间戳相同时以 ID 定序。
func (s *MessageStore) ListAll() ([]models.Message, error) {
	var msgs []models.Message
	if err := s.db.Order("created_at asc, id asc").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// ListByOwner 显式按 owner 查询，替代 ORM 的反向引用遍历。
func (s *MessageStore) ListByOwner(ownerID uint) ([]models.Message, error) {
	var msgs []models.Message
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at asc, id asc").Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}
