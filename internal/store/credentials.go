package store

import (
	"errors"

	"mailchat/internal/models"

	"gorm.io/gorm"
)

// CredentialStore 是邮箱到验证状态的持久映射。
type CredentialStore struct {
	db *gorm.DB
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// FindByEmail 按邮箱精确查找身份，不存在时返回 (nil, nil)。
func (s *CredentialStore) FindByEmail(email string) (*models.Identity, error) {
	var ident models.Identity
	if err := s.db.Where("email = ?", email).First(&ident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ident, nil
}

// Upsert 插入或原地更新身份，保持 ID 不变。
// 同一邮箱的并发写入为 last-write-wins：用户同时发起两次登录时，
// 只有后提交的验证码生效。这是已知并接受的竞态。
func (s *CredentialStore) Upsert(ident *models.Identity) error {
	if ident.ID == 0 {
		return s.db.Create(ident).Error
	}
	return s.db.Save(ident).Error
}

// EmailsByID 批量取 ID 到邮箱的映射，供消息列表标注 owner。
func (s *CredentialStore) EmailsByID(ids []uint) (map[uint]string, error) {
	emails := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return emails, nil
	}
	var idents []models.Identity
	if err := s.db.Select("id", "email").Where("id IN ?", ids).Find(&idents).Error; err != nil {
		return nil, err
	}
	for _, ident := range idents {
		emails[ident.ID] = ident.Email
	}
	return emails, nil
}

// ListVerified 按存储顺序返回全部已验证身份。
func (s *CredentialStore) ListVerified() ([]models.Identity, error) {
	var idents []models.Identity
	if err := s.db.Where("is_verified = ?", true).Order("id asc").Find(&idents).Error; err != nil {
		return nil, err
	}
	return idents, nil
}
