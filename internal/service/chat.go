package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"mailchat/internal/blob"
	"mailchat/internal/metrics"
	"mailchat/internal/models"
	"mailchat/internal/store"
)

// extFamilies 把扩展名映射到内容族；不在表里的扩展名在任何写入前拒绝。
var extFamilies = map[string]struct {
	kind   string
	folder string
}{
	".png":  {models.KindImage, "images"},
	".jpg":  {models.KindImage, "images"},
	".jpeg": {models.KindImage, "images"},
	".gif":  {models.KindImage, "images"},
	".webp": {models.KindImage, "images"},
	".mp3":  {models.KindAudio, "audios"},
	".wav":  {models.KindAudio, "audios"},
	".ogg":  {models.KindAudio, "audios"},
	".m4a":  {models.KindAudio, "audios"},
	".pdf":  {models.KindFile, "files"},
	".txt":  {models.KindFile, "files"},
	".doc":  {models.KindFile, "files"},
	".docx": {models.KindFile, "files"},
}

// Upload 描述一次待提交的附件。
type Upload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// MessageDTO 对外输出的消息数据，IsOwn 按查看者逐条计算。
type MessageDTO struct {
	ID            uint      `json:"id"`
	UserEmail     string    `json:"user_email"`
	Content       string    `json:"content"`
	Kind          string    `json:"type"`
	AttachmentRef *string   `json:"file_path"`
	CreatedAt     time.Time `json:"timestamp"`
	IsOwn         bool      `json:"is_own"`
}

// ChatService 是已认证身份操作的聊天网关。
type ChatService struct {
	creds *store.CredentialStore
	msgs  *store.MessageStore
	blobs blob.Store
}

func NewChatService(creds *store.CredentialStore, msgs *store.MessageStore, blobs blob.Store) *ChatService {
	return &ChatService{creds: creds, msgs: msgs, blobs: blobs}
}

// Post 提交一条消息：文本与附件恰好二选一。
// 文本先 trim，空文本拒绝；附件先查扩展名表、过大小上限，
// 全部校验通过才写 blob、再落消息，失败时不留半成品。
func (s *ChatService) Post(ctx context.Context, owner models.Identity, text string, upload *Upload) (*MessageDTO, error) {
	if upload != nil && upload.Filename != "" {
		return s.postAttachment(ctx, owner, upload)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	msg, err := s.msgs.Append(owner.ID, models.KindText, text, nil)
	if err != nil {
		return nil, err
	}
	metrics.MessagesPosted.WithLabelValues(models.KindText).Inc()
	return s.dto(msg, owner.Email, true), nil
}

func (s *ChatService) postAttachment(ctx context.Context, owner models.Identity, upload *Upload) (*MessageDTO, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	family, ok := extFamilies[ext]
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	ref, err := s.blobs.Put(ctx, family.folder, upload.Filename, upload.Size, upload.Reader)
	if err != nil {
		if errors.Is(err, blob.ErrTooLarge) {
			return nil, ErrPayloadTooLarge
		}
		return nil, err
	}

	msg, err := s.msgs.Append(owner.ID, family.kind, upload.Filename, &ref)
	if err != nil {
		return nil, err
	}
	metrics.MessagesPosted.WithLabelValues(family.kind).Inc()
	return s.dto(msg, owner.Email, true), nil
}

// List 返回全部消息（提交序），每条带 owner 邮箱和 is_own 标记。
func (s *ChatService) List(viewerID uint) ([]MessageDTO, error) {
	msgs, err := s.msgs.ListAll()
	if err != nil {
		return nil, err
	}

	emails, err := s.resolveEmails(msgs)
	if err != nil {
		return nil, err
	}

	out := make([]MessageDTO, 0, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		out = append(out, MessageDTO{
			ID:            m.ID,
			UserEmail:     emails[m.OwnerID],
			Content:       m.Body,
			Kind:          m.Kind,
			AttachmentRef: m.AttachmentRef,
			CreatedAt:     m.CreatedAt,
			IsOwn:         m.OwnerID == viewerID,
		})
	}
	return out, nil
}

// ListUsers 返回全部已验证邮箱。没有心跳机制，"在线"即"验证过"。
func (s *ChatService) ListUsers() ([]string, error) {
	idents, err := s.creds.ListVerified()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(idents))
	for _, ident := range idents {
		out = append(out, ident.Email)
	}
	return out, nil
}

// resolveEmails 批量取消息涉及的 owner 邮箱。
func (s *ChatService) resolveEmails(msgs []models.Message) (map[uint]string, error) {
	seen := make(map[uint]struct{}, len(msgs))
	ids := make([]uint, 0, len(msgs))
	for _, m := range msgs {
		if _, ok := seen[m.OwnerID]; ok {
			continue
		}
		seen[m.OwnerID] = struct{}{}
		ids = append(ids, m.OwnerID)
	}
	return s.creds.EmailsByID(ids)
}

func (s *ChatService) dto(m *models.Message, email string, isOwn bool) *MessageDTO {
	return &MessageDTO{
		ID:            m.ID,
		UserEmail:     email,
		Content:       m.Body,
		Kind:          m.Kind,
		AttachmentRef: m.AttachmentRef,
		CreatedAt:     m.CreatedAt,
		IsOwn:         isOwn,
	}
}
