package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Local 把附件写到本地目录，布局为 <root>/{images,audios,files}/<uuid>_<name>。
type Local struct {
	root string
	max  int64
}

// NewLocal 创建本地存储并预建归类目录。
func NewLocal(root string, maxBytes int64) (*Local, error) {
	for _, sub := range []string{"images", "audios", "files"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, err
		}
	}
	return &Local{root: root, max: maxBytes}, nil
}

func (l *Local) Put(ctx context.Context, family, filename string, size int64, r io.Reader) (string, error) {
	if size > l.max {
		return "", ErrTooLarge
	}
	// 文件名加 uuid 前缀，避免同名覆盖，也避免把客户端路径当真
	name := uuid.NewString() + "_" + filepath.Base(filename)
	target := filepath.Join(l.root, family, name)

	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, newCapReader(r, l.max)); err != nil {
		os.Remove(target)
		return "", err
	}
	return fmt.Sprintf("uploads/%s/%s", family, name), nil
}

// Root 返回根目录，供 HTTP 层挂静态路由。
func (l *Local) Root() string { return l.root }
