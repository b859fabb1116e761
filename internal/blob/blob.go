package blob

import (
	"context"
	"errors"
	"io"
)

// ErrTooLarge 表示上传超出了大小上限，在写入任何字节前拒绝。
var ErrTooLarge = errors.New("blob: payload too large")

// Store 是附件存储协作方：写入字节流，换回一个可取回的不透明引用。
// family 决定对象的归类目录（images/audios/files）。
type Store interface {
	Put(ctx context.Context, family, filename string, size int64, r io.Reader) (string, error)
}

// capReader 在读取超过上限时报 ErrTooLarge，兜底声明大小不可信的客户端。
type capReader struct {
	r    io.Reader
	left int64
}

func newCapReader(r io.Reader, max int64) *capReader {
	return &capReader{r: r, left: max}
}

func (cr *capReader) Read(p []byte) (int, error) {
	if cr.left < 0 {
		return 0, ErrTooLarge
	}
	// 留 1 字节余量用于区分"恰好到上限"与"超限"
	if int64(len(p)) > cr.left+1 {
		p = p[:cr.left+1]
	}
	n, err := cr.r.Read(p)
	cr.left -= int64(n)
	if cr.left < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
