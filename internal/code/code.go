package code

import "crypto/rand"

const (
	digits = "0123456789"
	// Length 是验证码的固定长度。
	Length = 6
)

// New 生成一个 6 位数字验证码，每一位独立均匀地取自数字表。
// 必须使用密码学随机源，不允许可预测的种子。
func New() (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, 16)
	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			// 拒绝 250-255，避免模运算偏差
			if b >= 250 {
				continue
			}
			out = append(out, digits[int(b)%len(digits)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out), nil
}
