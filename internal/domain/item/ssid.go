package item

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxSSIDAttempts 自动生成SSID的最大尝试次数
const MaxSSIDAttempts = 10

const ssidAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ValidateSSID 校验SSID长度（3-50个字符）
func ValidateSSID(ssid string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(ssid))
	if n < 3 || n > 50 {
		return ErrInvalidSSID
	}
	return nil
}

// SSIDGenerator SSID生成器
// 格式：SS + 时间戳(yyyyMMddHHmmss) + 4位随机字符
// 示例：SS20240115103000K7QM
type SSIDGenerator struct {
	now    func() time.Time
	suffix func() string
}

// NewSSIDGenerator 创建SSID生成器
func NewSSIDGenerator() *SSIDGenerator {
	return &SSIDGenerator{
		now:    time.Now,
		suffix: randomSuffix,
	}
}

// Candidate 生成一个候选SSID（不保证唯一）
func (g *SSIDGenerator) Candidate() string {
	return "SS" + g.now().Format("20060102150405") + g.suffix()
}

// Generate 生成一个未被占用的SSID
// exists回调查询存储层，最多尝试MaxSSIDAttempts次，全部冲突返回ErrGenerationExhausted
func (g *SSIDGenerator) Generate(ctx context.Context, exists func(ctx context.Context, ssid string) (bool, error)) (string, error) {
	for attempt := 0; attempt < MaxSSIDAttempts; attempt++ {
		candidate := g.Candidate()

		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrGenerationExhausted
}

func randomSuffix() string {
	var sb strings.Builder
	max := big.NewInt(int64(len(ssidAlphabet)))
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand不可用时退化为时间纳秒
			n = big.NewInt(time.Now().UnixNano() % int64(len(ssidAlphabet)))
		}
		sb.WriteByte(ssidAlphabet[n.Int64()])
	}
	return sb.String()
}
