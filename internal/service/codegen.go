package service

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// 邀请码格式：3 段、每段 4 字符、短横线连接，字符集为大写字母与数字，
// 例如 "X7K2-93QT-MM0A"。生成本身不保证唯一，唯一性由发放逻辑兜底。
const (
	codeAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeSegmentCount  = 3
	codeSegmentLength = 4
)

// GenerateCode 生成一个随机格式化邀请码
// 邀请码即准入凭证，使用 crypto/rand 防止枚举猜测
func GenerateCode() string {
	segments := make([]string, codeSegmentCount)
	for i := range segments {
		segments[i] = secureRandomString(codeSegmentLength)
	}
	return strings.Join(segments, "-")
}

func secureRandomString(length int) string {
	result := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 读取失败意味着运行环境已不可用
			panic(err)
		}
		result[i] = codeAlphabet[n.Int64()]
	}
	return string(result)
}
