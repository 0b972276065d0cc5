package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// SafeSign 计算同步登录签名 sha256(app_id + secret + account + secret)
func SafeSign(appID, secret, account string) string {
	sum := sha256.Sum256([]byte(appID + secret + account + secret))
	return hex.EncodeToString(sum[:])
}

// VerifySign 常量时间比较签名，十六进制不区分大小写
// expected 由 SafeSign 生成，总是小写
func VerifySign(expected, actual string) bool {
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(actual))) == 1
}
