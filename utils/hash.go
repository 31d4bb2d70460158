package utils

import (
	"crypto/md5"
	"encoding/hex"
)

// PartsMD5 hashes the parts with a NUL separator so that ("ab","c") and ("a","bc") differ.
func PartsMD5(parts ...string) string {
	hash := md5.New()
	for i, p := range parts {
		if i > 0 {
			hash.Write([]byte{0})
		}
		hash.Write([]byte(p))
	}
	return hex.EncodeToString(hash.Sum(nil))
}
