package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds "<stage>:<sha256>" where the digest covers the JSON form of
// parts. Stages are "table", "layout" and "artifact"; struct fields marshal
// in declaration order, so equal options always give equal keys.
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return stage + ":" + Hash(data)
}

// Hash returns the hex SHA-256 digest of data. FileCache also uses it to
// derive entry paths from keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
