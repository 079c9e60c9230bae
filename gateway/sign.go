package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"
)

// timeNowNanos is swapped in tests for deterministic nonces.
var timeNowNanos = func() int64 { return time.Now().UnixNano() }

// Sign produces the venue's request signature triple. The payload is
// JSON-quoted twice before hashing; the venue verifies against exactly
// that encoding, so the double quoting is part of the contract.
//
//	checksum  = sha256(quote(quote(payload)))
//	signature = HMAC-SHA512(secret, uriPath + sha256(nonce + checksum))
func Sign(secret, uriPath, payload string) (nonce int64, checksum, signature string) {
	nonce = timeNowNanos()
	checksum, signature = signPayload(secret, uriPath, payload, nonce)
	return nonce, checksum, signature
}

func signPayload(secret, uriPath, payload string, nonce int64) (checksum, signature string) {
	quoted := payload
	for i := 0; i < 2; i++ {
		b, _ := json.Marshal(quoted)
		quoted = string(b)
	}
	sum := sha256.Sum256([]byte(quoted))
	checksum = hex.EncodeToString(sum[:])

	nc := sha256.Sum256([]byte(strconv.FormatInt(nonce, 10) + checksum))
	nonceChecksum := hex.EncodeToString(nc[:])

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(uriPath))
	mac.Write([]byte(nonceChecksum))
	signature = hex.EncodeToString(mac.Sum(nil))
	return checksum, signature
}
