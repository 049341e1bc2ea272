package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Canonicalize flattens a payload into the "k1=v1&k2=v2" form the
// bank-transfer processor signs: keys sorted alphabetically, the signature
// field itself excluded, nulls rendered empty, numbers without exponent
// notation, nested values as compact JSON.
func Canonicalize(payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += "&"
		}
		out += k + "=" + canonicalValue(payload[k])
	}
	return out
}

func canonicalValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint:
		return strconv.FormatUint(uint64(val), 10)
	case json.Number:
		return val.String()
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

// Sign computes the hex HMAC-SHA256 checksum of the canonicalized payload.
func Sign(checksumKey string, payload map[string]any) string {
	mac := hmac.New(sha256.New, []byte(checksumKey))
	mac.Write([]byte(Canonicalize(payload)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a provider-supplied checksum against the payload in
// constant time. The payload may still contain its signature field; it is
// excluded from the canonical form.
func VerifySignature(checksumKey, signature string, payload map[string]any) bool {
	if signature == "" {
		return false
	}
	expected := Sign(checksumKey, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
