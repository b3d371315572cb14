package shape

import "strings"

// DefaultType is the type of keys without namespace.
const DefaultType = "regular"

// SplitKey splits key at the first colon into namespace and local key.
// Keys without a colon are returned as DefaultType and key.
//
//	SplitKey("name")              -> "regular", "name"
//	SplitKey("addr:street")       -> "addr", "street"
//	SplitKey("name:pt:historic")  -> "name", "pt:historic"
func SplitKey(key string) (typ, local string) {
	i := strings.IndexByte(key, ':')
	if i < 0 {
		return DefaultType, key
	}
	return key[:i], key[i+1:]
}
