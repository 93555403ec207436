package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// BuildKey 根据端点名与参数生成缓存键
//
// 参数按键名排序，空值忽略，因此参数顺序不同或缺省参数不会产生不同的键。
func BuildKey(endpoint string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := md5.Sum([]byte(endpoint + ":" + strings.Join(pairs, "&")))
	return hex.EncodeToString(sum[:])
}
