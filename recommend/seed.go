package recommend

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/rushteam/bookrec/core"
)

// Seed 由收藏集合派生随机种子：
//
//	xxhash64(join(sort(unique(NormalizeID(id))), ","))
//
// 与收藏顺序、重复、前导零无关，跨平台、跨进程稳定。空 ID 被忽略。
func Seed(favorites []core.Favorite) uint64 {
	set := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		id := core.NormalizeID(f.ID)
		if id == "" {
			continue
		}
		set[id] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return xxhash.Sum64String(strings.Join(ids, ","))
}
