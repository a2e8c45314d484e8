package feature

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// 类别域名称：词表按域组织，与 FeatureVector 的类别下标一一对应。
const (
	DomainProtein     = "protein"
	DomainCuisine     = "cuisine"
	DomainPreparation = "preparation"
	DomainOccasion    = "occasion"
	DomainSeason      = "season"
	DomainIntensity   = "intensity"
	DomainWineType    = "wine_type"
)

// UnknownIndex 是保留的 unknown 桶索引。
// 真实类别从 1 开始编号，未知/缺失值一律落入 0，
// 避免与任何训练期见过的类别发生静默碰撞。
const UnknownIndex = 0

// Vocabulary 是类别↔索引的双向词表，与集成模型工件同族版本化。
// 训练期未见过的取值不做猜测，统一映射到 unknown 桶。
//
// 词表在加载后只读，可被所有并发请求无锁共享。
type Vocabulary struct {
	Version string

	tables  map[string]map[string]int // domain -> value -> index
	reverse map[string][]string       // domain -> index-1 -> value
}

// vocabArtifact 是词表的 JSON 持久化格式。
// categories 中每个域按训练期顺序列出真实类别；索引 = 位置 + 1。
type vocabArtifact struct {
	Version    string              `json:"version"`
	Categories map[string][]string `json:"categories"`
}

// NewVocabulary 从各域的有序类别列表构建词表。
func NewVocabulary(version string, categories map[string][]string) *Vocabulary {
	v := &Vocabulary{
		Version: version,
		tables:  make(map[string]map[string]int, len(categories)),
		reverse: make(map[string][]string, len(categories)),
	}
	for domain, values := range categories {
		table := make(map[string]int, len(values))
		rev := make([]string, 0, len(values))
		for _, raw := range values {
			val := Normalize(raw)
			if val == "" {
				continue
			}
			// 索引基于压缩后的位置，跳过空白项后正反向查询保持一致
			table[val] = len(rev) + 1
			rev = append(rev, val)
		}
		v.tables[domain] = table
		v.reverse[domain] = rev
	}
	return v
}

// LoadVocabulary 从 JSON 文件加载词表。
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var raw vocabArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if raw.Version == "" {
		return nil, fmt.Errorf("vocabulary missing version")
	}
	return NewVocabulary(raw.Version, raw.Categories), nil
}

// Index 返回 value 在 domain 中的索引；未知值返回 UnknownIndex。
// 匹配前统一小写 + trim。
func (v *Vocabulary) Index(domain, value string) int {
	table, ok := v.tables[domain]
	if !ok {
		return UnknownIndex
	}
	idx, ok := table[Normalize(value)]
	if !ok {
		return UnknownIndex
	}
	return idx
}

// Value 返回 domain 中索引对应的类别值（反向查询，用于 explain/调试）。
// UnknownIndex 与越界索引返回 ("", false)。
func (v *Vocabulary) Value(domain string, index int) (string, bool) {
	rev, ok := v.reverse[domain]
	if !ok {
		return "", false
	}
	if index <= UnknownIndex || index > len(rev) {
		return "", false
	}
	return rev[index-1], true
}

// Size 返回 domain 的真实类别数（不含 unknown 桶）。
func (v *Vocabulary) Size(domain string) int {
	return len(v.tables[domain])
}

// Normalize 统一字符串匹配形态：小写 + 去首尾空白。
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultVocabulary 返回内置词表，覆盖 core 包定义的全部枚举值。
// 用于测试/原型；生产环境应加载与模型工件配套的词表文件。
func DefaultVocabulary() *Vocabulary {
	return NewVocabulary("builtin", map[string][]string{
		DomainProtein:     {"beef", "lamb", "pork", "poultry", "fish", "shellfish", "game", "vegetable", "cheese"},
		DomainCuisine:     {"french", "italian", "greek", "spanish", "chinese", "japanese", "indian", "mexican", "american", "middle_eastern"},
		DomainPreparation: {"grilled", "roasted", "braised", "fried", "steamed", "poached", "raw", "cured"},
		DomainOccasion:    {"casual", "formal", "celebration", "business", "romantic"},
		DomainSeason:      {"spring", "summer", "autumn", "winter"},
		DomainIntensity:   {"light", "medium", "rich"},
		DomainWineType:    {"red", "white", "rose", "sparkling", "dessert", "fortified"},
	})
}
