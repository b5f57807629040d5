package lexical

import (
	"encoding/json"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/width"
)

// Dictionary bundles the stopword set and the category keyword map.
// Both are loaded once at startup and never mutated afterwards, so a
// single instance can be shared by every concurrent analysis.
type Dictionary struct {
	stopwords  map[string]struct{}
	categories []string
	keywords   map[string][]string
}

// DefaultCategories is the fixed category set used when no external
// dictionary is configured. Order is preserved in distributions.
var DefaultCategories = []string{"科技", "娱乐", "社会", "财经", "体育", "教育", "健康", "国际"}

var defaultStopwords = []string{
	"的", "了", "和", "是", "在", "我", "有", "个", "这", "那",
	"什么", "怎么", "为何", "如何", "一个", "几个", "多少", "一些", "很多", "许多",
}

var defaultCategoryKeywords = map[string][]string{
	"科技": {"科技", "AI", "人工智能", "芯片", "手机", "互联网", "软件", "程序员", "数码", "航天", "火箭", "算法"},
	"娱乐": {"电影", "明星", "综艺", "演唱会", "电视剧", "娱乐", "导演", "票房", "音乐", "游戏"},
	"社会": {"社会", "警方", "法院", "事故", "调查", "民生", "城市", "学校", "医院", "安全"},
	"财经": {"股市", "基金", "经济", "金融", "房价", "投资", "银行", "财报", "上市", "债券"},
	"体育": {"足球", "篮球", "奥运", "世界杯", "比赛", "冠军", "球员", "联赛", "体育", "夺冠"},
	"教育": {"高考", "考研", "学生", "大学", "教育", "老师", "招生", "录取", "校园", "考试"},
	"健康": {"健康", "医疗", "疫苗", "病毒", "医生", "药品", "养生", "疾病", "心理", "营养"},
	"国际": {"美国", "俄罗斯", "日本", "欧洲", "国际", "外交", "联合国", "总统", "制裁", "峰会"},
}

type stopwordsFile struct {
	Stopwords []string `json:"stopwords"`
}

// LoadDictionary builds a Dictionary from the given JSON files. Either
// path may be empty; load failures fall back to the built-in defaults
// with a warning, matching the degrade-not-fail policy of the rest of
// the engine.
func LoadDictionary(stopwordsPath, categoryPath string, logger *zerolog.Logger) *Dictionary {
	d := &Dictionary{
		stopwords: make(map[string]struct{}),
		keywords:  make(map[string][]string),
	}

	words := defaultStopwords

	if stopwordsPath != "" {
		var parsed stopwordsFile
		if err := readJSON(stopwordsPath, &parsed); err != nil {
			logger.Warn().Err(err).Str("path", stopwordsPath).Msg("loading stopwords failed, using defaults")
		} else {
			words = parsed.Stopwords
		}
	}

	for _, w := range words {
		d.stopwords[w] = struct{}{}
	}

	categoryKeywords := defaultCategoryKeywords

	if categoryPath != "" {
		parsed := make(map[string][]string)
		if err := readJSON(categoryPath, &parsed); err != nil {
			logger.Warn().Err(err).Str("path", categoryPath).Msg("loading category keywords failed, using defaults")
		} else {
			categoryKeywords = parsed
		}
	}

	if sameKeySet(categoryKeywords, defaultCategoryKeywords) {
		d.categories = DefaultCategories
	} else {
		d.categories = sortedKeys(categoryKeywords)
	}

	for c, kws := range categoryKeywords {
		d.keywords[c] = kws
	}

	return d
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, v)
}

func sameKeySet(a map[string][]string, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}

	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}

	return true
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// IsStopword reports whether w is in the stopword set.
func (d *Dictionary) IsStopword(w string) bool {
	_, ok := d.stopwords[w]

	return ok
}

// Categories returns the category names in stable order.
func (d *Dictionary) Categories() []string {
	return d.categories
}

// CategoryKeywords returns the feature words for one category.
func (d *Dictionary) CategoryKeywords(category string) []string {
	return d.keywords[category]
}

// IsMeaninglessPair rejects word pairs that carry no topical signal:
// two single-rune words, two pure numbers, or a known empty pronoun
// combination.
func (d *Dictionary) IsMeaninglessPair(w1, w2 string) bool {
	if utf8.RuneCountInString(w1) == 1 && utf8.RuneCountInString(w2) == 1 {
		return true
	}

	if IsNumeric(w1) && IsNumeric(w2) {
		return true
	}

	for _, p := range emptyPairs {
		if (p[0] == w1 && p[1] == w2) || (p[0] == w2 && p[1] == w1) {
			return true
		}
	}

	return false
}

var emptyPairs = [][2]string{
	{"什么", "怎么"}, {"为何", "如何"}, {"这个", "那个"},
	{"一个", "几个"}, {"多少", "一些"}, {"很多", "许多"},
}

// IsNumeric reports whether s consists only of decimal digits.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// IsSingleCJK reports whether s is exactly one Han ideograph.
func IsSingleCJK(s string) bool {
	if utf8.RuneCountInString(s) != 1 {
		return false
	}

	r, _ := utf8.DecodeRuneInString(s)

	return unicode.Is(unicode.Han, r)
}

// NormalizeTitle folds full-width forms to their narrow counterparts
// and trims surrounding whitespace so titles from different platforms
// compare cleanly.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}

// IsIgnorable reports whether a token should never survive keyword
// filtering: stopword, single ideograph or pure number.
func (d *Dictionary) IsIgnorable(token string) bool {
	if d.IsStopword(token) {
		return true
	}

	if IsSingleCJK(token) {
		return true
	}

	return IsNumeric(token)
}
