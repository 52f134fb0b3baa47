package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides values substituted into the message template (for example,
// "field", "expected", "actual", "value" or "path").
type Translator interface {
	Message(code string, data map[string]string) string
}

var templates = map[string]map[string]string{
	"en": {
		"unsupported_type": "Field {field} has a schema type the converter cannot handle: {expected}",
		"type_mismatch":    "Field {field} is expected to be type: {expected}, but it is: {actual}",
		"enum_mismatch":    "Field {field} is expected to be of enum type and be one of {expected}, but it is: {value}",
		"union_exhausted":  "Could not evaluate union, field {field} is expected to be one of these: {expected}. If this is a complex type, check if offending field (path: {path}) adheres to schema: {value}",
		"number_format":    "Field {field} is expected to be a number of type: {expected}, but it is: {value}",
		"datetime_parse":   "Field {field} is expected to be one of: {expected}, but it is: {value}",
		"decimal_scale":    "Field {field} has decimal {value} with scale {actual}, which exceeds the schema scale {expected}",
		"unknown_field":    "Could not find field {field} in Avro schema (path: {path})",
		"missing_field":    "Field {field} is not set and has no default value",
		"duplicate_key":    "Field {field} is set by more than one key ({key})",
		"parse_error":      "parse error",
	},
	"ja": {
		"unsupported_type": "フィールド {field} のスキーマ型 {expected} は変換できません",
		"type_mismatch":    "フィールド {field} は {expected} 型である必要がありますが、{actual} です",
		"enum_mismatch":    "フィールド {field} は {expected} のいずれかである必要がありますが、{value} です",
		"union_exhausted":  "ユニオンを評価できません。フィールド {field} は {expected} のいずれかである必要があります (パス: {path}, 値: {value})",
		"number_format":    "フィールド {field} は {expected} 型の数値である必要がありますが、{value} です",
		"datetime_parse":   "フィールド {field} は {expected} のいずれかである必要がありますが、{value} です",
		"decimal_scale":    "フィールド {field} の小数 {value} のスケール {actual} がスキーマのスケール {expected} を超えています",
		"unknown_field":    "フィールド {field} が Avro スキーマに存在しません (パス: {path})",
		"missing_field":    "フィールド {field} に値もデフォルト値もありません",
		"duplicate_key":    "フィールド {field} に複数のキーが対応しています ({key})",
		"parse_error":      "解析エラー",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	tpl, ok := templates[t.lang][code]
	if !ok {
		if tpl, ok = templates["en"][code]; !ok {
			return code
		}
	}
	return Expand(tpl, data)
}

// Expand replaces {key} placeholders in tpl with values from data. Unknown
// placeholders are left as is.
func Expand(tpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tpl, "{") {
		return tpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
