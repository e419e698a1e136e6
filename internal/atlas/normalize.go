package atlas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fgasupport/internal/catalog"
	"fgasupport/internal/logging"
)

var playableTypes = map[string]bool{
	"heroine": true,
	"normal":  true,
}

// record is the tolerant view of one export object. Every field is optional;
// a missing or mistyped field falls back to its zero value (rarity to 1).
type record struct {
	CollectionNo int
	Name         string
	Type         string
	Gender       string
	ClassName    string
	Rarity       int
	Faces        map[string]map[string]string
}

// Normalize decodes a raw catalog document into entries sorted by collection
// number. Only a document that is not a JSON array is an error; malformed
// individual records are skipped with a warning.
func Normalize(kind catalog.Kind, raw []byte, logger *slog.Logger) ([]catalog.Entry, error) {
	logger = logging.NewComponentLogger(logger, "normalize").With(logging.String(logging.FieldKind, kind.String()))

	var items []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s catalog: %w", kind, err)
	}

	records := make([]record, 0, len(items))
	for i, item := range items {
		rec, err := decodeRecord(item)
		if err != nil {
			logging.WarnWithContext(logger, "skipping malformed catalog record", "catalog_record_skipped",
				logging.Int("position", i),
				logging.Error(err),
				logging.String(logging.FieldImpact, "record omitted from this run"),
			)
			continue
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CollectionNo < records[j].CollectionNo
	})

	seen := make(map[string]bool, len(records))
	entries := make([]catalog.Entry, 0, len(records))
	for _, rec := range records {
		if rec.CollectionNo == 0 {
			continue
		}
		var entry catalog.Entry
		if kind == catalog.KindServant {
			if !playableTypes[rec.Type] {
				continue
			}
			entry = servantEntry(rec, seen, logger)
		} else {
			entry = craftEssenceEntry(rec)
		}
		entries = append(entries, entry)
	}

	logger.Debug("catalog normalized",
		logging.Int("records", len(items)),
		logging.Int("entries", len(entries)),
	)
	return entries, nil
}

func servantEntry(rec record, seen map[string]bool, logger *slog.Logger) catalog.Entry {
	c := candidate{
		Name:      strings.ReplaceAll(catalog.StripAccents(rec.Name), "Altria", "Artoria"),
		ClassName: rec.ClassName,
		Gender:    rec.Gender,
		Rarity:    rec.Rarity,
	}
	for _, rule := range applyRules(&c, servantRules) {
		logger.Debug("rename rule applied",
			logging.Int(logging.FieldEntryIdx, rec.CollectionNo),
			logging.String("rule", rule),
			logging.String("name", c.Name),
		)
	}
	c.ClassName = NormalizeClassName(c.ClassName)

	if seen[c.Name] {
		c.Name = fmt.Sprintf("%s (%s)", c.Name, c.ClassName)
	}
	seen[c.Name] = true

	return catalog.Entry{
		Idx:       rec.CollectionNo,
		Name:      c.Name,
		Rarity:    c.Rarity,
		Assets:    faceAssets(rec.Faces),
		ClassName: c.ClassName,
	}
}

func craftEssenceEntry(rec record) catalog.Entry {
	return catalog.Entry{
		Idx:    rec.CollectionNo,
		Name:   catalog.StripAccents(rec.Name),
		Rarity: rec.Rarity,
		Assets: faceAssets(rec.Faces),
	}
}

// NormalizeClassName maps export class identifiers onto display names:
// "mooncancer" and "alterego" get their spaced forms, every other value is
// title-cased word by word.
func NormalizeClassName(className string) string {
	switch strings.ToLower(className) {
	case "mooncancer":
		className = "Moon Cancer"
	case "alterego":
		className = "Alter Ego"
	}
	caser := cases.Title(language.Und)
	words := strings.Fields(className)
	for i, word := range words {
		words[i] = caser.String(word)
	}
	return strings.Join(words, " ")
}

// faceAssets flattens extraAssets.faces into assets keyed "<group>_<key>".
// Groups sort lexically and keys numerically when both parse as integers.
func faceAssets(faces map[string]map[string]string) []catalog.Asset {
	groups := make([]string, 0, len(faces))
	for group := range faces {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	var assets []catalog.Asset
	for _, group := range groups {
		keys := make([]string, 0, len(faces[group]))
		for key := range faces[group] {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })
		for _, key := range keys {
			url := strings.TrimSpace(faces[group][key])
			if url == "" {
				continue
			}
			assets = append(assets, catalog.Asset{Key: group + "_" + key, URL: url})
		}
	}
	return assets
}

func lessKey(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return ai < bi
	}
	return a < b
}

func decodeRecord(raw json.RawMessage) (record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return record{}, err
	}
	rec := record{
		CollectionNo: intField(fields, "collectionNo", 0),
		Name:         stringField(fields, "name"),
		Type:         stringField(fields, "type"),
		Gender:       stringField(fields, "gender"),
		ClassName:    stringField(fields, "className"),
		Rarity:       intField(fields, "rarity", 1),
	}
	if extra, ok := fields["extraAssets"]; ok {
		var assets struct {
			Faces map[string]json.RawMessage `json:"faces"`
		}
		if err := json.Unmarshal(extra, &assets); err == nil {
			rec.Faces = decodeFaces(assets.Faces)
		}
	}
	return rec, nil
}

// decodeFaces keeps only string URLs; groups or values of any other shape
// are ignored.
func decodeFaces(groups map[string]json.RawMessage) map[string]map[string]string {
	out := make(map[string]map[string]string, len(groups))
	for group, raw := range groups {
		var values map[string]json.RawMessage
		if err := json.Unmarshal(raw, &values); err != nil {
			continue
		}
		urls := make(map[string]string, len(values))
		for key, value := range values {
			var url string
			if err := json.Unmarshal(value, &url); err == nil {
				urls[key] = url
			}
		}
		if len(urls) > 0 {
			out[group] = urls
		}
	}
	return out
}

func intField(fields map[string]json.RawMessage, key string, fallback int) int {
	raw, ok := fields[key]
	if !ok {
		return fallback
	}
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback
	}
	return int(value)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}
