package catalog

import (
	"fmt"
	"strings"
)

// Kind identifies one of the two mirrored catalogs.
type Kind string

const (
	KindServant      Kind = "servant"
	KindCraftEssence Kind = "ce"
)

// Kinds returns every supported catalog kind in processing order.
func Kinds() []Kind {
	return []Kind{KindServant, KindCraftEssence}
}

// ParseKind maps a user or config supplied value onto a Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindServant:
		return KindServant, nil
	case KindCraftEssence:
		return KindCraftEssence, nil
	default:
		return "", fmt.Errorf("unknown catalog kind %q (want %q or %q)", value, KindServant, KindCraftEssence)
	}
}

func (k Kind) String() string {
	return string(k)
}

// DisplayName is the human readable label used in logs and tables.
func (k Kind) DisplayName() string {
	switch k {
	case KindServant:
		return "Servant"
	case KindCraftEssence:
		return "Craft Essence"
	default:
		return string(k)
	}
}

// ImageFileName is the name of the published thumbnail inside an entry folder.
func (k Kind) ImageFileName() string {
	if k == KindCraftEssence {
		return "ce.png"
	}
	return "support.png"
}

// SourceEnv names the environment variable that carries the catalog URL.
func (k Kind) SourceEnv() string {
	switch k {
	case KindServant:
		return "SERVANT_URL"
	case KindCraftEssence:
		return "CE_URL"
	default:
		return strings.ToUpper(string(k)) + "_URL"
	}
}

// ColorName is the sibling directory name holding color thumbnails.
func (k Kind) ColorName() string {
	return string(k) + "-color"
}
