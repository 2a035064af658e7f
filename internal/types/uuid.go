package types

import (
	"fmt"

	"github.com/oklog/ulid/v2"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex promo_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_PROMO_CODE     = "promo"
	UUID_PREFIX_PROMO_USAGE    = "pusage"
	UUID_PREFIX_PRICING_CONFIG = "pcfg"
	UUID_PREFIX_QUOTE          = "quote"
	UUID_PREFIX_REQUEST        = "req"
)
