package types

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_LEASE           = "lease"
	UUID_PREFIX_LEASE_SIGNATURE = "sign"
	UUID_PREFIX_INVOICE         = "inv"
	UUID_PREFIX_PAYMENT         = "pay"
	UUID_PREFIX_DISPUTE         = "disp"
	UUID_PREFIX_APPLICATION     = "appl"
	UUID_PREFIX_USER            = "user"
	UUID_PREFIX_REQUEST         = "req"
)

// GenerateUUID returns a lowercase ULID.
func GenerateUUID() string {
	return strings.ToLower(ulid.Make().String())
}

// GenerateUUIDWithPrefix returns a prefixed lowercase ULID, e.g. "lease_01h...".
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
