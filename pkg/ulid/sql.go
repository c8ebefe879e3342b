package ulid

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// Scan implements sql.Scanner. It accepts the 26 character text form or the 16 raw bytes.
func (id *ID) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*id = Zero
		return nil
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == len(*id) {
			return id.UnmarshalBinary(v)
		}
		return id.UnmarshalText(v)
	default:
		return fmt.Errorf("ulid: cannot scan %T", src)
	}
}

// Value implements driver.Valuer. IDs are stored in their text form.
func (id ID) Value() (driver.Value, error) { return id.String(), nil }

// UUID returns the 16 bytes of id as an RFC 4122 UUID. Version and variant
// bits are not set, so the bytes convert back unchanged with FromUUID.
func (id ID) UUID() uuid.UUID { return uuid.UUID(id) }

// FromUUID reinterprets the bytes of u as an ID.
func FromUUID(u uuid.UUID) ID { return ID(u) }
