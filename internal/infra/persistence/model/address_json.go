package model

import (
	"database/sql/driver"
	"encoding/json"

	"guardpost/internal/domain/entity"

	"github.com/pkg/errors"
)

// AddressJSON stores a structured address in a single jsonb column.
type AddressJSON entity.Address

// Value implements driver.Valuer.
func (a *AddressJSON) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}

	data, err := json.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "marshal address")
	}

	return data, nil
}

// Scan implements sql.Scanner.
func (a *AddressJSON) Scan(src any) error {
	if src == nil {
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported address column type %T", src)
	}

	return errors.Wrap(json.Unmarshal(data, a), "unmarshal address")
}

// ToEntity converts the column value back to the domain type.
func (a *AddressJSON) ToEntity() *entity.Address {
	if a == nil {
		return nil
	}

	address := entity.Address(*a)

	return &address
}

// NewAddressJSON converts a domain address to its column value.
func NewAddressJSON(address *entity.Address) *AddressJSON {
	if address == nil {
		return nil
	}

	converted := AddressJSON(*address)

	return &converted
}
