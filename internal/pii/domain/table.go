package domain

import (
	"fmt"
	"slices"
)

// Table names.
const (
	TableCustomers               = "customers"
	TableRecruitment             = "recruitment"
	TableUserDates               = "user_dates"
	TableCustomerRecommendations = "customer_recommendations"
	TableContacts                = "contacts"
)

// Table describes a table holding sensitive fields.
type Table struct {
	Name   string
	Fields []FieldSpec

	// LegacyColumns maps a field to the plaintext column it is backfilled from.
	LegacyColumns map[FieldName]string
}

// Field returns the FieldSpec of a field of the table.
func (t *Table) Field(name FieldName) (FieldSpec, error) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return FieldSpec{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, t.Name, name)
}

// UniqueFields returns the fields whose hash must be unique within the table.
func (t *Table) UniqueFields() []FieldSpec {
	var out []FieldSpec
	for _, f := range t.Fields {
		if f.Unique {
			out = append(out, f)
		}
	}
	return out
}

// HasField reports whether the table stores the field.
func (t *Table) HasField(name FieldName) bool {
	_, err := t.Field(name)
	return err == nil
}

var (
	email   = FieldSpec{Name: FieldEmail, Kind: KindEmail, Indexed: true}
	phone   = FieldSpec{Name: FieldPhone, Kind: KindPhone, Indexed: true}
	address = FieldSpec{Name: FieldAddress, Kind: KindText}
	city    = FieldSpec{Name: FieldCity, Kind: KindText}
)

func unique(f FieldSpec) FieldSpec {
	f.Unique = true
	return f
}

// registry lists every table with sensitive fields, in rotation order.
var registry = []*Table{
	{Name: TableCustomers, Fields: []FieldSpec{unique(email), unique(phone), address}},
	{Name: TableRecruitment, Fields: []FieldSpec{unique(email), unique(phone)}},
	{Name: TableUserDates, Fields: []FieldSpec{phone}},
	{Name: TableCustomerRecommendations, Fields: []FieldSpec{unique(phone), city}},
	{
		Name:   TableContacts,
		Fields: []FieldSpec{email, phone},
		LegacyColumns: map[FieldName]string{
			FieldEmail: "email",
			FieldPhone: "phone_number",
		},
	},
}

// Tables returns every registered table.
func Tables() []*Table {
	return slices.Clone(registry)
}

// LookupTable returns a registered table by name.
func LookupTable(name string) (*Table, error) {
	for _, t := range registry {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
}

// TablesWithField returns the tables that store an indexed field.
func TablesWithField(name FieldName) []*Table {
	var out []*Table
	for _, t := range registry {
		if f, err := t.Field(name); err == nil && f.Indexed {
			out = append(out, t)
		}
	}
	return out
}

// AAD binds a ciphertext to its column and key version so it cannot be moved to
// another column or relabelled with another version.
func AAD(table string, field FieldName, keyVersion uint) []byte {
	return fmt.Appendf(nil, "%s.%s|v%d", table, field, keyVersion)
}
