package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupTable(t *testing.T) {
	table, err := LookupTable(TableCustomers)
	require.NoError(t, err)

	f, err := table.Field(FieldPhone)
	require.NoError(t, err)
	assert.True(t, f.Indexed)
	assert.True(t, f.Unique)
	assert.Equal(t, Columns{
		Enc:        "phone_number_enc",
		Nonce:      "phone_number_nonce",
		Hash:       "phone_number_hash",
		KeyVersion: "phone_number_key_version",
	}, f.Columns())

	f, err = table.Field(FieldAddress)
	require.NoError(t, err)
	assert.False(t, f.Indexed)
	assert.Empty(t, f.Columns().Hash)

	_, err = table.Field(FieldCity)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = LookupTable("agents")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestTable_UniqueFields(t *testing.T) {
	customers, _ := LookupTable(TableCustomers)
	assert.Len(t, customers.UniqueFields(), 2)

	userDates, _ := LookupTable(TableUserDates)
	assert.Empty(t, userDates.UniqueFields())
}

func TestTablesWithField(t *testing.T) {
	var names []string
	for _, table := range TablesWithField(FieldPhone) {
		names = append(names, table.Name)
	}
	assert.Equal(t, []string{
		TableCustomers, TableRecruitment, TableUserDates, TableCustomerRecommendations, TableContacts,
	}, names)

	assert.Empty(t, TablesWithField(FieldCity))
}

func TestTables_ReturnsCopy(t *testing.T) {
	tables := Tables()
	tables[0] = nil
	assert.NotNil(t, Tables()[0])
}

func TestAAD(t *testing.T) {
	assert.Equal(t, []byte("customers.email|v3"), AAD(TableCustomers, FieldEmail, 3))
	assert.NotEqual(t, AAD(TableCustomers, FieldEmail, 3), AAD(TableCustomers, FieldEmail, 4))
	assert.NotEqual(t, AAD(TableCustomers, FieldEmail, 3), AAD(TableRecruitment, FieldEmail, 3))
}

func TestFieldRecord_IsNull(t *testing.T) {
	var nilRecord *FieldRecord
	assert.True(t, nilRecord.IsNull())
	assert.True(t, NullRecord(FieldEmail).IsNull())
	assert.False(t, (&FieldRecord{Encrypted: EncryptedField{Ciphertext: []byte{1}}}).IsNull())
}

func TestRow_StaleFields(t *testing.T) {
	row := &Row{Fields: map[FieldName]*FieldRecord{
		FieldEmail:   {Field: FieldEmail, Encrypted: EncryptedField{Ciphertext: []byte{1}, KeyVersion: 1}},
		FieldPhone:   {Field: FieldPhone, Encrypted: EncryptedField{Ciphertext: []byte{1}, KeyVersion: 2}},
		FieldAddress: NullRecord(FieldAddress),
	}}

	assert.Equal(t, []FieldName{FieldEmail}, row.StaleFields(2))
	assert.Equal(t, []FieldName{FieldPhone}, row.StaleFields(1))
	assert.Empty(t, (&Row{}).StaleFields(1))
	assert.Equal(t, "backfill:contacts.email", BackfillJob(TableContacts, FieldEmail))
}
