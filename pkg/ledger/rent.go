package ledger

// Rent models the external minimum-balance rule: an account persists
// durably only while its lamports cover the exemption minimum for its
// data size. The parameters mirror the hosting ledger's defaults.
const (
	lamportsPerByteYear    = 3480
	rentExemptionYears     = 2
	accountStorageOverhead = 128
)

// RentExemptMinimum returns the balance an account of the given data
// length must hold to be exempt from rent collection.
func RentExemptMinimum(dataLen int) uint64 {
	return (uint64(dataLen) + accountStorageOverhead) * lamportsPerByteYear * rentExemptionYears
}

// IsRentExempt reports whether the balance covers the exemption minimum
// for the data length.
func IsRentExempt(lamports uint64, dataLen int) bool {
	return lamports >= RentExemptMinimum(dataLen)
}
