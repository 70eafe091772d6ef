package domain

import "fmt"

// DatasetType identifies one of the five logical sheet-backed datasets.
type DatasetType string

const (
	DatasetProperties   DatasetType = "properties"
	DatasetClients      DatasetType = "clients"
	DatasetUsers        DatasetType = "users"
	DatasetActivity     DatasetType = "activity"
	DatasetTransactions DatasetType = "transactions"
)

// AllDatasetTypes lists every dataset type in display order.
func AllDatasetTypes() []DatasetType {
	return []DatasetType{
		DatasetProperties,
		DatasetClients,
		DatasetUsers,
		DatasetActivity,
		DatasetTransactions,
	}
}

// ParseDatasetType validates a raw dataset type string.
func ParseDatasetType(raw string) (DatasetType, error) {
	dt := DatasetType(raw)
	switch dt {
	case DatasetProperties, DatasetClients, DatasetUsers, DatasetActivity, DatasetTransactions:
		return dt, nil
	}
	return "", fmt.Errorf("unknown dataset type %q", raw)
}

// TableSnapshot is a point-in-time tabular read from a remote sheet,
// prior to normalization. Every row carries exactly the columns listed
// in Columns.
type TableSnapshot struct {
	Columns []string
	Rows    []map[string]string
}
