package schema

import "github.com/propline/estatedesk/internal/domain"

// FieldSpec declares one canonical field: its name, the ordered source
// column aliases that may carry it, and whether values are coerced to
// numbers. The canonical name itself is always the first alias.
type FieldSpec struct {
	Name    string
	Aliases []string
	Numeric bool
}

// alias tables are the single source of truth for column resolution;
// no caller re-derives candidate column lists.
var datasetFields = map[domain.DatasetType][]FieldSpec{
	domain.DatasetProperties: {
		{Name: "unit_id", Aliases: []string{"unit_id", "id", "property_id"}},
		{Name: "unit_type", Aliases: []string{"unit_type", "property_type", "type"}},
		{Name: "listing_type", Aliases: []string{"listing_type", "sale_rent", "transaction_type"}},
		{Name: "area", Aliases: []string{"area", "region", "location", "city"}},
		{Name: "address", Aliases: []string{"address", "main_address", "street_address"}},
		{Name: "price_total", Aliases: []string{"price_total", "price", "total_price", "value"}, Numeric: true},
		{Name: "area_sqm", Aliases: []string{"area_sqm", "area_m2", "size", "square_meters"}, Numeric: true},
		{Name: "rooms", Aliases: []string{"rooms", "bedrooms", "number_of_rooms"}, Numeric: true},
		{Name: "bathrooms", Aliases: []string{"bathrooms", "washrooms", "number_of_bathrooms"}, Numeric: true},
		{Name: "floor_number", Aliases: []string{"floor_number", "floor", "level"}, Numeric: true},
		{Name: "status", Aliases: []string{"status", "unit_status", "availability"}},
	},
	domain.DatasetClients: {
		{Name: "client_id", Aliases: []string{"client_id", "id"}},
		{Name: "name", Aliases: []string{"name", "client_name", "full_name"}},
		{Name: "phone", Aliases: []string{"phone", "phone_number", "mobile"}},
		{Name: "assigned_to", Aliases: []string{"assigned_to", "agent", "sales_agent"}},
		{Name: "status", Aliases: []string{"status", "client_status"}},
		{Name: "source", Aliases: []string{"source", "lead_source"}},
		{Name: "budget", Aliases: []string{"budget", "budget_range", "price_range"}},
		{Name: "value", Aliases: []string{"value", "deal_value"}, Numeric: true},
		{Name: "conversion_stage", Aliases: []string{"conversion_stage", "stage"}},
		{Name: "created_at", Aliases: []string{"created_at", "created"}},
		{Name: "last_contact", Aliases: []string{"last_contact", "last_contacted"}},
	},
	domain.DatasetUsers: {
		{Name: "username", Aliases: []string{"username", "user", "login"}},
		{Name: "password", Aliases: []string{"password", "password_hash"}},
		{Name: "full_name", Aliases: []string{"full_name", "name"}},
		{Name: "role", Aliases: []string{"role", "user_role"}},
		{Name: "email", Aliases: []string{"email", "email_address"}},
		{Name: "department", Aliases: []string{"department", "dept"}},
		{Name: "id", Aliases: []string{"id", "user_id"}, Numeric: true},
	},
	domain.DatasetActivity: {
		{Name: "timestamp", Aliases: []string{"timestamp", "time", "date"}},
		{Name: "username", Aliases: []string{"username", "user"}},
		{Name: "action", Aliases: []string{"action", "event"}},
		{Name: "details", Aliases: []string{"details", "description"}},
	},
	domain.DatasetTransactions: {
		{Name: "trans_id", Aliases: []string{"trans_id", "transaction_id", "id"}},
		{Name: "unit_id", Aliases: []string{"unit_id", "property_id"}},
		{Name: "client_id", Aliases: []string{"client_id"}},
		{Name: "amount", Aliases: []string{"amount", "value", "price"}, Numeric: true},
		{Name: "date", Aliases: []string{"date", "transaction_date"}},
		{Name: "agent", Aliases: []string{"agent", "sales_agent", "assigned_to"}},
	},
}

// FieldsFor returns the canonical field specs for a dataset type, in
// canonical order.
func FieldsFor(dt domain.DatasetType) []FieldSpec {
	return datasetFields[dt]
}

// NumericFieldsFor returns the canonical numeric field names for a
// dataset type.
func NumericFieldsFor(dt domain.DatasetType) []string {
	var names []string
	for _, spec := range datasetFields[dt] {
		if spec.Numeric {
			names = append(names, spec.Name)
		}
	}
	return names
}
