package domain

import (
	"github.com/shopspring/decimal"
)

// Canonical spreadsheet column names.
const (
	ColumnUnit             = "Unidade"
	ColumnClient           = "Cliente"
	ColumnSalesperson      = "Vendedor"
	ColumnPurchaseValue    = "Valor_Compra"
	ColumnMonthlyValue     = "Valor_Mensal"
	ColumnSubscriptionPlan = "Valor_Plano de assinatura"
	ColumnMonth            = "Mês"
	ColumnTemperature      = "Temperatura"
)

// RequiredColumns lists the columns every uploaded table must carry, in
// the order they are reported back to the user.
var RequiredColumns = []string{
	ColumnUnit,
	ColumnClient,
	ColumnSalesperson,
	ColumnPurchaseValue,
	ColumnMonthlyValue,
	ColumnSubscriptionPlan,
}

// OptionalColumns feed the per-salesperson line chart only.
var OptionalColumns = []string{
	ColumnMonth,
	ColumnTemperature,
}

// Record is one row of the sales table.
type Record struct {
	Row                   int                 `json:"row"`
	Unit                  string              `json:"unit"`
	Client                string              `json:"client"`
	Salesperson           string              `json:"salesperson"`
	PurchaseValue         decimal.Decimal     `json:"purchase_value"`
	MonthlyValue          decimal.Decimal     `json:"monthly_value"`
	SubscriptionPlanValue decimal.Decimal     `json:"subscription_plan_value"`
	Month                 string              `json:"month,omitempty"`
	Temperature           decimal.NullDecimal `json:"temperature"`
}

// Table is an ordered, read-only sequence of records sharing one header.
type Table struct {
	columns        []string
	records        []Record
	hasMonth       bool
	hasTemperature bool
}

// NewTable builds a Table from a header and its records. Both slices are
// copied so later changes by the caller do not leak in.
func NewTable(columns []string, records []Record) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		records: append([]Record(nil), records...),
	}
	for _, c := range t.columns {
		switch c {
		case ColumnMonth:
			t.hasMonth = true
		case ColumnTemperature:
			t.hasTemperature = true
		}
	}
	return t
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Records returns a copy of the rows in original order.
func (t *Table) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.records)
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.columns {
		if c == name {
			return true
		}
	}
	return false
}

// HasMonth reports whether the optional month column was present.
func (t *Table) HasMonth() bool { return t.hasMonth }

// HasTemperature reports whether the optional temperature column was present.
func (t *Table) HasTemperature() bool { return t.hasTemperature }
