package memstore

import (
	memdb "github.com/hashicorp/go-memdb"

	"agrilink/internal/models"
)

const (
	tableCartLines  = "cart_lines"
	tableOrders     = "orders"
	tableProducts   = "products"
	tableCategories = "categories"
	tableUsers      = "users"
	tableAdmins     = "admins"
)

// Records are never modified after insertion; updates insert a new record.

type cartRecord struct {
	Key   string
	Owner string
	Line  models.CartLine
}

type orderRecord struct {
	ID     string
	Owner  string
	Status string
	Number string
	Order  models.Order
}

type productRecord struct {
	ID       string
	Category string
	Product  models.Product
}

type categoryRecord struct {
	ID       string
	Category models.Category
}

type userRecord struct {
	ID        string
	Addresses []models.Address
}

type adminRecord struct {
	Email string
	Admin models.Admin
}

func idIndex(field string) *memdb.IndexSchema {
	return &memdb.IndexSchema{Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: field}}
}

func fieldIndex(name, field string, unique bool) *memdb.IndexSchema {
	return &memdb.IndexSchema{Name: name, Unique: unique, AllowMissing: !unique, Indexer: &memdb.StringFieldIndex{Field: field}}
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableCartLines: {
				Name: tableCartLines,
				Indexes: map[string]*memdb.IndexSchema{
					"id":    idIndex("Key"),
					"owner": fieldIndex("owner", "Owner", false),
				},
			},
			tableOrders: {
				Name: tableOrders,
				Indexes: map[string]*memdb.IndexSchema{
					"id":     idIndex("ID"),
					"number": fieldIndex("number", "Number", true),
					"owner":  fieldIndex("owner", "Owner", false),
					"status": fieldIndex("status", "Status", false),
				},
			},
			tableProducts: {
				Name: tableProducts,
				Indexes: map[string]*memdb.IndexSchema{
					"id":       idIndex("ID"),
					"category": fieldIndex("category", "Category", false),
				},
			},
			tableCategories: {
				Name:    tableCategories,
				Indexes: map[string]*memdb.IndexSchema{"id": idIndex("ID")},
			},
			tableUsers: {
				Name:    tableUsers,
				Indexes: map[string]*memdb.IndexSchema{"id": idIndex("ID")},
			},
			tableAdmins: {
				Name:    tableAdmins,
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Email", Lowercase: true}},
				},
			},
		},
	}
}
