// Package memstore is an in-process implementation of every gateway, used
// when no MongoDB URI is configured and by tests.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	memdb "github.com/hashicorp/go-memdb"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"agrilink/internal/auth"
	"agrilink/internal/catalog"
	"agrilink/internal/models"
	"agrilink/internal/orders"
)

var ErrDuplicateOrderNumber = errors.New("order number already exists")

type Store struct {
	db *memdb.MemDB
}

func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewDemo returns a store seeded with the demo catalog.
func NewDemo() (*Store, error) {
	s, err := New()
	if err != nil {
		return nil, err
	}
	products, categories := DemoCatalog()
	if err := s.Seed(products, categories); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Seed(products []models.Product, categories []models.Category) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		if err := txn.Insert(tableProducts, &productRecord{ID: p.ID.Hex(), Category: p.CategoryID, Product: cloneProduct(p)}); err != nil {
			return err
		}
	}
	for _, c := range categories {
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		if err := txn.Insert(tableCategories, &categoryRecord{ID: c.ID.Hex(), Category: c}); err != nil {
			return err
		}
	}
	txn.Commit()
	return nil
}

// cart lines

func cartKey(owner, lineID string) string {
	return owner + "\x1f" + lineID
}

func (s *Store) LoadLines(_ context.Context, owner string) ([]models.CartLine, error) {
	txn := s.db.Txn(false)
	it, err := txn.Get(tableCartLines, "owner", owner)
	if err != nil {
		return nil, err
	}
	var lines []models.CartLine
	for obj := it.Next(); obj != nil; obj = it.Next() {
		lines = append(lines, cloneLine(obj.(*cartRecord).Line))
	}
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].AddedAt.Before(lines[j].AddedAt) })
	return lines, nil
}

func (s *Store) SaveLine(_ context.Context, owner string, line models.CartLine) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableCartLines, &cartRecord{Key: cartKey(owner, line.ID), Owner: owner, Line: cloneLine(line)}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *Store) DeleteLine(_ context.Context, owner, lineID string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	existing, err := txn.First(tableCartLines, "id", cartKey(owner, lineID))
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if err := txn.Delete(tableCartLines, existing); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *Store) ClearLines(_ context.Context, owner string) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(tableCartLines, "owner", owner); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// orders

func newOrderRecord(o models.Order) *orderRecord {
	return &orderRecord{
		ID:     o.ID.Hex(),
		Owner:  o.OwnerID,
		Status: string(o.Status),
		Number: o.OrderNumber,
		Order:  cloneOrder(o),
	}
}

func (s *Store) CreateOrder(_ context.Context, order *models.Order) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	dup, err := txn.First(tableOrders, "number", order.OrderNumber)
	if err != nil {
		return err
	}
	if dup != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateOrderNumber, order.OrderNumber)
	}

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if err := txn.Insert(tableOrders, newOrderRecord(*order)); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *Store) findOrder(txn *memdb.Txn, id primitive.ObjectID) (*orderRecord, error) {
	obj, err := txn.First(tableOrders, "id", id.Hex())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, orders.ErrOrderNotFound
	}
	return obj.(*orderRecord), nil
}

func (s *Store) GetOrder(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	rec, err := s.findOrder(s.db.Txn(false), id)
	if err != nil {
		return models.Order{}, err
	}
	return cloneOrder(rec.Order), nil
}

func (s *Store) ListOrders(_ context.Context, f orders.Filter) ([]models.Order, error) {
	txn := s.db.Txn(false)

	var (
		it  memdb.ResultIterator
		err error
	)
	switch {
	case f.OwnerID != "":
		it, err = txn.Get(tableOrders, "owner", f.OwnerID)
	case f.Status != "":
		it, err = txn.Get(tableOrders, "status", string(f.Status))
	default:
		it, err = txn.Get(tableOrders, "id")
	}
	if err != nil {
		return nil, err
	}

	list := make([]models.Order, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		rec := obj.(*orderRecord)
		if f.Status != "" && rec.Status != string(f.Status) {
			continue
		}
		if f.OwnerID != "" && rec.Owner != f.OwnerID {
			continue
		}
		list = append(list, cloneOrder(rec.Order))
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if f.Limit > 0 && int64(len(list)) > f.Limit {
		list = list[:f.Limit]
	}
	return list, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, from models.OrderStatus, change models.StatusChange) (models.Order, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	rec, err := s.findOrder(txn, id)
	if err != nil {
		return models.Order{}, err
	}
	if rec.Order.Status != from {
		return models.Order{}, orders.ErrStatusChanged
	}

	updated := cloneOrder(rec.Order)
	updated.Status = change.Status
	updated.UpdatedAt = change.Timestamp
	updated.StatusHistory = append(updated.StatusHistory, change)
	if err := txn.Insert(tableOrders, newOrderRecord(updated)); err != nil {
		return models.Order{}, err
	}
	txn.Commit()
	return cloneOrder(updated), nil
}

func (s *Store) UpdateOrderDetails(_ context.Context, id primitive.ObjectID, details orders.Details, updatedAt time.Time) (models.Order, error) {
	txn := s.db.Txn(true)
	defer txn.Abort()

	rec, err := s.findOrder(txn, id)
	if err != nil {
		return models.Order{}, err
	}

	updated := cloneOrder(rec.Order)
	if details.TrackingNumber != nil {
		updated.TrackingNumber = *details.TrackingNumber
	}
	if details.Notes != nil {
		updated.Notes = *details.Notes
	}
	updated.UpdatedAt = updatedAt
	if err := txn.Insert(tableOrders, newOrderRecord(updated)); err != nil {
		return models.Order{}, err
	}
	txn.Commit()
	return cloneOrder(updated), nil
}

func (s *Store) DeleteOrder(_ context.Context, id primitive.ObjectID) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	rec, err := s.findOrder(txn, id)
	if err != nil {
		return err
	}
	if err := txn.Delete(tableOrders, rec); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// catalog

func (s *Store) GetProduct(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	obj, err := s.db.Txn(false).First(tableProducts, "id", id.Hex())
	if err != nil {
		return models.Product{}, err
	}
	if obj == nil || !obj.(*productRecord).Product.IsActive {
		return models.Product{}, catalog.ErrProductNotFound
	}
	return cloneProduct(obj.(*productRecord).Product), nil
}

func (s *Store) ListProducts(_ context.Context, q catalog.Query) ([]models.Product, int64, error) {
	txn := s.db.Txn(false)

	var (
		it  memdb.ResultIterator
		err error
	)
	if category := strings.TrimSpace(q.CategoryID); category != "" {
		it, err = txn.Get(tableProducts, "category", category)
	} else {
		it, err = txn.Get(tableProducts, "id")
	}
	if err != nil {
		return nil, 0, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	var matched []models.Product
	for obj := it.Next(); obj != nil; obj = it.Next() {
		p := obj.(*productRecord).Product
		if !p.IsActive {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := int64(len(matched))
	start := q.Skip()
	if start >= total {
		return []models.Product{}, total, nil
	}
	end := total
	if q.Limit > 0 && start+q.Limit < total {
		end = start + q.Limit
	}
	return matched[start:end], total, nil
}

func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	it, err := s.db.Txn(false).Get(tableCategories, "id")
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if c := obj.(*categoryRecord).Category; c.IsActive {
			categories = append(categories, c)
		}
	}
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// address books

func (s *Store) ListAddresses(_ context.Context, userID string) ([]models.Address, error) {
	obj, err := s.db.Txn(false).First(tableUsers, "id", userID)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return []models.Address{}, nil
	}
	return append([]models.Address(nil), obj.(*userRecord).Addresses...), nil
}

func (s *Store) SaveAddresses(_ context.Context, userID string, addresses []models.Address) error {
	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(tableUsers, &userRecord{ID: userID, Addresses: append([]models.Address(nil), addresses...)}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// admins

func (s *Store) FindAdminByEmail(_ context.Context, email string) (models.Admin, error) {
	obj, err := s.db.Txn(false).First(tableAdmins, "id", auth.NormalizeEmail(email))
	if err != nil {
		return models.Admin{}, err
	}
	if obj == nil {
		return models.Admin{}, auth.ErrAdminNotFound
	}
	return obj.(*adminRecord).Admin, nil
}

// EnsureAdmin creates the admin account if it does not exist yet.
func (s *Store) EnsureAdmin(_ context.Context, email, password string) error {
	email = auth.NormalizeEmail(email)
	txn := s.db.Txn(true)
	defer txn.Abort()

	existing, err := txn.First(tableAdmins, "id", email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := models.Admin{ID: primitive.NewObjectID(), Email: email, PasswordHash: hash}
	if err := txn.Insert(tableAdmins, &adminRecord{Email: email, Admin: admin}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
