package devserver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockroom/admin-cli/internal/cloud/dashboard"
	"github.com/stockroom/admin-cli/internal/session"
)

// set of store errors
var (
	errInvalidCredentials = fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
	errProductNotFound    = fiber.NewError(fiber.StatusNotFound, "Product not found")
	errDuplicateSKU       = fiber.NewError(fiber.StatusConflict, "A product with this SKU already exists")
	errInsufficientStock  = fiber.NewError(fiber.StatusBadRequest, "Insufficient stock")
)

type storedUser struct {
	session.User
	passwordHash []byte
}

// Store is the in-memory state of the dev server
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	users      map[string]storedUser
	usernames  map[string]string
	products   map[string]dashboard.Product
	productIDs []string
	txns       []dashboard.Transaction
}

// NewStore creates a store holding the seeded content
func NewStore(seed *Seed, bcryptCost int, now func() time.Time) (*Store, error) {
	createdAt := now().UTC()

	roles := make(map[string]session.Role, len(seed.Roles))
	for _, role := range seed.Roles {
		roles[role.Name] = session.Role{
			ID:          role.ID,
			Name:        role.Name,
			Description: role.Description,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}
	}

	s := Store{
		now:       now,
		users:     make(map[string]storedUser, len(seed.Users)),
		usernames: make(map[string]string, len(seed.Users)),
		products:  make(map[string]dashboard.Product, len(seed.Products)),
	}

	for _, u := range seed.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", u.Username, err)
		}

		id := u.ID
		if id == "" {
			id = uuid.NewString()
		}
		s.users[id] = storedUser{
			User: session.User{
				ID:       id,
				Username: u.Username,
				Name:     u.Name,
				Avatar:   u.Avatar,
				Role:     roles[u.Role],
			},
			passwordHash: hash,
		}
		s.usernames[u.Username] = id
	}

	for _, p := range seed.Products {
		id := p.ID
		if id == "" {
			id = uuid.NewString()
		}
		s.products[id] = dashboard.Product{
			ID:        id,
			Name:      p.Name,
			SKU:       p.SKU,
			Price:     p.Price,
			Quantity:  p.Quantity,
			ImageURL:  p.ImageURL,
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		}
		s.productIDs = append(s.productIDs, id)
	}

	return &s, nil
}

// Authenticate returns the user matching the credentials
func (s *Store) Authenticate(username, password string) (session.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[s.usernames[username]]
	if !ok {
		return session.User{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return session.User{}, errInvalidCredentials
	}
	return u.User, nil
}

// User returns the user with the provided id
func (s *Store) User(id string) (session.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	return u.User, ok
}

// Products returns a page of the products whose name or sku contains the search term
func (s *Store) Products(search string, page, limit int) dashboard.ProductPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search = strings.ToLower(search)

	var matches []dashboard.Product
	for _, id := range s.productIDs {
		p := s.products[id]
		if search == "" ||
			strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.SKU), search) {
			matches = append(matches, p)
		}
	}

	start, end := pageBounds(len(matches), page, limit)
	return dashboard.ProductPage{
		Items: append([]dashboard.Product{}, matches[start:end]...),
		Total: len(matches),
		Page:  page,
		Limit: limit,
	}
}

// Product returns the product with the provided id
func (s *Store) Product(id string) (dashboard.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return dashboard.Product{}, errProductNotFound
	}
	return p, nil
}

// CreateProduct adds a product to the catalog
func (s *Store) CreateProduct(input dashboard.ProductInput) (dashboard.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.skuTaken(input.SKU, "") {
		return dashboard.Product{}, errDuplicateSKU
	}

	now := s.now().UTC()
	p := dashboard.Product{
		ID:        uuid.NewString(),
		Name:      input.Name,
		SKU:       input.SKU,
		Price:     input.Price,
		Quantity:  input.Quantity,
		ImageURL:  input.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.products[p.ID] = p
	s.productIDs = append(s.productIDs, p.ID)
	return p, nil
}

// UpdateProduct applies the set fields of the patch to a product
func (s *Store) UpdateProduct(id string, patch dashboard.ProductPatch) (dashboard.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return dashboard.Product{}, errProductNotFound
	}

	if patch.SKU != nil && s.skuTaken(*patch.SKU, id) {
		return dashboard.Product{}, errDuplicateSKU
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Quantity != nil {
		p.Quantity = *patch.Quantity
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	p.UpdatedAt = s.now().UTC()

	s.products[id] = p
	return p, nil
}

// DeleteProduct removes a product from the catalog
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return errProductNotFound
	}
	delete(s.products, id)

	for i, productID := range s.productIDs {
		if productID == id {
			s.productIDs = append(s.productIDs[:i], s.productIDs[i+1:]...)
			break
		}
	}
	return nil
}

// Transactions returns a page of the recorded transactions, newest first
func (s *Store) Transactions(productID string, txnType dashboard.TransactionType, page, limit int) dashboard.TransactionPage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []dashboard.Transaction
	for i := len(s.txns) - 1; i >= 0; i-- {
		txn := s.txns[i]
		if productID != "" && txn.ProductID != productID {
			continue
		}
		if txnType != "" && txn.Type != txnType {
			continue
		}
		matches = append(matches, txn)
	}

	start, end := pageBounds(len(matches), page, limit)
	return dashboard.TransactionPage{
		Items: append([]dashboard.Transaction{}, matches[start:end]...),
		Total: len(matches),
		Page:  page,
		Limit: limit,
	}
}

// CreateTransaction records a stock movement and applies it to the product
func (s *Store) CreateTransaction(createdBy string, input dashboard.TransactionInput) (dashboard.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[input.ProductID]
	if !ok {
		return dashboard.Transaction{}, errProductNotFound
	}

	switch input.Type {
	case dashboard.TransactionTypeIn:
		p.Quantity += input.Quantity
	case dashboard.TransactionTypeOut:
		if input.Quantity > p.Quantity {
			return dashboard.Transaction{}, errInsufficientStock
		}
		p.Quantity -= input.Quantity
	}

	now := s.now().UTC()
	p.UpdatedAt = now
	s.products[p.ID] = p

	txn := dashboard.Transaction{
		ID:        uuid.NewString(),
		ProductID: input.ProductID,
		Type:      input.Type,
		Quantity:  input.Quantity,
		Note:      input.Note,
		CreatedBy: createdBy,
		CreatedAt: now,
	}
	s.txns = append(s.txns, txn)
	return txn, nil
}

// Stats summarizes the inventory
func (s *Store) Stats(lowStockThreshold int) dashboard.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats dashboard.DashboardStats
	for _, p := range s.products {
		stats.TotalProducts++
		stats.TotalStock += p.Quantity
		if p.Quantity < lowStockThreshold {
			stats.LowStock++
		}
	}

	y, m, d := s.now().UTC().Date()
	for _, txn := range s.txns {
		ty, tm, td := txn.CreatedAt.Date()
		if ty == y && tm == m && td == d {
			stats.TransactionsToday++
		}
	}
	return stats
}

// Usernames returns the seeded usernames in order
func (s *Store) Usernames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	usernames := make([]string, 0, len(s.usernames))
	for username := range s.usernames {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return usernames
}

func (s *Store) skuTaken(sku, exceptID string) bool {
	for id, p := range s.products {
		if id != exceptID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

func pageBounds(total, page, limit int) (int, int) {
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return start, end
}
