package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tienda/internal/models"
)

// Store owns product and category records. It is the sole mutator of
// stock counts.
type Store struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewStore(db *gorm.DB, logger *logrus.Logger) *Store {
	return &Store{db: db, log: logger}
}

// ProductInput carries the fields a seller submits for a listing.
type ProductInput struct {
	Title       string
	Description string
	PriceCents  int
	Stock       int
	CategoryID  uint
	ImagePath   string
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "cannot be empty"}
	}
	if in.PriceCents < 0 {
		return &ValidationError{Field: "price", Reason: "cannot be negative"}
	}
	if in.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "cannot be negative"}
	}
	return nil
}

// ---------- categories ----------

func (s *Store) CreateCategory(name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	cat := models.Category{Name: name}
	if err := s.db.Create(&cat).Error; err != nil {
		s.log.Errorf("catalog: create category %q: %v", name, err)
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.log.Infof("catalog: category %q created with id %d", cat.Name, cat.ID)
	return &cat, nil
}

func (s *Store) ListCategories() ([]models.Category, error) {
	var cats []models.Category
	if err := s.db.Order("id").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *Store) GetCategory(id uint) (*models.Category, error) {
	var cat models.Category
	if err := s.db.First(&cat, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "category", ID: strconv.FormatUint(uint64(id), 10)}
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &cat, nil
}

// ---------- products ----------

// CreateProduct validates the input and stores a new listing. A seller
// becomes the owner of what they create; admin-created products are
// unowned.
func (s *Store) CreateProduct(in ProductInput, actor *models.User) (*models.Product, error) {
	if !actor.CanSell() {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.CategoryID != 0 {
		if _, err := s.GetCategory(in.CategoryID); err != nil {
			return nil, err
		}
	}

	p := models.Product{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		ImagePath:   in.ImagePath,
	}
	if actor.Role == models.RoleSeller {
		p.SellerID = actor.ID
	}
	if err := s.db.Create(&p).Error; err != nil {
		s.log.Errorf("catalog: create product %q: %v", p.Title, err)
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Infof("catalog: product %q created with id %d", p.Title, p.ID)
	return &p, nil
}

func (s *Store) GetProduct(id uint) (*models.Product, error) {
	var p models.Product
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "product", ID: strconv.FormatUint(uint64(id), 10)}
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

func (s *Store) ListProducts() ([]models.Product, error) {
	var items []models.Product
	if err := s.db.Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

func (s *Store) ListBySeller(sellerID uint) ([]models.Product, error) {
	var items []models.Product
	if err := s.db.Where("seller_id = ?", sellerID).Order("id desc").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	return items, nil
}

// UpdateProduct replaces the mutable fields of a listing. Only the
// owning seller or an admin may update it. An empty ImagePath keeps the
// stored image.
func (s *Store) UpdateProduct(id uint, in ProductInput, actor *models.User) (*models.Product, error) {
	p, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(p) {
		return nil, ErrForbidden
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.CategoryID != 0 && in.CategoryID != p.CategoryID {
		if _, err := s.GetCategory(in.CategoryID); err != nil {
			return nil, err
		}
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Description = strings.TrimSpace(in.Description)
	p.PriceCents = in.PriceCents
	p.Stock = in.Stock
	p.CategoryID = in.CategoryID
	if in.ImagePath != "" {
		p.ImagePath = in.ImagePath
	}
	if err := s.db.Save(p).Error; err != nil {
		s.log.Errorf("catalog: update product %d: %v", id, err)
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *Store) DeleteProduct(id uint, actor *models.User) error {
	p, err := s.GetProduct(id)
	if err != nil {
		return err
	}
	if !actor.Owns(p) {
		return ErrForbidden
	}
	if err := s.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		s.log.Errorf("catalog: delete product %d: %v", id, err)
		return fmt.Errorf("delete product: %w", err)
	}
	s.log.Infof("catalog: product %d deleted by user %d", id, actor.ID)
	return nil
}

// DecrementStock reduces a product's stock by qty as a single
// conditional update, so two concurrent checkouts can never drive the
// count negative. Returns the product as it looks after the decrement.
func (s *Store) DecrementStock(id uint, qty int) (*models.Product, error) {
	if qty <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	res := s.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return nil, fmt.Errorf("decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the product is gone or the guard rejected the amount.
		p, err := s.GetProduct(id)
		if err != nil {
			return nil, err
		}
		return nil, &InsufficientStockError{ID: p.ID, Title: p.Title, Requested: qty, Available: p.Stock}
	}
	return s.GetProduct(id)
}

// RestoreStock undoes a decrement applied earlier in a checkout that
// could not complete.
func (s *Store) RestoreStock(id uint, qty int) error {
	if qty <= 0 {
		return nil
	}
	res := s.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("restore stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		s.log.Warnf("catalog: restore stock for missing product %d", id)
		return &NotFoundError{Entity: "product", ID: strconv.FormatUint(uint64(id), 10)}
	}
	return nil
}

// RemoveIfOutOfStock deletes the product only if its stock is exactly
// zero. Used by the destructive zero-stock policy after a successful
// checkout. Reports whether a row was removed.
func (s *Store) RemoveIfOutOfStock(id uint) (bool, error) {
	res := s.db.Where("id = ? AND stock = 0", id).Delete(&models.Product{})
	if res.Error != nil {
		return false, fmt.Errorf("remove out-of-stock product: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Infof("catalog: product %d sold out and removed", id)
	}
	return res.RowsAffected > 0, nil
}
