package catalog

import (
	"strings"

	"github.com/quickshop/backend/internal/domain/shared"
	"github.com/quickshop/backend/internal/domain/shared/valueobject"
)

// Product is a storefront catalog item. Carts copy its fields at add time;
// an order never points back at a product row.
type Product struct {
	shared.BaseAggregateRoot
	Name        string            `gorm:"type:varchar(200);not null"`
	Description string            `gorm:"type:text"`
	Price       valueobject.Money `gorm:"type:decimal(12,2);not null"`
	ImageURL    string            `gorm:"type:varchar(500)"`
	Category    string            `gorm:"type:varchar(100);not null;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price valueobject.Money, imageURL, category string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateCategory(category); err != nil {
		return nil, err
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price,
		ImageURL:          imageURL,
		Category:          strings.ToLower(strings.TrimSpace(category)),
	}

	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the product's catalog fields
func (p *Product) Update(name, description string, price valueobject.Money, imageURL, category string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.ImageURL = imageURL
	p.Category = strings.ToLower(strings.TrimSpace(category))
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// Snapshot returns the fields a cart copies when this product is added
func (p *Product) Snapshot() (name string, price valueobject.Money, imageURL, category string) {
	return p.Name, p.Price, p.ImageURL, p.Category
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRODUCT_PRICE", "Product price cannot be negative")
	}
	return nil
}

func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "Product category cannot be empty")
	}
	return nil
}
