package model

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidDiscount = fmt.Errorf("%w: discount percentage must be between 0 and 100", ErrInvalidArgument)
)

// Product is a sellable item. Name and price are fixed at construction;
// stock only changes through ReduceStock.
//
// A Product is not safe for concurrent use.
type Product struct {
	name  string
	price float64
	stock int
}

// NewProduct stores all three values verbatim. Nothing is validated:
// an empty name, a negative price or a negative stock are all accepted.
func NewProduct(name string, price float64, stock int) *Product {
	return &Product{
		name:  name,
		price: price,
		stock: stock,
	}
}

func (p *Product) Name() string { return p.name }
func (p *Product) Price() float64 { return p.price }
func (p *Product) Stock() int { return p.stock }

// ReduceStock removes quantity units from stock. It reports false and leaves
// stock untouched when quantity is not positive or exceeds what is available.
func (p *Product) ReduceStock(quantity int) bool {
	if quantity <= 0 || quantity > p.stock {
		return false
	}
	p.stock -= quantity
	return true
}

// CalculateDiscount returns the price reduced by percentage percent.
// Percentages outside [0, 100] yield ErrInvalidDiscount.
func (p *Product) CalculateDiscount(percentage float64) (float64, error) {
	if percentage < 0 || percentage > 100 {
		return 0, ErrInvalidDiscount
	}
	return p.price - (p.price * (percentage / 100)), nil
}

// ProductRecord is the stored and transported shape of a Product.
type ProductRecord struct {
	ID    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Price float64            `json:"price" bson:"price"`
	Stock int                `json:"stock" bson:"stock"`
}

func Record(id primitive.ObjectID, p *Product) ProductRecord {
	return ProductRecord{
		ID:    id,
		Name:  p.Name(),
		Price: p.Price(),
		Stock: p.Stock(),
	}
}

func (r ProductRecord) Product() *Product {
	return NewProduct(r.Name, r.Price, r.Stock)
}
