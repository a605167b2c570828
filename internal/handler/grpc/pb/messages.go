package pb

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"
)

var ErrBadMessage = errors.New("malformed message")

// Product mirrors model.ProductRecord on the wire.
type Product struct {
	ID    string
	Name  string
	Price float64
	Stock int
}

type ProductList struct {
	Resolver string
	Products []Product
}

// ListRequest carries the optional search and paging fields of GetAll.
type ListRequest struct {
	Search string
	Skip   int
	Limit  int
}

type ReduceStockRequest struct {
	ID       string
	Quantity int
}

type ReduceStockResult struct {
	Success bool
	Stock   int
}

type DiscountRequest struct {
	ID         string
	Percentage float64
}

func (p Product) fields() map[string]any {
	return map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"price": p.Price,
		"stock": p.Stock,
	}
}

func (p Product) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(p.fields())
}

func (l ProductList) Struct() (*structpb.Struct, error) {
	items := make([]any, 0, len(l.Products))
	for _, p := range l.Products {
		items = append(items, p.fields())
	}
	return structpb.NewStruct(map[string]any{
		"resolver": l.Resolver,
		"products": items,
	})
}

func (r ListRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"q": r.Search, "skip": r.Skip, "limit": r.Limit})
}

func (r ReduceStockRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"id": r.ID, "quantity": r.Quantity})
}

func (r ReduceStockResult) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"success": r.Success, "stock": r.Stock})
}

func (r DiscountRequest) Struct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{"id": r.ID, "percentage": r.Percentage})
}

func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadMessage, key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrBadMessage, key)
	}
	// -math.MinInt is 2^63 (or 2^31), exactly representable as a float64.
	if f < math.MinInt || f >= -math.MinInt {
		return 0, fmt.Errorf("%w: %s is out of range", ErrBadMessage, key)
	}
	return int(f), nil
}

func numberField(s *structpb.Struct, key string) (float64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || math.IsNaN(n.NumberValue) {
		return 0, fmt.Errorf("%w: %s must be a number", ErrBadMessage, key)
	}
	return n.NumberValue, nil
}

func ParseProduct(s *structpb.Struct) (Product, error) {
	price, err := numberField(s, "price")
	if err != nil {
		return Product{}, err
	}
	stock, err := intField(s, "stock")
	if err != nil {
		return Product{}, err
	}
	return Product{
		ID:    s.GetFields()["id"].GetStringValue(),
		Name:  s.GetFields()["name"].GetStringValue(),
		Price: price,
		Stock: stock,
	}, nil
}

func ParseProductList(s *structpb.Struct) (ProductList, error) {
	list := ProductList{Resolver: s.GetFields()["resolver"].GetStringValue()}
	for _, v := range s.GetFields()["products"].GetListValue().GetValues() {
		p, err := ParseProduct(v.GetStructValue())
		if err != nil {
			return ProductList{}, err
		}
		list.Products = append(list.Products, p)
	}
	return list, nil
}

// ParseListRequest accepts a nil or empty struct as "no filter".
func ParseListRequest(s *structpb.Struct) (ListRequest, error) {
	skip, err := intField(s, "skip")
	if err != nil {
		return ListRequest{}, err
	}
	limit, err := intField(s, "limit")
	if err != nil {
		return ListRequest{}, err
	}
	return ListRequest{Search: s.GetFields()["q"].GetStringValue(), Skip: skip, Limit: limit}, nil
}

func ParseReduceStockRequest(s *structpb.Struct) (ReduceStockRequest, error) {
	q, err := intField(s, "quantity")
	if err != nil {
		return ReduceStockRequest{}, err
	}
	return ReduceStockRequest{ID: s.GetFields()["id"].GetStringValue(), Quantity: q}, nil
}

func ParseReduceStockResult(s *structpb.Struct) (ReduceStockResult, error) {
	stock, err := intField(s, "stock")
	if err != nil {
		return ReduceStockResult{}, err
	}
	return ReduceStockResult{Success: s.GetFields()["success"].GetBoolValue(), Stock: stock}, nil
}

func ParseDiscountRequest(s *structpb.Struct) (DiscountRequest, error) {
	if _, ok := s.GetFields()["percentage"]; !ok {
		return DiscountRequest{}, fmt.Errorf("%w: percentage is required", ErrBadMessage)
	}
	pct, err := numberField(s, "percentage")
	if err != nil {
		return DiscountRequest{}, err
	}
	return DiscountRequest{ID: s.GetFields()["id"].GetStringValue(), Percentage: pct}, nil
}
