package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"product-stock/internal/model"
)

type Product struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

type ReduceStockResult struct {
	Success bool `json:"success"`
	Stock   int  `json:"stock"`
}

type Discount struct {
	Price           float64 `json:"price"`
	Percentage      float64 `json:"percentage"`
	DiscountedPrice float64 `json:"discounted_price"`
}

// ProductAPI calls the product HTTP routes.
type ProductAPI struct {
	http *HTTPClient
}

func NewProductAPI(c *HTTPClient) *ProductAPI {
	return &ProductAPI{http: c}
}

// ListProducts sends only the non-zero fields of q.
func (a *ProductAPI) ListProducts(ctx context.Context, q model.ListQuery) ([]Product, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("q", q.Search)
	}
	if q.Skip != 0 {
		query.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit != 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var out []Product
	_, err := a.http.Do(ctx, RequestOptions{Method: http.MethodGet, Path: "/products", Query: query}, &out)
	return out, err
}

func (a *ProductAPI) CreateProduct(ctx context.Context, name string, price float64, stock int) (*Product, error) {
	var out Product
	_, err := a.http.Do(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   "/product",
		Body:   Product{Name: name, Price: price, Stock: stock},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ProductAPI) ReduceStock(ctx context.Context, id string, quantity int) (*ReduceStockResult, error) {
	var out ReduceStockResult
	_, err := a.http.Do(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   "/product/reduce-stock",
		Query:  url.Values{"id": {id}},
		Body:   map[string]int{"quantity": quantity},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *ProductAPI) Discount(ctx context.Context, id string, percentage float64) (*Discount, error) {
	var out Discount
	_, err := a.http.Do(ctx, RequestOptions{
		Method: http.MethodGet,
		Path:   "/product/discount",
		Query: url.Values{
			"id":         {id},
			"percentage": {strconv.FormatFloat(percentage, 'f', -1, 64)},
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
