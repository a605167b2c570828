package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"product-stock/internal/logger"
	"product-stock/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository struct {
	collection *mongo.Collection
}

var ProductRepositoryTracer = otel.Tracer("ProductRepository")

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection("product"),
	}
}

func (r *ProductRepository) Insert(ctx context.Context, product *model.ProductRecord) error {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository", slog.String("op", "insert"))

	product.ID = primitive.NewObjectID()
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// FindAll returns the page of products selected by q, ordered by id. The
// search term is matched literally, not as a pattern.
func (r *ProductRepository) FindAll(ctx context.Context, q model.ListQuery) ([]model.ProductRecord, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()
	q = q.Normalize()
	span.SetAttributes(
		attribute.String("query.search", q.Search),
		attribute.Int("query.skip", q.Skip),
		attribute.Int("query.limit", q.Limit),
	)
	logger.Info(ctx, "Repository", slog.String("op", "find_all"),
		slog.String("search", q.Search), slog.Int("skip", q.Skip), slog.Int("limit", q.Limit))

	filter := bson.M{}
	if q.Search != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(q.Skip)).
		SetLimit(int64(q.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]model.ProductRecord, 0)
	for cursor.Next(ctx) {
		var product model.ProductRecord
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		products = append(products, product)
	}
	return products, cursor.Err()
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.ProductRecord, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()
	logger.Info(ctx, "Repository", slog.String("op", "find_by_id"), slog.String("id", id.Hex()))

	var product model.ProductRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id.Hex(), err)
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()
	logger.Info(ctx, "Repository", slog.String("op", "delete"), slog.String("id", id.Hex()))

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// ReduceStock applies the product's own rule to the stored stock, then
// decrements with a conditional update so concurrent callers can never
// push stock below zero.
func (r *ProductRepository) ReduceStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.ReduceStock")
	defer span.End()
	span.SetAttributes(attribute.Int("product.quantity", quantity))

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !current.Product().ReduceStock(quantity) {
		return false, nil
	}

	filter := bson.M{"_id": id, "stock": bson.M{"$gte": quantity}}
	update := bson.M{"$inc": bson.M{"stock": -quantity}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("reduce stock of %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		// Either a concurrent reduction won or the product was deleted meanwhile.
		if _, err := r.FindByID(ctx, id); err != nil {
			return false, err
		}
	}
	return res.ModifiedCount == 1, nil
}

func (r *ProductRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, nil)
}
