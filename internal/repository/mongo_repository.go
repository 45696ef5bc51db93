package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zedlink-test/My-Shop/internal/domain"
)

// Money is kept as decimal strings so no float rounding reaches storage.

type sizeDoc struct {
	Size  string `bson:"size"`
	Price string `bson:"price"`
}

type productDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description"`
	Price       string    `bson:"price"`
	Category    string    `bson:"category"`
	Image       string    `bson:"image"`
	Sizes       []sizeDoc `bson:"sizes"`
	CreatedAt   time.Time `bson:"created_at"`
}

type lineDoc struct {
	ProductID  string `bson:"product_id"`
	Name       string `bson:"name"`
	Image      string `bson:"image,omitempty"`
	Size       string `bson:"size,omitempty"`
	Quantity   int    `bson:"quantity"`
	FinalPrice string `bson:"final_price"`
}

type customerDoc struct {
	FullName string `bson:"full_name"`
	Phone    string `bson:"phone"`
	Address  string `bson:"address"`
	Wilaya   string `bson:"wilaya"`
	Commune  string `bson:"commune"`
}

type orderDoc struct {
	ID          string      `bson:"_id"`
	Customer    customerDoc `bson:"customer"`
	Items       []lineDoc   `bson:"items"`
	Subtotal    string      `bson:"subtotal"`
	DeliveryFee string      `bson:"delivery_fee"`
	Total       string      `bson:"total"`
	Status      string      `bson:"status"`
	CreatedAt   time.Time   `bson:"created_at"`
}

func toProductDoc(p *domain.Product) productDoc {
	sizes := make([]sizeDoc, len(p.Sizes))
	for i, s := range p.Sizes {
		sizes[i] = sizeDoc{Size: s.Label, Price: s.Price.String()}
	}
	return productDoc{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Category:    p.Category,
		Image:       p.Image,
		Sizes:       sizes,
		CreatedAt:   p.CreatedAt,
	}
}

func (d productDoc) toDomain() (*domain.Product, error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s price: %w", d.ID, err)
	}
	p := &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Category:    d.Category,
		Image:       d.Image,
		CreatedAt:   d.CreatedAt.UTC(),
	}
	for _, s := range d.Sizes {
		sp, err := decimal.NewFromString(s.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s size %q price: %w", d.ID, s.Size, err)
		}
		p.Sizes = append(p.Sizes, domain.SizeVariant{Label: s.Size, Price: sp})
	}
	return p, nil
}

func toOrderDoc(o *domain.Order) orderDoc {
	items := make([]lineDoc, len(o.Items))
	for i, l := range o.Items {
		items[i] = lineDoc{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Image:      l.Image,
			Size:       l.Size,
			Quantity:   l.Quantity,
			FinalPrice: l.FinalPrice.String(),
		}
	}
	return orderDoc{
		ID:          o.ID,
		Customer:    customerDoc(o.Customer),
		Items:       items,
		Subtotal:    o.Subtotal.String(),
		DeliveryFee: o.DeliveryFee.String(),
		Total:       o.Total.String(),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.UTC(),
	}
}

func (d orderDoc) toDomain() (*domain.Order, error) {
	var amounts [3]decimal.Decimal
	for i, s := range []string{d.Subtotal, d.DeliveryFee, d.Total} {
		v, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("order %s amount: %w", d.ID, err)
		}
		amounts[i] = v
	}
	o := &domain.Order{
		ID:          d.ID,
		Customer:    domain.Customer(d.Customer),
		Items:       make([]domain.CartLine, len(d.Items)),
		Subtotal:    amounts[0],
		DeliveryFee: amounts[1],
		Total:       amounts[2],
		Status:      domain.OrderStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
	}
	for i, l := range d.Items {
		price, err := decimal.NewFromString(l.FinalPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s item price: %w", d.ID, err)
		}
		o.Items[i] = domain.CartLine{
			ProductID:  l.ProductID,
			Name:       l.Name,
			Image:      l.Image,
			Size:       l.Size,
			Quantity:   l.Quantity,
			FinalPrice: price,
		}
	}
	return o, nil
}

type MongoRepository struct {
	db       *mongo.Database
	products *mongo.Collection
	orders   *mongo.Collection
}

var _ Store = (*MongoRepository)(nil)

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		db:       db,
		products: db.Collection("products"),
		orders:   db.Collection("orders"),
	}
}

// OpenMongoRepository dials uri, checks the server answers and makes sure
// the collection indexes exist. Close disconnects the client.
func OpenMongoRepository(ctx context.Context, uri, database string) (*MongoRepository, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetAppName("storefront").
		SetConnectTimeout(10*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(20))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	repo := NewMongoRepository(client.Database(database))
	if err := repo.CreateIndexes(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}
	return repo, nil
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	_, err := m.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	_, err = m.orders.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, nil)
}

func (m *MongoRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.db.Client().Disconnect(ctx)
}

func (m *MongoRepository) ListProducts(ctx context.Context, category string) ([]*domain.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cur, err := m.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer cur.Close(ctx)

	products := []*domain.Product{}
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return products, nil
}

func (m *MongoRepository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var doc productDoc
	err := m.products.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.toDomain()
}

func (m *MongoRepository) CreateProduct(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if _, err := m.products.InsertOne(ctx, toProductDoc(p)); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

func (m *MongoRepository) UpdateProduct(ctx context.Context, p *domain.Product) error {
	doc := toProductDoc(p)
	update := bson.M{"$set": bson.M{
		"name":        doc.Name,
		"description": doc.Description,
		"price":       doc.Price,
		"category":    doc.Category,
		"image":       doc.Image,
		"sizes":       doc.Sizes,
	}}

	result, err := m.products.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *MongoRepository) DeleteProduct(ctx context.Context, id string) error {
	result, err := m.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (m *MongoRepository) CountProducts(ctx context.Context) (int64, error) {
	n, err := m.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (m *MongoRepository) InsertOrder(ctx context.Context, o *domain.Order) error {
	if _, err := m.orders.InsertOne(ctx, toOrderDoc(o)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (m *MongoRepository) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := m.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cur.Close(ctx)

	orders := []*domain.Order{}
	for cur.Next(ctx) {
		var doc orderDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		o, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return orders, nil
}

func (m *MongoRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	var doc orderDoc
	err := m.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return doc.toDomain()
}

func (m *MongoRepository) UpdateOrderStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	update := bson.M{"$set": bson.M{"status": string(to)}}
	result, err := m.orders.UpdateOne(ctx, bson.M{"_id": id, "status": string(from)}, update)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	n, err := m.orders.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to check order: %w", err)
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return ErrStatusChanged
}

func (m *MongoRepository) DeleteOrder(ctx context.Context, id string) error {
	result, err := m.orders.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}
