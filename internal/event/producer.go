// Package event publishes catalog domain events to Kafka so downstream
// consumers (search indexing, storefront cache warmers) can react to writes.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maisonarte/catalog-service/internal/domain"
	pkgkafka "github.com/maisonarte/catalog-service/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated  = "catalog.product.created"
	TopicProductUpdated  = "catalog.product.updated"
	TopicProductDeleted  = "catalog.product.deleted"
	TopicCategoryCreated = "catalog.category.created"
	TopicCategoryUpdated = "catalog.category.updated"
	TopicCategoryDeleted = "catalog.category.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeCategory = "category"
)

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	Category   string  `json:"category"`
	Collection string  `json:"collection,omitempty"`
	Price      float64 `json:"price"`
	InStock    bool    `json:"in_stock"`
	Featured   bool    `json:"featured"`
}

// CategoryData is the payload for category.created and category.updated events.
type CategoryData struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Collections []string `json:"collections,omitempty"`
}

// DeletedData is the payload for deletion events.
type DeletedData struct {
	ID string `json:"id"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product *domain.Product) error {
	data := ProductData{
		ID:         product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		Category:   product.Category,
		Collection: product.Collection,
		Price:      product.Price,
		InStock:    product.InStock,
		Featured:   product.Featured,
	}

	event, err := pkgkafka.NewEvent(topic, product.ID, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	event, err := pkgkafka.NewEvent(TopicProductDeleted, id, AggregateTypeProduct, SourceCatalogService, DeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", id),
	)

	return nil
}

// PublishCategoryCreated publishes a category.created event.
func (p *Producer) PublishCategoryCreated(ctx context.Context, category *domain.Category) error {
	return p.publishCategory(ctx, TopicCategoryCreated, category)
}

// PublishCategoryUpdated publishes a category.updated event.
func (p *Producer) PublishCategoryUpdated(ctx context.Context, category *domain.Category) error {
	return p.publishCategory(ctx, TopicCategoryUpdated, category)
}

func (p *Producer) publishCategory(ctx context.Context, topic string, category *domain.Category) error {
	data := CategoryData{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Collections: category.Collections,
	}

	event, err := pkgkafka.NewEvent(topic, category.ID, AggregateTypeCategory, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published category event",
		slog.String("topic", topic),
		slog.String("category_id", category.ID),
		slog.String("slug", category.Slug),
	)

	return nil
}

// PublishCategoryDeleted publishes a category.deleted event.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, id string) error {
	event, err := pkgkafka.NewEvent(TopicCategoryDeleted, id, AggregateTypeCategory, SourceCatalogService, DeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create category.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCategoryDeleted, event); err != nil {
		return fmt.Errorf("publish category.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published category.deleted event",
		slog.String("category_id", id),
	)

	return nil
}
