package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gasfresco/reservation-service/internal/model"
	"github.com/gasfresco/reservation-service/internal/producer"
	"github.com/gasfresco/reservation-service/internal/product"
	"github.com/gasfresco/reservation-service/internal/product/dto"
	"github.com/gasfresco/reservation-service/pkg/cache"
	"github.com/gasfresco/reservation-service/pkg/logger"
	"github.com/gasfresco/reservation-service/pkg/search"
)

const productIndex = "products"

type productUseCase struct {
	repo      product.Repository
	producers producer.Repository
	cache     *cache.RedisClient // nil when no redis is configured
	es        *search.Client     // nil when no elasticsearch is configured
	logger    logger.ZapLogger
}

func NewProductUseCase(
	repo product.Repository,
	producers producer.Repository,
	c *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:      repo,
		producers: producers,
		cache:     c,
		es:        es,
		logger:    log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.Name == "" || input.ProducerID == "" {
		return nil, product.ErrInvalidProduct
	}

	prod, err := uc.producers.FindByID(ctx, input.ProducerID)
	if err != nil {
		return nil, err
	}
	if prod == nil {
		return nil, product.ErrProducerNotFound
	}

	now := time.Now()
	var imageURL *string
	if input.ImageURL != "" {
		imageURL = &input.ImageURL
	}

	p := &model.Product{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		ProducerID: input.ProducerID,
		Name:       input.Name,
		ImageURL:   imageURL,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if input.Name == "" || input.ProducerID == "" {
		return nil, product.ErrInvalidProduct
	}

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	if p.ProducerID != input.ProducerID {
		prod, err := uc.producers.FindByID(ctx, input.ProducerID)
		if err != nil {
			return nil, err
		}
		if prod == nil {
			return nil, product.ErrProducerNotFound
		}
	}

	p.Name = input.Name
	p.ProducerID = input.ProducerID
	if input.ImageURL != "" {
		p.ImageURL = &input.ImageURL
	}
	p.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	cacheKey := uc.generateCacheKey(filters)
	if uc.cache != nil && cacheKey != "" {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil && val != "" {
			var cached []model.Product
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"query_string": map[string]interface{}{
					"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
					"fields": []string{"name^3", "description"},
				},
			},
		}

		res, err := uc.es.Search(ctx, productIndex, q)
		if err == nil {
			var esProducts []model.Product
			for _, hit := range res.Hits.Hits {
				var p model.Product
				if err := json.Unmarshal(hit.Source, &p); err == nil {
					esProducts = append(esProducts, p)
				}
			}
			return esProducts, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && cacheKey != "" {
		if data, err := json.Marshal(products); err == nil {
			_ = uc.cache.Set(ctx, cacheKey, string(data), 5*time.Minute)
		}
	}
	return products, nil
}

func (uc *productUseCase) generateCacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data))
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	// Lists are cached with a short TTL; deleting the unfiltered key covers
	// the common storefront read, the rest expire on their own.
	key := uc.generateCacheKey(&dto.ProductFilters{})
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}

	mapping := `{
		"mappings": {
			"properties": {
				"producer_id": { "type": "keyword" },
				"name": { "type": "text" },
				"image_url": { "type": "keyword" },
				"created_at": { "type": "date" }
			}
		}
	}`
	_ = uc.es.CreateIndex(ctx, productIndex, mapping)

	if err := uc.es.Index(ctx, productIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.Error(err))
	}
}
