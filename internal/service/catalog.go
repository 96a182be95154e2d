package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/images"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const FeaturedCount = 3

// ProductIndex is the full-text index kept next to the catalog.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  ProductIndex
	Images images.Store
	Events events.Publisher
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound("product", err)
	}
	return p, nil
}

// Featured returns the newest in-stock products for the home page.
func (s *CatalogService) Featured(ctx context.Context) ([]models.Product, error) {
	return s.Repo.LatestProducts(ctx, FeaturedCount, true)
}

func (s *CatalogService) AllProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.AllProducts(ctx)
}

func (s *CatalogService) GetProducts(ctx context.Context, page, size int) (util.Page[models.Product], error) {
	page, size = util.Normalize(page, size)
	offset, limit := util.Calculate(page, size)

	total, items, err := s.Repo.GetProducts(ctx, offset, limit)
	if err != nil {
		return util.Page[models.Product]{}, err
	}
	return util.Page[models.Product]{Data: items, Meta: util.NewMeta(page, size, total)}, nil
}

// SearchProducts asks the index first and falls back to a database scan when
// no index is configured or the index fails.
func (s *CatalogService) SearchProducts(ctx context.Context, q string, page, size int) (util.Page[models.Product], error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	q = strings.TrimSpace(q)
	page, size = util.Normalize(page, size)
	offset, limit := util.Calculate(page, size)
	if q == "" {
		return util.Page[models.Product]{Data: []models.Product{}, Meta: util.NewMeta(page, size, 0)}, nil
	}

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.ProductsByIDs(ctx, ids)
			if err != nil {
				return util.Page[models.Product]{}, err
			}
			return util.Page[models.Product]{Data: items, Meta: util.NewMeta(page, size, total)}, nil
		}
		l.Warn("search_index_failed", "reason", "falling back to database", "error", err)
	}

	total, items, err := s.Repo.SearchProducts(ctx, q, offset, limit)
	if err != nil {
		return util.Page[models.Product]{}, err
	}
	return util.Page[models.Product]{Data: items, Meta: util.NewMeta(page, size, total)}, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, cmd ProductCommand, img *ImageUpload) (*models.Product, error) {
	if err := ValidateProduct(cmd); err != nil {
		return nil, err
	}

	prod := &models.Product{}
	applyProduct(prod, cmd)

	if img != nil {
		uri, err := s.storeImage(ctx, img)
		if err != nil {
			return nil, err
		}
		prod.Image = uri
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_created", prod)
	return prod, nil
}

// UpdateProduct replaces every editable field; the image is kept unless a new
// one is uploaded.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, cmd ProductCommand, img *ImageUpload) (*models.Product, error) {
	if err := ValidateProduct(cmd); err != nil {
		return nil, err
	}

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound("product", err)
	}
	applyProduct(prod, cmd)

	if img != nil {
		uri, err := s.storeImage(ctx, img)
		if err != nil {
			return nil, err
		}
		prod.Image = uri
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, notFound("product", err)
	}

	s.afterWrite(ctx, "product_updated", prod)
	return prod, nil
}

// DeleteProduct removes the product unconditionally. Orders keep their own
// copies of the product fields.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete")

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound("product", err)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Warn("search_unindex_failed", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, id.String(), map[string]any{
		"type":      "product_deleted",
		"productId": id,
	})
	return nil
}

func (s *CatalogService) afterWrite(ctx context.Context, typ string, prod *models.Product) {
	l := logging.FromContext(ctx).With("svc", "catalog.write")

	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, prod); err != nil {
			l.Warn("search_index_failed", "product_id", prod.ID, "error", err)
		}
	}
	s.publish(ctx, prod.ID.String(), map[string]any{
		"type":      typ,
		"productId": prod.ID,
		"name":      prod.Name,
		"price":     prod.Price.StringFixed(2),
		"inStock":   prod.InStock,
	})
}

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicProducts, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicProducts, "type", event["type"], "error", err)
	}
}

func (s *CatalogService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	if s.Images == nil {
		return "", errors.New("image store is not configured")
	}
	uri, err := images.Save(ctx, s.Images, img.Filename, img.ContentType, img.Data)
	if errors.Is(err, images.ErrNotAnImage) {
		return "", FieldInvalid("image", "only image files are allowed")
	}
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return uri, nil
}

// ValidateProduct checks every field of cmd and reports all failures together.
func ValidateProduct(cmd ProductCommand) error {
	verr := &ValidationError{}
	if err := verr.Merge(validateStruct(cmd)); err != nil {
		return err
	}
	if cmd.Price.IsNegative() {
		verr.Add("price", "must be zero or greater")
	}
	return verr.OrNil()
}

func applyProduct(p *models.Product, cmd ProductCommand) {
	p.Name = strings.TrimSpace(cmd.Name)
	p.Description = strings.TrimSpace(cmd.Description)
	p.Price = cmd.Price.Round(2)
	p.Capacity = strings.TrimSpace(cmd.Capacity)
	p.Material = strings.TrimSpace(cmd.Material)
	p.Weight = strings.TrimSpace(cmd.Weight)
	p.Dimensions = strings.TrimSpace(cmd.Dimensions)
	p.Color = strings.TrimSpace(cmd.Color)
	p.Features = cmd.Features
	if p.Features == nil {
		p.Features = []string{}
	}
	p.InStock = cmd.InStock
}
