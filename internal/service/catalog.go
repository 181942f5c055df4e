package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/jmehta/storefront/internal/events"
	"github.com/jmehta/storefront/internal/logging"
	"github.com/jmehta/storefront/internal/models"
	"github.com/jmehta/storefront/internal/repo"
	"github.com/jmehta/storefront/internal/search"
	"github.com/jmehta/storefront/internal/upload"
)

var ErrValidation = errors.New("validation failed")

type CatalogService struct {
	Repo     *repo.GormRepo
	Uploads  *upload.Store
	Producer *events.Producer
	Indexer  *search.Indexer
}

// UpdateProductRequest carries a partial update; nil fields are left
// untouched.
type UpdateProductRequest struct {
	Name      *string
	Price     *float64
	Available *bool
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) GetProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}

// SearchProducts answers from the Elasticsearch index when one is wired and
// healthy, and from the database otherwise. Both honor the same contract:
// case-insensitive substring on name, newest first.
func (s *CatalogService) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	if s.Indexer != nil {
		items, err := s.Indexer.Search(ctx, q)
		if err == nil {
			return items, nil
		}
		logging.FromContext(ctx).Warn("es search failed, falling back to db", "error", err)
	}
	return s.Repo.SearchProducts(ctx, q)
}

func (s *CatalogService) CreateProduct(ctx context.Context, name string, price float64, image *multipart.FileHeader) (*models.Product, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	prod := models.Product{
		Name:      name,
		Price:     price,
		Available: true,
	}

	if image != nil {
		publicPath, err := s.Uploads.Save(image)
		if err != nil {
			return nil, err
		}
		prod.Image = &publicPath
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		// compensating cleanup so a failed insert leaves no orphan file
		if prod.Image != nil {
			if rmErr := s.Uploads.Remove(*prod.Image); rmErr != nil {
				logging.FromContext(ctx).Warn("orphaned upload", "path", *prod.Image, "error", rmErr)
			}
		}
		return nil, err
	}

	s.afterWrite(ctx, "product_created", &prod)
	return &prod, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req UpdateProductRequest, image *multipart.FileHeader) (*models.Product, error) {
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Price != nil {
		prod.Price = *req.Price
	}
	if req.Available != nil {
		prod.Available = *req.Available
	}

	var oldImage *string
	if image != nil {
		publicPath, err := s.Uploads.Save(image)
		if err != nil {
			return nil, err
		}
		oldImage = prod.Image
		prod.Image = &publicPath
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		if image != nil && prod.Image != nil {
			if rmErr := s.Uploads.Remove(*prod.Image); rmErr != nil {
				logging.FromContext(ctx).Warn("orphaned upload", "path", *prod.Image, "error", rmErr)
			}
		}
		return nil, err
	}

	if oldImage != nil {
		if rmErr := s.Uploads.Remove(*oldImage); rmErr != nil {
			logging.FromContext(ctx).Warn("orphaned upload", "path", *oldImage, "error", rmErr)
		}
	}

	s.afterWrite(ctx, "product_updated", prod)
	return prod, nil
}

// ToggleAvailability flips the available flag. Calling it twice restores the
// original value.
func (s *CatalogService) ToggleAvailability(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	prod.Available = !prod.Available
	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "product_toggled", prod)
	return prod, nil
}

// DeleteProduct removes the record and then its image file. File cleanup is
// best-effort: a failure is logged as an orphan and never rolls back the
// record deletion.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return err
	}

	if prod.Image != nil {
		if rmErr := s.Uploads.Remove(*prod.Image); rmErr != nil {
			logging.FromContext(ctx).Warn("orphaned upload", "path", *prod.Image, "error", rmErr)
		}
	}

	if s.Indexer != nil {
		if err := s.Indexer.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("es delete failed", "id", id, "error", err)
		}
	}

	event := map[string]any{
		"type":      "product_deleted",
		"productID": id,
	}
	if err := s.Producer.PublishEvent(ctx, fmt.Sprint(id), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}

	return nil
}

func (s *CatalogService) afterWrite(ctx context.Context, eventType string, prod *models.Product) {
	if s.Indexer != nil {
		if err := s.Indexer.IndexProduct(ctx, prod); err != nil {
			logging.FromContext(ctx).Warn("es index failed", "id", prod.ID, "error", err)
		}
	}

	event := map[string]any{
		"type":      eventType,
		"productID": prod.ID,
		"name":      prod.Name,
	}
	if err := s.Producer.PublishEvent(ctx, fmt.Sprint(prod.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
