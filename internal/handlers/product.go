package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jmehta/storefront/internal/logging"
	"github.com/jmehta/storefront/internal/service"
	"github.com/jmehta/storefront/internal/upload"
)

type ProductHandler struct {
	Svc *service.CatalogService
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	return uint(id), nil
}

// imageFile pulls the optional image part out of the form. An absent part is
// not an error.
func imageFile(c echo.Context) *multipart.FileHeader {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil
	}
	return fh
}

func mapWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, upload.ErrFileTooLarge), errors.Is(err, upload.ErrNotAnImage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.GetProducts(ctx)
	if err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch products")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_product_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch product")
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	items, err := h.Svc.SearchProducts(ctx, c.Param("query"))
	if err != nil {
		l.Error("search_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to search products")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	name := c.FormValue("name")
	priceStr := c.FormValue("price")
	if name == "" || priceStr == "" {
		l.Warn("create_failed", "status", 400, "reason", "missing fields")
		return echo.NewHTTPError(http.StatusBadRequest, "name and price are required")
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		l.Warn("create_failed", "status", 400, "reason", "price not a number", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
	}

	prod, err := h.Svc.CreateProduct(ctx, name, price, imageFile(c))
	if err != nil {
		l.Warn("create_failed", "error", err)
		return mapWriteError(err)
	}

	l.Info("create_success", "id", prod.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "product added successfully",
		"product": prod,
	})
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req service.UpdateProductRequest
	if v := c.FormValue("name"); v != "" {
		req.Name = &v
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			l.Warn("update_failed", "status", 400, "reason", "price not a number", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "price must be a number")
		}
		req.Price = &price
	}
	if v := c.FormValue("available"); v != "" {
		available := v == "true"
		req.Available = &available
	}

	prod, err := h.Svc.UpdateProduct(ctx, id, req, imageFile(c))
	if err != nil {
		l.Warn("update_failed", "id", id, "error", err)
		return mapWriteError(err)
	}

	l.Info("update_success", "id", prod.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "product updated successfully",
		"product": prod,
	})
}

func (h *ProductHandler) ToggleAvailability(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.toggle")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	prod, err := h.Svc.ToggleAvailability(ctx, id)
	if err != nil {
		l.Warn("toggle_failed", "id", id, "error", err)
		return mapWriteError(err)
	}

	l.Info("toggle_success", "id", prod.ID, "available", prod.Available)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "product status updated successfully",
		"product": prod,
	})
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		l.Warn("delete_failed", "id", id, "error", err)
		return mapWriteError(err)
	}

	l.Info("delete_success", "id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "product deleted successfully",
	})
}
