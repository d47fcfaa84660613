package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/quickcart-io/quickcart/internal/api/middleware"
	apperrors "github.com/quickcart-io/quickcart/internal/errors"
	"github.com/quickcart-io/quickcart/internal/models"
	service "github.com/quickcart-io/quickcart/internal/services"
	"github.com/quickcart-io/quickcart/internal/utils"
	"github.com/quickcart-io/quickcart/internal/utils/response"
)

// maxIntakeFormSize bounds the in-memory portion of the multipart parse;
// larger file parts spill to temporary files.
const maxIntakeFormSize = 32 << 20

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// CreateProduct is the seller intake endpoint. The listing arrives as a
// multipart form: text fields describe the product, file parts under "images"
// carry the gallery in display order.
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		principal := middleware.PrincipalFromContext(r.Context())
		if principal == nil {
			response.Error(w, apperrors.UnauthorizedError("Authentication required"))
			return
		}

		if err := r.ParseMultipartForm(maxIntakeFormSize); err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid multipart form").WithError(err))
			return
		}

		req := models.CreateProductRequest{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
		}

		req.Price, _ = strconv.ParseFloat(r.FormValue("price"), 64)
		req.OfferPrice, _ = strconv.ParseFloat(r.FormValue("offerPrice"), 64)

		if err := utils.ValidateStruct(h.validator, req); err != nil {
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				response.ValidationError(w, validationErrs)
				return
			}

			response.Error(w, apperrors.ValidationError(err.Error()))
			return
		}

		images, err := readImageParts(r)
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Failed to read uploaded files").WithError(err))
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), principal.ID, &req, images)
		if err != nil {
			logger.Error("Product intake failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created",
			slog.String("productId", product.ID.String()),
			slog.Int("images", len(product.Images)))
		response.Success(w, http.StatusCreated, "Product created successfully", product)
	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			response.Error(w, apperrors.BadRequestError("Invalid product id"))
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Product fetched successfully", product)
	}
}

// ListProducts serves the public catalog, e.g. GET /products?page=1&pageSize=10.
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}

		pageSize, err := strconv.Atoi(r.URL.Query().Get("pageSize"))
		if err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 10
		}

		products, total, err := h.productService.ListProducts(r.Context(), page, pageSize)
		if err != nil {
			logger := middleware.LoggerFromContext(r.Context())
			logger.Error("Failed to fetch products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Products fetched successfully", models.PaginatedResponse{
			Data:     products,
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		})
	}
}

// readImageParts drains every "images" file part, preserving form order.
func readImageParts(r *http.Request) ([]models.ImageUpload, error) {

	if r.MultipartForm == nil {
		return nil, nil
	}

	parts := r.MultipartForm.File["images"]
	images := make([]models.ImageUpload, 0, len(parts))

	for _, part := range parts {
		file, err := part.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(file)
		file.Close()

		if err != nil {
			return nil, err
		}

		images = append(images, models.ImageUpload{Filename: part.Filename, Data: data})
	}

	return images, nil
}
