package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/catalog-service/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-service/internal/attachment"
	"github.com/tuanvumaihuynh/catalog-service/internal/config"
	"github.com/tuanvumaihuynh/catalog-service/internal/service"
	"github.com/tuanvumaihuynh/catalog-service/pkg/ptr"
)

const (
	legacyImageField = "image"
	imagesField      = "images"
)

type productHandler struct {
	logger      *slog.Logger
	upload      config.Upload
	productSvc  service.ProductService
	attachments attachment.Store
}

func newProductHandler(
	logger *slog.Logger,
	upload config.Upload,
	productSvc service.ProductService,
	attachments attachment.Store,
) *productHandler {
	return &productHandler{
		logger:      logger,
		upload:      upload,
		productSvc:  productSvc,
		attachments: attachments,
	}
}

func (h *productHandler) ListProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := h.productSvc.ListAllProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service list all products: %w", err)
	}

	items := make([]productResponse, 0, len(products))
	for _, product := range products {
		items = append(items, newProductResponse(product))
	}

	return h.respond(w, r, http.StatusOK, items)
}

func (h *productHandler) GetProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	product, err := h.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	return h.respond(w, r, http.StatusOK, newProductResponse(product))
}

func (h *productHandler) CreateProduct(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxRequestBytes)

	if err := parseForm(r, h.upload.MaxMemoryBytes); err != nil {
		return err
	}
	if r.MultipartForm != nil {
		defer func() {
			//nolint:errcheck
			r.MultipartForm.RemoveAll()
		}()
	}

	params, err := createProductParamsFromForm(r)
	if err != nil {
		return err
	}

	refs, err := h.storeAttachments(ctx, r.MultipartForm)
	if err != nil {
		return err
	}
	params.Images = refs

	product, err := h.productSvc.CreateProduct(ctx, params)
	if err != nil {
		h.discardAttachments(ctx, refs)
		return fmt.Errorf("product service create product: %w", err)
	}

	return h.respond(w, r, http.StatusCreated, newProductResponse(product))
}

func (h *productHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	if _, err := h.productSvc.DeleteProduct(r.Context(), id); err != nil {
		return fmt.Errorf("product service delete product: %w", err)
	}

	return h.respond(w, r, http.StatusOK, messageResponse{Message: "product deleted"})
}

func (h *productHandler) DeleteAllProducts(w http.ResponseWriter, r *http.Request) error {
	n, err := h.productSvc.DeleteAllProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service delete all products: %w", err)
	}

	h.logger.InfoContext(r.Context(), "deleted all products", slog.Int64("count", n))

	return h.respond(w, r, http.StatusOK, messageResponse{Message: "all products deleted"})
}

func (h *productHandler) respond(w http.ResponseWriter, r *http.Request, status int, body any) error {
	if err := writeJSON(w, status, body); err != nil {
		h.logger.WarnContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
	return nil
}

// storeAttachments writes the legacy single image part followed by every
// images part. On failure the already written attachments are removed.
func (h *productHandler) storeAttachments(ctx context.Context, form *multipart.Form) ([]string, error) {
	if form == nil {
		return nil, nil
	}

	files := slices.Concat(form.File[legacyImageField], form.File[imagesField])
	refs := make([]string, 0, len(files))
	for _, fh := range files {
		ref, err := h.storeAttachment(ctx, fh)
		if err != nil {
			h.discardAttachments(ctx, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}

	return refs, nil
}

func (h *productHandler) storeAttachment(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer f.Close()

	ref, err := h.attachments.Put(ctx, fh.Filename, f)
	if errors.Is(err, attachment.ErrUnsupportedExtension) {
		return "", apperr.InvalidAttachment(fmt.Sprintf("%s has an unsupported file type", fh.Filename)).WrapParent(err)
	}
	if err != nil {
		return "", fmt.Errorf("store attachment: %w", err)
	}

	return ref, nil
}

func (h *productHandler) discardAttachments(ctx context.Context, refs []string) {
	// the request context may already be cancelled
	ctx = context.WithoutCancel(ctx)
	for _, ref := range refs {
		if err := h.attachments.Delete(ctx, ref); err != nil {
			h.logger.WarnContext(ctx, "error discarding attachment",
				slog.String("ref", ref), slog.Any("error", err))
		}
	}
}

func productIDParam(r *http.Request) (int64, error) {
	var id int64
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		}); err != nil {
		return 0, apperr.InvalidParameter("id", "must be an integer").WrapParent(err)
	}

	return id, nil
}

func parseForm(r *http.Request, maxMemory int64) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxMemory)
	} else {
		err = r.ParseForm()
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fmt.Errorf("parse form: %w", err)
	}
	if err != nil {
		return apperr.InvalidFormField("body", "is not a valid form").WrapParent(err)
	}

	return nil
}

func createProductParamsFromForm(r *http.Request) (service.CreateProductParams, error) {
	price, err := optionalFloat(r, "price")
	if err != nil {
		return service.CreateProductParams{}, err
	}

	rating, err := optionalFloat(r, "rating")
	if err != nil {
		return service.CreateProductParams{}, err
	}

	return service.CreateProductParams{
		Name:        r.PostFormValue("name"),
		Price:       price,
		Description: optionalString(r, "description"),
		Size:        optionalString(r, "size"),
		Category:    optionalString(r, "category"),
		Tags:        r.PostFormValue("tags"),
		Sku:         optionalString(r, "sku"),
		Rating:      rating,
	}, nil
}

func optionalString(r *http.Request, key string) *string {
	return ptr.NonZero(r.PostFormValue(key))
}

func optionalFloat(r *http.Request, key string) (*float64, error) {
	v := strings.TrimSpace(r.PostFormValue(key))
	if v == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, apperr.InvalidFormField(key, "must be a number").WrapParent(err)
	}

	return &f, nil
}
