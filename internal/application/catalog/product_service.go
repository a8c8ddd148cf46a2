package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderdesk/backend/internal/domain/catalog"
	"github.com/orderdesk/backend/internal/domain/shared"
)

// ProductService handles product catalog operations. It never touches
// on-hand counts; stock mutations belong to the stock ledger.
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// Create creates a new product. Admin only.
func (s *ProductService) Create(ctx context.Context, actor shared.Actor, req CreateProductRequest) (*ProductResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	if existing, err := s.productRepo.FindBySKU(ctx, req.SKUCode); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU code already exists")
	}

	product, err := catalog.NewProduct(req.SKUCode, req.Name, req.PricePerPiece, req.PiecesPerCase)
	if err != nil {
		return nil, err
	}
	if req.WholesaleCost != nil {
		if err := product.SetWholesaleCost(*req.WholesaleCost); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold > 0 {
		if err := product.SetLowStockThreshold(req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update changes product attributes. Admin only.
func (s *ProductService) Update(ctx context.Context, actor shared.Actor, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.PricePerPiece != nil {
		if err := product.UpdatePrice(*req.PricePerPiece); err != nil {
			return nil, err
		}
	}
	if req.WholesaleCost != nil {
		if err := product.SetWholesaleCost(*req.WholesaleCost); err != nil {
			return nil, err
		}
	}
	if req.LowStockThreshold != nil {
		if err := product.SetLowStockThreshold(*req.LowStockThreshold); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// SetActive activates or deactivates a product. Admin only.
func (s *ProductService) SetActive(ctx context.Context, actor shared.Actor, productID uuid.UUID, active bool) (*ProductResponse, error) {
	if !actor.IsAdmin() {
		return nil, shared.ErrForbidden
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product that no order line references. Admin only.
func (s *ProductService) Delete(ctx context.Context, actor shared.Actor, productID uuid.UUID) error {
	if !actor.IsAdmin() {
		return shared.ErrForbidden
	}

	referenced, err := s.productRepo.IsReferencedByOrders(ctx, productID)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("CONCURRENCY_CONFLICT", "Product is referenced by order lines; deactivate it instead")
	}

	return s.productRepo.Delete(ctx, productID)
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU code
func (s *ProductService) GetBySKU(ctx context.Context, skuCode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, skuCode)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "sku_code",
		OrderDir: "asc",
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.LowStock != nil && *filter.LowStock {
		domainFilter.Filters["low_stock"] = true
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}
