package dto

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU   string `json:"sku"`
	Name  string `json:"name"`
	Price string `json:"price"` // decimal como string
	Cost  string `json:"cost"`  // decimal como string
}

// ProductDTO producto del catálogo.
type ProductDTO struct {
	ID        int64  `json:"id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Cost      string `json:"cost"`
	IsDeleted bool   `json:"is_deleted"`
}

// CreateLocationRequest body para POST /api/locations.
type CreateLocationRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// LocationDTO ubicación de inventario.
type LocationDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
