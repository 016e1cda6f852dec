package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saintfish/chardet"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// Columnas reconocidas del archivo de import (cabecera obligatoria).
const (
	colName          = "name"
	colListPrice     = "list_price"
	colCategoryID    = "category_id"
	colStockQty      = "stock_qty"
	colBarcode       = "barcode"
	colPurchasePrice = "purchase_price"
	colTaxRate       = "tax_rate"
)

// ImportUseCase importación masiva de artículos desde CSV.
//
// Mejor esfuerzo y NO transaccional (garantía deliberadamente más débil que
// la ruta de comprobantes): cada fila se inserta por separado, una fila mala
// no aborta las siguientes y los errores se reportan en agregado al final.
type ImportUseCase struct {
	repo repository.ItemRepository
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(repo repository.ItemRepository) *ImportUseCase {
	return &ImportUseCase{repo: repo}
}

// ImportItems lee el CSV (detectando charset: archivos exportados de Excel
// suelen venir en Windows-1252/Latin-1), valida cada fila y la inserta.
func (uc *ImportUseCase) ImportItems(ctx context.Context, companyID string, r io.Reader) (*dto.ImportResponse, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer archivo: %w", err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrInvalidInput
	}
	raw = decodeToUTF8(raw)

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colName, colListPrice, colCategoryID, colStockQty} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("columna obligatoria ausente %q: %w", required, domain.ErrInvalidInput)
		}
	}

	resp := &dto.ImportResponse{}
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: rowNum, Message: "fila CSV malformada"})
			continue
		}
		item, rowErr := buildItemFromRow(companyID, record, cols)
		if rowErr != "" {
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: rowNum, Message: rowErr})
			continue
		}
		if err := uc.repo.Create(item); err != nil {
			resp.Errors = append(resp.Errors, dto.ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		resp.Imported++
	}
	return resp, nil
}

// buildItemFromRow valida los campos obligatorios de la fila (name,
// list_price > 0, category_id, stock_qty ≥ 0) y arma la entidad.
func buildItemFromRow(companyID string, record []string, cols map[string]int) (*entity.Item, string) {
	get := func(col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := get(colName)
	if name == "" {
		return nil, "name es obligatorio"
	}
	listPrice, err := decimal.NewFromString(get(colListPrice))
	if err != nil || !listPrice.GreaterThan(decimal.Zero) {
		return nil, "list_price debe ser un número mayor que 0"
	}
	categoryID := get(colCategoryID)
	if categoryID == "" {
		return nil, "category_id es obligatorio"
	}
	stock, err := decimal.NewFromString(get(colStockQty))
	if err != nil || stock.IsNegative() {
		return nil, "stock_qty debe ser un número no negativo"
	}

	purchasePrice := decimal.Zero
	if s := get(colPurchasePrice); s != "" {
		if purchasePrice, err = decimal.NewFromString(s); err != nil || purchasePrice.IsNegative() {
			return nil, "purchase_price inválido"
		}
	}
	taxRate := decimal.Zero
	if s := get(colTaxRate); s != "" {
		if taxRate, err = decimal.NewFromString(s); err != nil || taxRate.IsNegative() {
			return nil, "tax_rate inválido"
		}
	}

	now := time.Now()
	return &entity.Item{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Name:          name,
		Barcode:       get(colBarcode),
		CategoryID:    categoryID,
		ListPrice:     listPrice,
		PurchasePrice: purchasePrice,
		TaxRate:       taxRate,
		StockOnHand:   stock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, ""
}

// decodeToUTF8 detecta el charset y convierte a UTF-8 si el archivo viene en
// Latin-1/Windows-1252.
func decodeToUTF8(raw []byte) []byte {
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return raw
	}
	switch result.Charset {
	case "ISO-8859-1", "windows-1252":
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return raw
		}
		return decoded
	}
	return raw
}
