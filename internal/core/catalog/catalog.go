package catalog

import (
	"fmt"
	"os"

	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"

	"go.uber.org/zap"
)

// Catalog 產品目錄與成分字典
// 進程啟動時載入一次，之後唯讀共享；任何元件都不得修改
type Catalog struct {
	products    []common.Product
	ingredients []common.IngredientInfo
}

// Load 從設定的 JSON 檔載入目錄
// 條目缺少必要欄位屬於資料載入缺陷，直接回傳錯誤讓啟動失敗
func Load(cfg *config.Config) (*Catalog, error) {
	products, err := loadProducts(cfg.Catalog.ProductsPath)
	if err != nil {
		return nil, err
	}

	ingredients, err := loadIngredients(cfg.Catalog.IngredientsPath)
	if err != nil {
		return nil, err
	}

	c := &Catalog{
		products:    products,
		ingredients: ingredients,
	}

	common.LogInfo("產品目錄已載入",
		zap.Int("products", len(products)),
		zap.Int("ingredients", len(ingredients)),
	)

	return c, nil
}

// loadProducts 載入並驗證產品目錄
func loadProducts(path string) ([]common.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product catalog: %w", err)
	}

	var products []common.Product
	if err := common.ParseJSONBytes(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse product catalog: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product catalog is empty: %s", path)
	}

	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if p.ID == "" || p.Name == "" || p.Category == "" {
			return nil, fmt.Errorf("%w: product at index %d is missing id/name/category", common.ErrCatalogCorrupted, i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", common.ErrCatalogCorrupted, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return products, nil
}

// loadIngredients 載入並驗證成分字典
func loadIngredients(path string) ([]common.IngredientInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredient dictionary: %w", err)
	}

	var ingredients []common.IngredientInfo
	if err := common.ParseJSONBytes(data, &ingredients); err != nil {
		return nil, fmt.Errorf("failed to parse ingredient dictionary: %w", err)
	}

	for i, ing := range ingredients {
		if ing.Name == "" {
			return nil, fmt.Errorf("%w: ingredient at index %d is missing name", common.ErrCatalogCorrupted, i)
		}
	}

	return ingredients, nil
}

// Products 取得產品清單（唯讀）
func (c *Catalog) Products() []common.Product {
	return c.products
}

// Ingredients 取得成分字典（唯讀）
func (c *Catalog) Ingredients() []common.IngredientInfo {
	return c.ingredients
}

// Size 目錄大小
func (c *Catalog) Size() int {
	return len(c.products)
}
