package routes

import (
	"net/http"

	"github.com/reviewscope/backend/internal/db"
	"github.com/reviewscope/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

func GetProductsHandler(c echo.Context) error {
	type getProductsParams struct {
		Search string `query:"search"`
		Limit  int32  `query:"limit"`
		Offset int32  `query:"offset"`
	}

	params := new(getProductsParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if params.Limit <= 0 || params.Limit > 100 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	products, err := q.ListProducts(ctx, db.ListProductsParams{
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, products)
}

func GetProductHandler(c echo.Context) error {
	type getProductParams struct {
		ParentASIN string `param:"parent_asin" validate:"required"`
	}

	params := new(getProductParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request params"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	q := db.New(conn)

	product, err := q.GetProduct(ctx, params.ParentASIN)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, product)
}
