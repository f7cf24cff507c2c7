package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/usecase"
)

// CategoryHandler serves the shared rider category catalog.
type CategoryHandler struct {
	categories *usecase.CategoryService
}

// NewCategoryHandler builds a new category handler instance.
func NewCategoryHandler(categories *usecase.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// Create adds a category to the catalog.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid category payload"))
		return
	}

	category, err := h.categories.CreateCategory(c.Request.Context(), usecase.CategoryInput{
		Name:   req.Name,
		MinAge: req.MinAge,
		MaxAge: req.MaxAge,
		Gender: req.Gender,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "failed to create category"))
		return
	}

	c.JSON(http.StatusCreated, newCategoryPayload(*category))
}

// Get returns a single category.
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categories.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCategoryNotFound, Status: http.StatusNotFound, Message: "category not found"},
		}, http.StatusInternalServerError, "failed to load category")
		return
	}

	c.JSON(http.StatusOK, newCategoryPayload(*category))
}

// List returns the full category catalog.
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list categories"))
		return
	}

	payload := make([]CategoryPayload, 0, len(categories))
	for _, category := range categories {
		payload = append(payload, newCategoryPayload(category))
	}

	c.JSON(http.StatusOK, payload)
}

// Update replaces the definition of a category.
func (h *CategoryHandler) Update(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid category payload"))
		return
	}

	category, err := h.categories.UpdateCategory(c.Request.Context(), c.Param("id"), usecase.CategoryInput{
		Name:   req.Name,
		MinAge: req.MinAge,
		MaxAge: req.MaxAge,
		Gender: req.Gender,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCategoryNotFound, Status: http.StatusNotFound, Message: "category not found"},
		}, http.StatusBadRequest, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, newCategoryPayload(*category))
}

// Delete removes a category from the catalog.
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categories.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCategoryNotFound, Status: http.StatusNotFound, Message: "category not found"},
		}, http.StatusInternalServerError, "failed to delete category")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "category deleted"})
}
