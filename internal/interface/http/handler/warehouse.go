package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/warehouse/internal/application/category"
	appwarehouse "github.com/xiebiao/warehouse/internal/application/warehouse"
	"github.com/xiebiao/warehouse/internal/interface/http/dto"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/pkg/response"
)

// WarehouseHandler 仓库和分类接口
type WarehouseHandler struct {
	useCase    *appwarehouse.UseCase
	categories *appcategory.ListCategoriesUseCase
}

// NewWarehouseHandler 创建仓库处理器
func NewWarehouseHandler(useCase *appwarehouse.UseCase, categories *appcategory.ListCategoriesUseCase) *WarehouseHandler {
	return &WarehouseHandler{useCase: useCase, categories: categories}
}

// CreateWarehouse 创建仓库
// @Summary      创建仓库
// @Tags         仓库
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.WarehouseRequest true "仓库信息"
// @Success      200 {object} response.Response{data=appwarehouse.WarehouseDTO}
// @Failure      200 {object} response.Response "40104 无权限"
// @Router       /api/v1/warehouses [post]
func (h *WarehouseHandler) CreateWarehouse(c *gin.Context) {
	var req dto.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.useCase.Create(c.Request.Context(), appwarehouse.WarehouseRequest{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Actor:       middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateWarehouse 编辑仓库
// @Summary      编辑仓库
// @Tags         仓库
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "仓库ID"
// @Param        request body dto.WarehouseRequest true "仓库信息"
// @Success      200 {object} response.Response{data=appwarehouse.WarehouseDTO}
// @Router       /api/v1/warehouses/{id} [put]
func (h *WarehouseHandler) UpdateWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.WarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.useCase.Update(c.Request.Context(), id, appwarehouse.WarehouseRequest{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		Actor:       middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteWarehouse 删除仓库
// @Summary      删除仓库
// @Description  仓库中仍有物料时拒绝删除
// @Tags         仓库
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "仓库ID"
// @Success      200 {object} response.Response
// @Failure      200 {object} response.Response "40003 仓库仍有物料"
// @Router       /api/v1/warehouses/{id} [delete]
func (h *WarehouseHandler) DeleteWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), id, middleware.GetActor(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}

// GetWarehouse 仓库详情（含物料数量）
// @Summary      仓库详情
// @Tags         仓库
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "仓库ID"
// @Success      200 {object} response.Response{data=appwarehouse.WarehouseDTO}
// @Router       /api/v1/warehouses/{id} [get]
func (h *WarehouseHandler) GetWarehouse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListWarehouses 仓库列表
// @Summary      仓库列表
// @Tags         仓库
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appwarehouse.WarehouseDTO}
// @Router       /api/v1/warehouses [get]
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	result, err := h.useCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListCategories 分类列表
// @Summary      分类列表
// @Tags         仓库
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]appcategory.CategoryDTO}
// @Router       /api/v1/categories [get]
func (h *WarehouseHandler) ListCategories(c *gin.Context) {
	result, err := h.categories.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
