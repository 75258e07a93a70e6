package handler

import (
	"github.com/gin-gonic/gin"

	appitem "github.com/xiebiao/warehouse/internal/application/item"
	"github.com/xiebiao/warehouse/internal/interface/http/dto"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/pkg/response"
)

// ItemHandler 物料接口
type ItemHandler struct {
	createUseCase *appitem.CreateItemUseCase
	updateUseCase *appitem.UpdateItemUseCase
	deleteUseCase *appitem.DeleteItemUseCase
	queryUseCase  *appitem.QueryItemUseCase
}

// NewItemHandler 创建物料处理器
func NewItemHandler(
	createUseCase *appitem.CreateItemUseCase,
	updateUseCase *appitem.UpdateItemUseCase,
	deleteUseCase *appitem.DeleteItemUseCase,
	queryUseCase *appitem.QueryItemUseCase,
) *ItemHandler {
	return &ItemHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		queryUseCase:  queryUseCase,
	}
}

// CreateItem 创建物料
// @Summary      创建物料
// @Description  SSID为空时自动生成；分类不存在时自动创建；期初库存登记为一笔IN流水
// @Tags         物料
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateItemRequest true "物料信息"
// @Success      200 {object} response.Response{data=appitem.ItemDTO}
// @Failure      200 {object} response.Response "40004 SSID已存在 / 40104 无权限 / 40403 仓库不存在"
// @Router       /api/v1/items [post]
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), appitem.CreateItemRequest{
		SSID:         req.SSID,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Unit:         req.Unit,
		InitialStock: req.InitialStock,
		ReorderLevel: req.ReorderLevel,
		UnitPrice:    req.UnitPrice,
		WarehouseID:  req.WarehouseID,
		Actor:        middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateItem 编辑物料
// @Summary      编辑物料
// @Description  只修改元数据，SSID和库存不可修改
// @Tags         物料
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "物料ID"
// @Param        request body dto.UpdateItemRequest true "物料信息"
// @Success      200 {object} response.Response{data=appitem.ItemDTO}
// @Router       /api/v1/items/{id} [put]
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), appitem.UpdateItemRequest{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Unit:         req.Unit,
		ReorderLevel: req.ReorderLevel,
		UnitPrice:    req.UnitPrice,
		WarehouseID:  req.WarehouseID,
		Actor:        middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteItem 删除物料
// @Summary      删除物料
// @Description  同时删除该物料的全部流水
// @Tags         物料
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "物料ID"
// @Success      200 {object} response.Response{data=appitem.DeleteItemResponse}
// @Router       /api/v1/items/{id} [delete]
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.deleteUseCase.Execute(c.Request.Context(), id, middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetItem 物料详情
// @Summary      物料详情
// @Description  包含最近10条流水
// @Tags         物料
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "物料ID"
// @Success      200 {object} response.Response{data=appitem.ItemDetailResponse}
// @Failure      200 {object} response.Response "40402 物料不存在"
// @Router       /api/v1/items/{id} [get]
func (h *ItemHandler) GetItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.queryUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListItems 物料列表
// @Summary      物料列表
// @Tags         物料
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(20)
// @Param        warehouse_id query int false "仓库ID"
// @Param        category_id query int false "分类ID"
// @Param        keyword query string false "SSID或名称关键字"
// @Param        low_stock query bool false "只看低库存"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appitem.ItemDTO}}
// @Router       /api/v1/items [get]
func (h *ItemHandler) ListItems(c *gin.Context) {
	var q dto.ListItemsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.queryUseCase.List(c.Request.Context(), appitem.ListItemsRequest{
		Page:        q.Page,
		PageSize:    q.PageSize,
		WarehouseID: q.WarehouseID,
		CategoryID:  q.CategoryID,
		Keyword:     q.Keyword,
		LowStock:    q.LowStock,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// GetStockBySSID 按SSID查询库存
// @Summary      按SSID查询库存
// @Description  扫码场景使用，结果缓存在Redis中
// @Tags         物料
// @Produce      json
// @Security     BearerAuth
// @Param        ssid path string true "SSID"
// @Success      200 {object} response.Response{data=port.StockSnapshot}
// @Router       /api/v1/items/ssid/{ssid}/stock [get]
func (h *ItemHandler) GetStockBySSID(c *gin.Context) {
	result, err := h.queryUseCase.GetStockBySSID(c.Request.Context(), c.Param("ssid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SearchBySSID SSID搜索
// @Summary      SSID搜索
// @Description  先按SSID精确匹配，找不到时按SSID/名称模糊匹配（最多20条）
// @Tags         物料
// @Produce      json
// @Security     BearerAuth
// @Param        ssid query string true "SSID"
// @Success      200 {object} response.Response{data=[]appitem.ItemDTO}
// @Router       /api/v1/items/search [get]
func (h *ItemHandler) SearchBySSID(c *gin.Context) {
	result, err := h.queryUseCase.SearchBySSID(c.Request.Context(), c.Query("ssid"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
