package dto

// WarehouseRequest 创建/编辑仓库请求
type WarehouseRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Location    string `json:"location" binding:"max=200"`
	Description string `json:"description"`
}
