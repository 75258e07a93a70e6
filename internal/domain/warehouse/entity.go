package warehouse

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Warehouse 仓库实体
// 物料必须归属于一个仓库；仓库下还有物料时不允许删除
type Warehouse struct {
	ID          uint
	Name        string // 仓库名称（最长100字符）
	Location    string // 地址（最长200字符）
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewWarehouse 创建仓库（工厂方法）
func NewWarehouse(name, location, description string) (*Warehouse, error) {
	w := &Warehouse{}
	if err := w.UpdateInfo(name, location, description); err != nil {
		return nil, err
	}
	w.CreatedAt = w.UpdatedAt
	return w, nil
}

// UpdateInfo 更新仓库信息
// 业务规则：名称必填，名称≤100，地址≤200
func (w *Warehouse) UpdateInfo(name, location, description string) error {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)

	if name == "" || utf8.RuneCountInString(name) > 100 {
		return ErrInvalidName
	}
	if utf8.RuneCountInString(location) > 200 {
		return ErrInvalidLocation
	}

	w.Name = name
	w.Location = location
	w.Description = strings.TrimSpace(description)
	w.UpdatedAt = time.Now()
	return nil
}
