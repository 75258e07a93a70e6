package mysql

import (
	"time"

	"github.com/shopspring/decimal"
)

// 以下是infrastructure层的GORM模型，domain层实体不依赖GORM
// Repository负责两者之间的转换

// UserModel 用户表
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:80;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex;size:120;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role      string    `gorm:"size:20;not null;comment:角色(admin/manager/staff)"`
	IsActive  bool      `gorm:"not null;comment:是否启用"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// WarehouseModel 仓库表
type WarehouseModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;comment:仓库名称"`
	Location    string    `gorm:"size:200;comment:地址"`
	Description string    `gorm:"type:text;comment:描述"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// CategoryModel 分类表
// 名称唯一索引保证GetOrCreate并发安全
type CategoryModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:100;not null;comment:分类名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// ItemModel 物料表
// 1. ssid唯一索引，重复插入返回ErrDuplicateSSID
// 2. 仓库外键RESTRICT：仓库下有物料时数据库层面也拒绝删除
// 3. 单价DECIMAL(10,2)
type ItemModel struct {
	ID           uint            `gorm:"primaryKey"`
	SSID         string          `gorm:"column:ssid;uniqueIndex;size:50;not null;comment:物料唯一编码"`
	Name         string          `gorm:"size:200;not null;index:idx_item_name;comment:名称"`
	Description  string          `gorm:"type:text;comment:描述"`
	Unit         string          `gorm:"size:20;not null;comment:计量单位"`
	CurrentStock int             `gorm:"not null;default:0;comment:当前库存"`
	ReorderLevel int             `gorm:"not null;comment:补货线"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;comment:单价"`
	WarehouseID  uint            `gorm:"index;not null;comment:所属仓库"`
	CategoryID   uint            `gorm:"index;not null;comment:所属分类"`
	CreatedAt    time.Time       `gorm:"index;comment:创建时间"`
	UpdatedAt    time.Time       `gorm:"comment:更新时间"`

	Warehouse *WarehouseModel `gorm:"foreignKey:WarehouseID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Category  *CategoryModel  `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName 指定表名
func (ItemModel) TableName() string {
	return "items"
}

// TransactionModel 库存流水表
// warehouse_id是登记时的副本，不建外键（物料换仓库后历史流水保持原值）
type TransactionModel struct {
	ID          uint      `gorm:"primaryKey"`
	Type        string    `gorm:"size:20;not null;index:idx_txn_type;comment:流水类型(IN/OUT/ADJUSTMENT)"`
	Quantity    int       `gorm:"not null;comment:数量(原值)"`
	Notes       string    `gorm:"type:text;comment:备注"`
	ItemID      uint      `gorm:"not null;index:idx_txn_item_created,priority:1;comment:物料ID"`
	WarehouseID uint      `gorm:"not null;index;comment:登记时所在仓库"`
	UserID      uint      `gorm:"not null;index;comment:操作人"`
	StockBefore int       `gorm:"not null;comment:登记前库存"`
	StockAfter  int       `gorm:"not null;comment:登记后库存"`
	CreatedAt   time.Time `gorm:"index:idx_txn_item_created,priority:2;index;comment:创建时间"`

	Item *ItemModel `gorm:"foreignKey:ItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User *UserModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName 指定表名
func (TransactionModel) TableName() string {
	return "stock_transactions"
}

// SellerModel 供应商表
type SellerModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:128;not null;index;comment:名称"`
	Email     string    `gorm:"size:120;comment:邮箱"`
	Phone     string    `gorm:"size:30;comment:电话"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (SellerModel) TableName() string {
	return "sellers"
}

// PaymentModel 付款表
type PaymentModel struct {
	ID            uint            `gorm:"primaryKey"`
	SellerID      *uint           `gorm:"index;comment:供应商(可选)"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null;comment:金额"`
	Currency      string          `gorm:"size:3;not null;comment:币种"`
	Method        string          `gorm:"size:10;comment:付款方式(card/bank/cash)"`
	Status        string          `gorm:"size:20;not null;index;comment:状态(pending/completed/refunded)"`
	Notes         string          `gorm:"type:text;comment:备注"`
	ProcessedByID uint            `gorm:"not null;index;comment:登记人"`
	CreatedAt     time.Time       `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time       `gorm:"comment:更新时间"`

	Seller      *SellerModel `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	ProcessedBy *UserModel   `gorm:"foreignKey:ProcessedByID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName 指定表名
func (PaymentModel) TableName() string {
	return "payments"
}
