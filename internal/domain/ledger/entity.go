// Package ledger 库存流水（出入库台账）
//
// 物料的当前库存等于它所有流水按创建顺序累加的结果：
//
//	IN: +quantity    OUT: -quantity    ADJUSTMENT: +quantity（可为负）
//
// 库存只在登记流水的同一个数据库事务里被修改，流水一经创建不可修改。
package ledger

import (
	"strings"
	"time"
)

// Type 流水类型
type Type string

const (
	// TypeIn 入库
	TypeIn Type = "IN"
	// TypeOut 出库
	TypeOut Type = "OUT"
	// TypeAdjustment 盘点调整（数量可正可负）
	TypeAdjustment Type = "ADJUSTMENT"
)

// ParseType 解析流水类型（不区分大小写）
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

// Valid 是否为合法的流水类型
func (t Type) Valid() bool {
	switch t {
	case TypeIn, TypeOut, TypeAdjustment:
		return true
	}
	return false
}

func (t Type) String() string {
	return string(t)
}

// Transaction 库存流水实体
type Transaction struct {
	ID          uint
	Type        Type
	Quantity    int // 按登记时的原值保存（ADJUSTMENT可为负）
	Notes       string
	ItemID      uint
	WarehouseID uint // 登记时物料所在仓库的副本
	UserID      uint
	StockBefore int
	StockAfter  int
	CreatedAt   time.Time

	// 关联信息（查询时填充）
	ItemSSID      string
	ItemName      string
	WarehouseName string
	Username      string
}

// Effect 流水对库存的带符号影响
func (t *Transaction) Effect() int {
	return SignedEffect(t.Type, t.Quantity)
}

// SignedEffect 计算带符号的库存变化量
func SignedEffect(t Type, quantity int) int {
	if t == TypeOut {
		return -quantity
	}
	return quantity
}

// Fold 按创建顺序累加流水，得到从0开始的库存
func Fold(txns []*Transaction) int {
	stock := 0
	for _, txn := range txns {
		stock += txn.Effect()
	}
	return stock
}
