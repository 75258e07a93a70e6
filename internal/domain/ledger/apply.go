package ledger

// Apply 计算登记一笔流水后的库存
// 业务规则：
// 1. IN/OUT数量必须>0，ADJUSTMENT接受任意整数（0是允许的空操作）
// 2. OUT数量大于当前库存时返回InsufficientStock（有override权限时放行）
// 3. ADJUSTMENT结果为负时返回NegativeStockRejected（有override权限时放行）
//
// Apply是纯函数，不修改任何状态；调用方负责在同一个事务里写流水和库存。
func Apply(current int, t Type, quantity int, canOverride bool) (int, error) {
	switch t {
	case TypeIn:
		if quantity <= 0 {
			return current, NewInvalidQuantity(t, quantity)
		}
		return current + quantity, nil

	case TypeOut:
		if quantity <= 0 {
			return current, NewInvalidQuantity(t, quantity)
		}
		if current < quantity && !canOverride {
			return current, NewInsufficientStock(current, quantity)
		}
		return current - quantity, nil

	case TypeAdjustment:
		next := current + quantity
		if next < 0 && !canOverride {
			return current, NewNegativeStockRejected(next)
		}
		return next, nil

	default:
		return current, ErrInvalidType
	}
}
