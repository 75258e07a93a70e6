package mysql

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/warehouse/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 生产环境使用MySQL（行锁 SELECT ... FOR UPDATE 保证同一物料的库存串行更新）
// 2. 本地运行和测试可以使用sqlite（纯Go实现，无需CGO）
// 3. TranslateError开启后，唯一索引冲突统一返回gorm.ErrDuplicatedKey
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	// 1. 选择驱动
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	case "mysql", "":
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.LogSQL {
		logLevel = logger.Info
	}

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// sqlite只允许一个写连接；内存库在连接关闭后即销毁，所以保持1个常驻连接
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info("database connected", zap.String("driver", dialector.Name()))

	// 6. 自动迁移表结构
	// 生产环境应使用版本化的迁移脚本
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构（被引用的表在前）
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&WarehouseModel{},
		&CategoryModel{},
		&ItemModel{},
		&TransactionModel{},
		&SellerModel{},
		&PaymentModel{},
	)
}
