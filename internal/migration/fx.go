package migration

import (
	"github.com/smallbiznis/subscriptions/internal/config"
	"github.com/smallbiznis/subscriptions/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, dbCfg db.Config, log *zap.Logger) error {
		if !cfg.MigrateOnStart {
			return nil
		}

		if err := Up(conn, dbCfg.Type); err != nil {
			return err
		}
		log.Info("database schema up to date", zap.String("db_type", dbCfg.Type))
		return nil
	}),
)
