package mysql

import (
	"time"

	"posimarket/domain/shared"
	"posimarket/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

type UnitOfWorkFactory struct {
	db          *gorm.DB
	retryConfig retry.Config
	txTimeout   time.Duration
}

func NewUnitOfWorkFactory(db *gorm.DB, retryConfig retry.Config, txTimeout time.Duration) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:          db,
		retryConfig: retryConfig,
		txTimeout:   txTimeout,
	}
}

func (f *UnitOfWorkFactory) New() shared.UnitOfWork {
	uow := NewUnitOfWork(f.db)
	uow.SetRetryConfig(f.retryConfig)
	uow.SetTxTimeout(f.txTimeout)
	return uow
}

var _ shared.UnitOfWorkFactory = (*UnitOfWorkFactory)(nil)
