package engine

import (
	"fmt"
	"time"

	"github.com/Bar0cc0/FinancialRisk/utils"
	"gorm.io/gorm"
)

// AcquireRunLock serializes runs for one as-of-date across instances using
// MySQL advisory locks. GET_LOCK is connection-scoped, so this must be
// called on the same *gorm.DB that performs the run's persistence.
func AcquireRunLock(tx *gorm.DB, asOfDate time.Time) error {
	lockName := runLockName(asOfDate)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire run lock for as_of_date=%s", asOfDate.Format(utils.DateLayout))
	}
	return nil
}

func ReleaseRunLock(tx *gorm.DB, asOfDate time.Time) {
	lockName := runLockName(asOfDate)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}

func runLockName(asOfDate time.Time) string {
	return fmt.Sprintf("ecl:run:%s", asOfDate.Format(utils.DateLayout))
}
