package mysql

import (
	"errors"
	"fmt"
	"strings"

	"Clubhouse_Hub/internal/repository"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

// translateError 唯一约束冲突统一包装为 repository.ErrDuplicate
func translateError(err error) error {
	if err == nil || !isDuplicate(err) {
		return err
	}
	return fmt.Errorf("%w: %v", repository.ErrDuplicate, err)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return true
	}
	// sqlite 方言未翻译时的兜底
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
