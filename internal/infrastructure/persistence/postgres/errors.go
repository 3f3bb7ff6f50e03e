package postgres

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isForeignKeyViolation reconhece a violação traduzida pelo GORM e, como
// fallback, a mensagem crua do SQLite usada nos testes
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
