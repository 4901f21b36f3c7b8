package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

type Database struct {
	*bun.DB
}

func NewDatabase(username, password, host, port, name string, disableTLS bool) *Database {
	sslMode := "require"
	if disableTLS {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		username, password, host, port, name, sslMode)

	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqlDB, pgdialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithEnabled(false), bundebug.FromEnv("BUNDEBUG")))

	return &Database{DB: db}
}

// CheckClaims pulls the authenticated claims out of the context. When roles
// are given the caller must hold one of them.
func (d Database) CheckClaims(ctx context.Context, roles ...string) (auth.Claims, error) {
	claims, ok := ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("claims not found"), http.StatusUnauthorized)
	}

	if len(roles) > 0 && !claims.Authorized(roles...) {
		return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusUnauthorized)
	}

	return claims, nil
}

// ValidateStruct checks that the named fields of the request struct are set.
func (d Database) ValidateStruct(s interface{}, requiredFields ...string) error {
	v := reflect.ValueOf(s)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	var missing []string
	for _, name := range requiredFields {
		field := v.FieldByName(name)
		if !field.IsValid() {
			missing = append(missing, name)
			continue
		}
		if field.Kind() == reflect.Ptr && field.IsNil() {
			missing = append(missing, name)
			continue
		}
		if field.Kind() != reflect.Ptr && field.IsZero() {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return web.NewRequestError(errors.Errorf("required fields: %s", strings.Join(missing, ", ")), http.StatusBadRequest)
	}

	return nil
}

// DeleteRow soft-deletes a row recording who removed it.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	claims, err := d.CheckClaims(ctx)
	if err != nil {
		return err
	}

	q := d.NewUpdate().Table(table).Where("deleted_at IS NULL AND id = ?", id)
	q.Set("deleted_at = ?", time.Now())
	q.Set("deleted_by = ?", claims.UserId)

	result, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting from %s", table), http.StatusInternalServerError)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return web.NewRequestError(errors.Errorf("%s row not found", table), http.StatusNotFound)
	}

	return nil
}
