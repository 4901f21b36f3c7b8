package user

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"
	"lunch/backend/internal/entity"
	"lunch/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).
		Where("email = ? AND is_active AND deleted_at IS NULL", email).
		Scan(ctx)
	if err != nil {
		return entity.User{}, &web.Error{
			Err:    errors.New("user not found"),
			Status: http.StatusUnauthorized,
			Kind:   web.KindNotFound,
		}
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
			WHERE
				u.deleted_at IS NULL
			`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND
		(u.email ilike '%s' OR u.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	orderQuery := "ORDER BY u.created_at desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			u.id,
			u.email,
			u.full_name,
			u.role,
			u.is_active,
			u.created_at
		FROM users u
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Email,
			&detail.FullName,
			&detail.Role,
			&detail.IsActive,
			&detail.CreatedAt); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user list"), http.StatusInternalServerError)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(u.id)
		FROM users u
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

// Register creates a user. Anyone may self-register as an employee; creating
// an admin or chef account requires admin claims.
func (r Repository) Register(ctx context.Context, request RegisterRequest) (RegisterResponse, error) {
	if err := r.ValidateStruct(&request, "Email", "Password", "FullName"); err != nil {
		return RegisterResponse{}, err
	}

	role := auth.RoleEmployee
	if request.Role != nil {
		role = strings.ToUpper(*request.Role)
	}
	if role != auth.RoleEmployee {
		if _, err := r.CheckClaims(ctx, auth.RoleAdmin); err != nil {
			return RegisterResponse{}, err
		}
	}
	switch role {
	case auth.RoleAdmin, auth.RoleEmployee, auth.RoleChef:
	default:
		return RegisterResponse{}, web.NewRequestError(errors.Errorf("unknown role: %s", role), http.StatusBadRequest)
	}

	emailTaken := false
	if err := r.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = ? AND deleted_at IS NULL)`,
		*request.Email).Scan(&emailTaken); err != nil {
		return RegisterResponse{}, web.NewRequestError(errors.Wrap(err, "email check"), http.StatusInternalServerError)
	}
	if emailTaken {
		return RegisterResponse{}, web.NewRequestError(errors.New("email already registered"), http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegisterResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashStr := string(hash)

	var response RegisterResponse
	response.Email = request.Email
	response.Password = &hashStr
	response.FullName = request.FullName
	response.Role = &role
	response.CreatedAt = time.Now()

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return RegisterResponse{}, web.NewRequestError(errors.Wrap(err, "creating user"), http.StatusInternalServerError)
	}

	return response, nil
}

// ChefEmails lists delivery targets for the daily headcount message.
func (r Repository) ChefEmails(ctx context.Context) ([]string, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT email FROM users WHERE role = 'CHEF' AND is_active AND deleted_at IS NULL`)
	if err != nil {
		return nil, errors.Wrap(err, "selecting chef emails")
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err = rows.Scan(&email); err != nil {
			return nil, errors.Wrap(err, "scanning chef email")
		}
		emails = append(emails, email)
	}

	return emails, rows.Err()
}

func (r Repository) Delete(ctx context.Context, id int) error {
	if _, err := r.CheckClaims(ctx, auth.RoleAdmin); err != nil {
		return err
	}
	return r.DeleteRow(ctx, "users", id)
}
