package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"companyapi/internal/model"
	"companyapi/internal/repository"
)

const companyColumns = `id, legal_name, document_type, document_number, tax_condition, address,
		district, province, department, is_withholding_agent, status,
		created_by, created_at, modified_by, modified_at, deleted_by, deleted_at`

// CompanyPostgres is a PostgreSQL implementation of repository.CompanyRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type CompanyPostgres struct {
	db *sql.DB
}

// NewCompanyPostgres creates a new CompanyPostgres repository.
func NewCompanyPostgres(db *sql.DB) *CompanyPostgres {
	return &CompanyPostgres{db: db}
}

var _ repository.CompanyRepository = (*CompanyPostgres)(nil)

// FindByID fetches a single company by its ID. A missing row is not an error.
func (r *CompanyPostgres) FindByID(ctx context.Context, id int64) (*model.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM company WHERE id = $1`
	c, err := scanCompany(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("find company", err)
	}
	return c, nil
}

// FindAll returns every company, active or not, ordered by ID.
func (r *CompanyPostgres) FindAll(ctx context.Context) ([]model.Company, error) {
	q := `SELECT ` + companyColumns + ` FROM company ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classify("list companies", err)
	}
	defer rows.Close()

	items := make([]model.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, classify("scan company", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list companies", err)
	}
	return items, nil
}

// Save inserts a new row when c.ID is zero, otherwise upserts the row with c.ID.
func (r *CompanyPostgres) Save(ctx context.Context, c *model.Company) (*model.Company, error) {
	args := []any{
		c.LegalName,
		c.DocumentType,
		c.DocumentNumber,
		c.TaxCondition,
		c.Address,
		c.District,
		c.Province,
		c.Department,
		c.IsWithholdingAgent,
		int(c.Status),
		c.CreatedBy,
		c.CreatedAt,
		c.ModifiedBy,
		c.ModifiedAt,
		c.DeletedBy,
		c.DeletedAt,
	}

	var q string
	if c.ID == 0 {
		q = `
		INSERT INTO company (legal_name, document_type, document_number, tax_condition, address,
			district, province, department, is_withholding_agent, status,
			created_by, created_at, modified_by, modified_at, deleted_by, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + companyColumns
	} else {
		q = `
		INSERT INTO company (id, legal_name, document_type, document_number, tax_condition, address,
			district, province, department, is_withholding_agent, status,
			created_by, created_at, modified_by, modified_at, deleted_by, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			legal_name = EXCLUDED.legal_name,
			document_type = EXCLUDED.document_type,
			document_number = EXCLUDED.document_number,
			tax_condition = EXCLUDED.tax_condition,
			address = EXCLUDED.address,
			district = EXCLUDED.district,
			province = EXCLUDED.province,
			department = EXCLUDED.department,
			is_withholding_agent = EXCLUDED.is_withholding_agent,
			status = EXCLUDED.status,
			created_by = EXCLUDED.created_by,
			created_at = EXCLUDED.created_at,
			modified_by = EXCLUDED.modified_by,
			modified_at = EXCLUDED.modified_at,
			deleted_by = EXCLUDED.deleted_by,
			deleted_at = EXCLUDED.deleted_at
		RETURNING ` + companyColumns
		args = append([]any{c.ID}, args...)
	}

	out, err := scanCompany(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, classify("save company", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*model.Company, error) {
	var c model.Company
	if err := row.Scan(
		&c.ID,
		&c.LegalName,
		&c.DocumentType,
		&c.DocumentNumber,
		&c.TaxCondition,
		&c.Address,
		&c.District,
		&c.Province,
		&c.Department,
		&c.IsWithholdingAgent,
		&c.Status,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.ModifiedBy,
		&c.ModifiedAt,
		&c.DeletedBy,
		&c.DeletedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// classify wraps err with op and, when recognized, with one of the repository sentinels.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"), pgErr.Code == "22001":
			return fmt.Errorf("%s: %w: %w", op, repository.ErrConstraintViolation, err)
		case strings.HasPrefix(pgErr.Code, "08"),
			pgErr.Code == "57P01", pgErr.Code == "57P02", pgErr.Code == "57P03":
			return fmt.Errorf("%s: %w: %w", op, repository.ErrStoreUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, repository.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
