// Package dataset reads raw job listings from a CSV export or a SQL table.
package dataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/jobscope/internal/domain/model"
)

// Source kinds.
const (
	KindCSV      = "csv"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
)

// Dataset column names, shared by the CSV header and SQL tables.
const (
	ColumnJobID          = "uniq_id"
	ColumnTitle          = "jobtitle"
	ColumnCompany        = "company"
	ColumnLocation       = "joblocation_address"
	ColumnSkills         = "skills"
	ColumnDescription    = "jobdescription"
	ColumnEmploymentType = "employmenttype_jobstatus"
	ColumnPostDate       = "postdate"
)

// Columns lists the dataset columns in export order.
var Columns = []string{ //nolint:gochecknoglobals // fixed column layout
	ColumnTitle, ColumnLocation, ColumnSkills, ColumnDescription,
	ColumnEmploymentType, ColumnPostDate, ColumnCompany, ColumnJobID,
}

// Source yields raw listings in a stable order.
type Source interface {
	Load(ctx context.Context) ([]model.RawListing, error)
	Name() string
}

// New builds the source for kind. location is a file path for csv and a DSN
// for SQL kinds.
func New(kind, location, table string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindCSV:
		return NewCSVSource(location), nil
	case KindSQLite, KindPostgres:
		return NewSQLSource(kind, location, table)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

// set assigns value to the RawListing field mapped to column.
func set(raw *model.RawListing, column, value string) {
	switch column {
	case ColumnJobID:
		raw.JobID = value
	case ColumnTitle:
		raw.Title = value
	case ColumnCompany:
		raw.Company = value
	case ColumnLocation:
		raw.LocationAddress = value
	case ColumnSkills:
		raw.Skills = value
	case ColumnDescription:
		raw.Description = value
	case ColumnEmploymentType:
		raw.EmploymentType = value
	case ColumnPostDate:
		raw.PostedAt = value
	}
}

// Values returns raw's fields in Columns order.
func Values(raw *model.RawListing) []string {
	return []string{
		raw.Title, raw.LocationAddress, raw.Skills, raw.Description,
		raw.EmploymentType, raw.PostedAt, raw.Company, raw.JobID,
	}
}
