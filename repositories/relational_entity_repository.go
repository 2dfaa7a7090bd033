package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/civicwaste/swm-backend/models"
	"github.com/civicwaste/swm-backend/utils"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

type executorGetter interface {
	GetExecutor() Executor
}

// RelationalEntityRepository applies generic mutations to the tables of the swm schema.
// Table names only ever come from the entity catalog and every column name taken from a
// payload is validated and quoted before it reaches the statement.
type RelationalEntityRepository struct {
	executorGetter executorGetter
}

func NewRelationalEntityRepository(executorGetter executorGetter) *RelationalEntityRepository {
	return &RelationalEntityRepository{executorGetter: executorGetter}
}

func tableIdentifier(entity models.Entity) (string, error) {
	if entity.Backend != models.BackendRelational {
		return "", errors.Wrapf(models.ErrUnknownEntity, "%s is not a relational entity", entity.Type)
	}
	return pgx.Identifier{entity.Schema, entity.Table}.Sanitize(), nil
}

func columnIdentifier(name string) (string, error) {
	if err := utils.ValidateColumnIdentifier(name); err != nil {
		return "", err
	}
	// columns are created unquoted, so postgres stores them folded to lower case
	return pgx.Identifier{strings.ToLower(name)}.Sanitize(), nil
}

type columnValue struct {
	column string
	value  any
}

// payloadColumns decodes a JSON object into quoted column/value pairs, sorted by column
// name so generated statements are stable.
func payloadColumns(payload json.RawMessage, skipColumn string) ([]columnValue, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, models.ErrEmptyChanges
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, errors.Wrap(models.BadParameterError, "changes must be a JSON object")
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		if !strings.EqualFold(name, skipColumn) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, models.ErrEmptyChanges
	}
	sort.Strings(names)

	columns := make([]columnValue, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		column, err := columnIdentifier(name)
		if err != nil {
			return nil, err
		}
		if previous, ok := seen[column]; ok {
			return nil, errors.Wrapf(models.ErrInvalidColumn, "%q and %q name the same column", previous, name)
		}
		seen[column] = name
		columns = append(columns, columnValue{column: column, value: fields[name]})
	}
	return columns, nil
}

func (repo *RelationalEntityRepository) InsertEntity(ctx context.Context, entity models.Entity, payload json.RawMessage) (string, error) {
	table, err := tableIdentifier(entity)
	if err != nil {
		return "", err
	}
	idColumn, err := columnIdentifier(entity.IdColumn)
	if err != nil {
		return "", err
	}
	columns, err := payloadColumns(payload, "")
	if err != nil {
		return "", err
	}

	names := make([]string, len(columns))
	values := make([]any, len(columns))
	for i, c := range columns {
		names[i] = c.column
		values[i] = c.value
	}

	query, args, err := NewQueryBuilder().
		Insert(table).
		Columns(names...).
		Values(values...).
		Suffix(fmt.Sprintf("RETURNING %s::text", idColumn)).
		ToSql()
	if err != nil {
		return "", errors.Wrap(err, "can't build insert query")
	}

	var id string
	err = repo.executorGetter.GetExecutor().QueryRow(ctx, query, args...).Scan(&id)
	if err != nil {
		return "", errors.Wrapf(translatePgError(err), "error inserting into %s", table)
	}
	return id, nil
}

func (repo *RelationalEntityRepository) UpdateEntity(ctx context.Context, entity models.Entity, id string, payload json.RawMessage) error {
	table, err := tableIdentifier(entity)
	if err != nil {
		return err
	}
	idColumn, err := columnIdentifier(entity.IdColumn)
	if err != nil {
		return err
	}
	columns, err := payloadColumns(payload, entity.IdColumn)
	if err != nil {
		return err
	}

	builder := NewQueryBuilder().Update(table)
	for _, c := range columns {
		builder = builder.Set(c.column, c.value)
	}
	builder = builder.Where(squirrel.Eq{idColumn: id})

	affected, err := ExecBuilder(ctx, repo.executorGetter.GetExecutor(), builder)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(models.NotFoundError, "no %s with id %s", entity.Type, id)
	}
	return nil
}

func (repo *RelationalEntityRepository) DeleteEntity(ctx context.Context, entity models.Entity, id string) error {
	table, err := tableIdentifier(entity)
	if err != nil {
		return err
	}
	idColumn, err := columnIdentifier(entity.IdColumn)
	if err != nil {
		return err
	}

	affected, err := ExecBuilder(ctx, repo.executorGetter.GetExecutor(),
		NewQueryBuilder().Delete(table).Where(squirrel.Eq{idColumn: id}))
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.Wrapf(models.NotFoundError, "no %s with id %s", entity.Type, id)
	}
	return nil
}

func rowToEntity(row pgx.CollectableRow) (models.EntityRow, error) {
	values, err := pgx.RowToMap(row)
	if err != nil {
		return nil, err
	}
	return models.EntityRow(values), nil
}

func (repo *RelationalEntityRepository) GetEntity(ctx context.Context, entity models.Entity, id string) (models.EntityRow, error) {
	table, err := tableIdentifier(entity)
	if err != nil {
		return nil, err
	}
	idColumn, err := columnIdentifier(entity.IdColumn)
	if err != nil {
		return nil, err
	}

	return SqlToRow(ctx, repo.executorGetter.GetExecutor(),
		NewQueryBuilder().Select("*").From(table).Where(squirrel.Eq{idColumn: id}),
		rowToEntity)
}

func (repo *RelationalEntityRepository) ListEntities(
	ctx context.Context,
	entity models.Entity,
	pagination models.Pagination,
) (models.Paginated[models.EntityRow], error) {
	pagination = pagination.Normalize()
	table, err := tableIdentifier(entity)
	if err != nil {
		return models.Paginated[models.EntityRow]{}, err
	}
	idColumn, err := columnIdentifier(entity.IdColumn)
	if err != nil {
		return models.Paginated[models.EntityRow]{}, err
	}
	exec := repo.executorGetter.GetExecutor()

	countQuery, countArgs, err := NewQueryBuilder().Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return models.Paginated[models.EntityRow]{}, errors.Wrap(err, "can't build count query")
	}
	var total int64
	if err := exec.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return models.Paginated[models.EntityRow]{}, errors.Wrapf(err, "error counting rows of %s", table)
	}

	rows, err := SqlToListOfRow(ctx, exec,
		NewQueryBuilder().
			Select("*").
			From(table).
			OrderBy(idColumn).
			Limit(uint64(pagination.Limit)).
			Offset(uint64(pagination.Offset())),
		rowToEntity)
	if err != nil {
		return models.Paginated[models.EntityRow]{}, err
	}

	return models.Paginated[models.EntityRow]{
		Items:      rows,
		Pagination: pagination,
		Total:      total,
	}, nil
}
