package repositories

import (
	"fmt"
	"math"
	"strings"
	"time"

	"equipment-inventory/internal/dto"

	sq "github.com/Masterminds/squirrel"
)

const (
	equipmentTable = "equipment"
	categoryTable  = "categories"
	locationTable  = "locations"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Join описывает INNER JOIN справочника по внешнему ключу.
type Join struct {
	Table   string
	Alias   string
	OnLeft  string
	OnRight string
}

func (j *Join) SQLIdentifierForJoin() string {
	return fmt.Sprintf("%s AS %s", j.Table, j.Alias)
}

func applyJoins(builder sq.SelectBuilder, joins []Join) sq.SelectBuilder {
	for _, join := range joins {
		builder = builder.Join(fmt.Sprintf("%s ON %s = %s", join.SQLIdentifierForJoin(), join.OnLeft, join.OnRight))
	}
	return builder
}

// storableID сообщает, помещается ли id в BIGINT. Больших id в таблицах нет,
// поэтому запросы с ними не отправляются.
func storableID(id uint64) bool {
	return id <= math.MaxInt64
}

// Проекция оборудования: порядок колонок совпадает с scanEquipment.
var equipmentProjectionColumns = []string{
	"e.id",
	"e.name",
	"e.serial_number",
	"e.category_id",
	"c.name",
	"e.location_id",
	"l.name",
	"e.purchase_date",
	"e.status",
}

var equipmentRelations = []Join{
	{Table: categoryTable, Alias: "c", OnLeft: "c.id", OnRight: "e.category_id"},
	{Table: locationTable, Alias: "l", OnLeft: "l.id", OnRight: "e.location_id"},
}

func equipmentFrom() string {
	return equipmentTable + " AS e"
}

// applyEquipmentFilter добавляет только заданные условия; условия независимы.
func applyEquipmentFilter(builder sq.SelectBuilder, filter dto.EquipmentFilter) sq.SelectBuilder {
	if filter.Name.Valid {
		builder = builder.Where(sq.ILike{"e.name": "%" + escapeLike(filter.Name.String) + "%"})
	}
	if filter.PurchaseDate.Valid {
		from, to := dayBounds(filter.PurchaseDate.Time)
		builder = builder.Where(sq.GtOrEq{"e.purchase_date": from}).Where(sq.Lt{"e.purchase_date": to})
	}
	if filter.CategoryID.Valid {
		if storableID(filter.CategoryID.Uint64) {
			builder = builder.Where(sq.Eq{"e.category_id": filter.CategoryID.Uint64})
		} else {
			builder = builder.Where("FALSE")
		}
	}
	return builder
}

func buildEquipmentListQuery(filter dto.EquipmentFilter, limit, offset uint64) (string, []interface{}, error) {
	builder := psql.Select(equipmentProjectionColumns...).From(equipmentFrom())
	builder = applyJoins(builder, equipmentRelations)
	builder = applyEquipmentFilter(builder, filter)
	builder = builder.OrderBy("e.id ASC").Limit(limit).Offset(offset)
	return builder.ToSql()
}

func buildEquipmentCountQuery(filter dto.EquipmentFilter) (string, []interface{}, error) {
	builder := psql.Select("COUNT(*)").From(equipmentFrom())
	builder = applyEquipmentFilter(builder, filter)
	return builder.ToSql()
}

func buildEquipmentByIDQuery(id uint64) (string, []interface{}, error) {
	builder := psql.Select(equipmentProjectionColumns...).From(equipmentFrom())
	builder = applyJoins(builder, equipmentRelations)
	return builder.Where(sq.Eq{"e.id": id}).ToSql()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// dayBounds возвращает [начало дня, начало следующего дня) в часовом поясе значения.
func dayBounds(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}
