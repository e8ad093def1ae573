package repository_test

import (
	"context"
	"errors"
	"testing"

	"hotel/infras/otel/mocks"
	"hotel/infras/postgres"
	"hotel/shared"
	gDto "hotel/shared/dto"
	"hotel/shared/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomRow struct {
	ID          string `db:"id"`
	RoomNumber  string `db:"room_number"`
	IsAvailable bool   `db:"is_available"`
}

type bookingRow struct {
	ID       string  `db:"id"`
	RoomID   *string `db:"room_id"`
	Status   string  `db:"status"`
	RoomName *string `db:"room_name" table:"rooms"`
	UserName *string `db:"user_name" table:"users" column:"full_name"`
}

func (bookingRow) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id LEFT JOIN users ON users.id = bookings.user_id"
}

func newConnection(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")

	return &postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mock
}

func TestRepository_InsertColumnsSkipJoinedFields(t *testing.T) {
	conn, _ := newConnection(t)

	repo := repository.NewRepository[bookingRow]("booking", "bookings", "id", conn, mocks.NewOtel())

	assert.Equal(t, []string{"id", "room_id", "status"}, repo.InsertColumns)
}

func TestRepository_Get(t *testing.T) {
	conn, mock := newConnection(t)
	repo := repository.NewRepository[roomRow]("room", "rooms", "id", conn, mocks.NewOtel())

	prep := mock.ExpectPrepare(`SELECT rooms.id, rooms.room_number, rooms.is_available FROM rooms\s+WHERE \(rooms.id = \$1\)`)
	prep.ExpectQuery().
		WithArgs("room-101").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "is_available"}).AddRow("room-101", "101", true))

	room, err := repo.Get(context.Background(), shared.FilterByID("room-101", "id", "rooms"))

	require.NoError(t, err)
	assert.Equal(t, roomRow{ID: "room-101", RoomNumber: "101", IsAvailable: true}, room)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNoRowsReturnsZeroValue(t *testing.T) {
	conn, mock := newConnection(t)
	repo := repository.NewRepository[roomRow]("room", "rooms", "id", conn, mocks.NewOtel())

	prep := mock.ExpectPrepare(`SELECT .* FROM rooms`)
	prep.ExpectQuery().WithArgs("missing").WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "is_available"}))

	room, err := repo.Get(context.Background(), shared.FilterByID("missing", "id", "rooms"))

	require.NoError(t, err)
	assert.Empty(t, room.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetWithJoinAndAlias(t *testing.T) {
	conn, mock := newConnection(t)
	repo := repository.NewRepository[bookingRow]("booking", "bookings", "id", conn, mocks.NewOtel())

	prep := mock.ExpectPrepare(`SELECT bookings.id, bookings.room_id, bookings.status, rooms.room_name, users.full_name AS user_name FROM bookings LEFT JOIN rooms ON rooms.id = bookings.room_id LEFT JOIN users ON users.id = bookings.user_id\s+WHERE \(bookings.id = \$1\)`)
	prep.ExpectQuery().
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "status", "room_name", "user_name"}).
			AddRow("booking-1", "room-101", "pending", "Classic Room", nil))

	booking, err := repo.Get(context.Background(), shared.FilterByID("booking-1", "id", "bookings"))

	require.NoError(t, err)
	require.NotNil(t, booking.RoomName)
	assert.Equal(t, "Classic Room", *booking.RoomName)
	assert.Nil(t, booking.UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetForUpdateTx(t *testing.T) {
	conn, mock := newConnection(t)
	repo := repository.NewRepository[roomRow]("room", "rooms", "id", conn, mocks.NewOtel())

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`SELECT .* FROM rooms\s+WHERE \(rooms.id = \$1\)\s+FOR UPDATE OF rooms`)
	prep.ExpectQuery().
		WithArgs("room-101").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "is_available"}).AddRow("room-101", "101", true))
	mock.ExpectCommit()

	sqltx, err := conn.Write.Beginx()
	require.NoError(t, err)

	room, err := repo.GetForUpdateTx(context.Background(), sqltx, shared.FilterByID("room-101", "id", "rooms"))
	require.NoError(t, err)
	assert.True(t, room.IsAvailable)

	require.NoError(t, sqltx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetForUpdateTxRequiresFilter(t *testing.T) {
	conn, mock := newConnection(t)
	repo := repository.NewRepository[roomRow]("room", "rooms", "id", conn, mocks.NewOtel())

	mock.ExpectBegin()

	sqltx, err := conn.Write.Beginx()
	require.NoError(t, err)

	_, err = repo.GetForUpdateTx(context.Background(), sqltx, gDto.FilterGroup{})
	assert.Error(t, err)
}

func TestRepository_CountTx(t *testing.T) {
	conn, mock := newConnection(t)
	repo := repository.NewRepository[bookingRow]("booking", "bookings", "id", conn, mocks.NewOtel())

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: "room_id", Value: "room-101", Operator: gDto.FilterOperatorEq, Table: "bookings"},
			gDto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: gDto.FilterOperatorIn, Table: "bookings"},
		},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`SELECT COUNT\(bookings.id\) FROM bookings .* WHERE \(bookings.room_id = \$1 AND bookings.status IN \(\$2, \$3\)\)`)
	prep.ExpectQuery().
		WithArgs("room-101", "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	sqltx, err := conn.Write.Beginx()
	require.NoError(t, err)

	count, err := repo.CountTx(context.Background(), sqltx, filter)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateTx(t *testing.T) {
	conn, mock := newConnection(t)
	repo := repository.NewRepository[roomRow]("room", "rooms", "id", conn, mocks.NewOtel())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rooms SET is_available = \$1, modified_by = \$2\s+WHERE \(rooms.id = \$3\)`).
		WithArgs(false, "tester", "room-101").
		WillReturnResult(sqlmock.NewResult(0, 1))

	sqltx, err := conn.Write.Beginx()
	require.NoError(t, err)

	err = repo.UpdateTx(context.Background(), sqltx, map[string]any{
		"is_available": false,
		"modified_by":  "tester",
	}, shared.FilterByID("room-101", "id", "rooms"))

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_InsertError(t *testing.T) {
	conn, mock := newConnection(t)
	repo := repository.NewRepository[roomRow]("room", "rooms", "id", conn, mocks.NewOtel())

	mock.ExpectExec(`INSERT INTO rooms \(id, room_number, is_available\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs("room-101", "101", true).
		WillReturnError(errors.New("connection reset"))

	err := repo.Insert(context.Background(), roomRow{ID: "room-101", RoomNumber: "101", IsAvailable: true})

	assert.ErrorContains(t, err, "failed to insert data (room)")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteRequiresFilter(t *testing.T) {
	conn, _ := newConnection(t)
	repo := repository.NewRepository[roomRow]("room", "rooms", "id", conn, mocks.NewOtel())

	assert.Error(t, repo.Delete(context.Background(), gDto.FilterGroup{}))
}

func TestRepository_BuildOrderClause(t *testing.T) {
	conn, _ := newConnection(t)
	repo := repository.NewRepository[bookingRow]("booking", "bookings", "id", conn, mocks.NewOtel())

	tests := []struct {
		name   string
		params gDto.QueryParams
		want   string
	}{
		{"empty", gDto.QueryParams{}, ""},
		{"own column", gDto.QueryParams{SortBy: "status", SortDir: "desc"}, "ORDER BY bookings.status DESC"},
		{"joined column", gDto.QueryParams{SortBy: "room_name"}, "ORDER BY rooms.room_name ASC"},
		{"aliased column", gDto.QueryParams{SortBy: "user_name", SortDir: "ASC"}, "ORDER BY user_name ASC"},
		{"multiple columns", gDto.QueryParams{SortBy: "room_name, status", SortDir: "ASC"}, "ORDER BY rooms.room_name ASC, bookings.status ASC"},
		{"qualified column", gDto.QueryParams{SortBy: "bookings.id"}, "ORDER BY bookings.id ASC"},
		{"unknown column dropped", gDto.QueryParams{SortBy: "id; DROP TABLE bookings"}, ""},
		{"invalid direction falls back", gDto.QueryParams{SortBy: "id", SortDir: "sideways"}, "ORDER BY bookings.id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repo.BuildOrderClause(tt.params))
		})
	}
}
