package service_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"hotel/config"
	"hotel/infras/kafka"
	kafkaMocks "hotel/infras/kafka/mocks"
	"hotel/infras/otel"
	"hotel/infras/otel/mocks"
	bookingMocks "hotel/internal/domains/booking/mocks"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/service"
	roomMocks "hotel/internal/domains/room/mocks"
	roomModel "hotel/internal/domains/room/model"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	txMocks "hotel/shared/repository/mocks"
	"hotel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

const (
	roomID       = "6f1d9c52-54a4-4f0a-9a53-2b1f1e0e5101"
	bookingID    = "booking-1"
	bookingTopic = "hotel.bookings"
)

type fixture struct {
	repo     *bookingMocks.MockBooking
	roomRepo *roomMocks.MockRoom
	tx       *txMocks.MockTransaction
	cache    *cacheMocks.MockRedisCache
	kafka    *kafkaMocks.MockClient
	svc      service.Booking

	mu      sync.Mutex
	cleared []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWithOtel(t, mocks.NewOtel())
}

func newFixtureWithOtel(t *testing.T, tracer otel.Otel) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     bookingMocks.NewMockBooking(ctrl),
		roomRepo: roomMocks.NewMockRoom(ctrl),
		tx:       txMocks.NewMockTransaction(ctrl),
		cache:    cacheMocks.NewMockRedisCache(ctrl),
		kafka:    kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Topics.Booking = bookingTopic

	f.svc = service.New(f.repo, f.roomRepo, f.tx, cfg, f.cache, tracer, f.kafka)

	f.tx.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		}).
		AnyTimes()

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, pattern string) error {
			f.mu.Lock()
			defer f.mu.Unlock()

			f.cleared = append(f.cleared, pattern)

			return nil
		}).
		AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return f
}

// expectEvents makes the fixture forward published booking events to the
// returned channel. Fixtures without it accept any publish.
func (f *fixture) expectEvents() <-chan dto.BookingEvent {
	events := make(chan dto.BookingEvent, 4)

	f.kafka.EXPECT().
		SendMessages(gomock.Any(), bookingTopic, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			for _, message := range messages {
				events <- message.Value.(dto.BookingEvent)
			}

			return nil
		}).
		AnyTimes()

	return events
}

func (f *fixture) clearedPatterns() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.cleared...)
}

func (f *fixture) ignoreEvents() {
	f.kafka.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
}

func receive(t *testing.T, events <-chan dto.BookingEvent) dto.BookingEvent {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		t.Fatal("booking event was not published")
	}

	return dto.BookingEvent{}
}

func userContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleUser)
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func room101(available bool) roomModel.Room {
	return roomModel.Room{
		ID:           roomID,
		RoomNumber:   "101",
		RoomName:     "Classic Room",
		RoomType:     roomModel.TypeClassic,
		Price:        150,
		IsAvailable:  available,
		MaxOccupancy: 2,
	}
}

func strPtr(s string) *string {
	return &s
}

func bookingWith(status model.Status) model.Booking {
	checkIn, _ := timezone.Parse(constant.DateOnlyFormat, "2026-03-01")
	checkOut, _ := timezone.Parse(constant.DateOnlyFormat, "2026-03-03")

	return model.Booking{
		ID:       bookingID,
		RoomID:   strPtr(roomID),
		UserID:   strPtr("customer-1"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Guests:   2,
		Status:   status,
	}
}

func createRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		RoomID:        roomID,
		CheckIn:       "2026-03-01",
		CheckOut:      "2026-03-03",
		Guests:        2,
		FirstName:     "Ana",
		LastName:      "Silva",
		Email:         "ana@example.com",
		PaymentMethod: "cc",
	}
}

func TestBookingService_CreateRoom101Scenario(t *testing.T) {
	f := newFixture(t)
	events := f.expectEvents()

	var (
		inserted    model.Booking
		roomChanges map[string]any
	)

	gomock.InOrder(
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(true), nil),
		f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil),
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
				inserted = booking

				return nil
			}),
		f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
				roomChanges = req

				return nil
			}),
	)

	res, err := f.svc.Create(userContext(), createRequest())

	require.NoError(t, err)
	assert.Equal(t, inserted.ID, res.ID)
	assert.NotEmpty(t, res.ID)

	assert.Equal(t, model.StatusPending, inserted.Status)
	assert.Equal(t, roomID, *inserted.RoomID)
	require.NotNil(t, inserted.UserID)
	assert.Equal(t, "customer-1", *inserted.UserID)
	assert.Equal(t, "Ana Silva", inserted.CustomerName)
	assert.Equal(t, 2, inserted.Nights())
	assert.InDelta(t, 300.0, inserted.TotalAmount, 0.001)
	assert.Equal(t, model.PaymentCreditCard, inserted.PaymentMethod)

	assert.Equal(t, false, roomChanges[roomModel.FieldIsAvailable])
	assert.Equal(t, "customer-1", roomChanges[constant.FieldModifiedBy])

	event := receive(t, events)
	assert.Equal(t, dto.EventBookingCreated, event.Type)
	assert.Equal(t, res.ID, event.BookingID)
	assert.Equal(t, roomID, *event.RoomID)
	assert.Equal(t, string(model.StatusPending), event.Status)
	assert.Equal(t, "customer-1", event.Actor)
}

func TestBookingService_CreateClearsRoomCacheBeforeReturning(t *testing.T) {
	f := newFixture(t)
	f.ignoreEvents()

	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(true), nil)
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.svc.Create(userContext(), createRequest())
	require.NoError(t, err)

	cleared := f.clearedPatterns()
	assert.Contains(t, cleared, "room:*")
	assert.Contains(t, cleared, "booking:gets*")
	assert.Contains(t, cleared, "booking:count*")
}

func TestBookingService_FailedWriteMarksSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	f := newFixtureWithOtel(t, otel.NewWithProvider(trace.NewTracerProvider(trace.WithSpanProcessor(recorder))))

	f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	err := f.svc.Delete(adminContext(), bookingID)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "service.booking.Delete", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "booking not found", spans[0].Status().Description)
}

func TestBookingService_CreateByAdminHasNoCustomer(t *testing.T) {
	f := newFixture(t)
	f.ignoreEvents()

	var inserted model.Booking

	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(true), nil)
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
			inserted = booking

			return nil
		})
	f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	req := createRequest()
	req.TotalAmount = 275

	_, err := f.svc.Create(adminContext(), req)

	require.NoError(t, err)
	assert.Nil(t, inserted.UserID)
	assert.InDelta(t, 275.0, inserted.TotalAmount, 0.001)
}

func TestBookingService_CreateFailures(t *testing.T) {
	tests := []struct {
		name      string
		req       func() dto.CreateBookingRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "inverted date range touches nothing",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.CheckIn, req.CheckOut = "2026-03-03", "2026-03-01"

				return req
			},
			setupMock: func(*fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "same day stay",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.CheckOut = req.CheckIn

				return req
			},
			setupMock: func(*fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "room not found",
			req:  createRequest,
			setupMock: func(f *fixture) {
				f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(roomModel.Room{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "room flagged unavailable",
			req:  createRequest,
			setupMock: func(f *fixture) {
				f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(false), nil)
				f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "room already holds an active booking",
			req:  createRequest,
			setupMock: func(f *fixture) {
				f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(true), nil)
				f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "too many guests",
			req: func() dto.CreateBookingRequest {
				req := createRequest()
				req.Guests = 3

				return req
			},
			setupMock: func(f *fixture) {
				f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(true), nil)
				f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unique index rejects a second active booking",
			req:  createRequest,
			setupMock: func(f *fixture) {
				f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room101(true), nil)
				f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "storage error",
			req:  createRequest,
			setupMock: func(f *fixture) {
				f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(roomModel.Room{}, errors.New("connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userContext(), tt.req())

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
			assert.Empty(t, res.ID)
		})
	}
}

// expectLock sets up the reads done before any booking write.
func expectLock(f *fixture, booking model.Booking, room roomModel.Room) {
	gomock.InOrder(
		f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil),
		f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(room, nil),
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil),
	)
}

func TestBookingService_TransitionTerminalFreesRoom(t *testing.T) {
	for _, status := range []string{"completed", "cancelled"} {
		t.Run(status, func(t *testing.T) {
			f := newFixture(t)
			events := f.expectEvents()

			current := bookingWith(model.StatusConfirmed)
			expectLock(f, current, room101(false))

			var updated map[string]any

			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					updated = req

					return nil
				})
			f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
			f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, true, req[roomModel.FieldIsAvailable])

					return nil
				})

			err := f.svc.Transition(adminContext(), dto.TransitionBookingRequest{Status: status}, bookingID)

			require.NoError(t, err)
			assert.Equal(t, model.Status(status), updated[model.FieldStatus])

			event := receive(t, events)
			assert.Equal(t, dto.EventBookingStatusChanged, event.Type)
			assert.Equal(t, status, event.Status)
			assert.Equal(t, "admin-1", event.Actor)
		})
	}
}

func TestBookingService_TransitionKeepsRoomHeldByAnotherBooking(t *testing.T) {
	f := newFixture(t)
	f.ignoreEvents()

	expectLock(f, bookingWith(model.StatusPending), room101(false))
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(1, nil)

	err := f.svc.Transition(adminContext(), dto.TransitionBookingRequest{Status: "cancelled"}, bookingID)

	assert.NoError(t, err)
}

func TestBookingService_TransitionConfirmLeavesRoomAlone(t *testing.T) {
	f := newFixture(t)
	f.ignoreEvents()

	expectLock(f, bookingWith(model.StatusPending), room101(false))
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := f.svc.Transition(adminContext(), dto.TransitionBookingRequest{Status: "confirmed", Guests: 1}, bookingID)

	assert.NoError(t, err)
}

func TestBookingService_TransitionWithoutStatusChangePublishesNothing(t *testing.T) {
	f := newFixture(t)

	expectLock(f, bookingWith(model.StatusConfirmed), room101(false))
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	err := f.svc.Transition(adminContext(), dto.TransitionBookingRequest{Guests: 1}, bookingID)

	assert.NoError(t, err)
}

func TestBookingService_TransitionFailures(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.TransitionBookingRequest
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name:      "empty request",
			req:       dto.TransitionBookingRequest{},
			setupMock: func(*fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "booking not found",
			req:  dto.TransitionBookingRequest{Status: "confirmed"},
			setupMock: func(f *fixture) {
				f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "terminal booking",
			req:  dto.TransitionBookingRequest{Status: "confirmed"},
			setupMock: func(f *fixture) {
				expectLock(f, bookingWith(model.StatusCompleted), room101(true))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "illegal edge",
			req:  dto.TransitionBookingRequest{Status: "completed"},
			setupMock: func(f *fixture) {
				expectLock(f, bookingWith(model.StatusPending), room101(false))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "inverted dates",
			req:  dto.TransitionBookingRequest{CheckIn: "2026-03-05"},
			setupMock: func(f *fixture) {
				expectLock(f, bookingWith(model.StatusPending), room101(false))
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "guests over room capacity",
			req:  dto.TransitionBookingRequest{Guests: 4},
			setupMock: func(f *fixture) {
				expectLock(f, bookingWith(model.StatusPending), room101(false))
			},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Transition(adminContext(), tt.req, bookingID)

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, failure.GetCode(err))
		})
	}
}

func TestBookingService_DeleteFreesRoom(t *testing.T) {
	f := newFixture(t)
	events := f.expectEvents()

	expectLock(f, bookingWith(model.StatusPending), room101(false))
	f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil)
	f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.Delete(adminContext(), bookingID))

	event := receive(t, events)
	assert.Equal(t, dto.EventBookingDeleted, event.Type)
	assert.Equal(t, bookingID, event.BookingID)
}

func TestBookingService_DeleteWithoutRoom(t *testing.T) {
	f := newFixture(t)
	f.ignoreEvents()

	booking := bookingWith(model.StatusCompleted)
	booking.RoomID = nil

	f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
	f.repo.EXPECT().DeleteTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	assert.NoError(t, f.svc.Delete(adminContext(), bookingID))
}

func TestBookingService_DeleteUnknownIsNotFound(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

	err := f.svc.Delete(adminContext(), "missing")

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_CreateThenCancelFreesRoom(t *testing.T) {
	f := newFixture(t)
	f.ignoreEvents()

	room := room101(true)

	var created model.Booking

	f.roomRepo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *sqlx.Tx, gDto.FilterGroup, ...string) (roomModel.Room, error) {
			return room, nil
		}).
		Times(2)
	f.repo.EXPECT().CountTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(0, nil).Times(2)
	f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, booking model.Booking) error {
			created = booking

			return nil
		})
	f.roomRepo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *sqlx.Tx, req map[string]any, _ gDto.FilterGroup) error {
			room.IsAvailable = req[roomModel.FieldIsAvailable].(bool)

			return nil
		}).
		Times(2)
	f.repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *sqlx.Tx, gDto.FilterGroup, ...string) (model.Booking, error) {
			return created, nil
		})
	f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *sqlx.Tx, gDto.FilterGroup, ...string) (model.Booking, error) {
			return created, nil
		})
	f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Create(userContext(), createRequest())
	require.NoError(t, err)
	assert.False(t, room.IsAvailable)

	err = f.svc.Transition(userContext(), dto.TransitionBookingRequest{Status: "cancelled"}, res.ID)
	require.NoError(t, err)
	assert.True(t, room.IsAvailable)
}

func TestBookingService_GetAll(t *testing.T) {
	f := newFixture(t)

	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).Times(2)
	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)
			assert.Equal(t, constant.DefaultValueSortDir, params.SortDir)

			booking := bookingWith(model.StatusCompleted)
			booking.RoomNumber = strPtr("101")

			return []model.Booking{booking}, nil
		})

	res, err := f.svc.GetAll(adminContext(), gDto.QueryParams{Page: 1, Limit: 10}, gDto.FilterGroup{})

	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Equal(t, 1, res.TotalPage)
	require.Len(t, res.Bookings, 1)
	assert.Equal(t, "101", *res.Bookings[0].RoomNumber)
	assert.Equal(t, model.PaymentStatusPaid, res.Bookings[0].PaymentStatus)
	assert.Equal(t, 2, res.Bookings[0].Nights)
}

func TestBookingService_Get(t *testing.T) {
	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func(f *fixture)
		wantCode  int
	}{
		{
			name: "owner reads own booking",
			ctx:  userContext(),
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingWith(model.StatusPending), nil)
			},
		},
		{
			name: "other customer sees not found",
			ctx: context.WithValue(
				context.WithValue(context.Background(), constant.ContextKeyUserID, "customer-2"),
				constant.ContextKeyUserRole, constant.RoleUser),
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(bookingWith(model.StatusPending), nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "not found",
			ctx:  adminContext(),
			setupMock: func(f *fixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
			tt.setupMock(f)

			res, err := f.svc.Get(tt.ctx, bookingID)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, bookingID, res.ID)
			assert.Equal(t, "2026-03-01", res.CheckIn)
		})
	}
}

func TestBookingService_Export(t *testing.T) {
	f := newFixture(t)

	var params gDto.QueryParams

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
			params = p

			return []model.Booking{bookingWith(model.StatusCompleted)}, nil
		})

	data, err := f.svc.Export(adminContext(), gDto.And())
	require.NoError(t, err)

	assert.Equal(t, 0, params.Page)
	assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)
	assert.Equal(t, constant.DefaultValueSortDir, params.SortDir)

	file, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)

	defer file.Close()

	rows, err := file.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, bookingID, rows[1][0])
	assert.Equal(t, "completed", rows[1][len(rows[1])-1])
}

func TestBookingService_ExportStorageError(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := f.svc.Export(adminContext(), gDto.And())

	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
}
