package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Booking=MockBookingService

import (
	"context"
	"fmt"

	"hotel/config"
	"hotel/infras/kafka"
	"hotel/infras/otel"
	"hotel/internal/domains/booking/model"
	"hotel/internal/domains/booking/model/dto"
	"hotel/internal/domains/booking/report"
	"hotel/internal/domains/booking/repository"
	roomModel "hotel/internal/domains/room/model"
	roomRepo "hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"
	"hotel/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
	cacheRoomPrefix    = "room:"

	maxExportRows = 10000
)

// Booking keeps each room's availability flag consistent with the bookings
// that reference it. Create, Transition and Delete lock the room row first so
// writes on one room are serialized.
type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Transition(ctx context.Context, req dto.TransitionBookingRequest, id string) error
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Export(ctx context.Context, filter gDto.FilterGroup) ([]byte, error)
}

type serviceImpl struct {
	repo     repository.Booking
	roomRepo roomRepo.Room
	tx       gRepo.Transaction
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	kafka    kafka.Client
}

func New(repo repository.Booking, roomRepo roomRepo.Room, tx gRepo.Transaction, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Booking {
	return &serviceImpl{
		repo:     repo,
		roomRepo: roomRepo,
		tx:       tx,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		kafka:    kafka,
	}
}

func roomFilter(id string) gDto.FilterGroup {
	return shared.FilterByID(id, roomModel.FieldID, roomModel.TableName)
}

func bookingFilter(id string) gDto.FilterGroup {
	return shared.FilterByID(id, model.FieldID, model.TableName)
}

func availability(available bool, user string) map[string]any {
	return map[string]any{
		roomModel.FieldIsAvailable: available,
		constant.FieldModifiedAt:   timezone.Now(),
		constant.FieldModifiedBy:   user,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	checkIn, checkOut, err := req.DateRange()
	if err != nil {
		return res, err
	}

	var userID *string
	if role == constant.RoleUser && user != constant.Empty {
		userID = &user
	}

	var created model.Booking

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		room, err := s.roomRepo.GetForUpdateTx(ctx, sqltx, roomFilter(req.RoomID))
		if err != nil {
			log.Error().Err(err).Str("room_id", req.RoomID).Msg("failed to lock room")

			return fmt.Errorf("failed to lock room: %w", err)
		}

		if room.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		active, err := s.repo.CountTx(ctx, sqltx, repository.ActiveForRoom(room.ID, constant.Empty))
		if err != nil {
			log.Error().Err(err).Str("room_id", room.ID).Msg("failed to count active bookings")

			return fmt.Errorf("failed to count active bookings: %w", err)
		}

		if !room.IsAvailable || active > 0 {
			return failure.Conflict(fmt.Sprintf("room %s is not available", room.RoomNumber)) // nolint:wrapcheck
		}

		booking := req.ToModel(user, userID, &room.ID, room.Price, checkIn, checkOut)

		if room.MaxOccupancy > 0 && booking.Guests > room.MaxOccupancy {
			return failure.BadRequestFromString(fmt.Sprintf("room %s accepts at most %d guests", room.RoomNumber, room.MaxOccupancy)) // nolint:wrapcheck
		}

		if err = s.repo.InsertTx(ctx, sqltx, booking); err != nil {
			if failure.IsUniqueViolation(err) {
				return failure.Conflict(fmt.Sprintf("room %s already has an active booking", room.RoomNumber)) // nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to create booking")

			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err = s.roomRepo.UpdateTx(ctx, sqltx, availability(false, user), roomFilter(room.ID)); err != nil {
			log.Error().Err(err).Str("room_id", room.ID).Msg("failed to mark room unavailable")

			return fmt.Errorf("failed to mark room unavailable: %w", err)
		}

		res.ID = booking.ID
		created = booking

		return nil
	})
	if err != nil {
		return dto.CreateBookingResponse{}, err // nolint:wrapcheck
	}

	s.invalidate(ctx, constant.Empty)
	s.publish(ctx, dto.NewBookingEvent(dto.EventBookingCreated, created, user))

	return res, nil
}

// lock reads the booking, locks its room and then the booking row. Rooms are
// always locked before bookings. room is empty when the booking no longer
// references one.
func (s *serviceImpl) lock(ctx context.Context, sqltx *sqlx.Tx, id string) (booking model.Booking, room roomModel.Room, err error) {
	current, err := s.repo.GetTx(ctx, sqltx, bookingFilter(id))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, room, fmt.Errorf("failed to get booking: %w", err)
	}

	if current.ID == constant.Empty {
		return booking, room, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if current.RoomID != nil {
		room, err = s.roomRepo.GetForUpdateTx(ctx, sqltx, roomFilter(*current.RoomID))
		if err != nil {
			log.Error().Err(err).Str("room_id", *current.RoomID).Msg("failed to lock room")

			return booking, room, fmt.Errorf("failed to lock room: %w", err)
		}
	}

	booking, err = s.repo.GetForUpdateTx(ctx, sqltx, bookingFilter(id))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to lock booking")

		return booking, room, fmt.Errorf("failed to lock booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, room, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, room, nil
}

// release marks room available again unless another active booking still
// holds it.
func (s *serviceImpl) release(ctx context.Context, sqltx *sqlx.Tx, room roomModel.Room, bookingID, user string) error {
	if room.ID == constant.Empty || room.IsAvailable {
		return nil
	}

	active, err := s.repo.CountTx(ctx, sqltx, repository.ActiveForRoom(room.ID, bookingID))
	if err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to count active bookings")

		return fmt.Errorf("failed to count active bookings: %w", err)
	}

	if active > 0 {
		log.Warn().Str("room_id", room.ID).Int("active", active).Msg("room still held by another booking")

		return nil
	}

	if err = s.roomRepo.UpdateTx(ctx, sqltx, availability(true, user), roomFilter(room.ID)); err != nil {
		log.Error().Err(err).Str("room_id", room.ID).Msg("failed to mark room available")

		return fmt.Errorf("failed to mark room available: %w", err)
	}

	return nil
}

func (s *serviceImpl) Transition(ctx context.Context, req dto.TransitionBookingRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Transition")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var (
		changed model.Booking
		from    model.Status
	)

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		booking, room, err := s.lock(ctx, sqltx, id)
		if err != nil {
			return err
		}

		if booking.Status.IsTerminal() {
			return failure.BadRequestFromString(fmt.Sprintf("booking is already %s", booking.Status)) // nolint:wrapcheck
		}

		update, err := req.Resolve(booking)
		if err != nil {
			return err //nolint:wrapcheck
		}

		if update.Guests > 0 && room.MaxOccupancy > 0 && update.Guests > room.MaxOccupancy {
			return failure.BadRequestFromString(fmt.Sprintf("room %s accepts at most %d guests", room.RoomNumber, room.MaxOccupancy)) // nolint:wrapcheck
		}

		if err = s.repo.UpdateTx(ctx, sqltx, shared.TransformFields(update, user), bookingFilter(id)); err != nil {
			log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking")

			return fmt.Errorf("failed to update booking: %w", err)
		}

		from = booking.Status
		changed = booking
		changed.Status = update.Status

		if !update.Status.IsTerminal() {
			return nil
		}

		return s.release(ctx, sqltx, room, booking.ID, user)
	})
	if err != nil {
		return err // nolint:wrapcheck
	}

	s.invalidate(ctx, id)

	if changed.Status != from {
		s.publish(ctx, dto.NewBookingEvent(dto.EventBookingStatusChanged, changed, user))
	}

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	var deleted model.Booking

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		booking, room, err := s.lock(ctx, sqltx, id)
		if err != nil {
			return err
		}

		deleted = booking

		if err = s.repo.DeleteTx(ctx, sqltx, bookingFilter(booking.ID)); err != nil {
			log.Error().Err(err).Str("booking_id", id).Msg("failed to delete booking")

			return fmt.Errorf("failed to delete booking: %w", err)
		}

		return s.release(ctx, sqltx, room, booking.ID, user)
	})
	if err != nil {
		return err // nolint:wrapcheck
	}

	s.invalidate(ctx, id)
	s.publish(ctx, dto.NewBookingEvent(dto.EventBookingDeleted, deleted, user))

	return nil
}

// publish sends event keyed by room id, so a room's events share a partition.
// Delivery is asynchronous and unordered across calls. Failures are logged and
// never fail the request.
func (s *serviceImpl) publish(ctx context.Context, event dto.BookingEvent) {
	key := event.BookingID
	if event.RoomID != nil {
		key = *event.RoomID
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.Booking, kafka.Message{Key: key, Value: event}); err != nil {
			log.Error().Err(err).Str("booking_id", event.BookingID).Str("event", event.Type).Msg("failed to publish booking event")
		}
	}()
}

// invalidate drops cached booking reads and every room read, since writes
// here flip room availability. It runs before the write returns so the next
// room read sees the new flag.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	c := context.WithoutCancel(ctx)

	if id != constant.Empty {
		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}
	}

	shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
	shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	shared.InvalidateCaches(c, s.cache, cacheRoomPrefix)
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.WithDefaultSort(constant.DefaultValueSortBy, constant.DefaultValueSortDir)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

// Get returns one booking. A customer asking for someone else's booking gets
// the same NotFound as for an unknown id.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		booking, err := s.repo.Get(ctx, bookingFilter(id))
		if err != nil {
			log.Error().Err(err).Msg("failed to get booking")

			return res, fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.ID == constant.Empty {
			return res, failure.NotFound("booking not found") // nolint:wrapcheck
		}

		res.FromModel(booking)

		go func(cached dto.BookingResponse) {
			c := context.WithoutCancel(ctx)

			if err := s.cache.Save(c, cacheKey, cached, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}(res)
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if role == constant.RoleUser && (res.UserID == nil || *res.UserID != user) {
		return dto.BookingResponse{}, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return res, nil
}

// Export renders the newest bookings matching filter as an xlsx workbook. It
// always reads from the database so the sheet reflects committed state.
func (s *serviceImpl) Export(ctx context.Context, filter gDto.FilterGroup) (res []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Export")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{Limit: maxExportRows}
	params.WithDefaultSort(constant.DefaultValueSortBy, constant.DefaultValueSortDir)

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for export")

		return nil, fmt.Errorf("failed to get bookings for export: %w", err)
	}

	rows := make([]dto.BookingResponse, len(models))
	for i, booking := range models {
		rows[i].FromModel(booking)
	}

	res, err = report.Bookings(rows)
	if err != nil {
		log.Error().Err(err).Int("rows", len(rows)).Msg("failed to render booking export")

		return nil, fmt.Errorf("failed to render booking export: %w", err)
	}

	scope.SetAttribute("export.rows", len(rows))

	return res, nil
}
