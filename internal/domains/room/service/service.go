package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Room=MockRoomService

import (
	"context"
	"fmt"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/infras/s3"
	bookingRepo "hotel/internal/domains/booking/repository"
	"hotel/internal/domains/room/model"
	"hotel/internal/domains/room/model/dto"
	"hotel/internal/domains/room/repository"
	"hotel/shared"
	"hotel/shared/cache"
	"hotel/shared/constant"
	gDto "hotel/shared/dto"
	"hotel/shared/failure"
	gRepo "hotel/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom       = "room:get"
	cacheGetAllRoom    = "room:gets"
	cacheCountRoom     = "room:count"
	cacheAvailableRoom = "room:available"
	cacheBookingPrefix = "booking:"

	sortAvailable = model.FieldRoomType + "," + model.FieldRoomNumber
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.CreateRoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetRoomsResponse, error)
	GetAvailable(ctx context.Context, req gDto.QueryParams) (dto.GetRoomsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) error
	Delete(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo        repository.Room
	bookingRepo bookingRepo.Booking
	tx          gRepo.Transaction
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	s3          s3.S3
}

func New(repo repository.Room, bookingRepo bookingRepo.Booking, tx gRepo.Transaction, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Room {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		tx:          tx,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		s3:          s3,
	}
}

func duplicateNumber(number string) error {
	return failure.Conflict(fmt.Sprintf("room number %s already exists", number))
}

// upload stores the image and returns its URL and object key. Both are empty
// when the request carries no image.
func (s *serviceImpl) upload(ctx context.Context, image dto.Image) (url, key string, err error) {
	if image.Header == nil {
		return constant.Empty, constant.Empty, nil
	}

	url, err = s.s3.Upload(ctx, model.EntityName, image.ObjectName(), image.ContentType(), image.File, image.Header.Size)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload room image")

		return constant.Empty, constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, s.s3.ObjectKeyFromURL(url), nil
}

func (s *serviceImpl) removeObject(ctx context.Context, key string) {
	if key == constant.Empty {
		return
	}

	if err := s.s3.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to remove room image")
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.CreateRoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exist, err := s.repo.Exist(ctx, repository.ByNumber(req.RoomNumber))
	if err != nil {
		log.Error().Err(err).Msg("failed to check room number")

		return res, fmt.Errorf("failed to check room number: %w", err)
	}

	if exist {
		return res, duplicateNumber(req.RoomNumber) // nolint:wrapcheck
	}

	imageURL, key, err := s.upload(ctx, req.Image)
	if err != nil {
		return res, err
	}

	room := req.ToModel(user, imageURL)

	if err = s.repo.Insert(ctx, room); err != nil {
		s.removeObject(context.WithoutCancel(ctx), key)

		if failure.IsUniqueViolation(err) {
			return res, duplicateNumber(req.RoomNumber) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create room")

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	s.invalidate(ctx, constant.Empty)

	res.ID = room.ID

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.WithDefaultSort(model.FieldRoomNumber, gDto.SortDirAsc)

	return s.list(ctx, cacheGetAllRoom, req, filter)
}

// GetAvailable lists rooms that can be booked, grouped by type.
func (s *serviceImpl) GetAvailable(ctx context.Context, req gDto.QueryParams) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.GetAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.SortBy = sortAvailable
	req.SortDir = gDto.SortDirAsc

	filter := gDto.And(gDto.Filter{
		Field:    model.FieldIsAvailable,
		Operator: gDto.FilterOperatorEq,
		Value:    true,
		Table:    model.TableName,
	})

	return s.list(ctx, cacheAvailableRoom, req, filter)
}

func (s *serviceImpl) list(ctx context.Context, prefix string, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetRoomsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(prefix, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save rooms to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, _ gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	room, err := s.repo.Get(ctx, repository.ByID(id))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return res, fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return res, failure.NotFound("room not found") // nolint:wrapcheck
	}

	res.FromModel(room)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save room to cache")
		}
	}()

	return res, nil
}

// Update applies a partial update under the room lock. A room cannot be
// flagged available while an active booking still holds it.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req.ResolveStatus()

	imageURL, key, err := s.upload(ctx, req.Image)
	if err != nil {
		return err
	}

	var previousImage string

	err = s.tx.WithTransaction(ctx, func(sqltx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdateTx(ctx, sqltx, repository.ByID(id))
		if err != nil {
			log.Error().Err(err).Str("room_id", id).Msg("failed to lock room")

			return fmt.Errorf("failed to lock room: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("room not found") // nolint:wrapcheck
		}

		if req.IsAvailable != nil && *req.IsAvailable && !current.IsAvailable {
			active, err := s.bookingRepo.CountTx(ctx, sqltx, bookingRepo.ActiveForRoom(current.ID, constant.Empty))
			if err != nil {
				log.Error().Err(err).Str("room_id", id).Msg("failed to count active bookings")

				return fmt.Errorf("failed to count active bookings: %w", err)
			}

			if active > 0 {
				return failure.Conflict(fmt.Sprintf("room %s still has an active booking", current.RoomNumber)) // nolint:wrapcheck
			}
		}

		fields := shared.TransformFields(req, user)
		if imageURL != constant.Empty {
			fields[model.FieldImageURL] = imageURL
		}

		if err = s.repo.UpdateTx(ctx, sqltx, fields, repository.ByID(id)); err != nil {
			if failure.IsUniqueViolation(err) {
				return duplicateNumber(req.RoomNumber)
			}

			log.Error().Err(err).Str("room_id", id).Msg("failed to update room")

			return fmt.Errorf("failed to update room: %w", err)
		}

		previousImage = current.ImageURL

		return nil
	})
	if err != nil {
		s.removeObject(context.WithoutCancel(ctx), key)

		return err // nolint:wrapcheck
	}

	if imageURL != constant.Empty && previousImage != constant.Empty {
		s.removeObject(ctx, s.s3.ObjectKeyFromURL(previousImage))
	}

	s.invalidate(ctx, id)

	return nil
}

// Delete removes the room. Its bookings stay as history with the room
// reference cleared by the foreign key.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".room.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	room, err := s.repo.Get(ctx, repository.ByID(id), model.FieldID, model.FieldImageURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return fmt.Errorf("failed to get room: %w", err)
	}

	if room.ID == constant.Empty {
		return failure.NotFound("room not found") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, repository.ByID(id)); err != nil {
		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	if room.ImageURL != constant.Empty {
		s.removeObject(ctx, s.s3.ObjectKeyFromURL(room.ImageURL))
	}

	s.invalidate(ctx, id)

	return nil
}

// invalidate drops room reads and booking reads, which embed room details.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	c := context.WithoutCancel(ctx)

	if id != constant.Empty {
		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete room from cache")
		}
	}

	shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
	shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	shared.InvalidateCaches(c, s.cache, cacheAvailableRoom)
	shared.InvalidateCaches(c, s.cache, cacheBookingPrefix)
}
